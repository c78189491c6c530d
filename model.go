package variogram

import (
	"math"
	"sort"
)

// MetricBall is the anisotropy descriptor attached to a theoretical model:
// the metric and radius defining its support.
type MetricBall struct {
	Radius float64
	Metric Metric
}

// Model is a closed-form parametric dependence function of lag.
type Model interface {
	Type() ModelType
	// Evaluate returns the model value at lag h. Evaluate(0) is 0; the
	// nugget is the discontinuity just above zero.
	Evaluate(h float64) float64
	// Params returns the named scalar parameters of the instance.
	Params() map[string]float64
	// EffectiveRange is the lag beyond which correlation is negligible,
	// used to seed and bound the fitting engine. Unbounded families
	// return +Inf.
	EffectiveRange() float64
}

// GaussianModel: gamma(h) = nugget + (sill-nugget) (1 - exp(-3 (h/range)^2)).
type GaussianModel struct {
	Range, Sill, Nugget float64
	Ball                *MetricBall
}

func NewGaussianModel(ball *MetricBall, rang, sill, nugget float64) *GaussianModel {
	return &GaussianModel{Range: rang, Sill: sill, Nugget: nugget, Ball: ball}
}

func (m *GaussianModel) Type() ModelType { return Gaussian }

func (m *GaussianModel) Evaluate(h float64) float64 {
	if h <= 0 {
		return 0
	}
	x := h / m.Range
	return m.Nugget + (m.Sill-m.Nugget)*(1.0-exp(-3*pow2(x)))
}

func (m *GaussianModel) Params() map[string]float64 {
	return map[string]float64{"range": m.Range, "sill": m.Sill, "nugget": m.Nugget}
}

func (m *GaussianModel) EffectiveRange() float64 { return m.Range }

// ExponentialModel: gamma(h) = nugget + (sill-nugget) (1 - exp(-3 h/range)).
type ExponentialModel struct {
	Range, Sill, Nugget float64
	Ball                *MetricBall
}

func NewExponentialModel(ball *MetricBall, rang, sill, nugget float64) *ExponentialModel {
	return &ExponentialModel{Range: rang, Sill: sill, Nugget: nugget, Ball: ball}
}

func (m *ExponentialModel) Type() ModelType { return Exponential }

func (m *ExponentialModel) Evaluate(h float64) float64 {
	if h <= 0 {
		return 0
	}
	x := h / m.Range
	return m.Nugget + (m.Sill-m.Nugget)*(1.0-exp(-3*x))
}

func (m *ExponentialModel) Params() map[string]float64 {
	return map[string]float64{"range": m.Range, "sill": m.Sill, "nugget": m.Nugget}
}

func (m *ExponentialModel) EffectiveRange() float64 { return m.Range }

// SphericalModel: reaches the sill exactly at the range.
type SphericalModel struct {
	Range, Sill, Nugget float64
	Ball                *MetricBall
}

func NewSphericalModel(ball *MetricBall, rang, sill, nugget float64) *SphericalModel {
	return &SphericalModel{Range: rang, Sill: sill, Nugget: nugget, Ball: ball}
}

func (m *SphericalModel) Type() ModelType { return Spherical }

func (m *SphericalModel) Evaluate(h float64) float64 {
	if h <= 0 {
		return 0
	}
	if h >= m.Range {
		return m.Sill
	}
	x := h / m.Range
	return m.Nugget + (m.Sill-m.Nugget)*(1.5*x-0.5*pow3(x))
}

func (m *SphericalModel) Params() map[string]float64 {
	return map[string]float64{"range": m.Range, "sill": m.Sill, "nugget": m.Nugget}
}

func (m *SphericalModel) EffectiveRange() float64 { return m.Range }

// MaternModel with half-integer smoothness (0.5, 1.5 or 2.5), the closed
// forms; smoothness is a constructor choice, never a fitted parameter.
type MaternModel struct {
	Range, Sill, Nugget float64
	Smoothness          float64
	Ball                *MetricBall
}

func NewMaternModel(ball *MetricBall, rang, sill, nugget, smoothness float64) *MaternModel {
	return &MaternModel{Range: rang, Sill: sill, Nugget: nugget, Smoothness: smoothness, Ball: ball}
}

func (m *MaternModel) Type() ModelType { return Matern }

func (m *MaternModel) Evaluate(h float64) float64 {
	if h <= 0 {
		return 0
	}
	u := math.Sqrt(2*m.Smoothness) * h / m.Range
	var corr float64
	switch {
	case m.Smoothness <= 0.5:
		corr = exp(-u)
	case m.Smoothness <= 1.5:
		corr = (1 + u) * exp(-u)
	default:
		corr = (1 + u + pow2(u)/3) * exp(-u)
	}
	return m.Nugget + (m.Sill-m.Nugget)*(1-corr)
}

func (m *MaternModel) Params() map[string]float64 {
	return map[string]float64{
		"range": m.Range, "sill": m.Sill, "nugget": m.Nugget,
		"smoothness": m.Smoothness,
	}
}

func (m *MaternModel) EffectiveRange() float64 { return m.Range }

// PowerModel: gamma(h) = nugget + scaling h^exponent, exponent in [0, 2).
// Unbounded, so it has no sill or range.
type PowerModel struct {
	Scaling, Nugget, Exponent float64
}

func NewPowerModel(scaling, nugget, exponent float64) *PowerModel {
	return &PowerModel{Scaling: scaling, Nugget: nugget, Exponent: exponent}
}

func (m *PowerModel) Type() ModelType { return Power }

func (m *PowerModel) Evaluate(h float64) float64 {
	if h <= 0 {
		return 0
	}
	return m.Nugget + m.Scaling*math.Pow(h, m.Exponent)
}

func (m *PowerModel) Params() map[string]float64 {
	return map[string]float64{"scaling": m.Scaling, "nugget": m.Nugget, "exponent": m.Exponent}
}

func (m *PowerModel) EffectiveRange() float64 { return math.Inf(1) }

// NuggetModel is pure measurement noise: a constant above lag zero.
type NuggetModel struct {
	Nugget float64
}

func NewNuggetModel(nugget float64) *NuggetModel { return &NuggetModel{Nugget: nugget} }

func (m *NuggetModel) Type() ModelType { return Nugget }

func (m *NuggetModel) Evaluate(h float64) float64 {
	if h <= 0 {
		return 0
	}
	return m.Nugget
}

func (m *NuggetModel) Params() map[string]float64 {
	return map[string]float64{"nugget": m.Nugget}
}

func (m *NuggetModel) EffectiveRange() float64 { return 0 }

// PiecewiseLinearModel interpolates empirical bins directly. It is the
// special-cased family the fitting engine builds without optimization.
type PiecewiseLinearModel struct {
	Xs, Ys []float64
}

// NewPiecewiseLinearModel builds the interpolant from sorted abscissas and
// their ordinates; pairs need not be sorted on input.
func NewPiecewiseLinearModel(xs, ys []float64) *PiecewiseLinearModel {
	type pt struct{ x, y float64 }
	pts := make([]pt, len(xs))
	for i := range xs {
		pts[i] = pt{xs[i], ys[i]}
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].x < pts[j].x })
	m := &PiecewiseLinearModel{Xs: make([]float64, len(pts)), Ys: make([]float64, len(pts))}
	for i, p := range pts {
		m.Xs[i] = p.x
		m.Ys[i] = p.y
	}
	return m
}

func (m *PiecewiseLinearModel) Type() ModelType { return PiecewiseLinear }

func (m *PiecewiseLinearModel) Evaluate(h float64) float64 {
	if h <= 0 || len(m.Xs) == 0 {
		return 0
	}
	n := len(m.Xs)
	if h <= m.Xs[0] {
		// Linear from the origin to the first knot.
		return m.Ys[0] * h / m.Xs[0]
	}
	if h >= m.Xs[n-1] {
		return m.Ys[n-1]
	}
	i := sort.SearchFloat64s(m.Xs, h)
	x0, x1 := m.Xs[i-1], m.Xs[i]
	y0, y1 := m.Ys[i-1], m.Ys[i]
	return y0 + (y1-y0)*(h-x0)/(x1-x0)
}

func (m *PiecewiseLinearModel) Params() map[string]float64 {
	return map[string]float64{}
}

func (m *PiecewiseLinearModel) EffectiveRange() float64 {
	if len(m.Xs) == 0 {
		return 0
	}
	return m.Xs[len(m.Xs)-1]
}

// WeightedModel is one member of a composite sum.
type WeightedModel struct {
	Coefficient float64
	Model       Model
}

// CompositeModel evaluates the weighted sum of its members. Composites are
// evaluated, not fitted.
type CompositeModel struct {
	Members []WeightedModel
}

func NewCompositeModel(members ...WeightedModel) *CompositeModel {
	return &CompositeModel{Members: members}
}

func (m *CompositeModel) Type() ModelType { return Composite }

func (m *CompositeModel) Evaluate(h float64) float64 {
	var sum float64
	for _, w := range m.Members {
		sum += w.Coefficient * w.Model.Evaluate(h)
	}
	return sum
}

func (m *CompositeModel) Params() map[string]float64 {
	return map[string]float64{}
}

func (m *CompositeModel) EffectiveRange() float64 {
	var r float64
	for _, w := range m.Members {
		r = math.Max(r, w.Model.EffectiveRange())
	}
	return r
}
