package variogram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syntheticEmpirical fabricates Matheron bins whose ordinates equal ys, for
// exercising the fitting engine on known curves.
func syntheticEmpirical(xs, ys []float64, counts []uint64) *Empirical {
	n := len(xs)
	e := &Empirical{
		nlags:     n,
		maxlag:    xs[n-1],
		distance:  "euclidean",
		estimator: MatheronEstimator{},
		unit:      Unitless,
		counts:    make([]uint64, n),
		lagSums:   make([]float64, n),
		states:    make([]binState, n),
	}
	for k := range xs {
		c := uint64(1)
		if counts != nil {
			c = counts[k]
		}
		e.counts[k] = c
		e.lagSums[k] = xs[k] * float64(c)
		e.states[k][0] = ys[k] * 2 * float64(c)
	}
	return e
}

func modelCurve(m Model, xs []float64) []float64 {
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = m.Evaluate(x)
	}
	return ys
}

func lagAxis(n int, step float64) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i+1) * step
	}
	return xs
}

func TestPowerModelRecovery(t *testing.T) {
	a := assert.New(t)

	truth := NewPowerModel(1.0, 0.2, 1.5)
	xs := lagAxis(200, 0.01)
	ys := modelCurve(truth, xs)

	fitted, residual, err := FitData(Power, xs, ys, FitOptions{})
	require.NoError(t, err)

	p := fitted.Params()
	a.InDelta(1.0, p["scaling"], 1e-3)
	a.InDelta(0.2, p["nugget"], 1e-3)
	a.InDelta(1.5, p["exponent"], 1e-3)
	a.Less(residual, 1e-8)
}

func TestSphericalRecovery(t *testing.T) {
	a := assert.New(t)

	truth := NewSphericalModel(nil, 2.0, 1.0, 0.2)
	xs := lagAxis(30, 0.1)
	emp := syntheticEmpirical(xs, modelCurve(truth, xs), nil)

	fitted, residual, err := Fit(Spherical, emp, FitOptions{})
	require.NoError(t, err)

	p := fitted.Params()
	a.InDelta(2.0, p["range"], 1e-2)
	a.InDelta(1.0, p["sill"], 1e-2)
	a.InDelta(0.2, p["nugget"], 1e-2)
	a.Less(residual, 1e-6)
}

func TestFixedParameterContract(t *testing.T) {
	a := assert.New(t)

	truth := NewSphericalModel(nil, 2.0, 1.0, 0.2)
	xs := lagAxis(30, 0.1)
	emp := syntheticEmpirical(xs, modelCurve(truth, xs), nil)

	fitted, _, err := Fit(Spherical, emp, FitOptions{
		Fixed: map[string]float64{"nugget": 0.05},
	})
	require.NoError(t, err)
	a.InDelta(0.05, fitted.Params()["nugget"], 1e-6)
}

func TestMaxParameterCap(t *testing.T) {
	a := assert.New(t)

	truth := NewSphericalModel(nil, 2.0, 1.0, 0.0)
	xs := lagAxis(30, 0.1)
	emp := syntheticEmpirical(xs, modelCurve(truth, xs), nil)

	fitted, _, err := Fit(Spherical, emp, FitOptions{
		Max: map[string]float64{"sill": 0.8},
	})
	require.NoError(t, err)
	a.LessOrEqual(fitted.Params()["sill"], 0.8+1e-9)
}

func TestMultiCandidateSelection(t *testing.T) {
	a := assert.New(t)

	truth := NewSphericalModel(nil, 2.0, 1.0, 0.1)
	xs := lagAxis(30, 0.1)
	emp := syntheticEmpirical(xs, modelCurve(truth, xs), nil)

	best, residual, err := FitBest([]ModelType{Spherical, Nugget}, emp, FitOptions{})
	require.NoError(t, err)

	a.Equal(Spherical, best.Type())
	a.Less(residual, 1e-6)

	_, nuggetResidual, err := Fit(Nugget, emp, FitOptions{})
	require.NoError(t, err)
	a.LessOrEqual(residual, nuggetResidual)
}

func TestPiecewiseLinearBypass(t *testing.T) {
	a := assert.New(t)

	xs := []float64{0.5, 1.0, 1.5}
	ys := []float64{0.2, 0.5, 0.6}
	emp := syntheticEmpirical(xs, ys, nil)

	fitted, residual, err := Fit(PiecewiseLinear, emp, FitOptions{})
	require.NoError(t, err)
	a.Equal(0.0, residual)
	for i, x := range xs {
		a.InDelta(ys[i], fitted.Evaluate(x), 1e-9)
	}
}

func TestUserWeightFunction(t *testing.T) {
	a := assert.New(t)

	truth := NewExponentialModel(nil, 2.0, 1.0, 0.1)
	xs := lagAxis(25, 0.1)
	emp := syntheticEmpirical(xs, modelCurve(truth, xs), nil)

	fitted, residual, err := Fit(Exponential, emp, FitOptions{
		Weights: func(h float64) float64 { return 1 / (1 + h) },
	})
	require.NoError(t, err)
	a.NotNil(fitted)
	a.Less(residual, 1e-4)
}

func TestFitPreconditions(t *testing.T) {
	a := assert.New(t)

	xs := lagAxis(10, 0.1)
	emp := syntheticEmpirical(xs, xs, nil)

	_, _, err := FitBest(nil, emp, FitOptions{})
	a.ErrorIs(err, ErrNoCandidates)

	empty := syntheticEmpirical(xs, xs, make([]uint64, len(xs)))
	_, _, err = Fit(Spherical, empty, FitOptions{})
	a.ErrorIs(err, ErrEmptyBins)

	_, _, err = Fit(Spherical, emp, FitOptions{
		Fixed: map[string]float64{"sill": 5},
		Max:   map[string]float64{"sill": 1},
	})
	a.ErrorIs(err, ErrInfeasibleBounds)

	_, _, err = Fit(Composite, emp, FitOptions{})
	a.Error(err)
}
