package variogram

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// FitOptions tunes the weighted least-squares fit.
type FitOptions struct {
	// Fixed pins named parameters to exact values; the optimizer sees a
	// degenerate interval [v-eps, v+eps].
	Fixed map[string]float64
	// Max caps named parameters from above.
	Max map[string]float64
	// Weights overrides the default per-bin count weighting with a function
	// of lag.
	Weights func(h float64) float64
}

// fixedEps is the half-width of the degenerate interval around a fixed
// parameter.
const fixedEps = 1e-8

// Fit fits one model family to an empirical function by constrained
// weighted least squares and returns the fitted model with its residual
// (final objective value). Zero-count bins are discarded first. Lags are
// treated as plain numbers during optimization; fitted parameters are in the
// empirical function's lag unit.
//
// A non-converged optimization is not an error: the best point found is
// returned and the residual tells the caller how good it is.
func Fit(family ModelType, emp *Empirical, opts FitOptions) (Model, float64, error) {
	xs, ys, ws := usableBins(emp, opts.Weights)
	if len(xs) == 0 {
		return nil, 0, ErrEmptyBins
	}
	return fitData(family, xs, ys, ws, opts)
}

// FitData fits one model family to raw (lag, ordinate) pairs with uniform
// weights, for callers holding unbinned estimates.
func FitData(family ModelType, xs, ys []float64, opts FitOptions) (Model, float64, error) {
	if len(xs) == 0 || len(xs) != len(ys) {
		return nil, 0, ErrEmptyBins
	}
	ws := make([]float64, len(xs))
	for i := range ws {
		ws[i] = 1 / float64(len(ws))
	}
	if opts.Weights != nil {
		for i, x := range xs {
			ws[i] = opts.Weights(x)
		}
	}
	return fitData(family, xs, ys, ws, opts)
}

// FitBest fits every candidate family independently, in parallel, and
// returns the lowest-residual result. Ties keep the earliest candidate.
func FitBest(families []ModelType, emp *Empirical, opts FitOptions) (Model, float64, error) {
	if len(families) == 0 {
		return nil, 0, ErrNoCandidates
	}
	models := make([]Model, len(families))
	residuals := make([]float64, len(families))
	var g errgroup.Group
	for i, family := range families {
		g.Go(func() error {
			m, r, err := Fit(family, emp, opts)
			if err != nil {
				return err
			}
			models[i] = m
			residuals[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	best := 0
	for i := 1; i < len(families); i++ {
		if residuals[i] < residuals[best] {
			best = i
		}
	}
	return models[best], residuals[best], nil
}

// usableBins drops zero-count bins and computes per-bin weights: normalized
// counts by default, a user function of lag otherwise.
func usableBins(emp *Empirical, weights func(h float64) float64) (xs, ys, ws []float64) {
	counts := emp.Counts()
	abscissas := emp.Abscissas()
	ordinates := emp.Ordinates()
	var total float64
	for _, c := range counts {
		total += float64(c)
	}
	for k := range counts {
		if counts[k] == 0 {
			continue
		}
		xs = append(xs, abscissas[k])
		ys = append(ys, ordinates[k])
		if weights != nil {
			ws = append(ws, weights(abscissas[k]))
		} else {
			ws = append(ws, float64(counts[k])/total)
		}
	}
	return xs, ys, ws
}

// param is one free parameter of a family: its box and initial guess.
type param struct {
	name string
	lo   float64
	hi   float64
	init float64
}

// familySpec describes how to fit one family: its free parameters, the
// constructor from a parameter vector, and a non-negative violation measure
// for constraints beyond the boxes.
type familySpec struct {
	params  []param
	make    func(v []float64) Model
	violate func(v []float64) float64
}

// sillAboveNugget penalizes sill < nugget for range/sill/nugget families.
func sillAboveNugget(v []float64) float64 {
	// v = [range, sill, nugget]
	if v[2] > v[1] {
		return v[2] - v[1]
	}
	return 0
}

func familySpecFor(family ModelType, xmax, ymax float64, fixed map[string]float64) (familySpec, error) {
	rangeSillNugget := []param{
		{name: "range", lo: 0, hi: xmax, init: xmax / 3},
		{name: "sill", lo: 0, hi: 1.05 * ymax, init: 0.95 * ymax},
		{name: "nugget", lo: 0, hi: ymax, init: 0.01 * 0.95 * ymax},
	}
	switch family {
	case Gaussian:
		return familySpec{
			params:  rangeSillNugget,
			make:    func(v []float64) Model { return NewGaussianModel(nil, v[0], v[1], v[2]) },
			violate: sillAboveNugget,
		}, nil
	case Exponential:
		return familySpec{
			params:  rangeSillNugget,
			make:    func(v []float64) Model { return NewExponentialModel(nil, v[0], v[1], v[2]) },
			violate: sillAboveNugget,
		}, nil
	case Spherical:
		return familySpec{
			params:  rangeSillNugget,
			make:    func(v []float64) Model { return NewSphericalModel(nil, v[0], v[1], v[2]) },
			violate: sillAboveNugget,
		}, nil
	case Matern:
		smoothness := 1.5
		if s, ok := fixed["smoothness"]; ok {
			smoothness = s
		}
		return familySpec{
			params:  rangeSillNugget,
			make:    func(v []float64) Model { return NewMaternModel(nil, v[0], v[1], v[2], smoothness) },
			violate: sillAboveNugget,
		}, nil
	case Power:
		return familySpec{
			params: []param{
				{name: "scaling", lo: 0, hi: 2 * ymax, init: ymax / xmax},
				{name: "nugget", lo: 0, hi: ymax, init: 0.01 * 0.95 * ymax},
				{name: "exponent", lo: 0, hi: 2, init: 1},
			},
			make:    func(v []float64) Model { return NewPowerModel(v[0], v[1], v[2]) },
			violate: func(v []float64) float64 { return 0 },
		}, nil
	case Nugget:
		return familySpec{
			params: []param{
				{name: "nugget", lo: 0, hi: 1.05 * ymax, init: 0.95 * ymax},
			},
			make:    func(v []float64) Model { return NewNuggetModel(v[0]) },
			violate: func(v []float64) float64 { return 0 },
		}, nil
	default:
		return familySpec{}, fmt.Errorf("variogram: family %q cannot be fitted", family)
	}
}

func fitData(family ModelType, xs, ys, ws []float64, opts FitOptions) (Model, float64, error) {
	// Families with a direct construction bypass optimization entirely.
	if family == PiecewiseLinear {
		return NewPiecewiseLinearModel(xs, ys), 0, nil
	}

	xmax := floats.Max(xs)
	ymax := floats.Max(ys)
	if ymax <= 0 {
		ymax = 1
	}

	spec, err := familySpecFor(family, xmax, ymax, opts.Fixed)
	if err != nil {
		return nil, 0, err
	}

	// Apply user overrides to the boxes and seeds.
	for i := range spec.params {
		p := &spec.params[i]
		if v, ok := opts.Fixed[p.name]; ok {
			eps := fixedEps * math.Max(1, math.Abs(v))
			p.lo, p.hi, p.init = v-eps, v+eps, v
		}
		if hi, ok := opts.Max[p.name]; ok {
			p.hi = math.Min(p.hi, hi)
			p.init = math.Min(p.init, math.Min(0.95*hi, p.hi))
		}
		if p.lo > p.hi {
			return nil, 0, fmt.Errorf("%w: %s", ErrInfeasibleBounds, p.name)
		}
	}

	// Constraints enter as a smooth penalty scaled by the data magnitude.
	lambda := floats.Dot(ys, ys)
	if lambda == 0 {
		lambda = 1
	}
	objective := func(v []float64) float64 {
		var j float64
		m := spec.make(v)
		for i := range xs {
			d := m.Evaluate(xs[i]) - ys[i]
			j += ws[i] * d * d
		}
		pen := spec.violate(v)
		for pi, p := range spec.params {
			if v[pi] < p.lo {
				pen += p.lo - v[pi]
			}
			if v[pi] > p.hi {
				pen += v[pi] - p.hi
			}
		}
		return j + lambda*pen*pen
	}

	x0 := make([]float64, len(spec.params))
	for i, p := range spec.params {
		x0[i] = p.init
	}

	problem := optimize.Problem{Func: objective}
	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-14,
			Iterations: 500,
		},
		MajorIterations: 5000,
	}
	best := x0
	bestF := objective(x0)
	// Two rounds of Nelder-Mead; the restart rebuilds the simplex around the
	// first optimum. Non-convergence is not fatal, the best point stands.
	for round := 0; round < 2; round++ {
		result, err := optimize.Minimize(problem, best, settings, &optimize.NelderMead{})
		if err != nil && result == nil {
			break
		}
		if result.F < bestF {
			best, bestF = result.X, result.F
		}
	}

	// Clamp into the feasible boxes so fixed parameters honor their
	// contract exactly within eps.
	final := make([]float64, len(best))
	for i, p := range spec.params {
		final[i] = clamp(best[i], p.lo, p.hi)
	}
	return spec.make(final), objective(final), nil
}
