package variogram

import (
	"fmt"
	"math"

	vec3d "github.com/flywave/go3d/float64/vec3"
)

// VariablePair names two table columns accumulated together in one pass.
// First == Second gives the direct (univariate) estimate, distinct columns
// give cross estimates, indicator columns give transition probabilities.
type VariablePair struct {
	First, Second string
}

// AccumulatorOptions configures one accumulation pass. Zero values get
// defaults: Matheron estimator, Euclidean distance, ball search, 20 lags and
// half of the bounding-box diagonal as maxlag.
type AccumulatorOptions struct {
	NLags     int
	MaxLag    float64
	Distance  Metric
	Estimator EstimatorType
	Search    SearchType
	Unit      Unit
	Logger    *Logger
}

func (o *AccumulatorOptions) setDefaults(set *PointSet) {
	if o.NLags == 0 {
		o.NLags = 20
	}
	if o.MaxLag == 0 {
		o.MaxLag = set.Diagonal() / 2
	}
	if o.Distance == nil {
		o.Distance = Euclidean{}
	}
	if o.Estimator == "" {
		o.Estimator = Matheron
	}
	if o.Search == "" {
		o.Search = BallSearch
	}
	if o.Unit == (Unit{}) {
		o.Unit = Unitless
	}
	if o.Logger == nil {
		o.Logger = NoopLogger()
	}
}

// Accumulator drives a search strategy and an estimator over a sample set,
// producing one empirical function per requested variable pair.
type Accumulator struct {
	opts AccumulatorOptions
	est  Estimator
}

func NewAccumulator(opts AccumulatorOptions) (*Accumulator, error) {
	if opts.NLags < 0 {
		return nil, ErrInvalidLags
	}
	if opts.MaxLag < 0 {
		return nil, ErrInvalidMaxLag
	}
	a := &Accumulator{opts: opts}
	if opts.Estimator != "" {
		est, err := EstimatorByName(opts.Estimator)
		if err != nil {
			return nil, err
		}
		a.est = est
	}
	return a, nil
}

// Accumulate runs one pass over the full sample set.
func (a *Accumulator) Accumulate(set *PointSet, tab *Table, pairs []VariablePair) ([]*Empirical, error) {
	return a.accumulate(set, tab, pairs)
}

// AccumulateSubset runs one pass restricted to the given location indices.
// Partitioned runs merged via Empirical.Merge reproduce the full-set result,
// provided NLags and MaxLag are set explicitly so every partition shares one
// bin layout.
func (a *Accumulator) AccumulateSubset(set *PointSet, tab *Table, pairs []VariablePair, subset []int) ([]*Empirical, error) {
	sub, subTab, err := gather(set, tab, subset, pairs)
	if err != nil {
		return nil, err
	}
	return a.accumulate(sub, subTab, pairs)
}

func (a *Accumulator) accumulate(set *PointSet, tab *Table, pairs []VariablePair) ([]*Empirical, error) {
	opts := a.opts
	opts.setDefaults(set)

	if opts.NLags <= 0 {
		return nil, ErrInvalidLags
	}
	if opts.MaxLag <= 0 {
		return nil, ErrInvalidMaxLag
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("variogram: no variable pairs requested")
	}
	if set.Len() < 2 {
		return nil, ErrTooFewPoints
	}
	est := a.est
	if est == nil {
		var err error
		est, err = EstimatorByName(opts.Estimator)
		if err != nil {
			return nil, err
		}
	}

	cols := make([][2][]float64, len(pairs))
	for p, vp := range pairs {
		c1, err := column(tab, vp.First, set.Len())
		if err != nil {
			return nil, err
		}
		c2, err := column(tab, vp.Second, set.Len())
		if err != nil {
			return nil, err
		}
		cols[p] = [2][]float64{c1, c2}
	}

	nlags := opts.NLags
	delta := opts.MaxLag / float64(nlags)
	strategy := newSearchStrategy(opts.Search, set, opts.Distance, opts.MaxLag, opts.Logger)

	counts := make([][]uint64, len(pairs))
	lagSums := make([][]float64, len(pairs))
	states := make([][]binState, len(pairs))
	for p := range pairs {
		counts[p] = make([]uint64, nlags)
		lagSums[p] = make([]float64, nlags)
		states[p] = make([]binState, nlags)
	}

	duplicates := 0
	var buf []int
	n := set.Len()
	for j := 0; j < n; j++ {
		buf = strategy.neighbors(j, buf)
		for _, i := range buf {
			if strategy.skip(i, j) {
				continue
			}
			h := opts.Distance.Distance(set.At(i), set.At(j))
			if strategy.exit(h) {
				continue
			}
			lag := int(math.Ceil(h / delta))
			if lag == 0 {
				// Coincident coordinates; discard the pair, never fatal.
				duplicates++
				continue
			}
			if lag > nlags {
				continue
			}
			k := lag - 1
			for p := range pairs {
				z1, z2 := cols[p][0], cols[p][1]
				s, ok := est.Term(z1[i], z1[j], z2[i], z2[j])
				if !ok {
					continue
				}
				counts[p][k]++
				lagSums[p][k] += h
				states[p][k][0] += s[0]
				states[p][k][1] += s[1]
			}
		}
	}
	opts.Logger.warnDuplicates(duplicates)

	out := make([]*Empirical, len(pairs))
	for p := range pairs {
		out[p] = &Empirical{
			nlags:     nlags,
			maxlag:    opts.MaxLag,
			distance:  opts.Distance.Name(),
			estimator: est,
			unit:      opts.Unit,
			counts:    counts[p],
			lagSums:   lagSums[p],
			states:    states[p],
		}
	}
	return out, nil
}

// column fetches a table column and checks it is aligned with the locations.
func column(tab *Table, name string, n int) ([]float64, error) {
	col, err := tab.Column(name)
	if err != nil {
		return nil, err
	}
	if len(col) != n {
		return nil, fmt.Errorf("%w: %q has %d values for %d locations", ErrColumnLength, name, len(col), n)
	}
	return col, nil
}

// gather materializes a subset view of the locations and of every column a
// pass will touch, so partition passes stay index-consistent.
func gather(set *PointSet, tab *Table, subset []int, pairs []VariablePair) (*PointSet, *Table, error) {
	pts := make([]vec3d.T, len(subset))
	for k, idx := range subset {
		pts[k] = set.At(idx)
	}
	sub := NewTable()
	seen := make(map[string]bool)
	for _, vp := range pairs {
		for _, name := range []string{vp.First, vp.Second} {
			if seen[name] {
				continue
			}
			seen[name] = true
			col, err := column(tab, name, set.Len())
			if err != nil {
				return nil, nil, err
			}
			vals := make([]float64, len(subset))
			for k, idx := range subset {
				vals[k] = col[idx]
			}
			sub.AddColumn(name, vals)
		}
	}
	return NewPointSet(pts), sub, nil
}
