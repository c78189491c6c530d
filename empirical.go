package variogram

// Empirical is a binned, data-derived estimate of a dependence function
// (variogram, covariance or transiogram ordinates, depending on the
// estimator). It is immutable once built; Merge returns a new value.
//
// Raw per-bin sums are kept internally so merging partitions is exactly
// associative; Abscissas and Ordinates are derived views.
type Empirical struct {
	nlags     int
	maxlag    float64
	distance  string
	estimator Estimator
	unit      Unit

	counts  []uint64
	lagSums []float64
	states  []binState
}

func (e *Empirical) NLags() int               { return e.nlags }
func (e *Empirical) MaxLag() float64          { return e.maxlag }
func (e *Empirical) DistanceName() string     { return e.distance }
func (e *Empirical) Estimator() EstimatorType { return e.estimator.Type() }
func (e *Empirical) LagUnit() Unit            { return e.unit }

// Counts returns the per-bin pair counts.
func (e *Empirical) Counts() []uint64 {
	out := make([]uint64, len(e.counts))
	copy(out, e.counts)
	return out
}

// Abscissas returns the mean observed lag per bin. Empty bins carry the
// nominal bin midpoint so plots and fits never see NaN.
func (e *Empirical) Abscissas() []float64 {
	delta := e.maxlag / float64(e.nlags)
	out := make([]float64, e.nlags)
	for k := 0; k < e.nlags; k++ {
		if e.counts[k] > 0 {
			out[k] = e.lagSums[k] / float64(e.counts[k])
		} else {
			out[k] = (float64(k) + 0.5) * delta
		}
	}
	return out
}

// Ordinates returns the normalized per-bin estimates. Empty bins carry the
// zero sentinel.
func (e *Empirical) Ordinates() []float64 {
	out := make([]float64, e.nlags)
	for k := 0; k < e.nlags; k++ {
		out[k] = e.estimator.Normalize(e.states[k], e.counts[k])
	}
	return out
}

// sameIdentity reports whether two empirical functions share distance,
// estimator, lag unit and bin layout, the precondition for merging.
func (e *Empirical) sameIdentity(o *Empirical) bool {
	return e.distance == o.distance &&
		e.estimator.Type() == o.estimator.Type() &&
		e.unit == o.unit &&
		e.nlags == o.nlags &&
		e.maxlag == o.maxlag
}

// Merge combines two empirical functions computed over disjoint subsets of
// one sample set. The operation is associative and commutative, so any
// partition of the data merged in any order equals the single-pass result.
func (e *Empirical) Merge(o *Empirical) (*Empirical, error) {
	if !e.sameIdentity(o) {
		return nil, ErrMergeIdentity
	}
	m := &Empirical{
		nlags:     e.nlags,
		maxlag:    e.maxlag,
		distance:  e.distance,
		estimator: e.estimator,
		unit:      e.unit,
		counts:    make([]uint64, e.nlags),
		lagSums:   make([]float64, e.nlags),
		states:    make([]binState, e.nlags),
	}
	for k := 0; k < e.nlags; k++ {
		m.counts[k] = e.counts[k] + o.counts[k]
		m.lagSums[k] = e.lagSums[k] + o.lagSums[k]
		m.states[k] = e.estimator.Combine(e.states[k], e.counts[k], o.states[k], o.counts[k])
	}
	return m, nil
}

// newEmptyEmpirical builds an all-zero-count empirical function with the
// given bin layout, the neutral element of Merge. Options must have defaults
// applied already.
func newEmptyEmpirical(opts AccumulatorOptions) (*Empirical, error) {
	est, err := EstimatorByName(opts.Estimator)
	if err != nil {
		return nil, err
	}
	return &Empirical{
		nlags:     opts.NLags,
		maxlag:    opts.MaxLag,
		distance:  opts.Distance.Name(),
		estimator: est,
		unit:      opts.Unit,
		counts:    make([]uint64, opts.NLags),
		lagSums:   make([]float64, opts.NLags),
		states:    make([]binState, opts.NLags),
	}, nil
}

// MergeAll reduces a slice of empirical functions pairwise. Nil entries are
// skipped, so partition passes that had too few points can be dropped.
func MergeAll(fns []*Empirical) (*Empirical, error) {
	var acc *Empirical
	for _, f := range fns {
		if f == nil {
			continue
		}
		if acc == nil {
			acc = f
			continue
		}
		var err error
		acc, err = acc.Merge(f)
		if err != nil {
			return nil, err
		}
	}
	if acc == nil {
		return nil, ErrEmptyBins
	}
	return acc, nil
}

// NewEmpiricalVariogram estimates the direct variogram of one column.
func NewEmpiricalVariogram(set *PointSet, tab *Table, column string, opts AccumulatorOptions) (*Empirical, error) {
	acc, err := NewAccumulator(opts)
	if err != nil {
		return nil, err
	}
	out, err := acc.Accumulate(set, tab, []VariablePair{{First: column, Second: column}})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// NewEmpiricalCrossVariogram estimates the cross variogram of two columns.
func NewEmpiricalCrossVariogram(set *PointSet, tab *Table, first, second string, opts AccumulatorOptions) (*Empirical, error) {
	acc, err := NewAccumulator(opts)
	if err != nil {
		return nil, err
	}
	out, err := acc.Accumulate(set, tab, []VariablePair{{First: first, Second: second}})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// Transiogram is the matrix of empirical transition-probability functions
// over a set of indicator columns, estimated in a single pass.
type Transiogram struct {
	Categories []string
	Funcs      [][]*Empirical
}

// NewEmpiricalTransiogram estimates transition probabilities between the
// given indicator columns (see Indicators). The estimator is always Carle.
func NewEmpiricalTransiogram(set *PointSet, tab *Table, columns []string, opts AccumulatorOptions) (*Transiogram, error) {
	opts.Estimator = Carle
	acc, err := NewAccumulator(opts)
	if err != nil {
		return nil, err
	}
	pairs := make([]VariablePair, 0, len(columns)*len(columns))
	for _, a := range columns {
		for _, b := range columns {
			pairs = append(pairs, VariablePair{First: a, Second: b})
		}
	}
	out, err := acc.Accumulate(set, tab, pairs)
	if err != nil {
		return nil, err
	}
	funcs := make([][]*Empirical, len(columns))
	for i := range columns {
		funcs[i] = out[i*len(columns) : (i+1)*len(columns)]
	}
	return &Transiogram{Categories: append([]string(nil), columns...), Funcs: funcs}, nil
}
