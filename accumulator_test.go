package variogram

import (
	"math"
	"math/rand"
	"testing"

	vec3d "github.com/flywave/go3d/float64/vec3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomSamples(seed int64, n int) (*PointSet, *Table) {
	rng := rand.New(rand.NewSource(seed))
	pts := make([]vec3d.T, n)
	vals := make([]float64, n)
	for i := range pts {
		pts[i] = vec3d.T{rng.Float64() * 10, rng.Float64() * 10, rng.Float64() * 10}
		vals[i] = rng.NormFloat64()
	}
	return NewPointSet(pts), NewTable().AddColumn("z", vals)
}

func TestConcreteScenario(t *testing.T) {
	a := assert.New(t)

	set := NewPointSet([]vec3d.T{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	tab := NewTable().AddColumn("z", []float64{1, 1, 1})

	emp, err := NewEmpiricalVariogram(set, tab, "z", AccumulatorOptions{
		NLags:  2,
		MaxLag: 2.0,
	})
	require.NoError(t, err)

	a.Equal([]uint64{0, 3}, emp.Counts())

	abscissas := emp.Abscissas()
	a.InDelta(0.5, abscissas[0], 1e-12)
	a.InDelta(math.Sqrt2, abscissas[1], 1e-12)

	ordinates := emp.Ordinates()
	a.Equal(0.0, ordinates[0])
	a.InDelta(0.0, ordinates[1], 1e-12)
}

func TestBinCountInvariant(t *testing.T) {
	a := assert.New(t)

	set, tab := randomSamples(1, 40)
	emp, err := NewEmpiricalVariogram(set, tab, "z", AccumulatorOptions{NLags: 15, MaxLag: 8})
	require.NoError(t, err)

	a.Len(emp.Counts(), 15)
	a.Len(emp.Abscissas(), 15)
	a.Len(emp.Ordinates(), 15)
}

func TestSearchStrategyEquivalence(t *testing.T) {
	a := assert.New(t)

	for _, est := range []EstimatorType{Matheron, Cressie} {
		set, tab := randomSamples(7, 120)

		exhaustive, err := NewEmpiricalVariogram(set, tab, "z", AccumulatorOptions{
			NLags: 12, MaxLag: 6, Estimator: est, Search: ExhaustiveSearch,
		})
		require.NoError(t, err)

		ball, err := NewEmpiricalVariogram(set, tab, "z", AccumulatorOptions{
			NLags: 12, MaxLag: 6, Estimator: est, Search: BallSearch,
		})
		require.NoError(t, err)

		a.Equal(exhaustive.Counts(), ball.Counts())
		a.Equal(exhaustive.Abscissas(), ball.Abscissas())
		a.Equal(exhaustive.Ordinates(), ball.Ordinates())
	}
}

func TestBallFallbackOnNonEuclideanMetric(t *testing.T) {
	a := assert.New(t)

	set, tab := randomSamples(3, 60)
	opts := AccumulatorOptions{NLags: 10, MaxLag: 8, Distance: Manhattan{}}

	opts.Search = BallSearch
	fallback, err := NewEmpiricalVariogram(set, tab, "z", opts)
	require.NoError(t, err)

	opts.Search = ExhaustiveSearch
	exhaustive, err := NewEmpiricalVariogram(set, tab, "z", opts)
	require.NoError(t, err)

	a.Equal(exhaustive.Counts(), fallback.Counts())
	a.Equal(exhaustive.Ordinates(), fallback.Ordinates())
}

func TestHomogeneousField(t *testing.T) {
	a := assert.New(t)

	set, _ := randomSamples(11, 50)
	vals := make([]float64, set.Len())
	for i := range vals {
		vals[i] = 5.0
	}
	tab := NewTable().AddColumn("z", vals)

	for _, est := range []EstimatorType{Matheron, Cressie} {
		emp, err := NewEmpiricalVariogram(set, tab, "z", AccumulatorOptions{
			NLags: 10, MaxLag: 8, Estimator: est,
		})
		require.NoError(t, err)
		for _, y := range emp.Ordinates() {
			a.Equal(0.0, y)
		}
	}
}

func TestAllMissingColumn(t *testing.T) {
	a := assert.New(t)

	set, _ := randomSamples(13, 30)
	vals := make([]float64, set.Len())
	for i := range vals {
		vals[i] = Missing
	}
	tab := NewTable().AddColumn("z", vals)

	emp, err := NewEmpiricalVariogram(set, tab, "z", AccumulatorOptions{NLags: 8, MaxLag: 8})
	require.NoError(t, err)

	for k := range emp.Counts() {
		a.Equal(uint64(0), emp.Counts()[k])
		a.Equal(0.0, emp.Ordinates()[k])
		a.False(math.IsNaN(emp.Abscissas()[k]))
	}
}

func TestPartiallyMissingColumn(t *testing.T) {
	a := assert.New(t)

	set := NewPointSet([]vec3d.T{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}})
	tab := NewTable().AddColumn("z", []float64{1, Missing, 3})

	emp, err := NewEmpiricalVariogram(set, tab, "z", AccumulatorOptions{
		NLags: 2, MaxLag: 2, Search: ExhaustiveSearch,
	})
	require.NoError(t, err)

	// Only the (0,2) pair at distance 2 survives.
	a.Equal([]uint64{0, 1}, emp.Counts())
	a.InDelta(2.0, emp.Ordinates()[1], 1e-12) // (3-1)^2 / (2*1)
}

func TestDuplicateCoordinatesDiscarded(t *testing.T) {
	a := assert.New(t)

	set := NewPointSet([]vec3d.T{{0, 0, 0}, {0, 0, 0}, {1, 0, 0}})
	tab := NewTable().AddColumn("z", []float64{1, 2, 3})

	emp, err := NewEmpiricalVariogram(set, tab, "z", AccumulatorOptions{NLags: 2, MaxLag: 2})
	require.NoError(t, err)

	// The coincident pair is dropped; the two remaining pairs share lag 1.
	var total uint64
	for _, c := range emp.Counts() {
		total += c
	}
	a.Equal(uint64(2), total)
}

func TestAccumulatorPreconditions(t *testing.T) {
	a := assert.New(t)

	set, tab := randomSamples(17, 10)
	pair := []VariablePair{{First: "z", Second: "z"}}

	_, err := NewAccumulator(AccumulatorOptions{NLags: -1})
	a.ErrorIs(err, ErrInvalidLags)

	_, err = NewAccumulator(AccumulatorOptions{MaxLag: -2})
	a.ErrorIs(err, ErrInvalidMaxLag)

	_, err = NewAccumulator(AccumulatorOptions{Estimator: "mystery"})
	a.ErrorIs(err, ErrUnknownEstimator)

	acc, err := NewAccumulator(AccumulatorOptions{NLags: 5, MaxLag: 5})
	require.NoError(t, err)

	small := NewPointSet([]vec3d.T{{0, 0, 0}})
	_, err = acc.Accumulate(small, tab, pair)
	a.ErrorIs(err, ErrTooFewPoints)

	_, err = acc.Accumulate(set, tab, []VariablePair{{First: "nope", Second: "nope"}})
	a.ErrorIs(err, ErrUnknownColumn)
}

func TestColumnLengthMismatch(t *testing.T) {
	a := assert.New(t)

	set := NewPointSet([]vec3d.T{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}})
	tab := NewTable().AddColumn("z", []float64{1, 2}) // one value short

	_, err := NewEmpiricalVariogram(set, tab, "z", AccumulatorOptions{NLags: 2, MaxLag: 2})
	a.ErrorIs(err, ErrColumnLength)

	acc, err := NewAccumulator(AccumulatorOptions{NLags: 2, MaxLag: 2})
	require.NoError(t, err)
	_, err = acc.AccumulateSubset(set, tab, []VariablePair{{First: "z", Second: "z"}}, []int{0, 2})
	a.ErrorIs(err, ErrColumnLength)
}

func TestCrossVariogramSinglePass(t *testing.T) {
	a := assert.New(t)

	set, _ := randomSamples(19, 40)
	rng := rand.New(rand.NewSource(23))
	za := make([]float64, set.Len())
	zb := make([]float64, set.Len())
	for i := range za {
		za[i] = rng.NormFloat64()
		zb[i] = za[i] + 0.1*rng.NormFloat64()
	}
	tab := NewTable().AddColumn("a", za).AddColumn("b", zb)

	acc, err := NewAccumulator(AccumulatorOptions{NLags: 10, MaxLag: 8})
	require.NoError(t, err)

	out, err := acc.Accumulate(set, tab, []VariablePair{
		{First: "a", Second: "a"},
		{First: "a", Second: "b"},
		{First: "b", Second: "b"},
	})
	require.NoError(t, err)
	require.Len(t, out, 3)

	direct, err := NewEmpiricalCrossVariogram(set, tab, "a", "b", AccumulatorOptions{NLags: 10, MaxLag: 8})
	require.NoError(t, err)
	a.Equal(direct.Ordinates(), out[1].Ordinates())
}
