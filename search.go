package variogram

import "sort"

type SearchType string

const (
	// ExhaustiveSearch enumerates every unordered pair of locations.
	ExhaustiveSearch SearchType = "exhaustive"
	// BallSearch enumerates only pairs within a maxlag metric ball using a
	// spatial index. It is a performance optimization: composed with the same
	// estimator and binning it yields bit-identical results to exhaustive
	// search.
	BallSearch SearchType = "ball"
)

// searchStrategy yields, for each anchor index j, the candidate neighbor
// indices to pair with j. skip filters pairs that would be double counted;
// exit reports a measured distance certainly outside the lag range so the
// accumulator can drop the pair early.
type searchStrategy interface {
	neighbors(j int, buf []int) []int
	skip(i, j int) bool
	exit(h float64) bool
}

type exhaustiveSearch struct {
	n      int
	maxlag float64
}

func (s exhaustiveSearch) neighbors(j int, buf []int) []int {
	buf = buf[:0]
	for i := j + 1; i < s.n; i++ {
		buf = append(buf, i)
	}
	return buf
}

func (s exhaustiveSearch) skip(i, j int) bool { return false }

func (s exhaustiveSearch) exit(h float64) bool { return h > s.maxlag }

type ballSearch struct {
	index  *radiusIndex
	maxlag float64
}

func (s ballSearch) neighbors(j int, buf []int) []int {
	buf = buf[:0]
	// Sorted ascending so the pair order matches exhaustive search exactly
	// and floating-point accumulation order is identical.
	ids := s.index.within(j, s.maxlag)
	sort.Ints(ids)
	return append(buf, ids...)
}

// skip drops i <= j: the ball query is symmetric, so every pair shows up
// once from each end.
func (s ballSearch) skip(i, j int) bool { return i <= j }

func (s ballSearch) exit(h float64) bool { return false }

// newSearchStrategy builds the requested strategy. Ball search needs a
// metric compatible with the kd-tree; anything but Euclidean falls back to
// exhaustive search with a diagnostic, never an error.
func newSearchStrategy(t SearchType, set *PointSet, metric Metric, maxlag float64, log *Logger) searchStrategy {
	if t == BallSearch {
		if _, ok := metric.(Euclidean); ok {
			return ballSearch{index: newRadiusIndex(set), maxlag: maxlag}
		}
		log.warnBallFallback(metric.Name())
	}
	return exhaustiveSearch{n: set.Len(), maxlag: maxlag}
}
