package variogram

import (
	"fmt"
	"math"
)

// binState is the raw per-bin accumulation of an estimator: a main sum plus
// an auxiliary sum (the denominator of ratio estimators, unused otherwise).
// Keeping raw sums, rather than normalized ordinates, makes Combine exactly
// associative and commutative so partitioned accumulation reproduces the
// single-pass result bit for bit.
type binState [2]float64

// Estimator is a stateless statistical rule turning sample pairs into binned
// dependence estimates.
type Estimator interface {
	Type() EstimatorType

	// Term computes the per-pair statistic for variables (z1, z2) observed at
	// both ends of a pair. ok is false when the term is undefined, e.g. a
	// missing value; undefined terms contribute to neither sums nor counts.
	Term(z1i, z1j, z2i, z2j float64) (s binState, ok bool)

	// Normalize converts accumulated state and pair count into the final
	// per-bin ordinate. A zero count yields the zero sentinel, never NaN.
	Normalize(s binState, n uint64) float64

	// Combine merges the accumulation state of two disjoint subsets.
	Combine(a binState, na uint64, b binState, nb uint64) binState
}

// EstimatorByName resolves an estimator type to its implementation.
func EstimatorByName(t EstimatorType) (Estimator, error) {
	switch t {
	case Matheron:
		return MatheronEstimator{}, nil
	case Cressie:
		return CressieEstimator{}, nil
	case Carle:
		return CarleEstimator{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEstimator, t)
	}
}

// sumCombine is shared by all estimators here: state is a plain sum over
// pairs, so merging subsets is elementwise addition.
type sumCombine struct{}

func (sumCombine) Combine(a binState, _ uint64, b binState, _ uint64) binState {
	return binState{a[0] + b[0], a[1] + b[1]}
}

// MatheronEstimator is the classical semivariance estimator,
// gamma(h) = sum (z_i - z_j)^2 / (2 n).
type MatheronEstimator struct{ sumCombine }

func (MatheronEstimator) Type() EstimatorType { return Matheron }

func (MatheronEstimator) Term(z1i, z1j, z2i, z2j float64) (binState, bool) {
	if IsMissing(z1i) || IsMissing(z1j) || IsMissing(z2i) || IsMissing(z2j) {
		return binState{}, false
	}
	return binState{(z1i - z1j) * (z2i - z2j), 0}, true
}

func (MatheronEstimator) Normalize(s binState, n uint64) float64 {
	if n == 0 {
		return 0
	}
	return s[0] / (2 * float64(n))
}

// CressieEstimator is the Cressie-Hawkins robust estimator built on fourth
// powers of square-rooted absolute differences.
type CressieEstimator struct{ sumCombine }

func (CressieEstimator) Type() EstimatorType { return Cressie }

func (CressieEstimator) Term(z1i, z1j, z2i, z2j float64) (binState, bool) {
	if IsMissing(z1i) || IsMissing(z1j) || IsMissing(z2i) || IsMissing(z2j) {
		return binState{}, false
	}
	t := math.Sqrt(math.Abs(z1i-z1j)) * math.Sqrt(math.Abs(z2i-z2j))
	return binState{t, 0}, true
}

func (CressieEstimator) Normalize(s binState, n uint64) float64 {
	if n == 0 {
		return 0
	}
	fn := float64(n)
	m := s[0] / fn
	return 0.5 * pow2(pow2(m)) / (0.457 + 0.494/fn + 0.045/(fn*fn))
}

// CarleEstimator is Carle's transition-probability estimator for indicator
// variables, t_jk(h) = sum I_j(x) I_k(x+h) / sum I_j(x). The pair term is
// symmetrized since pairs are enumerated unordered.
type CarleEstimator struct{ sumCombine }

func (CarleEstimator) Type() EstimatorType { return Carle }

func (CarleEstimator) Term(z1i, z1j, z2i, z2j float64) (binState, bool) {
	if IsMissing(z1i) || IsMissing(z1j) || IsMissing(z2i) || IsMissing(z2j) {
		return binState{}, false
	}
	return binState{z1i*z2j + z1j*z2i, z1i + z1j}, true
}

func (CarleEstimator) Normalize(s binState, n uint64) float64 {
	if n == 0 || s[1] == 0 {
		return 0
	}
	return s[0] / s[1]
}
