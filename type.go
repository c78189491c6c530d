package variogram

import "errors"

type ModelType string

const (
	Gaussian        ModelType = "gaussian"
	Exponential     ModelType = "exponential"
	Spherical       ModelType = "spherical"
	Matern          ModelType = "matern"
	Power           ModelType = "power"
	Nugget          ModelType = "nugget"
	PiecewiseLinear ModelType = "piecewise-linear"
	Composite       ModelType = "composite"
)

type EstimatorType string

const (
	Matheron EstimatorType = "matheron"
	Cressie  EstimatorType = "cressie"
	Carle    EstimatorType = "carle"
)

var (
	ErrTooFewPoints     = errors.New("variogram: need at least 2 locations")
	ErrInvalidLags      = errors.New("variogram: nlags must be positive")
	ErrInvalidMaxLag    = errors.New("variogram: maxlag must be positive")
	ErrUnknownEstimator = errors.New("variogram: unknown estimator")
	ErrUnknownColumn    = errors.New("variogram: unknown column")
	ErrColumnLength     = errors.New("variogram: column length does not match location count")
	ErrMergeIdentity    = errors.New("variogram: merge operands have mismatched distance, estimator or bin layout")
	ErrNoCandidates     = errors.New("variogram: empty candidate model list")
	ErrEmptyBins        = errors.New("variogram: empirical function has no usable bins")
	ErrInfeasibleBounds = errors.New("variogram: lower bound exceeds upper bound")
)

// Unit tags a numeric axis with a physical unit. Values are stored in the
// caller's unit; Scale converts to SI when a consumer needs it. The fitting
// engine works on plain numbers and reattaches the tag afterwards.
type Unit struct {
	Symbol string
	Scale  float64
}

var Unitless = Unit{Symbol: "", Scale: 1}

func Meters() Unit     { return Unit{Symbol: "m", Scale: 1} }
func Kilometers() Unit { return Unit{Symbol: "km", Scale: 1000} }

func (u Unit) ToSI(v float64) float64 {
	if u.Scale == 0 {
		return v
	}
	return v * u.Scale
}
