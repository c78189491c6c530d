// Package variogram estimates empirical dependence functions (variograms,
// covariances, transiograms) from irregularly located spatial samples and
// fits closed-form theoretical models to them.
//
// The pipeline is: samples -> Accumulator (search strategy + estimator) ->
// Empirical -> optional merges across partitions or anisotropy sweeps ->
// Fit/FitBest against one or more model families.
package variogram
