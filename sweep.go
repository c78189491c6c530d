package variogram

import (
	"errors"
	"math"

	vec3d "github.com/flywave/go3d/float64/vec3"
	"golang.org/x/sync/errgroup"
)

// partitionIndices greedily groups the given location indices: an index
// joins the first group whose representative satisfies the predicate.
func partitionIndices(set *PointSet, indices []int, same func(a, b vec3d.T) bool) [][]int {
	var groups [][]int
	for _, i := range indices {
		placed := false
		for gi := range groups {
			if same(set.At(i), set.At(groups[gi][0])) {
				groups[gi] = append(groups[gi], i)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []int{i})
		}
	}
	return groups
}

func allIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// DirectionPartition splits locations into bands collinear with dir: two
// points share a band when their offset deviates from the dir line by less
// than tol.
func DirectionPartition(set *PointSet, dir vec3d.T, tol float64) [][]int {
	d := dir.Normalized()
	same := func(a, b vec3d.T) bool {
		off := a.Sub(&b)
		along := vec3d.Dot(off, &d)
		proj := d.Scaled(along)
		residual := off.Sub(&proj)
		return residual.Length() < tol
	}
	return partitionIndices(set, allIndices(set.Len()), same)
}

// PlanePartition splits locations into near-planar slabs orthogonal to the
// given normal, with slab thickness 2*tol.
func PlanePartition(set *PointSet, normal vec3d.T, tol float64) [][]int {
	n := normal.Normalized()
	same := func(a, b vec3d.T) bool {
		off := a.Sub(&b)
		return math.Abs(vec3d.Dot(off, &n)) < tol
	}
	return partitionIndices(set, allIndices(set.Len()), same)
}

// accumulateBands runs one accumulator pass per band in parallel and merges
// the results. Bands too small to pair are dropped, not errors.
func accumulateBands(acc *Accumulator, set *PointSet, tab *Table, column string, bands [][]int) (*Empirical, error) {
	pairs := []VariablePair{{First: column, Second: column}}
	fns := make([]*Empirical, len(bands))
	var g errgroup.Group
	for bi, band := range bands {
		g.Go(func() error {
			if len(band) < 2 {
				return nil
			}
			out, err := acc.AccumulateSubset(set, tab, pairs, band)
			if err != nil {
				if errors.Is(err, ErrTooFewPoints) {
					return nil
				}
				return err
			}
			fns[bi] = out[0]
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return MergeAll(fns)
}

// DirectionalVariogram estimates the variogram restricted to pairs aligned
// with dir within tolerance tol, by partitioning into directional bands,
// accumulating each band independently and merging.
func DirectionalVariogram(set *PointSet, tab *Table, column string, dir vec3d.T, tol float64, opts AccumulatorOptions) (*Empirical, error) {
	opts.setDefaults(set) // pin the bin layout before partitioning
	acc, err := NewAccumulator(opts)
	if err != nil {
		return nil, err
	}
	bands := DirectionPartition(set, dir, tol)
	return accumulateBands(acc, set, tab, column, bands)
}

// VarioplaneOptions configures an anisotropy sweep.
type VarioplaneOptions struct {
	AccumulatorOptions

	// NAngles is the number of sampled directions, default 50.
	NAngles int
	// FullCircle sweeps [0, 2pi) instead of the half circle [0, pi); use it
	// for asymmetric dependence functions such as transiograms.
	FullCircle bool
	// Basis spans the cross-section plane; defaults to the XY plane.
	Basis *PlaneBasis
	// DirTolerance is the directional band half-width; defaults to one lag
	// bin width.
	DirTolerance float64
	// PlaneTolerance, when positive, first splits 3D data into near-planar
	// slabs of this half-thickness, accumulated independently and merged.
	PlaneTolerance float64
}

// Varioplane is the polar (angle x lag) anisotropy surface produced by a
// sweep. All angles share one lag axis, taken from the first direction.
type Varioplane struct {
	Angles    []float64   // radians within the sweep plane
	Lags      []float64   // shared lag axis
	Ordinates [][]float64 // [angle][lag]
	Counts    [][]uint64  // [angle][lag]
}

func (p *Varioplane) NAngles() int { return len(p.Angles) }
func (p *Varioplane) NLags() int   { return len(p.Lags) }

// Value returns the ordinate at angle index i and lag index k.
func (p *Varioplane) Value(i, k int) float64 {
	return p.Ordinates[i][k]
}

// NewVarioplane sweeps the accumulator across directions in a plane to build
// the anisotropy surface consumed by polar visualizations. Directions are
// independent, so they are fanned out in parallel and reduced by merge
// semantics that make the result independent of execution order.
func NewVarioplane(set *PointSet, tab *Table, column string, opts VarioplaneOptions) (*Varioplane, error) {
	opts.AccumulatorOptions.setDefaults(set)
	if opts.NAngles == 0 {
		opts.NAngles = 50
	}
	if opts.Basis == nil {
		b := XYBasis()
		opts.Basis = &b
	}
	if opts.DirTolerance == 0 {
		opts.DirTolerance = opts.MaxLag / float64(opts.NLags)
	}
	acc, err := NewAccumulator(opts.AccumulatorOptions)
	if err != nil {
		return nil, err
	}

	span := math.Pi
	if opts.FullCircle {
		span = 2 * math.Pi
	}
	angles := make([]float64, opts.NAngles)
	for i := range angles {
		angles[i] = float64(i) * span / float64(opts.NAngles)
	}

	slabs := [][]int{allIndices(set.Len())}
	if opts.PlaneTolerance > 0 {
		slabs = PlanePartition(set, opts.Basis.Normal(), opts.PlaneTolerance)
	}

	perAngle := make([]*Empirical, opts.NAngles)
	var g errgroup.Group
	for ai, theta := range angles {
		g.Go(func() error {
			dir := opts.Basis.Direction(theta)
			fns := make([]*Empirical, 0, len(slabs))
			for _, slab := range slabs {
				bands := partitionIndices(set, slab, func(a, b vec3d.T) bool {
					off := a.Sub(&b)
					along := vec3d.Dot(off, &dir)
					proj := dir.Scaled(along)
					residual := off.Sub(&proj)
					return residual.Length() < opts.DirTolerance
				})
				fn, err := accumulateBands(acc, set, tab, column, bands)
				if err != nil {
					if errors.Is(err, ErrEmptyBins) {
						continue
					}
					return err
				}
				fns = append(fns, fn)
			}
			merged, err := MergeAll(fns)
			if err != nil {
				if !errors.Is(err, ErrEmptyBins) {
					return err
				}
				// No band of this direction holds a pair; the angle keeps
				// the shared bin layout with zero counts.
				merged, err = newEmptyEmpirical(opts.AccumulatorOptions)
				if err != nil {
					return err
				}
			}
			perAngle[ai] = merged
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	plane := &Varioplane{
		Angles:    angles,
		Lags:      perAngle[0].Abscissas(),
		Ordinates: make([][]float64, opts.NAngles),
		Counts:    make([][]uint64, opts.NAngles),
	}
	for i, fn := range perAngle {
		plane.Ordinates[i] = fn.Ordinates()
		plane.Counts[i] = fn.Counts()
	}
	return plane, nil
}
