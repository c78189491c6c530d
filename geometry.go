package variogram

import (
	"math"

	vec3d "github.com/flywave/go3d/float64/vec3"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// PointSet is a read-only view over caller-owned locations. The accumulator
// references the slice, it never copies it.
type PointSet struct {
	pts []vec3d.T
}

func NewPointSet(pts []vec3d.T) *PointSet {
	return &PointSet{pts: pts}
}

func (s *PointSet) Len() int {
	return len(s.pts)
}

func (s *PointSet) At(i int) vec3d.T {
	return s.pts[i]
}

func (s *PointSet) Centroid() vec3d.T {
	var c vec3d.T
	if len(s.pts) == 0 {
		return c
	}
	for i := range s.pts {
		c.Add(&s.pts[i])
	}
	return *MulFloat(&c, 1/float64(len(s.pts)))
}

// Bounds returns the axis-aligned bounding box of the set.
func (s *PointSet) Bounds() (vec3d.T, vec3d.T) {
	min, max, _ := minMaxVec3(s.pts)
	return min, max
}

// Diagonal is the length of the bounding-box diagonal, the usual scale for
// a default maxlag (half of it).
func (s *PointSet) Diagonal() float64 {
	min, max, err := minMaxVec3(s.pts)
	if err != nil {
		return 0
	}
	d := max.Sub(&min)
	return d.Length()
}

func MulFloat(vec *vec3d.T, v float64) *vec3d.T {
	vec[0] *= v
	vec[1] *= v
	vec[2] *= v
	return vec
}

// Metric measures distance between two locations. Implementations must be
// symmetric and non-negative.
type Metric interface {
	Name() string
	Distance(a, b vec3d.T) float64
}

type Euclidean struct{}

func (Euclidean) Name() string { return "euclidean" }

func (Euclidean) Distance(a, b vec3d.T) float64 {
	d := a.Sub(&b)
	return d.Length()
}

type Manhattan struct{}

func (Manhattan) Name() string { return "manhattan" }

func (Manhattan) Distance(a, b vec3d.T) float64 {
	return math.Abs(a[0]-b[0]) + math.Abs(a[1]-b[1]) + math.Abs(a[2]-b[2])
}

// kd-tree plumbing for radius queries, gonum.org/v1/gonum/spatial/kdtree.

type treePoint struct {
	pos vec3d.T
	id  int
}

func (p treePoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(treePoint)
	return p.pos[d] - q.pos[d]
}

func (p treePoint) Dims() int { return 3 }

// Distance returns the squared Euclidean distance, as the kd-tree expects.
func (p treePoint) Distance(c kdtree.Comparable) float64 {
	q := c.(treePoint)
	d := p.pos.Sub(&q.pos)
	return d.LengthSqr()
}

type treePoints []treePoint

func (p treePoints) Index(i int) kdtree.Comparable { return p[i] }
func (p treePoints) Len() int                      { return len(p) }
func (p treePoints) Pivot(d kdtree.Dim) int        { return treePlane{treePoints: p, Dim: d}.Pivot() }
func (p treePoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}

type treePlane struct {
	kdtree.Dim
	treePoints
}

func (p treePlane) Less(i, j int) bool {
	return p.treePoints[i].pos[p.Dim] < p.treePoints[j].pos[p.Dim]
}
func (p treePlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p treePlane) Slice(start, end int) kdtree.SortSlicer {
	p.treePoints = p.treePoints[start:end]
	return p
}
func (p treePlane) Swap(i, j int) {
	p.treePoints[i], p.treePoints[j] = p.treePoints[j], p.treePoints[i]
}

// radiusIndex answers "all point indices within r of point j" on a PointSet.
type radiusIndex struct {
	tree *kdtree.Tree
	set  *PointSet
}

func newRadiusIndex(set *PointSet) *radiusIndex {
	pts := make(treePoints, set.Len())
	for i := 0; i < set.Len(); i++ {
		pts[i] = treePoint{pos: set.At(i), id: i}
	}
	return &radiusIndex{tree: kdtree.New(pts, false), set: set}
}

// within returns the ids of all points at Euclidean distance <= r from the
// j-th point, including j itself.
func (x *radiusIndex) within(j int, r float64) []int {
	keep := kdtree.NewDistKeeper(r * r)
	x.tree.NearestSet(keep, treePoint{pos: x.set.At(j), id: j})
	ids := make([]int, 0, keep.Len())
	for _, c := range keep.Heap {
		if c.Comparable == nil {
			continue
		}
		ids = append(ids, c.Comparable.(treePoint).id)
	}
	return ids
}
