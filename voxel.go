package variogram

import (
	"errors"

	vec3d "github.com/flywave/go3d/float64/vec3"
)

type voxelGrid struct {
	LeafSize vec3d.T
}

type voxel struct {
	sum   vec3d.T
	value float64
	nval  int
	num   int
	index int
}

func newVoxelGrid(leafSize vec3d.T) *voxelGrid {
	vg := &voxelGrid{LeafSize: leafSize}
	return vg
}

func minMaxVec3(ra []vec3d.T) (vec3d.T, vec3d.T, error) {
	if len(ra) == 0 {
		return vec3d.T{}, vec3d.T{}, errors.New("no point")
	}
	min, max := ra[0], ra[0]
	for i := 1; i < len(ra); i++ {
		v := ra[i]
		for i := range v {
			if v[i] < min[i] {
				min[i] = v[i]
			}
			if v[i] > max[i] {
				max[i] = v[i]
			}
		}
	}
	return min, max, nil
}

// Filter collapses every occupied voxel to its centroid, averaging the
// attribute values that fall into it. Missing values do not contribute to
// the average; a voxel with only missing values stays missing.
func (f *voxelGrid) Filter(pc []vec3d.T, values []float64) ([]vec3d.T, []float64, error) {
	min, max, err := minMaxVec3(pc)
	if err != nil {
		return nil, nil, err
	}

	size := max.Sub(&min)
	xs, ys, zs := int(size[0]/f.LeafSize[0]), int(size[1]/f.LeafSize[1]), int(size[2]/f.LeafSize[2])
	voxels := make([]voxel, (xs+1)*(ys+1)*(zs+1))

	var n int
	for i := range pc {
		p := pc[i]
		p.Sub(&min)
		x, y, z := int(p[0]/f.LeafSize[0]), int(p[1]/f.LeafSize[1]), int(p[2]/f.LeafSize[2])
		v := &voxels[x+(xs+1)*(y+(ys+1)*z)]
		if v.num == 0 {
			v.index = i
			n++
		}
		v.num++
		v.sum.Add(&p)
		if values != nil && !IsMissing(values[i]) {
			v.value += values[i]
			v.nval++
		}
	}

	newPc := make([]vec3d.T, 0, n)
	newVals := make([]float64, 0, n)
	for i := range voxels {
		v := &voxels[i]
		if v.num == 0 {
			continue
		}
		c := *MulFloat(&v.sum, 1.0/float64(v.num))
		c.Add(&min)
		newPc = append(newPc, c)
		if v.nval > 0 {
			newVals = append(newVals, v.value/float64(v.nval))
		} else {
			newVals = append(newVals, Missing)
		}
	}

	if values == nil {
		return newPc, nil, nil
	}
	return newPc, newVals, nil
}

// Thin voxel-downsamples a sample set so no two locations coincide within
// leafSize. It is the recommended remediation when accumulation warns about
// coincident coordinates.
func Thin(pts []vec3d.T, values []float64, leafSize vec3d.T) ([]vec3d.T, []float64, error) {
	return newVoxelGrid(leafSize).Filter(pts, values)
}
