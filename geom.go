package variogram

import (
	"fmt"

	"github.com/flywave/go-geom"
	"github.com/flywave/go-geom/general"
	vec3d "github.com/flywave/go3d/float64/vec3"
)

// SamplesFromFeatureCollection extracts point locations and one numeric
// property from a GeoJSON feature collection, producing the (PointSet,
// Table) inputs of an accumulation pass. Non-point geometries contribute
// every vertex; a feature without the property contributes a missing value.
func SamplesFromFeatureCollection(fc *geom.FeatureCollection, property string) (*PointSet, *Table, error) {
	if fc == nil {
		return nil, nil, fmt.Errorf("variogram: nil feature collection")
	}
	var pts []vec3d.T
	var vals []float64

	add := func(x, y, z float64, v float64) {
		pts = append(pts, vec3d.T{x, y, z})
		vals = append(vals, v)
	}

	for _, feas := range fc.Features {
		v := Missing
		if raw, ok := feas.Properties[property]; ok {
			if f, ok := raw.(float64); ok {
				v = f
			}
		}
		g_ := feas.Geometry
		switch g := g_.(type) {
		case *general.Point:
			add(g.X(), g.Y(), zOf(g.Data()), v)
		case *general.MultiPoint:
			for _, pos := range g.Points() {
				add(pos.X(), pos.Y(), zOf(pos.Data()), v)
			}
		case *general.LineString:
			for _, pos := range g.Subpoints() {
				add(pos.X(), pos.Y(), zOf(pos.Data()), v)
			}
		case *general.MultiLine:
			for _, li := range g.Lines() {
				for _, pos := range li.Subpoints() {
					add(pos.X(), pos.Y(), zOf(pos.Data()), v)
				}
			}
		case *general.Polygon:
			for _, sli := range g.Sublines() {
				for _, pos := range sli.Subpoints() {
					add(pos.X(), pos.Y(), zOf(pos.Data()), v)
				}
			}
		case *general.MultiPolygon:
			for _, poly := range g.Polygons() {
				for _, sli := range poly.Sublines() {
					for _, pos := range sli.Subpoints() {
						add(pos.X(), pos.Y(), zOf(pos.Data()), v)
					}
				}
			}
		}
	}
	if len(pts) == 0 {
		return nil, nil, ErrTooFewPoints
	}
	tab := NewTable().AddColumn(property, vals)
	return NewPointSet(pts), tab, nil
}

func zOf(data []float64) float64 {
	if len(data) > 2 {
		return data[2]
	}
	return 0
}
