package regions

import (
	"fmt"
	"math"

	shp "github.com/jonas-p/go-shp"
)

// Region is a named polygon, possibly multi-part, in WGS-84 coordinates.
type Region struct {
	Name   string
	Parts  [][][2]float64 // each part is a closed ring of [lat, lon] points
	MinLat float64
	MinLon float64
	MaxLat float64
	MaxLon float64
}

// NewRegion builds a region from [lat, lon] rings and computes its bounding box.
func NewRegion(name string, parts ...[][2]float64) Region {
	r := Region{
		Name:   name,
		Parts:  parts,
		MinLat: math.MaxFloat64,
		MinLon: math.MaxFloat64,
		MaxLat: -math.MaxFloat64,
		MaxLon: -math.MaxFloat64,
	}
	for _, ring := range parts {
		for _, pt := range ring {
			r.MinLat = math.Min(r.MinLat, pt[0])
			r.MaxLat = math.Max(r.MaxLat, pt[0])
			r.MinLon = math.Min(r.MinLon, pt[1])
			r.MaxLon = math.Max(r.MaxLon, pt[1])
		}
	}
	return r
}

// Contains reports whether the point lies inside the region. Rings follow the
// even-odd rule, so a point inside a hole is outside the region.
func (r Region) Contains(lat, lon float64) bool {
	if lat < r.MinLat || lat > r.MaxLat || lon < r.MinLon || lon > r.MaxLon {
		return false // quick bbox reject
	}
	inside := false
	for _, ring := range r.Parts {
		if pointInPolygon(lat, lon, ring) {
			inside = !inside
		}
	}
	return inside
}

// Index answers point-in-region queries. A nil Index finds nothing.
type Index struct {
	regions []Region
}

// New indexes regions in lookup order.
func New(regions []Region) *Index {
	return &Index{regions: regions}
}

// Open loads every polygon of the shapefile at path, naming each region by the
// nameField attribute.
func Open(path, nameField string) (*Index, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open regions shapefile %s: %w", path, err)
	}
	defer r.Close()

	nameIdx := -1
	for i, f := range r.Fields() {
		if f.String() == nameField {
			nameIdx = i
			break
		}
	}
	if nameIdx < 0 {
		return nil, fmt.Errorf("regions shapefile %s: no %q attribute", path, nameField)
	}

	var regions []Region
	for r.Next() {
		idx, shape := r.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}

		// Split the flat points slice into parts.
		numParts := len(poly.Parts)
		parts := make([][][2]float64, numParts)
		for partIdx := 0; partIdx < numParts; partIdx++ {
			start := poly.Parts[partIdx]
			end := int32(len(poly.Points))
			if partIdx+1 < numParts {
				end = poly.Parts[partIdx+1]
			}
			ring := make([][2]float64, 0, end-start)
			for i := start; i < end; i++ {
				pt := poly.Points[i]
				ring = append(ring, [2]float64{pt.Y, pt.X}) // lat, lon
			}
			parts[partIdx] = ring
		}

		regions = append(regions, NewRegion(r.ReadAttribute(idx, nameIdx), parts...))
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("read regions shapefile %s: %w", path, err)
	}

	return New(regions), nil
}

// Lookup returns the name of the first region containing the point.
func (ix *Index) Lookup(lat, lon float64) (string, bool) {
	if ix == nil {
		return "", false
	}
	for _, r := range ix.regions {
		if r.Contains(lat, lon) {
			return r.Name, true
		}
	}
	return "", false
}

// Len reports the number of indexed regions.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.regions)
}

// pointInPolygon implements the ray-casting algorithm for testing whether a
// point is inside a ring. Shapefile rings are closed, but closure is not required.
func pointInPolygon(lat, lon float64, ring [][2]float64) bool {
	inside := false
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		yi, xi := ring[i][0], ring[i][1]
		yj, xj := ring[j][0], ring[j][1]
		intersect := ((yi > lat) != (yj > lat)) && (lon < (xj-xi)*(lat-yi)/(yj-yi)+xi)
		if intersect {
			inside = !inside
		}
		j = i
	}
	return inside
}
