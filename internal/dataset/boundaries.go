package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/smartmove-bcn/mobility-backend-go/internal/spatial"
)

// nameCandidates is the ordered list of boundary attributes probed for the
// area name; the first one present wins.
var nameCandidates = []string{"n_barri", "NOM", "barrio", "Name"}

// boundaryFeature is one boundary polygon after cleaning and reprojection.
type boundaryFeature struct {
	Name     string
	JoinKey  string
	Geometry orb.Geometry
	Centroid spatial.Point
	Empty    bool
}

// crsEnvelope picks the legacy GeoJSON crs member out of the raw document.
// Modern files omit it; municipal open-data exports usually still carry it.
type crsEnvelope struct {
	CRS *struct {
		Properties struct {
			Name string `json:"name"`
		} `json:"properties"`
	} `json:"crs"`
}

// loadBoundaries reads the boundary file, resolves the name attribute and
// returns every feature in WGS84 lon/lat.
func loadBoundaries(path string) ([]boundaryFeature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read boundary file: %w", err)
	}

	var env crsEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse boundary file: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse boundary file: %w", err)
	}

	nameCol, err := findNameColumn(fc)
	if err != nil {
		return nil, err
	}

	projected, err := isProjected(env, fc)
	if err != nil {
		return nil, err
	}

	features := make([]boundaryFeature, 0, len(fc.Features))
	for _, f := range fc.Features {
		bf := boundaryFeature{
			Name: propertyString(f.Properties, nameCol),
		}
		bf.JoinKey = normalizeKey(bf.Name)

		if f.Geometry == nil || geometryEmpty(f.Geometry) {
			bf.Empty = true
			features = append(features, bf)
			continue
		}

		geom := f.Geometry
		if projected {
			geom = reprojectGeometry(geom)
		}
		bf.Geometry = geom

		center, _ := planar.CentroidArea(geom)
		bf.Centroid = spatial.Point{Lat: center.Lat(), Lon: center.Lon()}
		features = append(features, bf)
	}

	return features, nil
}

// geometryEmpty reports whether a parsed geometry carries no coordinates.
// GeoJSON allows "coordinates": [], which unmarshals as a zero-length
// geometry rather than nil; those features are as empty as null ones and
// must stay out of the centroid math.
func geometryEmpty(g orb.Geometry) bool {
	switch geom := g.(type) {
	case orb.Point:
		return false
	case orb.MultiPoint:
		return len(geom) == 0
	case orb.LineString:
		return len(geom) == 0
	case orb.MultiLineString:
		for _, ls := range geom {
			if len(ls) > 0 {
				return false
			}
		}
		return true
	case orb.Ring:
		return len(geom) == 0
	case orb.Polygon:
		for _, ring := range geom {
			if len(ring) > 0 {
				return false
			}
		}
		return true
	case orb.MultiPolygon:
		for _, poly := range geom {
			if !geometryEmpty(poly) {
				return false
			}
		}
		return true
	case orb.Collection:
		for _, sub := range geom {
			if !geometryEmpty(sub) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// findNameColumn probes the candidate attributes against every feature's
// properties and returns the first candidate present anywhere.
func findNameColumn(fc *geojson.FeatureCollection) (string, error) {
	present := make(map[string]bool)
	for _, f := range fc.Features {
		for key := range f.Properties {
			present[key] = true
		}
	}

	for _, candidate := range nameCandidates {
		if present[candidate] {
			return candidate, nil
		}
	}

	return "", ErrNoNameColumn
}

// propertyString reads a property as its display string; non-string values
// are formatted, mirroring the upstream astype(str) behavior.
func propertyString(props geojson.Properties, key string) string {
	v, ok := props[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// isProjected decides whether the collection needs reprojection. The crs
// member wins when present; otherwise a coordinate-magnitude heuristic is
// used (UTM eastings/northings are far outside the lon/lat value range).
func isProjected(env crsEnvelope, fc *geojson.FeatureCollection) (bool, error) {
	if env.CRS != nil {
		name := env.CRS.Properties.Name
		switch {
		case strings.Contains(name, "4326"), strings.Contains(name, "CRS84"):
			return false, nil
		case strings.Contains(name, "25831"):
			return true, nil
		default:
			return false, fmt.Errorf("%w %q", ErrUnsupportedCRS, name)
		}
	}

	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		b := f.Geometry.Bound()
		if b.Max.X() > 180 || b.Min.X() < -180 || b.Max.Y() > 90 || b.Min.Y() < -90 {
			return true, nil
		}
	}
	return false, nil
}

// reprojectGeometry transforms every coordinate from EPSG:25831 to WGS84.
func reprojectGeometry(g orb.Geometry) orb.Geometry {
	switch geom := g.(type) {
	case orb.Point:
		return reprojectPoint(geom)
	case orb.MultiPoint:
		out := make(orb.MultiPoint, len(geom))
		for i, p := range geom {
			out[i] = reprojectPoint(p)
		}
		return out
	case orb.LineString:
		return orb.LineString(reprojectGeometry(orb.MultiPoint(geom)).(orb.MultiPoint))
	case orb.MultiLineString:
		out := make(orb.MultiLineString, len(geom))
		for i, ls := range geom {
			out[i] = reprojectGeometry(ls).(orb.LineString)
		}
		return out
	case orb.Ring:
		return orb.Ring(reprojectGeometry(orb.LineString(geom)).(orb.LineString))
	case orb.Polygon:
		out := make(orb.Polygon, len(geom))
		for i, ring := range geom {
			out[i] = reprojectGeometry(ring).(orb.Ring)
		}
		return out
	case orb.MultiPolygon:
		out := make(orb.MultiPolygon, len(geom))
		for i, poly := range geom {
			out[i] = reprojectGeometry(poly).(orb.Polygon)
		}
		return out
	case orb.Collection:
		out := make(orb.Collection, len(geom))
		for i, sub := range geom {
			out[i] = reprojectGeometry(sub)
		}
		return out
	default:
		return g
	}
}

func reprojectPoint(p orb.Point) orb.Point {
	lat, lon := spatial.UTM31NToLatLon(p.X(), p.Y())
	return orb.Point{lon, lat}
}
