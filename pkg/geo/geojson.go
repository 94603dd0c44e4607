package geo

import (
	"errors"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ErrNilCollection is returned when no feature collection is supplied.
var ErrNilCollection = errors.New("geo: nil feature collection")

// Parse decodes a GeoJSON FeatureCollection and converts it.
func Parse(data []byte, log logr.Logger) (*Dataset, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("geo: parsing feature collection: %w", err)
	}
	return FromGeoJSON(fc, log)
}

// FromGeoJSON converts an already-parsed feature collection. Polygon and
// MultiPolygon geometries are kept; features with any other geometry type
// are skipped and logged. Feature order is preserved.
func FromGeoJSON(fc *geojson.FeatureCollection, log logr.Logger) (*Dataset, error) {
	if fc == nil {
		return nil, ErrNilCollection
	}

	ds := &Dataset{Features: make([]Feature, 0, len(fc.Features))}
	var bound orb.Bound
	haveBound := false

	for i, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			log.Info("skipping feature without geometry", "index", i)
			continue
		}

		var polys []Polygon
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			polys = []Polygon{convertPolygon(g)}
		case orb.MultiPolygon:
			polys = make([]Polygon, 0, len(g))
			for _, p := range g {
				polys = append(polys, convertPolygon(p))
			}
		default:
			log.Info("skipping feature with unsupported geometry",
				"index", i, "type", f.Geometry.GeoJSONType())
			continue
		}

		md := convertProperties(f.Properties, log.WithValues("index", i))
		ds.Features = append(ds.Features, Feature{Metadata: md, Polygons: polys})

		if b := f.Geometry.Bound(); !b.IsEmpty() {
			if haveBound {
				bound = bound.Union(b)
			} else {
				bound = b
				haveBound = true
			}
		}
	}

	if haveBound {
		ds.Min = [2]float64{bound.Min.Lon(), bound.Min.Lat()}
		ds.Max = [2]float64{bound.Max.Lon(), bound.Max.Lat()}
	}

	log.V(1).Info("converted feature collection",
		"features", len(ds.Features), "skipped", len(fc.Features)-len(ds.Features))
	return ds, nil
}

func convertPolygon(p orb.Polygon) Polygon {
	out := make(Polygon, 0, len(p))
	for _, r := range p {
		ring := make(Ring, len(r))
		for i, pt := range r {
			ring[i] = Coord{Lon: pt.Lon(), Lat: pt.Lat()}
		}
		out = append(out, ring)
	}
	return out
}

// convertProperties keeps string and numeric properties. Booleans are
// stored as strings; nested arrays and objects are dropped.
func convertProperties(props geojson.Properties, log logr.Logger) Metadata {
	md := make(Metadata, len(props))
	for k, v := range props {
		switch val := v.(type) {
		case string:
			md[k] = val
		case float64:
			md[k] = val
		case float32:
			md[k] = float64(val)
		case int:
			md[k] = float64(val)
		case int64:
			md[k] = float64(val)
		case bool:
			if val {
				md[k] = "true"
			} else {
				md[k] = "false"
			}
		case nil:
		default:
			log.V(1).Info("dropping non-scalar property", "key", k)
		}
	}
	return md
}
