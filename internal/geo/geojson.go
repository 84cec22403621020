package geo

// GeoJSONFeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure.
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type" yaml:"type"`
	Features []GeoJSONFeature `json:"features" yaml:"features"`
}

// GeoJSONFeature represents a single geographic feature with geometry and properties.
type GeoJSONFeature struct {
	Properties map[string]interface{} `json:"properties" yaml:"properties"`
	Type       string                 `json:"type" yaml:"type"`
	Geometry   GeoJSONGeometry        `json:"geometry" yaml:"geometry"`
}

// GeoJSONGeometry represents the geometry of a feature.
// Coordinates is a position for Point, a list of positions for LineString
// and a list of rings for Polygon. Positions are [Lon, Lat].
type GeoJSONGeometry struct {
	Type        string      `json:"type" yaml:"type"`
	Coordinates interface{} `json:"coordinates" yaml:"coordinates"`
}

// FeatureCollection converts a set into GeoJSON.
// Every valid record becomes a Point feature; lines and closed polygons
// additionally get one feature tracing the records in set order.
func FeatureCollection(set Set) GeoJSONFeatureCollection {
	fc := GeoJSONFeatureCollection{Type: "FeatureCollection", Features: []GeoJSONFeature{}}

	path := make([][]float64, 0, len(set.Records))
	for _, r := range set.Records {
		if !r.Valid {
			continue
		}
		pos := []float64{r.Lon, r.Lat}
		path = append(path, pos)

		props := map[string]interface{}{
			"format":   r.Format.String(),
			"original": r.RawMatch,
		}
		if r.Label != "" {
			props["label"] = r.Label
		}

		fc.Features = append(fc.Features, GeoJSONFeature{
			Type:       "Feature",
			Geometry:   GeoJSONGeometry{Type: "Point", Coordinates: pos},
			Properties: props,
		})
	}

	switch {
	case set.Type == ClosedPolygon && len(path) >= 4:
		ring := append(path[:len(path)-1:len(path)-1], path[0])
		fc.Features = append(fc.Features, GeoJSONFeature{
			Type:       "Feature",
			Geometry:   GeoJSONGeometry{Type: "Polygon", Coordinates: [][][]float64{ring}},
			Properties: map[string]interface{}{"set_type": set.Type.String()},
		})
	case set.Type != Point && len(path) >= 2:
		fc.Features = append(fc.Features, GeoJSONFeature{
			Type:       "Feature",
			Geometry:   GeoJSONGeometry{Type: "LineString", Coordinates: path},
			Properties: map[string]interface{}{"set_type": set.Type.String()},
		})
	}

	return fc
}
