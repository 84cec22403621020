package geo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureCollectionPoint(t *testing.T) {
	r := rec(55.75, 37.61)
	r.Label = "Kremlin"
	r.RawMatch = "55.75, 37.61"

	fc := FeatureCollection(Set{Records: []Record{r}, Type: Point})
	require.Len(t, fc.Features, 1)

	f := fc.Features[0]
	assert.Equal(t, "Point", f.Geometry.Type)
	assert.Equal(t, []float64{37.61, 55.75}, f.Geometry.Coordinates)
	assert.Equal(t, "Kremlin", f.Properties["label"])
	assert.Equal(t, "Decimal", f.Properties["format"])
}

func TestFeatureCollectionSkipsInvalid(t *testing.T) {
	bad := rec(91, 10)
	bad.Valid = false

	fc := FeatureCollection(Set{Records: []Record{bad}, Type: Point})
	assert.Empty(t, fc.Features)

	data, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"FeatureCollection","features":[]}`, string(data))
}

func TestFeatureCollectionLine(t *testing.T) {
	set := Set{Records: []Record{rec(1, 2), rec(3, 4)}, Type: Line}

	fc := FeatureCollection(set)
	require.Len(t, fc.Features, 3)

	line := fc.Features[2]
	assert.Equal(t, "LineString", line.Geometry.Type)
	assert.Equal(t, [][]float64{{2, 1}, {4, 3}}, line.Geometry.Coordinates)
}

func TestFeatureCollectionPolygon(t *testing.T) {
	records := []Record{rec(10, 20), rec(11, 21), rec(12, 20), rec(10.00005, 20.00005)}
	set := Set{Records: records, Type: ClosedPolygon}

	fc := FeatureCollection(set)
	require.Len(t, fc.Features, 5)

	poly := fc.Features[4]
	assert.Equal(t, "Polygon", poly.Geometry.Type)

	rings, ok := poly.Geometry.Coordinates.([][][]float64)
	require.True(t, ok)
	require.Len(t, rings, 1)
	require.Len(t, rings[0], 4)
	assert.Equal(t, rings[0][0], rings[0][3])

	// source positions stay untouched
	assert.Equal(t, []float64{20.00005, 10.00005}, fc.Features[3].Geometry.Coordinates)
}
