package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/geotext/internal/analyzer"
	"github.com/woozymasta/geotext/internal/config"
)

func newAnalyzer(t *testing.T) *analyzer.Analyzer {
	t.Helper()
	a, err := analyzer.NewFromConfig(config.Default())
	require.NoError(t, err)
	return a
}

func writeInputs(t *testing.T, texts ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, len(texts))
	for i, text := range texts {
		paths[i] = filepath.Join(dir, string(rune('a'+i))+".txt")
		require.NoError(t, os.WriteFile(paths[i], []byte(text), 0o600))
	}
	return paths
}

func TestProcessFiles(t *testing.T) {
	paths := writeInputs(t,
		"Point A: 51°12'32.21″N, 0°5'12.3″E",
		"A 10.5 20.5, B 11.0 21.0",
		"nothing here",
	)
	paths = append(paths, filepath.Join(t.TempDir(), "missing.txt"))

	results := ProcessFiles(context.Background(), newAnalyzer(t), paths, 2)
	require.Len(t, results, 4)

	for i, r := range results {
		assert.Equal(t, paths[i], r.Name)
	}
	require.NoError(t, results[0].Err)
	assert.Len(t, results[0].Set.Records, 1)
	assert.Len(t, results[1].Set.Records, 2)
	assert.Empty(t, results[2].Set.Records)
	assert.ErrorIs(t, results[3].Err, os.ErrNotExist)
}

func TestProcessFilesCanceled(t *testing.T) {
	paths := writeInputs(t, "45.5 10.5", "46.5 11.5")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := ProcessFiles(ctx, newAnalyzer(t), paths, 1)
	require.Len(t, results, 2)
	for _, r := range results {
		if r.Err != nil {
			assert.ErrorIs(t, r.Err, context.Canceled)
		}
	}
}

func TestProcessReader(t *testing.T) {
	r := ProcessReader(newAnalyzer(t), StdinName, strings.NewReader("45.5 10.5"))
	require.NoError(t, r.Err)
	assert.Equal(t, StdinName, r.Name)
	assert.Len(t, r.Set.Records, 1)
}

func TestEncodeSingle(t *testing.T) {
	res := ProcessReader(newAnalyzer(t), StdinName, strings.NewReader("Summit 45.5 10.5"))

	data, err := Encode([]Result{res}, FormatJSON)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "Point", doc["set_type"])
	coords := doc["coords"].([]any)
	require.Len(t, coords, 1)
	c := coords[0].(map[string]any)
	assert.Equal(t, "Decimal", c["format"])
	assert.Equal(t, "45.5 10.5", c["raw_match"])
	assert.Equal(t, "Summit", c["label"])
}

func TestEncodeMany(t *testing.T) {
	a := newAnalyzer(t)
	results := []Result{
		ProcessReader(a, "one.txt", strings.NewReader("45.5 10.5")),
		ProcessReader(a, "two.txt", strings.NewReader("A 10.5 20.5, B 11.0 21.0")),
		{Name: "bad.txt", Err: os.ErrNotExist},
	}

	data, err := Encode(results, FormatYAML)
	require.NoError(t, err)

	var doc map[string]struct {
		SetType string `yaml:"set_type"`
		Coords  []struct {
			Format string  `yaml:"format"`
			Lat    float64 `yaml:"lat"`
		} `yaml:"coords"`
	}
	require.NoError(t, yaml.Unmarshal(data, &doc))
	require.Len(t, doc, 2)
	assert.Equal(t, "Point", doc["one.txt"].SetType)
	assert.Equal(t, "Line", doc["two.txt"].SetType)
	assert.Equal(t, "Decimal", doc["two.txt"].Coords[0].Format)
	assert.InDelta(t, 10.5, doc["two.txt"].Coords[0].Lat, 1e-9)
}

func TestEncodeGeoJSON(t *testing.T) {
	res := ProcessReader(newAnalyzer(t), StdinName, strings.NewReader("A 10.5 20.5, B 11.0 21.0"))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []Result{res}, FormatGeoJSON))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "FeatureCollection", doc["type"])
	assert.Len(t, doc["features"], 3)
}

func TestEncodeUnknownFormat(t *testing.T) {
	_, err := Encode(nil, "xml")
	assert.Error(t, err)
}

func TestSaveFile(t *testing.T) {
	res := ProcessReader(newAnalyzer(t), StdinName, strings.NewReader("45.5 10.5"))
	path := filepath.Join(t.TempDir(), "nested", "out.json")

	require.NoError(t, SaveFile(path, []Result{res}, FormatJSON))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"set_type": "Point"`)
}
