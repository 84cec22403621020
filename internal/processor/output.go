package processor

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/geotext/internal/geo"
)

// Output formats.
const (
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatGeoJSON = "geojson"
)

// Encode renders results as one document. A single result is written as is;
// several are keyed by input name. Failed results are skipped.
func Encode(results []Result, format string) ([]byte, error) {
	var doc any
	ok := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Err == nil {
			ok = append(ok, r)
		}
	}

	convert := func(s geo.Set) any { return s }
	if format == FormatGeoJSON {
		convert = func(s geo.Set) any { return geo.FeatureCollection(s) }
	}

	if len(results) == 1 && len(ok) == 1 {
		doc = convert(ok[0].Set)
	} else {
		byName := make(map[string]any, len(ok))
		for _, r := range ok {
			byName[r.Name] = convert(r.Set)
		}
		doc = byName
	}

	switch format {
	case FormatJSON, FormatGeoJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatYAML:
		return yaml.Marshal(doc)
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// Write encodes results to w.
func Write(w io.Writer, results []Result, format string) error {
	data, err := Encode(results, format)
	if err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	_, err = w.Write(data)
	return err
}

// SaveFile encodes results into path, creating parent directories.
func SaveFile(path string, results []Result, format string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	return Write(f, results, format)
}
