package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/geotext/internal/geo"
	"github.com/woozymasta/geotext/internal/textctx"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
closure_tolerance: 0.001
order: position
rescan_rejected: true
keywords: [Camp]
priorities:
  Decimal: 99
  DegMin: 5
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, OrderPosition, cfg.Order)
	assert.InDelta(t, 0.001, cfg.ClosureTolerance, 1e-12)
	assert.Equal(t, []string{"Camp"}, cfg.Keywords)
	assert.True(t, cfg.RescanRejected)
	assert.Equal(t, map[geo.Format]int{geo.Decimal: 99, geo.DegMin: 5}, cfg.Priorities)
}

func TestLoadKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "priorities:\n  GoogleStyle: 1\n"))
	require.NoError(t, err)

	assert.Equal(t, OrderLexical, cfg.Order)
	assert.Equal(t, geo.DefaultClosureTolerance, cfg.ClosureTolerance)
	assert.Equal(t, textctx.DefaultKeywords, cfg.Keywords)
	assert.False(t, cfg.RescanRejected)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "bad order", body: "order: random\n"},
		{name: "negative tolerance", body: "closure_tolerance: -1\n"},
		{name: "unknown format", body: "priorities:\n  Compact: 10\n"},
		{name: "unknown pattern", body: "priorities:\n  Unknown: 10\n"},
		{name: "syntax", body: "order: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")

	_, err := Load(path)
	assert.ErrorIs(t, err, os.ErrNotExist)

	cfg, err := LoadOrDefault(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidateFillsZeroValues(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, OrderLexical, cfg.Order)
	assert.Equal(t, geo.DefaultClosureTolerance, cfg.ClosureTolerance)
}

func TestDefaultIsIndependentCopy(t *testing.T) {
	cfg := Default()
	cfg.Keywords[0] = "changed"
	assert.Equal(t, "Point", textctx.DefaultKeywords[0])
}
