package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"

	"github.com/gardar/ocreval/pkg/overlay"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, norm.NFC, cfg.Form())
	assert.Equal(t, ".gt", cfg.OutputInfix)
	assert.Equal(t, []string{"SP"}, cfg.Removable["ALTO_V3"])
	assert.Len(t, cfg.FilterOptions(), 1)
	assert.Equal(t, overlay.DefaultConfig(), cfg.OverlayConfig())
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
log_level: debug
normalization: nfkd
removable:
  PAGE: [TextEquiv]
overlay:
  debug: true
  font_size: 12
`))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, norm.NFKD, cfg.Form())
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, []string{"SP"}, cfg.Removable["ALTO_V3"])
	assert.Equal(t, []string{"TextEquiv"}, cfg.Removable["PAGE"])
	assert.Len(t, cfg.FilterOptions(), 2)

	ov := cfg.OverlayConfig()
	assert.True(t, ov.Debug)
	assert.Equal(t, 12.0, ov.Font.Size)
	assert.Equal(t, "Helvetica", ov.Font.Name)
}

func TestParseInvalid(t *testing.T) {
	tests := map[string]string{
		"level":   "log_level: loud",
		"form":    "normalization: NFX",
		"infix":   "output_infix: gt",
		"workers": "workers: 0",
		"format":  "removable: {HOCR: [span]}",
		"font":    "overlay: {font_size: -1}",
		"syntax":  "workers: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "ocrgt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 2\n"), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
