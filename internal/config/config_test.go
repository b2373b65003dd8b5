package config

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "PRODUCT_COL", "PRICE_COL", "HEADER_ROW", "SUGGEST_THRESHOLD", "MAX_SUGGESTIONS"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	assert.Equal(t, 8082, cfg.Port)
	assert.Equal(t, "Product", cfg.ProductCol)
	assert.Equal(t, "Price", cfg.PriceCol)
	assert.Equal(t, 1, cfg.HeaderRow)
	assert.InDelta(t, 0.6, cfg.SuggestThreshold, 1e-9)
	assert.Equal(t, 3, cfg.MaxSuggestions)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("HOST", "0.0.0.0")
	t.Setenv("SPEC_COL", "")
	t.Setenv("HEADER_ROW", "0")
	t.Setenv("SUGGEST_THRESHOLD", "1.5")
	t.Setenv("ALLOW_ORIGINS", "http://a,http://b")
	cfg := Load()

	assert.Equal(t, "0.0.0.0:9000", cfg.Addr())
	assert.Empty(t, cfg.SpecCol) // пустой SPEC_COL: без спецификации
	assert.Equal(t, 1, cfg.HeaderRow)
	assert.InDelta(t, 0.6, cfg.SuggestThreshold, 1e-9)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.AllowOrigins)
}

func TestSetupLoggerTo(t *testing.T) {
	var buf bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "logs", "procure.log")
	logger := SetupLoggerTo(Config{LogLevel: "warn", LogFile: logFile}, &buf)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	require.FileExists(t, logFile)
}
