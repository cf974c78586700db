package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/plenum/pkg/domain"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, []string{"\r\n", "\r\n"}, cfg.BlockDivider)
	assert.Equal(t, -1, cfg.Sections[domain.SectionAttachments])
	assert.Equal(t, "%A, den %d. %B %Y", cfg.DateFormat)
	assert.Equal(t, "Deutscher Bundestag", cfg.HeaderTrigger)
	assert.False(t, cfg.SuppressExceptions)
	assert.True(t, cfg.TailClaimsRest)
	assert.False(t, cfg.LookAheadIncludeTerminator)
	assert.True(t, cfg.LookAheadCountTrigger)
	assert.NoError(t, cfg.Validate())
}

func TestDivider_FallsBackToSingleCRLF(t *testing.T) {
	cfg := Default()
	cfg.BlockDivider = nil
	assert.Equal(t, []string{"\r\n"}, cfg.Divider())
}

func TestLoad_YAML(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "plenum.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"\n", "\n"}, cfg.BlockDivider)
	assert.Equal(t, map[string]int{"HEADER": 0, "AGENDA_ITEMS": 1, "ATTACHMENTS": -1}, cfg.Sections)
	assert.Equal(t, "%d.%m.%Y", cfg.DateFormat)
	assert.True(t, cfg.SuppressExceptions)
	assert.Equal(t, 90*time.Minute, cfg.Store.RedisTTL)
	assert.Equal(t, 2, cfg.Store.RedisDB)

	// untouched keys keep their defaults
	assert.Equal(t, Default().AgendaItemPattern, cfg.AgendaItemPattern)
}

func TestLoad_JSON(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "plenum.json"))
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"HEADER": 0, "DISCUSSIONS": 1}, cfg.Sections)
	assert.True(t, cfg.LookAheadIncludeTerminator)
	assert.Equal(t, "redis", cfg.Store.Backend)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestDecode_IgnoresNonSettingKeys(t *testing.T) {
	cfg, err := Decode(map[string]any{
		"log_level": "debug",
		"LOG_LEVEL": "warn",
	})
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestDecode_RejectsInvalidSettings(t *testing.T) {
	_, err := Decode(map[string]any{"PROTOCOL_SECTIONS": map[string]any{}})
	assert.Error(t, err)

	_, err = Decode(map[string]any{"STORE_BACKEND": "mongodb"})
	assert.Error(t, err)

	_, err = Decode(map[string]any{"PROTOCOL_BLOCK_DIVIDER": []any{"\r\n", ""}})
	assert.Error(t, err)

	_, err = Decode(map[string]any{"REDIS_DB": "two"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"no sections", func(c *Config) { c.Sections = nil }, "PROTOCOL_SECTIONS"},
		{"blank date format", func(c *Config) { c.DateFormat = "  " }, "PROTOCOL_DATE_FORMAT"},
		{"empty divider line", func(c *Config) { c.BlockDivider = []string{"\r\n", ""} }, "PROTOCOL_BLOCK_DIVIDER[1]"},
		{"unknown backend", func(c *Config) { c.Store.Backend = "s3" }, "STORE_BACKEND"},
		{"look-ahead flags flipped", func(c *Config) {
			c.LookAheadIncludeTerminator = true
			c.LookAheadCountTrigger = false
		}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}
