package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 0.2, cfg.TestSize)
	assert.Equal(t, int64(123), cfg.Seed)
	assert.Equal(t, PolicyWarn, cfg.ValidationPolicy)
	assert.Equal(t, ',', cfg.Delimiter())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5000, cfg.PlotSampleSize)
	assert.Equal(t, "raw_listings", cfg.SourceTable)
	assert.Equal(t, 1000, cfg.MaxIterations)
	assert.Equal(t, DefaultOutputNames(), cfg.Outputs)
	assert.Equal(t, DefaultRules(), cfg.Rules)
	assert.False(t, cfg.FailOnViolations())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("RENTALS_TEST_SIZE", "0.3")
	t.Setenv("RENTALS_SEED", "7")
	t.Setenv("RENTALS_VALIDATION_POLICY", "fail")
	t.Setenv("RENTALS_CSV_DELIMITER", ";")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 0.3, cfg.TestSize)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.True(t, cfg.FailOnViolations())
	assert.Equal(t, ';', cfg.Delimiter())
}

func TestFromEnvRejectsInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"RENTALS_TEST_SIZE", "1.5"},
		{"RENTALS_TEST_SIZE", "zero"},
		{"RENTALS_VALIDATION_POLICY", "ignore"},
		{"RENTALS_CSV_DELIMITER", ";;"},
		{"RENTALS_LOG_LEVEL", "loud"},
		{"RENTALS_MAX_RETRIES", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoadRulesOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"allowed_states: [CA, TX]\nmin_positive_rate: 0.1\n"), 0644))

	rules, err := LoadRules(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"CA", "TX"}, rules.AllowedStates)
	assert.Equal(t, 0.1, rules.MinPositiveRate)
	assert.Equal(t, DefaultRules().AllowedFee, rules.AllowedFee)
	assert.Equal(t, 0.95, rules.MaxPositiveRate)
}

func TestLoadRulesErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0644))
		return p
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "absent.yaml")},
		{"unknown key", write("unknown.yaml", "allowed_planets: [Mars]\n")},
		{"inverted rates", write("rates.yaml", "min_positive_rate: 0.6\nmax_positive_rate: 0.4\n")},
		{"empty enumeration", write("empty.yaml", "allowed_fee: []\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRules(tt.path)
			assert.Error(t, err)
		})
	}
}

func TestFromEnvLoadsRulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_correlation: 0.8\n"), 0644))
	t.Setenv("RENTALS_RULES_FILE", path)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 0.8, cfg.Rules.MaxCorrelation)
}
