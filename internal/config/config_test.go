package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	// Create temp config file
	content := `{
		"user_id": "550e8400-e29b-41d4-a716-446655440000",
		"job_url": "https://example.com/job",
		"role": "Backend Developer",
		"duration_minutes": 10,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", cfg.UserID)
	assert.Equal(t, "https://example.com/job", cfg.JobURL)
	assert.Equal(t, "Backend Developer", cfg.Role)
	assert.Equal(t, 10, cfg.DurationMinutes)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_MutuallyExclusive(t *testing.T) {
	cfg := &Config{
		Job:    "job.txt",
		JobURL: "https://example.com/job",
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestValidate_DurationOutOfRange(t *testing.T) {
	for _, minutes := range []int{3, 16} {
		cfg := &Config{DurationMinutes: minutes}
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "duration_minutes")
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{
		Role:            "Backend Developer",
		Level:           "Senior",
		DurationMinutes: 10,
	}

	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestMergeWithDefaults(t *testing.T) {
	defaults := Config{
		Role:            "Default Role",
		Level:           "Mid-level",
		DatabaseURL:     "postgres://localhost/coach",
		DurationMinutes: 10,
	}

	partial := Config{
		Role:   "Custom Role",
		UserID: "custom-user-id",
	}

	merged := partial.MergeWithDefaults(defaults)

	// Custom values should be preserved
	assert.Equal(t, "Custom Role", merged.Role)
	assert.Equal(t, "custom-user-id", merged.UserID)

	// Default values should fill in empty fields
	assert.Equal(t, "Mid-level", merged.Level)
	assert.Equal(t, "postgres://localhost/coach", merged.DatabaseURL)
	assert.Equal(t, 10, merged.DurationMinutes)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{
		Role:   "Backend Developer",
		UserID: "test-user",
	}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "Backend Developer", merged.Role)
	assert.Equal(t, "test-user", merged.UserID)
}
