package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "https://localhost:7000", cfg.APIBaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("API_BASE_URL", "https://api.lendworks.example")
	t.Setenv("SESSION_FILE", "/tmp/session.json")
	t.Setenv("ENVIRONMENT", "production")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://api.lendworks.example", cfg.APIBaseURL)
	assert.Equal(t, "/tmp/session.json", cfg.SessionFile)
	assert.True(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{"valid https", "https://api.example.com", false},
		{"valid http", "http://localhost:7000", false},
		{"trims whitespace", "  https://api.example.com  ", false},
		{"empty", "", true},
		{"no scheme", "api.example.com", true},
		{"garbage", "://nope", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{APIBaseURL: tt.baseURL}
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestEnvironmentClassification(t *testing.T) {
	assert.True(t, (&Config{Environment: "prod"}).IsProduction())
	assert.False(t, (&Config{Environment: "staging"}).IsProduction())
	assert.False(t, (&Config{Environment: "staging"}).IsDevelopment())
	assert.True(t, (&Config{Environment: ""}).IsDevelopment())
	assert.True(t, (&Config{Environment: "dev"}).IsDevelopment())
}
