package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{
		"baseUrl": "https://store.example.com",
		"apiKey": "secret",
		"projectId": "pr-tracker"
	}`))
	require.NoError(t, err)
	assert.Equal(t, "https://store.example.com", cfg.BaseURL)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, "pr-tracker", cfg.ProjectID)
}

func TestParseConfig_OptionalFieldsOmitted(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"baseUrl": "http://localhost:9090"}`))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9090", cfg.BaseURL)
	assert.Empty(t, cfg.APIKey)
}

// Stored blobs carry extra provider keys the client never reads; the schema
// must tolerate them.
func TestParseConfig_UnknownFieldsTolerated(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{
		"baseUrl": "https://store.example.com",
		"authDomain": "pr-tracker.example.com",
		"storageBucket": "pr-tracker.appspot.com",
		"messagingSenderId": "123456"
	}`))
	require.NoError(t, err)
	assert.Equal(t, "https://store.example.com", cfg.BaseURL)
}

func TestParseConfig_Rejections(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"not JSON", `{"baseUrl": `},
		{"missing baseUrl", `{"apiKey": "secret"}`},
		{"baseUrl wrong type", `{"baseUrl": 42}`},
		{"baseUrl not a URL", `{"baseUrl": "store.example.com"}`},
		{"apiKey wrong type", `{"baseUrl": "https://x.example.com", "apiKey": true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.blob))
			require.Error(t, err)
			assert.True(t, IsConfigError(err), "expected a ConfigError, got %v", err)
		})
	}
}

func TestIsConfigError(t *testing.T) {
	assert.True(t, IsConfigError(&ConfigError{Reason: "schema violation"}))
	assert.False(t, IsConfigError(assert.AnError))
	assert.False(t, IsConfigError(nil))
}
