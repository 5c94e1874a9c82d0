package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/PlayraLive/h-ai-sub006/internal/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("loud"))
}

func TestJSONOutput(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		format      string
		want        bool
	}{
		{"console in development", "development", "console", false},
		{"json requested", "development", "JSON", true},
		{"production forces json", "production", "console", true},
		{"production default format", "production", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				Server:  config.ServerConfig{Environment: tt.environment},
				Logging: config.LoggingConfig{Format: tt.format},
			}
			assert.Equal(t, tt.want, jsonOutput(cfg))
		})
	}
}

func TestNew_InstallsGlobal(t *testing.T) {
	cfg := &config.Config{Logging: config.LoggingConfig{Level: "error", Format: "json"}}
	l := New(cfg)

	assert.Equal(t, zerolog.ErrorLevel, l.GetLevel())
	assert.Equal(t, zerolog.ErrorLevel, Get().GetLevel())
}
