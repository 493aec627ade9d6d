package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		BadgerFilepath:       "/tmp/badger",
		BlugeFilepath:        "/tmp/bluge",
		LogLevel:             "INFO",
		ConversationPageSize: 20,
		MessagePageSize:      50,
		LatestMessageLimit:   10,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		description string
		modify      func(c *Config)
		wantErr     bool
	}{
		{"Should accept a valid config", func(c *Config) {}, false},
		{"Should fail on missing badger path", func(c *Config) { c.BadgerFilepath = "" }, true},
		{"Should fail on missing bluge path", func(c *Config) { c.BlugeFilepath = "" }, true},
		{"Should fail on unknown log level", func(c *Config) { c.LogLevel = "VERBOSE" }, true},
		{"Should fail on zero page size", func(c *Config) { c.ConversationPageSize = 0 }, true},
		{"Should fail on negative message page size", func(c *Config) { c.MessagePageSize = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			require.Equal(t, tt.wantErr, err != nil, tt.description)
		})
	}
}
