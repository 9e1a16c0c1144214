package logging_test

import (
	"testing"

	"github.com/nerrad567/point-relay/internal/infrastructure/config"
	"github.com/nerrad567/point-relay/internal/infrastructure/logging"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LoggingConfig
	}{
		{"json to stdout", config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"}},
		{"text to stderr", config.LoggingConfig{Level: "debug", Format: "text", Output: "stderr"}},
		{"unknown values fall back to defaults", config.LoggingConfig{Level: "verbose", Format: "xml", Output: "printer"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := logging.New(tt.cfg, "test")
			if log == nil {
				t.Fatal("New() returned nil")
			}
			// Must not panic
			log.Debug("debug message")
			log.Info("info message", "key", "value")
		})
	}
}

func TestWith(t *testing.T) {
	log := logging.Default()

	child := log.With("component", "test")
	if child == nil {
		t.Fatal("With() returned nil")
	}
	if child == log {
		t.Error("With() should return a new logger")
	}
	child.Info("message from child logger")
}

func TestDefault(t *testing.T) {
	log := logging.Default()
	if log == nil {
		t.Fatal("Default() returned nil")
	}
	log.Info("default logger works")
}
