package common

import (
	"path/filepath"
	"testing"
)

func TestNewLoggerFromConfig_Defaults(t *testing.T) {
	logger := NewLoggerFromConfig(LoggingConfig{
		Level:    "debug",
		Outputs:  []string{"file"},
		FilePath: filepath.Join(t.TempDir(), "test.log"),
	})
	if logger == nil {
		t.Fatal("expected a logger")
	}
	logger.Debug().Msg("smoke")
}

func TestNewSilentLogger_DiscardsOutput(t *testing.T) {
	logger := NewSilentLogger()
	if logger == nil {
		t.Fatal("expected a logger")
	}
	// Must not panic or write anywhere.
	logger.Info().Str("key", "value").Msg("discarded")
	logger.Error().Msg("also discarded")
}

func TestWithCorrelationId_ForksLogger(t *testing.T) {
	logger := NewSilentLogger()
	correlated := logger.WithCorrelationId("req-123")

	if correlated == nil {
		t.Fatal("expected a correlated logger")
	}
	if correlated == logger {
		t.Error("expected a new logger instance, not the parent")
	}
	correlated.Info().Msg("correlated entry")
}
