package logger_test

import (
	"log/slog"

	"github.com/soundprediction/ontograph/pkg/logger"
)

func ExampleNewDefaultLogger() {
	log := logger.NewDefaultLogger(slog.LevelDebug)

	log.Debug("This is a debug message")
	log.Info("This is an info message")
	log.Info("Persisting paper node") // green in terminal
	log.Warn("This is a warning message")
	log.Error("This is an error message")
}

func ExampleNew() {
	log := logger.NewDefaultLogger(slog.LevelInfo)

	log.Info("Resolving extracted entity", "label", "Dataset", "key", "SQuAD")
	log.Warn("Query rewrite unsupported", "returns", 2)
	log.Error("Graph write failed", "error", "timeout")
}
