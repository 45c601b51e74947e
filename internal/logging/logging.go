package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a production zap logger that emits JSON to stdout,
// tagged with the service and environment. When LOG_FILE is set, logs
// are duplicated to that file to aid local debugging.
func NewLogger(service, env string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stdout"}

	if logFile := os.Getenv("LOG_FILE"); logFile != "" {
		if err := ensureLogFile(logFile); err != nil {
			return nil, fmt.Errorf("prepare log file: %w", err)
		}
		cfg.OutputPaths = append(cfg.OutputPaths, logFile)
		cfg.ErrorOutputPaths = append(cfg.ErrorOutputPaths, logFile)
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder

	if env == "development" {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	cfg.InitialFields = map[string]any{
		"service": service,
		"env":     env,
	}

	return cfg.Build()
}

// MustNewLogger is like NewLogger but panics if the logger cannot be created.
func MustNewLogger(service, env string) *zap.Logger {
	logger, err := NewLogger(service, env)
	if err != nil {
		panic(err)
	}
	return logger
}

func ensureLogFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		f, createErr := os.OpenFile(path, os.O_CREATE, 0o644)
		if createErr != nil {
			return createErr
		}
		_ = f.Close()
	}
	return nil
}
