package utils

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger returns a zap logger named name. Debug mode uses the development
// config (console, debug level). Otherwise it logs JSON at info level without
// sampling. Both write to stderr so command output on stdout stays clean.
func NewLogger(debug bool, name string) (*zap.Logger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger.Named(name), nil
}
