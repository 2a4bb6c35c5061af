package cli

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// newLogger builds the session logger. Logs go to logPath when set, to
// stderr when verbose, and nowhere otherwise so the live UI owns the screen.
func newLogger(level, logPath string, verbose bool) (*zap.Logger, error) {
	if strings.TrimSpace(logPath) == "" && !verbose {
		return zap.NewNop(), nil
	}
	atomic, err := zap.ParseAtomicLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = atomic
	cfg.Encoding = "console"
	cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	cfg.OutputPaths = []string{"stderr"}
	if logPath != "" {
		cfg.OutputPaths = []string{logPath}
	}
	cfg.ErrorOutputPaths = cfg.OutputPaths
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
