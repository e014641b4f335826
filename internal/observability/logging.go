// Package observability builds the simulator's structured loggers.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yopox/decade-jam/internal/config"
)

// NewLogger creates the root "fightsim" logger writing to cfg.OutputPath().
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}
	encoder, err := encoderConfig(cfg.Format)
	if err != nil {
		return nil, err
	}

	logger, err := zap.Config{
		Level:            level,
		Development:      cfg.Format == "console",
		Encoding:         cfg.Format,
		EncoderConfig:    encoder,
		OutputPaths:      []string{cfg.OutputPath()},
		ErrorOutputPaths: []string{config.DefaultLogOutput},
	}.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger.Named("fightsim"), nil
}

// encoderConfig picks field names per format. Fight events are emitted in
// bursts, so no sampling is configured: every debug line of a turn survives.
func encoderConfig(format string) (zapcore.EncoderConfig, error) {
	var enc zapcore.EncoderConfig
	switch format {
	case "json":
		enc = zap.NewProductionEncoderConfig()
	case "console":
		enc = zap.NewDevelopmentEncoderConfig()
	default:
		return enc, fmt.Errorf("unknown log format %q", format)
	}
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	return enc, nil
}

// MatchupLogger scopes base to one matchup of a run.
func MatchupLogger(base *zap.Logger, matchup string) *zap.Logger {
	return base.Named("fight").With(zap.String("matchup", matchup))
}
