// Package zerolog adapts github.com/rs/zerolog to the logger.Logger contract.
package zerolog

import (
	"fmt"
	"os"

	"github.com/raykavin/chartline/pkg/logger"
	"github.com/rs/zerolog"
)

// Adapter wraps a zerolog.Logger to satisfy logger.Logger.
type Adapter struct {
	*zerolog.Logger
}

// New builds a console or JSON logger at the given level. Unknown level
// strings fail with an error rather than being silently mapped.
func New(level string, jsonFormat bool) (*Adapter, error) {
	mode, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var log zerolog.Logger
	if jsonFormat {
		log = zerolog.New(os.Stdout).Level(mode).With().Timestamp().Logger()
	} else {
		output := zerolog.ConsoleWriter{Out: os.Stdout}
		log = zerolog.New(output).Level(mode).With().Timestamp().Logger()
	}

	return &Adapter{&log}, nil
}

// NewAdapter wraps an existing zerolog logger.
func NewAdapter(log *zerolog.Logger) *Adapter {
	return &Adapter{log}
}

// WithField implements logger.Logger.
func (a *Adapter) WithField(key string, value any) logger.Logger {
	log := a.With().Interface(key, value).Logger()
	return &Adapter{&log}
}

// WithFields implements logger.Logger.
func (a *Adapter) WithFields(fields map[string]any) logger.Logger {
	log := a.With().Fields(fields).Logger()
	return &Adapter{&log}
}

// WithError implements logger.Logger.
func (a *Adapter) WithError(err error) logger.Logger {
	log := a.With().Err(err).Logger()
	return &Adapter{&log}
}

// Trace implements logger.Logger.
func (a *Adapter) Trace(args ...any) { a.Logger.Trace().Msg(fmt.Sprint(args...)) }

// Debug implements logger.Logger.
func (a *Adapter) Debug(args ...any) { a.Logger.Debug().Msg(fmt.Sprint(args...)) }

// Info implements logger.Logger.
func (a *Adapter) Info(args ...any) { a.Logger.Info().Msg(fmt.Sprint(args...)) }

// Warn implements logger.Logger.
func (a *Adapter) Warn(args ...any) { a.Logger.Warn().Msg(fmt.Sprint(args...)) }

// Error implements logger.Logger.
func (a *Adapter) Error(args ...any) { a.Logger.Error().Msg(fmt.Sprint(args...)) }

// Fatal implements logger.Logger.
func (a *Adapter) Fatal(args ...any) { a.Logger.Fatal().Msg(fmt.Sprint(args...)) }

// Tracef implements logger.Logger.
func (a *Adapter) Tracef(format string, args ...any) { a.Logger.Trace().Msgf(format, args...) }

// Debugf implements logger.Logger.
func (a *Adapter) Debugf(format string, args ...any) { a.Logger.Debug().Msgf(format, args...) }

// Infof implements logger.Logger.
func (a *Adapter) Infof(format string, args ...any) { a.Logger.Info().Msgf(format, args...) }

// Warnf implements logger.Logger.
func (a *Adapter) Warnf(format string, args ...any) { a.Logger.Warn().Msgf(format, args...) }

// Errorf implements logger.Logger.
func (a *Adapter) Errorf(format string, args ...any) { a.Logger.Error().Msgf(format, args...) }

// Fatalf implements logger.Logger.
func (a *Adapter) Fatalf(format string, args ...any) { a.Logger.Fatal().Msgf(format, args...) }

// SetLevel implements logger.Logger.
func (a *Adapter) SetLevel(level logger.Level) {
	log := a.Logger.Level(toZerologLevel(level))
	*a.Logger = log
}

// GetLevel implements logger.Logger.
func (a *Adapter) GetLevel() logger.Level {
	return toLevel(a.Logger.GetLevel())
}

// toLevel converts zerolog.Level to logger.Level.
func toLevel(level zerolog.Level) logger.Level {
	levelMap := map[zerolog.Level]logger.Level{
		zerolog.Disabled:   logger.Disabled,
		zerolog.TraceLevel: logger.TraceLevel,
		zerolog.DebugLevel: logger.DebugLevel,
		zerolog.InfoLevel:  logger.InfoLevel,
		zerolog.WarnLevel:  logger.WarnLevel,
		zerolog.ErrorLevel: logger.ErrorLevel,
		zerolog.FatalLevel: logger.FatalLevel,
	}

	if l, ok := levelMap[level]; ok {
		return l
	}
	return logger.InfoLevel
}

// toZerologLevel converts logger.Level to zerolog.Level.
func toZerologLevel(level logger.Level) zerolog.Level {
	levelMap := map[logger.Level]zerolog.Level{
		logger.Disabled:   zerolog.Disabled,
		logger.TraceLevel: zerolog.TraceLevel,
		logger.DebugLevel: zerolog.DebugLevel,
		logger.InfoLevel:  zerolog.InfoLevel,
		logger.WarnLevel:  zerolog.WarnLevel,
		logger.ErrorLevel: zerolog.ErrorLevel,
		logger.FatalLevel: zerolog.FatalLevel,
	}

	if l, ok := levelMap[level]; ok {
		return l
	}
	return zerolog.InfoLevel
}
