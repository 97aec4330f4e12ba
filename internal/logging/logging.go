// Package logging configures the zerolog logger used by sofia2hdf5 and
// carries it through context.Context.
package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var logger *zerolog.Logger

func init() {
	l := zerolog.New(os.Stderr).With().Timestamp().Logger()
	logger = &l
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// Init points the global logger at w. debug lowers the level to Debug;
// human selects the console writer instead of JSON.
func Init(w io.Writer, debug bool, human bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	var output zerolog.LevelWriter
	if human {
		output = zerolog.LevelWriterAdapter{Writer: zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}}
	} else {
		output = zerolog.LevelWriterAdapter{Writer: w}
	}

	l := zerolog.New(output).With().Timestamp().Logger()
	logger = &l
}

// WithPhase returns ctx with its logger tagged with the pipeline phase.
func WithPhase(ctx context.Context, phase string) context.Context {
	return WithLogger(ctx, FromContext(ctx).With().Str("phase", phase).Logger())
}

// WithRun returns ctx with its logger tagged with a fresh run_id.
func WithRun(ctx context.Context) context.Context {
	return WithLogger(ctx, FromContext(ctx).With().Str("run_id", uuid.NewString()).Logger())
}

type loggerKey struct{}

// WithLogger returns a context carrying l.
func WithLogger(ctx context.Context, l zerolog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey{}, l)
}

// FromContext returns the logger stored in ctx, or the global logger.
func FromContext(ctx context.Context) zerolog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
			return l
		}
	}
	return *logger
}
