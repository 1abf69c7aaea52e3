package log

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the logging interface passed into every step. It exists so
// tests can capture output without touching a real terminal.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ZerologLogger implements Logger on top of zerolog with a console writer.
type ZerologLogger struct {
	logger zerolog.Logger
}

func NewZerologLogger(level zerolog.Level, out io.Writer) *ZerologLogger {
	writer := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.Kitchen,
	}
	return &ZerologLogger{
		logger: zerolog.New(writer).Level(level).With().Timestamp().Logger(),
	}
}

// NewRawLogger builds a Logger writing plain zerolog JSON lines.
// Used in tests where the console writer's formatting gets in the way.
func NewRawLogger(level zerolog.Level, out io.Writer) *ZerologLogger {
	return &ZerologLogger{
		logger: zerolog.New(out).Level(level),
	}
}

func (l *ZerologLogger) Debug(msg string, args ...any) {
	l.emit(l.logger.Debug(), msg, args)
}

func (l *ZerologLogger) Info(msg string, args ...any) {
	l.emit(l.logger.Info(), msg, args)
}

func (l *ZerologLogger) Warn(msg string, args ...any) {
	l.emit(l.logger.Warn(), msg, args)
}

func (l *ZerologLogger) Error(msg string, args ...any) {
	l.emit(l.logger.Error(), msg, args)
}

// emit attaches alternating key/value args as zerolog fields. A trailing
// key without a value is attached with a nil value rather than dropped.
func (l *ZerologLogger) emit(event *zerolog.Event, msg string, args []any) {
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		if i+1 < len(args) {
			event = event.Interface(key, args[i+1])
		} else {
			event = event.Interface(key, nil)
		}
	}
	event.Msg(msg)
}

// ParseLevel maps --log-level flag values onto zerolog levels.
func ParseLevel(levelStr string) (zerolog.Level, error) {
	return zerolog.ParseLevel(levelStr)
}
