package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// LoggingOptions holds the global logging flags.
type LoggingOptions struct {
	Level string
	File  string
}

// InitLogging configures the global zerolog logger. Console output goes to
// stderr so stdout stays free for repaired logs; a log file, if given, is
// rotated by lumberjack.
func InitLogging(opts LoggingOptions, stderr io.Writer) error {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.WarnLevel
	}

	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        stderr,
		TimeFormat: time.TimeOnly,
		NoColor:    !isTerminal(stderr),
	}}
	if opts.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    1,
			MaxBackups: 2,
		})
	}

	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()

	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
