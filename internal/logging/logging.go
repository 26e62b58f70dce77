package logging

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/youruser/posterapp/internal/config"
)

var logLevelMatches = map[string]zerolog.Level{
	"NONE":  zerolog.Disabled,
	"TRACE": zerolog.TraceLevel,
	"DEBUG": zerolog.DebugLevel,
	"INFO":  zerolog.InfoLevel,
	"WARN":  zerolog.WarnLevel,
	"ERROR": zerolog.ErrorLevel,
	"FATAL": zerolog.FatalLevel,
}

// ParseLevel maps a level name to a zerolog level, falling back to info.
func ParseLevel(level string) (zerolog.Level, bool) {
	l, ok := logLevelMatches[strings.ToUpper(strings.TrimSpace(level))]
	if !ok {
		return zerolog.InfoLevel, false
	}
	return l, true
}

func isTerminalAttached() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) && runtime.GOOS != "windows"
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: out, TimeFormat: "2006-01-02 15:04:05"}
}

// Setup configures the global logger. The returned func closes the log file
// if one was opened; it is nil otherwise.
func Setup(cfg config.Log) (func(), error) {
	if isTerminalAttached() {
		log.Logger = log.Output(consoleWriter(os.Stdout))
	}
	level, ok := ParseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)
	if !ok {
		log.Warn().Str("level", cfg.Level).Msg("unknown log level, using info")
	}
	if cfg.File == "" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.File, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("error opening log file: %w", err)
	}
	log.Logger = log.Output(f)
	return func() { _ = f.Close() }, nil
}

// Enabled checks if a specific logging level is enabled.
func Enabled(level zerolog.Level) bool {
	return level >= zerolog.GlobalLevel()
}
