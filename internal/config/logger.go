package config

import (
    "io"
    "os"
    "strings"
    "time"

    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"
)

// SetupLogger configures the process-wide zerolog logger.  format "console"
// produces human readable lines for local development; anything else emits
// JSON.  The configured logger is also installed as zerolog's global
// logger so packages can use github.com/rs/zerolog/log directly.
func SetupLogger(level, format string) zerolog.Logger {
    lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
    if err != nil || lvl == zerolog.NoLevel {
        lvl = zerolog.InfoLevel
    }
    zerolog.SetGlobalLevel(lvl)
    zerolog.TimeFieldFormat = time.RFC3339

    var w io.Writer = os.Stdout
    if strings.EqualFold(format, "console") {
        w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
    }
    logger := zerolog.New(w).With().Timestamp().Logger()
    log.Logger = logger
    return logger
}
