// Package logging configures the global zerolog logger: a rotating file
// under the application directory, plus console output in debug mode.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup initializes the global logger. Log records always go to a rotating
// file below dir; with debug enabled they are mirrored to stderr and the
// level drops to debug.
func Setup(dir string, debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	writers := []io.Writer{&lumberjack.Logger{
		Filename:   filepath.Join(dir, "logs", "xtimetracker.log"),
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
	}}
	if debug {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		})
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().Timestamp().Logger()
}
