// Package logging builds the application logger.
package logging

import (
	"io"
	"os"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New constructs a logger writing to stderr and, when file is non-empty, to
// a size-rotated log file as well.
func New(verbose bool, file string) *logrus.Logger {
	log := logrus.New()

	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}

	log.SetFormatter(&formatter.Formatter{
		TimestampFormat: "2006-01-02 15:04:05",
		HideKeys:        false,
		NoColors:        file != "",
	})

	writers := []io.Writer{os.Stderr}
	if file != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   file,
			LocalTime:  true,
			Compress:   true,
			MaxSize:    50,
			MaxAge:     14,
			MaxBackups: 3,
		})
	}
	log.SetOutput(io.MultiWriter(writers...))

	return log
}
