package logger

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	Red     = "\033[0;31m"
	Green   = "\033[0;32m"
	Yellow  = "\033[0;33m"
	Blue    = "\033[0;34m"
	Magenta = "\033[0;35m"
	Cyan    = "\033[0;36m"
	White   = "\033[0;37m"
	reset   = "\033[0m"
)

var loggers []*log.Logger

// NewLogger builds up and return a new logger. Loggers write to stderr:
// stdout carries the relayed terminal bytes and must stay clean
func NewLogger(prefix string, color string) *log.Logger {
	var logger *log.Logger
	if isatty.IsTerminal(os.Stderr.Fd()) {
		logger = log.New(os.Stderr, fmt.Sprintf("%s%s%s", color, prefix, reset), log.LstdFlags)
	} else {
		logger = log.New(os.Stderr, prefix, log.LstdFlags)
	}
	loggers = append(loggers, logger)
	return logger
}

// DisableLoggers silences all the loggers built so far
func DisableLoggers() {
	for _, logger := range loggers {
		logger.SetOutput(io.Discard)
	}
}
