// Package logging wraps charmbracelet/log for server-side use. All
// output goes to stderr: stdout belongs to the MCP stdio transport
// and must stay free of anything but protocol frames.
package logging

import (
	"bytes"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// AppLogger is the structured logger handed to the server and CLI.
type AppLogger struct {
	logger *log.Logger
	debug  bool
}

// NewAppLogger creates the stderr logger. Setting UNLEASH_MCP_DEBUG
// to any non-empty value lowers the level to debug.
func NewAppLogger() *AppLogger {
	debug := os.Getenv("UNLEASH_MCP_DEBUG") != ""

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "unleash-mcp",
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}

	return &AppLogger{logger: logger, debug: debug}
}

func (al *AppLogger) Info(msg string, keyvals ...any) {
	al.logger.Info(msg, keyvals...)
}

func (al *AppLogger) Warn(msg string, keyvals ...any) {
	al.logger.Warn(msg, keyvals...)
}

func (al *AppLogger) Error(msg string, keyvals ...any) {
	al.logger.Error(msg, keyvals...)
}

func (al *AppLogger) Debug(msg string, keyvals ...any) {
	if al.debug {
		al.logger.Debug(msg, keyvals...)
	}
}

// NewTestLogger creates a debug-level logger that writes to a buffer.
func NewTestLogger() (*AppLogger, *bytes.Buffer) {
	var buf bytes.Buffer

	logger := log.NewWithOptions(&buf, log.Options{
		ReportTimestamp: false,
		Prefix:          "test",
	})
	logger.SetLevel(log.DebugLevel)

	return &AppLogger{logger: logger, debug: true}, &buf
}
