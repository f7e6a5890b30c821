package server

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// echoLogger routes renderer logging through echo's logger
type echoLogger struct {
	logger echo.Logger
}

func newEchoLogger(logger echo.Logger) *echoLogger {
	return &echoLogger{logger: logger}
}

// Printf implements core.Logger. Echo terminates each entry itself.
func (l *echoLogger) Printf(format string, args ...interface{}) {
	l.logger.Printf(strings.TrimSuffix(format, "\n"), args...)
}
