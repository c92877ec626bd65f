package signalbridge

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrorLogger receives one call per failed operation. It is a side channel:
// nothing it does changes the error returned to the caller.
type ErrorLogger interface {
	LogAPIError(statusCode int, message string)
}

// NopErrorLogger discards everything. WithLogging(false) installs it.
type NopErrorLogger struct{}

// LogAPIError implements ErrorLogger.
func (NopErrorLogger) LogAPIError(int, string) {}

// zerologErrorLogger writes failures at error level. A nil logger means the
// global zerolog logger, resolved at call time.
type zerologErrorLogger struct {
	logger *zerolog.Logger
}

func newZerologErrorLogger(l *zerolog.Logger) *zerologErrorLogger {
	return &zerologErrorLogger{logger: l}
}

func (z *zerologErrorLogger) LogAPIError(statusCode int, message string) {
	l := z.logger
	if l == nil {
		l = &log.Logger
	}
	l.Error().Int("status_code", statusCode).Str("message", message).Msg("SignalBridge API error")
}
