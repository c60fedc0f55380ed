// Package logger builds the LogHarbour logger shared by the service.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/remiges-tech/logharbour/logharbour"
)

// Production is the ENV value of production deployments.
const Production = "PRODUCTION"

// New creates a logger for appName writing to w, falling back to stderr
// when w fails. Outside production debug entries are kept as well.
func New(appName, env string, w io.Writer) *logharbour.Logger {
	fallbackWriter := logharbour.NewFallbackWriter(w, os.Stderr)
	return logharbour.NewLogger(newContext(env), appName, fallbackWriter)
}

func newContext(env string) *logharbour.LoggerContext {
	if IsProduction(env) {
		return logharbour.NewLoggerContext(logharbour.Info)
	}
	return logharbour.NewLoggerContext(logharbour.Debug2)
}

func IsProduction(env string) bool {
	return strings.EqualFold(env, Production)
}
