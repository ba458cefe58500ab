package chain

import "github.com/sirupsen/logrus"

// Logger is the injection seam every component logs through, matching the
// teacher's config.go convention of a plain function type rather than a
// concrete logging interface.
type Logger func(string)

// Debug, Info and Warn are the package-level defaults, backed by logrus
// rather than the teacher's no-op black hole. Callers that want a
// different backend (or no logging at all) reassign these at process
// start, before any ValidatorContext is constructed.
var (
	baseLogger = logrus.StandardLogger()

	Debug Logger = func(s string) { baseLogger.Debug(s) }
	Info  Logger = func(s string) { baseLogger.Info(s) }
	Warn  Logger = func(s string) { baseLogger.Warn(s) }
)

// SetLogLevel adjusts the verbosity of the default logrus-backed logger.
func SetLogLevel(level logrus.Level) {
	baseLogger.SetLevel(level)
}
