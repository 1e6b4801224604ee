// Package logger constructs the structured logger every store component
// receives through its Config. It wraps go.uber.org/zap the same way the
// rest of the ambient stack does: JSON production logging by default, with
// the service name attached to every line.
package logger

import "go.uber.org/zap"

// New builds a *zap.SugaredLogger tagged with the given service name.
// Falls back to a no-op logger, which discards every entry, if zap's
// production config fails to build, which only happens for misconfigured encoder settings and never
// for this fixed configuration.
func New(service string) *zap.SugaredLogger {
	base, err := zap.NewProduction()
	if err != nil {
		base = zap.NewNop()
	}
	return base.Named(service).Sugar()
}
