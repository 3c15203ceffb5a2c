package provider

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

// SetLogger sets the logger handed to providers built by factories.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}

// Logger returns the provider logger, a no-op logger when none was set.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}
