package monitoring

import (
	"log"
	"sync"
)

var (
	mu     sync.RWMutex
	logger = log.Printf
)

// Logf writes a diagnostic message through the package logger. It defaults to
// log.Printf but may be replaced by SetLogger. Safe for concurrent use.
func Logf(format string, v ...interface{}) {
	mu.RLock()
	f := logger
	mu.RUnlock()
	f(format, v...)
}

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	mu.Lock()
	defer mu.Unlock()
	if f == nil {
		logger = func(string, ...interface{}) {}
		return
	}
	logger = f
}

// Component returns a Logf that prefixes every message with "[name] ".
func Component(name string) func(format string, v ...interface{}) {
	prefix := "[" + name + "] "
	return func(format string, v ...interface{}) {
		Logf(prefix+format, v...)
	}
}
