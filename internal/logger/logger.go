package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Field represents a structured logging field
type Field struct {
	Key   string
	Value interface{}
}

var (
	mu   sync.RWMutex
	root hclog.Logger = newRoot(os.Stderr, "info", "text")
)

func newRoot(out io.Writer, level, format string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:       "cinelist",
		Level:      hclog.LevelFromString(level),
		Output:     out,
		JSONFormat: strings.EqualFold(format, "json"),
	})
}

// Init replaces the process logger. Format is "json" or "text".
func Init(level, format string) {
	InitWithOutput(os.Stderr, level, format)
}

// InitWithOutput is Init with an explicit sink, used by tests.
func InitWithOutput(out io.Writer, level, format string) {
	mu.Lock()
	defer mu.Unlock()
	root = newRoot(out, level, format)
}

// SetLevel changes the level of the process logger and every named child.
func SetLevel(level string) {
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		Warn("ignoring unknown log level", "level", level)
		return
	}
	Default().SetLevel(lvl)
}

// Default returns the process logger
func Default() hclog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

// Named returns a sub-logger for a component
func Named(name string) hclog.Logger {
	return Default().Named(name)
}

// Info logs informational messages. Args are alternating key/value pairs or
// a trailing []Field.
func Info(msg string, args ...interface{}) {
	Default().Info(msg, flatten(args)...)
}

// Warn logs warning messages
func Warn(msg string, args ...interface{}) {
	Default().Warn(msg, flatten(args)...)
}

// Error logs error messages
func Error(msg string, args ...interface{}) {
	Default().Error(msg, flatten(args)...)
}

// Debug logs debug messages
func Debug(msg string, args ...interface{}) {
	Default().Debug(msg, flatten(args)...)
}

func flatten(args []interface{}) []interface{} {
	if len(args) == 0 {
		return args
	}
	fields, ok := args[len(args)-1].([]Field)
	if !ok {
		return args
	}
	out := append([]interface{}{}, args[:len(args)-1]...)
	for _, f := range fields {
		out = append(out, f.Key, f.Value)
	}
	return out
}

// Helper functions for common field types
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Err(key string, err error) Field {
	if err == nil {
		return Field{Key: key, Value: nil}
	}
	return Field{Key: key, Value: err.Error()}
}
