package pathenum

import "go.uber.org/zap"

// Logger encapsulates a Logger and module which it belongs to.
// Use this through SetLogger() of the driver components.
type Logger struct {
	*zap.SugaredLogger
	module string
}

type LogSetter interface {
	SetLogger(*Logger)
}

// Module returns (stylised) module name.
func (l *Logger) Module() string {
	return l.module
}

// NewLogger returns a new logger with default options.
func NewLogger() *Logger {
	return newLogger()
}

// NewFileLogger returns a new logger which also writes the log output to
// files. The standard error is always written to, and is named "-".
func NewFileLogger(files ...string) *Logger {
	var paths []string
	for _, f := range files {
		if f != "-" && f != "" {
			paths = append(paths, f)
		}
	}
	return newFileLogger(paths...)
}

// NopLogger returns a logger that discards everything.
func NopLogger() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// withModule returns a copy of l tagged with the module name painted by
// paint.
func withModule(l *Logger, paint func(string, ...interface{}) string, name string) *Logger {
	if l == nil {
		l = NopLogger()
	}
	return &Logger{SugaredLogger: l.SugaredLogger, module: paint(name)}
}
