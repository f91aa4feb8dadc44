package logger

import "log/slog"

// slogLogger adapts slog.Logger to the Logger interface. Debug, Info, Warn and
// Error come from the embedded logger; With is overridden to keep the interface type.
type slogLogger struct {
	*slog.Logger
}

func (l slogLogger) With(args ...any) Logger {
	return slogLogger{l.Logger.With(args...)}
}
