package logger

var noop Logger = discard{}

type discard struct{}

func (discard) Debug(string, ...any) {}

func (discard) Info(string, ...any) {}

func (discard) Warn(string, ...any) {}

func (discard) Error(string, ...any) {}

func (d discard) With(...any) Logger { return d }
