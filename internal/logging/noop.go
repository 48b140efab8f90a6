package logging

type noop struct{}

// NoOp returns a Logger that discards everything.
func NoOp() Logger { return noop{} }

func (noop) Debug(string, ...any)             {}
func (noop) Info(string, ...any)              {}
func (noop) Warn(string, ...any)              {}
func (noop) Error(string, ...any)             {}
func (noop) WithFields(map[string]any) Logger { return noop{} }
