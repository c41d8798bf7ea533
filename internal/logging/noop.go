package logging

// NoopLogger discards all log output. Useful in tests.
type NoopLogger struct{}

// NewNoop creates a logger that discards everything.
func NewNoop() Logger {
	return &NoopLogger{}
}

func (n *NoopLogger) Debug(string, ...interface{}) {}
func (n *NoopLogger) Info(string, ...interface{})  {}
func (n *NoopLogger) Warn(string, ...interface{})  {}
func (n *NoopLogger) Error(string, ...interface{}) {}

func (n *NoopLogger) WithComponent(string) Logger { return n }
func (n *NoopLogger) WithRequestID(string) Logger { return n }
