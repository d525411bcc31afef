package lzw

// Logger receives diagnostic output from the encoder and decoder. It
// replaces the verbose process-wide flags the original implementation
// carried on every class: callers that want diagnostics for Encode set
// Options.Logger, and the core never touches a global. Decode takes no
// Logger and logs nothing.
//
// A nil Logger (the default) produces no output on any stream.
type Logger interface {
	Debugf(format string, args ...interface{})
}

// NopLogger discards everything, the same as a nil Logger (which is what
// DefaultOptions sets).
type NopLogger struct{}

func (NopLogger) Debugf(string, ...interface{}) {}

func logf(l Logger, format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.Debugf(format, args...)
}
