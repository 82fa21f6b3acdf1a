package logreport

// StackTrace is an optional stack trace. The zero value means no trace is
// available, which is different from a trace that is present but empty.
type StackTrace struct {
	text    string
	present bool
}

// NoStackTrace is the absent stack trace.
var NoStackTrace = StackTrace{}

// WithStackTrace returns a present stack trace holding text.
func WithStackTrace(text string) StackTrace {
	return StackTrace{text: text, present: true}
}

// Get returns the trace text and whether it is present.
func (s StackTrace) Get() (string, bool) { return s.text, s.present }

// Record is one reportable event as handed to a transport.
//
// A Record has no identity beyond its fields and cannot be modified after
// NewRecord returns it. Timestamps are added, if at all, by the transport.
type Record struct {
	level      string
	message    string
	stackTrace StackTrace
}

// NewRecord builds a Record. The level is taken as given and is not checked
// against the Severity names.
func NewRecord(level, message string, stackTrace StackTrace) Record {
	return Record{level: level, message: message, stackTrace: stackTrace}
}

// Level returns the level name.
func (r Record) Level() string { return r.level }

// Message returns the human-readable description.
func (r Record) Message() string { return r.message }

// StackTrace returns the optional stack trace.
func (r Record) StackTrace() StackTrace { return r.stackTrace }
