package exception

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/tarmac-project/logreport"
	"github.com/valyala/fastjson"
)

const (
	messageKey = "message"
	stackKey   = "stack"
)

var (
	// ErrMissingMessage is returned by FromValue when the value has no readable text message.
	ErrMissingMessage = errors.New("exception has no readable message")

	// ErrInvalidJSON wraps parse failures in ParseJSON.
	ErrInvalidJSON = errors.New("exception is not valid JSON")
)

// Field is the result of reading one property: either Found with its text or Absent.
type Field struct {
	text  string
	found bool
}

// Absent is the Field for a property that is missing or not text.
var Absent = Field{}

// Found returns a Field holding text.
func Found(text string) Field { return Field{text: text, found: true} }

// Text returns the property text and whether it was found.
func (f Field) Text() (string, bool) { return f.text, f.found }

// Value is an exception-like value received from the host, treated as an
// untyped bag of properties.
type Value interface {
	Field(key string) Field
}

// Map is a Value over decoded properties. Only string, error and fmt.Stringer
// entries are readable as text. An error or Stringer holding a nil pointer is
// Absent.
type Map map[string]any

// Field implements Value.
func (m Map) Field(key string) Field {
	v := m[key]
	if isNil(v) {
		return Absent
	}

	switch v := v.(type) {
	case string:
		return Found(v)
	case error:
		return Found(v.Error())
	case fmt.Stringer:
		return Found(v.String())
	default:
		return Absent
	}
}

// isNil reports whether v is nil or a typed nil whose methods cannot be called safely.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Interface, reflect.Slice, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// JSON is a Value over a parsed JSON document. Only string members are readable as text.
type JSON struct {
	v *fastjson.Value
}

// ParseJSON parses b into a JSON Value.
func ParseJSON(b []byte) (JSON, error) {
	v, err := fastjson.ParseBytes(b)
	if err != nil {
		return JSON{}, errors.Join(ErrInvalidJSON, err)
	}
	return JSON{v: v}, nil
}

// Field implements Value.
func (j JSON) Field(key string) Field {
	if j.v == nil {
		return Absent
	}
	m := j.v.Get(key)
	if m == nil || m.Type() != fastjson.TypeString {
		return Absent
	}
	b, err := m.StringBytes()
	if err != nil {
		return Absent
	}
	return Found(string(b))
}

// FromValue builds an "Error" level record from an exception-like value.
//
// A missing or non-text message fails with ErrMissingMessage; no placeholder
// is invented. A missing, empty or non-text stack only leaves the record
// without a stack trace.
func FromValue(v Value) (logreport.Record, error) {
	if v == nil {
		return logreport.Record{}, ErrMissingMessage
	}

	message, ok := v.Field(messageKey).Text()
	if !ok {
		return logreport.Record{}, ErrMissingMessage
	}

	st := logreport.NoStackTrace
	if stack, ok := v.Field(stackKey).Text(); ok && stack != "" {
		st = logreport.WithStackTrace(stack)
	}

	return logreport.NewRecord(logreport.Error.String(), message, st), nil
}
