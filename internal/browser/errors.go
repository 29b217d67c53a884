package browser

import "fmt"

// ErrorKind classifies session failures. The kind never crosses the tool
// protocol; callers only see the rendered message.
type ErrorKind int

const (
	KindEngine ErrorKind = iota
	KindValidation
	KindNotLaunched
	KindElementNotFound
	KindCapture
	KindEvaluation
)

// String returns a human-readable representation of the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotLaunched:
		return "not_launched"
	case KindElementNotFound:
		return "element_not_found"
	case KindCapture:
		return "capture"
	case KindEvaluation:
		return "evaluation"
	default:
		return "engine"
	}
}

// Error is the tagged failure variant used throughout the session and
// validation layers: a kind, a message, and for validation errors the name
// of the offending field.
type Error struct {
	Kind       ErrorKind
	Field      string
	Message    string
	Underlying error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Underlying)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

// Validationf reports a bad argument, naming the offending field.
func Validationf(field, format string, args ...any) *Error {
	return &Error{
		Kind:    KindValidation,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// NotLaunched reports an operation attempted with no open browser.
func NotLaunched() *Error {
	return &Error{
		Kind:    KindNotLaunched,
		Message: "browser not launched: call the launch tool first",
	}
}

// ElementNotFound reports a selector that matched nothing.
func ElementNotFound(selector string) *Error {
	return &Error{
		Kind:    KindElementNotFound,
		Message: fmt.Sprintf("no element found matching selector: %s", selector),
	}
}

// Capture reports a screenshot that produced no image data.
func Capture(message string) *Error {
	return &Error{
		Kind:    KindCapture,
		Message: message,
	}
}

// Evaluation wraps a script-execution or serialization failure.
func Evaluation(message string, err error) *Error {
	return &Error{
		Kind:       KindEvaluation,
		Message:    message,
		Underlying: err,
	}
}

// Engine wraps any other failure surfaced by the underlying browser engine.
func Engine(message string, err error) *Error {
	return &Error{
		Kind:       KindEngine,
		Message:    message,
		Underlying: err,
	}
}

// KindOf extracts the error kind, defaulting to KindEngine for errors that
// did not originate in this package.
func KindOf(err error) ErrorKind {
	if be, ok := err.(*Error); ok {
		return be.Kind
	}
	return KindEngine
}
