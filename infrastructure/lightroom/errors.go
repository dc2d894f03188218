package lightroom

import "fmt"

// Kind classifies a client failure at the point it is produced, so callers
// branch on the tag instead of scanning message text.
type Kind int

const (
	// KindConfiguration means client credentials are missing; not retried.
	KindConfiguration Kind = iota
	// KindValidation means required caller input is missing.
	KindValidation
	// KindAuthentication means no usable token exists and refresh is
	// impossible; surfaced to the operator as "please reconnect".
	KindAuthentication
	// KindUpstream means the remote API returned a structured error.
	KindUpstream
	// KindTransport means a network-level failure; propagated, not retried.
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindUpstream:
		return "upstream"
	case KindTransport:
		return "transport"
	}
	return "unknown"
}

// Error is the tagged error type for all Lightroom client failures.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("lightroom %s error (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("lightroom %s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrapError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// ErrorKind reports the Kind of err when it is a Lightroom client error.
func ErrorKind(err error) (Kind, bool) {
	if e, ok := err.(*Error); ok {
		return e.Kind, true
	}
	return 0, false
}

// IsAuthentication reports whether err is an authentication failure.
func IsAuthentication(err error) bool {
	k, ok := ErrorKind(err)
	return ok && k == KindAuthentication
}
