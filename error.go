package dustdoc

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINTERNAL  = "internal"
	EINVALID   = "invalid"
	ENOTFOUND  = "not_found"
	EMALFORMED = "malformed"
	EENCODING  = "encoding"
	ESTALE     = "stale"
)

// Error represents an application-specific error. Parse errors carry the
// 1-based source line they were detected on.
type Error struct {
	Code    string
	Message string
	Line    int
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("dustdoc error: code=%s line=%d message=%s", e.Code, e.Line, e.Message)
	}
	return fmt.Sprintf("dustdoc error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message,
// prefixed with the line number when one is known.
// Non-application errors always return "Internal error."
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		if e.Line > 0 {
			return fmt.Sprintf("line %d: %s", e.Line, e.Message)
		}
		return e.Message
	}
	return "Internal error."
}

// ErrorLine returns the source line of an application error, or 0.
func ErrorLine(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Line
	}
	return 0
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// LineErrorf is like Errorf but records the source line the error refers to.
func LineErrorf(code string, line int, format string, args ...any) *Error {
	e := Errorf(code, format, args...)
	e.Line = line
	return e
}
