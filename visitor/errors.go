package visitor

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrTooLarge    = errors.New("visitor: payload too large")
	ErrInvalidBool = errors.New("visitor: invalid bool value")
	ErrInvalidUTF8 = errors.New("visitor: invalid utf8 string")
)

// Error describes a failure to visit a single field.
type Error struct {
	Path   string
	Offset int64
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("visitor: field %q at offset 0x%x: %v", e.Path, e.Offset, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Cause lets errors.Cause reach the underlying error.
func (e *Error) Cause() error { return e.Err }

// Invalid records a semantic error for the named field, for example an
// enumeration value a payload does not know. It returns the session error.
func (v *Visitor) Invalid(name string, format string, args ...interface{}) error {
	return v.fail(name, errors.Errorf(format, args...))
}

// Fail records err as the session error for the named field, unless an
// earlier error is already recorded. It returns the session error.
func (v *Visitor) Fail(name string, err error) error {
	return v.fail(name, err)
}
