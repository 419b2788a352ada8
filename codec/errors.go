package codec

import (
	"errors"
	"fmt"

	"github.com/Konsultn-Engineering/pgconnect/value"
)

// ErrParameterCount is returned when the number of supplied parameters differs
// from the number the statement declares.
var ErrParameterCount = errors.New("parameter count mismatch")

// EncodeError reports a parameter that cannot be represented in the type the
// server inferred for its placeholder.
type EncodeError struct {
	Position int // 1-based placeholder number
	Kind     value.Kind
	TypeName string
	Reason   string
}

func (e *EncodeError) Error() string {
	msg := fmt.Sprintf("cannot encode %s as %s: %s", e.Kind, e.TypeName, e.Reason)
	if e.Position > 0 {
		msg = fmt.Sprintf("parameter $%d: %s", e.Position, msg)
	}
	return msg
}

// DecodeError reports a cell the driver delivered that cannot be turned into
// a DbValue of its column's family.
type DecodeError struct {
	Column   string
	TypeName string
	Reason   string
}

func (e *DecodeError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("cannot decode %s value: %s", e.TypeName, e.Reason)
	}
	return fmt.Sprintf("column %q: cannot decode %s value: %s", e.Column, e.TypeName, e.Reason)
}
