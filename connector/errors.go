package connector

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Konsultn-Engineering/pgconnect/codec"
)

// ErrorKind classifies every failure the connector reports.
type ErrorKind uint8

const (
	// ConnectionFailed means no session could be established. Only Open
	// produces it.
	ConnectionFailed ErrorKind = iota + 1
	// BadParameter means the supplied parameters do not fit the statement.
	BadParameter
	// QueryFailed means the server rejected the statement.
	QueryFailed
	// ValueConversionFailed means a result value has no DbValue form.
	ValueConversionFailed
	// Other covers every remaining execution-time failure.
	Other
)

var (
	ErrConnectionFailed      = errors.New("connection failed")
	ErrBadParameter          = errors.New("bad parameter")
	ErrQueryFailed           = errors.New("query failed")
	ErrValueConversionFailed = errors.New("value conversion failed")
	ErrOther                 = errors.New("execution failed")

	// ErrClosed is wrapped into Other once the connection has been closed.
	ErrClosed = errors.New("connection is closed")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case ConnectionFailed:
		return ErrConnectionFailed
	case BadParameter:
		return ErrBadParameter
	case QueryFailed:
		return ErrQueryFailed
	case ValueConversionFailed:
		return ErrValueConversionFailed
	default:
		return ErrOther
	}
}

func (k ErrorKind) String() string {
	switch k {
	case ConnectionFailed:
		return "ConnectionFailed"
	case BadParameter:
		return "BadParameter"
	case QueryFailed:
		return "QueryFailed"
	case ValueConversionFailed:
		return "ValueConversionFailed"
	default:
		return "Other"
	}
}

// Error is the failure type returned by Open, Execute and Query.
type Error struct {
	Kind    ErrorKind
	Message string
	// Code is the SQLSTATE reported by the server, when there is one.
	Code string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.sentinel().Error() + ": " + e.Message
	if e.Code != "" {
		msg += " (SQLSTATE " + e.Code + ")"
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// IsConnectionFailed reports whether err is a connection establishment failure.
func IsConnectionFailed(err error) bool {
	return errors.Is(err, ErrConnectionFailed)
}

// KindOf returns the kind of a connector error, or Other for foreign errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Other
}

func newError(kind ErrorKind, err error, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		msg += ": " + err.Error()
	}
	return &Error{Kind: kind, Message: msg, Err: err}
}

func connectionFailed(err error, format string, args ...any) *Error {
	return newError(ConnectionFailed, err, format, args...)
}

// classify maps an execution-time failure onto its kind. It never yields
// ConnectionFailed: a session that breaks mid-call is reported as Other.
func classify(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	var existing *Error
	if errors.As(err, &existing) {
		return existing
	}

	var (
		pgErr     *pgconn.PgError
		encodeErr *codec.EncodeError
		decodeErr *codec.DecodeError
	)
	switch {
	case errors.As(err, &pgErr):
		e := newError(QueryFailed, nil, format, args...)
		e.Message += ": " + pgErr.Message
		e.Code = pgErr.Code
		e.Err = err
		return e
	case errors.As(err, &encodeErr), errors.Is(err, codec.ErrParameterCount):
		return newError(BadParameter, err, format, args...)
	case errors.As(err, &decodeErr):
		return newError(ValueConversionFailed, err, format, args...)
	default:
		return newError(Other, err, format, args...)
	}
}
