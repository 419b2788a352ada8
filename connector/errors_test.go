package connector

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/pgconnect/codec"
	"github.com/Konsultn-Engineering/pgconnect/value"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		kind     ErrorKind
		sentinel error
	}{
		{
			"ServerRejection",
			&pgconn.PgError{Code: "42601", Message: `syntax error at or near "SELEC"`},
			QueryFailed, ErrQueryFailed,
		},
		{
			"WrappedServerRejection",
			fmt.Errorf("prepare: %w", &pgconn.PgError{Code: "23505", Message: "duplicate key"}),
			QueryFailed, ErrQueryFailed,
		},
		{
			"EncodeFailure",
			&codec.EncodeError{Position: 1, Kind: value.KindStr, TypeName: "int4", Reason: "no conversion"},
			BadParameter, ErrBadParameter,
		},
		{
			"ParameterCount",
			fmt.Errorf("%w: statement takes 2, got 1", codec.ErrParameterCount),
			BadParameter, ErrBadParameter,
		},
		{
			"DecodeFailure",
			&codec.DecodeError{TypeName: "date", Reason: "infinity has no calendar representation"},
			ValueConversionFailed, ErrValueConversionFailed,
		},
		{"Cancelled", context.Canceled, Other, ErrOther},
		{"Anything", errors.New("conn busy"), Other, ErrOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify(tt.err, "query")
			require.Error(t, err)

			assert.Equal(t, tt.kind, KindOf(err))
			assert.True(t, errors.Is(err, tt.sentinel))
			assert.True(t, errors.Is(err, tt.err), "cause must stay reachable")
			assert.False(t, IsConnectionFailed(err))
		})
	}
}

func TestClassifyKeepsSQLSTATE(t *testing.T) {
	err := classify(&pgconn.PgError{Code: "23505", Message: "duplicate key value"}, "execute")

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "23505", e.Code)
	assert.Equal(t, "query failed: execute: duplicate key value (SQLSTATE 23505)", e.Error())
}

func TestClassifyPassesThroughConnectorErrors(t *testing.T) {
	original := newError(BadParameter, nil, "statement references 2, got 1")
	assert.Same(t, original, classify(original, "execute"))
	assert.NoError(t, classify(nil, "execute"))
}

func TestConnectionFailedError(t *testing.T) {
	err := connectionFailed(errors.New("dial tcp: connection refused"), "connect to %s:%d", "localhost", 10000)

	assert.True(t, IsConnectionFailed(err))
	assert.True(t, errors.Is(err, ErrConnectionFailed))
	assert.False(t, errors.Is(err, ErrQueryFailed))
	assert.Equal(t, ConnectionFailed, KindOf(err))
	assert.Equal(t, "connection failed: connect to localhost:10000: dial tcp: connection refused", err.Error())
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, Other, KindOf(errors.New("boom")))
	assert.Equal(t, "ValueConversionFailed", ValueConversionFailed.String())
}
