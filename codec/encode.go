package codec

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Konsultn-Engineering/pgconnect/value"
)

// target is the server-side type a parameter is being encoded into.
type target struct {
	oid      uint32
	name     string
	dataType value.DataType
}

func targetOf(oid uint32) target {
	return target{oid: oid, name: TypeName(oid), dataType: DataTypeForOID(oid)}
}

type encodeFunc func(t target, p value.ParameterValue) (any, error)

var encoders = map[value.Kind]encodeFunc{
	value.KindBoolean:    encodeBool,
	value.KindInt16:      encodeInteger,
	value.KindInt32:      encodeInteger,
	value.KindInt64:      encodeInteger,
	value.KindFloating32: encodeFloat,
	value.KindFloating64: encodeFloat,
	value.KindStr:        encodeStr,
	value.KindBinary:     encodeBinary,
	value.KindDate:       encodeDate,
	value.KindTime:       encodeTime,
	value.KindDatetime:   encodeDatetime,
}

// textTargets are the types a Str parameter is sent to as-is.
var textTargets = map[uint32]bool{
	pgtype.TextOID:    true,
	pgtype.VarcharOID: true,
	pgtype.BPCharOID:  true,
	pgtype.NameOID:    true,
	pgtype.UnknownOID: true,
	pgtype.JSONOID:    true,
	pgtype.JSONBOID:   true,
}

const reasonLossy = "value is not exactly representable"

var errMismatch = errors.New("no conversion between these types")

// EncodeParams encodes params positionally against the parameter types the
// server reported for a prepared statement.
func EncodeParams(oids []uint32, params []value.ParameterValue) ([]any, error) {
	if len(oids) != len(params) {
		return nil, fmt.Errorf("%w: statement takes %d, got %d", ErrParameterCount, len(oids), len(params))
	}

	args := make([]any, len(params))
	for i, p := range params {
		arg, err := Encode(oids[i], p)
		if err != nil {
			var ee *EncodeError
			if errors.As(err, &ee) {
				ee.Position = i + 1
			}
			return nil, err
		}
		args[i] = arg
	}
	return args, nil
}

// Encode converts p into a Go value pgx can send as type oid. Encodings that
// would lose information are refused.
func Encode(oid uint32, p value.ParameterValue) (any, error) {
	if p.IsNull() {
		return nil, nil
	}

	enc, ok := encoders[p.Kind()]
	if !ok {
		return nil, &EncodeError{Kind: p.Kind(), TypeName: TypeName(oid), Reason: errMismatch.Error()}
	}

	t := targetOf(oid)
	arg, err := enc(t, p)
	if err != nil {
		return nil, &EncodeError{Kind: p.Kind(), TypeName: t.name, Reason: err.Error()}
	}
	return arg, nil
}

func encodeBool(t target, p value.ParameterValue) (any, error) {
	if t.dataType != value.DataTypeBoolean {
		return nil, errMismatch
	}
	b, _ := p.AsBool()
	return b, nil
}

func integerOf(p value.ParameterValue) int64 {
	switch p.Kind() {
	case value.KindInt16:
		i, _ := p.AsInt16()
		return int64(i)
	case value.KindInt32:
		i, _ := p.AsInt32()
		return int64(i)
	default:
		i, _ := p.AsInt64()
		return i
	}
}

func encodeInteger(t target, p value.ParameterValue) (any, error) {
	i := integerOf(p)

	if t.oid == pgtype.NumericOID {
		return pgtype.Numeric{Int: big.NewInt(i), Valid: true}, nil
	}

	switch t.dataType {
	case value.DataTypeInt16:
		if i < math.MinInt16 || i > math.MaxInt16 {
			return nil, fmt.Errorf("%d overflows %s", i, t.name)
		}
		return int16(i), nil
	case value.DataTypeInt32:
		if i < math.MinInt32 || i > math.MaxInt32 {
			return nil, fmt.Errorf("%d overflows %s", i, t.name)
		}
		return int32(i), nil
	case value.DataTypeInt64:
		return i, nil
	}
	return nil, errMismatch
}

func encodeFloat(t target, p value.ParameterValue) (any, error) {
	var f float64
	if p.Kind() == value.KindFloating32 {
		f32, _ := p.AsFloat32()
		f = float64(f32)
	} else {
		f, _ = p.AsFloat64()
	}

	if t.oid == pgtype.NumericOID {
		if math.IsInf(f, 0) {
			return nil, fmt.Errorf("%v has no numeric representation", f)
		}
		return f, nil
	}

	switch t.dataType {
	case value.DataTypeFloating64:
		return f, nil
	case value.DataTypeFloating32:
		f32 := float32(f)
		if float64(f32) != f && !math.IsNaN(f) {
			return nil, fmt.Errorf("%v: %s", f, reasonLossy)
		}
		return f32, nil
	}
	return nil, errMismatch
}

func encodeStr(t target, p value.ParameterValue) (any, error) {
	s, _ := p.AsStr()

	switch {
	case textTargets[t.oid]:
		return s, nil
	case t.oid == pgtype.UUIDOID:
		u, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		return pgtype.UUID{Bytes: u, Valid: true}, nil
	case t.oid == pgtype.NumericOID:
		var n pgtype.Numeric
		if err := n.Scan(s); err != nil {
			return nil, err
		}
		return n, nil
	}
	return nil, errMismatch
}

func encodeBinary(t target, p value.ParameterValue) (any, error) {
	if t.dataType != value.DataTypeBinary {
		return nil, errMismatch
	}
	b, _ := p.AsBinary()
	return b, nil
}

func encodeDate(t target, p value.ParameterValue) (any, error) {
	if t.dataType != value.DataTypeDate {
		return nil, errMismatch
	}
	d, _ := p.AsDate()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return pgtype.Date{Time: d.Time(), Valid: true}, nil
}

func encodeTime(t target, p value.ParameterValue) (any, error) {
	if t.dataType != value.DataTypeTime {
		return nil, errMismatch
	}
	clock, _ := p.AsTime()
	if err := clock.Validate(); err != nil {
		return nil, err
	}
	if !clock.MicrosecondAligned() {
		return nil, fmt.Errorf("%s: %s at microsecond resolution", clock, reasonLossy)
	}
	return pgtype.Time{Microseconds: clock.Microseconds(), Valid: true}, nil
}

// Datetime parameters bound to timestamptz are read as UTC.
func encodeDatetime(t target, p value.ParameterValue) (any, error) {
	if t.dataType != value.DataTypeDatetime {
		return nil, errMismatch
	}
	dt, _ := p.AsDatetime()
	if err := dt.Validate(); err != nil {
		return nil, err
	}
	if !dt.MicrosecondAligned() {
		return nil, fmt.Errorf("%s: %s at microsecond resolution", dt, reasonLossy)
	}
	if t.oid == pgtype.TimestamptzOID {
		return pgtype.Timestamptz{Time: dt.Time(), Valid: true}, nil
	}
	return pgtype.Timestamp{Time: dt.Time(), Valid: true}, nil
}
