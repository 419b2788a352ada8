package codec

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Konsultn-Engineering/pgconnect/value"
)

type decodeFunc func(src any) (value.DbValue, error)

// decoders turn the Go values pgx hands out for a column family into the
// matching DbValue variant.
var decoders = map[value.DataType]decodeFunc{
	value.DataTypeBoolean:    decodeBool,
	value.DataTypeInt16:      decodeInt16,
	value.DataTypeInt32:      decodeInt32,
	value.DataTypeInt64:      decodeInt64,
	value.DataTypeFloating32: decodeFloat32,
	value.DataTypeFloating64: decodeFloat64,
	value.DataTypeStr:        decodeStr,
	value.DataTypeBinary:     decodeBinary,
	value.DataTypeDate:       decodeDate,
	value.DataTypeTime:       decodeTime,
	value.DataTypeDatetime:   decodeDatetime,
}

// goTypeFamilies is consulted when a column carries no usable type OID.
// A bare time.Time is taken to be a timestamp.
var goTypeFamilies = map[reflect.Type]value.DataType{
	reflect.TypeOf(false):            value.DataTypeBoolean,
	reflect.TypeOf(int16(0)):         value.DataTypeInt16,
	reflect.TypeOf(int32(0)):         value.DataTypeInt32,
	reflect.TypeOf(int64(0)):         value.DataTypeInt64,
	reflect.TypeOf(uint32(0)):        value.DataTypeInt64,
	reflect.TypeOf(float32(0)):       value.DataTypeFloating32,
	reflect.TypeOf(float64(0)):       value.DataTypeFloating64,
	reflect.TypeOf(""):               value.DataTypeStr,
	reflect.TypeOf(pgtype.Numeric{}): value.DataTypeStr,
	reflect.TypeOf([16]byte{}):       value.DataTypeStr,
	reflect.TypeOf([]byte(nil)):      value.DataTypeBinary,
	reflect.TypeOf(pgtype.Time{}):    value.DataTypeTime,
	reflect.TypeOf(time.Time{}):      value.DataTypeDatetime,
}

// Columns describes the result columns of a statement.
func Columns(fields []pgconn.FieldDescription) []value.Column {
	cols := make([]value.Column, len(fields))
	for i, f := range fields {
		cols[i] = value.Column{Name: f.Name, DataType: DataTypeForOID(f.DataTypeOID)}
	}
	return cols
}

// DecodeRow decodes one row as returned by pgx.Rows.Values.
func DecodeRow(fields []pgconn.FieldDescription, src []any) ([]value.DbValue, error) {
	if len(src) != len(fields) {
		return nil, fmt.Errorf("row has %d values for %d columns", len(src), len(fields))
	}

	row := make([]value.DbValue, len(src))
	for i, cell := range src {
		v, err := Decode(fields[i].DataTypeOID, cell)
		if err != nil {
			var de *DecodeError
			if errors.As(err, &de) {
				de.Column = fields[i].Name
			}
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}

// Decode converts a single cell of type oid. NULL decodes to Null, types
// outside the value model decode to Unsupported carrying the type name.
func Decode(oid uint32, src any) (value.DbValue, error) {
	if src == nil {
		return value.NullValue(), nil
	}

	dt := DataTypeForOID(oid)
	if dt == value.DataTypeOther {
		if oid != 0 {
			return value.UnsupportedValue(TypeName(oid)), nil
		}
		guessed, ok := goTypeFamilies[reflect.TypeOf(src)]
		if !ok {
			return value.UnsupportedValue(fmt.Sprintf("%T", src)), nil
		}
		dt = guessed
	}

	v, err := decoders[dt](src)
	if err != nil {
		name := TypeName(oid)
		if oid == 0 {
			name = dt.String()
		}
		return value.DbValue{}, &DecodeError{TypeName: name, Reason: err.Error()}
	}
	return v, nil
}

func unexpected(src any) error {
	if m, ok := src.(pgtype.InfinityModifier); ok {
		return fmt.Errorf("%s has no calendar representation", m)
	}
	return fmt.Errorf("unexpected driver type %T", src)
}

func decodeBool(src any) (value.DbValue, error) {
	if b, ok := src.(bool); ok {
		return value.BoolValue(b), nil
	}
	return value.DbValue{}, unexpected(src)
}

func decodeInt16(src any) (value.DbValue, error) {
	if i, ok := src.(int16); ok {
		return value.Int16Value(i), nil
	}
	return value.DbValue{}, unexpected(src)
}

func decodeInt32(src any) (value.DbValue, error) {
	if i, ok := src.(int32); ok {
		return value.Int32Value(i), nil
	}
	return value.DbValue{}, unexpected(src)
}

func decodeInt64(src any) (value.DbValue, error) {
	switch i := src.(type) {
	case int64:
		return value.Int64Value(i), nil
	case uint32:
		return value.Int64Value(int64(i)), nil
	}
	return value.DbValue{}, unexpected(src)
}

func decodeFloat32(src any) (value.DbValue, error) {
	if f, ok := src.(float32); ok {
		return value.Float32Value(f), nil
	}
	return value.DbValue{}, unexpected(src)
}

func decodeFloat64(src any) (value.DbValue, error) {
	if f, ok := src.(float64); ok {
		return value.Float64Value(f), nil
	}
	return value.DbValue{}, unexpected(src)
}

func decodeStr(src any) (value.DbValue, error) {
	switch s := src.(type) {
	case string:
		return value.StrValue(s), nil
	case pgtype.Numeric:
		text, err := numericText(s)
		if err != nil {
			return value.DbValue{}, err
		}
		return value.StrValue(text), nil
	case [16]byte:
		return value.StrValue(uuid.UUID(s).String()), nil
	case fmt.Stringer:
		return value.StrValue(s.String()), nil
	}
	return value.DbValue{}, unexpected(src)
}

func numericText(n pgtype.Numeric) (string, error) {
	v, err := n.Value()
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("numeric rendered as %T", v)
	}
	return s, nil
}

func decodeBinary(src any) (value.DbValue, error) {
	if b, ok := src.([]byte); ok {
		out := make([]byte, len(b))
		copy(out, b)
		return value.BinaryValue(out), nil
	}
	return value.DbValue{}, unexpected(src)
}

func decodeDate(src any) (value.DbValue, error) {
	switch d := src.(type) {
	case time.Time:
		return value.DateValue(value.DateOf(d)), nil
	case pgtype.Date:
		if d.InfinityModifier != pgtype.Finite {
			return value.DbValue{}, unexpected(d.InfinityModifier)
		}
		return value.DateValue(value.DateOf(d.Time)), nil
	}
	return value.DbValue{}, unexpected(src)
}

func decodeTime(src any) (value.DbValue, error) {
	var us int64
	switch t := src.(type) {
	case pgtype.Time:
		us = t.Microseconds
	case time.Duration:
		us = t.Microseconds()
	default:
		return value.DbValue{}, unexpected(src)
	}
	clock, err := value.TimeOfMicroseconds(us)
	if err != nil {
		return value.DbValue{}, err
	}
	return value.TimeValue(clock), nil
}

// Timestamps are reported by their UTC calendar components.
func decodeDatetime(src any) (value.DbValue, error) {
	switch t := src.(type) {
	case time.Time:
		return value.DatetimeValue(value.DatetimeOf(t.UTC())), nil
	case pgtype.Timestamp:
		if t.InfinityModifier != pgtype.Finite {
			return value.DbValue{}, unexpected(t.InfinityModifier)
		}
		return value.DatetimeValue(value.DatetimeOf(t.Time.UTC())), nil
	case pgtype.Timestamptz:
		if t.InfinityModifier != pgtype.Finite {
			return value.DbValue{}, unexpected(t.InfinityModifier)
		}
		return value.DatetimeValue(value.DatetimeOf(t.Time.UTC())), nil
	}
	return value.DbValue{}, unexpected(src)
}
