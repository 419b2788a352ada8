package value

import (
	"encoding/hex"
	"fmt"
	"strconv"
)

// variant is the tagged payload shared by DbValue and ParameterValue.
// The payload type is fixed by kind; constructors are the only writers.
type variant struct {
	kind Kind
	val  any
}

// Kind returns the active variant.
func (v variant) Kind() Kind { return v.kind }

// IsNull reports whether the value is SQL NULL.
func (v variant) IsNull() bool { return v.kind == KindNull }

func (v variant) AsBool() (bool, bool) {
	b, ok := v.val.(bool)
	return b, ok && v.kind == KindBoolean
}

func (v variant) AsInt16() (int16, bool) {
	i, ok := v.val.(int16)
	return i, ok && v.kind == KindInt16
}

func (v variant) AsInt32() (int32, bool) {
	i, ok := v.val.(int32)
	return i, ok && v.kind == KindInt32
}

func (v variant) AsInt64() (int64, bool) {
	i, ok := v.val.(int64)
	return i, ok && v.kind == KindInt64
}

func (v variant) AsFloat32() (float32, bool) {
	f, ok := v.val.(float32)
	return f, ok && v.kind == KindFloating32
}

func (v variant) AsFloat64() (float64, bool) {
	f, ok := v.val.(float64)
	return f, ok && v.kind == KindFloating64
}

func (v variant) AsStr() (string, bool) {
	s, ok := v.val.(string)
	return s, ok && v.kind == KindStr
}

func (v variant) AsBinary() ([]byte, bool) {
	b, ok := v.val.([]byte)
	return b, ok && v.kind == KindBinary
}

func (v variant) AsDate() (Date, bool) {
	d, ok := v.val.(Date)
	return d, ok && v.kind == KindDate
}

func (v variant) AsTime() (Time, bool) {
	t, ok := v.val.(Time)
	return t, ok && v.kind == KindTime
}

func (v variant) AsDatetime() (Datetime, bool) {
	dt, ok := v.val.(Datetime)
	return dt, ok && v.kind == KindDatetime
}

// Interface returns the payload as a plain Go value, nil for NULL.
func (v variant) Interface() any { return v.val }

// String renders the value as Kind(payload), e.g. Int32(7) or Date(2525-12-25).
func (v variant) String() string {
	switch v.kind {
	case KindNull:
		return "Null"
	case KindStr:
		return fmt.Sprintf("Str(%s)", strconv.Quote(v.val.(string)))
	case KindBinary:
		return fmt.Sprintf("Binary(\\x%s)", hex.EncodeToString(v.val.([]byte)))
	case KindUnsupported:
		return fmt.Sprintf("Unsupported(%s)", v.val)
	default:
		return fmt.Sprintf("%s(%v)", v.kind, v.val)
	}
}
