package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =========================================================================
// DbValue
// =========================================================================

func TestDbValueVariants(t *testing.T) {
	tests := []struct {
		name   string
		value  DbValue
		kind   Kind
		render string
	}{
		{"Null", NullValue(), KindNull, "Null"},
		{"Boolean", BoolValue(true), KindBoolean, "Boolean(true)"},
		{"Int16", Int16Value(-3), KindInt16, "Int16(-3)"},
		{"Int32", Int32Value(7), KindInt32, "Int32(7)"},
		{"Int64", Int64Value(1 << 40), KindInt64, "Int64(1099511627776)"},
		{"Floating32", Float32Value(1.5), KindFloating32, "Floating32(1.5)"},
		{"Floating64", Float64Value(1), KindFloating64, "Floating64(1)"},
		{"Str", StrValue("rvarchar"), KindStr, `Str("rvarchar")`},
		{"Binary", BinaryValue([]byte{0xde, 0xad}), KindBinary, `Binary(\xdead)`},
		{"Date", DateValue(NewDate(2525, 12, 25)), KindDate, "Date(2525-12-25)"},
		{"Time", TimeValue(NewTime(4, 5, 6, 789_000_000)), KindTime, "Time(04:05:06.789)"},
		{"Datetime", DatetimeValue(NewDatetime(1989, 11, 24, 1, 2, 3, 0)), KindDatetime, "Datetime(1989-11-24 01:02:03)"},
		{"Unsupported", UnsupportedValue("jsonb"), KindUnsupported, "Unsupported(jsonb)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.value.Kind())
			assert.Equal(t, tt.render, tt.value.String())
			assert.Equal(t, tt.kind == KindNull, tt.value.IsNull())
			assert.True(t, tt.value.Equal(tt.value))
		})
	}
}

func TestDbValueNoCoercion(t *testing.T) {
	v := Int32Value(7)

	i32, ok := v.AsInt32()
	require.True(t, ok)
	assert.Equal(t, int32(7), i32)

	_, ok = v.AsInt64()
	assert.False(t, ok, "Int32 must not answer as Int64")
	_, ok = v.AsInt16()
	assert.False(t, ok)
	_, ok = v.AsFloat64()
	assert.False(t, ok)
	_, ok = v.AsStr()
	assert.False(t, ok)

	assert.False(t, Int32Value(0).Equal(Int64Value(0)))
	assert.False(t, NullValue().Equal(StrValue("")))
}

func TestDbValueAccessors(t *testing.T) {
	d, ok := DateValue(NewDate(2525, 12, 25)).AsDate()
	require.True(t, ok)
	assert.Equal(t, Date{Year: 2525, Month: 12, Day: 25}, d)

	tm, ok := TimeValue(NewTime(14, 15, 16, 17)).AsTime()
	require.True(t, ok)
	assert.Equal(t, uint32(17), tm.Nanosecond)

	dt, ok := DatetimeValue(NewDatetime(1989, 11, 24, 1, 2, 3, 4)).AsDatetime()
	require.True(t, ok)
	assert.Equal(t, int32(1989), dt.Year)
	assert.Equal(t, uint8(1), dt.Hour)

	b, ok := BinaryValue([]byte("abc")).AsBinary()
	require.True(t, ok)
	assert.Equal(t, []byte("abc"), b)
	assert.True(t, BinaryValue([]byte("abc")).Equal(BinaryValue([]byte("abc"))))
	assert.False(t, BinaryValue([]byte("abc")).Equal(BinaryValue([]byte("abd"))))

	name, ok := UnsupportedValue("int4[]").UnsupportedType()
	require.True(t, ok)
	assert.Equal(t, "int4[]", name)

	assert.Nil(t, NullValue().Interface())
	assert.Equal(t, "x", StrValue("x").Interface())
}

// =========================================================================
// ParameterValue
// =========================================================================

func TestParameterValueMirrorsDbValue(t *testing.T) {
	tests := []struct {
		param ParameterValue
		want  DbValue
	}{
		{NullParam(), NullValue()},
		{BoolParam(false), BoolValue(false)},
		{Int16Param(1), Int16Value(1)},
		{Int32Param(2), Int32Value(2)},
		{Int64Param(3), Int64Value(3)},
		{Float32Param(0.5), Float32Value(0.5)},
		{Float64Param(0.25), Float64Value(0.25)},
		{StrParam("s"), StrValue("s")},
		{BinaryParam([]byte{1}), BinaryValue([]byte{1})},
		{DateParam(NewDate(2525, 12, 25)), DateValue(NewDate(2525, 12, 25))},
		{TimeParam(NewTime(14, 15, 16, 17)), TimeValue(NewTime(14, 15, 16, 17))},
		{DatetimeParam(NewDatetime(1989, 11, 24, 1, 2, 3, 4)), DatetimeValue(NewDatetime(1989, 11, 24, 1, 2, 3, 4))},
	}

	for _, tt := range tests {
		t.Run(tt.param.Kind().String(), func(t *testing.T) {
			assert.Equal(t, tt.want.Kind(), tt.param.Kind())
			assert.True(t, tt.want.Equal(tt.param.AsDbValue()))
			assert.True(t, tt.param.Equal(tt.param))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "Datetime", KindDatetime.String())
	assert.Equal(t, "Kind(200)", Kind(200).String())
	assert.True(t, KindInt64.IsInteger())
	assert.False(t, KindFloating64.IsInteger())
	assert.True(t, KindFloating32.IsFloating())
	assert.True(t, KindTime.IsTemporal())
	assert.False(t, KindStr.IsTemporal())
}
