package value

// ParameterValue is a positional statement parameter bound to $1, $2, ...
// It mirrors DbValue minus Unsupported.
type ParameterValue struct {
	variant
}

func NullParam() ParameterValue { return ParameterValue{variant{kind: KindNull}} }

func BoolParam(b bool) ParameterValue { return ParameterValue{variant{kind: KindBoolean, val: b}} }

func Int16Param(i int16) ParameterValue { return ParameterValue{variant{kind: KindInt16, val: i}} }

func Int32Param(i int32) ParameterValue { return ParameterValue{variant{kind: KindInt32, val: i}} }

func Int64Param(i int64) ParameterValue { return ParameterValue{variant{kind: KindInt64, val: i}} }

func Float32Param(f float32) ParameterValue {
	return ParameterValue{variant{kind: KindFloating32, val: f}}
}

func Float64Param(f float64) ParameterValue {
	return ParameterValue{variant{kind: KindFloating64, val: f}}
}

func StrParam(s string) ParameterValue { return ParameterValue{variant{kind: KindStr, val: s}} }

func BinaryParam(b []byte) ParameterValue { return ParameterValue{variant{kind: KindBinary, val: b}} }

func DateParam(d Date) ParameterValue { return ParameterValue{variant{kind: KindDate, val: d}} }

func TimeParam(t Time) ParameterValue { return ParameterValue{variant{kind: KindTime, val: t}} }

func DatetimeParam(dt Datetime) ParameterValue {
	return ParameterValue{variant{kind: KindDatetime, val: dt}}
}

// Equal reports whether both parameters carry the same variant and payload.
func (p ParameterValue) Equal(o ParameterValue) bool {
	return equalVariant(p.variant, o.variant)
}

// AsDbValue returns the result-side value with the same variant and payload.
// Storing p into a column of the matching family and selecting it back must
// decode to exactly this value.
func (p ParameterValue) AsDbValue() DbValue {
	return DbValue{p.variant}
}
