package value

// DbValue is a single decoded result cell. Exactly one variant is active and
// there is no implicit coercion between variants: an Int32 cell never answers
// AsInt64.
type DbValue struct {
	variant
}

func NullValue() DbValue { return DbValue{variant{kind: KindNull}} }

func BoolValue(b bool) DbValue { return DbValue{variant{kind: KindBoolean, val: b}} }

func Int16Value(i int16) DbValue { return DbValue{variant{kind: KindInt16, val: i}} }

func Int32Value(i int32) DbValue { return DbValue{variant{kind: KindInt32, val: i}} }

func Int64Value(i int64) DbValue { return DbValue{variant{kind: KindInt64, val: i}} }

func Float32Value(f float32) DbValue { return DbValue{variant{kind: KindFloating32, val: f}} }

func Float64Value(f float64) DbValue { return DbValue{variant{kind: KindFloating64, val: f}} }

func StrValue(s string) DbValue { return DbValue{variant{kind: KindStr, val: s}} }

// BinaryValue takes ownership of b.
func BinaryValue(b []byte) DbValue { return DbValue{variant{kind: KindBinary, val: b}} }

func DateValue(d Date) DbValue { return DbValue{variant{kind: KindDate, val: d}} }

func TimeValue(t Time) DbValue { return DbValue{variant{kind: KindTime, val: t}} }

func DatetimeValue(dt Datetime) DbValue { return DbValue{variant{kind: KindDatetime, val: dt}} }

// UnsupportedValue marks a cell whose column type has no variant. typeName is
// the server's name for the column type.
func UnsupportedValue(typeName string) DbValue {
	return DbValue{variant{kind: KindUnsupported, val: typeName}}
}

// UnsupportedType returns the server type name of an Unsupported cell.
func (v DbValue) UnsupportedType() (string, bool) {
	s, ok := v.val.(string)
	return s, ok && v.kind == KindUnsupported
}

// Equal reports whether both values carry the same variant and payload.
func (v DbValue) Equal(o DbValue) bool {
	return equalVariant(v.variant, o.variant)
}

func equalVariant(a, b variant) bool {
	if a.kind != b.kind {
		return false
	}
	if a.kind == KindBinary {
		ab, bb := a.val.([]byte), b.val.([]byte)
		if len(ab) != len(bb) {
			return false
		}
		for i := range ab {
			if ab[i] != bb[i] {
				return false
			}
		}
		return true
	}
	return a.val == b.val
}
