package value

import "strconv"

// Kind identifies the active variant of a DbValue or ParameterValue.
type Kind uint8

const (
	KindNull Kind = iota
	KindBoolean
	KindInt16
	KindInt32
	KindInt64
	KindFloating32
	KindFloating64
	KindStr
	KindBinary
	KindDate
	KindTime
	KindDatetime
	KindUnsupported
)

var kindNames = [...]string{
	KindNull:        "Null",
	KindBoolean:     "Boolean",
	KindInt16:       "Int16",
	KindInt32:       "Int32",
	KindInt64:       "Int64",
	KindFloating32:  "Floating32",
	KindFloating64:  "Floating64",
	KindStr:         "Str",
	KindBinary:      "Binary",
	KindDate:        "Date",
	KindTime:        "Time",
	KindDatetime:    "Datetime",
	KindUnsupported: "Unsupported",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsInteger reports whether k is one of the integer variants.
func (k Kind) IsInteger() bool {
	return k == KindInt16 || k == KindInt32 || k == KindInt64
}

// IsFloating reports whether k is one of the floating point variants.
func (k Kind) IsFloating() bool {
	return k == KindFloating32 || k == KindFloating64
}

// IsTemporal reports whether k carries calendar or clock components.
func (k Kind) IsTemporal() bool {
	return k == KindDate || k == KindTime || k == KindDatetime
}
