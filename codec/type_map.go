package codec

import (
	"strconv"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Konsultn-Engineering/pgconnect/value"
)

// typeMap resolves type OIDs to names. Only the built-in registrations are
// consulted, so a single read-only instance is shared.
var typeMap = pgtype.NewMap()

// dataTypeCache memoizes OID -> DataType lookups; every decoded cell asks.
var dataTypeCache = sync.Map{} // map[uint32]value.DataType

// DBTypeMap maps Postgres type names and their SQL spellings to the value
// model family their cells decode to. Keys are upper case without type
// modifiers.
var DBTypeMap = map[string]value.DataType{
	// ===================
	// CHARACTER TYPES
	// ===================
	"CHAR":              value.DataTypeStr,
	"CHARACTER":         value.DataTypeStr,
	"BPCHAR":            value.DataTypeStr,
	"VARCHAR":           value.DataTypeStr,
	"CHAR VARYING":      value.DataTypeStr,
	"CHARACTER VARYING": value.DataTypeStr,
	"TEXT":              value.DataTypeStr,
	"NAME":              value.DataTypeStr,

	// Decoded to their canonical text form
	"NUMERIC": value.DataTypeStr,
	"DECIMAL": value.DataTypeStr,
	"DEC":     value.DataTypeStr,
	"UUID":    value.DataTypeStr,

	// ===================
	// INTEGER TYPES
	// ===================
	"SMALLINT":    value.DataTypeInt16,
	"INT2":        value.DataTypeInt16,
	"SMALLSERIAL": value.DataTypeInt16,
	"SERIAL2":     value.DataTypeInt16,
	"INT":         value.DataTypeInt32,
	"INTEGER":     value.DataTypeInt32,
	"INT4":        value.DataTypeInt32,
	"SERIAL":      value.DataTypeInt32,
	"SERIAL4":     value.DataTypeInt32,
	"BIGINT":      value.DataTypeInt64,
	"INT8":        value.DataTypeInt64,
	"BIGSERIAL":   value.DataTypeInt64,
	"SERIAL8":     value.DataTypeInt64,
	"OID":         value.DataTypeInt64,

	// ===================
	// FLOATING POINT TYPES
	// ===================
	"REAL":             value.DataTypeFloating32,
	"FLOAT4":           value.DataTypeFloating32,
	"FLOAT":            value.DataTypeFloating64,
	"FLOAT8":           value.DataTypeFloating64,
	"DOUBLE PRECISION": value.DataTypeFloating64,

	// ===================
	// OTHER SCALARS
	// ===================
	"BOOLEAN": value.DataTypeBoolean,
	"BOOL":    value.DataTypeBoolean,
	"BYTEA":   value.DataTypeBinary,

	// ===================
	// DATE AND TIME
	// ===================
	"DATE":                        value.DataTypeDate,
	"TIME":                        value.DataTypeTime,
	"TIME WITHOUT TIME ZONE":      value.DataTypeTime,
	"TIMESTAMP":                   value.DataTypeDatetime,
	"TIMESTAMP WITHOUT TIME ZONE": value.DataTypeDatetime,
	"TIMESTAMPTZ":                 value.DataTypeDatetime,
	"TIMESTAMP WITH TIME ZONE":    value.DataTypeDatetime,
}

// DataTypeForName returns the family for a type name as written in DDL or as
// reported by the catalog ("varchar(40)", "_int4", "double precision").
// Arrays and unknown names are DataTypeOther.
func DataTypeForName(name string) value.DataType {
	n := normalizeTypeName(name)
	if n == "" || strings.HasPrefix(n, "_") || strings.HasSuffix(n, "[]") {
		return value.DataTypeOther
	}
	if dt, ok := DBTypeMap[n]; ok {
		return dt
	}
	return value.DataTypeOther
}

// DataTypeForOID returns the family for a type OID. OID 0 and types the
// driver does not know are DataTypeOther.
func DataTypeForOID(oid uint32) value.DataType {
	if cached, ok := dataTypeCache.Load(oid); ok {
		return cached.(value.DataType)
	}
	dt := value.DataTypeOther
	// "char" is a single byte internal type, not the SQL CHAR(n) spelled bpchar
	if oid != pgtype.QCharOID {
		if t, ok := typeMap.TypeForOID(oid); ok {
			dt = DataTypeForName(t.Name)
		}
	}
	dataTypeCache.Store(oid, dt)
	return dt
}

// TypeName returns the server name for oid, or "oid:<n>" when the driver
// does not know the type.
func TypeName(oid uint32) string {
	if t, ok := typeMap.TypeForOID(oid); ok {
		return t.Name
	}
	return "oid:" + strconv.FormatUint(uint64(oid), 10)
}

func normalizeTypeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	depth := 0
	for _, r := range strings.ToUpper(strings.TrimSpace(name)) {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case depth > 0:
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
