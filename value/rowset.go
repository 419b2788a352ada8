package value

import (
	"fmt"
	"strconv"

	pluralizer "github.com/gertd/go-pluralize"
)

var pluralizeClient = pluralizer.NewClient()

// DataType is the value-model family of a column.
type DataType uint8

const (
	DataTypeOther DataType = iota
	DataTypeBoolean
	DataTypeInt16
	DataTypeInt32
	DataTypeInt64
	DataTypeFloating32
	DataTypeFloating64
	DataTypeStr
	DataTypeBinary
	DataTypeDate
	DataTypeTime
	DataTypeDatetime
)

var dataTypeNames = [...]string{
	DataTypeOther:      "Other",
	DataTypeBoolean:    "Boolean",
	DataTypeInt16:      "Int16",
	DataTypeInt32:      "Int32",
	DataTypeInt64:      "Int64",
	DataTypeFloating32: "Floating32",
	DataTypeFloating64: "Floating64",
	DataTypeStr:        "Str",
	DataTypeBinary:     "Binary",
	DataTypeDate:       "Date",
	DataTypeTime:       "Time",
	DataTypeDatetime:   "Datetime",
}

func (t DataType) String() string {
	if int(t) < len(dataTypeNames) {
		return dataTypeNames[t]
	}
	return "DataType(" + strconv.Itoa(int(t)) + ")"
}

// Kind returns the DbValue variant non-null cells of this type decode to.
func (t DataType) Kind() Kind {
	switch t {
	case DataTypeBoolean:
		return KindBoolean
	case DataTypeInt16:
		return KindInt16
	case DataTypeInt32:
		return KindInt32
	case DataTypeInt64:
		return KindInt64
	case DataTypeFloating32:
		return KindFloating32
	case DataTypeFloating64:
		return KindFloating64
	case DataTypeStr:
		return KindStr
	case DataTypeBinary:
		return KindBinary
	case DataTypeDate:
		return KindDate
	case DataTypeTime:
		return KindTime
	case DataTypeDatetime:
		return KindDatetime
	default:
		return KindUnsupported
	}
}

// Column describes one selected column.
type Column struct {
	Name     string
	DataType DataType
}

// RowSet is a fully materialized query result. Rows keep the server's
// delivery order and every row has len(Columns) cells.
type RowSet struct {
	Columns      []Column
	Rows         [][]DbValue
	RowsAffected int64
}

// Width returns the number of selected columns.
func (rs *RowSet) Width() int { return len(rs.Columns) }

// Len returns the number of rows.
func (rs *RowSet) Len() int { return len(rs.Rows) }

// ColumnIndex returns the position of the first column called name, or -1.
func (rs *RowSet) ColumnIndex(name string) int {
	for i, c := range rs.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Value returns the cell at row, col.
func (rs *RowSet) Value(row, col int) (DbValue, bool) {
	if row < 0 || row >= len(rs.Rows) || col < 0 || col >= len(rs.Rows[row]) {
		return DbValue{}, false
	}
	return rs.Rows[row][col], true
}

// Validate checks that every row is as wide as the column list.
func (rs *RowSet) Validate() error {
	for i, row := range rs.Rows {
		if len(row) != len(rs.Columns) {
			return fmt.Errorf("row %d has %d values, want %d", i, len(row), len(rs.Columns))
		}
	}
	return nil
}

func (rs *RowSet) String() string {
	if len(rs.Columns) == 0 {
		return pluralizeClient.Pluralize("row", int(rs.RowsAffected), true) + " affected"
	}
	return pluralizeClient.Pluralize("row", len(rs.Rows), true) + " x " +
		pluralizeClient.Pluralize("column", len(rs.Columns), true)
}
