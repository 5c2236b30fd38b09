// Package project writes resolved sheets through a spreadsheet writer and
// positions charts, shapes and pictures over the space their placeholders
// reserved.
package project

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/unidoc/unioffice/spreadsheet/reference"

	"github.com/aerissecure/sheetlayout/process"
	"github.com/aerissecure/sheetlayout/style"
)

// Writer is the spreadsheet format a document is projected onto.
type Writer interface {
	// Sheet creates the named sheet or opens it when it already exists.
	Sheet(name string) (Sheet, error)
	// StyleIndex returns the index of a cell format equal to s, creating it
	// on first use.
	StyleIndex(s style.Info) (int, error)
	AddDefinedName(sheet, name string, col, row, colCount, rowCount int) error
	Save(w io.Writer) error
}

// Sheet is one worksheet of a Writer. Columns and rows are appended in order
// starting at 1.
type Sheet interface {
	Name() string
	// Clear removes every row, column and merge.
	Clear() error
	AddColumn(width *float64, hidden bool) error
	AddRow(height *float64, hidden bool) error
	SetValue(ref CellRef, v Value) error
	SetStyle(ref CellRef, idx int) error
	Merge(from, to CellRef) error
}

// CellRef is a 1-based cell position.
type CellRef struct {
	Row, Column int
}

// ColumnName returns the letters of a 1-based column index.
func ColumnName(col int) string {
	if col < 1 {
		return ""
	}
	return reference.IndexToColumn(uint32(col - 1))
}

// String returns the A1 form of the reference.
func (r CellRef) String() string {
	return ColumnName(r.Column) + strconv.Itoa(r.Row)
}

// Absolute returns the $A$1 form of the reference.
func (r CellRef) Absolute() string {
	return "$" + ColumnName(r.Column) + "$" + strconv.Itoa(r.Row)
}

// FormatRange renders r as a sheet qualified absolute reference, e.g.
// 'Data'!$A$2:$A$9. The zero range renders empty.
func FormatRange(r process.Range) string {
	if r.IsZero() {
		return ""
	}
	from := CellRef{Row: r.StartRow, Column: r.StartColumn}.Absolute()
	to := CellRef{Row: r.EndRow, Column: r.EndColumn}.Absolute()
	return QuoteSheet(r.Sheet) + "!" + from + ":" + to
}

// QuoteSheet quotes a sheet name for use in a reference.
func QuoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

type ValueKind uint8

const (
	StringValue ValueKind = iota
	NumberValue
)

func (k ValueKind) String() string {
	if k == NumberValue {
		return "number"
	}
	return "string"
}

// Value is a cell value in the form it is serialized.
type Value struct {
	Kind   ValueKind
	Text   string
	Number float64
}

func Text(s string) Value { return Value{Kind: StringValue, Text: s} }

func Number(f float64) Value { return Value{Kind: NumberValue, Number: f} }

func (v Value) String() string {
	if v.Kind == NumberValue {
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	}
	return v.Text
}

// epoch is day zero of spreadsheet date serial numbers.
var epoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// SerialDate converts t to a day serial number with the time of day as the
// fraction. The wall clock of t is kept, its zone is dropped.
func SerialDate(t time.Time) float64 {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	return wall.Sub(epoch).Hours() / 24
}

// Coerce converts a resolved cell value to its serialized form. A nil value
// is written as an empty string rather than left out so the cell keeps its
// format. Booleans become TRUE/FALSE strings, NaN and infinities become
// empty strings. Values of any other type are written as numbers when their
// text parses as one and as empty strings otherwise. dataType "string" forces
// a string.
func Coerce(v interface{}, dataType string) Value {
	out := coerce(v)
	if strings.EqualFold(dataType, "string") && out.Kind == NumberValue {
		if s, ok := v.(fmt.Stringer); ok {
			return Text(s.String())
		}
		return Text(fmt.Sprint(v))
	}
	return out
}

func coerce(v interface{}) Value {
	switch x := v.(type) {
	case nil:
		return Text("")
	case string:
		return Text(x)
	case []byte:
		return Text(string(x))
	case bool:
		if x {
			return Text("TRUE")
		}
		return Text("FALSE")
	case time.Time:
		return Number(SerialDate(x))
	case *time.Time:
		if x == nil {
			return Text("")
		}
		return Number(SerialDate(*x))
	case float64:
		return finite(x)
	case float32:
		return finite(float64(x))
	case int:
		return Number(float64(x))
	case int8:
		return Number(float64(x))
	case int16:
		return Number(float64(x))
	case int32:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case uint:
		return Number(float64(x))
	case uint8:
		return Number(float64(x))
	case uint16:
		return Number(float64(x))
	case uint32:
		return Number(float64(x))
	case uint64:
		return Number(float64(x))
	case decimal.Decimal:
		return Number(x.InexactFloat64())
	case *decimal.Decimal:
		if x == nil {
			return Text("")
		}
		return Number(x.InexactFloat64())
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(fmt.Sprint(v)), 64)
	if err != nil {
		return Text("")
	}
	return finite(f)
}

func finite(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Text("")
	}
	return Number(f)
}
