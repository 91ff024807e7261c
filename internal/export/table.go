package export

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/zeebo/xxh3"
)

type Kind int

const (
	Text Kind = iota
	Number
)

type Column struct {
	Name string
	Kind Kind
}

// Table is a rendered aggregate. Text cells hold strings and Number cells
// hold float64. Rows are displayed and exported with a 1-based index.
type Table struct {
	Columns []Column
	Rows    [][]any
}

func NewTable(columns ...Column) *Table {
	return &Table{Columns: columns, Rows: make([][]any, 0)}
}

func (t *Table) Append(cells ...any) *Table {
	t.Rows = append(t.Rows, cells)
	return t
}

func (t *Table) Len() int {
	return len(t.Rows)
}

// Cell formats the cell at row i, column j the way the export writes it.
func (t *Table) Cell(i, j int) string {
	if j >= len(t.Rows[i]) {
		return ""
	}
	return FormatCell(t.Rows[i][j])
}

func FormatCell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		return FormatNumber(c)
	case int:
		return strconv.Itoa(c)
	default:
		return fmt.Sprint(c)
	}
}

// FormatNumber writes the shortest representation that reads back to the
// same float. Whole numbers keep a trailing ".0" and NaN is empty.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return ""
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	abs := math.Abs(v)
	switch {
	case abs >= 1e16 || (abs < 1e-4 && v != 0):
		return strconv.FormatFloat(v, 'g', -1, 64)
	case v == math.Trunc(v):
		return strconv.FormatFloat(v, 'f', 1, 64)
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// Hash identifies the table content. Tables with equal columns and cells
// hash equal.
func (t *Table) Hash() xxh3.Uint128 {
	h := xxh3.New()
	var buf [8]byte

	writeString := func(s string) {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
		h.Write(buf[:])
		h.WriteString(s)
	}

	binary.LittleEndian.PutUint64(buf[:], uint64(len(t.Columns)))
	h.Write(buf[:])
	for _, c := range t.Columns {
		writeString(c.Name)
		h.Write([]byte{byte(c.Kind)})
	}

	binary.LittleEndian.PutUint64(buf[:], uint64(len(t.Rows)))
	h.Write(buf[:])
	for _, row := range t.Rows {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(row)))
		h.Write(buf[:])
		for _, cell := range row {
			switch c := cell.(type) {
			case float64:
				h.Write([]byte{'f'})
				binary.LittleEndian.PutUint64(buf[:], math.Float64bits(c))
				h.Write(buf[:])
			default:
				h.Write([]byte{'s'})
				writeString(FormatCell(c))
			}
		}
	}
	return h.Sum128()
}
