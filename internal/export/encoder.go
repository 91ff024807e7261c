package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/xuri/excelize/v2"
	"github.com/zeebo/xxh3"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const DefaultCacheSize = 256

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Extension swaps the extension of a .csv filename for the format's own.
func (f Format) Extension(filename string) string {
	if f == FormatCSV {
		return filename
	}
	if len(filename) > 4 && filename[len(filename)-4:] == ".csv" {
		filename = filename[:len(filename)-4]
	}
	return filename + "." + string(f)
}

type cacheKey struct {
	format Format
	hash   xxh3.Uint128
}

// Encoder turns tables into export bytes. Results are memoised by content,
// so encoding the same table twice returns the stored bytes.
type Encoder struct {
	cache   *lru.Cache[cacheKey, []byte]
	encodes atomic.Int64
	hits    atomic.Int64
}

func NewEncoder(size int) (*Encoder, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[cacheKey, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("create export cache: %w", err)
	}
	return &Encoder{cache: cache}, nil
}

func (e *Encoder) Encode(t *Table, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return e.CSV(t)
	case FormatXLSX:
		return e.XLSX(t)
	default:
		return nil, fmt.Errorf("unsupported export format %q", f)
	}
}

// CSV encodes t as UTF-8 CSV with a leading unnamed index column.
func (e *Encoder) CSV(t *Table) ([]byte, error) {
	return e.memo(t, FormatCSV, encodeCSV)
}

// XLSX encodes t as a single-sheet workbook laid out like the CSV export.
func (e *Encoder) XLSX(t *Table) ([]byte, error) {
	return e.memo(t, FormatXLSX, encodeXLSX)
}

func (e *Encoder) memo(t *Table, f Format, encode func(*Table) ([]byte, error)) ([]byte, error) {
	key := cacheKey{format: f, hash: t.Hash()}
	if b, ok := e.cache.Get(key); ok {
		e.hits.Add(1)
		return b, nil
	}

	b, err := encode(t)
	if err != nil {
		return nil, err
	}
	e.encodes.Add(1)
	e.cache.Add(key, b)
	return b, nil
}

type Stats struct {
	Encodes int64 `json:"encodes"`
	Hits    int64 `json:"hits"`
	Entries int   `json:"entries"`
}

func (e *Encoder) Stats() Stats {
	return Stats{
		Encodes: e.encodes.Load(),
		Hits:    e.hits.Load(),
		Entries: e.cache.Len(),
	}
}

func header(t *Table) []string {
	h := make([]string, 0, len(t.Columns)+1)
	h = append(h, "")
	for _, c := range t.Columns {
		h = append(h, c.Name)
	}
	return h
}

func encodeCSV(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header(t)); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, len(t.Columns)+1)
	for i := range t.Rows {
		record[0] = strconv.Itoa(i + 1)
		for j := range t.Columns {
			record[j+1] = t.Cell(i, j)
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

const sheetName = "Sheet1"

func encodeXLSX(t *Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	head := make([]any, 0, len(t.Columns)+1)
	for _, h := range header(t) {
		head = append(head, h)
	}
	if err := f.SetSheetRow(sheetName, "A1", &head); err != nil {
		return nil, fmt.Errorf("write xlsx header: %w", err)
	}

	for i, row := range t.Rows {
		values := make([]any, 0, len(t.Columns)+1)
		values = append(values, i+1)
		for j := range t.Columns {
			var cell any
			if j < len(row) {
				cell = row[j]
			}
			if v, ok := cell.(float64); ok && FormatNumber(v) == "" {
				cell = nil
			}
			values = append(values, cell)
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, axis, &values); err != nil {
			return nil, fmt.Errorf("write xlsx row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeCSV reads bytes produced by CSV back into a table. Cells that parse
// as numbers in every row are restored as Number columns.
func DecodeCSV(r io.Reader) (*Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty csv")
	}

	head := records[0]
	if len(head) == 0 || head[0] != "" {
		return nil, fmt.Errorf("missing index column")
	}

	t := NewTable()
	for _, name := range head[1:] {
		t.Columns = append(t.Columns, Column{Name: name, Kind: Number})
	}
	body := records[1:]
	for j := range t.Columns {
		for _, rec := range body {
			if rec[j+1] == "" {
				continue
			}
			if _, err := strconv.ParseFloat(rec[j+1], 64); err != nil {
				t.Columns[j].Kind = Text
				break
			}
		}
	}

	for _, rec := range body {
		row := make([]any, len(t.Columns))
		for j, c := range t.Columns {
			cell := rec[j+1]
			if c.Kind == Number {
				row[j] = parseNumber(cell)
			} else {
				row[j] = cell
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func parseNumber(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
