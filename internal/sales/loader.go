package sales

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/sync/errgroup"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

const (
	batchSize  = 10000
	maxWorkers = 10
)

// Source column headers.
const (
	ColSaleDate     = "Sale Date"
	ColCenterName   = "Center Name"
	ColItemName     = "Item Name"
	ColGuestName    = "Guest Name"
	ColQty          = "Qty"
	ColSalesExclTax = "Sales (Exc. Tax)"
	ColTax          = "Tax"
	ColSalesInclTax = "Sales(Inc. Tax)"
	ColRedeemed     = "Redeemed"
)

var requiredColumns = []string{
	ColSaleDate, ColCenterName, ColItemName, ColGuestName,
	ColQty, ColSalesExclTax, ColTax, ColSalesInclTax, ColRedeemed,
}

var ErrMissingColumn = errors.New("missing required column")

// Load reads the sales export at path. Every call reads the file again;
// nothing is cached between calls.
func Load(ctx context.Context, path string) (*Table, error) {
	ctx, span := observability.StartSpan(ctx, "sales.Load")
	defer span.Finish()
	span.SetTag("path", path)

	file, err := os.Open(path)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("open sales file: %w", err)
	}
	defer file.Close()

	t, err := LoadReader(ctx, file)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	span.SetTag("rows", strconv.Itoa(t.Len()))
	return t, nil
}

// LoadReader parses a sales export from r. Rows whose sale date cannot be
// parsed are dropped; numeric cells that cannot be parsed become NaN.
func LoadReader(ctx context.Context, r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var (
		rows    []models.Sale
		batch   = make([][]string, 0, batchSize)
		read    int
		dropped int
	)

	flush := func() error {
		parsed, err := parseBatch(ctx, batch, idx)
		if err != nil {
			return err
		}
		for _, p := range parsed {
			if p.ok {
				rows = append(rows, p.sale)
			} else {
				dropped++
			}
		}
		batch = batch[:0]
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", read+1, err)
		}
		read++
		batch = append(batch, record)

		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if len(batch) > 0 {
		if err := flush(); err != nil {
			return nil, err
		}
	}

	slog.Default().Debug("sales file parsed",
		"records", read,
		"kept", len(rows),
		"dropped", dropped,
	)

	return NewTable(rows), nil
}

type parsedRow struct {
	sale models.Sale
	ok   bool
}

// parseBatch parses records concurrently. Results keep the input order.
func parseBatch(ctx context.Context, batch [][]string, idx map[string]int) ([]parsedRow, error) {
	out := make([]parsedRow, len(batch))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	chunk := (len(batch) + maxWorkers - 1) / maxWorkers
	for start := 0; start < len(batch); start += chunk {
		end := min(start+chunk, len(batch))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				sale, ok := parseRecord(batch[i], idx)
				out[i] = parsedRow{sale: sale, ok: ok}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.TrimSpace(name)
		if _, seen := idx[name]; !seen {
			idx[name] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return idx, nil
}

func parseRecord(record []string, idx map[string]int) (models.Sale, bool) {
	cell := func(col string) string {
		i := idx[col]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}

	date, err := ParseSaleDate(cell(ColSaleDate))
	if err != nil {
		return models.Sale{}, false
	}

	return models.Sale{
		Date:         date,
		Center:       cell(ColCenterName),
		Item:         cell(ColItemName),
		Guest:        cell(ColGuestName),
		Quantity:     ParseAmount(cell(ColQty)),
		SalesExclTax: ParseAmount(cell(ColSalesExclTax)),
		Tax:          ParseAmount(cell(ColTax)),
		SalesInclTax: ParseAmount(cell(ColSalesInclTax)),
		Redeemed:     ParseAmount(cell(ColRedeemed)),
	}, true
}

// ParseSaleDate accepts the date layouts a spreadsheet export typically
// produces. Values without a zone are read as UTC.
func ParseSaleDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	return dateparse.ParseIn(s, time.UTC)
}

// ParseAmount strips thousands separators and parses a float. Anything that
// still fails to parse, or is infinite, is NaN.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}
