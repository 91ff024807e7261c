package sales

import (
	"slices"
	"time"

	"sales-dashboard/internal/models"
)

const periodLayout = "2006-01"

// Table is the cleaned sales export. It is not modified after loading.
type Table struct {
	rows []models.Sale
}

func NewTable(rows []models.Sale) *Table {
	if rows == nil {
		rows = []models.Sale{}
	}
	return &Table{rows: rows}
}

func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns the table rows in file order. Callers must not modify them.
func (t *Table) Rows() []models.Sale {
	return t.rows
}

func (t *Table) Filter(keep func(models.Sale) bool) []models.Sale {
	out := make([]models.Sale, 0)
	for _, s := range t.rows {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

// PeriodOf returns the month period label ("2024-01") of a sale date.
func PeriodOf(d time.Time) string {
	return d.Format(periodLayout)
}

func InPeriod(period string) func(models.Sale) bool {
	return func(s models.Sale) bool { return PeriodOf(s.Date) == period }
}

func InPeriodAndCenter(period, center string) func(models.Sale) bool {
	return func(s models.Sale) bool { return s.Center == center && PeriodOf(s.Date) == period }
}

func InYear(year int) func(models.Sale) bool {
	return func(s models.Sale) bool { return s.Date.Year() == year }
}

// PeriodOptions lists the distinct month periods in ascending order.
func PeriodOptions(t *Table) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, s := range t.rows {
		p := PeriodOf(s.Date)
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// CenterOptions lists the centers that sold something in period, in the
// order they first appear in the file.
func CenterOptions(t *Table, period string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, s := range t.rows {
		if s.Center == "" || PeriodOf(s.Date) != period {
			continue
		}
		if _, ok := seen[s.Center]; ok {
			continue
		}
		seen[s.Center] = struct{}{}
		out = append(out, s.Center)
	}
	return out
}

// YearOptions lists the distinct calendar years in ascending order.
func YearOptions(t *Table) []int {
	seen := make(map[int]struct{})
	out := make([]int, 0)
	for _, s := range t.rows {
		y := s.Date.Year()
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		out = append(out, y)
	}
	slices.Sort(out)
	return out
}

// Weekdays is the fixed Monday to Sunday display order.
var Weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Months is the fixed January to December display order.
var Months = []time.Month{
	time.January, time.February, time.March, time.April, time.May, time.June,
	time.July, time.August, time.September, time.October, time.November, time.December,
}
