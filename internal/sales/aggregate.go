package sales

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"sales-dashboard/internal/models"
)

// nanSum adds v to acc, ignoring missing values.
func nanSum(acc, v float64) float64 {
	if math.IsNaN(v) {
		return acc
	}
	return acc + v
}

// groupSum sums metric per key. Rows with a blank key belong to no group.
// The result is ordered by key ascending, which is the order ties keep after
// ranking.
func groupSum(rows []models.Sale, key func(models.Sale) string, metric func(models.Sale) float64) []models.GroupTotal {
	totals := make(map[string]float64)
	for _, s := range rows {
		k := key(s)
		if k == "" {
			continue
		}
		totals[k] = nanSum(totals[k], metric(s))
	}

	out := make([]models.GroupTotal, 0, len(totals))
	for k, v := range totals {
		out = append(out, models.GroupTotal{Key: k, Total: v})
	}
	slices.SortFunc(out, func(a, b models.GroupTotal) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return out
}

// largest returns at most n groups with the highest totals, descending.
// Equal totals keep their incoming order.
func largest(groups []models.GroupTotal, n int) []models.GroupTotal {
	ranked := slices.Clone(groups)
	slices.SortStableFunc(ranked, func(a, b models.GroupTotal) int {
		return cmp.Compare(b.Total, a.Total)
	})
	if n < 0 {
		n = 0
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func byItem(s models.Sale) string     { return s.Item }
func byGuest(s models.Sale) string    { return s.Guest }
func quantity(s models.Sale) float64  { return s.Quantity }
func salesIncl(s models.Sale) float64 { return s.SalesInclTax }
func redeemed(s models.Sale) float64  { return s.Redeemed }

// TopItemsByQuantity ranks items by units sold.
func TopItemsByQuantity(rows []models.Sale, n int) []models.GroupTotal {
	return largest(groupSum(rows, byItem, quantity), n)
}

// TopGuestsBySales ranks guests by sales including tax.
func TopGuestsBySales(rows []models.Sale, n int) []models.GroupTotal {
	return largest(groupSum(rows, byGuest, salesIncl), n)
}

// TopItemsBySales ranks items by sales including tax, then sorts the
// selection by the same total again.
func TopItemsBySales(rows []models.Sale, n int) []models.GroupTotal {
	top := largest(groupSum(rows, byItem, salesIncl), n)
	slices.SortStableFunc(top, func(a, b models.GroupTotal) int {
		return cmp.Compare(b.Total, a.Total)
	})
	return top
}

// RedeemedByItem totals redeemed value for every item, ordered by item name.
func RedeemedByItem(rows []models.Sale) []models.GroupTotal {
	return groupSum(rows, byItem, redeemed)
}

// DailySales totals sales including tax per calendar day, oldest first.
func DailySales(rows []models.Sale) []models.DailyTotal {
	totals := make(map[time.Time]float64)
	for _, s := range rows {
		y, m, d := s.Date.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		totals[day] = nanSum(totals[day], s.SalesInclTax)
	}

	out := make([]models.DailyTotal, 0, len(totals))
	for day, v := range totals {
		out = append(out, models.DailyTotal{Date: day, Total: v})
	}
	slices.SortFunc(out, func(a, b models.DailyTotal) int {
		return a.Date.Compare(b.Date)
	})
	return out
}

// CenterSummaries reports quantity and pre-tax sales per center, ordered by
// center name. Rows without a center are left out. The average ignores
// missing amounts and is NaN when a center has none.
func CenterSummaries(rows []models.Sale) []models.CenterSummary {
	type acc struct {
		qty, sales float64
		n          int
	}
	groups := make(map[string]*acc)
	for _, s := range rows {
		if s.Center == "" {
			continue
		}
		g := groups[s.Center]
		if g == nil {
			g = &acc{}
			groups[s.Center] = g
		}
		g.qty = nanSum(g.qty, s.Quantity)
		if !math.IsNaN(s.SalesExclTax) {
			g.sales += s.SalesExclTax
			g.n++
		}
	}

	out := make([]models.CenterSummary, 0, len(groups))
	for center, g := range groups {
		avg := math.NaN()
		if g.n > 0 {
			avg = g.sales / float64(g.n)
		}
		out = append(out, models.CenterSummary{
			Center:              center,
			TotalQuantity:       g.qty,
			TotalSalesExclTax:   g.sales,
			AverageSalesExclTax: avg,
		})
	}
	slices.SortFunc(out, func(a, b models.CenterSummary) int {
		return cmp.Compare(a.Center, b.Center)
	})
	return out
}

// SalesByWeekday totals pre-tax sales into the seven Weekdays slots.
// Days without rows are zero with HasData false.
func SalesByWeekday(rows []models.Sale) []models.CalendarTotal {
	totals := make(map[time.Weekday]float64)
	seen := make(map[time.Weekday]bool)
	for _, s := range rows {
		d := s.Date.Weekday()
		totals[d] = nanSum(totals[d], s.SalesExclTax)
		seen[d] = true
	}

	out := make([]models.CalendarTotal, 0, len(Weekdays))
	for _, d := range Weekdays {
		out = append(out, models.CalendarTotal{Label: d.String(), Total: totals[d], HasData: seen[d]})
	}
	return out
}

// SalesByMonth totals pre-tax sales into the twelve Months slots.
// Months without rows are zero with HasData false.
func SalesByMonth(rows []models.Sale) []models.CalendarTotal {
	totals := make(map[time.Month]float64)
	seen := make(map[time.Month]bool)
	for _, s := range rows {
		m := s.Date.Month()
		totals[m] = nanSum(totals[m], s.SalesExclTax)
		seen[m] = true
	}

	out := make([]models.CalendarTotal, 0, len(Months))
	for _, m := range Months {
		out = append(out, models.CalendarTotal{Label: m.String(), Total: totals[m], HasData: seen[m]})
	}
	return out
}

// FormatIndian scales a value for axis labels: crore above 1e7, lakh above
// 1e5, thousands otherwise.
func FormatIndian(v float64) string {
	switch {
	case v >= 1e7:
		return fmt.Sprintf("%.1f Cr", v*1e-7)
	case v >= 1e5:
		return fmt.Sprintf("%.1f L", v*1e-5)
	default:
		return fmt.Sprintf("%.1f K", v*1e-3)
	}
}
