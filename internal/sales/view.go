package sales

import (
	"fmt"
	"slices"
	"strconv"

	"sales-dashboard/internal/export"
	"sales-dashboard/internal/models"
)

const (
	ViewCenterDate = "center-date"
	ViewYear       = "year"

	TitleCenterDate = "Sales Summary by Center and Date"
	TitleYear       = "Sales Summary by Year"
)

// Views is the navigation order of the dashboard pages.
var Views = []struct {
	Name  string
	Title string
}{
	{ViewCenterDate, TitleCenterDate},
	{ViewYear, TitleYear},
}

// Download names.
const (
	DownloadTopItems         = "top-items"
	DownloadTopCustomers     = "top-customers"
	DownloadRedeemed         = "redeemed"
	DownloadItemSales        = "item-sales"
	DownloadCenterSummary    = "center-summary"
	DownloadTopCustomersYear = "top-customers-year"
)

// Download is an exportable aggregate. Filename does not depend on the
// current filter selection.
type Download struct {
	Name     string
	Title    string
	Filename string
	Table    *export.Table
}

func (d Download) Label() string {
	return fmt.Sprintf("Download %s as CSV", d.Title)
}

// DownloadView maps each download name to the view that produces it.
var DownloadView = map[string]string{
	DownloadTopItems:         ViewCenterDate,
	DownloadTopCustomers:     ViewCenterDate,
	DownloadRedeemed:         ViewCenterDate,
	DownloadItemSales:        ViewCenterDate,
	DownloadCenterSummary:    ViewYear,
	DownloadTopCustomersYear: ViewYear,
}

type CenterDateSelection struct {
	Period string `json:"period"`
	Center string `json:"center"`
}

// CenterDateView holds everything the center and date page shows.
type CenterDateView struct {
	Periods        []string            `json:"periods"`
	Centers        []string            `json:"centers"`
	Selection      CenterDateSelection `json:"selection"`
	TopItems       []models.GroupTotal `json:"top_items"`
	DailySales     []models.DailyTotal `json:"daily_sales"`
	TopCustomers   []models.GroupTotal `json:"top_customers"`
	TopGuests      []models.GroupTotal `json:"top_guests"`
	RedeemedValues []models.GroupTotal `json:"redeemed_values"`
	ItemSales      []models.GroupTotal `json:"item_sales"`
}

// ResolveCenterDate fills in defaults: the first period when none is given,
// and the first center of the period when the requested one is not offered
// there.
func ResolveCenterDate(t *Table, sel CenterDateSelection) (CenterDateSelection, []string, []string) {
	periods := PeriodOptions(t)
	if sel.Period == "" && len(periods) > 0 {
		sel.Period = periods[0]
	}
	centers := CenterOptions(t, sel.Period)
	if !slices.Contains(centers, sel.Center) {
		sel.Center = ""
		if len(centers) > 0 {
			sel.Center = centers[0]
		}
	}
	return sel, periods, centers
}

func BuildCenterDate(t *Table, sel CenterDateSelection) CenterDateView {
	sel, periods, centers := ResolveCenterDate(t, sel)

	filtered := t.Filter(InPeriodAndCenter(sel.Period, sel.Center))
	monthRows := t.Filter(InPeriod(sel.Period))

	return CenterDateView{
		Periods:        periods,
		Centers:        centers,
		Selection:      sel,
		TopItems:       TopItemsByQuantity(filtered, 5),
		DailySales:     DailySales(monthRows),
		TopCustomers:   TopGuestsBySales(t.Rows(), 5),
		TopGuests:      TopGuestsBySales(filtered, 3),
		RedeemedValues: RedeemedByItem(filtered),
		ItemSales:      TopItemsBySales(filtered, 5),
	}
}

func (v CenterDateView) Downloads() []Download {
	return []Download{
		{
			Name:     DownloadTopItems,
			Title:    "Top 5 Selling Items",
			Filename: "top_5_selling_items.csv",
			Table:    groupTable(v.TopItems, "Item Name", "Qty"),
		},
		{
			Name:     DownloadTopCustomers,
			Title:    "Top 5 Highest-Spending Customers",
			Filename: "top_5_customers.csv",
			Table:    groupTable(v.TopCustomers, "Guest Name", "Sales(Inc. Tax)"),
		},
		{
			Name:     DownloadRedeemed,
			Title:    "Redeemed Values for Selected Center",
			Filename: "redeemed_values.csv",
			Table:    groupTable(v.RedeemedValues, "Item Name", "Redeemed"),
		},
		{
			Name:     DownloadItemSales,
			Title:    "Top 5 Items-wise Sales",
			Filename: "item_sales.csv",
			Table:    groupTable(v.ItemSales, "Item Name", "Sales(Inc. Tax)"),
		},
	}
}

type YearSelection struct {
	Year int `json:"year"`
}

// YearView holds everything the year page shows.
type YearView struct {
	Years        []int                  `json:"years"`
	Selection    YearSelection          `json:"selection"`
	Centers      []models.CenterSummary `json:"center_summary"`
	WeekdaySales []models.CalendarTotal `json:"weekday_sales"`
	TopCustomers []models.GroupTotal    `json:"top_customers"`
	MonthlySales []models.CalendarTotal `json:"monthly_sales"`
}

// ResolveYear picks the earliest year when none is given. A year with no
// rows is kept as requested.
func ResolveYear(t *Table, sel YearSelection) (YearSelection, []int) {
	years := YearOptions(t)
	if sel.Year == 0 && len(years) > 0 {
		sel.Year = years[0]
	}
	return sel, years
}

func BuildYear(t *Table, sel YearSelection) YearView {
	sel, years := ResolveYear(t, sel)
	filtered := t.Filter(InYear(sel.Year))

	return YearView{
		Years:        years,
		Selection:    sel,
		Centers:      CenterSummaries(filtered),
		WeekdaySales: SalesByWeekday(filtered),
		TopCustomers: TopGuestsBySales(filtered, 5),
		MonthlySales: SalesByMonth(filtered),
	}
}

func (v YearView) Downloads() []Download {
	return []Download{
		{
			Name:     DownloadCenterSummary,
			Title:    "Summary of Sales by Center",
			Filename: "Summary of Sales by Center.csv",
			Table:    centerTable(v.Centers),
		},
		{
			Name:     DownloadTopCustomersYear,
			Title:    "Top 5 Highest-Spending Customers for " + strconv.Itoa(v.Selection.Year),
			Filename: "top_5_customers_year.csv",
			Table:    groupTable(v.TopCustomers, "Guest Name", "Sales(Inc. Tax)"),
		},
	}
}

// FindDownload returns the download called name from list.
func FindDownload(list []Download, name string) (Download, bool) {
	for _, d := range list {
		if d.Name == name {
			return d, true
		}
	}
	return Download{}, false
}

func groupTable(rows []models.GroupTotal, keyCol, totalCol string) *export.Table {
	t := export.NewTable(
		export.Column{Name: keyCol, Kind: export.Text},
		export.Column{Name: totalCol, Kind: export.Number},
	)
	for _, r := range rows {
		t.Append(r.Key, r.Total)
	}
	return t
}

func centerTable(rows []models.CenterSummary) *export.Table {
	t := export.NewTable(
		export.Column{Name: "Center Name", Kind: export.Text},
		export.Column{Name: "Total_Quantity", Kind: export.Number},
		export.Column{Name: "Total_Sales_Without_Tax", Kind: export.Number},
		export.Column{Name: "Average_Sales_Without_Tax", Kind: export.Number},
	)
	for _, r := range rows {
		t.Append(r.Center, r.TotalQuantity, r.TotalSalesExclTax, r.AverageSalesExclTax)
	}
	return t
}
