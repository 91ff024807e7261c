package charts

import (
	"io"
	"slices"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"sales-dashboard/internal/models"
)

const (
	chartWidth  = "900px"
	chartHeight = "420px"
	dateLayout  = "2006-01-02"
)

// indianAxisFormatter mirrors sales.FormatIndian for axis labels.
const indianAxisFormatter = `function (x) {
	if (x >= 1e7) { return (x * 1e-7).toFixed(1) + ' Cr'; }
	if (x >= 1e5) { return (x * 1e-5).toFixed(1) + ' L'; }
	return (x * 1e-3).toFixed(1) + ' K';
}`

// Renderer is any go-echarts chart.
type Renderer interface {
	Render(w io.Writer) error
}

// Render writes chart as a standalone HTML page.
func Render(w io.Writer, chart Renderer) error {
	return chart.Render(w)
}

func initOpts(title string) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		PageTitle: title,
		Width:     chartWidth,
		Height:    chartHeight,
	})
}

// DailySalesLine plots sales including tax for each day of the period.
func DailySalesLine(period string, days []models.DailyTotal) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		initOpts("Sales Trend for "+period),
		charts.WithTitleOpts(opts.Title{Title: "Sales Trend for " + period}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Sale Date"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Sales(Inc. Tax)"}),
	)

	labels := make([]string, 0, len(days))
	data := make([]opts.LineData, 0, len(days))
	for _, d := range days {
		labels = append(labels, d.Date.Format(dateLayout))
		data = append(data, opts.LineData{Value: d.Total})
	}

	line.SetXAxis(labels).AddSeries("Sales(Inc. Tax)", data)
	return line
}

// TopGuestsBar draws horizontal bars with the highest spender on top.
func TopGuestsBar(guests []models.GroupTotal) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts("Top 3 Guests"),
		charts.WithTitleOpts(opts.Title{Title: "Top 3 Guests"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Sales"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Guest Name"}),
	)

	// A category y axis starts at the bottom, so feed it lowest rank first.
	ranked := slices.Clone(guests)
	slices.Reverse(ranked)

	names := make([]string, 0, len(ranked))
	data := make([]opts.BarData, 0, len(ranked))
	for _, g := range ranked {
		names = append(names, g.Key)
		data = append(data, opts.BarData{Value: g.Total})
	}

	bar.SetXAxis(names).AddSeries("Sales", data)
	bar.XYReversal()
	return bar
}

// WeekdayBar draws pre-tax sales for Monday through Sunday.
func WeekdayBar(year int, days []models.CalendarTotal) *charts.Bar {
	return calendarBar("Sales from Monday to Sunday for "+strconv.Itoa(year), "lightblue", days)
}

// MonthlyBar draws pre-tax sales for January through December.
func MonthlyBar(year int, months []models.CalendarTotal) *charts.Bar {
	return calendarBar("Monthly Sales for "+strconv.Itoa(year), "lightgreen", months)
}

func calendarBar(title, color string, slots []models.CalendarTotal) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(title),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "Sales (Exc. Tax)",
			AxisLabel: &opts.AxisLabel{Formatter: opts.FuncOpts(indianAxisFormatter)},
		}),
	)

	labels := make([]string, 0, len(slots))
	data := make([]opts.BarData, 0, len(slots))
	for _, s := range slots {
		labels = append(labels, s.Label)
		data = append(data, opts.BarData{Value: s.Total})
	}

	bar.SetXAxis(labels).AddSeries("Sales (Exc. Tax)", data,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: color, BorderColor: "black"}),
	)
	return bar
}
