package templates

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"io"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"sales-dashboard/internal/export"
	"sales-dashboard/internal/sales"
)

//go:embed html/*.html
var files embed.FS

const (
	bannerImage = "https://massagespaindia.com/oc-content/uploads/2/5977.webp"
	datastarJS  = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"
)

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"rank": func(i int) int { return i + 1 },
	"cell": func(t *export.Table, i, j int) string { return t.Cell(i, j) },
	"chartRef": func(name, title string, q template.URL) chartRef {
		return chartRef{Name: name, Title: title, Query: q}
	},
}).ParseFS(files, "html/*.html"))

// query builds a URL query string from alternating key, value pairs.
func query(pairs ...string) template.URL {
	v := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] != "" {
			v.Set(pairs[i], pairs[i+1])
		}
	}
	return template.URL(v.Encode())
}

type chartRef struct {
	Name  string
	Title string
	Query template.URL
}

// signals serialises the Datastar signal set for the filter form.
func signals(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func render(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pages.ExecuteTemplate(w, name, data)
	})
}

type navItem struct {
	Name   string
	Title  string
	Active bool
}

type layoutData struct {
	Title    string
	Nav      []navItem
	Datastar string
	Sidebar  template.HTML
	Body     template.HTML
}

func navigation(active string) []navItem {
	items := make([]navItem, 0, len(sales.Views))
	for _, v := range sales.Views {
		items = append(items, navItem{Name: v.Name, Title: v.Title, Active: v.Name == active})
	}
	return items
}

func layout(ctx context.Context, w io.Writer, title, active string, sidebar, body templ.Component) error {
	side, err := templ.ToGoHTML(ctx, sidebar)
	if err != nil {
		return err
	}
	content, err := templ.ToGoHTML(ctx, body)
	if err != nil {
		return err
	}
	return pages.ExecuteTemplate(w, "layout", layoutData{
		Title:    title,
		Nav:      navigation(active),
		Datastar: datastarJS,
		Sidebar:  side,
		Body:     content,
	})
}

type section struct {
	Heading  string
	Download sales.Download
	Query    template.URL
}

type centerDateData struct {
	View     sales.CenterDateView
	Banner   string
	Title    string
	Sections []section
	Query    template.URL
	Signals  string
}

func newCenterDateData(v sales.CenterDateView) centerDateData {
	q := query("period", v.Selection.Period, "center", v.Selection.Center)
	var sections []section
	for _, d := range v.Downloads() {
		sections = append(sections, section{Heading: d.Title, Download: d, Query: q})
	}
	return centerDateData{
		View:     v,
		Banner:   bannerImage,
		Title:    sales.TitleCenterDate,
		Sections: sections,
		Query:    q,
		Signals:  signals(v.Selection),
	}
}

// CenterDateFilters is the sidebar with the cascading month and center
// selectors.
func CenterDateFilters(v sales.CenterDateView) templ.Component {
	return render("center-date-filters", newCenterDateData(v))
}

// CenterDateBody is the main panel of the center and date view.
func CenterDateBody(v sales.CenterDateView) templ.Component {
	return render("center-date-body", newCenterDateData(v))
}

func CenterDatePage(v sales.CenterDateView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return layout(ctx, w, sales.TitleCenterDate, sales.ViewCenterDate, CenterDateFilters(v), CenterDateBody(v))
	})
}

type yearData struct {
	View     sales.YearView
	Title    string
	Year     string
	Sections []section
	Query    template.URL
	Signals  string
}

func newYearData(v sales.YearView) yearData {
	year := strconv.Itoa(v.Selection.Year)
	q := query("year", year)
	var sections []section
	for _, d := range v.Downloads() {
		sections = append(sections, section{Heading: d.Title, Download: d, Query: q})
	}
	return yearData{
		View:     v,
		Title:    sales.TitleYear,
		Year:     year,
		Sections: sections,
		Query:    q,
		Signals:  signals(v.Selection),
	}
}

func YearFilters(v sales.YearView) templ.Component {
	return render("year-filters", newYearData(v))
}

func YearBody(v sales.YearView) templ.Component {
	return render("year-body", newYearData(v))
}

func YearPage(v sales.YearView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return layout(ctx, w, sales.TitleYear, sales.ViewYear, YearFilters(v), YearBody(v))
	})
}

type errorData struct {
	Status    int
	Message   string
	Details   string
	RequestID string
}

// ErrorPage is shown when a view cannot be built, for example when the
// sales file is missing.
func ErrorPage(status int, message, details, requestID string) templ.Component {
	return render("error", errorData{
		Status:    status,
		Message:   message,
		Details:   details,
		RequestID: requestID,
	})
}

// ErrorView replaces the view body with the error message.
func ErrorView(message, details, requestID string) templ.Component {
	return render("error-message", errorData{
		Message:   message,
		Details:   details,
		RequestID: requestID,
	})
}
