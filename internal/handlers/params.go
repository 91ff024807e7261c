package handlers

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/sales"
	"sales-dashboard/internal/services"
)

func centerDateSelection(r *http.Request) sales.CenterDateSelection {
	q := r.URL.Query()
	return sales.CenterDateSelection{
		Period: strings.TrimSpace(q.Get("period")),
		Center: q.Get("center"),
	}
}

func yearSelection(r *http.Request) sales.YearSelection {
	return sales.YearSelection{Year: parseYear(r.URL.Query().Get("year"))}
}

// parseYear returns 0, meaning the default year, for anything that is not
// a positive integer.
func parseYear(s string) int {
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || year <= 0 {
		return 0
	}
	return year
}

// signalYear accepts the year signal as either a JSON number or a string,
// since a bound select reports its value as text.
func signalYear(v any) int {
	switch y := v.(type) {
	case float64:
		return parseYear(strconv.FormatFloat(y, 'f', -1, 64))
	case string:
		return parseYear(y)
	default:
		return 0
	}
}

// classify maps service errors onto API errors.
func classify(err error) *errors.AppError {
	switch {
	case stderrors.Is(err, services.ErrUnknownDownload):
		return errors.NotFoundWrap(err, "Unknown download")
	case stderrors.Is(err, fs.ErrNotExist):
		return errors.InternalWrap(err, "Sales data file not found")
	case stderrors.Is(err, sales.ErrMissingColumn):
		return errors.InternalWrap(err, "Sales data file is missing required columns")
	default:
		return errors.InternalWrap(err, "Failed to load sales data")
	}
}

func viewName(r *http.Request) (string, error) {
	switch v := r.URL.Query().Get("view"); v {
	case "", sales.ViewCenterDate:
		return sales.ViewCenterDate, nil
	case sales.ViewYear:
		return sales.ViewYear, nil
	default:
		return "", fmt.Errorf("unknown view %q", v)
	}
}
