package handlers

import (
	"bytes"
	"mime"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newPages(t *testing.T) *PageHandlers {
	return NewPageHandlers(newTestDashboard(t, writeSales(t, salesCSV)), testLogger)
}

func TestPageHandlers_HandleIndex(t *testing.T) {
	h := newPages(t)

	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{
			name:   "center and date by default",
			target: "/",
			want: []string{
				"Sales Summary by Center and Date",
				"Select Month-Year:",
				"Top 5 Selling Items",
				"Sales Trend for 2024-01",
				"Download Top 5 Selling Items as CSV",
				"/download/top-items?center=A&amp;period=2024-01",
				"/charts/daily-sales?center=A&amp;period=2024-01",
			},
		},
		{
			name:   "year view",
			target: "/?view=year&year=2025",
			want: []string{
				"Sales Summary by Year",
				"Summary of Sales by Center for 2025",
				"Sales from Monday to Sunday for 2025",
				"Top 5 Highest-Spending Customers for 2025",
				"Monthly Sales for 2025",
				"/download/center-summary?year=2025",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.HandleIndex(w, httptest.NewRequest(http.MethodGet, tt.target, nil))

			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
			body := w.Body.String()
			for _, s := range tt.want {
				assert.Contains(t, body, s)
			}
		})
	}
}

func TestPageHandlers_HandleIndex_UnknownView(t *testing.T) {
	h := newPages(t)

	w := httptest.NewRecorder()
	h.HandleIndex(w, httptest.NewRequest(http.MethodGet, "/?view=inventory", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page not found")
}

func TestPageHandlers_HandleIndex_MissingFile(t *testing.T) {
	h := NewPageHandlers(newTestDashboard(t, filepath.Join(t.TempDir(), "missing.csv")), testLogger)

	w := httptest.NewRecorder()
	h.HandleIndex(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Sales data file not found")
}

func download(h *PageHandlers, name, query string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, "/download/"+name+"?"+query, nil)
	r.SetPathValue("name", name)
	w := httptest.NewRecorder()
	h.HandleDownload(w, r)
	return w
}

func attachmentName(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	return params["filename"]
}

func TestPageHandlers_HandleDownload(t *testing.T) {
	h := newPages(t)

	w := download(h, "top-items", "period=2024-01&center=A")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, "top_5_selling_items.csv", attachmentName(t, w))
	assert.Equal(t, ",Item Name,Qty\n1,Soap,10.0\n2,Shampoo,5.0\n", w.Body.String())

	w = download(h, "center-summary", "year=2024")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Summary of Sales by Center.csv", attachmentName(t, w))
	assert.Equal(t,
		",Center Name,Total_Quantity,Total_Sales_Without_Tax,Average_Sales_Without_Tax\n"+
			"1,A,15.0,1250.0,416.6666666666667\n"+
			"2,B,3.0,550.0,275.0\n",
		w.Body.String())

	// The filename does not change with the selection.
	w = download(h, "top-customers-year", "year=2025")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "top_5_customers_year.csv", attachmentName(t, w))
	assert.Equal(t, ",Guest Name,Sales(Inc. Tax)\n1,Frank,354.0\n", w.Body.String())
}

func TestPageHandlers_HandleDownload_EmptySelection(t *testing.T) {
	h := newPages(t)

	w := download(h, "center-summary", "year=2023")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ",Center Name,Total_Quantity,Total_Sales_Without_Tax,Average_Sales_Without_Tax\n", w.Body.String())
}

func TestPageHandlers_HandleDownload_XLSX(t *testing.T) {
	h := newPages(t)

	w := download(h, "redeemed", "period=2024-01&center=A&format=xlsx")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "redeemed_values.xlsx", attachmentName(t, w))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"", "Item Name", "Redeemed"},
		{"1", "Shampoo", "50"},
		{"2", "Soap", "10"},
	}, rows)
}

func TestPageHandlers_HandleDownload_Errors(t *testing.T) {
	h := newPages(t)

	assert.Equal(t, http.StatusNotFound, download(h, "inventory", "").Code)
	assert.Equal(t, http.StatusBadRequest, download(h, "top-items", "format=pdf").Code)
}

func TestPageHandlers_HandleChart(t *testing.T) {
	h := newPages(t)

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"daily-sales", "period=2024-01&center=A", "Sales Trend for 2024-01"},
		{"top-guests", "period=2024-01&center=A", "Top 3 Guests"},
		{"weekday-sales", "year=2024", "Sales from Monday to Sunday for 2024"},
		{"monthly-sales", "year=2024", "Monthly Sales for 2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/charts/"+tt.name+"?"+tt.query, nil)
			r.SetPathValue("name", tt.name)
			w := httptest.NewRecorder()
			h.HandleChart(w, r)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}

	r := httptest.NewRequest(http.MethodGet, "/charts/pie", nil)
	r.SetPathValue("name", "pie")
	w := httptest.NewRecorder()
	h.HandleChart(w, r)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestParseYear(t *testing.T) {
	assert.Equal(t, 2024, parseYear("2024"))
	assert.Equal(t, 2024, parseYear(" 2024 "))
	assert.Zero(t, parseYear(""))
	assert.Zero(t, parseYear("abc"))
	assert.Zero(t, parseYear("-1"))

	assert.Equal(t, 2025, signalYear(float64(2025)))
	assert.Equal(t, 2025, signalYear("2025"))
	assert.Zero(t, signalYear(nil))
}
