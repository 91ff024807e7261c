package sales

import (
	"context"
	"errors"
	"io/fs"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = "testdata/sales.csv"

func loadFixture(t *testing.T) *Table {
	t.Helper()
	table, err := Load(context.Background(), fixture)
	require.NoError(t, err)
	return table
}

func TestLoad(t *testing.T) {
	table := loadFixture(t)

	// The row with an unparseable date is dropped.
	require.Equal(t, 6, table.Len())

	first := table.Rows()[0]
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "A", first.Center)
	assert.Equal(t, "Soap", first.Item)
	assert.Equal(t, "Alice", first.Guest)
	assert.Equal(t, 4.0, first.Quantity)
	assert.Equal(t, 118.0, first.SalesInclTax)

	shampoo := table.Rows()[2]
	assert.Equal(t, 1000.0, shampoo.SalesExclTax)
	assert.Equal(t, 1180.0, shampoo.SalesInclTax)

	oil := table.Rows()[5]
	assert.True(t, math.IsNaN(oil.Redeemed))

	for _, s := range table.Rows() {
		assert.NotEqual(t, "Ghost", s.Item)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), "testdata/does-not-exist.csv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoadReader(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		rows    int
		wantErr error
	}{
		{
			name:  "byte order mark on header",
			input: "\ufeffSale Date,Center Name,Item Name,Guest Name,Qty,Sales (Exc. Tax),Tax,Sales(Inc. Tax),Redeemed\n2024-01-01,A,Soap,Al,1,1,0,1,0\n",
			rows:  1,
		},
		{
			name:  "extra columns are ignored",
			input: "Receipt,Sale Date,Center Name,Item Name,Guest Name,Qty,Sales (Exc. Tax),Tax,Sales(Inc. Tax),Redeemed\n9,01/02/2024,A,Soap,Al,1,1,0,1,0\n",
			rows:  1,
		},
		{
			name:  "header only",
			input: "Sale Date,Center Name,Item Name,Guest Name,Qty,Sales (Exc. Tax),Tax,Sales(Inc. Tax),Redeemed\n",
			rows:  0,
		},
		{
			name:    "missing column",
			input:   "Sale Date,Center Name,Item Name\n2024-01-01,A,Soap\n",
			wantErr: ErrMissingColumn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := LoadReader(context.Background(), strings.NewReader(tt.input))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.rows, table.Len())
			assert.NotNil(t, table.Rows())
		})
	}
}

func TestLoadReader_BareQuoteInField(t *testing.T) {
	f := "Sale Date,Center Name,Item Name,Guest Name,Qty,Sales (Exc. Tax),Tax,Sales(Inc. Tax),Redeemed\n" +
		"2024-01-01,A,Towel 30\" wide,Al,1,100,18,118,0\n" +
		"2024-01-02,A,Soap,Bo,2,50,9,59,0\n"

	table, err := LoadReader(context.Background(), strings.NewReader(f))
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, `Towel 30" wide`, table.Rows()[0].Item)
	assert.Equal(t, 118.0, table.Rows()[0].SalesInclTax)
	assert.Equal(t, "Soap", table.Rows()[1].Item)
}

func TestLoadReader_Empty(t *testing.T) {
	_, err := LoadReader(context.Background(), strings.NewReader(""))
	assert.Error(t, err)
}

func TestLoadReader_KeepsOrderAcrossBatches(t *testing.T) {
	var b strings.Builder
	b.WriteString("Sale Date,Center Name,Item Name,Guest Name,Qty,Sales (Exc. Tax),Tax,Sales(Inc. Tax),Redeemed\n")
	const n = batchSize + 37
	for i := range n {
		day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i%365)
		b.WriteString(day.Format("2006-01-02"))
		b.WriteString(",C,Item,G,1,1,0,1,0\n")
	}

	table, err := LoadReader(context.Background(), strings.NewReader(b.String()))
	require.NoError(t, err)
	require.Equal(t, n, table.Len())
	for i, s := range table.Rows() {
		want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i%365)
		if !s.Date.Equal(want) {
			t.Fatalf("row %d date = %v, want %v", i, s.Date, want)
		}
	}
}

func TestLoadReader_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := "Sale Date,Center Name,Item Name,Guest Name,Qty,Sales (Exc. Tax),Tax,Sales(Inc. Tax),Redeemed\n2024-01-01,A,Soap,Al,1,1,0,1,0\n"
	_, err := LoadReader(ctx, strings.NewReader(f))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseSaleDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-01-15 13:45:00", time.Date(2024, 1, 15, 13, 45, 0, 0, time.UTC)},
		{"01/15/2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{" 2024-03-01 ", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSaleDate(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}

	for _, bad := range []string{"", "   ", "invalid"} {
		_, err := ParseSaleDate(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, 1000.0, ParseAmount("1,000"))
	assert.Equal(t, 12.5, ParseAmount(" 12.5 "))
	assert.Equal(t, -3.0, ParseAmount("-3"))
	assert.True(t, math.IsNaN(ParseAmount("")))
	assert.True(t, math.IsNaN(ParseAmount("abc")))
	assert.True(t, math.IsNaN(ParseAmount("Inf")))
	assert.True(t, math.IsNaN(ParseAmount("-infinity")))
}
