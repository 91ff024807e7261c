package models

import (
	"encoding/json"
	"math"
	"time"
)

// Sale is one point-of-sale line. Numeric fields hold NaN when the source
// cell could not be read as a number.
type Sale struct {
	Date         time.Time
	Center       string
	Item         string
	Guest        string
	Quantity     float64
	SalesExclTax float64
	Tax          float64
	SalesInclTax float64
	Redeemed     float64
}

type GroupTotal struct {
	Key   string  `json:"key"`
	Total float64 `json:"total"`
}

type DailyTotal struct {
	Date  time.Time `json:"date"`
	Total float64   `json:"total"`
}

type CenterSummary struct {
	Center              string  `json:"center"`
	TotalQuantity       float64 `json:"total_quantity"`
	TotalSalesExclTax   float64 `json:"total_sales_without_tax"`
	AverageSalesExclTax float64 `json:"average_sales_without_tax"`
}

// MarshalJSON writes a NaN average (every amount in the group missing) as null.
func (c CenterSummary) MarshalJSON() ([]byte, error) {
	type alias CenterSummary
	out := struct {
		alias
		AverageSalesExclTax *float64 `json:"average_sales_without_tax"`
	}{alias: alias(c)}
	if !math.IsNaN(c.AverageSalesExclTax) {
		avg := c.AverageSalesExclTax
		out.AverageSalesExclTax = &avg
	}
	return json.Marshal(out)
}

// CalendarTotal is one slot of a fixed calendar enumeration (weekday or
// month). HasData is false when no row fell into the slot; Total is 0 then.
type CalendarTotal struct {
	Label   string  `json:"label"`
	Total   float64 `json:"total"`
	HasData bool    `json:"has_data"`
}
