package calendar

import (
	"github.com/shopspring/decimal"
)

// Record is one raw, already JSON-decoded event from the calendar feed.
// Actual/Forecast/Previous are null in the feed when a figure was not
// reported; NullDecimal keeps missing distinct from zero.
type Record struct {
	ID         string              `json:"id"`
	Title      string              `json:"title"`
	Country    string              `json:"country"`
	Date       string              `json:"date"`
	Actual     decimal.NullDecimal `json:"actual"`
	Forecast   decimal.NullDecimal `json:"forecast"`
	Previous   decimal.NullDecimal `json:"previous"`
	Unit       string              `json:"unit"`
	Importance int                 `json:"importance"`
}
