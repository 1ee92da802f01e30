package pricedata

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Bar is one minute of OHLC price action. Timestamp is the bar start
// instant in UTC. Volume exists in the source files but carries nothing
// downstream, so it is not part of the model.
type Bar struct {
	Timestamp time.Time
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
}

// Date is a civil calendar date in the table's exchange-local timezone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func dateLess(a, b Date) bool {
	if a.Year != b.Year {
		return a.Year < b.Year
	}
	if a.Month != b.Month {
		return a.Month < b.Month
	}
	return a.Day < b.Day
}

// Table holds the minute bars of one (symbol, year) file, sorted by UTC
// timestamp and immutable after load.
type Table struct {
	bars []Bar
	loc  *time.Location
}

// Len reports the number of bars in the table.
func (t *Table) Len() int { return len(t.bars) }

// Location returns the exchange-local civil timezone the table's source
// timestamps were interpreted in.
func (t *Table) Location() *time.Location { return t.loc }

// Bars returns a copy of every bar in timestamp order.
func (t *Table) Bars() []Bar {
	out := make([]Bar, len(t.bars))
	copy(out, t.bars)
	return out
}

// DateIn resolves an instant to its calendar date in loc.
func DateIn(ts time.Time, loc *time.Location) Date {
	y, m, d := ts.In(loc).Date()
	return Date{Year: y, Month: m, Day: d}
}

// CivilDate resolves an instant to its calendar date in the table's
// exchange-local timezone.
func (t *Table) CivilDate(ts time.Time) Date {
	return DateIn(ts, t.loc)
}

// SliceForDay returns every bar whose exchange-local civil date equals d,
// in timestamp order. A day with no bars yields an empty slice, not an
// error. Local civil dates are monotonic along the UTC-sorted bars, so the
// day window is a contiguous run found by binary search.
func (t *Table) SliceForDay(d Date) []Bar {
	start := sort.Search(len(t.bars), func(i int) bool {
		return !dateLess(t.CivilDate(t.bars[i].Timestamp), d)
	})
	end := start + sort.Search(len(t.bars)-start, func(i int) bool {
		return dateLess(d, t.CivilDate(t.bars[start+i].Timestamp))
	})

	out := make([]Bar, end-start)
	copy(out, t.bars[start:end])
	return out
}
