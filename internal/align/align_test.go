package align

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"macromood/internal/calendar"
	"macromood/internal/pricedata"
)

type fakeLoader struct {
	tables map[string]*pricedata.Table
	loads  []string
}

func (f *fakeLoader) Load(symbol string, year int) (*pricedata.Table, error) {
	key := fmt.Sprintf("%s/%d", symbol, year)
	f.loads = append(f.loads, key)
	table, ok := f.tables[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, pricedata.ErrDataUnavailable)
	}
	return table, nil
}

func eastern(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load timezone: %v", err)
	}
	return loc
}

func buildTable(t *testing.T, loc *time.Location, stamps ...time.Time) *pricedata.Table {
	t.Helper()
	dir := t.TempDir()
	year := stamps[0].In(loc).Year()

	var lines strings.Builder
	for _, stamp := range stamps {
		lines.WriteString(stamp.In(loc).Format("20060102 150405"))
		lines.WriteString(";1;1;1;1;0\n")
	}
	name := filepath.Join(dir, fmt.Sprintf("X_%d.csv", year))
	if err := os.WriteFile(name, []byte(lines.String()), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	loader := pricedata.NewLoader(pricedata.LoaderOptions{
		Dir:          dir,
		PathTemplate: "%s_%d.csv",
		Location:     loc,
	}, zerolog.Nop())
	table, err := loader.Load("X", year)
	if err != nil {
		t.Fatalf("fixture load failed: %v", err)
	}
	return table
}

func TestDaySliceSelectsLocalDate(t *testing.T) {
	loc := eastern(t)
	release := time.Date(2022, 6, 3, 12, 30, 0, 0, time.UTC) // 08:30 local

	table := buildTable(t, loc,
		time.Date(2022, 6, 3, 13, 30, 0, 0, time.UTC),
		time.Date(2022, 6, 3, 13, 31, 0, 0, time.UTC),
		time.Date(2022, 6, 4, 13, 30, 0, 0, time.UTC),
	)
	loader := &fakeLoader{tables: map[string]*pricedata.Table{"X/2022": table}}

	aligner := New(loader, loc, zerolog.Nop())
	bars, err := aligner.DaySlice(calendar.Occurrence{ID: "e1", Title: "NFP", Timestamp: release}, "X")
	if err != nil {
		t.Fatalf("day slice failed: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected the 2 bars of June 3, got %d", len(bars))
	}
	for _, bar := range bars {
		if got := table.CivilDate(bar.Timestamp); got != (pricedata.Date{Year: 2022, Month: time.June, Day: 3}) {
			t.Fatalf("bar outside event day: %v", bar.Timestamp)
		}
	}
}

func TestDaySliceYearFollowsLocalDate(t *testing.T) {
	loc := eastern(t)
	// 2023-01-01T01:00Z is still 2022-12-31 in New York; the 2022 file
	// holds that trading day.
	release := time.Date(2023, 1, 1, 1, 0, 0, 0, time.UTC)

	table := buildTable(t, loc,
		time.Date(2022, 12, 31, 22, 0, 0, 0, time.UTC), // 17:00 local Dec 31
	)
	loader := &fakeLoader{tables: map[string]*pricedata.Table{"X/2022": table}}

	aligner := New(loader, loc, zerolog.Nop())
	bars, err := aligner.DaySlice(calendar.Occurrence{ID: "e1", Timestamp: release}, "X")
	if err != nil {
		t.Fatalf("day slice failed: %v", err)
	}
	if len(loader.loads) != 1 || loader.loads[0] != "X/2022" {
		t.Fatalf("expected a single load of the local year's file, got %v", loader.loads)
	}
	if len(bars) != 1 {
		t.Fatalf("expected 1 bar, got %d", len(bars))
	}
}

func TestDaySlicePropagatesDataUnavailable(t *testing.T) {
	loader := &fakeLoader{tables: map[string]*pricedata.Table{}}
	aligner := New(loader, eastern(t), zerolog.Nop())

	_, err := aligner.DaySlice(calendar.Occurrence{
		ID:        "e1",
		Timestamp: time.Date(2021, 6, 3, 12, 30, 0, 0, time.UTC),
	}, "X")
	if !errors.Is(err, pricedata.ErrDataUnavailable) {
		t.Fatalf("missing file must surface ErrDataUnavailable, got %v", err)
	}
}

func TestDaySliceRequiresSymbol(t *testing.T) {
	aligner := New(&fakeLoader{}, eastern(t), zerolog.Nop())
	if _, err := aligner.DaySlice(calendar.Occurrence{}, ""); err == nil {
		t.Fatal("empty symbol must fail")
	}
}
