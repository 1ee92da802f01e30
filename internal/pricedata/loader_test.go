package pricedata

import (
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func eastern(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load timezone: %v", err)
	}
	return loc
}

func newTestLoader(t *testing.T, dir string) *Loader {
	t.Helper()
	return NewLoader(LoaderOptions{
		Dir:          dir,
		PathTemplate: "DAT_ASCII_%s_M1_%d.csv",
		Location:     eastern(t),
	}, zerolog.Nop())
}

func writeBarFile(t *testing.T, dir, symbol string, year int, lines []string) {
	t.Helper()
	path := filepath.Join(dir, "DAT_ASCII_"+symbol+"_M1_"+strconv.Itoa(year)+".csv")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func TestLoadConvertsEasternToUTC(t *testing.T) {
	dir := t.TempDir()
	writeBarFile(t, dir, "NSXUSD", 2022, []string{
		"20220103 093000;11700.2;11700.5;11699.8;11700.0;0", // EST, UTC-5
		"20220601 093000;12600.1;12601.0;12599.5;12600.8;0", // EDT, UTC-4
	})

	table, err := newTestLoader(t, dir).Load("NSXUSD", 2022)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	bars := table.Bars()
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}

	wantWinter := time.Date(2022, 1, 3, 14, 30, 0, 0, time.UTC)
	if !bars[0].Timestamp.Equal(wantWinter) {
		t.Fatalf("EST bar converted wrong: %v", bars[0].Timestamp)
	}
	wantSummer := time.Date(2022, 6, 1, 13, 30, 0, 0, time.UTC)
	if !bars[1].Timestamp.Equal(wantSummer) {
		t.Fatalf("EDT bar converted wrong: %v", bars[1].Timestamp)
	}

	if bars[1].Open.String() != "12600.1" || bars[1].Close.String() != "12600.8" {
		t.Fatalf("prices not parsed: %+v", bars[1])
	}
}

func TestEasternRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeBarFile(t, dir, "NSXUSD", 2022, []string{
		"20220601 093000;1;2;0.5;1.5;0",
	})

	table, err := newTestLoader(t, dir).Load("NSXUSD", 2022)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	local := table.Bars()[0].Timestamp.In(table.Location())
	if got := local.Format("2006-01-02 15:04:05"); got != "2022-06-01 09:30:00" {
		t.Fatalf("round trip through UTC lost the civil time: %s", got)
	}
}

func TestSliceForDayUsesLocalCalendar(t *testing.T) {
	dir := t.TempDir()
	// The last two bars of June 1st local time land on June 2nd in UTC.
	writeBarFile(t, dir, "NSXUSD", 2022, []string{
		"20220601 093000;1;1;1;1;0",
		"20220601 200000;2;2;2;2;0", // 2022-06-02T00:00:00Z
		"20220601 233000;3;3;3;3;0", // 2022-06-02T03:30:00Z
		"20220602 093000;4;4;4;4;0",
	})

	table, err := newTestLoader(t, dir).Load("NSXUSD", 2022)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	day1 := table.SliceForDay(Date{Year: 2022, Month: time.June, Day: 1})
	if len(day1) != 3 {
		t.Fatalf("expected 3 bars on local June 1, got %d", len(day1))
	}
	for _, bar := range day1 {
		if got := table.CivilDate(bar.Timestamp); got != (Date{2022, time.June, 1}) {
			t.Fatalf("bar outside requested local day: %v", bar.Timestamp)
		}
	}

	day2 := table.SliceForDay(Date{Year: 2022, Month: time.June, Day: 2})
	if len(day2) != 1 {
		t.Fatalf("expected 1 bar on local June 2, got %d", len(day2))
	}

	empty := table.SliceForDay(Date{Year: 2022, Month: time.June, Day: 3})
	if empty == nil || len(empty) != 0 {
		t.Fatalf("day without bars must yield an empty slice, got %v", empty)
	}
}

func TestSliceForDayPartitionsTable(t *testing.T) {
	dir := t.TempDir()
	writeBarFile(t, dir, "NSXUSD", 2022, []string{
		"20220601 093000;1;1;1;1;0",
		"20220601 200000;2;2;2;2;0",
		"20220602 093000;3;3;3;3;0",
		"20220603 093000;4;4;4;4;0",
		"20220603 093100;5;5;5;5;0",
	})

	table, err := newTestLoader(t, dir).Load("NSXUSD", 2022)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	seen := 0
	for day := 1; day <= 4; day++ {
		seen += len(table.SliceForDay(Date{Year: 2022, Month: time.June, Day: day}))
	}
	if seen != table.Len() {
		t.Fatalf("day slices must partition the table: %d of %d bars", seen, table.Len())
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := newTestLoader(t, t.TempDir()).Load("NSXUSD", 2021)
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("missing file must yield ErrDataUnavailable, got %v", err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "DAT_ASCII_NSXUSD_M1_2022.csv"), nil, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	_, err := newTestLoader(t, dir).Load("NSXUSD", 2022)
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("empty file must yield ErrDataUnavailable, got %v", err)
	}
}

func TestLoadGzippedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "DAT_ASCII_NSXUSD_M1_2022.csv.gz")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	gz := gzip.NewWriter(file)
	if _, err := gz.Write([]byte("20220601 093000;1;2;0.5;1.5;100\n")); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}

	table, err := newTestLoader(t, dir).Load("NSXUSD", 2022)
	if err != nil {
		t.Fatalf("gzipped load failed: %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("expected 1 bar, got %d", table.Len())
	}
}

func TestLoadSortsBars(t *testing.T) {
	dir := t.TempDir()
	writeBarFile(t, dir, "NSXUSD", 2022, []string{
		"20220601 093100;2;2;2;2;0",
		"20220601 093000;1;1;1;1;0",
	})

	table, err := newTestLoader(t, dir).Load("NSXUSD", 2022)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	bars := table.Bars()
	if !bars[0].Timestamp.Before(bars[1].Timestamp) {
		t.Fatalf("bars not sorted: %v then %v", bars[0].Timestamp, bars[1].Timestamp)
	}
}
