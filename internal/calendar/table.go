package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Occurrence is one scheduled release of one named event series, with its
// release instant normalized to UTC.
type Occurrence struct {
	ID        string
	Title     string
	Timestamp time.Time
	Actual    decimal.NullDecimal
	Forecast  decimal.NullDecimal
	Previous  decimal.NullDecimal
	Unit      string
}

// MalformedRecordError reports a single feed record whose date could not be
// parsed. Such records are skipped during table construction, never fatal.
type MalformedRecordError struct {
	ID  string
	Err error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("calendar: malformed record %q: %v", e.ID, e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// Table is an immutable, sorted table of event occurrences. Rows are ordered
// by (title ascending, timestamp descending); that ordering drives the
// default selection order in the UI.
type Table struct {
	occurrences []Occurrence
	byID        map[string]int
	skipped     int
}

// BuildTable transforms raw feed records into a Table. It is a pure,
// deterministic transform: identical input yields identical rows in
// identical order regardless of input order. Records dated strictly after
// cutoff are excluded; records with unparseable dates are skipped and
// counted. Duplicate ids keep the last record seen, so ids stay unique.
func BuildTable(records []Record, cutoff time.Time, logger zerolog.Logger) *Table {
	log := logger.With().Str("component", "calendar").Logger()

	rows := make([]Occurrence, 0, len(records))
	index := make(map[string]int, len(records))
	skipped := 0

	for _, rec := range records {
		ts, err := time.Parse(time.RFC3339, rec.Date)
		if err != nil {
			skipped++
			merr := &MalformedRecordError{ID: rec.ID, Err: err}
			log.Warn().Str("id", rec.ID).Str("date", rec.Date).Msg(merr.Error())
			continue
		}
		ts = ts.UTC()

		if ts.After(cutoff) {
			continue
		}

		occ := Occurrence{
			ID:        rec.ID,
			Title:     rec.Title,
			Timestamp: ts,
			Actual:    rec.Actual,
			Forecast:  rec.Forecast,
			Previous:  rec.Previous,
			Unit:      rec.Unit,
		}

		if at, seen := index[rec.ID]; seen {
			rows[at] = occ
			continue
		}
		index[rec.ID] = len(rows)
		rows = append(rows, occ)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Title != rows[j].Title {
			return rows[i].Title < rows[j].Title
		}
		if !rows[i].Timestamp.Equal(rows[j].Timestamp) {
			return rows[i].Timestamp.After(rows[j].Timestamp)
		}
		return rows[i].ID < rows[j].ID
	})

	byID := make(map[string]int, len(rows))
	for i, occ := range rows {
		byID[occ.ID] = i
	}

	log.Debug().Int("rows", len(rows)).Int("skipped", skipped).Msg("calendar table built")

	return &Table{occurrences: rows, byID: byID, skipped: skipped}
}

// Len reports the number of occurrences in the table.
func (t *Table) Len() int { return len(t.occurrences) }

// Skipped reports how many malformed records were dropped during the build.
func (t *Table) Skipped() int { return t.skipped }

// Titles returns the unique event series names in table order (ascending).
func (t *Table) Titles() []string {
	titles := make([]string, 0)
	last := ""
	for i, occ := range t.occurrences {
		if i == 0 || occ.Title != last {
			titles = append(titles, occ.Title)
			last = occ.Title
		}
	}
	return titles
}

// Occurrences returns every occurrence of the named event series, most
// recent first.
func (t *Table) Occurrences(title string) []Occurrence {
	start := sort.Search(len(t.occurrences), func(i int) bool {
		return t.occurrences[i].Title >= title
	})
	end := start
	for end < len(t.occurrences) && t.occurrences[end].Title == title {
		end++
	}
	out := make([]Occurrence, end-start)
	copy(out, t.occurrences[start:end])
	return out
}

// ByID looks up a single occurrence by its unique id.
func (t *Table) ByID(id string) (Occurrence, bool) {
	at, ok := t.byID[id]
	if !ok {
		return Occurrence{}, false
	}
	return t.occurrences[at], true
}
