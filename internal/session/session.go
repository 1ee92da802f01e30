// Package session exposes the explicit selection interface the UI layer
// drives: list titles, list occurrences of a title, select one by id, load
// its day slice. The core stays callable and testable without any
// interactive surface in front of it.
package session

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"macromood/internal/align"
	"macromood/internal/calendar"
	"macromood/internal/pricedata"
)

// ErrUnknownOccurrence indicates a selection id not present in the
// calendar table.
var ErrUnknownOccurrence = errors.New("session: unknown occurrence id")

// OccurrenceRef identifies one selectable occurrence of a title.
type OccurrenceRef struct {
	ID        string
	Timestamp time.Time
}

// Session binds one built calendar table to a price-table source for the
// lifetime of a process. The table is immutable, so a session is safe to
// share across selections.
type Session struct {
	table   *calendar.Table
	aligner *align.Aligner
}

// New constructs a Session. The loader is wrapped per call site (typically
// with NewTableCache) before being handed in.
func New(table *calendar.Table, loader align.TableLoader, loc *time.Location, logger zerolog.Logger) *Session {
	return &Session{
		table:   table,
		aligner: align.New(loader, loc, logger),
	}
}

// ListEventTitles returns the selectable event series names, ascending.
func (s *Session) ListEventTitles() []string {
	return s.table.Titles()
}

// ListOccurrences returns the selectable occurrences of one title, most
// recent first, matching the calendar table's ordering.
func (s *Session) ListOccurrences(title string) []OccurrenceRef {
	occs := s.table.Occurrences(title)
	refs := make([]OccurrenceRef, len(occs))
	for i, occ := range occs {
		refs[i] = OccurrenceRef{ID: occ.ID, Timestamp: occ.Timestamp}
	}
	return refs
}

// SelectOccurrence resolves a selection id to its full occurrence.
func (s *Session) SelectOccurrence(id string) (calendar.Occurrence, error) {
	occ, ok := s.table.ByID(id)
	if !ok {
		return calendar.Occurrence{}, ErrUnknownOccurrence
	}
	return occ, nil
}

// LoadDaySlice returns the minute bars of the occurrence's release day for
// the given instrument. pricedata.ErrDataUnavailable surfaces as-is; an
// empty slice means the file exists but holds no bars for that day.
func (s *Session) LoadDaySlice(occ calendar.Occurrence, symbol string) ([]pricedata.Bar, error) {
	return s.aligner.DaySlice(occ, symbol)
}
