// Package intake validates booking-request drafts and drives them through
// duplicate-email detection to the submission API.
package intake

import (
	"errors"
	"fmt"
	"strings"

	"booking-workers/internal/models"

	"github.com/google/uuid"
)

// ErrLastDateRange is returned when removing the only remaining date range.
var ErrLastDateRange = errors.New("at least one booking date range is required")

// ErrDateRangeNotFound is returned for an unknown entry id.
var ErrDateRangeNotFound = errors.New("booking date range not found")

// ErrDateRangeID is returned for rows with a blank or repeated id.
var ErrDateRangeID = errors.New("booking date range ids must be present and unique")

// NewDraft returns the initial empty draft: blank fields and one empty date range.
func NewDraft() models.BookingRequestDraft {
	return models.BookingRequestDraft{
		BookingDateRanges: []models.DateRangeEntry{newDateRange()},
	}
}

func newDateRange() models.DateRangeEntry {
	return models.DateRangeEntry{ID: uuid.NewString()}
}

// AddDateRange appends one empty entry and returns its id.
func AddDateRange(d *models.BookingRequestDraft) string {
	entry := newDateRange()
	d.BookingDateRanges = append(d.BookingDateRanges, entry)
	return entry.ID
}

// RemoveDateRange deletes the entry with id. The last entry cannot be removed.
func RemoveDateRange(d *models.BookingRequestDraft, id string) error {
	idx := indexOfDateRange(d, id)
	if idx < 0 {
		return ErrDateRangeNotFound
	}
	if len(d.BookingDateRanges) == 1 {
		return ErrLastDateRange
	}
	d.BookingDateRanges = append(d.BookingDateRanges[:idx:idx], d.BookingDateRanges[idx+1:]...)
	return nil
}

// SetDateRange updates the dates of entry id.
func SetDateRange(d *models.BookingRequestDraft, id, startDate, endDate string) error {
	idx := indexOfDateRange(d, id)
	if idx < 0 {
		return ErrDateRangeNotFound
	}
	d.BookingDateRanges[idx].StartDate = startDate
	d.BookingDateRanges[idx].EndDate = endDate
	return nil
}

func indexOfDateRange(d *models.BookingRequestDraft, id string) int {
	for i, e := range d.BookingDateRanges {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// CheckDateRangeIDs rejects rows whose id is blank or already used by an
// earlier row. Field errors are keyed by id, so every row needs its own.
func CheckDateRangeIDs(ranges []models.DateRangeEntry) error {
	seen := make(map[string]struct{}, len(ranges))
	for i, e := range ranges {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			return fmt.Errorf("%w: row %d has no id", ErrDateRangeID, i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: row %d repeats id %q", ErrDateRangeID, i, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// CompleteDateRanges projects the entries that have both dates set.
func CompleteDateRanges(ranges []models.DateRangeEntry) []models.BookingDates {
	out := make([]models.BookingDates, 0, len(ranges))
	for _, e := range ranges {
		if e.Complete() {
			out = append(out, models.BookingDates{StartDate: e.StartDate, EndDate: e.EndDate})
		}
	}
	return out
}
