package intake

import "strings"

// FieldErrors maps a field key to the message shown next to it.
// Date-range rows use the synthetic keys built by StartDateKey and EndDateKey.
type FieldErrors map[string]string

// DateRangesKey flags a draft that carries no date-range rows.
const DateRangesKey = "bookingDateRanges"

func StartDateKey(entryID string) string { return "startDate-" + entryID }
func EndDateKey(entryID string) string   { return "endDate-" + entryID }
func DateOrderKey(entryID string) string { return "dateOrder-" + entryID }

// Clear drops the error for key.
func (fe FieldErrors) Clear(key string) {
	delete(fe, key)
}

// ClearDateRange drops every error attached to one date-range row.
func (fe FieldErrors) ClearDateRange(entryID string) {
	for key := range fe {
		if strings.HasSuffix(key, "-"+entryID) {
			delete(fe, key)
		}
	}
}

// Merge copies other into fe.
func (fe FieldErrors) Merge(other FieldErrors) {
	for k, v := range other {
		fe[k] = v
	}
}

// Keys lists the keys in no particular order.
func (fe FieldErrors) Keys() []string {
	out := make([]string, 0, len(fe))
	for k := range fe {
		out = append(out, k)
	}
	return out
}
