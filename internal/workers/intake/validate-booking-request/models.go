package validatebookingrequest

import "booking-workers/internal/models"

type Input struct {
	Draft *models.BookingRequestDraft `json:"draft"`
}

// Output is only produced for a draft that passed every local check.
type Output struct {
	IsValid         bool   `json:"isValid"`
	NormalizedEmail string `json:"normalizedEmail"`
	BookingCount    int    `json:"bookingCount"`
}
