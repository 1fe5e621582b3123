package submitbookingrequest

import "booking-workers/internal/models"

type Input struct {
	Draft *models.BookingRequestDraft `json:"draft"`
}

// Output is the terminal result of one submission attempt. The job completes
// with it whether or not the request was accepted.
type Output struct {
	Submitted                 bool                  `json:"submitted"`
	ErrorKind                 string                `json:"errorKind,omitempty"`
	Message                   string                `json:"message,omitempty"`
	FieldErrors               map[string]string     `json:"fieldErrors,omitempty"`
	UnmetPasswordRequirements []string              `json:"unmetPasswordRequirements,omitempty"`
	Requester                 *Requester            `json:"requester,omitempty"`
	Bookings                  []models.BookingDates `json:"bookings,omitempty"`
}

// Requester is what the notification step needs to confirm the request.
type Requester struct {
	FullName    string `json:"fullName"`
	CompanyName string `json:"companyName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}
