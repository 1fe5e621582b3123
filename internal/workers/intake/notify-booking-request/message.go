package notifybookingrequest

import (
	"fmt"
	"html"
	"strings"

	"booking-workers/internal/models"
)

const emailSubject = "We've received your booking request"

func greeting(r *Requester) string {
	if name := strings.TrimSpace(r.FullName); name != "" {
		return "Hi " + name + ","
	}
	return "Hello,"
}

func textBody(r *Requester, bookings []models.BookingDates) string {
	var b strings.Builder
	b.WriteString(greeting(r))
	b.WriteString("\n\nThanks for your booking request")
	if r.CompanyName != "" {
		fmt.Fprintf(&b, " on behalf of %s", r.CompanyName)
	}
	b.WriteString(". We'll be in touch shortly about the following dates:\n\n")
	for _, d := range bookings {
		fmt.Fprintf(&b, "  - %s to %s\n", d.StartDate, d.EndDate)
	}
	return b.String()
}

func htmlBody(r *Requester, bookings []models.BookingDates) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(greeting(r)))
	b.WriteString("<p>Thanks for your booking request")
	if r.CompanyName != "" {
		fmt.Fprintf(&b, " on behalf of %s", html.EscapeString(r.CompanyName))
	}
	b.WriteString(". We'll be in touch shortly about the following dates:</p><ul>")
	for _, d := range bookings {
		fmt.Fprintf(&b, "<li>%s to %s</li>", html.EscapeString(d.StartDate), html.EscapeString(d.EndDate))
	}
	b.WriteString("</ul>")
	return b.String()
}

func smsBody(bookings []models.BookingDates) string {
	n := len(bookings)
	unit := "stays"
	if n == 1 {
		unit = "stay"
	}
	return fmt.Sprintf("Your booking request for %d %s has been received. Check your email for details.", n, unit)
}
