package filter

import (
	"time"

	"booking-workers/internal/models"
)

// ClientBookings is the client dashboard engine. Dates are compared in loc.
func ClientBookings(loc *time.Location) *Engine[models.Booking] {
	title := func(b models.Booking) string { return b.PropertyTitle }
	address := func(b models.Booking) string { return b.Address }

	return New(Mapping[models.Booking]{
		Search:    Substring(title, address),
		Postcode:  Substring(address),
		StartDate: SameDay(func(b models.Booking) time.Time { return b.StartDate }, loc),
		EndDate:   SameDay(func(b models.Booking) time.Time { return b.EndDate }, loc),
	})
}

// PartnerProperties is the partner dashboard engine.
func PartnerProperties() *Engine[models.Property] {
	name := func(p models.Property) string { return p.Name }
	address := func(p models.Property) string { return p.Address }

	return New(Mapping[models.Property]{
		Search:       Substring(name, address),
		Postcode:     Substring(address),
		PropertyType: Exact(func(p models.Property) string { return p.PropertyType }),
		ParkingType:  Exact(func(p models.Property) string { return p.ParkingType }),
	})
}
