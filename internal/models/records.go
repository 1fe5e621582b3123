package models

import "time"

// Booking is a stay shown on the client dashboard.
type Booking struct {
	ID            string    `json:"id"`
	ClientID      string    `json:"clientId"`
	PropertyTitle string    `json:"propertyTitle"`
	Address       string    `json:"address"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	Status        string    `json:"status"`
	TeamSize      int       `json:"teamSize"`
}

// Property is a listing shown on the partner dashboard.
type Property struct {
	ID            string  `json:"id"`
	PartnerID     string  `json:"partnerId"`
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	PropertyType  string  `json:"propertyType"`
	ParkingType   string  `json:"parkingType"`
	Bedrooms      int     `json:"bedrooms"`
	PricePerNight float64 `json:"pricePerNight"`
}
