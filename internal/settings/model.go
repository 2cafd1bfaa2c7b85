package settings

import "time"

// Settings is the property-wide configuration singleton: display name,
// the USD exchange rate applied to every conversion, and the global
// shift-open marker used by shift reconciliation.
type Settings struct {
	HotelName     string     `json:"hotel_name"`
	ExchangeRate  float64    `json:"exchange_rate"`
	ShiftOpenedAt *time.Time `json:"shift_opened_at,omitempty"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// UpdateInput carries the mutable fields.
type UpdateInput struct {
	HotelName    string
	ExchangeRate float64
}
