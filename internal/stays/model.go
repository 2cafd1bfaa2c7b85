package stays

import "time"

// StayStatus enumerates stay lifecycle states.
type StayStatus string

const (
	StatusActive StayStatus = "ACTIVE"
	StatusClosed StayStatus = "CLOSED"
)

// Stay is one occupancy of a room by a primary guest.
type Stay struct {
	ID              int64      `json:"id"`
	GuestID         int64      `json:"guest_id"`
	RoomNumber      int        `json:"room_number"`
	EntryDate       time.Time  `json:"entry_date"`
	PlannedExitDate time.Time  `json:"planned_exit_date"`
	Status          StayStatus `json:"status"`
	Notes           string     `json:"notes"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ActiveStay joins a stay with the fields of its primary guest that checkout
// and the board need.
type ActiveStay struct {
	Stay
	GuestNames    string  `json:"guest_names"`
	GuestDocument string  `json:"guest_document"`
	GuestBalance  float64 `json:"guest_balance"`
	RoomRateUSD   float64 `json:"room_rate_usd"`
	RoomType      string  `json:"room_type"`
}

// CheckInInput carries everything the check-in operation needs.
type CheckInInput struct {
	GuestID         int64
	RoomNumber      int
	EntryDate       string
	PlannedExitDate string
	Notes           string
	CompanionIDs    []int64
}
