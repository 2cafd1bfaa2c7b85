package rooms

import "time"

// Status enumerates room states on the board.
type Status string

const (
	StatusFree        Status = "FREE"
	StatusOccupied    Status = "OCCUPIED"
	StatusReserved    Status = "RESERVED"
	StatusCleaning    Status = "CLEANING"
	StatusMaintenance Status = "MAINTENANCE"
)

// manualCycle lists the statuses reception may set by hand from each state.
// OCCUPIED is absent on both sides: only check-in and checkout move a room
// into or out of occupancy.
var manualCycle = map[Status][]Status{
	StatusFree:        {StatusFree, StatusReserved, StatusCleaning, StatusMaintenance},
	StatusReserved:    {StatusFree, StatusReserved, StatusCleaning, StatusMaintenance},
	StatusCleaning:    {StatusFree, StatusCleaning, StatusMaintenance},
	StatusMaintenance: {StatusFree, StatusMaintenance},
}

// CanTransition reports whether reception may manually move a room from one
// status to another.
func CanTransition(from, to Status) bool {
	for _, s := range manualCycle[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusFree, StatusOccupied, StatusReserved, StatusCleaning, StatusMaintenance:
		return true
	}
	return false
}

// Room is one rentable unit.
type Room struct {
	Number      int     `json:"number"`
	RoomType    string  `json:"room_type"`
	Description string  `json:"description"`
	RateUSD     float64 `json:"rate_usd"`
	Status      Status  `json:"status"`
}

// OccupancySummary carries the active-stay fields the board shows for an
// occupied room.
type OccupancySummary struct {
	StayID          int64     `json:"stay_id"`
	GuestID         int64     `json:"guest_id"`
	GuestNames      string    `json:"guest_names"`
	GuestDocument   string    `json:"guest_document"`
	GuestBalance    float64   `json:"guest_balance"`
	EntryDate       time.Time `json:"entry_date"`
	PlannedExitDate time.Time `json:"planned_exit_date"`
}

// BoardRow is one room on the status board with derived alert flags.
type BoardRow struct {
	Room
	Occupancy      *OccupancySummary `json:"occupancy,omitempty"`
	HasDebt        bool              `json:"has_debt"`
	Overdue        bool              `json:"overdue"`
	LeavesTomorrow bool              `json:"leaves_tomorrow"`
}

// UpdateInput carries the editable room attributes.
type UpdateInput struct {
	RoomType    string
	Description string
	RateUSD     float64
}
