package shifts

import "time"

// Breakdown maps payment method to the USD sum collected through it.
type Breakdown map[string]float64

// Closure is an immutable snapshot of one reconciled shift.
type Closure struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	UserName   string    `json:"user_name,omitempty"`
	OpenedAt   time.Time `json:"opened_at"`
	ClosedAt   time.Time `json:"closed_at"`
	TotalUSD   float64   `json:"total_usd"`
	TotalLocal float64   `json:"total_local"`
	Breakdown  Breakdown `json:"breakdown"`
}
