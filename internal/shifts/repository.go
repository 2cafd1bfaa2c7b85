package shifts

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PaymentRow is the slice of a ledger entry shift reconciliation needs.
type PaymentRow struct {
	Method      string
	AmountUSD   float64
	AmountLocal float64
}

// Repository provides PostgreSQL backed shift persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// PaymentsSince lists PAYMENT ledger rows a user recorded at or after the
// given instant. The inclusive comparison means a payment stamped exactly at
// the boundary belongs to the closing shift.
func (r *Repository) PaymentsSince(ctx context.Context, userID int64, since time.Time) ([]PaymentRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT method, amount_usd, amount_local FROM payment_transactions
		 WHERE kind = 'PAYMENT' AND user_id = $1 AND recorded_at >= $2
		 ORDER BY recorded_at`, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PaymentRow
	for rows.Next() {
		var p PaymentRow
		if err := rows.Scan(&p.Method, &p.AmountUSD, &p.AmountLocal); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// InsertClosure stores the shift snapshot.
func (r *Repository) InsertClosure(ctx context.Context, c Closure) (Closure, error) {
	breakdown, err := json.Marshal(c.Breakdown)
	if err != nil {
		return Closure{}, err
	}
	err = r.pool.QueryRow(ctx,
		`INSERT INTO shift_closures (user_id, opened_at, closed_at, total_usd, total_local, breakdown)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		c.UserID, c.OpenedAt, c.ClosedAt, c.TotalUSD, c.TotalLocal, breakdown).Scan(&c.ID)
	return c, err
}

// History lists the most recent closures with the closing user's name.
func (r *Repository) History(ctx context.Context, limit int) ([]Closure, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.user_id, u.name, c.opened_at, c.closed_at, c.total_usd, c.total_local, c.breakdown
		 FROM shift_closures c
		 JOIN users u ON u.id = c.user_id
		 ORDER BY c.closed_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Closure
	for rows.Next() {
		var c Closure
		var breakdown []byte
		if err := rows.Scan(&c.ID, &c.UserID, &c.UserName, &c.OpenedAt, &c.ClosedAt, &c.TotalUSD, &c.TotalLocal, &breakdown); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(breakdown, &c.Breakdown); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
