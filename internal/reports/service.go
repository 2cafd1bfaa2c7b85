// Package reports builds read-only operational summaries.
package reports

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/posada-hms/posada/internal/stays"
)

// MethodTotal aggregates one payment method over a day.
type MethodTotal struct {
	Method     string  `json:"method"`
	TotalUSD   float64 `json:"total_usd"`
	TotalLocal float64 `json:"total_local"`
	Count      int     `json:"count"`
}

// DaySummary is the operations digest of one calendar day.
type DaySummary struct {
	Date      string        `json:"date"`
	Payments  []MethodTotal `json:"payments"`
	CheckIns  int           `json:"check_ins"`
	CheckOuts int           `json:"check_outs"`
}

// Repository reads report aggregates straight from PostgreSQL. Reports have
// no business rules of their own, so there is no service layer above it.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// DaySummary aggregates payments by method plus check-in and checkout counts
// for one day. Checkouts count closed stays whose stamped exit date is that
// day.
func (r *Repository) DaySummary(ctx context.Context, date string) (DaySummary, error) {
	day, err := stays.ParseDate(date)
	if err != nil {
		return DaySummary{}, err
	}
	next := day.AddDate(0, 0, 1)

	out := DaySummary{Date: day.Format(stays.DateLayout)}

	rows, err := r.pool.Query(ctx,
		`SELECT method, SUM(amount_usd), SUM(amount_local), COUNT(*)
		 FROM payment_transactions
		 WHERE kind = 'PAYMENT' AND recorded_at >= $1 AND recorded_at < $2
		 GROUP BY method
		 ORDER BY method`, day, next)
	if err != nil {
		return DaySummary{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var m MethodTotal
		if err := rows.Scan(&m.Method, &m.TotalUSD, &m.TotalLocal, &m.Count); err != nil {
			return DaySummary{}, err
		}
		out.Payments = append(out.Payments, m)
	}
	if err := rows.Err(); err != nil {
		return DaySummary{}, err
	}

	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM stays WHERE entry_date = $1`, day).Scan(&out.CheckIns); err != nil {
		return DaySummary{}, err
	}
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM stays WHERE planned_exit_date = $1 AND status = 'CLOSED'`, day).Scan(&out.CheckOuts); err != nil {
		return DaySummary{}, err
	}
	return out, nil
}
