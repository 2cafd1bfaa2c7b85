package settings

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence for the settings singleton.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get loads the singleton row, inserting the defaults when missing.
func (r *Repository) Get(ctx context.Context) (Settings, error) {
	var s Settings
	err := r.pool.QueryRow(ctx,
		`SELECT hotel_name, exchange_rate, shift_opened_at, updated_at FROM settings WHERE id = 1`,
	).Scan(&s.HotelName, &s.ExchangeRate, &s.ShiftOpenedAt, &s.UpdatedAt)
	if err == pgx.ErrNoRows {
		if _, err := r.pool.Exec(ctx, `INSERT INTO settings (id) VALUES (1) ON CONFLICT (id) DO NOTHING`); err != nil {
			return Settings{}, err
		}
		err = r.pool.QueryRow(ctx,
			`SELECT hotel_name, exchange_rate, shift_opened_at, updated_at FROM settings WHERE id = 1`,
		).Scan(&s.HotelName, &s.ExchangeRate, &s.ShiftOpenedAt, &s.UpdatedAt)
	}
	if err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Update stores name and exchange rate.
func (r *Repository) Update(ctx context.Context, in UpdateInput) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE settings SET hotel_name = $1, exchange_rate = $2, updated_at = NOW() WHERE id = 1`,
		in.HotelName, in.ExchangeRate)
	return err
}

// ShiftOpenedAt returns the current shift marker, nil when no shift is open.
func (r *Repository) ShiftOpenedAt(ctx context.Context) (*time.Time, error) {
	var at *time.Time
	if err := r.pool.QueryRow(ctx, `SELECT shift_opened_at FROM settings WHERE id = 1`).Scan(&at); err != nil {
		return nil, err
	}
	return at, nil
}

// SetShiftOpenedAt stores the shift marker.
func (r *Repository) SetShiftOpenedAt(ctx context.Context, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE settings SET shift_opened_at = $1, updated_at = NOW() WHERE id = 1`, at)
	return err
}
