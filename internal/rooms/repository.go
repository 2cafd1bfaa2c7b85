package rooms

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/posada-hms/posada/internal/shared"
)

// Repository provides PostgreSQL backed room persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get loads one room.
func (r *Repository) Get(ctx context.Context, number int) (Room, error) {
	var room Room
	err := r.pool.QueryRow(ctx,
		`SELECT number, room_type, description, rate_usd, status FROM rooms WHERE number = $1`, number,
	).Scan(&room.Number, &room.RoomType, &room.Description, &room.RateUSD, &room.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return Room{}, shared.ErrNotFound
	}
	return room, err
}

// Board loads every room joined with its active stay summary, ordered by
// room number.
func (r *Repository) Board(ctx context.Context) ([]BoardRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.number, r.room_type, r.description, r.rate_usd, r.status,
		       s.id, s.guest_id, g.names, g.document, g.balance, s.entry_date, s.planned_exit_date
		FROM rooms r
		LEFT JOIN stays s ON s.room_number = r.number AND s.status = 'ACTIVE'
		LEFT JOIN guests g ON g.id = s.guest_id
		ORDER BY r.number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BoardRow
	for rows.Next() {
		var row BoardRow
		var occ OccupancySummary
		var stayID *int64
		var guestID *int64
		var names, document *string
		var balance *float64
		var entryDate, exitDate *time.Time
		if err := rows.Scan(&row.Number, &row.RoomType, &row.Description, &row.RateUSD, &row.Status,
			&stayID, &guestID, &names, &document, &balance, &entryDate, &exitDate); err != nil {
			return nil, err
		}
		if stayID != nil {
			occ.StayID = *stayID
			occ.GuestID = *guestID
			occ.GuestNames = *names
			occ.GuestDocument = *document
			occ.GuestBalance = *balance
			occ.EntryDate = *entryDate
			occ.PlannedExitDate = *exitDate
			row.Occupancy = &occ
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Update stores room type, description and rate.
func (r *Repository) Update(ctx context.Context, number int, in UpdateInput) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE rooms SET room_type = $2, description = $3, rate_usd = $4 WHERE number = $1`,
		number, in.RoomType, in.Description, in.RateUSD)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetStatus stores a new room status.
func (r *Repository) SetStatus(ctx context.Context, number int, status Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE rooms SET status = $2 WHERE number = $1`, number, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count returns the number of rooms, used by first-run seeding.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM rooms`).Scan(&n)
	return n, err
}

// Insert creates a room row, used by seeding.
func (r *Repository) Insert(ctx context.Context, room Room) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO rooms (number, room_type, description, rate_usd, status)
		 VALUES ($1, $2, $3, $4, $5) ON CONFLICT (number) DO NOTHING`,
		room.Number, room.RoomType, room.Description, room.RateUSD, room.Status)
	return err
}
