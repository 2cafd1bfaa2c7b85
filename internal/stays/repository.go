package stays

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/posada-hms/posada/internal/platform/db"
	"github.com/posada-hms/posada/internal/shared"
)

// Ledger values written by check-in. Payments use the billing package's
// richer method set; the charge row only marks kind and origin.
const (
	kindCharge   = "CHARGE"
	methodCharge = "CHARGE"
)

const stayColumns = `id, guest_id, room_number, entry_date, planned_exit_date, status, notes, created_at`

// Repository provides PostgreSQL backed stay persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanStay(row pgx.Row) (Stay, error) {
	var s Stay
	err := row.Scan(&s.ID, &s.GuestID, &s.RoomNumber, &s.EntryDate, &s.PlannedExitDate, &s.Status, &s.Notes, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Stay{}, shared.ErrNotFound
	}
	return s, err
}

// ChargeRecord is the ledger entry check-in writes for the base charge.
type ChargeRecord struct {
	AmountUSD    float64
	ExchangeRate float64
	AmountLocal  float64
	RecordedAt   time.Time
	UserID       int64
	Description  string
}

// CommitCheckIn performs the check-in commit: insert the stay, flip the room
// to OCCUPIED, attach companions and write the base CHARGE row, all in one
// transaction. The partial unique index on active stays turns a concurrent
// double check-in into ErrDuplicate.
func (r *Repository) CommitCheckIn(ctx context.Context, in CheckInInput, entry, exit time.Time, charge ChargeRecord) (Stay, error) {
	var stay Stay
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		stay, err = r.checkIn(ctx, tx, in, entry, exit, charge)
		return err
	})
	if err != nil {
		return Stay{}, err
	}
	return stay, nil
}

func (r *Repository) checkIn(ctx context.Context, tx pgx.Tx, in CheckInInput, entry, exit time.Time, charge ChargeRecord) (Stay, error) {
	row := tx.QueryRow(ctx,
		`INSERT INTO stays (guest_id, room_number, entry_date, planned_exit_date, status, notes)
		 VALUES ($1, $2, $3, $4, 'ACTIVE', $5)
		 RETURNING `+stayColumns,
		in.GuestID, in.RoomNumber, entry, exit, in.Notes)
	stay, err := scanStay(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Stay{}, shared.ErrDuplicate
		}
		return Stay{}, err
	}

	if _, err := tx.Exec(ctx, `UPDATE rooms SET status = 'OCCUPIED' WHERE number = $1`, in.RoomNumber); err != nil {
		return Stay{}, err
	}

	for _, companionID := range in.CompanionIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO stay_companions (stay_id, guest_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			stay.ID, companionID); err != nil {
			return Stay{}, err
		}
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO payment_transactions (stay_id, amount_usd, exchange_rate, amount_local, method, kind, recorded_at, user_id, reference, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, '', $9)`,
		stay.ID, charge.AmountUSD, charge.ExchangeRate, charge.AmountLocal, methodCharge, kindCharge, charge.RecordedAt, charge.UserID, charge.Description); err != nil {
		return Stay{}, err
	}

	return stay, nil
}

// RoomStatus reads the room status inside or outside a transaction.
func (r *Repository) RoomStatus(ctx context.Context, roomNumber int) (string, float64, error) {
	var status string
	var rate float64
	err := r.pool.QueryRow(ctx, `SELECT status, rate_usd FROM rooms WHERE number = $1`, roomNumber).Scan(&status, &rate)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", 0, shared.ErrNotFound
	}
	return status, rate, err
}

const activeStayQuery = `
	SELECT s.id, s.guest_id, s.room_number, s.entry_date, s.planned_exit_date, s.status, s.notes, s.created_at,
	       g.names, g.document, g.balance, r.rate_usd, r.room_type
	FROM stays s
	JOIN guests g ON g.id = s.guest_id
	JOIN rooms r ON r.number = s.room_number`

func scanActiveStay(row pgx.Row) (ActiveStay, error) {
	var a ActiveStay
	err := row.Scan(&a.ID, &a.GuestID, &a.RoomNumber, &a.EntryDate, &a.PlannedExitDate, &a.Status, &a.Notes, &a.CreatedAt,
		&a.GuestNames, &a.GuestDocument, &a.GuestBalance, &a.RoomRateUSD, &a.RoomType)
	if errors.Is(err, pgx.ErrNoRows) {
		return ActiveStay{}, shared.ErrNotFound
	}
	return a, err
}

// ActiveByRoom loads the active stay for a room with guest and room context.
func (r *Repository) ActiveByRoom(ctx context.Context, roomNumber int) (ActiveStay, error) {
	return scanActiveStay(r.pool.QueryRow(ctx,
		activeStayQuery+` WHERE s.room_number = $1 AND s.status = 'ACTIVE'`, roomNumber))
}

// GetByID loads one stay with guest and room context.
func (r *Repository) GetByID(ctx context.Context, id int64) (ActiveStay, error) {
	return scanActiveStay(r.pool.QueryRow(ctx, activeStayQuery+` WHERE s.id = $1`, id))
}

// Companions lists companion guest ids for a stay.
func (r *Repository) Companions(ctx context.Context, stayID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT guest_id FROM stay_companions WHERE stay_id = $1 ORDER BY id`, stayID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Overdue lists active stays whose planned exit is on or before the given day.
func (r *Repository) Overdue(ctx context.Context, asOf time.Time) ([]ActiveStay, error) {
	rows, err := r.pool.Query(ctx,
		activeStayQuery+` WHERE s.status = 'ACTIVE' AND s.planned_exit_date <= $1 ORDER BY s.planned_exit_date`, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ActiveStay
	for rows.Next() {
		a, err := scanActiveStay(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
