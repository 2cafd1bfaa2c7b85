package billing

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/posada-hms/posada/internal/platform/db"
	"github.com/posada-hms/posada/internal/shared"
)

// Repository provides PostgreSQL backed ledger persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const txColumns = `id, stay_id, amount_usd, exchange_rate, amount_local, method, kind, recorded_at, user_id, reference, description`

func scanTx(row pgx.Row) (Transaction, error) {
	var t Transaction
	var userID *int64
	err := row.Scan(&t.ID, &t.StayID, &t.AmountUSD, &t.ExchangeRate, &t.AmountLocal, &t.Method, &t.Kind, &t.RecordedAt, &userID, &t.Reference, &t.Description)
	if userID != nil {
		t.UserID = *userID
	}
	return t, err
}

// ListByStay returns every ledger entry for a stay in recording order.
func (r *Repository) ListByStay(ctx context.Context, stayID int64) ([]Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+txColumns+` FROM payment_transactions WHERE stay_id = $1 ORDER BY recorded_at, id`, stayID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		t, err := scanTx(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// TotalPaidUSD sums the PAYMENT entries of a stay. The sum is the
// authoritative amount-already-paid input to the due computation.
func (r *Repository) TotalPaidUSD(ctx context.Context, stayID int64) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount_usd), 0) FROM payment_transactions WHERE stay_id = $1 AND kind = 'PAYMENT'`, stayID,
	).Scan(&total)
	return total, err
}

func insertPayments(ctx context.Context, tx pgx.Tx, payments []Transaction) error {
	for _, p := range payments {
		if _, err := tx.Exec(ctx,
			`INSERT INTO payment_transactions (stay_id, amount_usd, exchange_rate, amount_local, method, kind, recorded_at, user_id, reference, description)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			p.StayID, p.AmountUSD, p.ExchangeRate, p.AmountLocal, p.Method, p.Kind, p.RecordedAt, p.UserID, p.Reference, p.Description); err != nil {
			return err
		}
	}
	return nil
}

// CommitPartialPayment persists payment rows against an open stay.
func (r *Repository) CommitPartialPayment(ctx context.Context, payments []Transaction) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return insertPayments(ctx, tx, payments)
	})
}

// CommitCheckout persists the checkout as one transaction: payment rows,
// stay closed with the exit date stamped to the close day, room to CLEANING
// and the guest balance rewritten. Closing the stay guards on ACTIVE so a
// raced duplicate commit fails instead of double-crediting.
func (r *Repository) CommitCheckout(ctx context.Context, stayID int64, roomNumber int, guestID int64, payments []Transaction, newBalance float64, closedOn time.Time) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := insertPayments(ctx, tx, payments); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx,
			`UPDATE stays SET status = 'CLOSED', planned_exit_date = $2 WHERE id = $1 AND status = 'ACTIVE'`,
			stayID, closedOn)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrPrecondition
		}
		if _, err := tx.Exec(ctx, `UPDATE rooms SET status = 'CLEANING' WHERE number = $1`, roomNumber); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE guests SET balance = $2 WHERE id = $1`, guestID, newBalance); err != nil {
			return err
		}
		return nil
	})
}
