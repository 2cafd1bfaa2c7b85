package guests

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/posada-hms/posada/internal/shared"
)

const guestColumns = `id, document, names, phone, birth_date, nationality, profession, vehicle, balance, created_at`

// Repository provides PostgreSQL backed guest persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanGuest(row pgx.Row) (Guest, error) {
	var g Guest
	err := row.Scan(&g.ID, &g.Document, &g.Names, &g.Phone, &g.BirthDate, &g.Nationality, &g.Profession, &g.Vehicle, &g.Balance, &g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Guest{}, shared.ErrNotFound
	}
	return g, err
}

// Create inserts a guest, translating the document unique violation.
func (r *Repository) Create(ctx context.Context, in Input) (Guest, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO guests (document, names, phone, birth_date, nationality, profession, vehicle)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+guestColumns,
		in.Document, in.Names, in.Phone, in.BirthDate, in.Nationality, in.Profession, in.Vehicle)
	g, err := scanGuest(row)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return Guest{}, shared.ErrDuplicate
	}
	return g, err
}

// Update rewrites the guest profile fields.
func (r *Repository) Update(ctx context.Context, id int64, in Input) (Guest, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE guests SET document = $2, names = $3, phone = $4, birth_date = $5, nationality = $6, profession = $7, vehicle = $8
		 WHERE id = $1
		 RETURNING `+guestColumns,
		id, in.Document, in.Names, in.Phone, in.BirthDate, in.Nationality, in.Profession, in.Vehicle)
	g, err := scanGuest(row)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return Guest{}, shared.ErrDuplicate
	}
	return g, err
}

// GetByID loads one guest.
func (r *Repository) GetByID(ctx context.Context, id int64) (Guest, error) {
	return scanGuest(r.pool.QueryRow(ctx, `SELECT `+guestColumns+` FROM guests WHERE id = $1`, id))
}

// GetByDocument loads a guest by identity document.
func (r *Repository) GetByDocument(ctx context.Context, document string) (Guest, error) {
	return scanGuest(r.pool.QueryRow(ctx, `SELECT `+guestColumns+` FROM guests WHERE document = $1`, document))
}

// Search matches guests by document prefix or name fragment.
func (r *Repository) Search(ctx context.Context, query string, limit int) ([]Guest, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+guestColumns+` FROM guests
		 WHERE document ILIKE $1 || '%' OR names ILIKE '%' || $1 || '%'
		 ORDER BY names
		 LIMIT $2`, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Guest
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// SetBalance stores a new credit balance. Billing adjusts balances inside
// its own transaction; this entry point exists for admin corrections.
func (r *Repository) SetBalance(ctx context.Context, id int64, balance float64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE guests SET balance = $2 WHERE id = $1`, id, balance)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
