package repository

import (
	"context"
	"database/sql"

	"github.com/ayoub-kd/costume-rental/internal/booking"
	"github.com/ayoub-kd/costume-rental/internal/model"
)

// RentalRepo provides persistence for rentals. Reads join the costume
// (and, for admin views, the renting user) so handlers can build their
// responses from a single query. Writes that participate in the booking
// transaction take an explicit *sql.Tx.
type RentalRepo struct{ db *sql.DB }

func NewRentalRepo(db *sql.DB) *RentalRepo { return &RentalRepo{db: db} }

// DB exposes the underlying handle for transaction management.
func (r *RentalRepo) DB() *sql.DB { return r.db }

// Detail is a rental joined with its costume and, when loaded through an
// admin query, the renting user.
type Detail struct {
	Rental             model.Rental
	CostumeName        string
	CostumeDescription *string
	CostumeImageURL    *string
	CostumeImagePath   *string
	UserName           string
	UserEmail          string
}

// CreateTx inserts a pending rental inside the booking transaction and
// populates the generated ID and timestamps.
func (r *RentalRepo) CreateTx(ctx context.Context, tx *sql.Tx, rental *model.Rental) error {
	const q = `INSERT INTO rentals (user_id, costume_id, start_date, end_date, total_price_cents, status, notes)
		VALUES (?,?,?,?,?,?,?)`
	res, err := tx.ExecContext(ctx, q,
		rental.UserID, rental.CostumeID, rental.StartDate, rental.EndDate,
		rental.TotalPriceCents, rental.Status, rental.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rental.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM rentals WHERE id=?`
	return tx.QueryRowContext(ctx, sel, rental.ID).Scan(&rental.CreatedAt, &rental.UpdatedAt)
}

const blockingRangesQ = `SELECT start_date, end_date FROM rentals
	WHERE costume_id=? AND status IN ('pending','confirmed')`

// BlockingRanges returns the date ranges of pending/confirmed rentals on
// a costume. Used by the public available-dates report.
func (r *RentalRepo) BlockingRanges(ctx context.Context, costumeID uint64) ([]booking.Range, error) {
	rows, err := r.db.QueryContext(ctx, blockingRangesQ, costumeID)
	if err != nil {
		return nil, err
	}
	return scanRanges(rows)
}

// BlockingRangesTx is BlockingRanges inside the booking transaction. The
// FOR UPDATE lock serializes concurrent bookings of the same costume so
// the check-then-insert cannot race.
func (r *RentalRepo) BlockingRangesTx(ctx context.Context, tx *sql.Tx, costumeID uint64) ([]booking.Range, error) {
	rows, err := tx.QueryContext(ctx, blockingRangesQ+" FOR UPDATE", costumeID)
	if err != nil {
		return nil, err
	}
	return scanRanges(rows)
}

func scanRanges(rows *sql.Rows) ([]booking.Range, error) {
	defer rows.Close()
	var out []booking.Range
	for rows.Next() {
		var rg booking.Range
		if err := rows.Scan(&rg.Start, &rg.End); err != nil {
			return nil, err
		}
		out = append(out, rg)
	}
	return out, rows.Err()
}

const detailCols = `r.id, r.user_id, r.costume_id, r.start_date, r.end_date,
	r.total_price_cents, r.status, r.notes, r.created_at, r.updated_at,
	c.name, c.description, c.image_url, c.image_path`

func scanDetail(row interface{ Scan(...any) error }, withUser bool) (Detail, error) {
	var (
		d         Detail
		notes     sql.NullString
		desc      sql.NullString
		imageURL  sql.NullString
		imagePath sql.NullString
	)
	dest := []any{
		&d.Rental.ID, &d.Rental.UserID, &d.Rental.CostumeID, &d.Rental.StartDate, &d.Rental.EndDate,
		&d.Rental.TotalPriceCents, &d.Rental.Status, &notes, &d.Rental.CreatedAt, &d.Rental.UpdatedAt,
		&d.CostumeName, &desc, &imageURL, &imagePath,
	}
	if withUser {
		dest = append(dest, &d.UserName, &d.UserEmail)
	}
	if err := row.Scan(dest...); err != nil {
		return d, err
	}
	d.Rental.Notes = nullStr(notes)
	d.CostumeDescription = nullStr(desc)
	d.CostumeImageURL = nullStr(imageURL)
	d.CostumeImagePath = nullStr(imagePath)
	return d, nil
}

// ListByUser returns all rentals of a user with costume info, newest
// first.
func (r *RentalRepo) ListByUser(ctx context.Context, userID uint64) ([]Detail, error) {
	const q = `SELECT ` + detailCols + `
		FROM rentals r JOIN costumes c ON c.id = r.costume_id
		WHERE r.user_id=? ORDER BY r.created_at DESC, r.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Detail, 0)
	for rows.Next() {
		d, err := scanDetail(rows, false)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetByIDForUser returns a single rental scoped to its owning user.
func (r *RentalRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (Detail, error) {
	const q = `SELECT ` + detailCols + `
		FROM rentals r JOIN costumes c ON c.id = r.costume_id
		WHERE r.id=? AND r.user_id=? LIMIT 1`
	d, err := scanDetail(r.db.QueryRowContext(ctx, q, id, userID), false)
	if err == sql.ErrNoRows {
		return d, ErrNotFound
	}
	return d, err
}

// ListForAdmin returns all rentals on costumes owned by the admin, with
// costume and user info, newest first.
func (r *RentalRepo) ListForAdmin(ctx context.Context, adminID uint64) ([]Detail, error) {
	const q = `SELECT ` + detailCols + `, u.name, u.email
		FROM rentals r
		JOIN costumes c ON c.id = r.costume_id
		JOIN users u ON u.id = r.user_id
		WHERE c.admin_id=? ORDER BY r.created_at DESC, r.id DESC`
	rows, err := r.db.QueryContext(ctx, q, adminID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Detail, 0)
	for rows.Next() {
		d, err := scanDetail(rows, true)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetByIDForAdmin returns a rental only when its costume belongs to the
// admin; anything else is ErrNotFound.
func (r *RentalRepo) GetByIDForAdmin(ctx context.Context, id, adminID uint64) (Detail, error) {
	const q = `SELECT ` + detailCols + `, u.name, u.email
		FROM rentals r
		JOIN costumes c ON c.id = r.costume_id
		JOIN users u ON u.id = r.user_id
		WHERE r.id=? AND c.admin_id=? LIMIT 1`
	d, err := scanDetail(r.db.QueryRowContext(ctx, q, id, adminID), true)
	if err == sql.ErrNoRows {
		return d, ErrNotFound
	}
	return d, err
}

// GetOwnedByUser loads the bare rental row scoped to its owning user,
// used by the cancel endpoint before mutating status.
func (r *RentalRepo) GetOwnedByUser(ctx context.Context, id, userID uint64) (model.Rental, error) {
	const q = `SELECT id, user_id, costume_id, start_date, end_date, total_price_cents, status, notes, created_at, updated_at
		FROM rentals WHERE id=? AND user_id=? LIMIT 1`
	var (
		m     model.Rental
		notes sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, id, userID).Scan(
		&m.ID, &m.UserID, &m.CostumeID, &m.StartDate, &m.EndDate,
		&m.TotalPriceCents, &m.Status, &notes, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return m, ErrNotFound
	}
	if err != nil {
		return m, err
	}
	m.Notes = nullStr(notes)
	return m, nil
}

// UpdateStatus sets the rental status. Callers validate the transition
// before writing.
func (r *RentalRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE rentals SET status=? WHERE id=?", status, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var exists uint64
		if err := r.db.QueryRowContext(ctx, "SELECT id FROM rentals WHERE id=?", id).Scan(&exists); err == sql.ErrNoRows {
			return ErrNotFound
		}
	}
	return nil
}
