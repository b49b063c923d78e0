package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/ayoub-kd/costume-rental/internal/model"
)

// CostumeRepo provides CRUD over the `costumes` table. Admin-facing
// queries are always scoped by admin_id so one admin can never see or
// touch another admin's costumes; public queries are scoped to
// published=true.
type CostumeRepo struct{ db *sql.DB }

func NewCostumeRepo(db *sql.DB) *CostumeRepo { return &CostumeRepo{db: db} }

// DB exposes the underlying handle for transaction management.
func (r *CostumeRepo) DB() *sql.DB { return r.db }

const costumeCols = `id, admin_id, name, description, category, size, price_per_day_cents,
	availability, published, image_url, image_path, whatsapp_link,
	availability_dates, available_from, available_until, created_at, updated_at`

// CatalogFilter narrows the public costume listing. Nil fields are
// ignored; Search matches a substring of the name.
type CatalogFilter struct {
	Category  *string
	Size      *string
	Available *bool
	Search    *string
}

func scanCostume(row interface{ Scan(...any) error }) (model.Costume, error) {
	var (
		c           model.Costume
		desc        sql.NullString
		category    sql.NullString
		size        sql.NullString
		imageURL    sql.NullString
		imagePath   sql.NullString
		whatsapp    sql.NullString
		datesJSON   sql.NullString
		availFrom   sql.NullTime
		availUntil  sql.NullTime
	)
	err := row.Scan(&c.ID, &c.AdminID, &c.Name, &desc, &category, &size, &c.PricePerDayCents,
		&c.Availability, &c.Published, &imageURL, &imagePath, &whatsapp,
		&datesJSON, &availFrom, &availUntil, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return c, err
	}
	c.Description = nullStr(desc)
	c.Category = nullStr(category)
	c.Size = nullStr(size)
	c.ImageURL = nullStr(imageURL)
	c.ImagePath = nullStr(imagePath)
	c.WhatsappLink = nullStr(whatsapp)
	if datesJSON.Valid && datesJSON.String != "" && datesJSON.String != "null" {
		if err := json.Unmarshal([]byte(datesJSON.String), &c.AvailabilityDates); err != nil {
			return c, err
		}
	}
	if availFrom.Valid {
		t := availFrom.Time
		c.AvailableFrom = &t
	}
	if availUntil.Valid {
		t := availUntil.Time
		c.AvailableUntil = &t
	}
	return c, nil
}

func nullStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func datesArg(dates []string) (any, error) {
	if dates == nil {
		return nil, nil
	}
	b, err := json.Marshal(dates)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Create inserts a costume and populates its ID and timestamps.
func (r *CostumeRepo) Create(ctx context.Context, c *model.Costume) error {
	dates, err := datesArg(c.AvailabilityDates)
	if err != nil {
		return err
	}
	const q = `INSERT INTO costumes
		(admin_id, name, description, category, size, price_per_day_cents,
		 availability, published, image_url, image_path, whatsapp_link,
		 availability_dates, available_from, available_until)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		c.AdminID, c.Name, c.Description, c.Category, c.Size, c.PricePerDayCents,
		c.Availability, c.Published, c.ImageURL, c.ImagePath, c.WhatsappLink,
		dates, c.AvailableFrom, c.AvailableUntil)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	// Read the row back for DB-generated timestamps.
	fresh, err := r.getBy(ctx, "id=?", c.ID)
	if err != nil {
		return err
	}
	*c = fresh
	return nil
}

// Update rewrites every mutable column of the costume. Handlers merge
// partial request fields into a loaded record before calling it, so the
// full-row write is safe.
func (r *CostumeRepo) Update(ctx context.Context, c *model.Costume) error {
	dates, err := datesArg(c.AvailabilityDates)
	if err != nil {
		return err
	}
	const q = `UPDATE costumes SET
		name=?, description=?, category=?, size=?, price_per_day_cents=?,
		availability=?, published=?, image_url=?, image_path=?, whatsapp_link=?,
		availability_dates=?, available_from=?, available_until=?
		WHERE id=? AND admin_id=?`
	res, err := r.db.ExecContext(ctx, q,
		c.Name, c.Description, c.Category, c.Size, c.PricePerDayCents,
		c.Availability, c.Published, c.ImageURL, c.ImagePath, c.WhatsappLink,
		dates, c.AvailableFrom, c.AvailableUntil,
		c.ID, c.AdminID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Row may exist with identical values; distinguish via lookup.
		if _, err := r.GetByIDAndAdmin(ctx, c.ID, c.AdminID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a costume owned by the given admin.
func (r *CostumeRepo) Delete(ctx context.Context, id, adminID uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM costumes WHERE id=? AND admin_id=?", id, adminID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPublished flips the published flag of an owned costume.
func (r *CostumeRepo) SetPublished(ctx context.Context, id, adminID uint64, published bool) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE costumes SET published=? WHERE id=? AND admin_id=?", published, id, adminID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if _, err := r.GetByIDAndAdmin(ctx, id, adminID); err != nil {
			return err
		}
	}
	return nil
}

func (r *CostumeRepo) getBy(ctx context.Context, cond string, args ...any) (model.Costume, error) {
	c, err := scanCostume(r.db.QueryRowContext(ctx,
		"SELECT "+costumeCols+" FROM costumes WHERE "+cond+" LIMIT 1", args...))
	if err == sql.ErrNoRows {
		return c, ErrNotFound
	}
	return c, err
}

// GetPublishedByID fetches a published costume, as seen by the public API.
func (r *CostumeRepo) GetPublishedByID(ctx context.Context, id uint64) (model.Costume, error) {
	return r.getBy(ctx, "id=? AND published=1", id)
}

// GetByIDAndAdmin fetches a costume scoped to its owner. A costume owned
// by another admin yields ErrNotFound, never the record.
func (r *CostumeRepo) GetByIDAndAdmin(ctx context.Context, id, adminID uint64) (model.Costume, error) {
	return r.getBy(ctx, "id=? AND admin_id=?", id, adminID)
}

// ListPublished returns published costumes matching the filter.
func (r *CostumeRepo) ListPublished(ctx context.Context, f CatalogFilter) ([]model.Costume, error) {
	q := "SELECT " + costumeCols + " FROM costumes WHERE published=1"
	args := []any{}
	if f.Category != nil {
		q += " AND category=?"
		args = append(args, *f.Category)
	}
	if f.Size != nil {
		q += " AND size=?"
		args = append(args, *f.Size)
	}
	if f.Available != nil {
		q += " AND availability=?"
		args = append(args, *f.Available)
	}
	if f.Search != nil {
		q += " AND name LIKE ?"
		args = append(args, "%"+*f.Search+"%")
	}
	q += " ORDER BY id"
	return r.list(ctx, q, args...)
}

// ListByAdmin returns all costumes of one admin, newest first.
func (r *CostumeRepo) ListByAdmin(ctx context.Context, adminID uint64) ([]model.Costume, error) {
	return r.list(ctx,
		"SELECT "+costumeCols+" FROM costumes WHERE admin_id=? ORDER BY created_at DESC, id DESC", adminID)
}

// ListPublishedAvailable returns the catalog rows for the PDF listing,
// ordered by category then name.
func (r *CostumeRepo) ListPublishedAvailable(ctx context.Context) ([]model.Costume, error) {
	return r.list(ctx,
		"SELECT "+costumeCols+" FROM costumes WHERE published=1 AND availability=1 ORDER BY category, name")
}

func (r *CostumeRepo) list(ctx context.Context, q string, args ...any) ([]model.Costume, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Costume, 0)
	for rows.Next() {
		c, err := scanCostume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Categories returns the distinct non-null categories of published
// costumes.
func (r *CostumeRepo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT DISTINCT category FROM costumes WHERE published=1 AND category IS NOT NULL ORDER BY category")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var cat string
		if err := rows.Scan(&cat); err != nil {
			return nil, err
		}
		if strings.TrimSpace(cat) != "" {
			out = append(out, cat)
		}
	}
	return out, rows.Err()
}
