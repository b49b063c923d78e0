package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoub-kd/costume-rental/internal/model"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation(model.DateLayout, s, time.UTC)
	require.NoError(t, err)
	return d
}

func TestBlockingRanges(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT start_date, end_date FROM rentals\s+WHERE costume_id=\? AND status IN \('pending','confirmed'\)`).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"start_date", "end_date"}).
			AddRow(mustDate(t, "2026-03-01"), mustDate(t, "2026-03-03")).
			AddRow(mustDate(t, "2026-03-10"), mustDate(t, "2026-03-12")))

	repo := NewRentalRepo(db)
	ranges, err := repo.BlockingRanges(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, ranges, 2)
	assert.Equal(t, mustDate(t, "2026-03-01"), ranges[0].Start)
	assert.Equal(t, mustDate(t, "2026-03-12"), ranges[1].End)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlockingRangesTxLocksRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT start_date, end_date FROM rentals\s+WHERE costume_id=\? AND status IN \('pending','confirmed'\) FOR UPDATE`).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"start_date", "end_date"}))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)

	repo := NewRentalRepo(db)
	ranges, err := repo.BlockingRangesTx(context.Background(), tx, 5)
	require.NoError(t, err)
	assert.Empty(t, ranges)

	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO rentals`).
		WithArgs(uint64(2), uint64(5), mustDate(t, "2026-03-05"), mustDate(t, "2026-03-07"),
			int64(6000), model.StatusPending, nil).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery(`SELECT created_at, updated_at FROM rentals WHERE id=\?`).
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	rental := model.Rental{
		UserID:          2,
		CostumeID:       5,
		StartDate:       mustDate(t, "2026-03-05"),
		EndDate:         mustDate(t, "2026-03-07"),
		TotalPriceCents: 6000,
		Status:          model.StatusPending,
	}
	repo := NewRentalRepo(db)
	require.NoError(t, repo.CreateTx(context.Background(), tx, &rental))
	require.NoError(t, tx.Commit())

	assert.EqualValues(t, 11, rental.ID)
	assert.WithinDuration(t, now, rental.CreatedAt, time.Second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOwnedByUserNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM rentals WHERE id=\? AND user_id=\?`).
		WithArgs(uint64(9), uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewRentalRepo(db)
	_, err = repo.GetOwnedByUser(context.Background(), 9, 2)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE rentals SET status=\? WHERE id=\?`).
		WithArgs(model.StatusConfirmed, uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT id FROM rentals WHERE id=\?`).
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewRentalRepo(db)
	err = repo.UpdateStatus(context.Background(), 9, model.StatusConfirmed)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListForAdminJoinsUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := []string{
		"id", "user_id", "costume_id", "start_date", "end_date",
		"total_price_cents", "status", "notes", "created_at", "updated_at",
		"name", "description", "image_url", "image_path", "u_name", "u_email",
	}
	now := time.Now()
	mock.ExpectQuery(`FROM rentals r\s+JOIN costumes c ON c.id = r.costume_id\s+JOIN users u ON u.id = r.user_id\s+WHERE c.admin_id=\?`).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			11, 2, 5, mustDate(t, "2026-03-05"), mustDate(t, "2026-03-07"),
			int64(6000), model.StatusPending, nil, now, now,
			"Pirate", nil, nil, "costumes/abc.png", "Alice", "alice@example.com"))

	repo := NewRentalRepo(db)
	out, err := repo.ListForAdmin(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Pirate", out[0].CostumeName)
	assert.Equal(t, "Alice", out[0].UserName)
	assert.Equal(t, "alice@example.com", out[0].UserEmail)
	assert.EqualValues(t, 6000, out[0].Rental.TotalPriceCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}
