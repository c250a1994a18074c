package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canchaya/canchas-api/internal/model"
)

var tariffColumns = []string{"id", "venue_id", "venue_name", "club_id", "is_active", "day_of_week",
	"start_time", "end_time", "price", "title", "created_at", "updated_at"}

func tariffRows() *sqlmock.Rows {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(tariffColumns).
		AddRow(1, 3, "Cancha Central", 7, true, 0, []byte("08:00:00"), []byte("10:00:00"), []byte("30000.00"), nil, now, now).
		AddRow(2, 3, "Cancha Central", 7, true, 1, []byte("18:00:00"), []byte("20:00:00"), []byte("50000.00"), "Nocturna", now, now)
}

func TestTariffRepoCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTariffRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tariffs")).
		WithArgs(uint64(3), uint8(1), "18:00:00", "20:00:00", "50000.00", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE t.id = ?")).WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows(tariffColumns).AddRow(2, 3, "Cancha Central", 7, true, 1,
			[]byte("18:00:00"), []byte("20:00:00"), []byte("50000.00"), "Nocturna", time.Now(), time.Now()))

	tr, err := model.NewTariff(3, model.Monday, model.MustClock(18, 0), model.MustClock(20, 0), model.Units(50000), "Nocturna")
	require.NoError(t, err)
	require.NoError(t, repo.CreateTariff(context.Background(), tr))
	assert.Equal(t, uint64(2), tr.ID)
	assert.Equal(t, uint64(7), tr.ClubID)
	assert.Equal(t, "Cancha Central", tr.VenueName)
	assert.Equal(t, model.Units(50000), tr.Price)
}

func TestTariffRepoCreateMapsCheckViolation(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTariffRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tariffs")).
		WillReturnError(&mysql.MySQLError{Number: 3819, Message: "Check constraint 'chk_tariffs_end_after_start' is violated."})

	err := repo.CreateTariff(context.Background(), &model.Tariff{VenueID: 3, StartTime: model.MustClock(18, 0), EndTime: model.MustClock(17, 0)})
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "end_time")
}

func TestTariffRepoCreateMapsMissingVenue(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTariffRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tariffs")).
		WillReturnError(&mysql.MySQLError{Number: 1452, Message: "a foreign key constraint fails (CONSTRAINT `fk_tariffs_venue`)"})

	err := repo.CreateTariff(context.Background(), &model.Tariff{VenueID: 404, StartTime: model.MustClock(8, 0), EndTime: model.MustClock(9, 0)})
	assert.True(t, model.IsNotFound(err))
}

func TestTariffRepoListVenueTariffsScansSchedule(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTariffRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE t.venue_id = ? ORDER BY t.day_of_week ASC, t.start_time ASC, t.id ASC")).
		WithArgs(uint64(3)).WillReturnRows(tariffRows())

	got, err := repo.ListVenueTariffs(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.Sunday, got[0].DayOfWeek)
	assert.Equal(t, model.MustClock(8, 0), got[0].StartTime)
	assert.Equal(t, "", got[0].Title)
	assert.Equal(t, "Nocturna", got[1].Title)
	assert.True(t, got[1].VenueActive)
}

func TestTariffWhere(t *testing.T) {
	day := model.Monday
	min := model.Units(100)
	from := model.MustClock(17, 0)
	cond, args := tariffWhere(model.TariffFilter{DayOfWeek: &day, PriceMin: &min, StartFrom: &from, VenueName: "central"})
	assert.Equal(t, "v.is_active = 1 AND t.day_of_week = ? AND t.price >= ? AND t.start_time >= ? AND LOWER(v.name) LIKE ?", cond)
	assert.Equal(t, []any{uint8(1), min, from, "%central%"}, args)
}

func TestTariffRepoDeleteMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTariffRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tariffs WHERE id = ?")).WithArgs(uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteTariff(context.Background(), 9)
	assert.True(t, model.IsNotFound(err))
}

func TestTariffRepoDeleteSurfacesRowsAffectedError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTariffRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tariffs WHERE id = ?")).WithArgs(uint64(9)).
		WillReturnResult(sqlmock.NewErrorResult(errors.New("rows affected unavailable")))

	err := repo.DeleteTariff(context.Background(), 9)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rows affected unavailable")
	assert.False(t, model.IsNotFound(err))
}
