package repository

import (
	"context"
	"database/sql"
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

var venueColumns = []string{"id", "club_id", "club_name", "sport_id", "sport_name", "city_id", "city_name",
	"department_id", "department_name", "name", "capacity", "surface", "is_roofed", "is_active", "description",
	"created_at", "updated_at"}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func venueRow(id uint64, name string) *sqlmock.Rows {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(venueColumns).AddRow(id, 7, "Club Norte", 1, "Fútbol", 3, "Medellín", 2, "Antioquia",
		name, 10, nil, true, true, "techada", now, now)
}

func TestVenueRepoCreateHydrates(t *testing.T) {
	db, mock := newMock(t)
	repo := NewVenueRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO venues")).
		WithArgs(uint64(7), uint64(1), "Cancha Central", sql.NullInt64{}, sql.NullString{}, false, true, sql.NullString{}).
		WillReturnResult(sqlmock.NewResult(15, 1))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE v.id = ?")).WithArgs(uint64(15)).
		WillReturnRows(venueRow(15, "Cancha Central"))

	v := &model.Venue{ClubID: 7, SportID: 1, Name: "Cancha Central", IsActive: true}
	require.NoError(t, repo.CreateVenue(context.Background(), v))
	assert.Equal(t, uint64(15), v.ID)
	assert.Equal(t, "Club Norte", v.ClubName)
	assert.Equal(t, "Antioquia", v.DepartmentName)
	require.NotNil(t, v.Capacity)
	assert.Equal(t, 10, *v.Capacity)
	assert.Equal(t, "", v.Surface)
}

func TestVenueRepoCreateMapsDuplicateName(t *testing.T) {
	db, mock := newMock(t)
	repo := NewVenueRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO venues")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '7-Cancha 1' for key 'venues.uq_venues_club_name'"})

	err := repo.CreateVenue(context.Background(), &model.Venue{ClubID: 7, SportID: 1, Name: "Cancha 1"})
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "name")
}

func TestVenueRepoCreateMapsUnknownSport(t *testing.T) {
	db, mock := newMock(t)
	repo := NewVenueRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO venues")).
		WillReturnError(&mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row: a foreign key constraint fails (`canchas`.`venues`, CONSTRAINT `fk_venues_sport` FOREIGN KEY (`sport_id`) REFERENCES `sports` (`id`))"})

	err := repo.CreateVenue(context.Background(), &model.Venue{ClubID: 7, SportID: 99, Name: "X"})
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "sport_id")
}

func TestVenueRepoMapsColumnOverflow(t *testing.T) {
	cases := map[string]struct {
		err   *mysql.MySQLError
		field string
	}{
		"capacity out of range": {&mysql.MySQLError{Number: 1264, Message: "Out of range value for column 'capacity' at row 1"}, "capacity"},
		"description too long":  {&mysql.MySQLError{Number: 1406, Message: "Data too long for column 'description' at row 1"}, "description"},
		"surface too long":      {&mysql.MySQLError{Number: 1406, Message: "Data too long for column 'surface' at row 1"}, "surface"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewVenueRepo(db)

			mock.ExpectExec(regexp.QuoteMeta("INSERT INTO venues")).WillReturnError(tc.err)
			err := repo.CreateVenue(context.Background(), &model.Venue{ClubID: 7, SportID: 1, Name: "X"})
			var ve *model.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields, tc.field)

			mock.ExpectExec(regexp.QuoteMeta("UPDATE venues")).WillReturnError(tc.err)
			err = repo.UpdateVenue(context.Background(), &model.Venue{ID: 3, SportID: 1, Name: "X"})
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields, tc.field)
		})
	}

	assert.False(t, isColumnOverflow(&mysql.MySQLError{Number: 1406, Message: "Data too long for column 'name' at row 1"}, "surface"))
	assert.False(t, isColumnOverflow(errors.New("Out of range value for column 'capacity'"), "capacity"))
}

func TestVenueRepoGetNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewVenueRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE v.id = ?")).WithArgs(uint64(4)).WillReturnRows(sqlmock.NewRows(venueColumns))

	_, err := repo.GetVenue(context.Background(), 4)
	assert.True(t, model.IsNotFound(err))
}

func TestVenueWherePublicScope(t *testing.T) {
	cond, args := venueWhere(model.VenueFilter{Name: "Cen%tral", CapacityMin: ptrTo(4)})
	assert.Equal(t, "v.is_active = 1 AND LOWER(v.name) LIKE ? AND v.capacity >= ?", cond)
	assert.Equal(t, []any{`%cen\%tral%`, 4}, args)
}

func TestVenueWhereClubScope(t *testing.T) {
	sport := uint64(2)
	roofed := true
	cond, args := venueWhere(model.VenueFilter{Scope: model.Visibility{ClubID: 7}, SportID: &sport, IsRoofed: &roofed, CityName: "MED"})
	assert.Equal(t, "v.club_id = ? AND v.sport_id = ? AND LOWER(ci.name) LIKE ? AND v.is_roofed = ?", cond)
	assert.Equal(t, []any{uint64(7), uint64(2), "%med%", true}, args)
}

func TestVenueRepoListOrdersByClubThenName(t *testing.T) {
	db, mock := newMock(t)
	repo := NewVenueRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE v.is_active = 1 ORDER BY c.name ASC, v.name ASC, v.id ASC")).
		WillReturnRows(venueRow(1, "A"))

	got, err := repo.ListVenues(context.Background(), model.VenueFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Name)
}

func TestVenueRepoDeleteReportsRemovedTariffs(t *testing.T) {
	db, mock := newMock(t)
	repo := NewVenueRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tariffs WHERE venue_id = ?")).WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM venues WHERE id = ?")).WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := repo.DeleteVenue(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestVenueRepoDeleteMissingRollsBack(t *testing.T) {
	db, mock := newMock(t)
	repo := NewVenueRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tariffs")).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM venues")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.DeleteVenue(context.Background(), 3)
	assert.True(t, model.IsNotFound(err))
}

func TestVenueRepoDeleteRowsAffectedErrorRollsBack(t *testing.T) {
	db, mock := newMock(t)
	repo := NewVenueRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tariffs")).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM venues")).
		WillReturnResult(sqlmock.NewErrorResult(errors.New("rows affected unavailable")))
	mock.ExpectRollback()

	_, err := repo.DeleteVenue(context.Background(), 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rows affected unavailable")
	assert.False(t, model.IsNotFound(err))
}

func TestVenueRepoNameTaken(t *testing.T) {
	db, mock := newMock(t)
	repo := NewVenueRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM venues WHERE club_id = ? AND name = ? AND id <> ?)")).
		WithArgs(uint64(7), "Cancha 1", uint64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(true))

	taken, err := repo.VenueNameTaken(context.Background(), 7, "Cancha 1", 0)
	require.NoError(t, err)
	assert.True(t, taken)
}

func ptrTo[T any](v T) *T { return &v }
