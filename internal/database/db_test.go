package database

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	dsn := DSN("app", "s3cret", "db", "3306", "canchas")
	assert.True(t, strings.HasPrefix(dsn, "app:s3cret@tcp(db:3306)/canchas?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestSchemaCarriesStorageConstraints(t *testing.T) {
	all := strings.Join(Statements(), "\n")
	assert.Contains(t, all, "UNIQUE KEY uq_venues_club_name (club_id, name)")
	assert.Contains(t, all, "CHECK (end_time > start_time)")
	assert.Contains(t, all, "REFERENCES venues (id) ON DELETE CASCADE")
	assert.Contains(t, all, "REFERENCES sports (id) ON DELETE RESTRICT")
	assert.Contains(t, all, "REFERENCES cities (id) ON DELETE RESTRICT")
	assert.Contains(t, all, "REFERENCES departments (id) ON DELETE RESTRICT")
	assert.Contains(t, all, "INSERT IGNORE INTO cities (department_id, name)")
}

func TestSchemaSeedsCitiesUnderDepartments(t *testing.T) {
	stmts := Statements()
	var depts, cities int
	for i, s := range stmts {
		switch {
		case strings.HasPrefix(s, "INSERT IGNORE INTO departments"):
			depts = i + 1
		case strings.HasPrefix(s, "INSERT IGNORE INTO cities"):
			cities = i + 1
		}
	}
	require.NotZero(t, depts, "departments are seeded")
	require.NotZero(t, cities, "cities are seeded")
	assert.Greater(t, cities, depts, "cities resolve their department by name, so they come after")

	seed := stmts[cities-1]
	for _, want := range []string{"'Antioquia' AS department, 'Medellín' AS name", "'Bogotá'", "'Cali'", "'Barranquilla'", "'Bucaramanga'"} {
		assert.Contains(t, seed, want)
	}
	assert.Contains(t, seed, "ON c.department = d.name")
}

func TestMigrateRunsEveryStatement(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	stmts := Statements()
	for _, s := range stmts {
		mock.ExpectExec(regexp.QuoteMeta(s)).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	require.NoError(t, Migrate(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
