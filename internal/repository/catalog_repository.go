package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/canchaya/canchas-api/internal/model"
)

// CatalogRepo reads the master data: departments, cities and sports.  The
// tables are seeded by the schema and never written through the API.
type CatalogRepo struct {
	db *sql.DB
}

func NewCatalogRepo(db *sql.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

// ListDepartments returns departments ordered by name, each with its
// cities, optionally narrowed by a name substring.
func (r *CatalogRepo) ListDepartments(ctx context.Context, search string) ([]model.Department, error) {
	q := `SELECT id, name FROM departments`
	args := []any{}
	if search != "" {
		q += ` WHERE LOWER(name) LIKE ?`
		args = append(args, likePattern(search))
	}
	q += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Department{}
	for rows.Next() {
		var d model.Department
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	cities, err := r.ListCities(ctx, model.CityFilter{})
	if err != nil {
		return nil, err
	}
	byDept := map[uint64][]model.City{}
	for _, c := range cities {
		byDept[c.DepartmentID] = append(byDept[c.DepartmentID], c)
	}
	for i := range out {
		out[i].Cities = byDept[out[i].ID]
	}
	return out, nil
}

// GetDepartment returns one department with its cities.
func (r *CatalogRepo) GetDepartment(ctx context.Context, id uint64) (*model.Department, error) {
	var d model.Department
	if err := r.db.QueryRowContext(ctx, `SELECT id, name FROM departments WHERE id = ?`, id).Scan(&d.ID, &d.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &model.NotFoundError{Resource: "department", ID: id}
		}
		return nil, err
	}
	cities, err := r.ListCities(ctx, model.CityFilter{DepartmentID: &d.ID})
	if err != nil {
		return nil, err
	}
	d.Cities = cities
	return &d, nil
}

const citySelect = `SELECT ci.id, ci.department_id, d.name, ci.name
FROM cities ci
JOIN departments d ON d.id = ci.department_id`

// ListCities returns cities ordered by department then city name.
func (r *CatalogRepo) ListCities(ctx context.Context, f model.CityFilter) ([]model.City, error) {
	where := []string{"1=1"}
	args := []any{}
	if f.DepartmentID != nil {
		where = append(where, "ci.department_id = ?")
		args = append(args, *f.DepartmentID)
	}
	if f.Search != "" {
		where = append(where, "LOWER(ci.name) LIKE ?")
		args = append(args, likePattern(f.Search))
	}
	q := citySelect + ` WHERE ` + strings.Join(where, " AND ") + ` ORDER BY d.name ASC, ci.name ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.City{}
	for rows.Next() {
		var c model.City
		if err := rows.Scan(&c.ID, &c.DepartmentID, &c.DepartmentName, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetCity returns one city.
func (r *CatalogRepo) GetCity(ctx context.Context, id uint64) (*model.City, error) {
	var c model.City
	err := r.db.QueryRowContext(ctx, citySelect+` WHERE ci.id = ?`, id).Scan(&c.ID, &c.DepartmentID, &c.DepartmentName, &c.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &model.NotFoundError{Resource: "city", ID: id}
		}
		return nil, err
	}
	return &c, nil
}

// CityInDepartment reports whether cityID belongs to departmentID.
func (r *CatalogRepo) CityInDepartment(ctx context.Context, cityID, departmentID uint64) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM cities WHERE id = ? AND department_id = ?)`,
		cityID, departmentID).Scan(&ok)
	return ok, err
}

// ListSports returns sports ordered by name.
func (r *CatalogRepo) ListSports(ctx context.Context, search string) ([]model.Sport, error) {
	q := `SELECT id, name, description, icon_url FROM sports`
	args := []any{}
	if search != "" {
		q += ` WHERE LOWER(name) LIKE ?`
		args = append(args, likePattern(search))
	}
	q += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Sport{}
	for rows.Next() {
		s, err := scanSport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetSport returns one sport.
func (r *CatalogRepo) GetSport(ctx context.Context, id uint64) (*model.Sport, error) {
	s, err := scanSport(r.db.QueryRowContext(ctx, `SELECT id, name, description, icon_url FROM sports WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &model.NotFoundError{Resource: "sport", ID: id}
		}
		return nil, err
	}
	return &s, nil
}

func scanSport(row rowScanner) (model.Sport, error) {
	var (
		s          model.Sport
		desc, icon sql.NullString
	)
	if err := row.Scan(&s.ID, &s.Name, &desc, &icon); err != nil {
		return model.Sport{}, err
	}
	s.Description = desc.String
	s.IconURL = icon.String
	return s, nil
}
