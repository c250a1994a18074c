package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/canchaya/canchas-api/internal/model"
)

// VenueRepo encapsulates all queries on the venues table.  Reads always
// join the owning club, its city and department, and the sport, so callers
// receive fully hydrated venues.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo constructs a VenueRepo with the provided DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo {
	return &VenueRepo{db: db}
}

const venueSelect = `SELECT v.id, v.club_id, c.name, v.sport_id, s.name,
       c.city_id, ci.name, c.department_id, d.name,
       v.name, v.capacity, v.surface, v.is_roofed, v.is_active, v.description,
       v.created_at, v.updated_at
FROM venues v
JOIN clubs c        ON c.id = v.club_id
JOIN sports s       ON s.id = v.sport_id
JOIN cities ci      ON ci.id = c.city_id
JOIN departments d  ON d.id = c.department_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVenue(row rowScanner) (model.Venue, error) {
	var (
		v        model.Venue
		capacity sql.NullInt64
		surface  sql.NullString
		desc     sql.NullString
	)
	err := row.Scan(&v.ID, &v.ClubID, &v.ClubName, &v.SportID, &v.SportName,
		&v.CityID, &v.CityName, &v.DepartmentID, &v.DepartmentName,
		&v.Name, &capacity, &surface, &v.IsRoofed, &v.IsActive, &desc,
		&v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return model.Venue{}, err
	}
	if capacity.Valid {
		n := int(capacity.Int64)
		v.Capacity = &n
	}
	v.Surface = surface.String
	v.Description = desc.String
	return v, nil
}

// CreateVenue inserts v and re-reads it so the caller gets the joined names
// and database timestamps.  A (club, name) collision or an unknown sport is
// reported as a ValidationError.
func (r *VenueRepo) CreateVenue(ctx context.Context, v *model.Venue) error {
	const q = `INSERT INTO venues (club_id, sport_id, name, capacity, surface, is_roofed, is_active, description)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, v.ClubID, v.SportID, v.Name, nullInt(v.Capacity),
		nullString(v.Surface), v.IsRoofed, v.IsActive, nullString(v.Description))
	if err != nil {
		return venueWriteErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	got, err := r.GetVenue(ctx, uint64(id))
	if err != nil {
		return err
	}
	*v = *got
	return nil
}

// GetVenue fetches a venue by id regardless of owner or active flag.
func (r *VenueRepo) GetVenue(ctx context.Context, id uint64) (*model.Venue, error) {
	v, err := scanVenue(r.db.QueryRowContext(ctx, venueSelect+` WHERE v.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &model.NotFoundError{Resource: "venue", ID: id}
		}
		return nil, err
	}
	return &v, nil
}

// ListVenues returns the venues matching f ordered by club name, venue name
// and id.
func (r *VenueRepo) ListVenues(ctx context.Context, f model.VenueFilter) ([]model.Venue, error) {
	cond, args := venueWhere(f)
	q := venueSelect + ` WHERE ` + cond + ` ORDER BY c.name ASC, v.name ASC, v.id ASC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Venue{}
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// venueWhere turns the filter into a WHERE clause.  Substring filters use
// LOWER(x) LIKE ? so they are case-insensitive whatever the column collation.
func venueWhere(f model.VenueFilter) (string, []any) {
	where := []string{}
	args := []any{}

	if f.Scope.Public() {
		where = append(where, "v.is_active = 1")
	} else {
		where = append(where, "v.club_id = ?")
		args = append(args, f.Scope.ClubID)
	}
	eq := func(col string, v *uint64) {
		if v != nil {
			where = append(where, col+" = ?")
			args = append(args, *v)
		}
	}
	eq("v.club_id", f.ClubID)
	eq("v.sport_id", f.SportID)
	eq("c.city_id", f.CityID)
	eq("c.department_id", f.DepartmentID)

	like := func(col, sub string) {
		if sub != "" {
			where = append(where, "LOWER("+col+") LIKE ?")
			args = append(args, likePattern(sub))
		}
	}
	like("v.name", f.Name)
	like("c.name", f.ClubName)
	like("ci.name", f.CityName)
	like("s.name", f.SportName)

	if f.IsRoofed != nil {
		where = append(where, "v.is_roofed = ?")
		args = append(args, *f.IsRoofed)
	}
	if f.IsActive != nil {
		where = append(where, "v.is_active = ?")
		args = append(args, *f.IsActive)
	}
	if f.CapacityMin != nil {
		where = append(where, "v.capacity >= ?")
		args = append(args, *f.CapacityMin)
	}
	if f.CapacityMax != nil {
		where = append(where, "v.capacity <= ?")
		args = append(args, *f.CapacityMax)
	}
	return strings.Join(where, " AND "), args
}

// UpdateVenue writes every mutable column of v and re-reads the row.
func (r *VenueRepo) UpdateVenue(ctx context.Context, v *model.Venue) error {
	const q = `UPDATE venues
	           SET sport_id = ?, name = ?, capacity = ?, surface = ?, is_roofed = ?, is_active = ?,
	               description = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, v.SportID, v.Name, nullInt(v.Capacity), nullString(v.Surface),
		v.IsRoofed, v.IsActive, nullString(v.Description), v.ID); err != nil {
		return venueWriteErr(err)
	}
	got, err := r.GetVenue(ctx, v.ID)
	if err != nil {
		return err
	}
	*v = *got
	return nil
}

// DeleteVenue removes the venue; its tariffs go with it through the
// ON DELETE CASCADE key.  It returns how many tariffs were removed.
func (r *VenueRepo) DeleteVenue(ctx context.Context, id uint64) (removed int, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM tariffs WHERE venue_id = ?`, id).Scan(&removed); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM venues WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		err = &model.NotFoundError{Resource: "venue", ID: id}
		return 0, err
	}
	return removed, nil
}

// VenueNameTaken reports whether clubID already has a venue called name,
// ignoring the venue excludeID.
func (r *VenueRepo) VenueNameTaken(ctx context.Context, clubID uint64, name string, excludeID uint64) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM venues WHERE club_id = ? AND name = ? AND id <> ?)`
	var taken bool
	if err := r.db.QueryRowContext(ctx, q, clubID, name, excludeID).Scan(&taken); err != nil {
		return false, err
	}
	return taken, nil
}

// ClubContact returns the public contact block of a club.
func (r *VenueRepo) ClubContact(ctx context.Context, clubID uint64) (*model.ClubContact, error) {
	const q = `SELECT c.id, c.name, u.email, c.phone, c.address, c.opening_hours
	           FROM clubs c JOIN users u ON u.id = c.user_id
	           WHERE c.id = ?`
	var (
		cc    model.ClubContact
		hours sql.NullString
	)
	if err := r.db.QueryRowContext(ctx, q, clubID).Scan(&cc.ID, &cc.Name, &cc.Email, &cc.Phone, &cc.Address, &hours); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &model.NotFoundError{Resource: "club", ID: clubID}
		}
		return nil, err
	}
	cc.OpeningHours = hours.String
	return &cc, nil
}

func venueWriteErr(err error) error {
	switch {
	case isDuplicate(err, "uq_venues_club_name"):
		return model.DuplicateVenueName()
	case isMissingParent(err, "fk_venues_sport"):
		return model.NewValidationError("sport_id", "sport does not exist")
	case isMissingParent(err, "fk_venues_club"):
		return model.ErrForbidden
	case isColumnOverflow(err, "capacity"):
		return model.NewValidationError("capacity", "ensure this value is less than or equal to 2147483647")
	case isColumnOverflow(err, "description"):
		return model.NewValidationError("description", "ensure this field has no more than 65535 bytes")
	case isColumnOverflow(err, "name"):
		return model.NewValidationError("name", "ensure this field has no more than 100 characters")
	case isColumnOverflow(err, "surface"):
		return model.NewValidationError("surface", "ensure this field has no more than 50 characters")
	}
	return err
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// likePattern escapes LIKE wildcards in s and wraps it for a substring match.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}
