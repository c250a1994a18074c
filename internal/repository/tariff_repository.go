package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/canchaya/canchas-api/internal/model"
)

// TariffRepo encapsulates all queries on the tariffs table.
type TariffRepo struct {
	db *sql.DB
}

func NewTariffRepo(db *sql.DB) *TariffRepo {
	return &TariffRepo{db: db}
}

const tariffSelect = `SELECT t.id, t.venue_id, v.name, v.club_id, v.is_active,
       t.day_of_week, t.start_time, t.end_time, t.price, t.title, t.created_at, t.updated_at
FROM tariffs t
JOIN venues v ON v.id = t.venue_id`

func scanTariff(row rowScanner) (model.Tariff, error) {
	var (
		t     model.Tariff
		title sql.NullString
	)
	err := row.Scan(&t.ID, &t.VenueID, &t.VenueName, &t.ClubID, &t.VenueActive,
		&t.DayOfWeek, &t.StartTime, &t.EndTime, &t.Price, &title, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return model.Tariff{}, err
	}
	t.Title = title.String
	return t, nil
}

// CreateTariff inserts t.  The CHECK constraint on (end_time > start_time)
// backs up the validation done in model.NewTariff.
func (r *TariffRepo) CreateTariff(ctx context.Context, t *model.Tariff) error {
	const q = `INSERT INTO tariffs (venue_id, day_of_week, start_time, end_time, price, title)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.VenueID, uint8(t.DayOfWeek), t.StartTime, t.EndTime, t.Price, nullString(t.Title))
	if err != nil {
		return tariffWriteErr(err, t.VenueID)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	got, err := r.GetTariff(ctx, uint64(id))
	if err != nil {
		return err
	}
	*t = *got
	return nil
}

// GetTariff fetches a tariff with its parent venue's name, owner and state.
func (r *TariffRepo) GetTariff(ctx context.Context, id uint64) (*model.Tariff, error) {
	t, err := scanTariff(r.db.QueryRowContext(ctx, tariffSelect+` WHERE t.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &model.NotFoundError{Resource: "tariff", ID: id}
		}
		return nil, err
	}
	return &t, nil
}

// ListVenueTariffs returns the weekly schedule of one venue ordered by
// day, start time and id.
func (r *TariffRepo) ListVenueTariffs(ctx context.Context, venueID uint64) ([]model.Tariff, error) {
	q := tariffSelect + ` WHERE t.venue_id = ? ORDER BY t.day_of_week ASC, t.start_time ASC, t.id ASC`
	return r.query(ctx, q, venueID)
}

// ListTariffs returns tariffs matching f ordered by venue then schedule.
func (r *TariffRepo) ListTariffs(ctx context.Context, f model.TariffFilter) ([]model.Tariff, error) {
	cond, args := tariffWhere(f)
	q := tariffSelect + ` WHERE ` + cond + ` ORDER BY t.venue_id ASC, t.day_of_week ASC, t.start_time ASC, t.id ASC`
	return r.query(ctx, q, args...)
}

func (r *TariffRepo) query(ctx context.Context, q string, args ...any) ([]model.Tariff, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Tariff{}
	for rows.Next() {
		t, err := scanTariff(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func tariffWhere(f model.TariffFilter) (string, []any) {
	where := []string{}
	args := []any{}

	if f.Scope.Public() {
		where = append(where, "v.is_active = 1")
	} else {
		where = append(where, "v.club_id = ?")
		args = append(args, f.Scope.ClubID)
	}
	if f.VenueID != nil {
		where = append(where, "t.venue_id = ?")
		args = append(args, *f.VenueID)
	}
	if f.ClubID != nil {
		where = append(where, "v.club_id = ?")
		args = append(args, *f.ClubID)
	}
	if f.SportID != nil {
		where = append(where, "v.sport_id = ?")
		args = append(args, *f.SportID)
	}
	if f.DayOfWeek != nil {
		where = append(where, "t.day_of_week = ?")
		args = append(args, uint8(*f.DayOfWeek))
	}
	if f.PriceMin != nil {
		where = append(where, "t.price >= ?")
		args = append(args, *f.PriceMin)
	}
	if f.PriceMax != nil {
		where = append(where, "t.price <= ?")
		args = append(args, *f.PriceMax)
	}
	if f.StartFrom != nil {
		where = append(where, "t.start_time >= ?")
		args = append(args, *f.StartFrom)
	}
	if f.StartTo != nil {
		where = append(where, "t.start_time <= ?")
		args = append(args, *f.StartTo)
	}
	if f.VenueName != "" {
		where = append(where, "LOWER(v.name) LIKE ?")
		args = append(args, likePattern(f.VenueName))
	}
	return strings.Join(where, " AND "), args
}

// UpdateTariff writes the schedule fields of t and re-reads the row.
func (r *TariffRepo) UpdateTariff(ctx context.Context, t *model.Tariff) error {
	const q = `UPDATE tariffs
	           SET day_of_week = ?, start_time = ?, end_time = ?, price = ?, title = ?
	           WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, uint8(t.DayOfWeek), t.StartTime, t.EndTime, t.Price, nullString(t.Title), t.ID); err != nil {
		return tariffWriteErr(err, t.VenueID)
	}
	got, err := r.GetTariff(ctx, t.ID)
	if err != nil {
		return err
	}
	*t = *got
	return nil
}

// DeleteTariff removes a single tariff row.
func (r *TariffRepo) DeleteTariff(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tariffs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &model.NotFoundError{Resource: "tariff", ID: id}
	}
	return nil
}

func tariffWriteErr(err error, venueID uint64) error {
	switch {
	case isCheckViolation(err, "chk_tariffs_end_after_start"):
		return model.NewValidationError("end_time", "end time must be after start time")
	case isCheckViolation(err, "chk_tariffs_day"):
		return model.NewValidationError("day_of_week", "must be between 0 (Sunday) and 6 (Saturday)")
	case isCheckViolation(err, "chk_tariffs_price"):
		return model.NewValidationError("price", "ensure this value is greater than or equal to 0")
	case isMissingParent(err, "fk_tariffs_venue"):
		return &model.NotFoundError{Resource: "venue", ID: venueID}
	}
	return err
}
