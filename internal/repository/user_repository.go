package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/canchaya/canchas-api/internal/model"
)

// UserRepo persists accounts and their club or athlete profile.  A user and
// its profile are always written in one transaction.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userSelect = `SELECT id, email, password_hash, kind, is_active, created_at FROM users`

func scanUser(row rowScanner) (*model.User, error) {
	var (
		u    model.User
		kind string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &kind, &u.IsActive, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Kind = model.UserKind(kind)
	return &u, nil
}

// GetUserByEmail fetches a user by normalized email.
func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(r.DB.QueryRowContext(ctx, userSelect+` WHERE email = ? LIMIT 1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &model.NotFoundError{Resource: "user"}
	}
	return u, err
}

// GetUserByID fetches a user by id.
func (r *UserRepo) GetUserByID(ctx context.Context, id uint64) (*model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, userSelect+` WHERE id = ? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &model.NotFoundError{Resource: "user", ID: id}
	}
	return u, err
}

// CreateClub inserts the user row and its club profile.  u.ID and c.ID are
// filled on success.
func (r *UserRepo) CreateClub(ctx context.Context, u *model.User, c *model.Club) error {
	return r.withUser(ctx, u, func(tx *sql.Tx) error {
		const q = `INSERT INTO clubs (user_id, name, nit, address, phone, phone_2, opening_hours, info, department_id, city_id)
		           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		res, err := tx.ExecContext(ctx, q, u.ID, c.Name, nullString(c.NIT), c.Address, c.Phone, nullString(c.Phone2),
			nullString(c.OpeningHours), nullString(c.Info), c.DepartmentID, c.CityID)
		if err != nil {
			return profileWriteErr(err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		c.ID = uint64(id)
		c.UserID = u.ID
		c.IsActive = true
		return nil
	})
}

// CreateAthlete inserts the user row and its athlete profile.
func (r *UserRepo) CreateAthlete(ctx context.Context, u *model.User, a *model.Athlete) error {
	return r.withUser(ctx, u, func(tx *sql.Tx) error {
		const q = `INSERT INTO athletes (user_id, first_name, last_name, phone, document, favorite_sport_id)
		           VALUES (?, ?, ?, ?, ?, ?)`
		var fav sql.NullInt64
		if a.FavoriteSportID != nil {
			fav = sql.NullInt64{Int64: int64(*a.FavoriteSportID), Valid: true}
		}
		res, err := tx.ExecContext(ctx, q, u.ID, a.FirstName, a.LastName, nullString(a.Phone), a.Document, fav)
		if err != nil {
			return profileWriteErr(err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		a.ID = uint64(id)
		a.UserID = u.ID
		a.IsActive = true
		return nil
	})
}

func (r *UserRepo) withUser(ctx context.Context, u *model.User, profile func(*sql.Tx) error) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	res, err := tx.ExecContext(ctx, `INSERT INTO users (email, password_hash, kind) VALUES (?, ?, ?)`,
		u.Email, u.PasswordHash, string(u.Kind))
	if err != nil {
		if isDuplicate(err, "uq_users_email") {
			err = model.NewValidationError("email", "a user with this email already exists")
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	u.IsActive = true
	return profile(tx)
}

func profileWriteErr(err error) error {
	switch {
	case isDuplicate(err, "uq_clubs_nit"):
		return model.NewValidationError("nit", "a club with this NIT already exists")
	case isDuplicate(err, "uq_athletes_document"):
		return model.NewValidationError("document", "an athlete with this document already exists")
	case isMissingParent(err, "fk_clubs_city"):
		return model.NewValidationError("city_id", "city does not exist")
	case isMissingParent(err, "fk_clubs_department"):
		return model.NewValidationError("department_id", "department does not exist")
	case isMissingParent(err, "fk_athletes_sport"):
		return model.NewValidationError("favorite_sport_id", "sport does not exist")
	}
	return err
}

// ClubByUserID returns the club profile owned by userID.
func (r *UserRepo) ClubByUserID(ctx context.Context, userID uint64) (*model.Club, error) {
	const q = `SELECT c.id, c.user_id, c.name, c.nit, c.address, c.phone, c.phone_2, c.opening_hours, c.info,
	                  c.department_id, d.name, c.city_id, ci.name, c.is_active
	           FROM clubs c
	           JOIN departments d ON d.id = c.department_id
	           JOIN cities ci     ON ci.id = c.city_id
	           WHERE c.user_id = ?`
	var (
		c                        model.Club
		nit, phone2, hours, info sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, q, userID).Scan(&c.ID, &c.UserID, &c.Name, &nit, &c.Address, &c.Phone, &phone2,
		&hours, &info, &c.DepartmentID, &c.DepartmentName, &c.CityID, &c.CityName, &c.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &model.NotFoundError{Resource: "club"}
		}
		return nil, err
	}
	c.NIT, c.Phone2, c.OpeningHours, c.Info = nit.String, phone2.String, hours.String, info.String
	return &c, nil
}

// AthleteByUserID returns the athlete profile owned by userID.
func (r *UserRepo) AthleteByUserID(ctx context.Context, userID uint64) (*model.Athlete, error) {
	const q = `SELECT id, user_id, first_name, last_name, phone, document, favorite_sport_id, is_active
	           FROM athletes WHERE user_id = ?`
	var (
		a     model.Athlete
		phone sql.NullString
		fav   sql.NullInt64
	)
	err := r.DB.QueryRowContext(ctx, q, userID).Scan(&a.ID, &a.UserID, &a.FirstName, &a.LastName, &phone, &a.Document, &fav, &a.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &model.NotFoundError{Resource: "athlete"}
		}
		return nil, err
	}
	a.Phone = phone.String
	if fav.Valid {
		id := uint64(fav.Int64)
		a.FavoriteSportID = &id
	}
	return &a, nil
}

// EmailTaken reports whether an account already uses email.
func (r *UserRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`, strings.ToLower(strings.TrimSpace(email)))
}

// NITTaken reports whether a club already uses nit.
func (r *UserRepo) NITTaken(ctx context.Context, nit string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM clubs WHERE nit = ?)`, nit)
}

// DocumentTaken reports whether an athlete already uses document.
func (r *UserRepo) DocumentTaken(ctx context.Context, document string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM athletes WHERE document = ?)`, document)
}

func (r *UserRepo) exists(ctx context.Context, q string, arg any) (bool, error) {
	var ok bool
	if err := r.DB.QueryRowContext(ctx, q, arg).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
