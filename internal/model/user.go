package model

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

// UserKind is the account type stored in users.kind.
type UserKind string

const (
	KindAthlete UserKind = "athlete"
	KindClub    UserKind = "club"
)

// MinPasswordLen is the shortest password accepted at registration.
const MinPasswordLen = 8

// User represents a row of the `users` table.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Email        – unique, stored lower-cased.
//	PasswordHash – bcrypt hash, never serialized.
//	Kind         – athlete or club; decides which profile row exists.
//	IsActive     – whether the account may log in.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Kind         UserKind  `json:"kind"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Club is the profile of a club account.  Department and city are
// restricted references: neither can be deleted while a club points at it.
type Club struct {
	ID             uint64 `json:"id"`
	UserID         uint64 `json:"user_id"`
	Name           string `json:"name"`
	NIT            string `json:"nit,omitempty"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	Phone2         string `json:"phone_2,omitempty"`
	OpeningHours   string `json:"opening_hours,omitempty"`
	Info           string `json:"info,omitempty"`
	DepartmentID   uint64 `json:"department_id"`
	DepartmentName string `json:"department_name,omitempty"`
	CityID         uint64 `json:"city_id"`
	CityName       string `json:"city_name,omitempty"`
	IsActive       bool   `json:"is_active"`
}

// Athlete is the profile of an individual account.
type Athlete struct {
	ID              uint64  `json:"id"`
	UserID          uint64  `json:"user_id"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Phone           string  `json:"phone,omitempty"`
	Document        string  `json:"document"`
	FavoriteSportID *uint64 `json:"favorite_sport_id"`
	IsActive        bool    `json:"is_active"`
}

// Credentials is the shared part of both registration bodies.
type Credentials struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

func (c *Credentials) check(ve *ValidationError) {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if c.Email == "" {
		ve.Add("email", "this field is required")
	} else if _, err := mail.ParseAddress(c.Email); err != nil {
		ve.Add("email", "enter a valid email address")
	}
	if utf8.RuneCountInString(c.Password) < MinPasswordLen {
		ve.Add("password", "ensure this field has at least 8 characters")
	}
	if c.Password != c.PasswordConfirm {
		ve.Add("password_confirm", "passwords do not match")
	}
}

// RegisterAthlete is the athlete sign-up body.
type RegisterAthlete struct {
	Credentials
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Phone           string  `json:"phone"`
	Document        string  `json:"document"`
	FavoriteSportID *uint64 `json:"favorite_sport_id"`
}

// Normalize trims the body in place and reports field errors.  Uniqueness
// is checked against storage by the caller.
func (r *RegisterAthlete) Normalize() error {
	ve := &ValidationError{}
	r.check(ve)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Document = strings.TrimSpace(r.Document)
	requireText(ve, "first_name", r.FirstName, 100)
	requireText(ve, "last_name", r.LastName, 100)
	requireText(ve, "document", r.Document, 20)
	return ve.Err()
}

// RegisterClub is the club sign-up body.
type RegisterClub struct {
	Credentials
	Name         string `json:"name"`
	NIT          string `json:"nit"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	Phone2       string `json:"phone_2"`
	OpeningHours string `json:"opening_hours"`
	Info         string `json:"info"`
	DepartmentID uint64 `json:"department_id"`
	CityID       uint64 `json:"city_id"`
}

// Normalize trims the body in place and reports field errors.  Whether the
// city belongs to the department is checked against storage by the caller.
func (r *RegisterClub) Normalize() error {
	ve := &ValidationError{}
	r.check(ve)
	r.Name = strings.TrimSpace(r.Name)
	r.NIT = strings.TrimSpace(r.NIT)
	r.Address = strings.TrimSpace(r.Address)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Phone2 = strings.TrimSpace(r.Phone2)
	requireText(ve, "name", r.Name, 200)
	requireText(ve, "address", r.Address, 300)
	requireText(ve, "phone", r.Phone, 20)
	if utf8.RuneCountInString(r.NIT) > 20 {
		ve.Add("nit", "ensure this field has no more than 20 characters")
	}
	if r.DepartmentID == 0 {
		ve.Add("department_id", "this field is required")
	}
	if r.CityID == 0 {
		ve.Add("city_id", "this field is required")
	}
	return ve.Err()
}

func requireText(ve *ValidationError, field, v string, max int) {
	switch {
	case v == "":
		ve.Add(field, "this field is required")
	case utf8.RuneCountInString(v) > max:
		ve.Add(field, "ensure this field is not too long")
	}
}
