package model

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxVenueNameLen = 100
	maxSurfaceLen   = 50

	// Column ceilings: capacity is a signed INT on the wire, description a TEXT.
	maxCapacity         = 2147483647
	maxDescriptionBytes = 65535
)

// Venue is a bookable sports facility (cancha) owned by exactly one club.
// The club, sport, city and department names are read-side joins and are
// never written back.
type Venue struct {
	ID             uint64    `json:"id"`
	ClubID         uint64    `json:"club_id"`
	ClubName       string    `json:"club_name"`
	SportID        uint64    `json:"sport_id"`
	SportName      string    `json:"sport_name"`
	CityID         uint64    `json:"city_id"`
	CityName       string    `json:"city_name"`
	DepartmentID   uint64    `json:"department_id"`
	DepartmentName string    `json:"department_name"`
	Name           string    `json:"name"`
	Capacity       *int      `json:"capacity"`
	Surface        string    `json:"surface,omitempty"`
	IsRoofed       bool      `json:"is_roofed"`
	IsActive       bool      `json:"is_active"`
	Description    string    `json:"description,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ClubContact is the public face of the owning club shown on venue detail.
type ClubContact struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	OpeningHours string `json:"opening_hours,omitempty"`
}

// VenueDetail is the single-venue view: the venue, its club contact and its
// weekly tariff schedule.
type VenueDetail struct {
	Venue
	Club    *ClubContact `json:"club,omitempty"`
	Tariffs []Tariff     `json:"tariffs"`
}

// VenueInput carries the client-settable fields of a new venue.  The owning
// club is never part of the input.
type VenueInput struct {
	SportID     uint64 `json:"sport_id"`
	Name        string `json:"name"`
	Capacity    *int   `json:"capacity"`
	Surface     string `json:"surface"`
	IsRoofed    bool   `json:"is_roofed"`
	IsActive    *bool  `json:"is_active"`
	Description string `json:"description"`
}

// Build validates the input and returns the venue it describes, stamped
// with clubID.  The name is stored trimmed.
func (in VenueInput) Build(clubID uint64) (*Venue, error) {
	ve := &ValidationError{}
	name := strings.TrimSpace(in.Name)
	checkVenueName(ve, name)
	if in.SportID == 0 {
		ve.Add("sport_id", "this field is required")
	}
	checkCapacity(ve, in.Capacity)
	surface := strings.TrimSpace(in.Surface)
	checkSurface(ve, surface)
	description := strings.TrimSpace(in.Description)
	checkDescription(ve, description)
	if err := ve.Err(); err != nil {
		return nil, err
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return &Venue{
		ClubID:      clubID,
		SportID:     in.SportID,
		Name:        name,
		Capacity:    in.Capacity,
		Surface:     surface,
		IsRoofed:    in.IsRoofed,
		IsActive:    active,
		Description: description,
	}, nil
}

// OptionalInt is a nullable integer field of a partial update.  Set is true
// whenever the key was present, so an explicit null (Set, nil Value) is told
// apart from an absent key.
type OptionalInt struct {
	Set   bool
	Value *int
}

// SetInt returns a present, non-null OptionalInt.
func SetInt(v int) OptionalInt { return OptionalInt{Set: true, Value: &v} }

// NullInt returns a present, null OptionalInt.
func NullInt() OptionalInt { return OptionalInt{Set: true} }

// UnmarshalJSON records presence and decodes null as a nil Value.
func (o *OptionalInt) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// VenuePatch is a partial update; nil fields keep their current value.
// Capacity is the one nullable column, so null clears it.
type VenuePatch struct {
	SportID     *uint64     `json:"sport_id"`
	Name        *string     `json:"name"`
	Capacity    OptionalInt `json:"capacity"`
	Surface     *string     `json:"surface"`
	IsRoofed    *bool       `json:"is_roofed"`
	IsActive    *bool       `json:"is_active"`
	Description *string     `json:"description"`
}

// Apply merges p into a copy of v and validates the result.
func (p VenuePatch) Apply(v Venue) (*Venue, error) {
	ve := &ValidationError{}
	if p.SportID != nil {
		if *p.SportID == 0 {
			ve.Add("sport_id", "this field may not be empty")
		}
		v.SportID = *p.SportID
	}
	if p.Name != nil {
		v.Name = strings.TrimSpace(*p.Name)
		checkVenueName(ve, v.Name)
	}
	if p.Capacity.Set {
		if p.Capacity.Value == nil {
			v.Capacity = nil
		} else {
			checkCapacity(ve, p.Capacity.Value)
			c := *p.Capacity.Value
			v.Capacity = &c
		}
	}
	if p.Surface != nil {
		v.Surface = strings.TrimSpace(*p.Surface)
		checkSurface(ve, v.Surface)
	}
	if p.IsRoofed != nil {
		v.IsRoofed = *p.IsRoofed
	}
	if p.IsActive != nil {
		v.IsActive = *p.IsActive
	}
	if p.Description != nil {
		v.Description = strings.TrimSpace(*p.Description)
		checkDescription(ve, v.Description)
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}
	return &v, nil
}

// SameVenueName reports whether two names collide under the (club, name)
// key.  The column uses a binary collation, so the comparison is exact.
func SameVenueName(a, b string) bool { return a == b }

// DuplicateVenueName is the field error for a (club, name) collision.
func DuplicateVenueName() *ValidationError {
	return NewValidationError("name", "a venue with this name already exists for this club")
}

func checkVenueName(ve *ValidationError, name string) {
	switch {
	case name == "":
		ve.Add("name", "this field may not be blank")
	case utf8.RuneCountInString(name) > maxVenueNameLen:
		ve.Add("name", "ensure this field has no more than 100 characters")
	}
}

func checkCapacity(ve *ValidationError, c *int) {
	switch {
	case c == nil:
	case *c < 0:
		ve.Add("capacity", "ensure this value is greater than or equal to 0")
	case int64(*c) > maxCapacity:
		ve.Add("capacity", "ensure this value is less than or equal to 2147483647")
	}
}

func checkDescription(ve *ValidationError, s string) {
	if len(s) > maxDescriptionBytes {
		ve.Add("description", "ensure this field has no more than 65535 bytes")
	}
}

func checkSurface(ve *ValidationError, s string) {
	if utf8.RuneCountInString(s) > maxSurfaceLen {
		ve.Add("surface", "ensure this field has no more than 50 characters")
	}
}

// Visibility scopes a read.  A zero ClubID means a public caller, who only
// sees active venues; a club sees its own venues whatever their state.
type Visibility struct {
	ClubID uint64
}

// Public reports whether the scope is the public, active-only one.
func (s Visibility) Public() bool { return s.ClubID == 0 }

// Allows reports whether v is inside the scope.
func (s Visibility) Allows(v Venue) bool {
	if s.Public() {
		return v.IsActive
	}
	return v.ClubID == s.ClubID
}

// VenueFilter holds the optional list filters.  All set fields are ANDed.
type VenueFilter struct {
	Scope        Visibility
	ClubID       *uint64
	SportID      *uint64
	CityID       *uint64
	DepartmentID *uint64
	Name         string
	ClubName     string
	CityName     string
	SportName    string
	IsRoofed     *bool
	IsActive     *bool
	CapacityMin  *int
	CapacityMax  *int
}

// Match applies the filter to a hydrated venue.
func (f VenueFilter) Match(v Venue) bool {
	if !f.Scope.Allows(v) {
		return false
	}
	if f.ClubID != nil && v.ClubID != *f.ClubID {
		return false
	}
	if f.SportID != nil && v.SportID != *f.SportID {
		return false
	}
	if f.CityID != nil && v.CityID != *f.CityID {
		return false
	}
	if f.DepartmentID != nil && v.DepartmentID != *f.DepartmentID {
		return false
	}
	if !containsFold(v.Name, f.Name) || !containsFold(v.ClubName, f.ClubName) ||
		!containsFold(v.CityName, f.CityName) || !containsFold(v.SportName, f.SportName) {
		return false
	}
	if f.IsRoofed != nil && v.IsRoofed != *f.IsRoofed {
		return false
	}
	if f.IsActive != nil && v.IsActive != *f.IsActive {
		return false
	}
	if f.CapacityMin != nil && (v.Capacity == nil || *v.Capacity < *f.CapacityMin) {
		return false
	}
	if f.CapacityMax != nil && (v.Capacity == nil || *v.Capacity > *f.CapacityMax) {
		return false
	}
	return true
}

// SortVenues orders venues by club name, then venue name, then id.
func SortVenues(vs []Venue) {
	sort.SliceStable(vs, func(i, j int) bool {
		a, b := vs[i], vs[j]
		if a.ClubName != b.ClubName {
			return a.ClubName < b.ClubName
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
}

func containsFold(s, sub string) bool {
	if sub == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
