package model

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

const maxTariffTitleLen = 100

// Tariff is a price rule for one venue, scoped to a weekday and the
// half-open interval [StartTime, EndTime).
//
// VenueName, ClubID and VenueActive are joined from the parent venue on
// read.  ClubID drives the ownership check and VenueActive the public
// visibility check; neither is serialized.
type Tariff struct {
	ID          uint64    `json:"id"`
	VenueID     uint64    `json:"venue_id"`
	VenueName   string    `json:"venue_name"`
	ClubID      uint64    `json:"-"`
	VenueActive bool      `json:"-"`
	DayOfWeek   Weekday   `json:"day_of_week"`
	StartTime   ClockTime `json:"start_time"`
	EndTime     ClockTime `json:"end_time"`
	Price       Money     `json:"price"`
	Title       string    `json:"title,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MarshalJSON adds the day name next to the numeric day.
func (t Tariff) MarshalJSON() ([]byte, error) {
	type plain Tariff
	return json.Marshal(struct {
		plain
		DayOfWeekDisplay string `json:"day_of_week_display"`
	}{plain(t), t.DayOfWeek.Display()})
}

// Covers reports whether the tariff applies on day at time at.
func (t Tariff) Covers(day Weekday, at ClockTime) bool {
	return t.DayOfWeek == day && t.StartTime <= at && at < t.EndTime
}

// ValidateInterval fails unless end is strictly after start.  The same rule
// is enforced by NewTariff and by the tariffs CHECK constraint.
func ValidateInterval(start, end ClockTime) error {
	if end <= start {
		return NewValidationError("end_time", "end time must be after start time")
	}
	return nil
}

// NewTariff is the programmatic construction path for tariffs.  Every
// tariff that reaches storage passes through it.
func NewTariff(venueID uint64, day Weekday, start, end ClockTime, price Money, title string) (*Tariff, error) {
	ve := &ValidationError{}
	if venueID == 0 {
		ve.Add("venue_id", "this field is required")
	}
	checkTariffFields(ve, day, start, end, price, title)
	if err := ve.Err(); err != nil {
		return nil, err
	}
	return &Tariff{
		VenueID:   venueID,
		DayOfWeek: day,
		StartTime: start,
		EndTime:   end,
		Price:     price,
		Title:     strings.TrimSpace(title),
	}, nil
}

func checkTariffFields(ve *ValidationError, day Weekday, start, end ClockTime, price Money, title string) {
	if !day.Valid() {
		ve.Add("day_of_week", "must be between 0 (Sunday) and 6 (Saturday)")
	}
	if start < 0 || start >= secondsPerDay {
		ve.Add("start_time", "invalid time")
	}
	if end < 0 || end >= secondsPerDay {
		ve.Add("end_time", "invalid time")
	}
	if err := ValidateInterval(start, end); err != nil {
		ve.Add("end_time", "end time must be after start time")
	}
	if price < 0 {
		ve.Add("price", "ensure this value is greater than or equal to 0")
	} else if price > MaxPrice {
		ve.Add("price", "ensure there are no more than 10 digits in total")
	}
	if utf8.RuneCountInString(strings.TrimSpace(title)) > maxTariffTitleLen {
		ve.Add("title", "ensure this field has no more than 100 characters")
	}
}

// TariffInput is the request body for a new tariff.  Pointers distinguish a
// missing field from a zero value.
type TariffInput struct {
	VenueID   uint64     `json:"venue_id"`
	DayOfWeek *Weekday   `json:"day_of_week"`
	StartTime *ClockTime `json:"start_time"`
	EndTime   *ClockTime `json:"end_time"`
	Price     *Money     `json:"price"`
	Title     string     `json:"title"`
}

// Build checks required fields and hands over to NewTariff.
func (in TariffInput) Build(venueID uint64) (*Tariff, error) {
	ve := &ValidationError{}
	if in.DayOfWeek == nil {
		ve.Add("day_of_week", "this field is required")
	}
	if in.StartTime == nil {
		ve.Add("start_time", "this field is required")
	}
	if in.EndTime == nil {
		ve.Add("end_time", "this field is required")
	}
	if in.Price == nil {
		ve.Add("price", "this field is required")
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}
	return NewTariff(venueID, *in.DayOfWeek, *in.StartTime, *in.EndTime, *in.Price, in.Title)
}

// TariffPatch is a partial tariff update.  The merged interval is
// re-validated, so moving only one bound can still fail.
type TariffPatch struct {
	DayOfWeek *Weekday   `json:"day_of_week"`
	StartTime *ClockTime `json:"start_time"`
	EndTime   *ClockTime `json:"end_time"`
	Price     *Money     `json:"price"`
	Title     *string    `json:"title"`
}

// Apply merges p into a copy of t.
func (p TariffPatch) Apply(t Tariff) (*Tariff, error) {
	if p.DayOfWeek != nil {
		t.DayOfWeek = *p.DayOfWeek
	}
	if p.StartTime != nil {
		t.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		t.EndTime = *p.EndTime
	}
	if p.Price != nil {
		t.Price = *p.Price
	}
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	ve := &ValidationError{}
	checkTariffFields(ve, t.DayOfWeek, t.StartTime, t.EndTime, t.Price, t.Title)
	if err := ve.Err(); err != nil {
		return nil, err
	}
	return &t, nil
}

// TariffFilter holds the optional tariff list filters.
type TariffFilter struct {
	Scope     Visibility
	VenueID   *uint64
	ClubID    *uint64
	SportID   *uint64
	DayOfWeek *Weekday
	PriceMin  *Money
	PriceMax  *Money
	StartFrom *ClockTime
	StartTo   *ClockTime
	VenueName string
}

// Match applies the filter to a tariff and its parent venue.
func (f TariffFilter) Match(t Tariff, v Venue) bool {
	if !f.Scope.Allows(v) {
		return false
	}
	if f.VenueID != nil && t.VenueID != *f.VenueID {
		return false
	}
	if f.ClubID != nil && v.ClubID != *f.ClubID {
		return false
	}
	if f.SportID != nil && v.SportID != *f.SportID {
		return false
	}
	if f.DayOfWeek != nil && t.DayOfWeek != *f.DayOfWeek {
		return false
	}
	if f.PriceMin != nil && t.Price < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && t.Price > *f.PriceMax {
		return false
	}
	if f.StartFrom != nil && t.StartTime < *f.StartFrom {
		return false
	}
	if f.StartTo != nil && t.StartTime > *f.StartTo {
		return false
	}
	return containsFold(v.Name, f.VenueName)
}

// SortSchedule orders tariffs as a weekly schedule: day, then start, then id.
func SortSchedule(ts []Tariff) {
	sort.SliceStable(ts, func(i, j int) bool {
		a, b := ts[i], ts[j]
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek < b.DayOfWeek
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.ID < b.ID
	})
}

// SortTariffs orders a cross-venue listing: venue, then the schedule order.
func SortTariffs(ts []Tariff) {
	SortSchedule(ts)
	sort.SliceStable(ts, func(i, j int) bool { return ts[i].VenueID < ts[j].VenueID })
}

// PriceQuote is the answer to "what does this venue cost at this moment".
type PriceQuote struct {
	VenueID    uint64    `json:"venue_id"`
	DayOfWeek  Weekday   `json:"day_of_week"`
	At         ClockTime `json:"time"`
	Tariff     Tariff    `json:"tariff"`
	Candidates int       `json:"candidates"`
	Ambiguous  bool      `json:"ambiguous"`
}

// ResolvePrice picks the tariff covering (day, at).  Overlapping tariffs
// are allowed; the earliest created one wins, ties broken by lowest id.
// ok is false when no tariff covers the moment.
func ResolvePrice(ts []Tariff, day Weekday, at ClockTime) (quote PriceQuote, ok bool) {
	var best *Tariff
	n := 0
	for i := range ts {
		t := &ts[i]
		if !t.Covers(day, at) {
			continue
		}
		n++
		if best == nil || earlier(t, best) {
			best = t
		}
	}
	if best == nil {
		return PriceQuote{}, false
	}
	return PriceQuote{
		VenueID:    best.VenueID,
		DayOfWeek:  day,
		At:         at,
		Tariff:     *best,
		Candidates: n,
		Ambiguous:  n > 1,
	}, true
}

func earlier(a, b *Tariff) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
