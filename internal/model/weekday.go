package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Weekday enumerates tariff days.  0 is Sunday, which matches time.Weekday.
type Weekday uint8

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var weekdayNames = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Client-facing names, as rendered in day_of_week_display.
var weekdayDisplay = [...]string{"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"}

// Valid reports whether d is within 0..6.
func (d Weekday) Valid() bool { return d <= Saturday }

// String returns the English day name, or "Weekday(n)" when out of range.
func (d Weekday) String() string {
	if !d.Valid() {
		return "Weekday(" + strconv.Itoa(int(d)) + ")"
	}
	return weekdayNames[d]
}

// Display returns the Spanish day name shown to clients, or String() when
// out of range.
func (d Weekday) Display() string {
	if !d.Valid() {
		return d.String()
	}
	return weekdayDisplay[d]
}

// WeekdayOf returns the tariff day for t in t's own location.
func WeekdayOf(t time.Time) Weekday { return Weekday(t.Weekday()) }

// ParseWeekday accepts a number 0..6 or an English or Spanish day name
// (case-insensitive).
func ParseWeekday(s string) (Weekday, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > int(Saturday) {
			return 0, fmt.Errorf("day_of_week must be between 0 and 6")
		}
		return Weekday(n), nil
	}
	for i := range weekdayNames {
		if strings.EqualFold(weekdayNames[i], s) || strings.EqualFold(weekdayDisplay[i], s) {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("invalid day_of_week %q", s)
}

// UnmarshalJSON accepts only integers; the range is checked by validation.
func (d *Weekday) UnmarshalJSON(b []byte) error {
	n, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil || n < 0 || n > 255 {
		return fmt.Errorf("day_of_week must be an integer between 0 and 6")
	}
	*d = Weekday(n)
	return nil
}
