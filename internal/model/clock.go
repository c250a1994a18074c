package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ClockTime is a wall-clock time of day stored as seconds since midnight.
// It maps to a MySQL TIME column and renders as "HH:MM:SS".
type ClockTime int32

const secondsPerDay = 24 * 60 * 60

// NewClockTime builds a ClockTime from its parts.
func NewClockTime(hour, min, sec int) (ClockTime, error) {
	if hour < 0 || hour > 23 || min < 0 || min > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("invalid time %02d:%02d:%02d", hour, min, sec)
	}
	return ClockTime(hour*3600 + min*60 + sec), nil
}

// MustClock is NewClockTime for constants; it panics on invalid input.
func MustClock(hour, min int) ClockTime {
	c, err := NewClockTime(hour, min, 0)
	if err != nil {
		panic(err)
	}
	return c
}

// ClockOf returns the time of day of t in t's own location.
func ClockOf(t time.Time) ClockTime {
	return ClockTime(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

// ParseClockTime accepts "HH:MM" or "HH:MM:SS".  MySQL may append a
// fractional part ("18:00:00.000000"), which is dropped.
func ParseClockTime(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q, want HH:MM or HH:MM:SS", s)
	}
	nums := [3]int{}
	for i, p := range parts {
		if len(p) == 0 || len(p) > 2 {
			return 0, fmt.Errorf("invalid time %q, want HH:MM or HH:MM:SS", s)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("invalid time %q, want HH:MM or HH:MM:SS", s)
		}
		nums[i] = n
	}
	return NewClockTime(nums[0], nums[1], nums[2])
}

func (c ClockTime) Hour() int   { return int(c) / 3600 }
func (c ClockTime) Minute() int { return int(c) % 3600 / 60 }
func (c ClockTime) Second() int { return int(c) % 60 }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour(), c.Minute(), c.Second())
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("time must be a string like \"18:00\"")
	}
	v, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Scan implements sql.Scanner.  The mysql driver hands TIME columns over
// as text even with parseTime=true.
func (c *ClockTime) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return c.scanString(string(v))
	case string:
		return c.scanString(v)
	case time.Time:
		*c = ClockOf(v)
		return nil
	case nil:
		return fmt.Errorf("clock time: NULL value")
	default:
		return fmt.Errorf("clock time: unsupported type %T", src)
	}
}

func (c *ClockTime) scanString(s string) error {
	v, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Value implements driver.Valuer.
func (c ClockTime) Value() (driver.Value, error) {
	if c < 0 || c >= secondsPerDay {
		return nil, fmt.Errorf("clock time out of range: %d", int32(c))
	}
	return c.String(), nil
}
