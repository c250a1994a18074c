package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseClockTime(t *testing.T) {
	cases := map[string]ClockTime{
		"18:00":           MustClock(18, 0),
		"06:30:15":        ClockTime(6*3600 + 30*60 + 15),
		"7:05":            MustClock(7, 5),
		"23:59:59.000000": ClockTime(secondsPerDay - 1),
	}
	for in, want := range cases {
		got, err := ParseClockTime(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"", "24:00", "12", "12:60", "aa:bb", "1:2:3:4", "-1:00"} {
		_, err := ParseClockTime(bad)
		assert.Error(t, err, bad)
	}
}

func TestClockTimeStringRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := clockGen().Draw(rt, "c")
		back, err := ParseClockTime(c.String())
		if err != nil || back != c {
			rt.Fatalf("round trip %d -> %q -> %d (%v)", c, c.String(), back, err)
		}
	})
}

func TestClockTimeScan(t *testing.T) {
	var c ClockTime
	require.NoError(t, c.Scan([]byte("18:00:00")))
	assert.Equal(t, MustClock(18, 0), c)
	assert.Error(t, c.Scan(nil))
	assert.Error(t, c.Scan([]byte("838:59:59")))
}

func TestParseMoney(t *testing.T) {
	cases := map[string]Money{
		"50000":    Units(50000),
		"50000.5":  Cents(5000050),
		"50000.50": Cents(5000050),
		"0.05":     Cents(5),
		".5":       Cents(50),
		"-1.25":    Cents(-125),
	}
	for in, want := range cases {
		got, err := ParseMoney(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"", "1.234", "abc", "1e5", ".", "1,00"} {
		_, err := ParseMoney(bad)
		assert.Error(t, err, bad)
	}
}

func TestMoneyJSON(t *testing.T) {
	var m Money
	require.NoError(t, json.Unmarshal([]byte(`50000`), &m))
	assert.Equal(t, Units(50000), m)
	require.NoError(t, json.Unmarshal([]byte(`"12.30"`), &m))
	assert.Equal(t, Cents(1230), m)
	assert.Error(t, json.Unmarshal([]byte(`0.001`), &m))

	b, err := json.Marshal(Cents(1230))
	require.NoError(t, err)
	assert.JSONEq(t, `"12.30"`, string(b))
}

func TestMoneyStringRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		m := Money(rapid.Int64Range(-int64(MaxPrice), int64(MaxPrice)).Draw(rt, "m"))
		back, err := ParseMoney(m.String())
		if err != nil || back != m {
			rt.Fatalf("round trip %d -> %q -> %d (%v)", m, m.String(), back, err)
		}
	})
}

func TestParseWeekday(t *testing.T) {
	d, err := ParseWeekday("0")
	require.NoError(t, err)
	assert.Equal(t, Sunday, d)
	d, err = ParseWeekday("saturday")
	require.NoError(t, err)
	assert.Equal(t, Saturday, d)
	_, err = ParseWeekday("7")
	assert.Error(t, err)
	assert.Equal(t, "Weekday(9)", Weekday(9).String())
}

func TestWeekdayDisplayIsSpanish(t *testing.T) {
	want := map[Weekday]string{Sunday: "Domingo", Monday: "Lunes", Wednesday: "Miércoles", Saturday: "Sábado"}
	for d, name := range want {
		assert.Equal(t, name, d.Display())
	}
	assert.Equal(t, "Weekday(9)", Weekday(9).Display())

	for in, d := range map[string]Weekday{"lunes": Monday, "Miércoles": Wednesday, "SÁBADO": Saturday, "Tuesday": Tuesday} {
		got, err := ParseWeekday(in)
		require.NoError(t, err, in)
		assert.Equal(t, d, got, in)
	}
}

func TestValidationErrorErr(t *testing.T) {
	ve := &ValidationError{}
	assert.NoError(t, ve.Err())
	ve.Add("name", "first")
	ve.Add("name", "second")
	require.Error(t, ve.Err())
	assert.Equal(t, "first", ve.Fields["name"])
	assert.Equal(t, "validation failed: name: first", ve.Error())
}
