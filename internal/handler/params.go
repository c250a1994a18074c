package handler

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/canchaya/canchas-api/internal/model"
)

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, model.NewValidationError(name, "must be a positive integer")
	}
	return id, nil
}

// query reads optional filters from the query string.  Malformed values
// are collected so the client gets every bad field in one response.
type query struct {
	c  echo.Context
	ve model.ValidationError
}

func newQuery(c echo.Context) *query { return &query{c: c} }

func (q *query) raw(name string) (string, bool) {
	v := strings.TrimSpace(q.c.QueryParam(name))
	return v, v != ""
}

func (q *query) text(name string) string {
	v, _ := q.raw(name)
	return v
}

func (q *query) id(name string) *uint64 {
	s, ok := q.raw(name)
	if !ok {
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		q.ve.Add(name, "must be a positive integer")
		return nil
	}
	return &n
}

func (q *query) int(name string) *int {
	s, ok := q.raw(name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		q.ve.Add(name, "must be an integer")
		return nil
	}
	return &n
}

func (q *query) bool(name string) *bool {
	s, ok := q.raw(name)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		q.ve.Add(name, "must be true or false")
		return nil
	}
	return &b
}

func (q *query) weekday(name string) *model.Weekday {
	s, ok := q.raw(name)
	if !ok {
		return nil
	}
	d, err := model.ParseWeekday(s)
	if err != nil {
		q.ve.Add(name, err.Error())
		return nil
	}
	return &d
}

func (q *query) money(name string) *model.Money {
	s, ok := q.raw(name)
	if !ok {
		return nil
	}
	m, err := model.ParseMoney(s)
	if err != nil {
		q.ve.Add(name, "must be a decimal amount")
		return nil
	}
	return &m
}

func (q *query) clock(name string) *model.ClockTime {
	s, ok := q.raw(name)
	if !ok {
		return nil
	}
	t, err := model.ParseClockTime(s)
	if err != nil {
		q.ve.Add(name, "must be a time of day (HH:MM or HH:MM:SS)")
		return nil
	}
	return &t
}

func (q *query) err() error { return q.ve.Err() }
