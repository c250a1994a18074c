package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/canchaya/canchas-api/internal/actor"
	"github.com/canchaya/canchas-api/internal/metrics"
	"github.com/canchaya/canchas-api/internal/model"
	"github.com/canchaya/canchas-api/internal/testutil"
)

type fixture struct {
	store   *testutil.Store
	events  *testutil.Publisher
	rec     *metrics.Recorder
	venues  *VenueService
	tariffs *TariffService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore()
	events := &testutil.Publisher{}
	rec := metrics.NewRecorder()
	obs := Observers{Events: events, Metrics: rec}
	return &fixture{
		store:   store,
		events:  events,
		rec:     rec,
		venues:  NewVenueService(store, store, obs),
		tariffs: NewTariffService(store, store, obs),
	}
}

func (f *fixture) venue(t *testing.T, club actor.Club, name string) *model.Venue {
	t.Helper()
	v, err := f.venues.Create(context.Background(), club, model.VenueInput{SportID: testutil.SportSoccer, Name: name})
	require.NoError(t, err)
	return v
}

func (f *fixture) tariff(t *testing.T, club actor.Club, venueID uint64, day model.Weekday, start, end model.ClockTime, price model.Money) *model.Tariff {
	t.Helper()
	tr, err := f.tariffs.Create(context.Background(), club, venueID, model.TariffInput{
		DayOfWeek: &day, StartTime: &start, EndTime: &end, Price: &price,
	})
	require.NoError(t, err)
	return tr
}

func ptr[T any](v T) *T { return &v }
