package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/canchaya/canchas-api/internal/actor"
	"github.com/canchaya/canchas-api/internal/metrics"
	"github.com/canchaya/canchas-api/internal/model"
	"github.com/canchaya/canchas-api/internal/queue"
	"github.com/canchaya/canchas-api/internal/testutil"
)

func TestTariffInvertedIntervalPersistsNothing(t *testing.T) {
	f := newFixture(t)
	club := f.store.AddClub("Club A", testutil.CityMedellin)
	v := f.venue(t, club, "Cancha")

	day, start, end, price := model.Monday, model.MustClock(18, 0), model.MustClock(17, 0), model.Units(50000)
	_, err := f.tariffs.Create(context.Background(), club, v.ID, model.TariffInput{
		DayOfWeek: &day, StartTime: &start, EndTime: &end, Price: &price,
	})
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "end_time")
	assert.Zero(t, f.store.TariffCount())
}

func TestTariffStoreRejectsInvertedIntervalOnItsOwn(t *testing.T) {
	f := newFixture(t)
	club := f.store.AddClub("Club A", testutil.CityMedellin)
	v := f.venue(t, club, "Cancha")

	err := f.store.CreateTariff(context.Background(), &model.Tariff{VenueID: v.ID, StartTime: model.MustClock(9, 0), EndTime: model.MustClock(9, 0)})
	assert.True(t, model.IsValidation(err))
	assert.Zero(t, f.store.TariffCount())
}

func TestTariffIntervalProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := newFixture(t)
		club := f.store.AddClub("Club A", testutil.CityMedellin)
		v, err := f.venues.Create(context.Background(), club, model.VenueInput{SportID: testutil.SportSoccer, Name: "Cancha"})
		if err != nil {
			rt.Fatal(err)
		}

		day := model.Weekday(rapid.IntRange(0, 6).Draw(rt, "day"))
		start := model.ClockTime(rapid.IntRange(0, 86399).Draw(rt, "start"))
		end := model.ClockTime(rapid.IntRange(0, 86399).Draw(rt, "end"))
		price := model.Cents(rapid.Int64Range(0, 1_000_000).Draw(rt, "price"))

		tr, err := f.tariffs.Create(context.Background(), club, v.ID, model.TariffInput{
			DayOfWeek: &day, StartTime: &start, EndTime: &end, Price: &price,
		})
		if end > start {
			if err != nil {
				rt.Fatalf("valid interval %s-%s rejected: %v", start, end, err)
			}
			if tr.EndTime <= tr.StartTime {
				rt.Fatalf("stored inverted interval %s-%s", tr.StartTime, tr.EndTime)
			}
			return
		}
		if !model.IsValidation(err) {
			rt.Fatalf("inverted interval %s-%s accepted: %v", start, end, err)
		}
		if n := f.store.TariffCount(); n != 0 {
			rt.Fatalf("persisted %d tariffs after rejection", n)
		}
	})
}

func TestTariffListByVenueIsWeeklySchedule(t *testing.T) {
	f := newFixture(t)
	club := f.store.AddClub("Club A", testutil.CityMedellin)
	v := f.venue(t, club, "Cancha")
	f.tariff(t, club, v.ID, model.Monday, model.MustClock(18, 0), model.MustClock(20, 0), model.Units(50000))
	f.tariff(t, club, v.ID, model.Sunday, model.MustClock(8, 0), model.MustClock(10, 0), model.Units(30000))
	f.tariff(t, club, v.ID, model.Monday, model.MustClock(6, 0), model.MustClock(8, 0), model.Units(20000))

	ts, err := f.tariffs.ListByVenue(context.Background(), actor.Anonymous{}, v.ID)
	require.NoError(t, err)
	require.Len(t, ts, 3)
	got := []string{}
	for _, tr := range ts {
		got = append(got, tr.DayOfWeek.String()+" "+tr.StartTime.String())
	}
	assert.Equal(t, []string{"Sunday 08:00:00", "Monday 06:00:00", "Monday 18:00:00"}, got)
}

func TestTariffCreateOwnership(t *testing.T) {
	f := newFixture(t)
	owner := f.store.AddClub("Club C", testutil.CityMedellin)
	other := f.store.AddClub("Club D", testutil.CityMedellin)
	v := f.venue(t, owner, "Cancha")
	day, start, end, price := model.Monday, model.MustClock(18, 0), model.MustClock(20, 0), model.Units(50000)
	in := model.TariffInput{DayOfWeek: &day, StartTime: &start, EndTime: &end, Price: &price}

	_, err := f.tariffs.Create(context.Background(), other, v.ID, in)
	assert.ErrorIs(t, err, model.ErrForbidden)
	_, err = f.tariffs.Create(context.Background(), f.store.AddAthlete("Ana"), v.ID, in)
	assert.ErrorIs(t, err, model.ErrForbidden)
	_, err = f.tariffs.Create(context.Background(), owner, 999, in)
	assert.True(t, model.IsNotFound(err))

	assert.Zero(t, f.store.TariffCount())
	assert.Equal(t, 2, f.rec.Mutations("tariff", "create", metrics.OutcomeForbidden))
}

func TestTariffCreateRequiresFields(t *testing.T) {
	f := newFixture(t)
	club := f.store.AddClub("Club A", testutil.CityMedellin)
	v := f.venue(t, club, "Cancha")

	_, err := f.tariffs.Create(context.Background(), club, v.ID, model.TariffInput{})
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Fields, 4)
}

func TestTariffUpdateAndDeleteGuarded(t *testing.T) {
	f := newFixture(t)
	owner := f.store.AddClub("Club A", testutil.CityMedellin)
	other := f.store.AddClub("Club B", testutil.CityMedellin)
	ctx := context.Background()
	v := f.venue(t, owner, "Cancha")
	tr := f.tariff(t, owner, v.ID, model.Monday, model.MustClock(18, 0), model.MustClock(20, 0), model.Units(50000))

	_, err := f.tariffs.Update(ctx, other, tr.ID, model.TariffPatch{Price: ptr(model.Units(1))})
	assert.ErrorIs(t, err, model.ErrForbidden)
	_, err = f.tariffs.Delete(ctx, other, tr.ID)
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = f.tariffs.Update(ctx, owner, tr.ID, model.TariffPatch{EndTime: ptr(model.MustClock(17, 0))})
	assert.True(t, model.IsValidation(err))

	got, err := f.tariffs.Update(ctx, owner, tr.ID, model.TariffPatch{Price: ptr(model.Units(55000)), Title: ptr("Nocturna")})
	require.NoError(t, err)
	assert.Equal(t, model.Units(55000), got.Price)
	assert.Equal(t, "Nocturna", got.Title)
	assert.Equal(t, model.MustClock(20, 0), got.EndTime)
	assert.Equal(t, tr.CreatedAt, got.CreatedAt)

	gone, err := f.tariffs.Delete(ctx, owner, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, tr.ID, gone.ID)
	assert.Zero(t, f.store.TariffCount())
	assert.Equal(t, 1, f.store.VenueCount())
	assert.Equal(t, []string{queue.VenueCreated, queue.TariffCreated, queue.TariffUpdated, queue.TariffDeleted}, f.events.Published())
}

func TestTariffListScopesAndFilters(t *testing.T) {
	f := newFixture(t)
	a := f.store.AddClub("Club A", testutil.CityMedellin)
	b := f.store.AddClub("Club B", testutil.CityMedellin)
	ctx := context.Background()
	va := f.venue(t, a, "Cancha A")
	vb := f.venue(t, b, "Cancha B")
	f.tariff(t, a, va.ID, model.Monday, model.MustClock(18, 0), model.MustClock(20, 0), model.Units(50000))
	f.tariff(t, a, va.ID, model.Monday, model.MustClock(6, 0), model.MustClock(8, 0), model.Units(20000))
	f.tariff(t, b, vb.ID, model.Monday, model.MustClock(18, 0), model.MustClock(20, 0), model.Units(60000))

	all, err := f.tariffs.List(ctx, actor.Anonymous{}, model.TariffFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	own, err := f.tariffs.List(ctx, b, model.TariffFilter{})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, vb.ID, own[0].VenueID)

	pricey, err := f.tariffs.List(ctx, actor.Anonymous{}, model.TariffFilter{PriceMin: ptr(model.Units(40000)), StartFrom: ptr(model.MustClock(17, 0))})
	require.NoError(t, err)
	assert.Len(t, pricey, 2)

	_, err = f.venues.Update(ctx, b, vb.ID, model.VenuePatch{IsActive: ptr(false)})
	require.NoError(t, err)
	all, err = f.tariffs.List(ctx, actor.Anonymous{}, model.TariffFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.tariffs.Get(ctx, actor.Anonymous{}, own[0].ID)
	assert.True(t, model.IsNotFound(err))
	_, err = f.tariffs.Get(ctx, b, own[0].ID)
	assert.NoError(t, err)
}

func TestResolvePriceDeterministicOnOverlap(t *testing.T) {
	f := newFixture(t)
	club := f.store.AddClub("Club A", testutil.CityMedellin)
	ctx := context.Background()
	v := f.venue(t, club, "Cancha")
	first := f.tariff(t, club, v.ID, model.Monday, model.MustClock(18, 0), model.MustClock(22, 0), model.Units(50000))
	f.tariff(t, club, v.ID, model.Monday, model.MustClock(19, 0), model.MustClock(20, 0), model.Units(40000))

	q, err := f.tariffs.ResolvePrice(ctx, actor.Anonymous{}, v.ID, model.Monday, model.MustClock(19, 30))
	require.NoError(t, err)
	assert.Equal(t, first.ID, q.Tariff.ID)
	assert.True(t, q.Ambiguous)
	assert.Equal(t, 2, q.Candidates)

	q, err = f.tariffs.ResolvePrice(ctx, actor.Anonymous{}, v.ID, model.Monday, model.MustClock(18, 0))
	require.NoError(t, err)
	assert.False(t, q.Ambiguous)

	_, err = f.tariffs.ResolvePrice(ctx, actor.Anonymous{}, v.ID, model.Monday, model.MustClock(22, 0))
	assert.True(t, model.IsNotFound(err))

	assert.Equal(t, 1, f.rec.PriceLookups(metrics.OutcomeAmbiguous))
	assert.Equal(t, 1, f.rec.PriceLookups(metrics.OutcomeMatched))
	assert.Equal(t, 1, f.rec.PriceLookups(metrics.OutcomeNoMatch))
}

func TestResolvePriceAtUsesVenueZone(t *testing.T) {
	f := newFixture(t)
	club := f.store.AddClub("Club A", testutil.CityMedellin)
	v := f.venue(t, club, "Cancha")
	tr := f.tariff(t, club, v.ID, model.Monday, model.MustClock(18, 0), model.MustClock(20, 0), model.Units(50000))

	bogota := time.FixedZone("COT", -5*3600)
	// Tuesday 00:30 UTC is Monday 19:30 in Bogotá.
	instant := time.Date(2025, 3, 4, 0, 30, 0, 0, time.UTC)
	q, err := f.tariffs.ResolvePriceAt(context.Background(), actor.Anonymous{}, v.ID, instant, bogota)
	require.NoError(t, err)
	assert.Equal(t, tr.ID, q.Tariff.ID)
	assert.Equal(t, model.Monday, q.DayOfWeek)
}

// Club C creates "Cancha Central", prices Monday evenings, club D is turned
// away, and the public sees the venue and its schedule.
func TestCanchaCentralScenario(t *testing.T) {
	f := newFixture(t)
	c := f.store.AddClub("Club C", testutil.CityMedellin)
	d := f.store.AddClub("Club D", testutil.CityMedellin)
	ctx := context.Background()

	v, err := f.venues.Create(ctx, c, model.VenueInput{SportID: testutil.SportSoccer, Name: "Cancha Central"})
	require.NoError(t, err)
	assert.True(t, v.IsActive)

	f.tariff(t, c, v.ID, model.Monday, model.MustClock(18, 0), model.MustClock(20, 0), model.Units(50000))

	day, start, end, price := model.Monday, model.MustClock(20, 0), model.MustClock(21, 0), model.Units(1)
	_, err = f.tariffs.Create(ctx, d, v.ID, model.TariffInput{DayOfWeek: &day, StartTime: &start, EndTime: &end, Price: &price})
	assert.ErrorIs(t, err, model.ErrForbidden)

	public, err := f.venues.List(ctx, actor.Anonymous{}, model.VenueFilter{})
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "Cancha Central", public[0].Name)

	ts, err := f.tariffs.ListByVenue(ctx, actor.Anonymous{}, v.ID)
	require.NoError(t, err)
	require.Len(t, ts, 1)
	assert.Equal(t, "50000.00", ts[0].Price.String())
}
