// Package testutil provides an in-memory implementation of the service
// stores.  It mirrors the MySQL schema's keys and constraints so service and
// handler tests exercise the same failure modes as production.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/canchaya/canchas-api/internal/actor"
	"github.com/canchaya/canchas-api/internal/model"
)

// Seeded master data.
const (
	DeptAntioquia    uint64 = 1
	DeptCundinamarca uint64 = 2

	CityMedellin uint64 = 1
	CityEnvigado uint64 = 2
	CityBogota   uint64 = 3

	SportSoccer     uint64 = 1
	SportTennis     uint64 = 2
	SportBasketball uint64 = 3
)

// Store is safe for concurrent use.
type Store struct {
	mu sync.Mutex

	now  time.Time
	next uint64

	departments map[uint64]model.Department
	cities      map[uint64]model.City
	sports      map[uint64]model.Sport
	users       map[uint64]model.User
	clubs       map[uint64]model.Club
	athletes    map[uint64]model.Athlete
	venues      map[uint64]model.Venue
	tariffs     map[uint64]model.Tariff
}

// NewStore returns a store seeded with two departments, three cities and
// three sports.
func NewStore() *Store {
	s := &Store{
		now:         time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		next:        100,
		departments: map[uint64]model.Department{},
		cities:      map[uint64]model.City{},
		sports:      map[uint64]model.Sport{},
		users:       map[uint64]model.User{},
		clubs:       map[uint64]model.Club{},
		athletes:    map[uint64]model.Athlete{},
		venues:      map[uint64]model.Venue{},
		tariffs:     map[uint64]model.Tariff{},
	}
	s.departments[DeptAntioquia] = model.Department{ID: DeptAntioquia, Name: "Antioquia"}
	s.departments[DeptCundinamarca] = model.Department{ID: DeptCundinamarca, Name: "Cundinamarca"}
	s.cities[CityMedellin] = model.City{ID: CityMedellin, DepartmentID: DeptAntioquia, Name: "Medellín"}
	s.cities[CityEnvigado] = model.City{ID: CityEnvigado, DepartmentID: DeptAntioquia, Name: "Envigado"}
	s.cities[CityBogota] = model.City{ID: CityBogota, DepartmentID: DeptCundinamarca, Name: "Bogotá"}
	s.sports[SportSoccer] = model.Sport{ID: SportSoccer, Name: "Fútbol"}
	s.sports[SportTennis] = model.Sport{ID: SportTennis, Name: "Tenis"}
	s.sports[SportBasketball] = model.Sport{ID: SportBasketball, Name: "Baloncesto"}
	return s
}

// tick advances the fake clock by one second so creation order is
// observable in CreatedAt.
func (s *Store) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

func (s *Store) id() uint64 {
	s.next++
	return s.next
}

// AddClub creates a club account in cityID and returns it as an actor.
func (s *Store) AddClub(name string, cityID uint64) actor.Club {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := model.User{ID: s.id(), Email: strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@clubs.test",
		Kind: model.KindClub, IsActive: true, CreatedAt: s.tick()}
	s.users[u.ID] = u
	c := model.Club{ID: s.id(), UserID: u.ID, Name: name, Address: "Calle 10 # 20-30", Phone: "6045550000",
		DepartmentID: s.cities[cityID].DepartmentID, CityID: cityID, IsActive: true}
	s.clubs[c.ID] = c
	return actor.Club{UserID: u.ID, ClubID: c.ID}
}

// AddAthlete creates an athlete account and returns it as an actor.
func (s *Store) AddAthlete(first string) actor.Athlete {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := model.User{ID: s.id(), Email: strings.ToLower(first) + "@athletes.test", Kind: model.KindAthlete,
		IsActive: true, CreatedAt: s.tick()}
	s.users[u.ID] = u
	a := model.Athlete{ID: s.id(), UserID: u.ID, FirstName: first, LastName: "Test", Document: "D" + first, IsActive: true}
	s.athletes[a.ID] = a
	return actor.Athlete{UserID: u.ID, AthleteID: a.ID}
}

// VenueCount and TariffCount expose raw row counts for assertions.
func (s *Store) VenueCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.venues)
}

func (s *Store) TariffCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tariffs)
}

// ---- venues ----

func (s *Store) hydrateVenue(v model.Venue) model.Venue {
	c := s.clubs[v.ClubID]
	v.ClubName = c.Name
	v.SportName = s.sports[v.SportID].Name
	v.CityID = c.CityID
	v.CityName = s.cities[c.CityID].Name
	v.DepartmentID = c.DepartmentID
	v.DepartmentName = s.departments[c.DepartmentID].Name
	return v
}

func (s *Store) checkVenueRow(v *model.Venue) error {
	if _, ok := s.clubs[v.ClubID]; !ok {
		return model.ErrForbidden
	}
	if _, ok := s.sports[v.SportID]; !ok {
		return model.NewValidationError("sport_id", "sport does not exist")
	}
	for _, o := range s.venues {
		if o.ID != v.ID && o.ClubID == v.ClubID && model.SameVenueName(o.Name, v.Name) {
			return model.DuplicateVenueName()
		}
	}
	return nil
}

func (s *Store) CreateVenue(_ context.Context, v *model.Venue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.ID = 0
	if err := s.checkVenueRow(v); err != nil {
		return err
	}
	row := *v
	row.ID = s.id()
	row.CreatedAt = s.tick()
	row.UpdatedAt = row.CreatedAt
	s.venues[row.ID] = row
	*v = s.hydrateVenue(row)
	return nil
}

func (s *Store) GetVenue(_ context.Context, id uint64) (*model.Venue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.venues[id]
	if !ok {
		return nil, &model.NotFoundError{Resource: "venue", ID: id}
	}
	v = s.hydrateVenue(v)
	return &v, nil
}

func (s *Store) ListVenues(_ context.Context, f model.VenueFilter) ([]model.Venue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Venue{}
	for _, v := range s.venues {
		if v = s.hydrateVenue(v); f.Match(v) {
			out = append(out, v)
		}
	}
	model.SortVenues(out)
	return out, nil
}

func (s *Store) UpdateVenue(_ context.Context, v *model.Venue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.venues[v.ID]
	if !ok {
		return &model.NotFoundError{Resource: "venue", ID: v.ID}
	}
	if err := s.checkVenueRow(v); err != nil {
		return err
	}
	row := *v
	row.ClubID = cur.ClubID
	row.CreatedAt = cur.CreatedAt
	row.UpdatedAt = s.tick()
	s.venues[row.ID] = row
	*v = s.hydrateVenue(row)
	return nil
}

// DeleteVenue cascades to the venue's tariffs, like fk_tariffs_venue.
func (s *Store) DeleteVenue(_ context.Context, id uint64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.venues[id]; !ok {
		return 0, &model.NotFoundError{Resource: "venue", ID: id}
	}
	removed := 0
	for tid, t := range s.tariffs {
		if t.VenueID == id {
			delete(s.tariffs, tid)
			removed++
		}
	}
	delete(s.venues, id)
	return removed, nil
}

func (s *Store) VenueNameTaken(_ context.Context, clubID uint64, name string, excludeID uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.venues {
		if v.ID != excludeID && v.ClubID == clubID && model.SameVenueName(v.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ClubContact(_ context.Context, clubID uint64) (*model.ClubContact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clubs[clubID]
	if !ok {
		return nil, &model.NotFoundError{Resource: "club", ID: clubID}
	}
	return &model.ClubContact{ID: c.ID, Name: c.Name, Email: s.users[c.UserID].Email, Phone: c.Phone,
		Address: c.Address, OpeningHours: c.OpeningHours}, nil
}

// ---- tariffs ----

func (s *Store) hydrateTariff(t model.Tariff) model.Tariff {
	v := s.venues[t.VenueID]
	t.VenueName = v.Name
	t.ClubID = v.ClubID
	t.VenueActive = v.IsActive
	return t
}

// checkTariffRow plays the part of the tariffs CHECK constraints and the
// venue foreign key.
func (s *Store) checkTariffRow(t *model.Tariff) error {
	if _, ok := s.venues[t.VenueID]; !ok {
		return &model.NotFoundError{Resource: "venue", ID: t.VenueID}
	}
	if !t.DayOfWeek.Valid() {
		return model.NewValidationError("day_of_week", "must be between 0 (Sunday) and 6 (Saturday)")
	}
	if t.EndTime <= t.StartTime {
		return model.NewValidationError("end_time", "end time must be after start time")
	}
	if t.Price < 0 {
		return model.NewValidationError("price", "ensure this value is greater than or equal to 0")
	}
	return nil
}

func (s *Store) CreateTariff(_ context.Context, t *model.Tariff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkTariffRow(t); err != nil {
		return err
	}
	row := *t
	row.ID = s.id()
	row.CreatedAt = s.tick()
	row.UpdatedAt = row.CreatedAt
	s.tariffs[row.ID] = row
	*t = s.hydrateTariff(row)
	return nil
}

func (s *Store) GetTariff(_ context.Context, id uint64) (*model.Tariff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tariffs[id]
	if !ok {
		return nil, &model.NotFoundError{Resource: "tariff", ID: id}
	}
	t = s.hydrateTariff(t)
	return &t, nil
}

func (s *Store) ListVenueTariffs(_ context.Context, venueID uint64) ([]model.Tariff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Tariff{}
	for _, t := range s.tariffs {
		if t.VenueID == venueID {
			out = append(out, s.hydrateTariff(t))
		}
	}
	model.SortSchedule(out)
	return out, nil
}

func (s *Store) ListTariffs(_ context.Context, f model.TariffFilter) ([]model.Tariff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Tariff{}
	for _, t := range s.tariffs {
		v := s.hydrateVenue(s.venues[t.VenueID])
		if f.Match(t, v) {
			out = append(out, s.hydrateTariff(t))
		}
	}
	model.SortTariffs(out)
	return out, nil
}

func (s *Store) UpdateTariff(_ context.Context, t *model.Tariff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.tariffs[t.ID]
	if !ok {
		return &model.NotFoundError{Resource: "tariff", ID: t.ID}
	}
	row := *t
	row.VenueID = cur.VenueID
	if err := s.checkTariffRow(&row); err != nil {
		return err
	}
	row.CreatedAt = cur.CreatedAt
	row.UpdatedAt = s.tick()
	s.tariffs[row.ID] = row
	*t = s.hydrateTariff(row)
	return nil
}

func (s *Store) DeleteTariff(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tariffs[id]; !ok {
		return &model.NotFoundError{Resource: "tariff", ID: id}
	}
	delete(s.tariffs, id)
	return nil
}

// ---- catalog ----

func (s *Store) citiesOf(deptID uint64, search string) []model.City {
	out := []model.City{}
	for _, c := range s.cities {
		if (deptID == 0 || c.DepartmentID == deptID) && contains(c.Name, search) {
			c.DepartmentName = s.departments[c.DepartmentID].Name
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DepartmentName != out[j].DepartmentName {
			return out[i].DepartmentName < out[j].DepartmentName
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (s *Store) ListDepartments(_ context.Context, search string) ([]model.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Department{}
	for _, d := range s.departments {
		if contains(d.Name, search) {
			d.Cities = s.citiesOf(d.ID, "")
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetDepartment(_ context.Context, id uint64) (*model.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.departments[id]
	if !ok {
		return nil, &model.NotFoundError{Resource: "department", ID: id}
	}
	d.Cities = s.citiesOf(id, "")
	return &d, nil
}

func (s *Store) ListCities(_ context.Context, f model.CityFilter) ([]model.City, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var dept uint64
	if f.DepartmentID != nil {
		dept = *f.DepartmentID
	}
	return s.citiesOf(dept, f.Search), nil
}

func (s *Store) GetCity(_ context.Context, id uint64) (*model.City, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cities[id]
	if !ok {
		return nil, &model.NotFoundError{Resource: "city", ID: id}
	}
	c.DepartmentName = s.departments[c.DepartmentID].Name
	return &c, nil
}

func (s *Store) CityInDepartment(_ context.Context, cityID, departmentID uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cities[cityID]
	return ok && c.DepartmentID == departmentID, nil
}

func (s *Store) ListSports(_ context.Context, search string) ([]model.Sport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Sport{}
	for _, sp := range s.sports {
		if contains(sp.Name, search) {
			out = append(out, sp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetSport(_ context.Context, id uint64) (*model.Sport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.sports[id]
	if !ok {
		return nil, &model.NotFoundError{Resource: "sport", ID: id}
	}
	return &sp, nil
}

func contains(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// ---- users ----

func (s *Store) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, &model.NotFoundError{Resource: "user"}
}

func (s *Store) GetUserByID(_ context.Context, id uint64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, &model.NotFoundError{Resource: "user", ID: id}
	}
	return &u, nil
}

func (s *Store) insertUser(u *model.User) error {
	for _, o := range s.users {
		if o.Email == u.Email {
			return model.NewValidationError("email", "a user with this email already exists")
		}
	}
	u.ID = s.id()
	u.IsActive = true
	u.CreatedAt = s.tick()
	s.users[u.ID] = *u
	return nil
}

func (s *Store) CreateClub(_ context.Context, u *model.User, c *model.Club) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.NIT != "" {
		for _, o := range s.clubs {
			if o.NIT == c.NIT {
				return model.NewValidationError("nit", "a club with this NIT already exists")
			}
		}
	}
	if _, ok := s.departments[c.DepartmentID]; !ok {
		return model.NewValidationError("department_id", "department does not exist")
	}
	if _, ok := s.cities[c.CityID]; !ok {
		return model.NewValidationError("city_id", "city does not exist")
	}
	if err := s.insertUser(u); err != nil {
		return err
	}
	c.ID = s.id()
	c.UserID = u.ID
	c.IsActive = true
	s.clubs[c.ID] = *c
	return nil
}

func (s *Store) CreateAthlete(_ context.Context, u *model.User, a *model.Athlete) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.athletes {
		if o.Document == a.Document {
			return model.NewValidationError("document", "an athlete with this document already exists")
		}
	}
	if a.FavoriteSportID != nil {
		if _, ok := s.sports[*a.FavoriteSportID]; !ok {
			return model.NewValidationError("favorite_sport_id", "sport does not exist")
		}
	}
	if err := s.insertUser(u); err != nil {
		return err
	}
	a.ID = s.id()
	a.UserID = u.ID
	a.IsActive = true
	s.athletes[a.ID] = *a
	return nil
}

func (s *Store) ClubByUserID(_ context.Context, userID uint64) (*model.Club, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clubs {
		if c.UserID == userID {
			c.DepartmentName = s.departments[c.DepartmentID].Name
			c.CityName = s.cities[c.CityID].Name
			return &c, nil
		}
	}
	return nil, &model.NotFoundError{Resource: "club"}
}

func (s *Store) AthleteByUserID(_ context.Context, userID uint64) (*model.Athlete, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.athletes {
		if a.UserID == userID {
			return &a, nil
		}
	}
	return nil, &model.NotFoundError{Resource: "athlete"}
}

func (s *Store) EmailTaken(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) NITTaken(_ context.Context, nit string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clubs {
		if c.NIT == nit {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) DocumentTaken(_ context.Context, document string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.athletes {
		if a.Document == document {
			return true, nil
		}
	}
	return false, nil
}

// Publisher records published events in memory.
type Publisher struct {
	mu     sync.Mutex
	Keys   []string
	Events []any
	Err    error
}

func (p *Publisher) PublishJSON(_ context.Context, key string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Keys = append(p.Keys, key)
	p.Events = append(p.Events, v)
	return nil
}

// Published returns a copy of the routing keys seen so far.
func (p *Publisher) Published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.Keys...)
}
