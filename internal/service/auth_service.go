package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/canchaya/canchas-api/internal/actor"
	"github.com/canchaya/canchas-api/internal/model"
	"github.com/canchaya/canchas-api/internal/utils"
)

var (
	// ErrInvalidCredentials covers unknown emails, wrong passwords and
	// deactivated accounts alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
)

type AuthConfig struct {
	Secret     string
	AccessTTL  time.Duration
	BcryptCost int
}

// Session is returned by registration and login.
type Session struct {
	User    *model.User    `json:"user"`
	Club    *model.Club    `json:"club,omitempty"`
	Athlete *model.Athlete `json:"athlete,omitempty"`
	utils.AccessToken
}

// Profile is the /me view.
type Profile struct {
	User    *model.User    `json:"user"`
	Club    *model.Club    `json:"club,omitempty"`
	Athlete *model.Athlete `json:"athlete,omitempty"`
}

type AuthService struct {
	users   UserStore
	catalog CatalogStore
	cfg     AuthConfig
	tracer  trace.Tracer
}

func NewAuthService(users UserStore, catalog CatalogStore, cfg AuthConfig) *AuthService {
	return &AuthService{users: users, catalog: catalog, cfg: cfg, tracer: otel.Tracer("canchas/auth")}
}

// RegisterAthlete creates an athlete account and signs it in.
func (s *AuthService) RegisterAthlete(ctx context.Context, in model.RegisterAthlete) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "auth.register_athlete")
	defer span.End()

	if err := in.Normalize(); err != nil {
		return nil, err
	}
	ve := &model.ValidationError{}
	if err := s.checkEmail(ctx, ve, in.Email); err != nil {
		return nil, err
	}
	if taken, err := s.users.DocumentTaken(ctx, in.Document); err != nil {
		return nil, err
	} else if taken {
		ve.Add("document", "an athlete with this document already exists")
	}
	if in.FavoriteSportID != nil {
		if _, err := s.catalog.GetSport(ctx, *in.FavoriteSportID); model.IsNotFound(err) {
			ve.Add("favorite_sport_id", "sport does not exist")
		} else if err != nil {
			return nil, err
		}
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	u, err := s.newUser(in.Credentials, model.KindAthlete)
	if err != nil {
		return nil, err
	}
	a := &model.Athlete{
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Phone:           in.Phone,
		Document:        in.Document,
		FavoriteSportID: in.FavoriteSportID,
	}
	if err := s.users.CreateAthlete(ctx, u, a); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("user.id", int64(u.ID)))
	return s.session(u, nil, a)
}

// RegisterClub creates a club account and signs it in.  The city must lie
// in the given department.
func (s *AuthService) RegisterClub(ctx context.Context, in model.RegisterClub) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "auth.register_club")
	defer span.End()

	if err := in.Normalize(); err != nil {
		return nil, err
	}
	ve := &model.ValidationError{}
	if err := s.checkEmail(ctx, ve, in.Email); err != nil {
		return nil, err
	}
	if in.NIT != "" {
		if taken, err := s.users.NITTaken(ctx, in.NIT); err != nil {
			return nil, err
		} else if taken {
			ve.Add("nit", "a club with this NIT already exists")
		}
	}
	ok, err := s.catalog.CityInDepartment(ctx, in.CityID, in.DepartmentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		ve.Add("city_id", "city does not belong to the selected department")
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	u, err := s.newUser(in.Credentials, model.KindClub)
	if err != nil {
		return nil, err
	}
	c := &model.Club{
		Name:         in.Name,
		NIT:          in.NIT,
		Address:      in.Address,
		Phone:        in.Phone,
		Phone2:       in.Phone2,
		OpeningHours: in.OpeningHours,
		Info:         in.Info,
		DepartmentID: in.DepartmentID,
		CityID:       in.CityID,
	}
	if err := s.users.CreateClub(ctx, u, c); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("user.id", int64(u.ID)))
	return s.session(u, c, nil)
}

func (s *AuthService) checkEmail(ctx context.Context, ve *model.ValidationError, email string) error {
	taken, err := s.users.EmailTaken(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		ve.Add("email", "a user with this email already exists")
	}
	return nil
}

func (s *AuthService) newUser(c model.Credentials, kind model.UserKind) (*model.User, error) {
	hash, err := utils.HashPassword(c.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	return &model.User{Email: c.Email, PasswordHash: hash, Kind: kind, IsActive: true}, nil
}

// Login checks credentials and issues an access token carrying the
// profile id of the account.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "auth.login")
	defer span.End()

	u, err := s.users.GetUserByEmail(ctx, email)
	if model.IsNotFound(err) {
		utils.BurnPasswordCheck(password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) || !u.IsActive {
		return nil, ErrInvalidCredentials
	}
	p, err := s.profile(ctx, u)
	if err != nil {
		return nil, err
	}
	return s.session(u, p.Club, p.Athlete)
}

// Me returns the profile of the authenticated actor.
func (s *AuthService) Me(ctx context.Context, a actor.Actor) (*Profile, error) {
	id := actor.UserID(a)
	if id == 0 {
		return nil, ErrUnauthenticated
	}
	u, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, u)
}

func (s *AuthService) profile(ctx context.Context, u *model.User) (*Profile, error) {
	p := &Profile{User: u}
	var err error
	switch u.Kind {
	case model.KindClub:
		p.Club, err = s.users.ClubByUserID(ctx, u.ID)
	case model.KindAthlete:
		p.Athlete, err = s.users.AthleteByUserID(ctx, u.ID)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *AuthService) session(u *model.User, c *model.Club, a *model.Athlete) (*Session, error) {
	var clubID, athleteID uint64
	if c != nil {
		clubID = c.ID
	}
	if a != nil {
		athleteID = a.ID
	}
	tok, err := utils.NewAccessToken(s.cfg.Secret, u.ID, string(u.Kind), clubID, athleteID, s.cfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Club: c, Athlete: a, AccessToken: tok}, nil
}

// ActorFromClaims turns verified token claims into an Actor.  A club token
// without a club id degrades to Anonymous so it can never pass the
// ownership guard.
func ActorFromClaims(c *utils.Claims) actor.Actor {
	uid, err := c.UserID()
	if err != nil || uid == 0 {
		return actor.Anonymous{}
	}
	switch model.UserKind(c.Kind) {
	case model.KindClub:
		if c.ClubID == 0 {
			return actor.Anonymous{}
		}
		return actor.Club{UserID: uid, ClubID: c.ClubID}
	case model.KindAthlete:
		return actor.Athlete{UserID: uid, AthleteID: c.AthleteID}
	}
	return actor.Anonymous{}
}
