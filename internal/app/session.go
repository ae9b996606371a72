package app

import (
	"context"

	"github.com/rs/zerolog"

	"makazi/internal/domain"
)

// SessionService owns the login/logout lifecycle: it exchanges credentials
// for an upstream token, resolves the role once, and persists the session.
type SessionService struct {
	api   domain.AuthAPI
	store domain.SessionStore
	log   zerolog.Logger
}

func NewSessionService(api domain.AuthAPI, store domain.SessionStore, log zerolog.Logger) *SessionService {
	return &SessionService{api: api, store: store, log: log}
}

// LoginResult carries the persisted session plus where the frontend should
// land next.
type LoginResult struct {
	Session  domain.Session `json:"session"`
	Redirect string         `json:"redirect"`
}

func (s *SessionService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return LoginResult{}, err
	}
	return s.establish(ctx, res)
}

func (s *SessionService) Register(ctx context.Context, req domain.RegisterRequest) (LoginResult, error) {
	res, err := s.api.Register(ctx, req)
	if err != nil {
		return LoginResult{}, err
	}
	// Some deployments issue the token only after email verification; an
	// empty token means the caller must verify first.
	if res.Token == "" {
		return LoginResult{Session: domain.Session{User: res.User}}, nil
	}
	return s.establish(ctx, res)
}

func (s *SessionService) VerifyEmail(ctx context.Context, email, code string) (LoginResult, error) {
	res, err := s.api.VerifyEmail(ctx, email, code)
	if err != nil {
		return LoginResult{}, err
	}
	return s.establish(ctx, res)
}

func (s *SessionService) establish(ctx context.Context, res domain.AuthResult) (LoginResult, error) {
	role, err := domain.ParseRole(res.User.Role)
	if err != nil {
		// Unknown roles gate like a plain user; role is UX gating only, the
		// upstream still authorizes every call.
		s.log.Warn().Str("role", res.User.Role).Int64("user_id", res.User.ID).
			Msg("unknown role from upstream, treating as user")
		role = domain.RoleUser
	}
	sess := domain.Session{Token: res.Token, User: res.User, Role: role}
	if err := s.store.SaveSession(ctx, sess); err != nil {
		return LoginResult{}, err
	}

	redirect := "/dashboard"
	if role == domain.RoleAdmin {
		redirect = "/admin"
	}
	return LoginResult{Session: sess, Redirect: redirect}, nil
}

// Current resolves the session for a bearer token; a miss is not an error.
func (s *SessionService) Current(ctx context.Context, token string) (domain.Session, bool, error) {
	if token == "" {
		return domain.Session{}, false, nil
	}
	return s.store.GetSession(ctx, token)
}

func (s *SessionService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.store.ClearSession(ctx, token)
}

// Counts proxies the public landing-page counters; never authenticated.
func (s *SessionService) Counts(ctx context.Context) (domain.SiteCounts, error) {
	return s.api.PublicCounts(ctx)
}
