package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"makazi/internal/app"
	"makazi/internal/domain"
)

// ---- fakes ----

type fakeAuthAPI struct {
	result   domain.AuthResult
	err      error
	counts   domain.SiteCounts
	loginEmail string
}

func (f *fakeAuthAPI) Login(ctx context.Context, email, password string) (domain.AuthResult, error) {
	f.loginEmail = email
	return f.result, f.err
}
func (f *fakeAuthAPI) Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResult, error) {
	return f.result, f.err
}
func (f *fakeAuthAPI) VerifyEmail(ctx context.Context, email, code string) (domain.AuthResult, error) {
	return f.result, f.err
}
func (f *fakeAuthAPI) PublicCounts(ctx context.Context) (domain.SiteCounts, error) {
	return f.counts, f.err
}

type fakeSessionStore struct {
	saved    map[string]domain.Session
	lang     map[string]string
	pages    map[string]string
	saveErr  error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		saved: map[string]domain.Session{},
		lang:  map[string]string{},
		pages: map[string]string{},
	}
}

func (f *fakeSessionStore) SaveSession(ctx context.Context, s domain.Session) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved[s.Token] = s
	return nil
}
func (f *fakeSessionStore) GetSession(ctx context.Context, token string) (domain.Session, bool, error) {
	s, ok := f.saved[token]
	return s, ok, nil
}
func (f *fakeSessionStore) ClearSession(ctx context.Context, token string) error {
	delete(f.saved, token)
	return nil
}
func (f *fakeSessionStore) SetLanguage(ctx context.Context, token, lang string) error {
	f.lang[token] = lang
	return nil
}
func (f *fakeSessionStore) Language(ctx context.Context, token string) (string, error) {
	if l, ok := f.lang[token]; ok {
		return l, nil
	}
	return "en", nil
}
func (f *fakeSessionStore) SetPageContent(ctx context.Context, key, text string) error {
	f.pages[key] = text
	return nil
}
func (f *fakeSessionStore) PageContent(ctx context.Context, key string) (string, error) {
	return f.pages[key], nil
}

// ---- tests ----

func TestLogin_PersistsSessionAndNormalizesRole(t *testing.T) {
	api := &fakeAuthAPI{result: domain.AuthResult{
		Token: "tok-abc",
		User:  domain.User{ID: 1, Email: "jo@example.com", Role: "USERS"},
	}}
	store := newFakeSessionStore()
	svc := app.NewSessionService(api, store, zerolog.Nop())

	res, err := svc.Login(context.Background(), "jo@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Redirect != "/dashboard" {
		t.Fatalf("redirect = %q, want /dashboard", res.Redirect)
	}
	saved, ok := store.saved["tok-abc"]
	if !ok {
		t.Fatal("session not persisted")
	}
	if saved.Role != domain.RoleUser {
		t.Fatalf("role = %q, want normalized user", saved.Role)
	}
}

func TestLogin_AdminRedirectsToAdmin(t *testing.T) {
	api := &fakeAuthAPI{result: domain.AuthResult{
		Token: "tok-adm",
		User:  domain.User{ID: 2, Role: "admin"},
	}}
	svc := app.NewSessionService(api, newFakeSessionStore(), zerolog.Nop())

	res, err := svc.Login(context.Background(), "root@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Redirect != "/admin" {
		t.Fatalf("redirect = %q, want /admin", res.Redirect)
	}
	if res.Session.Role != domain.RoleAdmin {
		t.Fatalf("role = %q", res.Session.Role)
	}
}

func TestLogin_UnknownRoleGatesAsUser(t *testing.T) {
	api := &fakeAuthAPI{result: domain.AuthResult{
		Token: "tok-x",
		User:  domain.User{ID: 3, Role: "superduper"},
	}}
	svc := app.NewSessionService(api, newFakeSessionStore(), zerolog.Nop())

	res, err := svc.Login(context.Background(), "x@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Session.Role != domain.RoleUser {
		t.Fatalf("unknown role should gate as user, got %q", res.Session.Role)
	}
	if res.Redirect != "/dashboard" {
		t.Fatalf("redirect = %q", res.Redirect)
	}
}

func TestLogin_UpstreamErrorBubbles(t *testing.T) {
	api := &fakeAuthAPI{err: errors.New("Invalid credentials")}
	store := newFakeSessionStore()
	svc := app.NewSessionService(api, store, zerolog.Nop())

	_, err := svc.Login(context.Background(), "jo@example.com", "wrong")
	if err == nil || err.Error() != "Invalid credentials" {
		t.Fatalf("err = %v", err)
	}
	if len(store.saved) != 0 {
		t.Fatal("nothing should be persisted on failed login")
	}
}

func TestRegister_WithoutTokenDoesNotPersist(t *testing.T) {
	api := &fakeAuthAPI{result: domain.AuthResult{User: domain.User{ID: 9, Role: "users"}}}
	store := newFakeSessionStore()
	svc := app.NewSessionService(api, store, zerolog.Nop())

	res, err := svc.Register(context.Background(), domain.RegisterRequest{Email: "n@example.com"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.Session.Token != "" || len(store.saved) != 0 {
		t.Fatal("verification-pending registration must not establish a session")
	}
}

func TestLogoutAndCurrent(t *testing.T) {
	store := newFakeSessionStore()
	store.saved["tok"] = domain.Session{Token: "tok", Role: domain.RoleOwner}
	svc := app.NewSessionService(&fakeAuthAPI{}, store, zerolog.Nop())
	ctx := context.Background()

	s, ok, _ := svc.Current(ctx, "tok")
	if !ok || s.Role != domain.RoleOwner {
		t.Fatalf("current: %+v %v", s, ok)
	}
	if _, ok, _ := svc.Current(ctx, ""); ok {
		t.Fatal("empty token must not resolve a session")
	}
	if err := svc.Logout(ctx, "tok"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok, _ := svc.Current(ctx, "tok"); ok {
		t.Fatal("session survived logout")
	}
}
