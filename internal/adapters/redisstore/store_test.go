package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"

	"makazi/internal/domain"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return New(mr.Addr(), "", 0, time.Hour), mr
}

func TestSession_SaveGetClear(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	sess := domain.Session{
		Token: "opaque-token",
		User:  domain.User{ID: 5, Email: "jo@example.com", Role: "users"},
		Role:  domain.RoleUser,
	}
	if err := s.SaveSession(ctx, sess); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := s.GetSession(ctx, "opaque-token")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.User.ID != 5 || got.Role != domain.RoleUser {
		t.Fatalf("unexpected session: %+v", got)
	}

	if err := s.ClearSession(ctx, "opaque-token"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := s.GetSession(ctx, "opaque-token"); ok {
		t.Fatal("session survived clear")
	}
}

func TestSession_MissingIsNotAnError(t *testing.T) {
	s, _ := newTestStore(t)
	_, ok, err := s.GetSession(context.Background(), "never-stored")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ok {
		t.Fatal("expected miss")
	}
}

func TestSession_TTLFollowsJWTExpiry(t *testing.T) {
	s, mr := newTestStore(t)

	exp := time.Now().Add(10 * time.Minute)
	claims := jwt.MapClaims{"sub": "5", "exp": exp.Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("irrelevant"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if err := s.SaveSession(context.Background(), domain.Session{Token: token, Role: domain.RoleUser}); err != nil {
		t.Fatalf("save: %v", err)
	}

	ttl := mr.TTL(sessionKey(token))
	if ttl <= 0 || ttl > 10*time.Minute {
		t.Fatalf("ttl = %v, want within (0, 10m]", ttl)
	}

	got, ok, _ := s.GetSession(context.Background(), token)
	if !ok {
		t.Fatal("session missing")
	}
	if got.ExpiresAt.Unix() != exp.Unix() {
		t.Fatalf("ExpiresAt = %v, want %v", got.ExpiresAt, exp)
	}
}

func TestSession_ExpiredJWTFallsBackToDefaultTTL(t *testing.T) {
	s, mr := newTestStore(t)

	claims := jwt.MapClaims{"exp": time.Now().Add(-time.Minute).Unix()}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("x"))

	if err := s.SaveSession(context.Background(), domain.Session{Token: token}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if ttl := mr.TTL(sessionKey(token)); ttl != time.Hour {
		t.Fatalf("ttl = %v, want default 1h", ttl)
	}
}

func TestLanguage_DefaultsToEnglish(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	lang, err := s.Language(ctx, "tok")
	if err != nil || lang != "en" {
		t.Fatalf("lang=%q err=%v, want en", lang, err)
	}

	if err := s.SetLanguage(ctx, "tok", "sw"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if lang, _ = s.Language(ctx, "tok"); lang != "sw" {
		t.Fatalf("lang = %q, want sw", lang)
	}
}

func TestPageContent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	// unset keys read as empty, not as errors
	if v, err := s.PageContent(ctx, "about"); err != nil || v != "" {
		t.Fatalf("v=%q err=%v", v, err)
	}
	if err := s.SetPageContent(ctx, "about", "Karibu nyumbani."); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := s.PageContent(ctx, "about")
	if err != nil || v != "Karibu nyumbani." {
		t.Fatalf("v=%q err=%v", v, err)
	}
}

func TestCache_RoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	in := domain.Category{ID: 1, Name: "Apartments"}
	if err := s.Set(ctx, "categories:1", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	var out domain.Category
	ok, err := s.Get(ctx, "categories:1", &out)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if out != in {
		t.Fatalf("got %+v", out)
	}
	if ok, _ := s.Get(ctx, "categories:missing", &out); ok {
		t.Fatal("expected miss")
	}
}
