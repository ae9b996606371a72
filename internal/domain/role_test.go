package domain_test

import (
	"testing"

	"makazi/internal/domain"
)

func TestParseRole_Normalizes(t *testing.T) {
	cases := []struct {
		in   string
		want domain.Role
	}{
		{"admin", domain.RoleAdmin},
		{"ADMIN", domain.RoleAdmin},
		{"owner", domain.RoleOwner},
		{"agent", domain.RoleAgent},
		{"user", domain.RoleUser},
		{"users", domain.RoleUser}, // legacy plural emitted by the API
		{" Users ", domain.RoleUser},
	}
	for _, c := range cases {
		got, err := domain.ParseRole(c.in)
		if err != nil {
			t.Fatalf("ParseRole(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseRole(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseRole_RejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "root", "superadmin"} {
		if _, err := domain.ParseRole(in); err == nil {
			t.Fatalf("ParseRole(%q): expected error", in)
		}
	}
}
