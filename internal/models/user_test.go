package models

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/podfetch-console/internal/shared"
)

const hashedSecret1 = "5b11618c2e44027877d0cd0921ed166b9f176f50587fc91e7534dd2946db77d6"

func TestParseRole(t *testing.T) {
	for _, r := range Roles {
		t.Run(string(r), func(t *testing.T) {
			got, err := ParseRole(string(r))
			if err != nil {
				t.Fatalf("expected %q to parse, got %v", r, err)
			}
			if got != r {
				t.Errorf("ParseRole(%q) = %q", r, got)
			}
		})
	}

	for _, s := range []string{"", "Admin", "USER", " user", "root", "users"} {
		t.Run("rejects "+s, func(t *testing.T) {
			if _, err := ParseRole(s); !errors.Is(err, shared.ErrInvalidRole) {
				t.Errorf("expected ErrInvalidRole for %q, got %v", s, err)
			}
		})
	}
}

func TestRoleNames(t *testing.T) {
	if got := RoleNames(); got != "admin, uploader, user" {
		t.Errorf("RoleNames() = %q", got)
	}
}

func TestNewUser(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	user := NewUser("  alice ", RoleUser, "secret1", now)

	if user.ID != 0 {
		t.Errorf("expected placeholder ID 0, got %d", user.ID)
	}
	if user.Username != "alice" {
		t.Errorf("expected trimmed username, got %q", user.Username)
	}
	if user.ExplicitConsent {
		t.Error("expected explicit consent to default to false")
	}
	if !user.CreatedAt.Equal(now) {
		t.Errorf("expected created_at %v, got %v", now, user.CreatedAt)
	}

	summary := user.Summary()
	if summary.Username != "alice" || summary.Role != RoleUser {
		t.Errorf("unexpected summary %+v", summary)
	}
}

func TestUserString(t *testing.T) {
	user := NewUser("alice", RoleUser, "secret1", time.Now())
	s := user.String()
	if strings.Contains(s, "secret1") {
		t.Errorf("String() leaked the password: %s", s)
	}
	if !strings.Contains(s, `"alice"`) {
		t.Errorf("String() should include the username: %s", s)
	}
}

func TestUserValidate(t *testing.T) {
	now := time.Now()
	tc := []struct {
		name    string
		user    *User
		wantErr []error
	}{
		{
			name: "hashed password",
			user: NewUser("alice", RoleUser, hashedSecret1, now),
		},
		{
			name: "no password",
			user: NewUser("alice", RoleAdmin, "", now),
		},
		{
			name:    "plaintext password",
			user:    NewUser("alice", RoleUser, "secret1", now),
			wantErr: []error{shared.ErrInvalidUser, shared.ErrPlaintextPassword},
		},
		{
			name:    "uppercase digest",
			user:    NewUser("alice", RoleUser, strings.ToUpper(hashedSecret1), now),
			wantErr: []error{shared.ErrPlaintextPassword},
		},
		{
			name:    "blank username",
			user:    NewUser("   ", RoleUser, hashedSecret1, now),
			wantErr: []error{shared.ErrInvalidUser},
		},
		{
			name:    "untrimmed username",
			user:    &User{Username: " alice", Role: RoleUser, CreatedAt: now},
			wantErr: []error{shared.ErrInvalidUser},
		},
		{
			name:    "unknown role",
			user:    NewUser("alice", Role("root"), hashedSecret1, now),
			wantErr: []error{shared.ErrInvalidUser},
		},
		{
			name:    "missing created_at",
			user:    NewUser("alice", RoleUser, hashedSecret1, time.Time{}),
			wantErr: []error{shared.ErrInvalidUser},
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Errorf("expected valid user, got %v", err)
				}
				return
			}
			for _, want := range tt.wantErr {
				if !errors.Is(err, want) {
					t.Errorf("expected %v, got %v", want, err)
				}
			}
		})
	}

	t.Run("non-password failures are not reported as plaintext", func(t *testing.T) {
		err := NewUser("alice", Role("root"), hashedSecret1, now).Validate()
		if errors.Is(err, shared.ErrPlaintextPassword) {
			t.Errorf("did not expect ErrPlaintextPassword, got %v", err)
		}
	})
}

func TestCascadeOrder(t *testing.T) {
	want := []string{
		"podcast_history_items", "devices", "episodes", "favorites", "sessions", "subscriptions", "users",
	}
	if len(CascadeOrder) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(CascadeOrder))
	}
	for i := range want {
		if CascadeOrder[i] != want[i] {
			t.Errorf("step %d = %s, want %s", i, CascadeOrder[i], want[i])
		}
	}
}
