package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/shredworks/pickup-scheduling/internal/auth"
)

func setup(t *testing.T, ttl time.Duration) (*auth.Service, *auth.SessionStore) {
	t.Helper()
	sessions := auth.NewSessionStore()
	svc := auth.NewService(auth.NewUserStore(), sessions, ttl, zerolog.Nop())
	return svc, sessions
}

func TestRegisterAndLogin(t *testing.T) {
	svc, sessions := setup(t, 7*24*time.Hour)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Dana Reyes", "dana@example.com", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != auth.RoleUser {
		t.Fatalf("role = %s, want user", user.Role)
	}
	if user.PasswordHash == "secret123" || user.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}

	got, sess, err := svc.Login(ctx, "dana@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("login returned wrong user %s", got.ID)
	}
	if sessions.Len() != 1 {
		t.Fatalf("sessions = %d, want 1", sessions.Len())
	}

	// Expiry lands seven days out.
	want := time.Now().Add(7 * 24 * time.Hour)
	if d := sess.Expires.Sub(want); d < -time.Minute || d > time.Minute {
		t.Fatalf("expiry = %s, want ~%s", sess.Expires, want)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := setup(t, time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Dana", "dana@example.com", "secret123"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, "Other", "Dana@Example.com", "secret456"); !errors.Is(err, auth.ErrEmailTaken) {
		t.Fatalf("register error = %v, want ErrEmailTaken", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, sessions := setup(t, time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Dana", "dana@example.com", "secret123"); err != nil {
		t.Fatalf("register: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "dana@example.com", "wrong"},
		{"unknown email", "nobody@example.com", "secret123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Login(ctx, tt.email, tt.password)
			if !errors.Is(err, auth.ErrInvalidCredentials) {
				t.Fatalf("login error = %v, want ErrInvalidCredentials", err)
			}
		})
	}

	if sessions.Len() != 0 {
		t.Fatalf("failed logins created %d sessions", sessions.Len())
	}
}

func TestResolveSession(t *testing.T) {
	svc, _ := setup(t, time.Hour)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Dana", "dana@example.com", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	_, sess, err := svc.Login(ctx, "dana@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	got, _, err := svc.ResolveSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("resolved wrong user %s", got.ID)
	}

	if _, _, err := svc.ResolveSession(ctx, "no-such-token"); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Fatalf("resolve error = %v, want ErrSessionNotFound", err)
	}
}

func TestExpiredSessionTreatedAsMissing(t *testing.T) {
	svc, sessions := setup(t, time.Hour)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Dana", "dana@example.com", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	sessions.Put(auth.Session{
		ID:      "expired-token",
		UserID:  user.ID,
		Expires: time.Now().Add(-time.Minute),
	})

	if _, _, err := svc.ResolveSession(ctx, "expired-token"); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Fatalf("resolve error = %v, want ErrSessionNotFound", err)
	}
	// Lazy invalidation also removes the entry.
	if sessions.Len() != 0 {
		t.Fatalf("expired session still stored, sessions = %d", sessions.Len())
	}
}

func TestLogout(t *testing.T) {
	svc, sessions := setup(t, time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Dana", "dana@example.com", "secret123"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, sess, err := svc.Login(ctx, "dana@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	svc.Logout(ctx, sess.ID)
	if sessions.Len() != 0 {
		t.Fatalf("logout left %d sessions", sessions.Len())
	}

	// Logging out again with a stale token is fine.
	svc.Logout(ctx, sess.ID)
}

func TestSessionStoreSweep(t *testing.T) {
	sessions := auth.NewSessionStore()
	now := time.Now()

	sessions.Put(auth.Session{ID: "live", Expires: now.Add(time.Hour)})
	sessions.Put(auth.Session{ID: "dead-1", Expires: now.Add(-time.Hour)})
	sessions.Put(auth.Session{ID: "dead-2", Expires: now.Add(-time.Minute)})

	if removed := sessions.DeleteExpired(now); removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	if sessions.Len() != 1 {
		t.Fatalf("sessions = %d, want 1", sessions.Len())
	}
	if _, err := sessions.Get("live", now); err != nil {
		t.Fatalf("live session gone: %v", err)
	}
}

func TestEnsureAdminIdempotent(t *testing.T) {
	svc, _ := setup(t, time.Hour)
	ctx := context.Background()

	if err := svc.EnsureAdmin(ctx, "Administrator", "admin@example.com", "admin123"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if err := svc.EnsureAdmin(ctx, "Administrator", "admin@example.com", "admin123"); err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}

	admin, _, err := svc.Login(ctx, "admin@example.com", "admin123")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if admin.Role != auth.RoleAdmin {
		t.Fatalf("role = %s, want admin", admin.Role)
	}
}
