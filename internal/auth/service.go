package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type Service struct {
	users      *UserStore
	sessions   *SessionStore
	sessionTTL time.Duration
	log        zerolog.Logger
}

func NewService(users *UserStore, sessions *SessionStore, sessionTTL time.Duration, log zerolog.Logger) *Service {
	return &Service{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		log:        log.With().Str("component", "auth").Logger(),
	}
}

// Register creates a regular user account with a hashed password.
func (s *Service) Register(ctx context.Context, name, email, password string) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         RoleUser,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("user registered")
	return user, nil
}

// Login checks the credential pair and, on success, creates a session.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*User, *Session, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !CheckPassword(user.PasswordHash, password) {
		return nil, nil, ErrInvalidCredentials
	}

	token, err := newSessionToken()
	if err != nil {
		return nil, nil, fmt.Errorf("generate session token: %w", err)
	}

	sess := Session{
		ID:      token,
		UserID:  user.ID,
		Expires: time.Now().Add(s.sessionTTL),
	}
	s.sessions.Put(sess)

	s.log.Info().Str("user_id", user.ID.String()).Msg("user logged in")
	return user, &sess, nil
}

// Logout removes the session. Unknown tokens are ignored so logout is safe
// to call with a stale cookie.
func (s *Service) Logout(ctx context.Context, sessionID string) {
	s.sessions.Delete(sessionID)
}

// ResolveSession turns a cookie token into the owning user. Missing and
// expired sessions both come back as ErrSessionNotFound.
func (s *Service) ResolveSession(ctx context.Context, sessionID string) (*User, *Session, error) {
	sess, err := s.sessions.Get(sessionID, time.Now())
	if err != nil {
		return nil, nil, err
	}

	user, err := s.users.GetByID(sess.UserID)
	if err != nil {
		// Session survived its user; treat as unauthenticated.
		s.sessions.Delete(sessionID)
		return nil, nil, ErrSessionNotFound
	}

	return user, sess, nil
}

// EnsureAdmin creates the bootstrap admin account if the email is free.
// Called once at startup.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin, err := s.users.Create(User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         RoleAdmin,
	})
	if errors.Is(err, ErrEmailTaken) {
		return nil
	}
	if err != nil {
		return err
	}

	s.log.Info().Str("user_id", admin.ID.String()).Str("email", admin.Email).Msg("admin account bootstrapped")
	return nil
}

func newSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
