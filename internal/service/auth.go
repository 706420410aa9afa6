package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"guardpost.app/registry/common/id"
	"guardpost.app/registry/common/logger"
	"guardpost.app/registry/internal/model"
	"guardpost.app/registry/internal/store"
)

const SessionTokenBytes = 32

var (
	ErrInvalidCode    = errors.New("invalid authorization code")
	ErrUserNotFound   = errors.New("user not found")
	ErrSessionExpired = errors.New("session expired")
)

// ExchangeResult carries the raw bearer token. It is returned exactly once
// and never persisted.
type ExchangeResult struct {
	User    *model.User
	Session *model.Session
	Token   string
}

type AuthService interface {
	GetAuthorizationURL(state string) (string, error)
	Exchange(ctx context.Context, code string) (*ExchangeResult, error)
	ValidateToken(ctx context.Context, token string) (*model.User, *model.Session, error)
	Logout(ctx context.Context, token string) error
	ReapExpired(ctx context.Context) (int64, error)
}

type authService struct {
	txRunner TxRunner
	users    store.UserStore
	sessions store.SessionStore
	identity IdentityProvider
	cache    *SessionCache
	ttl      time.Duration
	now      func() time.Time
}

func NewAuthService(
	txRunner TxRunner,
	users store.UserStore,
	sessions store.SessionStore,
	identity IdentityProvider,
	cache *SessionCache,
	ttl time.Duration,
) AuthService {
	return &authService{
		txRunner: txRunner,
		users:    users,
		sessions: sessions,
		identity: identity,
		cache:    cache,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *authService) GetAuthorizationURL(state string) (string, error) {
	return s.identity.AuthorizationURL(state)
}

func (s *authService) Exchange(ctx context.Context, code string) (*ExchangeResult, error) {
	sc := logger.StartSpan(ctx, "auth.exchange")
	defer sc.End()
	ctx = sc.Context()

	identity, err := s.identity.Authenticate(ctx, code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to authenticate with code", "error", err)
		return nil, ErrInvalidCode
	}

	token, err := generateSecureToken(SessionTokenBytes)
	if err != nil {
		sc.RecordError(err)
		return nil, fmt.Errorf("generating session token: %w", err)
	}

	var avatarURL *string
	if identity.AvatarURL != "" {
		avatarURL = &identity.AvatarURL
	}
	user := &model.User{
		ID:        id.New(),
		Name:      identity.Name,
		Email:     identity.Email,
		AvatarURL: avatarURL,
		WorkOSID:  &identity.ExternalID,
	}
	session := &model.Session{
		ID:        id.New(),
		TokenHash: HashToken(token),
		ExpiresAt: s.now().Add(s.ttl),
	}

	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if err := stores.Users().UpsertByWorkOSID(ctx, user); err != nil {
			return fmt.Errorf("upserting user: %w", err)
		}
		session.UserID = user.ID
		if err := stores.Sessions().Create(ctx, session); err != nil {
			return fmt.Errorf("creating session: %w", err)
		}
		return nil
	})
	if err != nil {
		sc.RecordError(err)
		slog.ErrorContext(ctx, "failed to persist login",
			"error", err,
			"email", user.Email)
		return nil, err
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{UserID: &user.ID, SessionID: &session.ID})
	slog.InfoContext(ctx, "user authenticated", "email", user.Email)

	return &ExchangeResult{User: user, Session: session, Token: token}, nil
}

func (s *authService) ValidateToken(ctx context.Context, token string) (*model.User, *model.Session, error) {
	if token == "" {
		return nil, nil, ErrSessionExpired
	}

	hash := HashToken(token)
	now := s.now()

	if user, session, ok := s.cache.Get(hash, now); ok {
		return user, session, nil
	}

	session, err := s.sessions.GetValidByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrSessionExpired
		}
		return nil, nil, fmt.Errorf("getting session: %w", err)
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("getting user: %w", err)
	}

	s.cache.Set(hash, user, session, now)
	return user, session, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	hash := HashToken(token)
	s.cache.Delete(hash)

	if err := s.sessions.DeleteByTokenHash(ctx, hash); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func (s *authService) ReapExpired(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}
	return n, nil
}

// HashToken is the at-rest form of a bearer token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func generateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
