package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/cosmichub/cosmichub/internal/id"
	apperrors "github.com/cosmichub/cosmichub/internal/services/web/platform/errors"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/token"
	webstorage "github.com/cosmichub/cosmichub/internal/services/web/storage"
	"github.com/cosmichub/cosmichub/internal/tiers"
)

const minPasswordLength = 8

type service struct {
	store      webstorage.Store
	tokens     *token.Issuer
	sessionTTL time.Duration
	now        func() time.Time
}

func newService(cfg Config) service {
	return service{
		store:      cfg.Store,
		tokens:     cfg.Tokens,
		sessionTTL: cfg.SessionTTL,
		now:        cfg.Now,
	}
}

// signedUp is the outcome of a successful signup or login.
type signedUp struct {
	userID    string
	sessionID string
}

// issuedToken is the outcome of a successful token exchange.
type issuedToken struct {
	accessToken string
	expiresAt   time.Time
}

func (s service) signup(ctx context.Context, displayName, email, password string) (signedUp, error) {
	if s.store == nil {
		return signedUp{}, apperrors.E(apperrors.KindUnavailable, "account storage is not configured")
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return signedUp{}, err
	}
	if len(password) < minPasswordLength {
		return signedUp{}, apperrors.EK(apperrors.KindInvalidInput, "auth.password_too_short", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return signedUp{}, apperrors.EK(apperrors.KindInvalidInput, "auth.email_taken", "an account with this email already exists")
	} else if !errors.Is(err, webstorage.ErrNotFound) {
		return signedUp{}, fmt.Errorf("check existing account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return signedUp{}, fmt.Errorf("hash password: %w", err)
	}

	user := webstorage.User{
		ID:           id.New(),
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return signedUp{}, fmt.Errorf("create account: %w", err)
	}

	sessionID, err := s.openSession(ctx, user.ID)
	if err != nil {
		return signedUp{}, err
	}
	return signedUp{userID: user.ID, sessionID: sessionID}, nil
}

func (s service) login(ctx context.Context, email, password string) (signedUp, error) {
	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return signedUp{}, err
	}
	sessionID, err := s.openSession(ctx, user.ID)
	if err != nil {
		return signedUp{}, err
	}
	return signedUp{userID: user.ID, sessionID: sessionID}, nil
}

func (s service) logout(ctx context.Context, sessionID string) error {
	if s.store == nil {
		return nil
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil
	}
	return s.store.DeleteSession(ctx, sessionID)
}

func (s service) issueToken(ctx context.Context, email, password string) (issuedToken, error) {
	if s.tokens == nil {
		return issuedToken{}, apperrors.E(apperrors.KindUnavailable, "token issuing is not configured")
	}
	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return issuedToken{}, err
	}

	tier := s.tierFor(ctx, user.ID)
	raw, err := s.tokens.Issue(user.ID, string(tier))
	if err != nil {
		return issuedToken{}, fmt.Errorf("issue token: %w", err)
	}
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		return issuedToken{}, fmt.Errorf("verify issued token: %w", err)
	}
	return issuedToken{accessToken: raw, expiresAt: claims.ExpiresAt}, nil
}

func (s service) authenticate(ctx context.Context, email, password string) (webstorage.User, error) {
	if s.store == nil {
		return webstorage.User{}, apperrors.E(apperrors.KindUnavailable, "account storage is not configured")
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return webstorage.User{}, err
	}
	if password == "" {
		return webstorage.User{}, invalidCredentials()
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, webstorage.ErrNotFound) {
			return webstorage.User{}, invalidCredentials()
		}
		return webstorage.User{}, fmt.Errorf("load account: %w", err)
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return webstorage.User{}, invalidCredentials()
	}
	return user, nil
}

func (s service) openSession(ctx context.Context, userID string) (string, error) {
	now := s.now().UTC()
	session := webstorage.Session{
		ID:        id.New(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return session.ID, nil
}

func (s service) tierFor(ctx context.Context, userID string) tiers.Tier {
	sub, err := s.store.GetSubscription(ctx, userID)
	if err != nil {
		return tiers.Free
	}
	tier, err := tiers.Parse(sub.Tier)
	if err != nil {
		return tiers.Free
	}
	return tier
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return "", apperrors.EK(apperrors.KindInvalidInput, "auth.email_invalid", "a valid email address is required")
	}
	return email, nil
}

func invalidCredentials() error {
	return apperrors.EK(apperrors.KindUnauthorized, "auth.invalid_credentials", "email or password is incorrect")
}
