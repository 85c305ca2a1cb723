package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/internal/metrics"
	"github.com/fastygo/tasktracker/pkg/logger"
	"github.com/fastygo/tasktracker/repository"
)

// UseCase registers and authenticates users and manages their login sessions.
type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	cost     int
	logger   *zap.Logger
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

func New(users repository.UserRepository, sessions repository.SessionRepository, cost int, log *zap.Logger) *UseCase {
	if log == nil {
		log = zap.NewNop()
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		cost:     cost,
		logger:   log,
		now:      time.Now,
	}
}

// Register creates an account. The username is stored exactly as given.
func (uc *UseCase) Register(ctx context.Context, username, secret string) (*domain.User, error) {
	if strings.TrimSpace(username) == "" || secret == "" {
		metrics.AuthAttempts.WithLabelValues("register", "invalid").Inc()
		return nil, domain.ErrInvalidPayload
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), uc.cost)
	if err != nil {
		// bcrypt rejects secrets longer than 72 bytes.
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			metrics.AuthAttempts.WithLabelValues("register", "invalid").Inc()
			return nil, domain.ErrInvalidPayload
		}
		return nil, domain.WrapError(domain.ErrCodeInternal, "hash credential", err)
	}

	user, err := uc.users.Create(ctx, &domain.User{Username: username, CredentialHash: string(hash)})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			metrics.AuthAttempts.WithLabelValues("register", "conflict").Inc()
			return nil, err
		}
		metrics.AuthAttempts.WithLabelValues("register", "error").Inc()
		logger.WithRequestID(ctx, uc.logger).Error("create user failed", zap.Error(err))
		return nil, domain.StorageError(err)
	}

	metrics.AuthAttempts.WithLabelValues("register", "success").Inc()
	logger.WithRequestID(ctx, uc.logger).Info("user registered", zap.Int64("user_id", user.ID))
	return user, nil
}

// Authenticate checks the credential pair. Unknown usernames and wrong secrets
// fail the same way and cost the same bcrypt comparison.
func (uc *UseCase) Authenticate(ctx context.Context, username, secret string) (*domain.User, error) {
	user, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthAttempts.WithLabelValues("login", "error").Inc()
			logger.WithRequestID(ctx, uc.logger).Error("lookup user failed", zap.Error(err))
			return nil, domain.StorageError(err)
		}
		_ = bcrypt.CompareHashAndPassword(uc.dummy(), []byte(secret))
		metrics.AuthAttempts.WithLabelValues("login", "failure").Inc()
		logger.WithRequestID(ctx, uc.logger).Warn("authentication failed", zap.String("username", username))
		return nil, domain.ErrAuthFailure
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.CredentialHash), []byte(secret)); err != nil {
		metrics.AuthAttempts.WithLabelValues("login", "failure").Inc()
		logger.WithRequestID(ctx, uc.logger).Warn("authentication failed", zap.String("username", username))
		return nil, domain.ErrAuthFailure
	}

	metrics.AuthAttempts.WithLabelValues("login", "success").Inc()
	return user, nil
}

// Login authenticates and opens a session that lives for ttl.
func (uc *UseCase) Login(ctx context.Context, username, secret string, ttl time.Duration) (*domain.Session, error) {
	user, err := uc.Authenticate(ctx, username, secret)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		Metadata:  map[string]string{},
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		logger.WithRequestID(ctx, uc.logger).Error("save session failed", zap.Error(err))
		return nil, domain.WrapError(domain.ErrCodeInternal, "session store failure", err)
	}
	return session, nil
}

// GetSession returns a live session. Expired sessions are removed and reported
// as not found.
func (uc *UseCase) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
		return nil, domain.WrapError(domain.ErrCodeInternal, "session store failure", err)
	}
	if session.IsExpired(uc.now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// ResolveIdentity maps a session id to the caller it authenticates.
func (uc *UseCase) ResolveIdentity(ctx context.Context, sessionID string) (*domain.Identity, error) {
	session, err := uc.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Identity(), nil
}

func (uc *UseCase) RefreshSession(ctx context.Context, sessionID string, ttl time.Duration) (*domain.Session, error) {
	session, err := uc.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.Extend(ctx, sessionID, int(ttl.Seconds())); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
		return nil, domain.WrapError(domain.ErrCodeInternal, "session store failure", err)
	}
	session.ExpiresAt = uc.now().Add(ttl)
	return session, nil
}

func (uc *UseCase) RevokeSession(ctx context.Context, sessionID string) error {
	if err := uc.sessions.Delete(ctx, sessionID); err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "session store failure", err)
	}
	return nil
}

// ToggleTheme flips the session's theme preference and returns the new one.
func (uc *UseCase) ToggleTheme(ctx context.Context, sessionID string) (string, error) {
	session, err := uc.GetSession(ctx, sessionID)
	if err != nil {
		return "", err
	}
	theme := session.ToggleTheme()
	if err := uc.sessions.Save(ctx, session); err != nil {
		return "", domain.WrapError(domain.ErrCodeInternal, "session store failure", err)
	}
	return theme, nil
}

// Profile returns the account behind a session.
func (uc *UseCase) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.StorageError(err)
	}
	return user, nil
}

func (uc *UseCase) dummy() []byte {
	uc.dummyOnce.Do(func() {
		uc.dummyHash, _ = bcrypt.GenerateFromPassword([]byte(uuid.NewString()), uc.cost)
	})
	return uc.dummyHash
}
