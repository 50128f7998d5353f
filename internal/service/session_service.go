package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/guardforce-admin/internal/models"
	appErrors "github.com/noah-isme/guardforce-admin/pkg/errors"
)

type sessionStore interface {
	Load(ctx context.Context) (*models.Session, error)
	Save(ctx context.Context, sess *models.Session) error
	Clear(ctx context.Context) error
}

// Authenticator exchanges credentials for a session.
type Authenticator interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.Session, error)
	Logout(ctx context.Context) error
}

// SessionService keeps the operator session in memory and in the configured store.
type SessionService struct {
	store     sessionStore
	auth      Authenticator
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time

	mu      sync.RWMutex
	current *models.Session
}

// NewSessionService constructs a SessionService.
func NewSessionService(store sessionStore, auth Authenticator, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SessionService{store: store, auth: auth, validator: validate, logger: logger, now: time.Now}
}

// SetAuthenticator replaces the authenticator. The REST authenticator needs a
// client that already reads tokens from this service.
func (s *SessionService) SetAuthenticator(auth Authenticator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = auth
}

// Restore seeds the session from the store. Expired sessions are cleared.
func (s *SessionService) Restore(ctx context.Context) error {
	sess, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return nil
	}
	if sess.ExpiresAt == nil {
		sess.ExpiresAt = tokenExpiry(sess.Token)
	}
	if !sess.Active(s.now()) {
		s.logger.Info("discarding expired session", zap.String("email", sess.User.Email))
		s.discard(ctx)
		return nil
	}

	s.mu.RLock()
	v, verifies := s.auth.(verifier)
	s.mu.RUnlock()
	if verifies {
		user, err := v.Verify(ctx, sess.Token)
		if err != nil {
			s.logger.Info("discarding invalid session", zap.String("email", sess.User.Email), zap.Error(err))
			s.discard(ctx)
			return nil
		}
		sess.User = *user
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	s.logger.Info("session restored", zap.String("email", sess.User.Email))
	return nil
}

func (s *SessionService) discard(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Warn("failed to clear session", zap.Error(err))
	}
}

// Login authenticates the operator and persists the session.
func (s *SessionService) Login(ctx context.Context, req models.LoginRequest) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	s.mu.RLock()
	auth := s.auth
	s.mu.RUnlock()
	if auth == nil {
		return nil, appErrors.Clone(appErrors.ErrUnsupported, "login is not configured")
	}

	sess, err := auth.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	if sess.ExpiresAt == nil {
		sess.ExpiresAt = tokenExpiry(sess.Token)
	}
	if err := s.store.Save(ctx, sess); err != nil {
		s.logger.Warn("failed to persist session", zap.Error(err))
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	s.logger.Info("operator signed in", zap.String("email", sess.User.Email))

	out := *sess
	return &out, nil
}

// Logout clears the session from memory and the store.
func (s *SessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	auth := s.auth
	active := s.current != nil
	s.mu.Unlock()

	if active && auth != nil {
		if err := auth.Logout(ctx); err != nil {
			s.logger.Warn("remote logout failed", zap.Error(err))
		}
	}

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear session")
	}
	return nil
}

// Current returns a copy of the active session, or nil.
func (s *SessionService) Current() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.current.Active(s.now()) {
		return nil
	}
	out := *s.current
	return &out
}

// Active reports whether a non-expired session is held.
func (s *SessionService) Active() bool {
	return s.Current() != nil
}

// Token returns the bearer token of the active session.
func (s *SessionService) Token() string {
	if sess := s.Current(); sess != nil {
		return sess.Token
	}
	return ""
}

// tokenExpiry reads the exp claim without verifying the signature; the console
// only needs to know when to stop sending the token.
func tokenExpiry(token string) *time.Time {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil || claims.ExpiresAt == nil {
		return nil
	}
	exp := claims.ExpiresAt.Time
	return &exp
}

// verifier is implemented by authenticators able to check a stored token.
type verifier interface {
	Verify(ctx context.Context, token string) (*models.UserInfo, error)
}

type localUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id int64, ts time.Time) error
}

// LocalAuthenticator signs operators in against the users table in direct mode.
type LocalAuthenticator struct {
	users  localUserRepository
	secret []byte
	expiry time.Duration
	logger *zap.Logger
}

// NewLocalAuthenticator constructs a LocalAuthenticator issuing HS256 tokens.
func NewLocalAuthenticator(users localUserRepository, secret string, expiry time.Duration, logger *zap.Logger) *LocalAuthenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalAuthenticator{users: users, secret: []byte(secret), expiry: expiry, logger: logger}
}

// Login checks the password hash and issues a token.
func (a *LocalAuthenticator) Login(ctx context.Context, req models.LoginRequest) (*models.Session, error) {
	user, err := a.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}
	if !user.Active {
		return nil, appErrors.Clone(appErrors.ErrInactiveAccount, "account is inactive")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}

	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(a.expiry)
	claims := &models.JWTClaims{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	if err := a.users.UpdateLastLogin(ctx, user.ID, issuedAt); err != nil {
		a.logger.Warn("failed to update last login", zap.Error(err))
	}

	return &models.Session{
		Token:     signed,
		User:      models.UserInfo{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role},
		ExpiresAt: &expiresAt,
	}, nil
}

// Logout is a no-op: direct-mode tokens are stateless.
func (a *LocalAuthenticator) Logout(context.Context) error { return nil }

// ValidateToken parses and verifies a token issued by Login.
func (a *LocalAuthenticator) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}
	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// Verify checks the token signature and that its user still exists and is active.
func (a *LocalAuthenticator) Verify(ctx context.Context, token string) (*models.UserInfo, error) {
	claims, err := a.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	user, err := a.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "associated user no longer exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	if !user.Active {
		return nil, appErrors.Clone(appErrors.ErrInactiveAccount, "account is inactive")
	}
	return &models.UserInfo{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role}, nil
}
