package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"talentbase-backend/internal/database/models"
	apperrors "talentbase-backend/internal/errors"
	"talentbase-backend/internal/logger"
	"talentbase-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 6

// EventType names a change of authentication state
type EventType string

const (
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
)

// ChangeEvent is delivered to subscribers when a user signs in or out
type ChangeEvent struct {
	Type EventType
	User User
	At   time.Time
}

// Listener receives authentication change notifications
type Listener func(ChangeEvent)

// User is the signed-in identity exposed to the rest of the application
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email" example:"admin@nnl.test"`
}

// Session is the result of a successful sign up or sign in
type Session struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type" example:"bearer"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// AuthClaims represents JWT token claims
type AuthClaims struct {
	Email string `json:"email" example:"admin@nnl.test"`
	jwt.RegisteredClaims
}

// AuthService signs users up, in and out and reports session changes
type AuthService struct {
	config    *AuthConfig
	users     repository.UserRepositoryInterface
	validator *validator.Validate
	now       func() time.Time

	revokedMu sync.Mutex
	revoked   map[string]time.Time // token id -> expiry

	listenersMu sync.RWMutex
	listeners   map[int]Listener
	nextID      int
}

// NewAuthService creates a new authentication service
func NewAuthService(config *AuthConfig, users repository.UserRepositoryInterface) (*AuthService, error) {
	if err := config.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("invalid auth config: %w", err)
	}
	return &AuthService{
		config:    config,
		users:     users,
		validator: validator.New(),
		now:       time.Now,
		revoked:   make(map[string]time.Time),
		listeners: make(map[int]Listener),
	}, nil
}

// SignUp creates an account and signs it in
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if err := s.validator.Var(email, "required,email"); err != nil {
		return nil, apperrors.NewValidationError("email", "must be a valid email address")
	}
	if len(password) < minPasswordLength {
		return nil, apperrors.NewValidationError("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewPersistenceError("find user", "could not create account", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{Email: email, PasswordHash: string(hash)}
	user.CreatedBy = email
	user.UpdatedBy = email
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.NewPersistenceError("create user", "could not create account", err)
	}

	logger.WithContext(ctx).WithField("email", email).Info("account created")
	return s.startSession(ctx, User{ID: user.ID, Email: user.Email})
}

// SignIn checks the credentials and issues a new session
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.NewPersistenceError("find user", "could not sign in", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.WithContext(ctx).WithField("email", email).Warn("sign in rejected")
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.startSession(ctx, User{ID: user.ID, Email: user.Email})
}

// SignOut revokes the session behind token and notifies subscribers
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	claims, err := s.ValidateJWT(token)
	if err != nil {
		return err
	}

	s.revokedMu.Lock()
	now := s.now()
	for id, exp := range s.revoked {
		if exp.Before(now) {
			delete(s.revoked, id)
		}
	}
	s.revoked[claims.ID] = claims.ExpiresAt.Time
	s.revokedMu.Unlock()

	user := userFromClaims(claims)
	logger.WithContext(ctx).WithField("email", user.Email).Info("signed out")
	s.notify(ChangeEvent{Type: EventSignedOut, User: user, At: now})
	return nil
}

// CurrentUser resolves the user behind a session token
func (s *AuthService) CurrentUser(token string) (*User, error) {
	claims, err := s.ValidateJWT(token)
	if err != nil {
		return nil, err
	}
	user := userFromClaims(claims)
	return &user, nil
}

// Subscribe registers a listener for sign-in and sign-out events.
// The returned function removes it again.
func (s *AuthService) Subscribe(listener Listener) func() {
	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

// GenerateJWT signs a session token for user
func (s *AuthService) GenerateJWT(user User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.config.SessionTTL)
	claims := &AuthClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.Issuer,
			Subject:   user.ID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateJWT parses a session token and rejects revoked ones
func (s *AuthService) ValidateJWT(tokenString string) (*AuthClaims, error) {
	if tokenString == "" {
		return nil, apperrors.ErrNotSignedIn
	}
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	}, jwt.WithIssuer(s.config.Issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, apperrors.ErrNotSignedIn
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrNotSignedIn
	}

	s.revokedMu.Lock()
	_, revoked := s.revoked[claims.ID]
	s.revokedMu.Unlock()
	if revoked {
		return nil, apperrors.ErrSessionRevoked
	}
	return claims, nil
}

func (s *AuthService) startSession(ctx context.Context, user User) (*Session, error) {
	token, expiresAt, err := s.GenerateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	logger.WithContext(ctx).WithField("email", user.Email).Info("signed in")
	s.notify(ChangeEvent{Type: EventSignedIn, User: user, At: s.now()})
	return &Session{Token: token, TokenType: "bearer", ExpiresAt: expiresAt, User: user}, nil
}

func (s *AuthService) notify(event ChangeEvent) {
	s.listenersMu.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.listenersMu.RUnlock()

	for _, l := range listeners {
		l(event)
	}
}

func userFromClaims(claims *AuthClaims) User {
	id, _ := uuid.Parse(claims.Subject)
	return User{ID: id, Email: claims.Email}
}
