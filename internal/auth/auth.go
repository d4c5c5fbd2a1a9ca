// internal/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tradein-settlement/internal/domain"
	"tradein-settlement/internal/repository"
	"tradein-settlement/internal/util"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims structure. Subject carries the user id.
type Claims struct {
	jwt.RegisteredClaims
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// TokenResponse represents an issued token.
type TokenResponse struct {
	Token      string    `json:"jwt_token"`
	Expiration time.Time `json:"expiration"`
}

// Service resolves bearer tokens to users.
type Service struct {
	jwtSecret []byte
	ttl       time.Duration
	users     repository.UserRepository
	db        repository.DBExecutor
}

// NewService creates a new authentication service with the given JWT secret.
func NewService(jwtSecret string, ttl time.Duration, users repository.UserRepository, db repository.DBExecutor) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		jwtSecret: []byte(jwtSecret),
		ttl:       ttl,
		users:     users,
		db:        db,
	}
}

// IssueToken signs a token for user.
func (s *Service) IssueToken(user *domain.User) (*TokenResponse, error) {
	now := time.Now()
	expiration := now.Add(s.ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
		Email: user.Email,
		Role:  user.Role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &TokenResponse{Token: signed, Expiration: expiration}, nil
}

// ValidateToken verifies signature and expiry and returns the claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", util.ErrUnauthorized)
	}
	return claims, nil
}

// Authenticate resolves an Authorization header value ("Bearer <jwt>") to the stored user.
func (s *Service) Authenticate(ctx context.Context, bearer string) (*domain.User, error) {
	raw, ok := strings.CutPrefix(strings.TrimSpace(bearer), "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: missing bearer token", util.ErrUnauthorized)
	}

	claims, err := s.ValidateToken(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", util.ErrUnauthorized)
	}

	user, err := s.users.GetUserByID(ctx, s.db, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown user", util.ErrUnauthorized)
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return user, nil
}

type ctxKey struct{}

// WithUser attaches the authenticated user to ctx.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

// UserFromContext returns the user placed by WithUser.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(ctxKey{}).(*domain.User)
	return user, ok && user != nil
}
