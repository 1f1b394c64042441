// internal/middleware/jwt.go
package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"driftwood/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token expiration time - 24 hours
const tokenExpiration = 24 * time.Hour

type contextKey string

const identityKey contextKey = "identity"

// Claims represents the JWT claims for our application
type Claims struct {
	UserID  uuid.UUID `json:"user_id"`
	IsAdmin bool      `json:"is_admin"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and validates identity tokens. The content store never
// sees tokens; it only receives the extracted {id, isAdmin} identity.
type TokenIssuer struct {
	secret []byte
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret)}
}

// GenerateToken creates a new JWT token for the given user
func (t *TokenIssuer) GenerateToken(userID uuid.UUID, isAdmin bool) (string, error) {
	expirationTime := time.Now().Add(tokenExpiration)

	claims := &Claims{
		UserID:  userID,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "driftwood-api",
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// ValidateToken validates the provided JWT token
func (t *TokenIssuer) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// RequireIdentity wraps a handler so that only requests carrying a valid
// bearer token reach it; the identity lands in the request context.
func (t *TokenIssuer) RequireIdentity(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := t.ValidateToken(tokenString)
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		identity := &models.Identity{ID: claims.UserID, IsAdmin: claims.IsAdmin}
		next(w, r.WithContext(WithIdentity(r.Context(), identity)))
	}
}

// OptionalIdentity extracts the caller identity when a bearer token is
// present but lets unauthenticated requests through; the store decides
// per-operation whether an identity is required.
func (t *TokenIssuer) OptionalIdentity(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next(w, r)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := t.ValidateToken(tokenString)
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		identity := &models.Identity{ID: claims.UserID, IsAdmin: claims.IsAdmin}
		next(w, r.WithContext(WithIdentity(r.Context(), identity)))
	}
}

// WithIdentity stores an identity in a request context.
func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the caller identity, or nil for anonymous
// requests.
func IdentityFromContext(ctx context.Context) *models.Identity {
	if identity, ok := ctx.Value(identityKey).(*models.Identity); ok {
		return identity
	}
	return nil
}
