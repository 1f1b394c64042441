package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driftwood/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	userID := uuid.New()

	token, err := issuer.GenerateToken(userID, true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "driftwood-api", claims.Issuer)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("secret-a").GenerateToken(uuid.New(), false)
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret-b").ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	_, err := issuer.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func identityEcho(t *testing.T, got **models.Identity) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		*got = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}
}

func TestRequireIdentity(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	userID := uuid.New()
	token, err := issuer.GenerateToken(userID, false)
	require.NoError(t, err)

	t.Run("passes a valid token through with identity", func(t *testing.T) {
		var got *models.Identity
		handler := issuer.RequireIdentity(identityEcho(t, &got))

		req := httptest.NewRequest(http.MethodGet, "/post/flags", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, userID, got.ID)
		assert.False(t, got.IsAdmin)
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		var got *models.Identity
		handler := issuer.RequireIdentity(identityEcho(t, &got))

		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/post/flags", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, got)
	})

	t.Run("rejects an invalid token", func(t *testing.T) {
		handler := issuer.RequireIdentity(identityEcho(t, new(*models.Identity)))

		req := httptest.NewRequest(http.MethodGet, "/post/flags", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestOptionalIdentity(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	userID := uuid.New()
	token, err := issuer.GenerateToken(userID, true)
	require.NoError(t, err)

	t.Run("lets anonymous requests through", func(t *testing.T) {
		var got *models.Identity
		handler := issuer.OptionalIdentity(identityEcho(t, &got))

		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/posts", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, got)
	})

	t.Run("extracts identity from a valid token", func(t *testing.T) {
		var got *models.Identity
		handler := issuer.OptionalIdentity(identityEcho(t, &got))

		req := httptest.NewRequest(http.MethodGet, "/posts", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, userID, got.ID)
		assert.True(t, got.IsAdmin)
	})

	t.Run("still rejects a malformed token", func(t *testing.T) {
		handler := issuer.OptionalIdentity(identityEcho(t, new(*models.Identity)))

		req := httptest.NewRequest(http.MethodGet, "/posts", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestIdentityFromContextDefaultsToNil(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	assert.Nil(t, IdentityFromContext(req.Context()))
}
