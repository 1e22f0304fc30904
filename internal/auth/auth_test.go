package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leadform/leadform/internal/apperr"
	"github.com/leadform/leadform/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(secret, 42)
	require.NoError(t, err)

	claims, err := ValidateToken(secret, token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.WithinDuration(t, time.Now().Add(TokenTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenRejectedAfterWindow(t *testing.T) {
	token, err := GenerateTokenAt(secret, 42, time.Now().Add(-TokenTTL-time.Minute))
	require.NoError(t, err)

	_, err = ValidateToken(secret, token)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenRejectsWrongSecretAndAlgorithm(t *testing.T) {
	token, err := GenerateToken("other-secret", 1)
	require.NoError(t, err)
	_, err = ValidateToken(secret, token)
	assert.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ValidateToken(secret, unsigned)
	assert.Error(t, err)

	_, err = GenerateToken("", 1)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", hash)
	assert.True(t, CheckPassword("admin123", hash))
	assert.False(t, CheckPassword("admin124", hash))
	assert.False(t, CheckPassword("admin123", "not-a-hash"))
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", BearerToken(r))
	r.Header.Set("Authorization", "Bearer abc.def")
	assert.Equal(t, "abc.def", BearerToken(r))
	r.Header.Set("Authorization", "Basic abc")
	assert.Equal(t, "", BearerToken(r))
}

type stubVerifier struct {
	user *models.User
	err  error
}

func (s stubVerifier) Verify(context.Context, string) (*models.User, error) {
	return s.user, s.err
}

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		v      stubVerifier
		status int
	}{
		{"missing token", stubVerifier{err: apperr.ErrUnauthorized}, http.StatusUnauthorized},
		{"bad token", stubVerifier{err: apperr.Forbidden(jwt.ErrTokenExpired)}, http.StatusForbidden},
		{"ok", stubVerifier{user: &models.User{ID: 7, Email: "a@x.com"}}, http.StatusNoContent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var seen *models.User
			h := Middleware(tc.v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetUser(r.Context())
				w.WriteHeader(http.StatusNoContent)
			}))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tc.status, rec.Code)
			if tc.status != http.StatusNoContent {
				assert.Nil(t, seen)
				var body map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.NotEmpty(t, body["message"])
				return
			}
			require.NotNil(t, seen)
			assert.EqualValues(t, 7, seen.ID)
		})
	}
}
