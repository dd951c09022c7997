package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poaudit/internal/domain"
)

const testClientID = "client-123.apps.googleusercontent.com"

func newTestVerifier(t *testing.T, info tokenInfoResponse, status int) *Verifier {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("id_token"))
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(info)
	}))
	t.Cleanup(srv.Close)

	v := NewVerifier(testClientID)
	v.endpoint = srv.URL
	return v
}

func validTokenInfo() tokenInfoResponse {
	return tokenInfoResponse{
		Iss:           "https://accounts.google.com",
		Aud:           testClientID,
		Sub:           "google-subject-1",
		Email:         "buyer@example.com",
		EmailVerified: "true",
		Name:          "Buyer One",
		Exp:           strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10),
	}
}

func TestVerifier_VerifyIDToken_Success(t *testing.T) {
	v := newTestVerifier(t, validTokenInfo(), http.StatusOK)

	claims, err := v.VerifyIDToken(context.Background(), "some-id-token")

	require.NoError(t, err)
	assert.Equal(t, "google-subject-1", claims.Subject)
	assert.Equal(t, "buyer@example.com", claims.Email)
	assert.True(t, claims.EmailVerified)
	assert.Equal(t, "Buyer One", claims.FullName)
}

func TestVerifier_VerifyIDToken_UnverifiedEmail(t *testing.T) {
	info := validTokenInfo()
	info.EmailVerified = "false"
	v := newTestVerifier(t, info, http.StatusOK)

	claims, err := v.VerifyIDToken(context.Background(), "some-id-token")

	require.NoError(t, err)
	assert.False(t, claims.EmailVerified)
}

func TestVerifier_VerifyIDToken_AudienceMismatch(t *testing.T) {
	info := validTokenInfo()
	info.Aud = "someone-else.apps.googleusercontent.com"
	v := newTestVerifier(t, info, http.StatusOK)

	_, err := v.VerifyIDToken(context.Background(), "some-id-token")

	assert.ErrorIs(t, err, domain.ErrSocialAuthTokenInvalid)
}

func TestVerifier_VerifyIDToken_BadIssuer(t *testing.T) {
	info := validTokenInfo()
	info.Iss = "https://evil.example.com"
	v := newTestVerifier(t, info, http.StatusOK)

	_, err := v.VerifyIDToken(context.Background(), "some-id-token")

	assert.ErrorIs(t, err, domain.ErrSocialAuthTokenInvalid)
}

func TestVerifier_VerifyIDToken_Expired(t *testing.T) {
	info := validTokenInfo()
	info.Exp = strconv.FormatInt(time.Now().Add(-time.Minute).Unix(), 10)
	v := newTestVerifier(t, info, http.StatusOK)

	_, err := v.VerifyIDToken(context.Background(), "some-id-token")

	assert.ErrorIs(t, err, domain.ErrSocialAuthTokenInvalid)
}

func TestVerifier_VerifyIDToken_EndpointRejects(t *testing.T) {
	v := newTestVerifier(t, tokenInfoResponse{}, http.StatusBadRequest)

	_, err := v.VerifyIDToken(context.Background(), "garbage-token")

	assert.ErrorIs(t, err, domain.ErrSocialAuthTokenInvalid)
}

func TestVerifier_Provider(t *testing.T) {
	assert.Equal(t, string(domain.AuthProviderGoogle), NewVerifier(testClientID).Provider())
}
