package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/intake-dal/internal/config"
	"github.com/intake-dal/internal/domain"
	jwtinfra "github.com/intake-dal/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestProvider writes a fresh RSA key pair to a temp dir and loads it.
func newTestProvider(t *testing.T, expiry time.Duration) *jwtinfra.Provider {
	t.Helper()
	privKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")

	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(privKey)})
	require.NoError(t, os.WriteFile(privPath, privPEM, 0600))

	pubBytes, err := x509.MarshalPKIXPublicKey(&privKey.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0600))

	p, err := jwtinfra.NewProvider(&config.Config{
		JWTPrivateKeyPath: privPath,
		JWTPublicKeyPath:  pubPath,
		JWTExpiry:         expiry,
	})
	require.NoError(t, err)
	return p
}

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func mustSign(t *testing.T, p *jwtinfra.Provider, userID, role string) string {
	t.Helper()
	tok, err := p.Sign(userID, "Uma", role)
	require.NoError(t, err)
	return tok
}

func TestAuth_Rejects(t *testing.T) {
	p := newTestProvider(t, time.Hour)
	otherKey := newTestProvider(t, time.Hour)
	expired := newTestProvider(t, -time.Minute)

	tests := []struct {
		name     string
		provider *jwtinfra.Provider
		header   string
		wantMsg  string
	}{
		{"no header", p, "", "missing or invalid authorization header"},
		{"basic scheme", p, "Basic dTpw", "missing or invalid authorization header"},
		{"empty bearer", p, "Bearer ", "missing or invalid authorization header"},
		{"garbage token", p, "Bearer not-a-real-token", "invalid token"},
		{"other key", p, "Bearer " + mustSign(t, otherKey, "u1@example.com", domain.RoleUser), "invalid token"},
		{"unknown role", p, "Bearer " + mustSign(t, p, "u1@example.com", "admin"), "invalid token"},
		{"expired", expired, "Bearer " + mustSign(t, expired, "u1@example.com", domain.RoleUser), "token expired"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/notifications", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			Auth(tc.provider)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.JSONEq(t, `{"error":"`+tc.wantMsg+`","error_code":401}`, rr.Body.String())
		})
	}
}

func TestAuth_ValidToken_InjectsClaims(t *testing.T) {
	p := newTestProvider(t, time.Hour)

	var got *jwtinfra.Claims
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer "+mustSign(t, p, "u1@example.com", domain.RoleStaff))
	rr := httptest.NewRecorder()
	Auth(p)(capture).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, got)
	assert.Equal(t, "u1@example.com", got.UserID)
	assert.Equal(t, "Uma", got.Name)
	assert.Equal(t, domain.RoleStaff, got.Role)
}

func TestClaimsFromContext_Absent(t *testing.T) {
	_, ok := ClaimsFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}
