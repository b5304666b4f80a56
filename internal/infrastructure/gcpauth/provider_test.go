package gcpauth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"testing"

	"github.com/intake-dal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serviceAccountJSON(t *testing.T) []byte {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	data, err := json.Marshal(map[string]string{
		"type":           "service_account",
		"project_id":     "squad-test",
		"private_key_id": "kid",
		"private_key":    string(keyPEM),
		"client_email":   "svc@squad-test.iam.gserviceaccount.com",
		"client_id":      "123",
		"token_uri":      "https://oauth2.googleapis.com/token",
	})
	require.NoError(t, err)
	return data
}

// providerWith returns a provider whose environment lookup is backed by env
// and counts how many times it was consulted.
func providerWith(env map[string]string, calls *int) *Provider {
	p := NewProvider(EnvKey)
	p.lookup = func(k string) (string, bool) {
		*calls++
		v, ok := env[k]
		return v, ok
	}
	return p
}

func TestLoad_MissingEnv(t *testing.T) {
	var calls int
	_, err := providerWith(map[string]string{}, &calls).Load()
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestLoad_InvalidBase64(t *testing.T) {
	var calls int
	_, err := providerWith(map[string]string{EnvKey: "%%%not-base64"}, &calls).Load()
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestLoad_InvalidJSON(t *testing.T) {
	var calls int
	enc := base64.StdEncoding.EncodeToString([]byte("{not json"))
	_, err := providerWith(map[string]string{EnvKey: enc}, &calls).Load()
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestLoad_DecodesServiceAccount(t *testing.T) {
	var calls int
	enc := base64.StdEncoding.EncodeToString(serviceAccountJSON(t))
	cred, err := providerWith(map[string]string{EnvKey: enc}, &calls).Load()

	require.NoError(t, err)
	assert.Equal(t, "squad-test", cred.ProjectID)
	assert.Equal(t, "svc@squad-test.iam.gserviceaccount.com", cred.ClientEmail)
	assert.Contains(t, string(cred.PrivateKey), "PRIVATE KEY")
	assert.NotNil(t, cred.Google)
}

func TestLoad_ReadsEnvironmentOnce(t *testing.T) {
	var calls int
	enc := base64.StdEncoding.EncodeToString(serviceAccountJSON(t))
	p := providerWith(map[string]string{EnvKey: enc}, &calls)

	first, err := p.Load()
	require.NoError(t, err)
	second, err := p.Load()
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
}
