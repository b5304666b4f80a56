package gcpauth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/intake-dal/internal/domain"
	"golang.org/x/oauth2/google"
)

// EnvKey holds the base64-encoded service-account JSON.
const EnvKey = "FIREBASE_CREDENTIALS_BASE64"

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// Credential is the decoded service account, ready for client construction and URL signing.
type Credential struct {
	JSON        []byte
	ProjectID   string
	ClientEmail string
	PrivateKey  []byte
	Google      *google.Credentials
}

type serviceAccount struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

// Provider decodes the credential on first use and caches the result,
// including a failure, for its lifetime.
type Provider struct {
	envKey string
	lookup func(string) (string, bool)

	once sync.Once
	cred *Credential
	err  error
}

func NewProvider(envKey string) *Provider {
	return &Provider{envKey: envKey, lookup: os.LookupEnv}
}

var defaultProvider = NewProvider(EnvKey)

// Load returns the process-wide credential read from EnvKey.
func Load() (*Credential, error) {
	return defaultProvider.Load()
}

func (p *Provider) Load() (*Credential, error) {
	p.once.Do(func() {
		p.cred, p.err = p.decode()
	})
	return p.cred, p.err
}

func (p *Provider) decode() (*Credential, error) {
	raw, ok := p.lookup(p.envKey)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%s environment variable is not set: %w", p.envKey, domain.ErrConfiguration)
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %v: %w", p.envKey, err, domain.ErrConfiguration)
	}
	var sa serviceAccount
	if err := json.Unmarshal(data, &sa); err != nil {
		return nil, fmt.Errorf("parse service account json: %v: %w", err, domain.ErrConfiguration)
	}
	// The token source outlives any single request, so it must not be bound to a request context.
	gc, err := google.CredentialsFromJSON(context.Background(), data, cloudPlatformScope)
	if err != nil {
		return nil, fmt.Errorf("build google credentials: %v: %w", err, domain.ErrConfiguration)
	}
	return &Credential{
		JSON:        data,
		ProjectID:   sa.ProjectID,
		ClientEmail: sa.ClientEmail,
		PrivateKey:  []byte(sa.PrivateKey),
		Google:      gc,
	}, nil
}
