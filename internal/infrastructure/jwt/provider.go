package jwtinfra

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/intake-dal/internal/config"
	"github.com/intake-dal/internal/domain"
)

// Claims holds the JWT payload fields. UserID is the user's email, which is
// also the recipient key on notifications.
type Claims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Provider signs and verifies RS256 access tokens.
type Provider struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	expiry     time.Duration
	parser     *jwt.Parser
}

// NewProvider loads the PEM key pair named in cfg. Failures wrap domain.ErrConfiguration.
func NewProvider(cfg *config.Config) (*Provider, error) {
	privKey, err := readKey(cfg.JWTPrivateKeyPath, "private", jwt.ParseRSAPrivateKeyFromPEM)
	if err != nil {
		return nil, err
	}
	pubKey, err := readKey(cfg.JWTPublicKeyPath, "public", jwt.ParseRSAPublicKeyFromPEM)
	if err != nil {
		return nil, err
	}
	return &Provider{
		privateKey: privKey,
		publicKey:  pubKey,
		expiry:     cfg.JWTExpiry,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
	}, nil
}

func readKey[K any](path, kind string, parse func([]byte) (K, error)) (K, error) {
	var zero K
	data, err := os.ReadFile(path)
	if err != nil {
		return zero, fmt.Errorf("read %s key: %v: %w", kind, err, domain.ErrConfiguration)
	}
	key, err := parse(data)
	if err != nil {
		return zero, fmt.Errorf("parse %s key: %v: %w", kind, err, domain.ErrConfiguration)
	}
	return key, nil
}

// Sign issues a token. Tokens are minted by the identity service in production;
// this is used by tooling and tests.
func (p *Provider) Sign(userID, name, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Name:   name,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(p.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(p.privateKey)
}

// Verify parses and validates a token. Every failure wraps domain.ErrUnauthorized;
// jwt sentinels such as jwt.ErrTokenExpired stay reachable through errors.Is.
func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if _, err := p.parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return p.publicKey, nil
	}); err != nil {
		return nil, fmt.Errorf("verify token: %w: %w", err, domain.ErrUnauthorized)
	}
	switch {
	case claims.UserID == "":
		return nil, fmt.Errorf("verify token: %w: %w", errNoUser, domain.ErrUnauthorized)
	case !domain.KnownRole(claims.Role):
		return nil, fmt.Errorf("verify token: role %q: %w: %w", claims.Role, errUnknownRole, domain.ErrUnauthorized)
	}
	return claims, nil
}

var (
	errNoUser      = errors.New("token has no user")
	errUnknownRole = errors.New("unknown role")
)
