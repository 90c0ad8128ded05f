package httpapi

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/guildforge/treasury/internal/platform/errors"
)

// grantEnv holds raw env values before post-parse validation.
type grantEnv struct {
	Issuer    string `env:"GUILDFORGE_TREASURY_GRANT_ISSUER"`
	Audience  string `env:"GUILDFORGE_TREASURY_GRANT_AUDIENCE"`
	PublicKey string `env:"GUILDFORGE_TREASURY_GRANT_PUBLIC_KEY"`
}

// GrantConfig verifies signed actor grants issued by the platform gateway.
type GrantConfig struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
}

// LoadGrantConfigFromEnv reads the grant verifier configuration. It returns
// nil when no grant env vars are set, which disables grant verification and
// makes the API trust the X-Actor header instead.
func LoadGrantConfigFromEnv() (*GrantConfig, error) {
	var raw grantEnv
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("parse grant env: %w", err)
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	publicKey := strings.TrimSpace(raw.PublicKey)
	if issuer == "" && audience == "" && publicKey == "" {
		return nil, nil
	}
	if issuer == "" {
		return nil, fmt.Errorf("GUILDFORGE_TREASURY_GRANT_ISSUER is required")
	}
	if audience == "" {
		return nil, fmt.Errorf("GUILDFORGE_TREASURY_GRANT_AUDIENCE is required")
	}
	if publicKey == "" {
		return nil, fmt.Errorf("GUILDFORGE_TREASURY_GRANT_PUBLIC_KEY is required")
	}
	keyBytes, err := decodeBase64(publicKey)
	if err != nil {
		return nil, fmt.Errorf("decode grant public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("grant public key must be %d bytes", ed25519.PublicKeySize)
	}
	return &GrantConfig{
		Issuer:   issuer,
		Audience: audience,
		Key:      ed25519.PublicKey(keyBytes),
	}, nil
}

// VerifyActorGrant validates a signed grant and returns the actor address
// from its subject claim.
func (c *GrantConfig) VerifyActorGrant(token string) (string, error) {
	if c == nil || len(c.Key) != ed25519.PublicKeySize {
		return "", apperrors.New(apperrors.CodeUnauthenticated, "grant verifier is not configured")
	}
	parsed, err := jwt.Parse(
		token,
		func(*jwt.Token) (any, error) { return c.Key, nil },
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithIssuer(c.Issuer),
		jwt.WithAudience(c.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeUnauthenticated, "invalid actor grant", err)
	}
	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", apperrors.New(apperrors.CodeUnauthenticated, "actor grant has no subject")
	}
	return subject, nil
}

// SignActorGrant issues a grant for actor. Used by the platform gateway and
// by operational tooling.
func SignActorGrant(issuer, audience, actor string, key ed25519.PrivateKey, ttl time.Duration) (string, error) {
	if len(key) != ed25519.PrivateKeySize {
		return "", errors.New("grant signing key must be an ed25519 private key")
	}
	if actor == "" {
		return "", errors.New("grant actor is required")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": issuer,
		"aud": audience,
		"sub": actor,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign actor grant: %w", err)
	}
	return signed, nil
}

func decodeBase64(value string) ([]byte, error) {
	if value == "" {
		return nil, errors.New("empty base64 value")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
