package httpapi

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGrantKeys(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return pub, priv
}

func TestSignAndVerifyActorGrant(t *testing.T) {
	t.Parallel()

	pub, priv := newGrantKeys(t)
	cfg := &GrantConfig{Issuer: "guildforge", Audience: "treasury", Key: pub}

	token, err := SignActorGrant("guildforge", "treasury", "GALICE", priv, time.Minute)
	require.NoError(t, err)

	actor, err := cfg.VerifyActorGrant(token)
	require.NoError(t, err)
	assert.Equal(t, "GALICE", actor)
}

func TestVerifyActorGrantRejectsBadGrants(t *testing.T) {
	t.Parallel()

	pub, priv := newGrantKeys(t)
	cfg := &GrantConfig{Issuer: "guildforge", Audience: "treasury", Key: pub}

	_, err := cfg.VerifyActorGrant("not-a-token")
	assert.Error(t, err)

	expired, err := SignActorGrant("guildforge", "treasury", "GALICE", priv, -time.Minute)
	require.NoError(t, err)
	_, err = cfg.VerifyActorGrant(expired)
	assert.Error(t, err)

	wrongIssuer, err := SignActorGrant("someone-else", "treasury", "GALICE", priv, time.Minute)
	require.NoError(t, err)
	_, err = cfg.VerifyActorGrant(wrongIssuer)
	assert.Error(t, err)

	_, otherKey := newGrantKeys(t)
	wrongKey, err := SignActorGrant("guildforge", "treasury", "GALICE", otherKey, time.Minute)
	require.NoError(t, err)
	_, err = cfg.VerifyActorGrant(wrongKey)
	assert.Error(t, err)
}

func TestLoadGrantConfigFromEnv(t *testing.T) {
	pub, _ := newGrantKeys(t)

	t.Run("unset disables verification", func(t *testing.T) {
		cfg, err := LoadGrantConfigFromEnv()
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("complete config", func(t *testing.T) {
		t.Setenv("GUILDFORGE_TREASURY_GRANT_ISSUER", "guildforge")
		t.Setenv("GUILDFORGE_TREASURY_GRANT_AUDIENCE", "treasury")
		t.Setenv("GUILDFORGE_TREASURY_GRANT_PUBLIC_KEY", base64.StdEncoding.EncodeToString(pub))

		cfg, err := LoadGrantConfigFromEnv()
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, "guildforge", cfg.Issuer)
		assert.Equal(t, "treasury", cfg.Audience)
		assert.Equal(t, []byte(pub), []byte(cfg.Key))
	})

	t.Run("partial config fails", func(t *testing.T) {
		t.Setenv("GUILDFORGE_TREASURY_GRANT_ISSUER", "guildforge")

		_, err := LoadGrantConfigFromEnv()
		assert.Error(t, err)
	})

	t.Run("bad key fails", func(t *testing.T) {
		t.Setenv("GUILDFORGE_TREASURY_GRANT_ISSUER", "guildforge")
		t.Setenv("GUILDFORGE_TREASURY_GRANT_AUDIENCE", "treasury")
		t.Setenv("GUILDFORGE_TREASURY_GRANT_PUBLIC_KEY", "dG9vLXNob3J0")

		_, err := LoadGrantConfigFromEnv()
		assert.Error(t, err)
	})
}
