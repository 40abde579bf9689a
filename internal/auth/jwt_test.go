package auth

import (
	"testing"

	"skill-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.ExpirationHours = 24
	cfg.JWT.Issuer = "skill-backend"
	return cfg
}

func TestTokenRoundTrip(t *testing.T) {
	mgr := NewJWTManager(testConfig("test-secret"))

	token, err := mgr.GenerateToken("mrojas", "upstream-bearer-token")
	require.NoError(t, err)

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "mrojas", claims.Username)
	assert.Equal(t, "upstream-bearer-token", claims.SkillToken)
	assert.Equal(t, "skill-backend", claims.Issuer)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	token, err := NewJWTManager(testConfig("secret-a")).GenerateToken("mrojas", "x")
	require.NoError(t, err)

	_, err = NewJWTManager(testConfig("secret-b")).ValidateToken(token)
	assert.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	_, err := NewJWTManager(testConfig("secret")).ValidateToken("not.a.token")
	assert.Error(t, err)
}
