package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjeetk74691-glitch/Kirana-store/internal/config"
)

func TestGenerateAndParseToken(t *testing.T) {
	cfg := &config.JWTConfig{Secret: "test-secret"}

	token, err := GenerateToken(cfg, 42, "ravi")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "ravi", claims.Username)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(&config.JWTConfig{Secret: "secret-a"}, 1, "u")
	require.NoError(t, err)

	_, err = ParseToken(&config.JWTConfig{Secret: "secret-b"}, token)
	assert.Error(t, err)
}

func TestConsistentHashRing(t *testing.T) {
	ring := NewConsistentHashRing([]string{"node-1", "node-2", "node-3"}, 50)

	// 同一个 key 总是落到同一个节点
	n1 := ring.GetNode("some-token")
	n2 := ring.GetNode("some-token")
	assert.Equal(t, n1, n2)
	assert.NotEmpty(t, n1)

	// 空节点列表会兜底出一个默认节点
	fallback := NewConsistentHashRing(nil, 0)
	assert.Equal(t, "auth-node-default", fallback.GetNode("anything"))
}
