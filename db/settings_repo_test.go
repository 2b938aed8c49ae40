package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsGetSet(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, Init(dbPath))
	t.Cleanup(func() { Close() })

	repo := NewSettingsRepository()

	// 不存在的键返回空字符串
	value, err := repo.Get("ai_provider")
	require.NoError(t, err)
	assert.Equal(t, "", value)

	require.NoError(t, repo.Set("ai_provider", "glm"))
	require.NoError(t, repo.Set("ai_api_key", "sk-test"))

	value, err = repo.Get("ai_provider")
	require.NoError(t, err)
	assert.Equal(t, "glm", value)

	// 覆盖写入
	require.NoError(t, repo.Set("ai_provider", "qwen"))
	value, err = repo.Get("ai_provider")
	require.NoError(t, err)
	assert.Equal(t, "qwen", value)

	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"ai_provider": "qwen", "ai_api_key": "sk-test"}, all)
}
