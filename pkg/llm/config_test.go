package llm

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// ═══════════════════════════════════════════════════════════════════════════
// 加载测试
// ═══════════════════════════════════════════════════════════════════════════

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
model_name: gpt-4o
api_key: secret-key
base_url: https://proxy.example.com/v1
timeout: 30s
`)

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", cfg.ModelName)
	assert.Equal(t, "secret-key", cfg.APIKey)
	assert.Equal(t, "https://proxy.example.com/v1", cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, VariantOpenAI, cfg.Variant())
}

func TestLoadConfigFile_PartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "api_key: k\n")

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, cfg.ModelName)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, "k", cfg.APIKey)
}

func TestLoadConfigFile_Invalid(t *testing.T) {
	path := writeConfig(t, "model_name: [unterminated\n")

	_, err := LoadConfigFile(path)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestLoadConfigOrDefault(t *testing.T) {
	t.Run("文件不存在", func(t *testing.T) {
		cfg, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), *cfg)
	})

	t.Run("空路径", func(t *testing.T) {
		cfg, err := LoadConfigOrDefault("")
		require.NoError(t, err)
		assert.Equal(t, DefaultModel, cfg.ModelName)
	})

	t.Run("解析失败仍返回错误", func(t *testing.T) {
		_, err := LoadConfigOrDefault(writeConfig(t, "timeout: not-a-duration\n"))
		require.Error(t, err)
	})
}

// ═══════════════════════════════════════════════════════════════════════════
// Merge / Validate 测试
// ═══════════════════════════════════════════════════════════════════════════

func TestConfig_Merge(t *testing.T) {
	file := Config{
		ModelName: "test-model",
		APIKey:    "secret-key",
		Timeout:   10 * time.Second,
	}

	merged := file.Merge(Config{ModelName: "gpt-4", Timeout: 20 * time.Second})

	assert.Equal(t, "gpt-4", merged.ModelName)
	assert.Equal(t, "secret-key", merged.APIKey, "empty override keeps file value")
	assert.Equal(t, 20*time.Second, merged.Timeout)
	assert.Equal(t, "test-model", file.ModelName, "receiver is not modified")
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	err := Config{}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model_name is required")

	err = Config{ModelName: "m", Timeout: -time.Second}.Validate()
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}
