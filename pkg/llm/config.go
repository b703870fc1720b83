package llm

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ═══════════════════════════════════════════════════════════════════════════
// 调用方配置
// ═══════════════════════════════════════════════════════════════════════════

// DefaultModel 未指定模型时使用的模型（落到 Gemini 变体）
const DefaultModel = "gemini-1.5-flash"

// DefaultTimeout 默认请求超时
const DefaultTimeout = 120 * time.Second

// Config 调用方配置
//
// 由配置文件提供，命令行参数通过 [Config.Merge] 覆盖。
// APIKey 只是候选凭证，最终凭证由 [ResolveCredential] 决定（环境变量优先）。
//
// 配置文件示例：
//
//	model_name: gpt-4o
//	api_key: sk-xxx
//	timeout: 60s
type Config struct {
	// ModelName 模型名称，决定使用哪个后端变体
	ModelName string `yaml:"model_name"`

	// APIKey 配置文件中的 API Key（可选）
	APIKey string `yaml:"api_key"`

	// BaseURL 覆盖后端默认地址（可选）
	BaseURL string `yaml:"base_url"`

	// Timeout 请求超时
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		ModelName: DefaultModel,
		Timeout:   DefaultTimeout,
	}
}

// LoadConfigFile 从 YAML 文件加载配置
//
// 未出现在文件中的字段保留 [DefaultConfig] 的值。
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes 从 YAML 字节加载配置
func LoadConfigFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, NewConfigError("parse config", err)
	}
	return &cfg, nil
}

// LoadConfigOrDefault 加载配置文件，文件不存在时返回默认配置
//
// 解析失败等其他错误仍然返回。
func LoadConfigOrDefault(path string) (*Config, error) {
	if path == "" {
		cfg := DefaultConfig()
		return &cfg, nil
	}
	cfg, err := LoadConfigFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			def := DefaultConfig()
			return &def, nil
		}
		return nil, err
	}
	return cfg, nil
}

// Merge 用 override 中的非零字段覆盖当前配置，返回新配置
func (c Config) Merge(override Config) Config {
	out := c
	if override.ModelName != "" {
		out.ModelName = override.ModelName
	}
	if override.APIKey != "" {
		out.APIKey = override.APIKey
	}
	if override.BaseURL != "" {
		out.BaseURL = override.BaseURL
	}
	if override.Timeout > 0 {
		out.Timeout = override.Timeout
	}
	return out
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.ModelName == "" {
		return NewConfigError("model_name is required", nil)
	}
	if c.Timeout < 0 {
		return NewConfigError(fmt.Sprintf("timeout must be >= 0, got %s", c.Timeout), nil)
	}
	return nil
}

// Variant 返回配置模型对应的后端变体
func (c Config) Variant() Variant {
	return ResolveVariant(c.ModelName)
}
