package openai

import (
	"context"
	"log/slog"
	"maps"
	"os"
	"time"

	"github.com/lwmacct/251215-go-pkg-llmroute/pkg/llm"
	"github.com/lwmacct/251215-go-pkg-llmroute/pkg/llm/core"
	"github.com/lwmacct/251215-go-pkg-llmroute/pkg/llm/protocol/openai"
)

const (
	// DefaultBaseURL OpenAI API 默认地址
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultTimeout 默认超时时间
	DefaultTimeout = llm.DefaultTimeout

	// EndpointChatCompletions Chat Completions 端点
	EndpointChatCompletions = "/chat/completions"
)

// ═══════════════════════════════════════════════════════════════════════════
// 配置和客户端
// ═══════════════════════════════════════════════════════════════════════════

// Config 客户端配置
type Config struct {
	// APIKey API 密钥（必需，已按优先级解析）
	APIKey string

	// BaseURL API 基础地址；为空时读取 OPENAI_BASE_URL，再回退到 https://api.openai.com/v1
	BaseURL string

	// Model 模型名称
	Model string

	// Timeout 请求超时时间，默认 120 秒
	Timeout time.Duration

	// Headers 额外的请求头
	Headers map[string]string

	// Logger 调试日志（可选）
	Logger *slog.Logger
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c == nil {
		return llm.NewConfigError("config is required", nil)
	}
	if c.APIKey == "" {
		return llm.NewConfigError("API key is required", nil)
	}
	return nil
}

// GetDefaults 获取默认值
func (c *Config) GetDefaults() (string, string, time.Duration) {
	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = os.Getenv(llm.EnvOpenAIBaseURL)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := core.GetDefaultTimeout(c.Timeout)
	return baseURL, c.Model, timeout
}

// BuildHeaders 构建请求头
func (c *Config) BuildHeaders() map[string]string {
	headers := map[string]string{
		"Authorization": "Bearer " + c.APIKey,
		"Content-Type":  "application/json",
	}
	maps.Copy(headers, c.Headers)
	return headers
}

// ProviderName 返回 Provider 名称
func (c *Config) ProviderName() string {
	return llm.VariantOpenAI.String()
}

// Client OpenAI 兼容的 LLM 客户端
//
// 实现 [llm.Provider] 接口。
//
// 架构设计：
//   - 每个实例持有独立的 core.BaseClient，不修改任何全局状态
//   - 协议差异由 protocol/openai 适配器封装
type Client struct {
	config  *Config
	base    *core.BaseClient
	adapter *openai.Adapter
}

// New 创建新的 OpenAI 客户端
//
// config.APIKey 为空时返回 [llm.MissingCredentialError]。
func New(config *Config) (*Client, error) {
	if config == nil {
		return nil, llm.NewConfigError("config is required", nil)
	}
	if config.Model == "" {
		return nil, core.NewInvalidConfigError("model")
	}
	if config.APIKey == "" {
		return nil, llm.NewMissingCredentialError(llm.EnvOpenAIAPIKey, config.Model)
	}

	finalConfig := *config
	base, err := core.NewBaseClient(&finalConfig, core.WithLogger(config.Logger))
	if err != nil {
		return nil, err
	}

	return &Client{
		config:  &finalConfig,
		base:    base,
		adapter: openai.NewAdapter(),
	}, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Provider 接口实现
// ═══════════════════════════════════════════════════════════════════════════

// GenerateContent 生成内容
//
// 实现 [llm.Provider] 接口。发送单条用户消息，返回 choices[0].message.content。
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return c.base.Generate(ctx, core.StaticEndpoint(EndpointChatCompletions), c.config.Model, prompt, c.adapter)
}

// Variant 实现 [llm.Provider] 接口
func (c *Client) Variant() llm.Variant {
	return llm.VariantOpenAI
}

// Model 实现 [llm.Provider] 接口
func (c *Client) Model() string {
	return c.config.Model
}

// Close 释放空闲连接
//
// 实现 [llm.Provider] 接口。
func (c *Client) Close() error {
	return c.base.Close()
}

var _ llm.Provider = (*Client)(nil)
