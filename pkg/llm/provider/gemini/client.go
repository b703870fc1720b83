package gemini

import (
	"context"
	"log/slog"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/lwmacct/251215-go-pkg-llmroute/pkg/llm"
	"github.com/lwmacct/251215-go-pkg-llmroute/pkg/llm/core"
	"github.com/lwmacct/251215-go-pkg-llmroute/pkg/llm/protocol/gemini"
)

// ═══════════════════════════════════════════════════════════════════════════
// 常量定义
// ═══════════════════════════════════════════════════════════════════════════

const (
	// DefaultBaseURL Gemini API 默认地址
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultTimeout 默认超时时间
	DefaultTimeout = llm.DefaultTimeout

	// HeaderAPIKey Gemini API Key 请求头
	HeaderAPIKey = "x-goog-api-key"
)

// 模型常量
const (
	ModelGemini25Pro   = "gemini-2.5-pro"
	ModelGemini25Flash = "gemini-2.5-flash"
	ModelGemini20Flash = "gemini-2.0-flash"
	ModelGemini15Pro   = "gemini-1.5-pro"
	ModelGemini15Flash = "gemini-1.5-flash"
	ModelGeminiPro     = "gemini-pro"
)

// ═══════════════════════════════════════════════════════════════════════════
// 配置
// ═══════════════════════════════════════════════════════════════════════════

// Config 客户端配置
type Config struct {
	// APIKey Gemini API 密钥（必需，已按优先级解析）
	APIKey string

	// BaseURL API 基础地址，默认 https://generativelanguage.googleapis.com/v1beta
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
		return llm.NewConfigError("API key is required for Gemini API backend", nil)
	}
	return nil
}

// GetDefaults 获取默认值
func (c *Config) GetDefaults() (string, string, time.Duration) {
	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := core.GetDefaultTimeout(c.Timeout)
	return baseURL, c.Model, timeout
}

// BuildHeaders 构建请求头
// API Key 通过请求头传递，不出现在 URL 中（URL 会进入日志）
func (c *Config) BuildHeaders() map[string]string {
	headers := map[string]string{
		"Content-Type": "application/json",
		HeaderAPIKey:   c.APIKey,
	}
	maps.Copy(headers, c.Headers)
	return headers
}

// ProviderName 返回 Provider 名称
func (c *Config) ProviderName() string {
	return llm.VariantGemini.String()
}

// ═══════════════════════════════════════════════════════════════════════════
// 进程级配置
// ═══════════════════════════════════════════════════════════════════════════

// 进程级 Gemini 客户端状态
//
// ⚠️ 有意保留的全局副作用：每次 [Configure] 都会替换该状态，
// 之后创建的 [GenerativeModel] 都绑定到新的客户端。
var (
	globalMu     sync.RWMutex
	globalClient *core.BaseClient
)

// Configure 设置进程级 Gemini 客户端
//
// 这是一个不纯的操作：它修改全局状态，影响此后所有 [NewGenerativeModel] 调用。
// 已创建的 GenerativeModel 保留创建时的客户端，不受影响。
func Configure(config *Config) error {
	_, err := configure(config)
	return err
}

// configure 安装进程级客户端并返回本次安装的实例
//
// 调用方应直接使用返回值，而不是再次读取全局状态：
// 两次读取之间其他 goroutine 可能已经替换了全局客户端。
func configure(config *Config) (*core.BaseClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	finalConfig := *config
	base, err := core.NewBaseClient(&finalConfig, core.WithLogger(config.Logger))
	if err != nil {
		return nil, err
	}

	globalMu.Lock()
	globalClient = base
	globalMu.Unlock()
	return base, nil
}

// Configured 报告进程级客户端是否已设置
func Configured() bool {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalClient != nil
}

// resetConfiguration 清除进程级客户端（测试用）
func resetConfiguration() {
	globalMu.Lock()
	globalClient = nil
	globalMu.Unlock()
}

// ═══════════════════════════════════════════════════════════════════════════
// GenerativeModel 模型句柄
// ═══════════════════════════════════════════════════════════════════════════

// GenerativeModel 绑定到单个模型名称的句柄
//
// 创建时捕获当时的进程级客户端，之后的所有调用复用它。
type GenerativeModel struct {
	name    string
	client  *core.BaseClient
	adapter *gemini.Adapter
}

// NewGenerativeModel 基于进程级配置创建模型句柄
//
// 必须先调用 [Configure]，否则返回配置错误。
func NewGenerativeModel(name string) (*GenerativeModel, error) {
	if name == "" {
		return nil, core.NewInvalidConfigError("model")
	}

	globalMu.RLock()
	client := globalClient
	globalMu.RUnlock()

	if client == nil {
		return nil, llm.NewConfigError("gemini is not configured, call Configure first", nil)
	}
	return newGenerativeModel(name, client), nil
}

// newGenerativeModel 创建绑定到指定客户端的模型句柄
func newGenerativeModel(name string, client *core.BaseClient) *GenerativeModel {
	return &GenerativeModel{
		name:    name,
		client:  client,
		adapter: gemini.NewAdapter(),
	}
}

// Name 返回模型名称
func (m *GenerativeModel) Name() string {
	return m.name
}

// GenerateContent 发送单次 generateContent 请求并返回响应文本
func (m *GenerativeModel) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return m.client.Generate(ctx, m, m.name, prompt, m.adapter)
}

// BuildEndpoint 构建 generateContent 端点
// 实现 core.EndpointBuilder 接口
//
// 兼容 "models/gemini-pro" 形式的完整资源名。
func (m *GenerativeModel) BuildEndpoint(model string) string {
	return "/models/" + strings.TrimPrefix(model, "models/") + ":generateContent"
}

// ═══════════════════════════════════════════════════════════════════════════
// Client
// ═══════════════════════════════════════════════════════════════════════════

// Client Gemini LLM 客户端
//
// 实现 [llm.Provider] 接口。
//
// 架构设计：
//   - 构造时配置进程级客户端（全局副作用），然后创建绑定模型的句柄
//   - 句柄只创建一次，所有 GenerateContent 调用复用
type Client struct {
	model  string
	handle *GenerativeModel
}

// New 创建新的 Gemini 客户端
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
		return nil, llm.NewMissingCredentialError(llm.EnvGeminiAPIKey, config.Model)
	}

	// 句柄绑定本次安装的客户端，并发构造时不会拿到其他实例的凭证
	base, err := configure(config)
	if err != nil {
		return nil, err
	}

	return &Client{
		model:  config.Model,
		handle: newGenerativeModel(config.Model, base),
	}, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Provider 接口实现
// ═══════════════════════════════════════════════════════════════════════════

// GenerateContent 生成内容
//
// 实现 [llm.Provider] 接口。
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return c.handle.GenerateContent(ctx, prompt)
}

// Variant 实现 [llm.Provider] 接口
func (c *Client) Variant() llm.Variant {
	return llm.VariantGemini
}

// Model 实现 [llm.Provider] 接口
func (c *Client) Model() string {
	return c.model
}

// Close 释放空闲连接
//
// 实现 [llm.Provider] 接口。进程级客户端与句柄共享传输层，关闭后仍可继续使用，
// 下次请求会重新建立连接。
func (c *Client) Close() error {
	return c.handle.client.Close()
}

// 确保 Client 实现了 Provider 接口
var _ llm.Provider = (*Client)(nil)
