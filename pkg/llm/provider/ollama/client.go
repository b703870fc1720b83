package ollama

import (
	"context"
	"log/slog"
	"maps"
	"os"
	"strings"
	"time"

	"github.com/lwmacct/251215-go-pkg-llmroute/pkg/llm"
	"github.com/lwmacct/251215-go-pkg-llmroute/pkg/llm/core"
	"github.com/lwmacct/251215-go-pkg-llmroute/pkg/llm/protocol/ollama"
)

const (
	// DefaultHost Ollama 服务默认地址
	DefaultHost = "http://localhost:11434"

	// DefaultTimeout 默认超时时间（本地推理可能较慢）
	DefaultTimeout = 120 * time.Second

	// EndpointChat 对话端点
	EndpointChat = "/api/chat"

	// trimCharset 模型名前缀剥离使用的字符集
	trimCharset = "olam/"
)

// TrimModelName 去掉模型名前面的 Ollama 前缀
//
// 注意：剥离的是字符集 {o, l, a, m, /} 组成的最长前导串，而不是字面前缀，
// 因此 "ollama/llama3" 得到 "3"，"ollama/ollama/x" 得到 "x"。
// 该行为是历史兼容行为，调用方如需保留完整模型名，请避免以这些字符开头。
func TrimModelName(name string) string {
	return strings.TrimLeft(name, trimCharset)
}

// NormalizeHost 规范化 Ollama 主机地址
//
// 缺少协议时补全 http://，并去掉末尾的 /。
func NormalizeHost(host string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return ""
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	return strings.TrimRight(host, "/")
}

// ═══════════════════════════════════════════════════════════════════════════
// 配置和客户端
// ═══════════════════════════════════════════════════════════════════════════

// Config 客户端配置
type Config struct {
	// APIKey API 密钥（可选）；非空时每个请求携带 Authorization: Bearer
	APIKey string

	// Host 服务地址；为空时读取 OLLAMA_HOST，再回退到 http://localhost:11434
	Host string

	// Model 模型名称，可以带 "ollama/" 前缀
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
	return nil
}

// GetDefaults 获取默认值
func (c *Config) GetDefaults() (string, string, time.Duration) {
	host := NormalizeHost(c.Host)
	if host == "" {
		host = NormalizeHost(os.Getenv(llm.EnvOllamaHost))
	}
	if host == "" {
		host = DefaultHost
	}
	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return host, TrimModelName(c.Model), timeout
}

// BuildHeaders 构建请求头
func (c *Config) BuildHeaders() map[string]string {
	headers := map[string]string{
		"Content-Type": "application/json",
	}
	if c.APIKey != "" {
		headers["Authorization"] = "Bearer " + c.APIKey
	}
	maps.Copy(headers, c.Headers)
	return headers
}

// ProviderName 返回 Provider 名称
func (c *Config) ProviderName() string {
	return llm.VariantOllama.String()
}

// Client Ollama LLM 客户端
//
// 实现 [llm.Provider] 接口。凭证可选，不修改全局状态。
type Client struct {
	model   string
	base    *core.BaseClient
	adapter *ollama.Adapter
}

// New 创建新的 Ollama 客户端
func New(config *Config) (*Client, error) {
	if config == nil {
		return nil, llm.NewConfigError("config is required", nil)
	}
	if config.Model == "" {
		return nil, core.NewInvalidConfigError("model")
	}

	finalConfig := *config
	base, err := core.NewBaseClient(&finalConfig, core.WithLogger(config.Logger))
	if err != nil {
		return nil, err
	}

	_, model, _ := finalConfig.GetDefaults()
	return &Client{
		model:   model,
		base:    base,
		adapter: ollama.NewAdapter(),
	}, nil
}

// GenerateContent 生成内容
//
// 实现 [llm.Provider] 接口。以非流式方式调用 /api/chat，返回 message.content。
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return c.base.Generate(ctx, core.StaticEndpoint(EndpointChat), c.model, prompt, c.adapter)
}

// Variant 实现 [llm.Provider] 接口
func (c *Client) Variant() llm.Variant {
	return llm.VariantOllama
}

// Model 返回剥离前缀后发送给服务端的模型名
func (c *Client) Model() string {
	return c.model
}

// Close 释放空闲连接，实现 [llm.Provider] 接口
func (c *Client) Close() error {
	return c.base.Close()
}

var _ llm.Provider = (*Client)(nil)
