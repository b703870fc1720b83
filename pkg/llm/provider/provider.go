// Package provider 按模型名称分派到对应的 LLM 后端
//
// 使用方式：
//
//	p, err := provider.New(cfgAPIKey, "gpt-4o")
//	if err != nil {
//	    return err
//	}
//	text, err := p.GenerateContent(ctx, "hello")
//
//	// 本地 Mock（无需配置）
//	p := provider.LocalMock()
package provider

import (
	"context"
	"log/slog"
	"maps"
	"time"

	"github.com/lwmacct/251215-go-pkg-llmroute/pkg/llm"
	"github.com/lwmacct/251215-go-pkg-llmroute/pkg/llm/provider/gemini"
	"github.com/lwmacct/251215-go-pkg-llmroute/pkg/llm/provider/localmock"
	"github.com/lwmacct/251215-go-pkg-llmroute/pkg/llm/provider/ollama"
	"github.com/lwmacct/251215-go-pkg-llmroute/pkg/llm/provider/openai"
)

// ═══════════════════════════════════════════════════════════════════════════
// 选项
// ═══════════════════════════════════════════════════════════════════════════

// options 构造选项
type options struct {
	baseURL string
	timeout time.Duration
	headers map[string]string
	logger  *slog.Logger
}

// Option 构造选项函数
type Option func(*options)

// WithBaseURL 覆盖后端地址（优先于环境变量和默认值）
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

// WithTimeout 设置请求超时
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithHeaders 追加请求头
func WithHeaders(headers map[string]string) Option {
	return func(o *options) {
		if o.headers == nil {
			o.headers = make(map[string]string, len(headers))
		}
		maps.Copy(o.headers, headers)
	}
}

// WithLogger 设置调试日志
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 工厂函数
// ═══════════════════════════════════════════════════════════════════════════

// New 按模型名称创建 Provider
//
// 变体由 [llm.ResolveVariant] 决定（Ollama、OpenAI、Gemini 依次匹配，先匹配者胜出）。
// 凭证按 [llm.ResolveCredential] 解析：对应环境变量非空时优先，否则使用 configAPIKey。
//
// 错误：
//   - Gemini/OpenAI 无可用凭证时返回 [llm.MissingCredentialError]
//   - 选中变体的构造失败原样返回
//
// 注意：选中 Gemini 时会替换进程级 Gemini 配置，见 [gemini.Configure]。
func New(configAPIKey, modelName string, opts ...Option) (llm.Provider, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	variant := llm.ResolveVariant(modelName)
	apiKey, err := llm.ResolveVariantCredential(variant, configAPIKey, modelName)
	if err != nil {
		return nil, err
	}

	switch variant {
	case llm.VariantOllama:
		c, err := ollama.New(&ollama.Config{
			APIKey:  apiKey,
			Host:    o.baseURL,
			Model:   modelName,
			Timeout: o.timeout,
			Headers: o.headers,
			Logger:  o.logger,
		})
		if err != nil {
			return nil, err
		}
		return c, nil

	case llm.VariantOpenAI:
		c, err := openai.New(&openai.Config{
			APIKey:  apiKey,
			BaseURL: o.baseURL,
			Model:   modelName,
			Timeout: o.timeout,
			Headers: o.headers,
			Logger:  o.logger,
		})
		if err != nil {
			return nil, err
		}
		return c, nil

	default:
		c, err := gemini.New(&gemini.Config{
			APIKey:  apiKey,
			BaseURL: o.baseURL,
			Model:   modelName,
			Timeout: o.timeout,
			Headers: o.headers,
			Logger:  o.logger,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// NewFromConfig 使用调用方配置创建 Provider
//
// cfg.BaseURL、cfg.Timeout 非零时作为选项追加在 opts 之前，opts 可以再次覆盖。
func NewFromConfig(cfg *llm.Config, opts ...Option) (llm.Provider, error) {
	if cfg == nil {
		return nil, llm.NewConfigError("config is required", nil)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var all []Option
	if cfg.BaseURL != "" {
		all = append(all, WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		all = append(all, WithTimeout(cfg.Timeout))
	}
	all = append(all, opts...)

	return New(cfg.APIKey, cfg.ModelName, all...)
}

// ═══════════════════════════════════════════════════════════════════════════
// 便捷函数
// ═══════════════════════════════════════════════════════════════════════════

// Generate 创建 Provider 并执行一次生成，完成后关闭
func Generate(ctx context.Context, configAPIKey, modelName, prompt string, opts ...Option) (string, error) {
	p, err := New(configAPIKey, modelName, opts...)
	if err != nil {
		return "", err
	}
	defer func() { _ = p.Close() }()

	return p.GenerateContent(ctx, prompt)
}

// LocalMock 创建 LocalMock Provider（用于测试）
func LocalMock(opts ...localmock.Option) llm.Provider {
	return localmock.New(opts...)
}

// Must 创建 Provider，失败时 panic
func Must(configAPIKey, modelName string, opts ...Option) llm.Provider {
	p, err := New(configAPIKey, modelName, opts...)
	if err != nil {
		panic(err)
	}
	return p
}
