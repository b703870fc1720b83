package core

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/lwmacct/251215-go-pkg-llmroute/pkg/llm"
)

// HeaderRequestID 请求 ID 头
const HeaderRequestID = "X-Request-ID"

// ═══════════════════════════════════════════════════════════════════════════
// 接口定义
// ═══════════════════════════════════════════════════════════════════════════

// ProviderConfig Provider 配置接口
//
// 每个 Provider 实现此接口来定义其特有的配置和默认值。
type ProviderConfig interface {
	// Validate 验证配置
	// 返回错误如果配置无效
	Validate() error

	// GetDefaults 获取默认值
	// 返回 baseURL, model, timeout
	GetDefaults() (baseURL, model string, timeout time.Duration)

	// BuildHeaders 构建请求头
	// 返回认证头和其他必要的 HTTP 头
	BuildHeaders() map[string]string

	// ProviderName 返回 Provider 名称
	// 用于错误日志和追踪
	ProviderName() string
}

// ═══════════════════════════════════════════════════════════════════════════
// BaseClient 基础客户端
// ═══════════════════════════════════════════════════════════════════════════

// BaseClient 基础客户端
//
// 封装了 HTTP 通信、请求 ID、错误映射等通用逻辑。
// 构造一次后被同一实例的所有调用复用；并发安全性来自 resty 客户端。
//
// 使用示例：
//
//	config := &openai.Config{APIKey: "sk-xxx"}
//	baseClient, _ := core.NewBaseClient(config)
//	text, err := baseClient.Generate(ctx, core.StaticEndpoint("/chat/completions"), "gpt-4", prompt, adapter)
type BaseClient struct {
	config ProviderConfig
	resty  *resty.Client
	logger *slog.Logger
}

// Option BaseClient 选项
type Option func(*BaseClient)

// WithLogger 设置日志记录器
//
// 只记录 provider、model、endpoint、状态码和请求 ID，不记录凭证和提示内容。
func WithLogger(logger *slog.Logger) Option {
	return func(c *BaseClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewBaseClient 创建基础客户端
//
// 参数：
//   - config: Provider 特定配置，实现 ProviderConfig 接口
//   - opts: 可选配置
//
// 返回：
//   - BaseClient 实例
//   - 错误（如果配置验证失败）
func NewBaseClient(config ProviderConfig, opts ...Option) (*BaseClient, error) {
	// 1. 验证配置
	if err := config.Validate(); err != nil {
		return nil, llm.NewConfigError("config validation failed", err)
	}

	// 2. 获取默认值
	baseURL, _, timeout := config.GetDefaults()

	// 3. 构建请求头
	headers := config.BuildHeaders()

	// 4. 创建 resty 客户端
	r := resty.New()
	r.SetBaseURL(baseURL)
	r.SetTimeout(timeout)
	for k, v := range headers {
		r.SetHeader(k, v)
	}

	c := &BaseClient{
		config: config,
		resty:  r,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ProviderName 返回 Provider 名称
func (c *BaseClient) ProviderName() string {
	return c.config.ProviderName()
}

// Close 关闭空闲的 keep-alive 连接
//
// 每个 BaseClient 持有独立的 resty 传输层。Close 之后客户端仍可使用。
func (c *BaseClient) Close() error {
	c.resty.GetClient().CloseIdleConnections()
	return nil
}

// Post 发送 JSON 请求并解析 JSON 响应（通用实现）
//
// 通用流程：
//  1. 序列化请求体
//  2. 生成请求 ID 并发送 HTTP POST 请求
//  3. 检查 HTTP 状态码
//  4. 解析响应体为 map
//
// 返回：
//   - 响应 map
//   - 错误：RequestError、HTTPError、APIError、ResponseError
func (c *BaseClient) Post(ctx context.Context, endpoint string, body map[string]any) (map[string]any, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, llm.NewRequestError("marshal", err)
	}

	requestID := uuid.NewString()
	log := c.logger.With(
		slog.String("provider", c.config.ProviderName()),
		slog.String("endpoint", endpoint),
		slog.String("request_id", requestID),
	)
	log.DebugContext(ctx, "sending request")

	start := time.Now()
	resp, err := c.resty.R().
		SetContext(ctx).
		SetHeader(HeaderRequestID, requestID).
		SetBody(bodyBytes).
		Post(endpoint)
	if err != nil {
		log.DebugContext(ctx, "request failed", slog.Any("error", err))
		return nil, llm.NewHTTPError("request failed", err)
	}

	log.DebugContext(ctx, "response received",
		slog.Int("status", resp.StatusCode()),
		slog.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode() >= 400 {
		apiErr := llm.NewAPIError(resp.StatusCode(), resp.String()).
			WithProvider(c.config.ProviderName()).
			WithRequestID(requestID)

		// 服务端返回的请求 ID 优先
		if serverID := resp.Header().Get(HeaderRequestID); serverID != "" {
			apiErr = apiErr.WithRequestID(serverID)
		}
		if code := extractErrorCode(resp.Body()); code != "" {
			apiErr = apiErr.WithErrorCode(code)
		}
		return nil, apiErr
	}

	var apiResp map[string]any
	if err := json.Unmarshal(resp.Body(), &apiResp); err != nil {
		return nil, llm.NewResponseError("body", err)
	}
	return apiResp, nil
}

// Generate 发送单条用户提示并提取文本（模板方法）
//
// 请求体和文本位置由 adapter 决定，端点由 endpoint 决定。
// 任何失败都包装为 [llm.GenerationError]，原始错误保留在错误链中。
func (c *BaseClient) Generate(
	ctx context.Context,
	endpoint EndpointBuilder,
	model string,
	prompt string,
	adapter ProtocolAdapter,
) (string, error) {
	provider := c.config.ProviderName()

	body := adapter.BuildRequest(model, llm.UserMessage(prompt))
	apiResp, err := c.Post(ctx, endpoint.BuildEndpoint(model), body)
	if err != nil {
		return "", llm.NewGenerationError(provider, model, err)
	}

	text, err := adapter.ExtractText(apiResp)
	if err != nil {
		return "", llm.NewGenerationError(provider, model, err)
	}
	return text, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// 辅助函数
// ═══════════════════════════════════════════════════════════════════════════

// extractErrorCode 从错误响应体中提取错误代码
//
// 支持 {"error": {"code": "..."}}、{"error": {"status": "..."}} 两种形式。
func extractErrorCode(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	errObj := GetMap(payload["error"])
	if errObj == nil {
		return ""
	}
	if code := GetString(errObj["code"]); code != "" {
		return code
	}
	return GetString(errObj["status"])
}

// GetDefaultTimeout 获取默认超时时间的辅助函数
//
// 如果 timeout 为 0，返回默认的 120 秒。
func GetDefaultTimeout(timeout time.Duration) time.Duration {
	if timeout == 0 {
		return llm.DefaultTimeout
	}
	return timeout
}

// NewInvalidConfigError 创建无效配置错误
func NewInvalidConfigError(field string) error {
	return llm.NewConfigError(field+" is required", nil)
}
