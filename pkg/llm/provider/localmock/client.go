// Package localmock 提供进程内的 Mock LLM Provider，用于调用方测试
//
// 不发起任何网络请求，支持预设响应、响应队列、动态响应、延迟和错误注入，
// 并记录每次调用。
package localmock

import (
	"context"
	"sync"
	"time"

	"github.com/lwmacct/251215-go-pkg-llmroute/pkg/llm"
)

// DefaultResponse 未设置响应时返回的文本
const DefaultResponse = "This is a mock response."

// DefaultModel Mock 报告的模型名称
const DefaultModel = "localmock"

// CallRecord 记录一次调用的详情
type CallRecord struct {
	Prompt string
	Time   time.Time
}

// ResponseFunc 动态响应函数类型
// 接收提示文本和调用次数（从 1 开始），返回响应文本
type ResponseFunc func(prompt string, callCount int) string

// Client Mock LLM Provider
type Client struct {
	mu        sync.RWMutex
	variant   llm.Variant   // 报告的变体
	model     string        // 报告的模型名称
	response  string        // 默认响应
	responses []string      // 响应队列（依次返回）
	respIdx   int           // 当前响应索引
	respFunc  ResponseFunc  // 动态响应函数
	delay     time.Duration // 响应延迟
	err       error         // 返回错误
	calls     []CallRecord  // 调用记录
	counter   int           // 调用计数
}

// New 创建 Mock Client
//
// 使用示例:
//
//	client := localmock.New()                                // 返回默认响应
//	client := localmock.New(localmock.WithResponse("hi"))    // 固定响应
//	client := localmock.New(localmock.WithDelay(100 * time.Millisecond))
func New(opts ...Option) *Client {
	c := &Client{
		variant:  llm.VariantGemini,
		model:    DefaultModel,
		response: DefaultResponse,
		calls:    make([]CallRecord, 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ═══════════════════════════════════════════════════════════════════════════
// 选项
// ═══════════════════════════════════════════════════════════════════════════

// Option 配置选项函数
type Option func(*Client)

// WithResponse 设置预设响应文本
func WithResponse(text string) Option {
	return func(c *Client) {
		c.response = text
	}
}

// WithResponses 设置响应队列（依次返回，用完后循环）
func WithResponses(texts ...string) Option {
	return func(c *Client) {
		c.responses = texts
	}
}

// WithResponseFunc 设置动态响应函数
func WithResponseFunc(fn ResponseFunc) Option {
	return func(c *Client) {
		c.respFunc = fn
	}
}

// WithDelay 设置响应延迟
func WithDelay(d time.Duration) Option {
	return func(c *Client) {
		c.delay = d
	}
}

// WithError 设置返回错误
func WithError(err error) Option {
	return func(c *Client) {
		c.err = err
	}
}

// WithModel 设置 Model() 报告的模型名称，变体随之按名称解析
func WithModel(modelName string) Option {
	return func(c *Client) {
		c.model = modelName
		c.variant = llm.ResolveVariant(modelName)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Provider 接口实现
// ═══════════════════════════════════════════════════════════════════════════

// getResponse 获取当前响应（内部方法，需要在锁内调用）
func (c *Client) getResponse(prompt string) string {
	// 优先使用动态响应函数
	if c.respFunc != nil {
		return c.respFunc(prompt, c.counter)
	}

	// 其次使用响应队列
	if len(c.responses) > 0 {
		resp := c.responses[c.respIdx%len(c.responses)]
		c.respIdx++
		return resp
	}

	// 最后使用默认响应
	return c.response
}

// GenerateContent 返回预设响应
//
// 设置了错误时返回的错误会包装为 [llm.GenerationError]，与真实 Provider 一致。
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	c.mu.Lock()
	c.counter++
	delay := c.delay
	err := c.err
	model := c.model
	variant := c.variant

	c.calls = append(c.calls, CallRecord{
		Prompt: prompt,
		Time:   time.Now(),
	})

	var response string
	if err == nil {
		response = c.getResponse(prompt)
	}
	c.mu.Unlock()

	// 模拟延迟
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", llm.NewGenerationError(variant.String(), model, llm.NewHTTPError("request canceled", ctx.Err()))
		}
	}

	// 模拟错误
	if err != nil {
		return "", llm.NewGenerationError(variant.String(), model, err)
	}
	return response, nil
}

// Variant 实现 [llm.Provider] 接口
func (c *Client) Variant() llm.Variant {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.variant
}

// Model 实现 [llm.Provider] 接口
func (c *Client) Model() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// Close 关闭连接
func (c *Client) Close() error {
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// 测试辅助方法
// ═══════════════════════════════════════════════════════════════════════════

// SetResponse 动态修改响应（线程安全）
func (c *Client) SetResponse(text string) {
	c.mu.Lock()
	c.response = text
	c.mu.Unlock()
}

// SetError 动态修改错误（线程安全）
func (c *Client) SetError(err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
}

// Calls 返回所有调用记录
func (c *Client) Calls() []CallRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]CallRecord, len(c.calls))
	copy(result, c.calls)
	return result
}

// CallCount 返回调用次数
func (c *Client) CallCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counter
}

// LastCall 返回最后一次调用记录
func (c *Client) LastCall() *CallRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.calls) == 0 {
		return nil
	}
	call := c.calls[len(c.calls)-1]
	return &call
}

// GetAllInputs 获取所有调用的提示文本
func (c *Client) GetAllInputs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	inputs := make([]string, 0, len(c.calls))
	for _, call := range c.calls {
		inputs = append(inputs, call.Prompt)
	}
	return inputs
}

// Reset 重置调用记录和计数器
func (c *Client) Reset() {
	c.mu.Lock()
	c.calls = make([]CallRecord, 0)
	c.counter = 0
	c.respIdx = 0
	c.mu.Unlock()
}

// 编译时接口检查
var _ llm.Provider = (*Client)(nil)
