package llm

import "context"

// ═══════════════════════════════════════════════════════════════════════════
// Provider 接口
// ═══════════════════════════════════════════════════════════════════════════

// Provider LLM 提供者接口
//
// 每个实例绑定一个模型名称和一次性解析的凭证。
// 并发安全性继承自底层 HTTP 客户端，本接口不做额外保证。
type Provider interface {
	// GenerateContent 发送单条用户提示并返回纯文本结果
	//
	// 失败时返回 [GenerationError]，原始后端错误可通过 errors.As 取出。
	GenerateContent(ctx context.Context, prompt string) (string, error)

	// Variant 返回实例所属的后端变体
	Variant() Variant

	// Model 返回发往后端的模型标识
	Model() string

	// Close 关闭连接
	Close() error
}
