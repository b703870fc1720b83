package openai

import (
	"errors"
	"fmt"

	"github.com/lwmacct/251215-go-pkg-llmroute/pkg/llm"
	"github.com/lwmacct/251215-go-pkg-llmroute/pkg/llm/core"
)

// ═══════════════════════════════════════════════════════════════════════════
// OpenAI 协议适配器
// ═══════════════════════════════════════════════════════════════════════════

// Adapter OpenAI Chat Completions 协议适配器
//
// 实现 core.ProtocolAdapter 接口。
//
// 协议特点：
//   - 系统消息内联在 messages 数组中（role=system）
//   - 响应文本位于 choices[0].message.content
type Adapter struct{}

// NewAdapter 创建 OpenAI 协议适配器
func NewAdapter() *Adapter {
	return &Adapter{}
}

// BuildRequest 实现 core.ProtocolAdapter 接口
func (a *Adapter) BuildRequest(model string, messages []llm.Message) map[string]any {
	return map[string]any{
		"model":    model,
		"messages": ConvertMessages(messages),
	}
}

// ConvertMessages 将统一消息转换为 {role, content} 数组
//
// OpenAI 与 Ollama 的 /api/chat 共用此格式。
func ConvertMessages(messages []llm.Message) []map[string]any {
	result := make([]map[string]any, 0, len(messages))
	for _, msg := range messages {
		result = append(result, map[string]any{
			"role":    string(msg.Role),
			"content": msg.Content,
		})
	}
	return result
}

// ExtractText 实现 core.ProtocolAdapter 接口
//
// 取 choices[0].message.content。content 为 null（如模型拒答）时返回空字符串；
// choices 为空或缺少 message 时返回 [llm.ResponseError]。
func (a *Adapter) ExtractText(resp map[string]any) (string, error) {
	// 提取 choices[0]
	choices := core.GetSlice(resp["choices"])
	if len(choices) == 0 {
		return "", llm.NewResponseError("choices", errors.New("no choices in response"))
	}

	choice := core.GetMap(choices[0])
	message := core.GetMap(choice["message"])
	if message == nil {
		return "", llm.NewResponseError("choices[0].message",
			fmt.Errorf("missing message (finish reason %q)", core.GetString(choice["finish_reason"])))
	}

	return core.GetString(message["content"]), nil
}

// 确保 Adapter 实现了 ProtocolAdapter 接口
var _ core.ProtocolAdapter = (*Adapter)(nil)
