// Package ollama 实现 Ollama /api/chat 的协议适配器
//
// 请求格式：
//
//	POST /api/chat
//	{"model": "llama3", "messages": [{"role": "user", "content": "..."}], "stream": false}
//
// 响应格式：
//
//	{"model": "llama3", "message": {"role": "assistant", "content": "..."}, "done": true}
package ollama

import (
	"errors"

	"github.com/lwmacct/251215-go-pkg-llmroute/pkg/llm"
	"github.com/lwmacct/251215-go-pkg-llmroute/pkg/llm/core"
	"github.com/lwmacct/251215-go-pkg-llmroute/pkg/llm/protocol/openai"
)

// Adapter Ollama 协议适配器
type Adapter struct{}

// NewAdapter 创建 Ollama 协议适配器
func NewAdapter() *Adapter {
	return &Adapter{}
}

// BuildRequest 实现 core.ProtocolAdapter 接口
//
// 始终关闭流式输出，一次请求返回完整消息。
func (a *Adapter) BuildRequest(model string, messages []llm.Message) map[string]any {
	return map[string]any{
		"model":    model,
		"messages": openai.ConvertMessages(messages),
		"stream":   false,
	}
}

// ExtractText 实现 core.ProtocolAdapter 接口
func (a *Adapter) ExtractText(resp map[string]any) (string, error) {
	if msg := core.GetString(resp["error"]); msg != "" {
		return "", llm.NewResponseError("error", errors.New(msg))
	}

	message := core.GetMap(resp["message"])
	if message == nil {
		return "", llm.NewResponseError("message", errors.New("missing message in chat response"))
	}
	return core.GetString(message["content"]), nil
}

var _ core.ProtocolAdapter = (*Adapter)(nil)
