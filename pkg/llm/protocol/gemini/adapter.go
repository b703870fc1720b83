package gemini

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lwmacct/251215-go-pkg-llmroute/pkg/llm"
	"github.com/lwmacct/251215-go-pkg-llmroute/pkg/llm/core"
)

// ═══════════════════════════════════════════════════════════════════════════
// Gemini 协议适配器
// ═══════════════════════════════════════════════════════════════════════════

// Adapter Gemini 协议适配器
//
// 实现 core.ProtocolAdapter 接口，处理 Gemini API 特有的协议格式。
//
// 关键协议差异：
//  1. 内容格式：Content{Role, Parts[]} 而非 message{role, content}
//  2. 角色映射：assistant → model
//  3. 系统消息：独立的 systemInstruction 字段
//  4. 模型名称在端点路径中，而非请求体
type Adapter struct{}

// NewAdapter 创建 Gemini 协议适配器
func NewAdapter() *Adapter {
	return &Adapter{}
}

// ═══════════════════════════════════════════════════════════════════════════
// BuildRequest - 构建 generateContent 请求体
// ═══════════════════════════════════════════════════════════════════════════

// BuildRequest 实现 core.ProtocolAdapter 接口
//
// model 参数不进入请求体（Gemini 的模型在端点路径中）。
func (a *Adapter) BuildRequest(_ string, messages []llm.Message) map[string]any {
	contents := make([]map[string]any, 0, len(messages))
	var system []string

	for _, msg := range messages {
		if msg.Role == llm.RoleSystem {
			system = append(system, msg.Content)
			continue
		}
		contents = append(contents, map[string]any{
			"role": mapRole(msg.Role),
			"parts": []map[string]any{
				{"text": msg.Content},
			},
		})
	}

	req := map[string]any{
		"contents": contents,
	}
	if len(system) > 0 {
		req["systemInstruction"] = map[string]any{
			"parts": []map[string]any{
				{"text": strings.Join(system, "\n")},
			},
		}
	}
	return req
}

// mapRole 将统一角色映射到 Gemini 角色
func mapRole(role llm.Role) string {
	switch role {
	case llm.RoleAssistant:
		return "model" // ⚠️ Gemini 使用 "model" 而非 "assistant"
	default:
		return string(role)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// ExtractText - 提取响应文本
// ═══════════════════════════════════════════════════════════════════════════

// ExtractText 实现 core.ProtocolAdapter 接口
//
// 取 candidates[0] 中所有非 thinking 的 text part 并按顺序拼接，
// 与 SDK 的 response.text 行为一致。没有候选或没有文本时返回错误。
func (a *Adapter) ExtractText(resp map[string]any) (string, error) {
	candidates := core.GetSlice(resp["candidates"])
	if len(candidates) == 0 {
		if reason := blockReason(resp); reason != "" {
			return "", llm.NewResponseError("candidates", fmt.Errorf("prompt blocked: %s", reason))
		}
		return "", llm.NewResponseError("candidates", errors.New("no candidates in response"))
	}

	candidate := core.GetMap(candidates[0])
	content := core.GetMap(candidate["content"])
	parts := core.GetSlice(content["parts"])

	var sb strings.Builder
	found := false
	for _, part := range parts {
		partMap := core.GetMap(part)
		if isThought, _ := partMap["thought"].(bool); isThought {
			continue
		}
		if text, ok := core.LookupString(partMap, "text"); ok {
			sb.WriteString(text)
			found = true
		}
	}

	if !found {
		finish := core.GetString(candidate["finishReason"])
		return "", llm.NewResponseError("candidates[0].content.parts",
			fmt.Errorf("no text parts (finish reason %q)", finish))
	}
	return sb.String(), nil
}

// blockReason 提取 promptFeedback.blockReason
func blockReason(resp map[string]any) string {
	feedback := core.GetMap(resp["promptFeedback"])
	return core.GetString(feedback["blockReason"])
}

// 确保 Adapter 实现了 ProtocolAdapter 接口
var _ core.ProtocolAdapter = (*Adapter)(nil)
