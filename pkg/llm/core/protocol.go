package core

import (
	"github.com/lwmacct/251215-go-pkg-llmroute/pkg/llm"
)

// ═══════════════════════════════════════════════════════════════════════════
// 协议适配器接口
// ═══════════════════════════════════════════════════════════════════════════

// ProtocolAdapter 协议适配器接口
//
// 每个后端实现此接口来定义协议特有的请求构建和响应提取逻辑。
//
// 职责边界：
//   - ✅ 负责：请求体格式、响应信封中文本的位置
//   - ❌ 不负责：HTTP 通信、凭证、错误包装
type ProtocolAdapter interface {
	// BuildRequest 构建请求体
	//
	// 参数：
	//   - model: 发往后端的模型标识
	//   - messages: 统一的内部消息格式
	//
	// 返回：
	//   - API 特定格式的请求体 map
	BuildRequest(model string, messages []llm.Message) map[string]any

	// ExtractText 从响应信封中提取纯文本
	//
	// 信封结构不符合预期（如 choices 为空）时返回 [llm.ResponseError]。
	ExtractText(apiResp map[string]any) (string, error)
}

// EndpointBuilder 端点构建器接口
//
// 某些后端（如 Gemini）的端点包含模型名称，需要动态构建。
type EndpointBuilder interface {
	// BuildEndpoint 构建生成端点
	BuildEndpoint(model string) string
}

// StaticEndpoint 固定端点
type StaticEndpoint string

// BuildEndpoint 实现 EndpointBuilder 接口
func (e StaticEndpoint) BuildEndpoint(string) string {
	return string(e)
}
