// Package gemini 实现 Google Gemini API 的协议适配器
//
// Gemini API 使用独特的 Content/Parts 格式，与 OpenAI 不同。
//
// # 协议特点
//
//   - 内容格式：Content{Role, Parts[]} 结构
//   - 角色映射：user→user, assistant→model
//   - 系统消息：使用独立的 systemInstruction 字段
//   - 认证方式：x-goog-api-key 请求头
//
// # 请求格式示例
//
//	POST /models/{model}:generateContent
//	{
//	  "contents": [
//	    {"role": "user", "parts": [{"text": "..."}]}
//	  ]
//	}
//
// # 响应格式示例
//
//	{
//	  "candidates": [
//	    {"content": {"role": "model", "parts": [{"text": "..."}]}, "finishReason": "STOP"}
//	  ]
//	}
package gemini
