package llm

import "strings"

// Variant LLM 后端变体
//
// 变体集合是封闭的：Ollama、OpenAI、Gemini。
// 通过 [ResolveVariant] 按固定顺序匹配模型名称。
type Variant string

const (
	// VariantOllama Ollama 本地模型服务（模型名以 "ollama/" 开头）
	VariantOllama Variant = "ollama"

	// VariantOpenAI OpenAI 兼容 API（模型名以 "gpt" 或 "o1" 开头）
	VariantOpenAI Variant = "openai"

	// VariantGemini Google Gemini API（默认兜底变体）
	VariantGemini Variant = "gemini"
)

// 环境变量名称
const (
	EnvGeminiAPIKey  = "GEMINI_API_KEY"
	EnvOpenAIAPIKey  = "OPENAI_API_KEY"
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
	EnvOllamaAPIKey  = "OLLAMA_API_KEY"
	EnvOllamaHost    = "OLLAMA_HOST"
)

// OllamaModelPrefix Ollama 模型名前缀
const OllamaModelPrefix = "ollama/"

// Variants 按匹配顺序排列的变体列表
//
// 顺序决定胜出者：Gemini 的匹配条件恒为真，必须放在最后。
var Variants = []Variant{
	VariantOllama,
	VariantOpenAI,
	VariantGemini,
}

// ResolveVariant 返回第一个匹配模型名称的变体
//
// 按 [Variants] 顺序逐个判断，命中即返回，后续变体不再判断。
// 未以 "ollama/"、"gpt"、"o1" 开头的名称全部落到 Gemini。
func ResolveVariant(modelName string) Variant {
	for _, v := range Variants {
		if v.Matches(modelName) {
			return v
		}
	}
	// 不可达：VariantGemini 恒匹配
	return VariantGemini
}

// String 返回字符串表示
func (v Variant) String() string {
	return string(v)
}

// Matches 判断变体能否处理该模型名称
func (v Variant) Matches(modelName string) bool {
	switch v {
	case VariantOllama:
		return strings.HasPrefix(modelName, OllamaModelPrefix)
	case VariantOpenAI:
		return strings.HasPrefix(modelName, "gpt") || strings.HasPrefix(modelName, "o1")
	case VariantGemini:
		return true
	default:
		return false
	}
}

// EnvVarName 返回该变体读取 API Key 的环境变量名
func (v Variant) EnvVarName() string {
	switch v {
	case VariantOllama:
		return EnvOllamaAPIKey
	case VariantOpenAI:
		return EnvOpenAIAPIKey
	case VariantGemini:
		return EnvGeminiAPIKey
	default:
		return ""
	}
}

// RequiresCredential 判断构造时是否必须有 API Key
//
// Ollama 的凭证可选，其余变体缺失凭证时构造失败。
func (v Variant) RequiresCredential() bool {
	return v != VariantOllama
}

// DefaultBaseURL 返回默认 Base URL
func (v Variant) DefaultBaseURL() string {
	switch v {
	case VariantOllama:
		return "http://localhost:11434"
	case VariantOpenAI:
		return "https://api.openai.com/v1"
	case VariantGemini:
		return "https://generativelanguage.googleapis.com/v1beta"
	default:
		return ""
	}
}
