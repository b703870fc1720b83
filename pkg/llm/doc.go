// Package llm 提供按模型名称选择 LLM 后端的统一抽象层
//
// 本包定义了调用方与后端之间的契约：
//   - [Provider]: 提交提示、取回文本的统一接口
//   - [Variant]: 封闭的后端变体集合及有序匹配
//   - [ResolveCredential]: 环境变量优先于配置的凭证解析规则
//   - [Config]: 调用方配置（YAML 文件 + 命令行覆盖）
//
// 完整使用示例请参考 example_test.go。
//
// # 变体匹配
//
// [ResolveVariant] 按 [Variants] 的固定顺序匹配，第一个命中者胜出：
//   - VariantOllama: 模型名以 "ollama/" 开头
//   - VariantOpenAI: 模型名以 "gpt" 或 "o1" 开头
//   - VariantGemini: 其余所有名称（兜底）
//
// # 环境变量
//
// API Key（非空时覆盖配置值）:
//   - GEMINI_API_KEY
//   - OPENAI_API_KEY
//   - OLLAMA_API_KEY（可选）
//
// 服务地址:
//   - OPENAI_BASE_URL
//   - OLLAMA_HOST（默认 http://localhost:11434）
//
// # 错误类型
//
// 构造阶段缺少必需凭证返回 [MissingCredentialError]；
// 调用阶段的任何失败返回 [GenerationError]，原始错误保留在错误链中。
//
// # 协议实现
//
// 具体的后端实现位于子包：
//   - [pkg/llm/provider/gemini]: Gemini generateContent
//   - [pkg/llm/provider/openai]: OpenAI Chat Completions
//   - [pkg/llm/provider/ollama]: Ollama /api/chat
//
// # 包文件组织
//
//   - types.go: Provider 接口
//   - variant.go: Variant 枚举与有序匹配
//   - credential.go: 凭证解析
//   - config.go: 调用方配置
//   - message.go: Message、Role
//   - errors.go: 错误类型
package llm
