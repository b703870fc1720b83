// Package openai 提供 OpenAI 兼容格式的 LLM Provider 实现
//
// 本包实现了 [llm.Provider] 接口，支持所有遵循 Chat Completions 格式的服务。
//
// # 快速开始
//
//	client, err := openai.New(&openai.Config{
//	    APIKey: "sk-xxx",
//	    Model:  "gpt-4",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	text, err := client.GenerateContent(ctx, "What is 6*7?")
//
// # 服务地址
//
// BaseURL 为空时读取 OPENAI_BASE_URL 环境变量，仍为空则使用 https://api.openai.com/v1。
//
// # 错误处理
//
// 所有失败都包装为 [llm.GenerationError]；choices 为空等信封异常对应 [llm.ResponseError]。
//
// # 线程安全
//
// [Client] 不修改全局状态，GenerateContent 可以并发调用（并发安全性来自 resty 客户端）。
package openai
