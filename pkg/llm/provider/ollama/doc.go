// Package ollama 实现 Ollama 本地模型服务 Provider
//
// 基础使用：
//
//	client, _ := ollama.New(&ollama.Config{Model: "ollama/mistral"})
//	text, err := client.GenerateContent(ctx, "hello")
//
// 服务地址按 Config.Host、OLLAMA_HOST、http://localhost:11434 的顺序确定，
// 不带协议的地址（如 "gpu-box:11434"）会补全为 http://。
//
// 模型名前缀由 [TrimModelName] 剥离，注意其字符集语义。
package ollama
