// Package gemini 实现 Google Gemini LLM Provider
//
// # 基础使用
//
//	client, err := gemini.New(&gemini.Config{
//	    APIKey: "your-api-key",
//	    Model:  "gemini-1.5-flash",
//	})
//
//	text, err := client.GenerateContent(ctx, "hello")
//
// # 进程级配置
//
// 与 OpenAI、Ollama 不同，Gemini 客户端通过 [Configure] 设置进程级状态，
// 再用 [NewGenerativeModel] 创建绑定模型的句柄。[New] 会依次完成这两步，
// 因此每次构造 Client 都会替换全局配置。需要显式控制时可以直接调用：
//
//	_ = gemini.Configure(&gemini.Config{APIKey: key})
//	model, _ := gemini.NewGenerativeModel("gemini-pro")
//	text, _ := model.GenerateContent(ctx, "hello")
//
// # 线程安全
//
// 全局状态由互斥锁保护。GenerateContent 的并发安全性继承自底层 resty 客户端。
package gemini
