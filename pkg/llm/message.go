package llm

// ═══════════════════════════════════════════════════════════════════════════
// 角色定义
// ═══════════════════════════════════════════════════════════════════════════

// Role 消息角色
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ═══════════════════════════════════════════════════════════════════════════
// 消息结构
// ═══════════════════════════════════════════════════════════════════════════

// Message 单条消息
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserMessage 构建单条用户消息
//
// 每次 GenerateContent 只发送一条用户消息，不保留多轮上下文。
func UserMessage(prompt string) []Message {
	return []Message{{Role: RoleUser, Content: prompt}}
}
