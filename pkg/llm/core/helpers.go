package core

// ═══════════════════════════════════════════════════════════════════════════
// 类型转换辅助函数
// ═══════════════════════════════════════════════════════════════════════════

// GetString 将 any 类型安全转换为 string
//
// 支持的输入类型：
//   - string: JSON 字符串
//
// 其他类型返回 ""（空字符串）。
//
// 示例：
//
//	content := GetString(message["content"])
func GetString(val any) string {
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

// GetMap 将 any 类型安全转换为 JSON 对象
//
// 非对象类型返回 nil。
func GetMap(val any) map[string]any {
	if m, ok := val.(map[string]any); ok {
		return m
	}
	return nil
}

// GetSlice 将 any 类型安全转换为 JSON 数组
//
// 非数组类型返回 nil。
//
// 示例：
//
//	choices := GetSlice(apiResp["choices"])
//	if len(choices) == 0 { ... }
func GetSlice(val any) []any {
	if s, ok := val.([]any); ok {
		return s
	}
	return nil
}

// LookupString 读取 JSON 对象中的字符串字段，并报告字段是否为字符串
//
// 用于区分"字段缺失/类型错误"与"字段为空字符串"。
func LookupString(m map[string]any, key string) (string, bool) {
	s, ok := m[key].(string)
	return s, ok
}
