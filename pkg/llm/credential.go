package llm

import "os"

// ResolveCredential 按优先级解析凭证
//
// 环境变量非空时优先使用，否则回退到配置值。configValue 为空表示未配置。
// 返回空字符串表示两处都没有可用凭证，由调用方决定是否报错。
func ResolveCredential(envVar, configValue string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return configValue
}

// ResolveVariantCredential 解析变体凭证并校验必需性
//
// 对需要凭证的变体（Gemini、OpenAI），解析结果为空时返回 [MissingCredentialError]。
func ResolveVariantCredential(v Variant, configAPIKey, modelName string) (string, error) {
	key := ResolveCredential(v.EnvVarName(), configAPIKey)
	if key == "" && v.RequiresCredential() {
		return "", NewMissingCredentialError(v.EnvVarName(), modelName)
	}
	return key, nil
}
