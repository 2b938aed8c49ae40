package utils

// SanitizeAPIKey 脱敏 API Key（只显示后4位）
func SanitizeAPIKey(apiKey string) string {
	if apiKey == "" {
		return "未设置"
	}
	if len(apiKey) > 4 {
		return "***" + apiKey[len(apiKey)-4:]
	}
	return "***"
}
