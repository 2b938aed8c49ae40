package config

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config 应用配置
type Config struct {
	AIProvider string // deepseek / qwen / glm
	AIAPIKey   string
	DBPath     string
}

// Load 加载配置（从 .env 文件和环境变量）
func Load() (*Config, error) {
	// 尝试加载 .env 文件（如果不存在也不报错）
	_ = godotenv.Load()

	cfg := &Config{
		AIProvider: getEnv("AI_PROVIDER", "deepseek"),
		AIAPIKey:   getEnv("AI_API_KEY", ""),
		DBPath:     parseDBPath(getEnv("DATABASE_URL", "run-away.db")),
	}

	return cfg, nil
}

// LoadFromDB 从数据库的 settings 表加载配置并覆盖当前配置
// 设置页面写入的值优先于环境变量，保证凭证完全留在本机
func (c *Config) LoadFromDB(dbAPI interface {
	Query(query string, args ...interface{}) (*sql.Rows, error)
}) error {
	// 这里使用 interface 是为了避免循环引用, 因为 db 包引用了 config
	// 实际上我们会传入 *sql.DB
	rows, err := dbAPI.Query("SELECT key, value FROM settings")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			continue
		}

		switch key {
		case "ai_provider":
			if value != "" {
				c.AIProvider = value
			}
		case "ai_api_key":
			if value != "" {
				c.AIAPIKey = value
			}
		}
	}
	return rows.Err()
}

// Validate 验证配置
func (c *Config) Validate() error {
	switch c.AIProvider {
	case "deepseek", "qwen", "glm":
	default:
		return fmt.Errorf("未知的AI提供商: %s（支持 deepseek/qwen/glm）", c.AIProvider)
	}

	// API Key 允许为空：分析功能会软拒绝，其余功能不受影响
	return nil
}

// parseDBPath 解析数据库路径（兼容 sqlite:/// 前缀）
func parseDBPath(dbURL string) string {
	return strings.TrimPrefix(dbURL, "sqlite:///")
}

// getEnv 获取环境变量（带默认值）
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
