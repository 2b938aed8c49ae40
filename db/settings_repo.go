package db

import (
	"database/sql"
	"errors"
	"fmt"
)

// SettingsRepository 本地设置（AI 提供商、API Key 等）的键值存储
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository 创建设置仓库
func NewSettingsRepository() *SettingsRepository {
	return &SettingsRepository{db: DB}
}

// Get 读取设置值，不存在时返回空字符串
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("读取设置失败: %w", translateErr(err))
	}
	return value, nil
}

// Set 写入设置值（存在则覆盖）
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		"INSERT OR REPLACE INTO settings (key, value, date_modified) VALUES (?, ?, CURRENT_TIMESTAMP)",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("保存设置失败: %w", translateErr(err))
	}
	return nil
}

// GetAll 读取全部设置
func (r *SettingsRepository) GetAll() (map[string]string, error) {
	rows, err := r.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("读取设置失败: %w", translateErr(err))
	}
	defer rows.Close()

	settings := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("扫描设置失败: %w", err)
		}
		settings[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历设置失败: %w", translateErr(err))
	}

	return settings, nil
}
