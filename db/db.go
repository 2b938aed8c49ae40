package db

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// DB 全局数据库连接
var DB *sql.DB

// schemaVersion 当前表结构版本（单版本，暂无迁移）
const schemaVersion = 1

// Init 初始化数据库
func Init(dbPath string) error {
	var err error
	// 使用 DSN 参数配置 WAL 模式和超时，确保连接池中的所有连接都生效
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	DB, err = sql.Open("sqlite", dsn)
	if err != nil {
		return translateErr(err)
	}

	// 本地单用户工具，限制连接数避免 SQLite 锁定
	DB.SetMaxOpenConns(10)
	DB.SetMaxIdleConns(2)
	DB.SetConnMaxLifetime(time.Hour)

	// 创建表
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		content TEXT NOT NULL,
		my_feeling TEXT NOT NULL,
		date TEXT NOT NULL,
		auto_tags TEXT NOT NULL DEFAULT '[]',
		manual_tags TEXT NOT NULL DEFAULT '[]',
		tags TEXT NOT NULL DEFAULT '[]',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		date_modified DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_records_date ON records(date);
	CREATE INDEX IF NOT EXISTS idx_records_created_at ON records(created_at DESC);
	`

	if _, err = DB.Exec(schema); err != nil {
		return translateErr(err)
	}

	if _, err = DB.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return translateErr(err)
	}

	log.Printf("✅ 数据库初始化成功 (WAL模式, schema v%d): %s", schemaVersion, dbPath)
	return nil
}

// Close 关闭数据库连接
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
