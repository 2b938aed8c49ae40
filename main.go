package main

import (
	"log"

	"github.com/kaiyq/run-away-pwa/config"
	"github.com/kaiyq/run-away-pwa/db"
	"github.com/kaiyq/run-away-pwa/mcp"
	"github.com/kaiyq/run-away-pwa/services"
	"github.com/kaiyq/run-away-pwa/utils"

	"github.com/mark3labs/mcp-go/server"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ 加载配置失败: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ 配置验证失败: %v", err)
	}

	// 2. 初始化数据库
	if err := db.Init(cfg.DBPath); err != nil {
		log.Fatalf("❌ 数据库初始化失败: %v", err)
	}
	defer db.Close()

	// 从 settings 表加载本机保存的AI配置（覆盖环境变量）
	if err := cfg.LoadFromDB(db.DB); err != nil {
		log.Printf("⚠️ 从数据库加载设置失败: %v", err)
	}

	log.Printf("✅ 配置加载成功")
	log.Printf("📊 AI提供商: %s", cfg.AIProvider)
	log.Printf("📊 API Key: %s", utils.SanitizeAPIKey(cfg.AIAPIKey))

	// 3. 初始化仓库
	recordRepo := db.NewRecordRepository()
	settingsRepo := db.NewSettingsRepository()

	// 4. 初始化服务
	recordService := services.NewRecordService(recordRepo)
	aiService := services.NewAIService()

	// 5. 初始化 MCP 服务器（stdio，本地单用户，无网络监听）
	mcpSrv := mcp.NewMCPServer(recordService, aiService, settingsRepo, cfg)
	log.Printf("✅ MCP 服务器初始化成功")

	if err := server.ServeStdio(mcpSrv.Server()); err != nil {
		log.Fatalf("❌ MCP 服务器退出: %v", err)
	}
}
