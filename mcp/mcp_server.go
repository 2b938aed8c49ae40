package mcp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kaiyq/run-away-pwa/config"
	"github.com/kaiyq/run-away-pwa/db"
	"github.com/kaiyq/run-away-pwa/models"
	"github.com/kaiyq/run-away-pwa/services"

	"github.com/mark3labs/mcp-go/server"
)

// MCPServer wraps the MCP server with the record service and AI client
type MCPServer struct {
	recordService *services.RecordService
	aiService     *services.AIService
	settingsRepo  *db.SettingsRepository
	cfg           *config.Config
	mcpServer     *server.MCPServer
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(
	recordService *services.RecordService,
	aiService *services.AIService,
	settingsRepo *db.SettingsRepository,
	cfg *config.Config,
) *MCPServer {
	s := &MCPServer{
		recordService: recordService,
		aiService:     aiService,
		settingsRepo:  settingsRepo,
		cfg:           cfg,
	}

	s.mcpServer = server.NewMCPServer(
		"run-away-record-service",
		"1.0.0",
		server.WithResourceCapabilities(true, false),
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	// Register tools and resources
	s.registerTools()
	s.registerResources()

	return s
}

// Server returns the underlying MCP server
func (s *MCPServer) Server() *server.MCPServer {
	return s.mcpServer
}

// aiCredentials 取当前生效的AI配置：settings 表优先，环境变量兜底
func (s *MCPServer) aiCredentials() (providerID, apiKey string) {
	providerID = s.cfg.AIProvider
	apiKey = s.cfg.AIAPIKey

	if v, err := s.settingsRepo.Get("ai_provider"); err == nil && v != "" {
		providerID = v
	}
	if v, err := s.settingsRepo.Get("ai_api_key"); err == nil && v != "" {
		apiKey = v
	}
	return providerID, apiKey
}

// formatRecords formats records as markdown
func formatRecords(records []*models.Record, title string) string {
	if len(records) == 0 {
		return fmt.Sprintf("# %s\n\n没有找到记录。", title)
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("# %s\n\n", title))
	result.WriteString(fmt.Sprintf("共 %d 条记录\n", len(records)))

	for _, rec := range records {
		result.WriteString(fmt.Sprintf("\n## [%d] %s\n", rec.ID, rec.Date))
		result.WriteString(fmt.Sprintf("- **言论**: %s\n", rec.Content))
		result.WriteString(fmt.Sprintf("- **感受**: %s\n", rec.MyFeeling))

		if len(rec.Tags) > 0 {
			result.WriteString(fmt.Sprintf("- **标签**: %s\n", strings.Join(rec.Tags, ", ")))
		}
	}

	return result.String()
}

// formatTags formats tags as markdown
func formatTags(tags []string) string {
	if len(tags) == 0 {
		return "# 标签列表\n\n没有找到标签。"
	}

	var result strings.Builder
	result.WriteString("# 标签列表\n\n")
	result.WriteString(fmt.Sprintf("共 %d 个标签\n\n", len(tags)))
	result.WriteString(strings.Join(tags, ", "))

	return result.String()
}

// formatStatistics formats statistics as markdown
func formatStatistics(stats *models.Statistics) string {
	var result strings.Builder
	result.WriteString("# 统计数据\n\n")
	result.WriteString(fmt.Sprintf("共 %d 条记录\n", stats.Total))

	if len(stats.DateCount) > 0 {
		result.WriteString("\n## 按日期\n")
		dates := make([]string, 0, len(stats.DateCount))
		for date := range stats.DateCount {
			dates = append(dates, date)
		}
		sort.Strings(dates)
		for _, date := range dates {
			result.WriteString(fmt.Sprintf("- %s: %d 条\n", date, stats.DateCount[date]))
		}
	}

	if len(stats.TagCount) > 0 {
		result.WriteString("\n## 按标签\n")
		tags := make([]string, 0, len(stats.TagCount))
		for tag := range stats.TagCount {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		for _, tag := range tags {
			result.WriteString(fmt.Sprintf("- %s: %d 条\n", tag, stats.TagCount[tag]))
		}
	}

	return result.String()
}

// splitTags 解析逗号分隔的标签参数（兼容中文逗号），去掉空项
func splitTags(raw string) []string {
	if raw == "" {
		return []string{}
	}

	raw = strings.ReplaceAll(raw, "，", ",")
	parts := strings.Split(raw, ",")

	tags := []string{}
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
