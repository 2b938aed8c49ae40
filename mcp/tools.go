package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kaiyq/run-away-pwa/models"
	"github.com/kaiyq/run-away-pwa/services"

	"github.com/mark3labs/mcp-go/mcp"
)

// registerTools registers all MCP tools
func (s *MCPServer) registerTools() {
	// Tool 1: Add record
	addTool := mcp.NewTool("add_record",
		mcp.WithDescription("记录一条A的言论和我的感受"),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("A的言论原文"),
		),
		mcp.WithString("my_feeling",
			mcp.Required(),
			mcp.Description("我的感受"),
		),
		mcp.WithString("date",
			mcp.Description("日期（YYYY-MM-DD），默认今天"),
		),
		mcp.WithString("auto_tags",
			mcp.Description("AI建议的标签，逗号分隔"),
		),
		mcp.WithString("manual_tags",
			mcp.Description("手动选择的标签，逗号分隔"),
		),
	)
	s.mcpServer.AddTool(addTool, s.handleAddRecord)

	// Tool 2: Search records
	searchTool := mcp.NewTool("search_records",
		mcp.WithDescription("查询记录，支持关键词、标签和日期范围筛选"),
		mcp.WithString("query",
			mcp.Description("搜索关键词（匹配言论或感受）"),
		),
		mcp.WithString("tags",
			mcp.Description("标签筛选，逗号分隔，命中任意一个即可"),
		),
		mcp.WithString("start_date",
			mcp.Description("开始日期（YYYY-MM-DD，含）"),
		),
		mcp.WithString("end_date",
			mcp.Description("结束日期（YYYY-MM-DD，含）"),
		),
	)
	s.mcpServer.AddTool(searchTool, s.handleSearchRecords)

	// Tool 3: Get record by ID
	getTool := mcp.NewTool("get_record",
		mcp.WithDescription("根据ID获取单条记录"),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("记录ID"),
		),
	)
	s.mcpServer.AddTool(getTool, s.handleGetRecord)

	// Tool 4: Update record
	updateTool := mcp.NewTool("update_record",
		mcp.WithDescription("更新记录，未提供的字段保持不变"),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("记录ID"),
		),
		mcp.WithString("content",
			mcp.Description("A的言论原文"),
		),
		mcp.WithString("my_feeling",
			mcp.Description("我的感受"),
		),
		mcp.WithString("date",
			mcp.Description("日期（YYYY-MM-DD）"),
		),
		mcp.WithString("auto_tags",
			mcp.Description("AI建议的标签，逗号分隔（传空字符串清空）"),
		),
		mcp.WithString("manual_tags",
			mcp.Description("手动选择的标签，逗号分隔（传空字符串清空）"),
		),
	)
	s.mcpServer.AddTool(updateTool, s.handleUpdateRecord)

	// Tool 5: Delete record
	deleteTool := mcp.NewTool("delete_record",
		mcp.WithDescription("删除记录（删除不存在的ID不算错误）"),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("记录ID"),
		),
	)
	s.mcpServer.AddTool(deleteTool, s.handleDeleteRecord)

	// Tool 6: Get tags
	tagsTool := mcp.NewTool("get_tags",
		mcp.WithDescription("获取所有用过的标签列表"),
	)
	s.mcpServer.AddTool(tagsTool, s.handleGetTags)

	// Tool 7: Get statistics
	statsTool := mcp.NewTool("get_statistics",
		mcp.WithDescription("获取统计数据（总数、按日期计数、按标签计数）"),
	)
	s.mcpServer.AddTool(statsTool, s.handleGetStatistics)

	// Tool 8: Export records
	exportTool := mcp.NewTool("export_records",
		mcp.WithDescription("导出全部记录为JSON备份"),
	)
	s.mcpServer.AddTool(exportTool, s.handleExportRecords)

	// Tool 9: Analyze remark
	analyzeTool := mcp.NewTool("analyze_remark",
		mcp.WithDescription("用AI分析一条言论，返回标签建议和简短评论。结果仅供参考，需要用户确认后才写入记录。"),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("A的言论原文"),
		),
		mcp.WithString("my_feeling",
			mcp.Required(),
			mcp.Description("我的感受"),
		),
	)
	s.mcpServer.AddTool(analyzeTool, s.handleAnalyzeRemark)
}

func (s *MCPServer) handleAddRecord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content := request.GetString("content", "")
	myFeeling := request.GetString("my_feeling", "")
	date := request.GetString("date", "")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	id, err := s.recordService.Add(&models.RecordCreate{
		Content:    strings.TrimSpace(content),
		MyFeeling:  strings.TrimSpace(myFeeling),
		Date:       date,
		AutoTags:   splitTags(request.GetString("auto_tags", "")),
		ManualTags: splitTags(request.GetString("manual_tags", "")),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add record: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("已添加记录，ID=%d", id)), nil
}

func (s *MCPServer) handleSearchRecords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := &models.RecordFilter{
		SearchText: request.GetString("query", ""),
		Tags:       splitTags(request.GetString("tags", "")),
		StartDate:  request.GetString("start_date", ""),
		EndDate:    request.GetString("end_date", ""),
	}

	records, err := s.recordService.GetAll(filter)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to search records: %v", err)), nil
	}

	result := formatRecords(records, "查询结果")
	return mcp.NewToolResultText(result), nil
}

func (s *MCPServer) handleGetRecord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetFloat("id", 0)
	if id == 0 {
		return mcp.NewToolResultError("id parameter required"), nil
	}

	rec, err := s.recordService.GetByID(int(id))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get record: %v", err)), nil
	}

	result := formatRecords([]*models.Record{rec}, fmt.Sprintf("记录 ID %d", int(id)))
	return mcp.NewToolResultText(result), nil
}

func (s *MCPServer) handleUpdateRecord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetFloat("id", 0)
	if id == 0 {
		return mcp.NewToolResultError("id parameter required"), nil
	}

	// 只更新请求里出现的字段，缺席和空字符串要区分（空字符串用于清空标签）
	args := request.GetArguments()
	upd := &models.RecordUpdate{}

	if v, ok := args["content"].(string); ok {
		content := strings.TrimSpace(v)
		upd.Content = &content
	}
	if v, ok := args["my_feeling"].(string); ok {
		myFeeling := strings.TrimSpace(v)
		upd.MyFeeling = &myFeeling
	}
	if v, ok := args["date"].(string); ok {
		date := v
		upd.Date = &date
	}
	if v, ok := args["auto_tags"].(string); ok {
		autoTags := splitTags(v)
		upd.AutoTags = &autoTags
	}
	if v, ok := args["manual_tags"].(string); ok {
		manualTags := splitTags(v)
		upd.ManualTags = &manualTags
	}

	count, err := s.recordService.Update(int(id), upd)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update record: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("已更新 %d 条记录", count)), nil
}

func (s *MCPServer) handleDeleteRecord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetFloat("id", 0)
	if id == 0 {
		return mcp.NewToolResultError("id parameter required"), nil
	}

	if err := s.recordService.Delete(int(id)); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete record: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("已删除记录 ID=%d", int(id))), nil
}

func (s *MCPServer) handleGetTags(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tags, err := s.recordService.GetAllTags()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get tags: %v", err)), nil
	}

	result := formatTags(tags)
	return mcp.NewToolResultText(result), nil
}

func (s *MCPServer) handleGetStatistics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.recordService.GetStatistics()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get statistics: %v", err)), nil
	}

	result := formatStatistics(stats)
	return mcp.NewToolResultText(result), nil
}

func (s *MCPServer) handleExportRecords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := s.recordService.ExportData()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to export records: %v", err)), nil
	}

	filename := services.ExportFilename(time.Now())
	return mcp.NewToolResultText(fmt.Sprintf("建议文件名: %s\n\n%s", filename, data)), nil
}

func (s *MCPServer) handleAnalyzeRemark(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content := request.GetString("content", "")
	myFeeling := request.GetString("my_feeling", "")
	if content == "" || myFeeling == "" {
		return mcp.NewToolResultError("content and my_feeling parameters required"), nil
	}

	providerID, apiKey := s.aiCredentials()

	result, err := s.aiService.Analyze(ctx, content, myFeeling, providerID, apiKey)
	if err != nil {
		if errors.Is(err, services.ErrProviderResponse) || errors.Is(err, services.ErrProviderRequest) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to analyze remark: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString("# AI分析结果\n\n")
	if len(result.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("- **建议标签**: %s\n", strings.Join(result.Tags, ", ")))
	} else {
		sb.WriteString("- **建议标签**: （无）\n")
	}
	sb.WriteString(fmt.Sprintf("- **评论**: %s\n", result.Comment))

	return mcp.NewToolResultText(sb.String()), nil
}
