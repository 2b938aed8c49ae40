package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// registerResources registers all MCP resources
func (s *MCPServer) registerResources() {
	// Resource 1: All records
	allResource := mcp.NewResource("records://all",
		"所有记录",
		mcp.WithMIMEType("text/markdown"),
		mcp.WithResourceDescription("获取所有记录，按时间倒序"),
	)
	s.mcpServer.AddResource(allResource, s.handleAllRecords)

	// Resource 2: Tags
	tagsResource := mcp.NewResource("records://tags",
		"标签列表",
		mcp.WithMIMEType("text/markdown"),
		mcp.WithResourceDescription("所有用过的标签"),
	)
	s.mcpServer.AddResource(tagsResource, s.handleTagsResource)

	// Resource 3: Statistics
	statsResource := mcp.NewResource("records://stats",
		"统计数据",
		mcp.WithMIMEType("text/markdown"),
		mcp.WithResourceDescription("记录总数和按日期、按标签的计数"),
	)
	s.mcpServer.AddResource(statsResource, s.handleStatsResource)
}

func (s *MCPServer) handleAllRecords(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	records, err := s.recordService.GetAll(nil)
	if err != nil {
		return nil, err
	}

	result := formatRecords(records, "所有记录")

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "records://all",
			MIMEType: "text/markdown",
			Text:     result,
		},
	}, nil
}

func (s *MCPServer) handleTagsResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	tags, err := s.recordService.GetAllTags()
	if err != nil {
		return nil, err
	}

	result := formatTags(tags)

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "records://tags",
			MIMEType: "text/markdown",
			Text:     result,
		},
	}, nil
}

func (s *MCPServer) handleStatsResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	stats, err := s.recordService.GetStatistics()
	if err != nil {
		return nil, err
	}

	result := formatStatistics(stats)

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "records://stats",
			MIMEType: "text/markdown",
			Text:     result,
		},
	}, nil
}
