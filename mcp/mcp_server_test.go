package mcp

import (
	"testing"

	"github.com/kaiyq/run-away-pwa/models"

	"github.com/stretchr/testify/assert"
)

func TestFormatRecords(t *testing.T) {
	tests := []struct {
		name     string
		records  []*models.Record
		title    string
		contains []string
	}{
		{
			name:     "Empty records",
			records:  []*models.Record{},
			title:    "测试标题",
			contains: []string{"# 测试标题", "没有找到记录"},
		},
		{
			name: "Single record",
			records: []*models.Record{
				{
					ID:        1,
					Content:   "你这水平也就这样了",
					MyFeeling: "很难受",
					Date:      "2024-01-15",
					Tags:      []string{"打压学生", "人身攻击"},
				},
			},
			title: "单条记录",
			contains: []string{
				"# 单条记录",
				"共 1 条记录",
				"## [1] 2024-01-15",
				"你这水平也就这样了",
				"很难受",
				"打压学生, 人身攻击",
			},
		},
		{
			name: "Multiple records",
			records: []*models.Record{
				{ID: 1, Content: "第一条", MyFeeling: "a", Date: "2024-01-01"},
				{ID: 2, Content: "第二条", MyFeeling: "b", Date: "2024-01-02"},
			},
			title: "多条记录",
			contains: []string{
				"共 2 条记录",
				"## [1] 2024-01-01",
				"## [2] 2024-01-02",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatRecords(tt.records, tt.title)

			for _, expected := range tt.contains {
				assert.Contains(t, result, expected)
			}
		})
	}
}

func TestFormatTags(t *testing.T) {
	tests := []struct {
		name     string
		tags     []string
		contains []string
	}{
		{
			name:     "Empty tags",
			tags:     []string{},
			contains: []string{"# 标签列表", "没有找到标签"},
		},
		{
			name: "Multiple tags",
			tags: []string{"打压学生", "双标", "转移话题"},
			contains: []string{
				"共 3 个标签",
				"打压学生, 双标, 转移话题",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatTags(tt.tags)

			for _, expected := range tt.contains {
				assert.Contains(t, result, expected)
			}
		})
	}
}

func TestFormatStatistics(t *testing.T) {
	stats := &models.Statistics{
		Total: 3,
		DateCount: map[string]int{
			"2024-01-01": 2,
			"2024-01-02": 1,
		},
		TagCount: map[string]int{
			"打压学生": 1,
			"双标":   2,
		},
	}

	result := formatStatistics(stats)

	assert.Contains(t, result, "共 3 条记录")
	assert.Contains(t, result, "- 2024-01-01: 2 条")
	assert.Contains(t, result, "- 2024-01-02: 1 条")
	assert.Contains(t, result, "- 打压学生: 1 条")
	assert.Contains(t, result, "- 双标: 2 条")
}

func TestSplitTags(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"", []string{}},
		{"打压学生", []string{"打压学生"}},
		{"打压学生,双标", []string{"打压学生", "双标"}},
		{"打压学生，双标", []string{"打压学生", "双标"}},
		{" 打压学生 , , 双标 ", []string{"打压学生", "双标"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, splitTags(tt.input), tt.input)
	}
}
