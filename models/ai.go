package models

// AIResult AI 分析结果（标签建议 + 简短评论）
type AIResult struct {
	Tags    []string `json:"tags"`
	Comment string   `json:"comment"`
}
