package models

// Record 一条记录（A的言论 + 我的感受 + 标签）
// JSON 字段名与导出备份文件格式保持一致（camelCase），旧备份可直接重新导入
type Record struct {
	ID         int      `json:"id"`
	Content    string   `json:"content"`
	MyFeeling  string   `json:"myFeeling"`
	Date       string   `json:"date"` // YYYY-MM-DD，用户选择的日期，不一定是创建日期
	AutoTags   []string `json:"autoTags"`
	ManualTags []string `json:"manualTags"`
	Tags       []string `json:"tags"` // autoTags + manualTags 的合并，方便查询，不可单独修改
	CreatedAt  int64    `json:"createdAt"` // 毫秒时间戳，创建后不变
	UpdatedAt  int64    `json:"updatedAt"` // 毫秒时间戳，每次更新刷新
}

// RecordCreate 创建记录请求
type RecordCreate struct {
	Content    string   `json:"content"`
	MyFeeling  string   `json:"myFeeling"`
	Date       string   `json:"date"`
	AutoTags   []string `json:"autoTags"`
	ManualTags []string `json:"manualTags"`
}

// RecordUpdate 更新记录请求（nil 字段表示不修改）
type RecordUpdate struct {
	Content    *string   `json:"content"`
	MyFeeling  *string   `json:"myFeeling"`
	Date       *string   `json:"date"`
	AutoTags   *[]string `json:"autoTags"`
	ManualTags *[]string `json:"manualTags"`
}

// RecordFilter 查询筛选条件
type RecordFilter struct {
	StartDate  string   `json:"startDate"` // 含下界
	EndDate    string   `json:"endDate"`   // 含上界
	Tags       []string `json:"tags"`      // 命中任意一个即可
	SearchText string   `json:"searchText"` // 对 content 和 myFeeling 做不区分大小写的子串匹配
}

// Statistics 统计数据
type Statistics struct {
	Total     int            `json:"total"`
	DateCount map[string]int `json:"dateCount"`
	TagCount  map[string]int `json:"tagCount"`
}
