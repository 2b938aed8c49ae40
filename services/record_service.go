package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kaiyq/run-away-pwa/db"
	"github.com/kaiyq/run-away-pwa/models"
	"github.com/kaiyq/run-away-pwa/utils"
)

// ErrValidation 必填字段校验失败
var ErrValidation = errors.New("记录校验失败")

// RecordService 记录服务，唯一的记录写入口
// 标签合并和时间戳维护都在这里完成，保证存储层看不到不一致的复合状态
type RecordService struct {
	repo *db.RecordRepository
}

// NewRecordService 创建记录服务
func NewRecordService(repo *db.RecordRepository) *RecordService {
	return &RecordService{repo: repo}
}

// mergeTags 合并标签：autoTags 在前，manualTags 在后
// tags 字段只能由这里重算，禁止单独修改
func mergeTags(autoTags, manualTags []string) []string {
	merged := make([]string, 0, len(autoTags)+len(manualTags))
	merged = append(merged, autoTags...)
	merged = append(merged, manualTags...)
	return merged
}

// Add 添加记录，返回新记录的ID
func (s *RecordService) Add(rc *models.RecordCreate) (int, error) {
	if err := utils.ValidateRecordCreate(rc); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	autoTags := rc.AutoTags
	if autoTags == nil {
		autoTags = []string{}
	}
	manualTags := rc.ManualTags
	if manualTags == nil {
		manualTags = []string{}
	}

	now := time.Now().UnixMilli()
	rec := &models.Record{
		Content:    rc.Content,
		MyFeeling:  rc.MyFeeling,
		Date:       rc.Date,
		AutoTags:   autoTags,
		ManualTags: manualTags,
		Tags:       mergeTags(autoTags, manualTags),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	return s.repo.Insert(rec)
}

// GetAll 获取记录列表
// 默认按 createdAt 倒序（最新在前）；带日期范围筛选时退化为存储自然序（id 升序）
func (s *RecordService) GetAll(filter *models.RecordFilter) ([]*models.Record, error) {
	if filter == nil {
		filter = &models.RecordFilter{}
	}

	var records []*models.Record
	var err error

	if filter.StartDate != "" || filter.EndDate != "" {
		records, err = s.repo.List("id", false, filter.StartDate, filter.EndDate)
	} else {
		records, err = s.repo.List("created_at", true, "", "")
	}
	if err != nil {
		return nil, err
	}

	// 标签筛选：命中任意一个标签即保留
	if len(filter.Tags) > 0 {
		filtered := records[:0]
		for _, rec := range records {
			if containsAny(rec.Tags, filter.Tags) {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	// 关键词搜索：对 content 和 myFeeling 做不区分大小写的子串匹配
	if filter.SearchText != "" {
		keyword := strings.ToLower(filter.SearchText)
		filtered := records[:0]
		for _, rec := range records {
			if strings.Contains(strings.ToLower(rec.Content), keyword) ||
				strings.Contains(strings.ToLower(rec.MyFeeling), keyword) {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	return records, nil
}

// GetByID 根据ID获取单条记录
func (s *RecordService) GetByID(id int) (*models.Record, error) {
	return s.repo.GetByID(id)
}

// Update 更新记录，返回更新的记录数
// 只要动了 autoTags 或 manualTags 中的一个，另一个从已存记录读出后重算 tags
func (s *RecordService) Update(id int, upd *models.RecordUpdate) (int, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return 0, err
	}

	if upd.Content != nil {
		if *upd.Content == "" {
			return 0, fmt.Errorf("%w: 言论内容不能为空", ErrValidation)
		}
		existing.Content = *upd.Content
	}
	if upd.MyFeeling != nil {
		if *upd.MyFeeling == "" {
			return 0, fmt.Errorf("%w: 我的感受不能为空", ErrValidation)
		}
		existing.MyFeeling = *upd.MyFeeling
	}
	if upd.Date != nil {
		if err := utils.ValidateDate(*upd.Date); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		existing.Date = *upd.Date
	}
	if upd.AutoTags != nil {
		existing.AutoTags = *upd.AutoTags
	}
	if upd.ManualTags != nil {
		existing.ManualTags = *upd.ManualTags
	}

	existing.Tags = mergeTags(existing.AutoTags, existing.ManualTags)
	existing.UpdatedAt = time.Now().UnixMilli()

	return s.repo.Update(id, existing)
}

// Delete 删除记录（幂等：删除不存在的ID不算错误）
func (s *RecordService) Delete(id int) error {
	_, err := s.repo.Delete(id)
	return err
}

// GetAllTags 获取所有用过的标签（去重，按首次出现顺序）
func (s *RecordService) GetAllTags() ([]string, error) {
	records, err := s.repo.List("id", false, "", "")
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	tags := []string{}
	for _, rec := range records {
		for _, tag := range rec.Tags {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}

	return tags, nil
}

// GetStatistics 获取统计数据（单次全表扫描）
func (s *RecordService) GetStatistics() (*models.Statistics, error) {
	records, err := s.repo.List("id", false, "", "")
	if err != nil {
		return nil, err
	}

	stats := &models.Statistics{
		Total:     len(records),
		DateCount: map[string]int{},
		TagCount:  map[string]int{},
	}

	for _, rec := range records {
		stats.DateCount[rec.Date]++
		// 一条记录可以贡献多个标签计数
		for _, tag := range rec.Tags {
			stats.TagCount[tag]++
		}
	}

	return stats, nil
}

// ExportData 导出全部数据（JSON，存储自然序，可重新导入）
func (s *RecordService) ExportData() (string, error) {
	records, err := s.repo.List("id", false, "", "")
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("导出数据失败: %w", err)
	}

	return string(data), nil
}

// ExportFilename 导出文件名约定: run-away-backup-<YYYY-MM-DD>.json
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("run-away-backup-%s.json", t.Format("2006-01-02"))
}

func containsAny(tags, wanted []string) bool {
	for _, w := range wanted {
		for _, t := range tags {
			if t == w {
				return true
			}
		}
	}
	return false
}
