package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kaiyq/run-away-pwa/models"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidateRecordCreate 验证记录创建请求
func ValidateRecordCreate(rec *models.RecordCreate) error {
	// 必填字段（调用方负责先 trim，这里只做空值判断）
	if rec.Content == "" {
		return fmt.Errorf("言论内容不能为空")
	}

	if rec.MyFeeling == "" {
		return fmt.Errorf("我的感受不能为空")
	}

	// 验证日期格式
	if rec.Date == "" {
		return fmt.Errorf("日期不能为空")
	}
	if !datePattern.MatchString(rec.Date) {
		return fmt.Errorf("无效的日期格式: %s（应为 YYYY-MM-DD）", rec.Date)
	}

	// 验证内容长度
	if len(rec.Content) > 5000 {
		return fmt.Errorf("言论内容过长（最多5000字符）")
	}

	if len(rec.MyFeeling) > 5000 {
		return fmt.Errorf("感受内容过长（最多5000字符）")
	}

	// 验证标签
	if len(rec.AutoTags)+len(rec.ManualTags) > 50 {
		return fmt.Errorf("标签过多（最多50个）")
	}

	for _, tag := range append(append([]string{}, rec.AutoTags...), rec.ManualTags...) {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("标签不能为空")
		}
		if len(tag) > 100 {
			return fmt.Errorf("标签名过长: %s（最多100字符）", tag)
		}
	}

	return nil
}

// ValidateDate 验证日期格式（YYYY-MM-DD）
func ValidateDate(date string) error {
	if !datePattern.MatchString(date) {
		return fmt.Errorf("无效的日期格式: %s（应为 YYYY-MM-DD）", date)
	}
	return nil
}
