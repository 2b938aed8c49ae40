package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaiyq/run-away-pwa/models"
)

// recordColumns SELECT 的统一列顺序，和 scanRecord 保持一致
const recordColumns = "id, content, my_feeling, date, auto_tags, manual_tags, tags, created_at, updated_at"

// RecordRepository 记录数据库操作
type RecordRepository struct {
	db *sql.DB
}

// NewRecordRepository 创建记录仓库
func NewRecordRepository() *RecordRepository {
	return &RecordRepository{db: DB}
}

// Insert 插入记录并返回自增ID
func (r *RecordRepository) Insert(rec *models.Record) (int, error) {
	autoTags, manualTags, tags, err := marshalTags(rec)
	if err != nil {
		return 0, err
	}

	result, err := r.db.Exec(
		"INSERT INTO records (content, my_feeling, date, auto_tags, manual_tags, tags, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		rec.Content, rec.MyFeeling, rec.Date, autoTags, manualTags, tags, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("插入记录失败: %w", translateErr(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("获取插入ID失败: %w", err)
	}

	return int(id), nil
}

// GetByID 根据ID获取记录
func (r *RecordRepository) GetByID(id int) (*models.Record, error) {
	row := r.db.QueryRow("SELECT "+recordColumns+" FROM records WHERE id = ?", id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: ID=%d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("查询记录失败: %w", translateErr(err))
	}

	return rec, nil
}

// List 按指定字段排序扫描记录，可选按 date 做闭区间过滤
// orderBy 只接受白名单列，防止拼接出不受控的 SQL
func (r *RecordRepository) List(orderBy string, desc bool, startDate, endDate string) ([]*models.Record, error) {
	switch orderBy {
	case "id", "date", "created_at":
	default:
		return nil, fmt.Errorf("不支持的排序字段: %s", orderBy)
	}

	query := "SELECT " + recordColumns + " FROM records"

	whereClauses := []string{}
	args := []interface{}{}

	if startDate != "" {
		whereClauses = append(whereClauses, "date >= ?")
		args = append(args, startDate)
	}
	if endDate != "" {
		whereClauses = append(whereClauses, "date <= ?")
		args = append(args, endDate)
	}

	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}

	query += " ORDER BY " + orderBy
	if desc {
		query += " DESC"
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("查询记录列表失败: %w", translateErr(err))
	}
	defer rows.Close()

	records := []*models.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("扫描记录失败: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历记录失败: %w", translateErr(err))
	}

	return records, nil
}

// Update 整行写入可变字段，返回受影响的行数
// 部分字段合并由 service 层完成，这里保证一次原子写入
func (r *RecordRepository) Update(id int, rec *models.Record) (int, error) {
	autoTags, manualTags, tags, err := marshalTags(rec)
	if err != nil {
		return 0, err
	}

	result, err := r.db.Exec(
		"UPDATE records SET content=?, my_feeling=?, date=?, auto_tags=?, manual_tags=?, tags=?, updated_at=? WHERE id=?",
		rec.Content, rec.MyFeeling, rec.Date, autoTags, manualTags, tags, rec.UpdatedAt, id,
	)
	if err != nil {
		return 0, fmt.Errorf("更新记录失败: %w", translateErr(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("获取更新行数失败: %w", err)
	}

	return int(affected), nil
}

// Delete 删除记录，返回受影响的行数（0 表示记录本就不存在）
func (r *RecordRepository) Delete(id int) (int, error) {
	result, err := r.db.Exec("DELETE FROM records WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("删除记录失败: %w", translateErr(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("获取删除行数失败: %w", err)
	}

	return int(affected), nil
}

// Count 统计记录总数
func (r *RecordRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("统计记录失败: %w", translateErr(err))
	}
	return count, nil
}

// scanner 兼容 *sql.Row 和 *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanRecord 扫描一行并反序列化三个标签列
func scanRecord(s scanner) (*models.Record, error) {
	var rec models.Record
	var autoTags, manualTags, tags string

	err := s.Scan(
		&rec.ID, &rec.Content, &rec.MyFeeling, &rec.Date,
		&autoTags, &manualTags, &tags,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(autoTags), &rec.AutoTags); err != nil {
		return nil, fmt.Errorf("解析 auto_tags 失败: %w", err)
	}
	if err := json.Unmarshal([]byte(manualTags), &rec.ManualTags); err != nil {
		return nil, fmt.Errorf("解析 manual_tags 失败: %w", err)
	}
	if err := json.Unmarshal([]byte(tags), &rec.Tags); err != nil {
		return nil, fmt.Errorf("解析 tags 失败: %w", err)
	}

	if rec.AutoTags == nil {
		rec.AutoTags = []string{}
	}
	if rec.ManualTags == nil {
		rec.ManualTags = []string{}
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}

	return &rec, nil
}

// marshalTags 序列化三个标签列，nil 切片落库为空数组
func marshalTags(rec *models.Record) (string, string, string, error) {
	autoTags, err := marshalStringList(rec.AutoTags)
	if err != nil {
		return "", "", "", fmt.Errorf("序列化 auto_tags 失败: %w", err)
	}
	manualTags, err := marshalStringList(rec.ManualTags)
	if err != nil {
		return "", "", "", fmt.Errorf("序列化 manual_tags 失败: %w", err)
	}
	tags, err := marshalStringList(rec.Tags)
	if err != nil {
		return "", "", "", fmt.Errorf("序列化 tags 失败: %w", err)
	}
	return autoTags, manualTags, tags, nil
}

func marshalStringList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
