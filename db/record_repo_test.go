package db

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/kaiyq/run-away-pwa/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB 用临时目录里的真实 SQLite 文件初始化数据库
func setupTestDB(t *testing.T) *RecordRepository {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, Init(dbPath))
	t.Cleanup(func() { Close() })

	return NewRecordRepository()
}

func testRecord(content, feeling, date string) *models.Record {
	return &models.Record{
		Content:    content,
		MyFeeling:  feeling,
		Date:       date,
		AutoTags:   []string{},
		ManualTags: []string{},
		Tags:       []string{},
		CreatedAt:  1700000000000,
		UpdatedAt:  1700000000000,
	}
}

func TestInsertAndGetByID(t *testing.T) {
	repo := setupTestDB(t)

	rec := testRecord("你这水平也就这样了", "很难受", "2024-01-15")
	rec.AutoTags = []string{"打压学生"}
	rec.ManualTags = []string{"人身攻击"}
	rec.Tags = []string{"打压学生", "人身攻击"}

	id, err := repo.Insert(rec)
	require.NoError(t, err)
	assert.Greater(t, id, 0)

	got, err := repo.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "你这水平也就这样了", got.Content)
	assert.Equal(t, "很难受", got.MyFeeling)
	assert.Equal(t, "2024-01-15", got.Date)
	assert.Equal(t, []string{"打压学生"}, got.AutoTags)
	assert.Equal(t, []string{"人身攻击"}, got.ManualTags)
	assert.Equal(t, []string{"打压学生", "人身攻击"}, got.Tags)
	assert.Equal(t, int64(1700000000000), got.CreatedAt)
}

func TestInsertAssignsIncreasingIDs(t *testing.T) {
	repo := setupTestDB(t)

	first, err := repo.Insert(testRecord("a", "b", "2024-01-01"))
	require.NoError(t, err)
	second, err := repo.Insert(testRecord("c", "d", "2024-01-02"))
	require.NoError(t, err)

	assert.Greater(t, second, first)
}

func TestGetByIDNotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetByID(999)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListOrdering(t *testing.T) {
	repo := setupTestDB(t)

	r1 := testRecord("第一条", "a", "2024-01-03")
	r1.CreatedAt, r1.UpdatedAt = 100, 100
	r2 := testRecord("第二条", "b", "2024-01-01")
	r2.CreatedAt, r2.UpdatedAt = 300, 300
	r3 := testRecord("第三条", "c", "2024-01-02")
	r3.CreatedAt, r3.UpdatedAt = 200, 200

	for _, r := range []*models.Record{r1, r2, r3} {
		_, err := repo.Insert(r)
		require.NoError(t, err)
	}

	// created_at 倒序
	records, err := repo.List("created_at", true, "", "")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "第二条", records[0].Content)
	assert.Equal(t, "第三条", records[1].Content)
	assert.Equal(t, "第一条", records[2].Content)

	// id 升序（存储自然序）
	records, err = repo.List("id", false, "", "")
	require.NoError(t, err)
	assert.Equal(t, "第一条", records[0].Content)
	assert.Equal(t, "第三条", records[2].Content)
}

func TestListDateRange(t *testing.T) {
	repo := setupTestDB(t)

	for _, date := range []string{"2024-01-01", "2024-01-15", "2024-02-01"} {
		_, err := repo.Insert(testRecord("内容", "感受", date))
		require.NoError(t, err)
	}

	// 闭区间
	records, err := repo.List("id", false, "2024-01-01", "2024-01-15")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2024-01-01", records[0].Date)
	assert.Equal(t, "2024-01-15", records[1].Date)

	// 只有下界
	records, err = repo.List("id", false, "2024-01-16", "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2024-02-01", records[0].Date)
}

func TestListRejectsUnknownOrderBy(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.List("content; DROP TABLE records", false, "", "")
	assert.Error(t, err)
}

func TestUpdate(t *testing.T) {
	repo := setupTestDB(t)

	id, err := repo.Insert(testRecord("原内容", "原感受", "2024-01-15"))
	require.NoError(t, err)

	rec, err := repo.GetByID(id)
	require.NoError(t, err)

	rec.Content = "新内容"
	rec.ManualTags = []string{"双标"}
	rec.Tags = []string{"双标"}
	rec.UpdatedAt = 1700000099999

	count, err := repo.Update(id, rec)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := repo.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, "新内容", got.Content)
	assert.Equal(t, []string{"双标"}, got.Tags)
	assert.Equal(t, int64(1700000099999), got.UpdatedAt)
	assert.Equal(t, int64(1700000000000), got.CreatedAt)
}

func TestUpdateNonexistent(t *testing.T) {
	repo := setupTestDB(t)

	count, err := repo.Update(999, testRecord("x", "y", "2024-01-01"))
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDelete(t *testing.T) {
	repo := setupTestDB(t)

	id, err := repo.Insert(testRecord("内容", "感受", "2024-01-15"))
	require.NoError(t, err)

	count, err := repo.Delete(id)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// 再删一次不报错，影响行数为 0
	count, err = repo.Delete(id)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = repo.GetByID(id)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCount(t *testing.T) {
	repo := setupTestDB(t)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = repo.Insert(testRecord("内容", "感受", "2024-01-15"))
	require.NoError(t, err)

	count, err = repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
