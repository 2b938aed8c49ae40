package db

import (
	"errors"
	"fmt"
	"strings"
)

// 存储层错误，调用方用 errors.Is 判断
var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("记录不存在")
	// ErrStorageQuota 本地存储空间不足
	ErrStorageQuota = errors.New("存储空间不足")
)

// translateErr 把 SQLite 的磁盘满错误映射为 ErrStorageQuota，其余原样返回
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "database or disk is full") {
		return fmt.Errorf("%w: %v", ErrStorageQuota, err)
	}
	return err
}
