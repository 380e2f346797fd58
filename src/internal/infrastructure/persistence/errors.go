package persistence

import (
	"errors"
	"strings"

	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
	"gorm.io/gorm"
)

// ===========================
// GORM 錯誤映射
// ===========================

// uniqueViolationMarkers 各資料庫的唯一約束錯誤訊息片段
//
// SQLite: "UNIQUE constraint failed"
// PostgreSQL: "duplicate key value violates unique constraint"（SQLSTATE 23505）
var uniqueViolationMarkers = []string{"UNIQUE constraint", "duplicate key", "SQLSTATE 23505"}

// isUniqueViolation 是否為唯一約束衝突
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	for _, marker := range uniqueViolationMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// mapError 映射 GORM 錯誤到 Domain 錯誤
//
// 映射規則：
// - gorm.ErrRecordNotFound → notFound（為 nil 時視為一般錯誤）
// - 唯一約束衝突         → conflict（為 nil 時視為一般錯誤）
// - 其他錯誤             → shared.ErrRepositoryError（保留原始訊息於 Context）
func mapError(err error, notFound, conflict *shared.DomainError) error {
	if err == nil {
		return nil
	}
	if notFound != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	if conflict != nil && isUniqueViolation(err) {
		return conflict.WithContext("database_error", err.Error())
	}
	return shared.ErrRepositoryError.WithContext("database_error", err.Error())
}
