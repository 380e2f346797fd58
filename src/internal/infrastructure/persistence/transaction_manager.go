package persistence

import (
	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
	"gorm.io/gorm"
)

// ===========================
// GORM TransactionManager 實作
// ===========================

// GORMTransactionManager 以 gorm.DB.Transaction 實作 shared.TransactionManager
//
// 行為：
// - fn 返回 nil → 提交
// - fn 返回錯誤 → 回滾並原樣返回錯誤（保留 DomainError）
// - fn panic → 回滾後重新 panic
type GORMTransactionManager struct {
	db *gorm.DB
}

// NewGORMTransactionManager 建構函數
func NewGORMTransactionManager(db *gorm.DB) *GORMTransactionManager {
	return &GORMTransactionManager{db: db}
}

// InTransaction 在單一資料庫事務中執行 fn
func (m *GORMTransactionManager) InTransaction(fn func(ctx shared.TransactionContext) error) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewGORMTransactionContext(tx))
	})
}
