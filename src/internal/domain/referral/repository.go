package referral

import "github.com/jackyeh168/cartquest/src/internal/domain/shared"

// ===========================
// Referral Repository 介面
// ===========================

// ReferralRepository 推薦記錄倉儲介面
//
// 寫操作必須在事務中；讀操作可傳入 nil（auto-commit）。
type ReferralRepository interface {
	// Save 保存新的推薦記錄
	// 錯誤：ErrDuplicateCode（推薦碼唯一索引衝突）
	Save(ctx shared.TransactionContext, referral *Referral) error

	// UpdateFromPending 持久化狀態轉換（條件：資料庫中仍為 pending）
	// 錯誤：ErrInvalidOrUsedCode（已被其他請求完成或作廢）
	UpdateFromPending(ctx shared.TransactionContext, referral *Referral) error

	// FindByCode 依推薦碼查找（任何狀態）
	// 錯誤：ErrReferralNotFound
	FindByCode(ctx shared.TransactionContext, code Code) (*Referral, error)

	// FindActiveByReferrer 查找推薦人非 expired 的推薦記錄（最新一筆）
	// 錯誤：ErrReferralNotFound
	FindActiveByReferrer(ctx shared.TransactionContext, referrerID shared.UserID) (*Referral, error)

	// ExistsByCode 推薦碼是否已被使用（任何狀態）
	ExistsByCode(ctx shared.TransactionContext, code Code) (bool, error)

	// HasCompletedAsReferred 使用者是否已以被推薦人身分完成過推薦
	HasCompletedAsReferred(ctx shared.TransactionContext, userID shared.UserID) (bool, error)

	// ListCompletedByReferrer 推薦人已完成的推薦（依 completedAt 由新到舊）
	ListCompletedByReferrer(ctx shared.TransactionContext, referrerID shared.UserID) ([]*Referral, error)

	// CountByReferrer 推薦人指定狀態的推薦數
	CountByReferrer(ctx shared.TransactionContext, referrerID shared.UserID, status Status) (int64, error)
}
