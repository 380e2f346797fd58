package coins

import "github.com/jackyeh168/cartquest/src/internal/domain/shared"

// ===========================
// Ledger Repository 介面
// ===========================

// LedgerRepository 金幣帳本倉儲介面
//
// 設計原則：
// 1. 依賴倒置原則（DIP）：Domain Layer 定義介面，Infrastructure Layer 實作
// 2. 只追加：沒有 Update / Delete，分錄一經寫入不可變
// 3. 事務支持：LoadLedger 與 Append 必須在同一個 TransactionContext 內呼叫
//
// 事務使用範例：
//
//	txManager.InTransaction(func(ctx shared.TransactionContext) error {
//	    ledger, _ := repo.LoadLedger(ctx, userID)
//	    entry, _ := ledger.Append(spec, time.Now())
//	    return repo.Append(ctx, entry)
//	})
type LedgerRepository interface {
	// LoadLedger 載入帳本頭（最新分錄）
	// 使用者沒有任何分錄時返回餘額 0 的空帳本（不是錯誤）
	LoadLedger(ctx shared.TransactionContext, userID shared.UserID) (*Ledger, error)

	// Append 持久化新分錄
	// 錯誤：ErrConcurrentAppend（同一使用者的序號已被佔用）
	Append(ctx shared.TransactionContext, entry *LedgerEntry) error

	// FindByUser 分頁查詢使用者分錄（依 sequence 由新到舊）
	// 返回：該頁分錄與總筆數
	FindByUser(ctx shared.TransactionContext, userID shared.UserID, page Page) ([]*LedgerEntry, int64, error)

	// ExistsForOrder 是否已存在指定訂單、指定類型的分錄
	ExistsForOrder(ctx shared.TransactionContext, userID shared.UserID, orderID string, kind EntryKind) (bool, error)

	// Summarize 彙總使用者的分錄統計
	Summarize(ctx shared.TransactionContext, userID shared.UserID) (LedgerSummary, error)

	// TopBalances 依派生餘額排序的前 limit 名使用者
	TopBalances(ctx shared.TransactionContext, limit int) ([]BalanceStanding, error)
}

// LedgerSummary 帳本彙總（唯讀投影）
//
// TotalEarned 為所有正數金額總和，TotalSpent 為所有負數金額的絕對值總和。
type LedgerSummary struct {
	TotalEarned       int
	TotalSpent        int
	PurchaseRewards   int
	ReferralRewards   int
	GameRewards       int
	TotalTransactions int64
}

// BalanceStanding 排行榜項目
type BalanceStanding struct {
	UserID  shared.UserID
	Balance int
}
