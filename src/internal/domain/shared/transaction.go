package shared

// TransactionContext 事務上下文介面
//
// 設計決策：可選事務參與模式（Optional Transaction Participation）
//
// 行為約定：
// - ctx != nil: 在調用者的事務中執行（事務傳播）
// - ctx == nil: 使用 auto-commit 模式（適用於單一讀操作）
//
// Repository 方法約束：
// - 寫操作（Append、Save、Update、MarkUsed）必須在事務中
// - 讀操作可傳入 nil
//
// 範例（推薦碼套用：兩筆帳本分錄與狀態更新在同一事務）：
//
//	ledger.Transact(referredID, func(tx *coinsapp.LedgerTx) error {
//	    if _, err := tx.Append(referrerID, referrerCredit); err != nil {
//	        return err
//	    }
//	    if _, err := tx.Append(referredID, referredCredit); err != nil {
//	        return err
//	    }
//	    return referralRepo.UpdateFromPending(tx.Context(), ref)
//	})
//
// 這是一個標記介面，Infrastructure Layer 負責實作具體的事務封裝（GORM）。
type TransactionContext interface {
	// 標記介面：僅用於傳遞上下文，不暴露方法
}

// TransactionManager 事務管理器介面
//
// fn 返回錯誤或 panic 時回滾，否則提交。
type TransactionManager interface {
	InTransaction(fn func(ctx TransactionContext) error) error
}
