package persistence

import (
	"github.com/jackyeh168/cartquest/src/internal/domain/coins"
	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ===========================
// GORM LedgerRepository 實作
// ===========================

// GORMLedgerRepository GORM 實作的金幣帳本倉儲
//
// 職責：
// - Domain ↔ GORM Model 轉換（mappers.go）
// - 查詢帳本頭、分頁、統計
// - 將唯一約束衝突映射為 coins.ErrConcurrentAppend
//
// 不包含業務邏輯（餘額檢查在 coins.Ledger.Append）。
type GORMLedgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository 建構函數
func NewLedgerRepository(db *gorm.DB) *GORMLedgerRepository {
	return &GORMLedgerRepository{db: db}
}

var _ coins.LedgerRepository = (*GORMLedgerRepository)(nil)

// LoadLedger 以最新分錄（sequence 最大）重建帳本頭
//
// PostgreSQL 事務中對帳本頭加 FOR UPDATE；SQLite 單一寫入者，不需要也不支援行鎖。
func (r *GORMLedgerRepository) LoadLedger(ctx shared.TransactionContext, userID shared.UserID) (*coins.Ledger, error) {
	db := resolveDB(ctx, r.db)
	if ctx != nil && db.Dialector.Name() == "postgres" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var models []CoinEntryModel
	result := db.
		Where("user_id = ?", userID.String()).
		Order("sequence DESC").
		Limit(1).
		Find(&models)
	if result.Error != nil {
		return nil, mapError(result.Error, nil, nil)
	}

	if len(models) == 0 {
		return coins.NewLedger(userID)
	}

	latest, err := entryToDomain(&models[0])
	if err != nil {
		return nil, err
	}
	return coins.ReconstructLedger(userID, latest)
}

// Append 插入新分錄
//
// 錯誤：coins.ErrConcurrentAppend（(user_id, sequence) 已被佔用）
func (r *GORMLedgerRepository) Append(ctx shared.TransactionContext, entry *coins.LedgerEntry) error {
	db := resolveDB(ctx, r.db)

	if err := db.Create(entryToModel(entry)).Error; err != nil {
		if isUniqueViolation(err) {
			return coins.ErrConcurrentAppend.WithContext(
				"user_id", entry.UserID().String(),
				"sequence", entry.Sequence(),
			)
		}
		return mapError(err, nil, nil)
	}
	return nil
}

// FindByUser 分頁查詢（新到舊）
func (r *GORMLedgerRepository) FindByUser(
	ctx shared.TransactionContext,
	userID shared.UserID,
	page coins.Page,
) ([]*coins.LedgerEntry, int64, error) {
	db := resolveDB(ctx, r.db)

	var total int64
	if err := db.Model(&CoinEntryModel{}).
		Where("user_id = ?", userID.String()).
		Count(&total).Error; err != nil {
		return nil, 0, mapError(err, nil, nil)
	}

	var models []CoinEntryModel
	if err := db.
		Where("user_id = ?", userID.String()).
		Order("sequence DESC").
		Offset(page.Offset()).
		Limit(page.Size()).
		Find(&models).Error; err != nil {
		return nil, 0, mapError(err, nil, nil)
	}

	entries := make([]*coins.LedgerEntry, 0, len(models))
	for i := range models {
		entry, err := entryToDomain(&models[i])
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}
	return entries, total, nil
}

// ExistsForOrder 是否已有同訂單、同類型的分錄
func (r *GORMLedgerRepository) ExistsForOrder(
	ctx shared.TransactionContext,
	userID shared.UserID,
	orderID string,
	kind coins.EntryKind,
) (bool, error) {
	db := resolveDB(ctx, r.db)

	var count int64
	if err := db.Model(&CoinEntryModel{}).
		Where("user_id = ? AND related_order_id = ? AND kind = ?", userID.String(), orderID, kind.String()).
		Count(&count).Error; err != nil {
		return false, mapError(err, nil, nil)
	}
	return count > 0, nil
}

type summaryRow struct {
	TotalEarned       int
	TotalSpent        int
	PurchaseRewards   int
	ReferralRewards   int
	GameRewards       int
	TotalTransactions int64
}

// Summarize 以單一聚合查詢計算統計
func (r *GORMLedgerRepository) Summarize(ctx shared.TransactionContext, userID shared.UserID) (coins.LedgerSummary, error) {
	db := resolveDB(ctx, r.db)

	var row summaryRow
	err := db.Model(&CoinEntryModel{}).
		Select(
			"COALESCE(SUM(CASE WHEN amount > 0 THEN amount ELSE 0 END), 0) AS total_earned, "+
				"COALESCE(SUM(CASE WHEN amount < 0 THEN -amount ELSE 0 END), 0) AS total_spent, "+
				"COALESCE(SUM(CASE WHEN kind = ? THEN amount ELSE 0 END), 0) AS purchase_rewards, "+
				"COALESCE(SUM(CASE WHEN kind = ? THEN amount ELSE 0 END), 0) AS referral_rewards, "+
				"COALESCE(SUM(CASE WHEN kind = ? THEN amount ELSE 0 END), 0) AS game_rewards, "+
				"COUNT(*) AS total_transactions",
			coins.KindPurchaseReward.String(),
			coins.KindReferralBonus.String(),
			coins.KindGameReward.String(),
		).
		Where("user_id = ?", userID.String()).
		Scan(&row).Error
	if err != nil {
		return coins.LedgerSummary{}, mapError(err, nil, nil)
	}

	return coins.LedgerSummary{
		TotalEarned:       row.TotalEarned,
		TotalSpent:        row.TotalSpent,
		PurchaseRewards:   row.PurchaseRewards,
		ReferralRewards:   row.ReferralRewards,
		GameRewards:       row.GameRewards,
		TotalTransactions: row.TotalTransactions,
	}, nil
}

type standingRow struct {
	UserID       string
	BalanceAfter int
}

// TopBalances 每位使用者的帳本頭依 balance_after 排序
func (r *GORMLedgerRepository) TopBalances(ctx shared.TransactionContext, limit int) ([]coins.BalanceStanding, error) {
	db := resolveDB(ctx, r.db)

	heads := db.Model(&CoinEntryModel{}).
		Select("user_id, MAX(sequence) AS max_sequence").
		Group("user_id")

	var rows []standingRow
	err := db.Table("coin_entries AS e").
		Select("e.user_id, e.balance_after").
		Joins("JOIN (?) AS h ON e.user_id = h.user_id AND e.sequence = h.max_sequence", heads).
		Where("e.balance_after > 0").
		Order("e.balance_after DESC, e.user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, mapError(err, nil, nil)
	}

	standings := make([]coins.BalanceStanding, 0, len(rows))
	for _, row := range rows {
		userID, err := shared.UserIDFromString(row.UserID)
		if err != nil {
			return nil, err
		}
		standings = append(standings, coins.BalanceStanding{UserID: userID, Balance: row.BalanceAfter})
	}
	return standings, nil
}
