package persistence

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ===========================
// GORM Model 定義
// ===========================

// CoinEntryModel 金幣帳本分錄（只追加）
//
// (user_id, sequence) 唯一索引是跨程序的單一寫入者保證：
// 兩個事務以同一個帳本頭追加時，後提交者違反約束而失敗。
type CoinEntryModel struct {
	ID                string    `gorm:"type:uuid;primaryKey"`
	UserID            string    `gorm:"type:uuid;not null;uniqueIndex:idx_coin_entries_user_sequence,priority:1;index:idx_coin_entries_user_order,priority:1"`
	Sequence          int64     `gorm:"not null;uniqueIndex:idx_coin_entries_user_sequence,priority:2"`
	Amount            int       `gorm:"not null"`
	Kind              string    `gorm:"type:varchar(32);not null;index:idx_coin_entries_user_order,priority:3"`
	Description       string    `gorm:"type:varchar(255);not null"`
	RelatedOrderID    string    `gorm:"type:varchar(64);index:idx_coin_entries_user_order,priority:2"`
	RelatedReferralID string    `gorm:"type:varchar(64)"`
	BalanceAfter      int       `gorm:"not null"`
	CreatedAt         time.Time `gorm:"not null;index"`
}

// TableName 指定表名
func (CoinEntryModel) TableName() string {
	return "coin_entries"
}

// ReferralModel 推薦記錄
type ReferralModel struct {
	ID             string     `gorm:"type:uuid;primaryKey"`
	ReferrerID     string     `gorm:"type:uuid;not null;index:idx_referrals_referrer_status,priority:1;uniqueIndex:idx_referrals_active_referrer,where:status <> 'expired'"`
	ReferredUserID *string    `gorm:"type:uuid;uniqueIndex"`
	Code           string     `gorm:"type:varchar(32);not null;uniqueIndex"`
	Status         string     `gorm:"type:varchar(16);not null;index:idx_referrals_referrer_status,priority:2"`
	CoinsAwarded   int        `gorm:"not null;default:0"`
	CompletedAt    *time.Time `gorm:"index"`
	CreatedAt      time.Time  `gorm:"not null"`
	UpdatedAt      time.Time  `gorm:"not null"`
}

// TableName 指定表名
func (ReferralModel) TableName() string {
	return "referrals"
}

// VoucherModel 折價券
type VoucherModel struct {
	ID        string          `gorm:"type:uuid;primaryKey"`
	UserID    string          `gorm:"type:uuid;not null;index"`
	Code      string          `gorm:"type:varchar(32);not null;uniqueIndex"`
	Kind      string          `gorm:"type:varchar(16);not null"`
	Value     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Source    string          `gorm:"type:varchar(32);not null"`
	Used      bool            `gorm:"not null;default:false"`
	UsedAt    *time.Time
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName 指定表名
func (VoucherModel) TableName() string {
	return "vouchers"
}

// AllModels 需要遷移的所有模型
func AllModels() []interface{} {
	return []interface{}{
		&CoinEntryModel{},
		&ReferralModel{},
		&VoucherModel{},
	}
}

// Migrate 建立或更新所有資料表與索引
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
