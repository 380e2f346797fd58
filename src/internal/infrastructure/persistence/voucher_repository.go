package persistence

import (
	"time"

	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
	"github.com/jackyeh168/cartquest/src/internal/domain/voucher"
	"gorm.io/gorm"
)

// ===========================
// GORM VoucherRepository 實作
// ===========================

// GORMVoucherRepository GORM 實作的折價券倉儲
type GORMVoucherRepository struct {
	db *gorm.DB
}

// NewVoucherRepository 建構函數
func NewVoucherRepository(db *gorm.DB) *GORMVoucherRepository {
	return &GORMVoucherRepository{db: db}
}

var _ voucher.VoucherRepository = (*GORMVoucherRepository)(nil)

// Save 插入新折價券
func (r *GORMVoucherRepository) Save(ctx shared.TransactionContext, v *voucher.DiscountVoucher) error {
	db := resolveDB(ctx, r.db)

	if err := db.Create(voucherToModel(v)).Error; err != nil {
		return mapError(err, nil, voucher.ErrDuplicateCode)
	}
	return nil
}

// FindByCode 依代碼查找
func (r *GORMVoucherRepository) FindByCode(ctx shared.TransactionContext, code string) (*voucher.DiscountVoucher, error) {
	db := resolveDB(ctx, r.db)

	var model VoucherModel
	if err := db.Where("code = ?", code).First(&model).Error; err != nil {
		return nil, mapError(err, voucher.ErrVoucherNotFound, nil)
	}
	return voucherToDomain(&model)
}

// ExistsByCode 代碼是否已存在
func (r *GORMVoucherRepository) ExistsByCode(ctx shared.TransactionContext, code string) (bool, error) {
	db := resolveDB(ctx, r.db)

	var count int64
	if err := db.Model(&VoucherModel{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, mapError(err, nil, nil)
	}
	return count > 0, nil
}

// MarkUsed 條件更新：WHERE id = ? AND used = false AND expires_at > now
func (r *GORMVoucherRepository) MarkUsed(ctx shared.TransactionContext, v *voucher.DiscountVoucher, now time.Time) error {
	db := resolveDB(ctx, r.db)

	result := db.Model(&VoucherModel{}).
		Where("id = ? AND used = ? AND expires_at > ?", v.ID().String(), false, now.UTC()).
		Updates(map[string]interface{}{
			"used":    true,
			"used_at": v.UsedAt(),
		})
	if result.Error != nil {
		return mapError(result.Error, nil, nil)
	}
	if result.RowsAffected == 0 {
		return voucher.ErrVoucherUsed.WithContext(
			"code", v.Code(),
			"reason", "voucher was used or expired concurrently",
		)
	}
	return nil
}

// FindByUser 使用者的折價券（新到舊）
func (r *GORMVoucherRepository) FindByUser(ctx shared.TransactionContext, userID shared.UserID) ([]*voucher.DiscountVoucher, error) {
	db := resolveDB(ctx, r.db)

	var models []VoucherModel
	if err := db.Where("user_id = ?", userID.String()).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, mapError(err, nil, nil)
	}

	vouchers := make([]*voucher.DiscountVoucher, 0, len(models))
	for i := range models {
		v, err := voucherToDomain(&models[i])
		if err != nil {
			return nil, err
		}
		vouchers = append(vouchers, v)
	}
	return vouchers, nil
}
