package persistence

import (
	"time"

	"github.com/jackyeh168/cartquest/src/internal/domain/referral"
	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
	"gorm.io/gorm"
)

// ===========================
// GORM ReferralRepository 實作
// ===========================

// GORMReferralRepository GORM 實作的推薦記錄倉儲
type GORMReferralRepository struct {
	db *gorm.DB
}

// NewReferralRepository 建構函數
func NewReferralRepository(db *gorm.DB) *GORMReferralRepository {
	return &GORMReferralRepository{db: db}
}

var _ referral.ReferralRepository = (*GORMReferralRepository)(nil)

// Save 插入新的推薦記錄
func (r *GORMReferralRepository) Save(ctx shared.TransactionContext, ref *referral.Referral) error {
	db := resolveDB(ctx, r.db)

	model := referralToModel(ref)
	model.UpdatedAt = model.CreatedAt
	if err := db.Create(model).Error; err != nil {
		return mapError(err, nil, referral.ErrDuplicateCode)
	}
	return nil
}

// UpdateFromPending 條件更新：WHERE id = ? AND status = 'pending'
//
// RowsAffected = 0 表示另一個請求已先完成或作廢此推薦碼。
func (r *GORMReferralRepository) UpdateFromPending(ctx shared.TransactionContext, ref *referral.Referral) error {
	db := resolveDB(ctx, r.db)

	model := referralToModel(ref)
	result := db.Model(&ReferralModel{}).
		Where("id = ? AND status = ?", model.ID, referral.StatusPending.String()).
		Updates(map[string]interface{}{
			"status":           model.Status,
			"referred_user_id": model.ReferredUserID,
			"coins_awarded":    model.CoinsAwarded,
			"completed_at":     model.CompletedAt,
			"updated_at":       time.Now().UTC(),
		})
	if result.Error != nil {
		// referred_user_id 唯一：同一使用者不能被推薦兩次
		return mapError(result.Error, nil, referral.ErrAlreadyReferred)
	}
	if result.RowsAffected == 0 {
		return referral.ErrInvalidOrUsedCode.WithContext(
			"referral_id", model.ID,
			"reason", "referral is no longer pending",
		)
	}
	return nil
}

// FindByCode 依推薦碼查找
func (r *GORMReferralRepository) FindByCode(ctx shared.TransactionContext, code referral.Code) (*referral.Referral, error) {
	db := resolveDB(ctx, r.db)

	var model ReferralModel
	if err := db.Where("code = ?", code.String()).First(&model).Error; err != nil {
		return nil, mapError(err, referral.ErrReferralNotFound, nil)
	}
	return referralToDomain(&model)
}

// FindActiveByReferrer 推薦人最新一筆非 expired 記錄
func (r *GORMReferralRepository) FindActiveByReferrer(ctx shared.TransactionContext, referrerID shared.UserID) (*referral.Referral, error) {
	db := resolveDB(ctx, r.db)

	var model ReferralModel
	err := db.
		Where("referrer_id = ? AND status <> ?", referrerID.String(), referral.StatusExpired.String()).
		Order("created_at DESC").
		First(&model).Error
	if err != nil {
		return nil, mapError(err, referral.ErrReferralNotFound, nil)
	}
	return referralToDomain(&model)
}

// ExistsByCode 推薦碼是否存在（任何狀態）
func (r *GORMReferralRepository) ExistsByCode(ctx shared.TransactionContext, code referral.Code) (bool, error) {
	db := resolveDB(ctx, r.db)

	var count int64
	if err := db.Model(&ReferralModel{}).Where("code = ?", code.String()).Count(&count).Error; err != nil {
		return false, mapError(err, nil, nil)
	}
	return count > 0, nil
}

// HasCompletedAsReferred 使用者是否已以被推薦人身分完成推薦
func (r *GORMReferralRepository) HasCompletedAsReferred(ctx shared.TransactionContext, userID shared.UserID) (bool, error) {
	db := resolveDB(ctx, r.db)

	var count int64
	err := db.Model(&ReferralModel{}).
		Where("referred_user_id = ? AND status = ?", userID.String(), referral.StatusCompleted.String()).
		Count(&count).Error
	if err != nil {
		return false, mapError(err, nil, nil)
	}
	return count > 0, nil
}

// ListCompletedByReferrer 推薦人已完成的推薦（completed_at 由新到舊）
func (r *GORMReferralRepository) ListCompletedByReferrer(ctx shared.TransactionContext, referrerID shared.UserID) ([]*referral.Referral, error) {
	db := resolveDB(ctx, r.db)

	var models []ReferralModel
	err := db.
		Where("referrer_id = ? AND status = ?", referrerID.String(), referral.StatusCompleted.String()).
		Order("completed_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, mapError(err, nil, nil)
	}

	referrals := make([]*referral.Referral, 0, len(models))
	for i := range models {
		ref, err := referralToDomain(&models[i])
		if err != nil {
			return nil, err
		}
		referrals = append(referrals, ref)
	}
	return referrals, nil
}

// CountByReferrer 推薦人指定狀態的記錄數
func (r *GORMReferralRepository) CountByReferrer(
	ctx shared.TransactionContext,
	referrerID shared.UserID,
	status referral.Status,
) (int64, error) {
	db := resolveDB(ctx, r.db)

	var count int64
	err := db.Model(&ReferralModel{}).
		Where("referrer_id = ? AND status = ?", referrerID.String(), status.String()).
		Count(&count).Error
	if err != nil {
		return 0, mapError(err, nil, nil)
	}
	return count, nil
}
