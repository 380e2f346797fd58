package persistence

import (
	"time"

	"github.com/jackyeh168/cartquest/src/internal/domain/coins"
	"github.com/jackyeh168/cartquest/src/internal/domain/referral"
	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
	"github.com/jackyeh168/cartquest/src/internal/domain/voucher"
)

// ===========================
// Domain ↔ GORM Model 轉換函數
// ===========================
//
// toDomain 系列一律經由 Reconstruct* 重建，資料庫中的損壞資料以 DomainError 返回，
// 不 panic；toModel 系列不驗證（聚合已保證有效）。

func entryToDomain(m *CoinEntryModel) (*coins.LedgerEntry, error) {
	id, err := coins.EntryIDFromString(m.ID)
	if err != nil {
		return nil, err
	}
	userID, err := shared.UserIDFromString(m.UserID)
	if err != nil {
		return nil, err
	}
	kind, err := coins.ParseEntryKind(m.Kind)
	if err != nil {
		return nil, err
	}
	return coins.ReconstructLedgerEntry(
		id,
		userID,
		m.Amount,
		kind,
		m.Description,
		m.RelatedOrderID,
		m.RelatedReferralID,
		m.BalanceAfter,
		m.Sequence,
		m.CreatedAt.UTC(),
	)
}

func entryToModel(e *coins.LedgerEntry) *CoinEntryModel {
	return &CoinEntryModel{
		ID:                e.ID().String(),
		UserID:            e.UserID().String(),
		Sequence:          e.Sequence(),
		Amount:            e.Amount(),
		Kind:              e.Kind().String(),
		Description:       e.Description(),
		RelatedOrderID:    e.RelatedOrderID(),
		RelatedReferralID: e.RelatedReferralID(),
		BalanceAfter:      e.BalanceAfter(),
		CreatedAt:         e.CreatedAt(),
	}
}

func referralToDomain(m *ReferralModel) (*referral.Referral, error) {
	id, err := referral.ReferralIDFromString(m.ID)
	if err != nil {
		return nil, err
	}
	referrerID, err := shared.UserIDFromString(m.ReferrerID)
	if err != nil {
		return nil, err
	}
	var referredUserID shared.UserID
	if m.ReferredUserID != nil {
		referredUserID, err = shared.UserIDFromString(*m.ReferredUserID)
		if err != nil {
			return nil, err
		}
	}
	code, err := referral.NewCode(m.Code)
	if err != nil {
		return nil, err
	}
	status, err := referral.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}
	return referral.ReconstructReferral(
		id,
		referrerID,
		referredUserID,
		code,
		status,
		m.CoinsAwarded,
		utcPtr(m.CompletedAt),
		m.CreatedAt.UTC(),
	)
}

func referralToModel(r *referral.Referral) *ReferralModel {
	model := &ReferralModel{
		ID:           r.ID().String(),
		ReferrerID:   r.ReferrerID().String(),
		Code:         r.Code().String(),
		Status:       r.Status().String(),
		CoinsAwarded: r.CoinsAwarded(),
		CompletedAt:  r.CompletedAt(),
		CreatedAt:    r.CreatedAt(),
	}
	if !r.ReferredUserID().IsEmpty() {
		referred := r.ReferredUserID().String()
		model.ReferredUserID = &referred
	}
	return model
}

func voucherToDomain(m *VoucherModel) (*voucher.DiscountVoucher, error) {
	id, err := voucher.VoucherIDFromString(m.ID)
	if err != nil {
		return nil, err
	}
	userID, err := shared.UserIDFromString(m.UserID)
	if err != nil {
		return nil, err
	}
	kind, err := voucher.ParseKind(m.Kind)
	if err != nil {
		return nil, err
	}
	source, err := voucher.ParseSource(m.Source)
	if err != nil {
		return nil, err
	}
	return voucher.ReconstructVoucher(
		id,
		userID,
		m.Code,
		kind,
		m.Value,
		source,
		m.Used,
		utcPtr(m.UsedAt),
		m.ExpiresAt.UTC(),
		m.CreatedAt.UTC(),
	)
}

func voucherToModel(v *voucher.DiscountVoucher) *VoucherModel {
	return &VoucherModel{
		ID:        v.ID().String(),
		UserID:    v.UserID().String(),
		Code:      v.Code(),
		Kind:      string(v.Kind()),
		Value:     v.Value(),
		Source:    string(v.Source()),
		Used:      v.IsUsed(),
		UsedAt:    v.UsedAt(),
		ExpiresAt: v.ExpiresAt(),
		CreatedAt: v.CreatedAt(),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
