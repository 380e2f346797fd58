package coins

// EntryKind 帳本分錄類型
type EntryKind string

const (
	KindEarned         EntryKind = "earned"
	KindSpent          EntryKind = "spent"
	KindReferralBonus  EntryKind = "referral_bonus"
	KindPurchaseReward EntryKind = "purchase_reward"
	KindGameReward     EntryKind = "game_reward"
)

// ParseEntryKind 解析分錄類型
func ParseEntryKind(s string) (EntryKind, error) {
	kind := EntryKind(s)
	if !kind.IsValid() {
		return "", ErrInvalidEntryKind.WithContext("kind", s)
	}
	return kind, nil
}

// IsValid 是否為已知類型
func (k EntryKind) IsValid() bool {
	switch k {
	case KindEarned, KindSpent, KindReferralBonus, KindPurchaseReward, KindGameReward:
		return true
	}
	return false
}

// String 實現 fmt.Stringer
func (k EntryKind) String() string {
	return string(k)
}
