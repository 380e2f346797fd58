package voucher

// Kind 折扣形式
type Kind string

const (
	// KindPercent 百分比折扣（轉盤）
	KindPercent Kind = "percent"
	// KindAmount 固定金額折抵（金幣兌換）
	KindAmount Kind = "amount"
)

// ParseKind 解析折扣形式
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindPercent, KindAmount:
		return Kind(s), nil
	}
	return "", ErrInvalidKind.WithContext("kind", s)
}

// Source 折價券來源
type Source string

const (
	SourceWheel          Source = "wheel"
	SourceCoinRedemption Source = "coin_redemption"
)

// ParseSource 解析來源
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceWheel, SourceCoinRedemption:
		return Source(s), nil
	}
	return "", ErrInvalidSource.WithContext("source", s)
}
