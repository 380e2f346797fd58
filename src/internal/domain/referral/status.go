package referral

// Status 推薦記錄狀態
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusExpired   Status = "expired"
)

// ParseStatus 解析狀態字串
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	switch status {
	case StatusPending, StatusCompleted, StatusExpired:
		return status, nil
	}
	return "", ErrInvalidStatus.WithContext("status", s)
}

// IsTerminal completed 與 expired 為終態
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusExpired
}

// String 實現 fmt.Stringer
func (s Status) String() string { return string(s) }
