package promotion

import (
	"fmt"

	"github.com/jackyeh168/cartquest/src/internal/domain/coins"
)

// DefaultLeaderboardSize 排行榜人數
const DefaultLeaderboardSize = 10

// LeaderboardEntry 排行榜一列
type LeaderboardEntry struct {
	Rank    int
	UserID  string
	Balance int
}

// LeaderboardUseCase 依派生餘額排序的排行榜
type LeaderboardUseCase struct {
	ledgerRepo coins.LedgerRepository
}

// NewLeaderboardUseCase 創建 Use Case 實例
func NewLeaderboardUseCase(repo coins.LedgerRepository) *LeaderboardUseCase {
	return &LeaderboardUseCase{ledgerRepo: repo}
}

// Execute limit 限制在 1..DefaultLeaderboardSize，超出範圍時使用 DefaultLeaderboardSize
func (uc *LeaderboardUseCase) Execute(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > DefaultLeaderboardSize {
		limit = DefaultLeaderboardSize
	}

	standings, err := uc.ledgerRepo.TopBalances(nil, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(standings))
	for i, s := range standings {
		entries = append(entries, LeaderboardEntry{
			Rank:    i + 1,
			UserID:  s.UserID.String(),
			Balance: s.Balance,
		})
	}
	return entries, nil
}
