package promotion

import (
	"fmt"

	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
)

// ===========================
// 轉盤
// ===========================

// OutcomeType 轉盤結果類型
type OutcomeType string

const (
	OutcomeDiscount   OutcomeType = "discount"
	OutcomeVirtualHug OutcomeType = "virtual_hug"
	OutcomeTryAgain   OutcomeType = "try_again"
	OutcomeNothing    OutcomeType = "nothing"
)

// Sector 轉盤扇區
//
// Value 只對 discount 有意義（百分比）。
type Sector struct {
	Type    OutcomeType
	Label   string
	Value   int
	Message string
}

// IsDiscount 是否為折扣扇區
func (s Sector) IsDiscount() bool { return s.Type == OutcomeDiscount }

// DefaultDiscounts 預設折扣百分比
var DefaultDiscounts = []int{5, 10, 15, 20, 25, 30, 50}

// Wheel 轉盤（扇區不可變，均勻隨機）
type Wheel struct {
	sectors []Sector
	random  shared.RandomSource
}

// NewWheel 以指定扇區建立轉盤
func NewWheel(sectors []Sector, random shared.RandomSource) (*Wheel, error) {
	if len(sectors) == 0 {
		return nil, ErrInvalidWheel
	}
	for _, s := range sectors {
		if s.IsDiscount() && (s.Value <= 0 || s.Value > 100) {
			return nil, ErrInvalidWheel.WithContext("label", s.Label, "value", s.Value)
		}
	}
	if random == nil {
		random = shared.DefaultRandom()
	}
	copied := make([]Sector, len(sectors))
	copy(copied, sectors)
	return &Wheel{sectors: copied, random: random}, nil
}

// DefaultSectors 預設扇區：各折扣加上三種特殊結果
func DefaultSectors() []Sector {
	sectors := make([]Sector, 0, len(DefaultDiscounts)+3)
	for _, d := range DefaultDiscounts {
		sectors = append(sectors, Sector{
			Type:    OutcomeDiscount,
			Label:   fmt.Sprintf("%d%% off", d),
			Value:   d,
			Message: fmt.Sprintf("You won %d%% off!", d),
		})
	}
	return append(sectors,
		Sector{Type: OutcomeVirtualHug, Label: "Virtual hug", Message: "A warm virtual hug! You made our day!"},
		Sector{Type: OutcomeTryAgain, Label: "Try again", Message: "Not this time. Spin again!"},
		Sector{Type: OutcomeNothing, Label: "Nothing", Message: "No prize this spin. Better luck next time."},
	)
}

// Sectors 返回扇區副本
func (w *Wheel) Sectors() []Sector {
	copied := make([]Sector, len(w.sectors))
	copy(copied, w.sectors)
	return copied
}

// Spin 均勻隨機選出一個扇區
func (w *Wheel) Spin() Sector {
	return w.sectors[w.random.IntN(len(w.sectors))]
}
