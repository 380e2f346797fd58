package shared

import "math/rand/v2"

// RandomSource 隨機數來源（可注入，便於測試固定結果）
type RandomSource interface {
	// IntN 返回 [0, n) 的隨機整數
	IntN(n int) int
}

// globalRandom 使用 math/rand/v2 的全域來源（goroutine 安全）
type globalRandom struct{}

func (globalRandom) IntN(n int) int { return rand.IntN(n) }

// DefaultRandom 程序預設隨機來源
func DefaultRandom() RandomSource { return globalRandom{} }

const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// RandomCode 產生 n 個大寫 base36 字元
func RandomCode(src RandomSource, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = codeAlphabet[src.IntN(len(codeAlphabet))]
	}
	return string(b)
}
