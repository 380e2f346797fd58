package coins

// 分頁預設值
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page 分頁請求值對象（1-based）
type Page struct {
	number int
	size   int
}

// NewPage 建立分頁請求
//
// 0 視為未指定，套用預設值；負數或超過 MaxPageSize 返回 ErrInvalidPage。
func NewPage(number, size int) (Page, error) {
	if number == 0 {
		number = DefaultPage
	}
	if size == 0 {
		size = DefaultPageSize
	}
	if number < 0 || size < 0 || size > MaxPageSize {
		return Page{}, ErrInvalidPage.WithContext("page", number, "page_size", size)
	}
	return Page{number: number, size: size}, nil
}

// Number 頁碼
func (p Page) Number() int { return p.number }

// Size 每頁筆數
func (p Page) Size() int { return p.size }

// Offset 資料庫查詢偏移量
func (p Page) Offset() int { return (p.number - 1) * p.size }

// TotalPages 依總筆數計算總頁數
func (p Page) TotalPages(total int64) int {
	if total <= 0 || p.size == 0 {
		return 0
	}
	return int((total + int64(p.size) - 1) / int64(p.size))
}
