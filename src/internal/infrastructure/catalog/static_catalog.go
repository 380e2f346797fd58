package catalog

import (
	"sort"

	"github.com/jackyeh168/cartquest/src/internal/domain/promotion"
	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StaticCatalog 記憶體內商品目錄（商品資料由外部商店系統維護，這裡只提供猜價格所需欄位）
type StaticCatalog struct {
	products []promotion.Product
	byID     map[string]promotion.Product
	random   shared.RandomSource
}

var _ promotion.ProductCatalog = (*StaticCatalog)(nil)

// NewStaticCatalog 以商品清單建立目錄（依 ID 排序，隨機結果只取決於 random）
func NewStaticCatalog(products []promotion.Product, random shared.RandomSource) *StaticCatalog {
	if random == nil {
		random = shared.DefaultRandom()
	}
	sorted := make([]promotion.Product, len(products))
	copy(sorted, products)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	byID := make(map[string]promotion.Product, len(sorted))
	for _, p := range sorted {
		byID[p.ID] = p
	}
	return &StaticCatalog{products: sorted, byID: byID, random: random}
}

// Random 隨機取一個商品
func (c *StaticCatalog) Random() (promotion.Product, error) {
	if len(c.products) == 0 {
		return promotion.Product{}, promotion.ErrNoProducts
	}
	return c.products[c.random.IntN(len(c.products))], nil
}

// FindByID 依 ID 查找
func (c *StaticCatalog) FindByID(id string) (promotion.Product, error) {
	p, ok := c.byID[id]
	if !ok {
		return promotion.Product{}, promotion.ErrProductNotFound.WithContext("product_id", id)
	}
	return p, nil
}

// DefaultProducts 預設種子商品
func DefaultProducts() []promotion.Product {
	return []promotion.Product{
		{
			ID:          "prod-ceramic-mug",
			Name:        "Hand-glazed Ceramic Mug",
			Description: "350ml stoneware mug with a speckled glaze.",
			Images:      []string{"/images/products/ceramic-mug.jpg"},
			Price:       decimal.RequireFromString("18.50"),
		},
		{
			ID:          "prod-linen-tote",
			Name:        "Linen Tote Bag",
			Description: "Undyed linen tote with inner pocket.",
			Images:      []string{"/images/products/linen-tote.jpg"},
			Price:       decimal.RequireFromString("24.00"),
		},
		{
			ID:          "prod-desk-lamp",
			Name:        "Brass Desk Lamp",
			Description: "Adjustable arm lamp with warm LED bulb.",
			Images:      []string{"/images/products/desk-lamp.jpg"},
			Price:       decimal.RequireFromString("89.90"),
		},
		{
			ID:          "prod-notebook-set",
			Name:        "Dot Grid Notebook Set",
			Description: "Three A5 notebooks, 120 pages each.",
			Images:      []string{"/images/products/notebook-set.jpg"},
			Price:       decimal.RequireFromString("15.75"),
		},
		{
			ID:          "prod-wool-throw",
			Name:        "Merino Wool Throw",
			Description: "130 x 170 cm throw in oatmeal.",
			Images:      []string{"/images/products/wool-throw.jpg"},
			Price:       decimal.RequireFromString("129.00"),
		},
	}
}
