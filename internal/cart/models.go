package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Line is one (user, product) selection. The embedded product summary is
// the live catalog row, so the displayed price can drift between adding
// to cart and placing the order.
type Line struct {
	ID        int64           `json:"cartId"`
	UserID    int64           `json:"userId"`
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt *time.Time      `json:"updatedAt,omitempty"`
	Product   *ProductSummary `json:"product,omitempty"`
}

type ProductSummary struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"imageUrl"`
	Category *string         `json:"category,omitempty"`
}
