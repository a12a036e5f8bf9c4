package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID                  int64           `json:"productId"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	Price               decimal.Decimal `json:"price"`
	ImageURL            string          `json:"imageUrl"`
	AdditionalImageURLs *string         `json:"additionalImageUrls,omitempty"` // JSON array of URLs
	Category            *string         `json:"category,omitempty"`
	StockQuantity       int             `json:"stockQuantity"`
	IsActive            bool            `json:"isActive"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           *time.Time      `json:"updatedAt,omitempty"`
}

type Category struct {
	ID          int64      `json:"categoryId"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	ImageURL    *string    `json:"imageUrl,omitempty"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

type ProductInput struct {
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	Price               decimal.Decimal `json:"price"`
	ImageURL            string          `json:"imageUrl"`
	AdditionalImageURLs *string         `json:"additionalImageUrls"`
	Category            *string         `json:"category"`
	StockQuantity       int             `json:"stockQuantity"`
	IsActive            bool            `json:"isActive"`
}

type CategoryInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
	IsActive    bool    `json:"isActive"`
}
