package listings

import (
	"time"

	"github.com/shopspring/decimal"
)

// Listing is a peer-to-peer sale/buy advertisement: a farmer posts what
// they sell or want, buyers call the listed phone number directly.
type Listing struct {
	ID              int64           `json:"saleBuyProductId"`
	CategoryID      int64           `json:"saleBuyCategoryId"`
	CreatedByUserID int64           `json:"createdByUserId"`
	FullName        string          `json:"fullName"`
	PlaceName       string          `json:"placeName"`
	Description     string          `json:"productDescription"`
	Price           decimal.Decimal `json:"price"`
	PhoneNumber     string          `json:"phoneNumber"`
	ImageURLs       *string         `json:"imageUrls,omitempty"` // JSON array of URLs
	IsActive        bool            `json:"isActive"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       *time.Time      `json:"updatedAt,omitempty"`
}

type Category struct {
	ID          int64      `json:"saleBuyCategoryId"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	ImageURL    *string    `json:"imageUrl,omitempty"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

type ListingInput struct {
	CategoryID  int64           `json:"saleBuyCategoryId"`
	FullName    string          `json:"fullName"`
	PlaceName   string          `json:"placeName"`
	Description string          `json:"productDescription"`
	Price       decimal.Decimal `json:"price"`
	PhoneNumber string          `json:"phoneNumber"`
	ImageURLs   *string         `json:"imageUrls"`
}

type CategoryInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
	IsActive    bool    `json:"isActive"`
}
