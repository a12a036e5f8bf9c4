package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID              int64           `json:"orderId"`
	UserID          int64           `json:"userId"`
	OrderNumber     string          `json:"orderNumber"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          Status          `json:"status"`
	PaymentMethod   string          `json:"paymentMethod"` // UPI, COD
	DeliveryAddress *string         `json:"deliveryAddress,omitempty"`
	DeliveryVillage *string         `json:"deliveryVillage,omitempty"`
	OrderDate       time.Time       `json:"orderDate"`
	ShippedDate     *time.Time      `json:"shippedDate,omitempty"`
	DeliveredDate   *time.Time      `json:"deliveredDate,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       *time.Time      `json:"updatedAt,omitempty"`
	Items           []Item          `json:"orderItems,omitempty"`
}

// Item is an immutable snapshot of the product at purchase time. Catalog
// edits after the order never change it.
type Item struct {
	ID              int64           `json:"orderItemId"`
	OrderID         int64           `json:"orderId"`
	ProductID       int64           `json:"productId"`
	ProductName     string          `json:"productName"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	Quantity        int             `json:"quantity"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	ProductImageURL string          `json:"productImageUrl"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type ItemInput struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type PlaceInput struct {
	PaymentMethod   string      `json:"paymentMethod"`
	DeliveryAddress *string     `json:"deliveryAddress"`
	DeliveryVillage *string     `json:"deliveryVillage"`
	Items           []ItemInput `json:"orderItems"`
}

type Stats struct {
	OrderCount   int             `json:"orderCount"`
	PendingCount int             `json:"pendingCount"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	Recent       []Order         `json:"recentOrders"`
}
