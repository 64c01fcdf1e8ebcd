package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is the immutable snapshot written when a session is confirmed and
// submitted. Amounts are copied out of the pricing quote, never recomputed.
type Order struct {
	gorm.Model
	Reference   string `gorm:"size:60;uniqueIndex" json:"reference"`
	Status      string `gorm:"size:30;index" json:"status"`
	BusinessID  string `gorm:"size:50;index" json:"businessId"`
	LocationID  string `gorm:"size:50" json:"locationId"`
	PhoneNumber string `gorm:"size:20;index" json:"phoneNumber"`

	CustomerName         string `json:"customerName"`
	DeliveryMethod       string `gorm:"size:20" json:"deliveryMethod"`
	DeliveryAddress      string `json:"deliveryAddress"`
	DeliveryContactPhone string `gorm:"size:20" json:"deliveryContactPhone"`
	Notes                string `json:"notes"`

	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2)" json:"subtotal"`
	Tax            decimal.Decimal `gorm:"type:decimal(12,2)" json:"tax"`
	Charges        decimal.Decimal `gorm:"type:decimal(12,2)" json:"charges"`
	DiscountCode   string          `gorm:"size:50" json:"discountCode"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2)" json:"discountAmount"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2)" json:"total"`

	OrderItems []OrderItem `json:"items"`
}
