package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderItem struct {
	gorm.Model
	OrderID uint  `json:"orderId"`
	Order   Order `json:"-"`

	ItemID     string          `gorm:"size:50" json:"itemId"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2)" json:"unitPrice"`
	Quantity   int             `json:"quantity"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2)" json:"total"`
	GroupingID string          `gorm:"size:50" json:"groupingId"`
	PackID     string          `gorm:"size:20" json:"packId"`
	IsTopping  bool            `json:"isTopping"`
	IsChild    bool            `json:"isChild"`
}
