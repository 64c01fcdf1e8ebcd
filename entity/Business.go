package entity

import "gorm.io/gorm"

// Business is the registry row behind each webhook phone number id. It maps
// the provider's business id to the restaurant profile and, when the product
// catalog has been synced with the provider, the catalog id used for product
// catalog messages.
type Business struct {
	gorm.Model
	BusinessID   string `gorm:"size:50;uniqueIndex" json:"businessId"`
	RestaurantID string `gorm:"size:50;index" json:"restaurantId"`
	BusinessName string `json:"businessName"`
	BotName      string `gorm:"size:60" json:"botName"`
	CatalogID    string `gorm:"size:50" json:"catalogId"`
	// SourceID tags orders submitted upstream with their sales channel.
	SourceID string `gorm:"size:50" json:"sourceId"`
	// SettlementAccountID references the payout account used for transfers.
	SettlementAccountID string `gorm:"size:50" json:"settlementAccountId"`
}
