package entity

import (
	"gorm.io/gorm"
)

// InboundMessage records every received provider message. The unique
// provider message id is what lets webhook retries be dropped.
type InboundMessage struct {
	gorm.Model
	ProviderMessageID string `gorm:"size:100;uniqueIndex" json:"providerMessageId"`
	BusinessID        string `gorm:"size:50;index" json:"businessId"`
	PhoneNumber       string `gorm:"size:20;index" json:"phoneNumber"`
	Kind              string `gorm:"size:20" json:"kind"`
	Body              string `json:"body"`
}
