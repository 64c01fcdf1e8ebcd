package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/superkingsely080296-boop/Comms-API-master/entity"
)

type MessageRepository struct{ DB *gorm.DB }

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

// StoreInbound records a message and reports whether it was seen before.
// Webhook retries carry the same provider message id, so a unique-constraint
// violation means the event was already handled.
func (r *MessageRepository) StoreInbound(m *entity.InboundMessage) (duplicate bool, err error) {
	err = r.DB.Create(m).Error
	if err == nil {
		return false, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true, nil
	}
	var existing entity.InboundMessage
	lookupErr := r.DB.Where("provider_message_id = ?", m.ProviderMessageID).First(&existing).Error
	if lookupErr == nil {
		return true, nil
	}
	return false, err
}
