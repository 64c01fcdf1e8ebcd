package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/superkingsely080296-boop/Comms-API-master/entity"
)

type BusinessRepository struct{ DB *gorm.DB }

func NewBusinessRepository(db *gorm.DB) *BusinessRepository {
	return &BusinessRepository{DB: db}
}

// FindByBusinessID returns the registry row for a provider business id, nil
// when the business has not been registered.
func (r *BusinessRepository) FindByBusinessID(businessID string) (*entity.Business, error) {
	var b entity.Business
	err := r.DB.Where("business_id = ?", businessID).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Upsert creates or updates the row keyed by BusinessID.
func (r *BusinessRepository) Upsert(b *entity.Business) error {
	existing, err := r.FindByBusinessID(b.BusinessID)
	if err != nil {
		return err
	}
	if existing != nil {
		b.ID = existing.ID
		b.CreatedAt = existing.CreatedAt
	}
	return r.DB.Save(b).Error
}

func (r *BusinessRepository) All() ([]entity.Business, error) {
	var out []entity.Business
	err := r.DB.Order("business_id").Find(&out).Error
	return out, err
}
