package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/superkingsely080296-boop/Comms-API-master/entity"
)

type OrderRepository struct{ DB *gorm.DB }

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

func (r *OrderRepository) Create(o *entity.Order) error {
	return r.DB.Create(o).Error
}

func (r *OrderRepository) FindByID(id uint) (*entity.Order, error) {
	var o entity.Order
	err := r.DB.Preload("OrderItems").First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// List returns orders newest first, optionally filtered by business.
func (r *OrderRepository) List(businessID string, limit int) ([]entity.Order, error) {
	q := r.DB.Order("created_at desc")
	if businessID != "" {
		q = q.Where("business_id = ?", businessID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []entity.Order
	err := q.Find(&out).Error
	return out, err
}
