package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/superkingsely080296-boop/Comms-API-master/entity"
)

type SessionRepository struct{ DB *gorm.DB }

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

// blobColumns are the serializer:json session columns. A row whose blob no
// longer parses must not wedge the conversation, so Find falls back to
// loading the row without them.
var blobColumns = []string{"cart", "pending_parents", "pending_toppings_queue"}

// Find returns the session for a (business, phone) pair, nil when none.
// Rows with corrupt JSON blobs come back with those fields empty and are
// rewritten clean on the next save.
func (r *SessionRepository) Find(businessID, phone string) (*entity.OrderSession, error) {
	var s entity.OrderSession
	err := r.DB.Where("business_id = ? AND phone_number = ?", businessID, phone).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		s = entity.OrderSession{}
		err = r.DB.Omit(blobColumns...).
			Where("business_id = ? AND phone_number = ?", businessID, phone).First(&s).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if err := r.Save(&s); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

func (r *SessionRepository) Save(s *entity.OrderSession) error {
	return r.DB.Save(s).Error
}

func (r *SessionRepository) Delete(s *entity.OrderSession) error {
	if s.ID == 0 {
		return nil
	}
	return r.DB.Unscoped().Delete(s).Error
}

// IdleBefore returns sessions whose last interaction predates the cutoff.
func (r *SessionRepository) IdleBefore(cutoff time.Time) ([]entity.OrderSession, error) {
	var out []entity.OrderSession
	err := r.DB.Where("last_interaction < ?", cutoff).Find(&out).Error
	return out, err
}

// Cancelled returns sessions parked in the terminal cancelled state.
func (r *SessionRepository) Cancelled() ([]entity.OrderSession, error) {
	var out []entity.OrderSession
	err := r.DB.Where("current_state = ?", entity.StateCancelled).Find(&out).Error
	return out, err
}

// All lists every live session, newest interaction first.
func (r *SessionRepository) All() ([]entity.OrderSession, error) {
	var out []entity.OrderSession
	err := r.DB.Order("last_interaction desc").Find(&out).Error
	return out, err
}
