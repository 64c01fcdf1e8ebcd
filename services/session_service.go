package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/superkingsely080296-boop/Comms-API-master/entity"
	"github.com/superkingsely080296-boop/Comms-API-master/repository"
)

// SessionService owns session rows and their concurrency discipline. All
// mutation of a (business, phone) session happens under its key lock, so
// rapid duplicate taps are serialized instead of racing.
type SessionService struct {
	repo *repository.SessionRepository
	log  *logrus.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	idleTTL       time.Duration
	sweepInterval time.Duration
}

func NewSessionService(repo *repository.SessionRepository, log *logrus.Logger, idleTTL, sweepInterval time.Duration) *SessionService {
	return &SessionService{
		repo:          repo,
		log:           log,
		locks:         map[string]*sync.Mutex{},
		idleTTL:       idleTTL,
		sweepInterval: sweepInterval,
	}
}

func sessionKey(businessID, phone string) string {
	return businessID + "|" + phone
}

// Lock acquires the per-conversation mutex and returns its unlock func.
func (s *SessionService) Lock(businessID, phone string) func() {
	key := sessionKey(businessID, phone)
	s.mu.Lock()
	m, ok := s.locks[key]
	if !ok {
		m = &sync.Mutex{}
		s.locks[key] = m
	}
	s.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// GetOrCreate loads the conversation's session, creating a fresh one in the
// location-selection state when none exists. The second return reports
// whether the session is new.
func (s *SessionService) GetOrCreate(businessID, phone, name string) (*entity.OrderSession, bool, error) {
	sess, err := s.repo.Find(businessID, phone)
	if err != nil {
		return nil, false, err
	}
	if sess != nil {
		if name != "" && sess.CustomerName == "" {
			sess.CustomerName = name
		}
		return sess, false, nil
	}
	sess = &entity.OrderSession{
		BusinessID:      businessID,
		PhoneNumber:     phone,
		CustomerName:    name,
		CurrentState:    entity.StateLocationSelection,
		CurrentPackID:   entity.DefaultPackID,
		LastInteraction: time.Now(),
	}
	if err := s.repo.Save(sess); err != nil {
		return nil, false, err
	}
	return sess, true, nil
}

// Persist saves the session, or deletes its row when a handler flagged the
// conversation finished.
func (s *SessionService) Persist(sess *entity.OrderSession) error {
	if sess.Deleted {
		return s.repo.Delete(sess)
	}
	sess.LastInteraction = time.Now()
	return s.repo.Save(sess)
}

func (s *SessionService) Delete(sess *entity.OrderSession) error {
	return s.repo.Delete(sess)
}

func (s *SessionService) All() ([]entity.OrderSession, error) {
	return s.repo.All()
}

// StartSweeper runs the idle and cancelled sweeps until the context ends.
func (s *SessionService) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *SessionService) sweep() {
	cutoff := time.Now().Add(-s.idleTTL)
	idle, err := s.repo.IdleBefore(cutoff)
	if err != nil {
		s.log.WithError(err).Error("session sweep: idle query failed")
	}
	cancelled, err := s.repo.Cancelled()
	if err != nil {
		s.log.WithError(err).Error("session sweep: cancelled query failed")
	}
	for _, sess := range append(idle, cancelled...) {
		s.sweepOne(sess.BusinessID, sess.PhoneNumber, cutoff)
	}
}

// sweepOne deletes a candidate session. The query snapshot may be stale by
// the time the conversation lock is held, so eligibility is re-checked on a
// fresh read before the row goes.
func (s *SessionService) sweepOne(businessID, phone string, cutoff time.Time) {
	unlock := s.Lock(businessID, phone)
	defer unlock()

	sess, err := s.repo.Find(businessID, phone)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"business": businessID,
			"phone":    phone,
		}).Error("session sweep: reload failed")
		return
	}
	if sess == nil {
		return
	}
	if sess.CurrentState != entity.StateCancelled && !sess.LastInteraction.Before(cutoff) {
		return
	}
	if err := s.repo.Delete(sess); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"business": businessID,
			"phone":    phone,
		}).Error("session sweep: delete failed")
	}
}
