package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/superkingsely080296-boop/Comms-API-master/entity"
)

// OrderFlowService is the entry point for inbound events. It owns the
// per-conversation locking and the handle-render-persist cycle around the
// state engine.
type OrderFlowService struct {
	sessions *SessionService
	state    *OrderStateService
	ui       *OrderUIService
	validate *ValidationService
	timeout  time.Duration
	log      *logrus.Logger
}

func NewOrderFlowService(sessions *SessionService, state *OrderStateService, ui *OrderUIService, validate *ValidationService, timeout time.Duration, log *logrus.Logger) *OrderFlowService {
	return &OrderFlowService{
		sessions: sessions,
		state:    state,
		ui:       ui,
		validate: validate,
		timeout:  timeout,
		log:      log,
	}
}

// HandleEvent processes one inbound customer action end to end. Events for
// the same conversation are serialized; the whole event runs under one
// deadline so a stuck provider call cannot wedge the webhook worker.
func (f *OrderFlowService) HandleEvent(ctx context.Context, ev MessageEvent) error {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	unlock := f.sessions.Lock(ev.BusinessID, ev.PhoneNumber)
	defer unlock()

	sess, isNew, err := f.sessions.GetOrCreate(ev.BusinessID, ev.PhoneNumber, ev.CustomerName)
	if err != nil {
		return err
	}

	var prompts []Prompt
	switch {
	case ev.Kind == EventFlowSubmission:
		prompts, err = f.applyFlowSubmission(ctx, sess, ev.FlowData)
	case isNew:
		prompts = []Prompt{WelcomePrompt{Name: sess.CustomerName}}
	default:
		prompts, err = f.state.Handle(ctx, sess, ParseCommand(ev.Text))
	}
	if err != nil {
		f.log.WithError(err).WithFields(logrus.Fields{
			"business": ev.BusinessID,
			"phone":    ev.PhoneNumber,
			"state":    sess.CurrentState,
		}).Error("event handling failed")
		// The customer must not be left hanging on an internal failure.
		// The session is not persisted, so the retry replays from the
		// state before this event.
		if sendErr := f.ui.RenderFailure(ctx, sess); sendErr != nil {
			f.log.WithError(sendErr).Warn("failure notice delivery failed")
		}
		return err
	}

	if renderErr := f.ui.Render(ctx, sess, prompts); renderErr != nil {
		f.log.WithError(renderErr).Warn("prompt delivery failed")
	}
	return f.sessions.Persist(sess)
}

// applyFlowSubmission maps a completed provider address form onto the
// session and resumes checkout.
func (f *OrderFlowService) applyFlowSubmission(ctx context.Context, sess *entity.OrderSession, data map[string]string) ([]Prompt, error) {
	if addr := data["address"]; f.validate.IsValidAddress(addr) {
		sess.DeliveryAddress = addr
	}
	rawPhone := data["phone"]
	if rawPhone == "" {
		rawPhone = data["contact_phone"]
	}
	if phone, ok := f.validate.NormalizeContactPhone(rawPhone); ok {
		sess.DeliveryContactPhone = phone
	}
	if area := data["delivery_area"]; area != "" {
		sess.DeliveryChargeID = area
	}
	sess.DeliveryMethod = entity.MethodDelivery
	if sess.CurrentState == entity.StateFlowInProgress {
		sess.CurrentState = entity.StateDeliveryMethod
	}
	return f.state.proceedToCheckout(ctx, sess)
}
