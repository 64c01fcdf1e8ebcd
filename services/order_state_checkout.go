package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/superkingsely080296-boop/Comms-API-master/entity"
)

// proceedToCheckout walks the checkout prerequisites in order: delivery
// method, delivery area, address, contact phone, notes, then the summary.
// It is re-entered after every collected piece, so each step only fires once.
func (s *OrderStateService) proceedToCheckout(ctx context.Context, sess *entity.OrderSession) ([]Prompt, error) {
	if sess.Cart.Empty() {
		sess.CurrentState = entity.StateItemSelection
		return []Prompt{MainMenuPrompt{Lead: "Your cart is empty. Add some items before checking out."}}, nil
	}

	if sess.DeliveryMethod == "" {
		loc, err := s.catalog.Location(ctx, sess.BusinessID, sess.LocationID)
		if err != nil {
			return nil, err
		}
		if !loc.PickupAvailable {
			sess.DeliveryMethod = entity.MethodDelivery
			return s.showDeliverySelection(ctx, sess)
		}
		sess.CurrentState = entity.StateDeliveryMethod
		return []Prompt{DeliveryMethodPrompt{}}, nil
	}

	// An address form submission can supply address and phone in one go;
	// the charge step is skipped in that case.
	flowComplete := sess.DeliveryMethod == entity.MethodDelivery &&
		sess.DeliveryAddress != "" && sess.DeliveryContactPhone != ""

	if sess.DeliveryMethod == entity.MethodDelivery && !flowComplete {
		if sess.DeliveryChargeID == "" {
			return s.showDeliverySelection(ctx, sess)
		}
		if sess.DeliveryAddress == "" {
			sess.CurrentState = entity.StateDeliveryAddress
			saved, _ := s.profile.SavedAddress(ctx, sess.BusinessID, sess.PhoneNumber)
			return []Prompt{AddressPrompt{Saved: saved}}, nil
		}
		if sess.DeliveryContactPhone == "" {
			if saved, err := s.profile.SavedContactPhone(ctx, sess.BusinessID, sess.PhoneNumber); err == nil && saved != "" {
				sess.DeliveryContactPhone = saved
			} else {
				sess.CurrentState = entity.StateDeliveryContactPhone
				return []Prompt{ContactPhonePrompt{}}, nil
			}
		}
	}

	if sess.Notes == "" && sess.CurrentState != entity.StateCollectNotes {
		sess.CurrentState = entity.StateCollectNotes
		return []Prompt{NotesPrompt{}}, nil
	}

	return s.showSummary(ctx, sess)
}

// quote re-validates charges against the catalog and prices the session.
// The computed discount amount is written back so the snapshot matches what
// the customer saw.
func (s *OrderStateService) quote(ctx context.Context, sess *entity.OrderSession) (Quote, error) {
	loc, err := s.catalog.Location(ctx, sess.BusinessID, sess.LocationID)
	if err != nil {
		return Quote{}, errors.Wrap(err, "load location")
	}
	base, err := s.catalog.BaseCharges(ctx, sess.BusinessID, sess.LocationID)
	if err != nil {
		return Quote{}, errors.Wrap(err, "load charges")
	}

	var delivery *Charge
	if sess.DeliveryMethod == entity.MethodDelivery && sess.DeliveryChargeID != "" {
		c, err := s.catalog.Charge(ctx, sess.BusinessID, sess.LocationID, sess.DeliveryChargeID)
		if err == nil && c.Active && !c.Expired {
			delivery = &c
		}
	}

	q := s.pricing.Compute(PricingInput{
		Cart:           sess.Cart,
		TaxExclusive:   sess.TaxExclusive,
		TaxRate:        loc.TaxRate,
		DeliveryCharge: delivery,
		BaseCharges:    base,
		PackCount:      len(s.cart.PackIDs(&sess.Cart)),
		DiscountType:   sess.DiscountType,
		DiscountValue:  sess.DiscountValue,
	})
	sess.DiscountAmount = q.DiscountAmount
	return q, nil
}

func (s *OrderStateService) showSummary(ctx context.Context, sess *entity.OrderSession) ([]Prompt, error) {
	if sess.Cart.Empty() {
		sess.CurrentState = entity.StateItemSelection
		return []Prompt{MainMenuPrompt{Lead: "Your cart is empty. Add some items before viewing the summary."}}, nil
	}
	q, err := s.quote(ctx, sess)
	if err != nil {
		return nil, err
	}
	sess.CurrentState = entity.StateOrderConfirmation
	return []Prompt{SummaryPrompt{Quote: q}}, nil
}

func (s *OrderStateService) handleOrderConfirmation(ctx context.Context, sess *entity.OrderSession, cmd Command) ([]Prompt, error) {
	switch cmd.Kind {
	case CmdConfirmOrder:
		return s.createOrder(ctx, sess)
	case CmdCancelOrder:
		return s.askCancelConfirmation(sess), nil
	case CmdEditOrder:
		sess.CurrentState = entity.StateEditOrder
		return []Prompt{EditMenuPrompt{}}, nil
	case CmdApplyDiscount:
		return s.askDiscountCode(sess)
	case CmdAddMore, CmdAddItem:
		sess.CurrentState = entity.StateItemSelection
		return []Prompt{MainMenuPrompt{}}, nil
	}
	prompts, err := s.showSummary(ctx, sess)
	if err != nil {
		return nil, err
	}
	return append(prompts, TextPrompt{Body: "Please select one of the options above:\n\nConfirm order - to proceed\nEdit order - to modify\nCancel - to cancel"}), nil
}

// createOrder prices the session one final time, snapshots it, submits to
// the provider, and ends the conversation. The session is deleted whether
// submission succeeds or fails; a failed order should not trap the customer.
func (s *OrderStateService) createOrder(ctx context.Context, sess *entity.OrderSession) ([]Prompt, error) {
	q, err := s.quote(ctx, sess)
	if err != nil {
		return nil, err
	}

	address := "PICKUP"
	if sess.DeliveryMethod == entity.MethodDelivery {
		address = sess.DeliveryAddress
		if address == "" {
			address = "Address Not Provided"
		}
	}

	order := &entity.Order{
		Reference:            uuid.NewString(),
		Status:               "PENDING_PAYMENT",
		BusinessID:           sess.BusinessID,
		LocationID:           sess.LocationID,
		PhoneNumber:          sess.PhoneNumber,
		CustomerName:         sess.CustomerName,
		DeliveryMethod:       sess.DeliveryMethod,
		DeliveryAddress:      address,
		DeliveryContactPhone: sess.DeliveryContactPhone,
		Notes:                sess.Notes,
		Subtotal:             q.Subtotal,
		Tax:                  q.Tax,
		Charges:              q.ChargesTotal,
		DiscountCode:         sess.DiscountCode,
		DiscountAmount:       q.DiscountAmount,
		Total:                q.Total,
	}
	for _, it := range sess.Cart.Items {
		order.OrderItems = append(order.OrderItems, entity.OrderItem{
			ItemID:     it.ItemID,
			Name:       it.Name,
			UnitPrice:  it.Price,
			Quantity:   it.Quantity,
			Total:      it.LineTotal(),
			GroupingID: it.GroupingID,
			PackID:     it.PackID,
			IsTopping:  it.IsTopping,
			IsChild:    it.IsChild(),
		})
	}
	if err := s.orders.Create(order); err != nil {
		return nil, errors.Wrap(err, "store order")
	}

	account, err := s.catalog.SubmitOrder(ctx, OrderSubmission{
		Reference:            order.Reference,
		BusinessID:           sess.BusinessID,
		LocationID:           sess.LocationID,
		PhoneNumber:          sess.PhoneNumber,
		CustomerName:         sess.CustomerName,
		DeliveryMethod:       sess.DeliveryMethod,
		DeliveryAddress:      address,
		DeliveryContactPhone: sess.DeliveryContactPhone,
		Notes:                sess.Notes,
		Items:                sess.Cart.Items,
		Subtotal:             q.Subtotal,
		Tax:                  q.Tax,
		Charges:              q.ChargesTotal,
		DiscountCode:         sess.DiscountCode,
		DiscountAmount:       q.DiscountAmount,
		Total:                q.Total,
	})
	sess.Deleted = true
	if err != nil {
		s.log.WithError(err).WithField("reference", order.Reference).Error("order submission failed")
		return []Prompt{ErrorPrompt{Body: "Order failed.\n\nPlease try again or contact support."}}, nil
	}

	if s.feed != nil {
		s.feed.BroadcastOrder(order)
	}

	body := fmt.Sprintf(
		"*Order received!*\n\nTotal: %s\n\nPlease make a transfer using the account details below:\nBank: %s\nAccount number: %s\nAccount name: %s\n\nAfter payment you'll be updated on your order status. You can start a new order anytime.",
		money(q.Total), account.BankName, account.AccountNumber, account.AccountName)
	return []Prompt{TextPrompt{Body: body}}, nil
}
