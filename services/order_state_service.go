package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/superkingsely080296-boop/Comms-API-master/entity"
	"github.com/superkingsely080296-boop/Comms-API-master/repository"
)

// OrderBroadcaster receives every order accepted through the bot, for the
// live admin feed.
type OrderBroadcaster interface {
	BroadcastOrder(o *entity.Order)
}

// OrderStateService is the conversation engine. Each handler inspects the
// parsed command, mutates the session, and returns the prompts to render.
// Handlers never send messages themselves.
type OrderStateService struct {
	catalog  CatalogProvider
	profile  ProfileProvider
	cart     *CartManager
	pricing  *PricingService
	validate *ValidationService
	orders   *repository.OrderRepository
	feed     OrderBroadcaster
	log      *logrus.Logger
}

func NewOrderStateService(
	catalog CatalogProvider,
	profile ProfileProvider,
	cart *CartManager,
	pricing *PricingService,
	validate *ValidationService,
	orders *repository.OrderRepository,
	feed OrderBroadcaster,
	log *logrus.Logger,
) *OrderStateService {
	return &OrderStateService{
		catalog:  catalog,
		profile:  profile,
		cart:     cart,
		pricing:  pricing,
		validate: validate,
		orders:   orders,
		feed:     feed,
		log:      log,
	}
}

// discountInterceptExcluded lists the states where free text is data, not
// intent, so "I have a discount code" must not hijack the input.
var discountInterceptExcluded = map[entity.State]bool{
	entity.StateDeliveryAddress:        true,
	entity.StateDeliveryContactPhone:   true,
	entity.StateSearch:                 true,
	entity.StateWaitingForDiscountCode: true,
}

// Handle dispatches one parsed command against the session's current state.
func (s *OrderStateService) Handle(ctx context.Context, sess *entity.OrderSession, cmd Command) ([]Prompt, error) {
	if cmd.Kind == CmdGetHelp {
		return []Prompt{HelpPrompt{}}, nil
	}
	if s.validate.IsDiscountRequest(cmd.Raw) && !discountInterceptExcluded[sess.CurrentState] {
		return s.askDiscountCode(sess)
	}

	switch sess.CurrentState {
	case entity.StateLocationSelection:
		return s.handleLocationSelection(ctx, sess, cmd)
	case entity.StateConfirmClosedRestaurant:
		return s.handleClosedRestaurant(ctx, sess, cmd)
	case entity.StateDeliveryMethod:
		return s.handleDeliveryMethod(ctx, sess, cmd)
	case entity.StateConfirmClosedDelivery:
		return s.handleClosedDelivery(ctx, sess, cmd)
	case entity.StateDeliveryLocationSelection:
		return s.handleDeliveryLocation(ctx, sess, cmd)
	case entity.StateDeliverySwitchConfirmation:
		return s.handleDeliverySwitch(ctx, sess, cmd)
	case entity.StateDeliveryAddress:
		return s.handleDeliveryAddress(ctx, sess, cmd)
	case entity.StateAddressSavePrompt:
		return s.handleAddressSave(ctx, sess, cmd)
	case entity.StateDeliveryContactPhone:
		return s.handleContactPhone(ctx, sess, cmd)
	case entity.StateItemSelection, entity.StateItemSelectionFromEdit:
		return s.handleItemSelection(ctx, sess, cmd)
	case entity.StateSearch:
		return s.handleSearch(ctx, sess, cmd)
	case entity.StateItemOptions:
		return s.handleItemOptions(ctx, sess, cmd)
	case entity.StateItemToppings:
		return s.handleItemToppings(ctx, sess, cmd)
	case entity.StateCollectNotes:
		return s.handleNotes(ctx, sess, cmd)
	case entity.StateOrderConfirmation:
		return s.handleOrderConfirmation(ctx, sess, cmd)
	case entity.StateEditOrder:
		return s.handleEditOrder(ctx, sess, cmd)
	case entity.StatePackSelectionAdd:
		return s.handlePackSelection(ctx, sess, cmd, false)
	case entity.StatePackSelectionRemove:
		return s.handlePackSelection(ctx, sess, cmd, true)
	case entity.StateRemoveItemPrompt:
		return s.handleRemoveItem(ctx, sess, cmd)
	case entity.StateWaitingForDiscountCode:
		return s.handleDiscountEntry(ctx, sess, cmd)
	case entity.StateCancelConfirmation:
		return s.handleCancelConfirmation(ctx, sess, cmd)
	case entity.StateCancelled:
		// A swept-but-not-yet-deleted session. Start over.
		sess.CurrentState = entity.StateLocationSelection
		return []Prompt{WelcomePrompt{Name: sess.CustomerName}}, nil
	case entity.StateFlowInProgress:
		return []Prompt{TextPrompt{Body: "Please complete the address form above to continue with your order."}}, nil
	default:
		s.log.WithField("state", sess.CurrentState).Warn("unknown session state, resetting")
		sess.CurrentState = entity.StateLocationSelection
		return []Prompt{WelcomePrompt{Name: sess.CustomerName}}, nil
	}
}

func (s *OrderStateService) handleLocationSelection(ctx context.Context, sess *entity.OrderSession, cmd Command) ([]Prompt, error) {
	locations, err := s.catalog.Locations(ctx, sess.BusinessID)
	if err != nil {
		return nil, err
	}

	if cmd.Kind == CmdStartOrder || cmd.Raw == "" {
		if len(locations) == 1 {
			return s.selectLocation(ctx, sess, locations[0])
		}
		return []Prompt{LocationListPrompt{Locations: locations}}, nil
	}

	for _, loc := range locations {
		if loc.ID == cmd.Raw {
			return s.selectLocation(ctx, sess, loc)
		}
	}
	return []Prompt{
		ErrorPrompt{Body: "That location isn't available. Please choose from the list below."},
		LocationListPrompt{Locations: locations},
	}, nil
}

func (s *OrderStateService) selectLocation(ctx context.Context, sess *entity.OrderSession, loc Location) ([]Prompt, error) {
	sess.LocationID = loc.ID
	sess.TaxExclusive = loc.TaxExclusive
	sess.HelpEmail = loc.HelpEmail
	sess.HelpPhone = loc.HelpPhone

	if !loc.IsOpen {
		sess.CurrentState = entity.StateConfirmClosedRestaurant
		body := fmt.Sprintf("We're currently closed.\n\n%s opens at %s and your order will be processed then.\n\nWould you like to continue?", loc.Name, loc.OpensAt)
		return []Prompt{ButtonsPrompt{Body: body, Buttons: []Button{
			{ID: "CONFIRM_CLOSED_YES", Title: "Yes, continue"},
			{ID: "CONFIRM_CLOSED_NO", Title: "No, cancel"},
		}}}, nil
	}

	sess.CurrentState = entity.StateItemSelection
	lead := fmt.Sprintf("You're ordering from %s.", loc.Name)
	return []Prompt{MainMenuPrompt{Lead: lead}}, nil
}

func (s *OrderStateService) handleClosedRestaurant(ctx context.Context, sess *entity.OrderSession, cmd Command) ([]Prompt, error) {
	switch cmd.Kind {
	case CmdConfirmClosedYes:
		sess.CurrentState = entity.StateItemSelection
		return []Prompt{MainMenuPrompt{Lead: "Great, your order will be processed when we open."}}, nil
	case CmdConfirmClosedNo:
		return s.cancelNow(sess), nil
	default:
		return []Prompt{TextPrompt{Body: "Please tap Yes to continue or No to cancel."}}, nil
	}
}

func (s *OrderStateService) handleDeliveryMethod(ctx context.Context, sess *entity.OrderSession, cmd Command) ([]Prompt, error) {
	switch cmd.Kind {
	case CmdDelivery:
		sess.DeliveryMethod = entity.MethodDelivery
		return s.showDeliverySelection(ctx, sess)
	case CmdPickup:
		sess.DeliveryMethod = entity.MethodPickup
		sess.DeliveryChargeID = ""
		if sess.Cart.Empty() {
			sess.CurrentState = entity.StateItemSelection
			return []Prompt{MainMenuPrompt{Lead: "Pickup it is. Add something to your order first."}}, nil
		}
		sess.CurrentState = entity.StateCollectNotes
		return []Prompt{NotesPrompt{}}, nil
	default:
		return []Prompt{
			TextPrompt{Body: "Please pick one of the options below."},
			DeliveryMethodPrompt{},
		}, nil
	}
}

// showDeliverySelection routes the delivery branch: closed hours ask for
// confirmation, a provider-hosted address form takes over when configured,
// no delivery areas offer a switch to pickup, otherwise the area list.
func (s *OrderStateService) showDeliverySelection(ctx context.Context, sess *entity.OrderSession) ([]Prompt, error) {
	loc, err := s.catalog.Location(ctx, sess.BusinessID, sess.LocationID)
	if err != nil {
		return nil, err
	}
	if !loc.IsOpen && sess.CurrentState != entity.StateConfirmClosedDelivery {
		sess.CurrentState = entity.StateConfirmClosedDelivery
		body := fmt.Sprintf("Delivery is outside our hours right now; we open at %s.\n\nProceed anyway?", loc.OpensAt)
		return []Prompt{ButtonsPrompt{Body: body, Buttons: []Button{
			{ID: "PROCEED_DELIVERY", Title: "Proceed"},
			{ID: "SWITCH_TO_PICKUP", Title: "Switch to pickup"},
			{ID: "CANCEL_ORDER", Title: "Cancel"},
		}}}, nil
	}
	if loc.DeliveryFlowJSON != "" {
		sess.CurrentState = entity.StateFlowInProgress
		return []Prompt{FlowPrompt{
			Body:     "Please fill in your delivery details.",
			FlowJSON: loc.DeliveryFlowJSON,
		}}, nil
	}

	charges, err := s.catalog.DeliveryCharges(ctx, sess.BusinessID, sess.LocationID)
	if err != nil {
		return nil, err
	}
	active := charges[:0]
	for _, c := range charges {
		if c.Active && !c.Expired {
			active = append(active, c)
		}
	}
	if len(active) == 0 {
		if !loc.PickupAvailable {
			sess.CurrentState = entity.StateLocationSelection
			sess.DeliveryMethod = ""
			locs, locErr := s.catalog.Locations(ctx, sess.BusinessID)
			if locErr != nil {
				return nil, locErr
			}
			return []Prompt{
				TextPrompt{Body: "This location can't take delivery orders right now. Please pick another location."},
				LocationListPrompt{Locations: locs},
			}, nil
		}
		sess.CurrentState = entity.StateDeliverySwitchConfirmation
		return []Prompt{ButtonsPrompt{
			Body: "We don't have delivery areas set up right now. Switch to pickup instead?",
			Buttons: []Button{
				{ID: "SWITCH_TO_PICKUP_YES", Title: "Yes, pickup"},
				{ID: "SWITCH_TO_PICKUP_NO", Title: "No, close order"},
			},
		}}, nil
	}
	sess.CurrentState = entity.StateDeliveryLocationSelection
	return []Prompt{DeliveryChargesPrompt{Charges: active}}, nil
}

func (s *OrderStateService) handleClosedDelivery(ctx context.Context, sess *entity.OrderSession, cmd Command) ([]Prompt, error) {
	switch cmd.Kind {
	case CmdProceedDelivery, CmdConfirmClosedYes:
		sess.DeliveryMethod = entity.MethodDelivery
		return s.showDeliverySelection(ctx, sess)
	case CmdSwitchToPickup:
		sess.DeliveryMethod = entity.MethodPickup
		sess.CurrentState = entity.StateCollectNotes
		return []Prompt{NotesPrompt{}}, nil
	case CmdCancelOrder:
		return s.cancelNow(sess), nil
	default:
		return []Prompt{TextPrompt{Body: "Please select an option above."}}, nil
	}
}

func (s *OrderStateService) handleDeliveryLocation(ctx context.Context, sess *entity.OrderSession, cmd Command) ([]Prompt, error) {
	if cmd.Kind == CmdLocationNotListed {
		sess.DeliveryMethod = entity.MethodPickup
		sess.DeliveryChargeID = ""
		if sess.Cart.Empty() {
			sess.CurrentState = entity.StateItemSelection
			return []Prompt{MainMenuPrompt{Lead: "Switched to pickup. Add something to your order first."}}, nil
		}
		sess.CurrentState = entity.StateCollectNotes
		return []Prompt{
			TextPrompt{Body: "Switched to pickup. No delivery address needed."},
			NotesPrompt{},
		}, nil
	}

	charge, err := s.catalog.Charge(ctx, sess.BusinessID, sess.LocationID, cmd.Raw)
	if err != nil || !charge.Active || charge.Expired {
		prompts := []Prompt{ErrorPrompt{Body: "That delivery area isn't available. Please pick from the list below."}}
		again, showErr := s.showDeliverySelection(ctx, sess)
		if showErr != nil {
			return nil, showErr
		}
		return append(prompts, again...), nil
	}

	sess.DeliveryChargeID = charge.ID
	sess.CurrentState = entity.StateDeliveryAddress
	saved, _ := s.profile.SavedAddress(ctx, sess.BusinessID, sess.PhoneNumber)
	return []Prompt{AddressPrompt{Saved: saved}}, nil
}

func (s *OrderStateService) handleDeliverySwitch(ctx context.Context, sess *entity.OrderSession, cmd Command) ([]Prompt, error) {
	switch cmd.Kind {
	case CmdSwitchToPickupYes:
		sess.DeliveryMethod = entity.MethodPickup
		sess.DeliveryChargeID = ""
		if sess.Cart.Empty() {
			sess.CurrentState = entity.StateItemSelection
			return []Prompt{MainMenuPrompt{Lead: "Pickup it is. Add something to your order."}}, nil
		}
		sess.CurrentState = entity.StateCollectNotes
		return []Prompt{NotesPrompt{}}, nil
	case CmdSwitchToPickupNo:
		sess.Deleted = true
		return []Prompt{TextPrompt{Body: "Order closed. You can start a new order anytime."}}, nil
	default:
		return []Prompt{TextPrompt{Body: "Please choose one of the options above."}}, nil
	}
}

func (s *OrderStateService) handleDeliveryAddress(ctx context.Context, sess *entity.OrderSession, cmd Command) ([]Prompt, error) {
	if !s.validate.IsValidAddress(cmd.Raw) {
		return []Prompt{ErrorPrompt{Body: "That address looks too short. Please enter at least 10 characters."}}, nil
	}
	sess.DeliveryAddress = cmd.Raw
	sess.CurrentState = entity.StateAddressSavePrompt
	return []Prompt{AddressSavePrompt{}}, nil
}

func (s *OrderStateService) handleAddressSave(ctx context.Context, sess *entity.OrderSession, cmd Command) ([]Prompt, error) {
	switch cmd.Kind {
	case CmdSaveAddressYes:
		if err := s.profile.SaveAddress(ctx, sess.BusinessID, sess.PhoneNumber, sess.DeliveryAddress); err != nil {
			s.log.WithError(err).Warn("address save failed")
		}
		return s.proceedToCheckout(ctx, sess)
	case CmdSaveAddressNo:
		return s.proceedToCheckout(ctx, sess)
	default:
		return []Prompt{AddressSavePrompt{}}, nil
	}
}

func (s *OrderStateService) handleContactPhone(ctx context.Context, sess *entity.OrderSession, cmd Command) ([]Prompt, error) {
	normalized, ok := s.validate.NormalizeContactPhone(cmd.Raw)
	if !ok {
		return []Prompt{ErrorPrompt{Body: "That doesn't look like a valid phone number. Try e.g. +2348012345678 or 08012345678."}}, nil
	}
	sess.DeliveryContactPhone = normalized
	if err := s.profile.SaveContactPhone(ctx, sess.BusinessID, sess.PhoneNumber, normalized); err != nil {
		s.log.WithError(err).Warn("contact phone save failed")
	}
	return s.proceedToCheckout(ctx, sess)
}

func (s *OrderStateService) handleNotes(ctx context.Context, sess *entity.OrderSession, cmd Command) ([]Prompt, error) {
	switch cmd.Kind {
	case CmdNone:
		sess.Notes = ""
		return s.showSummary(ctx, sess)
	case CmdEditOrder:
		sess.CurrentState = entity.StateEditOrder
		return []Prompt{EditMenuPrompt{}}, nil
	case CmdCancelOrder:
		return s.askCancelConfirmation(sess), nil
	case CmdBackToSummary:
		return s.showSummary(ctx, sess)
	}
	if cmd.Raw == "" || s.validate.IsSystemMessage(cmd.Raw) {
		return []Prompt{TextPrompt{Body: "Please type your notes, or reply *none* to skip."}}, nil
	}
	sess.Notes = cmd.Raw
	prompts := []Prompt{TextPrompt{Body: "Notes added!"}}
	next, err := s.proceedToCheckout(ctx, sess)
	if err != nil {
		return nil, err
	}
	return append(prompts, next...), nil
}

func (s *OrderStateService) handleCancelConfirmation(ctx context.Context, sess *entity.OrderSession, cmd Command) ([]Prompt, error) {
	switch cmd.Kind {
	case CmdConfirmCancel:
		return s.cancelNow(sess), nil
	case CmdContinueOrder:
		if !sess.Cart.Empty() {
			return s.showSummary(ctx, sess)
		}
		if sess.LocationID != "" {
			sess.CurrentState = entity.StateItemSelection
			return []Prompt{MainMenuPrompt{Lead: "Welcome back! Add something to your order."}}, nil
		}
		sess.CurrentState = entity.StateLocationSelection
		return []Prompt{WelcomePrompt{Name: sess.CustomerName}}, nil
	default:
		return []Prompt{CancelConfirmPrompt{}}, nil
	}
}

// cancelNow wipes the order and parks the session in the terminal cancelled
// state; the sweeper removes the row later.
func (s *OrderStateService) cancelNow(sess *entity.OrderSession) []Prompt {
	sess.CurrentState = entity.StateCancelled
	sess.Cart = entity.Cart{}
	sess.PendingParents = nil
	sess.PendingToppingsQueue = nil
	sess.DeliveryMethod = ""
	sess.DeliveryAddress = ""
	sess.DeliveryContactPhone = ""
	sess.DeliveryChargeID = ""
	sess.DiscountCode = ""
	sess.DiscountType = ""
	sess.Notes = ""
	sess.IsEditing = false
	sess.EditingGroupID = ""
	sess.CurrentPackID = entity.DefaultPackID
	return []Prompt{TextPrompt{Body: "Order cancelled.\n\nThank you for stopping by. You can start a new order anytime."}}
}

func (s *OrderStateService) askCancelConfirmation(sess *entity.OrderSession) []Prompt {
	sess.CurrentState = entity.StateCancelConfirmation
	return []Prompt{CancelConfirmPrompt{}}
}

func (s *OrderStateService) askDiscountCode(sess *entity.OrderSession) ([]Prompt, error) {
	if sess.DiscountCode != "" {
		return []Prompt{ErrorPrompt{Body: fmt.Sprintf("A discount code (%s) is already applied. Only one code can be used per order.", sess.DiscountCode)}}, nil
	}
	sess.CurrentState = entity.StateWaitingForDiscountCode
	return []Prompt{DiscountAskPrompt{}}, nil
}

func (s *OrderStateService) handleDiscountEntry(ctx context.Context, sess *entity.OrderSession, cmd Command) ([]Prompt, error) {
	switch cmd.Kind {
	case CmdConfirmOrder:
		sess.CurrentState = entity.StateOrderConfirmation
		return s.createOrder(ctx, sess)
	case CmdEditOrder:
		sess.CurrentState = entity.StateEditOrder
		return []Prompt{EditMenuPrompt{}}, nil
	case CmdCancelOrder:
		return s.askCancelConfirmation(sess), nil
	case CmdBackToSummary, CmdBackToMain:
		return s.showSummary(ctx, sess)
	}
	if cmd.Raw == "" {
		return []Prompt{TextPrompt{Body: "No code entered. Please type your discount code."}}, nil
	}
	if sess.DiscountCode != "" {
		prompts := []Prompt{ErrorPrompt{Body: fmt.Sprintf("A discount code (%s) is already applied. Only one code can be used per order.", sess.DiscountCode)}}
		next, err := s.showSummary(ctx, sess)
		if err != nil {
			return nil, err
		}
		return append(prompts, next...), nil
	}

	disc, err := s.catalog.ValidateDiscount(ctx, sess.BusinessID, sess.LocationID, cmd.Raw)
	var prompts []Prompt
	if err == nil && disc.Valid {
		sess.DiscountCode = disc.Code
		sess.DiscountType = disc.Type
		sess.DiscountValue = disc.Value
		prompts = append(prompts, TextPrompt{Body: fmt.Sprintf("Discount '%s' applied!", disc.Code)})
	} else {
		if err != nil {
			s.log.WithError(err).Warn("discount validation failed")
		}
		prompts = append(prompts, ErrorPrompt{Body: "That discount code is invalid or has expired."})
	}
	next, err := s.showSummary(ctx, sess)
	if err != nil {
		return nil, err
	}
	return append(prompts, next...), nil
}

func (s *OrderStateService) handleSearch(ctx context.Context, sess *entity.OrderSession, cmd Command) ([]Prompt, error) {
	switch cmd.Kind {
	case CmdBackToMain:
		sess.CurrentState = entity.StateItemSelection
		return []Prompt{MainMenuPrompt{}}, nil
	case CmdFullMenu:
		sess.CurrentState = entity.StateItemSelection
		return []Prompt{CategoriesPrompt{Page: 1}}, nil
	}
	if cmd.Raw == "" {
		return []Prompt{SearchAskPrompt{}}, nil
	}
	// An item tap from the results list lands here as a raw id.
	if item, err := s.catalog.Item(ctx, sess.BusinessID, sess.LocationID, cmd.Raw); err == nil && item.ID != "" {
		sess.CurrentState = entity.StateItemSelection
		return s.addCatalogItem(ctx, sess, item)
	}
	return []Prompt{SearchResultsPrompt{Query: cmd.Raw}}, nil
}
