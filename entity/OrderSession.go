package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// State is the closed set of conversation states. Every inbound event is
// dispatched on the session's current state.
type State string

const (
	StateLocationSelection          State = "LOCATION_SELECTION"
	StateConfirmClosedRestaurant    State = "CONFIRM_CLOSED_RESTAURANT"
	StateDeliveryMethod             State = "DELIVERY_METHOD"
	StateConfirmClosedDelivery      State = "CONFIRM_CLOSED_DELIVERY"
	StateDeliveryLocationSelection  State = "DELIVERY_LOCATION_SELECTION"
	StateDeliverySwitchConfirmation State = "DELIVERY_SWITCH_CONFIRMATION"
	StateDeliveryAddress            State = "DELIVERY_ADDRESS"
	StateAddressSavePrompt          State = "ADDRESS_SAVE_PROMPT"
	StateDeliveryContactPhone       State = "DELIVERY_CONTACT_PHONE"
	StateItemSelection              State = "ITEM_SELECTION"
	StateItemSelectionFromEdit      State = "ITEM_SELECTION_FROM_EDIT"
	StateSearch                     State = "SEARCH"
	StateItemOptions                State = "ITEM_OPTIONS"
	StateItemToppings               State = "ITEM_TOPPINGS"
	StateCollectNotes               State = "COLLECT_NOTES"
	StateOrderConfirmation          State = "ORDER_CONFIRMATION"
	StateEditOrder                  State = "EDIT_ORDER"
	StatePackSelectionAdd           State = "PACK_SELECTION_ADD"
	StatePackSelectionRemove        State = "PACK_SELECTION_REMOVE"
	StateRemoveItemPrompt           State = "REMOVE_ITEM_PROMPT"
	StateWaitingForDiscountCode     State = "WAITING_FOR_DISCOUNT_CODE"
	StateCancelConfirmation         State = "CANCEL_CONFIRMATION"
	StateCancelled                  State = "CANCELLED"
	StateFlowInProgress             State = "FLOW_IN_PROGRESS"
)

// Delivery methods.
const (
	MethodDelivery = "Delivery"
	MethodPickup   = "Pickup"
)

// Discount types as reported by the catalog provider.
const (
	DiscountPercent = "Percent"
	DiscountAmount  = "Amount"
)

// OrderSession is the per-(business, phone) conversation row. The cart and
// both pending queues are typed structures serialized as JSON columns, so a
// round trip can never hand a handler a half-parsed blob.
type OrderSession struct {
	gorm.Model
	BusinessID  string `gorm:"size:50;index:idx_session_key,unique" json:"businessId"`
	PhoneNumber string `gorm:"size:20;index:idx_session_key,unique" json:"phoneNumber"`

	CurrentState State  `gorm:"size:40" json:"currentState"`
	CustomerName string `json:"customerName"`

	Cart                 Cart              `gorm:"serializer:json" json:"cart"`
	PendingParents       []PendingParent   `gorm:"serializer:json" json:"pendingParents"`
	PendingToppingsQueue []PendingToppings `gorm:"serializer:json" json:"pendingToppingsQueue"`

	LocationID   string `gorm:"size:50" json:"locationId"`
	TaxExclusive bool   `json:"taxExclusive"`

	DeliveryMethod       string `gorm:"size:20" json:"deliveryMethod"`
	DeliveryAddress      string `json:"deliveryAddress"`
	DeliveryContactPhone string `gorm:"size:20" json:"deliveryContactPhone"`
	DeliveryChargeID     string `gorm:"size:50" json:"deliveryChargeId"`

	DiscountCode   string          `gorm:"size:50" json:"discountCode"`
	DiscountType   string          `gorm:"size:10" json:"discountType"`
	DiscountValue  decimal.Decimal `gorm:"type:decimal(12,2)" json:"discountValue"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2)" json:"discountAmount"`

	Notes string `json:"notes"`

	IsEditing      bool   `json:"isEditing"`
	EditingGroupID string `gorm:"size:50" json:"editingGroupId"`
	CurrentPackID  string `gorm:"size:20" json:"currentPackId"`

	// Menu navigation breadcrumbs.
	CurrentMenuLevel        string `gorm:"size:30" json:"currentMenuLevel"`
	CurrentCategoryGroup    string `gorm:"size:60" json:"currentCategoryGroup"`
	CurrentSubcategoryGroup string `gorm:"size:60" json:"currentSubcategoryGroup"`

	HelpEmail string `json:"helpEmail"`
	HelpPhone string `json:"helpPhone"`

	LastInteraction time.Time `gorm:"index" json:"lastInteraction"`

	// Set by a handler that ends the conversation; the session service
	// deletes the row instead of saving it.
	Deleted bool `gorm:"-" json:"-"`
}

// PackID returns the pack new items should land in.
func (s *OrderSession) PackID() string {
	if s.CurrentPackID == "" {
		return DefaultPackID
	}
	return s.CurrentPackID
}
