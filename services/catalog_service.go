package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/superkingsely080296-boop/Comms-API-master/entity"
)

// Location is a business branch the customer can order from.
type Location struct {
	ID        string
	Name      string
	IsOpen    bool
	OpensAt   string
	ClosesAt  string
	HelpEmail string
	HelpPhone string
	// Delivery-only locations never offer the pickup option.
	PickupAvailable bool
	// Tax treatment for the location's menu prices.
	TaxExclusive bool
	TaxRate      decimal.Decimal
	TaxID        string
	// Optional provider-hosted address form. When present the delivery
	// address is collected through it instead of free text.
	DeliveryFlowJSON string
}

// CatalogItem is a sellable product row from the provider.
type CatalogItem struct {
	ID            string
	Name          string
	Description   string
	Price         decimal.Decimal
	ItemClassID   string
	TaxID         string
	CategoryGroup string
	Subcategory   string
	Featured      bool
	// Set when the item is a recipe composite whose option sets must be
	// walked before it lands in the cart.
	OptionSets []OptionSet
	// Topping class attached to the item, empty when it has none.
	ToppingClassID string
}

// OptionSet is one pool of recipe choices. Picks is how many the customer
// must choose from the pool.
type OptionSet struct {
	ItemParentID string
	Picks        int
	Options      []entity.RecipeOption
}

// Topping is an add-on offered for a main item.
type Topping struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	ItemClassID string
	TaxID       string
}

// Charge is an order-level fee (delivery zones, packaging keywords).
type Charge struct {
	ID      string
	Name    string
	Amount  decimal.Decimal
	Active  bool
	Expired bool
}

// Discount is a redeemed code as validated by the provider.
type Discount struct {
	Code  string
	Type  string // entity.DiscountPercent or entity.DiscountAmount
	Value decimal.Decimal
	Valid bool
}

// PaymentAccount is the transfer destination returned when an order is
// accepted by the provider.
type PaymentAccount struct {
	BankName      string
	AccountNumber string
	AccountName   string
}

// OrderSubmission is the payload handed to the provider when an order is
// confirmed.
type OrderSubmission struct {
	Reference            string
	BusinessID           string
	LocationID           string
	PhoneNumber          string
	CustomerName         string
	DeliveryMethod       string
	DeliveryAddress      string
	DeliveryContactPhone string
	Notes                string
	Items                []entity.CartItem
	Subtotal             decimal.Decimal
	Tax                  decimal.Decimal
	Charges              decimal.Decimal
	DiscountCode         string
	DiscountAmount       decimal.Decimal
	Total                decimal.Decimal
}

// CatalogProvider is the ordering platform the bot fronts. Implementations
// wrap the vendor HTTP API; every call takes the per-event context so a slow
// provider cannot wedge an event past its deadline.
type CatalogProvider interface {
	Locations(ctx context.Context, businessID string) ([]Location, error)
	Location(ctx context.Context, businessID, locationID string) (Location, error)
	Items(ctx context.Context, businessID, locationID string) ([]CatalogItem, error)
	Item(ctx context.Context, businessID, locationID, itemID string) (CatalogItem, error)
	SearchItems(ctx context.Context, businessID, locationID, query string) ([]CatalogItem, error)
	Toppings(ctx context.Context, businessID, locationID, toppingClassID string) ([]Topping, error)
	DeliveryCharges(ctx context.Context, businessID, locationID string) ([]Charge, error)
	Charge(ctx context.Context, businessID, locationID, chargeID string) (Charge, error)
	BaseCharges(ctx context.Context, businessID, locationID string) ([]Charge, error)
	ValidateDiscount(ctx context.Context, businessID, locationID, code string) (Discount, error)
	SubmitOrder(ctx context.Context, sub OrderSubmission) (PaymentAccount, error)
}

// ProfileProvider stores customer details remembered across orders.
type ProfileProvider interface {
	SavedAddress(ctx context.Context, businessID, phone string) (string, error)
	SaveAddress(ctx context.Context, businessID, phone, address string) error
	SavedContactPhone(ctx context.Context, businessID, phone string) (string, error)
	SaveContactPhone(ctx context.Context, businessID, phone, contact string) error
}
