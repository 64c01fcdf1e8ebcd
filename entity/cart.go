package entity

import (
	"github.com/shopspring/decimal"
)

// DefaultPackID is the implicit pack every cart starts with. More packs only
// exist when packaging is enabled for the location and the customer creates
// them explicitly.
const DefaultPackID = "pack1"

// CartItem is one line of a cart. A non-empty GroupingID ties a composite
// purchase together: the parent line (ParentItemID empty) plus its required
// option children and toppings, all sharing the same GroupingID. Children
// carry a zero Price when bundled into the parent.
type CartItem struct {
	ItemID       string          `json:"itemId"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	ItemClassID  string          `json:"itemClassId,omitempty"`
	TaxID        string          `json:"taxId,omitempty"`
	GroupingID   string          `json:"groupingId,omitempty"`
	ParentItemID string          `json:"parentItemId,omitempty"`
	PackID       string          `json:"packId,omitempty"`
	IsTopping    bool            `json:"isTopping,omitempty"`
	MainItemID   string          `json:"mainItemId,omitempty"`
}

// IsChild reports whether the line belongs to a composite parent.
func (i CartItem) IsChild() bool { return i.ParentItemID != "" }

// LineTotal is price times quantity; children of a composite contribute
// nothing here because their price is zero by construction.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the ordered item list serialized into the session row.
type Cart struct {
	Items []CartItem `json:"items"`
}

func (c *Cart) Empty() bool { return len(c.Items) == 0 }
