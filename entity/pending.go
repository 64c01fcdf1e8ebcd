package entity

import (
	"github.com/shopspring/decimal"
)

// RecipeOption is one selectable sub-option of a composite item, as supplied
// by the catalog provider.
type RecipeOption struct {
	ItemID      string `json:"itemId"`
	ItemName    string `json:"itemName"`
	ItemClassID string `json:"itemClassId,omitempty"`
}

// PendingParent is one outstanding required-option-set resolution for a
// composite item. Options is the remaining pool to choose from; already
// consumed options are removed so they cannot be picked twice.
// CurrentOptionIndex counts picks made so far; the entry is complete once it
// reaches Quantity. Entries queue FIFO on the session.
type PendingParent struct {
	ParentItemID       string         `json:"parentItemId"`
	ParentItemName     string         `json:"parentItemName"`
	ItemParentID       string         `json:"itemParentId"`
	Options            []RecipeOption `json:"options"`
	Quantity           int            `json:"quantity"`
	OptionSetIndex     int            `json:"optionSetIndex"`
	TotalOptionSets    int            `json:"totalOptionSets"`
	GroupingID         string         `json:"groupingId"`
	CurrentOptionIndex int            `json:"currentOptionIndex"`
	HasToppings        bool           `json:"hasToppings"`
	ToppingClassID     string         `json:"toppingClassId,omitempty"`
}

// ToppingOption is a candidate topping offered for a cart item.
type ToppingOption struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	ItemClassID string          `json:"itemClassId,omitempty"`
	TaxID       string          `json:"taxId,omitempty"`
}

// PendingToppings is one outstanding topping-selection task for the cart
// item identified by GroupingID. Entries queue FIFO across items added
// before their toppings are resolved.
type PendingToppings struct {
	MainItemID         string          `json:"mainItemId"`
	MainItemName       string          `json:"mainItemName"`
	GroupingID         string          `json:"groupingId"`
	Toppings           []ToppingOption `json:"toppings"`
	SelectedToppingIDs []string        `json:"selectedToppingIds,omitempty"`
}
