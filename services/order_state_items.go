package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/superkingsely080296-boop/Comms-API-master/entity"
)

func (s *OrderStateService) handleItemSelection(ctx context.Context, sess *entity.OrderSession, cmd Command) ([]Prompt, error) {
	switch cmd.Kind {
	case CmdSearch:
		sess.CurrentState = entity.StateSearch
		return []Prompt{SearchAskPrompt{}}, nil
	case CmdFullMenu, CmdViewMoreCategories, CmdBrowseOthers, CmdBackCategories:
		return []Prompt{CategoriesPrompt{Page: 1}}, nil
	case CmdCategoryPage:
		if sess.CurrentCategoryGroup != "" {
			return []Prompt{CategoryItemsPrompt{Category: sess.CurrentCategoryGroup, Page: cmd.Page}}, nil
		}
		return []Prompt{CategoriesPrompt{Page: cmd.Page}}, nil
	case CmdCategorySet, CmdCategory:
		return []Prompt{CategoryItemsPrompt{Category: cmd.Arg, Page: 1}}, nil
	case CmdSubcategory:
		if sess.CurrentCategoryGroup == "" {
			return []Prompt{CategoriesPrompt{Page: 1}}, nil
		}
		return []Prompt{SubcategoryItemsPrompt{Category: sess.CurrentCategoryGroup, Subcategory: cmd.Arg, Page: 1}}, nil
	case CmdSubcategoryPage:
		if sess.CurrentCategoryGroup == "" || sess.CurrentSubcategoryGroup == "" {
			return []Prompt{CategoriesPrompt{Page: 1}}, nil
		}
		return []Prompt{SubcategoryItemsPrompt{Category: sess.CurrentCategoryGroup, Subcategory: sess.CurrentSubcategoryGroup, Page: cmd.Page}}, nil
	case CmdBackSubcategories:
		if sess.CurrentCategoryGroup != "" {
			return []Prompt{CategoryItemsPrompt{Category: sess.CurrentCategoryGroup, Page: 1}}, nil
		}
		return []Prompt{CategoriesPrompt{Page: 1}}, nil
	case CmdBackToMain:
		return []Prompt{MainMenuPrompt{}}, nil
	case CmdAddMore:
		return s.resumeBrowsing(sess), nil
	case CmdProceedCheckout:
		return s.proceedToCheckout(ctx, sess)
	case CmdBackToSummary:
		return s.showSummary(ctx, sess)
	case CmdEditOrder, CmdRemoveItem:
		if sess.Cart.Empty() {
			return []Prompt{MainMenuPrompt{Lead: "Your cart is empty. Add some items first."}}, nil
		}
		sess.CurrentState = entity.StateEditOrder
		return []Prompt{EditMenuPrompt{}}, nil
	case CmdCancelOrder:
		return s.askCancelConfirmation(sess), nil
	}

	if cmd.Kind != CmdText || cmd.Raw == "" || len(cmd.Raw) > 50 || strings.Contains(cmd.Raw, " ") {
		return []Prompt{TextPrompt{Body: "After browsing our menu, tap an item to add it to your cart. Thank you!"}}, nil
	}

	item, err := s.catalog.Item(ctx, sess.BusinessID, sess.LocationID, cmd.Raw)
	if err != nil || item.ID == "" {
		return []Prompt{
			ErrorPrompt{Body: "Invalid item selected. Use the menu below to browse items."},
			MainMenuPrompt{},
		}, nil
	}
	return s.addCatalogItem(ctx, sess, item)
}

// resumeBrowsing returns the customer to wherever they last browsed.
func (s *OrderStateService) resumeBrowsing(sess *entity.OrderSession) []Prompt {
	switch {
	case sess.CurrentSubcategoryGroup != "":
		return []Prompt{SubcategoryItemsPrompt{Category: sess.CurrentCategoryGroup, Subcategory: sess.CurrentSubcategoryGroup, Page: 1}}
	case sess.CurrentCategoryGroup != "":
		return []Prompt{CategoryItemsPrompt{Category: sess.CurrentCategoryGroup, Page: 1}}
	default:
		return []Prompt{MainMenuPrompt{}}
	}
}

// addCatalogItem puts a selected product into the cart. Composites enqueue a
// pending parent per option set and move to option selection; items with a
// topping class enqueue a toppings round; plain items land directly.
func (s *OrderStateService) addCatalogItem(ctx context.Context, sess *entity.OrderSession, item CatalogItem) ([]Prompt, error) {
	groupingID := uuid.NewString()
	quantity := 1
	keptToppings := false

	if sess.IsEditing && sess.EditingGroupID != "" {
		groupingID = sess.EditingGroupID
		for _, old := range s.cart.Group(&sess.Cart, groupingID) {
			if !old.IsChild() && !old.IsTopping {
				quantity = old.Quantity
			}
			if old.IsTopping {
				keptToppings = true
			}
		}
		switch {
		case len(item.OptionSets) > 0:
			// Recipe swaps re-collect their option children below; the
			// grouping's toppings survive the swap.
			s.cart.RemoveParent(&sess.Cart, groupingID)
			s.cart.RemoveChildren(&sess.Cart, groupingID)
		case item.ToppingClassID != "":
			// Toppable swaps keep the toppings already chosen.
			s.cart.RemoveParent(&sess.Cart, groupingID)
		default:
			// A plain item replacement clears the whole grouping.
			s.cart.RemoveGroup(&sess.Cart, groupingID)
			keptToppings = false
		}
	}

	packID := sess.PackID()
	hasToppings := item.ToppingClassID != "" && !keptToppings

	if len(item.OptionSets) > 0 {
		s.cart.Add(&sess.Cart, entity.CartItem{
			ItemID:      item.ID,
			Name:        item.Name,
			Price:       item.Price,
			Quantity:    1,
			ItemClassID: item.ItemClassID,
			TaxID:       item.TaxID,
			GroupingID:  groupingID,
			PackID:      packID,
		})
		total := len(item.OptionSets)
		for i, set := range item.OptionSets {
			sess.PendingParents = append(sess.PendingParents, entity.PendingParent{
				ParentItemID:    item.ID,
				ParentItemName:  item.Name,
				ItemParentID:    set.ItemParentID,
				Options:         set.Options,
				Quantity:        set.Picks,
				OptionSetIndex:  i,
				TotalOptionSets: total,
				GroupingID:      groupingID,
				HasToppings:     hasToppings && i == total-1,
				ToppingClassID:  item.ToppingClassID,
			})
		}
		sess.IsEditing = false
		sess.EditingGroupID = ""
		sess.CurrentState = entity.StateItemOptions
		return []Prompt{ItemOptionsPrompt{Page: 1}}, nil
	}

	if hasToppings {
		s.cart.Add(&sess.Cart, entity.CartItem{
			ItemID:      item.ID,
			Name:        item.Name,
			Price:       item.Price,
			Quantity:    quantity,
			ItemClassID: item.ItemClassID,
			TaxID:       item.TaxID,
			GroupingID:  groupingID,
			PackID:      packID,
		})
		toppings, err := s.catalog.Toppings(ctx, sess.BusinessID, sess.LocationID, item.ToppingClassID)
		if err != nil {
			return nil, err
		}
		opts := make([]entity.ToppingOption, 0, len(toppings))
		for _, t := range toppings {
			opts = append(opts, entity.ToppingOption{
				ID: t.ID, Name: t.Name, Price: t.Price, ItemClassID: t.ItemClassID, TaxID: t.TaxID,
			})
		}
		sess.PendingToppingsQueue = append(sess.PendingToppingsQueue, entity.PendingToppings{
			MainItemID:   item.ID,
			MainItemName: item.Name,
			GroupingID:   groupingID,
			Toppings:     opts,
		})
		sess.IsEditing = false
		sess.EditingGroupID = ""
		if len(sess.PendingToppingsQueue) == 1 {
			sess.CurrentState = entity.StateItemToppings
			return []Prompt{ToppingsPrompt{Page: 1}}, nil
		}
		return s.afterItemAdded(ctx, sess, item.Name)
	}

	s.cart.Add(&sess.Cart, entity.CartItem{
		ItemID:      item.ID,
		Name:        item.Name,
		Price:       item.Price,
		Quantity:    quantity,
		ItemClassID: item.ItemClassID,
		TaxID:       item.TaxID,
		GroupingID:  groupingID,
		PackID:      packID,
	})
	sess.IsEditing = false
	sess.EditingGroupID = ""
	return s.afterItemAdded(ctx, sess, item.Name)
}

// afterItemAdded is the common landing after a cart mutation: small catalogs
// go straight to checkout, everything else gets the post-add buttons.
func (s *OrderStateService) afterItemAdded(ctx context.Context, sess *entity.OrderSession, itemName string) ([]Prompt, error) {
	if sess.CurrentMenuLevel == menuLevelSmall {
		return s.proceedToCheckout(ctx, sess)
	}
	if sess.CurrentState != entity.StateItemSelectionFromEdit {
		sess.CurrentState = entity.StateItemSelection
	}
	return []Prompt{PostAddPrompt{ItemName: itemName}}, nil
}

func (s *OrderStateService) handleItemOptions(ctx context.Context, sess *entity.OrderSession, cmd Command) ([]Prompt, error) {
	if cmd.Kind == CmdCancelOptions {
		if len(sess.PendingParents) > 0 {
			p := sess.PendingParents[0]
			s.cart.RemoveGroup(&sess.Cart, p.GroupingID)
			rest := sess.PendingParents[:0]
			for _, pp := range sess.PendingParents {
				if pp.GroupingID != p.GroupingID {
					rest = append(rest, pp)
				}
			}
			sess.PendingParents = rest
		}
		sess.CurrentState = entity.StateItemSelection
		return []Prompt{TextPrompt{Body: "Option selection cancelled. Add another item or proceed to checkout."}}, nil
	}

	if len(sess.PendingParents) == 0 {
		sess.CurrentState = entity.StateItemSelection
		return []Prompt{MainMenuPrompt{}}, nil
	}

	if cmd.Kind == CmdOptionPage {
		return []Prompt{ItemOptionsPrompt{Page: cmd.Page}}, nil
	}

	p := &sess.PendingParents[0]
	idx := -1
	for i, o := range p.Options {
		if o.ItemID == cmd.Raw {
			idx = i
			break
		}
	}
	if idx == -1 {
		return []Prompt{
			ErrorPrompt{Body: "Invalid option selected. Please choose from the list below."},
			ItemOptionsPrompt{Page: 1},
		}, nil
	}

	chosen := p.Options[idx]
	p.Options = append(p.Options[:idx], p.Options[idx+1:]...)
	parentID := p.ItemParentID
	if parentID == "" {
		parentID = p.ParentItemID
	}
	s.cart.Add(&sess.Cart, entity.CartItem{
		ItemID:       chosen.ItemID,
		Name:         chosen.ItemName,
		Quantity:     1,
		ItemClassID:  chosen.ItemClassID,
		ParentItemID: parentID,
		GroupingID:   p.GroupingID,
		PackID:       sess.PackID(),
	})
	p.CurrentOptionIndex++

	if p.CurrentOptionIndex < p.Quantity {
		return []Prompt{ItemOptionsPrompt{Page: 1}}, nil
	}

	done := *p
	sess.PendingParents = sess.PendingParents[1:]

	if done.HasToppings && done.ToppingClassID != "" {
		toppings, err := s.catalog.Toppings(ctx, sess.BusinessID, sess.LocationID, done.ToppingClassID)
		if err != nil {
			return nil, err
		}
		opts := make([]entity.ToppingOption, 0, len(toppings))
		for _, t := range toppings {
			opts = append(opts, entity.ToppingOption{
				ID: t.ID, Name: t.Name, Price: t.Price, ItemClassID: t.ItemClassID, TaxID: t.TaxID,
			})
		}
		// The freshly-completed composite's toppings jump the queue.
		sess.PendingToppingsQueue = append([]entity.PendingToppings{{
			MainItemID:   done.ParentItemID,
			MainItemName: done.ParentItemName,
			GroupingID:   done.GroupingID,
			Toppings:     opts,
		}}, sess.PendingToppingsQueue...)
	}

	if len(sess.PendingParents) > 0 {
		return []Prompt{ItemOptionsPrompt{Page: 1}}, nil
	}
	if len(sess.PendingToppingsQueue) > 0 {
		sess.CurrentState = entity.StateItemToppings
		return []Prompt{ToppingsPrompt{Page: 1}}, nil
	}
	return s.afterItemAdded(ctx, sess, done.ParentItemName)
}

func (s *OrderStateService) handleItemToppings(ctx context.Context, sess *entity.OrderSession, cmd Command) ([]Prompt, error) {
	if len(sess.PendingToppingsQueue) == 0 {
		return s.afterItemAdded(ctx, sess, "Item")
	}
	current := &sess.PendingToppingsQueue[0]

	switch cmd.Kind {
	case CmdSkipToppings, CmdNoToppings, CmdDoneToppings:
		name := current.MainItemName
		sess.PendingToppingsQueue = sess.PendingToppingsQueue[1:]
		if len(sess.PendingToppingsQueue) > 0 {
			return []Prompt{ToppingsPrompt{Page: 1}}, nil
		}
		return s.afterItemAdded(ctx, sess, name)
	case CmdBackToMenu:
		s.cart.RemoveGroup(&sess.Cart, current.GroupingID)
		sess.PendingToppingsQueue = sess.PendingToppingsQueue[1:]
		sess.CurrentState = entity.StateItemSelection
		return []Prompt{MainMenuPrompt{}}, nil
	case CmdToppingPage:
		return []Prompt{ToppingsPrompt{Page: cmd.Page}}, nil
	}

	for _, t := range current.Toppings {
		if t.ID != cmd.Raw {
			continue
		}
		s.cart.Add(&sess.Cart, entity.CartItem{
			ItemID:      t.ID,
			Name:        t.Name,
			Price:       t.Price,
			Quantity:    1,
			ItemClassID: t.ItemClassID,
			TaxID:       t.TaxID,
			GroupingID:  current.GroupingID,
			PackID:      sess.PackID(),
			IsTopping:   true,
			MainItemID:  current.MainItemID,
		})
		current.SelectedToppingIDs = append(current.SelectedToppingIDs, t.ID)
		return []Prompt{
			TextPrompt{Body: fmt.Sprintf("Added %s - %s", t.Name, money(t.Price))},
			ToppingsPrompt{Page: 1},
		}, nil
	}
	return []Prompt{
		ErrorPrompt{Body: "Invalid topping selection. Please choose from the list below."},
		ToppingsPrompt{Page: 1},
	}, nil
}

func (s *OrderStateService) handleEditOrder(ctx context.Context, sess *entity.OrderSession, cmd Command) ([]Prompt, error) {
	switch cmd.Kind {
	case CmdAddItem, CmdPackAddMenu:
		sess.CurrentState = entity.StatePackSelectionAdd
		return []Prompt{PackMenuPrompt{Removing: false}}, nil
	case CmdRemoveItem, CmdPackRemoveMenu:
		sess.CurrentState = entity.StatePackSelectionRemove
		return []Prompt{PackMenuPrompt{Removing: true}}, nil
	case CmdAddPack, CmdRemovePack, CmdAddNewPack:
		removing := cmd.Kind == CmdRemovePack
		if removing {
			sess.CurrentState = entity.StatePackSelectionRemove
		} else {
			sess.CurrentState = entity.StatePackSelectionAdd
		}
		return s.handlePackSelection(ctx, sess, cmd, removing)
	case CmdBackToPacks:
		if sess.CurrentState == entity.StatePackSelectionAdd {
			return []Prompt{PackMenuPrompt{Removing: false}}, nil
		}
		return []Prompt{PackMenuPrompt{Removing: true}}, nil
	case CmdBackToSummary:
		return s.showSummary(ctx, sess)
	case CmdCancelOrder:
		return s.askCancelConfirmation(sess), nil
	}

	if cmd.Kind == CmdNumber {
		entries := s.cart.Numbered(&sess.Cart, "")
		if cmd.Number < 1 || cmd.Number > len(entries) {
			return []Prompt{
				ErrorPrompt{Body: "Invalid item number. Please enter a valid number."},
				EditMenuPrompt{},
			}, nil
		}
		return []Prompt{
			TextPrompt{Body: fmt.Sprintf("Editing %s isn't supported yet. You can remove it and add a new item instead.", entries[cmd.Number-1].Name)},
			EditMenuPrompt{},
		}, nil
	}
	return []Prompt{EditMenuPrompt{}}, nil
}

func (s *OrderStateService) handlePackSelection(ctx context.Context, sess *entity.OrderSession, cmd Command, removing bool) ([]Prompt, error) {
	switch cmd.Kind {
	case CmdBackToSummary:
		return s.showSummary(ctx, sess)
	case CmdBackToPacks:
		return []Prompt{PackMenuPrompt{Removing: removing}}, nil
	case CmdAddNewPack:
		newPack := s.cart.NextPackID(&sess.Cart)
		sess.CurrentPackID = newPack
		sess.CurrentState = entity.StateItemSelectionFromEdit
		return []Prompt{
			TextPrompt{Body: fmt.Sprintf("%s created, you can now add items.", packLabel(newPack))},
			MainMenuPrompt{},
		}, nil
	case CmdAddPack:
		sess.CurrentPackID = cmd.Arg
		sess.CurrentState = entity.StateItemSelectionFromEdit
		return []Prompt{
			TextPrompt{Body: fmt.Sprintf("%s selected. You can now add items.", packLabel(cmd.Arg))},
			MainMenuPrompt{},
		}, nil
	case CmdRemovePack:
		sess.CurrentPackID = cmd.Arg
		sess.CurrentState = entity.StateRemoveItemPrompt
		return []Prompt{RemoveItemPrompt{PackID: cmd.Arg}}, nil
	case CmdCancelOrder:
		return s.askCancelConfirmation(sess), nil
	default:
		return []Prompt{PackMenuPrompt{Removing: removing}}, nil
	}
}

func packLabel(packID string) string {
	return strings.Replace(packID, "pack", "Pack ", 1)
}

func (s *OrderStateService) handleRemoveItem(ctx context.Context, sess *entity.OrderSession, cmd Command) ([]Prompt, error) {
	switch cmd.Kind {
	case CmdBackToSummary:
		return s.showSummary(ctx, sess)
	case CmdBackToPacks:
		sess.CurrentState = entity.StatePackSelectionRemove
		return []Prompt{PackMenuPrompt{Removing: true}}, nil
	case CmdAddPack, CmdRemovePack:
		return s.handlePackSelection(ctx, sess, cmd, cmd.Kind == CmdRemovePack)
	case CmdCancelOrder:
		return s.askCancelConfirmation(sess), nil
	}

	if cmd.Kind != CmdNumber {
		return []Prompt{
			ErrorPrompt{Body: "Please enter a valid item number or use the buttons below."},
			RemoveItemPrompt{PackID: sess.CurrentPackID},
		}, nil
	}

	if cmd.Number == 0 {
		if len(s.cart.PackIDs(&sess.Cart)) > 1 && sess.CurrentPackID != "" {
			removed := sess.CurrentPackID
			s.cart.RemovePack(&sess.Cart, removed)
			sess.CurrentPackID = entity.DefaultPackID
			sess.CurrentState = entity.StatePackSelectionRemove
			return []Prompt{
				TextPrompt{Body: fmt.Sprintf("Removed %s from your order.", packLabel(removed))},
				PackMenuPrompt{Removing: true},
			}, nil
		}
		return []Prompt{
			ErrorPrompt{Body: "Cannot remove the only pack. Add another pack first or cancel the order."},
			RemoveItemPrompt{PackID: sess.CurrentPackID},
		}, nil
	}

	entry, ok := s.cart.ResolveNumber(&sess.Cart, sess.CurrentPackID, cmd.Number)
	if !ok {
		return []Prompt{
			ErrorPrompt{Body: "Invalid item number. Please enter a valid number."},
			RemoveItemPrompt{PackID: sess.CurrentPackID},
		}, nil
	}
	for _, gid := range entry.GroupingIDs {
		s.cart.RemoveGroup(&sess.Cart, gid)
	}
	prompts := []Prompt{TextPrompt{Body: fmt.Sprintf("Removed %s from cart.", entry.Name)}}

	if sess.Cart.Empty() {
		sess.CurrentPackID = entity.DefaultPackID
		sess.CurrentState = entity.StateItemSelection
		return append(prompts, MainMenuPrompt{Lead: "Your cart is now empty. Add some items to continue."}), nil
	}
	if len(s.cart.ItemsByPack(&sess.Cart, sess.CurrentPackID)) > 0 {
		return append(prompts, RemoveItemPrompt{PackID: sess.CurrentPackID}), nil
	}
	sess.CurrentState = entity.StatePackSelectionRemove
	return append(prompts, PackMenuPrompt{Removing: true}), nil
}
