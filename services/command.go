package services

import (
	"strconv"
	"strings"
)

// CommandKind classifies an inbound reply token. Handlers switch on the kind
// instead of re-matching raw prefixes.
type CommandKind int

const (
	CmdUnknown CommandKind = iota
	CmdText                // free text, no recognized token
	CmdNumber              // a bare number

	CmdStartOrder
	CmdGetHelp

	CmdCategory        // CAT_<id>
	CmdCategorySet     // CAT_SET_<name>
	CmdCategoryPage    // CAT_PAGE_<n>
	CmdSubcategory     // SUBCAT_<name>
	CmdSubcategoryPage // SUBCAT_PAGE_<n>
	CmdOptionPage      // OPT_PAGE_<n>
	CmdToppingPage     // TOPPING_PAGE_<n>

	CmdBackCategories
	CmdBackSubcategories
	CmdBackToMain
	CmdBackToSummary
	CmdBackToPacks
	CmdBackToMenu

	CmdSearch
	CmdFullMenu
	CmdViewMoreCategories
	CmdBrowseOthers
	CmdAddMore

	CmdProceedCheckout
	CmdConfirmOrder
	CmdCancelOrder
	CmdConfirmCancel
	CmdContinueOrder
	CmdEditOrder
	CmdAddItem
	CmdRemoveItem
	CmdApplyDiscount

	CmdDelivery
	CmdPickup
	CmdLocationNotListed
	CmdConfirmClosedYes
	CmdConfirmClosedNo
	CmdProceedDelivery
	CmdSwitchToPickup
	CmdSwitchToPickupYes
	CmdSwitchToPickupNo
	CmdSaveAddressYes
	CmdSaveAddressNo

	CmdSkipToppings
	CmdDoneToppings
	CmdNoToppings
	CmdCancelOptions

	CmdAddPack        // ADD_PACK_<packId>
	CmdRemovePack     // REMOVE_PACK_<packId>
	CmdPackAddMenu    // ADD_PACK
	CmdPackRemoveMenu // REMOVE_PACK
	CmdAddNewPack
	CmdNone
)

// Command is the parsed form of an inbound reply. Raw always carries the
// original trimmed text so free-text states can fall back to it.
type Command struct {
	Kind   CommandKind
	Raw    string
	Arg    string
	Page   int
	Number int
}

var plainCommands = map[string]CommandKind{
	"START_ORDER":          CmdStartOrder,
	"GET_HELP":             CmdGetHelp,
	"BACK_CATEGORIES":      CmdBackCategories,
	"BACK_SUBCATEGORIES":   CmdBackSubcategories,
	"BACK_TO_MAIN":         CmdBackToMain,
	"BACK_TO_SUMMARY":      CmdBackToSummary,
	"BACK_TO_PACKS":        CmdBackToPacks,
	"BACK_TO_MENU":         CmdBackToMenu,
	"SEARCH":               CmdSearch,
	"FULL_MENU":            CmdFullMenu,
	"VIEW_MORE_CATEGORIES": CmdViewMoreCategories,
	"BROWSE_OTHERS":        CmdBrowseOthers,
	"ADD_MORE":             CmdAddMore,
	"PROCEED_CHECKOUT":     CmdProceedCheckout,
	"CONFIRM_ORDER":        CmdConfirmOrder,
	"CANCEL_ORDER":         CmdCancelOrder,
	"CONFIRM_CANCEL":       CmdConfirmCancel,
	"CONTINUE_ORDER":       CmdContinueOrder,
	"EDIT_ORDER":           CmdEditOrder,
	"ADD_ITEM":             CmdAddItem,
	"REMOVE_ITEM":          CmdRemoveItem,
	"APPLY_DISCOUNT":       CmdApplyDiscount,
	"DELIVERY":             CmdDelivery,
	"PICKUP":               CmdPickup,
	"LOCATION_NOT_LISTED":  CmdLocationNotListed,
	"CONFIRM_CLOSED_YES":   CmdConfirmClosedYes,
	"CONFIRM_CLOSED_NO":    CmdConfirmClosedNo,
	"PROCEED_DELIVERY":     CmdProceedDelivery,
	"SWITCH_TO_PICKUP":     CmdSwitchToPickup,
	"SWITCH_TO_PICKUP_YES": CmdSwitchToPickupYes,
	"SWITCH_TO_PICKUP_NO":  CmdSwitchToPickupNo,
	"SAVE_ADDRESS_YES":     CmdSaveAddressYes,
	"SAVE_ADDRESS_NO":      CmdSaveAddressNo,
	"SKIP_TOPPINGS":        CmdSkipToppings,
	"DONE_TOPPINGS":        CmdDoneToppings,
	"NO_TOPPINGS":          CmdNoToppings,
	"CANCEL_OPTIONS":       CmdCancelOptions,
	"ADD_PACK":             CmdPackAddMenu,
	"REMOVE_PACK":          CmdPackRemoveMenu,
	"ADD_NEW_PACK":         CmdAddNewPack,
	"_NEW_PACK":            CmdAddNewPack,
}

var prefixCommands = []struct {
	prefix string
	kind   CommandKind
	paged  bool
}{
	{"CAT_SET_", CmdCategorySet, false},
	{"CAT_PAGE_", CmdCategoryPage, true},
	{"CAT_", CmdCategory, false},
	{"SUBCAT_PAGE_", CmdSubcategoryPage, true},
	{"SUBCAT_", CmdSubcategory, false},
	{"OPT_PAGE_", CmdOptionPage, true},
	{"TOPPING_PAGE_", CmdToppingPage, true},
	{"ADD_PACK_", CmdAddPack, false},
	{"REMOVE_PACK_", CmdRemovePack, false},
}

// ParseCommand turns a raw inbound reply into a Command. Matching on tokens
// is exact and case-sensitive; only "none" is accepted case-insensitively.
func ParseCommand(raw string) Command {
	text := strings.TrimSpace(raw)
	cmd := Command{Kind: CmdText, Raw: text}
	if text == "" {
		return cmd
	}

	if kind, ok := plainCommands[text]; ok {
		cmd.Kind = kind
		return cmd
	}

	// Longer prefixes are listed before their shorter namesakes, so CAT_SET_
	// and CAT_PAGE_ win over CAT_.
	for _, p := range prefixCommands {
		if !strings.HasPrefix(text, p.prefix) {
			continue
		}
		cmd.Kind = p.kind
		cmd.Arg = strings.TrimPrefix(text, p.prefix)
		if p.paged {
			n, err := strconv.Atoi(cmd.Arg)
			if err != nil {
				cmd.Kind = CmdText
				cmd.Arg = ""
				return cmd
			}
			cmd.Page = n
		}
		return cmd
	}

	if strings.EqualFold(text, "none") {
		cmd.Kind = CmdNone
		return cmd
	}

	if n, err := strconv.Atoi(text); err == nil {
		cmd.Kind = CmdNumber
		cmd.Number = n
		return cmd
	}

	return cmd
}
