package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/superkingsely080296-boop/Comms-API-master/entity"
	"github.com/superkingsely080296-boop/Comms-API-master/repository"
)

// Prompt is a render instruction produced by a state handler. Handlers decide
// what the customer should see next; the UI service turns that decision into
// provider messages.
type Prompt interface{ prompt() }

type TextPrompt struct{ Body string }

// ErrorPrompt is a corrective message for rejected input or a failed
// operation. It renders as text with the business's support contacts
// appended so a stuck customer always has a way out.
type ErrorPrompt struct{ Body string }

type ButtonsPrompt struct {
	Body    string
	Buttons []Button
}

type FlowPrompt struct {
	Body     string
	FlowJSON string
}

type WelcomePrompt struct{ Name string }

type HelpPrompt struct{}

type LocationListPrompt struct{ Locations []Location }

// MainMenuPrompt shows the catalog entry point. Lead, when set, is prepended
// to the body (e.g. an error or confirmation line).
type MainMenuPrompt struct{ Lead string }

type CategoriesPrompt struct{ Page int }

type CategoryItemsPrompt struct {
	Category string
	Page     int
}

type SubcategoryItemsPrompt struct {
	Category    string
	Subcategory string
	Page        int
}

type SearchAskPrompt struct{}

type SearchResultsPrompt struct{ Query string }

// ItemOptionsPrompt renders the current option set of the head pending
// parent.
type ItemOptionsPrompt struct{ Page int }

// ToppingsPrompt renders the head pending-toppings entry.
type ToppingsPrompt struct{ Page int }

// SummaryPrompt renders the priced order summary. The quote is computed by
// the handler so charge validation happens at decision time.
type SummaryPrompt struct{ Quote Quote }

type PostAddPrompt struct{ ItemName string }

type EditMenuPrompt struct{}

type RemoveItemPrompt struct{ PackID string }

// PackMenuPrompt lists the cart's packs for selection.
type PackMenuPrompt struct{ Removing bool }

type DeliveryMethodPrompt struct{}

type DeliveryChargesPrompt struct{ Charges []Charge }

type NotesPrompt struct{}

type AddressPrompt struct{ Saved string }

type AddressSavePrompt struct{}

type ContactPhonePrompt struct{ Saved string }

type CancelConfirmPrompt struct{}

type DiscountAskPrompt struct{}

func (TextPrompt) prompt()             {}
func (ErrorPrompt) prompt()            {}
func (ButtonsPrompt) prompt()          {}
func (FlowPrompt) prompt()             {}
func (WelcomePrompt) prompt()          {}
func (HelpPrompt) prompt()             {}
func (LocationListPrompt) prompt()     {}
func (MainMenuPrompt) prompt()         {}
func (CategoriesPrompt) prompt()       {}
func (CategoryItemsPrompt) prompt()    {}
func (SubcategoryItemsPrompt) prompt() {}
func (SearchAskPrompt) prompt()        {}
func (SearchResultsPrompt) prompt()    {}
func (ItemOptionsPrompt) prompt()      {}
func (ToppingsPrompt) prompt()         {}
func (SummaryPrompt) prompt()          {}
func (PostAddPrompt) prompt()          {}
func (EditMenuPrompt) prompt()         {}
func (RemoveItemPrompt) prompt()       {}
func (PackMenuPrompt) prompt()         {}
func (DeliveryMethodPrompt) prompt()   {}
func (DeliveryChargesPrompt) prompt()  {}
func (NotesPrompt) prompt()            {}
func (AddressPrompt) prompt()          {}
func (AddressSavePrompt) prompt()      {}
func (ContactPhonePrompt) prompt()     {}
func (CancelConfirmPrompt) prompt()    {}
func (DiscountAskPrompt) prompt()      {}

const (
	// Paged lists carry up to three navigation rows after the page, so the
	// page itself stays at seven to fit the provider's ten-row cap.
	pageSize          = 7
	fullCatalogMax    = 30
	featuredMin       = 5
	currency          = "₦"
	menuLevelMain     = "MAIN"
	menuLevelSmall    = "MAIN_SMALL"
	menuLevelCategory = "CATEGORY"
	menuLevelSubcat   = "SUBCATEGORY"
)

var ordinals = []string{"first", "second", "third", "fourth", "fifth", "sixth", "seventh", "eighth"}

func ordinal(i int) string {
	if i >= 0 && i < len(ordinals) {
		return ordinals[i]
	}
	return fmt.Sprintf("%dth", i+1)
}

func money(d interface{ StringFixed(int32) string }) string {
	return currency + d.StringFixed(2)
}

// OrderUIService renders prompt instructions into outbound messages. It may
// read the catalog to fill lists, and records the menu breadcrumbs it shows
// on the session so back-navigation knows where the customer is.
type OrderUIService struct {
	catalog    CatalogProvider
	gateway    MessagingGateway
	cart       *CartManager
	businesses *repository.BusinessRepository
	log        *logrus.Logger
}

func NewOrderUIService(catalog CatalogProvider, gateway MessagingGateway, cart *CartManager, businesses *repository.BusinessRepository, log *logrus.Logger) *OrderUIService {
	return &OrderUIService{catalog: catalog, gateway: gateway, cart: cart, businesses: businesses, log: log}
}

// Render sends every prompt in order. The first send failure aborts the
// remainder.
func (u *OrderUIService) Render(ctx context.Context, sess *entity.OrderSession, prompts []Prompt) error {
	for _, p := range prompts {
		if err := u.renderOne(ctx, sess, p); err != nil {
			return err
		}
	}
	return nil
}

func (u *OrderUIService) renderOne(ctx context.Context, sess *entity.OrderSession, p Prompt) error {
	to := sess.PhoneNumber
	biz := sess.BusinessID
	switch v := p.(type) {
	case TextPrompt:
		return u.gateway.SendText(ctx, biz, to, v.Body)
	case ErrorPrompt:
		return u.gateway.SendText(ctx, biz, to, v.Body+helpFooter(sess))
	case ButtonsPrompt:
		return u.gateway.SendButtons(ctx, biz, to, v.Body, v.Buttons)
	case FlowPrompt:
		return u.gateway.SendFlow(ctx, biz, to, v.Body, v.FlowJSON)
	case WelcomePrompt:
		body := "Welcome! I can take your order right here."
		if v.Name != "" {
			body = fmt.Sprintf("Hi %s! I can take your order right here.", v.Name)
		}
		return u.gateway.SendButtons(ctx, biz, to, body, []Button{
			{ID: "START_ORDER", Title: "Start Order"},
			{ID: "GET_HELP", Title: "Get Help"},
		})
	case HelpPrompt:
		return u.gateway.SendText(ctx, biz, to, u.helpBody(sess))
	case LocationListPrompt:
		return u.renderLocations(ctx, sess, v.Locations)
	case MainMenuPrompt:
		return u.renderMainMenu(ctx, sess, v.Lead)
	case CategoriesPrompt:
		return u.renderCategories(ctx, sess, v.Page)
	case CategoryItemsPrompt:
		return u.renderCategory(ctx, sess, v.Category, v.Page)
	case SubcategoryItemsPrompt:
		return u.renderSubcategory(ctx, sess, v.Category, v.Subcategory, v.Page)
	case SearchAskPrompt:
		return u.gateway.SendText(ctx, biz, to, "What are you looking for? Type a name and I'll search the menu.")
	case SearchResultsPrompt:
		return u.renderSearchResults(ctx, sess, v.Query)
	case ItemOptionsPrompt:
		return u.renderItemOptions(ctx, sess, v.Page)
	case ToppingsPrompt:
		return u.renderToppings(ctx, sess, v.Page)
	case SummaryPrompt:
		return u.renderSummary(ctx, sess, v.Quote)
	case PostAddPrompt:
		return u.renderPostAdd(ctx, sess, v.ItemName)
	case EditMenuPrompt:
		return u.renderEditMenu(ctx, sess)
	case RemoveItemPrompt:
		return u.renderRemovePrompt(ctx, sess, v.PackID)
	case PackMenuPrompt:
		return u.renderPackMenu(ctx, sess, v.Removing)
	case DeliveryMethodPrompt:
		return u.gateway.SendButtons(ctx, biz, to, "How would you like to get your order?", []Button{
			{ID: "DELIVERY", Title: "Delivery"},
			{ID: "PICKUP", Title: "Pickup"},
		})
	case DeliveryChargesPrompt:
		return u.renderDeliveryCharges(ctx, sess, v.Charges)
	case NotesPrompt:
		return u.gateway.SendText(ctx, biz, to,
			"Any notes for your order? (e.g. allergies, extra spicy)\n\nReply *none* if there's nothing to add.")
	case AddressPrompt:
		body := "Please type your delivery address."
		if v.Saved != "" {
			body = fmt.Sprintf("Please type your delivery address.\n\nLast time you used:\n%s\n\nSend it again or type a new one.", v.Saved)
		}
		return u.gateway.SendText(ctx, biz, to, body)
	case AddressSavePrompt:
		return u.gateway.SendButtons(ctx, biz, to, "Save this address for next time?", []Button{
			{ID: "SAVE_ADDRESS_YES", Title: "Yes, save it"},
			{ID: "SAVE_ADDRESS_NO", Title: "No thanks"},
		})
	case ContactPhonePrompt:
		body := "What phone number should the rider call?"
		if v.Saved != "" {
			body = fmt.Sprintf("What phone number should the rider call?\n\nLast time you used %s. Send it again or type a new one.", v.Saved)
		}
		return u.gateway.SendText(ctx, biz, to, body)
	case CancelConfirmPrompt:
		return u.gateway.SendButtons(ctx, biz, to, "Are you sure you want to cancel this order?", []Button{
			{ID: "CONFIRM_CANCEL", Title: "Yes, cancel"},
			{ID: "CONTINUE_ORDER", Title: "Keep ordering"},
		})
	case DiscountAskPrompt:
		return u.gateway.SendText(ctx, biz, to, "Please type your discount code.")
	default:
		u.log.Warnf("unhandled prompt type %T", p)
		return nil
	}
}

// helpFooter is the support-contact line appended to corrective and failure
// messages. Empty before a location (and its business profile) is known.
func helpFooter(sess *entity.OrderSession) string {
	var parts []string
	if sess.HelpPhone != "" {
		parts = append(parts, sess.HelpPhone)
	}
	if sess.HelpEmail != "" {
		parts = append(parts, sess.HelpEmail)
	}
	if len(parts) == 0 {
		return ""
	}
	return "\n\nNeed help? Reach us at " + strings.Join(parts, " or ") + "."
}

// RenderFailure tells the customer something went wrong on our side. The
// session state is left untouched so the next message retries from the same
// point.
func (u *OrderUIService) RenderFailure(ctx context.Context, sess *entity.OrderSession) error {
	body := "Sorry, something went wrong on our end. Please try again in a moment." + helpFooter(sess)
	return u.gateway.SendText(ctx, sess.BusinessID, sess.PhoneNumber, body)
}

func (u *OrderUIService) helpBody(sess *entity.OrderSession) string {
	var b strings.Builder
	b.WriteString("Need a hand? Our team is happy to help.")
	if sess.HelpEmail != "" {
		b.WriteString("\nEmail: " + sess.HelpEmail)
	}
	if sess.HelpPhone != "" {
		b.WriteString("\nPhone: " + sess.HelpPhone)
	}
	return b.String()
}

func (u *OrderUIService) renderLocations(ctx context.Context, sess *entity.OrderSession, locations []Location) error {
	rows := make([]ListRow, 0, len(locations))
	for _, loc := range locations {
		desc := "Open now"
		if !loc.IsOpen {
			desc = fmt.Sprintf("Closed, opens %s", loc.OpensAt)
		}
		rows = append(rows, NewListRow(loc.ID, loc.Name, desc))
	}
	sections := []ListSection{{Title: "Our locations", Rows: rows}}
	return u.gateway.SendList(ctx, sess.BusinessID, sess.PhoneNumber,
		"Which location would you like to order from?", "Choose location", sections)
}

// renderMainMenu applies the catalog tiering: small catalogs show every item,
// larger ones show featured picks (or an alphabetical sample when too few are
// featured) plus search and browse entry points.
func (u *OrderUIService) renderMainMenu(ctx context.Context, sess *entity.OrderSession, lead string) error {
	items, err := u.catalog.Items(ctx, sess.BusinessID, sess.LocationID)
	if err != nil {
		return err
	}
	sess.CurrentMenuLevel = menuLevelMain
	sess.CurrentCategoryGroup = ""
	sess.CurrentSubcategoryGroup = ""

	body := "Here's our menu. Pick something you like!"
	if lead != "" {
		body = lead + "\n\n" + body
	}

	if len(items) <= fullCatalogMax {
		// Small catalogs skip the post-add menu and head straight to
		// checkout after a selection.
		sess.CurrentMenuLevel = menuLevelSmall
		return u.sendProductCatalog(ctx, sess, "Menu", body, items, false)
	}

	featured := make([]CatalogItem, 0, len(items))
	for _, it := range items {
		if it.Featured {
			featured = append(featured, it)
		}
	}
	if len(featured) < featuredMin {
		sample := append([]CatalogItem(nil), items...)
		sort.Slice(sample, func(i, j int) bool { return sample[i].Name < sample[j].Name })
		if len(sample) > fullCatalogMax {
			sample = sample[:fullCatalogMax]
		}
		return u.sendProductCatalog(ctx, sess, "Menu", body, sample, true)
	}
	return u.sendProductCatalog(ctx, sess, "Popular picks", body, featured, true)
}

// sendProductCatalog shows a set of items as a product catalog message when
// the business has a synced catalog id, followed by the search/browse/
// checkout action buttons. Businesses without one fall back to an
// interactive list trimmed to the provider's row cap.
func (u *OrderUIService) sendProductCatalog(ctx context.Context, sess *entity.OrderSession, title, body string, items []CatalogItem, browsable bool) error {
	biz, err := u.businesses.FindByBusinessID(sess.BusinessID)
	if err != nil {
		return err
	}
	if biz != nil && biz.CatalogID != "" {
		ids := make([]string, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.ID)
		}
		err := u.gateway.SendCatalog(ctx, sess.BusinessID, sess.PhoneNumber,
			title, body, biz.CatalogID, catalogSections(title, ids))
		if err != nil {
			return err
		}
		return u.sendMenuActions(ctx, sess, browsable)
	}

	keep := maxListRows - 1
	if browsable {
		keep = maxListRows - 3
	}
	if !sess.Cart.Empty() {
		keep--
	}
	if len(items) > keep {
		items = items[:keep]
	}
	rows := itemRows(items)
	if browsable {
		rows = append(rows,
			NewListRow("SEARCH", "Search the menu", "Find an item by name"),
			NewListRow("FULL_MENU", "Browse full menu", "See everything by category"),
		)
	} else {
		rows = append(rows, NewListRow("FULL_MENU", "Browse full menu", "See everything by category"))
	}
	rows = append(rows, u.cartRows(sess)...)
	return u.gateway.SendList(ctx, sess.BusinessID, sess.PhoneNumber,
		body, "View menu", []ListSection{{Title: title, Rows: rows}})
}

// sendMenuActions sends the follow-up buttons after a catalog message, which
// can only carry products itself.
func (u *OrderUIService) sendMenuActions(ctx context.Context, sess *entity.OrderSession, browsable bool) error {
	var buttons []Button
	if browsable {
		buttons = append(buttons,
			Button{ID: "SEARCH", Title: "Search"},
			Button{ID: "FULL_MENU", Title: "Full menu"},
		)
	}
	if !sess.Cart.Empty() {
		buttons = append(buttons, Button{ID: "PROCEED_CHECKOUT", Title: "Checkout"})
	}
	if len(buttons) == 0 {
		return nil
	}
	return u.gateway.SendButtons(ctx, sess.BusinessID, sess.PhoneNumber,
		"Tap an item above to add it to your order.", buttons)
}

// catalogSections chunks product ids into sections of at most ten, the
// provider's per-section product cap.
func catalogSections(title string, ids []string) []CatalogSection {
	var out []CatalogSection
	for start := 0; start < len(ids); start += maxCatalogSectionRows {
		end := start + maxCatalogSectionRows
		if end > len(ids) {
			end = len(ids)
		}
		t := title
		if len(ids) > maxCatalogSectionRows {
			t = fmt.Sprintf("%s %d", title, len(out)+1)
		}
		out = append(out, CatalogSection{Title: t, ProductIDs: ids[start:end]})
	}
	return out
}

func (u *OrderUIService) cartRows(sess *entity.OrderSession) []ListRow {
	if sess.Cart.Empty() {
		return nil
	}
	return []ListRow{NewListRow("PROCEED_CHECKOUT", "Checkout", "Review and place your order")}
}

func itemRows(items []CatalogItem) []ListRow {
	rows := make([]ListRow, 0, len(items))
	for _, it := range items {
		desc := it.Description
		if desc == "" {
			desc = money(it.Price)
		} else {
			desc = money(it.Price) + " - " + desc
		}
		rows = append(rows, NewListRow(it.ID, it.Name, desc))
	}
	return rows
}

func paginate[T any](items []T, page int) (slice []T, hasMore bool) {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil, false
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], end < len(items)
}

func (u *OrderUIService) renderCategories(ctx context.Context, sess *entity.OrderSession, page int) error {
	items, err := u.catalog.Items(ctx, sess.BusinessID, sess.LocationID)
	if err != nil {
		return err
	}
	seen := map[string]int{}
	var cats []string
	for _, it := range items {
		if it.CategoryGroup == "" {
			continue
		}
		if _, ok := seen[it.CategoryGroup]; !ok {
			cats = append(cats, it.CategoryGroup)
		}
		seen[it.CategoryGroup]++
	}
	sort.Strings(cats)

	pageCats, more := paginate(cats, page)
	rows := make([]ListRow, 0, len(pageCats)+3)
	for _, c := range pageCats {
		rows = append(rows, NewListRow("CAT_SET_"+c, c, fmt.Sprintf("%d items", seen[c])))
	}
	if more {
		rows = append(rows, NewListRow(fmt.Sprintf("CAT_PAGE_%d", page+1), "More categories", ""))
	}
	rows = append(rows, NewListRow("BACK_TO_MAIN", "Back to menu", ""))
	rows = append(rows, u.cartRows(sess)...)

	sess.CurrentMenuLevel = menuLevelMain
	sess.CurrentCategoryGroup = ""
	sess.CurrentSubcategoryGroup = ""
	return u.gateway.SendList(ctx, sess.BusinessID, sess.PhoneNumber,
		"Browse our menu by category.", "Categories", []ListSection{{Title: "Categories", Rows: rows}})
}

// renderCategory lists a category's items, or its subcategories when the
// category is too large to page through flat.
func (u *OrderUIService) renderCategory(ctx context.Context, sess *entity.OrderSession, category string, page int) error {
	items, err := u.catalog.Items(ctx, sess.BusinessID, sess.LocationID)
	if err != nil {
		return err
	}
	var inCat []CatalogItem
	subSeen := map[string]bool{}
	var subs []string
	for _, it := range items {
		if it.CategoryGroup != category {
			continue
		}
		inCat = append(inCat, it)
		if it.Subcategory != "" && !subSeen[it.Subcategory] {
			subSeen[it.Subcategory] = true
			subs = append(subs, it.Subcategory)
		}
	}
	sess.CurrentMenuLevel = menuLevelCategory
	sess.CurrentCategoryGroup = category
	sess.CurrentSubcategoryGroup = ""

	if len(inCat) > fullCatalogMax && len(subs) > 0 {
		sort.Strings(subs)
		pageSubs, more := paginate(subs, page)
		rows := make([]ListRow, 0, len(pageSubs)+3)
		for _, sub := range pageSubs {
			rows = append(rows, NewListRow("SUBCAT_"+sub, sub, ""))
		}
		if more {
			rows = append(rows, NewListRow(fmt.Sprintf("SUBCAT_PAGE_%d", page+1), "More", ""))
		}
		rows = append(rows, NewListRow("BACK_CATEGORIES", "Back to categories", ""))
		rows = append(rows, u.cartRows(sess)...)
		return u.gateway.SendList(ctx, sess.BusinessID, sess.PhoneNumber,
			fmt.Sprintf("%s - pick a section.", category), "Sections",
			[]ListSection{{Title: category, Rows: rows}})
	}

	sort.Slice(inCat, func(i, j int) bool { return inCat[i].Name < inCat[j].Name })
	pageItems, more := paginate(inCat, page)
	rows := itemRows(pageItems)
	if more {
		rows = append(rows, NewListRow(fmt.Sprintf("CAT_PAGE_%d", page+1), "More items", ""))
	}
	rows = append(rows, NewListRow("BACK_CATEGORIES", "Back to categories", ""))
	rows = append(rows, u.cartRows(sess)...)
	return u.gateway.SendList(ctx, sess.BusinessID, sess.PhoneNumber,
		fmt.Sprintf("Here's what we have in %s.", category), "View items",
		[]ListSection{{Title: category, Rows: rows}})
}

func (u *OrderUIService) renderSubcategory(ctx context.Context, sess *entity.OrderSession, category, sub string, page int) error {
	items, err := u.catalog.Items(ctx, sess.BusinessID, sess.LocationID)
	if err != nil {
		return err
	}
	var inSub []CatalogItem
	for _, it := range items {
		if it.CategoryGroup == category && it.Subcategory == sub {
			inSub = append(inSub, it)
		}
	}
	sort.Slice(inSub, func(i, j int) bool { return inSub[i].Name < inSub[j].Name })
	sess.CurrentMenuLevel = menuLevelSubcat
	sess.CurrentCategoryGroup = category
	sess.CurrentSubcategoryGroup = sub

	pageItems, more := paginate(inSub, page)
	rows := itemRows(pageItems)
	if more {
		rows = append(rows, NewListRow(fmt.Sprintf("SUBCAT_PAGE_%d", page+1), "More items", ""))
	}
	rows = append(rows, NewListRow("BACK_SUBCATEGORIES", "Back to sections", ""))
	rows = append(rows, u.cartRows(sess)...)
	return u.gateway.SendList(ctx, sess.BusinessID, sess.PhoneNumber,
		fmt.Sprintf("%s - %s.", category, sub), "View items",
		[]ListSection{{Title: sub, Rows: rows}})
}

func (u *OrderUIService) renderSearchResults(ctx context.Context, sess *entity.OrderSession, query string) error {
	results, err := u.catalog.SearchItems(ctx, sess.BusinessID, sess.LocationID, query)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return u.gateway.SendButtons(ctx, sess.BusinessID, sess.PhoneNumber,
			fmt.Sprintf("No matches for \"%s\". Try another name, or browse the menu.", query),
			[]Button{
				{ID: "FULL_MENU", Title: "Browse menu"},
				{ID: "BACK_TO_MAIN", Title: "Main menu"},
			})
	}
	if len(results) > fullCatalogMax {
		results = results[:fullCatalogMax]
	}
	return u.sendProductCatalog(ctx, sess, "Search results",
		fmt.Sprintf("Here's what I found for \"%s\".", query), results, true)
}

func (u *OrderUIService) renderItemOptions(ctx context.Context, sess *entity.OrderSession, page int) error {
	if len(sess.PendingParents) == 0 {
		return nil
	}
	p := sess.PendingParents[0]
	pageOpts, more := paginate(p.Options, page)
	rows := make([]ListRow, 0, len(pageOpts)+2)
	for _, o := range pageOpts {
		rows = append(rows, NewListRow(o.ItemID, o.ItemName, ""))
	}
	if more {
		rows = append(rows, NewListRow(fmt.Sprintf("OPT_PAGE_%d", page+1), "More options", ""))
	}
	rows = append(rows, NewListRow("CANCEL_OPTIONS", "Cancel this item", ""))

	body := fmt.Sprintf("Choose the %s option for your %s.", ordinal(p.OptionSetIndex), p.ParentItemName)
	if p.TotalOptionSets > 1 {
		body = fmt.Sprintf("%s (%d of %d)", body, p.OptionSetIndex+1, p.TotalOptionSets)
	}
	if p.Quantity > 1 {
		body = fmt.Sprintf("%s\nSelection %d of %d.", body, p.CurrentOptionIndex+1, p.Quantity)
	}
	return u.gateway.SendList(ctx, sess.BusinessID, sess.PhoneNumber,
		body, "Choose option", []ListSection{{Title: p.ParentItemName, Rows: rows}})
}

func (u *OrderUIService) renderToppings(ctx context.Context, sess *entity.OrderSession, page int) error {
	if len(sess.PendingToppingsQueue) == 0 {
		return nil
	}
	t := sess.PendingToppingsQueue[0]
	selected := map[string]bool{}
	for _, id := range t.SelectedToppingIDs {
		selected[id] = true
	}
	var available []entity.ToppingOption
	for _, opt := range t.Toppings {
		if !selected[opt.ID] {
			available = append(available, opt)
		}
	}
	pageOpts, more := paginate(available, page)
	rows := make([]ListRow, 0, len(pageOpts)+2)
	for _, o := range pageOpts {
		rows = append(rows, NewListRow(o.ID, o.Name, money(o.Price)))
	}
	if more {
		rows = append(rows, NewListRow(fmt.Sprintf("TOPPING_PAGE_%d", page+1), "More toppings", ""))
	}
	if len(t.SelectedToppingIDs) > 0 {
		rows = append(rows, NewListRow("DONE_TOPPINGS", "Done", "Finish adding toppings"))
	} else {
		rows = append(rows, NewListRow("SKIP_TOPPINGS", "No toppings", "Continue without toppings"))
	}
	body := fmt.Sprintf("Would you like any toppings on your %s?", t.MainItemName)
	if len(t.SelectedToppingIDs) > 0 {
		body = fmt.Sprintf("Added %d topping(s) to your %s. Anything else?", len(t.SelectedToppingIDs), t.MainItemName)
	}
	return u.gateway.SendList(ctx, sess.BusinessID, sess.PhoneNumber,
		body, "Toppings", []ListSection{{Title: t.MainItemName, Rows: rows}})
}

// renderSummary writes the priced order with its pack sections and sends the
// confirmation buttons.
func (u *OrderUIService) renderSummary(ctx context.Context, sess *entity.OrderSession, q Quote) error {
	var b strings.Builder
	b.WriteString("*Your order*\n")

	packs := u.cart.PackIDs(&sess.Cart)
	multi := len(packs) > 1
	for i, pid := range packs {
		if multi {
			b.WriteString(fmt.Sprintf("\n*Pack %d*\n", i+1))
		} else {
			b.WriteString("\n")
		}
		for _, it := range u.cart.ItemsByPack(&sess.Cart, pid) {
			b.WriteString(fmt.Sprintf("%dx %s - %s\n", it.Quantity, it.Name, money(it.LineTotal())))
			for _, child := range u.cart.Children(&sess.Cart, it.GroupingID) {
				b.WriteString(fmt.Sprintf("   - %s\n", child.Name))
			}
		}
	}

	b.WriteString(fmt.Sprintf("\nSubtotal: %s\n", money(q.Subtotal)))
	if q.Tax.IsPositive() {
		b.WriteString(fmt.Sprintf("Tax: %s\n", money(q.Tax)))
	}
	for _, c := range q.ChargeLines {
		if c.Count > 1 {
			b.WriteString(fmt.Sprintf("%s x%d: %s\n", c.Name, c.Count, money(c.Total)))
		} else {
			b.WriteString(fmt.Sprintf("%s: %s\n", c.Name, money(c.Total)))
		}
	}
	if q.DiscountAmount.IsPositive() {
		b.WriteString(fmt.Sprintf("Discount (%s): -%s\n", sess.DiscountCode, money(q.DiscountAmount)))
	}
	b.WriteString(fmt.Sprintf("*Total: %s*\n", money(q.Total)))

	if sess.DeliveryMethod == entity.MethodDelivery {
		b.WriteString(fmt.Sprintf("\nDelivery to: %s", sess.DeliveryAddress))
		if sess.DeliveryContactPhone != "" {
			b.WriteString(fmt.Sprintf("\nContact: %s", sess.DeliveryContactPhone))
		}
	} else if sess.DeliveryMethod == entity.MethodPickup {
		b.WriteString("\nPickup at the restaurant.")
	}
	if sess.Notes != "" {
		b.WriteString(fmt.Sprintf("\nNotes: %s", sess.Notes))
	}

	return u.gateway.SendButtons(ctx, sess.BusinessID, sess.PhoneNumber, b.String(), []Button{
		{ID: "CONFIRM_ORDER", Title: "Confirm order"},
		{ID: "EDIT_ORDER", Title: "Edit order"},
		{ID: "CANCEL_ORDER", Title: "Cancel"},
	})
}

func (u *OrderUIService) renderPostAdd(ctx context.Context, sess *entity.OrderSession, itemName string) error {
	body := fmt.Sprintf("%s added to your order!", itemName)
	buttons := []Button{
		{ID: "ADD_MORE", Title: "Add more"},
		{ID: "PROCEED_CHECKOUT", Title: "Checkout"},
	}
	return u.gateway.SendButtons(ctx, sess.BusinessID, sess.PhoneNumber, body, buttons)
}

func (u *OrderUIService) renderEditMenu(ctx context.Context, sess *entity.OrderSession) error {
	rows := []ListRow{
		NewListRow("ADD_ITEM", "Add an item", ""),
		NewListRow("REMOVE_ITEM", "Remove an item", ""),
	}
	packs := len(u.cart.PackIDs(&sess.Cart))
	if packs > 0 {
		rows = append(rows, NewListRow("ADD_NEW_PACK", "Add a new pack", "Start another pack"))
	}
	if packs > 1 {
		rows = append(rows,
			NewListRow("ADD_PACK", "Add to a pack", "Pick which pack new items join"),
			NewListRow("REMOVE_PACK", "Remove a pack", ""),
		)
	}
	rows = append(rows, NewListRow("BACK_TO_SUMMARY", "Back to summary", ""))
	return u.gateway.SendList(ctx, sess.BusinessID, sess.PhoneNumber,
		"What would you like to change?", "Edit order", []ListSection{{Title: "Edit order", Rows: rows}})
}

func (u *OrderUIService) renderRemovePrompt(ctx context.Context, sess *entity.OrderSession, packID string) error {
	entries := u.cart.Numbered(&sess.Cart, packID)
	var b strings.Builder
	b.WriteString("Reply with the number of the item to remove:\n\n")
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("%d. %dx %s\n", e.Number, e.Quantity, e.Name))
	}
	if packID != "" && len(u.cart.PackIDs(&sess.Cart)) > 1 {
		b.WriteString("\n0. Remove this whole pack")
	}
	return u.gateway.SendText(ctx, sess.BusinessID, sess.PhoneNumber, b.String())
}

func (u *OrderUIService) renderPackMenu(ctx context.Context, sess *entity.OrderSession, removing bool) error {
	packs := u.cart.PackIDs(&sess.Cart)
	rows := make([]ListRow, 0, len(packs)+2)
	prefix := "ADD_PACK_"
	body := "Which pack should this go in?"
	if removing {
		prefix = "REMOVE_PACK_"
		body = "Which pack should I remove?"
	}
	for i, pid := range packs {
		count := len(u.cart.ItemsByPack(&sess.Cart, pid))
		rows = append(rows, NewListRow(prefix+pid, fmt.Sprintf("Pack %d", i+1), fmt.Sprintf("%d item(s)", count)))
	}
	if !removing {
		rows = append(rows, NewListRow("ADD_NEW_PACK", "New pack", "Start a fresh pack"))
	}
	rows = append(rows, NewListRow("BACK_TO_SUMMARY", "Back to summary", ""))
	return u.gateway.SendList(ctx, sess.BusinessID, sess.PhoneNumber,
		body, "Packs", []ListSection{{Title: "Packs", Rows: rows}})
}

func (u *OrderUIService) renderDeliveryCharges(ctx context.Context, sess *entity.OrderSession, charges []Charge) error {
	rows := make([]ListRow, 0, len(charges)+1)
	for _, c := range charges {
		rows = append(rows, NewListRow(c.ID, c.Name, money(c.Amount)))
	}
	rows = append(rows, NewListRow("LOCATION_NOT_LISTED", "My area isn't listed", "Switch to pickup"))
	return u.gateway.SendList(ctx, sess.BusinessID, sess.PhoneNumber,
		"Where should we deliver? Pick your area.", "Delivery areas",
		[]ListSection{{Title: "Delivery areas", Rows: rows}})
}
