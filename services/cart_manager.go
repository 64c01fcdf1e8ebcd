package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/superkingsely080296-boop/Comms-API-master/entity"
)

// CartManager holds the cart mutation rules: grouping ids keep a composite
// item's parent, children and toppings together, pack ids split the cart
// into numbered packs.
type CartManager struct{}

func NewCartManager() *CartManager {
	return &CartManager{}
}

// Add appends an item into the cart.
func (m *CartManager) Add(cart *entity.Cart, item entity.CartItem) {
	cart.Items = append(cart.Items, item)
}

// Group returns every line sharing the grouping id, parent first.
func (m *CartManager) Group(cart *entity.Cart, groupingID string) []entity.CartItem {
	var out []entity.CartItem
	for _, it := range cart.Items {
		if it.GroupingID == groupingID {
			out = append(out, it)
		}
	}
	return out
}

// Children returns the zero-priced child lines of a grouping id.
func (m *CartManager) Children(cart *entity.Cart, groupingID string) []entity.CartItem {
	var out []entity.CartItem
	for _, it := range cart.Items {
		if it.GroupingID == groupingID && it.IsChild() {
			out = append(out, it)
		}
	}
	return out
}

// RemoveGroup drops every line with the grouping id.
func (m *CartManager) RemoveGroup(cart *entity.Cart, groupingID string) {
	kept := cart.Items[:0]
	for _, it := range cart.Items {
		if it.GroupingID != groupingID {
			kept = append(kept, it)
		}
	}
	cart.Items = kept
}

// RemoveChildren drops only the child lines of a grouping id, keeping the
// parent and toppings. Used when an edit rewrites a composite's selections.
func (m *CartManager) RemoveChildren(cart *entity.Cart, groupingID string) {
	kept := cart.Items[:0]
	for _, it := range cart.Items {
		if it.GroupingID == groupingID && it.IsChild() {
			continue
		}
		kept = append(kept, it)
	}
	cart.Items = kept
}

// PackIDs returns the distinct pack ids in first-appearance order.
func (m *CartManager) PackIDs(cart *entity.Cart) []string {
	seen := map[string]bool{}
	var out []string
	for _, it := range cart.Items {
		pid := it.PackID
		if pid == "" {
			pid = entity.DefaultPackID
		}
		if !seen[pid] {
			seen[pid] = true
			out = append(out, pid)
		}
	}
	return out
}

// ItemsByPack returns the top-level (non-child) lines of one pack.
func (m *CartManager) ItemsByPack(cart *entity.Cart, packID string) []entity.CartItem {
	var out []entity.CartItem
	for _, it := range cart.Items {
		pid := it.PackID
		if pid == "" {
			pid = entity.DefaultPackID
		}
		if pid == packID && !it.IsChild() {
			out = append(out, it)
		}
	}
	return out
}

// NextPackID mints the next sequential pack id. pack1 is the implicit
// default pack, so the first minted id is pack2 even when the cart is empty.
func (m *CartManager) NextPackID(cart *entity.Cart) string {
	max := 1
	for _, pid := range m.PackIDs(cart) {
		n, err := strconv.Atoi(strings.TrimPrefix(pid, "pack"))
		if err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("pack%d", max+1)
}

// RemovePack drops every line in a pack and renumbers the remaining packs so
// ids stay sequential from pack1.
func (m *CartManager) RemovePack(cart *entity.Cart, packID string) {
	kept := cart.Items[:0]
	for _, it := range cart.Items {
		pid := it.PackID
		if pid == "" {
			pid = entity.DefaultPackID
		}
		if pid != packID {
			kept = append(kept, it)
		}
	}
	cart.Items = kept
	m.renumberPacks(cart)
}

func (m *CartManager) renumberPacks(cart *entity.Cart) {
	old := m.PackIDs(cart)
	sort.Slice(old, func(i, j int) bool {
		a, _ := strconv.Atoi(strings.TrimPrefix(old[i], "pack"))
		b, _ := strconv.Atoi(strings.TrimPrefix(old[j], "pack"))
		return a < b
	})
	rename := map[string]string{}
	for i, pid := range old {
		rename[pid] = fmt.Sprintf("pack%d", i+1)
	}
	for i := range cart.Items {
		pid := cart.Items[i].PackID
		if pid == "" {
			pid = entity.DefaultPackID
		}
		cart.Items[i].PackID = rename[pid]
	}
}

// RemoveParent drops only the parent line of a grouping id, keeping its
// children and toppings for the replacement parent to adopt.
func (m *CartManager) RemoveParent(cart *entity.Cart, groupingID string) {
	kept := cart.Items[:0]
	for _, it := range cart.Items {
		if it.GroupingID == groupingID && !it.IsChild() && !it.IsTopping {
			continue
		}
		kept = append(kept, it)
	}
	cart.Items = kept
}

// NumberedEntry is one row of the removal menu. A row covers one composite
// grouping, or every standalone line of the same item merged together;
// GroupingIDs lists each grouping the row removes.
type NumberedEntry struct {
	Number      int
	GroupingID  string
	GroupingIDs []string
	ItemID      string
	Name        string
	Quantity    int
	PackID      string
}

// Numbered lists the cart's removable rows: composite groupings first,
// sorted by grouping id then item id, then standalone lines merged by item
// id with quantities summed. The numbers handed to the customer must match
// the ones resolved later, so both the prompt and the removal go through
// this one view.
func (m *CartManager) Numbered(cart *entity.Cart, packID string) []NumberedEntry {
	inPack := func(it entity.CartItem) bool {
		pid := it.PackID
		if pid == "" {
			pid = entity.DefaultPackID
		}
		return packID == "" || pid == packID
	}
	normPack := func(it entity.CartItem) string {
		if it.PackID == "" {
			return entity.DefaultPackID
		}
		return it.PackID
	}

	lines := map[string]int{}
	for _, it := range cart.Items {
		if inPack(it) {
			lines[it.GroupingID]++
		}
	}

	var out []NumberedEntry
	seen := map[string]bool{}
	for _, it := range cart.Items {
		if it.IsChild() || it.IsTopping || !inPack(it) {
			continue
		}
		if lines[it.GroupingID] < 2 || seen[it.GroupingID] {
			continue
		}
		seen[it.GroupingID] = true
		out = append(out, NumberedEntry{
			GroupingID:  it.GroupingID,
			GroupingIDs: []string{it.GroupingID},
			ItemID:      it.ItemID,
			Name:        it.Name,
			Quantity:    it.Quantity,
			PackID:      normPack(it),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].GroupingID != out[j].GroupingID {
			return out[i].GroupingID < out[j].GroupingID
		}
		return out[i].ItemID < out[j].ItemID
	})

	merged := map[string]int{}
	for _, it := range cart.Items {
		if it.IsChild() || it.IsTopping || !inPack(it) || lines[it.GroupingID] > 1 {
			continue
		}
		if idx, ok := merged[it.ItemID]; ok {
			out[idx].Quantity += it.Quantity
			out[idx].GroupingIDs = append(out[idx].GroupingIDs, it.GroupingID)
			continue
		}
		merged[it.ItemID] = len(out)
		out = append(out, NumberedEntry{
			GroupingID:  it.GroupingID,
			GroupingIDs: []string{it.GroupingID},
			ItemID:      it.ItemID,
			Name:        it.Name,
			Quantity:    it.Quantity,
			PackID:      normPack(it),
		})
	}
	standalone := out[len(out)-len(merged):]
	sort.SliceStable(standalone, func(i, j int) bool {
		return standalone[i].ItemID < standalone[j].ItemID
	})
	for i := range out {
		out[i].Number = i + 1
	}
	return out
}

// ResolveNumber maps a customer-entered number back to its grouping.
func (m *CartManager) ResolveNumber(cart *entity.Cart, packID string, number int) (NumberedEntry, bool) {
	for _, e := range m.Numbered(cart, packID) {
		if e.Number == number {
			return e, true
		}
	}
	return NumberedEntry{}, false
}
