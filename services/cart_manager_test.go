package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/superkingsely080296-boop/Comms-API-master/entity"
)

func addLine(m *CartManager, cart *entity.Cart, itemID, groupingID, packID string, topping bool) {
	m.Add(cart, entity.CartItem{
		ItemID:     itemID,
		Name:       itemID,
		Price:      decimal.NewFromInt(1000),
		Quantity:   1,
		GroupingID: groupingID,
		PackID:     packID,
		IsTopping:  topping,
	})
}

func TestRemoveGroupDropsParentChildrenAndToppings(t *testing.T) {
	m := NewCartManager()
	cart := &entity.Cart{}
	addLine(m, cart, "combo", "g1", "pack1", false)
	m.Add(cart, entity.CartItem{ItemID: "rice", GroupingID: "g1", ParentItemID: "combo", Quantity: 1})
	addLine(m, cart, "sauce", "g1", "pack1", true)
	addLine(m, cart, "suya", "g2", "pack1", false)

	m.RemoveGroup(cart, "g1")

	assert.Len(t, cart.Items, 1)
	assert.Equal(t, "suya", cart.Items[0].ItemID)
}

func TestNumberedSkipsChildrenAndToppings(t *testing.T) {
	m := NewCartManager()
	cart := &entity.Cart{}
	addLine(m, cart, "combo", "g1", "pack1", false)
	m.Add(cart, entity.CartItem{ItemID: "rice", GroupingID: "g1", ParentItemID: "combo", Quantity: 1})
	addLine(m, cart, "sauce", "g1", "pack1", true)
	addLine(m, cart, "suya", "g2", "pack1", false)

	entries := m.Numbered(cart, "pack1")

	assert.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Number)
	assert.Equal(t, "combo", entries[0].Name)
	assert.Equal(t, 2, entries[1].Number)
	assert.Equal(t, "suya", entries[1].Name)
}

func TestNumberedMergesDuplicateStandaloneItems(t *testing.T) {
	m := NewCartManager()
	cart := &entity.Cart{}
	addLine(m, cart, "cola", "g1", "pack1", false)
	addLine(m, cart, "suya", "g2", "pack1", false)
	addLine(m, cart, "cola", "g3", "pack1", false)

	entries := m.Numbered(cart, "pack1")

	assert.Len(t, entries, 2)
	assert.Equal(t, "cola", entries[0].Name)
	assert.Equal(t, 2, entries[0].Quantity)
	assert.ElementsMatch(t, []string{"g1", "g3"}, entries[0].GroupingIDs)
	assert.Equal(t, "suya", entries[1].Name)
	assert.Equal(t, []string{"g2"}, entries[1].GroupingIDs)
}

func TestNumberedListsCompositesBeforeStandalones(t *testing.T) {
	m := NewCartManager()
	cart := &entity.Cart{}
	addLine(m, cart, "burger", "g1", "pack1", false)
	addLine(m, cart, "combo", "g2", "pack1", false)
	m.Add(cart, entity.CartItem{ItemID: "rice", GroupingID: "g2", ParentItemID: "combo", Quantity: 1})

	entries := m.Numbered(cart, "pack1")

	assert.Len(t, entries, 2)
	assert.Equal(t, "combo", entries[0].Name)
	assert.Equal(t, "burger", entries[1].Name)
}

func TestRemoveParentKeepsChildrenAndToppings(t *testing.T) {
	m := NewCartManager()
	cart := &entity.Cart{}
	addLine(m, cart, "combo", "g1", "pack1", false)
	m.Add(cart, entity.CartItem{ItemID: "rice", GroupingID: "g1", ParentItemID: "combo", Quantity: 1})
	addLine(m, cart, "sauce", "g1", "pack1", true)

	m.RemoveParent(cart, "g1")

	assert.Len(t, cart.Items, 2)
	assert.Equal(t, "rice", cart.Items[0].ItemID)
	assert.Equal(t, "sauce", cart.Items[1].ItemID)
}

func TestResolveNumber(t *testing.T) {
	m := NewCartManager()
	cart := &entity.Cart{}
	addLine(m, cart, "combo", "g1", "pack1", false)
	addLine(m, cart, "suya", "g2", "pack1", false)

	entry, ok := m.ResolveNumber(cart, "pack1", 2)
	assert.True(t, ok)
	assert.Equal(t, "g2", entry.GroupingID)

	_, ok = m.ResolveNumber(cart, "pack1", 3)
	assert.False(t, ok)
	_, ok = m.ResolveNumber(cart, "pack1", 0)
	assert.False(t, ok)
}

func TestPackIDsFirstAppearanceOrder(t *testing.T) {
	m := NewCartManager()
	cart := &entity.Cart{}
	addLine(m, cart, "a", "g1", "pack2", false)
	addLine(m, cart, "b", "g2", "pack1", false)
	addLine(m, cart, "c", "g3", "pack2", false)

	assert.Equal(t, []string{"pack2", "pack1"}, m.PackIDs(cart))
}

func TestNextPackID(t *testing.T) {
	m := NewCartManager()
	cart := &entity.Cart{}
	assert.Equal(t, "pack2", m.NextPackID(cart))

	addLine(m, cart, "a", "g1", "pack3", false)
	assert.Equal(t, "pack4", m.NextPackID(cart))
}

func TestRemovePackRenumbersRemaining(t *testing.T) {
	m := NewCartManager()
	cart := &entity.Cart{}
	addLine(m, cart, "a", "g1", "pack1", false)
	addLine(m, cart, "b", "g2", "pack2", false)
	addLine(m, cart, "c", "g3", "pack3", false)

	m.RemovePack(cart, "pack2")

	assert.Equal(t, []string{"pack1", "pack2"}, m.PackIDs(cart))
	items := m.ItemsByPack(cart, "pack2")
	assert.Len(t, items, 1)
	assert.Equal(t, "c", items[0].ItemID)
}
