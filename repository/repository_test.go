package repository

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/superkingsely080296-boop/Comms-API-master/entity"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.Business{},
		&entity.OrderSession{},
		&entity.Order{}, &entity.OrderItem{},
		&entity.InboundMessage{},
	))
	return db
}

func TestSessionFindReturnsNilWhenMissing(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))

	s, err := repo.Find("biz1", "2348000000000")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestSessionRoundTripKeepsCartAndQueues(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))

	sess := &entity.OrderSession{
		BusinessID:   "biz1",
		PhoneNumber:  "2348000000000",
		CurrentState: entity.StateItemOptions,
		Cart: entity.Cart{Items: []entity.CartItem{
			{ItemID: "rice", Name: "Jollof Rice", Price: decimal.NewFromInt(2500), Quantity: 2, GroupingID: "g1", PackID: "pack1"},
		}},
		PendingParents: []entity.PendingParent{
			{ParentItemID: "combo1", GroupingID: "g1", Quantity: 2, Options: []entity.RecipeOption{{ItemID: "optA", ItemName: "Jollof"}}},
		},
		LastInteraction: time.Now(),
	}
	require.NoError(t, repo.Save(sess))

	got, err := repo.Find("biz1", "2348000000000")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.StateItemOptions, got.CurrentState)
	require.Len(t, got.Cart.Items, 1)
	assert.True(t, got.Cart.Items[0].Price.Equal(decimal.NewFromInt(2500)))
	require.Len(t, got.PendingParents, 1)
	assert.Equal(t, "combo1", got.PendingParents[0].ParentItemID)
}

func TestSessionFindRecoversFromCorruptBlobs(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))

	sess := &entity.OrderSession{
		BusinessID:   "biz1",
		PhoneNumber:  "2348000000000",
		CurrentState: entity.StateItemSelection,
		Cart: entity.Cart{Items: []entity.CartItem{
			{ItemID: "rice", Name: "Jollof Rice", Price: decimal.NewFromInt(2500), Quantity: 1, GroupingID: "g1", PackID: "pack1"},
		}},
		LastInteraction: time.Now(),
	}
	require.NoError(t, repo.Save(sess))
	require.NoError(t, repo.DB.Exec(
		"UPDATE order_sessions SET cart = ? WHERE id = ?", "{not json", sess.ID).Error)

	got, err := repo.Find("biz1", "2348000000000")
	require.NoError(t, err, "corrupt blob must not wedge the conversation")
	require.NotNil(t, got)
	assert.Equal(t, entity.StateItemSelection, got.CurrentState)
	assert.True(t, got.Cart.Empty(), "unreadable cart comes back empty")

	// The row was rewritten clean, so the plain read path works again.
	again, err := repo.Find("biz1", "2348000000000")
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.True(t, again.Cart.Empty())
}

func TestBusinessUpsertAndFind(t *testing.T) {
	repo := NewBusinessRepository(newTestDB(t))

	missing, err := repo.FindByBusinessID("biz1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.Upsert(&entity.Business{
		BusinessID: "biz1", RestaurantID: "rest1", BusinessName: "Mama Ada Kitchen",
	}))
	require.NoError(t, repo.Upsert(&entity.Business{
		BusinessID: "biz1", RestaurantID: "rest1", BusinessName: "Mama Ada Kitchen", CatalogID: "cat-42",
	}))

	got, err := repo.FindByBusinessID("biz1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "cat-42", got.CatalogID)

	all, err := repo.All()
	require.NoError(t, err)
	assert.Len(t, all, 1, "upsert keyed by business id, not duplicated")
}

func TestSessionDelete(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))

	sess := &entity.OrderSession{BusinessID: "biz1", PhoneNumber: "p1", LastInteraction: time.Now()}
	require.NoError(t, repo.Save(sess))
	require.NoError(t, repo.Delete(sess))

	got, err := repo.Find("biz1", "p1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Unsaved sessions are a no-op.
	assert.NoError(t, repo.Delete(&entity.OrderSession{}))
}

func TestSessionIdleBefore(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))

	old := &entity.OrderSession{BusinessID: "b", PhoneNumber: "p1", LastInteraction: time.Now().Add(-48 * time.Hour)}
	fresh := &entity.OrderSession{BusinessID: "b", PhoneNumber: "p2", LastInteraction: time.Now()}
	require.NoError(t, repo.Save(old))
	require.NoError(t, repo.Save(fresh))

	idle, err := repo.IdleBefore(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	require.Len(t, idle, 1)
	assert.Equal(t, "p1", idle[0].PhoneNumber)
}

func TestInboundMessageDedupe(t *testing.T) {
	repo := NewMessageRepository(newTestDB(t))

	first := &entity.InboundMessage{ProviderMessageID: "wamid.1", BusinessID: "b", PhoneNumber: "p", Kind: "text", Body: "hi"}
	dup, err := repo.StoreInbound(first)
	require.NoError(t, err)
	assert.False(t, dup)

	retry := &entity.InboundMessage{ProviderMessageID: "wamid.1", BusinessID: "b", PhoneNumber: "p", Kind: "text", Body: "hi"}
	dup, err = repo.StoreInbound(retry)
	require.NoError(t, err)
	assert.True(t, dup)
}

func TestOrderCreateAndFetchWithItems(t *testing.T) {
	repo := NewOrderRepository(newTestDB(t))

	order := &entity.Order{
		Reference:   "ref-1",
		Status:      "PENDING_PAYMENT",
		BusinessID:  "biz1",
		PhoneNumber: "p",
		Total:       decimal.NewFromInt(3000),
		OrderItems: []entity.OrderItem{
			{ItemID: "rice", Name: "Jollof Rice", UnitPrice: decimal.NewFromInt(2500), Quantity: 1, Total: decimal.NewFromInt(2500)},
			{ItemID: "top1", Name: "Extra Sausage", UnitPrice: decimal.NewFromInt(500), Quantity: 1, Total: decimal.NewFromInt(500), IsTopping: true},
		},
	}
	require.NoError(t, repo.Create(order))

	got, err := repo.FindByID(order.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ref-1", got.Reference)
	assert.Len(t, got.OrderItems, 2)

	list, err := repo.List("biz1", 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
