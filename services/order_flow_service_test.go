package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/superkingsely080296-boop/Comms-API-master/entity"
	"github.com/superkingsely080296-boop/Comms-API-master/repository"
)

type gatewayCall struct {
	kind string
	body string
}

type catalogCall struct {
	catalogID string
	sections  []CatalogSection
}

type recordingGateway struct {
	calls    []gatewayCall
	buttons  [][]Button
	sections [][]ListSection
	catalogs []catalogCall
}

func (g *recordingGateway) SendText(ctx context.Context, businessID, to, body string) error {
	g.calls = append(g.calls, gatewayCall{kind: "text", body: body})
	return nil
}

func (g *recordingGateway) SendButtons(ctx context.Context, businessID, to, body string, buttons []Button) error {
	g.calls = append(g.calls, gatewayCall{kind: "buttons", body: body})
	g.buttons = append(g.buttons, buttons)
	return nil
}

func (g *recordingGateway) SendList(ctx context.Context, businessID, to, body, buttonLabel string, sections []ListSection) error {
	g.calls = append(g.calls, gatewayCall{kind: "list", body: body})
	g.sections = append(g.sections, sections)
	return nil
}

func (g *recordingGateway) SendCatalog(ctx context.Context, businessID, to, header, body, catalogID string, sections []CatalogSection) error {
	g.calls = append(g.calls, gatewayCall{kind: "catalog", body: body})
	g.catalogs = append(g.catalogs, catalogCall{catalogID: catalogID, sections: sections})
	return nil
}

func (g *recordingGateway) SendFlow(ctx context.Context, businessID, to, body, flowJSON string) error {
	g.calls = append(g.calls, gatewayCall{kind: "flow", body: body})
	return nil
}

type flowHarness struct {
	flow       *OrderFlowService
	sessions   *SessionService
	gateway    *recordingGateway
	catalog    *fakeCatalog
	businesses *repository.BusinessRepository
}

func newFlowHarness(t *testing.T, cat *fakeCatalog) *flowHarness {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.Business{}, &entity.OrderSession{}, &entity.Order{}, &entity.OrderItem{}))

	log := quietLogger()
	cart := NewCartManager()
	sessions := NewSessionService(repository.NewSessionRepository(db), log, time.Hour, time.Minute)
	state := NewOrderStateService(cat, &fakeProfile{}, cart, NewPricingService(), NewValidationService(),
		repository.NewOrderRepository(db), nil, log)
	gateway := &recordingGateway{}
	businesses := repository.NewBusinessRepository(db)
	ui := NewOrderUIService(cat, gateway, cart, businesses, log)
	flow := NewOrderFlowService(sessions, state, ui, NewValidationService(), 5*time.Second, log)
	return &flowHarness{flow: flow, sessions: sessions, gateway: gateway, catalog: cat, businesses: businesses}
}

func TestFirstContactSendsWelcome(t *testing.T) {
	h := newFlowHarness(t, &fakeCatalog{locations: []Location{openLocation()}})

	err := h.flow.HandleEvent(context.Background(), MessageEvent{
		ProviderMessageID: "wamid.1",
		BusinessID:        "biz1",
		PhoneNumber:       "2348000000000",
		CustomerName:      "Ada",
		Kind:              EventText,
		Text:              "hi",
	})
	require.NoError(t, err)

	require.Len(t, h.gateway.calls, 1)
	assert.Equal(t, "buttons", h.gateway.calls[0].kind)
	assert.Contains(t, h.gateway.calls[0].body, "Ada")
	require.Len(t, h.gateway.buttons, 1)
	assert.Equal(t, "START_ORDER", h.gateway.buttons[0][0].ID)

	sess, isNew, err := h.sessions.GetOrCreate("biz1", "2348000000000", "")
	require.NoError(t, err)
	assert.False(t, isNew, "session persisted after first contact")
	assert.Equal(t, entity.StateLocationSelection, sess.CurrentState)
}

func TestStartOrderRendersMenuAndPersists(t *testing.T) {
	cat := &fakeCatalog{
		locations: []Location{openLocation()},
		items: map[string]CatalogItem{
			"rice": {ID: "rice", Name: "Jollof Rice", Price: decimal.NewFromInt(2500)},
		},
	}
	h := newFlowHarness(t, cat)

	// First contact creates the session.
	require.NoError(t, h.flow.HandleEvent(context.Background(), MessageEvent{
		ProviderMessageID: "wamid.1", BusinessID: "biz1", PhoneNumber: "p1", Kind: EventText, Text: "hi",
	}))
	h.gateway.calls = nil

	require.NoError(t, h.flow.HandleEvent(context.Background(), MessageEvent{
		ProviderMessageID: "wamid.2", BusinessID: "biz1", PhoneNumber: "p1",
		Kind: EventButtonReply, Text: "START_ORDER",
	}))

	require.Len(t, h.gateway.calls, 1)
	assert.Equal(t, "list", h.gateway.calls[0].kind)

	sess, _, err := h.sessions.GetOrCreate("biz1", "p1", "")
	require.NoError(t, err)
	assert.Equal(t, entity.StateItemSelection, sess.CurrentState)
	assert.Equal(t, "loc1", sess.LocationID)
	assert.Equal(t, menuLevelSmall, sess.CurrentMenuLevel, "small catalog breadcrumb recorded")
}

func TestStartOrderSendsCatalogMessage(t *testing.T) {
	items := map[string]CatalogItem{}
	for i := 0; i < 25; i++ {
		id := fmt.Sprintf("item%02d", i)
		items[id] = CatalogItem{ID: id, Name: fmt.Sprintf("Item %02d", i), Price: decimal.NewFromInt(1000)}
	}
	cat := &fakeCatalog{locations: []Location{openLocation()}, items: items}
	h := newFlowHarness(t, cat)
	require.NoError(t, h.businesses.Upsert(&entity.Business{
		BusinessID: "biz1", RestaurantID: "rest1", CatalogID: "cat-42",
	}))

	require.NoError(t, h.flow.HandleEvent(context.Background(), MessageEvent{
		ProviderMessageID: "wamid.1", BusinessID: "biz1", PhoneNumber: "p1", Kind: EventText, Text: "hi",
	}))
	h.gateway.calls = nil

	require.NoError(t, h.flow.HandleEvent(context.Background(), MessageEvent{
		ProviderMessageID: "wamid.2", BusinessID: "biz1", PhoneNumber: "p1",
		Kind: EventButtonReply, Text: "START_ORDER",
	}))

	require.Len(t, h.gateway.calls, 1)
	assert.Equal(t, "catalog", h.gateway.calls[0].kind)
	require.Len(t, h.gateway.catalogs, 1)
	sent := h.gateway.catalogs[0]
	assert.Equal(t, "cat-42", sent.catalogID)
	require.Len(t, sent.sections, 3, "25 products chunk into sections of ten")
	total := 0
	for _, s := range sent.sections {
		assert.LessOrEqual(t, len(s.ProductIDs), 10)
		total += len(s.ProductIDs)
	}
	assert.Equal(t, 25, total)
}

func TestProviderFailureSendsApology(t *testing.T) {
	cat := &fakeCatalog{locations: []Location{openLocation()}}
	h := newFlowHarness(t, cat)

	require.NoError(t, h.flow.HandleEvent(context.Background(), MessageEvent{
		ProviderMessageID: "wamid.1", BusinessID: "biz1", PhoneNumber: "p1", Kind: EventText, Text: "hi",
	}))
	h.gateway.calls = nil

	cat.locationsErr = errors.New("catalog upstream down")
	err := h.flow.HandleEvent(context.Background(), MessageEvent{
		ProviderMessageID: "wamid.2", BusinessID: "biz1", PhoneNumber: "p1",
		Kind: EventButtonReply, Text: "START_ORDER",
	})
	require.Error(t, err)

	require.Len(t, h.gateway.calls, 1, "customer hears about the failure")
	assert.Equal(t, "text", h.gateway.calls[0].kind)
	assert.Contains(t, h.gateway.calls[0].body, "something went wrong")
}

func TestCorrectiveMessagesCarrySupportFooter(t *testing.T) {
	cat := &fakeCatalog{locations: []Location{openLocation()}}
	h := newFlowHarness(t, cat)

	sess, _, err := h.sessions.GetOrCreate("biz1", "p1", "Ada")
	require.NoError(t, err)
	sess.LocationID = "loc1"
	sess.CurrentState = entity.StateDeliveryAddress
	sess.DeliveryMethod = entity.MethodDelivery
	sess.HelpPhone = "08099999999"
	seedCart(sess)
	require.NoError(t, h.sessions.Persist(sess))

	require.NoError(t, h.flow.HandleEvent(context.Background(), MessageEvent{
		ProviderMessageID: "wamid.2", BusinessID: "biz1", PhoneNumber: "p1",
		Kind: EventText, Text: "short",
	}))

	require.NotEmpty(t, h.gateway.calls)
	assert.Equal(t, "text", h.gateway.calls[0].kind)
	assert.Contains(t, h.gateway.calls[0].body, "too short")
	assert.Contains(t, h.gateway.calls[0].body, "08099999999")
}

func TestFlowSubmissionResumesCheckout(t *testing.T) {
	cat := &fakeCatalog{locations: []Location{openLocation()}}
	h := newFlowHarness(t, cat)

	sess, _, err := h.sessions.GetOrCreate("biz1", "p1", "Ada")
	require.NoError(t, err)
	sess.LocationID = "loc1"
	sess.CurrentState = entity.StateFlowInProgress
	sess.DeliveryMethod = entity.MethodDelivery
	seedCart(sess)
	require.NoError(t, h.sessions.Persist(sess))

	require.NoError(t, h.flow.HandleEvent(context.Background(), MessageEvent{
		ProviderMessageID: "wamid.3", BusinessID: "biz1", PhoneNumber: "p1",
		Kind: EventFlowSubmission,
		FlowData: map[string]string{
			"address": "45 Awolowo Road, Ikoyi",
			"phone":   "08031234567",
		},
	}))

	after, _, err := h.sessions.GetOrCreate("biz1", "p1", "")
	require.NoError(t, err)
	assert.Equal(t, "45 Awolowo Road, Ikoyi", after.DeliveryAddress)
	assert.Equal(t, "08031234567", after.DeliveryContactPhone)
	assert.Equal(t, entity.StateCollectNotes, after.CurrentState)

	require.Len(t, h.gateway.calls, 1)
	assert.Equal(t, "text", h.gateway.calls[0].kind)
	assert.Contains(t, h.gateway.calls[0].body, "notes")
}
