package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superkingsely080296-boop/Comms-API-master/services"
)

func TestVerifyHandshake(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &WebhookController{VerifyToken: "secret"}
	r := gin.New()
	r.GET("/webhook", h.Verify)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=12345", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "12345", w.Body.String())
}

func TestVerifyRejectsBadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &WebhookController{VerifyToken: "secret"}
	r := gin.New()
	r.GET("/webhook", h.Verify)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

const sampleEnvelope = `{
  "entry": [{
    "id": "entry-1",
    "changes": [{
      "value": {
        "metadata": {"phone_number_id": "biz-phone-1"},
        "contacts": [{"wa_id": "2348000000000", "profile": {"name": "Ada"}}],
        "messages": [
          {"id": "wamid.1", "from": "2348000000000", "type": "text", "text": {"body": "hello"}},
          {"id": "wamid.2", "from": "2348000000000", "type": "interactive",
           "interactive": {"type": "button_reply", "button_reply": {"id": "CONFIRM_ORDER"}}},
          {"id": "wamid.3", "from": "2348000000000", "type": "interactive",
           "interactive": {"type": "list_reply", "list_reply": {"id": "CAT_drinks"}}},
          {"id": "wamid.4", "from": "2348000000000", "type": "interactive",
           "interactive": {"type": "nfm_reply", "nfm_reply": {"response_json": "{\"address\":\"45 Awolowo Road, Ikoyi\",\"contact_phone\":\"08031234567\"}"}}}
        ]
      }
    }]
  }]
}`

func TestExtractEvents(t *testing.T) {
	var payload webhookPayload
	require.NoError(t, json.Unmarshal([]byte(sampleEnvelope), &payload))

	h := &WebhookController{}
	events := h.extractEvents(payload)
	require.Len(t, events, 4)

	assert.Equal(t, services.EventText, events[0].Kind)
	assert.Equal(t, "hello", events[0].Text)
	assert.Equal(t, "biz-phone-1", events[0].BusinessID)
	assert.Equal(t, "2348000000000", events[0].PhoneNumber)
	assert.Equal(t, "Ada", events[0].CustomerName)

	assert.Equal(t, services.EventButtonReply, events[1].Kind)
	assert.Equal(t, "CONFIRM_ORDER", events[1].Text)

	assert.Equal(t, services.EventListReply, events[2].Kind)
	assert.Equal(t, "CAT_drinks", events[2].Text)

	assert.Equal(t, services.EventFlowSubmission, events[3].Kind)
	assert.Equal(t, "45 Awolowo Road, Ikoyi", events[3].FlowData["address"])
	assert.Equal(t, "08031234567", events[3].FlowData["contact_phone"])
}

func TestExtractEventsFansOutCatalogOrder(t *testing.T) {
	raw := `{"entry":[{"id":"entry-1","changes":[{"value":{
	  "metadata":{"phone_number_id":"biz-phone-1"},
	  "messages":[{"id":"wamid.5","from":"2348000000000","type":"order",
	    "order":{"catalog_id":"cat-1","product_items":[
	      {"product_retailer_id":"rice","quantity":2},
	      {"product_retailer_id":"cola"}]}}]}}]}]}`
	var payload webhookPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	h := &WebhookController{}
	events := h.extractEvents(payload)
	require.Len(t, events, 3, "one selection per unit")

	ids := map[string]bool{}
	for _, ev := range events {
		assert.Equal(t, services.EventListReply, ev.Kind)
		assert.Equal(t, "biz-phone-1", ev.BusinessID)
		ids[ev.ProviderMessageID] = true
	}
	assert.Len(t, ids, 3, "each unit keeps its own provider id")
	assert.Equal(t, "rice", events[0].Text)
	assert.Equal(t, "rice", events[1].Text)
	assert.Equal(t, "cola", events[2].Text)
}

func TestExtractEventsFallsBackToEntryID(t *testing.T) {
	raw := `{"entry":[{"id":"entry-9","changes":[{"value":{
	  "messages":[{"id":"wamid.9","from":"234","type":"image"}]}}]}]}`
	var payload webhookPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	h := &WebhookController{}
	events := h.extractEvents(payload)
	require.Len(t, events, 1)
	assert.Equal(t, "entry-9", events[0].BusinessID)
	assert.Equal(t, services.EventText, events[0].Kind)
	assert.Empty(t, events[0].Text)
}
