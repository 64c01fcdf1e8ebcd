package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/superkingsely080296-boop/Comms-API-master/entity"
	"github.com/superkingsely080296-boop/Comms-API-master/repository"
	"github.com/superkingsely080296-boop/Comms-API-master/services"
)

type WebhookController struct {
	Flow        *services.OrderFlowService
	Messages    *repository.MessageRepository
	VerifyToken string
	Log         *logrus.Logger
}

func NewWebhookController(flow *services.OrderFlowService, messages *repository.MessageRepository, verifyToken string, log *logrus.Logger) *WebhookController {
	return &WebhookController{Flow: flow, Messages: messages, VerifyToken: verifyToken, Log: log}
}

// webhookPayload mirrors the provider's delivery envelope, trimmed to the
// fields the bot reads.
type webhookPayload struct {
	Entry []struct {
		ID      string `json:"id"`
		Changes []struct {
			Value struct {
				Metadata struct {
					PhoneNumberID string `json:"phone_number_id"`
				} `json:"metadata"`
				Contacts []struct {
					WaID    string `json:"wa_id"`
					Profile struct {
						Name string `json:"name"`
					} `json:"profile"`
				} `json:"contacts"`
				Messages []struct {
					ID   string `json:"id"`
					From string `json:"from"`
					Type string `json:"type"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
					Order struct {
						CatalogID    string `json:"catalog_id"`
						ProductItems []struct {
							ProductRetailerID string `json:"product_retailer_id"`
							Quantity          int    `json:"quantity"`
						} `json:"product_items"`
					} `json:"order"`
					Interactive struct {
						Type        string `json:"type"`
						ButtonReply struct {
							ID string `json:"id"`
						} `json:"button_reply"`
						ListReply struct {
							ID string `json:"id"`
						} `json:"list_reply"`
						NfmReply struct {
							ResponseJSON string `json:"response_json"`
						} `json:"nfm_reply"`
					} `json:"interactive"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// GET /webhook - provider verification handshake.
func (h *WebhookController) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")
	if mode == "subscribe" && token == h.VerifyToken {
		c.String(http.StatusOK, challenge)
		return
	}
	c.String(http.StatusForbidden, "verification failed")
}

// POST /webhook - inbound events. The provider retries on non-200, so
// handling errors are logged and swallowed; only a malformed body is a 400.
func (h *WebhookController) Receive(c *gin.Context) {
	var payload webhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "malformed payload"})
		return
	}

	for _, ev := range h.extractEvents(payload) {
		dup, err := h.Messages.StoreInbound(&entity.InboundMessage{
			ProviderMessageID: ev.ProviderMessageID,
			BusinessID:        ev.BusinessID,
			PhoneNumber:       ev.PhoneNumber,
			Kind:              string(ev.Kind),
			Body:              ev.Text,
		})
		if err != nil {
			h.Log.WithError(err).Warn("inbound message store failed")
		}
		if dup {
			h.Log.WithField("messageId", ev.ProviderMessageID).Debug("duplicate webhook delivery dropped")
			continue
		}
		if err := h.Flow.HandleEvent(c.Request.Context(), ev); err != nil {
			h.Log.WithError(err).WithFields(logrus.Fields{
				"business": ev.BusinessID,
				"phone":    ev.PhoneNumber,
			}).Error("event processing failed")
		}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *WebhookController) extractEvents(payload webhookPayload) []services.MessageEvent {
	var events []services.MessageEvent
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			v := change.Value
			businessID := v.Metadata.PhoneNumberID
			if businessID == "" {
				businessID = entry.ID
			}
			names := map[string]string{}
			for _, contact := range v.Contacts {
				names[contact.WaID] = contact.Profile.Name
			}
			for _, msg := range v.Messages {
				ev := services.MessageEvent{
					ProviderMessageID: msg.ID,
					BusinessID:        businessID,
					PhoneNumber:       msg.From,
					CustomerName:      names[msg.From],
				}
				if len(msg.Order.ProductItems) > 0 {
					// A catalog cart submission fans out into one
					// selection event per unit, each with its own
					// provider id so deduplication keeps them apart.
					for i, p := range msg.Order.ProductItems {
						qty := p.Quantity
						if qty < 1 {
							qty = 1
						}
						for n := 0; n < qty; n++ {
							pe := ev
							pe.ProviderMessageID = fmt.Sprintf("%s:%d:%d", msg.ID, i, n)
							pe.Kind = services.EventListReply
							pe.Text = p.ProductRetailerID
							events = append(events, pe)
						}
					}
					continue
				}
				switch {
				case msg.Type == "text":
					ev.Kind = services.EventText
					ev.Text = msg.Text.Body
				case msg.Interactive.ButtonReply.ID != "":
					ev.Kind = services.EventButtonReply
					ev.Text = msg.Interactive.ButtonReply.ID
				case msg.Interactive.ListReply.ID != "":
					ev.Kind = services.EventListReply
					ev.Text = msg.Interactive.ListReply.ID
				case msg.Interactive.NfmReply.ResponseJSON != "":
					ev.Kind = services.EventFlowSubmission
					ev.FlowData = parseFlowData(msg.Interactive.NfmReply.ResponseJSON)
				default:
					// Media and unsupported types still advance the
					// conversation with an empty text event.
					ev.Kind = services.EventText
				}
				events = append(events, ev)
			}
		}
	}
	return events
}

func parseFlowData(raw string) map[string]string {
	var decoded map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil
	}
	out := make(map[string]string, len(decoded))
	for k, v := range decoded {
		out[k] = fmt.Sprint(v)
	}
	return out
}
