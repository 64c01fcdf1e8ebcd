package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// WhatsAppGateway sends messages through the WhatsApp Cloud API. The
// businessID passed to each call is the phone number ID the customer wrote
// to, which is also the sender.
type WhatsAppGateway struct {
	APIBase string
	Token   string
	Client  *http.Client
}

func NewWhatsAppGateway(apiBase, token string, client *http.Client) *WhatsAppGateway {
	if client == nil {
		client = http.DefaultClient
	}
	return &WhatsAppGateway{APIBase: apiBase, Token: token, Client: client}
}

func (g *WhatsAppGateway) send(ctx context.Context, businessID string, payload map[string]any) error {
	payload["messaging_product"] = "whatsapp"
	payload["recipient_type"] = "individual"

	raw, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "encode message")
	}

	endpoint := fmt.Sprintf("%s/%s/messages", g.APIBase, businessID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Authorization", "Bearer "+g.Token)
	req.Header.Set("Content-Type", "application/json")

	res, err := g.Client.Do(req)
	if err != nil {
		return errors.Wrap(err, "send message")
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return errors.Errorf("whatsapp api returned %d", res.StatusCode)
	}
	return nil
}

func (g *WhatsAppGateway) SendText(ctx context.Context, businessID, to, body string) error {
	return g.send(ctx, businessID, map[string]any{
		"to":   to,
		"type": "text",
		"text": map[string]any{"body": body},
	})
}

func (g *WhatsAppGateway) SendButtons(ctx context.Context, businessID, to, body string, buttons []Button) error {
	btns := make([]map[string]any, 0, len(buttons))
	for _, b := range buttons {
		btns = append(btns, map[string]any{
			"type":  "reply",
			"reply": map[string]any{"id": b.ID, "title": b.Title},
		})
	}
	return g.send(ctx, businessID, map[string]any{
		"to":   to,
		"type": "interactive",
		"interactive": map[string]any{
			"type":   "button",
			"body":   map[string]any{"text": body},
			"action": map[string]any{"buttons": btns},
		},
	})
}

func (g *WhatsAppGateway) SendList(ctx context.Context, businessID, to, body, buttonLabel string, sections []ListSection) error {
	secs := make([]map[string]any, 0, len(sections))
	for _, s := range sections {
		rows := make([]map[string]any, 0, len(s.Rows))
		for _, r := range s.Rows {
			row := map[string]any{"id": r.ID, "title": r.Title}
			if r.Description != "" {
				row["description"] = r.Description
			}
			rows = append(rows, row)
		}
		secs = append(secs, map[string]any{"title": s.Title, "rows": rows})
	}
	return g.send(ctx, businessID, map[string]any{
		"to":   to,
		"type": "interactive",
		"interactive": map[string]any{
			"type":   "list",
			"body":   map[string]any{"text": body},
			"action": map[string]any{"button": buttonLabel, "sections": secs},
		},
	})
}

func (g *WhatsAppGateway) SendCatalog(ctx context.Context, businessID, to, header, body, catalogID string, sections []CatalogSection) error {
	secs := make([]map[string]any, 0, len(sections))
	for _, s := range sections {
		items := make([]map[string]any, 0, len(s.ProductIDs))
		for _, id := range s.ProductIDs {
			items = append(items, map[string]any{"product_retailer_id": id})
		}
		secs = append(secs, map[string]any{"title": s.Title, "product_items": items})
	}
	return g.send(ctx, businessID, map[string]any{
		"to":   to,
		"type": "interactive",
		"interactive": map[string]any{
			"type":   "product_list",
			"header": map[string]any{"type": "text", "text": header},
			"body":   map[string]any{"text": body},
			"action": map[string]any{"catalog_id": catalogID, "sections": secs},
		},
	})
}

func (g *WhatsAppGateway) SendFlow(ctx context.Context, businessID, to, body, flowJSON string) error {
	var params map[string]any
	if err := json.Unmarshal([]byte(flowJSON), &params); err != nil {
		return errors.Wrap(err, "decode flow parameters")
	}
	return g.send(ctx, businessID, map[string]any{
		"to":   to,
		"type": "interactive",
		"interactive": map[string]any{
			"type":   "flow",
			"body":   map[string]any{"text": body},
			"action": map[string]any{"name": "flow", "parameters": params},
		},
	})
}
