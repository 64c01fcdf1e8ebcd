package services

import (
	"context"
	"unicode/utf8"
)

// Button is an interactive reply button. Providers cap messages at three.
type Button struct {
	ID    string
	Title string
}

// ListRow is one selectable row in an interactive list message.
type ListRow struct {
	ID          string
	Title       string
	Description string
}

// ListSection groups rows under a heading.
type ListSection struct {
	Title string
	Rows  []ListRow
}

// CatalogSection groups product retailer ids under a heading inside a
// product catalog message.
type CatalogSection struct {
	Title      string
	ProductIDs []string
}

// MessagingGateway sends outbound messages back to the customer. The bot
// never talks to the wire format directly; controllers hand it rendered
// prompts one at a time.
type MessagingGateway interface {
	SendText(ctx context.Context, businessID, to, body string) error
	SendButtons(ctx context.Context, businessID, to, body string, buttons []Button) error
	SendList(ctx context.Context, businessID, to, body, buttonLabel string, sections []ListSection) error
	SendCatalog(ctx context.Context, businessID, to, header, body, catalogID string, sections []CatalogSection) error
	SendFlow(ctx context.Context, businessID, to, body, flowJSON string) error
}

// EventKind classifies an inbound webhook event.
type EventKind string

const (
	EventText           EventKind = "text"
	EventButtonReply    EventKind = "button_reply"
	EventListReply      EventKind = "list_reply"
	EventFlowSubmission EventKind = "flow_submission"
)

// MessageEvent is one inbound customer action, already extracted from the
// provider envelope.
type MessageEvent struct {
	ProviderMessageID string
	BusinessID        string
	PhoneNumber       string
	CustomerName      string
	Kind              EventKind
	Text              string
	// Flow submissions carry a decoded form instead of text.
	FlowData map[string]string
}

// List rows have hard provider limits. Overlong titles and descriptions are
// cut with an ellipsis rather than rejected.
const (
	maxRowTitle = 24
	maxRowDesc  = 72

	// maxListRows is the provider cap on total rows in one list message;
	// maxCatalogSectionRows caps product ids per catalog message section.
	maxListRows           = 10
	maxCatalogSectionRows = 10
)

// truncate limits s to max runes; byte slicing would split multi-byte
// characters mid-rune.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}

// NewListRow builds a row with provider length limits applied.
func NewListRow(id, title, description string) ListRow {
	return ListRow{
		ID:          id,
		Title:       truncate(title, maxRowTitle),
		Description: truncate(description, maxRowDesc),
	}
}
