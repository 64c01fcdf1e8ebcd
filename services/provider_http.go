package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// HTTPProvider talks to the ordering platform's REST API. It implements
// CatalogProvider and ProfileProvider.
type HTTPProvider struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func NewHTTPProvider(baseURL, token string, client *http.Client) *HTTPProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPProvider{BaseURL: baseURL, Token: token, Client: client}
}

func (p *HTTPProvider) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.BaseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Authorization", "Bearer "+p.Token)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.Client.Do(req)
	if err != nil {
		return errors.Wrap(err, "provider request")
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return errors.Errorf("provider returned %d for %s %s", res.StatusCode, method, path)
	}
	if out == nil {
		return nil
	}
	return errors.Wrap(json.NewDecoder(res.Body).Decode(out), "decode response")
}

func (p *HTTPProvider) Locations(ctx context.Context, businessID string) ([]Location, error) {
	var out []Location
	err := p.do(ctx, http.MethodGet, fmt.Sprintf("/businesses/%s/locations", url.PathEscape(businessID)), nil, &out)
	return out, err
}

func (p *HTTPProvider) Location(ctx context.Context, businessID, locationID string) (Location, error) {
	var out Location
	err := p.do(ctx, http.MethodGet, fmt.Sprintf("/businesses/%s/locations/%s", url.PathEscape(businessID), url.PathEscape(locationID)), nil, &out)
	return out, err
}

func (p *HTTPProvider) Items(ctx context.Context, businessID, locationID string) ([]CatalogItem, error) {
	var out []CatalogItem
	err := p.do(ctx, http.MethodGet, fmt.Sprintf("/businesses/%s/locations/%s/items", url.PathEscape(businessID), url.PathEscape(locationID)), nil, &out)
	return out, err
}

func (p *HTTPProvider) Item(ctx context.Context, businessID, locationID, itemID string) (CatalogItem, error) {
	var out CatalogItem
	err := p.do(ctx, http.MethodGet, fmt.Sprintf("/businesses/%s/locations/%s/items/%s", url.PathEscape(businessID), url.PathEscape(locationID), url.PathEscape(itemID)), nil, &out)
	return out, err
}

func (p *HTTPProvider) SearchItems(ctx context.Context, businessID, locationID, query string) ([]CatalogItem, error) {
	var out []CatalogItem
	path := fmt.Sprintf("/businesses/%s/locations/%s/items?q=%s", url.PathEscape(businessID), url.PathEscape(locationID), url.QueryEscape(query))
	err := p.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (p *HTTPProvider) Toppings(ctx context.Context, businessID, locationID, toppingClassID string) ([]Topping, error) {
	var out []Topping
	err := p.do(ctx, http.MethodGet, fmt.Sprintf("/businesses/%s/locations/%s/toppings/%s", url.PathEscape(businessID), url.PathEscape(locationID), url.PathEscape(toppingClassID)), nil, &out)
	return out, err
}

func (p *HTTPProvider) DeliveryCharges(ctx context.Context, businessID, locationID string) ([]Charge, error) {
	var out []Charge
	err := p.do(ctx, http.MethodGet, fmt.Sprintf("/businesses/%s/locations/%s/charges?type=delivery", url.PathEscape(businessID), url.PathEscape(locationID)), nil, &out)
	return out, err
}

func (p *HTTPProvider) Charge(ctx context.Context, businessID, locationID, chargeID string) (Charge, error) {
	var out Charge
	err := p.do(ctx, http.MethodGet, fmt.Sprintf("/businesses/%s/locations/%s/charges/%s", url.PathEscape(businessID), url.PathEscape(locationID), url.PathEscape(chargeID)), nil, &out)
	return out, err
}

func (p *HTTPProvider) BaseCharges(ctx context.Context, businessID, locationID string) ([]Charge, error) {
	var out []Charge
	err := p.do(ctx, http.MethodGet, fmt.Sprintf("/businesses/%s/locations/%s/charges?type=base", url.PathEscape(businessID), url.PathEscape(locationID)), nil, &out)
	return out, err
}

func (p *HTTPProvider) ValidateDiscount(ctx context.Context, businessID, locationID, code string) (Discount, error) {
	var out Discount
	err := p.do(ctx, http.MethodGet, fmt.Sprintf("/businesses/%s/locations/%s/discounts/%s", url.PathEscape(businessID), url.PathEscape(locationID), url.PathEscape(code)), nil, &out)
	return out, err
}

func (p *HTTPProvider) SubmitOrder(ctx context.Context, sub OrderSubmission) (PaymentAccount, error) {
	var out PaymentAccount
	err := p.do(ctx, http.MethodPost, "/orders", sub, &out)
	return out, err
}

func (p *HTTPProvider) SavedAddress(ctx context.Context, businessID, phone string) (string, error) {
	var out struct {
		Address string `json:"address"`
	}
	err := p.do(ctx, http.MethodGet, fmt.Sprintf("/businesses/%s/profiles/%s/address", url.PathEscape(businessID), url.PathEscape(phone)), nil, &out)
	return out.Address, err
}

func (p *HTTPProvider) SaveAddress(ctx context.Context, businessID, phone, address string) error {
	body := map[string]string{"address": address}
	return p.do(ctx, http.MethodPut, fmt.Sprintf("/businesses/%s/profiles/%s/address", url.PathEscape(businessID), url.PathEscape(phone)), body, nil)
}

func (p *HTTPProvider) SavedContactPhone(ctx context.Context, businessID, phone string) (string, error) {
	var out struct {
		ContactPhone string `json:"contactPhone"`
	}
	err := p.do(ctx, http.MethodGet, fmt.Sprintf("/businesses/%s/profiles/%s/contact-phone", url.PathEscape(businessID), url.PathEscape(phone)), nil, &out)
	return out.ContactPhone, err
}

func (p *HTTPProvider) SaveContactPhone(ctx context.Context, businessID, phone, contact string) error {
	body := map[string]string{"contactPhone": contact}
	return p.do(ctx, http.MethodPut, fmt.Sprintf("/businesses/%s/profiles/%s/contact-phone", url.PathEscape(businessID), url.PathEscape(phone)), body, nil)
}
