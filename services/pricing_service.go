package services

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/superkingsely080296-boop/Comms-API-master/entity"
)

// PricingService computes order totals. It is pure over its input: the same
// cart and charge set always quote the same amounts, in any order.
type PricingService struct{}

func NewPricingService() *PricingService {
	return &PricingService{}
}

// PricingInput is everything a quote depends on. TaxRate is a percentage.
// DeliveryCharge must already be re-validated by the caller; expired or
// inactive charges never reach pricing. BaseCharges is the location's
// standing charge set: pack-keyword charges apply once per pack, the rest
// once per order.
type PricingInput struct {
	Cart           entity.Cart
	TaxExclusive   bool
	TaxRate        decimal.Decimal
	DeliveryCharge *Charge
	BaseCharges    []Charge
	PackCount      int
	DiscountType   string
	DiscountValue  decimal.Decimal
}

// ChargeLine is one applied charge with its multiplier, for summary display.
type ChargeLine struct {
	Name   string
	Amount decimal.Decimal
	Count  int
	Total  decimal.Decimal
}

// Quote is a priced order. All amounts are rounded half away from zero to
// two decimal places.
type Quote struct {
	Subtotal       decimal.Decimal
	Tax            decimal.Decimal
	ChargeLines    []ChargeLine
	ChargesTotal   decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
}

var packKeywords = []string{"pack", "disposable", "plastic"}

func isPackCharge(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range packKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Compute prices the cart. Child lines are excluded from the subtotal; their
// cost lives in the parent line. Percent discounts are recomputed from the
// current subtotal, never carried over from when the code was entered. The
// total is not floored at zero.
func (s *PricingService) Compute(in PricingInput) Quote {
	q := Quote{}

	subtotal := decimal.Zero
	for _, it := range in.Cart.Items {
		if it.IsChild() {
			continue
		}
		subtotal = subtotal.Add(it.LineTotal())
	}
	q.Subtotal = subtotal.Round(2)

	if in.TaxExclusive && in.TaxRate.IsPositive() {
		q.Tax = q.Subtotal.Mul(in.TaxRate.Div(decimal.NewFromInt(100))).Round(2)
	} else {
		q.Tax = decimal.Zero
	}

	charges := decimal.Zero
	packCount := in.PackCount
	if packCount < 1 {
		packCount = 1
	}
	for _, c := range in.BaseCharges {
		if !c.Active || c.Expired {
			continue
		}
		count := 1
		if isPackCharge(c.Name) {
			count = packCount
		}
		line := ChargeLine{
			Name:   c.Name,
			Amount: c.Amount,
			Count:  count,
			Total:  c.Amount.Mul(decimal.NewFromInt(int64(count))).Round(2),
		}
		q.ChargeLines = append(q.ChargeLines, line)
		charges = charges.Add(line.Total)
	}
	if in.DeliveryCharge != nil {
		line := ChargeLine{
			Name:   in.DeliveryCharge.Name,
			Amount: in.DeliveryCharge.Amount,
			Count:  1,
			Total:  in.DeliveryCharge.Amount.Round(2),
		}
		q.ChargeLines = append(q.ChargeLines, line)
		charges = charges.Add(line.Total)
	}
	q.ChargesTotal = charges.Round(2)

	switch in.DiscountType {
	case entity.DiscountPercent:
		q.DiscountAmount = q.Subtotal.Mul(in.DiscountValue).Div(decimal.NewFromInt(100)).Round(2)
	case entity.DiscountAmount:
		q.DiscountAmount = in.DiscountValue.Round(2)
	default:
		q.DiscountAmount = decimal.Zero
	}

	q.Total = q.Subtotal.Add(q.Tax).Add(q.ChargesTotal).Sub(q.DiscountAmount).Round(2)
	return q
}
