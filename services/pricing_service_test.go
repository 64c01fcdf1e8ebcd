package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/superkingsely080296-boop/Comms-API-master/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func cartOf(items ...entity.CartItem) entity.Cart {
	return entity.Cart{Items: items}
}

func line(name, price string, qty int) entity.CartItem {
	return entity.CartItem{ItemID: name, Name: name, Price: d(price), Quantity: qty}
}

func TestComputeSubtotalSkipsChildren(t *testing.T) {
	p := NewPricingService()
	cart := cartOf(
		entity.CartItem{ItemID: "combo", Name: "Combo", Price: d("2500"), Quantity: 1, GroupingID: "g1"},
		entity.CartItem{ItemID: "rice", Name: "Rice", Price: decimal.Zero, Quantity: 1, GroupingID: "g1", ParentItemID: "combo"},
		entity.CartItem{ItemID: "chicken", Name: "Chicken", Price: decimal.Zero, Quantity: 1, GroupingID: "g1", ParentItemID: "combo"},
	)

	q := p.Compute(PricingInput{Cart: cart})

	assert.True(t, q.Subtotal.Equal(d("2500")), "subtotal %s", q.Subtotal)
	assert.True(t, q.Total.Equal(d("2500")))
}

func TestComputeTaxAndDiscount(t *testing.T) {
	p := NewPricingService()
	cart := cartOf(line("jollof", "2500", 1))

	q := p.Compute(PricingInput{
		Cart:          cart,
		TaxExclusive:  true,
		TaxRate:       d("5"),
		DiscountType:  entity.DiscountAmount,
		DiscountValue: d("500"),
		BaseCharges: []Charge{
			{ID: "c1", Name: "Service Charge", Amount: d("500"), Active: true},
		},
	})

	assert.True(t, q.Subtotal.Equal(d("2500")))
	assert.True(t, q.Tax.Equal(d("125")), "tax %s", q.Tax)
	assert.True(t, q.ChargesTotal.Equal(d("500")))
	assert.True(t, q.DiscountAmount.Equal(d("500")))
	assert.True(t, q.Total.Equal(d("2625")), "total %s", q.Total)
}

func TestComputeTaxInclusiveLocationHasNoTaxLine(t *testing.T) {
	p := NewPricingService()
	q := p.Compute(PricingInput{
		Cart:    cartOf(line("suya", "1000", 2)),
		TaxRate: d("7.5"),
	})

	assert.True(t, q.Tax.IsZero())
	assert.True(t, q.Total.Equal(d("2000")))
}

func TestComputePackChargesMultiplyByPackCount(t *testing.T) {
	p := NewPricingService()
	q := p.Compute(PricingInput{
		Cart:      cartOf(line("rice", "1200", 1)),
		PackCount: 3,
		BaseCharges: []Charge{
			{ID: "c1", Name: "Disposable Pack", Amount: d("150"), Active: true},
			{ID: "c2", Name: "Service Charge", Amount: d("200"), Active: true},
		},
	})

	assert.Len(t, q.ChargeLines, 2)
	assert.Equal(t, 3, q.ChargeLines[0].Count)
	assert.True(t, q.ChargeLines[0].Total.Equal(d("450")))
	assert.Equal(t, 1, q.ChargeLines[1].Count)
	assert.True(t, q.ChargesTotal.Equal(d("650")))
}

func TestComputeSkipsInactiveAndExpiredCharges(t *testing.T) {
	p := NewPricingService()
	q := p.Compute(PricingInput{
		Cart: cartOf(line("rice", "1000", 1)),
		BaseCharges: []Charge{
			{ID: "c1", Name: "Old Charge", Amount: d("300"), Active: false},
			{ID: "c2", Name: "Expired Charge", Amount: d("300"), Active: true, Expired: true},
		},
	})

	assert.Empty(t, q.ChargeLines)
	assert.True(t, q.Total.Equal(d("1000")))
}

func TestComputePercentDiscountTracksCurrentSubtotal(t *testing.T) {
	p := NewPricingService()
	in := PricingInput{
		Cart:          cartOf(line("rice", "2000", 1)),
		DiscountType:  entity.DiscountPercent,
		DiscountValue: d("10"),
	}

	q := p.Compute(in)
	assert.True(t, q.DiscountAmount.Equal(d("200")))

	in.Cart.Items = append(in.Cart.Items, line("dodo", "1000", 1))
	q = p.Compute(in)
	assert.True(t, q.DiscountAmount.Equal(d("300")), "discount recomputed from the new subtotal")
	assert.True(t, q.Total.Equal(d("2700")))
}

func TestComputeTotalNotFlooredAtZero(t *testing.T) {
	p := NewPricingService()
	q := p.Compute(PricingInput{
		Cart:          cartOf(line("rice", "400", 1)),
		DiscountType:  entity.DiscountAmount,
		DiscountValue: d("500"),
	})

	assert.True(t, q.Total.Equal(d("-100")))
}

func TestComputeDeliveryChargeAppended(t *testing.T) {
	p := NewPricingService()
	q := p.Compute(PricingInput{
		Cart:           cartOf(line("rice", "1000", 1)),
		DeliveryCharge: &Charge{ID: "d1", Name: "Lekki Delivery", Amount: d("1500"), Active: true},
	})

	assert.Len(t, q.ChargeLines, 1)
	assert.Equal(t, "Lekki Delivery", q.ChargeLines[0].Name)
	assert.True(t, q.Total.Equal(d("2500")))
}

func TestComputeRounding(t *testing.T) {
	p := NewPricingService()
	q := p.Compute(PricingInput{
		Cart:         cartOf(line("rice", "999.99", 3)),
		TaxExclusive: true,
		TaxRate:      d("7.5"),
	})

	assert.True(t, q.Subtotal.Equal(d("2999.97")))
	assert.True(t, q.Tax.Equal(d("225.00")), "tax %s", q.Tax)
}
