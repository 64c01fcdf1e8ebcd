package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDiscountRequest(t *testing.T) {
	v := NewValidationService()
	assert.True(t, v.IsDiscountRequest("I have a discount code"))
	assert.True(t, v.IsDiscountRequest("PROMO CODE please"))
	assert.True(t, v.IsDiscountRequest("can I use a voucher?"))
	assert.False(t, v.IsDiscountRequest("jollof rice"))
	assert.False(t, v.IsDiscountRequest(""))
}

func TestIsValidAddress(t *testing.T) {
	v := NewValidationService()
	assert.True(t, v.IsValidAddress("12 Marina Road, Lagos"))
	assert.False(t, v.IsValidAddress("short"))
	assert.False(t, v.IsValidAddress("         a        "))
}

func TestNormalizeContactPhone(t *testing.T) {
	v := NewValidationService()

	got, ok := v.NormalizeContactPhone("+234 (803) 123-4567")
	assert.True(t, ok)
	assert.Equal(t, "+2348031234567", got)

	got, ok = v.NormalizeContactPhone("08031234567")
	assert.True(t, ok)
	assert.Equal(t, "08031234567", got)

	_, ok = v.NormalizeContactPhone("12345")
	assert.False(t, ok, "too short")

	_, ok = v.NormalizeContactPhone("call me later")
	assert.False(t, ok)

	_, ok = v.NormalizeContactPhone("0803+1234567")
	assert.False(t, ok, "plus only allowed at the front")
}

func TestIsSystemMessage(t *testing.T) {
	v := NewValidationService()
	assert.True(t, v.IsSystemMessage("hi"))
	assert.True(t, v.IsSystemMessage("Good Morning"))
	assert.False(t, v.IsSystemMessage("no onions please"))
}
