package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEffectivePrice(t *testing.T) {
	t.Parallel()

	price := decimal.RequireFromString("25.00")

	t.Run("no sale price", func(t *testing.T) {
		t.Parallel()
		p := Product{Price: price}
		assert.True(t, p.EffectivePrice().Equal(price))
	})

	t.Run("sale price wins", func(t *testing.T) {
		t.Parallel()
		sale := decimal.RequireFromString("20.00")
		p := Product{Price: price, SalePrice: &sale}
		assert.True(t, p.EffectivePrice().Equal(sale))
	})

	t.Run("zero sale price is honored", func(t *testing.T) {
		t.Parallel()
		sale := decimal.Zero
		p := Product{Price: price, SalePrice: &sale}
		assert.True(t, p.EffectivePrice().IsZero())
	})
}
