package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToCents(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(1000), ToCents(decimal.NewFromFloat(10.00)))
	assert.Equal(t, int64(999), ToCents(decimal.NewFromFloat(9.99)))
	assert.Equal(t, int64(0), ToCents(decimal.Zero))
	// truncation past the second decimal
	assert.Equal(t, int64(1234), ToCents(decimal.RequireFromString("12.349")))
}

func TestFromCentsRoundTrip(t *testing.T) {
	t.Parallel()

	for _, cents := range []int64{0, 1, 99, 100, 12345} {
		assert.Equal(t, cents, ToCents(FromCents(cents)))
	}
}

func TestWithinOneCent(t *testing.T) {
	t.Parallel()

	a := decimal.RequireFromString("25.00")
	assert.True(t, WithinOneCent(a, decimal.RequireFromString("25.00")))
	assert.True(t, WithinOneCent(a, decimal.RequireFromString("25.01")))
	assert.True(t, WithinOneCent(a, decimal.RequireFromString("24.99")))
	assert.False(t, WithinOneCent(a, decimal.RequireFromString("25.02")))
	assert.False(t, WithinOneCent(a, decimal.RequireFromString("24.98")))
}

func TestRound(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2.00", Round(decimal.RequireFromString("2.000")).StringFixed(2))
	assert.Equal(t, "2.01", Round(decimal.RequireFromString("2.005")).StringFixed(2))
}
