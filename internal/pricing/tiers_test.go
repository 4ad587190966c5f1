package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestResolveUnitPriceNoTiers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 12.5, ResolveUnitPrice(1000, 12.5, nil))
	assert.Equal(t, 12.5, ResolveUnitPrice(0, 12.5, []QuantityTier{{From: 1, Price: 5}}))
}

func TestResolveUnitPriceExactMatchPrecedence(t *testing.T) {
	t.Parallel()

	tiers := []QuantityTier{
		{From: 1, To: ptr(100), Price: 10},
		{Equal: 50, Price: 5},
	}

	// an exact-quantity tier beats any overlapping range tier
	assert.Equal(t, 5.0, ResolveUnitPrice(50, 20, tiers))
	// and short-circuits: first exact match wins
	tiers = append([]QuantityTier{{Equal: 50, Price: 7}}, tiers...)
	assert.Equal(t, 7.0, ResolveUnitPrice(50, 20, tiers))
}

func TestResolveUnitPriceLastMatchWins(t *testing.T) {
	t.Parallel()

	tiers := []QuantityTier{
		{From: 1, To: ptr(100), Price: 10},
		{From: 50, To: ptr(200), Price: 8},
	}

	// both ranges cover 75; the later tier in list order is kept
	assert.Equal(t, 8.0, ResolveUnitPrice(75, 15, tiers))
	// only the first covers 25
	assert.Equal(t, 10.0, ResolveUnitPrice(25, 15, tiers))
}

func TestResolveUnitPriceOpenEnded(t *testing.T) {
	t.Parallel()

	tiers := []QuantityTier{
		{From: 1, To: ptr(50), Price: 10},
		{From: 51, Price: 8},
	}

	assert.Equal(t, 10.0, ResolveUnitPrice(30, 99, tiers))
	assert.Equal(t, 8.0, ResolveUnitPrice(60, 99, tiers))
	assert.Equal(t, 8.0, ResolveUnitPrice(9999, 99, tiers))
	// below every tier: base price
	tiers[0].From = 10
	assert.Equal(t, 99.0, ResolveUnitPrice(5, 99, tiers))
}

func TestResolveUnitPriceDeterministic(t *testing.T) {
	t.Parallel()

	tiers := []QuantityTier{
		{From: 1, To: ptr(50), Price: 500},
		{From: 51, To: ptr(100), Price: 450},
		{From: 101, Price: 400},
	}
	first := ResolveUnitPrice(75, 550, tiers)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ResolveUnitPrice(75, 550, tiers))
	}
	assert.Equal(t, 450.0, first)
}

func TestNormalizeTiers(t *testing.T) {
	t.Parallel()

	raw := []TierFields{
		{From: "1", To: "50", Equal: "500"},
		{From: "51", To: "100", Equal: "450"},
		{From: "101", Total: "400"},
		{From: "901", Total: "390"}, // beyond the 3-slot cap, dropped
	}

	tiers := NormalizeTiers(raw)
	require.Len(t, tiers, MaxTiers)

	assert.Equal(t, 1.0, tiers[0].From)
	require.NotNil(t, tiers[0].To)
	assert.Equal(t, 50.0, *tiers[0].To)
	assert.Equal(t, 500.0, tiers[0].Price)

	// third slot prices through "total" and stays open-ended
	assert.Nil(t, tiers[2].To)
	assert.Equal(t, 400.0, tiers[2].Price)

	// non-numeric bounds collapse to zero instead of dropping the tier
	bad := NormalizeTiers([]TierFields{{From: "abc", To: "xyz", Equal: "n/a"}})
	require.Len(t, bad, 1)
	assert.Equal(t, 0.0, bad[0].From)
	assert.Equal(t, 0.0, *bad[0].To)
	assert.Equal(t, 0.0, bad[0].Price)
}

func TestTierFieldsLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1–50 = 500", TierFields{From: "1", To: "50", Equal: "500"}.Label())
	assert.Equal(t, "101+ = 400", TierFields{From: "101", Total: "400"}.Label())
	assert.Equal(t, "≤800 = 400", TierFields{To: "800", Total: "400"}.Label())
	assert.Equal(t, "-", TierFields{}.Label())
}

func TestClampQty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, ClampQty(0))
	assert.Equal(t, 1, ClampQty(-4))
	assert.Equal(t, 3, ClampQty(3.9))
	assert.Equal(t, 9999, ClampQty(123456))
}
