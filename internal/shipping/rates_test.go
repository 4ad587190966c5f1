package shipping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChargeFlatIgnoresWeight(t *testing.T) {
	t.Parallel()

	r := Rate{Kind: Flat, Zone: "Riyadh", CeilingKg: 500, Price: 120}
	assert.Equal(t, 120.0, r.Charge(0))
	assert.Equal(t, 120.0, r.Charge(1200)) // ceiling is advisory only
}

func TestChargePerKg(t *testing.T) {
	t.Parallel()

	r := Rate{Kind: PerKg, Zone: "Jeddah", Price: 2.5}
	assert.Equal(t, 0.0, r.Charge(0))
	assert.Equal(t, 25.0, r.Charge(10))
}

func TestSelectRateByCompositeKey(t *testing.T) {
	t.Parallel()

	// two rates sharing a zone name must stay distinguishable
	rates := []Rate{
		{ID: 1, Kind: Flat, Zone: "Dammam", CeilingKg: 100, Price: 60},
		{ID: 2, Kind: Flat, Zone: "Dammam", CeilingKg: 500, Price: 120},
	}

	keyed := Keys(rates)
	require.Len(t, keyed, 2)
	assert.NotEqual(t, keyed[0].Key, keyed[1].Key)

	picked, ok := SelectRate(rates, keyed[1].Key)
	require.True(t, ok)
	assert.Equal(t, int64(2), picked.ID)

	_, ok = SelectRate(rates, "")
	assert.False(t, ok)
	_, ok = SelectRate(rates, "Dammam|0.000|0.00|9")
	assert.False(t, ok)
}

func TestFromTransport(t *testing.T) {
	t.Parallel()

	r := FromTransport(7, "Mecca", "500.000", "120.00")
	assert.Equal(t, Flat, r.Kind)
	assert.Equal(t, 500.0, r.CeilingKg)
	assert.Equal(t, 120.0, r.Price)

	// malformed numerics collapse to zero rather than failing
	r = FromTransport(8, "Medina", "n/a", "")
	assert.Equal(t, 0.0, r.CeilingKg)
	assert.Equal(t, 0.0, r.Price)
}
