package adminform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportFormValidate(t *testing.T) {
	t.Parallel()

	f := TransportForm{Zone: "Riyadh", WeightKg: "500", Price: "120"}
	require.NoError(t, f.Validate())

	f.Zone = "   "
	assert.EqualError(t, f.Validate(), "zone is required")

	f = TransportForm{Zone: "Riyadh", WeightKg: "heavy", Price: "120"}
	assert.EqualError(t, f.Validate(), "weight must be a number")

	f = TransportForm{Zone: "Riyadh", WeightKg: "500", Price: ""}
	assert.EqualError(t, f.Validate(), "price must be a number")
}

func TestTransportPayloadFixedPrecision(t *testing.T) {
	t.Parallel()

	f := TransportForm{Zone: " Riyadh ", WeightKg: "500", Price: "120"}
	assert.Equal(t, map[string]string{
		"zone":      "Riyadh",
		"weight_kg": "500.000",
		"price":     "120.00",
	}, f.Payload())
}

func TestTransportSynthesize(t *testing.T) {
	t.Parallel()

	record := TransportForm{Zone: "Jeddah", WeightKg: "250.5", Price: "80"}.Synthesize(9, "")
	assert.Equal(t, int64(9), record.ID)
	assert.Equal(t, "250.500", record.WeightKg)
	assert.Equal(t, "80.00", record.Price)
	assert.Equal(t, "250 kg", record.Weight) // display duplicate, whole kilograms
	assert.NotEmpty(t, record.CreatedAt)
}
