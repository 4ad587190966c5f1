package adminform

import (
	"io"
	"mime"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/autoshop/internal/pricing"
)

func validProduct() ProductForm {
	return ProductForm{
		Category:    "Interior",
		Name:        "Floor Mats",
		Image:       "https://cdn.example.com/mats.jpg",
		PriceEach:   "550",
		Description: "All-weather mats",
		Weight:      "2.4",
	}
}

func TestProductFormValidateFieldSpecificMessages(t *testing.T) {
	t.Parallel()

	f := validProduct()
	require.NoError(t, f.Validate())

	f = validProduct()
	f.Category = "  "
	assert.EqualError(t, f.Validate(), "category is required")

	f = validProduct()
	f.Name = ""
	assert.EqualError(t, f.Validate(), "name is required")

	f = validProduct()
	f.PriceEach = "abc"
	assert.EqualError(t, f.Validate(), "price must be a number")

	f = validProduct()
	f.PriceEach = "0"
	assert.EqualError(t, f.Validate(), "price must be positive")

	f = validProduct()
	f.Weight = ""
	assert.EqualError(t, f.Validate(), "weight must be a number")

	f = validProduct()
	f.Weight = "-1"
	assert.EqualError(t, f.Validate(), "weight must be positive")
}

func TestFieldsOmitsEmptyTierSlots(t *testing.T) {
	t.Parallel()

	f := validProduct()
	f.Tiers[0] = TierInput{From: "1", To: "50", Price: "500"}
	// slot 2 untouched
	f.Tiers[2] = TierInput{From: "101", To: "800", Price: "400"}

	fields := f.Fields()

	// slot 1 uses the unsuffixed names with "equal"
	assert.Equal(t, "1", fields["from_number"])
	assert.Equal(t, "50", fields["to_number"])
	assert.Equal(t, "500", fields["equal"])

	// slot 3 uses "_3" suffixes and prices through "total_3"
	assert.Equal(t, "101", fields["from_number_3"])
	assert.Equal(t, "800", fields["to_number_3"])
	assert.Equal(t, "400", fields["total_3"])

	// the empty slot 2 contributes no keys at all
	for _, key := range []string{"from_number_2", "to_number_2", "equal_2"} {
		_, present := fields[key]
		assert.False(t, present, key)
	}
}

func TestFieldsPartialTier(t *testing.T) {
	t.Parallel()

	f := validProduct()
	f.Tiers[1] = TierInput{From: "51", Price: "450"} // open-ended, no "to"

	fields := f.Fields()
	assert.Equal(t, "51", fields["from_number_2"])
	assert.Equal(t, "450", fields["equal_2"])
	_, present := fields["to_number_2"]
	assert.False(t, present)
}

func TestMultipartRoundTrip(t *testing.T) {
	t.Parallel()

	f := validProduct()
	f.Tiers[0] = TierInput{From: "1", To: "50", Price: "500"}

	payload, err := f.Multipart()
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(payload.ContentType)
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)

	reader := multipart.NewReader(payload.Body, params["boundary"])
	got := map[string]string{}
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		value, err := io.ReadAll(part)
		require.NoError(t, err)
		got[part.FormName()] = string(value)
	}

	assert.Equal(t, "Interior", got["category"])
	assert.Equal(t, "550", got["price_each"])
	assert.Equal(t, "2.4", got["weight"])
	assert.Equal(t, "500", got["equal"])
	_, present := got["equal_2"]
	assert.False(t, present)
}

func TestTierFieldsSynthesis(t *testing.T) {
	t.Parallel()

	f := validProduct()
	f.Tiers[0] = TierInput{From: "1", To: "50", Price: "500"}
	f.Tiers[2] = TierInput{From: "101", To: "800", Price: "400"}

	tiers := f.TierFields()
	require.Len(t, tiers, 2)

	assert.Equal(t, pricing.TierFields{From: "1", To: "50", Equal: "500"}, tiers[0])
	// the last slot prices through "total", matching the wire contract
	assert.Equal(t, pricing.TierFields{From: "101", To: "800", Total: "400"}, tiers[1])
}

func TestFromTiersPrefill(t *testing.T) {
	t.Parallel()

	inputs := FromTiers([]pricing.TierFields{
		{From: "1", To: "50", Equal: "500"},
		{From: "101", Total: "400"},
	})

	assert.Equal(t, TierInput{From: "1", To: "50", Price: "500"}, inputs[0])
	assert.Equal(t, TierInput{From: "101", Price: "400"}, inputs[1])
	assert.Equal(t, TierInput{}, inputs[2])
}

func TestSynthesizeProduct(t *testing.T) {
	t.Parallel()

	f := validProduct()
	f.Tiers[0] = TierInput{From: "1", To: "50", Price: "500"}

	p := f.Synthesize(42, "2024-01-01T00:00:00Z")
	assert.Equal(t, int64(42), p.ID)
	assert.Equal(t, 550.0, p.PriceEach)
	assert.Equal(t, 2.4, p.WeightKg)
	assert.Equal(t, "2024-01-01T00:00:00Z", p.CreatedAt)
	assert.NotEqual(t, p.CreatedAt, p.UpdatedAt)
	require.Len(t, p.Tiers, 1)
}
