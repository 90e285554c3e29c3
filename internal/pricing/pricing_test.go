package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteFlatRateBelowThreshold(t *testing.T) {
	table := DefaultTable()

	for _, area := range []float64{0, 1, 19.99, 20} {
		price, err := table.Quote(TierBasic, area)
		assert.NoError(t, err)
		assert.Equal(t, 29.0, price, "area %v", area)
	}
}

func TestQuoteSurchargeStartsJustAboveThreshold(t *testing.T) {
	table := DefaultTable()

	price, err := table.Quote(TierBasic, 20.0001)
	assert.NoError(t, err)
	assert.Greater(t, price, 29.0)
}

func TestQuoteKnownValue(t *testing.T) {
	table := DefaultTable()

	// 29 + 0.857 * 5^0.833 rounded to cents.
	price, err := table.Quote(TierBasic, 25)
	assert.NoError(t, err)
	assert.Equal(t, 32.28, price)
}

func TestQuoteMonotonicInArea(t *testing.T) {
	table := DefaultTable()
	areas := []float64{0, 5, 19, 20, 20.5, 25, 50, 100, 1000}

	for _, tier := range []Tier{TierBasic, TierPro, TierEnterprise} {
		prev := -1.0
		for _, area := range areas {
			price, err := table.Quote(tier, area)
			assert.NoError(t, err)
			assert.GreaterOrEqual(t, price, prev, "tier %s area %v", tier, area)
			prev = price
		}
	}
}

func TestQuotePerReportIgnoresArea(t *testing.T) {
	table := DefaultTable()

	for _, area := range []float64{0, 20, 500} {
		price, err := table.Quote(TierPerReport, area)
		assert.NoError(t, err)
		assert.Equal(t, 20.0, price)
	}
}

func TestQuoteUnknownTier(t *testing.T) {
	_, err := DefaultTable().Quote(Tier("gold"), 10)
	assert.Error(t, err)
}

func TestParseTier(t *testing.T) {
	tier, err := ParseTier("pro")
	assert.NoError(t, err)
	assert.Equal(t, TierPro, tier)

	_, err = ParseTier("platinum")
	assert.Error(t, err)
}

func TestQuota(t *testing.T) {
	table := DefaultTable()

	quota, err := table.Quota(TierPro)
	assert.NoError(t, err)
	assert.Equal(t, 15, quota)

	_, err = table.Quota(Tier("gold"))
	assert.Error(t, err)
}
