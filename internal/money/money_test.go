package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 50.0, ParseNumber("50.00"))
	assert.Equal(t, 0.5, ParseNumber(" 0.500 "))
	assert.Equal(t, -3.25, ParseNumber("-3.25"))

	// anything unusable is zero, never an error
	assert.Equal(t, 0.0, ParseNumber(""))
	assert.Equal(t, 0.0, ParseNumber("abc"))
	assert.Equal(t, 0.0, ParseNumber("500 kg"))
	assert.Equal(t, 0.0, ParseNumber("NaN"))
	assert.Equal(t, 0.0, ParseNumber("+Inf"))
}

func TestFormatMoneyAlwaysUSD(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "$1,234.50", FormatMoney(1234.5, "en"))

	// unknown locale degrades to the plain 2-decimal prefix
	assert.Equal(t, "$1234.50", FormatMoney(1234.5, "fr"))
	assert.Equal(t, "$0.00", FormatMoney(0, ""))

	// locale changes digit rendering only, the currency stays USD
	ar := FormatMoney(120, "ar")
	assert.Contains(t, ar, "$")
	assert.NotEqual(t, FormatMoney(120, "en"), "")
}

func TestFormatDate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "—", FormatDate("", "en"))
	assert.Equal(t, "—", FormatDate("   ", "ar"))

	// unparseable input comes back verbatim
	assert.Equal(t, "not-a-date", FormatDate("not-a-date", "en"))

	assert.Equal(t, "Mar 9, 2025, 2:30 PM", FormatDate("2025-03-09T14:30:00Z", "en"))
	assert.Equal(t, "Mar 9, 2025, 2:30 PM", FormatDate("2025-03-09 14:30:00", "en"))

	// arabic output exists and is non-empty; exact digits depend on CLDR data
	assert.NotEmpty(t, FormatDate("2025-03-09T14:30:00Z", "ar"))
}

func TestRound2(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 10.56, Round2(10.555))
	assert.Equal(t, 0.0, Round2(0.0049))
	assert.Equal(t, 19.99, Round2(19.99))
}
