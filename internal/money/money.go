package money

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// The backend stringifies every numeric field ("50.00", "0.500"), so all
// parsing goes through here and a bad value always collapses to zero.

const missingValue = "—"

var locales = map[string]language.Tag{
	"en": language.MustParse("en-US"),
	"ar": language.MustParse("ar-EG"),
}

// ParseNumber converts a stringified numeric to a float64. Empty, malformed
// and non-finite input all yield 0; it never fails.
func ParseNumber(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0
	}
	return parsed
}

// FormatMoney renders an amount in USD. Locale only affects digit rendering
// and grouping, never the currency. Unknown locales fall back to a plain
// 2-decimal dollar prefix.
func FormatMoney(amount float64, locale string) string {
	tag, ok := locales[locale]
	if !ok {
		return fmt.Sprintf("$%.2f", amount)
	}
	p := message.NewPrinter(tag)
	return p.Sprintf("$%v", number.Decimal(amount,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// FormatDate renders an ISO timestamp for display. Missing input becomes an
// em-dash, unparseable input is returned verbatim.
func FormatDate(iso, locale string) string {
	if strings.TrimSpace(iso) == "" {
		return missingValue
	}

	parsed, err := parseTimestamp(iso)
	if err != nil {
		return iso
	}

	if tag, ok := locales[locale]; ok && locale == "ar" {
		p := message.NewPrinter(tag)
		return p.Sprintf("%d/%d/%d %d:%02d",
			parsed.Day(), int(parsed.Month()), parsed.Year(),
			parsed.Hour(), parsed.Minute())
	}
	return parsed.Format("Jan 2, 2006, 3:04 PM")
}

func parseTimestamp(iso string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05", // backend occasionally sends SQL-style stamps
		"2006-01-02",
	}
	var lastErr error
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, iso)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Round2 rounds to two decimals, the precision of every amount in the order
// wire payload.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
