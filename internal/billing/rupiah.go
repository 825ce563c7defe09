package billing

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var rupiahPrinter = message.NewPrinter(language.Indonesian)

// FormatRupiah renders a whole-Rupiah amount with Indonesian grouping,
// e.g. FormatRupiah(1500000) == "Rp 1.500.000". Negative amounts keep
// their sign; there are no fractional units.
func FormatRupiah(v int64) string {
	return "Rp " + rupiahPrinter.Sprint(number.Decimal(v))
}

// ParseRupiah converts an upstream-formatted amount string into an
// integer. The upstream formats totals with a literal period as the
// thousands separator ("1.500.000"); the rule here is to strip period
// characters and parse what remains, not locale-aware grouping, because
// that is what the upstream's own clients do. Anything unparseable,
// including the empty string, becomes zero.
func ParseRupiah(s string) int64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
