package pricing

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatUSD renders a USD amount with a dollar sign and two decimal places.
func FormatUSD(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// FormatRiel renders a Riel amount with thousands separators and the Riel
// sign, e.g. 157850 -> "157,850៛".
func FormatRiel(amount int64) string {
	return groupThousands(amount) + "៛"
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}

	if negative {
		return "-" + b.String()
	}
	return b.String()
}
