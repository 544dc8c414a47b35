package util

import (
	"fmt"
	"strings"
)

// FormatUSD renders a value as a dollar amount with two decimals and
// thousands separators, e.g. 10000 -> "$10,000.00".
func FormatUSD(value float64) string {
	negative := value < 0
	if negative {
		value = -value
	}

	s := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(s, ".", 2)
	grouped := groupThousands(parts[0])

	out := "$" + grouped + "." + parts[1]
	if negative {
		out = "-" + out
	}
	return out
}

// FormatSignedPercent renders a percentage with an explicit sign and two
// decimals, e.g. 2.5 -> "+2.50%".
func FormatSignedPercent(value float64) string {
	if value >= 0 {
		return fmt.Sprintf("+%.2f%%", value)
	}
	return fmt.Sprintf("%.2f%%", value)
}

// FormatPercent renders a percentage with two decimals and no sign prefix
func FormatPercent(value float64) string {
	return fmt.Sprintf("%.2f%%", value)
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}

	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
