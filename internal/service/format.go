package service

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// intPart truncates an amount string the way the Mall's integer casts do;
// unparsable input counts as 0.
func intPart(s string) int64 {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return d.IntPart()
}

// thousands renders n with comma separators and no decimals.
func thousands(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
