package importer

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Notation is how an export writes amounts.
type Notation int

const (
	// NotationEuropean groups thousands with dots and marks decimals with a
	// comma: "1.250.000,50". A dot never starts a decimal part.
	NotationEuropean Notation = iota
	// NotationPlain marks decimals with a dot and may group with commas:
	// "1250000.50", "1,250,000.50".
	NotationPlain
)

var errBadGrouping = errors.New("thousands groups must have three digits")

// parseAmount reads an amount written in the given notation. Spaces and a
// currency marker are ignored. Grouped digits must come in threes, so
// "250.00" is rejected in European notation instead of read as 25000.
func parseAmount(s string, n Notation) (decimal.Decimal, error) {
	clean := strings.NewReplacer(" ", "", "\u00a0", "", "€", "", "EUR", "").Replace(s)

	group, point := ".", ","
	if n == NotationPlain {
		group, point = ",", "."
	}

	intPart, fracPart, hasFrac := strings.Cut(clean, point)
	if !validGrouping(strings.TrimLeft(intPart, "+-"), group) {
		return decimal.Decimal{}, errBadGrouping
	}

	clean = strings.ReplaceAll(intPart, group, "")
	if hasFrac {
		clean += "." + fracPart
	}

	return decimal.NewFromString(clean)
}

func validGrouping(digits, sep string) bool {
	groups := strings.Split(digits, sep)
	if len(groups) == 1 {
		return true
	}

	if len(groups[0]) == 0 || len(groups[0]) > 3 {
		return false
	}

	for _, g := range groups[1:] {
		if len(g) != 3 {
			return false
		}
	}

	return true
}
