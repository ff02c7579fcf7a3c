package importer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in       string
		notation Notation
		want     string
	}{
		{in: "1.234,56", notation: NotationEuropean, want: "1234.56"},
		{in: "250.000,00", notation: NotationEuropean, want: "250000"},
		{in: "250.000", notation: NotationEuropean, want: "250000"},
		{in: "1.250.000", notation: NotationEuropean, want: "1250000"},
		{in: "10,5", notation: NotationEuropean, want: "10.5"},
		{in: "100000", notation: NotationEuropean, want: "100000"},
		{in: "250 000 €", notation: NotationEuropean, want: "250000"},
		{in: "75.000,00 EUR", notation: NotationEuropean, want: "75000"},
		{in: "1234.56", notation: NotationPlain, want: "1234.56"},
		{in: "100000", notation: NotationPlain, want: "100000"},
		{in: "1,250,000.50", notation: NotationPlain, want: "1250000.5"},
		{in: "-5", notation: NotationPlain, want: "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAmount(tt.in, tt.notation)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	tests := []struct {
		in       string
		notation Notation
	}{
		{in: "abc", notation: NotationEuropean},
		{in: "250.00", notation: NotationEuropean},
		{in: "1.25.000", notation: NotationEuropean},
		{in: "1,5,0", notation: NotationEuropean},
		{in: "1234,56", notation: NotationPlain},
		{in: "1.2.3", notation: NotationPlain},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := parseAmount(tt.in, tt.notation)
			assert.Error(t, err)
		})
	}
}
