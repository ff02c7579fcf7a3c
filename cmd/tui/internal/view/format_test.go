package view

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "2500.00", FormatAmount(decimal.NewFromInt(2500)))
	assert.Equal(t, "0.13", FormatAmount(decimal.RequireFromString("0.125")))
	assert.Equal(t, "0.00", FormatAmount(decimal.Zero))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2026-04-15", FormatDate(time.Date(2026, 4, 15, 23, 59, 0, 0, time.UTC)))
}
