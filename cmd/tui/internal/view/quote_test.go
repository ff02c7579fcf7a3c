package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/lifepolicy/internal/premium"
)

func TestQuote(t *testing.T) {
	svc := premium.NewService(premium.DefaultRegistry())

	got, err := quote(svc, "Universal Life", "100000")
	require.NoError(t, err)
	assert.Equal(t, "Universal Life via UniversalLifePremium: 2500.00 per year", got)

	_, err = quote(svc, "Annuity", "100000")
	assert.ErrorIs(t, err, premium.ErrUnsupportedProductType)

	_, err = quote(svc, "Term", "lots")
	assert.Error(t, err)
}
