package importer_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/lifepolicy/internal/importer"
)

const (
	ownerA = "6f1c2b7e-3d4a-4c5b-9e8f-0a1b2c3d4e5f"
	ownerB = "0b9a8c7d-6e5f-4a3b-8c2d-1e0f9a8b7c6d"
)

func assertCoverage(t *testing.T, want string, got decimal.NullDecimal) {
	t.Helper()

	require.True(t, got.Valid)
	assert.True(t, decimal.RequireFromString(want).Equal(got.Decimal), "want %s, got %s", want, got.Decimal)
}

func TestParser_Broker(t *testing.T) {
	csv := `Exportação de propostas - 14-04-2026
Mediador;Seguros Lusitânia Lda

Cliente;Produto;Capital;Observações
` + ownerA + `;Vida Inteira (Whole Life);250.000,00;
` + ownerB + `;Term Life 20 anos;1.500,50;fumador

`

	params, profile, err := importer.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, "broker", profile)

	assert.Equal(t, uuid.MustParse(ownerA), params[0].OwnerID)
	assert.Equal(t, "Vida Inteira (Whole Life)", params[0].ProductType)
	assertCoverage(t, "250000", params[0].DesiredCoverage)

	assert.Equal(t, uuid.MustParse(ownerB), params[1].OwnerID)
	assertCoverage(t, "1500.5", params[1].DesiredCoverage)
}

func TestParser_BrokerGroupedWithoutDecimals(t *testing.T) {
	csv := "Cliente;Produto;Capital\n" +
		ownerA + ";Vida Universal;250.000\n" +
		ownerB + ";Vida Inteira;1.250.000\n"

	params, _, err := importer.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 2)

	assertCoverage(t, "250000", params[0].DesiredCoverage)
	assertCoverage(t, "1250000", params[1].DesiredCoverage)
}

func TestParser_BrokerLatin1(t *testing.T) {
	content := "Cliente;Produto;Capital\n" + ownerA + ";Seguro Vida Universal Proteção;100.000,00\n"

	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte(content))
	require.NoError(t, err)

	params, _, err := importer.NewParser().Parse(bytes.NewReader(latin1))
	require.NoError(t, err)
	require.Len(t, params, 1)

	assert.Equal(t, "Seguro Vida Universal Proteção", params[0].ProductType)
}

func TestParser_Portal(t *testing.T) {
	csv := `owner_id,product_type,desired_coverage
` + ownerA + `,Universal Life,100000
` + ownerB + `,"Term, renewable",
`

	params, profile, err := importer.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, "portal", profile)
	assert.Equal(t, "Universal Life", params[0].ProductType)
	assertCoverage(t, "100000", params[0].DesiredCoverage)

	assert.Equal(t, "Term, renewable", params[1].ProductType)
	assert.False(t, params[1].DesiredCoverage.Valid)
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr string
	}{
		{
			name:    "UnknownFormat",
			csv:     "Data mov.;Descrição;Montante\n30-01-2026;CAFE;-1,00\n",
			wantErr: importer.ErrUnknownFormat.Error(),
		},
		{
			name:    "MissingOwner",
			csv:     "Cliente;Produto;Capital\n;Term;1000\n",
			wantErr: "row 2: missing owner",
		},
		{
			name:    "InvalidOwner",
			csv:     "Cliente;Produto;Capital\nJOHN DOE;Term;1000\n",
			wantErr: "row 2: invalid owner",
		},
		{
			name:    "MissingProduct",
			csv:     "Cliente;Produto;Capital\n" + ownerA + ";;1000\n",
			wantErr: "row 2: missing product type",
		},
		{
			name:    "NegativeCoverage",
			csv:     "owner_id,product_type,desired_coverage\n" + ownerA + ",Term,-5\n",
			wantErr: "row 2: negative coverage",
		},
		{
			name:    "AmbiguousBrokerCoverage",
			csv:     "Cliente;Produto;Capital\n" + ownerA + ";Term;250.00\n",
			wantErr: "row 2: invalid coverage",
		},
		{
			name:    "GarbageCoverage",
			csv:     "owner_id,product_type,desired_coverage\n" + ownerA + ",Term,lots\n",
			wantErr: "row 2: invalid coverage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, _, err := importer.NewParser().Parse(strings.NewReader(tt.csv))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Nil(t, params)

			if tt.name != "UnknownFormat" {
				assert.ErrorIs(t, err, importer.ErrInvalidRow)
			}
		})
	}
}

func TestParser_HeaderOnly(t *testing.T) {
	params, profile, err := importer.NewParser().Parse(strings.NewReader("owner_id,product_type,desired_coverage\n"))
	require.NoError(t, err)

	assert.Equal(t, "portal", profile)
	assert.Empty(t, params)
}

