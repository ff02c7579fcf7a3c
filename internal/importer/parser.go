package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lifepolicy/internal/application"
	enc "github.com/MrJamesThe3rd/lifepolicy/internal/encoding"
)

var (
	ErrUnknownFormat = errors.New("no matching application export format")
	ErrInvalidRow    = errors.New("invalid row")
)

// Parser reads application exports and auto-detects their layout by matching
// the header row against known profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse returns the applications in r and the name of the matched profile.
func (p *Parser) Parse(r io.Reader) ([]application.CreateParams, string, error) {
	utf8r, charset, err := enc.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("detect encoding: %w", err)
	}

	content, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}

	for i := range profiles {
		profile := &profiles[i]

		rows, err := readRows(content, profile.Comma)
		if err != nil {
			continue
		}

		cols, headerIdx, ok := findHeader(profile, rows)
		if !ok {
			continue
		}

		slog.Debug("application export detected", "profile", profile.Name, "charset", charset)

		params, err := parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
		if err != nil {
			return nil, profile.Name, err
		}

		return params, profile.Name, nil
	}

	return nil, "", ErrUnknownFormat
}

func readRows(content []byte, comma rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader.ReadAll()
}

type colIndex map[string]int

// findHeader returns the column positions of the first row carrying every
// column the profile needs. Broker exports put a preamble above the header.
func findHeader(p *Profile, rows [][]string) (colIndex, int, bool) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := strings.TrimSpace(cell); name != "" {
				cols[name] = i
			}
		}

		if matchesProfile(p, cols) {
			return cols, rowIdx, true
		}
	}

	return nil, 0, false
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows skips blank lines. Any other malformed row fails the whole file
// so that a partial import never reaches the database.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]application.CreateParams, error) {
	ownerIdx := cols[p.OwnerCol]
	productIdx := cols[p.ProductCol]
	coverageIdx := cols[p.CoverageCol]

	var params []application.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 1

		if isBlank(row) {
			continue
		}

		ownerStr := cellValue(row, ownerIdx)
		if ownerStr == "" {
			return nil, fmt.Errorf("%w %d: missing owner", ErrInvalidRow, rowNum)
		}

		owner, err := uuid.Parse(ownerStr)
		if err != nil {
			return nil, fmt.Errorf("%w %d: invalid owner %q: %w", ErrInvalidRow, rowNum, ownerStr, err)
		}

		product := cellValue(row, productIdx)
		if product == "" {
			return nil, fmt.Errorf("%w %d: missing product type", ErrInvalidRow, rowNum)
		}

		coverage, err := parseCoverage(cellValue(row, coverageIdx), p.Notation)
		if err != nil {
			return nil, fmt.Errorf("%w %d: %w", ErrInvalidRow, rowNum, err)
		}

		params = append(params, application.CreateParams{
			OwnerID:         owner,
			ProductType:     product,
			DesiredCoverage: coverage,
		})
	}

	return params, nil
}

// parseCoverage treats an empty cell as no desired coverage.
func parseCoverage(s string, n Notation) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}

	d, err := parseAmount(s, n)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid coverage %q: %w", s, err)
	}

	if d.IsNegative() {
		return decimal.NullDecimal{}, fmt.Errorf("negative coverage %q", s)
	}

	return decimal.NewNullDecimal(d), nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
