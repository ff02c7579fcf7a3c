package importer

// Profile describes the column layout of an application export.
// Adding a source is adding a Profile to the profiles slice.
type Profile struct {
	Name        string
	Comma       rune
	OwnerCol    string
	ProductCol  string
	CoverageCol string
	Notation    Notation
}

func (p Profile) requiredCols() []string {
	return []string{p.OwnerCol, p.ProductCol, p.CoverageCol}
}

// profiles is tried in order; the first whose header is found wins.
var profiles = []Profile{
	{
		Name:        "broker",
		Comma:       ';',
		OwnerCol:    "Cliente",
		ProductCol:  "Produto",
		CoverageCol: "Capital",
		Notation:    NotationEuropean,
	},
	{
		Name:        "portal",
		Comma:       ',',
		OwnerCol:    "owner_id",
		ProductCol:  "product_type",
		CoverageCol: "desired_coverage",
		Notation:    NotationPlain,
	},
}
