package depend

// knownSystems is a static sku-to-sku mapping for exhaust systems whose
// catalog names carry no family token. It is data, not control flow:
// entries are only consulted when name-based grouping finds nothing.
var knownSystems = map[string]Links{
	// X-Kone system
	"72528XKI": {
		Requires: []string{"72177PD", "72177PZ"},
		Optional: []string{"72179PD"},
	},

	// Thunder system
	"72528AK": {
		Requires: []string{"72178PD", "72178PZ"},
		Optional: []string{"72179PD"},
	},
	"72528AKN": {
		Requires: []string{"72178PD", "72178PZ"},
		Optional: []string{"72179PD"},
	},
	"72528AO": {
		Requires: []string{"72178PD", "72178PZ"},
		Optional: []string{"72179PD"},
	},
	"72528AON": {
		Requires: []string{"72178PD", "72178PZ"},
		Optional: []string{"72179PD"},
	},
	"72528PK": {
		Requires: []string{"72178PD", "72178PZ"},
		Optional: []string{"72179PD"},
	},
	"72528PO": {
		Requires: []string{"72178PD", "72178PZ"},
		Optional: []string{"72179PD"},
	},
}
