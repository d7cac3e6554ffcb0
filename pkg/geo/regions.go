package geo

// Region set membership mirrors the production cleaner tables. MENA and EMEA
// are derived unions, computed once at init and never mutated afterwards.

var EU27 = []string{
	"AT", "BE", "BG", "HR", "CY", "CZ", "DK", "EE", "FI", "FR", "DE", "GR", "HU", "IE",
	"IT", "LV", "LT", "LU", "MT", "NL", "PL", "PT", "RO", "SK", "SI", "ES", "SE",
}

var EuropeWide = append(append([]string{}, EU27...),
	"AL", "AD", "BA", "BY", "CH", "FO", "GB", "GG", "GI", "IM", "IS", "JE", "LI", "MC",
	"MD", "ME", "MK", "NO", "RU", "SM", "RS", "SJ", "UA", "VA", "XK",
)

var LATAM = []string{
	"MX", "BZ", "CR", "SV", "GT", "HN", "NI", "PA",
	"AR", "BO", "BR", "CL", "CO", "EC", "GY", "PE", "PY", "SR", "UY", "VE",
	"BS", "BB", "CU", "DM", "DO", "GD", "HT", "JM", "LC", "TT", "KN",
}

var APAC = []string{
	"AF", "AM", "AZ", "BD", "BT", "BN", "KH", "CN", "GE", "HK", "IN", "ID", "JP", "KZ",
	"KG", "LA", "MO", "MY", "MV", "MN", "MM", "NP", "PK", "PH", "SG", "KR", "LK", "TW",
	"TJ", "TH", "TL", "TM", "UZ", "VN",
	"AU", "NZ", "PG", "FJ", "VU", "WS", "TO", "SB", "KI", "TV", "NR", "MH", "FM", "PW",
}

var MiddleEast = []string{"AE", "BH", "CY", "EG", "IR", "IQ", "IL", "JO", "KW", "LB", "OM", "PS", "QA", "SA", "SY", "TR", "YE"}

var NorthAfrica = []string{"DZ", "EG", "LY", "MA", "TN", "SD", "SS", "EH"}

var Africa = []string{
	"DZ", "AO", "BJ", "BW", "BF", "BI", "CM", "CV", "CF", "TD", "KM", "CD", "CG", "CI", "DJ",
	"EG", "GQ", "ER", "ET", "GA", "GM", "GH", "GN", "GW", "KE", "LS", "LR", "LY", "MG", "MW",
	"ML", "MR", "MU", "MA", "MZ", "NA", "NE", "NG", "RW", "RE", "ST", "SN", "SC", "SL", "SO",
	"ZA", "SS", "SD", "SZ", "TZ", "TG", "TN", "UG", "ZM", "ZW", "EH",
}

var (
	MENA = unionCodes(MiddleEast, NorthAfrica)
	EMEA = unionCodes(EuropeWide, MiddleEast, Africa)
)

var (
	DACH         = []string{"DE", "AT", "CH"}
	BENELUX      = []string{"BE", "NL", "LU"}
	Nordics      = []string{"DK", "FI", "IS", "NO", "SE"}
	ANZ          = []string{"AU", "NZ"}
	GCC          = []string{"AE", "SA", "KW", "QA", "OM", "BH"}
	Iberia       = []string{"ES", "PT"}
	CEE          = []string{"PL", "CZ", "SK", "HU", "RO", "BG", "HR", "SI", "EE", "LV", "LT"}
	SEA          = []string{"BN", "KH", "ID", "LA", "MY", "MM", "PH", "SG", "TH", "TL", "VN"}
	NorthAmerica = []string{"US", "CA", "MX"}
	Americas     = unionCodes(NorthAmerica, LATAM)
)

// regionSets maps region markers to their constituent codes. "EU" expands to
// the EU27; "EEA" is a recognized marker with no expansion entry, matching
// the upstream cleaner.
var regionSets = map[string][]string{
	"EU":            EU27,
	"EU27":          EU27,
	"EUROPE":        EuropeWide,
	"EMEA":          EMEA,
	"LATAM":         LATAM,
	"LATIN AMERICA": LATAM,
	"APAC":          APAC,
	"MENA":          MENA,
	"MIDDLE_EAST":   MiddleEast,
	"NORTH_AFRICA":  NorthAfrica,
	"AFRICA":        Africa,
	"DACH":          DACH,
	"BENELUX":       BENELUX,
	"NORDICS":       Nordics,
	"ANZ":           ANZ,
	"GCC":           GCC,
	"IBERIA":        Iberia,
	"CEE":           CEE,
	"SEA":           SEA,
}

// Expand returns the member codes of a region marker, or nil when the marker
// is unknown. The returned slice is a copy; callers may mutate it freely.
func Expand(regionMarker string) []string {
	members, ok := regionSets[regionMarker]
	if !ok {
		return nil
	}
	out := make([]string, len(members))
	copy(out, members)
	return out
}

func unionCodes(sets ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, set := range sets {
		for _, c := range set {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}
