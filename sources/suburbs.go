package sources

import "strings"

// suburbPostcodes maps supported Sydney suburbs (lowercased) to their
// postcodes. Listing sites encode both into search URLs, so a suburb
// outside this table cannot be searched.
var suburbPostcodes = map[string]string{
	"bondi":           "2026",
	"bondi beach":     "2026",
	"north bondi":     "2026",
	"bondi junction":  "2022",
	"sydney":          "2000",
	"sydney cbd":      "2000",
	"haymarket":       "2000",
	"pyrmont":         "2009",
	"ultimo":          "2007",
	"surry hills":     "2010",
	"darlinghurst":    "2010",
	"redfern":         "2016",
	"newtown":         "2042",
	"glebe":           "2037",
	"marrickville":    "2204",
	"parramatta":      "2150",
	"chatswood":       "2067",
	"chatswood west":  "2067",
	"lane cove":       "2066",
	"north sydney":    "2060",
	"mosman":          "2088",
	"manly":           "2095",
	"randwick":        "2031",
	"coogee":          "2034",
	"maroubra":        "2035",
	"epping":          "2121",
	"ryde":            "2112",
	"burwood":         "2134",
	"strathfield":     "2135",
	"hurstville":      "2220",
	"kogarah":         "2217",
	"liverpool":       "2170",
	"blacktown":       "2148",
	"penrith":         "2750",
	"castle hill":     "2154",
	"hornsby":         "2077",
	"dee why":         "2099",
	"cronulla":        "2230",
	"alexandria":      "2015",
	"waterloo":        "2017",
	"zetland":         "2017",
	"mascot":          "2020",
	"rhodes":          "2138",
	"wentworth point": "2127",
	"olympic park":    "2127",
}

// PostcodeFor resolves a suburb name to its postcode.
func PostcodeFor(suburb string) (string, bool) {
	pc, ok := suburbPostcodes[strings.ToLower(strings.TrimSpace(suburb))]
	return pc, ok
}

// Slug converts a suburb name to the lowercase hyphenated form used in
// listing-site URL paths, e.g. "Surry Hills" -> "surry-hills".
func Slug(suburb string) string {
	s := strings.ToLower(strings.TrimSpace(suburb))
	return strings.ReplaceAll(s, " ", "-")
}

// SupportedSuburbs returns the canonical suburb names, for error messages
// and the API's suburb listing endpoint.
func SupportedSuburbs() []string {
	names := make([]string, 0, len(suburbPostcodes))
	for name := range suburbPostcodes {
		names = append(names, name)
	}
	return names
}
