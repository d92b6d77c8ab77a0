// Package tiger reads Census TIGER/Line county and state boundary
// shapefiles.
package tiger

import (
	"fmt"
	"sort"
)

// Product describes a national TIGER/Line shapefile product.
type Product struct {
	Name    string   // e.g., "COUNTY"
	Table   string   // file suffix, e.g., "county"
	IDField string   // attribute carrying the GEOID
	Columns []string // attributes read from the .dbf
}

// Products lists the boundary products the dashboard can draw from.
var Products = []Product{
	{
		Name:    "COUNTY",
		Table:   "county",
		IDField: "geoid",
		Columns: []string{"statefp", "countyfp", "geoid", "name", "namelsad"},
	},
	{
		Name:    "STATE",
		Table:   "state",
		IDField: "geoid",
		Columns: []string{"statefp", "geoid", "stusps", "name"},
	},
}

// FIPSCodes maps state abbreviation to 2-digit FIPS code for all 50 states + DC.
var FIPSCodes = map[string]string{
	"AL": "01", "AK": "02", "AZ": "04", "AR": "05", "CA": "06",
	"CO": "08", "CT": "09", "DE": "10", "DC": "11", "FL": "12",
	"GA": "13", "HI": "15", "ID": "16", "IL": "17", "IN": "18",
	"IA": "19", "KS": "20", "KY": "21", "LA": "22", "ME": "23",
	"MD": "24", "MA": "25", "MI": "26", "MN": "27", "MS": "28",
	"MO": "29", "MT": "30", "NE": "31", "NV": "32", "NH": "33",
	"NJ": "34", "NM": "35", "NY": "36", "NC": "37", "ND": "38",
	"OH": "39", "OK": "40", "OR": "41", "PA": "42", "RI": "44",
	"SC": "45", "SD": "46", "TN": "47", "TX": "48", "UT": "49",
	"VT": "50", "VA": "51", "WA": "53", "WV": "54", "WI": "55",
	"WY": "56",
}

// abbrByFIPS is a reverse lookup from FIPS code to state abbreviation.
var abbrByFIPS map[string]string

func init() {
	abbrByFIPS = make(map[string]string, len(FIPSCodes))
	for abbr, fips := range FIPSCodes {
		abbrByFIPS[fips] = abbr
	}
}

// AbbrFromFIPS returns the state abbreviation for a state FIPS code. A
// 5-digit county FIPS is accepted and resolved by its state prefix.
func AbbrFromFIPS(fips string) (string, bool) {
	if len(fips) == 5 {
		fips = fips[:2]
	}
	abbr, ok := abbrByFIPS[fips]
	return abbr, ok
}

// AllStateFIPS returns a sorted list of all state FIPS codes.
func AllStateFIPS() []string {
	codes := make([]string, 0, len(FIPSCodes))
	for _, fips := range FIPSCodes {
		codes = append(codes, fips)
	}
	sort.Strings(codes)
	return codes
}

// ProductByName looks up a product by its name (case-sensitive).
func ProductByName(name string) (Product, bool) {
	for _, p := range Products {
		if p.Name == name {
			return p, true
		}
	}
	return Product{}, false
}

// DownloadURL builds the Census Bureau download URL for a national
// TIGER/Line shapefile: tl_{year}_us_{table}.zip.
func DownloadURL(product Product, year int) string {
	return fmt.Sprintf(
		"https://www2.census.gov/geo/tiger/TIGER%d/%s/tl_%d_us_%s.zip",
		year, product.Name, year, product.Table,
	)
}
