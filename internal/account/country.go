package account

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

// CountryConfig describes how a host country identifies residents.
type CountryConfig struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	IDType    string `json:"idType"`
	IDFormat  string `json:"idFormat"`
	Prefix    string `json:"prefix"`
	idPattern *regexp.Regexp
}

var countries = map[string]CountryConfig{
	"IN": {Code: "IN", Name: "India", IDType: "Aadhaar Number", IDFormat: "12 digits", Prefix: "IND", idPattern: regexp.MustCompile(`^\d{12}$`)},
	"LB": {Code: "LB", Name: "Lebanon", IDType: "UNHCR Case Number", IDFormat: "ABC-12A34567", Prefix: "LBN", idPattern: regexp.MustCompile(`^[A-Z]{3}-\d{2}[A-Z]\d{5}$`)},
	"JO": {Code: "JO", Name: "Jordan", IDType: "UNHCR Case Number", IDFormat: "ABC-12A34567", Prefix: "JOR", idPattern: regexp.MustCompile(`^[A-Z]{3}-\d{2}[A-Z]\d{5}$`)},
	"TR": {Code: "TR", Name: "Turkey", IDType: "Foreigner ID Number", IDFormat: "11 digits starting with 99", Prefix: "TUR", idPattern: regexp.MustCompile(`^99\d{9}$`)},
	"DE": {Code: "DE", Name: "Germany", IDType: "Residence Permit Number", IDFormat: "9 letters or digits", Prefix: "DEU", idPattern: regexp.MustCompile(`^[A-Z0-9]{9}$`)},
	"US": {Code: "US", Name: "United States", IDType: "Alien Registration Number", IDFormat: "A followed by 8 or 9 digits", Prefix: "USA", idPattern: regexp.MustCompile(`^A\d{8,9}$`)},
}

// LookupCountry finds a country by ISO code, case-insensitively.
func LookupCountry(code string) (CountryConfig, bool) {
	c, ok := countries[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// Countries lists supported countries sorted by name.
func Countries() []CountryConfig {
	out := make([]CountryConfig, 0, len(countries))
	for _, c := range countries {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ValidateGovernmentID reports whether id matches the country's format.
// Unknown countries never validate.
func ValidateGovernmentID(country, id string) bool {
	c, ok := LookupCountry(country)
	if !ok {
		return false
	}
	return c.idPattern.MatchString(strings.ToUpper(strings.TrimSpace(id)))
}

// GenerateUniqueID builds the HealthBridge id, e.g. LBN-2026-000042.
func GenerateUniqueID(country string, seq int, now time.Time) (string, error) {
	c, ok := LookupCountry(country)
	if !ok {
		return "", fmt.Errorf("unsupported country %q", country)
	}
	return fmt.Sprintf("%s-%d-%06d", c.Prefix, now.Year(), seq), nil
}
