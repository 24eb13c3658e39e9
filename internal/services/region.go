package services

import "strings"

// indiaMarkers are matched as case-insensitive substrings of the location.
var indiaMarkers = []string{
	"india",
	"bangalore",
	"bengaluru",
	"mumbai",
	"delhi",
	"hyderabad",
	"pune",
	"chennai",
	"kolkata",
	"ahmedabad",
	"gurgaon",
	"noida",
}

// Region selects which benchmark table the prompt carries.
type Region int

const (
	RegionGlobal Region = iota // USD-denominated benchmarks
	RegionIndia                // INR-denominated benchmarks
)

// DetectRegion returns RegionIndia when the profile is priced in INR or any
// of the location fields names an Indian city or the country itself.
func DetectRegion(p *Profile) Region {
	if p.Currency == "INR" {
		return RegionIndia
	}
	for _, field := range []string{p.Location, p.City, p.Country} {
		if field == "" {
			continue
		}
		lower := strings.ToLower(field)
		for _, marker := range indiaMarkers {
			if strings.Contains(lower, marker) {
				return RegionIndia
			}
		}
	}
	return RegionGlobal
}
