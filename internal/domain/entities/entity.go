// Package entities contains core domain data structures.
package entities

import (
	"regexp"
	"strconv"
	"strings"
)

// reTrailingID matches the numeric segment at the end of a listing URL ("/people/12/").
var reTrailingID = regexp.MustCompile(`/(\d+)/$`)

// sentinels are the placeholder values the listing API uses for missing attributes.
var sentinels = map[string]struct{}{
	"":        {},
	"unknown": {},
	"n/a":     {},
	"none":    {},
}

// RawEntity is a listing record as returned by the listing endpoint.
type RawEntity struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	Gender    string `json:"gender"`
	Mass      string `json:"mass"`
	Height    string `json:"height"`
	HairColor string `json:"hair_color"`
	EyeColor  string `json:"eye_color"`
	BirthYear string `json:"birth_year"`
}

// Page is one page of the paginated listing.
// Next is nil once the listing is exhausted.
type Page struct {
	Results []RawEntity `json:"results"`
	Next    *string     `json:"next"`
}

// Entity represents one catalog item. Name is the practical identity key
// because Identifier extraction can fail.
type Entity struct {
	Name       string `json:"name"`
	SourceURL  string `json:"url"`
	Identifier int    `json:"id,omitempty"` // 0 when the URL carried no identifier
	Gender     string `json:"gender"`
	Mass       string `json:"mass"`
	Height     string `json:"height"`
	HairColor  string `json:"hair_color"`
	EyeColor   string `json:"eye_color"`
	BirthYear  string `json:"birth_year"`
	ImageURL   string `json:"image,omitempty"`
}

// NewEntity converts a raw listing record into an Entity without an image.
func NewEntity(raw RawEntity) Entity {
	id, _ := ParseIdentifier(raw.URL)
	return Entity{
		Name:       raw.Name,
		SourceURL:  raw.URL,
		Identifier: id,
		Gender:     raw.Gender,
		Mass:       raw.Mass,
		Height:     raw.Height,
		HairColor:  raw.HairColor,
		EyeColor:   raw.EyeColor,
		BirthYear:  raw.BirthYear,
	}
}

// HasIdentifier reports whether a positive identifier was parsed from the source URL.
func (e Entity) HasIdentifier() bool {
	return e.Identifier > 0
}

// ParseIdentifier extracts the trailing "/<digits>/" segment of a listing URL.
// Only positive integers are accepted.
func ParseIdentifier(url string) (int, bool) {
	m := reTrailingID.FindStringSubmatch(url)
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// IsSentinel reports whether an attribute holds a "no value" marker such as "unknown" or "n/a".
func IsSentinel(value string) bool {
	_, ok := sentinels[strings.ToLower(strings.TrimSpace(value))]
	return ok
}

// DisplayValue returns value, or "" when it is a sentinel.
func DisplayValue(value string) string {
	if IsSentinel(value) {
		return ""
	}
	return value
}
