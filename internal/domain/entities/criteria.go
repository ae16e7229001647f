package entities

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// reLeadingFloat matches the numeric prefix that a lenient float parser accepts,
// so "1,358" reads as 1 and "77kg" as 77.
var reLeadingFloat = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// Criteria holds the filter inputs. Every set field must be satisfied.
type Criteria struct {
	NameQuery string   `json:"name,omitempty"`
	Gender    string   `json:"gender,omitempty"`
	MinMass   *float64 `json:"min_mass,omitempty"`   // nil when unset
	MinHeight *float64 `json:"min_height,omitempty"` // nil when unset
}

// IsEmpty reports whether no criterion is set.
func (c Criteria) IsEmpty() bool {
	return strings.TrimSpace(c.NameQuery) == "" && c.Gender == "" && c.MinMass == nil && c.MinHeight == nil
}

// ParseCriteria builds Criteria from raw text inputs.
// Empty numeric inputs leave the threshold unset. Non-numeric inputs become NaN,
// which no entity satisfies.
func ParseCriteria(name, gender, minMass, minHeight string) Criteria {
	return Criteria{
		NameQuery: name,
		Gender:    strings.TrimSpace(gender),
		MinMass:   parseThreshold(minMass),
		MinHeight: parseThreshold(minHeight),
	}
}

func parseThreshold(input string) *float64 {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	v, ok := ParseNumber(input)
	if !ok {
		v = math.NaN()
	}
	return &v
}

// ParseNumber parses the leading numeric prefix of value, ignoring leading whitespace.
func ParseNumber(value string) (float64, bool) {
	m := reLeadingFloat.FindString(strings.TrimLeft(value, " \t\r\n"))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Float returns a pointer to v, for building criteria in code.
func Float(v float64) *float64 {
	return &v
}
