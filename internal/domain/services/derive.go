package services

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/danielgonzalesarce/holocron/internal/domain/entities"
)

// DefaultLocale is the collation locale used to order entity names.
var DefaultLocale = language.English

type deriveOptions struct {
	locale language.Tag
}

// DeriveOption configures Derive.
type DeriveOption func(*deriveOptions)

// WithLocale sets the collation locale used for ordering.
func WithLocale(tag language.Tag) DeriveOption {
	return func(o *deriveOptions) {
		o.locale = tag
	}
}

// Derive returns the entities that satisfy every set criterion, ordered by
// name using locale-aware collation. It is pure: the input slice is never
// modified and identical inputs yield identical output.
func Derive(all []entities.Entity, c entities.Criteria, opts ...DeriveOption) []entities.Entity {
	o := deriveOptions{locale: DefaultLocale}
	for _, opt := range opts {
		opt(&o)
	}

	preds := predicates(c)
	out := make([]entities.Entity, 0, len(all))
	for _, e := range all {
		if matchesAll(e, preds) {
			out = append(out, e)
		}
	}

	// collate.Collator is not safe for concurrent use, so each call owns one.
	col := collate.New(o.locale)
	slices.SortStableFunc(out, func(a, b entities.Entity) int {
		return col.CompareString(a.Name, b.Name)
	})
	return out
}

type predicate func(entities.Entity) bool

func predicates(c entities.Criteria) []predicate {
	var preds []predicate

	if q := strings.ToLower(strings.TrimSpace(c.NameQuery)); q != "" {
		preds = append(preds, func(e entities.Entity) bool {
			return strings.Contains(strings.ToLower(e.Name), q)
		})
	}

	if g := strings.ToLower(c.Gender); g != "" {
		preds = append(preds, func(e entities.Entity) bool {
			return strings.ToLower(e.Gender) == g
		})
	}

	if c.MinMass != nil {
		preds = append(preds, atLeast(func(e entities.Entity) string { return e.Mass }, *c.MinMass))
	}

	if c.MinHeight != nil {
		preds = append(preds, atLeast(func(e entities.Entity) string { return e.Height }, *c.MinHeight))
	}

	return preds
}

// atLeast excludes entities whose attribute is not numeric.
// A NaN threshold matches nothing.
func atLeast(attr func(entities.Entity) string, threshold float64) predicate {
	return func(e entities.Entity) bool {
		v, ok := entities.ParseNumber(attr(e))
		return ok && v >= threshold
	}
}

func matchesAll(e entities.Entity, preds []predicate) bool {
	for _, p := range preds {
		if !p(e) {
			return false
		}
	}
	return true
}
