package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		collapse bool
		expected string
	}{
		{name: "simple", input: "Luke Skywalker", collapse: true, expected: "luke-skywalker"},
		{name: "accents stripped", input: "Cordé", collapse: true, expected: "cord"},
		{name: "hyphen kept", input: "R2-D2", collapse: true, expected: "r2-d2"},
		{name: "punctuation removed", input: "Jek Tono Porkins!", collapse: true, expected: "jek-tono-porkins"},
		{name: "collapse repeated hyphens", input: "Ki - Adi", collapse: true, expected: "ki-adi"},
		{name: "no collapse keeps repeats", input: "Ki - Adi", collapse: false, expected: "ki---adi"},
		{name: "empty", input: "", collapse: true, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slug(tt.input, tt.collapse))
		})
	}
}
