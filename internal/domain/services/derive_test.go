package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danielgonzalesarce/holocron/internal/domain/entities"
)

func names(list []entities.Entity) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.Name)
	}
	return out
}

func sampleEntities() []entities.Entity {
	return []entities.Entity{
		{Name: "Luke", Gender: "male", Mass: "77", Height: "172"},
		{Name: "Leia", Gender: "female", Mass: "49", Height: "150"},
		{Name: "Jabba Desilijic Tiure", Gender: "hermaphrodite", Mass: "1,358", Height: "175"},
		{Name: "Arvel Crynyd", Gender: "male", Mass: "unknown", Height: "unknown"},
		{Name: "R2-D2", Gender: "n/a", Mass: "32", Height: "96"},
		{Name: "Cordé", Gender: "female", Mass: "unknown", Height: "157"},
	}
}

func TestDerive_Scenarios(t *testing.T) {
	all := []entities.Entity{
		{Name: "Leia", Gender: "female", Mass: "49", Height: "150"},
		{Name: "Luke", Gender: "male", Mass: "77", Height: "172"},
	}

	t.Run("min mass", func(t *testing.T) {
		got := Derive(all, entities.Criteria{MinMass: entities.Float(50)})
		assert.Equal(t, []string{"Luke"}, names(got))
	})

	t.Run("case insensitive substring", func(t *testing.T) {
		got := Derive(all, entities.Criteria{NameQuery: "lu"})
		assert.Equal(t, []string{"Luke"}, names(got))
	})
}

func TestDerive_EmptyCriteriaSortsAll(t *testing.T) {
	got := Derive(sampleEntities(), entities.Criteria{})

	assert.Equal(t, []string{
		"Arvel Crynyd",
		"Cordé",
		"Jabba Desilijic Tiure",
		"Leia",
		"Luke",
		"R2-D2",
	}, names(got))
}

func TestDerive_Filters(t *testing.T) {
	tests := []struct {
		name     string
		criteria entities.Criteria
		expected []string
	}{
		{
			name:     "name query trimmed",
			criteria: entities.Criteria{NameQuery: "  LE "},
			expected: []string{"Leia"},
		},
		{
			name:     "gender exact case insensitive",
			criteria: entities.Criteria{Gender: "FEMALE"},
			expected: []string{"Cordé", "Leia"},
		},
		{
			name:     "gender is not substring",
			criteria: entities.Criteria{Gender: "male"},
			expected: []string{"Arvel Crynyd", "Luke"},
		},
		{
			name:     "conjunctive name and gender",
			criteria: entities.Criteria{NameQuery: "lu", Gender: "female"},
			expected: []string{},
		},
		{
			name:     "non numeric mass excluded at zero threshold",
			criteria: entities.Criteria{MinMass: entities.Float(0)},
			expected: []string{"Jabba Desilijic Tiure", "Leia", "Luke", "R2-D2"},
		},
		{
			name:     "comma mass reads leading digits",
			criteria: entities.Criteria{MinMass: entities.Float(2)},
			expected: []string{"Leia", "Luke", "R2-D2"},
		},
		{
			name:     "min height",
			criteria: entities.Criteria{MinHeight: entities.Float(160)},
			expected: []string{"Jabba Desilijic Tiure", "Luke"},
		},
		{
			name:     "NaN threshold matches nothing",
			criteria: entities.Criteria{MinHeight: entities.Float(math.NaN())},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(sampleEntities(), tt.criteria)
			assert.Equal(t, tt.expected, names(got))
		})
	}
}

func TestDerive_Pure(t *testing.T) {
	all := sampleEntities()
	before := names(all)
	c := entities.Criteria{MinHeight: entities.Float(100)}

	first := Derive(all, c)
	second := Derive(all, c)

	assert.Equal(t, first, second)
	assert.Equal(t, before, names(all), "input must not be reordered")
}

func TestDerive_EmptyInput(t *testing.T) {
	got := Derive(nil, entities.Criteria{NameQuery: "x"})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
