package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/danielgonzalesarce/holocron/internal/application/handlers"
	"github.com/danielgonzalesarce/holocron/internal/domain/entities"
)

func TestDisplayResult(t *testing.T) {
	t.Run("truncated", func(t *testing.T) {
		var buf bytes.Buffer
		displayResult(&buf, &handlers.BrowseResult{
			Entities: sampleEntities(),
			Matched:  3,
			Total:    82,
		})

		out := buf.String()
		assert.Contains(t, out, "Showing 3 of 82 characters (first 1):")
		assert.Contains(t, out, "Mass: 77 kg")
		assert.Contains(t, out, "Image: https://img.test/1.jpg")
	})

	t.Run("sentinels hidden", func(t *testing.T) {
		var buf bytes.Buffer
		displayResult(&buf, &handlers.BrowseResult{
			Entities: []entities.Entity{{Name: "R2-D2", Mass: "unknown", HairColor: "n/a"}},
			Matched:  1,
			Total:    1,
		})

		out := buf.String()
		assert.Contains(t, out, "Showing 1 of 1 characters:")
		assert.Contains(t, out, "Gender: N/A")
		assert.NotContains(t, out, "Mass:")
		assert.NotContains(t, out, "Hair:")
	})

	t.Run("no matches", func(t *testing.T) {
		var buf bytes.Buffer
		displayResult(&buf, &handlers.BrowseResult{Total: 82})
		assert.Equal(t, "No characters match (82 loaded).\n", buf.String())
	})
}

func TestFilterFlags_Criteria(t *testing.T) {
	f := filterFlags{name: "sky", minMass: "80"}

	c := f.criteria()

	assert.Equal(t, "sky", c.NameQuery)
	if assert.NotNil(t, c.MinMass) {
		assert.Equal(t, 80.0, *c.MinMass)
	}
	assert.Nil(t, c.MinHeight)
}

func TestDisplayHistory(t *testing.T) {
	var buf bytes.Buffer
	displayHistory(&buf, []entities.AuditEntry{
		{
			Action:     entities.ActionLoadSucceeded,
			SnapshotID: "snap-1",
			Details:    map[string]any{"pages": 9, "entities": 82},
			CreatedAt:  time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC),
		},
	})

	out := buf.String()
	assert.Contains(t, out, "load.succeeded")
	assert.Contains(t, out, "snapshot=snap-1")
	assert.Contains(t, out, "entities=82 pages=9")
}

func TestDisplayHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	displayHistory(&buf, nil)
	assert.Equal(t, "No loads recorded yet.\n", buf.String())
}
