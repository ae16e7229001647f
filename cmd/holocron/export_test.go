package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielgonzalesarce/holocron/internal/domain/entities"
)

func sampleEntities() []entities.Entity {
	return []entities.Entity{
		{
			Name:       "Luke Skywalker",
			SourceURL:  "https://swapi.dev/api/people/1/",
			Identifier: 1,
			Gender:     "male",
			Mass:       "77",
			Height:     "172",
			HairColor:  "blond",
			EyeColor:   "blue",
			BirthYear:  "19BBY",
			ImageURL:   "https://img.test/1.jpg",
		},
	}
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	err := formatJSON(&buf, sampleEntities())
	require.NoError(t, err)

	// Verify it's valid JSON
	var parsed []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))

	require.Len(t, parsed, 1)
	assert.Equal(t, "Luke Skywalker", parsed[0]["name"])
	assert.Equal(t, float64(1), parsed[0]["id"])
	assert.Equal(t, "19BBY", parsed[0]["birth_year"])
	assert.Equal(t, "https://img.test/1.jpg", parsed[0]["image"])
}

func TestFormatJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, formatJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestFormatCSV(t *testing.T) {
	list := append(sampleEntities(), entities.Entity{Name: "Name, with comma", Gender: "n/a"})

	var buf bytes.Buffer
	require.NoError(t, formatCSV(&buf, list))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "name,id,gender,birth_year,mass,height,hair_color,eye_color,url,image", lines[0])
	assert.Equal(t, "Luke Skywalker,1,male,19BBY,77,172,blond,blue,https://swapi.dev/api/people/1/,https://img.test/1.jpg", lines[1])
	// No identifier leaves the column empty; commas are quoted.
	assert.True(t, strings.HasPrefix(lines[2], "\"Name, with comma\",,n/a"))
}

func TestFormatMarkdown(t *testing.T) {
	list := append(sampleEntities(), entities.Entity{Name: "R2|D2", Gender: "n/a", Mass: "unknown"})

	var buf bytes.Buffer
	require.NoError(t, formatMarkdown(&buf, list))

	result := buf.String()
	assert.Contains(t, result, "# Star Wars Characters")
	assert.Contains(t, result, "Total: 2 characters")
	assert.Contains(t, result, "| Name | Gender | Birth Year | Mass | Height | Image |")
	assert.Contains(t, result, "| Luke Skywalker | male | 19BBY | 77 | 172 | ![Luke Skywalker](https://img.test/1.jpg) |")
	assert.Contains(t, result, "| R2\\|D2 | n/a |  |  |  |  |")
}

func TestExporter_ExportToFile(t *testing.T) {
	output := filepath.Join(t.TempDir(), "out.csv")
	var stdout bytes.Buffer
	e := &exporter{format: "csv", output: output, stdout: &stdout}

	require.NoError(t, e.export(sampleEntities()))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Luke Skywalker")
	assert.Contains(t, stdout.String(), "Exported 1 characters to "+output)
}

func TestExporter_UnknownFormat(t *testing.T) {
	e := &exporter{format: "xml", stdout: &bytes.Buffer{}}

	err := e.export(sampleEntities())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "pipe escaped",
			input:    "value|with|pipes",
			expected: "value\\|with\\|pipes",
		},
		{
			name:     "newline replaced",
			input:    "line1\nline2",
			expected: "line1 line2",
		},
		{
			name:     "no change needed",
			input:    "simple text",
			expected: "simple text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, escapeMarkdown(tt.input))
		})
	}
}
