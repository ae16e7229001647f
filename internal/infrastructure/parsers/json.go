package parsers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/danielgonzalesarce/holocron/internal/domain/entities"
)

// JSONParser parses entities from the JSON export format.
type JSONParser struct{}

// Parse reads a JSON array of entities from the reader.
func (p *JSONParser) Parse(r io.Reader) ([]entities.Entity, error) {
	var list []entities.Entity

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&list); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	for i := range list {
		if strings.TrimSpace(list[i].Name) == "" {
			return nil, fmt.Errorf("entry %d: name is required", i+1)
		}
		normalize(&list[i])
	}

	return list, nil
}
