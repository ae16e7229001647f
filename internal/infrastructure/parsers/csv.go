package parsers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/danielgonzalesarce/holocron/internal/domain/entities"
)

// CSVParser parses entities from the CSV export format.
type CSVParser struct{}

// Parse reads CSV from the reader and returns parsed entities.
// Expected columns: name, id, gender, birth_year, mass, height, hair_color, eye_color, url, image.
// Only name is required; columns may appear in any order.
func (p *CSVParser) Parse(r io.Reader) ([]entities.Entity, error) {
	reader := csv.NewReader(r)

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, colIndex)
}

// readHeader reads and validates the CSV header row.
func (p *CSVParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.TrimSpace(col)] = i
	}

	if _, ok := colIndex["name"]; !ok {
		return nil, errors.New("missing required column: name")
	}

	return colIndex, nil
}

// readRecords reads all data rows and converts them to entities.
func (p *CSVParser) readRecords(reader *csv.Reader, colIndex map[string]int) ([]entities.Entity, error) {
	var list []entities.Entity
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		e, err := p.parseRecord(record, colIndex, lineNum)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}

	return list, nil
}

// parseRecord converts a CSV record to an Entity.
func (p *CSVParser) parseRecord(record []string, colIndex map[string]int, lineNum int) (entities.Entity, error) {
	e := entities.Entity{
		Name:      getColumn(record, colIndex, "name"),
		Gender:    getColumn(record, colIndex, "gender"),
		BirthYear: getColumn(record, colIndex, "birth_year"),
		Mass:      getColumn(record, colIndex, "mass"),
		Height:    getColumn(record, colIndex, "height"),
		HairColor: getColumn(record, colIndex, "hair_color"),
		EyeColor:  getColumn(record, colIndex, "eye_color"),
		SourceURL: getColumn(record, colIndex, "url"),
		ImageURL:  getColumn(record, colIndex, "image"),
	}
	if strings.TrimSpace(e.Name) == "" {
		return entities.Entity{}, fmt.Errorf("line %d: name is required", lineNum)
	}

	if idStr := getColumn(record, colIndex, "id"); idStr != "" {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			return entities.Entity{}, fmt.Errorf("line %d: invalid id value %q: %w", lineNum, idStr, err)
		}
		e.Identifier = id
	}
	normalize(&e)

	return e, nil
}

// getColumn safely retrieves a column value from a record.
func getColumn(record []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(record) {
		return record[idx]
	}
	return ""
}
