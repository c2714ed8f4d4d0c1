// Package parser ingests draw-history files and converts them into validated
// domain models. It is the upstream enforcement point for the draw invariant
// (exactly 15 distinct numbers in [1,25]) that the statistics engine assumes.
//
// Two formats are supported: CSV rows of "contest,date,n1,...,n15" and JSON
// arrays of draw objects. Rows are kept in file order; the engine's
// repeats-from-previous metric measures exactly that order.
package parser

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lotoscope/lotoscope/internal/models"
)

// fieldsPerRow is contest + date + the 15 drawn numbers.
const fieldsPerRow = 2 + models.DrawSize

// ParseCSV reads draws from CSV data. A header row is tolerated: the first row
// is skipped when its first field is not an integer.
func ParseCSV(r io.Reader) ([]models.Draw, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = fieldsPerRow
	reader.TrimLeadingSpace = true

	var draws []models.Draw
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line++

		contest, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			if line == 1 {
				continue // header row
			}
			return nil, fmt.Errorf("line %d: invalid contest %q: %w", line, record[0], err)
		}

		numbers := make([]int, 0, models.DrawSize)
		for i, field := range record[2:] {
			n, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid number %q at position %d: %w", line, field, i+1, err)
			}
			numbers = append(numbers, n)
		}

		d := models.Draw{
			Contest: contest,
			Date:    strings.TrimSpace(record[1]),
			Numbers: numbers,
		}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		draws = append(draws, d)
	}

	return draws, nil
}

// ParseJSON reads draws from a JSON array of draw objects.
func ParseJSON(r io.Reader) ([]models.Draw, error) {
	var draws []models.Draw
	if err := json.NewDecoder(r).Decode(&draws); err != nil {
		return nil, fmt.Errorf("decode draws: %w", err)
	}
	for i := range draws {
		if err := draws[i].Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return draws, nil
}

// LoadFile parses a draw-history file, dispatching on its extension
// (.csv or .json).
func LoadFile(path string) ([]models.Draw, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open draw file: %w", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return ParseCSV(f)
	case ".json":
		return ParseJSON(f)
	default:
		return nil, fmt.Errorf("unsupported draw file extension %q", ext)
	}
}
