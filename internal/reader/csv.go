package reader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSV handles CSV files. Every data row becomes one "header: value" line so
// tabular articles survive as prose-ish text.
type CSV struct{}

func (p *CSV) Read(r io.Reader, filename string) (*Extracted, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	out := &Extracted{Title: baseTitle(filename)}
	if len(records) == 0 {
		return out, nil
	}

	headers := records[0]
	var lines []string
	for _, row := range records[1:] {
		var cells []string
		for j, cell := range row {
			if j < len(headers) {
				cells = append(cells, headers[j]+": "+cell)
			} else {
				cells = append(cells, cell)
			}
		}
		lines = append(lines, strings.Join(cells, ", "))
	}

	out.Text = strings.Join(lines, "\n")
	return out, nil
}
