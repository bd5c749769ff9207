// Package csvdata turns loosely typed comma separated text into ordered, typed records.
//
// The format is deliberately minimal: rows are separated by newlines, cells by commas,
// and there is no quoting. A comma inside a field cannot be represented.
package csvdata

import "strings"

// Parse reads text into a Dataset. The first row is always the header. Rows shorter
// than the header leave trailing columns absent; extra cells are dropped. Parse never fails.
func Parse(text string) Dataset {
	lines := strings.Split(strings.TrimSpace(text), "\n")

	header := newHeader(splitRow(lines[0]))
	ds := Dataset{Header: header, Records: make([]Record, 0, len(lines)-1)}
	if len(lines) == 1 && lines[0] == "" {
		return ds
	}

	width := len(splitRow(lines[0]))
	for _, line := range lines[1:] {
		raw := splitRow(line)
		if len(raw) > width {
			raw = raw[:width]
		}
		cells := make([]Value, len(raw))
		for i, cell := range raw {
			cells[i] = ParseCell(cell)
		}
		ds.Records = append(ds.Records, Record{header: header, cells: cells})
	}
	return ds
}

// splitRow drops a trailing carriage return so CRLF files keep clean header names.
func splitRow(line string) []string {
	return strings.Split(strings.TrimSuffix(line, "\r"), ",")
}
