package csvdata

import (
	"bytes"
	"encoding/json"
)

// Header is the ordered column list of a dataset, shared by all of its records.
type Header struct {
	columns []string
	index   map[string]int
}

func newHeader(columns []string) *Header {
	h := &Header{index: make(map[string]int, len(columns))}
	for i, name := range columns {
		if _, seen := h.index[name]; !seen {
			h.columns = append(h.columns, name)
		}
		// a repeated column name keeps its first position but takes the later cell
		h.index[name] = i
	}
	return h
}

// Columns returns the distinct column names in header order.
func (h *Header) Columns() []string {
	if h == nil {
		return nil
	}
	out := make([]string, len(h.columns))
	copy(out, h.columns)
	return out
}

// Has reports whether the header names the column.
func (h *Header) Has(column string) bool {
	if h == nil {
		return false
	}
	_, ok := h.index[column]
	return ok
}

// Record is one data row keyed by header column.
type Record struct {
	header *Header
	cells  []Value
}

// Get returns the cell for column. ok is false when the column is unknown
// or the row was too short to reach it.
func (r Record) Get(column string) (Value, bool) {
	if r.header == nil {
		return Value{}, false
	}
	i, ok := r.header.index[column]
	if !ok || i >= len(r.cells) {
		return Value{}, false
	}
	return r.cells[i], true
}

// Value is Get without the presence flag.
func (r Record) Value(column string) Value {
	v, _ := r.Get(column)
	return v
}

// Keys returns the columns present in this record, in header order.
func (r Record) Keys() []string {
	if r.header == nil {
		return nil
	}
	keys := make([]string, 0, len(r.header.columns))
	for _, name := range r.header.columns {
		if r.header.index[name] < len(r.cells) {
			keys = append(keys, name)
		}
	}
	return keys
}

// MarshalJSON writes the record as an object with keys in header order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := r.Value(key).MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Dataset is the full, eagerly parsed content of one CSV source.
type Dataset struct {
	Header  *Header
	Records []Record
}

func (d Dataset) Len() int { return len(d.Records) }

// Column returns every record's cell for column, in row order.
func (d Dataset) Column(column string) []Value {
	out := make([]Value, len(d.Records))
	for i, rec := range d.Records {
		out[i] = rec.Value(column)
	}
	return out
}

// Filter returns the records for which keep is true, preserving order.
func (d Dataset) Filter(keep func(Record) bool) Dataset {
	out := Dataset{Header: d.Header}
	for _, rec := range d.Records {
		if keep(rec) {
			out.Records = append(out.Records, rec)
		}
	}
	return out
}
