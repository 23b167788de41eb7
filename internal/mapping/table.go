package mapping

import "sort"

// Entry is one code to product number pair.
type Entry struct {
	Code      string `json:"code" yaml:"code"`
	ProductNo string `json:"product_no" yaml:"product_no"`
}

// Table maps directory codes to product numbers. It is built once by a
// Loader and is read-only afterwards.
type Table struct {
	entries map[string]string
}

// NewTable builds a table from entries in order. A later entry for the same
// code replaces an earlier one.
func NewTable(entries ...Entry) *Table {
	t := &Table{entries: make(map[string]string, len(entries))}
	for _, e := range entries {
		t.entries[e.Code] = e.ProductNo
	}
	return t
}

// Lookup returns the product number for code. Codes that are absent or map
// to an empty product number report false.
func (t *Table) Lookup(code string) (string, bool) {
	p, ok := t.entries[code]
	if !ok || p == "" {
		return "", false
	}
	return p, true
}

// Len returns the number of distinct codes.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns all pairs sorted by code.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for code, p := range t.entries {
		out = append(out, Entry{Code: code, ProductNo: p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
