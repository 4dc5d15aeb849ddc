// Package xlmap encodes a catalog of supplier fields and their mappings to a
// target schema into a mapping workbook (.xlsx), and decodes that workbook
// back, merging it with an existing field registry.
//
// The artifact has a fixed 12-column schema on a right-to-left "mapping"
// sheet. Field status travels as cell background fill (see Color), the
// mapped target travels as an arrow-joined hierarchy label (see PathLabel),
// and the selected schema token rides along on a hidden "__meta" sheet.
package xlmap

import "io"

// Export encodes fields and mappings into workbook bytes.
func Export(fields []FieldEntry, mappings []MappingRecord, schemaToken string, opts ...Option) ([]byte, error) {
	return NewEncoder(opts...).Encode(fields, mappings, schemaToken)
}

// ExportTo encodes fields and mappings and writes the workbook to w.
func ExportTo(w io.Writer, fields []FieldEntry, mappings []MappingRecord, schemaToken string, opts ...Option) error {
	return NewEncoder(opts...).EncodeTo(w, fields, mappings, schemaToken)
}

// Import decodes workbook bytes and merges them against reg. The registry is
// not modified; the merged catalog is returned in the result.
func Import(data []byte, reg *Registry, opts ...Option) (*ImportResult, error) {
	return NewDecoder(opts...).Decode(data, reg)
}
