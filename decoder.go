package xlmap

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"
)

// ImportResult is the outcome of decoding a mapping workbook.
type ImportResult struct {
	// Fields is the merged field catalog: the registry the decode was given,
	// reconciled with every non-empty workbook row.
	Fields []FieldEntry
	// Mappings holds one record per non-empty row, built directly from the
	// row values so mapping history survives even when the field-level merge
	// collapses duplicates.
	Mappings []MappingRecord
	// SchemaToken is the token restored from the hidden metadata sheet, or
	// empty when the sheet is absent.
	SchemaToken string
}

// Decoder parses a mapping workbook and reconciles it against an existing
// field registry. Decode never mutates the registry it is given; callers
// install the merged result themselves once the whole decode has succeeded.
type Decoder struct {
	opts *Options
}

// NewDecoder creates a Decoder with the given options.
func NewDecoder(opts ...Option) *Decoder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Decoder{opts: o}
}

// Decode parses workbook bytes and merges the rows into a copy of the
// registry's current state.
func (dec *Decoder) Decode(data []byte, reg *Registry) (*ImportResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoWorksheet
	}

	result := &ImportResult{SchemaToken: dec.readSchemaToken(f)}

	primary := ""
	for _, s := range sheets {
		if s != dec.opts.metaSheetName {
			primary = s
			break
		}
	}
	if primary == "" {
		return nil, ErrNoWorksheet
	}

	rows, err := f.GetRows(primary)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", primary, err)
	}
	if len(rows) == 0 {
		return result, nil
	}

	columns := resolveColumns(rows[0])

	// Working map seeded from the registry so existing identities and
	// annotations survive the merge. The registry itself stays untouched.
	working := make(map[FieldKey]*FieldEntry)
	var order []FieldKey
	for _, e := range reg.Snapshot() {
		stored := e
		key := e.Key()
		working[key] = &stored
		order = append(order, key)
	}

	for rowIdx := 1; rowIdx < len(rows); rowIdx++ {
		values := extractRow(rows[rowIdx], columns)
		if allEmpty(values) {
			continue // template filler row, not data
		}

		tint, tinted := dec.detectRowTint(f, primary, rowIdx+1)
		leaf, dotPath := ParseLabel(values[colStandardName])
		label := values[colStandardName]
		if dotPath != "" {
			label = PathLabel(dotPath)
		}
		rowMapped := values[colStandardName] != "" ||
			values[colParserDetails] != "" ||
			values[colOutputTargets] != ""

		key := FieldKey{Name: values[colSupplierName], FieldType: values[colSupplierType]}
		entry, exists := working[key]
		if exists {
			// Existing non-empty annotations win over blanks.
			setIfPresent(&entry.Essence, values[colEssence])
			setIfPresent(&entry.DGHNote, values[colDGHNote])
			setIfPresent(&entry.AlwaysReturns, values[colAlwaysReturns])
			setIfPresent(&entry.Notes, values[colNotes])
		} else {
			entry = &FieldEntry{
				ID:            dec.opts.newID(),
				Name:          key.Name,
				FieldType:     key.FieldType,
				Essence:       values[colEssence],
				DGHNote:       values[colDGHNote],
				AlwaysReturns: values[colAlwaysReturns],
				Notes:         values[colNotes],
			}
			working[key] = entry
			order = append(order, key)
		}
		if tinted {
			entry.Status = tint
		}
		if rowMapped {
			entry.Mapped = true
			entry.MappedTargetLabel = label
			if !tinted {
				entry.Status = ColorGreen
			}
		}

		// Mapping history is reconstructed from the row itself, independent
		// of how the field-level merge resolved.
		result.Mappings = append(result.Mappings, MappingRecord{
			Target: TargetNode{
				Name:  leaf,
				Type:  values[colStandardType],
				Rules: splitRules(values[colStandardRules]),
				Path:  dotPath,
			},
			Field: FieldEntry{
				Name:          values[colSupplierName],
				FieldType:     values[colSupplierType],
				Essence:       values[colEssence],
				DGHNote:       values[colDGHNote],
				AlwaysReturns: values[colAlwaysReturns],
				Notes:         values[colNotes],
			},
			MappingDetails: values[colParserDetails],
			Outputs:        values[colOutputTargets],
			CreatedAt:      dec.opts.now(),
		})
	}

	result.Fields = make([]FieldEntry, 0, len(order))
	for _, key := range order {
		result.Fields = append(result.Fields, *working[key])
	}
	return result, nil
}

// readSchemaToken reads the persisted schema token from the hidden metadata
// sheet. A missing sheet or mismatched key means the feature is absent, not
// an error. GetCellValue flattens rich-text runs, so both plain and
// rich-text token cells are handled.
func (dec *Decoder) readSchemaToken(f *excelize.File) string {
	meta := dec.opts.metaSheetName
	if idx, err := f.GetSheetIndex(meta); err != nil || idx < 0 {
		return ""
	}
	key, err := f.GetCellValue(meta, "A1")
	if err != nil {
		return ""
	}
	if key != "" && !strings.EqualFold(strings.TrimSpace(key), schemaTokenKey) {
		return ""
	}
	token, err := f.GetCellValue(meta, "B1")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(token)
}

// detectRowTint inspects the fill of each cell in a row and reports the
// first yellow or red match against the canonical codes. Style lookups that
// fail are treated as untinted.
func (dec *Decoder) detectRowTint(f *excelize.File, sheet string, row int) (Color, bool) {
	for col := 1; col <= columnCount; col++ {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			continue
		}
		styleID, err := f.GetCellStyle(sheet, cell)
		if err != nil {
			continue
		}
		style, err := f.GetStyle(styleID)
		if err != nil || style == nil || len(style.Fill.Color) == 0 {
			continue
		}
		if c, ok := ColorFromFill(style.Fill.Color[0]); ok && c.IsTint() {
			return c, true
		}
	}
	return ColorDefault, false
}

// extractRow pulls the twelve column values by resolved index. A column that
// was not resolved or is beyond the row's width yields an empty string.
func extractRow(row []string, columns [columnCount]int) [columnCount]string {
	var values [columnCount]string
	for role, idx := range columns {
		if idx < 0 || idx >= len(row) {
			continue
		}
		values[role] = strings.TrimSpace(row[idx])
	}
	return values
}

func allEmpty(values [columnCount]string) bool {
	for _, v := range values {
		if v != "" {
			return false
		}
	}
	return true
}

func setIfPresent(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func splitRules(s string) []string {
	if s == "" {
		return nil
	}
	var rules []string
	for _, part := range strings.Split(s, ";") {
		if p := strings.TrimSpace(part); p != "" {
			rules = append(rules, p)
		}
	}
	return rules
}

// headerAliases maps normalized header text to a column role. Normalization
// absorbs quote and bidi-mark variants, so each column needs only a handful
// of genuine wording aliases.
var headerAliases = map[string]int{
	"supplier field name": colSupplierName,
	"supplier field":      colSupplierName,
	"source field name":   colSupplierName,

	"field essence": colEssence,
	"essence":       colEssence,

	"supplier field type": colSupplierType,
	"source field type":   colSupplierType,

	"dgh note": colDGHNote,

	"standard field name": colStandardName,
	"standard field":      colStandardName,
	"target field name":   colStandardName,

	"standard field type": colStandardType,
	"target field type":   colStandardType,

	"standard field rules": colStandardRules,
	"target field rules":   colStandardRules,

	"always returns":      colAlwaysReturns,
	"always returns flag": colAlwaysReturns,

	"parser details": colParserDetails,
	"parser detail":  colParserDetails,

	"output targets": colOutputTargets,
	"output target":  colOutputTargets,

	"notes": colNotes,
	"note":  colNotes,

	"should stream from supplier": colShouldStream,
	"stream from supplier":        colShouldStream,
}

// resolveColumns maps each column role to its index in the header row, or -1
// when the header is absent. Missing columns are a skipped feature, not an
// error.
func resolveColumns(header []string) [columnCount]int {
	var columns [columnCount]int
	for i := range columns {
		columns[i] = -1
	}
	for idx, title := range header {
		role, ok := headerAliases[normalizeHeader(title)]
		if !ok || columns[role] >= 0 {
			continue
		}
		columns[role] = idx
	}
	return columns
}

// quoteFolder unifies the common Unicode renderings of apostrophes and
// double quotes (including Hebrew geresh and gershayim) and drops
// directional formatting marks.
var quoteFolder = strings.NewReplacer(
	"‘", "'", "’", "'", "‚", "'", "‛", "'",
	"′", "'", "׳", "'", "´", "'", "`", "'",
	"“", `"`, "”", `"`, "„", `"`, "‟", `"`,
	"″", `"`, "״", `"`,
	"‎", "", "‏", "", "‪", "", "‫", "",
	"‬", "", "‭", "", "‮", "",
	"⁦", "", "⁧", "", "⁨", "", "⁩", "",
	"\uFEFF", "",
)

// normalizeHeader canonicalizes header text for alias matching: NFKC fold,
// quote and bidi-mark unification, whitespace collapse, lowercase.
func normalizeHeader(s string) string {
	s = norm.NFKC.String(s)
	s = quoteFolder.Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(s)
}
