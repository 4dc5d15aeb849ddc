package xlmap

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Column roles of the mapping sheet, in the fixed left-to-right order the
// artifact is written in. The sheet view itself is right-to-left.
const (
	colSupplierName = iota
	colEssence
	colSupplierType
	colDGHNote
	colStandardName
	colStandardType
	colStandardRules
	colAlwaysReturns
	colParserDetails
	colOutputTargets
	colNotes
	colShouldStream

	columnCount = 12
)

// mappingHeaders holds the canonical header title per column role.
var mappingHeaders = [columnCount]string{
	colSupplierName:  "Supplier Field Name",
	colEssence:       "Field Essence",
	colSupplierType:  "Supplier Field Type",
	colDGHNote:       "DGH Note",
	colStandardName:  "Standard Field Name",
	colStandardType:  "Standard Field Type",
	colStandardRules: "Standard Field Rules",
	colAlwaysReturns: "Always Returns",
	colParserDetails: "Parser Details",
	colOutputTargets: "Output Targets",
	colNotes:         "Notes",
	colShouldStream:  "Should Stream From Supplier",
}

// schemaTokenKey is the literal key written to cell A1 of the hidden
// metadata sheet; the token value sits in B1.
const schemaTokenKey = "schemaKey"

const (
	lastColumn      = "L"
	ruleSeparator   = "; "
	headerRowHeight = 28.0
	columnWidth     = 22.0
)

// Encoder serializes a field catalog and its mappings into a mapping
// workbook artifact.
type Encoder struct {
	opts *Options
}

// NewEncoder creates an Encoder with the given options.
func NewEncoder(opts ...Option) *Encoder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Encoder{opts: o}
}

// Encode produces the workbook artifact as bytes. Any internal error aborts
// the whole encode; no partial artifact is returned.
func (enc *Encoder) Encode(fields []FieldEntry, mappings []MappingRecord, schemaToken string) ([]byte, error) {
	var buf bytes.Buffer
	if err := enc.EncodeTo(&buf, fields, mappings, schemaToken); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTo writes the workbook artifact to w.
func (enc *Encoder) EncodeTo(w io.Writer, fields []FieldEntry, mappings []MappingRecord, schemaToken string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := enc.opts.sheetName
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename mapping sheet: %w", err)
	}
	if enc.opts.rightToLeft {
		rtl := true
		if err := f.SetSheetView(sheet, -1, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
			return fmt.Errorf("set sheet view: %w", err)
		}
	}

	styles, err := newSheetStyles(f)
	if err != nil {
		return err
	}

	if err := enc.writeHeader(f, sheet, styles); err != nil {
		return err
	}

	if enc.opts.filter != nil {
		fields, err = enc.filterFields(fields)
		if err != nil {
			return err
		}
	}

	// The supplier-side field list is authoritative for row order and count
	// when non-empty; fall back to the mapping list, then to a block of
	// blank bordered rows.
	index := BuildMappingIndex(mappings)
	switch {
	case len(fields) > 0:
	case len(index) > 0:
		for _, key := range SortedKeys(index) {
			fields = append(fields, index[key].Field)
		}
	default:
		return enc.writeArtifact(f, w, schemaToken, func() error {
			return enc.writeBlankBlock(f, sheet, styles)
		})
	}

	return enc.writeArtifact(f, w, schemaToken, func() error {
		for i, field := range fields {
			if err := enc.writeFieldRow(f, sheet, styles, i+2, field, index); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeArtifact runs the row writer, attaches the hidden metadata sheet, and
// serializes the workbook.
func (enc *Encoder) writeArtifact(f *excelize.File, w io.Writer, schemaToken string, writeRows func() error) error {
	if err := writeRows(); err != nil {
		return err
	}
	if schemaToken != "" {
		if err := enc.writeMetaSheet(f, schemaToken); err != nil {
			return err
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func (enc *Encoder) filterFields(fields []FieldEntry) ([]FieldEntry, error) {
	matched := make([]FieldEntry, 0, len(fields))
	for _, e := range fields {
		ok, err := enc.opts.filter.Match(e)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

func (enc *Encoder) writeHeader(f *excelize.File, sheet string, styles *sheetStyles) error {
	header := make([]any, columnCount)
	for i, title := range mappingHeaders {
		header[i] = title
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", lastColumn+"1", styles.header); err != nil {
		return fmt.Errorf("style header row: %w", err)
	}
	if err := f.SetRowHeight(sheet, 1, headerRowHeight); err != nil {
		return fmt.Errorf("set header height: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", lastColumn, columnWidth); err != nil {
		return fmt.Errorf("set column widths: %w", err)
	}
	return nil
}

// writeFieldRow writes one data row. The row's whole background is tinted
// when the field status is yellow or red; the last column turns green when
// the field resolves as mapped.
func (enc *Encoder) writeFieldRow(f *excelize.File, sheet string, styles *sheetStyles, row int, field FieldEntry, index map[FieldKey]MappingRecord) error {
	match, found := index[field.Key()]
	hasTarget := found && match.HasTarget()
	isMapped := hasTarget || field.Mapped

	standardName := ""
	switch {
	case hasTarget:
		standardName = match.Target.Label()
	case field.MappedTargetLabel != "":
		standardName = field.MappedTargetLabel
	}

	values := make([]any, columnCount)
	values[colSupplierName] = field.Name
	values[colEssence] = field.Essence
	values[colSupplierType] = field.FieldType
	values[colDGHNote] = field.DGHNote
	values[colStandardName] = standardName
	values[colAlwaysReturns] = field.AlwaysReturns
	values[colNotes] = field.Notes
	values[colShouldStream] = ""
	if found {
		values[colStandardType] = match.Target.Type
		values[colStandardRules] = strings.Join(match.Target.Rules, ruleSeparator)
		values[colParserDetails] = match.MappingDetails
		values[colOutputTargets] = match.Outputs
	} else {
		values[colStandardType] = ""
		values[colStandardRules] = ""
		values[colParserDetails] = ""
		values[colOutputTargets] = ""
	}

	anchor, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("row %d anchor: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, anchor, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}

	rowStyle := styles.plain
	if field.Status.IsTint() {
		rowStyle = styles.tint[field.Status]
	}
	if err := f.SetCellStyle(sheet, anchor, fmt.Sprintf("%s%d", lastColumn, row), rowStyle); err != nil {
		return fmt.Errorf("style row %d: %w", row, err)
	}

	lastStyle := styles.white
	switch {
	case isMapped:
		lastStyle = styles.green
	case field.Status.IsTint():
		lastStyle = styles.tint[field.Status]
	}
	lastCell := fmt.Sprintf("%s%d", lastColumn, row)
	if err := f.SetCellStyle(sheet, lastCell, lastCell, lastStyle); err != nil {
		return fmt.Errorf("style row %d status cell: %w", row, err)
	}
	return nil
}

// writeBlankBlock emits the bordered empty rows used when the workbook is
// generated before any catalog exists.
func (enc *Encoder) writeBlankBlock(f *excelize.File, sheet string, styles *sheetStyles) error {
	for i := 0; i < enc.opts.blankRows; i++ {
		row := i + 2
		start, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return fmt.Errorf("blank row %d anchor: %w", row, err)
		}
		if err := f.SetCellStyle(sheet, start, fmt.Sprintf("%s%d", lastColumn, row), styles.plain); err != nil {
			return fmt.Errorf("style blank row %d: %w", row, err)
		}
	}
	return nil
}

// writeMetaSheet stores the schema token on a hidden auxiliary sheet so a
// later import can restore the schema selection.
func (enc *Encoder) writeMetaSheet(f *excelize.File, schemaToken string) error {
	meta := enc.opts.metaSheetName
	if _, err := f.NewSheet(meta); err != nil {
		return fmt.Errorf("create meta sheet: %w", err)
	}
	if err := f.SetCellValue(meta, "A1", schemaTokenKey); err != nil {
		return fmt.Errorf("write meta key: %w", err)
	}
	if err := f.SetCellValue(meta, "B1", schemaToken); err != nil {
		return fmt.Errorf("write meta token: %w", err)
	}
	if err := f.SetSheetVisible(meta, false); err != nil {
		return fmt.Errorf("hide meta sheet: %w", err)
	}
	mappingIdx, err := f.GetSheetIndex(enc.opts.sheetName)
	if err != nil {
		return fmt.Errorf("locate mapping sheet: %w", err)
	}
	f.SetActiveSheet(mappingIdx)
	return nil
}

// sheetStyles caches the style IDs used across a single encode.
type sheetStyles struct {
	header int
	plain  int
	white  int
	green  int
	tint   map[Color]int
}

func newSheetStyles(f *excelize.File) (*sheetStyles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	header, err := f.NewStyle(&excelize.Style{
		Border:    border,
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	plain, err := f.NewStyle(&excelize.Style{Border: border})
	if err != nil {
		return nil, fmt.Errorf("create border style: %w", err)
	}

	fill := func(code string) (int, error) {
		return f.NewStyle(&excelize.Style{
			Border: border,
			Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{code}},
		})
	}

	white, err := fill(codeWhite)
	if err != nil {
		return nil, fmt.Errorf("create white style: %w", err)
	}
	green, err := fill(codeGreen)
	if err != nil {
		return nil, fmt.Errorf("create green style: %w", err)
	}
	yellow, err := fill(codeYellow)
	if err != nil {
		return nil, fmt.Errorf("create yellow style: %w", err)
	}
	red, err := fill(codeRed)
	if err != nil {
		return nil, fmt.Errorf("create red style: %w", err)
	}

	return &sheetStyles{
		header: header,
		plain:  plain,
		white:  white,
		green:  green,
		tint:   map[Color]int{ColorYellow: yellow, ColorRed: red},
	}, nil
}
