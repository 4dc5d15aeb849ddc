package xlmap

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Template sheet column roles, in write order. The template is the simpler
// artifact handed to suppliers before any mapping exists: six columns and a
// block of pre-bordered blank rows, with no hidden metadata sheet.
const (
	tplColName = iota
	tplColType
	tplColEssence
	tplColDGHNote
	tplColAlwaysReturns
	tplColNotes

	templateColumnCount = 6
)

var templateHeaders = [templateColumnCount]string{
	tplColName:          "Supplier Field Name",
	tplColType:          "Supplier Field Type",
	tplColEssence:       "Field Essence",
	tplColDGHNote:       "DGH Note",
	tplColAlwaysReturns: "Always Returns",
	tplColNotes:         "Notes",
}

var templateAliases = map[string]int{
	"supplier field name": tplColName,
	"supplier field":      tplColName,
	"supplier field type": tplColType,
	"field essence":       tplColEssence,
	"essence":             tplColEssence,
	"dgh note":            tplColDGHNote,
	"always returns":      tplColAlwaysReturns,
	"notes":               tplColNotes,
	"note":                tplColNotes,
}

const templateLastColumn = "F"

// EncodeTemplate produces the blank source-catalog template artifact.
func (enc *Encoder) EncodeTemplate() ([]byte, error) {
	var buf bytes.Buffer
	if err := enc.EncodeTemplateTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTemplateTo writes the blank template artifact to w.
func (enc *Encoder) EncodeTemplateTo(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := enc.opts.templateSheetName
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename template sheet: %w", err)
	}

	styles, err := newSheetStyles(f)
	if err != nil {
		return err
	}

	header := make([]any, templateColumnCount)
	for i, title := range templateHeaders {
		header[i] = title
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write template header: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", templateLastColumn+"1", styles.header); err != nil {
		return fmt.Errorf("style template header: %w", err)
	}
	if err := f.SetRowHeight(sheet, 1, headerRowHeight); err != nil {
		return fmt.Errorf("set template header height: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", templateLastColumn, columnWidth); err != nil {
		return fmt.Errorf("set template column widths: %w", err)
	}

	for i := 0; i < enc.opts.blankRows; i++ {
		row := i + 2
		if err := f.SetCellStyle(sheet,
			fmt.Sprintf("A%d", row),
			fmt.Sprintf("%s%d", templateLastColumn, row),
			styles.plain,
		); err != nil {
			return fmt.Errorf("style template row %d: %w", row, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write template workbook: %w", err)
	}
	return nil
}

// DecodeTemplate parses a filled template into fresh field entries. This is
// the first-parse lifecycle event of the catalog: every non-empty row yields
// a new entry with a synthetic identifier.
func (dec *Decoder) DecodeTemplate(data []byte) ([]FieldEntry, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse template workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoWorksheet
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	columns := [templateColumnCount]int{-1, -1, -1, -1, -1, -1}
	for idx, title := range rows[0] {
		role, ok := templateAliases[normalizeHeader(title)]
		if !ok || columns[role] >= 0 {
			continue
		}
		columns[role] = idx
	}

	var entries []FieldEntry
	for _, row := range rows[1:] {
		var values [templateColumnCount]string
		for role, idx := range columns {
			if idx < 0 || idx >= len(row) {
				continue
			}
			values[role] = strings.TrimSpace(row[idx])
		}

		empty := true
		for _, v := range values {
			if v != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}

		entries = append(entries, FieldEntry{
			ID:            dec.opts.newID(),
			Name:          values[tplColName],
			FieldType:     values[tplColType],
			Essence:       values[tplColEssence],
			DGHNote:       values[tplColDGHNote],
			AlwaysReturns: values[tplColAlwaysReturns],
			Notes:         values[tplColNotes],
		})
	}
	return entries, nil
}
