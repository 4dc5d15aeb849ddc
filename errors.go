package xlmap

import "errors"

var (
	// ErrNoWorksheet is returned when an uploaded workbook contains no
	// worksheet at all. The operation is aborted and no registry state is
	// touched.
	ErrNoWorksheet = errors.New("workbook has no worksheet")

	// ErrUnsupportedFormat is returned when an uploaded file does not carry
	// a supported spreadsheet extension.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)
