package xlmap

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Default display durations for status toasts.
const (
	statusDurationShort = 3 * time.Second
	statusDurationLong  = 6 * time.Second
)

// Service ties the encoder, decoder, and registry together for the owning
// application: it gates uploads by extension, swaps the registry only after
// a decode fully succeeds, and notifies listeners of outcomes.
//
// Mappings and the selected schema token are passed in directly by the
// caller; the service never solicits externally-held state through events.
type Service struct {
	reg  *Registry
	enc  *Encoder
	dec  *Decoder
	opts *Options
}

// NewService creates a Service around the given registry.
func NewService(reg *Registry, opts ...Option) *Service {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Service{
		reg:  reg,
		enc:  NewEncoder(opts...),
		dec:  NewDecoder(opts...),
		opts: o,
	}
}

// Registry returns the registry the service operates on.
func (s *Service) Registry() *Registry {
	return s.reg
}

// Export encodes the current registry state with the given mappings and
// schema token into a downloadable workbook.
func (s *Service) Export(mappings []MappingRecord, schemaToken string) ([]byte, error) {
	data, err := s.enc.Encode(s.reg.Snapshot(), mappings, schemaToken)
	if err != nil {
		s.emitStatus(StatusEvent{
			Message:  fmt.Sprintf("mapping workbook export failed: %v", err),
			Severity: SeverityError,
			Duration: statusDurationLong,
		})
		return nil, err
	}
	s.emitStatus(StatusEvent{
		Message:  "mapping workbook exported",
		Severity: SeveritySuccess,
		Duration: statusDurationShort,
	})
	return data, nil
}

// ExportTemplate encodes the blank source-catalog template.
func (s *Service) ExportTemplate() ([]byte, error) {
	data, err := s.enc.EncodeTemplate()
	if err != nil {
		s.emitStatus(StatusEvent{
			Message:  fmt.Sprintf("template export failed: %v", err),
			Severity: SeverityError,
			Duration: statusDurationLong,
		})
		return nil, err
	}
	s.emitStatus(StatusEvent{
		Message:  "template exported",
		Severity: SeveritySuccess,
		Duration: statusDurationShort,
	})
	return data, nil
}

// Import decodes an uploaded workbook and, on success, installs the merged
// catalog as the new registry content. A failure of any kind leaves the
// registry untouched.
func (s *Service) Import(filename string, data []byte) (*ImportResult, error) {
	if !SupportedUpload(filename) {
		err := fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
		s.emitStatus(StatusEvent{
			Message:  fmt.Sprintf("cannot import %q: only .xlsx and .xls files are supported", filepath.Base(filename)),
			Severity: SeverityError,
			Duration: statusDurationLong,
		})
		return nil, err
	}

	result, err := s.dec.Decode(data, s.reg)
	if err != nil {
		s.emitStatus(StatusEvent{
			Message:  fmt.Sprintf("mapping workbook import failed: %v", err),
			Severity: SeverityError,
			Duration: statusDurationLong,
		})
		return nil, err
	}

	s.reg.Replace(result.Fields)

	s.emitStatus(StatusEvent{
		Message:  fmt.Sprintf("mapping workbook imported: %d fields, %d mappings", len(result.Fields), len(result.Mappings)),
		Severity: SeveritySuccess,
		Duration: statusDurationShort,
	})
	s.emitRefreshed(RefreshEvent{
		Fields:      result.Fields,
		Mappings:    result.Mappings,
		SchemaToken: result.SchemaToken,
	})
	return result, nil
}

// ImportTemplate decodes a filled source-catalog template and upserts the
// resulting entries into the registry.
func (s *Service) ImportTemplate(filename string, data []byte) ([]FieldEntry, error) {
	if !SupportedUpload(filename) {
		err := fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
		s.emitStatus(StatusEvent{
			Message:  fmt.Sprintf("cannot import %q: only .xlsx and .xls files are supported", filepath.Base(filename)),
			Severity: SeverityError,
			Duration: statusDurationLong,
		})
		return nil, err
	}

	entries, err := s.dec.DecodeTemplate(data)
	if err != nil {
		s.emitStatus(StatusEvent{
			Message:  fmt.Sprintf("template import failed: %v", err),
			Severity: SeverityError,
			Duration: statusDurationLong,
		})
		return nil, err
	}

	for _, e := range entries {
		s.reg.Upsert(e)
	}
	s.emitStatus(StatusEvent{
		Message:  fmt.Sprintf("template imported: %d fields", len(entries)),
		Severity: SeveritySuccess,
		Duration: statusDurationShort,
	})
	return entries, nil
}

func (s *Service) emitStatus(e StatusEvent) {
	for _, l := range s.opts.listeners {
		l.OnStatus(e)
	}
}

func (s *Service) emitRefreshed(e RefreshEvent) {
	for _, l := range s.opts.listeners {
		l.OnRegistryRefreshed(e)
	}
}

// SupportedUpload reports whether the filename carries a supported
// spreadsheet extension.
func SupportedUpload(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return true
	}
	return false
}
