package xlmap

import (
	"time"

	"github.com/google/uuid"
)

// Options holds configuration shared by the encoder, decoder, and service.
type Options struct {
	sheetName         string
	metaSheetName     string
	templateSheetName string
	blankRows         int
	rightToLeft       bool
	filter            *Filter
	listeners         []Listener
	now               func() time.Time
	newID             func() string
}

func defaultOptions() *Options {
	return &Options{
		sheetName:         "mapping",
		metaSheetName:     "__meta",
		templateSheetName: "Template",
		blankRows:         50,
		rightToLeft:       true,
		now:               time.Now,
		newID:             uuid.NewString,
	}
}

// Option configures the encoder, decoder, or service.
type Option func(*Options)

// WithSheetName sets the primary mapping sheet name (default "mapping").
func WithSheetName(name string) Option {
	return func(o *Options) { o.sheetName = name }
}

// WithMetaSheetName sets the hidden metadata sheet name (default "__meta").
func WithMetaSheetName(name string) Option {
	return func(o *Options) { o.metaSheetName = name }
}

// WithTemplateSheetName sets the template sheet name (default "Template").
func WithTemplateSheetName(name string) Option {
	return func(o *Options) { o.templateSheetName = name }
}

// WithBlankRowCount sets how many bordered blank rows are emitted when both
// the field list and the mapping list are empty (default 50).
func WithBlankRowCount(n int) Option {
	return func(o *Options) {
		if n >= 0 {
			o.blankRows = n
		}
	}
}

// WithRightToLeft controls the sheet view orientation (default true).
func WithRightToLeft(rtl bool) Option {
	return func(o *Options) { o.rightToLeft = rtl }
}

// WithFilter restricts export to fields matching the compiled filter.
func WithFilter(f *Filter) Option {
	return func(o *Options) { o.filter = f }
}

// WithListener adds a listener notified of status and refresh events.
func WithListener(l Listener) Option {
	return func(o *Options) { o.listeners = append(o.listeners, l) }
}

// WithClock overrides the time source used for mapping record timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator overrides the synthetic identifier generator used for
// fields first seen during an import.
func WithIDGenerator(newID func() string) Option {
	return func(o *Options) {
		if newID != nil {
			o.newID = newID
		}
	}
}
