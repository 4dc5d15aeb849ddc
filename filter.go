package xlmap

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter is a compiled predicate over field entries, used to export a subset
// workbook. Expressions see the entry as flat variables:
//
//	Name, FieldType, Essence, DGHNote, AlwaysReturns, Notes (string)
//	Mapped (bool), Status (string: "default", "green", "red", "yellow")
//
// Example: `Mapped && FieldType == "String"`.
type Filter struct {
	source  string
	program *vm.Program
}

var filterCache sync.Map // expression string → *vm.Program

// CompileFilter compiles a filter expression. Compiled programs are cached
// by source text.
func CompileFilter(source string) (*Filter, error) {
	if cached, ok := filterCache.Load(source); ok {
		return &Filter{source: source, program: cached.(*vm.Program)}, nil
	}
	program, err := expr.Compile(source,
		expr.Env(filterEnv(FieldEntry{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", source, err)
	}
	filterCache.Store(source, program)
	return &Filter{source: source, program: program}, nil
}

// Source returns the expression text the filter was compiled from.
func (f *Filter) Source() string {
	return f.source
}

// Match evaluates the filter against one entry.
func (f *Filter) Match(e FieldEntry) (bool, error) {
	result, err := expr.Run(f.program, filterEnv(e))
	if err != nil {
		return false, fmt.Errorf("evaluate filter %q: %w", f.source, err)
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("filter %q evaluated to %T, expected bool", f.source, result)
	}
	return b, nil
}

func filterEnv(e FieldEntry) map[string]any {
	return map[string]any{
		"Name":          e.Name,
		"FieldType":     e.FieldType,
		"Essence":       e.Essence,
		"DGHNote":       e.DGHNote,
		"AlwaysReturns": e.AlwaysReturns,
		"Notes":         e.Notes,
		"Mapped":        e.Mapped,
		"Status":        e.Status.String(),
	}
}
