package srctreegen

import (
	"errors"
	"fmt"
)

// ErrUnsupportedConstruct matches every fatal generation error
var ErrUnsupportedConstruct = errors.New("unsupported construct")

// UnsupportedConstructError aborts generation. No partial tree is returned.
type UnsupportedConstructError struct {
	File      string
	Line      int
	Construct string // "declaring-type", "parameter" or "table-consistency"
	Detail    string
}

func (e *UnsupportedConstructError) Error() string {
	return fmt.Sprintf("%s:%d: unsupported %s: %s", e.File, e.Line, e.Construct, e.Detail)
}

// Is reports whether target is ErrUnsupportedConstruct
func (e *UnsupportedConstructError) Is(target error) bool {
	return target == ErrUnsupportedConstruct
}

// WarningKind classifies non-fatal findings
type WarningKind string

const (
	WarnUnresolvedSymbol   WarningKind = "unresolved-symbol"
	WarnUnconsumedOverride WarningKind = "unconsumed-override"
)

// Warning is a non-fatal finding collected during generation
type Warning struct {
	Kind    WarningKind
	File    string // Empty for override entries
	Line    int
	Message string
}

func (w Warning) String() string {
	if w.File == "" {
		return fmt.Sprintf("[%s] %s", w.Kind, w.Message)
	}
	return fmt.Sprintf("[%s] %s:%d: %s", w.Kind, w.File, w.Line, w.Message)
}
