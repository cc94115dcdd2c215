package testdoc

import (
	"fmt"
	"strings"
)

// CaptureStyle controls whether entering a sub function is recorded as its
// own documented step
type CaptureStyle string

const (
	CaptureNone       CaptureStyle = "none"
	CaptureThisLine   CaptureStyle = "this_line"
	CaptureStepIn     CaptureStyle = "step_in"
	CaptureStepInOnly CaptureStyle = "step_in_only"
)

// DefaultCaptureStyle applies when documentation does not name a style
const DefaultCaptureStyle = CaptureThisLine

// ParseCaptureStyle accepts "step_in", "STEP_IN" and qualified enum constants
// such as "CaptureStyle.STEP_IN". Empty text yields the default style.
func ParseCaptureStyle(text string) (CaptureStyle, error) {
	s := strings.TrimSpace(text)
	if idx := strings.LastIndex(s, "."); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.ToLower(s)
	switch CaptureStyle(s) {
	case "":
		return DefaultCaptureStyle, nil
	case CaptureNone, CaptureThisLine, CaptureStepIn, CaptureStepInOnly:
		return CaptureStyle(s), nil
	}
	return DefaultCaptureStyle, fmt.Errorf("unknown capture style %q", text)
}

// StepIn reports whether the style records a step for the sub function
func (c CaptureStyle) StepIn() bool {
	return c == CaptureStepIn || c == CaptureStepInOnly
}
