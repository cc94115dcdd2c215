package exporter

import (
	"github.com/xuri/excelize/v2"
)

// Styler handles Excel styling
type Styler struct {
	File *excelize.File

	// Pre-defined styles
	HeaderStyle   int
	RootStyle     int // Root test functions and their classes
	PageStyle     int // Page classes
	OverrideStyle int // Entries synthesized from override documentation
	UnknownStyle  int // Statements that could not be modelled
	DefaultStyle  int
}

// NewStyler creates a new Styler and registers its styles with f
func NewStyler(f *excelize.File) (*Styler, error) {
	s := &Styler{File: f}

	styles := []struct {
		target *int
		style  *excelize.Style
	}{
		// Bold, gray background, centered
		{&s.HeaderStyle, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "#000000"},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Border:    createBorder(),
		}},
		{&s.RootStyle, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "#0000FF"},
			Alignment: &excelize.Alignment{Vertical: "center"},
			Border:    createBorder(),
		}},
		{&s.PageStyle, &excelize.Style{
			Font:      &excelize.Font{Color: "#2E7D32"},
			Alignment: &excelize.Alignment{Vertical: "center"},
			Border:    createBorder(),
		}},
		{&s.OverrideStyle, &excelize.Style{
			Font:      &excelize.Font{Color: "#757575", Italic: true},
			Alignment: &excelize.Alignment{Vertical: "center"},
			Border:    createBorder(),
		}},
		{&s.UnknownStyle, &excelize.Style{
			Font:      &excelize.Font{Color: "#D32F2F"},
			Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
			Border:    createBorder(),
		}},
		{&s.DefaultStyle, &excelize.Style{
			Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
			Border:    createBorder(),
		}},
	}
	for _, st := range styles {
		id, err := f.NewStyle(st.style)
		if err != nil {
			return nil, err
		}
		*st.target = id
	}

	return s, nil
}

func createBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "D4D4D4", Style: 1},
		{Type: "top", Color: "D4D4D4", Style: 1},
		{Type: "bottom", Color: "D4D4D4", Style: 1},
		{Type: "right", Color: "D4D4D4", Style: 1},
	}
}
