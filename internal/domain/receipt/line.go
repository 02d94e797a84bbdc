package receipt

// LineKind discriminates the RenderedLine variants
type LineKind int

const (
	LineText LineKind = iota
	LineDirective
)

// RenderedLine is either a text row or a control directive.
// A text row with Partial set continues on the same printed line, which is
// how inline directives (a bold span inside a sentence) are represented.
type RenderedLine struct {
	Kind      LineKind
	Text      string
	Partial   bool
	Directive Directive
}

// TextLine creates a full text row
func TextLine(text string) RenderedLine {
	return RenderedLine{Kind: LineText, Text: text}
}

// PartialText creates a text fragment without a line terminator
func PartialText(text string) RenderedLine {
	return RenderedLine{Kind: LineText, Text: text, Partial: true}
}

// DirectiveLine wraps a directive
func DirectiveLine(d Directive) RenderedLine {
	return RenderedLine{Kind: LineDirective, Directive: d}
}

// IsText reports whether the line is a text row
func (l RenderedLine) IsText() bool {
	return l.Kind == LineText
}

// IsDirective reports whether the line is a directive
func (l RenderedLine) IsDirective() bool {
	return l.Kind == LineDirective
}
