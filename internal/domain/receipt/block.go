package receipt

import (
	"iter"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// BlockOptions controls how a rich-text block is laid out
type BlockOptions struct {
	// Width is the paper width in characters
	Width int
	// Center pads every wrapped chunk to the paper width
	Center bool
	// OnWarning receives stripped-markup warnings; may be nil
	OnWarning MarkupWarningFunc
}

// FormatBlock turns a free-form header/footer block into rendered lines.
//
// Recognised markup: <br>, paragraph-level elements (p, div, li, h1-h6, tr),
// <hr>, <b>/<strong> for bold, and <center> or a centred alignment on a
// paragraph for centring. Any other markup is stripped. Newlines always
// start a new line, with or without markup. Character entities such as
// &amp; are decoded in both cases.
//
// The returned sequence consumes the block as it is ranged over and can be
// ranged over only once.
func FormatBlock(block string, opts BlockOptions) (iter.Seq[RenderedLine], error) {
	if opts.Width <= 0 {
		return nil, invalidConfiguration("Block width must be positive, got %d", opts.Width)
	}

	src := newMarkupSource(block, opts.Width, opts.OnWarning)
	return func(yield func(RenderedLine) bool) {
		for {
			pieces, ok := src.next()
			if !ok {
				return
			}
			for _, line := range layoutPieces(pieces, opts) {
				if !yield(line) {
					return
				}
			}
		}
	}, nil
}

// piece is one element of a logical line: a text run or a directive
type piece struct {
	text      string
	directive *Directive
}

var markupPattern = regexp.MustCompile(`<[a-zA-Z/!]`)

var paragraphTags = map[string]bool{
	"p": true, "div": true, "li": true, "tr": true, "blockquote": true, "pre": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "table": true,
}

var silentTags = map[string]bool{
	"html": true, "head": true, "body": true, "td": true, "th": true, "tbody": true, "thead": true,
}

type openElement struct {
	name     string
	centered bool
}

// markupSource is a single-pass tokenizer that yields logical lines
type markupSource struct {
	tokenizer *html.Tokenizer
	markup    bool
	width     int
	warn      MarkupWarningFunc
	warned    map[string]bool

	current     []piece
	ready       [][]piece
	stack       []openElement
	boldDepth   int
	centerDepth int
	skip        string
	done        bool
}

func newMarkupSource(block string, width int, warn MarkupWarningFunc) *markupSource {
	block = strings.ReplaceAll(block, "\r\n", "\n")
	block = strings.ReplaceAll(block, "\r", "\n")
	return &markupSource{
		tokenizer: html.NewTokenizer(strings.NewReader(block)),
		markup:    markupPattern.MatchString(block),
		width:     width,
		warn:      warn,
		warned:    make(map[string]bool),
	}
}

// next returns the next logical line, or false once the block is exhausted
func (s *markupSource) next() ([]piece, bool) {
	for len(s.ready) == 0 {
		if s.done {
			return nil, false
		}
		s.step()
	}
	line := s.ready[0]
	s.ready = s.ready[1:]
	return line, true
}

func (s *markupSource) step() {
	switch s.tokenizer.Next() {
	case html.ErrorToken:
		// io.EOF, or malformed input the tokenizer gave up on
		s.finish()
	case html.TextToken:
		if s.skip != "" {
			return
		}
		s.text(string(s.tokenizer.Text()))
	case html.StartTagToken, html.SelfClosingTagToken:
		name, hasAttr := s.tokenizer.TagName()
		s.startTag(string(name), hasAttr)
	case html.EndTagToken:
		name, _ := s.tokenizer.TagName()
		s.endTag(string(name))
	}
}

// text splits a text token on its newlines. Inside markup, whitespace runs
// within each part are folded to one space.
func (s *markupSource) text(t string) {
	for i, p := range strings.Split(t, "\n") {
		if i > 0 {
			s.lineBreak()
		}
		if s.markup {
			p = collapseSpace(p)
		}
		if p != "" {
			s.current = append(s.current, piece{text: p})
		}
	}
}

func (s *markupSource) startTag(name string, hasAttr bool) {
	if s.skip != "" {
		return
	}
	switch {
	case name == "br":
		s.lineBreak()
	case name == "hr":
		s.lineBreak()
		s.current = append(s.current, piece{text: Rule('-', s.width)})
		s.lineBreak()
	case name == "b" || name == "strong":
		s.boldDepth++
		if s.boldDepth == 1 {
			s.directive(BoldOn)
		}
	case name == "center":
		s.lineBreak()
		s.push(name, true)
	case paragraphTags[name]:
		s.lineBreak()
		s.push(name, hasAttr && s.centeredAttr())
	case name == "script" || name == "style":
		s.skip = name
	case silentTags[name]:
	default:
		s.warnOnce(name)
	}
}

func (s *markupSource) endTag(name string) {
	if s.skip != "" {
		if name == s.skip {
			s.skip = ""
		}
		return
	}
	switch {
	case name == "b" || name == "strong":
		if s.boldDepth > 0 {
			s.boldDepth--
			if s.boldDepth == 0 {
				s.directive(BoldOff)
			}
		}
	case name == "center" || paragraphTags[name]:
		s.lineBreak()
		s.pop(name)
	}
}

func (s *markupSource) push(name string, centered bool) {
	s.stack = append(s.stack, openElement{name: name, centered: centered})
	if centered {
		s.centerDepth++
		if s.centerDepth == 1 {
			s.directive(CenterOn)
		}
	}
}

// pop closes the innermost open element with the given name and any
// elements left open inside it
func (s *markupSource) pop(name string) {
	idx := -1
	for i := len(s.stack) - 1; i >= 0; i-- {
		if s.stack[i].name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	for i := len(s.stack) - 1; i >= idx; i-- {
		if s.stack[i].centered {
			s.centerDepth--
			if s.centerDepth == 0 {
				s.directive(CenterOff)
			}
		}
	}
	s.stack = s.stack[:idx]
}

func (s *markupSource) centeredAttr() bool {
	centered := false
	for {
		key, val, more := s.tokenizer.TagAttr()
		v := strings.ToLower(strings.ReplaceAll(string(val), " ", ""))
		switch string(key) {
		case "align":
			centered = centered || v == "center"
		case "style":
			centered = centered || strings.Contains(v, "text-align:center")
		case "class":
			centered = centered || strings.Contains(v, "ql-align-center")
		}
		if !more {
			return centered
		}
	}
}

func (s *markupSource) directive(d Directive) {
	s.current = append(s.current, piece{directive: &d})
}

func (s *markupSource) lineBreak() {
	if len(s.current) == 0 {
		return
	}
	s.ready = append(s.ready, s.current)
	s.current = nil
}

func (s *markupSource) finish() {
	if s.boldDepth > 0 {
		s.boldDepth = 0
		s.directive(BoldOff)
	}
	if s.centerDepth > 0 {
		s.centerDepth = 0
		s.directive(CenterOff)
	}
	s.stack = nil
	s.lineBreak()
	s.done = true
}

func (s *markupSource) warnOnce(tag string) {
	if s.warn == nil || s.warned[tag] {
		return
	}
	s.warned[tag] = true
	s.warn(unsupportedMarkup(tag))
}

// collapseSpace folds whitespace runs to one space, as markup rendering does
func collapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
	}
	if space {
		b.WriteByte(' ')
	}
	return b.String()
}

type mark struct {
	offset    int
	directive Directive
}

// layoutPieces trims, wraps and optionally centres one logical line,
// keeping each directive at its character offset. A line whose text is
// empty after trimming contributes only its directives.
func layoutPieces(pieces []piece, opts BlockOptions) []RenderedLine {
	var raw strings.Builder
	var marks []mark
	offset := 0
	for _, p := range pieces {
		if p.directive != nil {
			marks = append(marks, mark{offset: offset, directive: *p.directive})
			continue
		}
		raw.WriteString(p.text)
		offset += textWidth(p.text)
	}

	all := []rune(raw.String())
	lead := 0
	for lead < len(all) && unicode.IsSpace(all[lead]) {
		lead++
	}
	trail := len(all)
	for trail > lead && unicode.IsSpace(all[trail-1]) {
		trail--
	}
	text := all[lead:trail]
	for i := range marks {
		marks[i].offset = min(max(marks[i].offset-lead, 0), len(text))
	}

	out := make([]RenderedLine, 0, len(marks)+1)
	if len(text) == 0 {
		for _, m := range marks {
			out = append(out, DirectiveLine(m.directive))
		}
		return out
	}

	// Width was validated by FormatBlock
	chunks, _ := Wrap(string(text), opts.Width)

	mi, start := 0, 0
	for ci, chunk := range chunks {
		end := start + textWidth(chunk)

		leftPad, rightPad := "", ""
		if opts.Center {
			pad := max(0, opts.Width-(end-start))
			leftPad = strings.Repeat(" ", pad/2)
			rightPad = strings.Repeat(" ", pad-pad/2)
		}

		pos := start
		for mi < len(marks) && marks[mi].offset < end {
			m := marks[mi]
			if m.offset > pos {
				out = append(out, PartialText(leftPad+string(text[pos:m.offset])))
				leftPad = ""
				pos = m.offset
			}
			out = append(out, DirectiveLine(m.directive))
			mi++
		}
		out = append(out, TextLine(leftPad+string(text[pos:end])+rightPad))

		if ci == len(chunks)-1 {
			for ; mi < len(marks); mi++ {
				out = append(out, DirectiveLine(marks[mi].directive))
			}
		}
		start = end
	}
	return out
}
