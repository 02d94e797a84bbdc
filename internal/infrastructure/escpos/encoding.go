package escpos

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/nextpos/printing/internal/domain/receipt"
)

// Replacement is written for characters the code page cannot represent
const Replacement = '?'

// CodePage describes a printer character table
type CodePage struct {
	// Name is the configuration key, e.g. "cp850"
	Name string
	// Table is the ESC t selector for the table
	Table int
	cmap  *charmap.Charmap
}

var codePages = map[string]CodePage{
	"cp437":  {Name: "cp437", Table: 0, cmap: charmap.CodePage437},
	"cp850":  {Name: "cp850", Table: 2, cmap: charmap.CodePage850},
	"cp866":  {Name: "cp866", Table: 17, cmap: charmap.CodePage866},
	"cp852":  {Name: "cp852", Table: 18, cmap: charmap.CodePage852},
	"cp858":  {Name: "cp858", Table: 19, cmap: charmap.CodePage858},
	"cp1252": {Name: "cp1252", Table: 16, cmap: charmap.Windows1252},
}

// Encoder converts receipt text into printer bytes. Without a code page it
// folds text to 7-bit ASCII; with one it writes the code page's bytes and
// folds only what the table lacks.
type Encoder struct {
	page *CodePage
}

// NewEncoder returns the encoder for the named code page.
// An empty name or "ascii" selects plain ASCII folding.
func NewEncoder(name string) (*Encoder, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || key == "ascii" {
		return &Encoder{}, nil
	}
	page, ok := codePages[key]
	if !ok {
		return nil, fmt.Errorf("unsupported code page %q", name)
	}
	return &Encoder{page: &page}, nil
}

// CodePageNames lists the supported code page keys
func CodePageNames() []string {
	return []string{"ascii", "cp437", "cp850", "cp852", "cp858", "cp866", "cp1252"}
}

// Prelude returns the directives that reset the printer and select the
// encoder's character table
func (e *Encoder) Prelude() []receipt.Directive {
	if e.page == nil {
		return []receipt.Directive{receipt.Init}
	}
	return []receipt.Directive{receipt.Init, receipt.CodePage(e.page.Table)}
}

// Name returns the code page key
func (e *Encoder) Name() string {
	if e.page == nil {
		return "ascii"
	}
	return e.page.Name
}

// Encode implements receipt.TextEncoder
func (e *Encoder) Encode(text string) ([]byte, error) {
	text = norm.NFC.String(text)
	out := make([]byte, 0, len(text))
	for _, r := range text {
		if b, ok := e.encodeRune(r); ok {
			out = append(out, b)
			continue
		}
		folded, err := foldRune(r)
		if err != nil {
			return nil, err
		}
		for _, f := range folded {
			if b, ok := e.encodeRune(f); ok {
				out = append(out, b)
			} else {
				out = append(out, Replacement)
			}
		}
	}
	return out, nil
}

func (e *Encoder) encodeRune(r rune) (byte, bool) {
	if r < 0x80 {
		return byte(r), unicode.IsPrint(r) || r == '\t'
	}
	if e.page == nil {
		return 0, false
	}
	return e.page.cmap.EncodeRune(r)
}

// foldRune strips combining marks, so "é" becomes "e". A rune with no
// decomposition comes back unchanged.
func foldRune(r rune) (string, error) {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, string(r))
	if err != nil {
		return "", fmt.Errorf("fold %q: %w", r, err)
	}
	if folded == "" {
		return string(Replacement), nil
	}
	return folded, nil
}
