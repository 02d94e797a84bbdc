package receipt

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
)

// Segment type, format and flavor values understood by the print bridge
const (
	SegmentTypeRaw       = "raw"
	SegmentFormatCommand = "command"
	FlavorPlain          = "plain"
	FlavorBase64         = "base64"
)

// Segment is one record of the transport envelope. Data is sent to the
// device unmodified (after base64 decoding when Flavor is base64).
type Segment struct {
	Type   string `json:"type"`
	Format string `json:"format"`
	Flavor string `json:"flavor"`
	Data   string `json:"data"`
}

// ReceiptPayload is the ordered list of segments for one copy.
// In JSON it is the bare list, the shape the bridge client prints.
type ReceiptPayload struct {
	Segments []Segment
}

// MarshalJSON encodes the payload as its list of segments
func (p ReceiptPayload) MarshalJSON() ([]byte, error) {
	if p.Segments == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p.Segments)
}

// UnmarshalJSON decodes a list of segments
func (p *ReceiptPayload) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &p.Segments)
}

// Bytes decodes the payload back into the raw device stream
func (p ReceiptPayload) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	for _, seg := range p.Segments {
		if seg.Flavor == FlavorBase64 {
			raw, err := base64.StdEncoding.DecodeString(seg.Data)
			if err != nil {
				return nil, err
			}
			buf.Write(raw)
			continue
		}
		buf.WriteString(seg.Data)
	}
	return buf.Bytes(), nil
}

// TextEncoder converts text rows to the printer's single-byte code page
type TextEncoder interface {
	Encode(text string) ([]byte, error)
}

// PassthroughEncoder writes text bytes unchanged
type PassthroughEncoder struct{}

// Encode implements TextEncoder
func (PassthroughEncoder) Encode(text string) ([]byte, error) {
	return []byte(text), nil
}

// PackageOptions controls payload assembly
type PackageOptions struct {
	// Encoder converts text rows; defaults to PassthroughEncoder
	Encoder TextEncoder
	// Prelude directives are resolved ahead of the first line, e.g. INIT
	// and CODE_PAGE
	Prelude []Directive
	// LineEnding terminates each full text row; defaults to "\n"
	LineEnding string
}

// Package resolves directives inline and joins text rows into the single
// raw segment expected by the print bridge.
func Package(lines []RenderedLine, cmds CommandSet, opts PackageOptions) (ReceiptPayload, error) {
	if cmds == nil {
		return ReceiptPayload{}, invalidConfiguration("No printer command set configured")
	}
	enc := opts.Encoder
	if enc == nil {
		enc = PassthroughEncoder{}
	}
	eol := opts.LineEnding
	if eol == "" {
		eol = "\n"
	}

	var buf bytes.Buffer
	for _, d := range opts.Prelude {
		buf.Write(cmds.Resolve(d))
	}
	for _, line := range lines {
		if line.IsDirective() {
			buf.Write(cmds.Resolve(line.Directive))
			continue
		}
		encoded, err := enc.Encode(line.Text)
		if err != nil {
			return ReceiptPayload{}, invalidConfiguration("Cannot encode text %q: %v", line.Text, err)
		}
		buf.Write(encoded)
		if !line.Partial {
			buf.WriteString(eol)
		}
	}

	return ReceiptPayload{Segments: []Segment{rawSegment(buf.Bytes())}}, nil
}

// PackageDirectives builds a payload that only carries control codes,
// such as a drawer kick
func PackageDirectives(cmds CommandSet, directives ...Directive) (ReceiptPayload, error) {
	lines := make([]RenderedLine, 0, len(directives))
	for _, d := range directives {
		lines = append(lines, DirectiveLine(d))
	}
	return Package(lines, cmds, PackageOptions{})
}

// rawSegment picks the plain flavor when the stream is 7-bit clean so that
// it survives JSON transport byte for byte, and base64 otherwise
func rawSegment(data []byte) Segment {
	seg := Segment{Type: SegmentTypeRaw, Format: SegmentFormatCommand, Flavor: FlavorPlain}
	for _, b := range data {
		if b >= 0x80 {
			seg.Flavor = FlavorBase64
			seg.Data = base64.StdEncoding.EncodeToString(data)
			return seg
		}
	}
	seg.Data = string(data)
	return seg
}
