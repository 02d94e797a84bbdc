package receipt

import "fmt"

// Op identifies a printer control directive
type Op int

const (
	OpBoldOn Op = iota + 1
	OpBoldOff
	OpCenterOn
	OpCenterOff
	OpCut
	OpPartialCut
	OpFeed
	OpInit
	OpCodePage
	OpDrawerKick
)

var opNames = map[Op]string{
	OpBoldOn:     "BOLD_ON",
	OpBoldOff:    "BOLD_OFF",
	OpCenterOn:   "CENTER_ON",
	OpCenterOff:  "CENTER_OFF",
	OpCut:        "CUT",
	OpPartialCut: "PARTIAL_CUT",
	OpFeed:       "FEED",
	OpInit:       "INIT",
	OpCodePage:   "CODE_PAGE",
	OpDrawerKick: "DRAWER_KICK",
}

// String returns the directive name
func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// IsValid checks if the Op is one of the known directives
func (o Op) IsValid() bool {
	_, ok := opNames[o]
	return ok
}

// Directive is a semantic printer command. Arg carries the line count for
// FEED, the code page number for CODE_PAGE and the pin for DRAWER_KICK.
type Directive struct {
	Op  Op
	Arg int
}

// String returns a readable form such as FEED(5)
func (d Directive) String() string {
	switch d.Op {
	case OpFeed, OpCodePage, OpDrawerKick:
		return fmt.Sprintf("%s(%d)", d.Op, d.Arg)
	}
	return d.Op.String()
}

// Directive constructors
var (
	BoldOn     = Directive{Op: OpBoldOn}
	BoldOff    = Directive{Op: OpBoldOff}
	CenterOn   = Directive{Op: OpCenterOn}
	CenterOff  = Directive{Op: OpCenterOff}
	Cut        = Directive{Op: OpCut}
	PartialCut = Directive{Op: OpPartialCut}
	Init       = Directive{Op: OpInit}
)

// Feed advances the paper by n lines
func Feed(n int) Directive {
	return Directive{Op: OpFeed, Arg: n}
}

// CodePage selects a printer character table
func CodePage(n int) Directive {
	return Directive{Op: OpCodePage, Arg: n}
}

// DrawerKick pulses the cash drawer connector pin (2 or 5)
func DrawerKick(pin int) Directive {
	return Directive{Op: OpDrawerKick, Arg: pin}
}

// CommandSet resolves directives to a device's raw control bytes.
// Resolve panics on a directive it does not know; the directive set is closed.
type CommandSet interface {
	Name() string
	Resolve(d Directive) []byte
}
