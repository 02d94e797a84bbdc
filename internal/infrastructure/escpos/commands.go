// Package escpos maps receipt directives onto printer command languages and
// encodes receipt text into single-byte printer code pages.
package escpos

import (
	"fmt"
	"strings"

	"github.com/nextpos/printing/internal/domain/receipt"
)

// Control bytes
const (
	ESC byte = 0x1B
	GS  byte = 0x1D
	BEL byte = 0x07
	SUB byte = 0x1A
)

// Command set names accepted by LookupCommandSet
const (
	CommandSetESCPOS = "escpos"
	CommandSetStar   = "star"
)

// ESCPOS is the Epson ESC/POS command language used by most thermal printers
type ESCPOS struct{}

// Name implements receipt.CommandSet
func (ESCPOS) Name() string { return CommandSetESCPOS }

// Resolve implements receipt.CommandSet
func (ESCPOS) Resolve(d receipt.Directive) []byte {
	switch d.Op {
	case receipt.OpBoldOn:
		return []byte{ESC, 'E', 1}
	case receipt.OpBoldOff:
		return []byte{ESC, 'E', 0}
	case receipt.OpCenterOn:
		return []byte{ESC, 'a', 1}
	case receipt.OpCenterOff:
		return []byte{ESC, 'a', 0}
	case receipt.OpCut:
		return []byte{GS, 'V', 0}
	case receipt.OpPartialCut:
		return []byte{GS, 'V', 1}
	case receipt.OpFeed:
		return []byte{ESC, 'd', clampByte(d.Arg)}
	case receipt.OpInit:
		return []byte{ESC, '@'}
	case receipt.OpCodePage:
		return []byte{ESC, 't', clampByte(d.Arg)}
	case receipt.OpDrawerKick:
		// ESC p m t1 t2: pulse 50ms on, 500ms off
		return []byte{ESC, 'p', drawerConnector(d.Arg), 25, 250}
	}
	panic(fmt.Sprintf("escpos: unknown directive %s", d))
}

// StarLine is the Star Micronics line mode command language
type StarLine struct{}

// Name implements receipt.CommandSet
func (StarLine) Name() string { return CommandSetStar }

// Resolve implements receipt.CommandSet
func (StarLine) Resolve(d receipt.Directive) []byte {
	switch d.Op {
	case receipt.OpBoldOn:
		return []byte{ESC, 'E'}
	case receipt.OpBoldOff:
		return []byte{ESC, 'F'}
	case receipt.OpCenterOn:
		return []byte{ESC, GS, 'a', 1}
	case receipt.OpCenterOff:
		return []byte{ESC, GS, 'a', 0}
	case receipt.OpCut:
		return []byte{ESC, 'd', 0}
	case receipt.OpPartialCut:
		return []byte{ESC, 'd', 1}
	case receipt.OpFeed:
		return []byte{ESC, 'a', clampByte(d.Arg)}
	case receipt.OpInit:
		return []byte{ESC, '@'}
	case receipt.OpCodePage:
		return []byte{ESC, GS, 't', clampByte(d.Arg)}
	case receipt.OpDrawerKick:
		if d.Arg == 5 {
			return []byte{SUB}
		}
		return []byte{BEL}
	}
	panic(fmt.Sprintf("escpos: unknown star directive %s", d))
}

// LookupCommandSet returns the command set registered under name.
// An empty name selects ESC/POS.
func LookupCommandSet(name string) (receipt.CommandSet, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", CommandSetESCPOS, "epson":
		return ESCPOS{}, nil
	case CommandSetStar, "starline":
		return StarLine{}, nil
	}
	return nil, fmt.Errorf("unknown printer command set %q", name)
}

// drawerConnector maps the drawer pin to the ESC p connector selector
func drawerConnector(pin int) byte {
	if pin == 5 {
		return 1
	}
	return 0
}

func clampByte(n int) byte {
	return byte(min(max(n, 0), 255))
}
