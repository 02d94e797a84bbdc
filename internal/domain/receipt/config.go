package receipt

// Layout constants
const (
	DefaultPaperWidth         = 42
	DefaultFeedBeforeCut      = 5
	DefaultTrailingBlankLines = 3
	TaxDescriptionWidth       = 25
	DefaultShopName           = "My Shop"
	MaxFeedLines              = 255
)

// CutMode selects how the paper is cut after the receipt
type CutMode string

const (
	CutModeNone    CutMode = "none"
	CutModeFull    CutMode = "full"
	CutModePartial CutMode = "partial"
)

// IsValid checks if the CutMode is a valid value
func (m CutMode) IsValid() bool {
	switch m {
	case CutModeNone, CutModeFull, CutModePartial:
		return true
	}
	return false
}

// RenderConfig is the resolved layout configuration for one render call
type RenderConfig struct {
	PaperWidth         int
	ShowAddress        bool
	ShowItemCode       bool
	ShowTax            bool
	ShowCashier        bool
	WrapLongNames      bool
	CustomHeader       string
	CustomFooter       string
	CutMode            CutMode
	FeedBeforeCut      int
	TrailingBlankLines int
	PrintCopies        int
	OpenCashDrawer     bool
	DrawerPin          int
}

// DefaultRenderConfig returns the configuration used when no settings exist
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		PaperWidth:         DefaultPaperWidth,
		ShowTax:            true,
		ShowCashier:        true,
		WrapLongNames:      true,
		CutMode:            CutModeFull,
		FeedBeforeCut:      DefaultFeedBeforeCut,
		TrailingBlankLines: DefaultTrailingBlankLines,
		PrintCopies:        1,
		DrawerPin:          2,
	}
}

// Validate rejects configurations that would corrupt every line.
// Narrow but positive widths are accepted; the column layout degrades
// deterministically for them.
func (c RenderConfig) Validate() error {
	if c.PaperWidth <= 0 {
		return invalidConfiguration("Paper width must be positive, got %d", c.PaperWidth)
	}
	if c.CutMode != "" && !c.CutMode.IsValid() {
		return invalidConfiguration("Unknown cut mode %q", string(c.CutMode))
	}
	if c.FeedBeforeCut < 0 || c.FeedBeforeCut > MaxFeedLines {
		return invalidConfiguration("Feed before cut must be between 0 and %d, got %d", MaxFeedLines, c.FeedBeforeCut)
	}
	if c.TrailingBlankLines < 0 {
		return invalidConfiguration("Trailing blank lines cannot be negative, got %d", c.TrailingBlankLines)
	}
	if c.PrintCopies < 0 {
		return invalidConfiguration("Print copies cannot be negative, got %d", c.PrintCopies)
	}
	if c.OpenCashDrawer && c.DrawerPin != 2 && c.DrawerPin != 5 {
		return invalidConfiguration("Drawer pin must be 2 or 5, got %d", c.DrawerPin)
	}
	return nil
}

// Copies returns the number of copies to print, at least one
func (c RenderConfig) Copies() int {
	if c.PrintCopies < 1 {
		return 1
	}
	return c.PrintCopies
}

func (c RenderConfig) cutMode() CutMode {
	if c.CutMode == "" {
		return CutModeFull
	}
	return c.CutMode
}
