package receipt

import "fmt"

// Status banners; exactly one is printed per receipt. The short form is
// used when the paper is narrower than the full banner.
const (
	DraftBanner      = "**** DRAFT RECEIPT ****"
	FinalBanner      = "**** FINAL RECEIPT ****"
	DraftBannerShort = "DRAFT"
	FinalBannerShort = "FINAL"
)

// ComposeOption customises a Compose call
type ComposeOption func(*composer)

// WithMarkupWarnings routes stripped-markup warnings from header and footer
// blocks to fn
func WithMarkupWarnings(fn MarkupWarningFunc) ComposeOption {
	return func(c *composer) {
		c.warn = fn
	}
}

// composer holds the in-progress output of one Compose call
type composer struct {
	inv   *InvoiceSnapshot
	cfg   RenderConfig
	width int
	warn  MarkupWarningFunc
	out   []RenderedLine
}

// Compose renders one copy of the invoice under cfg.
// Sections are emitted in a fixed order: header, rule, items, rule, taxes,
// totals, cashier, footer, status banner, trailing feed and cut.
// The result depends only on the two inputs.
func Compose(inv *InvoiceSnapshot, cfg RenderConfig, opts ...ComposeOption) ([]RenderedLine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	c := &composer{
		inv:   inv,
		cfg:   cfg,
		width: cfg.PaperWidth,
		out:   make([]RenderedLine, 0, 32+4*len(inv.Items)),
	}
	for _, opt := range opts {
		opt(c)
	}

	steps := []func() error{
		c.header,
		c.rule,
		c.items,
		c.rule,
		c.taxes,
		c.totals,
		c.cashier,
		c.footer,
		c.banner,
		c.trailer,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return c.out, nil
}

func (c *composer) text(s string) {
	c.out = append(c.out, TextLine(s))
}

func (c *composer) directive(d Directive) {
	c.out = append(c.out, DirectiveLine(d))
}

func (c *composer) rule() error {
	c.text(Rule('-', c.width))
	return nil
}

func (c *composer) block(markup string, center bool) error {
	lines, err := FormatBlock(markup, BlockOptions{Width: c.width, Center: center, OnWarning: c.warn})
	if err != nil {
		return err
	}
	for line := range lines {
		c.out = append(c.out, line)
	}
	return nil
}

func (c *composer) header() error {
	if c.cfg.CustomHeader != "" {
		if err := c.block(c.cfg.CustomHeader, false); err != nil {
			return err
		}
	} else {
		name := c.inv.Company
		if name == "" {
			name = DefaultShopName
		}
		c.text(Center(Truncate(name, c.width), c.width))
	}

	if c.cfg.ShowAddress && c.inv.Company != "" {
		c.address()
	}
	return nil
}

func (c *composer) address() {
	addr := c.inv.Address
	if addr == nil || addr.IsZero() {
		if c.inv.CompanyPhone != "" {
			c.wrapped("Tel: " + c.inv.CompanyPhone)
		}
		return
	}
	if addr.Line1 != "" {
		c.wrapped(addr.Line1)
	}
	if addr.City != "" {
		c.wrapped(addr.City)
	}
	if addr.Phone != "" {
		c.wrapped("Tel: " + addr.Phone)
	}
}

// wrapped emits text wrapped to the paper width; width is already validated
func (c *composer) wrapped(s string) {
	chunks, _ := Wrap(s, c.width)
	for _, chunk := range chunks {
		c.text(chunk)
	}
}

func (c *composer) items() error {
	for _, item := range c.inv.Items {
		if c.cfg.WrapLongNames {
			c.wrapped(item.Name)
		} else {
			c.text(Truncate(item.Name, c.width))
		}

		if c.cfg.ShowItemCode && item.Code != "" {
			c.text(Truncate(fmt.Sprintf("  [%s]", item.Code), c.width))
		}

		qtyRate := FormatQuantity(item.Quantity) + " x " + FormatMoney(item.Rate)
		c.text(Columns(qtyRate, FormatMoney(item.Amount), c.width))
	}
	return nil
}

func (c *composer) taxes() error {
	if !c.cfg.ShowTax || len(c.inv.Taxes) == 0 {
		return nil
	}
	for _, tax := range c.inv.Taxes {
		desc := Truncate(tax.Description, TaxDescriptionWidth)
		c.text(Columns(desc, FormatMoney(tax.Amount), c.width))
	}
	return nil
}

func (c *composer) totals() error {
	c.text(Rule('=', c.width))
	c.text(Columns("TOTAL", FormatMoney(c.inv.GrandTotal.Decimal), c.width))
	c.text(Columns("Paid", FormatMoney(c.inv.PaidAmount), c.width))
	c.text(Columns("Change", FormatMoney(c.inv.ChangeAmount), c.width))
	c.text(Rule('=', c.width))
	return nil
}

func (c *composer) cashier() error {
	if !c.cfg.ShowCashier || c.inv.Cashier == "" {
		return nil
	}
	c.wrapped("Cashier: " + c.inv.Cashier)
	return c.rule()
}

func (c *composer) footer() error {
	if c.cfg.CustomFooter == "" {
		return nil
	}
	return c.block(c.cfg.CustomFooter, true)
}

func (c *composer) banner() error {
	var full, short string
	switch c.inv.Status {
	case DocStatusDraft:
		full, short = DraftBanner, DraftBannerShort
	case DocStatusFinal:
		full, short = FinalBanner, FinalBannerShort
	default:
		return invalidConfiguration("Unknown document status %q", string(c.inv.Status))
	}
	if textWidth(full) > c.width {
		full = short
	}
	c.text(Center(full, c.width))
	return nil
}

func (c *composer) trailer() error {
	for range c.cfg.TrailingBlankLines {
		c.text("")
	}

	switch c.cfg.cutMode() {
	case CutModeFull:
		c.feedBeforeCut()
		c.directive(Cut)
	case CutModePartial:
		c.feedBeforeCut()
		c.directive(PartialCut)
	}

	if c.cfg.OpenCashDrawer {
		c.directive(DrawerKick(c.cfg.DrawerPin))
	}
	return nil
}

func (c *composer) feedBeforeCut() {
	if c.cfg.FeedBeforeCut > 0 {
		c.directive(Feed(c.cfg.FeedBeforeCut))
	}
}
