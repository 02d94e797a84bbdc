package receipt

import "strings"

// Columns lays out label on the left and amount on the right of a row of
// the given width, padding the gap with spaces.
//
// When both do not fit, the label is truncated to width-len(amount)
// characters. The amount is never clipped: if it alone exceeds width the
// row is just the amount.
func Columns(label, amount string, width int) string {
	amountWidth := textWidth(amount)
	room := max(0, width-amountWidth)

	label = Truncate(label, room)
	gap := room - textWidth(label)

	var b strings.Builder
	b.Grow(len(label) + gap + len(amount))
	b.WriteString(label)
	b.WriteString(strings.Repeat(" ", gap))
	b.WriteString(amount)
	return b.String()
}

// Center pads text with spaces on both sides to the given width.
// Extra odd padding goes to the right. Text wider than width is returned as is.
func Center(text string, width int) string {
	pad := width - textWidth(text)
	if pad <= 0 {
		return text
	}
	left := pad / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", pad-left)
}

// Rule returns a horizontal rule of width characters
func Rule(char byte, width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat(string(char), width)
}
