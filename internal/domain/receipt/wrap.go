package receipt

import "unicode/utf8"

// Wrap splits text into chunks of at most width characters.
// Chunks concatenate back to text exactly; the last chunk is not padded.
// An empty text yields no chunks.
func Wrap(text string, width int) ([]string, error) {
	if width <= 0 {
		return nil, invalidConfiguration("Wrap width must be positive, got %d", width)
	}

	chunks := make([]string, 0, utf8.RuneCountInString(text)/width+1)
	for len(text) > 0 {
		cut := byteOffset(text, width)
		chunks = append(chunks, text[:cut])
		text = text[cut:]
	}
	return chunks, nil
}

// byteOffset returns the byte index just past the first n runes of s,
// or len(s) if s has fewer runes.
func byteOffset(s string, n int) int {
	i := 0
	for count := 0; count < n && i < len(s); count++ {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return i
}

// Truncate cuts text to at most width characters
func Truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	return text[:byteOffset(text, width)]
}

// textWidth is the printed width of s in characters
func textWidth(s string) int {
	return utf8.RuneCountInString(s)
}
