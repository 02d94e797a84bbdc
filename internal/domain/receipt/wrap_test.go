package receipt

import (
	"strings"
	"testing"

	"github.com/nextpos/printing/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"shorter than width", "Coffee", 10, []string{"Coffee"}},
		{"exact width", "abcd", 4, []string{"abcd"}},
		{"remainder unpadded", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"width one", "abc", 1, []string{"a", "b", "c"}},
		{"empty text", "", 5, []string{}},
		{"multi-byte characters", "Crème brûlée", 5, []string{"Crème", " brûl", "ée"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Wrap(tt.text, tt.width)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWrap_ChunksReassembleInput(t *testing.T) {
	text := "Extra large hazelnut latte with oat milk and two extra shots"
	for width := 1; width <= len(text)+1; width++ {
		chunks, err := Wrap(text, width)
		require.NoError(t, err)
		assert.Equal(t, text, strings.Join(chunks, ""), "width %d", width)
		for _, c := range chunks {
			assert.LessOrEqual(t, textWidth(c), width)
		}
	}
}

func TestWrap_RejectsNonPositiveWidth(t *testing.T) {
	for _, width := range []int{0, -1, -42} {
		_, err := Wrap("anything", width)
		require.Error(t, err)
		assert.True(t, shared.HasCode(err, ErrCodeInvalidConfiguration))
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Very", Truncate("Very Long", 4))
	assert.Equal(t, "Short", Truncate("Short", 10))
	assert.Equal(t, "", Truncate("Anything", 0))
	assert.Equal(t, "", Truncate("Anything", -3))
	assert.Equal(t, "Crè", Truncate("Crème", 3))
}
