package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnippet(t *testing.T) {
	t.Run("short text is returned whole", func(t *testing.T) {
		assert.Equal(t, "City Hospital", Snippet("City Hospital", SnippetLength))
	})

	t.Run("long text is truncated with ellipsis", func(t *testing.T) {
		long := strings.Repeat("a", 400)
		got := Snippet(long, SnippetLength)
		assert.Len(t, got, SnippetLength+3)
		assert.True(t, strings.HasSuffix(got, "..."))
	})

	t.Run("truncation respects rune boundaries", func(t *testing.T) {
		text := strings.Repeat("医", 10)
		got := Snippet(text, 5)
		assert.Equal(t, strings.Repeat("医", 5)+"...", got)
	})

	t.Run("surrounding whitespace is trimmed", func(t *testing.T) {
		assert.Equal(t, "x", Snippet("  x \n", 10))
	})

	t.Run("non-positive length", func(t *testing.T) {
		assert.Equal(t, "", Snippet("anything", 0))
	})
}
