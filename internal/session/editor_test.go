package session_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"knit.dev/knit/internal/session"
)

func TestEditBuffer(t *testing.T) {
	t.Run("round trips content", func(t *testing.T) {
		for _, content := range []string{"", "a", "a\nb\n", "\n\n", "héllo\nwörld"} {
			require.Equal(t, content, session.NewEditBuffer(content).String())
		}
	})

	t.Run("insert advances the cursor", func(t *testing.T) {
		b := session.NewEditBuffer("ac")
		require.True(t, b.Move(session.Right))
		b.Insert('b')
		require.Equal(t, "abc", b.String())
		require.Equal(t, session.Cursor{Line: 0, Col: 2}, b.Cursor())
	})

	t.Run("insert newline splits the line", func(t *testing.T) {
		b := session.NewEditBuffer("ab")
		b.Move(session.Right)
		b.Insert('\n')
		require.Equal(t, []string{"a", "b"}, b.Lines())
		require.Equal(t, session.Cursor{Line: 1, Col: 0}, b.Cursor())
	})

	t.Run("backspace at column zero joins lines", func(t *testing.T) {
		b := session.NewEditBuffer("ab\ncd")
		b.Move(session.Down)
		require.True(t, b.Backspace())
		require.Equal(t, "abcd", b.String())
		require.Equal(t, session.Cursor{Line: 0, Col: 2}, b.Cursor())
	})

	t.Run("backspace at start of buffer does nothing", func(t *testing.T) {
		b := session.NewEditBuffer("ab")
		require.False(t, b.Backspace())
		require.Equal(t, "ab", b.String())
	})

	t.Run("delete at end of line joins the next", func(t *testing.T) {
		b := session.NewEditBuffer("ab\ncd")
		b.Move(session.Right)
		b.Move(session.Right)
		require.True(t, b.Delete())
		require.Equal(t, "abcd", b.String())
		require.True(t, b.Delete())
		require.Equal(t, "abd", b.String())
	})

	t.Run("delete at end of buffer does nothing", func(t *testing.T) {
		b := session.NewEditBuffer("a")
		b.Move(session.Right)
		require.False(t, b.Delete())
	})

	t.Run("vertical moves clamp the column", func(t *testing.T) {
		b := session.NewEditBuffer("long line\nab\nlonger line")
		for i := 0; i < 8; i++ {
			b.Move(session.Right)
		}
		require.True(t, b.Move(session.Down))
		require.Equal(t, session.Cursor{Line: 1, Col: 2}, b.Cursor())
		require.True(t, b.Move(session.Down))
		require.Equal(t, session.Cursor{Line: 2, Col: 2}, b.Cursor())
		require.False(t, b.Move(session.Down))
	})

	t.Run("horizontal moves wrap between lines", func(t *testing.T) {
		b := session.NewEditBuffer("a\nb")
		require.False(t, b.Move(session.Left))
		b.Move(session.Right)
		require.True(t, b.Move(session.Right))
		require.Equal(t, session.Cursor{Line: 1, Col: 0}, b.Cursor())
		require.True(t, b.Move(session.Left))
		require.Equal(t, session.Cursor{Line: 0, Col: 1}, b.Cursor())
	})

	t.Run("columns count runes", func(t *testing.T) {
		b := session.NewEditBuffer("é")
		require.True(t, b.Move(session.Right))
		require.False(t, b.Move(session.Right))
		require.True(t, b.Backspace())
		require.Equal(t, "", b.String())
	})
}
