package conflict_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"knit.dev/knit/internal/conflict"
	kniterrors "knit.dev/knit/internal/errors"
)

func newFile(ancestor, ours, theirs string) *conflict.File {
	return conflict.NewFile("file.txt", conflict.Contents{
		Ancestor:    []byte(ancestor),
		Ours:        []byte(ours),
		Theirs:      []byte(theirs),
		HasAncestor: true,
		HasOurs:     true,
		HasTheirs:   true,
	})
}

func TestFileContent(t *testing.T) {
	f := newFile("A\nB\nC\n", "A\nX\nC\n", "A\nB\nY\n")

	t.Run("input sides are reproduced", func(t *testing.T) {
		require.Equal(t, "A\nX\nC\n", f.Content(conflict.Ours))
		require.Equal(t, "A\nB\nY\n", f.Content(conflict.Theirs))
		require.Equal(t, "A\nB\nC\n", f.Content(conflict.Ancestor))
	})

	t.Run("unresolved sections emit conflict markers", func(t *testing.T) {
		require.Equal(t, conflict.FileMode, f.Mode())
		require.False(t, f.IsFullyResolved())
		require.Equal(t, "A\n<<<<<<< HEAD\nX\nC\n=======\nB\nY\n>>>>>>> theirs\n", f.Content(conflict.Resolved))
	})

	t.Run("markers use configured labels", func(t *testing.T) {
		g := newFile("a\n", "b", "c")
		g.SetLabels(conflict.Labels{Ours: "main", Theirs: "feature"})
		require.Equal(t, "<<<<<<< main\nb\n=======\nc\n>>>>>>> feature\n", g.Content(conflict.Resolved))
	})

	t.Run("file mode choice applies to every conflict", func(t *testing.T) {
		g := newFile("A\nB\nC\nD\nE\n", "A\nX\nC\nD\nE\n", "A\nB\nC\nD\nY\n")
		require.True(t, g.Choose(0, conflict.UseTheirs))
		require.True(t, g.IsFullyResolved())
		require.Equal(t, "A\nB\nC\nD\nY\n", g.Content(conflict.Resolved))
	})
}

func TestBlockMode(t *testing.T) {
	t.Run("all ours round-trips to ours", func(t *testing.T) {
		f := newFile("A\nB\nC\nD\nE\n", "A\nX\nC\nD\nE\n", "A\nB\nC\nD\nY\n")
		require.True(t, f.SetMode(conflict.BlockMode))
		for _, i := range f.ConflictIndexes() {
			require.True(t, f.Choose(i, conflict.UseOurs))
		}
		require.True(t, f.IsFullyResolved())
		require.Equal(t, f.Content(conflict.Ours), f.Content(conflict.Resolved))
	})

	t.Run("all theirs round-trips to theirs", func(t *testing.T) {
		f := newFile("A\nB\nC\nD\nE\n", "A\nX\nC\nD\nE\n", "A\nB\nC\nD\nY\n")
		require.True(t, f.SetMode(conflict.BlockMode))
		for _, i := range f.ConflictIndexes() {
			require.True(t, f.Choose(i, conflict.UseTheirs))
		}
		require.Equal(t, f.Content(conflict.Theirs), f.Content(conflict.Resolved))
	})

	t.Run("mixed choices per section", func(t *testing.T) {
		f := newFile("A\nB\nC\nD\nE\n", "A\nX\nC\nD\nE\n", "A\nB\nC\nD\nY\n")
		require.True(t, f.SetMode(conflict.BlockMode))
		idx := f.ConflictIndexes()
		require.Len(t, idx, 2)

		require.True(t, f.Choose(idx[0], conflict.UseOurs))
		require.False(t, f.IsFullyResolved())
		require.True(t, f.Choose(idx[1], conflict.UseTheirs))
		require.True(t, f.IsFullyResolved())
		require.Equal(t, "A\nX\nC\nD\nY\n", f.Content(conflict.Resolved))
	})

	t.Run("use both and swap order", func(t *testing.T) {
		f := newFile("A\nB\nC\n", "A\nX\nC\n", "A\nB\nY\n")
		require.True(t, f.SetMode(conflict.BlockMode))
		require.True(t, f.Choose(1, conflict.UseBoth))
		require.Equal(t, "A\nX\nC\nB\nY\n", f.Content(conflict.Resolved))

		require.True(t, f.SwapOrder(1))
		require.Equal(t, conflict.UseBothReversed, f.SectionChoice(1))
		require.Equal(t, "A\nB\nY\nX\nC\n", f.Content(conflict.Resolved))
	})

	t.Run("choosing a stable section is a no-op", func(t *testing.T) {
		f := newFile("A\nB\nC\n", "A\nX\nC\n", "A\nB\nY\n")
		require.True(t, f.SetMode(conflict.BlockMode))
		require.False(t, f.Choose(0, conflict.UseOurs))
		require.False(t, f.Choose(99, conflict.UseOurs))
	})

	t.Run("auto resolve takes one-sided changes", func(t *testing.T) {
		f := newFile("A\nB\nC\nD\nE\n", "A\nX\nC\nD\nE\n", "A\nB\nC\nD\nY\n")
		require.True(t, f.SetMode(conflict.BlockMode))
		require.Equal(t, 2, f.AutoResolve())
		require.True(t, f.IsFullyResolved())
		require.Equal(t, "A\nX\nC\nD\nY\n", f.Content(conflict.Resolved))
	})

	t.Run("auto resolve leaves real conflicts alone", func(t *testing.T) {
		f := newFile("A\nB\nC\n", "A\nX\nC\n", "A\nB\nY\n")
		require.True(t, f.SetMode(conflict.BlockMode))
		require.Equal(t, 0, f.AutoResolve())
		require.False(t, f.IsFullyResolved())
	})
}

func TestLineMode(t *testing.T) {
	t.Run("selects individual lines from both sides", func(t *testing.T) {
		f := newFile("A\nB\nC\n", "A\nX\nC\n", "A\nB\nY\n")
		require.True(t, f.SetMode(conflict.LineMode))
		require.False(t, f.IsFullyResolved())

		require.True(t, f.ToggleLine(1, conflict.Ours, 0))
		require.True(t, f.ToggleLine(1, conflict.Theirs, 1))
		require.True(t, f.IsFullyResolved())
		require.Equal(t, "A\nX\nY\n", f.Content(conflict.Resolved))
	})

	t.Run("ours lines come before theirs by default", func(t *testing.T) {
		f := newFile("A\nB\n", "A\nX\n", "A\nY\n")
		require.True(t, f.SetMode(conflict.LineMode))
		require.True(t, f.ToggleLine(1, conflict.Theirs, 0))
		require.True(t, f.ToggleLine(1, conflict.Ours, 0))
		require.Equal(t, "A\nX\nY\n", f.Content(conflict.Resolved))

		require.True(t, f.SwapOrder(1))
		require.Equal(t, "A\nY\nX\n", f.Content(conflict.Resolved))
	})

	t.Run("toggling twice leaves a touched empty selection", func(t *testing.T) {
		f := newFile("A\nB\n", "A\nX\n", "A\nY\n")
		require.True(t, f.SetMode(conflict.LineMode))
		require.True(t, f.ToggleLine(1, conflict.Ours, 0))
		require.True(t, f.ToggleLine(1, conflict.Ours, 0))
		require.True(t, f.IsFullyResolved())
		require.Equal(t, "A\n", f.Content(conflict.Resolved))
	})

	t.Run("toggle is rejected outside line mode", func(t *testing.T) {
		f := newFile("A\nB\n", "A\nX\n", "A\nY\n")
		require.True(t, f.SetMode(conflict.BlockMode))
		require.False(t, f.ToggleLine(1, conflict.Ours, 0))
	})

	t.Run("toggle rejects out of range lines", func(t *testing.T) {
		f := newFile("A\nB\n", "A\nX\n", "A\nY\n")
		require.True(t, f.SetMode(conflict.LineMode))
		require.False(t, f.ToggleLine(1, conflict.Ours, 5))
		require.False(t, f.ToggleLine(0, conflict.Ours, 0))
		require.False(t, f.ToggleLine(1, conflict.Ancestor, 0))
	})
}

func TestSetMode(t *testing.T) {
	t.Run("block choice seeds line selection", func(t *testing.T) {
		f := newFile("A\nB\nC\n", "A\nX\nC\n", "A\nB\nY\n")
		require.True(t, f.SetMode(conflict.BlockMode))
		require.True(t, f.Choose(1, conflict.UseOurs))

		require.True(t, f.SetMode(conflict.LineMode))
		sel, ok := f.LineSelection(1)
		require.True(t, ok)
		require.Equal(t, []bool{true, true}, sel.Ours)
		require.Equal(t, []bool{false, false}, sel.Theirs)
		require.True(t, f.IsFullyResolved())
		require.Equal(t, "A\nX\nC\n", f.Content(conflict.Resolved))
	})

	t.Run("whole-side line selection converts back to block", func(t *testing.T) {
		f := newFile("A\nB\nC\n", "A\nX\nC\n", "A\nB\nY\n")
		require.True(t, f.SetMode(conflict.LineMode))
		require.True(t, f.ToggleLine(1, conflict.Theirs, 0))
		require.True(t, f.ToggleLine(1, conflict.Theirs, 1))

		require.True(t, f.SetMode(conflict.BlockMode))
		require.Equal(t, conflict.UseTheirs, f.SectionChoice(1))
	})

	t.Run("partial line selection becomes unresolved in block mode", func(t *testing.T) {
		f := newFile("A\nB\nC\n", "A\nX\nC\n", "A\nB\nY\n")
		require.True(t, f.SetMode(conflict.LineMode))
		require.True(t, f.ToggleLine(1, conflict.Ours, 0))

		require.True(t, f.SetMode(conflict.BlockMode))
		require.Equal(t, conflict.Unresolved, f.SectionChoice(1))
	})

	t.Run("uniform block choices collapse to file mode", func(t *testing.T) {
		f := newFile("A\nB\nC\nD\nE\n", "A\nX\nC\nD\nE\n", "A\nB\nC\nD\nY\n")
		require.True(t, f.SetMode(conflict.BlockMode))
		for _, i := range f.ConflictIndexes() {
			f.Choose(i, conflict.UseTheirs)
		}
		require.True(t, f.SetMode(conflict.FileMode))
		require.True(t, f.IsFullyResolved())
		require.Equal(t, f.Content(conflict.Theirs), f.Content(conflict.Resolved))
	})

	t.Run("mixed block choices collapse to unresolved file mode", func(t *testing.T) {
		f := newFile("A\nB\nC\nD\nE\n", "A\nX\nC\nD\nE\n", "A\nB\nC\nD\nY\n")
		require.True(t, f.SetMode(conflict.BlockMode))
		idx := f.ConflictIndexes()
		f.Choose(idx[0], conflict.UseOurs)
		f.Choose(idx[1], conflict.UseTheirs)

		require.True(t, f.SetMode(conflict.FileMode))
		require.False(t, f.IsFullyResolved())
	})

	t.Run("file choice seeds block mode", func(t *testing.T) {
		f := newFile("A\nB\nC\nD\nE\n", "A\nX\nC\nD\nE\n", "A\nB\nC\nD\nY\n")
		f.Choose(0, conflict.UseOurs)
		require.True(t, f.SetMode(conflict.BlockMode))
		for _, i := range f.ConflictIndexes() {
			require.Equal(t, conflict.UseOurs, f.SectionChoice(i))
		}
	})

	t.Run("switching mode clears the override", func(t *testing.T) {
		f := newFile("A\nB\nC\n", "A\nX\nC\n", "A\nB\nY\n")
		f.SetOverride("edited\n")
		require.True(t, f.IsFullyResolved())
		require.Equal(t, "edited\n", f.Content(conflict.Resolved))

		require.True(t, f.SetMode(conflict.FileMode))
		_, ok := f.Override()
		require.False(t, ok)
		require.False(t, f.IsFullyResolved())
	})

	t.Run("mode cycles in fixed order", func(t *testing.T) {
		require.Equal(t, conflict.BlockMode, conflict.FileMode.Next())
		require.Equal(t, conflict.LineMode, conflict.BlockMode.Next())
		require.Equal(t, conflict.FileMode, conflict.LineMode.Next())
	})
}

func TestWholeFileOnly(t *testing.T) {
	t.Run("binary content is file mode only", func(t *testing.T) {
		f := conflict.NewFile("image.png", conflict.Contents{
			Ancestor: []byte{0x89, 0x00, 0x01}, HasAncestor: true,
			Ours: []byte{0x89, 0x00, 0x02}, HasOurs: true,
			Theirs: []byte{0x89, 0x00, 0x03}, HasTheirs: true,
		})

		require.True(t, errors.Is(f.EncodingErr(), kniterrors.ErrEncoding))
		require.True(t, f.WholeFileOnly())
		require.False(t, f.SetMode(conflict.BlockMode))
		require.False(t, f.Choose(0, conflict.UseBoth))
		require.False(t, f.IsFullyResolved())

		require.True(t, f.Choose(0, conflict.UseTheirs))
		require.True(t, f.IsFullyResolved())
		require.False(t, f.SetOverride("text"))
		require.Equal(t, string([]byte{0x89, 0x00, 0x03}), f.Content(conflict.Resolved))
	})

	t.Run("delete modify resolves to deletion when taking ours", func(t *testing.T) {
		f := conflict.NewFile("gone.txt", conflict.Contents{
			Ancestor: []byte("a\n"), HasAncestor: true,
			Theirs: []byte("a\nb\n"), HasTheirs: true,
		})

		require.Equal(t, conflict.DeleteModify, f.Kind)
		require.True(t, f.WholeFileOnly())
		require.False(t, f.SetMode(conflict.LineMode))

		require.True(t, f.Choose(0, conflict.UseOurs))
		require.True(t, f.IsFullyResolved())
		require.True(t, f.ResolvesToDeletion())
		require.False(t, f.Has(conflict.Resolved))

		require.True(t, f.Choose(0, conflict.UseTheirs))
		require.False(t, f.ResolvesToDeletion())
		require.Equal(t, "a\nb\n", f.Content(conflict.Resolved))
	})

	t.Run("kinds follow present revisions", func(t *testing.T) {
		require.Equal(t, conflict.AddAdd, conflict.NewFile("x", conflict.Contents{HasOurs: true, HasTheirs: true}).Kind)
		require.Equal(t, conflict.ModifyDelete, conflict.NewFile("x", conflict.Contents{HasAncestor: true, HasOurs: true}).Kind)
		require.Equal(t, conflict.AddedByThem, conflict.NewFile("x", conflict.Contents{HasTheirs: true}).Kind)
	})
}

func TestSnapshot(t *testing.T) {
	f := newFile("A\nB\nC\n", "A\nX\nC\n", "A\nB\nY\n")
	require.True(t, f.SetMode(conflict.LineMode))
	require.True(t, f.ToggleLine(1, conflict.Ours, 1))
	before := f.Snapshot()

	require.True(t, f.ToggleLine(1, conflict.Theirs, 0))
	require.NotEqual(t, before, f.Snapshot())

	f.Restore(before)
	require.Equal(t, before, f.Snapshot())
	require.Equal(t, "A\nC\n", f.Content(conflict.Resolved))
}

func TestSummary(t *testing.T) {
	f := newFile("A\nB\nC\nD\nE\n", "A\nX\nC\nD\nE\n", "A\nB\nC\nD\nY\n")
	require.True(t, f.SetMode(conflict.BlockMode))
	conflicts, resolved := f.Summary()
	require.Equal(t, 2, conflicts)
	require.Equal(t, 0, resolved)

	f.Choose(f.ConflictIndexes()[0], conflict.UseOurs)
	conflicts, resolved = f.Summary()
	require.Equal(t, 2, conflicts)
	require.Equal(t, 1, resolved)
}
