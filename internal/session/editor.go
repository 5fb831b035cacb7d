package session

import "strings"

// Direction is a cursor movement direction.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Cursor is a position in an EditBuffer. Col counts runes.
type Cursor struct {
	Line int
	Col  int
}

// EditBuffer holds the text of a result while it is edited inline. The
// buffer always has at least one line and the cursor always points inside it.
type EditBuffer struct {
	lines  [][]rune
	cursor Cursor
}

// NewEditBuffer splits content on newlines. Joining the lines with "\n"
// gives back content unchanged.
func NewEditBuffer(content string) *EditBuffer {
	parts := strings.Split(content, "\n")
	b := &EditBuffer{lines: make([][]rune, len(parts))}
	for i, p := range parts {
		b.lines[i] = []rune(p)
	}
	return b
}

// String joins the buffer back into file content.
func (b *EditBuffer) String() string {
	return strings.Join(b.Lines(), "\n")
}

// Lines returns a copy of the buffer's lines.
func (b *EditBuffer) Lines() []string {
	out := make([]string, len(b.lines))
	for i, l := range b.lines {
		out[i] = string(l)
	}
	return out
}

// Cursor returns the cursor position.
func (b *EditBuffer) Cursor() Cursor { return b.cursor }

// Insert puts r at the cursor and advances the cursor by one.
// A newline rune splits the line.
func (b *EditBuffer) Insert(r rune) {
	if r == '\n' {
		b.Newline()
		return
	}
	l := b.lines[b.cursor.Line]
	l = append(l[:b.cursor.Col], append([]rune{r}, l[b.cursor.Col:]...)...)
	b.lines[b.cursor.Line] = l
	b.cursor.Col++
}

// Backspace deletes the rune before the cursor, joining with the previous
// line at column zero.
func (b *EditBuffer) Backspace() bool {
	c := b.cursor
	if c.Col > 0 {
		l := b.lines[c.Line]
		b.lines[c.Line] = append(l[:c.Col-1], l[c.Col:]...)
		b.cursor.Col--
		return true
	}
	if c.Line == 0 {
		return false
	}
	prev := b.lines[c.Line-1]
	b.cursor = Cursor{Line: c.Line - 1, Col: len(prev)}
	b.lines[c.Line-1] = append(prev, b.lines[c.Line]...)
	b.lines = append(b.lines[:c.Line], b.lines[c.Line+1:]...)
	return true
}

// Delete removes the rune at the cursor, joining with the next line at the
// end of a line.
func (b *EditBuffer) Delete() bool {
	c := b.cursor
	l := b.lines[c.Line]
	if c.Col < len(l) {
		b.lines[c.Line] = append(l[:c.Col], l[c.Col+1:]...)
		return true
	}
	if c.Line == len(b.lines)-1 {
		return false
	}
	b.lines[c.Line] = append(l, b.lines[c.Line+1]...)
	b.lines = append(b.lines[:c.Line+1], b.lines[c.Line+2:]...)
	return true
}

// Newline splits the current line at the cursor.
func (b *EditBuffer) Newline() {
	c := b.cursor
	l := b.lines[c.Line]
	head := append([]rune(nil), l[:c.Col]...)
	tail := append([]rune(nil), l[c.Col:]...)

	lines := make([][]rune, 0, len(b.lines)+1)
	lines = append(lines, b.lines[:c.Line]...)
	lines = append(lines, head, tail)
	lines = append(lines, b.lines[c.Line+1:]...)
	b.lines = lines
	b.cursor = Cursor{Line: c.Line + 1}
}

// Move moves the cursor one step. Vertical moves clamp the column to the
// target line; horizontal moves wrap across line ends.
func (b *EditBuffer) Move(d Direction) bool {
	c := b.cursor
	switch d {
	case Up:
		if c.Line == 0 {
			return false
		}
		c.Line--
		c.Col = min(c.Col, len(b.lines[c.Line]))
	case Down:
		if c.Line == len(b.lines)-1 {
			return false
		}
		c.Line++
		c.Col = min(c.Col, len(b.lines[c.Line]))
	case Left:
		switch {
		case c.Col > 0:
			c.Col--
		case c.Line > 0:
			c.Line--
			c.Col = len(b.lines[c.Line])
		default:
			return false
		}
	case Right:
		switch {
		case c.Col < len(b.lines[c.Line]):
			c.Col++
		case c.Line < len(b.lines)-1:
			c.Line++
			c.Col = 0
		default:
			return false
		}
	}
	b.cursor = c
	return true
}
