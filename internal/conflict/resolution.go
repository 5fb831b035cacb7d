package conflict

// Side selects which version of a file to generate.
type Side int

const (
	Ours Side = iota
	Theirs
	Ancestor
	Resolved
)

func (s Side) String() string {
	switch s {
	case Ours:
		return "ours"
	case Theirs:
		return "theirs"
	case Ancestor:
		return "ancestor"
	case Resolved:
		return "resolved"
	}
	return "unknown"
}

// Mode is the granularity at which a file is being resolved.
type Mode int

const (
	FileMode Mode = iota
	BlockMode
	LineMode
)

func (m Mode) String() string {
	switch m {
	case FileMode:
		return "file"
	case BlockMode:
		return "block"
	case LineMode:
		return "line"
	}
	return "unknown"
}

// ParseMode parses the names produced by Mode.String.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "file":
		return FileMode, true
	case "block":
		return BlockMode, true
	case "line":
		return LineMode, true
	}
	return FileMode, false
}

// Next returns the mode after m in file, block, line order.
func (m Mode) Next() Mode {
	return (m + 1) % 3
}

// Choice is the resolution of a whole file (File mode) or of one section (Block mode).
type Choice int

const (
	Unresolved Choice = iota
	UseOurs
	UseTheirs
	// UseBoth emits ours then theirs
	UseBoth
	// UseBothReversed emits theirs then ours
	UseBothReversed
)

func (c Choice) String() string {
	switch c {
	case UseOurs:
		return "ours"
	case UseTheirs:
		return "theirs"
	case UseBoth:
		return "both"
	case UseBothReversed:
		return "both (theirs first)"
	}
	return "unresolved"
}

// LineSelection is the Line-mode resolution of one Conflict section.
// Touched stays false until the operator first selects something, which is
// what distinguishes "unresolved" from a deliberately empty result.
type LineSelection struct {
	Ours        []bool
	Theirs      []bool
	Touched     bool
	TheirsFirst bool
}

func newLineSelection(s Section) LineSelection {
	return LineSelection{
		Ours:   make([]bool, len(s.Ours)),
		Theirs: make([]bool, len(s.Theirs)),
	}
}

// Selected reports whether line i of side is part of the result.
func (l LineSelection) Selected(side Side, i int) bool {
	sel := l.side(side)
	return i >= 0 && i < len(sel) && sel[i]
}

func (l LineSelection) side(side Side) []bool {
	if side == Theirs {
		return l.Theirs
	}
	return l.Ours
}

func (l LineSelection) clone() LineSelection {
	c := l
	c.Ours = append([]bool(nil), l.Ours...)
	c.Theirs = append([]bool(nil), l.Theirs...)
	return c
}

// seed selects whole sides to express a block choice.
func (l *LineSelection) seed(c Choice) {
	if c == Unresolved {
		return
	}
	fill(l.Ours, c != UseTheirs)
	fill(l.Theirs, c != UseOurs)
	l.TheirsFirst = c == UseBothReversed
	l.Touched = true
}

// choice maps a selection back to a block choice when it selects whole sides.
func (l LineSelection) choice() Choice {
	if !l.Touched {
		return Unresolved
	}
	allOurs, noOurs := all(l.Ours, true), all(l.Ours, false)
	allTheirs, noTheirs := all(l.Theirs, true), all(l.Theirs, false)
	switch {
	case allOurs && noTheirs:
		return UseOurs
	case allTheirs && noOurs:
		return UseTheirs
	case allOurs && allTheirs && l.TheirsFirst:
		return UseBothReversed
	case allOurs && allTheirs:
		return UseBoth
	}
	return Unresolved
}

func fill(b []bool, v bool) {
	for i := range b {
		b[i] = v
	}
}

func all(b []bool, v bool) bool {
	for _, x := range b {
		if x != v {
			return false
		}
	}
	return true
}

// resolution is the mode-tagged resolution state of a file. Exactly one
// variant is live at a time; SetMode converts between them.
type resolution interface {
	mode() Mode
	clone() resolution
}

type fileResolution struct {
	choice Choice
}

type blockResolution struct {
	// indexed by section; entries for Stable sections stay Unresolved
	choices []Choice
}

type lineResolution struct {
	// indexed by section; entries for Stable sections are empty
	lines []LineSelection
}

func (r *fileResolution) mode() Mode  { return FileMode }
func (r *blockResolution) mode() Mode { return BlockMode }
func (r *lineResolution) mode() Mode  { return LineMode }

func (r *fileResolution) clone() resolution {
	c := *r
	return &c
}

func (r *blockResolution) clone() resolution {
	return &blockResolution{choices: append([]Choice(nil), r.choices...)}
}

func (r *lineResolution) clone() resolution {
	c := &lineResolution{lines: make([]LineSelection, len(r.lines))}
	for i, l := range r.lines {
		c.lines[i] = l.clone()
	}
	return c
}
