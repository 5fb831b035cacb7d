package conflict

// LineRef locates one physical line of a side inside the section list.
type LineRef struct {
	Section int
	Offset  int
	// Line is the physical line number within the side's full content
	Line int
}

// SectionStart returns the physical line at which section i begins on side.
func (f *File) SectionStart(side Side, i int) int {
	n := 0
	for k := 0; k < i && k < len(f.sections); k++ {
		n += len(f.sections[k].Lines(side))
	}
	return n
}

// ConflictLines lists every line of side that lies inside a Conflict
// section, in file order. These are the lines Line mode can toggle.
func (f *File) ConflictLines(side Side) []LineRef {
	var refs []LineRef
	line := 0
	for i, s := range f.sections {
		lines := s.Lines(side)
		if s.Origin == Conflict {
			for off := range lines {
				refs = append(refs, LineRef{Section: i, Offset: off, Line: line + off})
			}
		}
		line += len(lines)
	}
	return refs
}
