package conflict

// SetMode switches the resolution granularity, carrying over every choice
// the new mode can express. Any edit override is cleared, even when the
// mode does not change. Files restricted to whole-file resolution refuse
// Block and Line mode and report false.
func (f *File) SetMode(m Mode) bool {
	if m != FileMode && f.WholeFileOnly() {
		return false
	}
	f.override = nil
	if m == f.res.mode() {
		return true
	}

	choices := f.blockChoices()
	switch m {
	case FileMode:
		f.res = &fileResolution{choice: uniform(choices, f.ConflictIndexes())}
	case BlockMode:
		f.res = &blockResolution{choices: choices}
	case LineMode:
		lines := make([]LineSelection, len(f.sections))
		for i, s := range f.sections {
			if s.Origin == Stable {
				continue
			}
			lines[i] = newLineSelection(s)
			lines[i].seed(choices[i])
		}
		f.res = &lineResolution{lines: lines}
	}
	return true
}

// blockChoices expresses the current resolution as one choice per section.
func (f *File) blockChoices() []Choice {
	choices := make([]Choice, len(f.sections))
	switch r := f.res.(type) {
	case *fileResolution:
		for _, i := range f.ConflictIndexes() {
			choices[i] = r.choice
		}
	case *blockResolution:
		copy(choices, r.choices)
	case *lineResolution:
		for _, i := range f.ConflictIndexes() {
			choices[i] = r.lines[i].choice()
		}
	}
	return choices
}

func uniform(choices []Choice, idx []int) Choice {
	if len(idx) == 0 {
		return Unresolved
	}
	c := choices[idx[0]]
	for _, i := range idx[1:] {
		if choices[i] != c {
			return Unresolved
		}
	}
	return c
}

// Choose resolves section i with c. In File mode the section is ignored and
// the choice applies to the whole file. In Line mode the choice seeds the
// section's selection. Choosing on a Stable section is a no-op.
func (f *File) Choose(i int, c Choice) bool {
	if r, ok := f.res.(*fileResolution); ok {
		if f.encErr != nil && (c == UseBoth || c == UseBothReversed) {
			return false
		}
		r.choice = c
		return true
	}
	if i < 0 || i >= len(f.sections) || f.sections[i].Origin == Stable {
		return false
	}
	switch r := f.res.(type) {
	case *blockResolution:
		r.choices[i] = c
	case *lineResolution:
		sel := newLineSelection(f.sections[i])
		sel.seed(c)
		r.lines[i] = sel
	}
	return true
}

// ToggleLine flips the selection of one line of a Conflict section. Only
// valid in Line mode.
func (f *File) ToggleLine(i int, side Side, line int) bool {
	r, ok := f.res.(*lineResolution)
	if !ok || i < 0 || i >= len(f.sections) || f.sections[i].Origin == Stable {
		return false
	}
	if side != Ours && side != Theirs {
		return false
	}
	sel := r.lines[i].side(side)
	if line < 0 || line >= len(sel) {
		return false
	}
	sel[line] = !sel[line]
	r.lines[i].Touched = true
	return true
}

// SwapOrder flips whether theirs is emitted before ours when both sides
// are kept. It applies to UseBoth choices and Line-mode selections.
func (f *File) SwapOrder(i int) bool {
	swap := func(c Choice) (Choice, bool) {
		switch c {
		case UseBoth:
			return UseBothReversed, true
		case UseBothReversed:
			return UseBoth, true
		}
		return c, false
	}
	switch r := f.res.(type) {
	case *fileResolution:
		var ok bool
		r.choice, ok = swap(r.choice)
		return ok
	case *blockResolution:
		if i < 0 || i >= len(r.choices) {
			return false
		}
		var ok bool
		r.choices[i], ok = swap(r.choices[i])
		return ok
	case *lineResolution:
		if i < 0 || i >= len(r.lines) || !r.lines[i].Touched {
			return false
		}
		r.lines[i].TheirsFirst = !r.lines[i].TheirsFirst
		return true
	}
	return false
}

// AutoResolve resolves the unresolved Conflict sections where only one side
// changed, or both made the same change. It returns how many sections it
// resolved. File mode is left untouched.
func (f *File) AutoResolve() int {
	if f.res.mode() == FileMode {
		return 0
	}
	n := 0
	for _, i := range f.ConflictIndexes() {
		if f.SectionChoice(i) != Unresolved {
			continue
		}
		var c Choice
		switch f.sections[i].Change {
		case ChangeOurs, ChangeSame:
			c = UseOurs
		case ChangeTheirs:
			c = UseTheirs
		default:
			continue
		}
		if f.Choose(i, c) {
			n++
		}
	}
	return n
}

// Snapshot captures the resolution state so it can be compared or restored.
type Snapshot struct {
	res      resolution
	override *string
}

// Snapshot returns a deep copy of the current resolution state.
func (f *File) Snapshot() Snapshot {
	s := Snapshot{res: f.res.clone()}
	if f.override != nil {
		o := *f.override
		s.override = &o
	}
	return s
}

// Restore puts back a state captured by Snapshot.
func (f *File) Restore(s Snapshot) {
	f.res = s.res.clone()
	f.override = nil
	if s.override != nil {
		o := *s.override
		f.override = &o
	}
}
