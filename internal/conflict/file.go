package conflict

import (
	"bytes"
	"strings"
	"unicode/utf8"

	kniterrors "knit.dev/knit/internal/errors"
)

// Kind classifies a conflicted file by which revisions are present.
type Kind int

const (
	ModifyModify Kind = iota
	AddAdd
	DeleteModify
	ModifyDelete
	AddedByUs
	AddedByThem
	DeleteDelete
)

func (k Kind) String() string {
	switch k {
	case ModifyModify:
		return "both modified"
	case AddAdd:
		return "both added"
	case DeleteModify:
		return "deleted by us"
	case ModifyDelete:
		return "deleted by them"
	case AddedByUs:
		return "added by us"
	case AddedByThem:
		return "added by them"
	case DeleteDelete:
		return "both deleted"
	}
	return "unknown"
}

func kindOf(hasAncestor, hasOurs, hasTheirs bool) Kind {
	switch {
	case hasOurs && hasTheirs && hasAncestor:
		return ModifyModify
	case hasOurs && hasTheirs:
		return AddAdd
	case hasAncestor && hasTheirs:
		return DeleteModify
	case hasAncestor && hasOurs:
		return ModifyDelete
	case hasOurs:
		return AddedByUs
	case hasTheirs:
		return AddedByThem
	}
	return DeleteDelete
}

// Contents carries the raw bytes of each revision of a conflicted file.
// A revision that does not exist (deleted or never added) has Has* false.
type Contents struct {
	Ancestor    []byte
	Ours        []byte
	Theirs      []byte
	HasAncestor bool
	HasOurs     bool
	HasTheirs   bool
}

// Labels are the names written on conflict markers for unresolved sections.
type Labels struct {
	Ours   string
	Theirs string
}

// DefaultLabels match the labels git writes for a merge.
var DefaultLabels = Labels{Ours: "HEAD", Theirs: "theirs"}

// File is one conflicted path together with its resolution state.
type File struct {
	Path string
	Kind Kind

	sections []Section
	raw      [3]string
	present  [3]bool
	encErr   error
	labels   Labels

	res      resolution
	override *string
}

// NewFile aligns the revisions of path and returns a File in File mode.
// Content that is not valid UTF-8 text is kept whole; such a file reports
// an EncodingError and can only be resolved in File mode.
func NewFile(path string, c Contents) *File {
	f := &File{
		Path:    path,
		Kind:    kindOf(c.HasAncestor, c.HasOurs, c.HasTheirs),
		raw:     [3]string{string(c.Ours), string(c.Theirs), string(c.Ancestor)},
		present: [3]bool{c.HasOurs, c.HasTheirs, c.HasAncestor},
		labels:  DefaultLabels,
		res:     &fileResolution{},
	}
	for side, content := range [][]byte{c.Ours, c.Theirs, c.Ancestor} {
		if !isText(content) {
			f.encErr = kniterrors.NewEncodingError(path, Side(side).String())
			return f
		}
	}
	f.sections = BuildSections(SplitLines(f.raw[Ancestor]), SplitLines(f.raw[Ours]), SplitLines(f.raw[Theirs]))
	return f
}

func isText(b []byte) bool {
	return utf8.Valid(b) && bytes.IndexByte(b, 0) < 0
}

// EncodingErr returns the EncodingError recorded when the file was loaded, if any.
func (f *File) EncodingErr() error { return f.encErr }

// WholeFileOnly reports whether section-level resolution is disabled for the
// file. That is the case for binary content and for files missing on one side.
func (f *File) WholeFileOnly() bool {
	return f.encErr != nil || f.present[Ours] != f.present[Theirs]
}

// Has reports whether the given revision exists.
func (f *File) Has(side Side) bool {
	if side == Resolved {
		return !f.ResolvesToDeletion()
	}
	return f.present[side]
}

// SetLabels changes the conflict marker labels.
func (f *File) SetLabels(l Labels) { f.labels = l }

// Sections returns the aligned sections. The slice must not be modified.
func (f *File) Sections() []Section { return f.sections }

// Mode returns the current resolution granularity.
func (f *File) Mode() Mode { return f.res.mode() }

// ConflictIndexes returns the section indexes of every Conflict section in order.
func (f *File) ConflictIndexes() []int {
	var idx []int
	for i, s := range f.sections {
		if s.Origin == Conflict {
			idx = append(idx, i)
		}
	}
	return idx
}

// Content generates the file for one side. Resolved follows the current
// mode, and an edit override wins over everything else.
func (f *File) Content(side Side) string {
	if side != Resolved {
		return f.raw[side]
	}
	if f.override != nil {
		return *f.override
	}
	if f.encErr != nil {
		switch f.res.(*fileResolution).choice {
		case UseOurs:
			return f.raw[Ours]
		case UseTheirs:
			return f.raw[Theirs]
		}
		return ""
	}

	var b strings.Builder
	for i, s := range f.sections {
		if s.Origin == Stable {
			writeLines(&b, s.Ours)
			continue
		}
		switch r := f.res.(type) {
		case *fileResolution:
			f.writeChoice(&b, s, r.choice)
		case *blockResolution:
			f.writeChoice(&b, s, r.choices[i])
		case *lineResolution:
			f.writeSelection(&b, s, r.lines[i])
		}
	}
	return b.String()
}

func (f *File) writeChoice(b *strings.Builder, s Section, c Choice) {
	switch c {
	case UseOurs:
		writeLines(b, s.Ours)
	case UseTheirs:
		writeLines(b, s.Theirs)
	case UseBoth:
		writeLines(b, s.Ours)
		writeLines(b, s.Theirs)
	case UseBothReversed:
		writeLines(b, s.Theirs)
		writeLines(b, s.Ours)
	default:
		f.writeMarkers(b, s)
	}
}

func (f *File) writeSelection(b *strings.Builder, s Section, l LineSelection) {
	if !l.Touched {
		f.writeMarkers(b, s)
		return
	}
	first, second := Ours, Theirs
	if l.TheirsFirst {
		first, second = Theirs, Ours
	}
	for _, side := range []Side{first, second} {
		for i, line := range s.Lines(side) {
			if l.Selected(side, i) {
				b.WriteString(line)
			}
		}
	}
}

func (f *File) writeMarkers(b *strings.Builder, s Section) {
	b.WriteString("<<<<<<< " + f.labels.Ours + "\n")
	writeTerminated(b, s.Ours)
	b.WriteString("=======\n")
	writeTerminated(b, s.Theirs)
	b.WriteString(">>>>>>> " + f.labels.Theirs + "\n")
}

func writeLines(b *strings.Builder, lines []string) {
	for _, l := range lines {
		b.WriteString(l)
	}
}

// writeTerminated keeps a marker on its own line when the last line of a
// side has no newline.
func writeTerminated(b *strings.Builder, lines []string) {
	writeLines(b, lines)
	if n := len(lines); n > 0 && !strings.HasSuffix(lines[n-1], "\n") {
		b.WriteByte('\n')
	}
}

// IsFullyResolved reports whether every Conflict section has a resolution
// under the current mode, or an edit override exists.
func (f *File) IsFullyResolved() bool {
	if f.override != nil {
		return true
	}
	switch r := f.res.(type) {
	case *fileResolution:
		if f.WholeFileOnly() {
			return r.choice != Unresolved
		}
		return r.choice != Unresolved || len(f.ConflictIndexes()) == 0
	case *blockResolution:
		for _, i := range f.ConflictIndexes() {
			if r.choices[i] == Unresolved {
				return false
			}
		}
	case *lineResolution:
		for _, i := range f.ConflictIndexes() {
			if !r.lines[i].Touched {
				return false
			}
		}
	}
	return true
}

// ResolvesToDeletion reports whether finalizing removes the path. That
// happens when the whole-file choice picks a side on which the file does not exist.
func (f *File) ResolvesToDeletion() bool {
	if f.override != nil {
		return false
	}
	r, ok := f.res.(*fileResolution)
	if !ok {
		return false
	}
	switch r.choice {
	case UseOurs:
		return !f.present[Ours]
	case UseTheirs:
		return !f.present[Theirs]
	case UseBoth, UseBothReversed:
		return !f.present[Ours] && !f.present[Theirs]
	}
	return false
}

// Summary counts the Conflict sections and how many of them are resolved.
func (f *File) Summary() (conflicts, resolved int) {
	idx := f.ConflictIndexes()
	conflicts = len(idx)
	if f.IsFullyResolved() {
		return conflicts, conflicts
	}
	for _, i := range idx {
		if f.SectionChoice(i) != Unresolved {
			resolved++
		}
	}
	return conflicts, resolved
}

// SectionChoice returns the effective choice for section i. In Line mode a
// selection that is not expressible as a whole-side choice is reported as
// UseBoth when touched.
func (f *File) SectionChoice(i int) Choice {
	if i < 0 || i >= len(f.sections) || f.sections[i].Origin == Stable {
		return Unresolved
	}
	switch r := f.res.(type) {
	case *fileResolution:
		return r.choice
	case *blockResolution:
		return r.choices[i]
	case *lineResolution:
		if c := r.lines[i].choice(); c != Unresolved || !r.lines[i].Touched {
			return c
		}
		return UseBoth
	}
	return Unresolved
}

// LineSelection returns the Line-mode selection of section i.
func (f *File) LineSelection(i int) (LineSelection, bool) {
	r, ok := f.res.(*lineResolution)
	if !ok || i < 0 || i >= len(r.lines) || f.sections[i].Origin == Stable {
		return LineSelection{}, false
	}
	return r.lines[i], true
}

// Override returns the edited result, if any.
func (f *File) Override() (string, bool) {
	if f.override == nil {
		return "", false
	}
	return *f.override, true
}

// SetOverride stores an edited result that replaces the generated one.
// Files that are not valid UTF-8 can only take a whole side, so it
// returns false for them.
func (f *File) SetOverride(content string) bool {
	if f.encErr != nil {
		return false
	}
	f.override = &content
	return true
}

// ClearOverride drops the edited result.
func (f *File) ClearOverride() {
	f.override = nil
}
