// Package conflict models a single file under merge conflict: the three-way
// alignment of its ancestor, ours and theirs revisions and the operator's
// resolution of that alignment.
package conflict

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Origin tells whether a section is identical on both sides or diverges.
type Origin int

const (
	// Stable sections are identical in ancestor, ours and theirs
	Stable Origin = iota
	// Conflict sections diverge on at least one side
	Conflict
)

func (o Origin) String() string {
	if o == Stable {
		return "stable"
	}
	return "conflict"
}

// Change describes which sides of a Conflict section moved away from the ancestor.
type Change int

const (
	ChangeNone Change = iota
	// ChangeOurs means only ours differs from the ancestor
	ChangeOurs
	// ChangeTheirs means only theirs differs from the ancestor
	ChangeTheirs
	// ChangeSame means both sides made the identical change
	ChangeSame
	// ChangeBoth means both sides changed the region differently
	ChangeBoth
)

// Section is one aligned region of a conflicted file. Lines keep their
// terminating newline so that joining them reproduces the file byte for byte.
type Section struct {
	Origin   Origin
	Ancestor []string
	Ours     []string
	Theirs   []string
	Change   Change
}

// Lines returns the section's lines for one of the input sides.
// Resolved is not a property of a section and yields nil.
func (s Section) Lines(side Side) []string {
	switch side {
	case Ancestor:
		return s.Ancestor
	case Ours:
		return s.Ours
	case Theirs:
		return s.Theirs
	}
	return nil
}

// SplitLines splits content into lines, each keeping its "\n" terminator.
// A final line without a terminator is kept as is.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// BuildSections aligns ours and theirs against the ancestor and returns the
// ordered sections covering all three. Every ancestor line lands in exactly
// one section, and two Conflict sections are never adjacent.
func BuildSections(ancestor, ours, theirs []string) []Section {
	matchOurs := alignTo(ancestor, ours)
	matchTheirs := alignTo(ancestor, theirs)

	var sections []Section
	ia, io, it := 0, 0, 0
	for ia < len(ancestor) || io < len(ours) || it < len(theirs) {
		start := ia
		for ia < len(ancestor) && matchOurs[ia] == io && matchTheirs[ia] == it {
			ia++
			io++
			it++
		}
		if ia > start {
			lines := ancestor[start:ia]
			sections = append(sections, Section{
				Origin:   Stable,
				Ancestor: lines,
				Ours:     ours[io-(ia-start) : io],
				Theirs:   theirs[it-(ia-start) : it],
			})
		}
		if ia >= len(ancestor) && io >= len(ours) && it >= len(theirs) {
			break
		}

		// The conflict runs until the next ancestor line both sides kept.
		endA, endO, endT := len(ancestor), len(ours), len(theirs)
		for k := ia; k < len(ancestor); k++ {
			if matchOurs[k] >= 0 && matchTheirs[k] >= 0 {
				endA, endO, endT = k, matchOurs[k], matchTheirs[k]
				break
			}
		}
		sec := Section{
			Origin:   Conflict,
			Ancestor: ancestor[ia:endA],
			Ours:     ours[io:endO],
			Theirs:   theirs[it:endT],
		}
		sec.Change = classify(sec)
		sections = append(sections, sec)
		ia, io, it = endA, endO, endT
	}
	return sections
}

// alignTo maps each ancestor line to its matching line in other, or -1.
func alignTo(ancestor, other []string) []int {
	match := make([]int, len(ancestor))
	for i := range match {
		match[i] = -1
	}
	if len(ancestor) == 0 || len(other) == 0 {
		return match
	}
	m := difflib.NewMatcherWithJunk(ancestor, other, false, nil)
	for _, block := range m.GetMatchingBlocks() {
		for k := 0; k < block.Size; k++ {
			match[block.A+k] = block.B + k
		}
	}
	return match
}

func classify(s Section) Change {
	oursSame := equalLines(s.Ours, s.Ancestor)
	theirsSame := equalLines(s.Theirs, s.Ancestor)
	switch {
	case oursSame && theirsSame:
		return ChangeNone
	case theirsSame:
		return ChangeOurs
	case oursSame:
		return ChangeTheirs
	case equalLines(s.Ours, s.Theirs):
		return ChangeSame
	}
	return ChangeBoth
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
