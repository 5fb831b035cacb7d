package resolver

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"knit.dev/knit/internal/conflict"
	"knit.dev/knit/internal/session"
	"knit.dev/knit/internal/tui"
)

const (
	defaultWidth  = 120
	defaultHeight = 36
	fileListWidth = 32
	tabWidth      = 4
)

type styles struct {
	title     lipgloss.Style
	panel     lipgloss.Style
	focused   lipgloss.Style
	heading   lipgloss.Style
	conflict  lipgloss.Style
	current   lipgloss.Style
	resolved  lipgloss.Style
	dim       lipgloss.Style
	marker    lipgloss.Style
	cursor    lipgloss.Style
	err       lipgloss.Style
	status    lipgloss.Style
	selection lipgloss.Style
}

func newStyles() styles {
	border := lipgloss.RoundedBorder()
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(tui.AccentColor),
		panel:     lipgloss.NewStyle().Border(border).BorderForeground(tui.DimColor),
		focused:   lipgloss.NewStyle().Border(border).BorderForeground(tui.AccentColor),
		heading:   lipgloss.NewStyle().Bold(true),
		conflict:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		current:   lipgloss.NewStyle().Bold(true).Reverse(true),
		resolved:  lipgloss.NewStyle().Foreground(tui.ResolvedColor),
		dim:       lipgloss.NewStyle().Foreground(tui.DimColor),
		marker:    lipgloss.NewStyle().Foreground(tui.ConflictColor).Bold(true),
		cursor:    lipgloss.NewStyle().Reverse(true),
		err:       lipgloss.NewStyle().Foreground(tui.ConflictColor).Bold(true),
		status:    lipgloss.NewStyle().Foreground(tui.DimColor).Italic(true),
		selection: lipgloss.NewStyle().Foreground(tui.OursColor),
	}
}

type layout struct {
	filesWidth  int
	paneWidth   int
	resultWidth int
	topLines    int
	resultLines int
}

// layout splits the screen: file list, ours and theirs on top, the result below.
// Every panel loses two columns and two rows to its border.
func (m Model) layout() layout {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	files := fileListWidth
	if files > w/4 {
		files = w / 4
	}
	pane := (w - files) / 2

	// title, status and help lines
	body := h - 3
	top := body / 2
	result := body - top
	return layout{
		filesWidth:  max(files-2, 1),
		paneWidth:   max(pane-2, 1),
		resultWidth: max(w-2, 1),
		topLines:    max(top-2, 1),
		resultLines: max(result-2, 1),
	}
}

func (m Model) View() string {
	s := m.ctrl.Session()
	if s == nil {
		return m.styles.dim.Render("No merge in progress.") + "\n"
	}
	l := m.layout()

	var b strings.Builder
	b.WriteString(m.titleView(s))
	b.WriteString("\n")

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		m.box(s, session.FileList, l.filesWidth, l.topLines, m.fileListLines(s)),
		m.box(s, session.OursPanel, l.paneWidth, l.topLines, m.sideLines(s, conflict.Ours, l.topLines)),
		m.box(s, session.TheirsPanel, l.paneWidth, l.topLines, m.sideLines(s, conflict.Theirs, l.topLines)),
	)
	b.WriteString(top)
	b.WriteString("\n")
	b.WriteString(m.box(s, session.ResultPanel, l.resultWidth, l.resultLines, m.resultLines(s, l.resultLines)))
	b.WriteString("\n")
	b.WriteString(m.footerView(s))
	return b.String()
}

func (m Model) titleView(s *session.Session) string {
	st := s.Status()
	resolved := 0
	for _, r := range st.Resolved {
		if r {
			resolved++
		}
	}
	title := fmt.Sprintf("knit · resolving merge · %d/%d files resolved", resolved, st.FileCount)
	if f := s.File(); f != nil {
		title += fmt.Sprintf(" · %s (%s mode)", f.Path, f.Mode())
	}
	return m.styles.title.Render(title)
}

func (m Model) box(s *session.Session, p session.Panel, width, height int, lines []string) string {
	style := m.styles.panel
	if s.Focus() == p {
		style = m.styles.focused
	}
	heading := m.styles.heading.Render(panelTitle(p, s.File()))
	content := append([]string{heading}, lines...)
	if len(content) > height {
		content = content[:height]
	}
	return style.
		Width(width).
		Height(height).
		MaxHeight(height + 2).
		Render(lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(content, "\n")))
}

func panelTitle(p session.Panel, f *conflict.File) string {
	switch p {
	case session.FileList:
		return "Files"
	case session.OursPanel:
		return "Ours"
	case session.TheirsPanel:
		return "Theirs"
	}
	if f != nil && f.ResolvesToDeletion() {
		return "Result (deleted)"
	}
	return "Result"
}

func (m Model) fileListLines(s *session.Session) []string {
	var lines []string
	for i, f := range s.Files() {
		icon := m.styles.marker.Render("✗")
		if f.IsFullyResolved() {
			icon = m.styles.resolved.Render("✓")
		}
		conflicts, resolved := f.Summary()
		detail := fmt.Sprintf("%d/%d", resolved, conflicts)
		if f.Kind != conflict.ModifyModify {
			detail = f.Kind.String()
		}
		if f.EncodingErr() != nil {
			detail = "binary"
		}
		name := f.Path
		if i == s.Current() {
			name = m.styles.current.Render(name)
		}
		lines = append(lines, fmt.Sprintf("%s %s %s", icon, name, m.styles.dim.Render(detail)))
	}
	if len(lines) == 0 {
		lines = append(lines, m.styles.dim.Render("no conflicts"))
	}
	return lines
}

// sideLines renders the ours or theirs version of the current file, marking
// conflict lines, the section or line under the cursor, and line selections.
func (m Model) sideLines(s *session.Session, side conflict.Side, height int) []string {
	f := s.File()
	if f == nil {
		return nil
	}
	if !f.Has(side) {
		return []string{m.styles.dim.Render("(file does not exist on this side)")}
	}
	content := f.Content(side)
	if f.EncodingErr() != nil {
		return []string{m.styles.dim.Render(fmt.Sprintf("binary content, %s", humanize.Bytes(uint64(len(content)))))}
	}

	lines := displayLines(content)
	kind := make([]lineKind, len(lines))
	for _, ref := range f.ConflictLines(side) {
		if ref.Line < len(kind) {
			kind[ref.Line] = conflictLine
		}
	}

	focused := (side == conflict.Ours && s.Focus() == session.OursPanel) ||
		(side == conflict.Theirs && s.Focus() == session.TheirsPanel)
	switch f.Mode() {
	case conflict.BlockMode:
		if sec, ok := s.CurrentSection(); ok {
			start := f.SectionStart(side, sec)
			for i := range f.Sections()[sec].Lines(side) {
				if start+i < len(kind) {
					kind[start+i] = currentLine
				}
			}
		}
	case conflict.LineMode:
		if ref, ok := s.CurrentLine(); ok && focused && ref.Line < len(kind) {
			kind[ref.Line] = currentLine
		}
	}

	selected := make(map[int]bool)
	if f.Mode() == conflict.LineMode {
		for _, ref := range f.ConflictLines(side) {
			if sel, ok := f.LineSelection(ref.Section); ok && sel.Touched && sel.Selected(side, ref.Offset) {
				selected[ref.Line] = true
			}
		}
	}

	offset := s.Scroll().Ours
	if side == conflict.Theirs {
		offset = s.Scroll().Theirs
	}
	offset = max(offset-m.opts.ContextLines, 0)

	var out []string
	for i := offset; i < len(lines) && len(out) < height; i++ {
		gutter := " "
		if f.Mode() == conflict.LineMode {
			switch {
			case kind[i] == stableLine:
				gutter = "   "
			case selected[i]:
				gutter = m.styles.selection.Render("[x]")
			default:
				gutter = "[ ]"
			}
		}
		text := lines[i]
		switch kind[i] {
		case conflictLine:
			text = m.styles.conflict.Render(text)
		case currentLine:
			text = m.styles.current.Render(text)
		}
		out = append(out, gutter+" "+text)
	}
	return out
}

type lineKind int

const (
	stableLine lineKind = iota
	conflictLine
	currentLine
)

func (m Model) resultLines(s *session.Session, height int) []string {
	f := s.File()
	if f == nil {
		return nil
	}
	if ed := s.Editor(); ed != nil {
		return m.editorLines(ed, s.Scroll().Result, height)
	}
	if f.ResolvesToDeletion() {
		return []string{m.styles.dim.Render("(path will be deleted)")}
	}
	content := f.Content(conflict.Resolved)
	if f.EncodingErr() != nil {
		return []string{m.styles.dim.Render(fmt.Sprintf("binary content, %s", humanize.Bytes(uint64(len(content)))))}
	}

	lines := displayLines(content)
	var out []string
	for i := s.Scroll().Result; i < len(lines) && len(out) < height; i++ {
		line := lines[i]
		if isMarker(line) {
			line = m.styles.marker.Render(line)
		}
		out = append(out, line)
	}
	return out
}

func (m Model) editorLines(ed *session.EditBuffer, scroll, height int) []string {
	lines := ed.Lines()
	cur := ed.Cursor()
	var out []string
	for i := scroll; i < len(lines) && len(out) < height; i++ {
		line := []rune(lines[i])
		if i != cur.Line {
			out = append(out, expandTabs(string(line)))
			continue
		}
		at := " "
		rest := ""
		if cur.Col < len(line) {
			at = string(line[cur.Col])
			rest = string(line[cur.Col+1:])
		}
		out = append(out, expandTabs(string(line[:cur.Col]))+m.styles.cursor.Render(expandTabs(at))+expandTabs(rest))
	}
	return out
}

func isMarker(line string) bool {
	return strings.HasPrefix(line, "<<<<<<< ") || line == "=======" || strings.HasPrefix(line, ">>>>>>> ")
}

// displayLines splits content into lines for rendering, without terminators.
func displayLines(content string) []string {
	split := conflict.SplitLines(content)
	lines := make([]string, len(split))
	for i, l := range split {
		lines[i] = expandTabs(strings.TrimRight(l, "\r\n"))
	}
	return lines
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func (m Model) footerView(s *session.Session) string {
	var b strings.Builder
	switch {
	case m.err != nil:
		b.WriteString(m.styles.err.Render("Error: " + m.err.Error() + " (press any key)"))
	case m.state == stateCommit:
		b.WriteString(m.commit.View())
	case m.state == stateConfirmAbort:
		b.WriteString(m.styles.err.Render("Abort the merge and discard all resolutions? (y/n)"))
	case m.state == stateJump:
		b.WriteString(m.jumpView())
	case m.state == stateBusy:
		b.WriteString(m.styles.status.Render("working..."))
	case m.status != "":
		b.WriteString(m.styles.status.Render(m.status))
	}
	b.WriteString("\n")
	if s.Editing() {
		b.WriteString(m.help.View(m.editKeys))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m Model) jumpView() string {
	var b strings.Builder
	b.WriteString(m.jump.View())
	for i, match := range m.matches {
		if i >= 5 {
			break
		}
		name := match.Str
		if i == m.jumpCursor {
			name = m.styles.current.Render(name)
		}
		b.WriteString("  " + name)
	}
	return b.String()
}
