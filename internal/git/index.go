package git

import (
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/format/index"
)

// Index stages. Stage 0 holds resolved entries; 1, 2 and 3 hold the
// ancestor, ours and theirs versions of a conflicted path.
const (
	StageNormal   index.Stage = 0
	StageAncestor index.Stage = 1
	StageOurs     index.Stage = 2
	StageTheirs   index.Stage = 3
)

// UnmergedPath is a conflicted path with its per-stage index entries.
// A nil entry means the stage is absent.
type UnmergedPath struct {
	Path     string
	Ancestor *index.Entry
	Ours     *index.Entry
	Theirs   *index.Entry
}

// Mode returns the file mode a resolution of the path should use.
func (u UnmergedPath) Mode() filemode.FileMode {
	for _, e := range []*index.Entry{u.Ours, u.Theirs, u.Ancestor} {
		if e != nil {
			return e.Mode
		}
	}
	return filemode.Regular
}

// UnmergedPaths lists every path with conflict-stage entries, in index order.
func (r *Repository) UnmergedPaths() ([]UnmergedPath, error) {
	idx, err := r.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}

	var paths []UnmergedPath
	byPath := make(map[string]int)
	for _, e := range idx.Entries {
		if e.Stage == StageNormal {
			continue
		}
		i, ok := byPath[e.Name]
		if !ok {
			i = len(paths)
			byPath[e.Name] = i
			paths = append(paths, UnmergedPath{Path: e.Name})
		}
		switch e.Stage {
		case StageAncestor:
			paths[i].Ancestor = e
		case StageOurs:
			paths[i].Ours = e
		case StageTheirs:
			paths[i].Theirs = e
		}
	}
	return paths, nil
}

// cloneIndex copies idx deep enough that editing its entry list leaves idx
// untouched. Cached tree data is dropped since it no longer matches.
func cloneIndex(idx *index.Index) *index.Index {
	c := &index.Index{Version: idx.Version}
	if c.Version == 0 {
		c.Version = 2
	}
	c.Entries = make([]*index.Entry, len(idx.Entries))
	for i, e := range idx.Entries {
		entry := *e
		c.Entries[i] = &entry
	}
	return c
}

// setPath removes every entry for path and, when entry is non-nil, puts it
// in as the single stage 0 entry.
func setPath(idx *index.Index, path string, entry *index.Entry) {
	kept := idx.Entries[:0]
	for _, e := range idx.Entries {
		if e.Name != path {
			kept = append(kept, e)
		}
	}
	idx.Entries = kept
	if entry != nil {
		entry.Name = path
		entry.Stage = StageNormal
		idx.Entries = append(idx.Entries, entry)
	}
}

// unmergedNames returns the sorted, distinct paths that still carry conflict stages.
func unmergedNames(idx *index.Index) []string {
	seen := make(map[string]bool)
	var names []string
	for _, e := range idx.Entries {
		if e.Stage != StageNormal && !seen[e.Name] {
			seen[e.Name] = true
			names = append(names, e.Name)
		}
	}
	sort.Strings(names)
	return names
}

// sortEntries orders entries by path then stage, as git stores them.
func sortEntries(idx *index.Index) {
	sort.SliceStable(idx.Entries, func(i, j int) bool {
		a, b := idx.Entries[i], idx.Entries[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Stage < b.Stage
	})
}
