package git

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ReadBlob returns the content of the blob with hash h.
func (r *Repository) ReadBlob(h plumbing.Hash) ([]byte, error) {
	blob, err := r.BlobObject(h)
	if err != nil {
		return nil, fmt.Errorf("failed to get blob %s: %w", h, err)
	}
	rd, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("failed to open blob %s: %w", h, err)
	}
	defer func() { _ = rd.Close() }()
	return io.ReadAll(rd)
}

// WriteBlob stores content as a blob object and returns its hash.
func (r *Repository) WriteBlob(content []byte) (plumbing.Hash, error) {
	obj := r.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(content)))
	w, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to open blob writer: %w", err)
	}
	if _, err := w.Write(content); err != nil {
		_ = w.Close()
		return plumbing.ZeroHash, fmt.Errorf("failed to write blob: %w", err)
	}
	if err := w.Close(); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to write blob: %w", err)
	}
	return r.Storer.SetEncodedObject(obj)
}

// treeNode is a directory while building trees from flat index paths.
type treeNode struct {
	files map[string]*index.Entry
	dirs  map[string]*treeNode
}

func newTreeNode() *treeNode {
	return &treeNode{files: map[string]*index.Entry{}, dirs: map[string]*treeNode{}}
}

// WriteTree stores the tree objects described by stage 0 entries and
// returns the root tree hash.
func (r *Repository) WriteTree(entries []*index.Entry) (plumbing.Hash, error) {
	root := newTreeNode()
	for _, e := range entries {
		if e.Stage != StageNormal {
			return plumbing.ZeroHash, fmt.Errorf("cannot write tree: %s is unmerged", e.Name)
		}
		node := root
		parts := strings.Split(e.Name, "/")
		for _, dir := range parts[:len(parts)-1] {
			child, ok := node.dirs[dir]
			if !ok {
				child = newTreeNode()
				node.dirs[dir] = child
			}
			node = child
		}
		node.files[parts[len(parts)-1]] = e
	}
	return r.storeTree(root)
}

func (r *Repository) storeTree(node *treeNode) (plumbing.Hash, error) {
	tree := &object.Tree{}
	for name, e := range node.files {
		tree.Entries = append(tree.Entries, object.TreeEntry{Name: name, Mode: e.Mode, Hash: e.Hash})
	}
	for name, child := range node.dirs {
		h, err := r.storeTree(child)
		if err != nil {
			return plumbing.ZeroHash, err
		}
		tree.Entries = append(tree.Entries, object.TreeEntry{Name: name, Mode: filemode.Dir, Hash: h})
	}
	// git compares directory names as if they ended in a slash
	sortKey := func(e object.TreeEntry) string {
		if e.Mode == filemode.Dir {
			return e.Name + "/"
		}
		return e.Name
	}
	sort.Slice(tree.Entries, func(i, j int) bool {
		return sortKey(tree.Entries[i]) < sortKey(tree.Entries[j])
	})

	obj := r.Storer.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to encode tree: %w", err)
	}
	return r.Storer.SetEncodedObject(obj)
}

// CreateCommit stores a commit object and returns its hash. HEAD is not moved.
func (r *Repository) CreateCommit(tree plumbing.Hash, parents []plumbing.Hash, message string, author *object.Signature) (plumbing.Hash, error) {
	if author == nil {
		author = r.Signature()
	}
	commit := &object.Commit{
		Author:       *author,
		Committer:    *author,
		Message:      message,
		TreeHash:     tree,
		ParentHashes: parents,
	}
	obj := r.Storer.NewEncodedObject()
	if err := commit.Encode(obj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to encode commit: %w", err)
	}
	return r.Storer.SetEncodedObject(obj)
}

// UpdateHead points the current branch, or a detached HEAD, at commit.
func (r *Repository) UpdateHead(commit plumbing.Hash) error {
	head, err := r.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return fmt.Errorf("failed to read HEAD: %w", err)
	}
	name := plumbing.HEAD
	if head.Type() == plumbing.SymbolicReference {
		name = head.Target()
	}
	if err := r.Storer.SetReference(plumbing.NewHashReference(name, commit)); err != nil {
		return fmt.Errorf("failed to update %s: %w", name, err)
	}
	return nil
}

// Signature builds the author for new commits from git config, falling back
// to the GIT_AUTHOR_* environment.
func (r *Repository) Signature() *object.Signature {
	sig := &object.Signature{When: time.Now()}
	if cfg, err := r.ConfigScoped(config.GlobalScope); err == nil {
		sig.Name, sig.Email = cfg.User.Name, cfg.User.Email
	}
	if sig.Name == "" {
		sig.Name = os.Getenv("GIT_AUTHOR_NAME")
	}
	if sig.Email == "" {
		sig.Email = os.Getenv("GIT_AUTHOR_EMAIL")
	}
	if sig.Name == "" {
		sig.Name = "knit"
	}
	return sig
}
