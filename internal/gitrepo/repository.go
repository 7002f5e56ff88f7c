// Package gitrepo gives read access to the bare repositories backing projects and the narrow
// write path used when a pull request is merged.
package gitrepo

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
)

var (
	ErrNotFound          = errors.New("repository not found")
	ErrUnknownRef        = errors.New("unknown ref")
	ErrRefUpdateConflict = errors.New("ref was updated concurrently")
	ErrInvalidBranch     = errors.New("invalid branch name")
)

// Entry is a non-directory tree entry.
type Entry struct {
	Hash plumbing.Hash
	Mode filemode.FileMode
}

// Repository wraps a go-git repository opened from a path on disk.
type Repository struct {
	repo *git.Repository
	path string
}

// Open opens the repository stored at path.
func Open(path string) (*Repository, error) {
	r, err := git.PlainOpen(path)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open repository %s: %w", path, err)
	}
	return &Repository{repo: r, path: path}, nil
}

// Init creates an empty bare repository at path.
func Init(path string) (*Repository, error) {
	r, err := git.PlainInit(path, true)
	if err != nil {
		return nil, fmt.Errorf("init repository %s: %w", path, err)
	}
	return &Repository{repo: r, path: path}, nil
}

func (r *Repository) Path() string {
	return r.path
}

// Branches returns the short names of all local branches, sorted.
func (r *Repository) Branches() ([]string, error) {
	iter, err := r.repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("failed to get branches: %w", err)
	}
	defer iter.Close()

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate branches: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

// ValidateBranchName reports whether refs/heads/<name> is a well-formed ref
// that stays below refs/heads.
func ValidateBranchName(name string) error {
	if name == "" || strings.Contains(name, "..") || strings.HasPrefix(name, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidBranch, name)
	}
	if err := plumbing.NewBranchReferenceName(name).Validate(); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidBranch, name, err)
	}
	return nil
}

// ResolveBranch returns the tip of refs/heads/<name>.
func (r *Repository) ResolveBranch(name string) (plumbing.Hash, error) {
	if err := ValidateBranchName(name); err != nil {
		return plumbing.ZeroHash, err
	}
	return r.ResolveRef(plumbing.NewBranchReferenceName(name).String())
}

// ResolveRef resolves a full ref name, a branch short name or a commit id to a commit id.
func (r *Repository) ResolveRef(name string) (plumbing.Hash, error) {
	candidates := []plumbing.ReferenceName{plumbing.ReferenceName(name)}
	if !strings.HasPrefix(name, "refs/") {
		candidates = append(candidates,
			plumbing.NewBranchReferenceName(name),
			plumbing.NewTagReferenceName(name),
		)
	}

	for _, c := range candidates {
		ref, err := r.repo.Reference(c, true)
		if err == nil {
			return r.peel(ref.Hash())
		}
		if !errors.Is(err, plumbing.ErrReferenceNotFound) {
			return plumbing.ZeroHash, fmt.Errorf("read ref %s: %w", c, err)
		}
	}

	if plumbing.IsHash(name) {
		h := plumbing.NewHash(name)
		if _, err := r.repo.CommitObject(h); err == nil {
			return h, nil
		}
	}

	return plumbing.ZeroHash, fmt.Errorf("%w: %s", ErrUnknownRef, name)
}

// peel follows annotated tags down to the commit they point at.
func (r *Repository) peel(h plumbing.Hash) (plumbing.Hash, error) {
	tag, err := r.repo.TagObject(h)
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return h, nil
	}
	if err != nil {
		return plumbing.ZeroHash, err
	}
	c, err := tag.Commit()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("peel tag %s: %w", h, err)
	}
	return c.Hash, nil
}

func (r *Repository) Commit(h plumbing.Hash) (*object.Commit, error) {
	c, err := r.repo.CommitObject(h)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s: %w", h, err)
	}
	return c, nil
}

// HasObject reports whether the object database already holds h.
func (r *Repository) HasObject(h plumbing.Hash) bool {
	return r.repo.Storer.HasEncodedObject(h) == nil
}

// IsAncestor reports whether ancestor is reachable from descendant. A commit is its own ancestor.
func (r *Repository) IsAncestor(ancestor, descendant plumbing.Hash) (bool, error) {
	if ancestor == descendant {
		return true, nil
	}

	a, err := r.Commit(ancestor)
	if err != nil {
		return false, err
	}
	d, err := r.Commit(descendant)
	if err != nil {
		return false, err
	}

	return a.IsAncestor(d)
}

// MergeBase returns the best common ancestor of a and b. ok is false for unrelated histories.
func (r *Repository) MergeBase(a, b plumbing.Hash) (base plumbing.Hash, ok bool, err error) {
	ca, err := r.Commit(a)
	if err != nil {
		return plumbing.ZeroHash, false, err
	}
	cb, err := r.Commit(b)
	if err != nil {
		return plumbing.ZeroHash, false, err
	}

	bases, err := ca.MergeBase(cb)
	if err != nil {
		return plumbing.ZeroHash, false, fmt.Errorf("failed to find merge base: %w", err)
	}
	if len(bases) == 0 {
		return plumbing.ZeroHash, false, nil
	}

	return bases[0].Hash, true, nil
}

// AncestorCount returns the number of commits reachable from head but not from base.
func (r *Repository) AncestorCount(base, head plumbing.Hash) (int, error) {
	seen := make(map[plumbing.Hash]bool)
	if !base.IsZero() {
		bc, err := r.Commit(base)
		if err != nil {
			return 0, err
		}
		err = object.NewCommitPreorderIter(bc, nil, nil).ForEach(func(c *object.Commit) error {
			seen[c.Hash] = true
			return nil
		})
		if err != nil {
			return 0, fmt.Errorf("walk %s: %w", base, err)
		}
	}

	hc, err := r.Commit(head)
	if err != nil {
		return 0, err
	}

	count := 0
	err = object.NewCommitPreorderIter(hc, seen, nil).ForEach(func(*object.Commit) error {
		count++
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walk %s: %w", head, err)
	}

	return count, nil
}

// Files flattens the tree of commit h into path -> entry. Directories are not listed.
// The zero hash yields an empty tree.
func (r *Repository) Files(h plumbing.Hash) (map[string]Entry, error) {
	files := make(map[string]Entry)
	if h.IsZero() {
		return files, nil
	}

	c, err := r.Commit(h)
	if err != nil {
		return nil, err
	}
	tree, err := c.Tree()
	if err != nil {
		return nil, fmt.Errorf("read tree of %s: %w", h, err)
	}

	walker := object.NewTreeWalker(tree, true, nil)
	defer walker.Close()

	for {
		name, entry, err := walker.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("walk tree of %s: %w", h, err)
		}
		if entry.Mode == filemode.Dir {
			continue
		}
		files[name] = Entry{Hash: entry.Hash, Mode: entry.Mode}
	}

	return files, nil
}

func (r *Repository) ReadBlob(h plumbing.Hash) ([]byte, error) {
	blob, err := r.repo.BlobObject(h)
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", h, err)
	}
	rd, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", h, err)
	}
	defer rd.Close()

	return io.ReadAll(rd)
}

// ReadFile returns the content of path as of commit h.
func (r *Repository) ReadFile(h plumbing.Hash, path string) ([]byte, error) {
	files, err := r.Files(h)
	if err != nil {
		return nil, err
	}
	e, ok := files[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, object.ErrFileNotFound)
	}
	return r.ReadBlob(e.Hash)
}
