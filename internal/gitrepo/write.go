package gitrepo

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/revlist"
	"github.com/go-git/go-git/v5/storage"
)

func (r *Repository) WriteBlob(data []byte) (plumbing.Hash, error) {
	obj := r.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)

	w, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("write blob: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return plumbing.ZeroHash, fmt.Errorf("write blob: %w", err)
	}
	if err := w.Close(); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("write blob: %w", err)
	}

	return r.store(obj)
}

// WriteTree stores the nested trees described by a flat path -> entry map and returns the root tree.
func (r *Repository) WriteTree(files map[string]Entry) (plumbing.Hash, error) {
	return r.writeDir(files, "")
}

func (r *Repository) writeDir(files map[string]Entry, prefix string) (plumbing.Hash, error) {
	var entries []object.TreeEntry
	subdirs := make(map[string]bool)

	for p, e := range files {
		rel := p
		if prefix != "" {
			if !strings.HasPrefix(p, prefix+"/") {
				continue
			}
			rel = p[len(prefix)+1:]
		}

		if i := strings.IndexByte(rel, '/'); i >= 0 {
			subdirs[rel[:i]] = true
			continue
		}
		entries = append(entries, object.TreeEntry{Name: rel, Mode: e.Mode, Hash: e.Hash})
	}

	for name := range subdirs {
		child := name
		if prefix != "" {
			child = prefix + "/" + name
		}
		h, err := r.writeDir(files, child)
		if err != nil {
			return plumbing.ZeroHash, err
		}
		entries = append(entries, object.TreeEntry{Name: name, Mode: filemode.Dir, Hash: h})
	}

	// git orders directories as if their name ended with a slash
	sort.Slice(entries, func(i, j int) bool {
		return sortKey(entries[i]) < sortKey(entries[j])
	})

	tree := &object.Tree{Entries: entries}
	obj := r.repo.Storer.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("encode tree: %w", err)
	}

	return r.store(obj)
}

func sortKey(e object.TreeEntry) string {
	if e.Mode == filemode.Dir {
		return e.Name + "/"
	}
	return e.Name
}

func (r *Repository) WriteCommit(c *object.Commit) (plumbing.Hash, error) {
	obj := r.repo.Storer.NewEncodedObject()
	if err := c.Encode(obj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("encode commit: %w", err)
	}
	return r.store(obj)
}

func (r *Repository) store(obj plumbing.EncodedObject) (plumbing.Hash, error) {
	h, err := r.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("store %s object: %w", obj.Type(), err)
	}
	return h, nil
}

// UpdateRef moves name to newHash iff it currently points at oldHash.
// A zero oldHash requires that the ref does not exist yet.
func (r *Repository) UpdateRef(name plumbing.ReferenceName, newHash, oldHash plumbing.Hash) error {
	newRef := plumbing.NewHashReference(name, newHash)

	if oldHash.IsZero() {
		_, err := r.repo.Storer.Reference(name)
		if err == nil {
			return fmt.Errorf("%w: %s already exists", ErrRefUpdateConflict, name)
		}
		if !errors.Is(err, plumbing.ErrReferenceNotFound) {
			return fmt.Errorf("read ref %s: %w", name, err)
		}
		return r.SetRef(name, newHash)
	}

	oldRef := plumbing.NewHashReference(name, oldHash)
	if err := r.repo.Storer.CheckAndSetReference(newRef, oldRef); err != nil {
		if errors.Is(err, storage.ErrReferenceHasChanged) {
			return fmt.Errorf("%w: %s", ErrRefUpdateConflict, name)
		}
		return fmt.Errorf("update ref %s: %w", name, err)
	}

	return nil
}

// SetRef points name at h unconditionally.
func (r *Repository) SetRef(name plumbing.ReferenceName, h plumbing.Hash) error {
	if err := r.repo.Storer.SetReference(plumbing.NewHashReference(name, h)); err != nil {
		return fmt.Errorf("set ref %s: %w", name, err)
	}
	return nil
}

// CopyObjects copies the objects reachable from tip in src into r. History
// reachable from have (hashes that r already holds) is not walked again.
// No ref is touched.
func (r *Repository) CopyObjects(src *Repository, tip plumbing.Hash, have ...plumbing.Hash) error {
	hashes, err := revlist.ObjectsWithStorageForIgnores(src.repo.Storer, r.repo.Storer, []plumbing.Hash{tip}, have)
	if err != nil {
		return fmt.Errorf("list objects of %s: %w", tip, err)
	}

	for _, h := range hashes {
		if r.HasObject(h) {
			continue
		}
		obj, err := src.repo.Storer.EncodedObject(plumbing.AnyObject, h)
		if err != nil {
			return fmt.Errorf("read object %s: %w", h, err)
		}
		if _, err := r.repo.Storer.SetEncodedObject(obj); err != nil {
			return fmt.Errorf("copy object %s: %w", h, err)
		}
	}
	return nil
}

// Import copies tip from src and points ref at it. It is a no-op when ref
// already points at tip.
func (r *Repository) Import(src *Repository, tip plumbing.Hash, ref plumbing.ReferenceName, have ...plumbing.Hash) error {
	cur, err := r.repo.Reference(ref, false)
	switch {
	case err == nil && cur.Hash() == tip:
		return nil
	case err == nil:
		have = append(have, cur.Hash())
	case !errors.Is(err, plumbing.ErrReferenceNotFound):
		return fmt.Errorf("read ref %s: %w", ref, err)
	}

	if err := r.CopyObjects(src, tip, have...); err != nil {
		return err
	}
	return r.SetRef(ref, tip)
}
