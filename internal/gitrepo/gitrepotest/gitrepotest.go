// Package gitrepotest builds throwaway bare repositories for tests.
package gitrepotest

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"pagure/internal/gitrepo"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

type Repo struct {
	*gitrepo.Repository
	t     testing.TB
	clock time.Time
}

// New creates an empty bare repository in a temporary directory.
func New(t testing.TB) *Repo {
	t.Helper()
	return NewAt(t, filepath.Join(t.TempDir(), "repo.git"))
}

func NewAt(t testing.TB, path string) *Repo {
	t.Helper()
	r, err := gitrepo.Init(path)
	require.NoError(t, err)
	return &Repo{
		Repository: r,
		t:          t,
		clock:      time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Commit records files on top of the tip of branch, creating the branch when needed.
func (r *Repo) Commit(branch string, files map[string]string) plumbing.Hash {
	r.t.Helper()
	return r.change(branch, func(entries map[string]gitrepo.Entry) {
		for p, content := range files {
			h, err := r.WriteBlob([]byte(content))
			require.NoError(r.t, err)
			mode := filemode.Regular
			if e, ok := entries[p]; ok {
				mode = e.Mode
			}
			entries[p] = gitrepo.Entry{Hash: h, Mode: mode}
		}
	})
}

// Remove deletes paths on top of the tip of branch.
func (r *Repo) Remove(branch string, paths ...string) plumbing.Hash {
	r.t.Helper()
	return r.change(branch, func(entries map[string]gitrepo.Entry) {
		for _, p := range paths {
			delete(entries, p)
		}
	})
}

// Chmod changes the mode of an existing path on top of the tip of branch.
func (r *Repo) Chmod(branch, path string, mode filemode.FileMode) plumbing.Hash {
	r.t.Helper()
	return r.change(branch, func(entries map[string]gitrepo.Entry) {
		e, ok := entries[path]
		require.True(r.t, ok, "no such path %s", path)
		e.Mode = mode
		entries[path] = e
	})
}

// Branch points branch at h.
func (r *Repo) Branch(branch string, h plumbing.Hash) {
	r.t.Helper()
	require.NoError(r.t, r.SetRef(plumbing.NewBranchReferenceName(branch), h))
}

func (r *Repo) Tip(branch string) plumbing.Hash {
	r.t.Helper()
	h, err := r.ResolveBranch(branch)
	require.NoError(r.t, err)
	return h
}

// File returns the content of path at commit h.
func (r *Repo) File(h plumbing.Hash, path string) string {
	r.t.Helper()
	data, err := r.ReadFile(h, path)
	require.NoError(r.t, err)
	return string(data)
}

func (r *Repo) change(branch string, edit func(entries map[string]gitrepo.Entry)) plumbing.Hash {
	r.t.Helper()

	var parents []plumbing.Hash
	tip, err := r.ResolveBranch(branch)
	switch {
	case err == nil:
		parents = append(parents, tip)
	case errors.Is(err, gitrepo.ErrUnknownRef):
	default:
		require.NoError(r.t, err)
	}

	entries, err := r.Files(tip)
	require.NoError(r.t, err)

	edit(entries)

	tree, err := r.WriteTree(entries)
	require.NoError(r.t, err)

	r.clock = r.clock.Add(time.Minute)
	sig := object.Signature{Name: "Test User", Email: "test@example.com", When: r.clock}
	h, err := r.WriteCommit(&object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      "change on " + branch,
		TreeHash:     tree,
		ParentHashes: parents,
	})
	require.NoError(r.t, err)

	r.Branch(branch, h)
	return h
}
