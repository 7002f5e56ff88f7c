package gitrepo_test

import (
	"path/filepath"
	"testing"

	"pagure/internal/gitrepo"
	"pagure/internal/gitrepo/gitrepotest"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	t.Run("missing repository", func(t *testing.T) {
		_, err := gitrepo.Open(filepath.Join(t.TempDir(), "nope.git"))
		require.ErrorIs(t, err, gitrepo.ErrNotFound)
	})

	t.Run("existing repository", func(t *testing.T) {
		repo := gitrepotest.New(t)
		repo.Commit("main", map[string]string{"README": "hello\n"})

		opened, err := gitrepo.Open(repo.Path())
		require.NoError(t, err)

		branches, err := opened.Branches()
		require.NoError(t, err)
		require.Equal(t, []string{"main"}, branches)
	})
}

func TestResolveRef(t *testing.T) {
	repo := gitrepotest.New(t)
	tip := repo.Commit("main", map[string]string{"a": "1\n"})

	t.Run("short branch name", func(t *testing.T) {
		h, err := repo.ResolveRef("main")
		require.NoError(t, err)
		require.Equal(t, tip, h)
	})

	t.Run("full ref name", func(t *testing.T) {
		h, err := repo.ResolveRef("refs/heads/main")
		require.NoError(t, err)
		require.Equal(t, tip, h)
	})

	t.Run("commit id", func(t *testing.T) {
		h, err := repo.ResolveRef(tip.String())
		require.NoError(t, err)
		require.Equal(t, tip, h)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := repo.ResolveRef("feature")
		require.ErrorIs(t, err, gitrepo.ErrUnknownRef)

		_, err = repo.ResolveBranch("feature")
		require.ErrorIs(t, err, gitrepo.ErrUnknownRef)
	})
}

func TestValidateBranchName(t *testing.T) {
	for _, name := range []string{"main", "feature/login", "release-1.2"} {
		require.NoError(t, gitrepo.ValidateBranchName(name), name)
	}
	for _, name := range []string{"", "../tags/v1", "a..b", "/main"} {
		require.ErrorIs(t, gitrepo.ValidateBranchName(name), gitrepo.ErrInvalidBranch, name)
	}

	repo := gitrepotest.New(t)
	tip := repo.Commit("main", map[string]string{"a": "1\n"})
	require.NoError(t, repo.SetRef(plumbing.NewTagReferenceName("v1"), tip))

	_, err := repo.ResolveBranch("../tags/v1")
	require.ErrorIs(t, err, gitrepo.ErrInvalidBranch)
}

func TestAncestry(t *testing.T) {
	repo := gitrepotest.New(t)
	base := repo.Commit("main", map[string]string{"a": "1\n"})
	repo.Branch("feature", base)
	f1 := repo.Commit("feature", map[string]string{"b": "1\n"})
	f2 := repo.Commit("feature", map[string]string{"c": "1\n"})
	m1 := repo.Commit("main", map[string]string{"d": "1\n"})

	ok, err := repo.IsAncestor(base, f2)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.IsAncestor(f2, f2)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.IsAncestor(m1, f2)
	require.NoError(t, err)
	require.False(t, ok)

	mb, found, err := repo.MergeBase(f2, m1)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, base, mb)

	n, err := repo.AncestorCount(m1, f2)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	n, err = repo.AncestorCount(f1, f2)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	n, err = repo.AncestorCount(plumbing.ZeroHash, f2)
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestWriteTreeNested(t *testing.T) {
	repo := gitrepotest.New(t)
	tip := repo.Commit("main", map[string]string{
		"docs/guide/intro.md": "intro\n",
		"docs.txt":            "top\n",
		"src/main.go":         "package main\n",
	})

	files, err := repo.Files(tip)
	require.NoError(t, err)
	require.Len(t, files, 3)
	require.Contains(t, files, "docs/guide/intro.md")
	require.Equal(t, "intro\n", repo.File(tip, "docs/guide/intro.md"))
	require.Equal(t, "top\n", repo.File(tip, "docs.txt"))
}

func TestUpdateRef(t *testing.T) {
	repo := gitrepotest.New(t)
	ref := plumbing.NewBranchReferenceName("main")
	first := repo.Commit("main", map[string]string{"a": "1\n"})
	second := repo.Commit("main", map[string]string{"a": "2\n"})

	t.Run("stale expected value", func(t *testing.T) {
		err := repo.UpdateRef(ref, first, first)
		require.ErrorIs(t, err, gitrepo.ErrRefUpdateConflict)
		require.Equal(t, second, repo.Tip("main"))
	})

	t.Run("matching expected value", func(t *testing.T) {
		require.NoError(t, repo.UpdateRef(ref, first, second))
		require.Equal(t, first, repo.Tip("main"))
	})

	t.Run("create only when absent", func(t *testing.T) {
		other := plumbing.NewBranchReferenceName("other")
		require.NoError(t, repo.UpdateRef(other, first, plumbing.ZeroHash))
		err := repo.UpdateRef(other, second, plumbing.ZeroHash)
		require.ErrorIs(t, err, gitrepo.ErrRefUpdateConflict)
	})
}

func TestImport(t *testing.T) {
	upstream := gitrepotest.New(t)
	base := upstream.Commit("main", map[string]string{"a": "1\n"})

	fork := gitrepotest.New(t)
	require.NoError(t, fork.Import(upstream.Repository, base, plumbing.NewBranchReferenceName("main")))
	tip := fork.Commit("main", map[string]string{"b": "fork\n"})

	ref := plumbing.ReferenceName("refs/pull/1/head")
	require.NoError(t, upstream.Import(fork.Repository, tip, ref))

	h, err := upstream.ResolveRef(ref.String())
	require.NoError(t, err)
	require.Equal(t, tip, h)
	require.Equal(t, "fork\n", upstream.File(tip, "b"))

	next := fork.Commit("main", map[string]string{"c": "more\n"})
	require.NoError(t, upstream.Import(fork.Repository, next, ref, base))
	require.NoError(t, upstream.Import(fork.Repository, next, ref))
	require.Equal(t, "more\n", upstream.File(next, "c"))
	require.Equal(t, "fork\n", upstream.File(next, "b"))

	h, err = upstream.ResolveRef(ref.String())
	require.NoError(t, err)
	require.Equal(t, next, h)

	objectsOnly := fork.Commit("main", map[string]string{"d": "loose\n"})
	require.NoError(t, upstream.CopyObjects(fork.Repository, objectsOnly, next))
	require.True(t, upstream.HasObject(objectsOnly))
	h, err = upstream.ResolveRef(ref.String())
	require.NoError(t, err)
	require.Equal(t, next, h)
}
