package merge_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"pagure/internal/gitrepo"
	"pagure/internal/gitrepo/gitrepotest"
	"pagure/internal/merge"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

func commitInfo(branch string) merge.CommitInfo {
	return merge.CommitInfo{
		Branch:  branch,
		Message: "Merge #1 `feature`",
		Committer: object.Signature{
			Name:  "pagure",
			Email: "pagure@example.com",
			When:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

// fork creates main with one commit and a feature branch started from it.
func fork(t *testing.T, files map[string]string) *gitrepotest.Repo {
	t.Helper()
	repo := gitrepotest.New(t)
	base := repo.Commit("main", files)
	repo.Branch("feature", base)
	return repo
}

func TestEvaluate_FastForward(t *testing.T) {
	repo := fork(t, map[string]string{"a.txt": "a\n"})
	repo.Commit("feature", map[string]string{"b.txt": "b\n"})
	source := repo.Commit("feature", map[string]string{"c.txt": "c\n"})
	target := repo.Tip("main")

	out, err := merge.Evaluate(repo.Repository, source, target, merge.Options{})
	require.NoError(t, err)
	require.Equal(t, merge.FastForward, out.Kind)

	tip, err := merge.Apply(repo.Repository, out, commitInfo("main"))
	require.NoError(t, err)
	require.Equal(t, source, tip)
	require.Equal(t, source, repo.Tip("main"))
}

func TestEvaluate_AlwaysMerge(t *testing.T) {
	repo := fork(t, map[string]string{"a.txt": "a\n"})
	source := repo.Commit("feature", map[string]string{"b.txt": "b\n"})
	target := repo.Tip("main")

	out, err := merge.Evaluate(repo.Repository, source, target, merge.Options{AlwaysMerge: true})
	require.NoError(t, err)
	require.Equal(t, merge.MergeCommit, out.Kind)

	tip, err := merge.Apply(repo.Repository, out, commitInfo("main"))
	require.NoError(t, err)

	c, err := repo.Repository.Commit(tip)
	require.NoError(t, err)
	require.Equal(t, []plumbing.Hash{target, source}, c.ParentHashes)
	require.Equal(t, "b\n", repo.File(tip, "b.txt"))
}

func TestEvaluate_UpToDate(t *testing.T) {
	t.Run("source behind target", func(t *testing.T) {
		repo := fork(t, map[string]string{"a.txt": "a\n"})
		source := repo.Tip("feature")
		target := repo.Commit("main", map[string]string{"b.txt": "b\n"})

		out, err := merge.Evaluate(repo.Repository, source, target, merge.Options{})
		require.NoError(t, err)
		require.Equal(t, merge.UpToDate, out.Kind)

		tip, err := merge.Apply(repo.Repository, out, commitInfo("main"))
		require.NoError(t, err)
		require.Equal(t, target, tip)
		require.Equal(t, target, repo.Tip("main"))
	})

	t.Run("same tip", func(t *testing.T) {
		repo := fork(t, map[string]string{"a.txt": "a\n"})
		tip := repo.Tip("main")

		out, err := merge.Evaluate(repo.Repository, tip, tip, merge.Options{AlwaysMerge: true})
		require.NoError(t, err)
		require.Equal(t, merge.UpToDate, out.Kind)
	})
}

func TestEvaluate_MergeCommit(t *testing.T) {
	t.Run("disjoint paths", func(t *testing.T) {
		repo := fork(t, map[string]string{"a.txt": "a\n", "dir/keep.txt": "keep\n"})
		source := repo.Commit("feature", map[string]string{"dir/feature.txt": "feature\n"})
		target := repo.Commit("main", map[string]string{"main.txt": "main\n"})

		out, err := merge.Evaluate(repo.Repository, source, target, merge.Options{})
		require.NoError(t, err)
		require.Equal(t, merge.MergeCommit, out.Kind)
		require.Empty(t, out.Conflicts)

		tip, err := merge.Apply(repo.Repository, out, commitInfo("main"))
		require.NoError(t, err)
		require.Equal(t, tip, repo.Tip("main"))

		c, err := repo.Repository.Commit(tip)
		require.NoError(t, err)
		require.Len(t, c.ParentHashes, 2)
		require.ElementsMatch(t, []plumbing.Hash{source, target}, c.ParentHashes)
		require.Equal(t, "Merge #1 `feature`", c.Message)

		files, err := repo.Files(tip)
		require.NoError(t, err)
		require.Len(t, files, 4)
		require.Equal(t, "feature\n", repo.File(tip, "dir/feature.txt"))
		require.Equal(t, "main\n", repo.File(tip, "main.txt"))
	})

	t.Run("same file different lines", func(t *testing.T) {
		repo := fork(t, map[string]string{"f.txt": "1\n2\n3\n4\n5\n6\n7\n"})
		source := repo.Commit("feature", map[string]string{"f.txt": "1\n2\n3\n4\n5\n6\nseven\n"})
		target := repo.Commit("main", map[string]string{"f.txt": "one\n2\n3\n4\n5\n6\n7\n"})

		out, err := merge.Evaluate(repo.Repository, source, target, merge.Options{})
		require.NoError(t, err)
		require.Equal(t, merge.MergeCommit, out.Kind)

		tip, err := merge.Apply(repo.Repository, out, commitInfo("main"))
		require.NoError(t, err)
		require.Equal(t, "one\n2\n3\n4\n5\n6\nseven\n", repo.File(tip, "f.txt"))
	})

	t.Run("deletion on one side", func(t *testing.T) {
		repo := fork(t, map[string]string{"a.txt": "a\n", "b.txt": "b\n"})
		source := repo.Remove("feature", "b.txt")
		target := repo.Commit("main", map[string]string{"c.txt": "c\n"})

		out, err := merge.Evaluate(repo.Repository, source, target, merge.Options{})
		require.NoError(t, err)
		require.Equal(t, merge.MergeCommit, out.Kind)

		tip, err := merge.Apply(repo.Repository, out, commitInfo("main"))
		require.NoError(t, err)
		files, err := repo.Files(tip)
		require.NoError(t, err)
		require.NotContains(t, files, "b.txt")
		require.Contains(t, files, "c.txt")
	})
}

func TestEvaluate_Conflicting(t *testing.T) {
	repo := fork(t, map[string]string{"f.txt": "1\n2\n3\n", "other.txt": "x\n"})
	source := repo.Commit("feature", map[string]string{"f.txt": "1\nfeature\n3\n"})
	target := repo.Commit("main", map[string]string{"f.txt": "1\nmain\n3\n"})

	out, err := merge.Evaluate(repo.Repository, source, target, merge.Options{})
	require.NoError(t, err)
	require.Equal(t, merge.Conflicting, out.Kind)
	require.Equal(t, []string{"f.txt"}, out.Conflicts)

	again, err := merge.Evaluate(repo.Repository, source, target, merge.Options{})
	require.NoError(t, err)
	require.Equal(t, out.Kind, again.Kind)
	require.Equal(t, out.Conflicts, again.Conflicts)

	_, err = merge.Apply(repo.Repository, out, commitInfo("main"))
	require.ErrorIs(t, err, merge.ErrMergeConflict)

	var conflict *merge.ConflictError
	require.True(t, errors.As(err, &conflict))
	require.Equal(t, []string{"f.txt"}, conflict.Paths)
	require.Equal(t, target, repo.Tip("main"))
}

func TestEvaluate_ModifyDelete(t *testing.T) {
	repo := fork(t, map[string]string{"f.txt": "1\n"})
	source := repo.Remove("feature", "f.txt")
	target := repo.Commit("main", map[string]string{"f.txt": "2\n"})

	out, err := merge.Evaluate(repo.Repository, source, target, merge.Options{})
	require.NoError(t, err)
	require.Equal(t, merge.Conflicting, out.Kind)
	require.Equal(t, []string{"f.txt"}, out.Conflicts)
}

func TestEvaluate_ModeChange(t *testing.T) {
	t.Run("mode on one side, content on the other", func(t *testing.T) {
		repo := fork(t, map[string]string{"run.sh": "echo 1\n"})
		source := repo.Chmod("feature", "run.sh", filemode.Executable)
		target := repo.Commit("main", map[string]string{"run.sh": "echo 2\n"})

		out, err := merge.Evaluate(repo.Repository, source, target, merge.Options{})
		require.NoError(t, err)
		require.Equal(t, merge.MergeCommit, out.Kind)
		require.Empty(t, out.Conflicts)

		tip, err := merge.Apply(repo.Repository, out, commitInfo("main"))
		require.NoError(t, err)

		files, err := repo.Files(tip)
		require.NoError(t, err)
		require.Equal(t, filemode.Executable, files["run.sh"].Mode)
		require.Equal(t, "echo 2\n", repo.File(tip, "run.sh"))
	})

	t.Run("mode changed differently on both sides", func(t *testing.T) {
		repo := fork(t, map[string]string{"run.sh": "echo 1\n"})
		source := repo.Chmod("feature", "run.sh", filemode.Executable)
		target := repo.Chmod("main", "run.sh", filemode.Symlink)

		out, err := merge.Evaluate(repo.Repository, source, target, merge.Options{})
		require.NoError(t, err)
		require.Equal(t, merge.Conflicting, out.Kind)
		require.Equal(t, []string{"run.sh"}, out.Conflicts)
	})
}

func TestApply_InvalidBranch(t *testing.T) {
	repo := fork(t, map[string]string{"a.txt": "a\n"})
	base := repo.Tip("main")
	require.NoError(t, repo.SetRef(plumbing.NewTagReferenceName("v1"), base))
	source := repo.Commit("feature", map[string]string{"b.txt": "b\n"})

	out, err := merge.Evaluate(repo.Repository, source, base, merge.Options{})
	require.NoError(t, err)
	require.Equal(t, merge.FastForward, out.Kind)

	_, err = merge.Apply(repo.Repository, out, commitInfo("../tags/v1"))
	require.ErrorIs(t, err, gitrepo.ErrInvalidBranch)

	tag, err := repo.ResolveRef("refs/tags/v1")
	require.NoError(t, err)
	require.Equal(t, base, tag)
}

func TestApply_RefUpdateConflict(t *testing.T) {
	repo := fork(t, map[string]string{"a.txt": "a\n"})
	source := repo.Commit("feature", map[string]string{"b.txt": "b\n"})
	target := repo.Tip("main")

	out, err := merge.Evaluate(repo.Repository, source, target, merge.Options{})
	require.NoError(t, err)
	require.Equal(t, merge.FastForward, out.Kind)

	moved := repo.Commit("main", map[string]string{"c.txt": "c\n"})

	_, err = merge.Apply(repo.Repository, out, commitInfo("main"))
	require.ErrorIs(t, err, gitrepo.ErrRefUpdateConflict)
	require.Equal(t, moved, repo.Tip("main"))
}

func TestApply_ConcurrentFastForward(t *testing.T) {
	repo := fork(t, map[string]string{"a.txt": "a\n"})
	target := repo.Tip("main")
	first := repo.Commit("feature", map[string]string{"b.txt": "b\n"})
	repo.Branch("other", target)
	second := repo.Commit("other", map[string]string{"c.txt": "c\n"})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
		lost    int
	)
	for _, source := range []plumbing.Hash{first, second} {
		out, err := merge.Evaluate(repo.Repository, source, target, merge.Options{})
		require.NoError(t, err)

		wg.Add(1)
		go func(out *merge.Outcome) {
			defer wg.Done()
			handle, err := gitrepo.Open(repo.Path())
			if err == nil {
				_, err = merge.Apply(handle, out, commitInfo("main"))
			}
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				success++
			} else if errors.Is(err, gitrepo.ErrRefUpdateConflict) {
				lost++
			}
		}(out)
	}
	wg.Wait()

	require.Equal(t, 1, success)
	require.Equal(t, 1, lost)
}
