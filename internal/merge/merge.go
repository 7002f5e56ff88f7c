// Package merge decides how a pull request's source tip lands on its target
// branch and performs that write.
package merge

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"pagure/internal/gitrepo"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
)

type Kind string

const (
	UpToDate    Kind = "NO_CHANGE"
	FastForward Kind = "FFORWARD"
	MergeCommit Kind = "MERGE"
	Conflicting Kind = "CONFLICTS"
)

var ErrMergeConflict = errors.New("merge conflict")

// ConflictError lists the paths both sides changed incompatibly.
type ConflictError struct {
	Paths []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("merge conflict in %s", strings.Join(e.Paths, ", "))
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrMergeConflict
}

type Options struct {
	// AlwaysMerge records a merge commit even when the target could fast-forward.
	AlwaysMerge bool
}

// Outcome is the result of evaluating a source tip against a target tip.
type Outcome struct {
	Kind      Kind
	Source    plumbing.Hash
	Target    plumbing.Hash
	Base      plumbing.Hash
	Conflicts []string

	merged map[string]pendingEntry
}

type pendingEntry struct {
	entry   gitrepo.Entry
	content []byte
	write   bool // content still has to be stored as a blob
}

// Evaluate classifies how source would merge into target. It never writes to the repository.
func Evaluate(repo *gitrepo.Repository, source, target plumbing.Hash, opts Options) (*Outcome, error) {
	out := &Outcome{Source: source, Target: target}

	upToDate, err := repo.IsAncestor(source, target)
	if err != nil {
		return nil, fmt.Errorf("check ancestry: %w", err)
	}
	if upToDate {
		out.Kind = UpToDate
		return out, nil
	}

	ff, err := repo.IsAncestor(target, source)
	if err != nil {
		return nil, fmt.Errorf("check ancestry: %w", err)
	}
	if ff {
		out.Base = target
		if !opts.AlwaysMerge {
			out.Kind = FastForward
			return out, nil
		}
	} else {
		base, ok, err := repo.MergeBase(source, target)
		if err != nil {
			return nil, err
		}
		if ok {
			out.Base = base
		}
	}

	merged, conflicts, err := threeWay(repo, out.Base, target, source)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		out.Kind = Conflicting
		out.Conflicts = conflicts
		return out, nil
	}

	out.Kind = MergeCommit
	out.merged = merged
	return out, nil
}

func threeWay(repo *gitrepo.Repository, base, ours, theirs plumbing.Hash) (map[string]pendingEntry, []string, error) {
	baseFiles, err := repo.Files(base)
	if err != nil {
		return nil, nil, err
	}
	ourFiles, err := repo.Files(ours)
	if err != nil {
		return nil, nil, err
	}
	theirFiles, err := repo.Files(theirs)
	if err != nil {
		return nil, nil, err
	}

	paths := make(map[string]struct{}, len(baseFiles)+len(ourFiles)+len(theirFiles))
	for _, files := range []map[string]gitrepo.Entry{baseFiles, ourFiles, theirFiles} {
		for p := range files {
			paths[p] = struct{}{}
		}
	}

	merged := make(map[string]pendingEntry)
	var conflicts []string

	for p := range paths {
		b, inBase := baseFiles[p]
		o, inOurs := ourFiles[p]
		t, inTheirs := theirFiles[p]

		switch {
		case inOurs == inTheirs && o == t:
			if inOurs {
				merged[p] = pendingEntry{entry: o}
			}
		case inBase == inOurs && b == o:
			if inTheirs {
				merged[p] = pendingEntry{entry: t}
			}
		case inBase == inTheirs && b == t:
			if inOurs {
				merged[p] = pendingEntry{entry: o}
			}
		case !inBase || !inOurs || !inTheirs:
			// add/add or modify/delete
			conflicts = append(conflicts, p)
		default:
			mode, ok := mergeMode(b.Mode, o.Mode, t.Mode)
			if !ok {
				conflicts = append(conflicts, p)
				continue
			}

			switch {
			case o.Hash == t.Hash || b.Hash == t.Hash:
				merged[p] = pendingEntry{entry: gitrepo.Entry{Hash: o.Hash, Mode: mode}}
				continue
			case b.Hash == o.Hash:
				merged[p] = pendingEntry{entry: gitrepo.Entry{Hash: t.Hash, Mode: mode}}
				continue
			}

			content, ok, err := mergeBlobs(repo, b.Hash, o.Hash, t.Hash)
			if err != nil {
				return nil, nil, fmt.Errorf("merge %s: %w", p, err)
			}
			if !ok {
				conflicts = append(conflicts, p)
				continue
			}
			merged[p] = pendingEntry{entry: gitrepo.Entry{Mode: mode}, content: content, write: true}
		}
	}

	conflicts = append(conflicts, directoryConflicts(merged)...)
	sort.Strings(conflicts)

	return merged, conflicts, nil
}

// mergeMode keeps the mode of the side that changed it; both sides changing it
// differently is a conflict.
func mergeMode(base, ours, theirs filemode.FileMode) (filemode.FileMode, bool) {
	switch {
	case ours == theirs, base == theirs:
		return ours, true
	case base == ours:
		return theirs, true
	}
	return 0, false
}

func mergeBlobs(repo *gitrepo.Repository, base, ours, theirs plumbing.Hash) ([]byte, bool, error) {
	b, err := repo.ReadBlob(base)
	if err != nil {
		return nil, false, err
	}
	o, err := repo.ReadBlob(ours)
	if err != nil {
		return nil, false, err
	}
	t, err := repo.ReadBlob(theirs)
	if err != nil {
		return nil, false, err
	}

	content, ok := mergeText(b, o, t)
	return content, ok, nil
}

// directoryConflicts finds merged files whose path is also used as a directory.
func directoryConflicts(merged map[string]pendingEntry) []string {
	var out []string
	for p := range merged {
		for i := 0; i < len(p); i++ {
			if p[i] != '/' {
				continue
			}
			if _, ok := merged[p[:i]]; ok {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// CommitInfo describes the merge commit and the branch receiving it.
type CommitInfo struct {
	Branch    string
	Message   string
	Committer object.Signature
}

// Apply writes the outcome to info.Branch and returns the new tip.
// The branch only moves if it still points at out.Target; otherwise nothing
// becomes visible and gitrepo.ErrRefUpdateConflict is returned.
func Apply(repo *gitrepo.Repository, out *Outcome, info CommitInfo) (plumbing.Hash, error) {
	if err := gitrepo.ValidateBranchName(info.Branch); err != nil {
		return plumbing.ZeroHash, err
	}
	ref := plumbing.NewBranchReferenceName(info.Branch)

	switch out.Kind {
	case UpToDate:
		return out.Target, nil
	case FastForward:
		if err := repo.UpdateRef(ref, out.Source, out.Target); err != nil {
			return plumbing.ZeroHash, err
		}
		return out.Source, nil
	case Conflicting:
		return plumbing.ZeroHash, &ConflictError{Paths: out.Conflicts}
	case MergeCommit:
	default:
		return plumbing.ZeroHash, fmt.Errorf("unknown merge outcome %q", out.Kind)
	}

	files := make(map[string]gitrepo.Entry, len(out.merged))
	for p, pe := range out.merged {
		e := pe.entry
		if pe.write {
			h, err := repo.WriteBlob(pe.content)
			if err != nil {
				return plumbing.ZeroHash, err
			}
			e.Hash = h
		}
		files[p] = e
	}

	tree, err := repo.WriteTree(files)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	commit, err := repo.WriteCommit(&object.Commit{
		Author:       info.Committer,
		Committer:    info.Committer,
		Message:      info.Message,
		TreeHash:     tree,
		ParentHashes: []plumbing.Hash{out.Target, out.Source},
	})
	if err != nil {
		return plumbing.ZeroHash, err
	}

	if err := repo.UpdateRef(ref, commit, out.Target); err != nil {
		return plumbing.ZeroHash, err
	}

	return commit, nil
}
