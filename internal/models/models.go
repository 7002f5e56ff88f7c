package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID           uuid.UUID
	Namespace    string
	Name         string
	Owner        string
	IsPrivate    bool
	IsMirror     bool
	ParentID     *uuid.UUID
	Committers   []string
	BlockedUsers []string
	Settings     ProjectSettings
	CreatedAt    time.Time
}

// FullName returns namespace/name, or just name for projects without a namespace.
func (p *Project) FullName() string {
	if p.Namespace == "" {
		return p.Name
	}
	return p.Namespace + "/" + p.Name
}

// RelativePath is the location of the project's bare repository below the repositories root.
func (p *Project) RelativePath() string {
	if p.ParentID != nil {
		return path.Join("forks", p.Owner, p.FullName()+".git")
	}
	return p.FullName() + ".git"
}

// IsCommitter reports whether user may push to or merge into the project.
func (p *Project) IsCommitter(user string) bool {
	if user == "" {
		return false
	}
	if user == p.Owner {
		return true
	}
	for _, c := range p.Committers {
		if c == user {
			return true
		}
	}
	return false
}

func (p *Project) IsBlocked(user string) bool {
	for _, b := range p.BlockedUsers {
		if b == user {
			return true
		}
	}
	return false
}

// CanView applies private-project visibility.
func (p *Project) CanView(user string) bool {
	return !p.IsPrivate || p.IsCommitter(user)
}

// ProjectSettings are the per-project switches consulted by the merge path.
type ProjectSettings struct {
	PullRequests          bool `json:"pull_requests"`
	AssigneeOnlyMerge     bool `json:"assignee_only_merge"`
	MinimumScore          *int `json:"minimum_score,omitempty"`
	AlwaysMerge           bool `json:"always_merge"`
	DisableNonFastForward bool `json:"disable_non_fast_forward"`
}

var ErrInvalidSettings = errors.New("invalid project settings")

func DefaultProjectSettings() ProjectSettings {
	return ProjectSettings{PullRequests: true}
}

func (s ProjectSettings) Validate() error {
	if s.MinimumScore != nil && *s.MinimumScore < 0 {
		return fmt.Errorf("%w: minimum_score must not be negative", ErrInvalidSettings)
	}
	if s.AlwaysMerge && s.DisableNonFastForward {
		return fmt.Errorf("%w: always_merge conflicts with disable_non_fast_forward", ErrInvalidSettings)
	}
	return nil
}

// ParseProjectSettings decodes persisted settings on top of the defaults.
// Keys missing from raw keep their default value.
func ParseProjectSettings(raw []byte) (ProjectSettings, error) {
	s := DefaultProjectSettings()
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return ProjectSettings{}, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return s, s.Validate()
}

type PRStatus string

const (
	PRStatusOpen   PRStatus = "Open"
	PRStatusMerged PRStatus = "Merged"
	PRStatusClosed PRStatus = "Closed"
)

// MergeStatus is the advisory cache of the last evaluation of a pull request.
type MergeStatus string

const (
	MergeStatusNoChange    MergeStatus = "NO_CHANGE"
	MergeStatusFastForward MergeStatus = "FFORWARD"
	MergeStatusConflicts   MergeStatus = "CONFLICTS"
	MergeStatusMerge       MergeStatus = "MERGE"
)

type PullRequest struct {
	ID              uuid.UUID
	ProjectID       uuid.UUID
	SourceProjectID *uuid.UUID
	SourceBranch    string
	TargetBranch    string
	Title           string
	Author          string
	Assignee        *string
	Status          PRStatus
	MergeStatus     *MergeStatus
	// Tips the cached MergeStatus was computed for.
	MergeStatusSource string
	MergeStatusTarget string
	ClosedBy          *string
	ClosedAt          *time.Time
	MergeCommit       *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Comments          []*Comment
}

func (pr *PullRequest) IsOpen() bool {
	return pr.Status == PRStatusOpen
}

// IsFromFork reports whether the source branch lives in another repository.
func (pr *PullRequest) IsFromFork() bool {
	return pr.SourceProjectID != nil && *pr.SourceProjectID != pr.ProjectID
}

// CachedMergeStatus returns the cached status if it was computed for the given tips.
func (pr *PullRequest) CachedMergeStatus(sourceTip, targetTip string) (MergeStatus, bool) {
	if pr.MergeStatus == nil {
		return "", false
	}
	if pr.MergeStatusSource != sourceTip || pr.MergeStatusTarget != targetTip {
		return "", false
	}
	return *pr.MergeStatus, true
}

// Score sums each author's latest non-zero vote.
func (pr *PullRequest) Score() int {
	votes := make(map[string]int)
	for _, c := range pr.Comments {
		if c.Score != 0 {
			votes[c.Author] = c.Score
		}
	}
	total := 0
	for _, v := range votes {
		total += v
	}
	return total
}

type Comment struct {
	ID        uuid.UUID
	PRID      uuid.UUID
	Author    string
	Text      string
	Score     int
	CreatedAt time.Time
}

type FlagStatus string

const (
	FlagStatusSuccess  FlagStatus = "success"
	FlagStatusFailure  FlagStatus = "failure"
	FlagStatusError    FlagStatus = "error"
	FlagStatusPending  FlagStatus = "pending"
	FlagStatusCanceled FlagStatus = "canceled"
)

func (s FlagStatus) Valid() bool {
	switch s {
	case FlagStatusSuccess, FlagStatusFailure, FlagStatusError, FlagStatusPending, FlagStatusCanceled:
		return true
	}
	return false
}

type Flag struct {
	ID        uuid.UUID
	PRID      uuid.UUID
	UID       string
	Username  string
	Status    FlagStatus
	Percent   *int
	Comment   string
	URL       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// VoteFromText derives a review vote from a comment body.
func VoteFromText(text string) int {
	up := strings.Contains(text, "+1") || strings.Contains(text, ":thumbsup:")
	down := strings.Contains(text, "-1") || strings.Contains(text, ":thumbsdown:")
	switch {
	case up && !down:
		return 1
	case down && !up:
		return -1
	}
	return 0
}
