// Package policy decides whether an actor may merge or close a pull request.
// Every check is a pure function of the project, the pull request and the actor.
package policy

import (
	"pagure/internal/models"
)

const (
	ReasonPullRequestsDisabled = "pull requests disabled for project"
	ReasonBlocked              = "blocked"
	ReasonAssigneeOnly         = "only assignee can merge"
	ReasonInsufficientScore    = "insufficient score"
	ReasonNotOpen              = "already closed/merged"
	ReasonNotCommitter         = "not a committer"
	ReasonMirrored             = "mirrored project"
	ReasonNotAllowedToClose    = "not allowed to close"
)

// Verdict is Allowed, or Denied with the first failing reason.
type Verdict struct {
	Allowed bool
	Reason  string
}

func allow() Verdict {
	return Verdict{Allowed: true}
}

func deny(reason string) Verdict {
	return Verdict{Reason: reason}
}

// CheckCanMerge runs the merge checks in order; the first failure wins.
// The pull request checks come first: enabled, not blocked, assignee, score
// and open state. Committer rights and the mirror check extend them and only
// apply to a request that passed all five.
func CheckCanMerge(project *models.Project, pr *models.PullRequest, actor string) Verdict {
	settings := project.Settings

	if !settings.PullRequests {
		return deny(ReasonPullRequestsDisabled)
	}

	if project.IsBlocked(actor) {
		return deny(ReasonBlocked)
	}

	if settings.AssigneeOnlyMerge && (pr.Assignee == nil || *pr.Assignee != actor) {
		return deny(ReasonAssigneeOnly)
	}

	if settings.MinimumScore != nil && pr.Score() < *settings.MinimumScore {
		return deny(ReasonInsufficientScore)
	}

	if !pr.IsOpen() {
		return deny(ReasonNotOpen)
	}

	if !project.IsCommitter(actor) {
		return deny(ReasonNotCommitter)
	}

	if project.IsMirror {
		return deny(ReasonMirrored)
	}

	return allow()
}

// CheckCanClose allows the author or any committer to close an open pull request.
func CheckCanClose(project *models.Project, pr *models.PullRequest, actor string) Verdict {
	if project.IsBlocked(actor) {
		return deny(ReasonBlocked)
	}

	if !pr.IsOpen() {
		return deny(ReasonNotOpen)
	}

	if actor != pr.Author && !project.IsCommitter(actor) {
		return deny(ReasonNotAllowedToClose)
	}

	return allow()
}
