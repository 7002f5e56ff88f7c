package policy_test

import (
	"testing"

	"pagure/internal/models"
	"pagure/internal/policy"

	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func newProject() *models.Project {
	return &models.Project{
		Name:       "pagure",
		Owner:      "pingou",
		Committers: []string{"alice", "bob"},
		Settings:   models.DefaultProjectSettings(),
	}
}

func votes(scores ...int) []*models.Comment {
	out := make([]*models.Comment, len(scores))
	for i, s := range scores {
		out[i] = &models.Comment{Author: string(rune('a' + i)), Score: s}
	}
	return out
}

func TestCheckCanMerge(t *testing.T) {
	tests := []struct {
		name    string
		project func(p *models.Project)
		pr      func(pr *models.PullRequest)
		actor   string
		reason  string
		allowed bool
	}{
		{
			name:    "open pr by committer",
			actor:   "alice",
			allowed: true,
		},
		{
			name: "pull requests disabled",
			project: func(p *models.Project) {
				p.Settings.PullRequests = false
				p.BlockedUsers = []string{"alice"}
			},
			actor:  "alice",
			reason: policy.ReasonPullRequestsDisabled,
		},
		{
			name:    "blocked actor",
			project: func(p *models.Project) { p.BlockedUsers = []string{"alice"} },
			actor:   "alice",
			reason:  policy.ReasonBlocked,
		},
		{
			name:    "assignee only without assignee",
			project: func(p *models.Project) { p.Settings.AssigneeOnlyMerge = true },
			actor:   "alice",
			reason:  policy.ReasonAssigneeOnly,
		},
		{
			name:    "assignee only with other assignee",
			project: func(p *models.Project) { p.Settings.AssigneeOnlyMerge = true },
			pr:      func(pr *models.PullRequest) { pr.Assignee = strPtr("bob") },
			actor:   "alice",
			reason:  policy.ReasonAssigneeOnly,
		},
		{
			name:    "assignee only by assignee",
			project: func(p *models.Project) { p.Settings.AssigneeOnlyMerge = true },
			pr:      func(pr *models.PullRequest) { pr.Assignee = strPtr("alice") },
			actor:   "alice",
			allowed: true,
		},
		{
			name:    "negative score without minimum",
			pr:      func(pr *models.PullRequest) { pr.Comments = votes(-1) },
			actor:   "alice",
			allowed: true,
		},
		{
			name:    "negative score with minimum two",
			project: func(p *models.Project) { p.Settings.MinimumScore = intPtr(2) },
			pr:      func(pr *models.PullRequest) { pr.Comments = votes(-1) },
			actor:   "alice",
			reason:  policy.ReasonInsufficientScore,
		},
		{
			name:    "score reaches minimum",
			project: func(p *models.Project) { p.Settings.MinimumScore = intPtr(2) },
			pr:      func(pr *models.PullRequest) { pr.Comments = votes(1, 1, 0) },
			actor:   "alice",
			allowed: true,
		},
		{
			name: "score check precedes status check",
			project: func(p *models.Project) {
				p.Settings.MinimumScore = intPtr(1)
			},
			pr:     func(pr *models.PullRequest) { pr.Status = models.PRStatusMerged },
			actor:  "alice",
			reason: policy.ReasonInsufficientScore,
		},
		{
			name:   "merged pr",
			pr:     func(pr *models.PullRequest) { pr.Status = models.PRStatusMerged },
			actor:  "alice",
			reason: policy.ReasonNotOpen,
		},
		{
			name:   "closed pr",
			pr:     func(pr *models.PullRequest) { pr.Status = models.PRStatusClosed },
			actor:  "alice",
			reason: policy.ReasonNotOpen,
		},
		{
			name:   "not a committer",
			actor:  "mallory",
			reason: policy.ReasonNotCommitter,
		},
		{
			name:   "status check precedes committer check",
			pr:     func(pr *models.PullRequest) { pr.Status = models.PRStatusClosed },
			actor:  "mallory",
			reason: policy.ReasonNotOpen,
		},
		{
			name:    "mirrored project",
			project: func(p *models.Project) { p.IsMirror = true },
			actor:   "pingou",
			reason:  policy.ReasonMirrored,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project := newProject()
			if tt.project != nil {
				tt.project(project)
			}
			pr := &models.PullRequest{Author: "carol", Status: models.PRStatusOpen}
			if tt.pr != nil {
				tt.pr(pr)
			}

			verdict := policy.CheckCanMerge(project, pr, tt.actor)
			require.Equal(t, tt.allowed, verdict.Allowed)
			require.Equal(t, tt.reason, verdict.Reason)

			// same inputs, same verdict
			require.Equal(t, verdict, policy.CheckCanMerge(project, pr, tt.actor))
		})
	}
}

func TestCheckCanMerge_ScoreCountsLatestVotePerAuthor(t *testing.T) {
	project := newProject()
	project.Settings.MinimumScore = intPtr(1)
	pr := &models.PullRequest{
		Status: models.PRStatusOpen,
		Comments: []*models.Comment{
			{Author: "dave", Score: 1},
			{Author: "dave", Score: 1},
			{Author: "erin", Score: 1},
			{Author: "erin", Score: -1},
		},
	}

	require.Equal(t, 0, pr.Score())
	require.Equal(t, policy.ReasonInsufficientScore, policy.CheckCanMerge(project, pr, "alice").Reason)
}

func TestCheckCanClose(t *testing.T) {
	project := newProject()
	project.BlockedUsers = []string{"troll"}
	open := &models.PullRequest{Author: "carol", Status: models.PRStatusOpen}
	closed := &models.PullRequest{Author: "carol", Status: models.PRStatusClosed}

	require.True(t, policy.CheckCanClose(project, open, "carol").Allowed)
	require.True(t, policy.CheckCanClose(project, open, "bob").Allowed)
	require.Equal(t, policy.ReasonNotAllowedToClose, policy.CheckCanClose(project, open, "mallory").Reason)
	require.Equal(t, policy.ReasonBlocked, policy.CheckCanClose(project, open, "troll").Reason)
	require.Equal(t, policy.ReasonNotOpen, policy.CheckCanClose(project, closed, "carol").Reason)
}
