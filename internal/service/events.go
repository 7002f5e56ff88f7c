package service

import (
	"time"

	"pagure/internal/models"
)

type projectView struct {
	ID       string `json:"id"`
	FullName string `json:"fullname"`
	Owner    string `json:"owner"`
}

type prView struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Author       string      `json:"user"`
	Assignee     *string     `json:"assignee"`
	SourceBranch string      `json:"branch_from"`
	TargetBranch string      `json:"branch"`
	Status       string      `json:"status"`
	ClosedBy     *string     `json:"closed_by"`
	ClosedAt     *time.Time  `json:"closed_at"`
	MergeCommit  *string     `json:"commit_stop,omitempty"`
	Project      projectView `json:"project"`
}

type prEvent struct {
	PullRequest prView `json:"pullrequest"`
	Agent       string `json:"agent"`
}

type closedEvent struct {
	prEvent
	Merged bool `json:"merged"`
}

type commentEvent struct {
	PullRequest prView `json:"pullrequest"`
	Agent       string `json:"agent"`
	Comment     string `json:"comment"`
	Score       int    `json:"score"`
}

type flagEvent struct {
	PullRequest prView `json:"pullrequest"`
	Agent       string `json:"agent"`
	UID         string `json:"uid"`
	Status      string `json:"status"`
	Percent     *int   `json:"percent"`
	URL         string `json:"url"`
}

func viewPR(project *models.Project, pr *models.PullRequest) prView {
	return prView{
		ID:           pr.ID.String(),
		Title:        pr.Title,
		Author:       pr.Author,
		Assignee:     pr.Assignee,
		SourceBranch: pr.SourceBranch,
		TargetBranch: pr.TargetBranch,
		Status:       string(pr.Status),
		ClosedBy:     pr.ClosedBy,
		ClosedAt:     pr.ClosedAt,
		MergeCommit:  pr.MergeCommit,
		Project: projectView{
			ID:       project.ID.String(),
			FullName: project.FullName(),
			Owner:    project.Owner,
		},
	}
}

func newPREvent(project *models.Project, pr *models.PullRequest, actor string) prEvent {
	return prEvent{PullRequest: viewPR(project, pr), Agent: actor}
}

func newAssignedEvent(project *models.Project, pr *models.PullRequest, actor string) prEvent {
	return newPREvent(project, pr, actor)
}

func newClosedEvent(project *models.Project, pr *models.PullRequest, actor string, merged bool) closedEvent {
	return closedEvent{prEvent: newPREvent(project, pr, actor), Merged: merged}
}

func newCommentEvent(project *models.Project, pr *models.PullRequest, c *models.Comment) commentEvent {
	return commentEvent{
		PullRequest: viewPR(project, pr),
		Agent:       c.Author,
		Comment:     c.Text,
		Score:       c.Score,
	}
}

func newFlagEvent(project *models.Project, pr *models.PullRequest, f *models.Flag) flagEvent {
	return flagEvent{
		PullRequest: viewPR(project, pr),
		Agent:       f.Username,
		UID:         f.UID,
		Status:      string(f.Status),
		Percent:     f.Percent,
		URL:         f.URL,
	}
}
