package handler

import (
	"pagure/internal/api"
	"pagure/internal/models"
)

func toAPIProject(p *models.Project) api.Project {
	resp := api.Project{
		Id:           p.ID,
		Name:         p.Name,
		Fullname:     p.FullName(),
		Owner:        p.Owner,
		IsPrivate:    p.IsPrivate,
		IsMirror:     p.IsMirror,
		ParentId:     p.ParentID,
		Committers:   orEmpty(p.Committers),
		BlockedUsers: orEmpty(p.BlockedUsers),
		Settings:     toAPISettings(p.Settings),
		CreatedAt:    p.CreatedAt,
	}
	if p.Namespace != "" {
		resp.Namespace = &p.Namespace
	}
	return resp
}

func toAPISettings(s models.ProjectSettings) api.ProjectSettings {
	return api.ProjectSettings{
		PullRequests:          &s.PullRequests,
		AssigneeOnlyMerge:     &s.AssigneeOnlyMerge,
		MinimumScore:          s.MinimumScore,
		AlwaysMerge:           &s.AlwaysMerge,
		DisableNonFastForward: &s.DisableNonFastForward,
	}
}

// fromAPISettings applies the fields present in the request on top of the defaults.
func fromAPISettings(in *api.ProjectSettings) models.ProjectSettings {
	s := models.DefaultProjectSettings()
	if in == nil {
		return s
	}
	if in.PullRequests != nil {
		s.PullRequests = *in.PullRequests
	}
	if in.AssigneeOnlyMerge != nil {
		s.AssigneeOnlyMerge = *in.AssigneeOnlyMerge
	}
	if in.AlwaysMerge != nil {
		s.AlwaysMerge = *in.AlwaysMerge
	}
	if in.DisableNonFastForward != nil {
		s.DisableNonFastForward = *in.DisableNonFastForward
	}
	s.MinimumScore = in.MinimumScore
	return s
}

func toAPIPullRequest(pr *models.PullRequest) api.PullRequest {
	resp := api.PullRequest{
		Id:              pr.ID,
		ProjectId:       pr.ProjectID,
		SourceProjectId: pr.SourceProjectID,
		SourceBranch:    pr.SourceBranch,
		TargetBranch:    pr.TargetBranch,
		Title:           pr.Title,
		Author:          pr.Author,
		Assignee:        pr.Assignee,
		Status:          api.PullRequestStatus(pr.Status),
		ClosedBy:        pr.ClosedBy,
		ClosedAt:        pr.ClosedAt,
		MergeCommit:     pr.MergeCommit,
		Score:           pr.Score(),
		Comments:        make([]api.Comment, 0, len(pr.Comments)),
		CreatedAt:       pr.CreatedAt,
		UpdatedAt:       pr.UpdatedAt,
	}
	if pr.MergeStatus != nil {
		status := api.MergeStatus(*pr.MergeStatus)
		resp.MergeStatus = &status
	}
	for _, c := range pr.Comments {
		resp.Comments = append(resp.Comments, toAPIComment(c))
	}
	return resp
}

func toAPIComment(c *models.Comment) api.Comment {
	return api.Comment{
		Id:        c.ID,
		Author:    c.Author,
		Text:      c.Text,
		Score:     c.Score,
		CreatedAt: c.CreatedAt,
	}
}

func toAPIFlag(f *models.Flag) api.Flag {
	resp := api.Flag{
		Id:        f.ID,
		Uid:       f.UID,
		Username:  f.Username,
		Status:    api.FlagStatus(f.Status),
		Percent:   f.Percent,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
	if f.Comment != "" {
		resp.Comment = &f.Comment
	}
	if f.URL != "" {
		resp.Url = &f.URL
	}
	return resp
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
