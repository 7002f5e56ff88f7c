package handler

import (
	"net/http"

	"pagure/internal/api"
	"pagure/internal/models"
	"pagure/internal/service"

	"github.com/labstack/echo/v4"
)

func (h *Handler) CreatePullRequest(c echo.Context) error {
	user := actor(c)
	if user == "" {
		return unauthenticated(c)
	}

	body := api.CreatePullRequestJSONRequestBody{}
	if err := c.Bind(&body); err != nil {
		return badRequest(c)
	}

	pr, err := h.prService.CreatePR(c.Request().Context(), user, service.CreatePRInput{
		ProjectID:       body.ProjectId,
		SourceProjectID: body.SourceProjectId,
		SourceBranch:    body.SourceBranch,
		TargetBranch:    body.TargetBranch,
		Title:           body.Title,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusCreated, toAPIPullRequest(pr))
}

func (h *Handler) ListPullRequests(c echo.Context, projectId api.ProjectId, params api.ListPullRequestsParams) error {
	var status *models.PRStatus
	if params.Status != nil {
		s := models.PRStatus(*params.Status)
		switch s {
		case models.PRStatusOpen, models.PRStatusMerged, models.PRStatusClosed:
		default:
			return badRequest(c)
		}
		status = &s
	}

	prs, err := h.prService.ListPRs(c.Request().Context(), projectId, status, actor(c))
	if err != nil {
		return h.fail(c, err)
	}

	resp := make([]api.PullRequest, 0, len(prs))
	for _, pr := range prs {
		resp = append(resp, toAPIPullRequest(pr))
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetPullRequest(c echo.Context, prId api.PrId) error {
	pr, err := h.prService.GetPR(c.Request().Context(), prId, actor(c))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, toAPIPullRequest(pr))
}

func (h *Handler) GetMergeStatus(c echo.Context, prId api.PrId) error {
	status, err := h.prService.MergeStatus(c.Request().Context(), prId, actor(c))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, api.MergeStatusResponse{Status: api.MergeStatus(status)})
}

func (h *Handler) MergePullRequest(c echo.Context, prId api.PrId) error {
	user := actor(c)
	if user == "" {
		return unauthenticated(c)
	}

	result, err := h.prService.AttemptMerge(c.Request().Context(), prId, user)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, api.MergeResult{
		PullRequest: toAPIPullRequest(result.PullRequest),
		Kind:        api.MergeStatus(result.Kind),
		Commit:      result.Commit,
	})
}

func (h *Handler) ClosePullRequest(c echo.Context, prId api.PrId) error {
	user := actor(c)
	if user == "" {
		return unauthenticated(c)
	}

	pr, err := h.prService.Close(c.Request().Context(), prId, user)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, toAPIPullRequest(pr))
}

func (h *Handler) AddComment(c echo.Context, prId api.PrId) error {
	user := actor(c)
	if user == "" {
		return unauthenticated(c)
	}

	body := api.AddCommentJSONRequestBody{}
	if err := c.Bind(&body); err != nil {
		return badRequest(c)
	}

	comment, err := h.prService.AddComment(c.Request().Context(), prId, user, body.Text, body.Score)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusCreated, toAPIComment(comment))
}

func (h *Handler) AssignPullRequest(c echo.Context, prId api.PrId) error {
	user := actor(c)
	if user == "" {
		return unauthenticated(c)
	}

	body := api.AssignPullRequestJSONRequestBody{}
	if err := c.Bind(&body); err != nil {
		return badRequest(c)
	}

	pr, err := h.prService.Assign(c.Request().Context(), prId, user, body.Assignee)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, toAPIPullRequest(pr))
}

func (h *Handler) ListFlags(c echo.Context, prId api.PrId) error {
	flags, err := h.prService.ListFlags(c.Request().Context(), prId, actor(c))
	if err != nil {
		return h.fail(c, err)
	}

	resp := make([]api.Flag, 0, len(flags))
	for _, f := range flags {
		resp = append(resp, toAPIFlag(f))
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) AddFlag(c echo.Context, prId api.PrId) error {
	user := actor(c)
	if user == "" {
		return unauthenticated(c)
	}

	body := api.AddFlagJSONRequestBody{}
	if err := c.Bind(&body); err != nil {
		return badRequest(c)
	}

	flag, err := h.prService.AddFlag(c.Request().Context(), prId, user, service.FlagInput{
		UID:      deref(body.Uid),
		Username: deref(body.Username),
		Status:   models.FlagStatus(body.Status),
		Percent:  body.Percent,
		Comment:  deref(body.Comment),
		URL:      deref(body.Url),
	})
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, toAPIFlag(flag))
}
