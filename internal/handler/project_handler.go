package handler

import (
	"net/http"

	"pagure/internal/api"
	"pagure/internal/models"

	"github.com/labstack/echo/v4"
)

func (h *Handler) CreateProject(c echo.Context) error {
	user := actor(c)
	if user == "" {
		return unauthenticated(c)
	}

	body := api.CreateProjectJSONRequestBody{}
	if err := bindStrict(c, &body); err != nil {
		return errorJSON(c, http.StatusBadRequest, api.ErrorCodeINVALIDINPUT, err.Error())
	}

	project := &models.Project{
		Namespace:    deref(body.Namespace),
		Name:         body.Name,
		Owner:        deref(body.Owner),
		IsPrivate:    deref(body.IsPrivate),
		IsMirror:     deref(body.IsMirror),
		ParentID:     body.ParentId,
		Committers:   deref(body.Committers),
		BlockedUsers: deref(body.BlockedUsers),
		Settings:     fromAPISettings(body.Settings),
	}

	if err := h.projectService.Create(c.Request().Context(), user, project); err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusCreated, toAPIProject(project))
}

func (h *Handler) GetProject(c echo.Context, projectId api.ProjectId) error {
	project, err := h.projectService.Get(c.Request().Context(), projectId, actor(c))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, toAPIProject(project))
}

func (h *Handler) UpdateProjectSettings(c echo.Context, projectId api.ProjectId) error {
	user := actor(c)
	if user == "" {
		return unauthenticated(c)
	}

	body := api.UpdateProjectSettingsJSONRequestBody{}
	if err := bindStrict(c, &body); err != nil {
		return errorJSON(c, http.StatusBadRequest, api.ErrorCodeINVALIDINPUT, err.Error())
	}

	project, err := h.projectService.UpdateSettings(c.Request().Context(), projectId, user, fromAPISettings(&body))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, toAPIProject(project))
}
