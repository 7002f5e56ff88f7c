package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"pagure/internal/api"
	"pagure/internal/gitrepo"
	"pagure/internal/merge"
	"pagure/internal/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RemoteUserHeader carries the authenticated user name set by the fronting proxy.
const RemoteUserHeader = "X-Remote-User"

// HealthCheck reports whether the backing stores are reachable.
type HealthCheck func(ctx context.Context) error

type Handler struct {
	projectService *service.ProjectService
	prService      *service.PRService
	health         HealthCheck
	log            *zap.Logger
}

var _ api.ServerInterface = (*Handler)(nil)

func NewHandler(projectService *service.ProjectService, prService *service.PRService, health HealthCheck, log *zap.Logger) *Handler {
	return &Handler{
		projectService: projectService,
		prService:      prService,
		health:         health,
		log:            log,
	}
}

func (h *Handler) Healthz(c echo.Context) error {
	if h.health != nil {
		if err := h.health(c.Request().Context()); err != nil {
			h.log.Warn("health check failed", zap.Error(err))
			return errorJSON(c, http.StatusServiceUnavailable, api.ErrorCodeINTERNAL, "unavailable")
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func actor(c echo.Context) string {
	return strings.TrimSpace(c.Request().Header.Get(RemoteUserHeader))
}

func unauthenticated(c echo.Context) error {
	return errorJSON(c, http.StatusUnauthorized, api.ErrorCodeUNAUTHENTICATED, RemoteUserHeader+" header is required")
}

func errorJSON(c echo.Context, status int, code api.ErrorCode, message string) error {
	resp := api.ErrorResponse{}
	resp.Error.Code = code
	resp.Error.Message = message
	return c.JSON(status, resp)
}

func badRequest(c echo.Context) error {
	return errorJSON(c, http.StatusBadRequest, api.ErrorCodeINVALIDINPUT, "bad request")
}

// bindStrict decodes a JSON body and rejects fields the schema does not define.
func bindStrict(c echo.Context, v any) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data after JSON body")
	}
	return nil
}

// fail maps a service error onto the HTTP response.
func (h *Handler) fail(c echo.Context, err error) error {
	var (
		deniedErr   *service.DeniedError
		conflictErr *merge.ConflictError
	)

	switch {
	case errors.As(err, &deniedErr):
		return errorJSON(c, http.StatusForbidden, api.ErrorCodeDENIED, deniedErr.Reason)
	case errors.As(err, &conflictErr):
		resp := api.ErrorResponse{}
		resp.Error.Code = api.ErrorCodeMERGECONFLICT
		resp.Error.Message = "merge conflict"
		paths := conflictErr.Paths
		resp.Error.Paths = &paths
		return c.JSON(http.StatusConflict, resp)
	case errors.Is(err, service.ErrRefUpdateConflict):
		return errorJSON(c, http.StatusConflict, api.ErrorCodeREFCONFLICT, "target branch moved, try again")
	case errors.Is(err, service.ErrAlreadyExists):
		return errorJSON(c, http.StatusConflict, api.ErrorCodeALREADYEXISTS, "already exists")
	case errors.Is(err, service.ErrNotFound), errors.Is(err, gitrepo.ErrNotFound):
		return errorJSON(c, http.StatusNotFound, api.ErrorCodeNOTFOUND, "not found")
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, gitrepo.ErrUnknownRef),
		errors.Is(err, gitrepo.ErrInvalidBranch):
		return errorJSON(c, http.StatusBadRequest, api.ErrorCodeINVALIDINPUT, err.Error())
	}

	h.log.Error("request failed",
		zap.Error(err),
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
	)
	return errorJSON(c, http.StatusInternalServerError, api.ErrorCodeINTERNAL, "internal error")
}
