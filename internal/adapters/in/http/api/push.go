package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/regdash/regdash/internal/adapters/dto"
	"github.com/regdash/regdash/internal/domain"
)

func (h *Handler) handlePush(c echo.Context) error {
	var req dto.PushRequest
	if err := bind(c, &req); err != nil {
		return sendError(c, http.StatusBadRequest, "invalid request body")
	}

	req.Image = strings.TrimSpace(req.Image)
	if req.Image == "" {
		return sendError(c, http.StatusBadRequest, "image is required")
	}

	result, err := h.push.Push(h.lifetime, req.Image, req.SessionID)
	if err != nil {
		return h.pushError(c, req, err)
	}

	return c.JSON(http.StatusOK, dto.PushResponse{
		Result: "ok",
		Log:    result.Log,
		Logs:   result.Logs,
	})
}

func (h *Handler) pushError(c echo.Context, req dto.PushRequest, err error) error {
	if errors.Is(err, domain.ErrInvalidImage) {
		return sendError(c, http.StatusBadRequest, err.Error())
	}

	var stageErr *domain.StageError
	if errors.As(err, &stageErr) {
		logs := stageErr.Logs
		if logs == nil {
			logs = []string{}
		}
		return c.JSON(http.StatusInternalServerError, dto.PushErrorResponse{
			Error:  stageErr.Error(),
			Detail: stageErr.Detail,
			Logs:   logs,
		})
	}

	h.log.Error("push failed unexpectedly", "image", req.Image, "session", req.SessionID, "error", err)
	return sendError(c, http.StatusInternalServerError, "push failed")
}
