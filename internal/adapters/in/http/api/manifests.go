package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/regdash/regdash/internal/adapters/dto"
	"github.com/regdash/regdash/internal/domain"
)

func (h *Handler) handleDelete(c echo.Context) error {
	var req dto.DeleteRequest
	if err := bind(c, &req); err != nil {
		return sendError(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Repo == "" || req.Tag == "" {
		return sendError(c, http.StatusBadRequest, "repo and tag are required")
	}

	deleted, err := h.manifests.Delete(c.Request().Context(), domain.ManifestReference{
		Repository: req.Repo,
		Tag:        req.Tag,
	})
	if err != nil {
		return h.deleteError(c, req, err)
	}

	return c.JSON(http.StatusOK, dto.DeleteResponse{
		Result: "deleted",
		Digest: deleted.Digest.String(),
	})
}

func (h *Handler) deleteError(c echo.Context, req dto.DeleteRequest, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return sendError(c, http.StatusBadRequest, err.Error())
	}

	var regErr *domain.RegistryError
	if errors.As(err, &regErr) && regErr.StatusCode != 0 {
		msg := "manifest delete failed"
		if errors.Is(err, domain.ErrManifestNotFound) {
			msg = "manifest fetch failed"
		}
		return c.JSON(http.StatusInternalServerError, dto.RegistryErrorResponse{
			Error:  msg,
			Status: regErr.StatusCode,
		})
	}

	h.log.Error("delete failed", "repo", req.Repo, "tag", req.Tag, "error", err)
	return sendError(c, http.StatusInternalServerError, err.Error())
}
