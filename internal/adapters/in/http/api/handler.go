// Package api implements the HTTP adapter for the dashboard API.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/regdash/regdash/internal/adapters/dto"
	"github.com/regdash/regdash/internal/boundaries/in"
)

// DefaultKeepAlive is the interval between comment frames on idle streams.
const DefaultKeepAlive = 15 * time.Second

// maxRequestSize bounds JSON request bodies.
const maxRequestSize = 1 << 20 // 1MB

// Services groups the use cases served by the API.
type Services struct {
	Push      in.PushService
	Manifests in.ManifestService
	Health    in.HealthService
	Sessions  in.SessionSubscriber
}

// Handler implements the HTTP handlers for /api.
type Handler struct {
	push         in.PushService
	manifests    in.ManifestService
	health       in.HealthService
	sessions     in.SessionSubscriber
	registryHost string
	// lifetime scopes push chains: they outlive the request but not the process.
	lifetime  context.Context
	keepAlive time.Duration
	log       *log.Logger
}

// NewHandler creates a new API handler. Push operations run on lifetime so
// that a client disconnect does not abort a chain already in progress.
func NewHandler(lifetime context.Context, svc Services, registryHost string, log *log.Logger) *Handler {
	return &Handler{
		push:         svc.Push,
		manifests:    svc.Manifests,
		health:       svc.Health,
		sessions:     svc.Sessions,
		registryHost: registryHost,
		lifetime:     lifetime,
		keepAlive:    DefaultKeepAlive,
		log:          log,
	}
}

// RegisterRoutes mounts the API on g. pushLimiter guards the push endpoint.
func (h *Handler) RegisterRoutes(g *echo.Group, pushLimiter echo.MiddlewareFunc) {
	g.POST("/push", h.handlePush, pushLimiter)
	g.GET("/push-stream/:sessionId", h.handlePushStream)
	g.DELETE("/delete", h.handleDelete)
	g.GET("/health", h.handleHealth)
	g.GET("/config", h.handleConfig)
}

// bind decodes a JSON body, bounded by maxRequestSize.
func bind(c echo.Context, v interface{}) error {
	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, maxRequestSize)
	return c.Bind(v)
}

func sendError(c echo.Context, status int, msg string) error {
	return c.JSON(status, dto.ErrorResponse{Error: msg})
}

func (h *Handler) handleConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.ConfigResponse{RegistryHost: h.registryHost})
}

func (h *Handler) handleHealth(c echo.Context) error {
	report := h.health.Check(c.Request().Context())

	resp := dto.HealthResponse{
		Status:   "ok",
		Docker:   report.Docker,
		Registry: report.Registry,
	}
	if !report.Healthy() {
		resp.Status = "degraded"
		return c.JSON(http.StatusServiceUnavailable, resp)
	}
	return c.JSON(http.StatusOK, resp)
}
