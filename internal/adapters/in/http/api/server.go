package api

import (
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	mw "github.com/regdash/regdash/internal/adapters/in/http/middleware"
)

// ServerConfig configures the echo instance built by NewServer.
type ServerConfig struct {
	// RegistryURL is the upstream registry receiving /v2 traffic.
	RegistryURL *url.URL
	// UI is the static bundle served for every other GET route.
	UI fs.FS
	// PushRateLimit is the per-client request rate allowed on /api/push.
	PushRateLimit float64
}

// NewServer assembles the HTTP surface: the API, the registry proxy and the
// UI bundle with single-page fallback.
func NewServer(cfg ServerConfig, h *Handler, log *log.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.IPExtractor = echo.ExtractIPDirect()
	// Push responses wait for the whole chain.
	e.Server.ReadTimeout = 30 * time.Second
	e.Server.WriteTimeout = 0

	e.Use(middleware.Recover())
	e.Use(mw.RequestID())
	e.Use(mw.AccessLogger(log))

	api := e.Group("/api", middleware.CORS())
	h.RegisterRoutes(api, mw.RateLimit(cfg.PushRateLimit, log))

	if cfg.RegistryURL != nil {
		e.Group("/v2", registryProxy(cfg.RegistryURL, log))
	}

	if cfg.UI != nil {
		e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
			Skipper: func(c echo.Context) bool {
				p := c.Request().URL.Path
				return strings.HasPrefix(p, "/api") || strings.HasPrefix(p, "/v2")
			},
			Root:       ".",
			Index:      "index.html",
			HTML5:      true,
			Filesystem: http.FS(cfg.UI),
		}))
	}

	return e
}

// registryProxy forwards requests unmodified to the upstream registry.
func registryProxy(target *url.URL, log *log.Logger) echo.MiddlewareFunc {
	balancer := middleware.NewRoundRobinBalancer([]*middleware.ProxyTarget{
		{Name: "registry", URL: target},
	})

	return middleware.ProxyWithConfig(middleware.ProxyConfig{
		Balancer: balancer,
		ErrorHandler: func(c echo.Context, err error) error {
			log.Warn("registry proxy error", "path", c.Request().URL.Path, "error", err)
			return echo.NewHTTPError(http.StatusBadGateway, "registry unreachable")
		},
	})
}
