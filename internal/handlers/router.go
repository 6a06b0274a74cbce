package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/git-bubble/api/internal/platform/httpx"
)

// RouteRegistrar registers a set of routes against the provided router.
type RouteRegistrar func(r chi.Router)

type routerConfig struct {
	basePath    string
	middlewares []func(http.Handler) http.Handler
	health      *HealthHandlers

	bubble     RouteRegistrar
	link       RouteRegistrar
	divider    RouteRegistrar
	village    RouteRegistrar
	imageProxy RouteRegistrar
	assets     RouteRegistrar

	renderMiddlewares []func(http.Handler) http.Handler
	assetMiddlewares  []func(http.Handler) http.Handler
}

// Option customises the router configuration before construction.
type Option func(*routerConfig)

const (
	defaultAPIPrefix  = "/api/v1"
	defaultTimeout    = 30 * time.Second
	errorNotFoundCode = "route_not_found"
)

// NewRouter constructs the chi router with shared middleware and expected route groups.
func NewRouter(opts ...Option) chi.Router {
	cfg := routerConfig{
		basePath: defaultAPIPrefix,
		middlewares: []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Timeout(defaultTimeout),
		},
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	r := chi.NewRouter()

	if cfg.health == nil {
		cfg.health = NewHealthHandlers()
	}

	for _, mw := range cfg.middlewares {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError(errorNotFoundCode, fmt.Sprintf("no route for %s", req.URL.Path), http.StatusNotFound))
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError("method_not_allowed", fmt.Sprintf("method %s not allowed on %s", req.Method, req.URL.Path), http.StatusMethodNotAllowed))
	})

	r.Get("/healthz", cfg.health.Healthz)
	r.Get("/readyz", cfg.health.Readyz)

	r.Route(cfg.basePath, func(api chi.Router) {
		mount := func(path string, registrar RouteRegistrar, name string, groupMW []func(http.Handler) http.Handler) {
			api.Route(path, func(group chi.Router) {
				for _, mw := range groupMW {
					if mw != nil {
						group.Use(mw)
					}
				}
				if registrar != nil {
					registrar(group)
					return
				}
				registerNotImplemented(group, name)
			})
		}

		mount("/bubble", cfg.bubble, "bubble", cfg.renderMiddlewares)
		mount("/link", cfg.link, "link", cfg.renderMiddlewares)
		mount("/divider", cfg.divider, "divider", cfg.renderMiddlewares)
		mount("/village", cfg.village, "village", cfg.renderMiddlewares)
		mount("/image-proxy", cfg.imageProxy, "imageProxy", cfg.renderMiddlewares)
		mount("/assets", cfg.assets, "assets", cfg.assetMiddlewares)
	})

	return r
}

// WithMiddlewares appends additional global middleware to the router.
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(cfg *routerConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithHealthHandlers overrides the handlers used for /healthz and /readyz endpoints.
func WithHealthHandlers(h *HealthHandlers) Option {
	return func(cfg *routerConfig) {
		cfg.health = h
	}
}

// WithBubbleRoutes configures the registrar responsible for bubble endpoints.
func WithBubbleRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.bubble = reg
	}
}

// WithLinkRoutes configures the registrar responsible for link card endpoints.
func WithLinkRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.link = reg
	}
}

// WithDividerRoutes configures the registrar responsible for divider endpoints.
func WithDividerRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.divider = reg
	}
}

// WithVillageRoutes configures the registrar responsible for village endpoints.
func WithVillageRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.village = reg
	}
}

// WithImageProxyRoutes configures the registrar responsible for the image proxy.
func WithImageProxyRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.imageProxy = reg
	}
}

// WithAssetRoutes configures the registrar responsible for asset upload endpoints.
func WithAssetRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.assets = reg
	}
}

// WithRenderMiddlewares configures middlewares applied to every image-rendering group.
func WithRenderMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(cfg *routerConfig) {
		cfg.renderMiddlewares = append(cfg.renderMiddlewares, mw...)
	}
}

// WithAssetMiddlewares configures middlewares applied to the /assets group.
func WithAssetMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(cfg *routerConfig) {
		cfg.assetMiddlewares = append(cfg.assetMiddlewares, mw...)
	}
}

func registerNotImplemented(r chi.Router, name string) {
	handler := func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError("not_implemented", fmt.Sprintf("%s routes not implemented", name), http.StatusNotImplemented))
	}
	r.HandleFunc("/*", handler)
	r.HandleFunc("/", handler)
	r.NotFound(handler)
	r.MethodNotAllowed(handler)
}
