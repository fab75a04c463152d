package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sylvre-lang/sylvre/internal/web/middleware"
	"github.com/sylvre-lang/sylvre/internal/web/ratelimit"
)

// RouterOptions configures NewRouter
type RouterOptions struct {
	Logger *zap.Logger
	CORS   middleware.CORSConfig

	// Limiter throttles POST /transpiler; nil disables rate limiting
	Limiter ratelimit.Limiter
}

// NewRouter mounts the API endpoints behind the standard middleware stack
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(logger, "/health"),
		middleware.Recovery(logger),
		middleware.CORS(opts.CORS),
	)

	r.Get("/health", h.Health)
	r.Get("/library", h.Library)

	r.Group(func(r chi.Router) {
		if opts.Limiter != nil {
			r.Use(middleware.RateLimit(opts.Limiter, logger))
		}
		r.Post("/transpiler", h.Transpile)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "no route for "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", r.Method+" is not allowed on "+r.URL.Path)
	})

	return r
}
