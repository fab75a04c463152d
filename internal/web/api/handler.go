// Package api serves the Sylvre transpiler over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sylvre-lang/sylvre/internal/compiler"
	"github.com/sylvre-lang/sylvre/internal/compiler/codegen"
	"github.com/sylvre-lang/sylvre/internal/compiler/stdlib"
	"github.com/sylvre-lang/sylvre/internal/web/cache"
	"github.com/sylvre-lang/sylvre/internal/web/middleware"
)

// TranspileRequest is the body of POST /transpiler
type TranspileRequest struct {
	Code *string `json:"code"`
}

// TranspileResponse is the body returned by POST /transpiler
type TranspileResponse struct {
	HasErrors      bool                 `json:"hasErrors"`
	ErrorSource    compiler.ErrorSource `json:"errorSource"`
	Errors         []interface{}        `json:"errors"`
	Target         codegen.Target       `json:"target"`
	TranspiledCode string               `json:"transpiledCode"`
}

// ErrorResponse is returned for rejected requests
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Handler holds the dependencies of the API endpoints
type Handler struct {
	cache        cache.Cache
	cacheTTL     time.Duration
	maxBodyBytes int64
	logger       *zap.Logger
}

// Options configures a Handler. A nil Cache disables response caching.
type Options struct {
	Cache        cache.Cache
	CacheTTL     time.Duration
	MaxBodyBytes int64
	Logger       *zap.Logger
}

// NewHandler creates a Handler
func NewHandler(opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	return &Handler{
		cache:        opts.Cache,
		cacheTTL:     opts.CacheTTL,
		maxBodyBytes: opts.MaxBodyBytes,
		logger:       opts.Logger,
	}
}

// Transpile handles POST /transpiler?target=<name>
func (h *Handler) Transpile(w http.ResponseWriter, r *http.Request) {
	target := codegen.Target(strings.ToLower(r.URL.Query().Get("target")))
	if target == "" {
		target = codegen.JavaScript
	}
	if !codegen.IsRegistered(target) {
		writeError(w, http.StatusBadRequest, "unknown_target", "unknown target: "+string(target))
		return
	}

	var req TranspileRequest
	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be JSON with a code field")
		return
	}
	if req.Code == nil {
		writeError(w, http.StatusBadRequest, "missing_code", "code is required")
		return
	}

	key := cache.TranspileKey(string(target), *req.Code)
	if h.cache != nil {
		if data, err := h.cache.Get(r.Context(), key); err == nil {
			w.Header().Set("X-Cache", "HIT")
			writeRaw(w, http.StatusOK, data)
			return
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			h.logger.Warn("response cache read failed", zap.Error(err),
				zap.String("request_id", middleware.GetRequestID(r.Context())))
		}
	}

	result, err := compiler.Transpile(*req.Code, target)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_target", err.Error())
		return
	}

	data, err := json.Marshal(NewTranspileResponse(result))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encode_failed", "failed to encode response")
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(r.Context(), key, data, h.cacheTTL); err != nil {
			h.logger.Warn("response cache write failed", zap.Error(err))
		}
		w.Header().Set("X-Cache", "MISS")
	}
	writeRaw(w, http.StatusOK, data)
}

// NewTranspileResponse shapes a compiler result for the wire
func NewTranspileResponse(result *compiler.Result) *TranspileResponse {
	resp := &TranspileResponse{
		HasErrors:      result.HasErrors(),
		ErrorSource:    result.ErrorSource,
		Errors:         []interface{}{},
		Target:         result.Target,
		TranspiledCode: result.Code,
	}
	for _, e := range result.ParseErrors {
		resp.Errors = append(resp.Errors, e)
	}
	for _, e := range result.TranspileErrors {
		resp.Errors = append(resp.Errors, e)
	}
	return resp
}

// Library handles GET /library?target=<name>
func (h *Handler) Library(w http.ResponseWriter, r *http.Request) {
	target := strings.ToLower(r.URL.Query().Get("target"))
	if target == "" {
		target = string(codegen.JavaScript)
	}

	lib, err := stdlib.ForTarget(target)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_target", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"library": stdlib.LibraryName,
		"target":  lib.Target(),
		"modules": lib.Modules(),
	})
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeRaw(w, status, data)
}

func writeRaw(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}
