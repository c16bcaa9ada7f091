package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/texgraph/pkg/buildinfo"
	"github.com/matzehuels/texgraph/pkg/errors"
	"github.com/matzehuels/texgraph/pkg/observability"
	"github.com/matzehuels/texgraph/pkg/pipeline"
	"github.com/matzehuels/texgraph/pkg/scene"
)

// Response headers set on successful renders.
const (
	HeaderCache = "X-Texgraph-Cache"
	HeaderHash  = "X-Texgraph-Hash"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := renderOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxSceneBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeError(w, r, errors.New(errors.ErrCodeLimitExceeded, "scene exceeds %d bytes", tooLarge.Limit).
				With("max_bytes", tooLarge.Limit))
			return
		}
		s.writeError(w, r, errors.Wrap(errors.ErrCodeIO, err, "read request body"))
		return
	}
	opts.Scene = body

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RenderTimeout)
	defer cancel()

	result, err := s.runner.Execute(ctx, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := opts.Formats[0]
	cacheState := "miss"
	if result.CacheInfo.RenderHit {
		cacheState = "hit"
	}
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set(HeaderCache, cacheState)
	w.Header().Set(HeaderHash, result.SceneHash)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])

	s.logger.Debug("rendered",
		"request_id", middleware.GetReqID(r.Context()),
		"format", format,
		"cache", cacheState,
		"vertices", result.Stats.Vertices)
}

// renderOptions reads the query string and Content-Type of a render request.
func renderOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Object: q.Get("object"),
		Class:  q.Get("class"),
	}

	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatTikZ
	}
	opts.Formats = []string{format}

	if v := q.Get("precision"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "precision must be an integer, got %q", v).With("precision", v)
		}
		opts.Precision = n
	}
	if v := q.Get("weights"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "weights must be a boolean, got %q", v).With("weights", v)
		}
		opts.ShowWeights = b
	}
	if v := q.Get("scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "scale must be a positive number, got %q", v).With("scale", v)
		}
		opts.Scale = f
	}

	sceneFormat, err := sceneFormatOf(r)
	if err != nil {
		return opts, err
	}
	opts.SceneFormat = sceneFormat
	return opts, nil
}

// sceneFormatOf prefers the scene query parameter, then the Content-Type.
func sceneFormatOf(r *http.Request) (scene.Format, error) {
	if v := r.URL.Query().Get("scene"); v != "" {
		return scene.ParseFormat(v)
	}
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return scene.FormatTOML, nil
	}
	if strings.Contains(mediaType, "yaml") {
		return scene.FormatYAML, nil
	}
	return scene.FormatTOML, nil
}

type errorBody struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(errors.GetCode(err))
	switch {
	case code != "":
	case stderrors.Is(err, context.DeadlineExceeded):
		code = string(errors.ErrCodeTimeout)
	default:
		code = string(errors.ErrCodeInternal)
	}
	route := chi.RouteContext(r.Context()).RoutePattern()
	observability.HTTP().OnError(r.Context(), r.Method, route, code)

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", middleware.GetReqID(r.Context()), "error", err)
	} else {
		s.logger.Debug("request rejected", "request_id", middleware.GetReqID(r.Context()), "code", code)
	}

	writeJSON(w, status, errorBody{Error: errorPayload{
		Code:    code,
		Message: errors.UserMessage(err),
		Details: errors.Details(err),
	}})
}

// statusFor maps error codes onto HTTP statuses.
func statusFor(err error) int {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidScene, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidStyle, errors.ErrCodeInvalidShape, errors.ErrCodeInvalidBasis:
		return http.StatusBadRequest
	case errors.ErrCodeLimitExceeded:
		if _, ok := errors.Details(err)["max_bytes"]; ok {
			return http.StatusRequestEntityTooLarge
		}
		return http.StatusUnprocessableEntity
	case errors.ErrCodeVertexNotFound, errors.ErrCodeDuplicateVertex, errors.ErrCodeEdgeNotFound,
		errors.ErrCodeAlreadyConstructed:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusResponseWriter captures the status code written by a handler.
type statusResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// instrument reports every request to the HTTP hooks.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		sw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		hooks.OnResponse(r.Context(), r.Method, route, sw.status, time.Since(start))
	})
}
