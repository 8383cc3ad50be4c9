package watch

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/inclint/pkg/linter"
	"github.com/platinummonkey/inclint/pkg/observability"
)

// Handlers serves the watcher's results over HTTP
type Handlers struct {
	watcher *Watcher
	metrics *observability.Metrics
	log     logrus.FieldLogger
}

// NewHandlers creates handlers for w
func NewHandlers(w *Watcher, metrics *observability.Metrics) *Handlers {
	return &Handlers{watcher: w, metrics: metrics, log: w.log}
}

// Router returns a router with all watcher routes registered
func (h *Handlers) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(h.loggingMiddleware)
	h.RegisterRoutes(router)
	return router
}

// RegisterRoutes registers watcher routes
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/healthz", h.health).Methods("GET")
	router.HandleFunc("/results", h.listResults).Methods("GET")
	router.HandleFunc("/results/{path:.+}", h.getResult).Methods("GET")
	if h.metrics != nil {
		router.Handle("/metrics", h.metrics.Handler()).Methods("GET")
	}
}

// health handles GET /healthz
func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"pending": h.watcher.Queue().Len(),
		"files":   len(h.watcher.Store().List()),
	})
}

// listResults handles GET /results. With ?violations=true only files with
// violations are listed.
func (h *Handlers) listResults(w http.ResponseWriter, r *http.Request) {
	entries := h.watcher.Store().List()
	if r.URL.Query().Get("violations") == "true" {
		filtered := entries[:0]
		for _, e := range entries {
			if len(e.Result.Violations) > 0 {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	results := make([]linter.LintResult, len(entries))
	for i, e := range entries {
		results[i] = e.Result
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": entries,
		"summary": h.watcher.engine.GenerateSummary(results),
	})
}

// getResult handles GET /results/{path}
func (h *Handlers) getResult(w http.ResponseWriter, r *http.Request) {
	path := mux.Vars(r)["path"]

	entry, ok := h.watcher.Store().Get(path)
	if !ok {
		// Absolute paths lose their leading slash in the URL.
		entry, ok = h.watcher.Store().Get("/" + path)
	}
	if !ok {
		writeError(w, http.StatusNotFound, "no result for "+path)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// loggingMiddleware logs HTTP requests
func (h *Handlers) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		h.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rw.statusCode,
			"duration": time.Since(start),
		}).Debug("HTTP request")
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
