package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/unirecords/archive-console/internal/core/ports"
	"github.com/unirecords/archive-console/internal/observability/metrics"
)

const serviceName = "archive-api"

type Router struct {
	ingest  ports.DocumentIngestor
	review  ports.ReviewService
	browse  ports.ArchiveBrowser
	reader  ports.DocumentReader
	users   ports.UserRepository
	metrics *metrics.HTTPServerMetrics
}

func NewRouter(
	ingest ports.DocumentIngestor,
	review ports.ReviewService,
	browse ports.ArchiveBrowser,
	reader ports.DocumentReader,
	users ports.UserRepository,
	httpMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		ingest:  ingest,
		review:  review,
		browse:  browse,
		reader:  reader,
		users:   users,
		metrics: httpMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)

	mux.HandleFunc("POST /v1/documents", rt.uploadDocuments)
	mux.HandleFunc("GET /v1/documents", rt.listMyDocuments)
	mux.HandleFunc("GET /v1/documents/{id}", rt.getDocument)

	mux.HandleFunc("GET /v1/review/queue", rt.reviewQueue)
	mux.HandleFunc("POST /v1/review/{id}/approve", rt.approveDocument)
	mux.HandleFunc("POST /v1/review/{id}/reject", rt.rejectDocument)
	mux.HandleFunc("POST /v1/review/{id}/reanalyze", rt.reanalyzeDocument)

	mux.HandleFunc("GET /v1/archive", rt.listArchive)
	mux.HandleFunc("GET /v1/archive/entities", rt.entityDirectory)
	mux.HandleFunc("GET /v1/archive/graph", rt.archiveGraph)
	mux.HandleFunc("GET /v1/stats", rt.archiveStats)

	mux.HandleFunc("GET /v1/users", rt.listUsers)

	var handler http.Handler = mux
	handler = rt.authMiddleware(handler)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) listUsers(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r.Context())
	if !caller.CanManageUsers() {
		writeError(w, forbidden("list users"))
		return
	}
	users, err := rt.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
