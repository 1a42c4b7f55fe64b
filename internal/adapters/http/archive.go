package httpadapter

import (
	"net/http"

	"github.com/unirecords/archive-console/internal/core/domain"
	"github.com/unirecords/archive-console/internal/core/ports"
)

func (rt *Router) listArchive(w http.ResponseWriter, r *http.Request) {
	filter := ports.BrowseFilter{
		Category: domain.Category(r.URL.Query().Get("category")),
		Entity:   r.URL.Query().Get("entity"),
	}
	docs, err := rt.browse.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (rt *Router) entityDirectory(w http.ResponseWriter, r *http.Request) {
	dir, err := rt.browse.EntityDirectory(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dir)
}

func (rt *Router) archiveGraph(w http.ResponseWriter, r *http.Request) {
	graph, err := rt.browse.Graph(r.Context(), r.URL.Query().Get("entity"))
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordGraphProjection(serviceName, graph.Mode)
	}
	writeJSON(w, http.StatusOK, graph)
}

func (rt *Router) archiveStats(w http.ResponseWriter, r *http.Request) {
	stats, err := rt.browse.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
