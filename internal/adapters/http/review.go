package httpadapter

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/unirecords/archive-console/internal/core/domain"
)

func (rt *Router) reviewQueue(w http.ResponseWriter, r *http.Request) {
	docs, err := rt.review.Queue(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// approveDocument archives the reviewer's working copy. The request body is
// the full metadata block plus the entity list; both replace whatever
// extraction produced.
func (rt *Router) approveDocument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Metadata domain.Metadata `json:"metadata"`
		Entities []domain.Entity `json:"entities"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.WrapError(domain.ErrInvalidInput, "approve", fmt.Errorf("invalid json: %w", err)))
		return
	}

	doc, err := rt.review.Approve(r.Context(), currentUser(r.Context()), r.PathValue("id"), req.Metadata, req.Entities)
	if err != nil {
		writeError(w, err)
		return
	}
	rt.recordDecision("approve")
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) rejectDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := rt.review.Reject(r.Context(), currentUser(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	rt.recordDecision("reject")
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) reanalyzeDocument(w http.ResponseWriter, r *http.Request) {
	if err := rt.review.RequestReanalysis(r.Context(), currentUser(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	rt.recordDecision("reanalyze")
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (rt *Router) recordDecision(decision string) {
	if rt.metrics != nil {
		rt.metrics.RecordReviewDecision(serviceName, decision)
	}
}
