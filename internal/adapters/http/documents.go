package httpadapter

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/unirecords/archive-console/internal/core/domain"
	"github.com/unirecords/archive-console/internal/core/ports"
)

const maxUploadMemoryBytes = 64 << 20

// uploadDocuments accepts a multipart batch: any number of files under the
// "files" field plus optional "folders" values registering folder containers.
// Directory uploads keep their relative paths in the part filename.
func (rt *Router) uploadDocuments(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemoryBytes); err != nil {
		writeError(w, domain.WrapError(domain.ErrInvalidInput, "parse upload", err))
		return
	}

	form := r.MultipartForm
	defer func() {
		_ = form.RemoveAll()
	}()

	items := make([]ports.UploadItem, 0, len(form.File["files"])+len(form.Value["folders"]))
	for _, folder := range form.Value["folders"] {
		if folder == "" {
			continue
		}
		items = append(items, ports.UploadItem{
			FileName: folder,
			Folder:   true,
		})
	}

	openFiles := make([]multipart.File, 0, len(form.File["files"]))
	defer func() {
		for _, f := range openFiles {
			_ = f.Close()
		}
	}()
	for _, header := range form.File["files"] {
		file, err := header.Open()
		if err != nil {
			writeError(w, domain.WrapError(domain.ErrInvalidInput, "open upload part", err))
			return
		}
		openFiles = append(openFiles, file)
		items = append(items, ports.UploadItem{
			FileName: header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Size:     header.Size,
			Body:     file,
		})
	}

	if len(items) == 0 {
		writeError(w, domain.WrapError(domain.ErrInvalidInput, "parse upload",
			fmt.Errorf("multipart field 'files' or 'folders' is required")))
		return
	}

	docs, err := rt.ingest.Upload(r.Context(), currentUser(r.Context()), items)
	if rt.metrics != nil {
		for _, doc := range docs {
			rt.metrics.RecordUpload(serviceName, doc.SizeBytes, nil)
		}
		if err != nil {
			rt.metrics.RecordUpload(serviceName, 0, err)
		}
	}
	if err != nil {
		if len(docs) == 0 {
			writeError(w, err)
			return
		}
		// Siblings registered before the failing file stand; report both so
		// the client knows which uploads went through.
		writeJSON(w, mapErrorToHTTPStatus(err), partialUploadResponse{
			Error:     err.Error(),
			Documents: docs,
		})
		return
	}

	writeJSON(w, http.StatusAccepted, docs)
}

// partialUploadResponse reports a batch that failed after some documents were
// already registered.
type partialUploadResponse struct {
	Error     string            `json:"error"`
	Documents []domain.Document `json:"documents"`
}

func (rt *Router) listMyDocuments(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	docs, err := rt.reader.ListByUploader(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (rt *Router) getDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, domain.WrapError(domain.ErrInvalidInput, "get document", fmt.Errorf("document id is required")))
		return
	}
	doc, err := rt.reader.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
