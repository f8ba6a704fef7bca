package web

import (
	"errors"
	"io"
	"net/http"

	"invoice-agent/internal/app"
	"invoice-agent/internal/core"
	"invoice-agent/internal/extract"

	"github.com/go-chi/chi/v5"
)

// multipart framing overhead allowed on top of the file size limit.
const uploadBodySlack = 1 << 20

// uploadFile handles POST /api/uploads — one file per upload cycle, field
// name "file". The extraction result is appended to the store and the new
// snapshot returned.
func (h *Handler) uploadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, app.MaxUploadSize+uploadBodySlack)
	if err := r.ParseMultipartForm(app.MaxUploadSize); err != nil {
		writeError(w, r, "request too large or malformed", "INPUT_REJECTED", http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		writeError(w, r, "no file provided", "INPUT_REJECTED", http.StatusBadRequest)
		return
	}
	if len(files) > 1 {
		writeError(w, r, "one file per upload", "INPUT_REJECTED", http.StatusBadRequest)
		return
	}
	fh := files[0]
	if fh.Size > app.MaxUploadSize {
		writeError(w, r, "file size too large, maximum size is 10 MB", "INPUT_REJECTED", http.StatusBadRequest)
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(w, r, "failed to open uploaded file", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		writeError(w, r, "failed to read uploaded file", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}

	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	result, err := h.svc.ProcessUpload(r.Context(), app.UploadRequest{
		Filename: fh.Filename,
		MIMEType: mimeType,
		Data:     data,
	})
	if err != nil {
		writeUploadError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// writeUploadError maps the upload error taxonomy onto HTTP statuses.
func writeUploadError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, app.ErrInputRejected):
		writeError(w, r, err.Error(), "INPUT_REJECTED", http.StatusBadRequest)
	case errors.Is(err, app.ErrBusy):
		writeError(w, r, err.Error(), "EXTRACTION_IN_PROGRESS", http.StatusConflict)
	case errors.Is(err, extract.ErrNoData):
		writeError(w, r,
			"No data found in the file. Please ensure the file contains valid invoice information and try again.",
			"NO_DATA_FOUND", http.StatusUnprocessableEntity)
	case errors.Is(err, app.ErrExtractionFailed):
		writeError(w, r, err.Error(), "EXTRACTION_FAILED", http.StatusBadGateway)
	default:
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}

// listRecords handles GET /api/records.
func (h *Handler) listRecords(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Records(r.Context())
	if err != nil {
		writeError(w, r, "failed to load records", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, snap)
}

// editRecord handles POST /api/records/{kind} — the body is the full edited
// record. Edits referencing unknown IDs succeed with an unchanged snapshot.
func (h *Handler) editRecord(w http.ResponseWriter, r *http.Request) {
	kind := core.TableKind(chi.URLParam(r, "kind"))
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, r, "failed to read request body", "INPUT_REJECTED", http.StatusBadRequest)
		return
	}

	snap, err := h.svc.EditRecord(r.Context(), kind, payload)
	if err != nil {
		if errors.Is(err, app.ErrInputRejected) {
			writeError(w, r, err.Error(), "INPUT_REJECTED", http.StatusBadRequest)
			return
		}
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, snap)
}

// clearData handles POST /api/clear.
func (h *Handler) clearData(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearData(r.Context()); err != nil {
		writeError(w, r, "failed to clear data", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	snap, err := h.svc.Records(r.Context())
	if err != nil {
		writeError(w, r, "failed to load records", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, snap)
}
