package httpapi

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/streamsforlab/mediastore/internal/common"
	"github.com/streamsforlab/mediastore/internal/server/models"
	"github.com/streamsforlab/mediastore/internal/server/services"
)

// maxUploadMemory caps the multipart form memory before spilling to disk.
const maxUploadMemory = 32 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type downloadResponse struct {
	File string `json:"file"`
	Name string `json:"name"`
}

type storageUsedResponse struct {
	StorageUsed int64 `json:"storageUsed"`
}

type maxStorageResponse struct {
	MaxStoraged int64 `json:"maxStoraged"`
}

type deleteRequest struct {
	Files []string `json:"files"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// mapError translates service errors to HTTP statuses. ErrForbidden maps to
// 404, same as ErrNotFound, so responses never reveal whether somebody
// else's object exists.
func mapError(err error) int {
	switch {
	case errors.Is(err, common.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrNotFound), errors.Is(err, common.ErrForbidden):
		return http.StatusNotFound
	case errors.Is(err, common.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, common.ErrQuotaExceeded):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func (s *HTTPServer) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapError(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "method", r.Method,
			"url", r.URL.String(), "err", err)
	}
	writeError(w, status, err.Error())
}

func (s *HTTPServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requestAccount(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "malformed multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "reading upload failed")
		return
	}

	kind := models.KindFromContentType(header.Header.Get("Content-Type"))

	obj, err := s.storage.Ingest(r.Context(), accountID, kind, header.Filename,
		payload, int64(len(payload)))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, obj)
}

func (s *HTTPServer) handleList(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requestAccount(w, r)
	if !ok {
		return
	}

	kind, err := models.ParseKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := s.storage.List(r.Context(), accountID, kind)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func (s *HTTPServer) handleDownload(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requestAccount(w, r)
	if !ok {
		return
	}

	kind, err := models.ParseKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	obj, payload, err := s.storage.Download(r.Context(), accountID, kind, r.PathValue("id"))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, downloadResponse{
		File: base64.StdEncoding.EncodeToString(payload),
		Name: obj.Name,
	})
}

func (s *HTTPServer) handleDelete(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requestAccount(w, r)
	if !ok {
		return
	}

	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed delete request")
		return
	}

	results, err := s.storage.DeleteMany(r.Context(), accountID, req.Files)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	status := http.StatusOK
	for _, res := range results {
		if res.Outcome != services.OutcomeDeleted {
			status = http.StatusMultiStatus
			break
		}
	}

	writeJSON(w, status, results)
}

func (s *HTTPServer) handleStorageUsed(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requestAccount(w, r)
	if !ok {
		return
	}

	used, err := s.storage.UsedBytes(r.Context(), accountID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, storageUsedResponse{StorageUsed: used})
}

func (s *HTTPServer) handleMaxStorage(w http.ResponseWriter, r *http.Request) {
	if _, ok := accountFromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "missing token")
		return
	}

	writeJSON(w, http.StatusOK, maxStorageResponse{MaxStoraged: s.storage.MaxStorage()})
}

func (s *HTTPServer) handleProvision(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requestAccount(w, r)
	if !ok {
		return
	}

	if err := s.storage.ProvisionAccount(r.Context(), accountID); err != nil {
		s.serviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}
