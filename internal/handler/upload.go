package handler

import (
	"errors"
	"net/http"

	"github.com/fittrack/fittrack/internal/ctxkeys"
	"github.com/fittrack/fittrack/internal/service"
	"github.com/fittrack/fittrack/internal/validation"
)

type UploadHandler struct {
	fileService *service.FileService
}

func NewUploadHandler(fileService *service.FileService) *UploadHandler {
	return &UploadHandler{fileService: fileService}
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	// Room for the largest image plus multipart overhead
	r.Body = http.MaxBytesReader(w, r.Body, validation.ImageConstraints.MaxSize+(1<<20))

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer func() { _ = file.Close() }()

	record, url, err := h.fileService.Upload(r.Context(), user.ID, file, header)
	if err != nil {
		if errors.Is(err, service.ErrStorageNotConfigured) {
			writeError(w, http.StatusInternalServerError, "storage not configured")
			return
		}
		writeServiceError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"url":      url,
		"publicId": record.StoragePath,
	})
}

func (h *UploadHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	files, err := h.fileService.Files(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, files)
}

func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.fileService.Delete(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "File not found or unauthorized")
		return
	}

	writeMessage(w, http.StatusOK, "File deleted successfully")
}
