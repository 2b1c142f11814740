package handler

import (
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const maxUploadSize = 10 << 20 // 10 MiB

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadHandler stores question images on disk and returns their public URL
type UploadHandler struct {
	dir string
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(dir string) *UploadHandler {
	return &UploadHandler{dir: dir}
}

// Upload handles POST /v1/uploads. The content type is sniffed from the
// payload itself, not trusted from the multipart header.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "unreadable file")
		return
	}

	ext, ok := allowedImageTypes[http.DetectContentType(head[:n])]
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid file type")
		return
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(h.dir, name))
	if err != nil {
		log.Printf("upload create failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store file")
		return
	}
	defer dst.Close()

	if _, err := dst.Write(head[:n]); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store file")
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"imageUrl": "/uploads/" + name})
}
