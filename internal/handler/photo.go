package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vroomauto/marketplace/internal/domain"
	"github.com/vroomauto/marketplace/internal/service"
)

// uploadResponse reports the batch outcome: every successful upload in order,
// plus one aggregated warning when some files failed. Partial success is a
// 200 — per-file failures never fail the batch.
type uploadResponse struct {
	Photos  []domain.PhotoUpload `json:"photos"`
	Warning string               `json:"warning,omitempty"`
}

// UploadPhotos handles POST /api/listings/photos.
// Multipart form: "carId" is the draft's client-generated UUID; "photos"
// carries one or more files. Uploads run concurrently; the response lists
// what made it.
func (s *Server) UploadPhotos(w http.ResponseWriter, r *http.Request) {
	// 32 MB in memory; larger parts spill to temp files.
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "request is not valid multipart form data")
		return
	}

	carID, err := uuid.Parse(r.FormValue("carId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "carId must be a UUID")
		return
	}

	fileHeaders := r.MultipartForm.File["photos"]
	if len(fileHeaders) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "at least one photo file is required")
		return
	}

	files := make([]service.UploadFile, 0, len(fileHeaders))
	opened := make([]interface{ Close() error }, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "could not read uploaded file "+fh.Filename)
			for _, c := range opened {
				c.Close()
			}
			return
		}
		opened = append(opened, f)
		files = append(files, service.UploadFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     f,
		})
	}
	defer func() {
		for _, c := range opened {
			c.Close()
		}
	}()

	photos, warning := s.photos.UploadBatch(r.Context(), carID, files)
	if photos == nil {
		photos = []domain.PhotoUpload{}
	}

	writeJSON(w, http.StatusOK, uploadResponse{Photos: photos, Warning: warning})
}
