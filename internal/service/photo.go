package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/vroomauto/marketplace/internal/domain"
)

// Uploader is the slice of the object store the photo batch flow needs.
type Uploader interface {
	Upload(ctx context.Context, path string, content io.Reader, contentType string) (string, error)
}

// UploadFile is one selected file in an upload batch.
type UploadFile struct {
	Name        string
	ContentType string
	Content     io.Reader
}

// PhotoService uploads listing photos under a draft's client-generated ID.
type PhotoService struct {
	store Uploader
	log   *slog.Logger
}

// NewPhotoService constructs a PhotoService.
func NewPhotoService(store Uploader, log *slog.Logger) *PhotoService {
	return &PhotoService{store: store, log: log}
}

// UploadBatch uploads every file concurrently under a path namespaced by the
// draft's carID, which exists before any listing record does. A failure on
// one file does not abort the others: failures are logged and aggregated into
// a single warning string, and every success is returned in upload order.
// An empty warning means the whole batch succeeded.
func (s *PhotoService) UploadBatch(ctx context.Context, carID uuid.UUID, files []UploadFile) ([]domain.PhotoUpload, string) {
	type result struct {
		url string
		err error
	}
	results := make([]result, len(files))

	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f UploadFile) {
			defer wg.Done()
			path := fmt.Sprintf("cars/%s/%d-%s", carID, i, sanitizeFilename(f.Name))
			url, err := s.store.Upload(ctx, path, f.Content, f.ContentType)
			results[i] = result{url: url, err: err}
		}(i, f)
	}
	wg.Wait()

	var (
		uploads []domain.PhotoUpload
		failed  []string
	)
	for i, r := range results {
		if r.err != nil {
			s.log.Warn("photo upload failed", "car_id", carID, "file", files[i].Name, "error", r.err)
			failed = append(failed, files[i].Name)
			continue
		}
		uploads = append(uploads, domain.PhotoUpload{URL: r.url, Order: len(uploads)})
	}

	var warning string
	if len(failed) > 0 {
		warning = fmt.Sprintf("%d photo(s) could not be uploaded: %s", len(failed), strings.Join(failed, ", "))
	}
	return uploads, warning
}

// sanitizeFilename keeps storage paths predictable: spaces become dashes and
// path separators are dropped.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, " ", "-")
	name = strings.ReplaceAll(name, "/", "")
	name = strings.ReplaceAll(name, "\\", "")
	if name == "" {
		name = "photo"
	}
	return name
}
