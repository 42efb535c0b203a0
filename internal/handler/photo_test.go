package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vroomauto/marketplace/internal/domain"
	"github.com/vroomauto/marketplace/internal/handler"
	"github.com/vroomauto/marketplace/internal/service"
)

func photoServer(photos *mockPhotoServicer) http.Handler {
	return handler.NewServer(nil, photos, nil, nil, nil).Routes()
}

// multipartBody builds a "carId" field plus one "photos" part per filename.
func multipartBody(t *testing.T, carID string, filenames ...string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if carID != "" {
		require.NoError(t, mw.WriteField("carId", carID))
	}
	for _, name := range filenames {
		part, err := mw.CreateFormFile("photos", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("jpeg-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadPhotos_ok(t *testing.T) {
	carID := uuid.New()
	var gotCarID uuid.UUID
	var gotNames []string
	photos := &mockPhotoServicer{
		uploadBatchFunc: func(_ context.Context, id uuid.UUID, files []service.UploadFile) ([]domain.PhotoUpload, string) {
			gotCarID = id
			for _, f := range files {
				gotNames = append(gotNames, f.Name)
				// File content must be readable at upload time.
				b, err := io.ReadAll(f.Content)
				require.NoError(t, err)
				assert.Equal(t, "jpeg-bytes", string(b))
			}
			return []domain.PhotoUpload{
				{URL: "stored/0-front.jpg", Order: 0},
				{URL: "stored/1-rear.jpg", Order: 1},
			}, ""
		},
	}

	body, contentType := multipartBody(t, carID.String(), "front.jpg", "rear.jpg")
	req := httptest.NewRequest(http.MethodPost, "/api/listings/photos", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	photoServer(photos).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, carID, gotCarID)
	assert.Equal(t, []string{"front.jpg", "rear.jpg"}, gotNames)

	var resp struct {
		Photos  []domain.PhotoUpload `json:"photos"`
		Warning string               `json:"warning"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Photos, 2)
	assert.Empty(t, resp.Warning)
}

func TestUploadPhotos_partialFailureStillOK(t *testing.T) {
	photos := &mockPhotoServicer{
		uploadBatchFunc: func(context.Context, uuid.UUID, []service.UploadFile) ([]domain.PhotoUpload, string) {
			return []domain.PhotoUpload{{URL: "stored/0-front.jpg", Order: 0}},
				"1 photo(s) could not be uploaded: rear.jpg"
		},
	}

	body, contentType := multipartBody(t, uuid.NewString(), "front.jpg", "rear.jpg")
	req := httptest.NewRequest(http.MethodPost, "/api/listings/photos", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	photoServer(photos).ServeHTTP(rec, req)

	// Partial success is still a 200 with a warning, never an error status.
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rear.jpg")
}

func TestUploadPhotos_badCarID(t *testing.T) {
	body, contentType := multipartBody(t, "not-a-uuid", "front.jpg")
	req := httptest.NewRequest(http.MethodPost, "/api/listings/photos", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	photoServer(&mockPhotoServicer{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "carId must be a UUID")
}

func TestUploadPhotos_noFilesIs422(t *testing.T) {
	body, contentType := multipartBody(t, uuid.NewString())
	req := httptest.NewRequest(http.MethodPost, "/api/listings/photos", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	photoServer(&mockPhotoServicer{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "at least one photo file is required")
}

func TestUploadPhotos_notMultipartIs400(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/listings/photos", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	photoServer(&mockPhotoServicer{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
