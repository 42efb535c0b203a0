package storage_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vroomauto/marketplace/internal/storage"
)

func TestUpload_storesObjectAndReturnsReference(t *testing.T) {
	var gotPath, gotAuth, gotContentType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Write([]byte(`{"Key":"car-photos/cars/abc/0-front.jpg"}`))
	}))
	defer srv.Close()

	c := storage.NewClient(srv.URL, "service-key", "car-photos")

	ref, err := c.Upload(context.Background(), "cars/abc/0-front.jpg", strings.NewReader("jpeg-bytes"), "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "/object/car-photos/cars/abc/0-front.jpg", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "image/jpeg", gotContentType)
	assert.Equal(t, "jpeg-bytes", gotBody)
	assert.Equal(t, srv.URL+"/object/public/car-photos/cars/abc/0-front.jpg", ref)
}

func TestUpload_storeErrorSurfacesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"bucket not found"}`))
	}))
	defer srv.Close()

	c := storage.NewClient(srv.URL, "key", "missing-bucket")

	_, err := c.Upload(context.Background(), "a.jpg", strings.NewReader("x"), "image/jpeg")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "bucket not found")
}

func TestSignURL_requestsExpiryAndJoinsResult(t *testing.T) {
	var gotPath string
	var gotBody map[string]int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"signedURL":"/object/sign/car-photos/cars/abc/0-front.jpg?token=tkn"}`))
	}))
	defer srv.Close()

	c := storage.NewClient(srv.URL, "key", "car-photos")

	signed, err := c.SignURL(context.Background(), "cars/abc/0-front.jpg", storage.SignedURLTTL)
	require.NoError(t, err)

	assert.Equal(t, "/object/sign/car-photos/cars/abc/0-front.jpg", gotPath)
	assert.Equal(t, 3600, gotBody["expiresIn"])
	assert.Equal(t, srv.URL+"/object/sign/car-photos/cars/abc/0-front.jpg?token=tkn", signed)
}

func TestSignURL_storeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"object not found"}`))
	}))
	defer srv.Close()

	c := storage.NewClient(srv.URL, "key", "car-photos")

	_, err := c.SignURL(context.Background(), "cars/nope.jpg", storage.SignedURLTTL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "object not found")
}
