// Package storage uploads listing photos to the hosted object store and
// resolves their private references to time-limited signed URLs.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SignedURLTTL is the validity window requested for every signed URL.
const SignedURLTTL = 3600 * time.Second

// ObjectStore is the interface the photo flows depend on; Client is the
// production implementation.
type ObjectStore interface {
	// Upload stores content under path inside the bucket and returns the
	// stored reference (the provider's public-style object URL, which is not
	// actually publicly readable).
	Upload(ctx context.Context, path string, content io.Reader, contentType string) (string, error)

	// SignURL issues a signed URL for the bucket-relative path, valid for ttl.
	SignURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}

// Client talks to a Supabase-style storage REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string // e.g. "https://xyz.supabase.co/storage/v1"
	apiKey     string
	bucket     string
}

// NewClient constructs a storage Client for one bucket.
func NewClient(baseURL, apiKey, bucket string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		bucket:     bucket,
	}
}

// Bucket returns the bucket name the client writes to.
func (c *Client) Bucket() string { return c.bucket }

// PublicPrefix returns the prefix of stored references produced by Upload.
// The resolver strips it to recover the bucket-relative path.
func (c *Client) PublicPrefix() string {
	return c.baseURL + "/object/public/"
}

// Upload stores one object and returns its stored reference.
func (c *Client) Upload(ctx context.Context, path string, content io.Reader, contentType string) (string, error) {
	url := fmt.Sprintf("%s/object/%s/%s", c.baseURL, c.bucket, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, content)
	if err != nil {
		return "", fmt.Errorf("storage.Client.Upload: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage.Client.Upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("storage.Client.Upload: store returned %d: %s", resp.StatusCode, raw)
	}

	return fmt.Sprintf("%s%s/%s", c.PublicPrefix(), c.bucket, path), nil
}

// SignURL requests a signed URL for a bucket-relative object path.
func (c *Client) SignURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	url := fmt.Sprintf("%s/object/sign/%s/%s", c.baseURL, c.bucket, path)

	body, err := json.Marshal(map[string]int{"expiresIn": int(ttl.Seconds())})
	if err != nil {
		return "", fmt.Errorf("storage.Client.SignURL: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("storage.Client.SignURL: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage.Client.SignURL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("storage.Client.SignURL: store returned %d: %s", resp.StatusCode, raw)
	}

	var out struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("storage.Client.SignURL: decode response: %w", err)
	}

	return c.baseURL + out.SignedURL, nil
}
