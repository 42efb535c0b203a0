package storage

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// PlaceholderURL is substituted for any photo whose signed URL cannot be
// resolved. Readers get a generic image instead of an error.
const PlaceholderURL = "/images/car-placeholder.jpg"

// Signer is the subset of ObjectStore the resolver needs.
type Signer interface {
	SignURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}

// Resolver turns stored photo references into signed URLs.
//
// Successful resolutions are cached for the lifetime of the Resolver, keyed
// by the original stored reference, so repeated renders of the same photo do
// not re-issue signing requests. There is no eviction: entries can outlive
// the provider's 1-hour URL expiry, a documented staleness window accepted
// by scoping the Resolver to a session rather than the process.
type Resolver struct {
	signer       Signer
	publicPrefix string // stored-reference prefix, stripped before signing
	bucket       string
	log          *slog.Logger

	mu    sync.Mutex
	cache map[string]string
}

// NewResolver constructs a Resolver over the given signer.
// publicPrefix and bucket describe the shape of stored references, e.g.
// "https://xyz.supabase.co/storage/v1/object/public/" and "car-photos".
func NewResolver(signer Signer, publicPrefix, bucket string, log *slog.Logger) *Resolver {
	return &Resolver{
		signer:       signer,
		publicPrefix: publicPrefix,
		bucket:       bucket,
		log:          log,
		cache:        make(map[string]string),
	}
}

// Resolve returns a signed URL for a stored photo reference. On any
// resolution error it returns PlaceholderURL rather than propagating the
// error; the failure is logged and the next call retries.
func (r *Resolver) Resolve(ctx context.Context, stored string) string {
	if stored == "" {
		return PlaceholderURL
	}

	r.mu.Lock()
	if signed, ok := r.cache[stored]; ok {
		r.mu.Unlock()
		return signed
	}
	r.mu.Unlock()

	signed, err := r.signer.SignURL(ctx, r.RelativePath(stored), SignedURLTTL)
	if err != nil {
		r.log.Warn("signed URL resolution failed", "stored", stored, "error", err)
		return PlaceholderURL
	}

	r.mu.Lock()
	r.cache[stored] = signed
	r.mu.Unlock()
	return signed
}

// RelativePath strips the public-URL prefix and the bucket-name prefix from
// a stored reference, yielding the bucket-relative object path the signing
// endpoint expects. References that are already relative pass through.
func (r *Resolver) RelativePath(stored string) string {
	p := strings.TrimPrefix(stored, r.publicPrefix)
	p = strings.TrimPrefix(p, r.bucket+"/")
	return strings.TrimPrefix(p, "/")
}
