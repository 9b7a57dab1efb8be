package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/canvasrender/pkg/buildinfo"
	"github.com/matzehuels/canvasrender/pkg/cache"
	errs "github.com/matzehuels/canvasrender/pkg/errors"
	"github.com/matzehuels/canvasrender/pkg/observability"
)

// Fetch defaults.
const (
	DefaultAttempts  = 3
	DefaultDelay     = 500 * time.Millisecond
	DefaultTimeout   = 30 * time.Second
	DefaultMaxBytes  = 32 << 20
	DefaultSharedTTL = 24 * time.Hour
)

// Fetcher downloads remote resources.
type Fetcher struct {
	Client *http.Client
	Cache  *Cache // nil disables caching
	Logger *log.Logger

	// Shared is an optional second-level cache, typically Redis, consulted
	// after Cache so several servers fetch each URL once.
	Shared    cache.Cache
	Keyer     cache.Keyer
	SharedTTL time.Duration

	Attempts int
	Delay    time.Duration
	MaxBytes int64
}

// NewFetcher returns a Fetcher with default limits. cache may be nil.
func NewFetcher(cache *Cache) *Fetcher {
	return &Fetcher{
		Client:   &http.Client{Timeout: DefaultTimeout},
		Cache:    cache,
		Logger:   log.New(io.Discard),
		Attempts: DefaultAttempts,
		Delay:    DefaultDelay,
		MaxBytes: DefaultMaxBytes,
	}
}

// Fetch returns the body of an http(s) URL. A fresh cache entry is returned
// without a request; a stale one is used only if the request fails.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := errs.ValidateURL(rawURL); err != nil {
		return nil, err
	}

	var stale []byte
	if f.Cache != nil {
		data, err := f.Cache.Get(rawURL)
		switch {
		case err == nil && data != nil:
			f.Logger.Debug("image cache hit", "url", rawURL)
			return data, nil
		case errors.Is(err, ErrExpired):
			stale = data
		case err != nil:
			f.Logger.Warn("image cache read failed", "url", rawURL, "error", err)
		}
	}

	if data, ok := f.sharedGet(ctx, rawURL); ok {
		f.store(rawURL, data)
		return data, nil
	}

	var body []byte
	err := Retry(ctx, f.Attempts, f.Delay, func() error {
		b, err := f.get(ctx, rawURL)
		body = b
		return err
	})
	if err != nil {
		if stale != nil && errs.Is(err, errs.ErrCodeNetwork) {
			f.Logger.Warn("using stale image after fetch failure", "url", rawURL, "error", err)
			return stale, nil
		}
		return nil, err
	}

	f.store(rawURL, body)
	f.sharedSet(ctx, rawURL, body)
	return body, nil
}

func (f *Fetcher) store(rawURL string, body []byte) {
	if f.Cache == nil {
		return
	}
	if err := f.Cache.Set(rawURL, body); err != nil {
		f.Logger.Warn("image cache write failed", "url", rawURL, "error", err)
	}
}

func (f *Fetcher) sharedKey(rawURL string) string {
	if f.Keyer == nil {
		return cache.NewDefaultKeyer().ImageKey(rawURL)
	}
	return f.Keyer.ImageKey(rawURL)
}

func (f *Fetcher) sharedGet(ctx context.Context, rawURL string) ([]byte, bool) {
	if f.Shared == nil {
		return nil, false
	}
	data, hit, err := f.Shared.Get(ctx, f.sharedKey(rawURL))
	if err != nil {
		f.Logger.Warn("shared image cache read failed", "url", rawURL, "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "image")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "image")
	return data, true
}

func (f *Fetcher) sharedSet(ctx context.Context, rawURL string, body []byte) {
	if f.Shared == nil {
		return
	}
	ttl := f.SharedTTL
	if ttl <= 0 {
		ttl = DefaultSharedTTL
	}
	if err := f.Shared.Set(ctx, f.sharedKey(rawURL), body, ttl); err != nil {
		f.Logger.Warn("shared image cache write failed", "url", rawURL, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "image", len(body))
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	u, _ := url.Parse(rawURL)
	hooks := observability.HTTP()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "fetch %s", rawURL)
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	start := time.Now()
	resp, err := f.client().Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Err: errs.Wrap(errs.ErrCodeNetwork, err, "fetch %s", rawURL)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errs.New(errs.ErrCodeNotFound, "fetch %s: %s", rawURL, resp.Status)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &RetryableError{Err: errs.New(errs.ErrCodeNetwork, "fetch %s: %s", rawURL, resp.Status)}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, errs.New(errs.ErrCodeNetwork, "fetch %s: %s", rawURL, resp.Status)
	}

	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, &RetryableError{Err: errs.Wrap(errs.ErrCodeNetwork, err, "read %s", rawURL)}
	}
	if int64(len(body)) > limit {
		return nil, errs.New(errs.ErrCodeInvalidInput, "fetch %s: body exceeds %s", rawURL, byteSize(limit))
	}
	return body, nil
}

func (f *Fetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return http.DefaultClient
}

func byteSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%dMiB", n>>20)
	case n >= 1<<10:
		return fmt.Sprintf("%dKiB", n>>10)
	}
	return fmt.Sprintf("%dB", n)
}
