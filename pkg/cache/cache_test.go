package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want nil, false, nil", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	png := []byte("\x89PNG\r\n\x1a\nbinary\npayload")
	if err := c.Set(ctx, "render:png:abc", png, time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, hit, err := c.Get(ctx, "render:png:abc")
	if err != nil || !hit {
		t.Fatalf("Get = %v, %v; want hit", hit, err)
	}
	if string(got) != string(png) {
		t.Errorf("Get = %q, want %q", got, png)
	}

	if _, hit, _ := c.Get(ctx, "other"); hit {
		t.Error("Get(other) should miss")
	}

	if err := c.Delete(ctx, "render:png:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "render:png:abc"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "render:png:abc"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-time.Minute).Unix()
	if err := os.WriteFile(path, []byte(strconv.FormatInt(past, 10)+"\nstale"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("Get expired = %v, %v; want miss", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	path := c.path("k")
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	_ = os.WriteFile(path, []byte("no header"), 0o644)

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("Get corrupt = %v, %v; want miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Get after Clear should miss")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.ImageKey("https://example.com/a.png"); !strings.HasPrefix(got, "image:") {
		t.Errorf("ImageKey = %s, want image: prefix", got)
	}

	tests := []struct {
		name string
		a, b RenderKeyOpts
		same bool
	}{
		{"format differs", RenderKeyOpts{Format: "png"}, RenderKeyOpts{Format: "jpg"}, false},
		{"quality differs", RenderKeyOpts{Format: "jpg", Quality: 80}, RenderKeyOpts{Format: "jpg", Quality: 90}, false},
		{"jpeg alias", RenderKeyOpts{Format: "jpeg", Quality: 90}, RenderKeyOpts{Format: "jpg", Quality: 90}, true},
		{"font dir order", RenderKeyOpts{FontDirs: []string{"/a", "/b"}}, RenderKeyOpts{FontDirs: []string{"/b", "/a"}}, true},
		{"version differs", RenderKeyOpts{Version: "1"}, RenderKeyOpts{Version: "2"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := k.RenderKey("scene", tt.a), k.RenderKey("scene", tt.b)
			if (a == b) != tt.same {
				t.Errorf("RenderKey equal = %v, want %v (%s vs %s)", a == b, tt.same, a, b)
			}
		})
	}

	if k.RenderKey("s1", RenderKeyOpts{}) == k.RenderKey("s2", RenderKeyOpts{}) {
		t.Error("different scenes should produce different keys")
	}
}

func TestRenderKeyDoesNotMutateOpts(t *testing.T) {
	dirs := []string{"/b", "/a"}
	NewDefaultKeyer().RenderKey("s", RenderKeyOpts{FontDirs: dirs})
	if dirs[0] != "/b" {
		t.Errorf("FontDirs reordered: %v", dirs)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "prod:")
	if got := scoped.ImageKey("u"); !strings.HasPrefix(got, "prod:image:") {
		t.Errorf("ImageKey = %s", got)
	}
	if got := scoped.RenderKey("s", RenderKeyOpts{Format: "png"}); !strings.HasPrefix(got, "prod:render:png:") {
		t.Errorf("RenderKey = %s", got)
	}

	nilInner := NewScopedKeyer(nil, "x:")
	if got := nilInner.ImageKey("u"); got != "x:"+NewDefaultKeyer().ImageKey("u") {
		t.Errorf("nil inner ImageKey = %s", got)
	}
}

func TestBackoff(t *testing.T) {
	ctx := context.Background()
	fast := Backoff{Attempts: 3, Delay: time.Millisecond}
	transient := errors.New("connection reset")

	tests := []struct {
		name      string
		fails     int
		retryable bool
		wantCalls int
		wantErr   error
	}{
		{"success", 0, true, 1, nil},
		{"recovers", 2, true, 3, nil},
		{"exhausted", 5, true, 3, transient},
		{"permanent", 5, false, 1, transient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := fast.Do(ctx, func() error {
				calls++
				if calls <= tt.fails {
					if tt.retryable {
						return Retryable(transient)
					}
					return transient
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if err != tt.wantErr {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Backoff{Attempts: 3, Delay: time.Hour}.Do(ctx, func() error {
		return Retryable(errors.New("down"))
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	base := errors.New("boom")
	err := Retryable(base)
	if !IsRetryable(err) || !errors.Is(err, base) || err.Error() != "boom" {
		t.Errorf("Retryable wrapping broken: %v", err)
	}
	if IsRetryable(base) {
		t.Error("plain error should not be retryable")
	}
}
