package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopRenderHooks{}
	r.OnRenderStart(ctx, "card", "png")
	r.OnImageLoad(ctx, "https://example.com/logo.png", time.Millisecond, nil)
	r.OnRenderComplete(ctx, "card", "png", 12, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "render")
	c.OnCacheMiss(ctx, "render")
	c.OnCacheSet(ctx, "render", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "example.com", "/logo.png")
	h.OnResponse(ctx, "GET", "example.com", "/logo.png", 200, time.Second)
	h.OnError(ctx, "GET", "example.com", "/logo.png", errors.New("timeout"))
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Render() should return NoopRenderHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customRender := &testRenderHooks{}
	SetRenderHooks(customRender)
	if Render() != customRender {
		t.Error("SetRenderHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Reset() should restore NoopRenderHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	custom := &testRenderHooks{}
	SetRenderHooks(custom)
	SetRenderHooks(nil)

	if Render() != custom {
		t.Error("SetRenderHooks(nil) should be ignored")
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	custom := &testRenderHooks{}
	SetRenderHooks(custom)
	Render().OnImageLoad(context.Background(), "a.png", 0, nil)
	Render().OnImageLoad(context.Background(), "b.png", 0, errors.New("404"))

	if len(custom.loads) != 2 || custom.loads[1] != "b.png" {
		t.Errorf("loads = %v, want [a.png b.png]", custom.loads)
	}
}

type testRenderHooks struct {
	NoopRenderHooks
	loads []string
}

func (h *testRenderHooks) OnImageLoad(_ context.Context, src string, _ time.Duration, _ error) {
	h.loads = append(h.loads, src)
}

type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
