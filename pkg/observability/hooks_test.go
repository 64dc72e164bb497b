package observability

import (
	"context"
	"testing"
	"time"
)

type testPipelineHooks struct {
	NoopPipelineHooks
	layoutStarts int
}

func (h *testPipelineHooks) OnLayoutStart(ctx context.Context, familyID string, individuals int) {
	h.layoutStarts++
}

type testCacheHooks struct {
	NoopCacheHooks
	hits int
}

func (h *testCacheHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.hits++
}

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnParseStart(ctx, "ped", "families.ped")
	p.OnParseComplete(ctx, "ped", "families.ped", 3, time.Second, nil)
	p.OnLayoutStart(ctx, "FAM01", 12)
	p.OnLayoutComplete(ctx, "FAM01", time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "pedigree")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)

	s := NoopServerHooks{}
	s.OnRequest(ctx, "GET", "/families/FAM01.svg")
	s.OnResponse(ctx, "GET", "/families/FAM01.svg", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should return NoopServerHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}
	Pipeline().OnLayoutStart(context.Background(), "FAM01", 5)
	if customPipeline.layoutStarts != 1 {
		t.Errorf("layout starts = %d, want 1", customPipeline.layoutStarts)
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	Cache().OnCacheHit(context.Background(), "layout")
	if customCache.hits != 1 {
		t.Errorf("cache hits = %d, want 1", customCache.hits)
	}

	// Nil registrations are ignored
	SetPipelineHooks(nil)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks(nil) should keep the current hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset should restore noop hooks")
	}
}
