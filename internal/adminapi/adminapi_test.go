package adminapi

import (
	"encoding/json"
	"testing"

	"github.com/valyala/fasthttp"

	"fischerblitz/internal/match"
)

func doRequest(t *testing.T, s *Server, uri string) *fasthttp.RequestCtx {
	t.Helper()
	var req fasthttp.Request
	req.SetRequestURI(uri)
	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	s.handle(ctx)
	return ctx
}

func TestHealthz(t *testing.T) {
	s := NewServer(match.NewRegistry(5), nil)
	ctx := doRequest(t, s, "/healthz")
	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("status = %d", ctx.Response.StatusCode())
	}
	if string(ctx.Response.Body()) != "ok" {
		t.Fatalf("body = %q", ctx.Response.Body())
	}
}

func TestStats(t *testing.T) {
	reg := match.NewRegistry(5)
	s := NewServer(reg, nil)

	ctx := doRequest(t, s, "/stats")
	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("status = %d", ctx.Response.StatusCode())
	}
	var stats statsResponse
	if err := json.Unmarshal(ctx.Response.Body(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.Rooms != 0 || stats.RoomsWaiting != 0 || stats.RoomsActive != 0 {
		t.Fatalf("stats = %+v, want empty registry", stats)
	}
}

func TestRecentUnconfigured(t *testing.T) {
	s := NewServer(match.NewRegistry(5), nil)
	ctx := doRequest(t, s, "/recent")
	if ctx.Response.StatusCode() != fasthttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", ctx.Response.StatusCode())
	}
}

func TestUnknownPath(t *testing.T) {
	s := NewServer(match.NewRegistry(5), nil)
	ctx := doRequest(t, s, "/nope")
	if ctx.Response.StatusCode() != fasthttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", ctx.Response.StatusCode())
	}
}
