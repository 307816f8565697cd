// Package adminapi is the small ops surface: liveness, room counts,
// and recent results, served separately from the game endpoint.
package adminapi

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"fischerblitz/internal/archive"
	"fischerblitz/internal/match"
	"fischerblitz/internal/obslog"
)

type Server struct {
	reg     *match.Registry
	store   *archive.Store // optional
	started time.Time
	srv     *fasthttp.Server
}

func NewServer(reg *match.Registry, store *archive.Store) *Server {
	s := &Server{reg: reg, store: store, started: time.Now()}
	s.srv = &fasthttp.Server{
		Handler:      s.handle,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) ListenAndServe(addr string) error {
	obslog.L().Info("adminapi_listen", zap.String("addr", addr))
	return s.srv.ListenAndServe(addr)
}

func (s *Server) Shutdown() error {
	return s.srv.Shutdown()
}

func (s *Server) handle(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/healthz":
		s.handleHealth(ctx)
	case "/stats":
		s.handleStats(ctx)
	case "/recent":
		s.handleRecent(ctx)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	}
}

func (s *Server) handleHealth(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBodyString("ok")
}

type statsResponse struct {
	Rooms         int    `json:"rooms"`
	RoomsWaiting  int    `json:"rooms_waiting"`
	RoomsActive   int    `json:"rooms_active"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Now           string `json:"now"`
}

func (s *Server) handleStats(ctx *fasthttp.RequestCtx) {
	waiting, active := s.reg.Counts()
	writeJSON(ctx, statsResponse{
		Rooms:         s.reg.Len(),
		RoomsWaiting:  waiting,
		RoomsActive:   active,
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
		Now:           time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleRecent(ctx *fasthttp.RequestCtx) {
	if s.store == nil {
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		ctx.SetBodyString("recent results not configured")
		return
	}
	rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	recs, err := s.store.Recent(rctx, ctx.QueryArgs().GetUintOrZero("n"))
	if err != nil {
		obslog.L().Error("adminapi_recent", zap.Error(err))
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	writeJSON(ctx, recs)
}

func writeJSON(ctx *fasthttp.RequestCtx, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json; charset=utf-8")
	ctx.SetBody(raw)
}
