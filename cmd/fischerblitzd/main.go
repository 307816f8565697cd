package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"fischerblitz/internal/adminapi"
	"fischerblitz/internal/archive"
	"fischerblitz/internal/config"
	"fischerblitz/internal/match"
	"fischerblitz/internal/msgcat"
	"fischerblitz/internal/obslog"
	"fischerblitz/internal/startpos"
	"fischerblitz/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = obslog.L().Sync() }()

	notices, err := msgcat.New()
	if err != nil {
		obslog.L().Fatal("message catalog init", zap.Error(err))
	}

	// optional persistence sinks
	var repo *archive.Repository
	if cfg.DatabaseURL != "" {
		repo, err = archive.NewRepository(cfg.DatabaseURL)
		if err != nil {
			obslog.L().Fatal("archive repository init", zap.Error(err))
		}
	}
	var store *archive.Store
	if cfg.RedisURL != "" {
		store, err = archive.NewStore(cfg.RedisURL)
		if err != nil {
			obslog.L().Fatal("archive store init", zap.Error(err))
		}
	}
	archiver := archive.New(repo, store)
	defer archiver.Close()

	reg := match.NewRegistry(cfg.RoomCodeLen)
	wsSrv := ws.NewServer(cfg.AllowedOrigins)
	disp := match.NewDispatcher(reg, wsSrv, match.DispatcherConfig{
		ClockSeconds: cfg.ClockSeconds,
		StartFEN:     startpos.FEN,
		Notices:      notices,
		Archive:      archiver.Save,
	})
	wsSrv.Attach(disp)

	mux := http.NewServeMux()
	mux.Handle("/ws", wsSrv)
	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		obslog.L().Info("listen", zap.String("addr", cfg.ListenAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			obslog.L().Fatal("http server", zap.Error(err))
		}
	}()

	var admin *adminapi.Server
	if cfg.AdminAddr != "" {
		admin = adminapi.NewServer(reg, store)
		go func() {
			if err := admin.ListenAndServe(cfg.AdminAddr); err != nil {
				obslog.L().Error("admin server", zap.Error(err))
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	obslog.L().Info("shutdown", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		obslog.L().Warn("http shutdown", zap.Error(err))
	}
	wsSrv.CloseAll()
	for _, room := range reg.Snapshot() {
		room.StopClock()
	}
	if admin != nil {
		_ = admin.Shutdown()
	}
}
