// Package archive persists finished games: long-term rows with PGN in
// Postgres, plus a capped recent-results list in Redis. Both sinks are
// optional and failure never reaches the live session path.
package archive

import (
	"context"
	"time"

	"go.uber.org/zap"

	"fischerblitz/internal/match"
	"fischerblitz/internal/obslog"
)

// Archiver fans one finished-game record out to whichever sinks are
// configured. A zero Archiver is valid and does nothing.
type Archiver struct {
	repo  *Repository
	store *Store
}

func New(repo *Repository, store *Store) *Archiver {
	return &Archiver{repo: repo, store: store}
}

// Save writes the record to all sinks. Called from a room goroutine
// after the terminal broadcast, so it carries its own deadline.
func (a *Archiver) Save(rec match.GameRecord) {
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if a.repo != nil {
		if err := a.repo.SaveResult(ctx, rec); err != nil {
			obslog.L().Error("archive_db_save", zap.String("code", rec.Code), zap.Error(err))
		}
	}
	if a.store != nil {
		if err := a.store.PushRecent(ctx, rec); err != nil {
			obslog.L().Error("archive_redis_push", zap.String("code", rec.Code), zap.Error(err))
		}
	}
}

func (a *Archiver) Close() {
	if a == nil {
		return
	}
	if a.repo != nil {
		_ = a.repo.Close()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
}
