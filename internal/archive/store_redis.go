package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"fischerblitz/internal/match"
)

const (
	keyRecent = "fb:recent"
	recentCap = 50
	ttlRecent = 24 * time.Hour
)

// Store keeps a capped list of recent results in Redis for the ops
// surface.
type Store struct {
	rdb *redis.Client
}

func NewStore(redisURL string) (*Store, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}
	opts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Store{rdb: rdb}, nil
}

func (s *Store) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

// PushRecent prepends the record and trims the list to its cap.
func (s *Store) PushRecent(ctx context.Context, rec match.GameRecord) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := s.rdb.LPush(ctx, keyRecent, raw).Err(); err != nil {
		return err
	}
	if err := s.rdb.LTrim(ctx, keyRecent, 0, recentCap-1).Err(); err != nil {
		return err
	}
	return s.rdb.Expire(ctx, keyRecent, ttlRecent).Err()
}

// Recent returns up to n most recent records, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]match.GameRecord, error) {
	if s == nil || s.rdb == nil {
		return nil, nil
	}
	if n <= 0 || n > recentCap {
		n = recentCap
	}
	raws, err := s.rdb.LRange(ctx, keyRecent, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]match.GameRecord, 0, len(raws))
	for _, raw := range raws {
		var rec match.GameRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			db = n
		}
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: u.Host, Password: pass, DB: db}, nil
}
