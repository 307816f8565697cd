package archive

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"fischerblitz/internal/match"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })
	s, err := NewStore(fmt.Sprintf("redis://%s/0", mr.Addr()))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleRecord(code string) match.GameRecord {
	started := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	return match.GameRecord{
		Code:      code,
		Result:    "checkmate",
		Method:    "checkmate",
		Winner:    "black",
		MovesSAN:  []string{"f3", "e5", "g4", "Qh4#"},
		FinalFEN:  "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3",
		StartedAt: started,
		EndedAt:   started.Add(90 * time.Second),
	}
}

func TestStoreRecentRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.PushRecent(ctx, sampleRecord("AAAAA")); err != nil {
		t.Fatalf("PushRecent: %v", err)
	}
	if err := s.PushRecent(ctx, sampleRecord("BBBBB")); err != nil {
		t.Fatalf("PushRecent: %v", err)
	}

	recs, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("recent len = %d, want 2", len(recs))
	}
	if recs[0].Code != "BBBBB" || recs[1].Code != "AAAAA" {
		t.Fatalf("order = %s,%s, want newest first", recs[0].Code, recs[1].Code)
	}
	if recs[0].Winner != "black" || len(recs[0].MovesSAN) != 4 {
		t.Fatalf("record did not survive roundtrip: %+v", recs[0])
	}
}

func TestStoreRecentCap(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < recentCap+10; i++ {
		if err := s.PushRecent(ctx, sampleRecord(fmt.Sprintf("R%04d", i))); err != nil {
			t.Fatalf("PushRecent: %v", err)
		}
	}
	recs, err := s.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recs) != recentCap {
		t.Fatalf("recent len = %d, want cap %d", len(recs), recentCap)
	}
	if recs[0].Code != fmt.Sprintf("R%04d", recentCap+9) {
		t.Fatalf("head = %s, want newest push", recs[0].Code)
	}
}

func TestBuildPGN(t *testing.T) {
	rec := sampleRecord("CCCCC")
	pgn := buildPGN(rec, mapResultToPGN(rec))

	for _, want := range []string{
		"[Event \"FischerBlitz\"]",
		"[Round \"CCCCC\"]",
		"[Date \"2026.03.14\"]",
		"[Termination \"checkmate\"]",
		"[Result \"0-1\"]",
		"1. f3 e5 2. g4 Qh4# 0-1",
	} {
		if !strings.Contains(pgn, want) {
			t.Fatalf("pgn missing %q:\n%s", want, pgn)
		}
	}
}

func TestMapResultToPGN(t *testing.T) {
	cases := []struct {
		winner, result, want string
	}{
		{"white", "checkmate", "1-0"},
		{"black", "timeout", "0-1"},
		{"", "draw", "1/2-1/2"},
		{"", "abandoned", "*"},
	}
	for _, c := range cases {
		rec := match.GameRecord{Winner: c.winner, Result: c.result}
		if got := mapResultToPGN(rec); got != c.want {
			t.Fatalf("mapResultToPGN(%s/%s) = %q, want %q", c.winner, c.result, got, c.want)
		}
	}
}
