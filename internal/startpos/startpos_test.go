package startpos

import (
	"strings"
	"testing"
)

func TestBackrankConstraints(t *testing.T) {
	for i := 0; i < 200; i++ {
		rank := Backrank()
		if len(rank) != 8 {
			t.Fatalf("bad rank length: %q", rank)
		}
		var bishops, rooks []int
		king := -1
		for idx, c := range rank {
			switch c {
			case 'b':
				bishops = append(bishops, idx)
			case 'r':
				rooks = append(rooks, idx)
			case 'k':
				king = idx
			}
		}
		if len(bishops) != 2 || len(rooks) != 2 || king < 0 {
			t.Fatalf("bad piece set: %q", rank)
		}
		if bishops[0]%2 == bishops[1]%2 {
			t.Fatalf("bishops on same color: %q", rank)
		}
		if !(rooks[0] < king && king < rooks[1]) {
			t.Fatalf("king not between rooks: %q", rank)
		}
	}
}

func TestFENShape(t *testing.T) {
	fen := FEN()
	parts := strings.Split(fen, " ")
	if len(parts) != 6 {
		t.Fatalf("bad FEN field count: %q", fen)
	}
	if parts[1] != "w" || parts[2] != "-" {
		t.Fatalf("expected white to move with no castling rights: %q", fen)
	}
	ranks := strings.Split(parts[0], "/")
	if len(ranks) != 8 {
		t.Fatalf("bad rank count: %q", fen)
	}
	if ranks[0] != strings.ToLower(ranks[7]) {
		t.Fatalf("backranks not mirrored: %q vs %q", ranks[0], ranks[7])
	}
	if ranks[1] != "pppppppp" || ranks[6] != "PPPPPPPP" {
		t.Fatalf("pawn ranks not standard: %q", fen)
	}
}
