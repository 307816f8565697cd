package rules

import "testing"

func TestApplyMoveAndTurn(t *testing.T) {
	p, err := NewPosition("")
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	if p.Turn() != White {
		t.Fatalf("expected white to move first, got %s", p.Turn())
	}
	san, err := p.ApplyMove("e2", "e4", "")
	if err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if san != "e4" {
		t.Fatalf("unexpected SAN: %q", san)
	}
	if p.Turn() != Black {
		t.Fatalf("turn did not flip: %s", p.Turn())
	}
}

func TestIllegalMoveLeavesStateUnchanged(t *testing.T) {
	p, err := NewPosition("")
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	before := p.FEN()
	if _, err := p.ApplyMove("e2", "e5", ""); err != ErrIllegalMove {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}
	if _, err := p.ApplyMove("xx", "yy", ""); err != ErrIllegalMove {
		t.Fatalf("expected ErrIllegalMove on garbage squares, got %v", err)
	}
	if p.FEN() != before || p.Turn() != White {
		t.Fatalf("state changed after rejected move")
	}
}

func TestCheckmateVerdict(t *testing.T) {
	p, err := NewPosition("")
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	moves := [][2]string{{"f2", "f3"}, {"e7", "e5"}, {"g2", "g4"}, {"d8", "h4"}}
	for _, mv := range moves {
		if _, err := p.ApplyMove(mv[0], mv[1], ""); err != nil {
			t.Fatalf("ApplyMove %v: %v", mv, err)
		}
	}
	v := p.Status()
	if !v.Over || v.Result != "checkmate" || v.Winner != Black {
		t.Fatalf("expected black checkmate, got %+v", v)
	}
}

func TestStalemateVerdict(t *testing.T) {
	p, err := NewPosition("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	v := p.Status()
	if !v.Over || v.Result != "stalemate" || v.Winner != "" {
		t.Fatalf("expected stalemate, got %+v", v)
	}
}

func TestPromotion(t *testing.T) {
	p, err := NewPosition("8/P6k/8/8/8/8/7K/8 w - - 0 1")
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	san, err := p.ApplyMove("a7", "a8", "q")
	if err != nil {
		t.Fatalf("promotion rejected: %v", err)
	}
	if san == "" {
		t.Fatalf("empty SAN for promotion")
	}
}

func TestOngoingVerdict(t *testing.T) {
	p, err := NewPosition("")
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	if v := p.Status(); v.Over {
		t.Fatalf("fresh game reported over: %+v", v)
	}
}
