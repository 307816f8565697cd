package msgcat

import (
	"strings"
	"testing"
)

func TestEmbeddedCatalogLoads(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s, err := c.Render("game_over.checkmate", map[string]string{"Winner": "white"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(s, "white wins") {
		t.Fatalf("unexpected render: %q", s)
	}
}

func TestUnknownKey(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Render("no.such.key", nil); err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if got := c.MustRender("no.such.key", nil); got != "no.such.key" {
		t.Fatalf("MustRender fallback mismatch: %q", got)
	}
}

func TestStaticKeys(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, key := range []string{"opponent.left", "game_over.stalemate", "game_over.draw", "draw.rejected"} {
		if _, err := c.Render(key, nil); err != nil {
			t.Fatalf("Render(%s): %v", key, err)
		}
	}
}
