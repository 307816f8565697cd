package match

import (
	"crypto/rand"
	"fmt"
	"sync"
)

// Excludes lookalike characters; codes are read aloud and retyped.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Registry is the concurrent code→Room collection. It is the sole
// owner of room lifetimes: nothing else inserts or deletes entries.
type Registry struct {
	mu      sync.RWMutex
	rooms   map[string]*Room
	codeLen int
}

func NewRegistry(codeLen int) *Registry {
	if codeLen <= 0 {
		codeLen = 5
	}
	return &Registry{rooms: make(map[string]*Room), codeLen: codeLen}
}

// Create allocates a collision-checked code, builds the room under the
// registry lock, and inserts it.
func (g *Registry) Create(build func(code string) *Room) (*Room, error) {
	for i := 0; i < 5; i++ {
		code, err := genCode(g.codeLen)
		if err != nil {
			return nil, err
		}
		g.mu.Lock()
		if _, exists := g.rooms[code]; exists {
			g.mu.Unlock()
			continue
		}
		room := build(code)
		g.rooms[code] = room
		g.mu.Unlock()
		return room, nil
	}
	return nil, fmt.Errorf("failed to allocate room code")
}

func (g *Registry) Get(code string) (*Room, error) {
	g.mu.RLock()
	room, ok := g.rooms[code]
	g.mu.RUnlock()
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Remove is idempotent; removing an unknown code is a no-op.
func (g *Registry) Remove(code string) {
	g.mu.Lock()
	delete(g.rooms, code)
	g.mu.Unlock()
}

// Snapshot copies the live room set. Callers then take per-room locks
// without the registry lock held.
func (g *Registry) Snapshot() []*Room {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Room, 0, len(g.rooms))
	for _, r := range g.rooms {
		out = append(out, r)
	}
	return out
}

func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

// Counts reports live rooms by state for the ops surface.
func (g *Registry) Counts() (waiting, active int) {
	for _, r := range g.Snapshot() {
		switch r.State().Status {
		case StatusWaiting:
			waiting++
		case StatusActive:
			active++
		}
	}
	return waiting, active
}

func genCode(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b), nil
}
