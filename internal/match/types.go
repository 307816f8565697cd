// Package match is the session core: the room registry, the per-room
// state machine with its countdown clock, and the event dispatcher
// that drives both from transport events.
package match

import (
	"time"
)

// ConnID is an opaque connection handle minted by the transport.
type ConnID string

// Status is a room lifecycle state.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusActive   Status = "ACTIVE"
	StatusFinished Status = "FINISHED"
)

// Reportable rejection reasons; the error text doubles as the wire code.
var (
	ErrRoomNotFound  = errf("room_not_found")
	ErrRoomFull      = errf("room_full")
	ErrNotAPlayer    = errf("not_a_player")
	ErrNotYourTurn   = errf("not_your_turn")
	ErrGameNotActive = errf("game_not_active")
	ErrIllegalMove   = errf("illegal_move")
	ErrNoDrawOffer   = errf("no_draw_offer")
	ErrBadRequest    = errf("bad_request")
)

type staticErr string

func (e staticErr) Error() string { return string(e) }
func errf(s string) error         { return staticErr(s) }

// Sender delivers one outbound event to one connection.
type Sender interface {
	Send(id ConnID, event string, payload any)
}

// GameRecord is the snapshot of a finished game handed to the archive.
type GameRecord struct {
	Code      string
	Result    string
	Method    string
	Winner    string
	MovesSAN  []string
	FinalFEN  string
	StartedAt time.Time
	EndedAt   time.Time
}
