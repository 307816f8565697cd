package match

import (
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"fischerblitz/internal/msgcat"
	"fischerblitz/internal/obslog"
	"fischerblitz/internal/rules"
	"fischerblitz/internal/startpos"
	"fischerblitz/pkg/wire"
)

// DispatcherConfig carries the knobs the dispatcher needs beyond its
// registry and sender.
type DispatcherConfig struct {
	ClockSeconds int
	StartFEN     func() string    // defaults to startpos.FEN
	Notices      *msgcat.Catalog  // optional
	Archive      func(GameRecord) // optional
}

// Dispatcher translates inbound events into registry/room operations
// and unicasts the direct responses. Room-level broadcasts happen
// inside the room itself.
type Dispatcher struct {
	reg          *Registry
	sender       Sender
	notices      *msgcat.Catalog
	clockSeconds int
	startFEN     func() string
	archive      func(GameRecord)
}

func NewDispatcher(reg *Registry, sender Sender, cfg DispatcherConfig) *Dispatcher {
	d := &Dispatcher{
		reg:          reg,
		sender:       sender,
		notices:      cfg.Notices,
		clockSeconds: cfg.ClockSeconds,
		startFEN:     cfg.StartFEN,
		archive:      cfg.Archive,
	}
	if d.clockSeconds <= 0 {
		d.clockSeconds = 300
	}
	if d.startFEN == nil {
		d.startFEN = startpos.FEN
	}
	return d
}

// Dispatch routes one inbound envelope. Every failure is a reported
// error event back to the caller, never a dropped connection.
func (d *Dispatcher) Dispatch(conn ConnID, env wire.Envelope) {
	switch env.Event {
	case wire.EvCreateRoom:
		d.handleCreate(conn)
	case wire.EvJoinRoom:
		var p wire.JoinRoomPayload
		if !d.decode(conn, env, &p) {
			return
		}
		d.handleJoin(conn, p.Code)
	case wire.EvMove:
		var p wire.MovePayload
		if !d.decode(conn, env, &p) {
			return
		}
		d.handleMove(conn, p)
	case wire.EvResign, wire.EvOfferDraw, wire.EvAcceptDraw, wire.EvRejectDraw, wire.EvLeave:
		var p wire.RoomRefPayload
		if !d.decode(conn, env, &p) {
			return
		}
		d.handleRoomRef(conn, env.Event, p.Code)
	default:
		obslog.L().Warn("dispatch_unknown_event", zap.String("event", env.Event), zap.String("conn", string(conn)))
		d.sendError(conn, ErrBadRequest)
	}
}

// Disconnect applies the leave transition to every room the connection
// belongs to. The transport calls this once per closed connection.
func (d *Dispatcher) Disconnect(conn ConnID) {
	for _, room := range d.reg.Snapshot() {
		if room.leave(conn) {
			obslog.L().Info("conn_disconnect_leave", zap.String("conn", string(conn)), zap.String("code", room.Code()))
		}
	}
}

func (d *Dispatcher) handleCreate(conn ConnID) {
	room, err := d.reg.Create(func(code string) *Room {
		return newRoom(code, d.newStartPosition(), d.clockSeconds, roomDeps{
			sender:  d.sender,
			notices: d.notices,
			evict:   d.reg.Remove,
			archive: d.archive,
		})
	})
	if err != nil {
		obslog.L().Error("room_create_error", zap.Error(err))
		d.sendError(conn, ErrBadRequest)
		return
	}
	role, fen, err := room.join(conn)
	if err != nil {
		d.reg.Remove(room.Code())
		d.sendError(conn, err)
		return
	}
	d.sender.Send(conn, wire.EvAssignRole, wire.AssignRolePayload{Code: room.Code(), Role: string(role)})
	d.sender.Send(conn, wire.EvRoomCreated, wire.RoomCreatedPayload{Code: room.Code(), FEN: fen, Role: string(role)})
	obslog.L().Info("room_create", zap.String("code", room.Code()), zap.String("conn", string(conn)))
}

func (d *Dispatcher) handleJoin(conn ConnID, code string) {
	room, err := d.reg.Get(code)
	if err != nil {
		d.sendError(conn, err)
		return
	}
	role, fen, err := room.join(conn)
	if err != nil {
		d.sendError(conn, err)
		return
	}
	d.sender.Send(conn, wire.EvRoomJoined, wire.RoomJoinedPayload{Code: code, FEN: fen, Role: string(role)})
	obslog.L().Info("room_join", zap.String("code", code), zap.String("conn", string(conn)), zap.String("role", string(role)))
}

func (d *Dispatcher) handleMove(conn ConnID, p wire.MovePayload) {
	room, err := d.reg.Get(p.Code)
	if err != nil {
		d.sendError(conn, err)
		return
	}
	san, err := room.move(conn, p.From, p.To, p.Promotion)
	if err != nil {
		d.sendError(conn, err)
		return
	}
	d.sender.Send(conn, wire.EvMoveOK, wire.MoveOKPayload{Code: p.Code, SAN: san})
}

func (d *Dispatcher) handleRoomRef(conn ConnID, event, code string) {
	room, err := d.reg.Get(code)
	if err != nil {
		d.sendError(conn, err)
		return
	}
	switch event {
	case wire.EvResign:
		err = room.resign(conn)
	case wire.EvOfferDraw:
		err = room.offerDraw(conn)
	case wire.EvAcceptDraw:
		err = room.acceptDraw(conn)
	case wire.EvRejectDraw:
		err = room.rejectDraw(conn)
	case wire.EvLeave:
		if !room.leave(conn) {
			err = ErrNotAPlayer
		}
	}
	if err != nil {
		d.sendError(conn, err)
	}
}

func (d *Dispatcher) newStartPosition() *rules.Position {
	pos, err := rules.NewPosition(d.startFEN())
	if err != nil {
		obslog.L().Warn("startpos_invalid_fen", zap.Error(err))
		pos, _ = rules.NewPosition("")
	}
	return pos
}

func (d *Dispatcher) decode(conn ConnID, env wire.Envelope, into any) bool {
	if len(env.Payload) == 0 {
		d.sendError(conn, ErrBadRequest)
		return false
	}
	if err := json.Unmarshal(env.Payload, into); err != nil {
		d.sendError(conn, ErrBadRequest)
		return false
	}
	return true
}

func (d *Dispatcher) sendError(conn ConnID, err error) {
	code := ErrBadRequest.Error()
	var se staticErr
	if errors.As(err, &se) {
		code = se.Error()
	}
	d.sender.Send(conn, wire.EvError, wire.ErrorPayload{Code: code, Message: err.Error()})
}
