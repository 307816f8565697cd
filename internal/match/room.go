package match

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"fischerblitz/internal/msgcat"
	"fischerblitz/internal/obslog"
	"fischerblitz/internal/rules"
	"fischerblitz/pkg/wire"
)

type roomDeps struct {
	sender  Sender
	notices *msgcat.Catalog
	evict   func(code string)
	archive func(rec GameRecord)
}

type member struct {
	id   ConnID
	role rules.Color
}

// Room is one game session. Every mutation happens under mu, including
// clock ticks, so a room has a single-writer discipline end to end.
type Room struct {
	code string
	deps roomDeps

	mu          sync.Mutex
	pos         *rules.Position
	members     []member
	status      Status
	clocks      map[rules.Color]int
	moveLog     []string
	drawOfferBy rules.Color
	clockStop   chan struct{}
	createdAt   time.Time
}

func newRoom(code string, pos *rules.Position, clockSeconds int, deps roomDeps) *Room {
	return &Room{
		code:   code,
		deps:   deps,
		pos:    pos,
		status: StatusWaiting,
		clocks: map[rules.Color]int{
			rules.White: clockSeconds,
			rules.Black: clockSeconds,
		},
		createdAt: time.Now(),
	}
}

func (r *Room) Code() string { return r.code }

// RoomState is a consistent snapshot for stats and tests.
type RoomState struct {
	Code         string
	Status       Status
	Members      int
	Clocks       wire.ClockPair
	Moves        []string
	FEN          string
	Turn         string
	ClockRunning bool
}

func (r *Room) State() RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RoomState{
		Code:         r.code,
		Status:       r.status,
		Members:      len(r.members),
		Clocks:       r.clockPairLocked(),
		Moves:        append([]string(nil), r.moveLog...),
		FEN:          r.pos.FEN(),
		Turn:         string(r.pos.Turn()),
		ClockRunning: r.clockStop != nil,
	}
}

// join admits a connection and assigns the free color. Admitting the
// second member activates the game and starts the clock.
func (r *Room) join(conn ConnID) (rules.Color, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status == StatusFinished {
		return "", "", ErrRoomNotFound
	}
	if len(r.members) >= 2 || r.memberIndexLocked(conn) >= 0 {
		return "", "", ErrRoomFull
	}

	role := rules.White
	for _, m := range r.members {
		if m.role == rules.White {
			role = rules.Black
		}
	}
	r.members = append(r.members, member{id: conn, role: role})
	fen := r.pos.FEN()

	if len(r.members) == 2 {
		r.status = StatusActive
		for _, m := range r.members {
			r.deps.sender.Send(m.id, wire.EvAssignRole, wire.AssignRolePayload{Code: r.code, Role: string(m.role)})
		}
		r.broadcastLocked(wire.EvStartGame, wire.StartGamePayload{
			Code:   r.code,
			FEN:    fen,
			Turn:   string(r.pos.Turn()),
			Clocks: r.clockPairLocked(),
		})
		r.startClockLocked()
		obslog.L().Info("room_start",
			zap.String("code", r.code),
			zap.String("white", string(r.memberByRoleLocked(rules.White))),
			zap.String("black", string(r.memberByRoleLocked(rules.Black))),
		)
	}
	return role, fen, nil
}

// move applies one move as a single atomic step: validation, position
// update, broadcast, and terminal evaluation all under the room lock.
func (r *Room) move(conn ConnID, from, to, promotion string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.memberIndexLocked(conn)
	if idx < 0 {
		return "", ErrNotAPlayer
	}
	if r.status != StatusActive {
		return "", ErrGameNotActive
	}
	role := r.members[idx].role
	if role != r.pos.Turn() {
		return "", ErrNotYourTurn
	}

	san, err := r.pos.ApplyMove(from, to, promotion)
	if err != nil {
		return "", ErrIllegalMove
	}
	r.moveLog = append(r.moveLog, san)
	r.drawOfferBy = "" // a completed move supersedes a pending offer

	r.broadcastLocked(wire.EvUpdatePosition, wire.UpdatePositionPayload{
		Code:   r.code,
		FEN:    r.pos.FEN(),
		SAN:    san,
		Moves:  append([]string(nil), r.moveLog...),
		Turn:   string(r.pos.Turn()),
		Clocks: r.clockPairLocked(),
	})
	obslog.L().Info("room_move",
		zap.String("code", r.code),
		zap.String("role", string(role)),
		zap.String("san", san),
	)

	if v := r.pos.Status(); v.Over {
		method := v.Result
		if v.Result == "draw" {
			method = "draw-rule"
		}
		r.finishLocked(v.Result, v.Winner, method)
	}
	return san, nil
}

func (r *Room) resign(conn ConnID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.memberIndexLocked(conn)
	if idx < 0 {
		return ErrNotAPlayer
	}
	if r.status != StatusActive {
		// no opponent to concede to
		return ErrGameNotActive
	}
	r.finishLocked("resign", r.members[idx].role.Other(), "resignation")
	return nil
}

func (r *Room) offerDraw(conn ConnID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.memberIndexLocked(conn)
	if idx < 0 {
		return ErrNotAPlayer
	}
	if r.status != StatusActive {
		return ErrGameNotActive
	}
	role := r.members[idx].role
	r.drawOfferBy = role
	opp, ok := r.memberByColorLocked(role.Other())
	if ok {
		r.deps.sender.Send(opp, wire.EvDrawOffered, wire.DrawOfferedPayload{
			Code:   r.code,
			From:   string(role),
			Notice: r.deps.notices.MustRender("draw.offered", map[string]string{"From": string(role)}),
		})
	}
	return nil
}

func (r *Room) acceptDraw(conn ConnID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.memberIndexLocked(conn)
	if idx < 0 {
		return ErrNotAPlayer
	}
	role := r.members[idx].role
	if r.drawOfferBy == "" || r.drawOfferBy != role.Other() {
		return ErrNoDrawOffer
	}
	r.drawOfferBy = ""
	r.finishLocked("draw", "", "agreement")
	return nil
}

func (r *Room) rejectDraw(conn ConnID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.memberIndexLocked(conn)
	if idx < 0 {
		return ErrNotAPlayer
	}
	role := r.members[idx].role
	if r.drawOfferBy == "" || r.drawOfferBy != role.Other() {
		return ErrNoDrawOffer
	}
	r.drawOfferBy = ""
	offerer, ok := r.memberByColorLocked(role.Other())
	if ok {
		r.deps.sender.Send(offerer, wire.EvDrawRejected, wire.DrawRejectedPayload{
			Code:   r.code,
			Notice: r.deps.notices.MustRender("draw.rejected", nil),
		})
	}
	return nil
}

// leave removes the connection if it is a member. An empty room is
// evicted; a half-empty active game degrades back to waiting, the one
// permitted regression.
func (r *Room) leave(conn ConnID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.memberIndexLocked(conn)
	if idx < 0 {
		return false
	}
	r.members = append(r.members[:idx], r.members[idx+1:]...)
	r.drawOfferBy = ""

	if len(r.members) == 0 {
		r.stopClockLocked()
		r.status = StatusFinished
		obslog.L().Info("room_evict", zap.String("code", r.code), zap.String("reason", "empty"))
		r.deps.evict(r.code)
		return true
	}

	r.stopClockLocked()
	r.status = StatusWaiting
	remaining := r.members[0]
	r.deps.sender.Send(remaining.id, wire.EvOpponentLeft, wire.OpponentLeftPayload{
		Code:   r.code,
		Notice: r.deps.notices.MustRender("opponent.left", nil),
	})
	obslog.L().Info("room_degrade", zap.String("code", r.code), zap.String("remaining", string(remaining.role)))
	return true
}

// finishLocked performs the one terminal transition: broadcast, clock
// stop, archive hand-off, eviction. Re-entry is a no-op, which is what
// keeps a timeout racing a mating move down to a single game-over.
func (r *Room) finishLocked(result string, winner rules.Color, method string) {
	if r.status == StatusFinished {
		return
	}
	r.status = StatusFinished
	r.stopClockLocked()

	data := map[string]string{"Winner": string(winner), "Loser": string(winner.Other())}
	r.broadcastLocked(wire.EvGameOver, wire.GameOverPayload{
		Code:   r.code,
		Result: result,
		Winner: string(winner),
		Notice: r.deps.notices.MustRender("game_over."+result, data),
	})
	obslog.L().Info("room_finish",
		zap.String("code", r.code),
		zap.String("result", result),
		zap.String("winner", string(winner)),
		zap.String("method", method),
	)

	if r.deps.archive != nil {
		rec := GameRecord{
			Code:      r.code,
			Result:    result,
			Method:    method,
			Winner:    string(winner),
			MovesSAN:  append([]string(nil), r.moveLog...),
			FinalFEN:  r.pos.FEN(),
			StartedAt: r.createdAt,
			EndedAt:   time.Now(),
		}
		go r.deps.archive(rec)
	}
	r.deps.evict(r.code)
}

// tick burns one second off the to-move clock. Returns false once the
// loop must stop. The status guard suppresses any tick that lost the
// race against a terminal transition.
func (r *Room) tick() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusActive {
		return false
	}
	side := r.pos.Turn()
	r.clocks[side]--
	if r.clocks[side] <= 0 {
		r.clocks[side] = 0
		r.broadcastLocked(wire.EvClockUpdate, wire.ClockUpdatePayload{Code: r.code, Clocks: r.clockPairLocked()})
		r.finishLocked("timeout", side.Other(), "timeout")
		return false
	}
	r.broadcastLocked(wire.EvClockUpdate, wire.ClockUpdatePayload{Code: r.code, Clocks: r.clockPairLocked()})
	return true
}

func (r *Room) startClockLocked() {
	if r.clockStop != nil {
		return
	}
	stop := make(chan struct{})
	r.clockStop = stop
	go r.runClock(stop)
}

func (r *Room) stopClockLocked() {
	if r.clockStop != nil {
		close(r.clockStop)
		r.clockStop = nil
	}
}

func (r *Room) runClock(stop chan struct{}) {
	t := time.NewTicker(time.Second)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			if !r.tick() {
				return
			}
		}
	}
}

// StopClock halts a live countdown; used on server shutdown.
func (r *Room) StopClock() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopClockLocked()
}

func (r *Room) broadcastLocked(event string, payload any) {
	for _, m := range r.members {
		r.deps.sender.Send(m.id, event, payload)
	}
}

func (r *Room) clockPairLocked() wire.ClockPair {
	return wire.ClockPair{White: r.clocks[rules.White], Black: r.clocks[rules.Black]}
}

func (r *Room) memberIndexLocked(conn ConnID) int {
	for i, m := range r.members {
		if m.id == conn {
			return i
		}
	}
	return -1
}

func (r *Room) memberByColorLocked(c rules.Color) (ConnID, bool) {
	for _, m := range r.members {
		if m.role == c {
			return m.id, true
		}
	}
	return "", false
}

func (r *Room) memberByRoleLocked(c rules.Color) ConnID {
	id, _ := r.memberByColorLocked(c)
	return id
}
