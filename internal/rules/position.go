// Package rules adapts the chess library behind the narrow surface the
// session layer needs: apply a move, read whose turn it is, and report
// terminal conditions.
package rules

import (
	"errors"
	"fmt"
	"strings"

	nchess "github.com/corentings/chess/v2"
)

// Color identifies a side.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Other returns the opposing side.
func (c Color) Other() Color {
	if c == White {
		return Black
	}
	return White
}

// ErrIllegalMove reports a move the rules engine refuses.
var ErrIllegalMove = errors.New("illegal move")

// Verdict is the terminal-condition report after a move.
type Verdict struct {
	Over   bool
	Result string // "checkmate", "stalemate" or "draw"
	Winner Color  // set only for checkmate
}

// Position holds the full game state for one room.
type Position struct {
	game *nchess.Game
}

// NewPosition builds a position from a FEN, or the standard start when
// fen is empty.
func NewPosition(fen string) (*Position, error) {
	if strings.TrimSpace(fen) == "" {
		return &Position{game: nchess.NewGame()}, nil
	}
	option, err := nchess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen %q: %w", fen, err)
	}
	return &Position{game: nchess.NewGame(option)}, nil
}

func (p *Position) FEN() string { return p.game.FEN() }

func (p *Position) Turn() Color {
	if p.game.Position().Turn() == nchess.White {
		return White
	}
	return Black
}

// ApplyMove validates and applies a from/to move with an optional
// promotion letter, returning the move in algebraic notation.
func (p *Position) ApplyMove(from, to, promotion string) (string, error) {
	uci := strings.ToLower(strings.TrimSpace(from) + strings.TrimSpace(to) + strings.TrimSpace(promotion))
	if len(uci) < 4 {
		return "", ErrIllegalMove
	}
	pos := p.game.Position()
	mv, err := nchess.UCINotation{}.Decode(pos, uci)
	if err != nil {
		return "", ErrIllegalMove
	}
	san := nchess.AlgebraicNotation{}.Encode(pos, mv)
	if err := p.game.Move(mv, nil); err != nil {
		return "", ErrIllegalMove
	}
	return san, nil
}

// Status reports whether the game has ended and how. Repetition and
// fifty-move draws are claimed automatically once eligible.
func (p *Position) Status() Verdict {
	if p.game.Outcome() == nchess.NoOutcome {
		for _, m := range p.game.EligibleDraws() {
			if m == nchess.ThreefoldRepetition || m == nchess.FiftyMoveRule {
				_ = p.game.Draw(m)
				break
			}
		}
	}
	switch p.game.Outcome() {
	case nchess.WhiteWon:
		return Verdict{Over: true, Result: "checkmate", Winner: White}
	case nchess.BlackWon:
		return Verdict{Over: true, Result: "checkmate", Winner: Black}
	case nchess.Draw:
		if p.game.Method() == nchess.Stalemate {
			return Verdict{Over: true, Result: "stalemate"}
		}
		return Verdict{Over: true, Result: "draw"}
	default:
		return Verdict{}
	}
}
