package wire

import "encoding/json"

// Envelope frames every message in both directions.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Outbound wraps a payload for writing; Payload is marshalled as-is.
type Outbound struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

type JoinRoomPayload struct {
	Code string `json:"code"`
}

type MovePayload struct {
	Code      string `json:"code"`
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

// RoomRefPayload covers every inbound event whose only argument is a code.
type RoomRefPayload struct {
	Code string `json:"code"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

type ClockPair struct {
	White int `json:"white"`
	Black int `json:"black"`
}

type RoomCreatedPayload struct {
	Code string `json:"code"`
	FEN  string `json:"fen"`
	Role string `json:"role"`
}

type RoomJoinedPayload struct {
	Code string `json:"code"`
	FEN  string `json:"fen"`
	Role string `json:"role"`
}

type AssignRolePayload struct {
	Code string `json:"code"`
	Role string `json:"role"`
}

type StartGamePayload struct {
	Code   string    `json:"code"`
	FEN    string    `json:"fen"`
	Turn   string    `json:"turn"`
	Clocks ClockPair `json:"clocks"`
}

type UpdatePositionPayload struct {
	Code   string    `json:"code"`
	FEN    string    `json:"fen"`
	SAN    string    `json:"san"`
	Moves  []string  `json:"moves"`
	Turn   string    `json:"turn"`
	Clocks ClockPair `json:"clocks"`
}

type ClockUpdatePayload struct {
	Code   string    `json:"code"`
	Clocks ClockPair `json:"clocks"`
}

type GameOverPayload struct {
	Code   string `json:"code"`
	Result string `json:"result"`
	Winner string `json:"winner,omitempty"`
	Notice string `json:"notice,omitempty"`
}

type OpponentLeftPayload struct {
	Code   string `json:"code"`
	Notice string `json:"notice,omitempty"`
}

type DrawOfferedPayload struct {
	Code   string `json:"code"`
	From   string `json:"from"`
	Notice string `json:"notice,omitempty"`
}

type DrawRejectedPayload struct {
	Code   string `json:"code"`
	Notice string `json:"notice,omitempty"`
}

type MoveOKPayload struct {
	Code string `json:"code"`
	SAN  string `json:"san"`
}
