package wire

// Inbound event names.
const (
	EvCreateRoom = "create-room"
	EvJoinRoom   = "join-room"
	EvMove       = "move"
	EvResign     = "resign"
	EvOfferDraw  = "offer-draw"
	EvAcceptDraw = "accept-draw"
	EvRejectDraw = "reject-draw"
	EvLeave      = "leave"
)

// Outbound event names.
const (
	EvRoomCreated    = "room-created"
	EvRoomJoined     = "room-joined"
	EvMoveOK         = "move-ok"
	EvAssignRole     = "assign-role"
	EvStartGame      = "start-game"
	EvUpdatePosition = "update-position"
	EvClockUpdate    = "clock-update"
	EvGameOver       = "game-over"
	EvOpponentLeft   = "opponent-left"
	EvDrawOffered    = "draw-offered"
	EvDrawRejected   = "draw-rejected"
	EvError          = "error"
)
