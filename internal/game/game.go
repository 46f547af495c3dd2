package game

// Role is a player's position in a match.
type Role string

const (
	RoleOne Role = "p1"
	RoleTwo Role = "p2"
)

// Winner is the resolved outcome of a match. The zero value means the match
// is not resolved yet.
type Winner string

const (
	WinnerNone Winner = ""
	WinnerOne  Winner = Winner(RoleOne)
	WinnerTwo  Winner = Winner(RoleTwo)
	WinnerDraw Winner = "draw"
)

// Phase is derived from which optional fields of a Match are populated.
type Phase string

const (
	PhaseAwaitingOpponent Phase = "awaiting_opponent"
	PhaseInPlay           Phase = "in_play"
	PhaseAwaitingReveal   Phase = "awaiting_reveal"
	PhaseResolved         Phase = "resolved"
)
