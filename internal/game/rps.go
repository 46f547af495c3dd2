package game

import "strings"

// Move is the label part of a revealed move.
type Move string

const (
	Rock     Move = "rock"
	Paper    Move = "paper"
	Scissors Move = "scissors"
)

const moveSeparator = "-"

// beats maps each move to the one it defeats.
var beats = map[Move]Move{
	Rock:     Scissors,
	Scissors: Paper,
	Paper:    Rock,
}

// ParseMove extracts the label of a raw "label-nonce" move. The nonce is
// ignored; the label must be one of rock, paper or scissors, exact case.
func ParseMove(raw string) (Move, bool) {
	label, _, _ := strings.Cut(raw, moveSeparator)
	m := Move(label)
	if _, ok := beats[m]; !ok {
		return m, false
	}
	return m, true
}

// decide returns the outcome for player one against player two.
func decide(moveA, moveB Move) Winner {
	if moveA == moveB {
		return WinnerDraw
	}
	if beats[moveA] == moveB {
		return WinnerOne
	}
	return WinnerTwo
}
