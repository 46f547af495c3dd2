package game

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateID        = errors.New("pin is already in use")
	ErrNotFound           = errors.New("game not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrAlreadyFull        = errors.New("game already has two players")
	ErrSelfPlay           = errors.New("can not play against yourself")
	ErrStakeMismatch      = errors.New("stake does not match")
	ErrNotAParticipant    = errors.New("caller is not a player of this game")
	ErrAlreadyPlayed      = errors.New("already played")
	ErrRevealTooEarly     = errors.New("play phase is not finished yet")
	ErrAlreadyRevealed    = errors.New("move already revealed")
	ErrCommitmentMismatch = errors.New("hashed value and raw value do not match")
	ErrInvalidMove        = errors.New("invalid move")
	ErrAlreadyResolved    = errors.New("game already resolved")
)

// StakeMismatchError reports the stake a joiner had to attach and what they sent.
type StakeMismatchError struct {
	Expected uint64
	Actual   uint64
}

func (e *StakeMismatchError) Error() string {
	return fmt.Sprintf("stake value not correct. Expected: %d, got: %d", e.Expected, e.Actual)
}

func (e *StakeMismatchError) Unwrap() error { return ErrStakeMismatch }

// InvalidMoveError names the player whose revealed label is not rock, paper or scissors.
type InvalidMoveError struct {
	Role  Role
	Label string
}

func (e *InvalidMoveError) Error() string {
	return fmt.Sprintf("%s move not valid: %q", e.Role, e.Label)
}

func (e *InvalidMoveError) Unwrap() error { return ErrInvalidMove }

// InvalidArgument wraps ErrInvalidArgument with the offending field.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

var codes = []struct {
	err  error
	code string
}{
	{ErrDuplicateID, "duplicate_id"},
	{ErrNotFound, "not_found"},
	{ErrInvalidArgument, "invalid_argument"},
	{ErrAlreadyFull, "already_full"},
	{ErrSelfPlay, "self_play"},
	{ErrStakeMismatch, "stake_mismatch"},
	{ErrNotAParticipant, "not_a_participant"},
	{ErrAlreadyPlayed, "already_played"},
	{ErrRevealTooEarly, "reveal_too_early"},
	{ErrAlreadyRevealed, "already_revealed"},
	{ErrCommitmentMismatch, "commitment_mismatch"},
	{ErrInvalidMove, "invalid_move"},
	{ErrAlreadyResolved, "already_resolved"},
}

// Code returns a stable identifier for a rejection, or "internal" for
// anything that is not a game rule violation.
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "internal"
}
