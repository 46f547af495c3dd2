package game

import "time"

// Match is the stored record of one game. There is no explicit state field:
// the phase is derived from which optional fields are populated.
type Match struct {
	ID            string    `json:"id"`
	PlayerOne     string    `json:"player_one"`
	PlayerTwo     string    `json:"player_two,omitempty"`
	Stake         uint64    `json:"stake"`
	CommitmentOne string    `json:"commitment_one,omitempty"`
	CommitmentTwo string    `json:"commitment_two,omitempty"`
	RevealOne     string    `json:"reveal_one,omitempty"`
	RevealTwo     string    `json:"reveal_two,omitempty"`
	Winner        Winner    `json:"winner,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Resolution is produced by the reveal that completes a match.
type Resolution struct {
	Winner  Winner
	Account string // winning account, empty on a draw
	Payout  uint64 // amount to transfer to Account, zero on a draw
	Moves   [2]Move
}

func NewMatch(id, creator string, stake uint64) *Match {
	return &Match{
		ID:        id,
		PlayerOne: creator,
		Stake:     stake,
	}
}

// Clone returns a copy that transitions can mutate without touching the original.
func (m *Match) Clone() *Match {
	c := *m
	return &c
}

// Open reports whether the match is still waiting for a second player.
func (m *Match) Open() bool {
	return m.PlayerTwo == ""
}

// Phase derives the lifecycle position:
//   - no player two: awaiting_opponent
//   - fewer than two commitments: in_play
//   - fewer than two reveals: awaiting_reveal
//   - otherwise resolved (Winner stays none if a label was invalid)
func (m *Match) Phase() Phase {
	switch {
	case m.PlayerTwo == "":
		return PhaseAwaitingOpponent
	case m.CommitmentOne == "" || m.CommitmentTwo == "":
		return PhaseInPlay
	case m.RevealOne == "" || m.RevealTwo == "":
		return PhaseAwaitingReveal
	default:
		return PhaseResolved
	}
}

// RoleOf returns the role of account in this match.
func (m *Match) RoleOf(account string) (Role, bool) {
	switch {
	case account == "":
		return "", false
	case account == m.PlayerOne:
		return RoleOne, true
	case account == m.PlayerTwo:
		return RoleTwo, true
	}
	return "", false
}

// Account returns the account that holds role.
func (m *Match) Account(role Role) string {
	if role == RoleOne {
		return m.PlayerOne
	}
	return m.PlayerTwo
}

func (m *Match) commitment(role Role) *string {
	if role == RoleOne {
		return &m.CommitmentOne
	}
	return &m.CommitmentTwo
}

func (m *Match) reveal(role Role) *string {
	if role == RoleOne {
		return &m.RevealOne
	}
	return &m.RevealTwo
}

// Join admits the second player. The attached stake must equal the match stake exactly.
func (m *Match) Join(joiner string, attached uint64) error {
	if joiner == "" {
		return InvalidArgument("account is required")
	}
	if m.PlayerTwo != "" {
		return ErrAlreadyFull
	}
	if joiner == m.PlayerOne {
		return ErrSelfPlay
	}
	if attached != m.Stake {
		return &StakeMismatchError{Expected: m.Stake, Actual: attached}
	}
	m.PlayerTwo = joiner
	return nil
}

// Play stores the caller's commitment. Non-participants are rejected rather
// than ignored so that a misrouted call is visible to the caller. It reports
// whether both commitments are present afterwards.
func (m *Match) Play(caller, commitment string) (bool, error) {
	role, ok := m.RoleOf(caller)
	if !ok {
		return false, ErrNotAParticipant
	}
	if commitment == "" {
		return false, InvalidArgument("commitment is required")
	}
	slot := m.commitment(role)
	if *slot != "" {
		return false, ErrAlreadyPlayed
	}
	*slot = commitment
	return m.CommitmentOne != "" && m.CommitmentTwo != "", nil
}

// Reveal verifies raw against the caller's commitment and stores it. When the
// second reveal lands the match is resolved in the same call.
//
// An *InvalidMoveError is returned together with a stored reveal: the reveal
// itself is valid, only the outcome can not be decided.
func (m *Match) Reveal(caller, raw string, hash HashFunc) (*Resolution, error) {
	role, ok := m.RoleOf(caller)
	if !ok {
		return nil, ErrNotAParticipant
	}
	if m.CommitmentOne == "" || m.CommitmentTwo == "" {
		return nil, ErrRevealTooEarly
	}
	if m.Winner != WinnerNone || (m.RevealOne != "" && m.RevealTwo != "") {
		return nil, ErrAlreadyResolved
	}
	slot := m.reveal(role)
	if *slot != "" {
		return nil, ErrAlreadyRevealed
	}
	if raw == "" {
		return nil, InvalidArgument("move is required")
	}
	if hash([]byte(raw)) != *m.commitment(role) {
		return nil, ErrCommitmentMismatch
	}
	*slot = raw

	if m.RevealOne == "" || m.RevealTwo == "" {
		return nil, nil
	}
	return m.resolve()
}

func (m *Match) resolve() (*Resolution, error) {
	moveOne, ok := ParseMove(m.RevealOne)
	if !ok {
		return nil, &InvalidMoveError{Role: RoleOne, Label: string(moveOne)}
	}
	moveTwo, ok := ParseMove(m.RevealTwo)
	if !ok {
		return nil, &InvalidMoveError{Role: RoleTwo, Label: string(moveTwo)}
	}

	res := &Resolution{
		Winner: decide(moveOne, moveTwo),
		Moves:  [2]Move{moveOne, moveTwo},
	}
	m.Winner = res.Winner

	// Stakes stay with the house on a draw; no refund is requested.
	if res.Winner != WinnerDraw {
		res.Account = m.Account(Role(res.Winner))
		res.Payout = 2 * m.Stake
	}
	return res, nil
}
