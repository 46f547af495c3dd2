package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice = "alice.near"
	bob   = "bob.near"
	carol = "carol.near"
)

func joined(t *testing.T, stake uint64) *Match {
	t.Helper()
	m := NewMatch("pin-1", alice, stake)
	require.NoError(t, m.Join(bob, stake))
	return m
}

func committed(t *testing.T, moveOne, moveTwo string) *Match {
	t.Helper()
	m := joined(t, 50)
	_, err := m.Play(alice, HashMove([]byte(moveOne)))
	require.NoError(t, err)
	ready, err := m.Play(bob, HashMove([]byte(moveTwo)))
	require.NoError(t, err)
	require.True(t, ready)
	return m
}

func TestNewMatchIsOpen(t *testing.T) {
	m := NewMatch("pin-1", alice, 50)
	assert.True(t, m.Open())
	assert.Equal(t, PhaseAwaitingOpponent, m.Phase())
	assert.Equal(t, uint64(50), m.Stake)
	assert.Empty(t, m.PlayerTwo)
}

func TestJoin(t *testing.T) {
	m := NewMatch("pin-1", alice, 50)
	require.NoError(t, m.Join(bob, 50))
	assert.False(t, m.Open())
	assert.Equal(t, bob, m.PlayerTwo)
	assert.Equal(t, PhaseInPlay, m.Phase())
}

func TestJoinRejections(t *testing.T) {
	t.Run("self play", func(t *testing.T) {
		m := NewMatch("pin-1", alice, 50)
		assert.ErrorIs(t, m.Join(alice, 50), ErrSelfPlay)
		assert.True(t, m.Open())
	})

	t.Run("stake mismatch", func(t *testing.T) {
		m := NewMatch("pin-1", alice, 50)
		err := m.Join(bob, 49)
		require.ErrorIs(t, err, ErrStakeMismatch)

		var sme *StakeMismatchError
		require.True(t, errors.As(err, &sme))
		assert.Equal(t, uint64(50), sme.Expected)
		assert.Equal(t, uint64(49), sme.Actual)
		assert.Empty(t, m.PlayerTwo)
	})

	t.Run("already full", func(t *testing.T) {
		m := joined(t, 50)
		assert.ErrorIs(t, m.Join(carol, 50), ErrAlreadyFull)
		assert.Equal(t, bob, m.PlayerTwo)
	})

	t.Run("empty joiner", func(t *testing.T) {
		m := NewMatch("pin-1", alice, 50)
		assert.ErrorIs(t, m.Join("", 50), ErrInvalidArgument)
	})
}

func TestPlayTwiceKeepsFirstCommitment(t *testing.T) {
	m := joined(t, 50)

	ready, err := m.Play(alice, "first")
	require.NoError(t, err)
	assert.False(t, ready)

	_, err = m.Play(alice, "second")
	assert.ErrorIs(t, err, ErrAlreadyPlayed)
	assert.Equal(t, "first", m.CommitmentOne)
}

func TestPlayByOutsiderDoesNotMutate(t *testing.T) {
	m := joined(t, 50)
	before := *m

	_, err := m.Play(carol, "x")
	assert.ErrorIs(t, err, ErrNotAParticipant)
	assert.Equal(t, before, *m)
}

func TestPlayEmptyCommitment(t *testing.T) {
	m := joined(t, 50)
	_, err := m.Play(alice, "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Empty(t, m.CommitmentOne)
}

func TestRevealEmptyMove(t *testing.T) {
	m := joined(t, 50)
	empty := HashMove([]byte(""))
	_, err := m.Play(alice, empty)
	require.NoError(t, err)
	_, err = m.Play(bob, HashMove([]byte("rock-2")))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		res, err := m.Reveal(alice, "", HashMove)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.Nil(t, res)
	}
	assert.Empty(t, m.RevealOne)
	assert.Equal(t, PhaseAwaitingReveal, m.Phase())
}

func TestRevealTooEarly(t *testing.T) {
	m := joined(t, 50)
	_, err := m.Reveal(alice, "rock-1", HashMove)
	assert.ErrorIs(t, err, ErrRevealTooEarly)

	_, err = m.Play(alice, HashMove([]byte("rock-1")))
	require.NoError(t, err)
	_, err = m.Reveal(alice, "rock-1", HashMove)
	assert.ErrorIs(t, err, ErrRevealTooEarly)
	assert.Empty(t, m.RevealOne)
}

func TestRevealCommitmentMismatch(t *testing.T) {
	m := committed(t, "rock-1", "paper-2")

	_, err := m.Reveal(alice, "paper-1", HashMove)
	assert.ErrorIs(t, err, ErrCommitmentMismatch)
	assert.Empty(t, m.RevealOne)
	assert.Equal(t, PhaseAwaitingReveal, m.Phase())
}

func TestRevealTwice(t *testing.T) {
	m := committed(t, "rock-1", "paper-2")

	res, err := m.Reveal(alice, "rock-1", HashMove)
	require.NoError(t, err)
	assert.Nil(t, res)

	_, err = m.Reveal(alice, "rock-1", HashMove)
	assert.ErrorIs(t, err, ErrAlreadyRevealed)
}

func TestRevealByOutsider(t *testing.T) {
	m := committed(t, "rock-1", "paper-2")
	_, err := m.Reveal(carol, "rock-1", HashMove)
	assert.ErrorIs(t, err, ErrNotAParticipant)
}

func TestResolveRockBeatsScissors(t *testing.T) {
	m := committed(t, "scissors-1", "rock-2")

	_, err := m.Reveal(alice, "scissors-1", HashMove)
	require.NoError(t, err)
	res, err := m.Reveal(bob, "rock-2", HashMove)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, WinnerTwo, m.Winner)
	assert.Equal(t, WinnerTwo, res.Winner)
	assert.Equal(t, bob, res.Account)
	assert.Equal(t, uint64(100), res.Payout)
	assert.Equal(t, [2]Move{Scissors, Rock}, res.Moves)
	assert.Equal(t, PhaseResolved, m.Phase())
}

func TestResolvePlayerOneWins(t *testing.T) {
	m := committed(t, "paper-x", "rock-y")

	_, err := m.Reveal(bob, "rock-y", HashMove)
	require.NoError(t, err)
	res, err := m.Reveal(alice, "paper-x", HashMove)
	require.NoError(t, err)

	assert.Equal(t, WinnerOne, m.Winner)
	assert.Equal(t, alice, res.Account)
	assert.Equal(t, uint64(100), res.Payout)
}

func TestResolveDraw(t *testing.T) {
	m := committed(t, "rock-111", "rock-222")

	_, err := m.Reveal(alice, "rock-111", HashMove)
	require.NoError(t, err)
	res, err := m.Reveal(bob, "rock-222", HashMove)
	require.NoError(t, err)

	assert.Equal(t, WinnerDraw, m.Winner)
	assert.Empty(t, res.Account)
	assert.Zero(t, res.Payout)
}

func TestResolveInvalidLabelKeepsReveal(t *testing.T) {
	m := committed(t, "rock-1", "lizard-2")

	_, err := m.Reveal(alice, "rock-1", HashMove)
	require.NoError(t, err)
	res, err := m.Reveal(bob, "lizard-2", HashMove)
	require.ErrorIs(t, err, ErrInvalidMove)
	assert.Nil(t, res)

	var ime *InvalidMoveError
	require.True(t, errors.As(err, &ime))
	assert.Equal(t, RoleTwo, ime.Role)
	assert.Equal(t, "lizard", ime.Label)

	assert.Equal(t, "lizard-2", m.RevealTwo)
	assert.Equal(t, WinnerNone, m.Winner)
	assert.Equal(t, PhaseResolved, m.Phase())

	_, err = m.Reveal(alice, "rock-1", HashMove)
	assert.ErrorIs(t, err, ErrAlreadyResolved)
}

func TestRevealAfterResolution(t *testing.T) {
	m := committed(t, "rock-1", "paper-2")
	_, err := m.Reveal(alice, "rock-1", HashMove)
	require.NoError(t, err)
	_, err = m.Reveal(bob, "paper-2", HashMove)
	require.NoError(t, err)

	_, err = m.Reveal(bob, "paper-2", HashMove)
	assert.ErrorIs(t, err, ErrAlreadyResolved)
}

func TestRevealUsesSuppliedHash(t *testing.T) {
	m := joined(t, 1)
	identity := func(raw []byte) string { return string(raw) }
	_, err := m.Play(alice, "rock-a")
	require.NoError(t, err)
	_, err = m.Play(bob, "paper-b")
	require.NoError(t, err)

	_, err = m.Reveal(alice, "rock-a", identity)
	require.NoError(t, err)
	res, err := m.Reveal(bob, "paper-b", identity)
	require.NoError(t, err)
	assert.Equal(t, WinnerTwo, res.Winner)
}

func TestCode(t *testing.T) {
	assert.Equal(t, "stake_mismatch", Code(&StakeMismatchError{Expected: 1, Actual: 2}))
	assert.Equal(t, "invalid_move", Code(&InvalidMoveError{Role: RoleOne}))
	assert.Equal(t, "invalid_argument", Code(InvalidArgument("pin is required")))
	assert.Equal(t, "already_resolved", Code(ErrAlreadyResolved))
	assert.Equal(t, "internal", Code(errors.New("boom")))
}
