package service

import (
	"context"
	"errors"
	"math"
	"sync"

	"rps_arena/internal/events"
	"rps_arena/internal/game"
	"rps_arena/internal/logger"
)

// StakeLimits bounds the stake a match can be created with.
type StakeLimits struct {
	MinStake uint64
	MaxStake uint64
}

// DefaultStakeLimits keeps a doubled stake inside a signed 64-bit ledger amount.
var DefaultStakeLimits = StakeLimits{MinStake: 0, MaxStake: math.MaxInt64 / 2}

// Caller is the authenticated identity of one call and the value attached to it.
type Caller struct {
	Account string
	Stake   uint64
}

// GameService runs every public operation as one atomic step: load the match,
// apply a single transition to a copy, write it back, then request payout and
// emit notifications. Mutating calls are serialized by mu; the state machine
// itself does no locking.
type GameService struct {
	mu       sync.Mutex
	registry *Registry
	payout   Payout
	sink     events.Sink
	hash     game.HashFunc
	limits   StakeLimits
}

// NewGameService creates a game service with default stake limits
func NewGameService(registry *Registry, payout Payout, sink events.Sink) *GameService {
	return NewGameServiceWithLimits(registry, payout, sink, DefaultStakeLimits)
}

// NewGameServiceWithLimits creates a game service with custom stake limits
func NewGameServiceWithLimits(registry *Registry, payout Payout, sink events.Sink, limits StakeLimits) *GameService {
	if limits.MaxStake == 0 || limits.MaxStake > DefaultStakeLimits.MaxStake {
		limits.MaxStake = DefaultStakeLimits.MaxStake
	}
	return &GameService{
		registry: registry,
		payout:   payout,
		sink:     sink,
		hash:     game.HashMove,
		limits:   limits,
	}
}

// GetLimits returns current stake limits
func (s *GameService) GetLimits() StakeLimits {
	return s.limits
}

// ValidateStake checks if stake is within allowed limits
func (s *GameService) ValidateStake(stake uint64) error {
	if stake < s.limits.MinStake {
		return game.InvalidArgument("stake below minimum %d", s.limits.MinStake)
	}
	if stake > s.limits.MaxStake {
		return game.InvalidArgument("stake exceeds maximum %d", s.limits.MaxStake)
	}
	return nil
}

// CreateGame opens a match with the caller as player one and the attached stake.
func (s *GameService) CreateGame(ctx context.Context, caller Caller, id string) (*game.Match, error) {
	if err := s.ValidateStake(caller.Stake); err != nil {
		return nil, s.reject("create", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.registry.Create(ctx, id, caller.Account, caller.Stake)
	if err != nil {
		return nil, s.reject("create", err)
	}
	MatchesCreated.Inc()
	logger.Info("game created", "pin", id, "player", caller.Account, "stake", caller.Stake)
	return m, nil
}

// JoinGame makes the caller player two. The attached stake must match exactly.
func (s *GameService) JoinGame(ctx context.Context, caller Caller, id string) (*game.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.registry.Get(ctx, id)
	if err != nil {
		return nil, s.reject("join", err)
	}
	next := m.Clone()
	if err := next.Join(caller.Account, caller.Stake); err != nil {
		return nil, s.reject("join", err)
	}
	if err := s.registry.Join(ctx, next); err != nil {
		return nil, s.reject("join", err)
	}

	s.sink.Notify(ctx, events.GameJoined{Pin: id, Player: caller.Account})
	logger.Info("game joined", "pin", id, "player", caller.Account)
	return next, nil
}

func (s *GameService) ListOpenGames(ctx context.Context) ([]*game.Match, error) {
	return s.registry.ListOpen(ctx)
}

func (s *GameService) ListMyGames(ctx context.Context, account string) ([]*game.Match, error) {
	return s.registry.ListByAccount(ctx, account)
}

func (s *GameService) GetGame(ctx context.Context, id string) (*game.Match, error) {
	return s.registry.Get(ctx, id)
}

// Play stores the caller's commitment.
func (s *GameService) Play(ctx context.Context, caller Caller, id, commitment string) (*game.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.registry.Get(ctx, id)
	if err != nil {
		return nil, s.reject("play", err)
	}
	next := m.Clone()
	ready, err := next.Play(caller.Account, commitment)
	if err != nil {
		return nil, s.reject("play", err)
	}
	if err := s.registry.Save(ctx, next); err != nil {
		return nil, s.reject("play", err)
	}

	if ready {
		s.sink.Notify(ctx, events.ReadyForReveal{Pin: id})
		logger.Info("game ready for reveal phase", "pin", id)
	}
	return next, nil
}

// Reveal verifies and stores the caller's raw move and resolves the match
// once both moves are known.
//
// When a revealed label is not a known move the reveal is kept, the match
// stays without a winner and the *game.InvalidMoveError is returned together
// with the saved match.
func (s *GameService) Reveal(ctx context.Context, caller Caller, id, raw string) (*game.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.registry.Get(ctx, id)
	if err != nil {
		return nil, s.reject("reveal", err)
	}
	next := m.Clone()
	res, revealErr := next.Reveal(caller.Account, raw, s.hash)
	if revealErr != nil && !errors.Is(revealErr, game.ErrInvalidMove) {
		return nil, s.reject("reveal", revealErr)
	}
	if err := s.registry.Save(ctx, next); err != nil {
		return nil, s.reject("reveal", err)
	}

	if revealErr != nil {
		MatchesResolved.WithLabelValues("invalid").Inc()
		logger.Warn("game resolution aborted", "pin", id, "error", revealErr)
		return next, s.reject("reveal", revealErr)
	}
	if res != nil {
		s.settle(ctx, next, res)
	}
	return next, nil
}

// settle requests the payout for a resolved match and announces the outcome.
// A payout error is logged, not returned: the match is already resolved and
// the payout collaborator is idempotent per pin.
func (s *GameService) settle(ctx context.Context, m *game.Match, res *game.Resolution) {
	if res.Winner == game.WinnerDraw {
		MatchesResolved.WithLabelValues("draw").Inc()
		s.sink.Notify(ctx, events.GameDrawn{Pin: m.ID})
		logger.Info("game ended in a draw", "pin", m.ID)
		return
	}

	MatchesResolved.WithLabelValues(string(res.Winner)).Inc()
	// a zero-stake match has nothing to transfer
	if res.Payout == 0 {
		logger.Debug("zero payout skipped", "pin", m.ID)
	} else if err := s.payout.Pay(ctx, res.Account, res.Payout, m.ID); err != nil {
		PayoutFailures.Inc()
		logger.Error("payout failed", "pin", m.ID, "account", res.Account, "amount", res.Payout, "error", err)
	}
	s.sink.Notify(ctx, events.WinnerDecided{
		Pin:     m.ID,
		Winner:  string(res.Winner),
		Account: res.Account,
		Payout:  res.Payout,
	})
	logger.Info("winner decided", "pin", m.ID, "winner", res.Winner, "account", res.Account)
}

func (s *GameService) reject(op string, err error) error {
	Rejections.WithLabelValues(op, game.Code(err)).Inc()
	return err
}
