// Package events defines the notifications emitted for off-chain observers
// and the sinks that deliver them.
package events

import (
	"context"
	"encoding/json"
)

const (
	Standard = "RPS"
	Version  = "1.0.0"
)

// Event is one typed notification. Name is the wire event name.
type Event interface {
	Name() string
	MatchID() string
}

type GameCreated struct {
	Pin   string `json:"pin"`
	Stake uint64 `json:"stake"`
}

type GameJoined struct {
	Pin    string `json:"pin"`
	Player string `json:"player"`
}

type ReadyForReveal struct {
	Pin string `json:"pin"`
}

type WinnerDecided struct {
	Pin     string `json:"pin"`
	Winner  string `json:"winner"`
	Account string `json:"account"`
	Payout  uint64 `json:"payout"`
}

type GameDrawn struct {
	Pin string `json:"pin"`
}

func (GameCreated) Name() string    { return "create_game" }
func (GameJoined) Name() string     { return "join_game" }
func (ReadyForReveal) Name() string { return "ready_for_reveal" }
func (WinnerDecided) Name() string  { return "winner_decided" }
func (GameDrawn) Name() string      { return "draw" }

func (e GameCreated) MatchID() string    { return e.Pin }
func (e GameJoined) MatchID() string     { return e.Pin }
func (e ReadyForReveal) MatchID() string { return e.Pin }
func (e WinnerDecided) MatchID() string  { return e.Pin }
func (e GameDrawn) MatchID() string      { return e.Pin }

// Envelope is the serialized form shared by every sink.
type Envelope struct {
	Standard string `json:"standard"`
	Version  string `json:"version"`
	Event    string `json:"event"`
	Data     Event  `json:"data"`
}

func Encode(e Event) ([]byte, error) {
	return json.Marshal(Envelope{
		Standard: Standard,
		Version:  Version,
		Event:    e.Name(),
		Data:     e,
	})
}

// Sink receives notifications. Notify is fire-and-forget: delivery failures
// are the sink's problem and never reach the caller.
type Sink interface {
	Notify(ctx context.Context, e Event)
}

// Multi fans a notification out to every sink in order.
type Multi []Sink

func (m Multi) Notify(ctx context.Context, e Event) {
	for _, s := range m {
		s.Notify(ctx, e)
	}
}
