package events

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"rps_arena/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeEnvelope(t *testing.T) {
	raw, err := Encode(WinnerDecided{Pin: "p", Winner: "p2", Account: "bob", Payout: 100})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "RPS", got["standard"])
	assert.Equal(t, "1.0.0", got["version"])
	assert.Equal(t, "winner_decided", got["event"])
	assert.Equal(t, map[string]any{
		"pin":     "p",
		"winner":  "p2",
		"account": "bob",
		"payout":  float64(100),
	}, got["data"])
}

func TestMultiFansOut(t *testing.T) {
	var a, b Recorder
	Multi{&a, &b}.Notify(context.Background(), GameCreated{Pin: "x"})
	Multi{&a, &b}.Notify(context.Background(), ReadyForReveal{Pin: "x"})

	assert.Equal(t, []string{"create_game", "ready_for_reveal"}, a.Names())
	assert.Equal(t, a.Events(), b.Events())
}

func TestLogSinkWritesEventJSON(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWriter(&buf, "info", false)
	defer logger.Init("info", false)

	LogSink{}.Notify(context.Background(), GameCreated{Pin: "abc", Stake: 5})

	out := buf.String()
	require.True(t, strings.Contains(out, "EVENT_JSON:"), out)
	assert.Contains(t, out, "create_game")
	assert.Contains(t, out, "abc")
}
