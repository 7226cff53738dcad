package signal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dragon57t/GAME-ART/internal/app"
	"github.com/Dragon57t/GAME-ART/internal/app/orch"
	"github.com/Dragon57t/GAME-ART/internal/core"
	"github.com/Dragon57t/GAME-ART/internal/domain"
)

func newTestController() *SignalWSController {
	o := &orch.Orchestrator{
		Registry: app.NewRegistry(),
		Queue:    app.NewMatchmaker(),
		Policy:   app.SimplePolicy{},
	}
	return NewSignalWSController(o, nil, Options{
		PingPeriod:  time.Minute,
		MatchRate:   100,
		MatchWindow: time.Second,
	})
}

// bindConn registers a connection whose outbound frames land in the
// send channel, where tests can read them without a real socket.
func bindConn(ctl *SignalWSController, id domain.ConnID) *WsSignalConn {
	c := &WsSignalConn{send: make(chan core.Frame, 16)}
	ctl.Orch.Registry.Bind(id, c, nil)
	return c
}

func message(t *testing.T, kind string, payload any) []byte {
	t.Helper()
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		raw = b
	}
	b, err := json.Marshal(Envelope{Kind: kind, Payload: raw})
	require.NoError(t, err)
	return b
}

func drain(t *testing.T, c *WsSignalConn) []Envelope {
	t.Helper()
	var out []Envelope
	for {
		select {
		case f := <-c.send:
			var env Envelope
			require.NoError(t, json.Unmarshal(f, &env))
			out = append(out, env)
		default:
			return out
		}
	}
}

func payloadMap(t *testing.T, env Envelope) map[string]any {
	t.Helper()
	m := map[string]any{}
	if len(env.Payload) > 0 {
		require.NoError(t, json.Unmarshal(env.Payload, &m))
	}
	return m
}

func pairConns(t *testing.T, ctl *SignalWSController) (a, b *WsSignalConn, sid domain.SessionID) {
	t.Helper()
	a = bindConn(ctl, "a")
	b = bindConn(ctl, "b")
	ctl.handleMessage("a", a, message(t, "request_match", nil))
	ctl.handleMessage("b", b, message(t, "request_match", nil))

	evs := drain(t, b)
	require.Len(t, evs, 1)
	require.Equal(t, "match_found", evs[0].Kind)
	sid = domain.SessionID(payloadMap(t, evs[0])["sessionId"].(string))
	drain(t, a)
	return a, b, sid
}

func TestHandleMessage_MalformedDropped(t *testing.T) {
	ctl := newTestController()
	a := bindConn(ctl, "a")

	ctl.handleMessage("a", a, []byte("not json"))
	ctl.handleMessage("a", a, message(t, "bogus_kind", nil))
	ctl.handleMessage("a", a, message(t, "leave", map[string]any{}))

	assert.Empty(t, drain(t, a), "bad input gets no reply and no termination")
}

func TestHandleMessage_PingPong(t *testing.T) {
	ctl := newTestController()
	a := bindConn(ctl, "a")

	ctl.handleMessage("a", a, message(t, "ping", nil))

	evs := drain(t, a)
	require.Len(t, evs, 1)
	assert.Equal(t, "pong", evs[0].Kind)
}

func TestMatchFlow(t *testing.T) {
	ctl := newTestController()
	a := bindConn(ctl, "a")
	b := bindConn(ctl, "b")

	ctl.handleMessage("a", a, message(t, "request_match", map[string]any{
		"profile": map[string]any{"name": "inky"},
	}))
	evs := drain(t, a)
	require.Len(t, evs, 1)
	assert.Equal(t, "waiting", evs[0].Kind)

	ctl.handleMessage("b", b, message(t, "request_match", map[string]any{
		"profile": map[string]any{"name": "momo"},
	}))

	aEvs := drain(t, a)
	require.Len(t, aEvs, 1)
	require.Equal(t, "match_found", aEvs[0].Kind)
	aPayload := payloadMap(t, aEvs[0])
	assert.Equal(t, float64(1), aPayload["slot"], "earlier waiter takes slot 1")
	assert.Equal(t, "momo", aPayload["peerProfile"].(map[string]any)["name"])

	bEvs := drain(t, b)
	require.Len(t, bEvs, 1)
	require.Equal(t, "match_found", bEvs[0].Kind)
	bPayload := payloadMap(t, bEvs[0])
	assert.Equal(t, float64(2), bPayload["slot"])
	assert.Equal(t, "inky", bPayload["peerProfile"].(map[string]any)["name"])
	assert.Equal(t, aPayload["sessionId"], bPayload["sessionId"])
}

func TestCancelSearch_AlwaysConfirmed(t *testing.T) {
	ctl := newTestController()
	a := bindConn(ctl, "a")

	ctl.handleMessage("a", a, message(t, "cancel_search", nil))
	evs := drain(t, a)
	require.Len(t, evs, 1)
	assert.Equal(t, "search_cancelled", evs[0].Kind, "cancel while not waiting still confirms")
}

func TestDrawOp_RelayToPeerOnly(t *testing.T) {
	ctl := newTestController()
	a, b, sid := pairConns(t, ctl)

	ctl.handleMessage("a", a, message(t, "draw_op", map[string]any{
		"sessionId": sid,
		"tool":      "stroke",
		"points":    []int{1, 2, 3},
	}))

	assert.Empty(t, drain(t, a), "relay never echoes to the sender")
	evs := drain(t, b)
	require.Len(t, evs, 1)
	assert.Equal(t, "draw_op", evs[0].Kind)
	p := payloadMap(t, evs[0])
	assert.NotContains(t, p, "sessionId", "routing metadata stripped")
	assert.Equal(t, "stroke", p["tool"])
}

func TestDrawOp_StaleSessionDropped(t *testing.T) {
	ctl := newTestController()
	a, b, _ := pairConns(t, ctl)

	ctl.handleMessage("a", a, message(t, "draw_op", map[string]any{
		"sessionId": "stale",
		"tool":      "stroke",
	}))

	assert.Empty(t, drain(t, a))
	assert.Empty(t, drain(t, b))
}

func TestDrawOp_WholeCanvasClearInvalidatesSnapshot(t *testing.T) {
	ctl := newTestController()
	a, b, sid := pairConns(t, ctl)

	ctl.handleMessage("a", a, message(t, "snapshot_update", map[string]any{
		"sessionId": sid,
		"raster":    "img-data",
	}))
	evs := drain(t, b)
	require.Len(t, evs, 1)
	assert.Equal(t, "snapshot_update", evs[0].Kind)

	// Frame-addressed clear keeps the cache.
	ctl.handleMessage("a", a, message(t, "draw_op", map[string]any{
		"sessionId":  sid,
		"tool":       "clear",
		"frameIndex": 0,
	}))
	_, exists, _ := ctl.Orch.SnapshotOf("b", sid)
	assert.True(t, exists)

	// Whole-canvas clear drops it.
	ctl.handleMessage("a", a, message(t, "draw_op", map[string]any{
		"sessionId": sid,
		"tool":      "clear",
	}))
	_, exists, _ = ctl.Orch.SnapshotOf("b", sid)
	assert.False(t, exists)
}

func TestFrameFlowOverWire(t *testing.T) {
	ctl := newTestController()
	a, b, sid := pairConns(t, ctl)

	ctl.handleMessage("a", a, message(t, "frame_add", map[string]any{
		"sessionId": sid,
		"payload":   "P",
	}))
	evs := drain(t, b)
	require.Len(t, evs, 1)
	require.Equal(t, "frame_added", evs[0].Kind)
	frame := payloadMap(t, evs[0])["frame"].(map[string]any)
	assert.Equal(t, float64(0), frame["index"])
	f0 := frame["id"].(string)

	ctl.handleMessage("a", a, message(t, "frame_add", map[string]any{
		"sessionId": sid,
		"index":     0,
		"payload":   "Q",
	}))
	evs = drain(t, b)
	require.Len(t, evs, 1)
	frame = payloadMap(t, evs[0])["frame"].(map[string]any)
	assert.Equal(t, float64(0), frame["index"], "inserted frame takes index 0")

	ctl.handleMessage("a", a, message(t, "playback_set_frame", map[string]any{
		"sessionId": sid,
		"index":     1,
	}))
	drain(t, a)
	drain(t, b)

	ctl.handleMessage("a", a, message(t, "frame_delete", map[string]any{
		"sessionId": sid,
		"frameId":   f0,
	}))
	evs = drain(t, b)
	require.Len(t, evs, 1)
	require.Equal(t, "frame_deleted", evs[0].Kind)
	p := payloadMap(t, evs[0])
	assert.Equal(t, f0, p["frameId"])
	assert.Equal(t, float64(0), p["currentFrame"], "cursor clamped after delete")

	assert.Empty(t, drain(t, a), "frame events go to the peer only")
}

func TestFrameReorderOverWire(t *testing.T) {
	ctl := newTestController()
	a, b, sid := pairConns(t, ctl)

	var ids []string
	for _, pl := range []string{"x", "y", "z"} {
		ctl.handleMessage("a", a, message(t, "frame_add", map[string]any{
			"sessionId": sid,
			"payload":   pl,
		}))
		evs := drain(t, b)
		require.Len(t, evs, 1)
		ids = append(ids, payloadMap(t, evs[0])["frame"].(map[string]any)["id"].(string))
	}

	ctl.handleMessage("a", a, message(t, "frame_reorder", map[string]any{
		"sessionId": sid,
		"frameId":   ids[2],
		"newIndex":  0,
	}))
	evs := drain(t, b)
	require.Len(t, evs, 1)
	require.Equal(t, "frame_reordered", evs[0].Kind)
	p := payloadMap(t, evs[0])
	assert.Equal(t, ids[2], p["frameId"])
	assert.Equal(t, float64(0), p["newIndex"])

	// Out-of-range target is a silent no-op.
	ctl.handleMessage("a", a, message(t, "frame_reorder", map[string]any{
		"sessionId": sid,
		"frameId":   ids[0],
		"newIndex":  7,
	}))
	assert.Empty(t, drain(t, b))
}

func TestPlaybackOverWire(t *testing.T) {
	ctl := newTestController()
	a, b, sid := pairConns(t, ctl)

	ctl.handleMessage("a", a, message(t, "playback_play", map[string]any{"sessionId": sid}))

	for _, c := range []*WsSignalConn{a, b} {
		evs := drain(t, c)
		require.Len(t, evs, 1, "playback state goes to both participants")
		assert.Equal(t, "playback_state", evs[0].Kind)
		p := payloadMap(t, evs[0])
		assert.Equal(t, true, p["isPlaying"])
		assert.Equal(t, float64(0), p["currentFrame"])
	}

	ctl.handleMessage("b", b, message(t, "playback_set_fps", map[string]any{
		"sessionId": sid,
		"fps":       24,
	}))
	for _, c := range []*WsSignalConn{a, b} {
		evs := drain(t, c)
		require.Len(t, evs, 1)
		assert.Equal(t, "fps_update", evs[0].Kind)
		assert.Equal(t, float64(24), payloadMap(t, evs[0])["fps"])
	}
}

func TestSnapshotRequest(t *testing.T) {
	ctl := newTestController()
	a, b, sid := pairConns(t, ctl)

	ctl.handleMessage("a", a, message(t, "snapshot_request", map[string]any{"sessionId": sid}))
	evs := drain(t, a)
	require.Len(t, evs, 1)
	require.Equal(t, "snapshot_response", evs[0].Kind)
	assert.NotContains(t, payloadMap(t, evs[0]), "raster", "empty cache answers without a raster")

	ctl.handleMessage("b", b, message(t, "snapshot_update", map[string]any{
		"sessionId": sid,
		"raster":    "img",
	}))
	drain(t, a)

	ctl.handleMessage("a", a, message(t, "snapshot_request", map[string]any{"sessionId": sid}))
	evs = drain(t, a)
	require.Len(t, evs, 1)
	assert.Equal(t, "img", payloadMap(t, evs[0])["raster"])
}

func TestLeaveOverWire(t *testing.T) {
	ctl := newTestController()
	a, b, sid := pairConns(t, ctl)

	ctl.handleMessage("a", a, message(t, "leave", map[string]any{"sessionId": sid}))

	evs := drain(t, b)
	require.Len(t, evs, 1)
	assert.Equal(t, "peer_left", evs[0].Kind)
	assert.Empty(t, drain(t, a), "leaver gets no echo")

	// Session is gone; further edits are dropped.
	ctl.handleMessage("b", b, message(t, "frame_add", map[string]any{
		"sessionId": sid,
		"payload":   "P",
	}))
	assert.Empty(t, drain(t, a))
	assert.Empty(t, drain(t, b))
}

func TestMatchRequestRateLimited(t *testing.T) {
	o := &orch.Orchestrator{
		Registry: app.NewRegistry(),
		Queue:    app.NewMatchmaker(),
		Policy:   app.SimplePolicy{},
	}
	ctl := NewSignalWSController(o, nil, Options{
		PingPeriod:  time.Minute,
		MatchRate:   1,
		MatchWindow: time.Minute,
	})
	a := bindConn(ctl, "a")

	ctl.handleMessage("a", a, message(t, "request_match", nil))
	require.Len(t, drain(t, a), 1)

	ctl.handleMessage("a", a, message(t, "request_match", nil))
	assert.Empty(t, drain(t, a), "over-limit request dropped like malformed input")
}
