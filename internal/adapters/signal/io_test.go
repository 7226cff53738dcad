package signal

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dragon57t/GAME-ART/internal/app"
	"github.com/Dragon57t/GAME-ART/internal/app/orch"
)

// dialTestServer runs the controller behind a real websocket endpoint
// and returns a connected client side.
func dialTestServer(t *testing.T, ctl *SignalWSController) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	r.GET("/ws", func(c *gin.Context) { ctl.HandleSignal(ctx, c) })

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func keepaliveController(period time.Duration) *SignalWSController {
	o := &orch.Orchestrator{
		Registry: app.NewRegistry(),
		Queue:    app.NewMatchmaker(),
		Policy:   app.SimplePolicy{},
	}
	return NewSignalWSController(o, nil, Options{PingPeriod: period})
}

func TestKeepalive_PongsKeepConnectionAlive(t *testing.T) {
	ctl := keepaliveController(200 * time.Millisecond)
	conn := dialTestServer(t, ctl)

	// Reading drives the client's default ping handler, which answers
	// every server ping with a pong and keeps the read deadline sliding.
	errCh := make(chan error, 1)
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				errCh <- err
				return
			}
		}
	}()

	select {
	case err := <-errCh:
		t.Fatalf("connection dropped while answering pings: %v", err)
	case <-time.After(700 * time.Millisecond):
	}
}

func TestKeepalive_SilentPeerTimesOut(t *testing.T) {
	ctl := keepaliveController(100 * time.Millisecond)
	conn := dialTestServer(t, ctl)

	// Not reading means never answering pings; the server's read
	// deadline expires and it tears the connection down.
	time.Sleep(700 * time.Millisecond)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "server closed the half-open connection")
}

func TestPingIntervalDefaultsWhenUnset(t *testing.T) {
	assert.Equal(t, defaultPingPeriod, keepaliveController(0).pingInterval())
	assert.Equal(t, defaultPingPeriod, keepaliveController(-time.Second).pingInterval())
	assert.Equal(t, time.Second, keepaliveController(time.Second).pingInterval())
}
