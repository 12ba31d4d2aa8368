package realtime_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hetav2211/Frontend-Codac/internal/event"
	"github.com/Hetav2211/Frontend-Codac/internal/realtime"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

// testServer upgrades one connection and hands it to the test.
func testServer(t *testing.T, handle func(conn *websocket.Conn)) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		handle(conn)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestChannel_EmitDeliversEnvelope(t *testing.T) {
	received := make(chan event.Envelope, 1)
	url := testServer(t, func(conn *websocket.Conn) {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var env event.Envelope
		require.NoError(t, json.Unmarshal(frame, &env))
		received <- env
	})

	ch, err := realtime.Dial(url, testLogger())
	require.NoError(t, err)
	defer ch.Close()

	err = ch.Emit(event.Join, event.JoinPayload{RoomID: "ABC123", UserName: "alice"})
	require.NoError(t, err)

	select {
	case env := <-received:
		assert.Equal(t, event.Join, env.Event)
		var p event.JoinPayload
		require.NoError(t, json.Unmarshal(env.Data, &p))
		assert.Equal(t, "ABC123", p.RoomID)
		assert.Equal(t, "alice", p.UserName)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not receive the emitted frame")
	}
}

func TestChannel_IncomingFramesArriveOnEvents(t *testing.T) {
	url := testServer(t, func(conn *websocket.Conn) {
		env, err := event.NewEnvelope(event.CodeUpdate, "remote code")
		require.NoError(t, err)
		require.NoError(t, conn.WriteJSON(env))
		// Keep the connection open until the client hangs up.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	ch, err := realtime.Dial(url, testLogger())
	require.NoError(t, err)
	defer ch.Close()

	select {
	case env := <-ch.Events():
		assert.Equal(t, event.CodeUpdate, env.Event)
		var code string
		require.NoError(t, json.Unmarshal(env.Data, &code))
		assert.Equal(t, "remote code", code)
	case <-time.After(2 * time.Second):
		t.Fatal("notification never arrived")
	}
}

func TestChannel_MalformedFramesAreDropped(t *testing.T) {
	url := testServer(t, func(conn *websocket.Conn) {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
		env, err := event.NewEnvelope(event.CodeUpdate, "good frame")
		require.NoError(t, err)
		require.NoError(t, conn.WriteJSON(env))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	ch, err := realtime.Dial(url, testLogger())
	require.NoError(t, err)
	defer ch.Close()

	select {
	case env := <-ch.Events():
		assert.Equal(t, event.CodeUpdate, env.Event, "the malformed frame must be skipped")
	case <-time.After(2 * time.Second):
		t.Fatal("notification never arrived")
	}
}

func TestChannel_EventsClosesWhenServerHangsUp(t *testing.T) {
	url := testServer(t, func(conn *websocket.Conn) {
		// Close immediately.
	})

	ch, err := realtime.Dial(url, testLogger())
	require.NoError(t, err)
	defer ch.Close()

	select {
	case _, ok := <-ch.Events():
		assert.False(t, ok, "events channel must close when the connection drops")
	case <-time.After(2 * time.Second):
		t.Fatal("events channel never closed")
	}
}

func TestChannel_DialFailsAfterRetries(t *testing.T) {
	_, err := realtime.Dial("ws://127.0.0.1:1/ws", testLogger())
	assert.Error(t, err)
}

func TestChannel_EmitAfterCloseFails(t *testing.T) {
	url := testServer(t, func(conn *websocket.Conn) {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	ch, err := realtime.Dial(url, testLogger())
	require.NoError(t, err)
	ch.Close()

	err = ch.Emit(event.Typing, event.TypingPayload{RoomID: "R", UserName: "alice"})
	assert.Error(t, err)
}
