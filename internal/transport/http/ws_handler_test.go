package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/coderoom/coderoom-server/internal/config"
	"github.com/coderoom/coderoom-server/internal/core"
	"github.com/coderoom/coderoom-server/internal/executor"
	"github.com/coderoom/coderoom-server/internal/proto"
)

type stubExecutor struct {
	result executor.Result
}

func (s *stubExecutor) Execute(context.Context, executor.Request) executor.Result {
	return s.result
}

func startTestServer(t *testing.T, exec core.Executor) (*httptest.Server, *core.Hub) {
	t.Helper()

	hub := core.NewHub(exec, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	disabledLogger := zerolog.Nop()
	server := NewServer(hub, executor.NewRegistry(), config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
	}, &disabledLogger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, hub
}

func dialWS(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func sendInbound(t *testing.T, ctx context.Context, conn *websocket.Conn, typ string, data any) {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal inbound: %v", err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
		t.Fatalf("write inbound: %v", err)
	}
}

// readEvent discards outbound frames until one with the given event name
// arrives and returns its raw data payload.
func readEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, event string) json.RawMessage {
	t.Helper()

	for {
		var outbound struct {
			Type  string          `json:"type"`
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			t.Fatalf("read outbound waiting for %s: %v", event, err)
		}
		if outbound.Event == event {
			return outbound.Data
		}
	}
}

func TestWebSocketJoinFlow(t *testing.T) {
	ts, _ := startTestServer(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	sendInbound(t, ctx, conn, proto.InboundTypeJoin, proto.JoinData{Room: "abc"})

	var update proto.EventCodeUpdate
	if err := json.Unmarshal(readEvent(t, ctx, conn, proto.EventNameCodeUpdate), &update); err != nil {
		t.Fatalf("unmarshal code-update: %v", err)
	}
	if update.Code != "" || update.Language != "javascript" {
		t.Fatalf("unexpected initial buffer: %+v", update)
	}

	var users []proto.RoomUser
	if err := json.Unmarshal(readEvent(t, ctx, conn, proto.EventNameRoomUsers), &users); err != nil {
		t.Fatalf("unmarshal room-users: %v", err)
	}
	if len(users) != 1 || !users[0].Online {
		t.Fatalf("unexpected presence list: %+v", users)
	}
}

func TestWebSocketCodeChangePropagates(t *testing.T) {
	ts, _ := startTestServer(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts)
	connB := dialWS(t, ctx, ts)

	sendInbound(t, ctx, connA, proto.InboundTypeJoin, proto.JoinData{Room: "r"})
	readEvent(t, ctx, connA, proto.EventNameRoomUsers)
	sendInbound(t, ctx, connB, proto.InboundTypeJoin, proto.JoinData{Room: "r"})
	readEvent(t, ctx, connB, proto.EventNameRoomUsers)

	sendInbound(t, ctx, connA, proto.InboundTypeCode, proto.CodeData{Room: "r", Code: "print(1)", Language: "python"})

	var update proto.EventCodeUpdate
	if err := json.Unmarshal(readEvent(t, ctx, connB, proto.EventNameCodeUpdate), &update); err != nil {
		t.Fatalf("unmarshal code-update: %v", err)
	}
	if update.Code != "print(1)" || update.Language != "python" {
		t.Fatalf("unexpected update: %+v", update)
	}
}

func TestWebSocketExecuteBroadcastsResult(t *testing.T) {
	stub := &stubExecutor{result: executor.Result{
		Status: executor.StatusSuccess,
		Output: "hello\n",
	}}
	ts, _ := startTestServer(t, stub)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts)
	connB := dialWS(t, ctx, ts)

	sendInbound(t, ctx, connA, proto.InboundTypeJoin, proto.JoinData{Room: "r"})
	readEvent(t, ctx, connA, proto.EventNameRoomUsers)
	sendInbound(t, ctx, connB, proto.InboundTypeJoin, proto.JoinData{Room: "r"})
	readEvent(t, ctx, connB, proto.EventNameRoomUsers)

	sendInbound(t, ctx, connA, proto.InboundTypeExecute, proto.ExecuteData{
		Room: "r", Code: "print('hello')", Language: "python",
	})

	// Both the requester and the other member receive the result.
	for _, conn := range []*websocket.Conn{connA, connB} {
		var result proto.EventExecutionResult
		if err := json.Unmarshal(readEvent(t, ctx, conn, proto.EventNameExecutionResult), &result); err != nil {
			t.Fatalf("unmarshal execution-result: %v", err)
		}
		if result.Output != "hello\n" || result.Error != "" || result.Status != "success" {
			t.Fatalf("unexpected result: %+v", result)
		}
	}
}

func TestWebSocketDisconnectBroadcastsOffline(t *testing.T) {
	ts, _ := startTestServer(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts)
	connB := dialWS(t, ctx, ts)

	sendInbound(t, ctx, connA, proto.InboundTypeJoin, proto.JoinData{Room: "r"})
	readEvent(t, ctx, connA, proto.EventNameRoomUsers)
	sendInbound(t, ctx, connB, proto.InboundTypeJoin, proto.JoinData{Room: "r"})
	readEvent(t, ctx, connB, proto.EventNameRoomUsers)

	connA.Close(websocket.StatusNormalClosure, "leaving")

	var users []proto.RoomUser
	if err := json.Unmarshal(readEvent(t, ctx, connB, proto.EventNameRoomUsers), &users); err != nil {
		t.Fatalf("unmarshal room-users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("disconnect must retain the record: %+v", users)
	}
	offline := 0
	for _, u := range users {
		if !u.Online {
			offline++
		}
	}
	if offline != 1 {
		t.Fatalf("expected exactly one offline member: %+v", users)
	}
}

func TestWebSocketBadPayloadGetsError(t *testing.T) {
	ts, _ := startTestServer(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	sendInbound(t, ctx, conn, proto.InboundTypeJoin, proto.JoinData{Room: ""})

	var outbound proto.Outbound
	if err := wsjson.Read(ctx, conn, &outbound); err != nil {
		t.Fatalf("read outbound: %v", err)
	}
	if outbound.Type != proto.OutboundTypeError || outbound.Error == nil {
		t.Fatalf("expected protocol error, got %+v", outbound)
	}
}
