package http

import (
	"encoding/json"
	"testing"

	"github.com/coderoom/coderoom-server/internal/core"
	"github.com/coderoom/coderoom-server/internal/executor"
	"github.com/coderoom/coderoom-server/internal/proto"
)

func TestInboundToCommand(t *testing.T) {
	data, _ := json.Marshal(proto.ExecuteData{Room: "r", Code: "x", Language: "c", Input: "5"})
	cmd, protoErr, err := inboundToCommand(proto.Inbound{Type: proto.InboundTypeExecute, Data: data})
	if err != nil || protoErr != nil {
		t.Fatalf("unexpected errors: %v %v", err, protoErr)
	}
	if cmd.Kind != core.CommandExecute || cmd.Room != "r" || cmd.Stdin != "5" {
		t.Fatalf("unexpected command: %+v", cmd)
	}

	data, _ = json.Marshal(proto.JoinData{Room: ""})
	_, protoErr, err = inboundToCommand(proto.Inbound{Type: proto.InboundTypeJoin, Data: data})
	if err != nil || protoErr == nil || protoErr.Code != core.ErrCodeBadRequest {
		t.Fatalf("expected bad_request for empty room, got %v %v", err, protoErr)
	}

	_, protoErr, _ = inboundToCommand(proto.Inbound{Type: "nope", Data: []byte("{}")})
	if protoErr == nil {
		t.Fatal("unknown type must produce a protocol error")
	}
}

func TestOutboundFromExecutionResult(t *testing.T) {
	out := outboundFromEvent(&core.Event{
		Kind: core.EventExecutionResult,
		Room: "r",
		Result: &executor.Result{
			Status:   executor.StatusTimeout,
			Output:   "partial",
			Error:    "execution timed out",
			TimedOut: true,
		},
	})

	if out.Event != proto.EventNameExecutionResult {
		t.Fatalf("unexpected event name: %s", out.Event)
	}
	data, ok := out.Data.(proto.EventExecutionResult)
	if !ok {
		t.Fatalf("unexpected payload type: %T", out.Data)
	}
	if data.Status != "timeout" || !data.TimedOut || data.Output != "partial" {
		t.Fatalf("unexpected payload: %+v", data)
	}
}
