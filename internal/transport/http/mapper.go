package http

import (
	"encoding/json"

	"github.com/coderoom/coderoom-server/internal/core"
	"github.com/coderoom/coderoom-server/internal/proto"
)

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		if join.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomId is required"}, nil
		}
		return &core.Command{
			Kind: core.CommandJoinRoom,
			Room: join.Room,
		}, nil, nil
	case proto.InboundTypeCode:
		var code proto.CodeData
		if err := json.Unmarshal(inbound.Data, &code); err != nil {
			return nil, nil, err
		}
		if code.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomId is required"}, nil
		}
		return &core.Command{
			Kind:     core.CommandCodeChange,
			Room:     code.Room,
			Code:     code.Code,
			Language: code.Language,
		}, nil, nil
	case proto.InboundTypeExecute:
		var run proto.ExecuteData
		if err := json.Unmarshal(inbound.Data, &run); err != nil {
			return nil, nil, err
		}
		if run.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomId is required"}, nil
		}
		return &core.Command{
			Kind:     core.CommandExecute,
			Room:     run.Room,
			Code:     run.Code,
			Language: run.Language,
			Stdin:    run.Input,
		}, nil, nil
	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventCodeUpdate:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameCodeUpdate,
			Data: proto.EventCodeUpdate{
				Code:     event.Code,
				Language: event.Language,
			},
		}
	case core.EventRoomUsers:
		users := make([]proto.RoomUser, 0, len(event.Users))
		for _, u := range event.Users {
			users = append(users, proto.RoomUser{ID: u.ID, Online: u.Online})
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameRoomUsers,
			Data:  users,
		}
	case core.EventExecutionResult:
		data := proto.EventExecutionResult{}
		if event.Result != nil {
			data.Output = event.Result.Output
			data.Error = event.Result.Error
			data.Status = string(event.Result.Status)
			data.TimedOut = event.Result.TimedOut
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameExecutionResult,
			Data:  data,
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}
