package http

import (
	"encoding/json"
	"fmt"

	"github.com/taubey/fakester-server/internal/core"
	"github.com/taubey/fakester-server/internal/proto"
)

// dispatch routes one inbound envelope to its room manager transition.
// A non-nil return means the message was dropped (malformed or unknown);
// domain errors travel back through the client's event queue instead.
func (h *WSHandler) dispatch(client *core.Client, inbound proto.Inbound) error {
	switch inbound.Type {
	case proto.InboundTypeCreateGame:
		var create proto.CreateGamePayload
		if len(inbound.Payload) > 0 {
			if err := json.Unmarshal(inbound.Payload, &create); err != nil {
				return err
			}
		}
		if s := create.Settings; s != nil && (s.SongCount < 0 || s.GuessTime < 0) {
			return fmt.Errorf("invalid game settings")
		}
		h.manager.CreateRoom(client, settingsToCore(create.Settings))
		return nil
	case proto.InboundTypeJoinGame:
		var join proto.JoinGamePayload
		if err := json.Unmarshal(inbound.Payload, &join); err != nil {
			return err
		}
		if join.Pin == "" {
			return fmt.Errorf("pin is required")
		}
		h.manager.JoinRoom(client, join.Pin)
		return nil
	case proto.InboundTypeStartGame:
		h.manager.StartGame(client)
		return nil
	case proto.InboundTypeLeaveGame:
		h.manager.LeaveRoom(client)
		return nil
	case proto.InboundTypeSetReady:
		var ready proto.SetReadyPayload
		if err := json.Unmarshal(inbound.Payload, &ready); err != nil {
			return err
		}
		h.manager.SetReady(client, ready.Ready)
		return nil
	case proto.InboundTypeSubmitGuess:
		h.manager.SubmitGuess(client, inbound.Payload)
		return nil
	default:
		return fmt.Errorf("unknown message type %q", inbound.Type)
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventLobbyUpdate:
		return proto.Outbound{
			Type:    proto.OutboundTypeLobbyUpdate,
			Payload: lobbyUpdateFromSnapshot(event.Snapshot),
		}
	case core.EventGameEvent:
		if event.Game == nil {
			return proto.Outbound{Type: proto.OutboundTypeGameEvent}
		}
		return proto.Outbound{
			Type: proto.OutboundTypeGameEvent,
			Payload: proto.GameEventPayload{
				Name: event.Game.Name,
				From: event.Game.From,
				Data: event.Game.Data,
			},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Payload: "unknown error"}
		}
		return proto.Outbound{Type: proto.OutboundTypeError, Payload: event.Error.Message}
	default:
		return proto.Outbound{Type: proto.OutboundTypeGameEvent}
	}
}

func lobbyUpdateFromSnapshot(snap *core.Snapshot) proto.LobbyUpdate {
	if snap == nil {
		return proto.LobbyUpdate{}
	}
	players := make([]proto.Player, 0, len(snap.Players))
	for _, p := range snap.Players {
		players = append(players, proto.Player{
			ID:        p.ID,
			Username:  p.Username,
			Score:     p.Score,
			Ready:     p.Ready,
			Connected: p.Connected,
		})
	}
	return proto.LobbyUpdate{
		Pin:       snap.Pin,
		HostID:    snap.HostID,
		Players:   players,
		GameState: string(snap.GameState),
		Settings:  settingsFromCore(snap.Settings),
	}
}

func settingsToCore(s *proto.GameSettings) *core.Settings {
	if s == nil {
		return nil
	}
	return &core.Settings{
		SongCount:  s.SongCount,
		GuessTime:  s.GuessTime,
		GameType:   s.GameType,
		GuessTypes: s.GuessTypes,
		PlaylistID: s.PlaylistID,
		DeviceID:   s.DeviceID,
	}
}

func settingsFromCore(s *core.Settings) *proto.GameSettings {
	if s == nil {
		return nil
	}
	return &proto.GameSettings{
		SongCount:  s.SongCount,
		GuessTime:  s.GuessTime,
		GameType:   s.GameType,
		GuessTypes: s.GuessTypes,
		PlaylistID: s.PlaylistID,
		DeviceID:   s.DeviceID,
	}
}
