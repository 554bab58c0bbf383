package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Message tags, both directions.
const (
	InboundTypeCreateGame  = "CREATE_GAME"
	InboundTypeJoinGame    = "JOIN_GAME"
	InboundTypeStartGame   = "START_GAME"
	InboundTypeLeaveGame   = "LEAVE_GAME"
	InboundTypeSetReady    = "SET_READY"
	InboundTypeSubmitGuess = "SUBMIT_GUESS"

	OutboundTypeLobbyUpdate = "LOBBY_UPDATE"
	OutboundTypeGameEvent   = "GAME_EVENT"
	OutboundTypeError       = "ERROR"
)

// CreateGamePayload optionally carries the host's game settings.
type CreateGamePayload struct {
	Settings *GameSettings `json:"settings,omitempty"`
}

// JoinGamePayload requests to join a room by its PIN.
type JoinGamePayload struct {
	Pin string `json:"pin"`
}

// SetReadyPayload flips the sender's readiness flag.
type SetReadyPayload struct {
	Ready bool `json:"ready"`
}

// GameSettings mirrors the client's game configuration. The server stores it
// on the room and echoes it in snapshots without interpreting it.
type GameSettings struct {
	SongCount  int      `json:"songCount"`
	GuessTime  int      `json:"guessTime"`
	GameType   string   `json:"gameType"`
	GuessTypes []string `json:"guessTypes,omitempty"`
	PlaylistID string   `json:"playlistId,omitempty"`
	DeviceID   string   `json:"deviceId,omitempty"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// LobbyUpdate is the full room snapshot broadcast on every state change.
type LobbyUpdate struct {
	Pin       string        `json:"pin"`
	HostID    string        `json:"hostId"`
	Players   []Player      `json:"players"`
	GameState string        `json:"gameState"`
	Settings  *GameSettings `json:"settings,omitempty"`
}

// Player is a member's projection inside a LobbyUpdate.
type Player struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Score     int    `json:"score"`
	Ready     bool   `json:"ready"`
	Connected bool   `json:"connected"`
}

// GameEventPayload signals lifecycle progression or a forwarded guess.
type GameEventPayload struct {
	Name string          `json:"name"`
	From string          `json:"from,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}
