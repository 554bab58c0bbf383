package core

import "encoding/json"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventLobbyUpdate carries a full room snapshot. Every state-changing
	// transition emits exactly one of these to each live connection.
	EventLobbyUpdate EventKind = iota
	// EventGameEvent signals lifecycle progression or a forwarded guess.
	EventGameEvent
	// EventError notifies the requesting client about a domain error.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind     EventKind
	Snapshot *Snapshot  // non-nil for EventLobbyUpdate
	Game     *GameEvent // non-nil for EventGameEvent
	Error    *CoreError // non-nil for EventError
}

// GameEvent holds data for lifecycle and guess events.
type GameEvent struct {
	Name string          `json:"name"`
	From string          `json:"from,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Game event names.
const (
	GameEventStarted      = "game_started"
	GameEventGuess        = "player_guessed"
	GameEventShuttingDown = "server_shutdown"
)

// Snapshot is the complete serialized state of a room. Clients always receive
// the whole thing; there are no delta updates.
type Snapshot struct {
	Pin       string       `json:"pin"`
	HostID    string       `json:"hostId"`
	Players   []PlayerView `json:"players"`
	GameState GameState    `json:"gameState"`
	Settings  *Settings    `json:"settings,omitempty"`
}

// PlayerView is a member's projection inside a snapshot.
type PlayerView struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Score     int    `json:"score"`
	Ready     bool   `json:"ready"`
	Connected bool   `json:"connected"`
}
