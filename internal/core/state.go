package core

// GameState is the lifecycle state of a room. Transitions only move forward:
// LOBBY -> STARTING -> PLAYING -> RESULTS -> FINISHED, where RESULTS may be
// skipped. A room never returns to an earlier state.
type GameState string

const (
	StateLobby    GameState = "LOBBY"
	StateStarting GameState = "STARTING"
	StatePlaying  GameState = "PLAYING"
	StateResults  GameState = "RESULTS"
	StateFinished GameState = "FINISHED"
)

var stateOrder = map[GameState]int{
	StateLobby:    0,
	StateStarting: 1,
	StatePlaying:  2,
	StateResults:  3,
	StateFinished: 4,
}

// CanAdvanceTo reports whether next is a legal forward transition from s.
func (s GameState) CanAdvanceTo(next GameState) bool {
	cur, ok := stateOrder[s]
	if !ok {
		return false
	}
	n, ok := stateOrder[next]
	if !ok {
		return false
	}
	return n > cur
}

// Settings carries the host-chosen game configuration. The core treats it as
// opaque room configuration: it is stored, echoed in snapshots, and never
// interpreted.
type Settings struct {
	SongCount  int      `json:"songCount"`
	GuessTime  int      `json:"guessTime"`
	GameType   string   `json:"gameType"`
	GuessTypes []string `json:"guessTypes,omitempty"`
	PlaylistID string   `json:"playlistId,omitempty"`
	DeviceID   string   `json:"deviceId,omitempty"`
}
