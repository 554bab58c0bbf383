package core

import (
	"sync"
	"time"
)

// Member is a participant's persistent record within a room. It survives
// transient disconnects: only Connected flips, score and identity stay.
type Member struct {
	ID        string
	Username  string
	Score     int
	Ready     bool
	Connected bool
}

// Room is the central aggregate: a join code, a host, an ordered member list
// and the set of live connections attached to it. All mutation happens under
// mu, which the manager acquires for exactly one transition at a time, so
// transitions on the same room never interleave while unrelated rooms
// progress independently.
type Room struct {
	mu sync.Mutex

	pin      string
	hostID   string
	members  []*Member // insertion order = display order
	state    GameState
	settings *Settings

	clients map[*Client]struct{}

	// graceTimer is armed when the last live connection detaches and
	// compared by identity at fire time, so a superseded timer is a no-op.
	graceTimer *time.Timer
	closed     bool
}

func newRoom(pin, hostID string, settings *Settings) *Room {
	return &Room{
		pin:      pin,
		hostID:   hostID,
		state:    StateLobby,
		settings: settings,
		clients:  make(map[*Client]struct{}),
	}
}

// Pin returns the room's join code.
func (r *Room) Pin() string {
	return r.pin
}

// Snapshot returns the complete externally visible state of the room.
func (r *Room) Snapshot() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Room) snapshotLocked() *Snapshot {
	players := make([]PlayerView, 0, len(r.members))
	for _, m := range r.members {
		players = append(players, PlayerView{
			ID:        m.ID,
			Username:  m.Username,
			Score:     m.Score,
			Ready:     m.Ready,
			Connected: m.Connected,
		})
	}
	return &Snapshot{
		Pin:       r.pin,
		HostID:    r.hostID,
		Players:   players,
		GameState: r.state,
		Settings:  r.settings,
	}
}

// Broadcast sends an event to every live connection attached to the room.
func (r *Room) Broadcast(event *Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcastLocked(event)
}

func (r *Room) broadcastLocked(event *Event) {
	for client := range r.clients {
		select {
		case client.Events <- event:
		default:
			// Drop if slow consumer.
		}
	}
}

// broadcastSnapshotLocked emits exactly one LOBBY_UPDATE per live connection.
func (r *Room) broadcastSnapshotLocked() {
	r.broadcastLocked(&Event{Kind: EventLobbyUpdate, Snapshot: r.snapshotLocked()})
}

func (r *Room) memberByID(id string) *Member {
	for _, m := range r.members {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (r *Room) removeMemberLocked(id string) bool {
	for i, m := range r.members {
		if m.ID == id {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return true
		}
	}
	return false
}

// reassignHostLocked picks the earliest-joined live member as the new host,
// falling back to the earliest-joined member regardless of liveness. Returns
// false when the member list is empty and the room should be destroyed.
func (r *Room) reassignHostLocked() bool {
	if len(r.members) == 0 {
		r.hostID = ""
		return false
	}
	for _, m := range r.members {
		if m.Connected {
			r.hostID = m.ID
			return true
		}
	}
	r.hostID = r.members[0].ID
	return true
}

// stopGraceTimerLocked cancels a pending destroy timer, if any. O(1).
func (r *Room) stopGraceTimerLocked() {
	if r.graceTimer != nil {
		r.graceTimer.Stop()
		r.graceTimer = nil
	}
}
