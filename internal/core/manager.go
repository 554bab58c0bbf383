package core

import (
	"encoding/json"
	"math"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Defaults for manager options.
const (
	DefaultGracePeriod = 30 * time.Second
	DefaultPinLength   = 6
)

// Options configure room lifetime and join code width.
type Options struct {
	// GracePeriod is the delay between a room losing its last live
	// connection and its destruction.
	GracePeriod time.Duration
	// PinLength is the join code width in digits. Codes never start with 0.
	PinLength int
}

// Manager owns the table of live rooms keyed by join code and is the only
// component allowed to mutate a room. Each transition resolves the caller
// through the connection registry, runs under the target room's lock and
// broadcasts a fresh snapshot before returning.
type Manager struct {
	registry *Registry
	log      *zerolog.Logger
	opts     Options

	mu    sync.Mutex
	rooms map[string]*Room
}

// NewManager constructs a room manager around a connection registry.
func NewManager(registry *Registry, logger *zerolog.Logger, opts Options) *Manager {
	if opts.GracePeriod <= 0 {
		opts.GracePeriod = DefaultGracePeriod
	}
	if opts.PinLength < 1 || opts.PinLength > 9 {
		opts.PinLength = DefaultPinLength
	}
	return &Manager{
		registry: registry,
		log:      logger,
		opts:     opts,
		rooms:    make(map[string]*Room),
	}
}

// Registry exposes the connection registry for the transport layer.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// RoomCount reports the number of live rooms.
func (m *Manager) RoomCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rooms)
}

// Lookup returns the live room for a join code, or nil.
func (m *Manager) Lookup(pin string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rooms[pin]
}

// CreateRoom creates a room in LOBBY with the caller as host and sole member.
func (m *Manager) CreateRoom(c *Client, settings *Settings) {
	id, ok := m.resolve(c)
	if !ok {
		return
	}
	if id.Pin != "" {
		m.sendError(c, coreError(ErrCodeBadRequest, "already in a room"))
		return
	}

	m.mu.Lock()
	pin, err := m.generatePinLocked()
	if err != nil {
		m.mu.Unlock()
		m.sendError(c, coreError(ErrCodeCapacityExceeded, "no join codes available, try again later"))
		return
	}
	room := newRoom(pin, id.ID, settings)
	room.members = append(room.members, &Member{ID: id.ID, Username: id.Username, Connected: true})
	room.clients[c] = struct{}{}
	m.rooms[pin] = room
	m.mu.Unlock()

	m.registry.AttachRoom(c, pin)

	room.mu.Lock()
	room.broadcastSnapshotLocked()
	room.mu.Unlock()

	m.log.Info().Str("pin", pin).Str("host", id.ID).Msg("room created")
}

// JoinRoom adds the caller to a LOBBY room, or restores liveness if the
// identity is already a member (reconnect within the grace period).
func (m *Manager) JoinRoom(c *Client, pin string) {
	id, ok := m.resolve(c)
	if !ok {
		return
	}
	if id.Pin != "" && id.Pin != pin {
		m.sendError(c, coreError(ErrCodeBadRequest, "already in a room"))
		return
	}

	room := m.Lookup(pin)
	if room == nil {
		m.sendError(c, coreError(ErrCodeRoomNotFound, "room not found"))
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	if room.closed {
		m.sendError(c, coreError(ErrCodeRoomNotFound, "room not found"))
		return
	}
	if room.state != StateLobby {
		m.sendError(c, coreError(ErrCodeRoomNotJoinable, "game already running"))
		return
	}

	if mem := room.memberByID(id.ID); mem != nil {
		mem.Connected = true
		room.stopGraceTimerLocked()
	} else {
		room.members = append(room.members, &Member{ID: id.ID, Username: id.Username, Connected: true})
	}
	room.clients[c] = struct{}{}
	m.registry.AttachRoom(c, pin)

	room.broadcastSnapshotLocked()
	m.log.Info().Str("pin", pin).Str("user", id.ID).Msg("joined room")
}

// StartGame advances the caller's room LOBBY -> STARTING -> PLAYING. A call by
// anyone but the host is a silent no-op: host-only affordances must not be
// observable through the protocol.
func (m *Manager) StartGame(c *Client) {
	id, ok := m.resolve(c)
	if !ok {
		return
	}
	if id.Pin == "" {
		return
	}
	room := m.Lookup(id.Pin)
	if room == nil {
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	if room.closed {
		return
	}
	if room.hostID != id.ID {
		m.log.Debug().Str("pin", room.pin).Str("user", id.ID).Msg("start ignored: not host")
		return
	}
	if room.state != StateLobby {
		return
	}

	room.state = StateStarting
	room.broadcastSnapshotLocked()
	room.state = StatePlaying
	room.broadcastSnapshotLocked()
	room.broadcastLocked(&Event{Kind: EventGameEvent, Game: &GameEvent{Name: GameEventStarted}})

	m.log.Info().Str("pin", room.pin).Msg("game started")
}

// LeaveRoom permanently removes the caller's member record. If the host
// leaves, the earliest-joined live member inherits the room; an emptied room
// is destroyed immediately.
func (m *Manager) LeaveRoom(c *Client) {
	id, ok := m.resolve(c)
	if !ok {
		return
	}
	if id.Pin == "" {
		m.sendError(c, coreError(ErrCodeRoomNotFound, "not in a room"))
		return
	}

	room := m.Lookup(id.Pin)
	m.registry.DetachRoom(c)
	if room == nil {
		return
	}

	room.mu.Lock()
	if room.closed {
		room.mu.Unlock()
		return
	}
	delete(room.clients, c)
	wasHost := room.hostID == id.ID
	room.removeMemberLocked(id.ID)
	if wasHost {
		room.reassignHostLocked()
	}

	if len(room.members) == 0 {
		room.closed = true
		room.stopGraceTimerLocked()
		room.mu.Unlock()
		m.removeRoom(room.pin)
		m.log.Info().Str("pin", room.pin).Msg("room emptied")
		return
	}

	if len(room.clients) == 0 {
		m.armGraceTimerLocked(room)
	}
	room.broadcastSnapshotLocked()
	room.mu.Unlock()

	m.log.Info().Str("pin", room.pin).Str("user", id.ID).Msg("left room")
}

// SetReady flips the caller's readiness flag.
func (m *Manager) SetReady(c *Client, ready bool) {
	id, ok := m.resolve(c)
	if !ok {
		return
	}
	if id.Pin == "" {
		return
	}
	room := m.Lookup(id.Pin)
	if room == nil {
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	if room.closed {
		return
	}
	mem := room.memberByID(id.ID)
	if mem == nil || mem.Ready == ready {
		return
	}
	mem.Ready = ready
	room.broadcastSnapshotLocked()
}

// SubmitGuess accepts a guess during PLAYING and forwards it to the room.
// The content is opaque to the core; scoring lives elsewhere.
func (m *Manager) SubmitGuess(c *Client, guess json.RawMessage) {
	id, ok := m.resolve(c)
	if !ok {
		return
	}
	if id.Pin == "" {
		m.sendError(c, coreError(ErrCodeRoomNotFound, "not in a room"))
		return
	}
	room := m.Lookup(id.Pin)
	if room == nil {
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	if room.closed || room.state != StatePlaying {
		return
	}
	room.broadcastLocked(&Event{Kind: EventGameEvent, Game: &GameEvent{
		Name: GameEventGuess,
		From: id.ID,
		Data: guess,
	}})
}

// Disconnect marks the caller's member as disconnected, arms the grace timer
// when the room loses its last live connection, and drops the registry entry.
// Called only by the transport when a connection terminates.
func (m *Manager) Disconnect(c *Client) {
	id, ok := m.registry.Resolve(c)
	if !ok {
		return
	}
	if id.Pin != "" {
		if room := m.Lookup(id.Pin); room != nil {
			room.mu.Lock()
			if !room.closed {
				delete(room.clients, c)
				if mem := room.memberByID(id.ID); mem != nil {
					mem.Connected = false
				}
				if len(room.clients) == 0 {
					m.armGraceTimerLocked(room)
				}
				room.broadcastSnapshotLocked()
			}
			room.mu.Unlock()
		}
	}
	m.registry.Remove(c)
}

// Drain broadcasts a shutdown notice to every room and closes the table.
// Used on graceful shutdown before the transport closes connections.
func (m *Manager) Drain() {
	m.mu.Lock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.rooms = make(map[string]*Room)
	m.mu.Unlock()

	for _, room := range rooms {
		room.mu.Lock()
		room.closed = true
		room.stopGraceTimerLocked()
		room.broadcastLocked(&Event{Kind: EventGameEvent, Game: &GameEvent{Name: GameEventShuttingDown}})
		room.mu.Unlock()
	}

	if len(rooms) > 0 {
		m.log.Info().Int("rooms", len(rooms)).Msg("drained rooms for shutdown")
	}
}

func (m *Manager) resolve(c *Client) (Identity, bool) {
	id, ok := m.registry.Resolve(c)
	if !ok {
		m.sendError(c, coreError(ErrCodeAuthRequired, "authentication required"))
	}
	return id, ok
}

func (m *Manager) sendError(c *Client, err *CoreError) {
	select {
	case c.Events <- &Event{Kind: EventError, Error: err}:
	default:
	}
}

// generatePinLocked draws join codes until it finds one unused among live
// rooms. Codes are PinLength digits with no leading zero, so the space holds
// 9*10^(n-1) codes; exhaustion is checked up front to keep the loop finite.
func (m *Manager) generatePinLocked() (string, error) {
	low := int(math.Pow10(m.opts.PinLength - 1))
	span := low * 9
	if len(m.rooms) >= span {
		return "", ErrCapacityExceeded
	}
	for {
		pin := strconv.Itoa(low + rand.Intn(span))
		if _, taken := m.rooms[pin]; !taken {
			return pin, nil
		}
	}
}

func (m *Manager) removeRoom(pin string) {
	m.mu.Lock()
	delete(m.rooms, pin)
	m.mu.Unlock()
}

// armGraceTimerLocked schedules room destruction. Caller holds room.mu.
func (m *Manager) armGraceTimerLocked(room *Room) {
	room.stopGraceTimerLocked()
	var timer *time.Timer
	timer = time.AfterFunc(m.opts.GracePeriod, func() {
		m.expireRoom(room, timer)
	})
	room.graceTimer = timer
}

// expireRoom fires when the grace period elapses. Liveness is re-checked at
// fire time, and the timer is compared by identity, so a timer superseded by
// a reconnect is a safe no-op.
func (m *Manager) expireRoom(room *Room, timer *time.Timer) {
	m.mu.Lock()
	room.mu.Lock()
	if room.closed || room.graceTimer != timer || len(room.clients) > 0 {
		room.mu.Unlock()
		m.mu.Unlock()
		return
	}
	room.closed = true
	room.graceTimer = nil
	delete(m.rooms, room.pin)
	room.mu.Unlock()
	m.mu.Unlock()

	m.log.Info().Str("pin", room.pin).Msg("room expired")
}
