package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestCreateRoomBroadcastsInitialSnapshot(t *testing.T) {
	m := testManager(t, Options{})

	alice := bindClient(m, "a", "alice")
	m.CreateRoom(alice, nil)

	ev := mustEvent(t, alice.Events, EventLobbyUpdate)
	snap := ev.Snapshot
	if snap == nil {
		t.Fatal("snapshot missing")
	}
	if len(snap.Pin) != DefaultPinLength {
		t.Fatalf("unexpected pin %q", snap.Pin)
	}
	if snap.HostID != "a" || snap.GameState != StateLobby {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if len(snap.Players) != 1 || snap.Players[0].ID != "a" || !snap.Players[0].Connected {
		t.Fatalf("unexpected players: %+v", snap.Players)
	}
}

func TestJoinRoomBroadcastsToAllMembers(t *testing.T) {
	m := testManager(t, Options{})

	alice := bindClient(m, "a", "alice")
	m.CreateRoom(alice, nil)
	pin := mustEvent(t, alice.Events, EventLobbyUpdate).Snapshot.Pin

	bob := bindClient(m, "b", "bob")
	m.JoinRoom(bob, pin)

	for _, c := range []*Client{alice, bob} {
		snap := mustEvent(t, c.Events, EventLobbyUpdate).Snapshot
		if len(snap.Players) != 2 || snap.HostID != "a" {
			t.Fatalf("unexpected snapshot for %s: %+v", c.ID, snap)
		}
		if snap.Players[0].ID != "a" || snap.Players[1].ID != "b" {
			t.Fatalf("join order not preserved: %+v", snap.Players)
		}
	}
}

func TestJoinUnknownPinYieldsRoomNotFound(t *testing.T) {
	m := testManager(t, Options{})

	bob := bindClient(m, "b", "bob")
	m.JoinRoom(bob, "000000")

	ev := mustEvent(t, bob.Events, EventError)
	if ev.Error == nil || ev.Error.Code != ErrCodeRoomNotFound {
		t.Fatalf("expected room_not_found, got %+v", ev)
	}
}

func TestJoinRunningGameYieldsRoomNotJoinable(t *testing.T) {
	m := testManager(t, Options{})

	alice := bindClient(m, "a", "alice")
	m.CreateRoom(alice, nil)
	pin := mustEvent(t, alice.Events, EventLobbyUpdate).Snapshot.Pin
	m.StartGame(alice)
	drainEvents(alice)

	bob := bindClient(m, "b", "bob")
	m.JoinRoom(bob, pin)

	ev := mustEvent(t, bob.Events, EventError)
	if ev.Error == nil || ev.Error.Code != ErrCodeRoomNotJoinable {
		t.Fatalf("expected room_not_joinable, got %+v", ev)
	}
	// The failed join must not leak into the room.
	if queuedEvents(alice) != 0 {
		t.Fatalf("host received %d unexpected events", queuedEvents(alice))
	}
}

func TestStartGameAdvancesLifecycleInOrder(t *testing.T) {
	m := testManager(t, Options{})

	alice := bindClient(m, "a", "alice")
	m.CreateRoom(alice, nil)
	drainEvents(alice)

	m.StartGame(alice)

	first := nextEvent(t, alice.Events)
	if first.Kind != EventLobbyUpdate || first.Snapshot.GameState != StateStarting {
		t.Fatalf("expected STARTING snapshot first, got %+v", first)
	}
	second := nextEvent(t, alice.Events)
	if second.Kind != EventLobbyUpdate || second.Snapshot.GameState != StatePlaying {
		t.Fatalf("expected PLAYING snapshot second, got %+v", second)
	}
	third := nextEvent(t, alice.Events)
	if third.Kind != EventGameEvent || third.Game.Name != GameEventStarted {
		t.Fatalf("expected game_started event, got %+v", third)
	}
}

func TestStartGameByNonHostIsSilentNoOp(t *testing.T) {
	m := testManager(t, Options{})

	alice := bindClient(m, "a", "alice")
	m.CreateRoom(alice, nil)
	pin := mustEvent(t, alice.Events, EventLobbyUpdate).Snapshot.Pin

	bob := bindClient(m, "b", "bob")
	m.JoinRoom(bob, pin)
	drainEvents(alice, bob)

	m.StartGame(bob)

	if queuedEvents(alice) != 0 || queuedEvents(bob) != 0 {
		t.Fatal("non-host start must not produce any events")
	}
	if got := m.Lookup(pin).Snapshot().GameState; got != StateLobby {
		t.Fatalf("lifecycle changed to %s", got)
	}
}

func TestDisconnectKeepsMemberAndFlipsLiveness(t *testing.T) {
	m := testManager(t, Options{GracePeriod: time.Minute})

	alice := bindClient(m, "a", "alice")
	m.CreateRoom(alice, nil)
	pin := mustEvent(t, alice.Events, EventLobbyUpdate).Snapshot.Pin

	bob := bindClient(m, "b", "bob")
	m.JoinRoom(bob, pin)
	drainEvents(alice, bob)

	m.Disconnect(bob)

	snap := mustEvent(t, alice.Events, EventLobbyUpdate).Snapshot
	if len(snap.Players) != 2 {
		t.Fatalf("member list changed on disconnect: %+v", snap.Players)
	}
	if snap.Players[1].ID != "b" || snap.Players[1].Connected {
		t.Fatalf("expected bob marked disconnected: %+v", snap.Players[1])
	}
	if snap.HostID != "a" {
		t.Fatalf("host changed on member disconnect: %s", snap.HostID)
	}
	if _, ok := m.Registry().Resolve(bob); ok {
		t.Fatal("registry entry should be removed on disconnect")
	}
}

func TestRoomExpiresAfterGracePeriod(t *testing.T) {
	m := testManager(t, Options{GracePeriod: 50 * time.Millisecond})

	alice := bindClient(m, "a", "alice")
	m.CreateRoom(alice, nil)
	mustEvent(t, alice.Events, EventLobbyUpdate)

	m.Disconnect(alice)

	deadline := time.Now().Add(2 * time.Second)
	for m.RoomCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("room was not destroyed after grace period")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestReconnectWithinGraceCancelsDestroy(t *testing.T) {
	m := testManager(t, Options{GracePeriod: 150 * time.Millisecond})

	alice := bindClient(m, "a", "alice")
	m.CreateRoom(alice, nil)
	pin := mustEvent(t, alice.Events, EventLobbyUpdate).Snapshot.Pin

	m.Disconnect(alice)

	// Same identity, fresh connection, before the timer fires.
	again := bindClient(m, "a", "alice")
	m.JoinRoom(again, pin)

	snap := mustEvent(t, again.Events, EventLobbyUpdate).Snapshot
	if len(snap.Players) != 1 || !snap.Players[0].Connected {
		t.Fatalf("expected liveness restored: %+v", snap.Players)
	}

	time.Sleep(400 * time.Millisecond)
	if m.RoomCount() != 1 {
		t.Fatal("room was destroyed despite reconnect within grace")
	}
}

func TestExpiredPinBecomesAvailableAgain(t *testing.T) {
	m := testManager(t, Options{PinLength: 1})

	// Exhaust the code space: width 1 means nine possible codes.
	hosts := make([]*Client, 0, 9)
	pins := make(map[string]bool)
	for i := 0; i < 9; i++ {
		c := bindClient(m, string(rune('a'+i)), "player")
		m.CreateRoom(c, nil)
		pin := mustEvent(t, c.Events, EventLobbyUpdate).Snapshot.Pin
		if pins[pin] {
			t.Fatalf("duplicate live pin %q", pin)
		}
		pins[pin] = true
		hosts = append(hosts, c)
	}

	extra := bindClient(m, "extra", "extra")
	m.CreateRoom(extra, nil)
	ev := mustEvent(t, extra.Events, EventError)
	if ev.Error == nil || ev.Error.Code != ErrCodeCapacityExceeded {
		t.Fatalf("expected capacity_exceeded, got %+v", ev)
	}

	// Destroying one room frees its code for reuse.
	m.LeaveRoom(hosts[0])
	if m.RoomCount() != 8 {
		t.Fatalf("expected 8 live rooms, got %d", m.RoomCount())
	}

	retry := bindClient(m, "extra2", "extra2")
	m.CreateRoom(retry, nil)
	mustEvent(t, retry.Events, EventLobbyUpdate)
}

func TestLiveRoomPinsArePairwiseDistinct(t *testing.T) {
	m := testManager(t, Options{})

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		c := bindClient(m, string(rune('a'+i%26))+string(rune('0'+i/26)), "player")
		m.CreateRoom(c, nil)
		pin := mustEvent(t, c.Events, EventLobbyUpdate).Snapshot.Pin
		if seen[pin] {
			t.Fatalf("duplicate live pin %q", pin)
		}
		seen[pin] = true
	}
}

func TestHostMigrationPrefersEarliestLiveMember(t *testing.T) {
	m := testManager(t, Options{GracePeriod: time.Minute})

	alice := bindClient(m, "a", "alice")
	m.CreateRoom(alice, nil)
	pin := mustEvent(t, alice.Events, EventLobbyUpdate).Snapshot.Pin

	bob := bindClient(m, "b", "bob")
	m.JoinRoom(bob, pin)
	carol := bindClient(m, "c", "carol")
	m.JoinRoom(carol, pin)

	// Bob drops but stays a member; host must skip him.
	m.Disconnect(bob)
	drainEvents(alice, carol)

	m.LeaveRoom(alice)

	snap := mustEvent(t, carol.Events, EventLobbyUpdate).Snapshot
	if snap.HostID != "c" {
		t.Fatalf("expected carol as new host, got %s", snap.HostID)
	}
	if len(snap.Players) != 2 {
		t.Fatalf("expected bob retained as member: %+v", snap.Players)
	}
}

func TestHostUnchangedWhenHostMerelyDisconnects(t *testing.T) {
	m := testManager(t, Options{GracePeriod: time.Minute})

	alice := bindClient(m, "a", "alice")
	m.CreateRoom(alice, nil)
	pin := mustEvent(t, alice.Events, EventLobbyUpdate).Snapshot.Pin

	bob := bindClient(m, "b", "bob")
	m.JoinRoom(bob, pin)
	drainEvents(alice, bob)

	m.Disconnect(alice)

	snap := mustEvent(t, bob.Events, EventLobbyUpdate).Snapshot
	if snap.HostID != "a" {
		t.Fatalf("host must not change on disconnect, got %s", snap.HostID)
	}
}

func TestLeaveByLastMemberDestroysRoom(t *testing.T) {
	m := testManager(t, Options{})

	alice := bindClient(m, "a", "alice")
	m.CreateRoom(alice, nil)
	mustEvent(t, alice.Events, EventLobbyUpdate)

	m.LeaveRoom(alice)

	if m.RoomCount() != 0 {
		t.Fatal("room should be destroyed when the last member leaves")
	}
}

func TestEveryTransitionEmitsExactlyOneSnapshotPerLiveConnection(t *testing.T) {
	m := testManager(t, Options{})

	alice := bindClient(m, "a", "alice")
	m.CreateRoom(alice, nil)
	pin := mustEvent(t, alice.Events, EventLobbyUpdate).Snapshot.Pin

	bob := bindClient(m, "b", "bob")
	m.JoinRoom(bob, pin)
	drainEvents(alice, bob)

	m.SetReady(bob, true)

	if got := queuedEvents(alice); got != 1 {
		t.Fatalf("alice received %d events, want 1", got)
	}
	if got := queuedEvents(bob); got != 1 {
		t.Fatalf("bob received %d events, want 1", got)
	}

	// Setting the same value again changes nothing and broadcasts nothing.
	drainEvents(alice, bob)
	m.SetReady(bob, true)
	if queuedEvents(alice) != 0 || queuedEvents(bob) != 0 {
		t.Fatal("no-op transition must not broadcast")
	}
}

func TestSubmitGuessForwardedDuringPlaying(t *testing.T) {
	m := testManager(t, Options{})

	alice := bindClient(m, "a", "alice")
	m.CreateRoom(alice, nil)
	pin := mustEvent(t, alice.Events, EventLobbyUpdate).Snapshot.Pin

	bob := bindClient(m, "b", "bob")
	m.JoinRoom(bob, pin)

	guess := json.RawMessage(`{"guess":"Bohemian Rhapsody"}`)

	// Guesses before the game starts are dropped.
	drainEvents(alice, bob)
	m.SubmitGuess(bob, guess)
	if queuedEvents(alice) != 0 {
		t.Fatal("guess outside PLAYING must be dropped")
	}

	m.StartGame(alice)
	drainEvents(alice, bob)

	m.SubmitGuess(bob, guess)

	ev := mustEvent(t, alice.Events, EventGameEvent)
	if ev.Game.Name != GameEventGuess || ev.Game.From != "b" {
		t.Fatalf("unexpected guess event: %+v", ev.Game)
	}
	if string(ev.Game.Data) != string(guess) {
		t.Fatalf("guess payload altered: %s", ev.Game.Data)
	}
}

func TestDrainNotifiesEveryRoom(t *testing.T) {
	m := testManager(t, Options{})

	alice := bindClient(m, "a", "alice")
	m.CreateRoom(alice, nil)
	bob := bindClient(m, "b", "bob")
	m.CreateRoom(bob, nil)
	drainEvents(alice, bob)

	m.Drain()

	for _, c := range []*Client{alice, bob} {
		ev := mustEvent(t, c.Events, EventGameEvent)
		if ev.Game.Name != GameEventShuttingDown {
			t.Fatalf("unexpected drain event: %+v", ev.Game)
		}
	}
	if m.RoomCount() != 0 {
		t.Fatal("drain must empty the room table")
	}
}
