package core

import "testing"

func TestGameStateOnlyAdvancesForward(t *testing.T) {
	forward := []struct {
		from, to GameState
	}{
		{StateLobby, StateStarting},
		{StateStarting, StatePlaying},
		{StatePlaying, StateResults},
		{StatePlaying, StateFinished}, // results may be skipped
		{StateResults, StateFinished},
	}
	for _, tt := range forward {
		if !tt.from.CanAdvanceTo(tt.to) {
			t.Errorf("%s -> %s should be legal", tt.from, tt.to)
		}
	}

	backward := []struct {
		from, to GameState
	}{
		{StateStarting, StateLobby},
		{StatePlaying, StateLobby},
		{StateFinished, StatePlaying},
		{StateLobby, StateLobby},
	}
	for _, tt := range backward {
		if tt.from.CanAdvanceTo(tt.to) {
			t.Errorf("%s -> %s must be rejected", tt.from, tt.to)
		}
	}

	if GameState("BOGUS").CanAdvanceTo(StatePlaying) {
		t.Error("unknown state must never advance")
	}
	if StateLobby.CanAdvanceTo(GameState("BOGUS")) {
		t.Error("advancing into an unknown state must be rejected")
	}
}
