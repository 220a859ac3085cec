package emu

import (
	"testing"

	emucore "github.com/user-none/eblitui/api"
)

func TestJoypad_SetInput(t *testing.T) {
	tests := []struct {
		name    string
		buttons uint32
		want    uint8
	}{
		{"none", 0, 0},
		{"up", 1 << emucore.ButtonUp, PadUp},
		{"down", 1 << emucore.ButtonDown, PadDown},
		{"left", 1 << emucore.ButtonLeft, PadLeft},
		{"right", 1 << emucore.ButtonRight, PadRight},
		{"A", 1 << ButtonA, PadA},
		{"B", 1 << ButtonB, PadB},
		{"C", 1 << ButtonC, PadC},
		{"start", 1 << ButtonStart, PadStart},
		{"combo", 1<<emucore.ButtonUp | 1<<ButtonA | 1<<ButtonStart, PadUp | PadA | PadStart},
		{"unknown bits", 1 << 20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var j Joypad
			j.SetInput(0, tt.buttons)
			if got := j.State(0); got != tt.want {
				t.Errorf("State = 0x%02X, want 0x%02X", got, tt.want)
			}
		})
	}
}

func TestJoypad_Players(t *testing.T) {
	var j Joypad
	j.Set(0, PadA)
	j.Set(1, PadB)
	j.Set(2, PadC)
	j.Set(-1, PadC)
	if j.State(0) != PadA || j.State(1) != PadB {
		t.Errorf("states 0x%02X 0x%02X", j.State(0), j.State(1))
	}
	if j.State(2) != 0 || j.State(-1) != 0 {
		t.Error("out of range players should read as nothing pressed")
	}

	// Releasing clears the state.
	j.SetInput(0, 0)
	if j.State(0) != 0 {
		t.Error("release did not clear player 1")
	}
}
