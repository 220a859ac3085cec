package emu

import (
	"sync/atomic"

	emucore "github.com/user-none/eblitui/api"
)

// Joypad button bits, in the order games test them.
const (
	PadUp    uint8 = 0x01
	PadDown  uint8 = 0x02
	PadLeft  uint8 = 0x04
	PadRight uint8 = 0x08
	PadB     uint8 = 0x10
	PadC     uint8 = 0x20
	PadA     uint8 = 0x40
	PadStart uint8 = 0x80
)

// Button IDs of the host input mask beyond the d-pad.
const (
	ButtonA     = 4
	ButtonB     = 5
	ButtonC     = 6
	ButtonStart = 7
)

// Joypad holds the held-button state of two controllers. The host writes it
// from its input thread and the program reads it once per frame.
type Joypad struct {
	state [2]atomic.Uint32
}

// State returns the held buttons of player 0 or 1. Other players read as
// nothing pressed.
func (j *Joypad) State(player int) uint8 {
	if player < 0 || player > 1 {
		return 0
	}
	return uint8(j.state[player].Load())
}

// Set stores a player's held buttons.
func (j *Joypad) Set(player int, buttons uint8) {
	if player < 0 || player > 1 {
		return
	}
	j.state[player].Store(uint32(buttons))
}

// SetInput unpacks a host button bitmask for the given player.
func (j *Joypad) SetInput(player int, buttons uint32) {
	var s uint8
	if buttons&(1<<emucore.ButtonUp) != 0 {
		s |= PadUp
	}
	if buttons&(1<<emucore.ButtonDown) != 0 {
		s |= PadDown
	}
	if buttons&(1<<emucore.ButtonLeft) != 0 {
		s |= PadLeft
	}
	if buttons&(1<<emucore.ButtonRight) != 0 {
		s |= PadRight
	}
	if buttons&(1<<ButtonA) != 0 {
		s |= PadA
	}
	if buttons&(1<<ButtonB) != 0 {
		s |= PadB
	}
	if buttons&(1<<ButtonC) != 0 {
		s |= PadC
	}
	if buttons&(1<<ButtonStart) != 0 {
		s |= PadStart
	}
	j.Set(player, s)
}
