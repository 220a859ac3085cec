package ui

import (
	"testing"

	"github.com/user-none/emvdp/emu"
)

func TestSharedInput(t *testing.T) {
	var si SharedInput
	si.Set(0x81)
	if si.Read() != 0x81 {
		t.Errorf("Read = 0x%X", si.Read())
	}
}

func TestSharedFramebuffer(t *testing.T) {
	sf := NewSharedFramebuffer()
	if _, _, h := sf.Read(); h != 0 {
		t.Fatal("new framebuffer has content")
	}

	stride := emu.ScreenWidth * 4
	pixels := make([]byte, stride*emu.ScreenHeight)
	pixels[0], pixels[len(pixels)-1] = 0x11, 0x22
	sf.Update(pixels, stride, emu.ScreenHeight)

	got, s, h := sf.Read()
	if s != stride || h != emu.ScreenHeight {
		t.Fatalf("stride %d height %d", s, h)
	}
	if got[0] != 0x11 || got[stride*h-1] != 0x22 {
		t.Error("pixels not copied")
	}

	// The read copy is not affected by later updates.
	pixels[0] = 0x33
	sf.Update(pixels, stride, emu.ScreenHeight)
	if got[0] != 0x11 {
		t.Error("read buffer changed before the next Read")
	}
	if sf.Frames() != 2 {
		t.Errorf("Frames = %d, want 2", sf.Frames())
	}
}
