package emu

import (
	"encoding/binary"
	"testing"
)

// makeAssetImage builds an image with the given system type at $100, a
// title at $150, a payload from $200 and a valid checksum.
func makeAssetImage(sysType, title string, payload []byte) []byte {
	img := make([]byte, 0x200+len(payload))
	for i := 0x100; i < 0x200; i++ {
		img[i] = ' '
	}
	copy(img[0x100:0x110], []byte(sysType))
	copy(img[0x150:0x180], []byte(title))
	copy(img[0x200:], payload)
	binary.BigEndian.PutUint16(img[0x18E:0x190], Checksum(img))
	return img
}

func TestValidateSystemType(t *testing.T) {
	for _, sys := range []string{"SEGA MEGA DRIVE", "SEGA GENESIS"} {
		if err := ValidateSystemType(makeAssetImage(sys, "", nil)); err != nil {
			t.Errorf("%q: expected nil, got %v", sys, err)
		}
	}
	if err := ValidateSystemType(makeAssetImage("SEGA SATURN", "", nil)); err == nil {
		t.Error("expected error for unknown system type")
	}
	if err := ValidateSystemType(make([]byte, 0x100)); err == nil {
		t.Error("expected error for short image")
	}
}

func TestChecksum(t *testing.T) {
	img := makeAssetImage("SEGA MEGA DRIVE", "", []byte{0x12, 0x34, 0x56, 0x78, 0x9A})
	// 0x1234 + 0x5678 + 0x9A00 (odd trailing byte is the high byte)
	if got := Checksum(img); got != 0x02AC {
		t.Errorf("Checksum: got 0x%04X, want 0x02AC", got)
	}
	if err := ValidateChecksum(img); err != nil {
		t.Errorf("ValidateChecksum: %v", err)
	}

	img[0x200] ^= 0xFF
	if err := ValidateChecksum(img); err == nil {
		t.Error("expected checksum mismatch after corrupting payload")
	}
	if err := ValidateChecksum(img[:0x1FF]); err == nil {
		t.Error("expected error for short image")
	}
	if Checksum(nil) != 0 {
		t.Error("Checksum of empty image should be 0")
	}
}

func TestROMTitle(t *testing.T) {
	img := makeAssetImage("SEGA MEGA DRIVE", "  PARALLAX    DEMO  ", nil)
	if got := ROMTitle(img); got != "PARALLAX DEMO" {
		t.Errorf("ROMTitle: got %q, want %q", got, "PARALLAX DEMO")
	}
	nul := make([]byte, 0x200)
	copy(nul[0x150:], "NUL PADDED")
	if got := ROMTitle(nul); got != "NUL PADDED" {
		t.Errorf("ROMTitle of NUL padded title: got %q", got)
	}
	if got := ROMTitle(make([]byte, 0x200)); got != "" {
		t.Errorf("ROMTitle of empty header: got %q", got)
	}
	if got := ROMTitle(make([]byte, 0x100)); got != "" {
		t.Errorf("ROMTitle of short image: got %q", got)
	}
}

func TestROMPayload(t *testing.T) {
	payload := []byte{1, 2, 3, 4}
	img := makeAssetImage("SEGA MEGA DRIVE", "", payload)
	got := ROMPayload(img)
	if len(got) != len(payload) {
		t.Fatalf("payload length: got %d, want %d", len(got), len(payload))
	}
	for i := range payload {
		if got[i] != payload[i] {
			t.Errorf("payload[%d]: got %d, want %d", i, got[i], payload[i])
		}
	}
	if ROMPayload(img[:0x200]) != nil {
		t.Error("header-only image should have no payload")
	}
}
