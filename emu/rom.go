package emu

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// An asset image uses the cartridge header layout: system type at $100,
// overseas title at $150, checksum at $18E, region field at $1F0 and
// payload from $200.
const (
	romHeaderSize   = 0x200
	romTitleOffset  = 0x150
	romTitleLength  = 48
	romSystemOffset = 0x100
)

// ValidateSystemType checks that the image contains a recognized system
// type string at offset $100-$10F.
func ValidateSystemType(rom []byte) error {
	if len(rom) < romSystemOffset+0x10 {
		return fmt.Errorf("image too short to contain system type header (%d bytes)", len(rom))
	}

	sysType := strings.TrimRight(string(rom[romSystemOffset:romSystemOffset+0x10]), " ")
	switch sysType {
	case "SEGA MEGA DRIVE", "SEGA GENESIS":
		return nil
	default:
		return fmt.Errorf("unrecognized system type: %q", sysType)
	}
}

// ValidateChecksum verifies the header checksum at offset $18E-$18F.
// The checksum is the 16-bit sum of all big-endian words from $200 to the end.
func ValidateChecksum(rom []byte) error {
	if len(rom) < romHeaderSize {
		return fmt.Errorf("image too short to validate checksum (%d bytes)", len(rom))
	}

	expected := binary.BigEndian.Uint16(rom[0x18E:0x190])
	if computed := Checksum(rom); computed != expected {
		return fmt.Errorf("checksum mismatch: header=%04X computed=%04X", expected, computed)
	}
	return nil
}

// Checksum computes the header checksum of an image.
func Checksum(rom []byte) uint16 {
	if len(rom) < romHeaderSize {
		return 0
	}
	var computed uint16
	data := rom[romHeaderSize:]
	// Sum complete 16-bit words
	for i := 0; i+1 < len(data); i += 2 {
		computed += binary.BigEndian.Uint16(data[i : i+2])
	}
	// Odd trailing byte treated as high byte with low byte = 0
	if len(data)%2 != 0 {
		computed += uint16(data[len(data)-1]) << 8
	}
	return computed
}

// ROMTitle returns the overseas title of an image with space and NUL
// padding removed, or "" when the image has no header.
func ROMTitle(rom []byte) string {
	if len(rom) < romTitleOffset+romTitleLength {
		return ""
	}
	fields := strings.FieldsFunc(string(rom[romTitleOffset:romTitleOffset+romTitleLength]), func(r rune) bool {
		return r == ' ' || r == 0
	})
	return strings.Join(fields, " ")
}

// ROMPayload returns the data following the header.
func ROMPayload(rom []byte) []byte {
	if len(rom) <= romHeaderSize {
		return nil
	}
	return rom[romHeaderSize:]
}
