package emu

import (
	"encoding/binary"
	"errors"
)

const (
	vdpSerializeVersion = 1
	// VDPSerializeSize is the total bytes needed for VDP serialization.
	// version(1) + vram(65536) + cram(128) +
	// vramCursor(4) + vramRegion(1) + cramCursor(2) +
	// planeA(2) + planeB(2) + sprite(2) + hScroll(2) + planeW(1) + planeH(1) +
	// backgroundColour(1) + vScrollA(2) + vScrollB(2) + hIntPosition(2) +
	// bounds(1) + front(1) + frames(8)
	VDPSerializeSize = 65699
)

// Serialize writes VDP state to buf. buf must be at least VDPSerializeSize bytes.
func (v *VDP) Serialize(buf []byte) error {
	if len(buf) < VDPSerializeSize {
		return errors.New("VDP serialize buffer too small")
	}

	offset := 0

	// Version
	buf[offset] = vdpSerializeVersion
	offset++

	// VRAM (64KB)
	copy(buf[offset:], v.vram.mem[:])
	offset += len(v.vram.mem)

	// CRAM (64 words)
	for _, w := range v.cram.entries {
		binary.LittleEndian.PutUint16(buf[offset:], w)
		offset += 2
	}

	// Cursors
	binary.LittleEndian.PutUint32(buf[offset:], uint32(v.vram.cursor))
	offset += 4
	buf[offset] = uint8(v.vram.region)
	offset++
	binary.LittleEndian.PutUint16(buf[offset:], uint16(v.cram.cursor))
	offset += 2

	// Regions
	binary.LittleEndian.PutUint16(buf[offset:], uint16(v.regions.planeA))
	offset += 2
	binary.LittleEndian.PutUint16(buf[offset:], uint16(v.regions.planeB))
	offset += 2
	binary.LittleEndian.PutUint16(buf[offset:], uint16(v.regions.sprite))
	offset += 2
	binary.LittleEndian.PutUint16(buf[offset:], uint16(v.regions.hScroll))
	offset += 2
	buf[offset] = uint8(v.regions.planeW)
	offset++
	buf[offset] = uint8(v.regions.planeH)
	offset++

	// Display settings
	buf[offset] = v.backgroundColour
	offset++
	binary.LittleEndian.PutUint16(buf[offset:], uint16(v.vScrollA))
	offset += 2
	binary.LittleEndian.PutUint16(buf[offset:], uint16(v.vScrollB))
	offset += 2
	binary.LittleEndian.PutUint16(buf[offset:], uint16(v.hIntPosition))
	offset += 2
	buf[offset] = uint8(v.bounds)
	offset++

	// Present state
	buf[offset] = uint8(v.present.front)
	offset++
	binary.LittleEndian.PutUint64(buf[offset:], v.frames)

	return nil
}

// Deserialize reads VDP state from buf. buf must be at least VDPSerializeSize bytes.
// Every pattern block and plane tile is marked dirty so the next Render
// rebuilds the GPU textures.
func (v *VDP) Deserialize(buf []byte) error {
	if err := v.checkInit("Deserialize"); err != nil {
		return err
	}
	if len(buf) < VDPSerializeSize {
		return errors.New("VDP deserialize buffer too small")
	}

	offset := 0

	// Version
	version := buf[offset]
	offset++
	if version > vdpSerializeVersion {
		return errors.New("unsupported VDP state version")
	}

	// Validate the fields that index fixed tables before touching state.
	tail := buf[1+VRAMSize+CRAMEntries*2:]
	planeW, planeH := int(tail[15]), int(tail[16])
	if (planeW != 32 && planeW != PlaneWidth) || planeH != PlaneHeight {
		return errors.New("invalid VDP state plane size")
	}
	if VRAMRegion(tail[4]) > RegionOther || tail[24] > uint8(BoundsUnchecked) || tail[25] > 1 {
		return errors.New("invalid VDP state")
	}

	// VRAM (64KB)
	copy(v.vram.mem[:], buf[offset:offset+len(v.vram.mem)])
	offset += len(v.vram.mem)

	// CRAM (64 words)
	for i := range v.cram.entries {
		v.cram.entries[i] = binary.LittleEndian.Uint16(buf[offset:])
		offset += 2
	}

	// Cursors
	v.vram.cursor = int(binary.LittleEndian.Uint32(buf[offset:]))
	if v.vram.cursor > VRAMSize {
		v.vram.cursor &= VRAMSize - 1
	}
	offset += 4
	v.vram.region = VRAMRegion(buf[offset])
	offset++
	v.cram.cursor = int(binary.LittleEndian.Uint16(buf[offset:]))
	if v.cram.cursor > CRAMEntries {
		v.cram.cursor &= CRAMEntries - 1
	}
	offset += 2

	// Regions
	v.regions.planeA = int(binary.LittleEndian.Uint16(buf[offset:]))
	offset += 2
	v.regions.planeB = int(binary.LittleEndian.Uint16(buf[offset:]))
	offset += 2
	v.regions.sprite = int(binary.LittleEndian.Uint16(buf[offset:]))
	offset += 2
	v.regions.hScroll = int(binary.LittleEndian.Uint16(buf[offset:]))
	offset += 2
	v.regions.setPlaneSize(planeW, planeH)
	offset += 2

	// Display settings
	v.backgroundColour = buf[offset] & (CRAMEntries - 1)
	offset++
	v.vScrollA = int16(binary.LittleEndian.Uint16(buf[offset:]))
	offset += 2
	v.vScrollB = int16(binary.LittleEndian.Uint16(buf[offset:]))
	offset += 2
	v.hIntPosition = int16(binary.LittleEndian.Uint16(buf[offset:]))
	offset += 2
	v.bounds = BoundsMode(buf[offset])
	offset++

	// Present state
	v.present.front = int(buf[offset])
	offset++
	v.frames = binary.LittleEndian.Uint64(buf[offset:])

	v.dirtyAll()
	return nil
}

// dirtyAll marks every block and plane tile for upload.
func (v *VDP) dirtyAll() {
	for i := range v.dirty.blocks {
		v.dirty.blocks[i] = true
	}
	for p := range v.dirty.tiles {
		for i := range v.dirty.tiles[p] {
			v.dirty.tiles[p][i] = true
		}
	}
}
