package emu

// CRAMEntries is the colour table size: 4 palettes of 16 entries.
const CRAMEntries = 64

// CRAM word layout: 0000BBB0 GGG0RRR0
const (
	cramRedShift   = 1
	cramGreenShift = 5
	cramBlueShift  = 9
	cramChanMask   = 0x07
)

// Channel intensity per 3-bit level, 8-bit and 5-bit.
var (
	level8 = [8]uint8{0, 52, 87, 116, 144, 172, 206, 255}
	level5 [8]uint8
)

func init() {
	for i, l := range level8 {
		level5[i] = uint8(int(l) * 31 / 255)
	}
}

// cramStore is the colour table with its write cursor.
type cramStore struct {
	entries [CRAMEntries]uint16
	cursor  int
}

func (c *cramStore) seek(offset int) {
	c.cursor = offset & (CRAMEntries - 1)
}

func (c *cramStore) advance(n int) {
	c.cursor = c.cursor&(CRAMEntries-1) + n
	if c.cursor > CRAMEntries {
		c.cursor &= CRAMEntries - 1
	}
}

func (c *cramStore) write(words []uint16) {
	start := c.cursor & (CRAMEntries - 1)
	for i, w := range words {
		c.entries[(start+i)&(CRAMEntries-1)] = w
	}
	c.advance(len(words))
}

func (c *cramStore) fill(w uint16, n int) {
	start := c.cursor & (CRAMEntries - 1)
	for i := 0; i < n; i++ {
		c.entries[(start+i)&(CRAMEntries-1)] = w
	}
	c.advance(n)
}

// PackColor packs 3-bit channel levels into a CRAM word.
func PackColor(r, g, b uint8) uint16 {
	return uint16(r&cramChanMask)<<cramRedShift |
		uint16(g&cramChanMask)<<cramGreenShift |
		uint16(b&cramChanMask)<<cramBlueShift
}

// UnpackColor returns the 3-bit channel levels of a CRAM word.
func UnpackColor(w uint16) (r, g, b uint8) {
	r = uint8(w>>cramRedShift) & cramChanMask
	g = uint8(w>>cramGreenShift) & cramChanMask
	b = uint8(w>>cramBlueShift) & cramChanMask
	return
}

// ColorRGB expands a CRAM word to 8-bit channels.
func ColorRGB(w uint16) (r, g, b uint8) {
	lr, lg, lb := UnpackColor(w)
	return level8[lr], level8[lg], level8[lb]
}

// displayColor converts a CRAM word to the GPU's 15-bit form with the
// semi-transparency bit set, so black stays opaque.
func displayColor(w uint16) uint16 {
	r, g, b := UnpackColor(w)
	return 0x8000 | uint16(level5[b])<<10 | uint16(level5[g])<<5 | uint16(level5[r])
}

// formatCRAM converts the colour table to its CLUT form. Entry 0 of every
// palette becomes the transparent word.
func (v *VDP) formatCRAM() {
	for i, w := range v.cram.entries {
		if i%16 == 0 {
			v.cramFmt[i] = 0
			continue
		}
		v.cramFmt[i] = displayColor(w)
	}
}
