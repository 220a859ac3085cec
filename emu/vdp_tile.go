package emu

// Nametable entry / sprite attribute bit layout
const (
	entryTileMask  = 0x07FF
	entryHFlip     = 0x0800
	entryVFlip     = 0x1000
	entryPalShift  = 13
	entryPalMask   = 0x03
	entryPriority  = 0x8000
	tileRowBytes   = 4
	tileDimensions = 8
)

// entry is an unpacked nametable entry.
type entry struct {
	pattern  uint16
	hFlip    bool
	vFlip    bool
	palette  uint8
	priority bool
}

func decodeEntry(w uint16) entry {
	return entry{
		pattern:  w & entryTileMask,
		hFlip:    w&entryHFlip != 0,
		vFlip:    w&entryVFlip != 0,
		palette:  uint8(w>>entryPalShift) & entryPalMask,
		priority: w&entryPriority != 0,
	}
}

// MakeEntry packs a nametable entry.
func MakeEntry(pattern uint16, hFlip, vFlip bool, palette uint8, priority bool) uint16 {
	w := pattern & entryTileMask
	if hFlip {
		w |= entryHFlip
	}
	if vFlip {
		w |= entryVFlip
	}
	w |= uint16(palette&entryPalMask) << entryPalShift
	if priority {
		w |= entryPriority
	}
	return w
}

// decodeTile expands a packed 32 byte pattern into 64 samples, left to right
// and top to bottom, each sample being pixel | palette<<4. Each flip
// combination walks src in its own order.
func decodeTile(src []byte, hFlip, vFlip bool, palette uint8) (out [64]uint8) {
	pal := (palette & entryPalMask) << 4
	i := 0
	switch {
	case !hFlip && !vFlip:
		for _, b := range src[:32] {
			out[i] = b>>4 | pal
			out[i+1] = b&0x0F | pal
			i += 2
		}
	case hFlip && !vFlip:
		for row := 0; row < tileDimensions; row++ {
			for col := tileRowBytes - 1; col >= 0; col-- {
				b := src[row*tileRowBytes+col]
				out[i] = b&0x0F | pal
				out[i+1] = b>>4 | pal
				i += 2
			}
		}
	case !hFlip && vFlip:
		for row := tileDimensions - 1; row >= 0; row-- {
			for col := 0; col < tileRowBytes; col++ {
				b := src[row*tileRowBytes+col]
				out[i] = b>>4 | pal
				out[i+1] = b&0x0F | pal
				i += 2
			}
		}
	default:
		for j := 31; j >= 0; j-- {
			b := src[j]
			out[i] = b&0x0F | pal
			out[i+1] = b>>4 | pal
			i += 2
		}
	}
	return out
}
