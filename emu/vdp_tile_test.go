package emu

import "testing"

// testPattern returns a packed pattern whose pixel (x, y) is (x+y*3)&0xF.
func testPattern() []byte {
	src := make([]byte, 32)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x += 2 {
			src[y*4+x/2] = byte((x+y*3)&0xF)<<4 | byte((x+1+y*3)&0xF)
		}
	}
	return src
}

func TestDecodeTile_NoFlip(t *testing.T) {
	out := decodeTile(testPattern(), false, false, 3)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			want := uint8((x+y*3)&0xF) | 0x30
			if got := out[y*8+x]; got != want {
				t.Errorf("(%d,%d): got 0x%02X, want 0x%02X", x, y, got, want)
			}
		}
	}
}

func TestDecodeTile_FlipSymmetry(t *testing.T) {
	src := testPattern()
	base := decodeTile(src, false, false, 1)
	h := decodeTile(src, true, false, 1)
	v := decodeTile(src, false, true, 1)
	hv := decodeTile(src, true, true, 1)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if h[y*8+x] != base[y*8+7-x] {
				t.Errorf("hflip (%d,%d): got 0x%02X, want 0x%02X", x, y, h[y*8+x], base[y*8+7-x])
			}
			if v[y*8+x] != base[(7-y)*8+x] {
				t.Errorf("vflip (%d,%d): got 0x%02X, want 0x%02X", x, y, v[y*8+x], base[(7-y)*8+x])
			}
			if hv[y*8+x] != base[(7-y)*8+7-x] {
				t.Errorf("hvflip (%d,%d): got 0x%02X, want 0x%02X", x, y, hv[y*8+x], base[(7-y)*8+7-x])
			}
		}
	}
}

func TestEntryRoundTrip(t *testing.T) {
	w := MakeEntry(0x5A5, true, false, 2, true)
	if w != 0xCDA5 {
		t.Errorf("MakeEntry: got 0x%04X, want 0xCDA5", w)
	}
	e := decodeEntry(w)
	if e.pattern != 0x5A5 || !e.hFlip || e.vFlip || e.palette != 2 || !e.priority {
		t.Errorf("decodeEntry: got %+v", e)
	}
	if MakeEntry(0xFFFF, false, false, 7, false) != 0x67FF {
		t.Errorf("MakeEntry does not mask its fields: 0x%04X", MakeEntry(0xFFFF, false, false, 7, false))
	}
}
