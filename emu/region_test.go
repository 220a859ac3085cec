package emu

import "testing"

// makeImage builds a 0x200-byte asset image header with the given region
// string at offset 0x1F0.
func makeImage(region string) []byte {
	img := make([]byte, 0x200)
	for i := 0x1F0; i < 0x200; i++ {
		img[i] = ' '
	}
	copy(img[0x1F0:], []byte(region))
	return img
}

func TestDetectRegion(t *testing.T) {
	tests := []struct {
		field string
		want  Region
	}{
		{"JUE", RegionNTSC},
		{"U", RegionNTSC},
		{"J", RegionNTSC},
		{"UE", RegionNTSC},
		{"JE", RegionNTSC},
		{"E", RegionPAL},
		{"  E ", RegionPAL},
		{"", RegionNTSC},
	}
	for _, tt := range tests {
		if got := DetectRegion(makeImage(tt.field)); got != tt.want {
			t.Errorf("DetectRegion(%q) = %v, want %v", tt.field, got, tt.want)
		}
	}
}

func TestDetectRegion_NoHeader(t *testing.T) {
	if got := DetectRegion(nil); got != RegionNTSC {
		t.Errorf("nil image: got %v, want NTSC", got)
	}
	if got := DetectRegion(make([]byte, 0x1FF)); got != RegionNTSC {
		t.Errorf("short image: got %v, want NTSC", got)
	}
}

func TestGetTimingForRegion(t *testing.T) {
	ntsc := GetTimingForRegion(RegionNTSC)
	if ntsc.FPS != 60 || ntsc.Scanlines != 262 {
		t.Errorf("NTSC timing: got %+v", ntsc)
	}
	pal := GetTimingForRegion(RegionPAL)
	if pal.FPS != 50 || pal.Scanlines != 313 {
		t.Errorf("PAL timing: got %+v", pal)
	}
	if DefaultRegion() != RegionNTSC {
		t.Errorf("default region: got %v, want NTSC", DefaultRegion())
	}
}
