package emu

import emucore "github.com/user-none/eblitui/api"

// Region is an alias for emucore.Region so internal code compiles unchanged.
type Region = emucore.Region

const (
	RegionNTSC = emucore.RegionNTSC
	RegionPAL  = emucore.RegionPAL
)

// RegionTiming holds the display timing of a region.
type RegionTiming struct {
	Scanlines int // Total scanlines per frame
	FPS       int // Frames per second
}

// NTSC timing: 262 scanlines, 60 Hz
var NTSCTiming = RegionTiming{
	Scanlines: 262,
	FPS:       60,
}

// PAL timing: 313 scanlines, 50 Hz
var PALTiming = RegionTiming{
	Scanlines: 313,
	FPS:       50,
}

// GetTimingForRegion returns the appropriate timing constants
func GetTimingForRegion(r Region) RegionTiming {
	if r == RegionPAL {
		return PALTiming
	}
	return NTSCTiming
}

// DetectRegion inspects the header region field at offset $1F0-$1FF of an
// asset image and returns the display timing region. An image that only
// lists Europe runs at PAL timing; everything else is NTSC.
func DetectRegion(rom []byte) Region {
	if len(rom) < 0x200 {
		return RegionNTSC
	}
	hasJ := false
	hasU := false
	hasE := false
	for _, b := range rom[0x1F0:0x200] {
		switch b {
		case 'J':
			hasJ = true
		case 'U':
			hasU = true
		case 'E':
			hasE = true
		}
	}
	if hasE && !hasJ && !hasU {
		return RegionPAL
	}
	return RegionNTSC
}

// DefaultRegion returns the default region (NTSC).
func DefaultRegion() Region {
	return RegionNTSC
}
