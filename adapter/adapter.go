package adapter

import (
	"log"

	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/emvdp/demo"
	"github.com/user-none/emvdp/emu"
)

// Compile-time interface check.
var _ emucore.CoreFactory = (*Factory)(nil)

// Factory implements emucore.CoreFactory for the VDP demo core.
type Factory struct{}

// SystemInfo returns system metadata for UI configuration.
func (f *Factory) SystemInfo() emucore.SystemInfo {
	return emucore.SystemInfo{
		Name:            emu.Name,
		ConsoleName:     "Sega Genesis VDP",
		Extensions:      []string{".md", ".bin", ".gen"},
		ScreenWidth:     emu.ScreenWidth,
		MaxScreenHeight: emu.MaxScreenHeight,
		AspectRatio:     320.0 / 224.0,
		SampleRate:      48000,
		Buttons: []emucore.Button{
			{Name: "A", ID: emu.ButtonA, DefaultKey: "J", DefaultPad: "X"},
			{Name: "B", ID: emu.ButtonB, DefaultKey: "K", DefaultPad: "A"},
			{Name: "C", ID: emu.ButtonC, DefaultKey: "L", DefaultPad: "B"},
			{Name: "Start", ID: emu.ButtonStart, DefaultKey: "Enter", DefaultPad: "Start"},
		},
		Players: 2,
		CoreOptions: []emucore.CoreOption{
			{
				Key:         "bounds_check",
				Label:       "Bounds Checking",
				Description: "Reject out-of-range video memory accesses instead of wrapping them",
				Type:        emucore.CoreOptionBool,
				Default:     "true",
				Category:    emucore.CoreOptionCategoryVideo,
			},
		},
		DataDirName:   emu.Name,
		CoreName:      emu.Name,
		CoreVersion:   emu.Version,
		SerializeSize: emu.SerializeSize(),
	}
}

// CreateEmulator creates a new emulator running the built-in demo. A
// non-empty rom supplies replacement pattern data.
func (f *Factory) CreateEmulator(rom []byte, region emucore.Region) (emucore.Emulator, error) {
	if len(rom) > 0 {
		if err := emu.ValidateSystemType(rom); err != nil {
			log.Printf("%s: %v", emu.Name, err)
		}
	}
	g := demo.New(rom)
	e, err := emu.NewEmulator(g.Header(), rom, region, emu.Config{})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// DetectRegion auto-detects the region from ROM header data.
// The bool return is false since detection is header-based,
// not a ROM database lookup.
func (f *Factory) DetectRegion(rom []byte) (emucore.Region, bool) {
	return emu.DetectRegion(rom), false
}
