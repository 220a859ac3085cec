package emu

import (
	"errors"
	"testing"

	emucore "github.com/user-none/eblitui/api"
)

// testProgram renders frames until the GPU stops. onFrame runs before each
// Render; failAt makes Main return an error once that many frames have
// been rendered.
type testProgram struct {
	frames  int
	vints   int
	failAt  int
	onFrame func(md *MegaDrive) error
}

var errTestProgram = errors.New("test program failed")

func (p *testProgram) Main(md *MegaDrive) error {
	for {
		if p.failAt > 0 && p.frames == p.failAt {
			return errTestProgram
		}
		if p.onFrame != nil {
			if err := p.onFrame(md); err != nil {
				return err
			}
		}
		err := md.VDP.Render()
		p.frames++
		if errors.Is(err, ErrStopped) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (p *testProgram) HInterrupt(md *MegaDrive) {}

func (p *testProgram) VInterrupt(md *MegaDrive) { p.vints++ }

// createTestEmulator creates an Emulator running p that is closed when the
// test ends.
func createTestEmulator(t *testing.T, p *testProgram, data []byte) *Emulator {
	t.Helper()
	e, err := NewEmulator(Header{Title: "TEST", Program: p}, data, RegionNTSC, Config{})
	if err != nil {
		t.Fatalf("NewEmulator failed: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestNewEmulator_NoProgram(t *testing.T) {
	if _, err := NewEmulator(Header{Title: "EMPTY"}, nil, RegionNTSC, Config{}); !errors.Is(err, ErrNoProgram) {
		t.Errorf("got %v, want ErrNoProgram", err)
	}
}

func TestEmulator_RunFrameLockstep(t *testing.T) {
	p := &testProgram{}
	e := createTestEmulator(t, p, nil)
	for i := 1; i <= 3; i++ {
		e.RunFrame()
		if p.vints != i {
			t.Fatalf("after %d RunFrame calls: %d vertical interrupts", i, p.vints)
		}
		if got := e.MegaDrive().VDP.Frames(); got != uint64(i) {
			t.Fatalf("after %d RunFrame calls: %d frames presented", i, got)
		}
	}
}

func TestEmulator_Framebuffer(t *testing.T) {
	p := &testProgram{onFrame: func(md *MegaDrive) error {
		if err := md.VDP.SeekCRAM(1); err != nil {
			return err
		}
		if err := md.VDP.WriteCRAM([]uint16{PackColor(7, 0, 0)}); err != nil {
			return err
		}
		return md.VDP.SetBackgroundColour(1)
	}}
	e := createTestEmulator(t, p, nil)
	e.RunFrame()
	e.RunFrame()

	if e.GetFramebufferStride() != ScreenWidth*4 || e.GetActiveHeight() != ScreenHeight {
		t.Fatalf("stride %d height %d", e.GetFramebufferStride(), e.GetActiveHeight())
	}
	pix := e.GetFramebuffer()
	if pix[0] != 255 || pix[1] != 0 || pix[2] != 0 || pix[3] != 255 {
		t.Errorf("first pixel % X, want red", pix[:4])
	}
}

func TestEmulator_CloseStopsProgram(t *testing.T) {
	p := &testProgram{}
	e := createTestEmulator(t, p, nil)
	e.RunFrame()
	e.Close()
	if err := e.Err(); err != nil {
		t.Errorf("Err after Close: %v", err)
	}
	// both are no-ops once closed
	e.RunFrame()
	e.Close()
}

func TestEmulator_CloseBeforeStart(t *testing.T) {
	e := createTestEmulator(t, &testProgram{}, nil)
	e.Close()
	if e.Err() != nil {
		t.Error("unstarted emulator reports an error")
	}
}

func TestEmulator_ProgramError(t *testing.T) {
	p := &testProgram{failAt: 1}
	e := createTestEmulator(t, p, nil)
	e.RunFrame()
	e.RunFrame()
	if err := e.Err(); !errors.Is(err, errTestProgram) {
		t.Errorf("Err: got %v, want errTestProgram", err)
	}
}

func TestEmulator_SetInput(t *testing.T) {
	e := createTestEmulator(t, &testProgram{}, nil)
	e.SetInput(1, 1<<emucore.ButtonLeft|1<<ButtonStart)
	if got := e.MegaDrive().Joypad.State(1); got != PadLeft|PadStart {
		t.Errorf("player 2 state 0x%02X, want 0x%02X", got, PadLeft|PadStart)
	}
}

func TestEmulator_SetOption(t *testing.T) {
	e := createTestEmulator(t, &testProgram{}, nil)
	vdp := e.MegaDrive().VDP
	e.SetOption("bounds_check", "false")
	if vdp.BoundsMode() != BoundsUnchecked {
		t.Error("bounds_check=false did not disable validation")
	}
	e.SetOption("bounds_check", "maybe")
	if vdp.BoundsMode() != BoundsUnchecked {
		t.Error("invalid value changed the bounds mode")
	}
	e.SetOption("bounds_check", "true")
	if vdp.BoundsMode() != BoundsValidated {
		t.Error("bounds_check=true did not enable validation")
	}
}

func TestEmulator_Memory(t *testing.T) {
	p := &testProgram{onFrame: func(md *MegaDrive) error {
		md.VDP.SeekCRAM(1)
		return md.VDP.WriteCRAM([]uint16{0x0ACE})
	}}
	e := createTestEmulator(t, p, nil)
	e.RunFrame()

	data := make([]byte, VRAMSize)
	data[0x10] = 0x77
	e.WriteRegion(emucore.MemorySystemRAM, data)
	if got := e.ReadRegion(emucore.MemorySystemRAM); len(got) != VRAMSize || got[0x10] != 0x77 {
		t.Error("ReadRegion does not reflect WriteRegion")
	}

	buf := make([]byte, 4)
	if n := e.ReadMemory(0x0F, buf[:2]); n != 2 || buf[1] != 0x77 {
		t.Errorf("VRAM read: n=%d % X", n, buf[:2])
	}
	if n := e.ReadMemory(cramStart+2, buf[:2]); n != 2 || buf[0] != 0x0A || buf[1] != 0xCE {
		t.Errorf("CRAM read: n=%d % X", n, buf[:2])
	}
	if n := e.ReadMemory(cramEnd, buf); n != 1 {
		t.Errorf("read past CRAM: n=%d, want 1", n)
	}

	regions := e.MemoryMap()
	if len(regions) != 1 || regions[0].Size != VRAMSize {
		t.Errorf("MemoryMap %+v", regions)
	}
	if e.ReadRegion(-1) != nil {
		t.Error("unknown region should read nil")
	}
}

func TestEmulator_RegionAndAudio(t *testing.T) {
	e := createTestEmulator(t, &testProgram{}, nil)
	if e.GetTiming().FPS != 60 || len(e.GetAudioSamples()) != 1600 {
		t.Errorf("NTSC: fps %d, %d samples", e.GetTiming().FPS, len(e.GetAudioSamples()))
	}
	e.SetRegion(RegionPAL)
	if e.GetRegion() != RegionPAL || e.GetTiming().FPS != 50 || len(e.GetAudioSamples()) != 1920 {
		t.Errorf("PAL: fps %d, %d samples", e.GetTiming().FPS, len(e.GetAudioSamples()))
	}
	for _, s := range e.GetAudioSamples() {
		if s != 0 {
			t.Fatal("audio is not silent")
		}
	}
}
