package emu

import (
	"errors"
	"hash/crc32"
	"image"
	"log"
	"strconv"
	"sync"

	emucore "github.com/user-none/eblitui/api"
)

// Compile-time interface checks.
var _ emucore.Emulator = (*Emulator)(nil)
var _ emucore.SaveStater = (*Emulator)(nil)
var _ emucore.MemoryInspector = (*Emulator)(nil)
var _ emucore.MemoryMapper = (*Emulator)(nil)

const (
	// Name is the core name reported to frontends.
	Name = "emvdp"

	MaxScreenHeight     = ScreenHeight
	DefaultScreenHeight = ScreenHeight
	sampleRate          = 48000
)

// Version is the core version, overridable at link time.
var Version = "0.1.0"

// Flat address boundaries for ReadMemory.
const (
	vramStart = 0x000000
	vramEnd   = 0x00FFFF
	cramStart = 0x010000
	cramEnd   = 0x01007F
)

// Emulator runs a program on its own goroutine in lockstep with the host:
// RunFrame lets the program run until its next vertical interrupt, where it
// parks until the following RunFrame. Everything the host reads or writes
// happens while the program is parked.
type Emulator struct {
	md    *MegaDrive
	gpu   *SoftGPU
	frame *image.RGBA
	id    uint32

	region Region
	timing RegionTiming

	resume chan struct{}
	done   chan struct{}
	exited chan struct{}
	quit   chan struct{}

	started   bool
	closeOnce sync.Once
	runErr    error

	audioBuffer []int16
}

// hostEvents parks the program at every vertical interrupt.
type hostEvents struct {
	resume <-chan struct{}
	done   chan<- struct{}
	quit   <-chan struct{}
}

func (h hostEvents) HInterrupt() {}

func (h hostEvents) VInterrupt() {
	select {
	case h.done <- struct{}{}:
	case <-h.quit:
		return
	}
	select {
	case <-h.resume:
	case <-h.quit:
	}
}

// NewEmulator creates an emulator for the program in h. data identifies the
// program for save states.
func NewEmulator(h Header, data []byte, region Region, cfg Config) (*Emulator, error) {
	e := &Emulator{
		gpu:    NewSoftGPU(nil),
		frame:  image.NewRGBA(image.Rect(0, 0, ScreenWidth, MaxScreenHeight)),
		id:     crc32.Update(crc32.ChecksumIEEE([]byte(h.Title)), crc32.IEEETable, data),
		resume: make(chan struct{}),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
		quit:   make(chan struct{}),
	}
	md, err := NewMegaDrive(h, e.gpu, hostEvents{resume: e.resume, done: e.done, quit: e.quit}, cfg)
	if err != nil {
		return nil, err
	}
	e.md = md
	e.SetRegion(region)
	return e, nil
}

// MegaDrive returns the program context.
func (e *Emulator) MegaDrive() *MegaDrive {
	return e.md
}

// RunFrame lets the program run until it has presented one frame, then
// captures the display.
func (e *Emulator) RunFrame() {
	select {
	case <-e.exited:
		return
	default:
	}
	if !e.started {
		e.started = true
		go e.run()
	} else {
		select {
		case e.resume <- struct{}{}:
		case <-e.exited:
			return
		}
	}
	select {
	case <-e.done:
	case <-e.exited:
		return
	}
	e.gpu.Snapshot(e.frame)
}

func (e *Emulator) run() {
	defer close(e.exited)
	err := e.md.Run()
	if err != nil && !errors.Is(err, ErrStopped) {
		log.Printf("%s: program exited: %v", e.md.header.Title, err)
		e.runErr = err
	}
}

// Err returns the error the program exited with, once it has exited.
func (e *Emulator) Err() error {
	select {
	case <-e.exited:
		return e.runErr
	default:
		return nil
	}
}

// SetInput unpacks a button bitmask and sets controller state for the given player.
func (e *Emulator) SetInput(player int, buttons uint32) {
	e.md.Joypad.SetInput(player, buttons)
}

// GetFramebuffer returns raw RGBA pixel data for current frame.
func (e *Emulator) GetFramebuffer() []byte {
	return e.frame.Pix
}

// GetFramebufferStride returns the stride (bytes per row) of the framebuffer.
func (e *Emulator) GetFramebufferStride() int {
	return e.frame.Stride
}

// GetActiveHeight returns the current active display height.
func (e *Emulator) GetActiveHeight() int {
	return ScreenHeight
}

// GetAudioSamples returns one frame of silence so audio-paced frontends
// keep their timing.
func (e *Emulator) GetAudioSamples() []int16 {
	return e.audioBuffer
}

// GetRegion returns the emulator's region setting.
func (e *Emulator) GetRegion() Region {
	return e.region
}

// GetTiming returns FPS and scanline count for the current region.
func (e *Emulator) GetTiming() emucore.Timing {
	return emucore.Timing{
		FPS:       e.timing.FPS,
		Scanlines: e.timing.Scanlines,
	}
}

// SetRegion updates the emulator's region configuration.
func (e *Emulator) SetRegion(region Region) {
	e.region = region
	e.timing = GetTimingForRegion(region)
	e.audioBuffer = make([]int16, sampleRate/e.timing.FPS*2)
}

// Close stops the program and releases the GPU.
func (e *Emulator) Close() {
	e.closeOnce.Do(func() {
		close(e.quit)
		e.gpu.Close()
		if e.started {
			<-e.exited
		}
	})
}

// SetOption applies a core option change identified by key.
func (e *Emulator) SetOption(key string, value string) {
	switch key {
	case "bounds_check":
		on, err := strconv.ParseBool(value)
		if err != nil {
			log.Printf("option %s: %v", key, err)
			return
		}
		if on {
			e.md.VDP.SetBoundsMode(BoundsValidated)
		} else {
			e.md.VDP.SetBoundsMode(BoundsUnchecked)
		}
	}
}

// ReadMemory reads from a flat address into buf and returns the number
// of bytes read. VRAM is mapped first, followed by CRAM as big-endian
// words.
func (e *Emulator) ReadMemory(addr uint32, buf []byte) uint32 {
	var count uint32
	for i := range buf {
		cur := addr + uint32(i)
		var b byte
		switch {
		case cur <= vramEnd:
			b = e.md.VDP.vram.mem[cur-vramStart]
		case cur >= cramStart && cur <= cramEnd:
			w := e.md.VDP.cram.entries[(cur-cramStart)/2]
			if cur&1 == 0 {
				b = byte(w >> 8)
			} else {
				b = byte(w)
			}
		default:
			return count
		}
		buf[i] = b
		count++
	}
	return count
}

// MemoryMap returns a list of available memory regions with sizes.
func (e *Emulator) MemoryMap() []emucore.MemoryRegion {
	return []emucore.MemoryRegion{
		{Type: emucore.MemorySystemRAM, Size: VRAMSize},
	}
}

// ReadRegion returns a copy of the specified memory region.
func (e *Emulator) ReadRegion(regionType int) []byte {
	switch regionType {
	case emucore.MemorySystemRAM:
		out := make([]byte, VRAMSize)
		if err := e.md.VDP.CopyMemory(out, nil); err != nil {
			return nil
		}
		return out
	default:
		return nil
	}
}

// WriteRegion writes data to the specified memory region.
func (e *Emulator) WriteRegion(regionType int, data []byte) {
	switch regionType {
	case emucore.MemorySystemRAM:
		if err := e.md.VDP.LoadVRAM(data); err != nil {
			log.Printf("WriteRegion: %v", err)
		}
	}
}
