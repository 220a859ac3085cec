package emu

import (
	"errors"
	"fmt"
	"log"
)

const (
	ScreenWidth  = 320
	ScreenHeight = 224

	// VRAMSize is the size of the emulated video memory in bytes.
	VRAMSize = 0x10000

	// Fixed logical plane dimensions in tiles.
	PlaneWidth  = 64
	PlaneHeight = 32

	// SpriteSlots is the capacity of the sprite attribute table.
	SpriteSlots = 80

	spriteEntrySize  = 8
	spriteTableSize  = SpriteSlots * spriteEntrySize
	hScrollTableSize = ScreenHeight * 4
)

// Region setter alignment masks.
const (
	planeAlignMask   = 0x1FFF
	spriteAlignMask  = 0x03FF
	hScrollAlignMask = 0x03FF
)

var (
	// ErrOutOfBounds reports an access outside a store or region.
	ErrOutOfBounds = errors.New("out of bounds")
	// ErrNotInitialized reports a call on a VDP that was not created by NewVDP.
	ErrNotInitialized = errors.New("vdp not initialized")
	// ErrBadPlaneSize reports an unsupported plane size.
	ErrBadPlaneSize = errors.New("unsupported plane size")
)

// BoundsMode selects how address and length violations are handled.
type BoundsMode int

const (
	// BoundsValidated rejects a violating call: the violation is logged,
	// an error is returned and no state changes.
	BoundsValidated BoundsMode = iota
	// BoundsUnchecked performs no validation. Addresses wrap modulo the
	// store size, so an overrun corrupts neighbouring memory.
	BoundsUnchecked
)

func (m BoundsMode) String() string {
	if m == BoundsUnchecked {
		return "unchecked"
	}
	return "validated"
}

// Config holds VDP construction options. The zero value is usable.
type Config struct {
	Bounds         BoundsMode
	Logger         *log.Logger // nil uses log.Default()
	PrimBufferSize int         // per present slot, 0 uses DefaultPrimBufferSize
}

// FrameEvents receives the VDP interrupts. VInterrupt runs synchronously at
// the end of every Render. HInterrupt is configured through
// SetHIntPosition but nothing in the render path fires it.
type FrameEvents interface {
	HInterrupt()
	VInterrupt()
}

// FrameStats describes the work done by the last Render.
type FrameStats struct {
	BlocksUploaded int
	TilesUploaded  int
	Primitives     int
	PlaneRuns      [2]int // plane A, plane B
	SpritesVisited int
}

// VDP is the software video display processor. It owns video memory, the
// colour table, the dirty state and both present slots.
type VDP struct {
	initialized bool

	vram  vramStore
	cram  cramStore
	dirty dirtyTracker

	regions regionMap

	backgroundColour uint8
	vScrollA         int16
	vScrollB         int16
	hIntPosition     int16

	present presentState
	gpu     GPU
	events  FrameEvents

	bounds BoundsMode
	logger *log.Logger

	cramFmt   [CRAMEntries]uint16
	uploadBuf []uint16
	blockList []int
	runBuf    []scrollRun
	stats     FrameStats
	frames    uint64
}

// NewVDP creates a VDP rendering through gpu. events may be nil.
func NewVDP(gpu GPU, events FrameEvents, cfg Config) *VDP {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	primSize := cfg.PrimBufferSize
	if primSize <= 0 {
		primSize = DefaultPrimBufferSize
	}

	v := &VDP{
		initialized:  true,
		gpu:          gpu,
		events:       events,
		bounds:       cfg.Bounds,
		logger:       logger,
		hIntPosition: -1,
		uploadBuf:    make([]uint16, dirtyBlockSize),
		blockList:    make([]int, 0, dirtyBlocks),
		runBuf:       make([]scrollRun, 0, ScreenHeight),
	}
	v.regions.setPlaneSize(32, 32)
	v.present.init(primSize)
	return v
}

// SetBoundsMode switches the bounds policy.
func (v *VDP) SetBoundsMode(m BoundsMode) {
	if v.checkInit("SetBoundsMode") != nil {
		return
	}
	v.bounds = m
}

// BoundsMode returns the active bounds policy.
func (v *VDP) BoundsMode() BoundsMode {
	if v.checkInit("BoundsMode") != nil {
		return BoundsValidated
	}
	return v.bounds
}

// reject logs a validated-mode violation and returns it as an error.
func (v *VDP) reject(op string, format string, args ...any) error {
	err := fmt.Errorf("%s: %w: %s", op, ErrOutOfBounds, fmt.Sprintf(format, args...))
	v.logger.Printf("vdp: %v", err)
	return err
}

func (v *VDP) checkInit(op string) error {
	if v == nil || !v.initialized {
		return fmt.Errorf("%s: %w", op, ErrNotInitialized)
	}
	return nil
}

// --- Video memory ---

// SeekVRAM moves the VRAM write cursor and returns the classification of
// the new address. The classification applies to every write until the next
// seek.
func (v *VDP) SeekVRAM(offset int) (VRAMRegion, error) {
	if err := v.checkInit("SeekVRAM"); err != nil {
		return RegionNone, err
	}
	if v.bounds == BoundsValidated && (offset < 0 || offset >= VRAMSize) {
		return v.vram.region, v.reject("SeekVRAM", "offset 0x%X outside VRAM", offset)
	}
	return v.vram.seek(offset&(VRAMSize-1), &v.regions), nil
}

// WriteVRAM copies data at the cursor and advances it.
func (v *VDP) WriteVRAM(data []byte) error {
	if err := v.checkInit("WriteVRAM"); err != nil {
		return err
	}
	if v.bounds == BoundsValidated && v.vram.cursor+len(data) > VRAMSize {
		return v.reject("WriteVRAM", "write of %d bytes at 0x%X", len(data), v.vram.cursor)
	}
	for _, span := range v.vram.write(data) {
		v.dirty.mark(v.vram.region, &v.regions, span.start, span.end)
	}
	return nil
}

// FillVRAM writes n copies of b at the cursor and advances it.
func (v *VDP) FillVRAM(b byte, n int) error {
	if err := v.checkInit("FillVRAM"); err != nil {
		return err
	}
	if n < 0 || (v.bounds == BoundsValidated && v.vram.cursor+n > VRAMSize) {
		return v.reject("FillVRAM", "fill of %d bytes at 0x%X", n, v.vram.cursor)
	}
	for _, span := range v.vram.fill(b, n) {
		v.dirty.mark(v.vram.region, &v.regions, span.start, span.end)
	}
	return nil
}

// ReadVRAM returns a copy of n bytes starting at offset. It is a debug
// accessor and does not move the cursor.
func (v *VDP) ReadVRAM(offset, n int) ([]byte, error) {
	if err := v.checkInit("ReadVRAM"); err != nil {
		return nil, err
	}
	if offset < 0 || n < 0 || offset+n > VRAMSize {
		return nil, fmt.Errorf("ReadVRAM: %w: %d bytes at 0x%X", ErrOutOfBounds, n, offset)
	}
	out := make([]byte, n)
	copy(out, v.vram.mem[offset:offset+n])
	return out, nil
}

// --- Colour table ---

// SeekCRAM moves the CRAM write cursor to entry offset.
func (v *VDP) SeekCRAM(offset int) error {
	if err := v.checkInit("SeekCRAM"); err != nil {
		return err
	}
	if v.bounds == BoundsValidated && (offset < 0 || offset >= CRAMEntries) {
		return v.reject("SeekCRAM", "entry %d outside CRAM", offset)
	}
	v.cram.seek(offset)
	return nil
}

// WriteCRAM copies colour words at the cursor and advances it.
func (v *VDP) WriteCRAM(words []uint16) error {
	if err := v.checkInit("WriteCRAM"); err != nil {
		return err
	}
	if v.bounds == BoundsValidated && v.cram.cursor+len(words) > CRAMEntries {
		return v.reject("WriteCRAM", "write of %d entries at %d", len(words), v.cram.cursor)
	}
	v.cram.write(words)
	return nil
}

// FillCRAM writes n copies of w at the cursor and advances it.
func (v *VDP) FillCRAM(w uint16, n int) error {
	if err := v.checkInit("FillCRAM"); err != nil {
		return err
	}
	if n < 0 || (v.bounds == BoundsValidated && v.cram.cursor+n > CRAMEntries) {
		return v.reject("FillCRAM", "fill of %d entries at %d", n, v.cram.cursor)
	}
	v.cram.fill(w, n)
	return nil
}

// CRAMEntry returns one colour word, 0 on an uninitialized VDP.
func (v *VDP) CRAMEntry(i int) uint16 {
	if v.checkInit("CRAMEntry") != nil {
		return 0
	}
	return v.cram.entries[i&(CRAMEntries-1)]
}

// --- Region configuration ---

// setLocation validates and stores a region offset after masking it to the
// region alignment.
func (v *VDP) setLocation(op string, dst *int, offset, mask, size int) error {
	if err := v.checkInit(op); err != nil {
		return err
	}
	loc := offset &^ mask
	if v.bounds == BoundsValidated && (offset < 0 || loc+size > VRAMSize) {
		return v.reject(op, "region of %d bytes at 0x%X", size, offset)
	}
	*dst = loc & (VRAMSize - 1)
	return nil
}

// SetPlaneALocation sets the foreground nametable offset.
func (v *VDP) SetPlaneALocation(offset int) error {
	return v.setLocation("SetPlaneALocation", &v.regions.planeA, offset, planeAlignMask, v.regions.planeSize)
}

// SetPlaneBLocation sets the background nametable offset.
func (v *VDP) SetPlaneBLocation(offset int) error {
	return v.setLocation("SetPlaneBLocation", &v.regions.planeB, offset, planeAlignMask, v.regions.planeSize)
}

// SetSpriteLocation sets the sprite attribute table offset.
func (v *VDP) SetSpriteLocation(offset int) error {
	return v.setLocation("SetSpriteLocation", &v.regions.sprite, offset, spriteAlignMask, spriteTableSize)
}

// SetHScrollLocation sets the horizontal scroll table offset.
func (v *VDP) SetHScrollLocation(offset int) error {
	return v.setLocation("SetHScrollLocation", &v.regions.hScroll, offset, hScrollAlignMask, hScrollTableSize)
}

// SetPlaneSize sets both planes' nametable dimensions in tiles. Width must
// be 32 or 64 and height 32.
func (v *VDP) SetPlaneSize(w, h int) error {
	if err := v.checkInit("SetPlaneSize"); err != nil {
		return err
	}
	if (w != 32 && w != PlaneWidth) || h != PlaneHeight {
		err := fmt.Errorf("SetPlaneSize: %w: %dx%d", ErrBadPlaneSize, w, h)
		v.logger.Printf("vdp: %v", err)
		return err
	}
	v.regions.setPlaneSize(w, h)
	return nil
}

// SetBackgroundColour selects the CRAM entry drawn beneath everything else.
func (v *VDP) SetBackgroundColour(index uint8) error {
	if err := v.checkInit("SetBackgroundColour"); err != nil {
		return err
	}
	if v.bounds == BoundsValidated && int(index) >= CRAMEntries {
		return v.reject("SetBackgroundColour", "entry %d outside CRAM", index)
	}
	v.backgroundColour = index & (CRAMEntries - 1)
	return nil
}

// SetVScroll sets the vertical scroll of plane A and plane B.
func (v *VDP) SetVScroll(a, b int16) error {
	if err := v.checkInit("SetVScroll"); err != nil {
		return err
	}
	v.vScrollA = a
	v.vScrollB = b
	return nil
}

// SetHIntPosition sets the scanline of the horizontal interrupt. The value
// is stored for the program; the renderer does not fire it.
func (v *VDP) SetHIntPosition(line int16) error {
	if err := v.checkInit("SetHIntPosition"); err != nil {
		return err
	}
	v.hIntPosition = line
	return nil
}

// HIntPosition returns the configured horizontal interrupt line, -1 when
// unset.
func (v *VDP) HIntPosition() int16 {
	if v.checkInit("HIntPosition") != nil {
		return -1
	}
	return v.hIntPosition
}

// Regions returns the current region offsets and plane size.
func (v *VDP) Regions() (planeA, planeB, sprite, hScroll, planeW, planeH int) {
	if v.checkInit("Regions") != nil {
		return
	}
	r := &v.regions
	return r.planeA, r.planeB, r.sprite, r.hScroll, r.planeW, r.planeH
}

// LastFrame returns statistics for the most recent Render.
func (v *VDP) LastFrame() FrameStats {
	if v.checkInit("LastFrame") != nil {
		return FrameStats{}
	}
	return v.stats
}

// Frames returns the number of frames presented.
func (v *VDP) Frames() uint64 {
	if v.checkInit("Frames") != nil {
		return 0
	}
	return v.frames
}

// Front returns a read-only view of the slot currently displayed. An
// uninitialized VDP has an empty view.
func (v *VDP) Front() FrontView {
	if v.checkInit("Front") != nil {
		return FrontView{}
	}
	return v.present.Front()
}

// CopyMemory copies VRAM and CRAM into the given buffers.
func (v *VDP) CopyMemory(vram []byte, cram []uint16) error {
	if err := v.checkInit("CopyMemory"); err != nil {
		return err
	}
	copy(vram, v.vram.mem[:])
	copy(cram, v.cram.entries[:])
	return nil
}

// LoadVRAM replaces video memory from offset 0 without moving the cursor
// and marks everything for upload.
func (v *VDP) LoadVRAM(data []byte) error {
	if err := v.checkInit("LoadVRAM"); err != nil {
		return err
	}
	copy(v.vram.mem[:], data)
	v.dirtyAll()
	return nil
}

// readWord reads a big-endian word from VRAM, wrapping at the end.
func (v *VDP) readWord(addr int) uint16 {
	addr &= VRAMSize - 1
	return uint16(v.vram.mem[addr])<<8 | uint16(v.vram.mem[(addr+1)&(VRAMSize-1)])
}
