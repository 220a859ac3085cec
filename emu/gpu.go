package emu

import "errors"

// GPU VRAM geometry, in 16-bit words.
const (
	GPUWidth  = 1024
	GPUHeight = 512
)

// Texture atlas layout inside GPU VRAM. All coordinates are in 16-bit words;
// 8-bit textures hold two samples per word (left sample in the low byte).
const (
	patternAtlasX  = 320 // unpacked pattern data, 32 columns of 4 words x 512 rows
	patternColumns = 32
	planeBTexX     = 512
	planeBTexY     = 0
	planeALowTexX  = 768
	planeALowTexY  = 0
	planeAHighTexX = 768
	planeAHighTexY = 256
	clutY          = 511
	texPageWidth   = 128 // words per 8-bit texture page (256 samples)
	texPageHeight  = 256
)

// Primitive sizes charged against the scratch budget, in bytes.
const (
	fillPrimSize = 16 // tag, colour, xy, wh
	texPrimSize  = 28 // sprite packet plus texpage change
)

// DefaultPrimBufferSize is the per-slot primitive scratch budget.
const DefaultPrimBufferSize = 0x10000

// ErrPrimBufferFull is returned when a frame needs more primitive scratch
// space than the present slot owns.
var ErrPrimBufferFull = errors.New("primitive buffer full")

// ErrStopped is returned when the GPU is shut down while a frame waits for
// vertical blank.
var ErrStopped = errors.New("gpu stopped")

// Rect is a rectangle in GPU VRAM words or screen pixels.
type Rect struct {
	X, Y, W, H int
}

// DispEnv selects the VRAM area scanned out to the display.
type DispEnv struct {
	Area    Rect
	ScreenY int // vertical position of the picture on the display
	ScreenH int // visible lines, taken from the top of Area
}

// DrawEnv selects the VRAM area primitives are drawn into.
type DrawEnv struct {
	Clip Rect // drawing is clipped to this area; primitive coordinates are relative to its origin
}

// PrimKind identifies a primitive type.
type PrimKind uint8

const (
	PrimFill PrimKind = iota // flat coloured rectangle
	PrimTex                  // textured rectangle, 8-bit CLUT texture
)

// Prim is a draw primitive. Fill primitives use R, G, B; textured primitives
// sample an 8-bit texture page through a CLUT.
type Prim struct {
	Kind PrimKind

	X, Y, W, H int

	R, G, B uint8

	U, V         int // texel origin inside the page, 0-255
	PageX, PageY int // texture page origin in VRAM words
	ClutX, ClutY int // CLUT origin in VRAM words
	FlipX, FlipY bool
}

func (p *Prim) size() int {
	if p.Kind == PrimTex {
		return texPrimSize
	}
	return fillPrimSize
}

// Ordering table bins, drawn back to front.
const (
	BinBackdrop = iota
	BinPlaneB
	BinPlaneALow
	BinSpriteLow
	BinPlaneAHigh
	BinSpriteHigh
	otLen
)

// OrderingTable buckets primitives by depth. Within a bin the most recently
// added primitive is drawn first.
type OrderingTable struct {
	bins [otLen][]*Prim
}

// reset empties every bin, keeping capacity.
func (ot *OrderingTable) reset() {
	for i := range ot.bins {
		ot.bins[i] = ot.bins[i][:0]
	}
}

func (ot *OrderingTable) add(bin int, p *Prim) {
	ot.bins[bin] = append(ot.bins[bin], p)
}

// Len returns the number of linked primitives.
func (ot *OrderingTable) Len() int {
	n := 0
	for i := range ot.bins {
		n += len(ot.bins[i])
	}
	return n
}

// BinLen returns the number of primitives linked into one bin.
func (ot *OrderingTable) BinLen(bin int) int {
	if bin < 0 || bin >= otLen {
		return 0
	}
	return len(ot.bins[bin])
}

// Walk visits primitives in draw order.
func (ot *OrderingTable) Walk(fn func(bin int, p *Prim)) {
	for bin := 0; bin < otLen; bin++ {
		list := ot.bins[bin]
		for i := len(list) - 1; i >= 0; i-- {
			fn(bin, list[i])
		}
	}
}

// primBuffer is the fixed primitive scratch region of a present slot.
type primBuffer struct {
	prims []Prim
	used  int // bytes
	limit int // bytes
}

func newPrimBuffer(limit int) primBuffer {
	return primBuffer{
		prims: make([]Prim, 0, limit/fillPrimSize),
		limit: limit,
	}
}

func (pb *primBuffer) reset() {
	pb.prims = pb.prims[:0]
	pb.used = 0
}

// alloc reserves space for p and returns a pointer into the scratch region,
// or nil when the budget is exhausted.
func (pb *primBuffer) alloc(p Prim) *Prim {
	sz := p.size()
	if pb.used+sz > pb.limit || len(pb.prims) == cap(pb.prims) {
		return nil
	}
	pb.used += sz
	pb.prims = append(pb.prims, p)
	return &pb.prims[len(pb.prims)-1]
}

// GPU is the primitive-based graphics processor the VDP renders through.
type GPU interface {
	// DrawSync blocks until the previous DrawOTag has been consumed.
	DrawSync()
	// LoadImage copies data (row-major, r.W words per row) into VRAM.
	LoadImage(r Rect, data []uint16)
	// VSync blocks until vertical blank. It returns ErrStopped when the
	// GPU is shut down.
	VSync() error
	PutDispEnv(env DispEnv)
	PutDrawEnv(env DrawEnv)
	// DrawOTag draws every primitive linked into ot.
	DrawOTag(ot *OrderingTable)
}
