package emu

// Framebuffer placement in GPU VRAM.
const (
	displayHeight = 240
	pictureTop    = (displayHeight - ScreenHeight) / 2
	frameBufferY0 = 0
	frameBufferY1 = 256
)

// presentSlot is one half of the double buffer.
type presentSlot struct {
	disp  DispEnv
	draw  DrawEnv
	ot    OrderingTable
	prims primBuffer
}

func (s *presentSlot) reset() {
	s.ot.reset()
	s.prims.reset()
}

// emit allocates p from the slot's scratch and links it into bin. It returns
// false when the scratch budget is exhausted.
func (s *presentSlot) emit(bin int, p Prim) bool {
	pp := s.prims.alloc(p)
	if pp == nil {
		return false
	}
	s.ot.add(bin, pp)
	return true
}

// presentState owns both slots. front is the slot on display; the other
// one is the only one that may be built into.
type presentState struct {
	slots [2]presentSlot
	front int
}

func (ps *presentState) init(primSize int) {
	for i := range ps.slots {
		dispY, drawY := frameBufferY0, frameBufferY1
		if i == 1 {
			dispY, drawY = drawY, dispY
		}
		ps.slots[i] = presentSlot{
			disp: DispEnv{
				Area:    Rect{X: 0, Y: dispY, W: ScreenWidth, H: ScreenHeight},
				ScreenY: pictureTop,
				ScreenH: ScreenHeight,
			},
			draw:  DrawEnv{Clip: Rect{X: 0, Y: drawY, W: ScreenWidth, H: ScreenHeight}},
			prims: newPrimBuffer(primSize),
		}
	}
	// slot 0 is built first
	ps.front = 1
}

// back returns the slot being built.
func (ps *presentState) back() *presentSlot {
	return &ps.slots[ps.front^1]
}

func (ps *presentState) flip() {
	ps.front ^= 1
}

// Front returns a read-only view of the slot on display.
func (ps *presentState) Front() FrontView {
	return FrontView{slot: &ps.slots[ps.front], index: ps.front}
}

// FrontView is read-only access to the displayed slot.
type FrontView struct {
	slot  *presentSlot
	index int
}

// Index returns which slot (0 or 1) is on display.
func (f FrontView) Index() int { return f.index }

func (f FrontView) DispEnv() DispEnv {
	if f.slot == nil {
		return DispEnv{}
	}
	return f.slot.disp
}

func (f FrontView) DrawEnv() DrawEnv {
	if f.slot == nil {
		return DrawEnv{}
	}
	return f.slot.draw
}

// Len returns the number of primitives submitted with the slot.
func (f FrontView) Len() int {
	if f.slot == nil {
		return 0
	}
	return f.slot.ot.Len()
}

// BinLen returns the number of primitives in one ordering table bin.
func (f FrontView) BinLen(bin int) int {
	if f.slot == nil {
		return 0
	}
	return f.slot.ot.BinLen(bin)
}

// Walk visits copies of the slot's primitives in draw order.
func (f FrontView) Walk(fn func(bin int, p Prim)) {
	if f.slot == nil {
		return
	}
	f.slot.ot.Walk(func(bin int, p *Prim) { fn(bin, *p) })
}

// PrimBytes returns the scratch bytes used by the slot.
func (f FrontView) PrimBytes() int {
	if f.slot == nil {
		return 0
	}
	return f.slot.prims.used
}
