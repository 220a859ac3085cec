package emu

import (
	"image"
	"sync"
)

// SoftGPU is a software implementation of GPU. It keeps a 1024x512 word
// VRAM, rasterizes ordering tables into it and converts the displayed area
// to RGBA on request.
type SoftGPU struct {
	mu   sync.Mutex
	vram []uint16
	disp DispEnv
	draw DrawEnv

	// vblank paces VSync. A nil channel means free-running.
	vblank    <-chan struct{}
	closed    chan struct{}
	closeOnce sync.Once

	loads int // LoadImage calls
	drawn int // primitives rasterized
}

// NewSoftGPU creates a software GPU. When vblank is non-nil, every VSync
// consumes one value from it.
func NewSoftGPU(vblank <-chan struct{}) *SoftGPU {
	return &SoftGPU{
		vram:   make([]uint16, GPUWidth*GPUHeight),
		vblank: vblank,
		closed: make(chan struct{}),
	}
}

// Close stops the GPU. A pending or future VSync returns ErrStopped.
func (g *SoftGPU) Close() {
	g.closeOnce.Do(func() { close(g.closed) })
}

// DrawSync is a no-op; DrawOTag rasterizes synchronously.
func (g *SoftGPU) DrawSync() {}

// LoadImage copies data into VRAM, clipping at the VRAM edges.
func (g *SoftGPU) LoadImage(r Rect, data []uint16) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.loads++
	for row := 0; row < r.H; row++ {
		y := r.Y + row
		if y < 0 || y >= GPUHeight {
			continue
		}
		for col := 0; col < r.W; col++ {
			x := r.X + col
			i := row*r.W + col
			if x < 0 || x >= GPUWidth || i >= len(data) {
				continue
			}
			g.vram[y*GPUWidth+x] = data[i]
		}
	}
}

// VSync waits for the next vertical blank.
func (g *SoftGPU) VSync() error {
	select {
	case <-g.closed:
		return ErrStopped
	default:
	}
	if g.vblank == nil {
		return nil
	}
	select {
	case _, ok := <-g.vblank:
		if !ok {
			return ErrStopped
		}
		return nil
	case <-g.closed:
		return ErrStopped
	}
}

func (g *SoftGPU) PutDispEnv(env DispEnv) {
	g.mu.Lock()
	g.disp = env
	g.mu.Unlock()
}

func (g *SoftGPU) PutDrawEnv(env DrawEnv) {
	g.mu.Lock()
	g.draw = env
	g.mu.Unlock()
}

// DrawOTag rasterizes every primitive of ot in draw order.
func (g *SoftGPU) DrawOTag(ot *OrderingTable) {
	g.mu.Lock()
	defer g.mu.Unlock()
	ot.Walk(func(_ int, p *Prim) {
		switch p.Kind {
		case PrimFill:
			g.fill(p)
		case PrimTex:
			g.texture(p)
		}
		g.drawn++
	})
}

// clipSpan intersects a primitive with the draw area. It returns the VRAM
// origin of the primitive and the clipped range in primitive-local pixels.
func (g *SoftGPU) clipSpan(p *Prim) (ox, oy, x0, y0, x1, y1 int) {
	clip := g.draw.Clip
	ox = clip.X + p.X
	oy = clip.Y + p.Y
	x0, y0 = 0, 0
	x1, y1 = p.W, p.H
	if ox+x0 < clip.X {
		x0 = clip.X - ox
	}
	if oy+y0 < clip.Y {
		y0 = clip.Y - oy
	}
	if ox+x1 > clip.X+clip.W {
		x1 = clip.X + clip.W - ox
	}
	if oy+y1 > clip.Y+clip.H {
		y1 = clip.Y + clip.H - oy
	}
	return
}

func rgb15(r, g, b uint8) uint16 {
	return uint16(b>>3)<<10 | uint16(g>>3)<<5 | uint16(r>>3)
}

func (g *SoftGPU) fill(p *Prim) {
	ox, oy, x0, y0, x1, y1 := g.clipSpan(p)
	c := rgb15(p.R, p.G, p.B)
	for y := y0; y < y1; y++ {
		row := (oy + y) * GPUWidth
		for x := x0; x < x1; x++ {
			g.vram[row+ox+x] = c
		}
	}
}

// texel returns the 8-bit sample at (u, v) of the page at (pageX, pageY).
func (g *SoftGPU) texel(pageX, pageY, u, v int) uint8 {
	w := g.vram[(pageY+v)*GPUWidth+pageX+u>>1]
	if u&1 != 0 {
		return uint8(w >> 8)
	}
	return uint8(w)
}

func (g *SoftGPU) texture(p *Prim) {
	ox, oy, x0, y0, x1, y1 := g.clipSpan(p)
	if p.PageY+texPageHeight > GPUHeight || p.PageX+texPageWidth > GPUWidth {
		return
	}
	clutBase := p.ClutY*GPUWidth + p.ClutX
	for y := y0; y < y1; y++ {
		ty := y
		if p.FlipY {
			ty = p.H - 1 - y
		}
		v := (p.V + ty) & 0xFF
		row := (oy + y) * GPUWidth
		for x := x0; x < x1; x++ {
			tx := x
			if p.FlipX {
				tx = p.W - 1 - x
			}
			u := (p.U + tx) & 0xFF
			idx := int(g.texel(p.PageX, p.PageY, u, v))
			if clutBase+idx >= len(g.vram) {
				continue
			}
			c := g.vram[clutBase+idx]
			if c == 0 {
				continue // transparent
			}
			g.vram[row+ox+x] = c
		}
	}
}

// Word returns one VRAM word.
func (g *SoftGPU) Word(x, y int) uint16 {
	if x < 0 || x >= GPUWidth || y < 0 || y >= GPUHeight {
		return 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.vram[y*GPUWidth+x]
}

// Counters returns the number of LoadImage calls and primitives drawn since
// creation.
func (g *SoftGPU) Counters() (loads, drawn int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.loads, g.drawn
}

// Snapshot converts the visible part of the display area into dst, which
// must be at least ScreenWidth x ScreenHeight.
func (g *SoftGPU) Snapshot(dst *image.RGBA) {
	g.mu.Lock()
	defer g.mu.Unlock()

	area := g.disp.Area
	h := g.disp.ScreenH
	if h == 0 {
		h = area.H
	}
	b := dst.Bounds()
	for y := 0; y < h && y < b.Dy(); y++ {
		vy := area.Y + y
		if vy < 0 || vy >= GPUHeight {
			continue
		}
		off := y * dst.Stride
		for x := 0; x < area.W && x < b.Dx(); x++ {
			vx := area.X + x
			if vx < 0 || vx >= GPUWidth {
				continue
			}
			c := g.vram[vy*GPUWidth+vx]
			r := uint8(c&0x1F) << 3
			gr := uint8((c>>5)&0x1F) << 3
			bl := uint8((c>>10)&0x1F) << 3
			p := off + x*4
			dst.Pix[p] = r | r>>5
			dst.Pix[p+1] = gr | gr>>5
			dst.Pix[p+2] = bl | bl>>5
			dst.Pix[p+3] = 0xFF
		}
	}
}
