// Package demo is a parallax scroller written against the VDP memory model.
// It drives every VDP operation: pattern, nametable, sprite and scroll
// table writes, palette fills, region configuration and one Render per
// frame.
package demo

import (
	"errors"
	"log"
	"math"

	"github.com/user-none/emvdp/emu"
)

// Title is the header title of the demo when no asset image names one.
const Title = "EMVDP PARALLAX DEMO"

// VRAM layout.
const (
	PlaneALocation   = 0xC000
	PlaneBLocation   = 0xE000
	SpriteLocation   = 0xF800
	HScrollLocation  = 0xFC00
	patternDataLimit = PlaneALocation
)

const (
	sparks      = 6
	playerSpeed = 2
	groundRow   = 24
	scrollSpeed = 1
)

// Game is the demo program.
type Game struct {
	// MaxFrames stops Main after that many frames; 0 runs until the GPU
	// stops.
	MaxFrames int
	// Logger receives frame errors. nil uses log.Default().
	Logger *log.Logger

	title string
	tiles []byte

	frame   int
	vints   int
	camX    int
	playerX int
	playerY int

	hscroll [emu.ScreenHeight * 2]int16
	sprites [(sparks + 1) * 8]byte
}

// New creates the demo. When rom carries a payload, its leading bytes
// replace the built-in pattern data, and a title in its header replaces the
// demo title.
func New(rom []byte) *Game {
	g := &Game{
		title:   Title,
		tiles:   builtinTiles(),
		playerX: emu.ScreenWidth/2 - 8,
		playerY: groundRow*8 - 16 - 8,
	}
	if payload := emu.ROMPayload(rom); len(payload) > 0 {
		n := min(len(payload), patternDataLimit)
		g.tiles = append([]byte(nil), payload[:n]...)
	}
	if t := emu.ROMTitle(rom); t != "" {
		g.title = t
	}
	return g
}

// Header returns the program header for the demo.
func (g *Game) Header() emu.Header {
	return emu.Header{Title: g.title, Program: g}
}

// Frames returns the number of frames rendered.
func (g *Game) Frames() int {
	return g.frame
}

// VInterrupts returns the number of vertical interrupts received.
func (g *Game) VInterrupts() int {
	return g.vints
}

func (g *Game) logger() *log.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return log.Default()
}

// Main sets up video memory and runs the frame loop.
func (g *Game) Main(md *emu.MegaDrive) error {
	if err := g.setup(md.VDP); err != nil {
		return err
	}
	for g.MaxFrames == 0 || g.frame < g.MaxFrames {
		g.update(md.Joypad.State(0))
		if err := g.draw(md.VDP); err != nil {
			return err
		}
		err := md.VDP.Render()
		g.frame++
		if errors.Is(err, emu.ErrStopped) {
			return nil
		}
		if err != nil {
			g.logger().Printf("demo: frame %d: %v", g.frame, err)
		}
	}
	return nil
}

func (g *Game) HInterrupt(md *emu.MegaDrive) {}

func (g *Game) VInterrupt(md *emu.MegaDrive) {
	g.vints++
}

func (g *Game) setup(v *emu.VDP) error {
	if err := v.SetPlaneSize(emu.PlaneWidth, emu.PlaneHeight); err != nil {
		return err
	}
	for _, set := range []struct {
		fn  func(int) error
		loc int
	}{
		{v.SetPlaneALocation, PlaneALocation},
		{v.SetPlaneBLocation, PlaneBLocation},
		{v.SetSpriteLocation, SpriteLocation},
		{v.SetHScrollLocation, HScrollLocation},
	} {
		if err := set.fn(set.loc); err != nil {
			return err
		}
	}

	// Palettes
	if err := v.SeekCRAM(0); err != nil {
		return err
	}
	if err := v.FillCRAM(0, emu.CRAMEntries); err != nil {
		return err
	}
	for i, pal := range palettes() {
		if err := v.SeekCRAM(i * 16); err != nil {
			return err
		}
		if err := v.WriteCRAM(pal[:]); err != nil {
			return err
		}
	}
	if err := v.SetBackgroundColour(10); err != nil {
		return err
	}

	// Patterns
	if _, err := v.SeekVRAM(0); err != nil {
		return err
	}
	if err := v.WriteVRAM(g.tiles); err != nil {
		return err
	}

	// Nametables and tables
	if _, err := v.SeekVRAM(PlaneALocation); err != nil {
		return err
	}
	if err := v.FillVRAM(0, emu.VRAMSize-PlaneALocation); err != nil {
		return err
	}
	if err := g.writePlane(v, PlaneBLocation, planeBEntry); err != nil {
		return err
	}
	return g.writePlane(v, PlaneALocation, planeAEntry)
}

// writePlane writes a whole nametable one row at a time.
func (g *Game) writePlane(v *emu.VDP, base int, entry func(x, y int) uint16) error {
	row := make([]byte, emu.PlaneWidth*2)
	for y := 0; y < emu.PlaneHeight; y++ {
		for x := 0; x < emu.PlaneWidth; x++ {
			e := entry(x, y)
			row[x*2] = byte(e >> 8)
			row[x*2+1] = byte(e)
		}
		if _, err := v.SeekVRAM(base + y*emu.PlaneWidth*2); err != nil {
			return err
		}
		if err := v.WriteVRAM(row); err != nil {
			return err
		}
	}
	return nil
}

func planeBEntry(x, y int) uint16 {
	switch {
	case y < 12:
		if (x*7+y*3)%11 == 0 {
			return emu.MakeEntry(patCloud, x%2 == 0, false, 0, false)
		}
		return emu.MakeEntry(patSolid, false, false, 0, false)
	case y < 20:
		return emu.MakeEntry(patChecker, false, y%2 == 1, 0, false)
	default:
		return emu.MakeEntry(patBrick, x%2 == 1, false, 0, false)
	}
}

func planeAEntry(x, y int) uint16 {
	switch {
	case y == groundRow-2 && x%8 == 0:
		return emu.MakeEntry(patAnimated, false, false, 1, true)
	case y >= groundRow:
		shade := min(y-groundRow, 3)
		return emu.MakeEntry(uint16(patGround+shade), false, false, 1, y == groundRow)
	default:
		return emu.MakeEntry(patBlank, false, false, 1, false)
	}
}

// update advances the scene by one frame.
func (g *Game) update(pad uint8) {
	g.camX += scrollSpeed
	if pad&emu.PadLeft != 0 {
		g.playerX -= playerSpeed
	}
	if pad&emu.PadRight != 0 {
		g.playerX += playerSpeed
	}
	if pad&emu.PadUp != 0 {
		g.playerY -= playerSpeed
	}
	if pad&emu.PadDown != 0 {
		g.playerY += playerSpeed
	}
	g.playerX = max(0, min(g.playerX, emu.ScreenWidth-16))
	g.playerY = max(0, min(g.playerY, emu.ScreenHeight-16))
}

// draw writes the frame's scroll table, sprite table and animated pattern.
func (g *Game) draw(v *emu.VDP) error {
	// Scroll table: plane A follows the camera, plane B scrolls in
	// bands, the middle band rippling.
	for line := 0; line < emu.ScreenHeight; line++ {
		a := int16(-g.camX)
		var b int16
		switch {
		case line < 96:
			b = int16(-g.camX / 4)
		case line < 160:
			ripple := math.Sin(float64(line+g.frame) / 6)
			b = int16(-g.camX/2 + int(math.Round(ripple*2)))
		default:
			b = int16(-g.camX * 3 / 4)
		}
		g.hscroll[line*2] = a
		g.hscroll[line*2+1] = b
	}
	buf := make([]byte, 0, len(g.hscroll)*2)
	for _, s := range g.hscroll {
		buf = append(buf, byte(uint16(s)>>8), byte(s))
	}
	if _, err := v.SeekVRAM(HScrollLocation); err != nil {
		return err
	}
	if err := v.WriteVRAM(buf); err != nil {
		return err
	}
	if err := v.SetVScroll(0, int16(g.frame/8%8)); err != nil {
		return err
	}

	// Sprites: the player first so it is drawn on top, then the sparks
	// orbiting it.
	g.putSprite(0, g.playerX, g.playerY, 2, 2, 1, emu.MakeEntry(patPlayer, g.frame/16%2 == 1, false, 2, true))
	for i := 1; i <= sparks; i++ {
		angle := float64(g.frame)/20 + float64(i)*2*math.Pi/sparks
		x := g.playerX + 4 + int(math.Round(math.Cos(angle)*24))
		y := g.playerY + 4 + int(math.Round(math.Sin(angle)*24))
		link := i + 1
		if i == sparks {
			link = 0
		}
		g.putSprite(i, x, y, 1, 1, link, emu.MakeEntry(patSpark, false, false, 3, i%2 == 0))
	}
	if _, err := v.SeekVRAM(SpriteLocation); err != nil {
		return err
	}
	if err := v.WriteVRAM(g.sprites[:]); err != nil {
		return err
	}

	// Animated pattern
	if g.frame%8 == 0 && len(g.tiles) >= (patAnimated+1)*32 {
		p := stripePattern(g.frame/8%animFrames, 12, 13)
		if _, err := v.SeekVRAM(patAnimated * 32); err != nil {
			return err
		}
		if err := v.WriteVRAM(p.pack()); err != nil {
			return err
		}
	}
	return nil
}

// putSprite encodes one sprite table entry at screen position x, y.
func (g *Game) putSprite(index, x, y, w, h, link int, attr uint16) {
	e := g.sprites[index*8 : index*8+8]
	words := [4]uint16{
		uint16(y+128) & 0x03FF,
		uint16(w-1)<<10 | uint16(h-1)<<8 | uint16(link)&0x7F,
		attr,
		uint16(x+128) & 0x01FF,
	}
	for i, word := range words {
		e[i*2] = byte(word >> 8)
		e[i*2+1] = byte(word)
	}
}

// palettes returns the four demo palettes: sky and hills, foreground,
// player, sparks.
func palettes() [4][16]uint16 {
	var p [4][16]uint16
	p[0] = [16]uint16{
		0,
		// sky
		emu.PackColor(3, 5, 7),
		// hills
		emu.PackColor(1, 4, 1), emu.PackColor(2, 5, 2),
		// bricks
		emu.PackColor(3, 2, 1), emu.PackColor(2, 1, 1),
		0, 0, 0, 0,
		// clouds
		emu.PackColor(3, 5, 7), emu.PackColor(7, 7, 7),
	}
	p[1] = [16]uint16{
		0, 0, 0, 0, 0, 0,
		// ground
		emu.PackColor(2, 6, 1), emu.PackColor(5, 3, 1), emu.PackColor(4, 2, 1), emu.PackColor(3, 1, 0),
		0, 0,
		// animated blocks
		emu.PackColor(7, 7, 0), emu.PackColor(7, 3, 0),
	}
	p[2] = [16]uint16{0, emu.PackColor(4, 0, 0), emu.PackColor(6, 2, 2), emu.PackColor(7, 6, 6)}
	p[3] = [16]uint16{0, 0, 0, 0, emu.PackColor(7, 7, 2), emu.PackColor(7, 7, 7)}
	return p
}
