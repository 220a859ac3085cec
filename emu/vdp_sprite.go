package emu

import (
	"errors"
	"fmt"
)

var (
	// ErrSpriteChain reports a sprite link chain that does not end within
	// SpriteSlots visits.
	ErrSpriteChain = errors.New("sprite chain exceeds table")
	// ErrSpriteLink reports a link index outside the sprite table.
	ErrSpriteLink = errors.New("sprite link out of range")
)

// spriteOrigin is the coordinate bias of sprite positions.
const spriteOrigin = 128

// sprite is a decoded sprite attribute entry.
type sprite struct {
	y, x int // screen position
	w, h int // tiles
	link int
	attr entry
}

func (v *VDP) readSprite(index int) sprite {
	addr := v.regions.sprite + index*spriteEntrySize
	yw := v.readWord(addr)
	sl := v.readWord(addr + 2)
	attr := v.readWord(addr + 4)
	xw := v.readWord(addr + 6)
	return sprite{
		y:    int(yw&0x03FF) - spriteOrigin,
		x:    int(xw&0x01FF) - spriteOrigin,
		w:    int(sl>>10&0x03) + 1,
		h:    int(sl>>8&0x03) + 1,
		link: int(sl & 0x7F),
		attr: decodeEntry(attr),
	}
}

// walkSprites follows the link list from entry 0, calling fn for every
// visited entry. Traversal stops at link 0, after SpriteSlots visits, or at
// a link outside the table.
func (v *VDP) walkSprites(fn func(index int, s sprite)) (int, error) {
	index := 0
	for visited := 1; ; visited++ {
		s := v.readSprite(index)
		fn(index, s)
		switch {
		case s.link == 0:
			return visited, nil
		case s.link >= SpriteSlots:
			return visited, fmt.Errorf("%w: entry %d links to %d", ErrSpriteLink, index, s.link)
		case visited >= SpriteSlots:
			return visited, fmt.Errorf("%w: still linked after %d entries", ErrSpriteChain, visited)
		}
		index = s.link
	}
}

// renderSprites emits every sprite in link order. The first sprite in the
// list ends up on top because bins draw their newest primitive first.
func (v *VDP) renderSprites(slot *presentSlot) (visited int, full bool, err error) {
	visited, err = v.walkSprites(func(_ int, s sprite) {
		if !full && !v.emitSprite(slot, s) {
			full = true
		}
	})
	return visited, full, err
}

// emitSprite emits one textured column per 8 pixel slice. Sprite tiles are
// column-major, so a column is a run of consecutive patterns; it is split
// where that run leaves an atlas column or texture page.
func (v *VDP) emitSprite(slot *presentSlot, s sprite) bool {
	if s.x >= ScreenWidth || s.y >= ScreenHeight || s.x+s.w*8 <= 0 || s.y+s.h*8 <= 0 {
		return true
	}
	bin := BinSpriteLow
	if s.attr.priority {
		bin = BinSpriteHigh
	}
	clutX := int(s.attr.palette) * 16
	for cx := 0; cx < s.w; cx++ {
		col := cx
		if s.attr.hFlip {
			col = s.w - 1 - cx
		}
		x := s.x + col*8
		if x >= ScreenWidth || x+8 <= 0 {
			continue
		}
		first := int(s.attr.pattern) + cx*s.h
		for k := 0; k < s.h; {
			p := (first + k) & entryTileMask
			n := 1
			for k+n < s.h && samePage((first+k+n-1)&entryTileMask, (first+k+n)&entryTileMask) {
				n++
			}
			ty := k
			if s.attr.vFlip {
				ty = s.h - k - n
			}
			ax, ay := patternOrigin(p)
			prim := Prim{Kind: PrimTex, X: x, Y: s.y + ty*8, W: 8, H: n * 8}
			prim.U, prim.V = (ax-patternAtlasX)*2, ay%texPageHeight
			prim.PageX, prim.PageY = patternAtlasX, ay-ay%texPageHeight
			prim.ClutX, prim.ClutY = clutX, clutY
			prim.FlipX, prim.FlipY = s.attr.hFlip, s.attr.vFlip
			if !slot.emit(bin, prim) {
				return false
			}
			k += n
		}
	}
	return true
}

// samePage reports whether pattern q directly follows p in the same atlas
// column and texture page.
func samePage(p, q int) bool {
	return q == p+1 && q/(patternsPerCol/2) == p/(patternsPerCol/2)
}
