package emu

import (
	"errors"
	"fmt"
)

// Render builds, uploads and presents one frame, then runs the vertical
// interrupt. Sprite chain and primitive budget problems are returned after
// the frame has still been presented. ErrStopped means the GPU shut down
// while waiting for vertical blank and nothing was presented.
func (v *VDP) Render() error {
	if err := v.checkInit("Render"); err != nil {
		return err
	}
	var errs []error
	stats := FrameStats{}

	// Building
	slot := v.present.back()
	slot.reset()
	v.formatCRAM()

	full := false
	for _, plane := range [2]int{1, 0} {
		runs, ok := v.renderPlane(plane, slot)
		stats.PlaneRuns[plane] = runs
		full = full || !ok
	}
	visited, spritesFull, err := v.renderSprites(slot)
	stats.SpritesVisited = visited
	if err != nil {
		v.logger.Printf("vdp: %v", err)
		errs = append(errs, err)
	}
	full = full || spritesFull
	if !v.emitBackdrop(slot) {
		full = true
	}
	if full {
		err := fmt.Errorf("%w: %d bytes", ErrPrimBufferFull, slot.prims.limit)
		v.logger.Printf("vdp: %v", err)
		errs = append(errs, err)
	}
	stats.Primitives = slot.ot.Len()

	// Flushed
	v.gpu.DrawSync()
	v.gpu.LoadImage(Rect{X: 0, Y: clutY, W: CRAMEntries, H: 1}, v.cramFmt[:])
	stats.BlocksUploaded, stats.TilesUploaded = v.uploadDirty()
	v.stats = stats

	// Presented
	if err := v.gpu.VSync(); err != nil {
		return fmt.Errorf("Render: %w", err)
	}
	v.gpu.PutDispEnv(slot.disp)
	v.gpu.PutDrawEnv(slot.draw)
	v.gpu.DrawOTag(&slot.ot)
	v.present.flip()
	v.frames++
	if v.events != nil {
		v.events.VInterrupt()
	}
	return errors.Join(errs...)
}

// emitBackdrop fills the whole picture with the background colour. It is
// the only primitive in the backdrop bin.
func (v *VDP) emitBackdrop(slot *presentSlot) bool {
	r, g, b := ColorRGB(v.cram.entries[v.backgroundColour])
	return slot.emit(BinBackdrop, Prim{Kind: PrimFill, W: ScreenWidth, H: ScreenHeight, R: r, G: g, B: b})
}
