package emu

// Plane texture geometry in samples.
const (
	pageSamples  = texPageWidth * 2 // 256
	planeLines   = PlaneHeight * 8  // 256, one texture page tall
	planeLineMsk = planeLines - 1
)

// scrollRun is a band of consecutive scanlines sharing one horizontal
// scroll value without crossing a vertical wrap of the plane texture.
type scrollRun struct {
	line   int   // first scanline
	phase  int   // plane line sampled by the first scanline
	scroll int16 // horizontal scroll
}

// hScroll returns the horizontal scroll of plane 0 (A) or 1 (B) for line.
func (v *VDP) hScroll(plane, line int) int16 {
	return int16(v.readWord(v.regions.hScroll + line*4 + plane*2))
}

func (v *VDP) vScroll(plane int) int16 {
	if plane == 0 {
		return v.vScrollA
	}
	return v.vScrollB
}

// planeRuns computes the merged scroll runs of a plane for the visible
// scanlines.
func (v *VDP) planeRuns(plane int, runs []scrollRun) []scrollRun {
	vs := int(v.vScroll(plane))
	var cur scrollRun
	for line := 0; line < ScreenHeight; line++ {
		hs := v.hScroll(plane, line)
		phase := (line + vs) & planeLineMsk
		if line == 0 {
			cur = scrollRun{line: 0, phase: phase, scroll: hs}
			continue
		}
		if hs != cur.scroll || phase == 0 {
			runs = append(runs, cur)
			cur = scrollRun{line: line, phase: phase, scroll: hs}
		}
	}
	// the last run has nothing after it to close it
	return append(runs, cur)
}

// renderPlane emits the textured segments of plane 0 (A) or 1 (B) into the
// slot. It returns the number of runs and false if the primitive budget ran
// out.
func (v *VDP) renderPlane(plane int, slot *presentSlot) (int, bool) {
	v.runBuf = v.planeRuns(plane, v.runBuf[:0])
	for i, run := range v.runBuf {
		end := ScreenHeight
		if i+1 < len(v.runBuf) {
			end = v.runBuf[i+1].line
		}
		if !v.flushRun(plane, slot, run, end-run.line) {
			return len(v.runBuf), false
		}
	}
	return len(v.runBuf), true
}

// flushRun emits one run as horizontal segments, split wherever the source
// crosses a texture page or wraps around the plane width.
func (v *VDP) flushRun(plane int, slot *presentSlot, run scrollRun, height int) bool {
	width := v.regions.planeW * 8
	sx := -int(run.scroll) % width
	if sx < 0 {
		sx += width
	}
	for x := 0; x < ScreenWidth; {
		page := sx / pageSamples
		seg := min(ScreenWidth-x, (page+1)*pageSamples-sx, width-sx)
		p := Prim{Kind: PrimTex, X: x, Y: run.line, W: seg, H: height}
		p.U, p.V = sx%pageSamples, run.phase
		p.ClutY = clutY
		if plane == 1 {
			p.PageX, p.PageY = planeBTexX+page*texPageWidth, planeBTexY
			if !slot.emit(BinPlaneB, p) {
				return false
			}
		} else {
			p.PageX, p.PageY = planeALowTexX+page*texPageWidth, planeALowTexY
			if !slot.emit(BinPlaneALow, p) {
				return false
			}
			p.PageX, p.PageY = planeAHighTexX+page*texPageWidth, planeAHighTexY
			if !slot.emit(BinPlaneAHigh, p) {
				return false
			}
		}
		x += seg
		sx = (sx + seg) % width
	}
	return true
}
