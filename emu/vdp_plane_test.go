package emu

import "testing"

// setHScroll writes one plane's horizontal scroll for a line range.
func setHScroll(t *testing.T, vdp *VDP, plane, from, to int, value int16) {
	t.Helper()
	for line := from; line < to; line++ {
		writeAt(t, vdp, vdp.regions.hScroll+line*4+plane*2, wordBytes(uint16(value)))
	}
}

func TestPlaneRuns_ConstantScroll(t *testing.T) {
	vdp, _ := makePlaneVDP(t)
	runs := vdp.planeRuns(0, nil)
	if len(runs) != 1 {
		t.Fatalf("constant scroll: %d runs, want 1", len(runs))
	}
	if runs[0] != (scrollRun{line: 0, phase: 0, scroll: 0}) {
		t.Errorf("run: %+v", runs[0])
	}
}

func TestPlaneRuns_MergeAtChange(t *testing.T) {
	for _, k := range []int{1, 50, 223} {
		vdp, _ := makePlaneVDP(t)
		setHScroll(t, vdp, 1, k, ScreenHeight, 7)
		runs := vdp.planeRuns(1, nil)
		if len(runs) != 2 {
			t.Fatalf("k=%d: %d runs, want 2", k, len(runs))
		}
		if runs[0].line != 0 || runs[0].scroll != 0 {
			t.Errorf("k=%d: first run %+v", k, runs[0])
		}
		if runs[1].line != k || runs[1].scroll != 7 || runs[1].phase != k {
			t.Errorf("k=%d: second run %+v", k, runs[1])
		}
		// plane A is untouched
		if a := vdp.planeRuns(0, nil); len(a) != 1 {
			t.Errorf("k=%d: plane A has %d runs", k, len(a))
		}
	}
}

func TestPlaneRuns_VerticalWrapSplits(t *testing.T) {
	vdp, _ := makePlaneVDP(t)
	vdp.SetVScroll(0, 100)
	runs := vdp.planeRuns(1, nil)
	// plane line 0 is reached at scanline 156
	if len(runs) != 2 {
		t.Fatalf("%d runs, want 2", len(runs))
	}
	if runs[0].phase != 100 || runs[1].line != 156 || runs[1].phase != 0 {
		t.Errorf("runs %+v", runs)
	}
}

func TestPlaneRuns_NegativeVScroll(t *testing.T) {
	vdp, _ := makePlaneVDP(t)
	vdp.SetVScroll(-8, 0)
	runs := vdp.planeRuns(0, nil)
	if runs[0].phase != 248 || len(runs) != 2 || runs[1].line != 8 {
		t.Errorf("runs %+v", runs)
	}
}

// collectBin returns the primitives of one bin in draw order.
func collectBin(slot *presentSlot, bin int) []Prim {
	var out []Prim
	slot.ot.Walk(func(b int, p *Prim) {
		if b == bin {
			out = append(out, *p)
		}
	})
	return out
}

func TestFlushRun_PageSplit(t *testing.T) {
	vdp, _ := makePlaneVDP(t)
	slot := vdp.present.back()
	slot.reset()
	// scroll -100 starts sampling at x 100; the first page ends at 256.
	if !vdp.flushRun(1, slot, scrollRun{line: 10, phase: 20, scroll: -100}, 5) {
		t.Fatal("flushRun ran out of space")
	}
	prims := collectBin(slot, BinPlaneB)
	if len(prims) != 2 {
		t.Fatalf("%d segments, want 2", len(prims))
	}
	// newest first
	second, first := prims[0], prims[1]
	if first.X != 0 || first.W != 156 || first.U != 100 || first.PageX != planeBTexX {
		t.Errorf("first segment %+v", first)
	}
	if second.X != 156 || second.W != 164 || second.U != 0 || second.PageX != planeBTexX+texPageWidth {
		t.Errorf("second segment %+v", second)
	}
	for _, p := range prims {
		if p.Y != 10 || p.H != 5 || p.V != 20 || p.Kind != PrimTex || p.ClutY != clutY {
			t.Errorf("segment geometry %+v", p)
		}
	}
}

func TestFlushRun_PlaneWidthWrap(t *testing.T) {
	vdp, _ := makePlaneVDP(t)
	vdp.SetPlaneSize(32, 32)
	slot := vdp.present.back()
	slot.reset()
	// 256 pixel wide plane scrolled left by 16: 240 pixels, then wrap to 0.
	vdp.flushRun(1, slot, scrollRun{scroll: -16}, ScreenHeight)
	prims := collectBin(slot, BinPlaneB)
	if len(prims) != 2 {
		t.Fatalf("%d segments, want 2", len(prims))
	}
	second, first := prims[0], prims[1]
	if first.U != 16 || first.W != 240 || second.X != 240 || second.U != 0 || second.W != 80 {
		t.Errorf("segments %+v / %+v", first, second)
	}
	if second.PageX != planeBTexX {
		t.Errorf("wrapped segment samples page at %d", second.PageX)
	}
}

func TestFlushRun_PlaneAEmitsBothPriorities(t *testing.T) {
	vdp, _ := makePlaneVDP(t)
	slot := vdp.present.back()
	slot.reset()
	vdp.flushRun(0, slot, scrollRun{scroll: 0}, ScreenHeight)
	low := collectBin(slot, BinPlaneALow)
	high := collectBin(slot, BinPlaneAHigh)
	if len(low) != 2 || len(high) != 2 {
		t.Fatalf("low=%d high=%d segments, want 2 each", len(low), len(high))
	}
	if low[0].PageY != planeALowTexY || high[0].PageY != planeAHighTexY {
		t.Errorf("page rows: low %d high %d", low[0].PageY, high[0].PageY)
	}
}

func TestRenderPlane_RunsCounted(t *testing.T) {
	vdp, _ := makePlaneVDP(t)
	setHScroll(t, vdp, 0, 100, 120, 3)
	slot := vdp.present.back()
	slot.reset()
	runs, ok := vdp.renderPlane(0, slot)
	if !ok || runs != 3 {
		t.Errorf("renderPlane: runs=%d ok=%v, want 3 true", runs, ok)
	}
}
