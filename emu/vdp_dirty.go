package emu

const (
	// dirtyBlockSize is the coarse tracking granularity in bytes. One block
	// unpacks to 128 texture rows of 4 words in the pattern atlas.
	dirtyBlockSize = 512
	dirtyBlocks    = VRAMSize / dirtyBlockSize
	blockRows      = dirtyBlockSize / 4
	blocksPerCol   = 4 // atlas rows per column / blockRows
	patternSize    = 32
	patternsPerCol = blocksPerCol * dirtyBlockSize / patternSize
	planeTiles     = PlaneWidth * PlaneHeight
)

// dirtyTracker records what changed since the last upload sweep: a coarse
// flag per 512 byte block of VRAM and a flag per tile of each plane.
type dirtyTracker struct {
	blocks [dirtyBlocks]bool
	tiles  [2][planeTiles]bool // plane A, plane B
}

// mark records the write range [a, b) under the region the cursor was
// classified as when the write started. A plane write marks the tiles of
// every plane whose nametable it overlaps, so planes sharing a nametable
// and writes running from one plane into the next stay in sync.
func (d *dirtyTracker) mark(r VRAMRegion, m *regionMap, a, b int) {
	if b <= a {
		return
	}
	switch r {
	case RegionNone:
		for blk := a / dirtyBlockSize; blk <= (b-1)/dirtyBlockSize && blk < dirtyBlocks; blk++ {
			d.blocks[blk] = true
		}
	case RegionPlaneA, RegionPlaneB:
		for plane := 0; plane < 2; plane++ {
			d.markPlane(plane, m.planeBase(plane), m.planeSize, a, b)
		}
	}
}

// markPlane marks the tiles of one plane covered by [a, b).
func (d *dirtyTracker) markPlane(plane, base, size, a, b int) {
	lo := max(a-base, 0)
	hi := min(b-1-base, size-1)
	if hi < lo {
		return
	}
	// Tiles are flattened row-major, so the covering set of a contiguous
	// byte range is the contiguous run of tile indices between its ends.
	for t := lo / 2; t <= hi/2; t++ {
		d.tiles[plane][t] = true
	}
}

// clean reports whether no flag is set.
func (d *dirtyTracker) clean() bool {
	for _, f := range d.blocks {
		if f {
			return false
		}
	}
	for p := range d.tiles {
		for _, f := range d.tiles[p] {
			if f {
				return false
			}
		}
	}
	return true
}

// blockRect returns the pattern atlas rectangle a coarse block unpacks into.
func blockRect(blk int) Rect {
	return Rect{
		X: patternAtlasX + (blk/blocksPerCol)*4,
		Y: (blk % blocksPerCol) * blockRows,
		W: 4,
		H: blockRows,
	}
}

// patternOrigin returns the atlas position of a pattern's top-left sample.
func patternOrigin(pattern int) (x, y int) {
	pattern &= entryTileMask
	return patternAtlasX + (pattern/patternsPerCol)*4, (pattern % patternsPerCol) * 8
}

// uploadBlocks unpacks and uploads every dirty coarse block in ascending
// order, clearing each flag after its upload. It returns the uploaded block
// numbers.
func (v *VDP) uploadBlocks() []int {
	uploaded := v.blockList[:0]
	for blk := 0; blk < dirtyBlocks; blk++ {
		if !v.dirty.blocks[blk] {
			continue
		}
		src := v.vram.mem[blk*dirtyBlockSize : (blk+1)*dirtyBlockSize]
		for i, b := range src {
			// high nibble is the left pixel; the left sample goes in the low byte
			v.uploadBuf[i] = uint16(b>>4) | uint16(b&0x0F)<<8
		}
		v.gpu.LoadImage(blockRect(blk), v.uploadBuf[:dirtyBlockSize])
		v.dirty.blocks[blk] = false
		uploaded = append(uploaded, blk)
	}
	v.blockList = uploaded
	return uploaded
}

// refreshPatterns marks every plane tile whose nametable entry references a
// pattern inside one of the given blocks.
func (v *VDP) refreshPatterns(blocks []int) {
	if len(blocks) == 0 {
		return
	}
	var hit [VRAMSize / patternSize]bool
	for _, blk := range blocks {
		first := blk * dirtyBlockSize / patternSize
		for p := first; p < first+dirtyBlockSize/patternSize; p++ {
			hit[p] = true
		}
	}
	tiles := v.regions.planeW * v.regions.planeH
	for plane := 0; plane < 2; plane++ {
		base := v.regions.planeBase(plane)
		for t := 0; t < tiles; t++ {
			entry := v.readWord(base + t*2)
			if hit[entry&entryTileMask] {
				v.dirty.tiles[plane][t] = true
			}
		}
	}
}

// uploadTiles decodes and uploads every dirty plane tile, plane A first,
// clearing each flag after its upload. It returns the number of tiles.
func (v *VDP) uploadTiles() int {
	n := 0
	tiles := v.regions.planeW * v.regions.planeH
	for plane := 0; plane < 2; plane++ {
		base := v.regions.planeBase(plane)
		for t := 0; t < planeTiles; t++ {
			if !v.dirty.tiles[plane][t] {
				continue
			}
			v.dirty.tiles[plane][t] = false
			if t >= tiles {
				continue
			}
			v.uploadTile(plane, t%v.regions.planeW, t/v.regions.planeW, v.readWord(base+t*2))
			n++
		}
	}
	return n
}

var blankTile [32]uint16

// uploadTile decodes one nametable entry into the plane texture. Plane A
// tiles go to the low or high priority texture, with the other cleared.
func (v *VDP) uploadTile(plane, tx, ty int, entry uint16) {
	e := decodeEntry(entry)
	addr := int(e.pattern) * patternSize
	var src [patternSize]byte
	for i := range src {
		src[i] = v.vram.mem[(addr+i)&(VRAMSize-1)]
	}
	pix := decodeTile(src[:], e.hFlip, e.vFlip, e.palette)
	var words [32]uint16
	for i := range words {
		words[i] = uint16(pix[i*2]) | uint16(pix[i*2+1])<<8
	}

	r := Rect{X: tx * 4, Y: ty * 8, W: 4, H: 8}
	if plane == 1 {
		r.X += planeBTexX
		r.Y += planeBTexY
		v.gpu.LoadImage(r, words[:])
		return
	}

	low, high := words[:], blankTile[:]
	if e.priority {
		low, high = high, low
	}
	lr, hr := r, r
	lr.X += planeALowTexX
	lr.Y += planeALowTexY
	hr.X += planeAHighTexX
	hr.Y += planeAHighTexY
	v.gpu.LoadImage(lr, low)
	v.gpu.LoadImage(hr, high)
}

// uploadDirty runs the upload sweep: coarse blocks, then the plane tiles
// that reference changed patterns, then every dirty plane tile.
func (v *VDP) uploadDirty() (blocks, tiles int) {
	uploaded := v.uploadBlocks()
	v.refreshPatterns(uploaded)
	return len(uploaded), v.uploadTiles()
}
