package emu

// VRAMRegion classifies a VRAM address.
type VRAMRegion uint8

const (
	RegionNone   VRAMRegion = iota // pattern data or unassigned memory
	RegionPlaneA                   // foreground nametable
	RegionPlaneB                   // background nametable
	RegionOther                    // sprite table or horizontal scroll table
)

func (r VRAMRegion) String() string {
	switch r {
	case RegionPlaneA:
		return "plane A"
	case RegionPlaneB:
		return "plane B"
	case RegionOther:
		return "other"
	default:
		return "none"
	}
}

// regionMap holds the currently configured logical regions. Offsets are
// authoritative only as of the most recent setter call.
type regionMap struct {
	planeA, planeB  int
	sprite, hScroll int

	planeW, planeH int // tiles
	planeSize      int // nametable bytes
}

func (m *regionMap) setPlaneSize(w, h int) {
	m.planeW = w
	m.planeH = h
	m.planeSize = w * h * 2
}

// planeBase returns the nametable offset of plane 0 (A) or 1 (B).
func (m *regionMap) planeBase(plane int) int {
	if plane == 0 {
		return m.planeA
	}
	return m.planeB
}

func inRange(offset, base, size int) bool {
	return offset >= base && offset < base+size
}

// locate classifies offset, testing plane A, then plane B, then the sprite
// and scroll tables.
func (m *regionMap) locate(offset int) VRAMRegion {
	switch {
	case inRange(offset, m.planeA, m.planeSize):
		return RegionPlaneA
	case inRange(offset, m.planeB, m.planeSize):
		return RegionPlaneB
	case inRange(offset, m.sprite, spriteTableSize), inRange(offset, m.hScroll, hScrollTableSize):
		return RegionOther
	}
	return RegionNone
}

// span is a written byte range [start, end).
type span struct {
	start, end int
}

// vramStore is the flat video memory with its write cursor.
type vramStore struct {
	mem    [VRAMSize]uint8
	cursor int
	region VRAMRegion
	spans  [2]span
}

// seek repositions the cursor and reclassifies it.
func (s *vramStore) seek(offset int, m *regionMap) VRAMRegion {
	s.cursor = offset
	s.region = m.locate(offset)
	return s.region
}

// advance moves the cursor by n bytes and returns the written ranges. A
// range that runs past the end of memory is split at the wrap point.
func (s *vramStore) advance(n int) []span {
	start := s.cursor & (VRAMSize - 1)
	if n >= VRAMSize {
		s.cursor = start
		s.spans[0] = span{0, VRAMSize}
		return s.spans[:1]
	}
	end := start + n
	s.cursor = end
	if end > VRAMSize {
		s.cursor = end & (VRAMSize - 1)
		s.spans[0] = span{start, VRAMSize}
		s.spans[1] = span{0, end - VRAMSize}
		return s.spans[:2]
	}
	if n == 0 {
		return s.spans[:0]
	}
	s.spans[0] = span{start, end}
	return s.spans[:1]
}

// write copies data at the cursor.
func (s *vramStore) write(data []byte) []span {
	start := s.cursor & (VRAMSize - 1)
	for i, b := range data {
		s.mem[(start+i)&(VRAMSize-1)] = b
	}
	return s.advance(len(data))
}

// fill repeats b n times at the cursor.
func (s *vramStore) fill(b byte, n int) []span {
	start := s.cursor & (VRAMSize - 1)
	for i := 0; i < n; i++ {
		s.mem[(start+i)&(VRAMSize-1)] = b
	}
	return s.advance(n)
}
