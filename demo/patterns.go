package demo

// Pattern numbers of the built-in tile set.
const (
	patBlank    = 0
	patSolid    = 1
	patChecker  = 2
	patBrick    = 3
	patGround   = 4 // 4-7, one per ground row shade
	patCloud    = 8
	patAnimated = 9
	patPlayer   = 16 // 2x2, column-major
	patSpark    = 20

	builtinPatterns = 21
	animFrames      = 4
)

type pattern [8][8]uint8

// pack converts a pattern to 4 bits per pixel, left pixel in the high nibble.
func (p *pattern) pack() []byte {
	out := make([]byte, 32)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x += 2 {
			out[y*4+x/2] = p[y][x]<<4 | p[y][x+1]&0x0F
		}
	}
	return out
}

func fillPattern(c uint8) pattern {
	var p pattern
	for y := range p {
		for x := range p[y] {
			p[y][x] = c
		}
	}
	return p
}

func checkerPattern(a, b uint8) pattern {
	var p pattern
	for y := range p {
		for x := range p[y] {
			if (x/4+y/4)%2 == 0 {
				p[y][x] = a
			} else {
				p[y][x] = b
			}
		}
	}
	return p
}

func brickPattern(brick, mortar uint8) pattern {
	p := fillPattern(brick)
	for x := 0; x < 8; x++ {
		p[3][x] = mortar
		p[7][x] = mortar
	}
	for y := 0; y < 3; y++ {
		p[y][0] = mortar
		p[y+4][4] = mortar
	}
	return p
}

func cloudPattern(sky, cloud uint8) pattern {
	p := fillPattern(sky)
	for y := 2; y < 6; y++ {
		for x := 1; x < 7; x++ {
			if (y == 2 || y == 5) && (x == 1 || x == 6) {
				continue
			}
			p[y][x] = cloud
		}
	}
	return p
}

// stripePattern draws diagonal stripes shifted by phase.
func stripePattern(phase int, a, b uint8) pattern {
	var p pattern
	for y := range p {
		for x := range p[y] {
			if (x+y+phase)%4 < 2 {
				p[y][x] = a
			} else {
				p[y][x] = b
			}
		}
	}
	return p
}

// ballPatterns returns the four tiles of a 16x16 ball in column-major order.
func ballPatterns() [4]pattern {
	var tiles [4]pattern
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			dx, dy := x*2-15, y*2-15
			d := dx*dx + dy*dy
			var c uint8
			switch {
			case d < 60:
				c = 3
			case d < 150:
				c = 2
			case d < 225:
				c = 1
			}
			tiles[(x/8)*2+y/8][y%8][x%8] = c
		}
	}
	return tiles
}

func sparkPattern() pattern {
	var p pattern
	for i := 0; i < 8; i++ {
		p[i][3], p[i][4] = 4, 4
		p[3][i], p[4][i] = 4, 4
	}
	p[3][3], p[3][4], p[4][3], p[4][4] = 5, 5, 5, 5
	return p
}

// builtinTiles returns the packed built-in tile set.
func builtinTiles() []byte {
	tiles := make([]pattern, builtinPatterns)
	tiles[patSolid] = fillPattern(1)
	tiles[patChecker] = checkerPattern(2, 3)
	tiles[patBrick] = brickPattern(4, 5)
	for i := 0; i < 4; i++ {
		tiles[patGround+i] = fillPattern(uint8(6 + i))
	}
	tiles[patCloud] = cloudPattern(10, 11)
	tiles[patAnimated] = stripePattern(0, 12, 13)
	for i, t := range ballPatterns() {
		tiles[patPlayer+i] = t
	}
	tiles[patSpark] = sparkPattern()

	out := make([]byte, 0, builtinPatterns*32)
	for i := range tiles {
		out = append(out, tiles[i].pack()...)
	}
	return out
}
