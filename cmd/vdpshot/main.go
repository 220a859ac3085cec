// Command vdpshot runs the demo headless for a number of frames and writes
// the displayed picture to a PNG. It can also store the VDP state of the
// last frame and render a stored state on its own.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"

	"github.com/user-none/emvdp/demo"
	"github.com/user-none/emvdp/emu"
)

func main() {
	romPath := flag.String("rom", "", "asset image whose payload replaces the built-in patterns")
	frames := flag.Int("frames", 120, "frames to run before the snapshot")
	scale := flag.Int("scale", 2, "output scale factor")
	out := flag.String("o", "frame.png", "output PNG path")
	label := flag.Bool("label", true, "stamp the title and frame count on the picture")
	savePath := flag.String("save", "", "write the VDP state of the last frame to this file")
	loadPath := flag.String("load", "", "render a stored VDP state instead of running the demo")
	unchecked := flag.Bool("unchecked", false, "disable VDP bounds validation")
	flag.Parse()

	cfg := emu.Config{}
	if *unchecked {
		cfg.Bounds = emu.BoundsUnchecked
	}

	gpu := emu.NewSoftGPU(nil)
	var (
		md    *emu.MegaDrive
		title string
		err   error
	)
	if *loadPath != "" {
		state, rerr := os.ReadFile(*loadPath)
		if rerr != nil {
			log.Fatalf("Failed to read state: %v", rerr)
		}
		v := &viewer{state: state}
		md, err = emu.NewMegaDrive(emu.Header{Title: *loadPath, Program: v}, gpu, nil, cfg)
		title = *loadPath
	} else {
		var rom []byte
		if *romPath != "" {
			if rom, err = os.ReadFile(*romPath); err != nil {
				log.Fatalf("Failed to load ROM: %v", err)
			}
		}
		g := demo.New(rom)
		g.MaxFrames = *frames
		md, err = emu.NewMegaDrive(g.Header(), gpu, nil, cfg)
		title = g.Header().Title
	}
	if err != nil {
		log.Fatal(err)
	}
	if err := md.Run(); err != nil {
		log.Fatal(err)
	}

	if *savePath != "" {
		buf := make([]byte, emu.VDPSerializeSize)
		if err := md.VDP.Serialize(buf); err != nil {
			log.Fatal(err)
		}
		if err := os.WriteFile(*savePath, buf, 0644); err != nil {
			log.Fatal(err)
		}
	}

	frame := image.NewRGBA(image.Rect(0, 0, emu.ScreenWidth, emu.ScreenHeight))
	gpu.Snapshot(frame)

	s := max(*scale, 1)
	dst := image.NewRGBA(image.Rect(0, 0, emu.ScreenWidth*s, emu.ScreenHeight*s))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), frame, frame.Bounds(), draw.Src, nil)
	if *label {
		stats := md.VDP.LastFrame()
		stamp(dst, title, fmt.Sprintf("frame %d  prims %d  sprites %d", md.VDP.Frames(), stats.Primitives, stats.SpritesVisited))
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, dst); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s", *out)
}

// stamp draws lines of text with a drop shadow in the top left corner.
func stamp(dst draw.Image, lines ...string) {
	for i, line := range lines {
		y := 14 + i*16
		(&font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(color.Black),
			Face: inconsolata.Regular8x16,
			Dot:  fixed.Point26_6{X: fixed.I(5), Y: fixed.I(y + 1)},
		}).DrawString(line)
		(&font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(color.White),
			Face: inconsolata.Regular8x16,
			Dot:  fixed.Point26_6{X: fixed.I(4), Y: fixed.I(y)},
		}).DrawString(line)
	}
}

// viewer restores a stored VDP state and presents it.
type viewer struct {
	state []byte
}

func (v *viewer) Main(md *emu.MegaDrive) error {
	if err := md.VDP.Deserialize(v.state); err != nil {
		return err
	}
	// The first Render fills the back slot; the second puts it on screen.
	for i := 0; i < 2; i++ {
		if err := md.VDP.Render(); err != nil {
			return err
		}
	}
	return nil
}

func (v *viewer) HInterrupt(md *emu.MegaDrive) {}

func (v *viewer) VInterrupt(md *emu.MegaDrive) {}
