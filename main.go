package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	emubridge "github.com/user-none/emvdp/bridge/ebiten"
	"github.com/user-none/emvdp/cli"
	"github.com/user-none/emvdp/demo"
	"github.com/user-none/emvdp/emu"
)

func main() {
	romPath := flag.String("rom", "", "path to an asset image whose payload replaces the built-in patterns (optional)")
	regionFlag := flag.String("region", "auto", "region: auto, ntsc, or pal")
	boundsCheck := flag.Bool("bounds", true, "validate VDP memory accesses (false wraps them)")
	flag.Parse()

	var romData []byte
	if *romPath != "" {
		data, err := os.ReadFile(*romPath)
		if err != nil {
			log.Fatalf("Failed to load ROM: %v", err)
		}
		if err := emu.ValidateSystemType(data); err != nil {
			log.Printf("Warning: %s: %v", *romPath, err)
		}
		romData = data
	}

	// Determine region
	var region emu.Region
	switch strings.ToLower(*regionFlag) {
	case "auto":
		region = emu.DetectRegion(romData)
	case "ntsc":
		region = emu.RegionNTSC
	case "pal":
		region = emu.RegionPAL
	default:
		log.Fatalf("Invalid region: %s (use auto, ntsc, or pal)", *regionFlag)
	}

	cfg := emu.Config{Bounds: emu.BoundsValidated}
	if !*boundsCheck {
		cfg.Bounds = emu.BoundsUnchecked
	}

	game := demo.New(romData)
	e, err := emubridge.NewEmulator(game.Header(), romData, region, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize emulator: %v", err)
	}

	ebiten.SetWindowSize(emu.ScreenWidth*2, emu.DefaultScreenHeight*2)
	ebiten.SetWindowTitle(emu.Name)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(348, 348, -1, -1)
	ebiten.SetTPS(60)

	runner := cli.NewRunner(e)
	defer e.Close()
	defer runner.Close()

	if err := ebiten.RunGame(runner); err != nil {
		log.Fatal(err)
	}
}
