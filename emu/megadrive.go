package emu

import (
	"errors"
	"fmt"
)

// ErrNoProgram is returned by Start for a header without a program.
var ErrNoProgram = errors.New("header has no program")

// Program is game logic written against the VDP memory model. Main runs
// the game; it must return once Render reports ErrStopped.
type Program interface {
	Main(md *MegaDrive) error
	// HInterrupt is configured through SetHIntPosition but never fired by
	// the renderer.
	HInterrupt(md *MegaDrive)
	// VInterrupt runs at the end of every Render. It should only do
	// bookkeeping.
	VInterrupt(md *MegaDrive)
}

// Header describes a program. Title has no effect on emulation.
type Header struct {
	Title   string
	Program Program
}

// MegaDrive is the context handed to a program: its VDP, the controllers
// and the tick counter.
type MegaDrive struct {
	VDP    *VDP
	Joypad *Joypad
	Timer  *Timer

	header Header
	host   FrameEvents
}

// NewMegaDrive wires a program to gpu. host, when non-nil, receives the
// interrupts after the program has.
func NewMegaDrive(h Header, gpu GPU, host FrameEvents, cfg Config) (*MegaDrive, error) {
	if h.Program == nil {
		return nil, fmt.Errorf("%q: %w", h.Title, ErrNoProgram)
	}
	md := &MegaDrive{
		Joypad: &Joypad{},
		Timer:  &Timer{},
		header: h,
		host:   host,
	}
	md.VDP = NewVDP(gpu, md, cfg)
	return md, nil
}

// Header returns the program header.
func (md *MegaDrive) Header() Header {
	return md.header
}

// Run starts the timer and runs the program's entry point.
func (md *MegaDrive) Run() error {
	md.Timer.Start()
	defer md.Timer.Stop()
	return md.header.Program.Main(md)
}

// HInterrupt implements FrameEvents.
func (md *MegaDrive) HInterrupt() {
	md.header.Program.HInterrupt(md)
	if md.host != nil {
		md.host.HInterrupt()
	}
}

// VInterrupt implements FrameEvents.
func (md *MegaDrive) VInterrupt() {
	md.header.Program.VInterrupt(md)
	if md.host != nil {
		md.host.VInterrupt()
	}
}

// Start initializes the VDP, controllers and timer for h and runs its
// program to completion.
func Start(h Header, gpu GPU, host FrameEvents, cfg Config) error {
	md, err := NewMegaDrive(h, gpu, host, cfg)
	if err != nil {
		return err
	}
	return md.Run()
}
