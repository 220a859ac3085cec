package emu

import (
	"errors"
	"testing"
)

// orderProgram records the order in which it and the host see interrupts.
type orderProgram struct {
	log *[]string
}

func (p orderProgram) Main(md *MegaDrive) error {
	md.VDP.SetHIntPosition(10)
	md.HInterrupt()
	return md.VDP.Render()
}

func (p orderProgram) HInterrupt(md *MegaDrive) { *p.log = append(*p.log, "program h") }

func (p orderProgram) VInterrupt(md *MegaDrive) { *p.log = append(*p.log, "program v") }

type orderHost struct {
	log *[]string
}

func (h orderHost) HInterrupt() { *h.log = append(*h.log, "host h") }

func (h orderHost) VInterrupt() { *h.log = append(*h.log, "host v") }

func TestNewMegaDrive_NoProgram(t *testing.T) {
	if _, err := NewMegaDrive(Header{Title: "X"}, &recordingGPU{}, nil, Config{}); !errors.Is(err, ErrNoProgram) {
		t.Errorf("got %v, want ErrNoProgram", err)
	}
	if err := Start(Header{}, &recordingGPU{}, nil, Config{}); !errors.Is(err, ErrNoProgram) {
		t.Errorf("Start: got %v, want ErrNoProgram", err)
	}
}

func TestStart_InterruptOrder(t *testing.T) {
	var log []string
	gpu := &recordingGPU{}
	if err := Start(Header{Title: "ORDER", Program: orderProgram{&log}}, gpu, orderHost{&log}, Config{}); err != nil {
		t.Fatal(err)
	}
	want := []string{"program h", "host h", "program v", "host v"}
	if len(log) != len(want) {
		t.Fatalf("log %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("log[%d] = %q, want %q", i, log[i], want[i])
		}
	}
	if gpu.vsyncs != 1 {
		t.Errorf("%d vsyncs, want 1", gpu.vsyncs)
	}
}

func TestMegaDrive_RunReturnsStop(t *testing.T) {
	gpu := NewSoftGPU(nil)
	p := &testProgram{}
	md, err := NewMegaDrive(Header{Title: "STOP", Program: p}, gpu, nil, Config{})
	if err != nil {
		t.Fatal(err)
	}
	if md.Header().Title != "STOP" {
		t.Errorf("header title %q", md.Header().Title)
	}
	p.onFrame = func(md *MegaDrive) error {
		if p.frames == 5 {
			gpu.Close()
		}
		return nil
	}
	if err := md.Run(); err != nil {
		t.Fatal(err)
	}
	if p.frames != 6 || p.vints != 5 {
		t.Errorf("frames %d vints %d, want 6 and 5", p.frames, p.vints)
	}
}
