// Package cli provides a command-line runner for the emulator.
// It handles input polling and runs the emulator in a window without the full UI.
package cli

import (
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	emucore "github.com/user-none/eblitui/api"
	emubridge "github.com/user-none/emvdp/bridge/ebiten"
	"github.com/user-none/emvdp/emu"
	"github.com/user-none/emvdp/ui"
)

// Runner wraps an emulator for command-line mode.
// The emulator runs on a dedicated goroutine paced by the region frame rate.
// The Ebiten thread handles input polling and rendering from the shared framebuffer.
type Runner struct {
	emulator *emubridge.Emulator

	sharedInput       *ui.SharedInput
	sharedFramebuffer *ui.SharedFramebuffer
	stop              chan struct{}
	emuDone           chan struct{}
}

// NewRunner creates a new Runner wrapping the given emulator.
func NewRunner(e *emubridge.Emulator) *Runner {
	r := &Runner{
		emulator:          e,
		sharedInput:       &ui.SharedInput{},
		sharedFramebuffer: ui.NewSharedFramebuffer(),
		stop:              make(chan struct{}),
		emuDone:           make(chan struct{}),
	}

	// Start emulation goroutine
	go r.emulationLoop()

	return r
}

// Close stops the emulation goroutine.
func (r *Runner) Close() {
	if r.stop != nil {
		close(r.stop)
		<-r.emuDone
		r.stop = nil
	}
}

// emulationLoop runs on a dedicated goroutine.
func (r *Runner) emulationLoop() {
	defer close(r.emuDone)

	timing := r.emulator.GetTiming()
	frameTime := time.Duration(float64(time.Second) / float64(timing.FPS))
	lastFrameTime := time.Now()

	for {
		select {
		case <-r.stop:
			return
		default:
		}

		r.emulator.SetInput(0, r.sharedInput.Read())

		// Run one frame
		r.emulator.RunFrame()
		if err := r.emulator.Err(); err != nil {
			log.Printf("Program stopped: %v", err)
			return
		}

		// Update shared framebuffer
		r.sharedFramebuffer.Update(
			r.emulator.GetFramebuffer(),
			r.emulator.GetFramebufferStride(),
			r.emulator.GetActiveHeight(),
		)

		sleepTime := frameTime - time.Since(lastFrameTime)
		if sleepTime > time.Millisecond {
			time.Sleep(sleepTime)
		}

		lastFrameTime = time.Now()
	}
}

// Update implements ebiten.Game.
func (r *Runner) Update() error {
	if !ebiten.IsFocused() {
		return nil
	}

	r.pollInputToShared()
	return nil
}

// Draw implements ebiten.Game.
func (r *Runner) Draw(screen *ebiten.Image) {
	pixels, stride, height := r.sharedFramebuffer.Read()
	if height == 0 {
		return
	}
	r.emulator.DrawCachedFramebuffer(screen, pixels, stride, height)
}

// Layout implements ebiten.Game.
func (r *Runner) Layout(outsideWidth, outsideHeight int) (int, int) {
	return r.emulator.Layout(outsideWidth, outsideHeight)
}

// pollInputToShared reads keyboard and gamepad input and writes to shared state.
func (r *Runner) pollInputToShared() {
	// Keyboard (WASD + arrows for movement, JKL for A/B/C, Enter for Start)
	up := ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp)
	down := ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown)
	left := ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	right := ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	btnA := ebiten.IsKeyPressed(ebiten.KeyJ)
	btnB := ebiten.IsKeyPressed(ebiten.KeyK)
	btnC := ebiten.IsKeyPressed(ebiten.KeyL)
	start := ebiten.IsKeyPressed(ebiten.KeyEnter)

	// Gamepad support (all connected gamepads)
	for _, id := range ebiten.AppendGamepadIDs(nil) {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}

		// D-pad
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftTop) {
			up = true
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftBottom) {
			down = true
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftLeft) {
			left = true
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftRight) {
			right = true
		}

		// Face buttons: A/Cross=A, B/Circle=B, X/Square=C, Start=Start
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom) {
			btnA = true
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightRight) {
			btnB = true
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightLeft) {
			btnC = true
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonCenterRight) {
			start = true
		}

		// Left analog stick (with deadzone)
		const deadzone = 0.5
		axisX := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		axisY := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if axisX < -deadzone {
			left = true
		}
		if axisX > deadzone {
			right = true
		}
		if axisY < -deadzone {
			up = true
		}
		if axisY > deadzone {
			down = true
		}
	}

	var buttons uint32
	if up {
		buttons |= 1 << emucore.ButtonUp
	}
	if down {
		buttons |= 1 << emucore.ButtonDown
	}
	if left {
		buttons |= 1 << emucore.ButtonLeft
	}
	if right {
		buttons |= 1 << emucore.ButtonRight
	}
	if btnA {
		buttons |= 1 << emu.ButtonA
	}
	if btnB {
		buttons |= 1 << emu.ButtonB
	}
	if btnC {
		buttons |= 1 << emu.ButtonC
	}
	if start {
		buttons |= 1 << emu.ButtonStart
	}
	r.sharedInput.Set(buttons)
}
