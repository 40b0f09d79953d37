package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/df07/go-phong-raytracer/pkg/camera"
	"github.com/df07/go-phong-raytracer/pkg/controls"
	"github.com/df07/go-phong-raytracer/pkg/loaders"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
	"github.com/df07/go-phong-raytracer/pkg/session"
)

// keyBindings maps window keys onto controller keys
var keyBindings = []struct {
	key     ebiten.Key
	control controls.Key
	repeat  bool
}{
	{ebiten.KeyArrowLeft, controls.KeyLeft, true},
	{ebiten.KeyArrowRight, controls.KeyRight, true},
	{ebiten.KeyArrowUp, controls.KeyUp, true},
	{ebiten.KeyArrowDown, controls.KeyDown, true},
	{ebiten.KeyH, controls.KeyResetHorizontal, false},
	{ebiten.KeyV, controls.KeyResetVertical, false},
	{ebiten.KeyR, controls.KeyResetBoth, false},
	{ebiten.KeyDigit1, controls.KeySelect1, false},
	{ebiten.KeyDigit2, controls.KeySelect2, false},
	{ebiten.KeyDigit3, controls.KeySelect3, false},
	{ebiten.KeyDigit4, controls.KeySelect4, false},
	{ebiten.KeyDigit5, controls.KeySelect5, false},
	{ebiten.KeyL, controls.KeySelectLight, false},
	{ebiten.KeyA, controls.KeyMoveLeft, true},
	{ebiten.KeyD, controls.KeyMoveRight, true},
	{ebiten.KeyW, controls.KeyMoveUp, true},
	{ebiten.KeyS, controls.KeyMoveDown, true},
	{ebiten.KeyQ, controls.KeyMoveNear, true},
	{ebiten.KeyE, controls.KeyMoveFar, true},
	{ebiten.KeyEqual, controls.KeyGrow, true},
	{ebiten.KeyNumpadAdd, controls.KeyGrow, true},
	{ebiten.KeyMinus, controls.KeyShrink, true},
	{ebiten.KeyNumpadSubtract, controls.KeyShrink, true},
	{ebiten.KeyBracketLeft, controls.KeyAmbientDown, true},
	{ebiten.KeyBracketRight, controls.KeyAmbientUp, true},
	{ebiten.KeyZ, controls.KeyRedDown, true},
	{ebiten.KeyX, controls.KeyRedUp, true},
	{ebiten.KeyN, controls.KeyGreenDown, true},
	{ebiten.KeyM, controls.KeyGreenUp, true},
	{ebiten.KeyComma, controls.KeyBlueDown, true},
	{ebiten.KeyPeriod, controls.KeyBlueUp, true},
}

// viewer shows the session's frames and turns key presses into intents
type viewer struct {
	session    *session.Session
	controller *controls.Controller
	frames     <-chan session.Frame
	frame      session.Frame
	image      *ebiten.Image
	width      int
	height     int
}

// justPressed reports a press, and for repeating keys every few ticks while held
func justPressed(key ebiten.Key, repeat bool) bool {
	d := inpututil.KeyPressDuration(key)
	if d == 1 {
		return true
	}
	return repeat && d >= 15 && d%3 == 0
}

func (v *viewer) Update() error {
	for _, binding := range keyBindings {
		if !justPressed(binding.key, binding.repeat) {
			continue
		}

		var intent scene.Intent
		var ok bool
		v.session.View(func(s *scene.Scene) {
			intent, ok = v.controller.Intent(binding.control, s)
		})
		if !ok {
			continue
		}
		if _, err := v.session.Apply(context.Background(), intent); err != nil {
			log.Printf("Intent rejected: %v", err)
		}
	}

	// Keep only the newest frame
drain:
	for {
		select {
		case frame := <-v.frames:
			v.frame = frame
		default:
			break drain
		}
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	if v.frame.Buffer == nil {
		return
	}
	if v.image == nil {
		v.image = ebiten.NewImage(v.width, v.height)
	}
	v.image.WritePixels(v.frame.Buffer.Pix)
	screen.DrawImage(v.image, nil)

	selected := "light"
	if v.controller.Selected != controls.LightSelected {
		selected = fmt.Sprintf("sphere %d", v.controller.Selected+1)
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%.1f ms  %s selected",
		float64(v.frame.Stats.Duration.Microseconds())/1000, selected))
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.width, v.height
}

func main() {
	sceneID := flag.String("scene", "default", "Scene: built-in name or file:<name>")
	width := flag.Int("width", 600, "Image width")
	height := flag.Int("height", 600, "Image height")
	workers := flag.Int("workers", 0, "Number of render workers (0 = auto-detect CPU count)")
	flag.Parse()

	s, err := loaders.OpenScene(*sceneID, camera.Config{Width: *width, Height: *height})
	if err != nil {
		log.Printf("Error loading scene: %v", err)
		os.Exit(1)
	}

	logger := renderer.NewDefaultLogger()
	rt := renderer.New(renderer.Config{
		NumWorkers:    *workers,
		WarnThreshold: renderer.DefaultConfig().WarnThreshold,
	}, nil, logger)

	sess, err := session.New(s, rt, logger)
	if err != nil {
		log.Printf("Error creating session: %v", err)
		os.Exit(1)
	}
	defer sess.Close()

	frames, unsubscribe := sess.Subscribe()
	defer unsubscribe()

	if _, err := sess.Render(context.Background()); err != nil {
		log.Printf("Error rendering first frame: %v", err)
		os.Exit(1)
	}

	w, h := s.Camera.Width(), s.Camera.Height()
	v := &viewer{
		session:    sess,
		controller: controls.NewController(),
		frames:     frames,
		width:      w,
		height:     h,
	}

	ebiten.SetWindowTitle("Phong Raytracer")
	ebiten.SetWindowSize(w, h)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(v); err != nil {
		log.Printf("Viewer stopped: %v", err)
		os.Exit(1)
	}
}
