package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/lixenwraith/sim2d/asset"
	"github.com/lixenwraith/sim2d/config"
	"github.com/lixenwraith/sim2d/engine"
	"github.com/lixenwraith/sim2d/event"
	"github.com/lixenwraith/sim2d/input"
	"github.com/lixenwraith/sim2d/scene"
	"github.com/lixenwraith/sim2d/systems"
)

var (
	configFlag = flag.String("config", "", "Path to engine config TOML (defaults used if empty)")
	sceneFlag  = flag.String("scene", "", "Path to scene TOML (built-in demo scene if empty)")
)

// defaultScene is the built-in demo: a floor, two walls, a platform, a
// trigger zone, and a player-controlled box.
const defaultScene = `
name = "demo"

[[entities]]
name = "floor"
x = 320.0
y = 208.0
asset = "tile/stone"
[entities.body]
width = 640.0
height = 16.0
kind = "static"
layer = 1
mask = 0

[[entities]]
name = "wall-left"
x = 8.0
y = 100.0
asset = "tile/stone"
[entities.body]
width = 16.0
height = 200.0
kind = "static"
layer = 1
mask = 0

[[entities]]
name = "wall-right"
x = 632.0
y = 100.0
asset = "tile/stone"
[entities.body]
width = 16.0
height = 200.0
kind = "static"
layer = 1
mask = 0

[[entities]]
name = "platform"
x = 420.0
y = 140.0
asset = "tile/stone"
[entities.body]
width = 120.0
height = 12.0
kind = "static"
layer = 1
mask = 0

[[entities]]
name = "goal-zone"
x = 560.0
y = 180.0
asset = "zone/goal"
[entities.body]
width = 48.0
height = 40.0
kind = "trigger"
layer = 4
mask = 2

[[entities]]
name = "player"
x = 120.0
y = 120.0
asset = "actor/player"
[entities.body]
width = 16.0
height = 24.0
kind = "dynamic"
mass = 1.0
layer = 2
mask = 5
[entities.controller]
move_speed = 160.0
jump_speed = 360.0
friction = 10.0
coyote_time = 0.1
jump_buffer_time = 0.12
`

// glyph is the demo's resolved asset payload: one rune and a style.
type glyph struct {
	ch    rune
	style tcell.Style
}

// loadGlyph resolves demo asset references to glyphs. A real build would
// fetch processed textures here; the boundary is identical.
func loadGlyph(ref string) (any, error) {
	switch ref {
	case "tile/stone":
		return glyph{'#', tcell.StyleDefault.Foreground(tcell.ColorGray)}, nil
	case "actor/player":
		return glyph{'@', tcell.StyleDefault.Foreground(tcell.ColorGreen)}, nil
	case "zone/goal":
		return glyph{'*', tcell.StyleDefault.Foreground(tcell.ColorYellow)}, nil
	}
	return nil, fmt.Errorf("unknown asset %q", ref)
}

// World units per terminal cell. Terminal cells are ~2x taller than
// wide, so the vertical scale is doubled to keep boxes square-ish.
const (
	cellUnitsX = 8.0
	cellUnitsY = 16.0
)

func main() {
	// Panic recovery: restore the terminal before printing the trace
	var screen tcell.Screen
	defer func() {
		if r := recover(); r != nil {
			if screen != nil {
				screen.Fini()
			}
			fmt.Fprintf(os.Stderr, "\nSIMDEMO CRASHED: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	flag.Parse()

	cfg := config.Default()
	if *configFlag != "" {
		var err error
		cfg, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	doc, err := loadScene(*sceneFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scene: %v\n", err)
		os.Exit(1)
	}

	loop := engine.NewLoop(cfg, logger)
	loop.SetResolver(asset.NewLoader(loadGlyph))
	loop.AddSystem(systems.NewPlatformerSystem(loop.World(), loop, logger))
	scene.Instantiate(doc, loop.World(), logger)

	screen, err = tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "screen init: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()
	screen.HideCursor()

	// Audio is non-fatal; the demo runs silent if the speaker fails
	sampleRate := beep.SampleRate(44100)
	audioReady := speaker.Init(sampleRate, sampleRate.N(time.Second/10)) == nil
	if audioReady {
		defer speaker.Close()
	}

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	go screen.ChannelEvents(events, quit)

	frameTicker := time.NewTicker(time.Second / 60)
	defer frameTicker.Stop()

	last := time.Now()
	for {
		snap, exit := drainInput(events)
		if exit {
			close(quit)
			return
		}

		now := time.Now()
		elapsed := now.Sub(last)
		last = now

		out := event.AcquireFrame()
		loop.Frame(snap, elapsed, out)
		draw(screen, out)
		if audioReady {
			playTriggers(sampleRate, out)
		}
		event.ReleaseFrame(out)

		<-frameTicker.C
	}
}

// drainInput consumes pending terminal events into a single per-frame
// snapshot. Terminals have no key-up events, so horizontal input is
// momentary per press.
func drainInput(events <-chan tcell.Event) (input.Snapshot, bool) {
	var snap input.Snapshot
	for {
		select {
		case ev := <-events:
			key, ok := ev.(*tcell.EventKey)
			if !ok {
				continue
			}
			switch {
			case key.Key() == tcell.KeyEscape || key.Key() == tcell.KeyCtrlC:
				return snap, true
			case key.Key() == tcell.KeyLeft:
				snap.MoveX = -1
			case key.Key() == tcell.KeyRight:
				snap.MoveX = 1
			case key.Key() == tcell.KeyRune:
				switch key.Rune() {
				case 'q':
					return snap, true
				case 'a':
					snap.MoveX = -1
				case 'd':
					snap.MoveX = 1
				case ' ', 'w':
					snap.Jump = true
				}
			}
		default:
			return snap, false
		}
	}
}

// draw renders the published frame: each item's collider box as a filled
// glyph block at its transform, using the resolved asset's rune.
func draw(screen tcell.Screen, out *event.Frame) {
	screen.Clear()

	for _, item := range out.Render {
		g := glyph{'?', tcell.StyleDefault}
		if h, ok := item.Handle.(asset.Handle); ok {
			if resolved, ok := h.Data.(glyph); ok {
				g = resolved
			}
		}

		halfW := item.Size.X / 2
		halfH := item.Size.Y / 2
		x0 := int((item.Transform.Position.X - halfW) / cellUnitsX)
		x1 := int((item.Transform.Position.X + halfW - 1) / cellUnitsX)
		y0 := int((item.Transform.Position.Y - halfH) / cellUnitsY)
		y1 := int((item.Transform.Position.Y + halfH - 1) / cellUnitsY)
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				screen.SetContent(x, y, g.ch, nil, g.style)
			}
		}
	}

	screen.Show()
}

// playTriggers sounds a short tone per audio trigger event.
func playTriggers(sampleRate beep.SampleRate, out *event.Frame) {
	for _, trig := range out.Audio {
		freq := 880.0
		switch trig.Kind {
		case event.AudioJump:
			freq = 660
		case event.AudioLand:
			freq = 330
		}
		sine, err := generators.SineTone(sampleRate, freq)
		if err != nil {
			continue
		}
		speaker.Play(beep.Take(sampleRate.N(50*time.Millisecond), sine))
	}
}

func loadScene(path string) (*scene.Document, error) {
	if path != "" {
		return scene.Load(path)
	}
	return scene.Decode([]byte(defaultScene))
}

// newLogger builds the zap logger from config, writing to a file so log
// output does not tear the terminal UI.
func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = level
	zapCfg.OutputPaths = []string{"simdemo.log"}
	zapCfg.ErrorOutputPaths = []string{"simdemo.log"}
	return zapCfg.Build()
}
