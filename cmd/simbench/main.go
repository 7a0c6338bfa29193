package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pkg/profile"
	"go.uber.org/zap"

	"github.com/lixenwraith/sim2d/component"
	"github.com/lixenwraith/sim2d/config"
	"github.com/lixenwraith/sim2d/engine"
	"github.com/lixenwraith/sim2d/event"
	"github.com/lixenwraith/sim2d/input"
	"github.com/lixenwraith/sim2d/vmath"
)

var (
	bodiesFlag  = flag.Int("bodies", 500, "Number of dynamic bodies to drop")
	framesFlag  = flag.Int("frames", 3600, "Render frames to simulate")
	profileFlag = flag.Bool("profile", false, "Write a CPU profile to the working directory")
)

// simbench drops a column grid of dynamic boxes onto a static floor and
// steps the full pipeline headlessly: integration, broad phase rebuild,
// narrow phase, resolution, publish.
func main() {
	flag.Parse()

	if *profileFlag {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	logger := zap.NewNop()

	cfg := config.Default()
	cfg.Pool.Capacity = *bodiesFlag
	loop := engine.NewLoop(cfg, logger)
	world := loop.World()

	// Static floor
	floor := world.Create()
	world.Transforms.Set(floor, component.NewTransform(0, 500))
	world.Bodies.Set(floor, component.PhysicsBody{
		Size:  vmath.Vec2{X: 4000, Y: 32},
		Kind:  component.BodyStatic,
		Layer: 1,
	})

	// Dynamic bodies from the pool, spread in a grid above the floor
	spawned := 0
	for i := 0; i < *bodiesFlag; i++ {
		e, err := loop.Pool().Acquire()
		if err != nil {
			break
		}
		col := i % 100
		row := i / 100
		world.Transforms.Set(e, component.NewTransform(
			float64(col)*36-1800,
			float64(row)*-40,
		))
		world.Bodies.Set(e, component.PhysicsBody{
			Size:    vmath.Vec2{X: 16, Y: 16},
			Kind:    component.BodyDynamic,
			Layer:   2,
			Mask:    3,
			InvMass: 1,
		})
		spawned++
	}

	frameTime := time.Second / 60
	start := time.Now()
	totalSteps := 0

	out := event.AcquireFrame()
	for f := 0; f < *framesFlag; f++ {
		out.Reset()
		totalSteps += loop.Frame(input.Snapshot{}, frameTime, out)
	}
	event.ReleaseFrame(out)

	elapsed := time.Since(start)
	if totalSteps == 0 {
		fmt.Fprintln(os.Stderr, "no steps executed")
		os.Exit(1)
	}

	fmt.Printf("bodies=%d frames=%d steps=%d\n", spawned, *framesFlag, totalSteps)
	fmt.Printf("total=%s per-step=%s\n", elapsed, elapsed/time.Duration(totalSteps))
}
