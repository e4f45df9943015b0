package main

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/akmonengine/impulse"
	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/constraint"
	"github.com/akmonengine/impulse/scene"
	"github.com/akmonengine/impulse/stream"
)

//go:embed scene.yaml
var defaultScene []byte

const ridingCubeName = "ridingCube"

type options struct {
	scene   string
	addr    string
	steps   int
	fps     int
	speed   float64
	patrol  float64
	swallow bool
	debug   bool
}

func main() {
	var opts options
	flag.StringVar(&opts.scene, "scene", "", "scene file, the embedded scene when empty")
	flag.StringVar(&opts.addr, "addr", "", "websocket listen address, e.g. :8080")
	flag.IntVar(&opts.steps, "steps", 0, "number of frames to simulate, 0 runs until interrupted")
	flag.IntVar(&opts.fps, "fps", 60, "frames per second")
	flag.Float64Var(&opts.speed, "speed", 15, "riding cube speed, in units per second")
	flag.Float64Var(&opts.patrol, "patrol", 4, "riding cube turns around past this |x| when no client drives it")
	flag.BoolVar(&opts.swallow, "swallow", false, "bodies touching the riding cube stop colliding")
	flag.BoolVar(&opts.debug, "debug", false, "debug logs")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadScene(path string) (*scene.Scene, error) {
	if path == "" {
		return scene.Load(bytes.NewReader(defaultScene))
	}
	return scene.LoadFile(path)
}

func run(ctx context.Context, opts options) error {
	if opts.fps <= 0 {
		return fmt.Errorf("invalid fps %d", opts.fps)
	}

	s, err := loadScene(opts.scene)
	if err != nil {
		return err
	}
	world := s.World
	logger := world.Logger
	if opts.debug {
		logger.SetDebug(true)
	}

	ridingCube := s.Body(ridingCubeName)
	if ridingCube == nil {
		return fmt.Errorf("scene has no %q body", ridingCubeName)
	}

	world.Resolver = constraint.Resolver{PreSolve: func(c *constraint.ContactConstraint) {
		other := c.BodyA
		if other == ridingCube {
			other = c.BodyB
		} else if c.BodyB != ridingCube {
			return
		}

		logger.Debugf("%s touched %s", ridingCube.Name, other.Name)
		if opts.swallow {
			other.CanCollide = false
		}
	}}
	world.Events.Subscribe(impulse.COLLISION_ENTER, func(e impulse.Event) {
		enter := e.(impulse.CollisionEnterEvent)
		logger.Debugf("enter %s/%s", enter.BodyA.Name, enter.BodyB.Name)
	})

	var hub *stream.Hub
	if opts.addr != "" {
		hub = stream.NewHub(logger)
		server := &http.Server{Addr: opts.addr, Handler: hub}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf("listen: %v", err)
			}
		}()
		defer func() {
			hub.Close()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			server.Shutdown(shutdownCtx)
		}()
		logger.Infof("streaming frames on ws://%s", opts.addr)
	}

	dt := 1.0 / float64(opts.fps)
	ticker := time.NewTicker(time.Duration(float64(time.Second) * dt))
	defer ticker.Stop()

	axis, driven := 1.0, false
	for frame := 0; opts.steps == 0 || frame < opts.steps; frame++ {
		select {
		case <-ctx.Done():
			logger.Infof("interrupted after %d frames", frame)
			return nil
		case <-ticker.C:
		}

		if hub != nil {
			axis, driven = drainCommands(hub, world, axis, driven)
		}
		if !driven {
			axis = patrol(ridingCube, axis, opts.patrol)
		}
		if !world.Paused() {
			x := ridingCube.Position().X() + axis*opts.speed*dt
			ridingCube.SetPositionXYZ(x, ridingCube.Position().Y(), ridingCube.Position().Z())
		}

		s.Bounce()
		for _, body := range s.Respawn() {
			logger.Debugf("frame %d: %s respawned", frame, body.Name)
		}
		world.Step(dt)

		if hub != nil {
			hub.Broadcast(stream.Snapshot(world))
		}
	}

	logger.Infof("simulated %d steps", world.StepCount)
	for _, body := range world.Bodies {
		logger.Infof("%-14s %-9s position=%v velocity=%v", body.Name, body.BodyType, body.Position(), body.Velocity)
	}

	return nil
}

func drainCommands(hub *stream.Hub, world *impulse.World, axis float64, driven bool) (float64, bool) {
	for {
		select {
		case cmd := <-hub.Commands():
			switch cmd.Type {
			case stream.CommandPause:
				world.SetPaused(!world.Paused())
			case stream.CommandMove:
				axis, driven = max(-1, min(1, cmd.Axis)), true
			}
		default:
			return axis, driven
		}
	}
}

// patrol turns the cube around once it went past limit
func patrol(cube *actor.RigidBody, axis, limit float64) float64 {
	x := cube.Position().X()
	switch {
	case x > limit && axis > 0:
		return -1
	case x < -limit && axis < 0:
		return 1
	}
	return axis
}
