// Package camera drives idle globe rotation and fly-to transitions on a
// rendering surface.
package camera

import (
	"context"
	"time"

	"github.com/dpup/prefab/logging"

	"github.com/dpup/saferoute/mapcore/internal/config"
	"github.com/dpup/saferoute/mapcore/internal/lib/geo"
	"github.com/dpup/saferoute/mapcore/internal/lib/guard"
	"github.com/dpup/saferoute/mapcore/internal/surface"
)

// Controller owns the rotation state for one surface. Like the surface, it is
// driven from a single event loop and is not safe for concurrent use.
type Controller struct {
	ctx     context.Context
	surface surface.Surface
	cfg     config.CameraConfig

	state    State
	lastTick time.Time
	running  bool
	// loop is bumped by Start and Stop; frames scheduled by an earlier loop
	// are dropped when they fire
	loop int

	// flight identifies the current fly-to so stale move-ends are ignored
	flight int

	unsubscribe []func()
}

// New creates a controller in the Rotating state. Nothing moves until Start.
func New(ctx context.Context, s surface.Surface, cfg config.CameraConfig) *Controller {
	return &Controller{
		ctx:     logging.EnsureLogger(ctx),
		surface: s,
		cfg:     cfg,
		state:   Rotating,
	}
}

// State returns the current state
func (c *Controller) State() State {
	return c.state
}

// Running reports whether the animation loop is scheduled
func (c *Controller) Running() bool {
	return c.running
}

// Start subscribes to user interaction and schedules the first tick
func (c *Controller) Start() {
	if c.running {
		return
	}
	c.running = true
	c.loop++
	c.lastTick = time.Time{}

	interact := guard.Wrap(c.ctx, "Rotation interaction", func() {
		_ = c.fire(Interact)
	})
	c.unsubscribe = append(c.unsubscribe,
		c.surface.On(surface.EventMouseDown, interact),
		c.surface.On(surface.EventTouchStart, interact),
	)
	c.schedule()
}

// Stop ends the animation loop and drops the interaction subscriptions.
// The state is kept so a later Start resumes where it left off.
func (c *Controller) Stop() {
	c.running = false
	c.loop++
	for _, unsubscribe := range c.unsubscribe {
		unsubscribe()
	}
	c.unsubscribe = nil
}

// Pause stops the camera from rotating until Resume
func (c *Controller) Pause() error {
	return c.fire(Pause)
}

// Resume restarts rotation. It fails while a fly-to is in progress.
func (c *Controller) Resume() error {
	return c.fire(Resume)
}

// Reset returns to Rotating and forgets any in-flight transition
func (c *Controller) Reset() {
	c.flight++
	c.state = Rotating
	c.lastTick = time.Time{}
}

func (c *Controller) fire(e Event) error {
	next, err := Next(c.state, e)
	if err != nil {
		logging.Debugw(c.ctx, "Rotation: rejected transition", "event", e.String(), "state", c.state.String())
		return err
	}
	c.state = next
	return nil
}

// FlyOptions returns fly-to options for a target using the configured defaults.
// A zero duration uses the configured duration.
func (c *Controller) FlyOptions(target geo.Point, duration time.Duration) surface.FlyOptions {
	if duration <= 0 {
		duration = c.cfg.FlyDuration
	}
	return surface.FlyOptions{
		Center:   target,
		Zoom:     c.cfg.FlyZoom,
		Pitch:    c.cfg.FlyPitch,
		Duration: duration,
	}
}

// FlyTo stops any camera animation in progress, then flies to the target.
// onComplete runs once the flight's move-end arrives; superseded flights never
// call theirs.
func (c *Controller) FlyTo(target geo.Point, duration time.Duration, onComplete func()) error {
	if err := c.fire(FlyStart); err != nil {
		return err
	}
	c.flight++
	flight := c.flight

	c.surface.Stop()

	c.surface.Once(surface.EventMoveEnd, guard.Wrap(c.ctx, "Fly-to completion", func() {
		if flight != c.flight || c.state != Flying {
			return
		}
		_ = c.fire(FlyEnd)
		if onComplete != nil {
			onComplete()
		}
	}))
	c.surface.FlyTo(c.FlyOptions(target, duration))
	return nil
}

// Tick advances rotation for one animation frame
func (c *Controller) Tick(now time.Time) {
	if !c.running {
		return
	}

	var elapsed time.Duration
	if !c.lastTick.IsZero() {
		elapsed = now.Sub(c.lastTick)
	}
	c.lastTick = now

	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > c.cfg.MaxTickGap {
		elapsed = c.cfg.MaxTickGap
	}
	if c.state != Rotating || elapsed == 0 || c.surface.IsMoving() {
		return
	}

	cam := c.surface.Camera()
	if cam.Zoom > c.cfg.GlobalViewMaxZoom {
		return
	}
	cam.Center.Longitude = geo.WrapLongitude(cam.Center.Longitude - c.cfg.RotationDegreesPerSecond*elapsed.Seconds())
	c.surface.JumpTo(cam)
}

func (c *Controller) schedule() {
	loop := c.loop
	c.surface.RequestFrame(func(now time.Time) {
		c.frame(loop, now)
	})
}

// frame is the scheduled frame callback. While its loop is current it always
// reschedules, even when Tick panics, so rotation can resume smoothly later.
func (c *Controller) frame(loop int, now time.Time) {
	if loop != c.loop || !c.running {
		return
	}
	defer c.schedule()
	guard.Run(c.ctx, "Rotation tick", func() { c.Tick(now) })
}
