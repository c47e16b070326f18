package robot

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"cube_navigator/internal/geometry"
	"cube_navigator/internal/logger"
	"cube_navigator/internal/motion"
)

// Simulation defaults.
const (
	DefaultFOVDeg  = 60.0
	DefaultRangeMM = 600.0

	observePoll = 50 * time.Millisecond

	// Head limits of the Cozmo head motor.
	minHeadAngleDeg = -25.0
	maxHeadAngleDeg = 44.5
)

// SimConfig describes the simulated world.
type SimConfig struct {
	Start     geometry.Pose2D
	Cube      geometry.Pose2D
	CubeAfter time.Duration // simulated time before the cube is placed
	FOVDeg    float64       // full horizontal camera field of view
	RangeMM   float64       // farthest distance the cube is recognised at
	// TimeScale is the fraction of real time each simulated second takes.
	// 1 is real time, 0 runs instantly.
	TimeScale float64
	Constants motion.Constants
}

// Sim is an in-process differential-drive robot. It dead-reckons every
// commanded motion exactly and sees the cube only while it lies within the
// camera cone.
type Sim struct {
	cfg SimConfig
	log *logger.Logger

	mu      sync.Mutex
	pose    geometry.Pose2D
	elapsed time.Duration
	moving  bool
	last    string
	head    float64
	lift    float64
	history []motion.Command
	stops   int
}

// NewSim returns a simulator at cfg.Start. Zero FOV and range fall back to
// the defaults.
func NewSim(cfg SimConfig, log *logger.Logger) (*Sim, error) {
	if err := cfg.Constants.Validate(); err != nil {
		return nil, err
	}
	if cfg.FOVDeg <= 0 {
		cfg.FOVDeg = DefaultFOVDeg
	}
	if cfg.RangeMM <= 0 {
		cfg.RangeMM = DefaultRangeMM
	}
	if cfg.TimeScale < 0 {
		return nil, fmt.Errorf("sim time scale %v is negative", cfg.TimeScale)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Sim{cfg: cfg, log: log, pose: cfg.Start}, nil
}

func (s *Sim) DriveStraight(ctx context.Context, distanceMM, speedMMPerSec float64) error {
	if speedMMPerSec == 0 {
		return fmt.Errorf("drive straight: %w", motion.ErrZeroSpeed)
	}
	d := seconds(math.Abs(distanceMM / speedMMPerSec))
	return s.run(ctx, motion.DriveStraight(distanceMM, speedMMPerSec), d, func(p geometry.Pose2D) geometry.Pose2D {
		p.X += distanceMM * math.Cos(p.Heading)
		p.Y += distanceMM * math.Sin(p.Heading)
		return p
	})
}

func (s *Sim) TurnInPlace(ctx context.Context, angleDeg, speedDegPerSec float64) error {
	if speedDegPerSec == 0 {
		return fmt.Errorf("turn in place: %w", motion.ErrZeroSpeed)
	}
	d := seconds(math.Abs(angleDeg / speedDegPerSec))
	return s.run(ctx, motion.TurnInPlace(angleDeg, speedDegPerSec), d, func(p geometry.Pose2D) geometry.Pose2D {
		p.Heading = geometry.WrapRadians(p.Heading + geometry.Radians(angleDeg))
		return p
	})
}

// DriveWheels integrates the unicycle model over d: v is the mean wheel speed
// and the yaw rate is (right-left)/wheelBase.
func (s *Sim) DriveWheels(ctx context.Context, leftMMPerSec, rightMMPerSec float64, d time.Duration) error {
	base := s.cfg.Constants.WheelBaseMM
	return s.run(ctx, motion.DriveWheels(leftMMPerSec, rightMMPerSec, d), d, func(p geometry.Pose2D) geometry.Pose2D {
		return integrateWheels(p, leftMMPerSec, rightMMPerSec, base, d.Seconds())
	})
}

func integrateWheels(p geometry.Pose2D, left, right, base, t float64) geometry.Pose2D {
	v := (left + right) / 2
	w := (right - left) / base
	if w == 0 {
		p.X += v * t * math.Cos(p.Heading)
		p.Y += v * t * math.Sin(p.Heading)
		return p
	}
	th := p.Heading + w*t
	p.X += v / w * (math.Sin(th) - math.Sin(p.Heading))
	p.Y -= v / w * (math.Cos(th) - math.Cos(p.Heading))
	p.Heading = geometry.WrapRadians(th)
	return p
}

// run waits out the motion and then applies it. A cancelled context still
// leaves the motion applied, the base having already been commanded.
func (s *Sim) run(ctx context.Context, c motion.Command, d time.Duration, apply func(geometry.Pose2D) geometry.Pose2D) error {
	s.mu.Lock()
	s.moving = true
	s.last = c.String()
	s.history = append(s.history, c)
	s.mu.Unlock()

	err := s.wait(ctx, d)

	s.mu.Lock()
	s.pose = apply(s.pose)
	s.moving = false
	pose := s.pose
	s.mu.Unlock()

	s.log.Debugw("sim_motion", "command", c.String(), "pose", pose.String())
	return err
}

// wait advances the simulated clock by d, sleeping d*TimeScale of real time.
func (s *Sim) wait(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.elapsed += d
	s.mu.Unlock()

	wall := time.Duration(float64(d) * s.cfg.TimeScale)
	if wall <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(wall)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Sim) ObserveMarker(ctx context.Context, timeout time.Duration) (geometry.Pose2D, error) {
	var waited time.Duration
	for {
		if cube, ok := s.visibleCube(); ok {
			return cube, nil
		}
		if waited >= timeout {
			return geometry.Pose2D{}, ErrObserveTimeout
		}
		step := min(observePoll, timeout-waited)
		if err := s.wait(ctx, step); err != nil {
			return geometry.Pose2D{}, err
		}
		waited += step
	}
}

func (s *Sim) visibleCube() (geometry.Pose2D, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Cube, s.canSee()
}

// canSee reports whether the cube is placed and inside the camera cone.
// Callers hold mu.
func (s *Sim) canSee() bool {
	if s.elapsed < s.cfg.CubeAfter {
		return false
	}
	rel := geometry.WorldToFrame(s.cfg.Cube, s.pose)
	dist := rel.Position().Norm()
	if dist > s.cfg.RangeMM {
		return false
	}
	bearing := geometry.Degrees(math.Atan2(rel.Y, rel.X))
	return math.Abs(bearing) <= s.cfg.FOVDeg/2
}

func (s *Sim) CurrentPose(context.Context) (geometry.Pose2D, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pose, nil
}

func (s *Sim) SetHeadAngle(_ context.Context, deg float64) error {
	if deg < minHeadAngleDeg || deg > maxHeadAngleDeg {
		return fmt.Errorf("head angle %.1f outside [%.1f, %.1f]", deg, minHeadAngleDeg, maxHeadAngleDeg)
	}
	s.mu.Lock()
	s.head = deg
	s.mu.Unlock()
	return nil
}

func (s *Sim) MoveLift(_ context.Context, speed float64) error {
	s.mu.Lock()
	s.lift = speed
	s.mu.Unlock()
	return nil
}

func (s *Sim) Stop(context.Context) error {
	s.mu.Lock()
	s.moving = false
	s.stops++
	s.mu.Unlock()
	return nil
}

// PlaceCube moves the cube to pose and makes it visible immediately.
func (s *Sim) PlaceCube(pose geometry.Pose2D) {
	s.mu.Lock()
	s.cfg.Cube = pose
	s.cfg.CubeAfter = 0
	s.mu.Unlock()
}

// History returns a copy of every motion command the simulator executed.
func (s *Sim) History() []motion.Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]motion.Command(nil), s.history...)
}

// Stops counts Stop calls.
func (s *Sim) Stops() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stops
}

// Elapsed is the simulated time consumed so far.
func (s *Sim) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

func (s *Sim) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Pose:         s.pose,
		Moving:       s.moving,
		LastCommand:  s.last,
		HeadAngleDeg: s.head,
		LiftSpeed:    s.lift,
		CubeVisible:  s.canSee(),
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
