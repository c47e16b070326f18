package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"cube_navigator/internal/geometry"
	"cube_navigator/internal/logger"
	"cube_navigator/internal/models"
	"cube_navigator/internal/motion"
	"cube_navigator/internal/repository"
	"cube_navigator/internal/robot"

	"github.com/google/uuid"
)

// Standoff transform modes.
const (
	TransformLegacy = "legacy"
	TransformFrame  = "frame"
)

// Camera setup before a search: lift lowered out of view, head level.
const (
	searchLiftSpeed    = -3.0
	searchHeadAngleDeg = 0.0
)

var (
	ErrRobotBusy    = errors.New("robot is busy with another motion")
	ErrCubeNotFound = errors.New("cube not found")
)

// NavigatorConfig tunes the search loop and the standoff target.
type NavigatorConfig struct {
	ObserveTimeout time.Duration
	MaxAttempts    int // 0 searches until ctx is done
	Standoff       geometry.Pose2D
	Transform      string
}

// Sighting is a successful cube search.
type Sighting struct {
	Robot    geometry.Pose2D `json:"robot"`
	Cube     geometry.Pose2D `json:"cube"`
	Relative geometry.Point  `json:"relative"` // cube in the robot frame
	Attempts int             `json:"attempts"`
}

// Approach is a completed move to the standoff pose.
type Approach struct {
	Sighting Sighting         `json:"sighting"`
	Target   geometry.Pose2D  `json:"target"` // relative to the robot when the move began
	Commands []motion.Command `json:"commands"`
}

type NavigatorService struct {
	robot     robot.Robot
	planner   *motion.Planner
	eventRepo repository.EventRepo
	cfg       NavigatorConfig
	log       *logger.Logger

	busy atomic.Bool

	mu       sync.Mutex
	lastCube *geometry.Pose2D
}

func NewNavigatorService(rb robot.Robot, planner *motion.Planner, eventRepo repository.EventRepo, cfg NavigatorConfig, log *logger.Logger) *NavigatorService {
	if cfg.Transform == "" {
		cfg.Transform = TransformLegacy
	}
	if log == nil {
		log = logger.Nop()
	}
	return &NavigatorService{robot: rb, planner: planner, eventRepo: eventRepo, cfg: cfg, log: log}
}

// Busy reports whether a search or motion is in flight.
func (s *NavigatorService) Busy() bool {
	return s.busy.Load()
}

// LastCube returns the world pose of the most recent sighting.
func (s *NavigatorService) LastCube() (geometry.Pose2D, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastCube == nil {
		return geometry.Pose2D{}, false
	}
	return *s.lastCube, true
}

func (s *NavigatorService) acquire() error {
	if !s.busy.CompareAndSwap(false, true) {
		return ErrRobotBusy
	}
	return nil
}

func (s *NavigatorService) release() {
	s.busy.Store(false)
}

// FindCube sits still and waits for the cube, retrying after every observe
// timeout until it is seen, ctx is done or MaxAttempts is exhausted.
func (s *NavigatorService) FindCube(ctx context.Context) (Sighting, error) {
	if err := s.acquire(); err != nil {
		return Sighting{}, err
	}
	defer s.release()
	return s.findCube(ctx)
}

func (s *NavigatorService) findCube(ctx context.Context) (Sighting, error) {
	if err := s.robot.MoveLift(ctx, searchLiftSpeed); err != nil {
		return Sighting{}, fmt.Errorf("lower lift: %w", err)
	}
	if err := s.robot.SetHeadAngle(ctx, searchHeadAngleDeg); err != nil {
		return Sighting{}, fmt.Errorf("set head angle: %w", err)
	}
	s.record(ctx, models.EventSearchStart, "Looking for a cube", map[string]any{
		"observe_timeout": s.cfg.ObserveTimeout.String(),
		"max_attempts":    s.cfg.MaxAttempts,
	})

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			err = fmt.Errorf("search stopped before attempt %d: %w", attempt, err)
			s.recordError(ctx, "search", err)
			return Sighting{}, err
		}
		cube, err := s.robot.ObserveMarker(ctx, s.cfg.ObserveTimeout)
		if errors.Is(err, robot.ErrObserveTimeout) {
			s.log.Infow("Didn't find a cube", "attempt", attempt, "timeout", s.cfg.ObserveTimeout)
			s.record(ctx, models.EventSearchTimeout, "Didn't find a cube", map[string]any{"attempt": attempt})
			if s.cfg.MaxAttempts > 0 && attempt >= s.cfg.MaxAttempts {
				err = fmt.Errorf("%w after %d attempts", ErrCubeNotFound, attempt)
				s.recordError(ctx, "search", err)
				return Sighting{}, err
			}
			continue
		}
		if err != nil {
			err = fmt.Errorf("observe cube: %w", err)
			s.recordError(ctx, "search", err)
			return Sighting{}, err
		}

		pose, err := s.robot.CurrentPose(ctx)
		if err != nil {
			return Sighting{}, fmt.Errorf("robot pose: %w", err)
		}
		sighting := Sighting{Robot: pose, Cube: cube, Relative: s.relative(cube, pose), Attempts: attempt}

		s.mu.Lock()
		s.lastCube = &cube
		s.mu.Unlock()

		s.log.Infow("Found a cube",
			"robot_pose", pose.String(),
			"cube_pose", cube.String(),
			"relative", sighting.Relative.String(),
			"attempts", attempt,
		)
		s.record(ctx, models.EventCubeFound, "Found a cube", sighting)
		return sighting, nil
	}
}

// relative is the cube as seen from the robot under the configured
// transform mode.
func (s *NavigatorService) relative(cube, robotPose geometry.Pose2D) geometry.Point {
	if s.cfg.Transform == TransformFrame {
		return geometry.WorldToFrame(cube, robotPose).Position()
	}
	return geometry.FrameRotate(cube, robotPose)
}

// standoffTarget is the go-to-pose target, relative to the robot, for the
// standoff pose next to the cube.
//
// legacy applies FrameRotate(cube, standoff) and arrives with no final turn,
// exactly as the lab procedure did. frame places the standoff in the cube's
// frame, brings it into the robot's frame and ends facing its heading.
func (s *NavigatorService) standoffTarget(sighting Sighting) geometry.Pose2D {
	if s.cfg.Transform == TransformFrame {
		goal := geometry.FrameToWorld(s.cfg.Standoff, sighting.Cube)
		return geometry.WorldToFrame(goal, sighting.Robot)
	}
	p := geometry.FrameRotate(sighting.Cube, s.cfg.Standoff)
	return geometry.Pose2D{X: p.X, Y: p.Y}
}

// MoveToCube finds the cube and drives to the standoff pose relative to it.
func (s *NavigatorService) MoveToCube(ctx context.Context) (Approach, error) {
	if err := s.acquire(); err != nil {
		return Approach{}, err
	}
	defer s.release()

	sighting, err := s.findCube(ctx)
	if err != nil {
		return Approach{}, err
	}
	target := s.standoffTarget(sighting)
	cmds, err := s.goToPose(ctx, target.X, target.Y, target.HeadingDegrees())
	return Approach{Sighting: sighting, Target: target, Commands: cmds}, err
}

// GoToPose drives to (x, y) relative to the robot and turns to end
// angleZDeg from the starting heading.
func (s *NavigatorService) GoToPose(ctx context.Context, x, y, angleZDeg float64) ([]motion.Command, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()
	return s.goToPose(ctx, x, y, angleZDeg)
}

func (s *NavigatorService) goToPose(ctx context.Context, x, y, angleZDeg float64) ([]motion.Command, error) {
	cmds := s.planner.Plan(x, y, angleZDeg)
	s.record(ctx, models.EventMotionStart, "Going to pose", map[string]any{
		"x": x, "y": y, "angle_z": angleZDeg, "commands": cmds,
	})
	if err := s.planner.Execute(ctx, cmds); err != nil {
		err = fmt.Errorf("go to pose (%.1f, %.1f, %.1f): %w", x, y, angleZDeg, err)
		s.recordError(ctx, "motion", err)
		return cmds, err
	}
	pose, err := s.robot.CurrentPose(ctx)
	if err != nil {
		s.log.Warnw("pose after motion unavailable", "err", err)
	}
	s.record(ctx, models.EventMotionDone, "Reached pose", map[string]any{"robot": pose})
	return cmds, nil
}

// record appends an event. A failing event log never fails the robot.
func (s *NavigatorService) record(ctx context.Context, typ, desc string, meta any) {
	err := s.eventRepo.Append(context.WithoutCancel(ctx), models.RobotEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        typ,
		Description: desc,
		Metadata:    meta,
	})
	if err != nil {
		s.log.Warnw("append event", "type", typ, "err", err)
	}
}

func (s *NavigatorService) recordError(ctx context.Context, stage string, err error) {
	s.log.Errorw("navigation failed", "stage", stage, "err", err)
	s.record(ctx, models.EventError, err.Error(), map[string]any{"stage": stage})
}
