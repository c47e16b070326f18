package service

import (
	"context"
	"time"

	"cube_navigator/internal/geometry"
	"cube_navigator/internal/logger"
	"cube_navigator/internal/models"
	"cube_navigator/internal/repository"
	"cube_navigator/internal/robot"
)

// cubeTracker is the part of the navigator telemetry reads.
type cubeTracker interface {
	Busy() bool
	LastCube() (geometry.Pose2D, bool)
}

// TelemetryService periodically persists the robot state.
type TelemetryService struct {
	robot     robot.Robot
	nav       cubeTracker
	stateRepo repository.StateRepo
	log       *logger.Logger

	saved bool
	last  models.RobotState
}

func NewTelemetryService(rb robot.Robot, nav cubeTracker, stateRepo repository.StateRepo, log *logger.Logger) *TelemetryService {
	if log == nil {
		log = logger.Nop()
	}
	return &TelemetryService{robot: rb, nav: nav, stateRepo: stateRepo, log: log}
}

// Run ticks at the given interval until ctx is canceled.
func (s *TelemetryService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if err := s.sample(ctx, now); err != nil {
				s.log.Warnw("telemetry sample", "err", err)
			}
		}
	}
}

// sample saves the current state when it differs from the last one saved.
func (s *TelemetryService) sample(ctx context.Context, now time.Time) error {
	st, err := s.snapshot(ctx)
	if err != nil {
		return err
	}
	if s.saved && st == s.last {
		return nil
	}
	stamped := st
	stamped.UpdatedAt = now.UTC()
	if err := s.stateRepo.Save(ctx, stamped); err != nil {
		return err
	}
	s.saved, s.last = true, st
	return nil
}

// snapshot builds the state without UpdatedAt so successive samples compare.
func (s *TelemetryService) snapshot(ctx context.Context) (models.RobotState, error) {
	st := models.RobotState{ID: 1}

	var pose geometry.Pose2D
	if r, ok := s.robot.(robot.StatusReporter); ok {
		status := r.Status()
		pose = status.Pose
		st.IsMoving = status.Moving
		st.LastCommand = status.LastCommand
	} else {
		p, err := s.robot.CurrentPose(ctx)
		if err != nil {
			return models.RobotState{}, err
		}
		pose = p
	}
	st.X, st.Y, st.HeadingDeg = pose.X, pose.Y, pose.HeadingDegrees()
	if s.nav != nil {
		st.IsMoving = st.IsMoving || s.nav.Busy()
		if cube, ok := s.nav.LastCube(); ok {
			st.CubeKnown = true
			st.CubeX, st.CubeY, st.CubeHeading = cube.X, cube.Y, cube.HeadingDegrees()
		}
	}
	return st, nil
}
