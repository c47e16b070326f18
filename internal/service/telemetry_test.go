package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"cube_navigator/internal/geometry"
	"cube_navigator/internal/models"
	"cube_navigator/internal/motion"
	"cube_navigator/internal/robot"
)

type trackerStub struct {
	busy bool
	cube *geometry.Pose2D
}

func (s *trackerStub) Busy() bool { return s.busy }

func (s *trackerStub) LastCube() (geometry.Pose2D, bool) {
	if s.cube == nil {
		return geometry.Pose2D{}, false
	}
	return *s.cube, true
}

func TestTelemetry_SampleSavesOnChange(t *testing.T) {
	t.Parallel()

	rb := &fakeRobot{pose: geometry.NewPoseDegrees(10, 20, 90)}
	repo := &stateRepoStub{}
	tracker := &trackerStub{}
	svc := NewTelemetryService(rb, tracker, repo, nil)
	ctx := context.Background()
	now := time.Date(2025, 3, 4, 5, 6, 7, 0, time.FixedZone("X", 3600))

	if err := svc.sample(ctx, now); err != nil {
		t.Fatalf("first sample: %v", err)
	}
	if err := svc.sample(ctx, now.Add(time.Second)); err != nil {
		t.Fatalf("unchanged sample: %v", err)
	}
	if len(repo.saves) != 1 {
		t.Fatalf("saves after unchanged sample: want 1, got %d", len(repo.saves))
	}
	first := repo.saves[0]
	if first.ID != 1 || first.X != 10 || first.Y != 20 || first.HeadingDeg != 90 || first.IsMoving || first.CubeKnown {
		t.Errorf("unexpected first state: %+v", first)
	}
	if first.UpdatedAt.Location() != time.UTC || !first.UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt: want %v in UTC, got %v", now, first.UpdatedAt)
	}

	cube := geometry.NewPoseDegrees(300, 50, -45)
	tracker.cube = &cube
	tracker.busy = true
	if err := svc.sample(ctx, now.Add(2*time.Second)); err != nil {
		t.Fatalf("changed sample: %v", err)
	}
	if len(repo.saves) != 2 {
		t.Fatalf("saves after change: want 2, got %d", len(repo.saves))
	}
	second := repo.saves[1]
	if !second.IsMoving || !second.CubeKnown || second.CubeX != 300 || second.CubeY != 50 || !near(second.CubeHeading, -45) {
		t.Errorf("unexpected second state: %+v", second)
	}
}

func TestTelemetry_SampleRetriesFailedSave(t *testing.T) {
	t.Parallel()

	repo := &stateRepoStub{saveErr: errors.New("locked")}
	svc := NewTelemetryService(&fakeRobot{}, nil, repo, nil)

	if err := svc.sample(context.Background(), time.Now()); err == nil {
		t.Fatalf("expected save error")
	}
	repo.saveErr = nil
	if err := svc.sample(context.Background(), time.Now()); err != nil {
		t.Fatalf("second sample: %v", err)
	}
	if len(repo.saves) != 2 {
		t.Errorf("an unsaved state must be saved again: got %d attempts", len(repo.saves))
	}
}

func TestTelemetry_UsesSimStatus(t *testing.T) {
	t.Parallel()

	sim, err := robot.NewSim(robot.SimConfig{
		Start:     geometry.NewPoseDegrees(5, 5, 0),
		Constants: motion.DefaultConstants(),
	}, nil)
	if err != nil {
		t.Fatalf("NewSim: %v", err)
	}
	if err := sim.DriveStraight(context.Background(), 100, 50); err != nil {
		t.Fatalf("DriveStraight: %v", err)
	}
	repo := &stateRepoStub{}
	svc := NewTelemetryService(sim, nil, repo, nil)

	if err := svc.sample(context.Background(), time.Now()); err != nil {
		t.Fatalf("sample: %v", err)
	}
	got := repo.saves[0]
	want := models.RobotState{ID: 1, X: 105, Y: 5, LastCommand: motion.DriveStraight(100, 50).String()}
	got.UpdatedAt = time.Time{}
	if got != want {
		t.Errorf("state: want %+v, got %+v", want, got)
	}
}

func TestTelemetry_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	repo := &stateRepoStub{}
	svc := NewTelemetryService(&fakeRobot{}, nil, repo, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		svc.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
