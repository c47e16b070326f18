package service

import (
	"context"
	"sync"
	"time"

	"cube_navigator/internal/geometry"
	"cube_navigator/internal/models"
	"cube_navigator/internal/motion"
	"cube_navigator/internal/repository"
	"cube_navigator/internal/robot"
)

// observation is one scripted ObserveMarker result.
type observation struct {
	cube geometry.Pose2D
	err  error
}

// fakeRobot is a scripted robot.Robot. Motions are recorded, not simulated.
type fakeRobot struct {
	mu           sync.Mutex
	pose         geometry.Pose2D
	observations []observation
	observed     int
	timeouts     []time.Duration
	lift         []float64
	head         []float64
	cmds         []motion.Command
	stops        int

	driveErr error         // returned by DriveStraight
	block    chan struct{} // when set, motions wait for it to close
	started  chan struct{} // closed on the first motion
	once     sync.Once
}

var _ robot.Robot = (*fakeRobot)(nil)

func (f *fakeRobot) motion(ctx context.Context, c motion.Command) error {
	f.mu.Lock()
	f.cmds = append(f.cmds, c)
	f.mu.Unlock()
	if f.started != nil {
		f.once.Do(func() { close(f.started) })
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (f *fakeRobot) DriveStraight(ctx context.Context, d, s float64) error {
	if err := f.motion(ctx, motion.DriveStraight(d, s)); err != nil {
		return err
	}
	return f.driveErr
}

func (f *fakeRobot) TurnInPlace(ctx context.Context, a, s float64) error {
	return f.motion(ctx, motion.TurnInPlace(a, s))
}

func (f *fakeRobot) DriveWheels(ctx context.Context, l, r float64, d time.Duration) error {
	return f.motion(ctx, motion.DriveWheels(l, r, d))
}

func (f *fakeRobot) Stop(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	return nil
}

func (f *fakeRobot) ObserveMarker(ctx context.Context, timeout time.Duration) (geometry.Pose2D, error) {
	if err := ctx.Err(); err != nil {
		return geometry.Pose2D{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.timeouts = append(f.timeouts, timeout)
	if f.observed >= len(f.observations) {
		return geometry.Pose2D{}, robot.ErrObserveTimeout
	}
	o := f.observations[f.observed]
	f.observed++
	return o.cube, o.err
}

func (f *fakeRobot) CurrentPose(context.Context) (geometry.Pose2D, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pose, nil
}

func (f *fakeRobot) SetHeadAngle(_ context.Context, deg float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.head = append(f.head, deg)
	return nil
}

func (f *fakeRobot) MoveLift(_ context.Context, speed float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lift = append(f.lift, speed)
	return nil
}

// memEventRepo records appended events.
type memEventRepo struct {
	mu        sync.Mutex
	events    []models.RobotEvent
	appendErr error
	listErr   error
	queries   []repository.EventQuery
}

func (m *memEventRepo) Append(_ context.Context, e models.RobotEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return m.appendErr
}

func (m *memEventRepo) List(_ context.Context, q repository.EventQuery) ([]models.RobotEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, q)
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]models.RobotEvent(nil), m.events...), nil
}

func (m *memEventRepo) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events))
	for i, e := range m.events {
		out[i] = e.Type
	}
	return out
}
