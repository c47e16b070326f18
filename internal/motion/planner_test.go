package motion

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// recordingSink captures every primitive it is asked to run.
type recordingSink struct {
	cmds    []Command
	failAt  int // 1-based; 0 never fails
	failErr error
	stops   int
	stopErr error
}

func (r *recordingSink) record(c Command) error {
	r.cmds = append(r.cmds, c)
	if r.failAt > 0 && len(r.cmds) == r.failAt {
		return r.failErr
	}
	return nil
}

func (r *recordingSink) DriveStraight(_ context.Context, d, s float64) error {
	return r.record(DriveStraight(d, s))
}

func (r *recordingSink) TurnInPlace(_ context.Context, a, s float64) error {
	return r.record(TurnInPlace(a, s))
}

func (r *recordingSink) DriveWheels(_ context.Context, l, rr float64, d time.Duration) error {
	return r.record(DriveWheels(l, rr, d))
}

func (r *recordingSink) Stop(context.Context) error {
	r.stops++
	return r.stopErr
}

var approx = cmpopts.EquateApprox(0, 1e-9)

func newTestPlanner(t *testing.T, sink Sink) *Planner {
	t.Helper()
	opts := DefaultOptions()
	opts.SettleDelay = 0
	p, err := NewPlanner(sink, opts, nil)
	if err != nil {
		t.Fatalf("NewPlanner: %v", err)
	}
	return p
}

func TestHeadingToTarget(t *testing.T) {
	cases := []struct {
		x, y, want float64
	}{
		{1, 1, 45},
		{100, 0, 0},
		{0, 100, 90},
		{-100, 0, 180},
		{0, -50, -90},
		{-1, -1, -135},
	}
	for _, tc := range cases {
		if got := HeadingToTarget(tc.x, tc.y); cmp.Diff(tc.want, got, approx) != "" {
			t.Errorf("HeadingToTarget(%v, %v) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestPlan(t *testing.T) {
	p := newTestPlanner(t, &recordingSink{})

	cases := []struct {
		name         string
		x, y, angleZ float64
		want         []Command
	}{
		{
			name:   "straight ahead",
			x:      100,
			y:      0,
			angleZ: 0,
			want:   []Command{
				TurnInPlace(0, 45),
				DriveStraight(100, 30),
				TurnInPlace(0, 45),
			},
		},
		{
			name:   "diagonal with final heading",
			x:      100,
			y:      100,
			angleZ: 45,
			want:   []Command{
				TurnInPlace(45, 45),
				DriveStraight(141.4213562373095, 30),
				TurnInPlace(0, 45),
			},
		},
		{
			name:   "behind and facing sideways",
			x:      -50,
			y:      0,
			angleZ: 90,
			want:   []Command{
				TurnInPlace(180, 45),
				DriveStraight(50, 30),
				TurnInPlace(-90, 45),
			},
		},
		{
			name:   "zero displacement skips the drive",
			x:      0,
			y:      0,
			angleZ: 30,
			want:   []Command{
				TurnInPlace(0, 45),
				TurnInPlace(30, 45),
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := p.Plan(tc.x, tc.y, tc.angleZ)
			if diff := cmp.Diff(tc.want, got, approx); diff != "" {
				t.Fatalf("Plan mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGoToPose_ExecutesInOrder(t *testing.T) {
	sink := &recordingSink{}
	p := newTestPlanner(t, sink)

	issued, err := p.GoToPose(context.Background(), 100, 0, 0)
	if err != nil {
		t.Fatalf("GoToPose: %v", err)
	}
	if diff := cmp.Diff(issued, sink.cmds, approx); diff != "" {
		t.Fatalf("sink saw a different sequence (-issued +sink):\n%s", diff)
	}
	if len(sink.cmds) != 3 || sink.cmds[1].Kind != KindDriveStraight {
		t.Fatalf("unexpected sequence: %v", sink.cmds)
	}
}

func TestExecute_FailureStopsAndNamesStep(t *testing.T) {
	boom := errors.New("wheel stalled")
	sink := &recordingSink{failAt: 2, failErr: boom, stopErr: errors.New("stop failed")}
	p := newTestPlanner(t, sink)

	_, err := p.GoToPose(context.Background(), 10, 10, 0)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped %v, got %v", boom, err)
	}
	if !strings.Contains(err.Error(), "step 2/3") || !strings.Contains(err.Error(), "stop failed") {
		t.Fatalf("error should name the step and carry the stop error: %v", err)
	}
	if sink.stops != 1 {
		t.Fatalf("expected one Stop, got %d", sink.stops)
	}
	if len(sink.cmds) != 2 {
		t.Fatalf("no command may follow a failure, got %d", len(sink.cmds))
	}
}

func TestExecute_SettleDelayHonoursCancellation(t *testing.T) {
	sink := &recordingSink{}
	p, err := NewPlanner(sink, Options{TurnSpeed: 45, DriveSpeed: 30, SettleDelay: time.Hour}, nil)
	if err != nil {
		t.Fatalf("NewPlanner: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err = p.Execute(ctx, p.Plan(100, 0, 0))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if len(sink.cmds) != 1 {
		t.Fatalf("only the first command should have run, got %v", sink.cmds)
	}
}

func TestExecute_SettlesBetweenCommands(t *testing.T) {
	sink := &recordingSink{}
	p, err := NewPlanner(sink, Options{TurnSpeed: 45, DriveSpeed: 30, SettleDelay: 10 * time.Millisecond}, nil)
	if err != nil {
		t.Fatalf("NewPlanner: %v", err)
	}
	start := time.Now()
	if err := p.Execute(context.Background(), p.Plan(100, 0, 0)); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("expected two settle delays, elapsed %v", elapsed)
	}
}

func TestNewPlanner_RejectsZeroSpeeds(t *testing.T) {
	if _, err := NewPlanner(&recordingSink{}, Options{TurnSpeed: 0, DriveSpeed: 30}, nil); !errors.Is(err, ErrZeroSpeed) {
		t.Fatalf("turn speed 0: got %v", err)
	}
	if _, err := NewPlanner(&recordingSink{}, Options{TurnSpeed: 45, DriveSpeed: 0}, nil); !errors.Is(err, ErrZeroSpeed) {
		t.Fatalf("drive speed 0: got %v", err)
	}
}

func TestDispatch_UnknownKind(t *testing.T) {
	err := Command{Kind: 42}.Dispatch(context.Background(), &recordingSink{})
	if !errors.Is(err, errUnknownKind) {
		t.Fatalf("got %v", err)
	}
}

func TestPlan_FarTargetStaysFinite(t *testing.T) {
	p := newTestPlanner(t, &recordingSink{})

	cmds := p.Plan(1e200, 1e200, 0)
	if len(cmds) != 3 {
		t.Fatalf("expected three commands, got %v", cmds)
	}
	if d := cmds[1].Distance; math.IsInf(d, 0) || math.Abs(d/1e200-math.Sqrt2) > 1e-12 {
		t.Fatalf("distance %v, want sqrt(2)*1e200", d)
	}
}

func TestGoToPose_RejectsNonFiniteTarget(t *testing.T) {
	sink := &recordingSink{}
	p := newTestPlanner(t, sink)

	for _, target := range [][3]float64{
		{math.Inf(1), 0, 0},
		{0, math.NaN(), 0},
		{100, 0, math.Inf(-1)},
	} {
		if _, err := p.GoToPose(context.Background(), target[0], target[1], target[2]); !errors.Is(err, errNonFiniteArgument) {
			t.Errorf("%v: got %v", target, err)
		}
	}
	if len(sink.cmds) != 0 {
		t.Fatalf("nothing may move on a rejected target, got %v", sink.cmds)
	}
}
