package motion

import (
	"context"
	"fmt"
	"math"
	"time"

	"cube_navigator/internal/logger"

	"go.uber.org/multierr"
)

// Default go-to-pose tuning.
const (
	DefaultTurnSpeed   = 45.0 // deg/s
	DefaultDriveSpeed  = 30.0 // mm/s
	DefaultSettleDelay = 150 * time.Millisecond
)

// Options tunes the go-to-pose sequence.
type Options struct {
	TurnSpeed   float64       `mapstructure:"turn_speed"`   // deg/s
	DriveSpeed  float64       `mapstructure:"drive_speed"`  // mm/s
	SettleDelay time.Duration `mapstructure:"settle_delay"` // pause between commands
}

// DefaultOptions returns the lab tuning.
func DefaultOptions() Options {
	return Options{
		TurnSpeed:   DefaultTurnSpeed,
		DriveSpeed:  DefaultDriveSpeed,
		SettleDelay: DefaultSettleDelay,
	}
}

// Planner decomposes a relative target pose into turn, drive, turn and runs
// the sequence open loop on a Sink.
type Planner struct {
	sink Sink
	opts Options
	log  *logger.Logger
}

// NewPlanner fails if either speed is zero, since every command duration is
// derived by dividing by it.
func NewPlanner(sink Sink, opts Options, log *logger.Logger) (*Planner, error) {
	if opts.TurnSpeed == 0 {
		return nil, fmt.Errorf("turn speed: %w", ErrZeroSpeed)
	}
	if opts.DriveSpeed == 0 {
		return nil, fmt.Errorf("drive speed: %w", ErrZeroSpeed)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Planner{sink: sink, opts: opts, log: log}, nil
}

// Options returns the tuning the planner was built with.
func (p *Planner) Options() Options {
	return p.opts
}

// HeadingToTarget is the turn in degrees that points the robot at (x, y).
func HeadingToTarget(x, y float64) float64 {
	return math.Atan2(y, x) * 180 / math.Pi
}

// Plan returns the commands that take the robot to (x, y) relative to its
// current pose, finishing at angleZDeg relative to its current heading. The
// straight leg is omitted when the target is the current position.
func (p *Planner) Plan(x, y, angleZDeg float64) []Command {
	heading := HeadingToTarget(x, y)
	cmds := make([]Command, 0, 3)
	cmds = append(cmds, TurnInPlace(heading, p.opts.TurnSpeed))
	if distance := math.Hypot(x, y); distance > 0 {
		cmds = append(cmds, DriveStraight(distance, p.opts.DriveSpeed))
	}
	cmds = append(cmds, TurnInPlace(angleZDeg-heading, p.opts.TurnSpeed))
	return cmds
}

// Execute issues cmds one at a time, waiting for each to finish and settling
// between them. On a failed command the sink is stopped if it can be, and
// the returned error names the failing step.
func (p *Planner) Execute(ctx context.Context, cmds []Command) error {
	for i, c := range cmds {
		if i > 0 {
			if err := p.settle(ctx); err != nil {
				return err
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		p.log.Debugw("motion_command", "step", i+1, "of", len(cmds), "command", c.String())
		if err := c.Dispatch(ctx, p.sink); err != nil {
			err = fmt.Errorf("step %d/%d %s: %w", i+1, len(cmds), c, err)
			if s, ok := p.sink.(Stopper); ok {
				err = multierr.Append(err, s.Stop(context.WithoutCancel(ctx)))
			}
			return err
		}
	}
	return nil
}

// GoToPose plans and executes the move to (x, y, angleZDeg) relative to the
// robot, returning the commands that were issued.
// Non-finite targets are rejected before anything moves.
func (p *Planner) GoToPose(ctx context.Context, x, y, angleZDeg float64) ([]Command, error) {
	if !finite(x, y, angleZDeg) {
		return nil, fmt.Errorf("go to pose (%v, %v, %v): %w", x, y, angleZDeg, errNonFiniteArgument)
	}
	cmds := p.Plan(x, y, angleZDeg)
	p.log.Infow("go_to_pose", "x", x, "y", y, "angle_z", angleZDeg, "commands", len(cmds))
	return cmds, p.Execute(ctx, cmds)
}

func (p *Planner) settle(ctx context.Context) error {
	if p.opts.SettleDelay <= 0 {
		return nil
	}
	t := time.NewTimer(p.opts.SettleDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
