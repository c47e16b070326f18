// Package motion turns a target pose relative to the robot into the
// turn/drive/turn sequence of blocking commands a differential-drive base
// executes, and converts those commands into raw wheel speeds when the base
// is driven wheel by wheel.
package motion

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Kind identifies a motion primitive.
type Kind uint8

const (
	KindTurnInPlace Kind = iota + 1
	KindDriveStraight
	KindDriveWheels
)

func (k Kind) String() string {
	switch k {
	case KindTurnInPlace:
		return "turn_in_place"
	case KindDriveStraight:
		return "drive_straight"
	case KindDriveWheels:
		return "drive_wheels"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// MarshalText renders the kind by name in JSON event metadata.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	for _, c := range []Kind{KindTurnInPlace, KindDriveStraight, KindDriveWheels} {
		if c.String() == string(b) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("%w: %q", errUnknownKind, b)
}

// Command is a single blocking motion primitive. Only the fields relevant to
// Kind are set.
type Command struct {
	Kind       Kind          `json:"kind"`
	Angle      float64       `json:"angle_deg,omitempty"`   // TurnInPlace
	Distance   float64       `json:"distance_mm,omitempty"` // DriveStraight
	Speed      float64       `json:"speed,omitempty"`       // deg/s or mm/s
	LeftSpeed  float64       `json:"left_mm_s,omitempty"`   // DriveWheels
	RightSpeed float64       `json:"right_mm_s,omitempty"`  // DriveWheels
	Duration   time.Duration `json:"duration_ns,omitempty"` // DriveWheels
}

// TurnInPlace rotates the robot by angleDeg at speedDegPerSec.
func TurnInPlace(angleDeg, speedDegPerSec float64) Command {
	return Command{Kind: KindTurnInPlace, Angle: angleDeg, Speed: speedDegPerSec}
}

// DriveStraight drives distanceMM at speedMMPerSec.
func DriveStraight(distanceMM, speedMMPerSec float64) Command {
	return Command{Kind: KindDriveStraight, Distance: distanceMM, Speed: speedMMPerSec}
}

// DriveWheels runs both wheels at the given speeds for d.
func DriveWheels(leftMMPerSec, rightMMPerSec float64, d time.Duration) Command {
	return Command{Kind: KindDriveWheels, LeftSpeed: leftMMPerSec, RightSpeed: rightMMPerSec, Duration: d}
}

func (c Command) String() string {
	switch c.Kind {
	case KindTurnInPlace:
		return fmt.Sprintf("TurnInPlace(%.2f deg, %.2f deg/s)", c.Angle, c.Speed)
	case KindDriveStraight:
		return fmt.Sprintf("DriveStraight(%.2f mm, %.2f mm/s)", c.Distance, c.Speed)
	case KindDriveWheels:
		return fmt.Sprintf("DriveWheels(%.2f mm/s, %.2f mm/s, %s)", c.LeftSpeed, c.RightSpeed, c.Duration)
	default:
		return c.Kind.String()
	}
}

var errUnknownKind = errors.New("unknown motion command kind")

// Dispatch issues the command on sink and blocks until it completes.
func (c Command) Dispatch(ctx context.Context, sink Sink) error {
	switch c.Kind {
	case KindTurnInPlace:
		return sink.TurnInPlace(ctx, c.Angle, c.Speed)
	case KindDriveStraight:
		return sink.DriveStraight(ctx, c.Distance, c.Speed)
	case KindDriveWheels:
		return sink.DriveWheels(ctx, c.LeftSpeed, c.RightSpeed, c.Duration)
	default:
		return fmt.Errorf("%w: %d", errUnknownKind, c.Kind)
	}
}

// Sink executes motion primitives. Every call blocks until the motion has
// completed or failed.
type Sink interface {
	DriveStraight(ctx context.Context, distanceMM, speedMMPerSec float64) error
	TurnInPlace(ctx context.Context, angleDeg, speedDegPerSec float64) error
	DriveWheels(ctx context.Context, leftMMPerSec, rightMMPerSec float64, d time.Duration) error
}

// Stopper is implemented by sinks that can halt the wheels after a failure.
type Stopper interface {
	Stop(ctx context.Context) error
}
