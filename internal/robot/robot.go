// Package robot is the boundary to the physical base: sensing the cube,
// reporting the robot's own pose and executing blocking motion primitives.
package robot

import (
	"context"
	"errors"
	"time"

	"cube_navigator/internal/geometry"
	"cube_navigator/internal/motion"
)

// ErrObserveTimeout is returned by ObserveMarker when no cube was seen within
// the timeout. Callers are expected to retry.
var ErrObserveTimeout = errors.New("no cube observed before timeout")

// Robot is everything the navigator needs from the base. Poses are in the
// robot's world frame; motion calls block until the motion has finished.
type Robot interface {
	motion.Sink
	motion.Stopper

	// ObserveMarker waits up to timeout for the cube to be seen and returns
	// its world pose.
	ObserveMarker(ctx context.Context, timeout time.Duration) (geometry.Pose2D, error)
	CurrentPose(ctx context.Context) (geometry.Pose2D, error)
	SetHeadAngle(ctx context.Context, deg float64) error
	// MoveLift runs the lift motor at speed rad/s; negative lowers it.
	MoveLift(ctx context.Context, speed float64) error
}

// Status is a point-in-time view of the base used for telemetry.
type Status struct {
	Pose         geometry.Pose2D `json:"pose"`
	Moving       bool            `json:"moving"`
	LastCommand  string          `json:"last_command,omitempty"`
	HeadAngleDeg float64         `json:"head_angle_deg"`
	LiftSpeed    float64         `json:"lift_speed"`
	CubeVisible  bool            `json:"cube_visible"`
}

// StatusReporter is implemented by robots that can report more than a pose.
type StatusReporter interface {
	Status() Status
}
