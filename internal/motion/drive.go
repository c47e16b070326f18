package motion

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// Calibrated Cozmo wheel geometry.
const (
	DefaultWheelRadiusMM = 13.5
	DefaultWheelBaseMM   = 86.0

	// DefaultCommandOverhead is added to every computed wheel run so the base
	// has time to spin up and down.
	DefaultCommandOverhead = 500 * time.Millisecond

	// wheelRotationSpeed is the linear wheel speed used by WheelRotationCommand.
	wheelRotationSpeed = 45.0 // mm/s
)

var (
	ErrZeroSpeed         = errors.New("speed must be non-zero")
	ErrInvalidConstants  = errors.New("wheel radius and wheel base must be positive")
	errNonFiniteArgument = errors.New("non-finite motion argument")
)

// Constants are the fixed kinematic calibration of the base.
type Constants struct {
	WheelRadiusMM float64 `mapstructure:"wheel_radius_mm" json:"wheel_radius_mm"`
	WheelBaseMM   float64 `mapstructure:"wheel_base_mm" json:"wheel_base_mm"`
}

// DefaultConstants returns the calibrated Cozmo geometry.
func DefaultConstants() Constants {
	return Constants{WheelRadiusMM: DefaultWheelRadiusMM, WheelBaseMM: DefaultWheelBaseMM}
}

// Validate rejects non-positive geometry.
func (c Constants) Validate() error {
	if !(c.WheelRadiusMM > 0) || !(c.WheelBaseMM > 0) {
		return fmt.Errorf("%w: radius=%v base=%v", ErrInvalidConstants, c.WheelRadiusMM, c.WheelBaseMM)
	}
	return nil
}

// AnglePolicy maps a requested turn in degrees to the signed angle the wheels
// actually travel. A positive result drives the left wheel forward.
type AnglePolicy func(angleDeg float64) float64

// LegacyAngleNormalization is the travel angle the lab odometry code derived
// from a requested turn: the angle modulo 360 (always in [0, 360)), less 180
// when that exceeds 180 and the request was negative. It is not symmetric for
// negative requests: -90 travels 90 but -45 travels 135.
func LegacyAngleNormalization(angleDeg float64) float64 {
	travel := math.Mod(angleDeg, 360)
	if travel < 0 {
		travel += 360
	}
	if travel > 180 && angleDeg < 0 {
		travel -= 180
	}
	return travel
}

// LegacyAnglePolicy applies LegacyAngleNormalization and turns in the
// direction of the requested angle's sign.
func LegacyAnglePolicy(angleDeg float64) float64 {
	travel := LegacyAngleNormalization(angleDeg)
	if angleDeg < 0 {
		return -travel
	}
	return travel
}

// ShortestAnglePolicy turns the shortest way round, in (-180, 180].
func ShortestAnglePolicy(angleDeg float64) float64 {
	a := math.Mod(angleDeg, 360)
	switch {
	case a <= -180:
		a += 360
	case a > 180:
		a -= 360
	}
	return a
}

// DifferentialDrive converts turn and straight requests into timed wheel
// speed commands for a two-wheel base.
type DifferentialDrive struct {
	constants Constants
	overhead  time.Duration
	policy    AnglePolicy
}

// DriveOption customizes a DifferentialDrive.
type DriveOption func(*DifferentialDrive)

// WithOverhead replaces DefaultCommandOverhead.
func WithOverhead(d time.Duration) DriveOption {
	return func(dd *DifferentialDrive) { dd.overhead = d }
}

// WithAnglePolicy replaces LegacyAnglePolicy.
func WithAnglePolicy(p AnglePolicy) DriveOption {
	return func(dd *DifferentialDrive) { dd.policy = p }
}

// NewDifferentialDrive validates constants and returns a drive using the
// legacy angle policy and the default overhead unless overridden.
func NewDifferentialDrive(constants Constants, opts ...DriveOption) (*DifferentialDrive, error) {
	if err := constants.Validate(); err != nil {
		return nil, err
	}
	dd := &DifferentialDrive{
		constants: constants,
		overhead:  DefaultCommandOverhead,
		policy:    LegacyAnglePolicy,
	}
	for _, o := range opts {
		o(dd)
	}
	return dd, nil
}

// Constants returns the geometry the drive was built with.
func (dd *DifferentialDrive) Constants() Constants {
	return dd.constants
}

// TurnCircumference is the distance each wheel covers in a full spin in place.
func (dd *DifferentialDrive) TurnCircumference() float64 {
	return math.Pi * dd.constants.WheelBaseMM
}

// TurnCommand converts an in-place turn into opposed wheel speeds:
// each wheel runs at circumference*speed/360 for
// travelDistance/travelSpeed plus the overhead.
func (dd *DifferentialDrive) TurnCommand(angleDeg, speedDegPerSec float64) (Command, error) {
	if speedDegPerSec == 0 {
		return Command{}, fmt.Errorf("turn %.2f deg: %w", angleDeg, ErrZeroSpeed)
	}
	if !finite(angleDeg, speedDegPerSec) {
		return Command{}, fmt.Errorf("turn %v deg at %v deg/s: %w", angleDeg, speedDegPerSec, errNonFiniteArgument)
	}
	signed := dd.policy(angleDeg)
	circumference := dd.TurnCircumference()
	travelDistance := circumference * (math.Abs(signed) / 360)
	travelSpeed := circumference * (math.Abs(speedDegPerSec) / 360)

	left, right := travelSpeed, -travelSpeed
	if signed < 0 || (signed == 0 && angleDeg < 0) {
		left, right = -travelSpeed, travelSpeed
	}
	return DriveWheels(left, right, dd.runTime(travelDistance/travelSpeed)), nil
}

// StraightCommand runs both wheels at speed for dist/speed plus the overhead.
// A negative distance drives backwards.
func (dd *DifferentialDrive) StraightCommand(distanceMM, speedMMPerSec float64) (Command, error) {
	if speedMMPerSec == 0 {
		return Command{}, fmt.Errorf("drive %.2f mm: %w", distanceMM, ErrZeroSpeed)
	}
	if !finite(distanceMM, speedMMPerSec) {
		return Command{}, fmt.Errorf("drive %v mm at %v mm/s: %w", distanceMM, speedMMPerSec, errNonFiniteArgument)
	}
	speed := math.Abs(speedMMPerSec)
	if distanceMM < 0 {
		speed = -speed
	}
	return DriveWheels(speed, speed, dd.runTime(math.Abs(distanceMM)/math.Abs(speedMMPerSec))), nil
}

// WheelRotationCommand rolls the front wheels through angleDeg of their own
// rotation: 2*pi*r*angle/360 of travel at a fixed 45 mm/s.
func (dd *DifferentialDrive) WheelRotationCommand(angleDeg float64) (Command, error) {
	distance := 2 * math.Pi * dd.constants.WheelRadiusMM * (angleDeg / 360)
	return dd.StraightCommand(distance, wheelRotationSpeed)
}

func (dd *DifferentialDrive) runTime(seconds float64) time.Duration {
	return time.Duration(seconds*float64(time.Second)) + dd.overhead
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// WheelDriver is the raw differential interface a WheelSink drives.
type WheelDriver interface {
	DriveWheels(ctx context.Context, leftMMPerSec, rightMMPerSec float64, d time.Duration) error
}

// WheelSink executes turns and straight drives purely through timed wheel
// speed commands instead of the base's own closed-loop primitives.
type WheelSink struct {
	driver WheelDriver
	drive  *DifferentialDrive
}

// NewWheelSink returns a Sink that routes every primitive through driver.
func NewWheelSink(driver WheelDriver, drive *DifferentialDrive) *WheelSink {
	return &WheelSink{driver: driver, drive: drive}
}

func (s *WheelSink) DriveStraight(ctx context.Context, distanceMM, speedMMPerSec float64) error {
	c, err := s.drive.StraightCommand(distanceMM, speedMMPerSec)
	if err != nil {
		return err
	}
	return c.Dispatch(ctx, s)
}

func (s *WheelSink) TurnInPlace(ctx context.Context, angleDeg, speedDegPerSec float64) error {
	c, err := s.drive.TurnCommand(angleDeg, speedDegPerSec)
	if err != nil {
		return err
	}
	return c.Dispatch(ctx, s)
}

func (s *WheelSink) DriveWheels(ctx context.Context, leftMMPerSec, rightMMPerSec float64, d time.Duration) error {
	return s.driver.DriveWheels(ctx, leftMMPerSec, rightMMPerSec, d)
}

// RotateWheel rolls the wheels through angleDeg of rotation.
func (s *WheelSink) RotateWheel(ctx context.Context, angleDeg float64) error {
	c, err := s.drive.WheelRotationCommand(angleDeg)
	if err != nil {
		return err
	}
	return c.Dispatch(ctx, s)
}

// Stop forwards to the driver when it can stop.
func (s *WheelSink) Stop(ctx context.Context) error {
	if st, ok := s.driver.(Stopper); ok {
		return st.Stop(ctx)
	}
	return nil
}
