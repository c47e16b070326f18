package service

import (
	"context"
	"time"

	"cube_navigator/internal/logger"
	"cube_navigator/internal/models"
	"cube_navigator/internal/motion"
	"cube_navigator/internal/repository"
	"cube_navigator/internal/robot"
)

// Authorization manages accounts and the tokens that carry their role.
type Authorization interface {
	SignUp(ctx context.Context, username, password string) (models.User, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (models.Identity, error)
	SetRole(ctx context.Context, username, role string) error
}

// Navigator runs the search and motion procedures on the robot. At most one
// runs at a time; the others fail fast with ErrRobotBusy.
type Navigator interface {
	FindCube(ctx context.Context) (Sighting, error)
	MoveToCube(ctx context.Context) (Approach, error)
	GoToPose(ctx context.Context, x, y, angleZDeg float64) ([]motion.Command, error)
	Busy() bool
}

// Monitoring exposes the last persisted robot state.
type Monitoring interface {
	GetState(ctx context.Context) (models.RobotState, error)
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.RobotEvent, error)
}

// Telemetry samples the robot and persists its state until ctx is canceled.
type Telemetry interface {
	Run(ctx context.Context, tick time.Duration)
}

type Service struct {
	Navigator
	Monitoring
	EventLog
	Telemetry
	Authorization
}

// Options carries the configuration the services need beyond the repos.
type Options struct {
	Navigation NavigatorConfig
	Auth       AuthConfig
}

// NewService wires the repository layer and the robot into the services.
func NewService(repos *repository.Repository, rb robot.Robot, planner *motion.Planner, opts Options, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	nav := NewNavigatorService(rb, planner, repos.EventRepo, opts.Navigation, log.Named("navigator"))
	return &Service{
		Navigator:     nav,
		Monitoring:    NewMonitoringService(repos.StateRepo),
		EventLog:      NewEventLogService(repos.EventRepo),
		Telemetry:     NewTelemetryService(rb, nav, repos.StateRepo, log.Named("telemetry")),
		Authorization: NewAuthService(repos.Auth, opts.Auth),
	}
}
