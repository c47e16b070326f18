package commands

import (
	"database/sql"
	"fmt"

	"cube_navigator/internal/config"
	"cube_navigator/internal/logger"
	"cube_navigator/internal/motion"
	"cube_navigator/internal/repository"
	"cube_navigator/internal/repository/db"
	"cube_navigator/internal/robot"
	"cube_navigator/internal/service"

	"github.com/google/uuid"
)

// app is the wired process: config, robot, planner, storage and services.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	sim      *robot.Sim
	planner  *motion.Planner
	db       *sql.DB
	services *service.Service
}

func newApp(cfg *config.Config, log *logger.Logger) (*app, error) {
	sim, err := robot.NewSim(robot.SimConfig{
		Start:     cfg.Sim.Start.Pose(),
		Cube:      cfg.Sim.Cube.Pose(),
		CubeAfter: cfg.Sim.CubeAfter,
		FOVDeg:    cfg.Sim.FOVDeg,
		RangeMM:   cfg.Sim.RangeMM,
		TimeScale: cfg.Sim.TimeScale,
		Constants: cfg.Robot,
	}, log.Named("sim"))
	if err != nil {
		return nil, fmt.Errorf("init sim: %w", err)
	}

	sink, err := motionSink(cfg, sim)
	if err != nil {
		return nil, err
	}
	planner, err := motion.NewPlanner(sink, cfg.Motion.Options, log.Named("planner"))
	if err != nil {
		return nil, fmt.Errorf("init planner: %w", err)
	}

	conn, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("init sqlite: %w", err)
	}

	signingKey := cfg.Auth.SigningKey
	if signingKey == "" {
		signingKey = uuid.NewString()
		log.Warnw("auth.signing_key not set; tokens will not survive a restart")
	}

	repos := repository.NewRepository(conn)
	services := service.NewService(repos, sim, planner, service.Options{
		Navigation: service.NavigatorConfig{
			ObserveTimeout: cfg.Navigation.ObserveTimeout,
			MaxAttempts:    cfg.Navigation.MaxAttempts,
			Standoff:       cfg.Navigation.Standoff.Pose(),
			Transform:      cfg.Navigation.Transform,
		},
		Auth: service.AuthConfig{
			SigningKey: signingKey,
			TokenTTL:   cfg.Auth.TokenTTL,
		},
	}, log)

	return &app{cfg: cfg, log: log, sim: sim, planner: planner, db: conn, services: services}, nil
}

// motionSink is the sim itself, or a WheelSink over it when every motion
// must go through timed wheel commands.
func motionSink(cfg *config.Config, sim *robot.Sim) (motion.Sink, error) {
	if !cfg.Motion.WheelPrimitives {
		return sim, nil
	}
	dd, err := motion.NewDifferentialDrive(cfg.Robot,
		motion.WithOverhead(cfg.Motion.Overhead),
		motion.WithAnglePolicy(cfg.Motion.AnglePolicyFunc()),
	)
	if err != nil {
		return nil, fmt.Errorf("init drive: %w", err)
	}
	return motion.NewWheelSink(sim, dd), nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// loadApp reads the configuration named by the persistent flags and wires
// the app. overrides runs between loading and wiring.
func loadApp(overrides ...func(*config.Config)) (*app, error) {
	cfg, err := config.Load(configFile, envFile)
	if err != nil {
		return nil, err
	}
	if len(overrides) > 0 {
		for _, o := range overrides {
			o(cfg)
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	log := logger.Get(cfg.Log.Level)
	return newApp(cfg, log)
}
