// Package config loads the navigator configuration from configs/config.yml,
// an optional .env file and NAVIGATOR_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"cube_navigator/internal/geometry"
	"cube_navigator/internal/logger"
	"cube_navigator/internal/motion"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

const envPrefix = "NAVIGATOR"

// Transform modes for computing the standoff target.
const (
	TransformLegacy = "legacy"
	TransformFrame  = "frame"
)

// Angle policies for wheel-level turns.
const (
	AngleLegacy   = "legacy"
	AngleShortest = "shortest"
)

// Config is the full service configuration. WriteTimeout bounds an HTTP
// response and must outlast a cube search.
type Config struct {
	Port         string           `mapstructure:"port"`
	WriteTimeout time.Duration    `mapstructure:"write_timeout"`
	Log          LogConfig        `mapstructure:"log"`
	DB           DBConfig         `mapstructure:"db"`
	Auth         AuthConfig       `mapstructure:"auth"`
	Robot        motion.Constants `mapstructure:"robot"`
	Motion       MotionConfig     `mapstructure:"motion"`
	Navigation   NavigationConfig `mapstructure:"navigation"`
	Sim          SimConfig        `mapstructure:"sim"`
	Telemetry    TelemetryConfig  `mapstructure:"telemetry"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

// MotionConfig tunes the planner and, when WheelPrimitives is set, routes
// every turn and drive through timed wheel commands.
type MotionConfig struct {
	motion.Options  `mapstructure:",squash"`
	Overhead        time.Duration `mapstructure:"overhead"`
	WheelPrimitives bool          `mapstructure:"wheel_primitives"`
	AnglePolicy     string        `mapstructure:"angle_policy"`
}

type NavigationConfig struct {
	ObserveTimeout time.Duration `mapstructure:"observe_timeout"`
	MaxAttempts    int           `mapstructure:"max_attempts"` // 0 retries forever
	Standoff       PoseConfig    `mapstructure:"standoff"`
	Transform      string        `mapstructure:"transform"`
}

type SimConfig struct {
	Start     PoseConfig    `mapstructure:"start"`
	Cube      PoseConfig    `mapstructure:"cube"`
	CubeAfter time.Duration `mapstructure:"cube_after"`
	FOVDeg    float64       `mapstructure:"fov_deg"`
	RangeMM   float64       `mapstructure:"range_mm"`
	TimeScale float64       `mapstructure:"time_scale"`
}

type TelemetryConfig struct {
	Tick time.Duration `mapstructure:"tick"`
}

// PoseConfig is a pose as written in config files, heading in degrees.
type PoseConfig struct {
	X        float64 `mapstructure:"x"`
	Y        float64 `mapstructure:"y"`
	AngleDeg float64 `mapstructure:"angle_deg"`
}

func (p PoseConfig) Pose() geometry.Pose2D {
	return geometry.NewPoseDegrees(p.X, p.Y, p.AngleDeg)
}

// AnglePolicyFunc resolves the configured wheel turn policy.
func (m MotionConfig) AnglePolicyFunc() motion.AnglePolicy {
	if m.AnglePolicy == AngleShortest {
		return motion.ShortestAnglePolicy
	}
	return motion.LegacyAnglePolicy
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("write_timeout", 5*time.Minute)
	v.SetDefault("log.level", logger.InfoLevel)
	v.SetDefault("db.path", "navigator.db")
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", time.Hour)

	v.SetDefault("robot.wheel_radius_mm", motion.DefaultWheelRadiusMM)
	v.SetDefault("robot.wheel_base_mm", motion.DefaultWheelBaseMM)

	v.SetDefault("motion.turn_speed", motion.DefaultTurnSpeed)
	v.SetDefault("motion.drive_speed", motion.DefaultDriveSpeed)
	v.SetDefault("motion.settle_delay", motion.DefaultSettleDelay)
	v.SetDefault("motion.overhead", motion.DefaultCommandOverhead)
	v.SetDefault("motion.wheel_primitives", false)
	v.SetDefault("motion.angle_policy", AngleLegacy)

	v.SetDefault("navigation.observe_timeout", 30*time.Second)
	v.SetDefault("navigation.max_attempts", 0)
	v.SetDefault("navigation.standoff.x", 0.0)
	v.SetDefault("navigation.standoff.y", 100.0)
	v.SetDefault("navigation.standoff.angle_deg", 90.0)
	v.SetDefault("navigation.transform", TransformLegacy)

	v.SetDefault("sim.start.x", 0.0)
	v.SetDefault("sim.start.y", 0.0)
	v.SetDefault("sim.start.angle_deg", 0.0)
	v.SetDefault("sim.cube.x", 300.0)
	v.SetDefault("sim.cube.y", 50.0)
	v.SetDefault("sim.cube.angle_deg", 0.0)
	v.SetDefault("sim.cube_after", time.Duration(0))
	v.SetDefault("sim.fov_deg", 60.0)
	v.SetDefault("sim.range_mm", 600.0)
	v.SetDefault("sim.time_scale", 1.0)

	v.SetDefault("telemetry.tick", time.Second)
}

// Load reads configFile, or configs/config.yml when it is empty (a missing
// default file is not an error). envFile is loaded into the environment
// first; when empty an optional ./.env is used. Environment variables
// override the file, e.g. NAVIGATOR_NAVIGATION_MAX_ATTEMPTS.
func Load(configFile, envFile string) (*Config, error) {
	if err := loadDotEnv(envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", configFile, err)
		}
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Navigation.Transform = strings.ToLower(strings.TrimSpace(cfg.Navigation.Transform))
	cfg.Motion.AnglePolicy = strings.ToLower(strings.TrimSpace(cfg.Motion.AnglePolicy))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadDotEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %q: %w", envFile, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Validate rejects settings the navigator cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Robot.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Motion.TurnSpeed == 0 || c.Motion.DriveSpeed == 0 {
		errs = append(errs, fmt.Errorf("motion speeds: %w", motion.ErrZeroSpeed))
	}
	if c.Motion.SettleDelay < 0 || c.Motion.Overhead < 0 {
		errs = append(errs, errors.New("motion delays must not be negative"))
	}
	switch c.Motion.AnglePolicy {
	case AngleLegacy, AngleShortest:
	default:
		errs = append(errs, fmt.Errorf("unknown motion.angle_policy %q", c.Motion.AnglePolicy))
	}
	switch c.Navigation.Transform {
	case TransformLegacy, TransformFrame:
	default:
		errs = append(errs, fmt.Errorf("unknown navigation.transform %q", c.Navigation.Transform))
	}
	if c.Navigation.ObserveTimeout <= 0 {
		errs = append(errs, errors.New("navigation.observe_timeout must be positive"))
	}
	if c.Navigation.MaxAttempts < 0 {
		errs = append(errs, errors.New("navigation.max_attempts must not be negative"))
	}
	if c.Sim.TimeScale < 0 {
		errs = append(errs, errors.New("sim.time_scale must not be negative"))
	}
	if c.Telemetry.Tick <= 0 {
		errs = append(errs, errors.New("telemetry.tick must be positive"))
	}
	if err := multierr.Combine(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
