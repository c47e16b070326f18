package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"cube_navigator/internal/config"

	"github.com/spf13/cobra"
)

// A single search waits this long per observation unless overridden.
const defaultFindObserveTimeout = 5 * time.Second

var (
	findObserveTimeout time.Duration
	maxAttempts        int
)

// findCubeCmd represents the find-cube command
var findCubeCmd = &cobra.Command{
	Use:   "find-cube",
	Short: "Waits for the cube and prints where it is",
	Long: `Lowers the lift, levels the head and waits for the cube, retrying
after every observe timeout. Prints the robot pose, the cube pose and the
cube relative to the robot.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(func(cfg *config.Config) {
			cfg.Navigation.ObserveTimeout = findObserveTimeout
			applyMaxAttempts(cmd, cfg)
		})
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		sighting, err := a.services.Navigator.FindCube(ctx)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), sighting)
	},
}

// moveToCubeCmd represents the move-to-cube command
var moveToCubeCmd = &cobra.Command{
	Use:   "move-to-cube",
	Short: "Finds the cube and drives to the standoff pose next to it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(func(cfg *config.Config) { applyMaxAttempts(cmd, cfg) })
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		approach, err := a.services.Navigator.MoveToCube(ctx)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), approach)
	},
}

// goToPoseCmd represents the go-to-pose command
var goToPoseCmd = &cobra.Command{
	Use:   "go-to-pose X Y ANGLE",
	Short: "Drives to a pose relative to the robot",
	Long: `Turns toward (X, Y) millimetres, drives there and turns to end ANGLE
degrees from the starting heading. Negative values need a leading --.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, y, angle, err := parsePose(args)
		if err != nil {
			return err
		}
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		cmds, err := a.services.Navigator.GoToPose(ctx, x, y, angle)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"commands": cmds,
			"status":   a.sim.Status(),
		})
	},
}

func applyMaxAttempts(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("max-attempts") {
		cfg.Navigation.MaxAttempts = maxAttempts
	}
}

func parsePose(args []string) (x, y, angle float64, err error) {
	vals := make([]float64, len(args))
	for i, s := range args {
		vals[i], err = strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("argument %d %q is not a number", i+1, s)
		}
	}
	return vals[0], vals[1], vals[2], nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	findCubeCmd.Flags().DurationVar(&findObserveTimeout, "observe-timeout", defaultFindObserveTimeout, "how long each observation waits for the cube")
	for _, c := range []*cobra.Command{findCubeCmd, moveToCubeCmd} {
		c.Flags().IntVar(&maxAttempts, "max-attempts", 0, "give up after this many observations (0 keeps searching)")
	}
	rootCmd.AddCommand(findCubeCmd, moveToCubeCmd, goToPoseCmd)
}
