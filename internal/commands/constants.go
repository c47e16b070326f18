package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"cube_navigator/internal/config"
	"cube_navigator/internal/motion"

	"github.com/spf13/cobra"
)

// constantsCmd represents the constants command
var constantsCmd = &cobra.Command{
	Use:   "constants",
	Short: "Prints the drive constants and the wheel commands they produce",
	Long: `Prints the configured wheel geometry together with the timed wheel
commands used for a quarter turn, a full wheel rotation and a 100mm drive.
Does not touch the robot or the database.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile, envFile)
		if err != nil {
			return err
		}
		return printConstants(cmd.OutOrStdout(), cfg)
	},
}

func printConstants(out io.Writer, cfg *config.Config) error {
	dd, err := motion.NewDifferentialDrive(cfg.Robot,
		motion.WithOverhead(cfg.Motion.Overhead),
		motion.WithAnglePolicy(cfg.Motion.AnglePolicyFunc()),
	)
	if err != nil {
		return err
	}
	quarter, err := dd.TurnCommand(90, cfg.Motion.TurnSpeed)
	if err != nil {
		return err
	}
	wheel, err := dd.WheelRotationCommand(360)
	if err != nil {
		return err
	}
	straight, err := dd.StraightCommand(100, cfg.Motion.DriveSpeed)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "wheel radius\t%.2f mm\n", cfg.Robot.WheelRadiusMM)
	fmt.Fprintf(w, "wheel base\t%.2f mm\n", cfg.Robot.WheelBaseMM)
	fmt.Fprintf(w, "turn circumference\t%.2f mm\n", dd.TurnCircumference())
	fmt.Fprintf(w, "angle policy\t%s\n", cfg.Motion.AnglePolicy)
	fmt.Fprintf(w, "turn 90 deg\t%s\n", quarter)
	fmt.Fprintf(w, "rotate wheel 360 deg\t%s\n", wheel)
	fmt.Fprintf(w, "drive 100 mm\t%s\n", straight)
	return w.Flush()
}

func init() {
	rootCmd.AddCommand(constantsCmd)
}
