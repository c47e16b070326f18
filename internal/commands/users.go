package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// setRoleCmd represents the set-role command
var setRoleCmd = &cobra.Command{
	Use:   "set-role USERNAME operator|viewer",
	Short: "Changes whether an account may drive the robot",
	Long: `The first account that signs up becomes the operator and every later
account is a viewer. set-role promotes or demotes an account in the
configured database. Tokens already issued keep their old role until they
expire.`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"operator", "viewer"},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.services.SetRole(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setRoleCmd)
}
