package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/logsift/internal/source"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the device log buffer (adb logcat -c)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := runConfig()
		if err != nil {
			return err
		}
		if err := source.ClearBuffer(context.Background(), cfg.ADBPath); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "device log buffer cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
