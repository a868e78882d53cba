package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/logsift/internal/ruleset"
	"github.com/crimson-sun/logsift/internal/scope"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write starter ignore and scope files",
	Long: `init writes commented sample .logcatignore and .logcatscope files into
the working directory (or wherever --ignore-file/--scope-file point).
Existing files are left alone unless --force is given.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "overwrite existing files")
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := runConfig()
	if err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")

	for _, f := range []struct {
		path  string
		write func(string) (bool, error)
	}{
		{cfg.IgnoreFile, ruleset.WriteSample},
		{cfg.ScopeFile, scope.WriteSample},
	} {
		if force {
			if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("remove %s: %w", f.path, err)
			}
		}
		created, err := f.write(f.path)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", f.path)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s already exists, skipping (use --force to overwrite)\n", f.path)
		}
	}
	return nil
}
