package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize timelog storage",
		Long:  "Create the configuration and data directories, write a default config.yaml\nif none exists, then create the database.",
		Args:  cobra.NoArgs,
		RunE:  a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, _ []string) error {
	dataDir, err := a.dataDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(a.configDir, 0o755); err != nil {
		return systemError("create config directory: %w", err)
	}
	// data_dir is recorded only when given by flag.
	recorded := ""
	if a.dataDirFlag != "" {
		recorded = dataDir
	}
	written, err := writeConfigIfMissing(a.configPath(), recorded)
	if err != nil {
		return systemError("write config: %w", err)
	}
	if written {
		a.logger.Info("wrote default config", "path", a.configPath())
	}

	backend, err := a.attachStore()
	if err != nil {
		return err
	}
	if err := backend.Detach(); err != nil {
		return systemError("finalize storage: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "config: %s\n", a.configPath())
	fmt.Fprintf(out, "data:   %s\n", dataDir)
	fmt.Fprintln(out, "timelog initialized")
	return nil
}
