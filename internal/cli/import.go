package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>",
		Short: "Load JSONL files into the store",
		Long: "Load employers.jsonl, clients.jsonl, projects.jsonl, categories.jsonl,\n" +
			"workdays.jsonl, tasks.jsonl, attributes.jsonl and task_attribute_values.jsonl\n" +
			"from dir. Missing files are skipped; malformed or rejected lines are counted.",
		Args: cobra.ExactArgs(1),
		RunE: a.runImport,
	}
}

func (a *app) runImport(cmd *cobra.Command, args []string) error {
	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("import source: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("import source %s is not a directory", dir)
	}

	backend, err := a.attachStore()
	if err != nil {
		return err
	}
	defer a.detach(backend)

	results, err := backend.Import(dir)
	if err != nil {
		return systemError("import: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintf(out, "no JSONL files found in %s\n", dir)
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(out, "%s: %d loaded, %d skipped\n", r.File, r.Loaded, r.Skipped)
	}
	return nil
}
