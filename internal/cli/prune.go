package cli

import (
	"github.com/spf13/cobra"

	"github.com/AndreyAkinshin/respect/internal/errors"
	"github.com/AndreyAkinshin/respect/pkg/respect"
)

func newPruneCommand(a *app) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "prune DIR",
		Short: "Remove actual-value files left by failed tests",
		Long:  "Remove every *__actual.* file under DIR. These are written next to a baseline when a comparison fails.",
		Args:  oneDir,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.prune(args[0], dryRun)
		},
	}
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print the files without removing them")
	return cmd
}

func (a *app) prune(dir string, dryRun bool) error {
	files, err := walkResources(a.fs, dir, func(name string) (bool, error) {
		return respect.IsActualFile(name), nil
	})
	if err != nil {
		return err
	}

	for _, path := range files {
		if dryRun {
			a.out.Println("%s", path)
			continue
		}
		if err := a.fs.Remove(path); err != nil {
			return errors.ResourceError("prune", path, err)
		}
		a.out.Info("removed %s", path)
	}
	if !dryRun {
		a.out.Success("%d file(s) removed", len(files))
	}
	return nil
}
