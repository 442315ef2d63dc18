package cli

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/AndreyAkinshin/respect/internal/errors"
	"github.com/AndreyAkinshin/respect/pkg/respect"
)

type listOptions struct {
	pattern  string
	exclude  []string
	stripExt bool
}

func newListCommand(a *app) *cobra.Command {
	var o listOptions
	cmd := &cobra.Command{
		Use:   "list DIR",
		Short: "List resources in a directory",
		Long:  "List the resource files directly inside DIR, sorted by name. Patterns use doublestar syntax and match base names.",
		Args:  oneDir,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.list(args[0], o)
		},
	}
	cmd.Flags().StringVarP(&o.pattern, "pattern", "p", "*", "Pattern that names must match")
	cmd.Flags().StringArrayVarP(&o.exclude, "exclude", "x", nil, "Pattern of names to leave out (repeatable)")
	cmd.Flags().BoolVar(&o.stripExt, "strip-ext", false, "Print names without their extension")
	return cmd
}

func (a *app) list(dir string, o listOptions) error {
	if ok, err := afero.DirExists(a.fs, dir); err != nil || !ok {
		return errors.NotFound("directory", dir)
	}
	names, err := respect.ListResources(a.fs, dir, respect.ListOptions{
		Pattern:  o.pattern,
		Exclude:  o.exclude,
		StripExt: o.stripExt,
	})
	if err != nil {
		return errors.ResourceError("list", dir, err)
	}
	for _, name := range names {
		a.out.Println("%s", name)
	}
	return nil
}
