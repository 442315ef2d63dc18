// Package cli implements the respect command, which maintains resource
// directories outside of test runs.
package cli

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/AndreyAkinshin/respect/internal/errors"
	"github.com/AndreyAkinshin/respect/internal/output"
)

// Version is set at build time.
var Version = "dev"

// app carries the dependencies shared by all commands.
type app struct {
	out   *output.Writer
	fs    afero.Fs
	quiet bool
}

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	return RunWith(args, output.New(), afero.NewOsFs())
}

// RunWith is Run with explicit output and filesystem.
func RunWith(args []string, out *output.Writer, fsys afero.Fs) int {
	a := &app{out: out, fs: fsys}
	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetOut(out.Stdout())
	root.SetErr(out.Stderr())

	if err := root.Execute(); err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}
	return errors.ExitSuccess
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "respect",
		Short: "Maintain golden resource files",
		Long: `respect lists, formats, validates and cleans the resource directories
used by respect-based tests. Baselines themselves are written by the tests,
run with -respect.accept or RESPECT_ACCEPT=1.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.out.SetQuiet(a.quiet)
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.Config(err.Error())
	})
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "Suppress informational output")

	root.AddCommand(
		newListCommand(a),
		newFmtCommand(a),
		newCheckCommand(a),
		newPruneCommand(a),
		newVersionCommand(a),
	)
	return root
}

// oneDir accepts exactly one directory argument.
func oneDir(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.Configf("%s expects exactly one directory, got %d arguments", cmd.Name(), len(args))
	}
	return nil
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the respect version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			a.out.Println("respect %s", Version)
		},
	}
}
