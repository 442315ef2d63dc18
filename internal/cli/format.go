package cli

import (
	"bytes"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/AndreyAkinshin/respect/internal/errors"
)

type fmtOptions struct {
	codec   string
	pattern string
	check   bool
}

func newFmtCommand(a *app) *cobra.Command {
	var o fmtOptions
	cmd := &cobra.Command{
		Use:   "fmt DIR",
		Short: "Re-encode resources in canonical form",
		Long: `Decode every matching resource under DIR and write it back with the
chosen codec: sorted keys, two-space indent, and NaN or Infinity for
non-finite numbers. With --check nothing is written; files that would
change are printed and the command exits with status 1.`,
		Args: oneDir,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.format(args[0], o)
		},
	}
	cmd.Flags().StringVarP(&o.codec, "codec", "c", "json", "Codec: json, compact, json5 or yaml")
	cmd.Flags().StringVarP(&o.pattern, "pattern", "p", "", "Pattern that base names must match (default *.<codec extension>)")
	cmd.Flags().BoolVar(&o.check, "check", false, "Report files that are not formatted instead of rewriting them")
	return cmd
}

func (a *app) format(dir string, o fmtOptions) error {
	codec, pattern, err := codecFlag(o.codec, o.pattern)
	if err != nil {
		return err
	}
	files, err := matchingResources(a.fs, dir, pattern)
	if err != nil {
		return err
	}

	var changed int
	for _, path := range files {
		data, err := afero.ReadFile(a.fs, path)
		if err != nil {
			return errors.ResourceError("fmt", path, err)
		}
		v, err := codec.Decode(data)
		if err != nil {
			return errors.ResourceError("fmt", path, err)
		}
		formatted, err := codec.Encode(v)
		if err != nil {
			return errors.ResourceError("fmt", path, err)
		}
		if bytes.Equal(data, formatted) {
			continue
		}

		changed++
		if o.check {
			a.out.Println("%s", path)
			continue
		}
		if err := afero.WriteFile(a.fs, path, formatted, 0644); err != nil {
			return errors.ResourceError("fmt", path, err)
		}
		a.out.Info("formatted %s", path)
	}

	if o.check {
		if changed > 0 {
			return errors.Mismatchf("%d of %d file(s) need formatting", changed, len(files))
		}
		return nil
	}
	a.out.Success("%d of %d file(s) formatted", changed, len(files))
	return nil
}
