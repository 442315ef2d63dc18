package cli

import (
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/AndreyAkinshin/respect/internal/errors"
	"github.com/AndreyAkinshin/respect/pkg/respect"
)

type checkOptions struct {
	codec   string
	schema  string
	pattern string
}

func newCheckCommand(a *app) *cobra.Command {
	var o checkOptions
	cmd := &cobra.Command{
		Use:   "check DIR",
		Short: "Validate resources",
		Long: `Decode every matching resource under DIR and, with --schema, validate
it against a JSON Schema. Every failing file is reported; the command exits
with status 2 if any failed.`,
		Args: oneDir,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.check(args[0], o)
		},
	}
	cmd.Flags().StringVarP(&o.codec, "codec", "c", "json", "Codec: json, compact, json5 or yaml")
	cmd.Flags().StringVarP(&o.schema, "schema", "s", "", "JSON Schema file the resources must satisfy")
	cmd.Flags().StringVarP(&o.pattern, "pattern", "p", "", "Pattern that base names must match (default *.<codec extension>)")
	return cmd
}

func (a *app) check(dir string, o checkOptions) error {
	codec, pattern, err := codecFlag(o.codec, o.pattern)
	if err != nil {
		return err
	}

	var schema *jsonschema.Schema
	if o.schema != "" {
		if schema, err = respect.CompileSchema(a.fs, o.schema); err != nil {
			return errors.Configf("schema %s: %v", o.schema, err)
		}
	}

	files, err := matchingResources(a.fs, dir, pattern)
	if err != nil {
		return err
	}

	var failed int
	for _, path := range files {
		data, err := afero.ReadFile(a.fs, path)
		if err != nil {
			return errors.ResourceError("check", path, err)
		}
		v, err := codec.Decode(data)
		if err == nil && schema != nil {
			err = schema.Validate(v)
		}
		if err != nil {
			failed++
			a.out.Failure("%s: %v", path, err)
		}
	}

	if failed > 0 {
		a.out.Hint("baselines are rewritten by their tests: rerun them with -respect.accept or RESPECT_ACCEPT=1")
		return errors.Validationf("%d of %d resource(s) failed validation", failed, len(files))
	}
	a.out.Success("%d resource(s) valid", len(files))
	return nil
}
