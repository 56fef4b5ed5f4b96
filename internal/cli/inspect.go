package cli

import (
	"github.com/spf13/cobra"

	"github.com/reoring/docskema/docimport"
	"github.com/reoring/docskema/docschema"
)

func newInspectCmd(a *app) *cobra.Command {
	var schemaPath string
	cmd := &cobra.Command{
		Use:   "inspect --schema FILE",
		Short: "Print the field tree of a schema definition",
		Long: `Prints every declared field with its kind and constraints, in document
order, followed by the declarations the validator ignores.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := docschema.LoadFile(schemaPath, docschema.LoadOptions{TypeKey: a.cfg.TypeKey})
			if err != nil {
				return err
			}
			type row struct{ path, desc string }
			var rows []row
			width := 0
			err = docschema.Walk(s, func(p string, n docschema.Node) error {
				rows = append(rows, row{p, n.Describe()})
				width = max(width, len(p))
				return nil
			})
			if err != nil {
				return err
			}
			for _, r := range rows {
				a.out.Row(r.path, width, r.desc)
			}
			_, d := docimport.TranslateWith(s, a.cfg.importOptions())
			for _, w := range d.Warnings() {
				a.out.Warn(w)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "schema definition file (YAML or JSON)")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}
