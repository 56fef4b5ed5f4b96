package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/docskema/jsonschema"
)

func newJSONSchemaCmd(a *app) *cobra.Command {
	var schemaPath, title string
	cmd := &cobra.Command{
		Use:   "jsonschema --schema FILE",
		Short: "Print the translated schema as JSON Schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.translate(schemaPath)
			if err != nil {
				return err
			}
			js, err := s.JSONSchema()
			if err != nil {
				return fmt.Errorf("export JSON Schema: %w", err)
			}
			if title == "" {
				title = strings.TrimSuffix(filepath.Base(schemaPath), filepath.Ext(schemaPath))
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(jsonschema.Root(js, title))
		},
	}
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "schema definition file (YAML or JSON)")
	cmd.Flags().StringVar(&title, "title", "", "document title (default: schema file name)")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}
