// Package cli implements the docskema command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reoring/docskema"
	"github.com/reoring/docskema/docimport"
	"github.com/reoring/docskema/docschema"
	"github.com/reoring/docskema/i18n"
	"github.com/reoring/docskema/internal/output"
)

// ErrInvalid is returned when at least one document failed validation.
var ErrInvalid = errors.New("validation failed")

// app is the state shared by subcommands once flags and config are resolved.
type app struct {
	cfg Config
	log *slog.Logger
	out *output.Printer
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	var (
		cfgPath string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "docskema",
		Short: "Validate documents against mongoose-style schema definitions",
		Long: `docskema reads a document-database schema definition (YAML or JSON, in the
shapes mongoose accepts) and validates data documents against it.

Examples:
  docskema validate --schema post.yaml post1.json post2.json
  docskema jsonschema --schema post.yaml
  docskema inspect --schema post.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			cfg, err := loadConfig(cmd, cfgPath)
			if err != nil {
				return err
			}
			if !slices.Contains(i18n.Languages(), cfg.Lang) {
				return fmt.Errorf("unknown language %q (want %s)", cfg.Lang, strings.Join(i18n.Languages(), ", "))
			}
			a.cfg = cfg
			a.out = output.New(cmd.OutOrStdout())
			i18n.SetLanguage(cfg.Lang)
			a.log.Debug("configuration resolved",
				"lang", cfg.Lang, "strict", cfg.Strict, "fail_fast", cfg.FailFast,
				"type_key", cfg.TypeKey, "apply_defaults", cfg.ApplyDefaults)
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "config file (default ./docskema.yaml)")
	pf.String("lang", "en", "message language ("+strings.Join(i18n.Languages(), ", ")+")")
	pf.Bool("strict", false, "reject keys the schema does not declare")
	pf.Bool("fail-fast", false, "stop at the first issue in each document")
	pf.String("type-key", docschema.DefaultTypeKey, "key that marks a mapping as a field declaration")
	pf.Bool("defaults", false, "fill absent fields from declared defaults")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newValidateCmd(a), newJSONSchemaCmd(a), newInspectCmd(a))
	return cmd
}

// Run executes the CLI and returns the process exit code: 0 on success, 1
// when a document is invalid, 2 for any other error.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, ErrInvalid) {
			return 1
		}
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}
	return 0
}

// translate imports the schema file and logs ignored options.
func (a *app) translate(path string) (docskema.Schema[map[string]any], error) {
	s, d, err := docimport.ImportFile(path, a.cfg.importOptions())
	if err != nil {
		return nil, err
	}
	for _, w := range d.Warnings() {
		a.log.Warn("schema declaration ignored", "schema", path, "detail", w)
	}
	a.log.Debug("schema translated", "schema", path)
	return s, nil
}
