package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/docskema"
)

type fileReport struct {
	File   string        `json:"file"`
	Valid  bool          `json:"valid"`
	Issues []issueReport `json:"issues,omitempty"`
}

type issueReport struct {
	Path    string         `json:"path"`
	Code    string         `json:"code"`
	Message string         `json:"message,omitempty"`
	Params  map[string]any `json:"params,omitempty"`
}

func newValidateCmd(a *app) *cobra.Command {
	var (
		schemaPath string
		format     string
		report     string
		maxBytes   int64
	)
	cmd := &cobra.Command{
		Use:   "validate --schema FILE DATA...",
		Short: "Validate data documents against a schema definition",
		Long: `Translates the schema definition and validates each data document against it.
Use "-" to read a document from stdin. The command exits with status 1 when any
document is invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if report != "text" && report != "json" {
				return fmt.Errorf("unknown output %q (want text or json)", report)
			}
			s, err := a.translate(schemaPath)
			if err != nil {
				return err
			}
			opt := docskema.ParseOpt{FailFast: a.cfg.FailFast, MaxBytes: maxBytes}

			reports := make([]fileReport, 0, len(args))
			failed := 0
			for _, name := range args {
				r, iss, err := validateOne(cmd, s, name, format, opt)
				if err != nil {
					return err
				}
				if !r.Valid {
					failed++
				}
				if report == "text" {
					if r.Valid {
						a.out.Pass(name)
					} else {
						a.out.Fail(name, iss)
					}
				}
				reports = append(reports, r)
			}

			if report == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(reports); err != nil {
					return fmt.Errorf("encode report: %w", err)
				}
			}
			a.log.Debug("validation finished", "documents", len(args), "failed", failed)
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d documents", ErrInvalid, failed, len(args))
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&schemaPath, "schema", "s", "", "schema definition file (YAML or JSON)")
	f.StringVarP(&format, "format", "f", "", "data format: json or yaml (default: by file extension)")
	f.StringVarP(&report, "output", "o", "text", "report format: text or json")
	f.Int64Var(&maxBytes, "max-bytes", 0, "reject documents larger than this many bytes (0 = unlimited)")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

// validateOne parses one document. Validation failures are reported in the
// result; only I/O and setup problems are returned as errors.
func validateOne(cmd *cobra.Command, s docskema.Schema[map[string]any], name, format string, opt docskema.ParseOpt) (fileReport, docskema.Issues, error) {
	src, closeFn, err := openSource(cmd.InOrStdin(), name, format)
	if err != nil {
		return fileReport{}, nil, err
	}
	defer closeFn()

	_, err = docskema.ParseFrom(cmd.Context(), s, src, opt)
	if err == nil {
		return fileReport{File: name, Valid: true}, nil, nil
	}
	iss, ok := docskema.AsIssues(err)
	if !ok {
		return fileReport{}, nil, fmt.Errorf("validate %s: %w", name, err)
	}
	r := fileReport{File: name, Issues: make([]issueReport, 0, len(iss))}
	for _, it := range iss {
		r.Issues = append(r.Issues, issueReport{Path: it.Path, Code: it.Code, Message: it.Message, Params: it.Params})
	}
	return r, iss, nil
}

func openSource(stdin io.Reader, name, format string) (docskema.Source, func() error, error) {
	if format == "" {
		format = formatOf(name)
	}
	if format != "json" && format != "yaml" {
		return nil, nil, fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
	r, closeFn := stdin, func() error { return nil }
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", name, err)
		}
		r, closeFn = f, f.Close
	}
	if format == "yaml" {
		return docskema.YAMLReader(r), closeFn, nil
	}
	return docskema.JSONReader(r), closeFn, nil
}

func formatOf(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}
