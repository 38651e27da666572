package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"cigfip/internal/domain"
	"cigfip/internal/export"
	"cigfip/internal/gfip"
	"cigfip/internal/reconcile"
)

type options struct {
	pretty bool
	jobs   int
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "cigfip",
		Short: "CI GFIP parsing and reconciliation",
		Long: `cigfip reads the text of CI GFIP contribution statements, converts it
into structured records and compares successive statements of the same person.

Every FILE argument may be "-" to read from standard input.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVar(&opts.pretty, "pretty", false, "indent JSON output")
	root.PersistentFlags().IntVarP(&opts.jobs, "jobs", "j", runtime.NumCPU(), "files parsed in parallel")

	root.AddCommand(
		newParseCommand(opts),
		newDiffCommand(opts),
		newFingerprintCommand(opts),
		newExportCommand(),
	)
	return root
}

func newParseCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "parse FILE...",
		Short: "Parse CI GFIP text into records",
		Example: `  cigfip parse extrato.txt
  cigfip parse --pretty 2023.txt 2024.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := parseFiles(cmd.Context(), cmd.InOrStdin(), args, opts.jobs)
			if err != nil {
				return err
			}
			if len(results) == 1 {
				return writeJSON(cmd.OutOrStdout(), results[0], opts.pretty)
			}
			return writeJSON(cmd.OutOrStdout(), results, opts.pretty)
		},
	}
}

func newDiffCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "diff PRIOR NEW",
		Short: "Classify the records of NEW against PRIOR",
		Long: `diff parses both statements, fingerprints them and classifies every record
of NEW as a complement, rectification or unchanged relative to PRIOR.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := parseFiles(cmd.Context(), cmd.InOrStdin(), args, opts.jobs)
			if err != nil {
				return err
			}
			prior, next := results[0], results[1]
			for i, res := range results {
				if res.Failed() {
					return fmt.Errorf("%s: %s", args[i], res.Error)
				}
			}
			if prior.Header.NIT != next.Header.NIT {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: NIT differs (%s vs %s)\n", prior.Header.NIT, next.Header.NIT)
			}

			set := next.RecordSet()
			out := reconcile.Reconcile(&set, &reconcile.Snapshot{Header: prior.Header, Records: prior.Records})
			return writeJSON(cmd.OutOrStdout(), out, opts.pretty)
		},
	}
}

type fingerprintLine struct {
	File        string `json:"arquivo"`
	NIT         string `json:"nit,omitempty"`
	Fingerprint string `json:"fingerprint"`
	Records     int    `json:"total_linhas"`
}

func newFingerprintCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint FILE...",
		Short: "Print the content fingerprint of each statement",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := parseFiles(cmd.Context(), cmd.InOrStdin(), args, opts.jobs)
			if err != nil {
				return err
			}
			lines := make([]fingerprintLine, 0, len(results))
			for i, res := range results {
				if res.Failed() {
					return fmt.Errorf("%s: %s", args[i], res.Error)
				}
				lines = append(lines, fingerprintLine{
					File:        args[i],
					NIT:         res.Header.NIT,
					Fingerprint: reconcile.Fingerprint(res.Header, res.Records),
					Records:     len(res.Records),
				})
			}
			return writeJSON(cmd.OutOrStdout(), lines, opts.pretty)
		},
	}
}

func newExportCommand() *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Write the records of a statement as CSV or XLSX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			text, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			res := gfip.Parse(text)
			if res.Failed() {
				return fmt.Errorf("%s: %s", args[0], res.Error)
			}
			set := res.RecordSet()

			if output == "" || output == "-" {
				return export.Write(cmd.OutOrStdout(), f, &set)
			}
			out, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			if err := export.Write(out, f, &set); err != nil {
				_ = out.Close()
				return err
			}
			return out.Close()
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(domain.ExportCSV), "csv or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// parseFiles parses every path concurrently. Results keep argument order.
func parseFiles(ctx context.Context, stdin io.Reader, paths []string, jobs int) ([]*gfip.Result, error) {
	texts := make([]string, len(paths))
	for i, p := range paths {
		text, err := readInput(stdin, p)
		if err != nil {
			return nil, err
		}
		texts[i] = text
	}

	results := make([]*gfip.Result, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, text := range texts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = gfip.Parse(text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func readInput(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(b), nil
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
