package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/perfume/internal/trace"
)

var validateCmd = &cobra.Command{
	Use:   "validate TRACE...",
	Short: "Check traces against the trace schema",
	Long: `Check one or more trace files against the trace JSON schema and for
semantic errors such as events with more than one action.

Print the schema with --schema.`,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if printSchema, _ := cmd.Flags().GetBool("schema"); printSchema {
		fmt.Fprintln(out, trace.Schema())
		return nil
	}
	if len(args) == 0 {
		return fmt.Errorf("at least one trace file is required")
	}

	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)

	failed := 0
	for _, path := range args {
		if _, err := trace.Load(path); err != nil {
			failed++
			bad.Fprintf(out, "✗ %s\n", path)
			fmt.Fprintf(out, "  %v\n", err)
			continue
		}
		ok.Fprintf(out, "✓ %s\n", path)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d traces invalid", failed, len(args))
	}
	return nil
}

func init() {
	validateCmd.Flags().Bool("schema", false, "Print the trace JSON schema and exit")
}
