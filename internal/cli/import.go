package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/perfume/internal/trace"
)

var importCmd = &cobra.Command{
	Use:   "import DUMP",
	Short: "Convert a browser performance entry dump into a trace",
	Long: `Convert the JSON output of performance.getEntries() into a trace.

Use --path to select the entry array inside a larger document, with a gjson
path or a simple JSONPath expression.

Examples:
  perfume import entries.json --out checkout.yaml
  perfume import har-like.json --path '$.page.entries' --user-agent-path '$.page.ua'`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	entriesPath, _ := cmd.Flags().GetString("path")
	uaPath, _ := cmd.Flags().GetString("user-agent-path")
	name, _ := cmd.Flags().GetString("name")
	outputPath, _ := cmd.Flags().GetString("out")

	dump, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("error reading dump: %w", err)
	}

	tr, err := trace.Import(dump, trace.ImportOptions{EntriesPath: entriesPath, UserAgentPath: uaPath})
	if err != nil {
		return fmt.Errorf("error importing %s: %w", args[0], err)
	}
	tr.Name = name

	data, err := tr.Marshal()
	if err != nil {
		return err
	}

	if outputPath == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("error writing trace: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Trace written to: %s (%d events)\n", outputPath, len(tr.Events))
	return nil
}

func init() {
	importCmd.Flags().String("path", "", "Path of the entry array (default: document root)")
	importCmd.Flags().String("user-agent-path", "", "Path of the user agent string")
	importCmd.Flags().String("name", "", "Trace name")
	importCmd.Flags().StringP("out", "o", "", "Output file (default: stdout)")
}
