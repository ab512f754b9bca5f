package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/perfume/internal/trace"
	"github.com/wesleyorama2/perfume/perfume"
	"github.com/wesleyorama2/perfume/perfume/config"
	"github.com/wesleyorama2/perfume/perfume/console"
	"github.com/wesleyorama2/perfume/perfume/prom"
)

var replayCmd = &cobra.Command{
	Use:   "replay TRACE",
	Short: "Replay a trace and print what the page would log and report",
	Long: `Replay a recorded page session on a simulated clock.

Log lines go to stdout. With --json, every analytics report is written to
stdout as one JSON object per line and log lines move to stderr.

Examples:
  perfume replay checkout.yaml
  perfume replay checkout.yaml --config perfume.yaml --json
  perfume replay checkout.yaml --log-format zap --prom-out perfume.prom`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

// timingLine is one --json output record.
type timingLine struct {
	Key string `json:"key"`
	perfume.Timing
}

func runReplay(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	logFormat, _ := cmd.Flags().GetString("log-format")
	promOut, _ := cmd.Flags().GetString("prom-out")
	noColor, _ := cmd.Flags().GetBool("no-color")

	tr, err := trace.Load(args[0])
	if err != nil {
		return fmt.Errorf("error loading trace: %w", err)
	}
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		tr.Config = cfg
	}

	out := cmd.OutOrStdout()
	logOut := out
	if jsonOutput {
		logOut = cmd.ErrOrStderr()
	}

	sink, syncSink, err := newSink(logFormat, logOut, noColor)
	if err != nil {
		return err
	}

	var reg *prometheus.Registry
	var promTracker *prom.Tracker
	if promOut != "" {
		reg = prometheus.NewRegistry()
		promTracker = prom.NewTracker(reg)
	}

	var enc *json.Encoder
	if jsonOutput {
		enc = json.NewEncoder(out)
	}

	// The tracker only runs during Run, after player is assigned.
	var player *trace.Player
	track := func(t perfume.Timing) {
		promTracker.Track(t)
		if enc != nil {
			line := timingLine{Key: player.Session().AddBrowserToMetricName(t.MetricName), Timing: t}
			if err := enc.Encode(line); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error writing report: %v\n", err)
			}
		}
	}
	player = trace.NewPlayer(tr, sink, track)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runErr := player.Run(ctx)
	_ = syncSink()
	if runErr != nil {
		return runErr
	}

	if reg != nil {
		if err := prom.WriteTextfile(promOut, reg); err != nil {
			return err
		}
	}

	if !jsonOutput {
		for _, p := range player.Paints() {
			if p.Err != nil {
				fmt.Fprintf(out, "endPaint %s: %v\n", p.Name, p.Err)
			}
		}
	}
	return nil
}

// newSink builds the log sink for a --log-format value. The returned
// function flushes buffered output.
func newSink(format string, w io.Writer, noColor bool) (console.Sink, func() error, error) {
	switch format {
	case "", "console":
		return console.NewTerminal(console.TerminalConfig{Writer: w, NoColor: noColor}), func() error { return nil }, nil
	case "zap":
		z := console.NewZap(console.NewZapLogger(w))
		return z, z.Sync, nil
	default:
		return nil, nil, fmt.Errorf("unknown log format %q (expected console or zap)", format)
	}
}

func init() {
	replayCmd.Flags().StringP("config", "c", "", "Configuration file overriding the trace's config")
	replayCmd.Flags().Bool("json", false, "Write analytics reports as JSON lines")
	replayCmd.Flags().String("log-format", "console", "Log format: console or zap")
	replayCmd.Flags().String("prom-out", "", "Write reports as Prometheus metrics to this textfile")
	replayCmd.Flags().Bool("no-color", false, "Disable colored output")
}
