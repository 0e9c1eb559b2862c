// Package commands implements the pipemux CLI subcommands.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pipemux/pipemux/internal/config"
	"github.com/pipemux/pipemux/internal/observability"
	"github.com/pipemux/pipemux/internal/pipeline"
	"github.com/pipemux/pipemux/internal/report"
	"github.com/pipemux/pipemux/internal/wire"
)

const (
	runCmdUse   = "run"
	runCmdShort = "Ingest a record stream and render the ordered pipeline report"

	configFlag      = "config"
	configFlagShort = "c"
	configFlagUsage = "config file path (default: .pipemux.yaml in CWD or $HOME)"

	inputFlag      = "input"
	inputFlagShort = "i"
	inputFlagUsage = "input file path (default: stdin)"

	summaryFlag      = "summary"
	summaryFlagUsage = "print an ingest summary to stderr after the report"

	discardFlag      = "discard-invalid-sequence"
	discardFlagUsage = "drop records whose id does not match the pipeline's expected next id"

	verboseFlag      = "verbose"
	verboseFlagShort = "v"
	verboseFlagUsage = "log per-record admission diagnostics"

	stdinPath = "-"
)

// runOptions holds the run command flag values.
type runOptions struct {
	configPath string
	inputPath  string
	summary    bool
	discard    bool
	verbose    bool
}

// NewRunCommand creates the run subcommand.
func NewRunCommand() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   runCmdUse,
		Short: runCmdShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIngest(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, configFlag, configFlagShort, "", configFlagUsage)
	cmd.Flags().StringVarP(&opts.inputPath, inputFlag, inputFlagShort, "", inputFlagUsage)
	cmd.Flags().BoolVar(&opts.summary, summaryFlag, false, summaryFlagUsage)
	cmd.Flags().BoolVar(&opts.discard, discardFlag, false, discardFlagUsage)
	cmd.Flags().BoolVarP(&opts.verbose, verboseFlag, verboseFlagShort, false, verboseFlagUsage)

	return cmd
}

func runIngest(cmd *cobra.Command, opts *runOptions) error {
	cfg, err := loadRunConfig(cmd, opts)
	if err != nil {
		return err
	}

	applyColorMode(cfg.Report.Color)

	obsCfg := observabilityConfig(cfg, opts)
	logger := observability.NewLogger(cmd.ErrOrStderr(), obsCfg, uuid.NewString())

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	defer func() {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			logger.Warn("observability shutdown failed", "error", shutdownErr)
		}
	}()

	metrics, err := observability.NewIngestMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("create ingest metrics: %w", err)
	}

	if cfg.Observability.DiagnosticsAddr != "" {
		srv, diagErr := observability.NewDiagnosticsServer(cfg.Observability.DiagnosticsAddr, providers)
		if diagErr != nil {
			return fmt.Errorf("start diagnostics server: %w", diagErr)
		}

		defer func() {
			closeErr := srv.Close()
			if closeErr != nil {
				logger.Warn("diagnostics server close failed", "error", closeErr)
			}
		}()

		logger.Info("diagnostics listening", "addr", srv.Addr())
	}

	in, closeInput, err := openInput(cmd, opts.inputPath)
	if err != nil {
		return err
	}
	defer closeInput()

	return ingest(cmd, cfg, logger, metrics, in)
}

// ingest feeds the stream into a fresh table, renders the report, and
// emits metrics and the optional summary.
func ingest(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, metrics *observability.IngestMetrics, in io.Reader) error {
	policy := pipeline.Policy{DiscardInvalidSequence: cfg.Policy.DiscardInvalidSequence}
	table := pipeline.NewTable(policy, logger)

	start := time.Now()

	stats, err := wire.Feed(in, table, logger, cfg.Input.MaxLineBytes)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	snapshot := table.Snapshot()

	recordRunMetrics(cmd.Context(), metrics, stats, table.DecodedBytes(), snapshot, elapsed)

	err = table.Render(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	if cfg.Report.Summary {
		summary := report.Summary{
			Stats:        stats,
			Pipelines:    snapshot,
			DecodedBytes: table.DecodedBytes(),
			Duration:     elapsed,
		}
		fmt.Fprint(cmd.ErrOrStderr(), report.Format(summary))
	}

	return nil
}

// loadRunConfig loads the file/env configuration and overlays explicit flags.
func loadRunConfig(cmd *cobra.Command, opts *runOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed(discardFlag) {
		cfg.Policy.DiscardInvalidSequence = opts.discard
	}

	if cmd.Flags().Changed(summaryFlag) {
		cfg.Report.Summary = opts.summary
	}

	return cfg, nil
}

func observabilityConfig(cfg *config.Config, opts *runOptions) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.DiagnosticsAddr = cfg.Observability.DiagnosticsAddr
	obsCfg.LogJSON = cfg.Observability.LogJSON

	if opts.verbose {
		obsCfg.LogLevel = slog.LevelDebug
	}

	return obsCfg
}

// openInput returns the record stream and a close function. An empty or
// "-" path selects the command's stdin.
func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "" || path == stdinPath {
		return cmd.InOrStdin(), func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}

	return f, func() { _ = f.Close() }, nil
}

func recordRunMetrics(ctx context.Context, metrics *observability.IngestMetrics, stats wire.Stats,
	decodedBytes uint64, snapshot []pipeline.PipelineStat, elapsed time.Duration,
) {
	metrics.RecordAdmission(ctx, pipeline.Accepted.String(), int64(stats.Accepted))
	metrics.RecordAdmission(ctx, pipeline.IgnoredClosed.String(), int64(stats.Closed))
	metrics.RecordAdmission(ctx, pipeline.IgnoredOutOfSequence.String(), int64(stats.OutOfSequence))
	metrics.RecordAdmission(ctx, pipeline.IgnoredDecodeFailed.String(), int64(stats.DecodeFailed))
	metrics.RecordParseFailures(ctx, int64(stats.ParseFailures))
	metrics.AddDecodedBytes(ctx, int64(decodedBytes))

	var open, closed int64

	for _, ps := range snapshot {
		if ps.Closed {
			closed++
		} else {
			open++
		}
	}

	metrics.RecordPipelines(ctx, open, closed)
	metrics.RecordRun(ctx, elapsed)
}

// applyColorMode maps the report.color setting onto the global color toggle.
func applyColorMode(mode string) {
	switch mode {
	case config.ColorAlways:
		color.NoColor = false
	case config.ColorNever:
		color.NoColor = true
	default:
		// auto: keep the library's terminal detection.
	}
}
