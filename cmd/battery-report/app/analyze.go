package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/miradorstack/battery-health/internal/api"
	"github.com/miradorstack/battery-health/internal/config"
	"github.com/miradorstack/battery-health/internal/detectors"
	"github.com/miradorstack/battery-health/internal/engine"
	"github.com/miradorstack/battery-health/internal/models"
	"github.com/miradorstack/battery-health/internal/render"
	"github.com/miradorstack/battery-health/internal/utils"
)

// ErrReportFailed is returned when analysis produced a failure record.
var ErrReportFailed = errors.New("battery report failed")

// AnalyzeOptions holds flags for the analyze command.
type AnalyzeOptions struct {
	ConfigPath string
	Format     string
	Remote     string
	Timeout    time.Duration
}

// NewAnalyzeCommand returns the analyze subcommand.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze a JSON battery payload",
		Long:  "Analyze reads a JSON battery payload from a file, or stdin when the file is omitted or \"-\", and prints the health report.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return runAnalyze(cmd.Context(), opts, path, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (thresholds and logging)")
	fs.StringVarP(&opts.Format, "output", "o", render.FormatTable, "Output format: table or json")
	fs.StringVar(&opts.Remote, "remote", "", "Address of a battery-health server; analyze locally when empty")
	fs.DurationVar(&opts.Timeout, "timeout", 10*time.Second, "Timeout for remote analysis")
	return cmd
}

func runAnalyze(ctx context.Context, opts *AnalyzeOptions, path string, stdin io.Reader, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	logger := utils.NewLoggerTo(stderr, cfg.Logging.Level, cfg.Logging.JSON)

	payload, err := readPayload(path, stdin)
	if err != nil {
		return err
	}

	var result models.ReportResult
	if opts.Remote != "" {
		result, err = analyzeRemote(ctx, opts, payload)
	} else {
		result, err = analyzeLocal(ctx, cfg, logger, payload)
	}
	if err != nil {
		return err
	}

	if err := render.Write(stdout, result, opts.Format); err != nil {
		return err
	}
	if !result.OK() {
		return ErrReportFailed
	}
	return nil
}

func readPayload(path string, stdin io.Reader) (models.BatteryPayload, error) {
	if path == "-" {
		return models.DecodePayload(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return models.BatteryPayload{}, fmt.Errorf("open payload: %w", err)
	}
	defer f.Close()
	return models.DecodePayload(f)
}

func analyzeLocal(ctx context.Context, cfg *config.Config, logger *slog.Logger, payload models.BatteryPayload) (models.ReportResult, error) {
	registry, err := detectors.NewStandardRegistry(cfg.Detection.Thresholds(), detectors.WithParallel(cfg.Detection.Parallel))
	if err != nil {
		return models.ReportResult{}, err
	}
	return engine.NewAssembler(logger, registry).BuildReport(ctx, payload), nil
}

func analyzeRemote(ctx context.Context, opts *AnalyzeOptions, payload models.BatteryPayload) (models.ReportResult, error) {
	req, err := api.PayloadToStruct(payload)
	if err != nil {
		return models.ReportResult{}, err
	}

	conn, err := grpc.NewClient(opts.Remote, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return models.ReportResult{}, fmt.Errorf("connect to %s: %w", opts.Remote, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	resp, err := api.NewBatteryHealthClient(conn).AnalyzeBattery(ctx, req)
	if err != nil {
		return models.ReportResult{}, fmt.Errorf("remote analysis: %w", err)
	}
	return api.ResultFromStruct(resp)
}
