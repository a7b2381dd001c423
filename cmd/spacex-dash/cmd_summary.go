package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/miradorstack/spacex-dash/internal/api"
	"github.com/miradorstack/spacex-dash/internal/models"
)

var summaryFlags struct {
	grpcAddr string
	timeout  time.Duration
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the dataset summary and the successful launches per site",
	Long: `Loads the configured dataset and prints its payload bounds, launch sites and
successful launch counts. With --grpc the figures come from a running server.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	f := summaryCmd.Flags()
	f.StringVar(&summaryFlags.grpcAddr, "grpc", "", "Query a running server at this gRPC address instead of loading the dataset")
	f.DurationVar(&summaryFlags.timeout, "timeout", 10*time.Second, "Timeout for the gRPC calls")
}

func runSummary(cmd *cobra.Command, _ []string) error {
	var (
		summary models.DatasetSummary
		pie     models.PieChart
		err     error
	)
	if summaryFlags.grpcAddr != "" {
		summary, pie, err = remoteSummary(cmd.Context(), summaryFlags.grpcAddr)
	} else {
		summary, pie, err = localSummary(cmd)
	}
	if err != nil {
		return err
	}
	return printSummary(cmd.OutOrStdout(), summary, pie)
}

func localSummary(cmd *cobra.Command) (models.DatasetSummary, models.PieChart, error) {
	cfg, err := loadConfig()
	if err != nil {
		return models.DatasetSummary{}, models.PieChart{}, fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())
	provider := newCacheProvider(cfg, logger)
	defer provider.Close()

	svc, err := loadDashboard(cmd.Context(), cfg, provider, logger)
	if err != nil {
		return models.DatasetSummary{}, models.PieChart{}, err
	}
	return svc.Summary(), svc.PieChartData(svc.DefaultSelection()), nil
}

func remoteSummary(ctx context.Context, addr string) (models.DatasetSummary, models.PieChart, error) {
	ctx, cancel := context.WithTimeout(ctx, summaryFlags.timeout)
	defer cancel()

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return models.DatasetSummary{}, models.PieChart{}, fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	client := api.NewDashboardClient(conn)
	resp, err := client.Summary(ctx, &api.SummaryRequest{})
	if err != nil {
		return models.DatasetSummary{}, models.PieChart{}, fmt.Errorf("summary: %w", err)
	}
	pie, err := client.PieChart(ctx, &api.ChartRequest{Site: models.AllSites})
	if err != nil {
		return models.DatasetSummary{}, models.PieChart{}, fmt.Errorf("pie chart: %w", err)
	}
	return resp.Summary, *pie, nil
}

func printSummary(w io.Writer, summary models.DatasetSummary, pie models.PieChart) error {
	fmt.Fprintf(w, "Records:  %d\n", summary.Records)
	fmt.Fprintf(w, "Payload:  %g - %g kg\n", summary.MinPayloadKg, summary.MaxPayloadKg)
	fmt.Fprintf(w, "Sites:    %s\n\n", strings.Join(summary.SitesInOrder, ", "))

	fmt.Fprintln(w, pie.Title)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SITE\tSUCCESSES")
	for _, slice := range pie.Slices {
		fmt.Fprintf(tw, "%s\t%d\n", slice.Label, slice.Count)
	}
	return tw.Flush()
}
