package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/miradorstack/spacex-dash/internal/models"
	"github.com/miradorstack/spacex-dash/internal/render"
)

var renderFlags struct {
	out    string
	site   string
	low    float64
	high   float64
	format string
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write the pie and scatter charts for one selection to files",
	Args:  cobra.NoArgs,
	RunE:  runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderFlags.out, "out", "o", "", "Output directory (required)")
	f.StringVar(&renderFlags.site, "site", models.AllSites, "Launch site or ALL")
	f.Float64Var(&renderFlags.low, "low", 0, "Lower payload bound in kg (default: dataset minimum)")
	f.Float64Var(&renderFlags.high, "high", 0, "Upper payload bound in kg (default: dataset maximum)")
	f.StringVar(&renderFlags.format, "format", string(render.PNG), "Image format: png or svg")

	_ = renderCmd.MarkFlagRequired("out")
}

func runRender(cmd *cobra.Command, _ []string) error {
	format, err := render.ParseFormat(renderFlags.format)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())
	provider := newCacheProvider(cfg, logger)
	defer provider.Close()

	svc, err := loadDashboard(cmd.Context(), cfg, provider, logger)
	if err != nil {
		return err
	}

	sel := svc.DefaultSelection()
	sel.Site = renderFlags.site
	if cmd.Flags().Changed("low") {
		sel.Payload.Low = renderFlags.low
	}
	if cmd.Flags().Changed("high") {
		sel.Payload.High = renderFlags.high
	}

	if err := os.MkdirAll(renderFlags.out, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	opts := render.Options{Width: cfg.Charts.Width, Height: cfg.Charts.Height, Format: format}
	bounds := svc.Summary().FullRange()

	files := []struct {
		name string
		draw func(w io.Writer) error
	}{
		{"pie", func(w io.Writer) error { return render.Pie(w, svc.PieChartData(sel), opts) }},
		{"scatter", func(w io.Writer) error { return render.Scatter(w, svc.ScatterChartData(sel), bounds, opts) }},
	}
	out := cmd.OutOrStdout()
	for _, f := range files {
		var buf bytes.Buffer
		if err := f.draw(&buf); err != nil {
			return fmt.Errorf("render %s: %w", f.name, err)
		}
		path := filepath.Join(renderFlags.out, f.name+"."+string(format))
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(out, "Wrote %s\n", path)
	}
	return nil
}
