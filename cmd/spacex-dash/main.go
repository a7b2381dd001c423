// spacex-dash serves the SpaceX launch records dashboard.
//
// Usage:
//
//	spacex-dash [serve] [--config path] [--dataset source]
//	spacex-dash render --out dir [--site S] [--low L --high H] [--format png|svg]
//	spacex-dash summary [--grpc addr]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
	dataset    string
}

var rootCmd = &cobra.Command{
	Use:   "spacex-dash",
	Short: "Interactive dashboard over SpaceX launch records",
	Long: "spacex-dash loads the SpaceX launch records once and serves a dashboard\n" +
		"with a launch-site success pie and a payload versus outcome scatter.",
	Args:          cobra.NoArgs,
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.configPath, "config", "", "Path to configuration file")
	pf.StringVar(&rootFlags.dataset, "dataset", "", "Dataset source (path, file://, http(s)://, s3://, sqlite://, postgres://)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
