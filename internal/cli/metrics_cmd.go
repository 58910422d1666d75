package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/sologit/sologit/internal/metrics"
)

var metricsAddr string

func init() {
	serveMetricsCmd.Flags().StringVar(&metricsAddr, "addr", "127.0.0.1:9373", "Address to serve the Prometheus /metrics endpoint on")
	serveMetricsCmd.Hidden = true
	rootCmd.AddCommand(serveMetricsCmd)
}

var serveMetricsCmd = &cobra.Command{
	Use:   "serve-metrics",
	Short: "Serve the Prometheus scrape endpoint for AI cost and patch outcome counters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		fmt.Printf("serving metrics on http://%s/metrics\n", metricsAddr)
		return http.ListenAndServe(metricsAddr, mux)
	},
}
