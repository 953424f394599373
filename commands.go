package main

import (
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vainnor/airlab-probe/api"
	"github.com/vainnor/airlab-probe/db"
	"go.uber.org/zap"
)

// Set by -ldflags at build time.
var version = "dev"

var flightCmd = &cobra.Command{
	Use:   "flight <icao24>",
	Short: "Log in and show a single flight",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := newProbe().Flight(cmd.Context(), credentials(), args[0])
		if err != nil && failOnError {
			return err
		}
		return nil
	},
}

var (
	mockAddr string
)

var mockServerCmd = &cobra.Command{
	Use:   "mock-server",
	Short: "Serve a local stand-in for the UbuntuAirLab API",
	Long: `mock-server serves /api/v1/auth/login, /api/v1/flights/ and
/api/v1/flights/{icao24} with a few sample flights. Point the probe at it with
--base-url http://localhost:8080/api/v1.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend := api.NewBackend(cfg.Username, cfg.Password, api.SampleFlights())
		backend.Logger = logger
		fmt.Printf("Serving mock API on %s (user %q)\n", mockAddr, cfg.Username)
		logger.Info("Starting mock API server", zap.String("addr", mockAddr), zap.String("username", cfg.Username))
		return http.ListenAndServe(mockAddr, api.NewRouter(backend))
	},
}

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded snapshots from Postgres",
	Args:  cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return validateHistoryLimit(historyLimit)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := db.Open(cmd.Context(), cfg.Database.ConnString())
		if err != nil {
			return err
		}
		defer store.Close()

		snaps, err := store.RecentSnapshots(cmd.Context(), historyLimit)
		if err != nil {
			return fmt.Errorf("error listing snapshots: %w", err)
		}
		if len(snaps) == 0 {
			fmt.Println("No snapshots recorded")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tRUN\tTIME\tTOTAL\tFETCHED")
		for _, s := range snaps {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\n", s.ID, s.RunID, s.Timestamp.Local().Format("2006-01-02 15:04:05"), s.Total, s.Fetched)
		}
		return w.Flush()
	},
}

func validateHistoryLimit(n int) error {
	if n < 1 {
		return fmt.Errorf("--limit must be at least 1, got %d", n)
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("airlab-probe %s\n", version)
	},
}

func init() {
	mockServerCmd.Flags().StringVar(&mockAddr, "addr", ":8080", "listen address")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "number of snapshots to show")
}
