package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/vainnor/airlab-probe/client"
	"github.com/vainnor/airlab-probe/config"
	"github.com/vainnor/airlab-probe/db"
	"github.com/vainnor/airlab-probe/probe"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	envFile     string
	verbose     bool
	baseURL     string
	username    string
	password    string
	timeout     time.Duration
	record      bool
	failOnError bool

	// Listing flags
	skip       int
	limit      int
	status     string
	flightType string

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "airlab-probe",
	Short: "Smoke-test the UbuntuAirLab flight API",
	Long: `airlab-probe logs into the UbuntuAirLab API, fetches one page of flights
and prints them. Configuration comes from the environment (and an optional
.env file); flags override it.`,
	Args:              cobra.NoArgs,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runProbe,
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&envFile, "env-file", "", "env file to load (default: .env)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
	pf.StringVar(&baseURL, "base-url", "", "API base URL (env AIRLAB_BASE_URL)")
	pf.StringVarP(&username, "username", "u", "", "login username (env AIRLAB_USERNAME)")
	pf.StringVarP(&password, "password", "p", "", "login password (env AIRLAB_PASSWORD)")
	pf.DurationVar(&timeout, "timeout", 0, "HTTP timeout, 0 for none (env PROBE_TIMEOUT)")
	pf.BoolVar(&failOnError, "fail-on-error", false, "exit non-zero when the probe fails")

	f := rootCmd.Flags()
	f.IntVar(&skip, "skip", config.DefaultSkip, "records to skip (env PROBE_SKIP)")
	f.IntVar(&limit, "limit", config.DefaultLimit, "page size (env PROBE_LIMIT)")
	f.StringVar(&status, "status", "", "only flights with this status (env PROBE_STATUS)")
	f.StringVar(&flightType, "flight-type", "", "arrival or departure (env PROBE_FLIGHT_TYPE)")
	f.BoolVar(&record, "record", false, "store the fetched page in Postgres (env DB_*)")

	rootCmd.AddCommand(flightCmd, mockServerCmd, historyCmd, versionCmd)
}

// setup loads configuration, applies explicit flags on top and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	cfg = config.Load(files...)

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = baseURL
	}
	if flags.Changed("username") {
		cfg.Username = username
	}
	if flags.Changed("password") {
		cfg.Password = password
	}
	if flags.Changed("timeout") {
		cfg.Timeout = timeout
	}
	// Listing flags only exist on the root command
	if !cmd.HasParent() {
		if flags.Changed("skip") {
			cfg.Skip = skip
		}
		if flags.Changed("limit") {
			cfg.Limit = limit
		}
		if flags.Changed("status") {
			cfg.Status = status
		}
		if flags.Changed("flight-type") {
			cfg.FlightType = flightType
		}
	}

	var err error
	logger, err = newLogger(verbose)
	return err
}

func newLogger(verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zcfg.Build()
}

func newProbe(opts ...probe.Option) *probe.Probe {
	hc := &http.Client{Timeout: cfg.Timeout}
	c := client.New(cfg.BaseURL, client.WithHTTPClient(hc), client.WithLogger(logger))
	opts = append([]probe.Option{probe.WithLogger(logger)}, opts...)
	return probe.New(cfg.BaseURL, c, os.Stdout, opts...)
}

func credentials() probe.Credentials {
	return probe.Credentials{Username: cfg.Username, Password: cfg.Password}
}

func runProbe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var opts []probe.Option
	if record {
		store, err := db.Open(ctx, cfg.Database.ConnString())
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, probe.WithRecorder(store))
	}
	p := newProbe(opts...)

	stats, err := p.Run(ctx, credentials(), cfg.ListParams())
	logger.Debug("Run stats",
		zap.String("run_id", stats.RunID),
		zap.Int("login_status", stats.LoginStatus),
		zap.Int("list_status", stats.ListStatus),
		zap.Duration("duration", stats.Duration))

	if err != nil && failOnError {
		return err
	}
	return nil
}
