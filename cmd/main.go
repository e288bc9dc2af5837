package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/oceanobs/bog/internal/api"
	"github.com/oceanobs/bog/internal/config"
	"github.com/oceanobs/bog/internal/fleet"
	"github.com/oceanobs/bog/internal/store"
	"github.com/oceanobs/bog/internal/transport"
	middleware "github.com/oceanobs/bog/internal/transport/middlewares"
)

// Command bog retrieves telemetry from the BOG buoy service and assembles
// tabular datasets for downstream analysis.
//
// Usage:
//
//	bog historical [buoy-id...] [--series a,b,c]
//	bog snapshot
//
// Both commands authenticate, fetch, write one artifact to the configured
// sink, and log the session out.
var (
	cfgFile string
	series  []string
)

var rootCmd = &cobra.Command{
	Use:           "bog",
	Short:         "Client for the BOG buoy telemetry service",
	Long:          "Authenticates against the BOG API, discovers accessible buoys, and\nassembles per-buoy variable series into time-aligned tables.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

var historicalCmd = &cobra.Command{
	Use:   "historical [buoy-id...]",
	Short: "Build a time-aligned historical table for the given buoys",
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]int, len(args))
		for i, arg := range args {
			id, err := strconv.Atoi(arg)
			if err != nil {
				return err
			}
			ids[i] = id
		}
		return run(cmd.Context(), func(ctx context.Context, agg *fleet.Aggregator) error {
			_, err := agg.BuildHistoricalTable(ctx, ids, series)
			return err
		})
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Build a latest-status snapshot of every authorized buoy",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), func(ctx context.Context, agg *fleet.Aggregator) error {
			_, err := agg.BuildCurrentSnapshot(ctx)
			return err
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "path to config file")
	historicalCmd.Flags().StringSliceVar(&series, "series", nil, "variables to retrieve (default: all available per buoy)")

	rootCmd.AddCommand(historicalCmd)
	rootCmd.AddCommand(snapshotCmd)
}

// run wires the collaborators in dependency order and invokes one fleet
// build. The session is constructed all-or-nothing; any later failure
// surfaces as the command's error.
func run(ctx context.Context, build func(context.Context, *fleet.Aggregator) error) error {
	appConfig, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	logger := newLogger(appConfig.Logging)

	if appConfig.Metrics.Addr != "" {
		go serveMetrics(appConfig.Metrics.Addr, logger)
	}

	doer := middleware.Setup(transport.New(appConfig.Timeout()), logger, prometheus.DefaultRegisterer)

	logger.WithFields(logrus.Fields{
		"endpoint": appConfig.API.Endpoint,
	}).Info("Starting session")

	session, err := api.NewSession(ctx, appConfig.API.Endpoint, api.Credentials{
		Username: appConfig.API.Username,
		Password: appConfig.API.Password,
	}, doer, logger)
	if err != nil {
		return err
	}

	client := api.NewClient(session, doer, logger)

	var sink store.Sink
	if appConfig.Database.Enabled {
		pg, err := store.NewPostgresSink(appConfig.Database.ConnString())
		if err != nil {
			return err
		}
		defer pg.Close()
		sink = pg
	} else {
		sink = store.NewFileSink(appConfig.Output.Dir, appConfig.Delimiter())
	}

	return build(ctx, fleet.NewAggregator(session, client, sink, logger))
}

func newLogger(cfg config.LoggingConfig) *logrus.Logger {
	logger := logrus.New()
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(cfg.Level); err == nil {
		logger.SetLevel(level)
	}
	return logger
}

func serveMetrics(addr string, logger *logrus.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.WithError(err).Error("Metrics listener stopped")
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
