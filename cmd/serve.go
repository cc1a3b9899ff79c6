package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chrisdamba/webdiner/internal/app"
	"github.com/chrisdamba/webdiner/internal/clock"
	"github.com/chrisdamba/webdiner/internal/events"
	"github.com/chrisdamba/webdiner/internal/factories"
	"github.com/chrisdamba/webdiner/internal/metrics"
	"github.com/chrisdamba/webdiner/internal/models"
	"github.com/chrisdamba/webdiner/internal/ordering"
	transport "github.com/chrisdamba/webdiner/internal/transport/http"
	"github.com/chrisdamba/webdiner/migrations"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ordering HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "HTTP listen address")
	serveCmd.Flags().Bool("kafka-enabled", false, "Publish order events to Kafka")
	serveCmd.Flags().String("kafka-broker-list", "localhost:9092", "Kafka broker list")
	serveCmd.Flags().Bool("allow-time-override", false, "Let sysadmins shift the service clock")
	serveCmd.Flags().Bool("migrate", false, "Apply database migrations before serving")
	serveCmd.Flags().Bool("demo-data", false, "Seed generated reference data (memory storage only)")

	viper.BindPFlag("http.addr", serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag("kafka.enabled", serveCmd.Flags().Lookup("kafka-enabled"))
	viper.BindPFlag("kafka.broker_list", serveCmd.Flags().Lookup("kafka-broker-list"))
	viper.BindPFlag("debug.allow_time_override", serveCmd.Flags().Lookup("allow-time-override"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	policy, err := ordering.LoadPolicy(cfg.Ordering.Timezone, cfg.Ordering.CutoffHour)
	if err != nil {
		return err
	}

	repos, closeRepos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepos()

	if migrate, _ := cmd.Flags().GetBool("migrate"); migrate && viper.GetString("storage") != "memory" {
		if err := migrateDatabase(ctx, cfg); err != nil {
			return err
		}
	}
	if demo, _ := cmd.Flags().GetBool("demo-data"); demo && viper.GetString("storage") == "memory" {
		ds := factories.GenerateDataset(factories.DatasetOptions{
			Departments: 4, Vendors: 3, ItemsPerVendor: 5, Users: 20,
		})
		if err := ds.Load(ctx, seedTargets(repos), nil); err != nil {
			return err
		}
		logger.Info().Str("sysadmin", ds.Users[0].EmployeeID).Msg("demo data loaded")
	}

	emitter := events.NewEmitter(newProducer(cfg.Kafka, logger), cfg.Kafka, logger)
	defer emitter.Close()

	clk := newClock(cfg.Debug)
	opts := []app.Option{app.WithEvents(emitter), app.WithLogger(logger)}
	if cfg.Debug.AllowTimeOverride {
		logger.Warn().Msg("clock override enabled")
		opts = append(opts, app.WithDebugClock(clk))
	}

	router := transport.NewRouter(transport.API{
		Orders:  app.NewOrderService(repos, clk, policy, opts...),
		Vendors: app.NewVendorService(repos, opts...),
		Admin:   app.NewAdminService(repos, clk, policy, opts...),
		Users:   repos.Users,
		Metrics: metrics.NewRegistry(),
	}, cfg.HTTP, logger)
	srv := transport.NewServer(cfg.HTTP, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newProducer falls back to logging events when Kafka is disabled or
// unreachable at startup.
func newProducer(cfg models.KafkaConfig, logger zerolog.Logger) events.Producer {
	if !cfg.Enabled {
		return events.NewConsoleProducer(os.Stdout)
	}
	producer, err := events.NewSaramaProducer(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("kafka unavailable, events will be logged instead")
		return events.NewConsoleProducer(os.Stdout)
	}
	return events.NewBreakerProducer(producer, events.DefaultBreakerConfig())
}

func newClock(cfg models.DebugConfig) *clock.Adjustable {
	base := clock.NewSystem()
	if !cfg.FixedTime.IsZero() {
		base = clock.NewFixed(cfg.FixedTime)
	}
	return clock.NewAdjustable(base)
}

func migrateDatabase(ctx context.Context, cfg *models.Config) error {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	pool, err := openPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	_, err = migrations.Apply(ctx, pool)
	return err
}
