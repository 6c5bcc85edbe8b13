package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/interview-coach/internal/server"
	"github.com/jonathan/interview-coach/internal/server/ratelimit"
	"github.com/spf13/cobra"
)

var (
	servePort    int
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing interview generation, feedback creation and feedback retrieval.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "Apply pending database migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	jwtConfig, err := cfg.JWT()
	if err != nil {
		return fmt.Errorf("failed to create JWT config: %w", err)
	}
	if cfg.VAPIBackendSecret == "" {
		logger.Warn("VAPI_BACKEND_SECRET is not set; POST /vapi/generate will reject every call")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if serveMigrate {
		if err := a.db.Migrate(ctx, logger); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	rateLimit := ratelimit.NewConfig(cfg.RateLimit, cfg.RateBurst)
	rateLimit.Whitelist = ratelimit.ParseIPList(os.Getenv("RATE_LIMIT_WHITELIST"))
	rateLimit.Blacklist = ratelimit.ParseIPList(os.Getenv("RATE_LIMIT_BLACKLIST"))

	srv, err := server.New(server.Config{
		Port:           cfg.Port,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      rateLimit,
		RequestTimeout: cfg.ModelTimeout.Std() + cfg.StoreTimeout.Std()*2,
		VAPISecret:     cfg.VAPIBackendSecret,
		TokenValidator: server.NewJWTService(jwtConfig).AsTokenValidator(),
		Logger:         logger,
	}, a.feedback, a.interviews, a.readiness()...)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}
