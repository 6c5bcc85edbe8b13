package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonathan/interview-coach/internal/cache"
	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/db"
	"github.com/jonathan/interview-coach/internal/feedback"
	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/server"
)

// app holds the constructed collaborators shared by the commands.
type app struct {
	db         *db.DB
	redis      *cache.RedisKV
	llm        llm.Client
	interviews *interview.Service
	feedback   *feedback.Service
}

// readiness returns the stores checked by GET /ready.
func (a *app) readiness() []server.Pinger {
	pingers := []server.Pinger{a.db}
	if a.redis != nil {
		pingers = append(pingers, a.redis)
	}
	return pingers
}

func (a *app) Close() {
	if a.llm != nil {
		_ = a.llm.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

// buildApp connects the stores and the model gateway and wires both services.
func buildApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	apiKey := cfg.LLMAPIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("API key for provider %q is required", cfg.LLMProvider)
	}
	scorePolicy, err := feedback.ParseScorePolicy(cfg.ScorePolicy)
	if err != nil {
		return nil, err
	}

	a := &app{}

	a.db, err = db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var interviewStore interview.Store = a.db
	if cfg.RedisURL != "" {
		a.redis, err = cache.NewRedisKV(ctx, cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		interviewStore = cache.NewInterviewStore(a.db, a.redis, cfg.CacheTTL.Std(), logger)
		logger.Info("interview cache enabled", "ttl", cfg.CacheTTL.String())
	}

	a.llm, err = llm.NewClient(ctx, cfg.LLMConfig(), apiKey)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	a.interviews = interview.NewService(a.llm, interviewStore, interview.Options{
		StoreTimeout: cfg.StoreTimeout.Std(),
		Logger:       logger,
	})
	a.feedback = feedback.NewService(a.llm, a.db, a.interviews, feedback.Options{
		ScorePolicy:  scorePolicy,
		StoreTimeout: cfg.StoreTimeout.Std(),
		Logger:       logger,
	})

	return a, nil
}
