package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ghelleks/botany-battle-sub000/internal/api"
	"github.com/ghelleks/botany-battle-sub000/internal/clock"
	"github.com/ghelleks/botany-battle-sub000/internal/config"
	"github.com/ghelleks/botany-battle-sub000/internal/db"
	"github.com/ghelleks/botany-battle-sub000/internal/jobs"
	"github.com/ghelleks/botany-battle-sub000/internal/logger"
	"github.com/ghelleks/botany-battle-sub000/internal/repository/sqlite"
	"github.com/ghelleks/botany-battle-sub000/internal/services"
	"github.com/ghelleks/botany-battle-sub000/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Botany Battle Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("round_duration_seconds=%.0f", cfg.RoundDurationSeconds)
	log.Debug("speedrun_question_target=%d", cfg.SpeedrunQuestionTarget)
	log.Debug("tick_interval_ms=%d", cfg.TickIntervalMS)
	log.Debug("checkpoint_interval_seconds=%d", cfg.CheckpointIntervalSeconds)
	log.Debug("janitor_interval_minutes=%d", cfg.JanitorIntervalMinutes)
	log.Debug("idle_session_minutes=%d", cfg.IdleSessionMinutes)
	log.Debug("stale_session_hours=%d", cfg.StaleSessionHours)
	log.Debug("leaderboard_limit=%d", cfg.LeaderboardLimit)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	timerRepo := sqlite.NewTimerStateRepository(database.DB)
	scoreRepo := sqlite.NewScoreRepository(database.DB)

	gameService := services.NewGameService(timerRepo, scoreRepo, clock.System, services.GameServiceConfig{
		RoundDuration:      cfg.RoundDuration(),
		QuestionTarget:     cfg.SpeedrunQuestionTarget,
		TickInterval:       cfg.TickInterval(),
		CheckpointInterval: cfg.CheckpointInterval(),
	})

	janitorPool := worker.NewPool(1, cfg.JanitorQueueSize)
	janitor := jobs.NewWorkerQueue(
		janitorPool,
		timerRepo,
		gameService,
		clock.System,
		cfg.StaleSessionAge(),
		cfg.IdleSessionAge(),
	)

	srv := &api.Server{
		GameService:      gameService,
		DB:               database.DB,
		LeaderboardLimit: cfg.LeaderboardLimit,
	}

	ctx, cancel := context.WithCancel(context.Background())
	janitorPool.Start(ctx)
	go gameService.Run(ctx)
	go janitor.Schedule(ctx, cfg.JanitorInterval())

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping ticker and janitor")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping janitor pool")
	janitorPool.Stop()

	// Checkpoint everything still in memory so sessions survive restart.
	if n := gameService.PruneIdle(shutdownCtx, 0); n > 0 {
		log.Info("checkpointed %d live sessions for recovery", n)
	}

	log.Info("===========================================")
	log.Info("Botany Battle Server Stopped")
	log.Info("===========================================")
}
