// Package job provides background processing.
//
// Asynq (Redis-backed) runs the email notification tasks; a cron schedule
// periodically enqueues the stale-deal sweep so pending deals whose handoff
// never happened get declined instead of lingering forever.
package job

import (
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/rohithvarma444/amEx-sub001/internal/config"
	"github.com/rohithvarma444/amEx-sub001/internal/lib/email"
)

// JobService holds the Asynq client (enqueue) and server (worker execution),
// plus the cron scheduler that feeds periodic tasks into the queue.
type JobService struct {
	// Client is used to enqueue tasks into Redis.
	Client *asynq.Client

	server *asynq.Server
	cron   *cron.Cron
	logger *zerolog.Logger
	cfg    *config.Config

	email *email.Client
	pool  *pgxpool.Pool
}

// NewJobService creates a JobService backed by the configured Redis.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisAddr := cfg.Redis.Address

	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr: redisAddr,
	})

	// Queue weights split the 10 workers roughly 6/3/1 so deal
	// notifications jump ahead of bulk mail.
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	return &JobService{
		Client: client,
		server: server,
		cron:   cron.New(),
		logger: logger,
		cfg:    cfg,
	}
}

// InitHandlers wires the dependencies task handlers need: the email client
// and the database pool used by the sweep.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger, pool *pgxpool.Pool) {
	j.email = email.NewClient(cfg, logger)
	j.pool = pool
}

// Start registers task handlers, starts the worker server, and starts the
// cron scheduler. asynq's Start returns once workers are running.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()

	mux.HandleFunc(TaskWelcome, j.handleWelcomeEmailTask)
	mux.HandleFunc(TaskInterest, j.handleInterestEmailTask)
	mux.HandleFunc(TaskDealCreated, j.handleDealCreatedEmailTask)
	mux.HandleFunc(TaskDealCompleted, j.handleDealCompletedEmailTask)
	mux.HandleFunc(TaskDealSweep, j.handleDealSweepTask)

	j.logger.Info().Msg("starting background job server")

	if err := j.server.Start(mux); err != nil {
		return err
	}

	if _, err := j.cron.AddFunc(j.cfg.Deal.SweepSchedule, j.enqueueDealSweep); err != nil {
		return err
	}
	j.cron.Start()

	return nil
}

// Stop gracefully stops the cron scheduler and the worker server, and closes
// the enqueue client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("stopping background job server")
	j.cron.Stop()
	j.server.Shutdown()
	j.Client.Close()
}

func (j *JobService) enqueueDealSweep() {
	task, err := NewDealSweepTask()
	if err != nil {
		j.logger.Error().Err(err).Msg("failed to build deal sweep task")
		return
	}

	if _, err := j.Client.Enqueue(task); err != nil {
		j.logger.Error().Err(err).Msg("failed to enqueue deal sweep task")
	}
}
