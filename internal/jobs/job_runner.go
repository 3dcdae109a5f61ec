package jobs

import (
	"database/sql"

	"rentalcar-backend/internal/config"
	"rentalcar-backend/internal/logger"
	"rentalcar-backend/internal/messaging"
	"rentalcar-backend/internal/repository"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	db        *sql.DB
	outbox    repository.OutboxRepository
	publisher messaging.Publisher
	config    *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(db *sql.DB, outbox repository.OutboxRepository, publisher messaging.Publisher, cfg *config.Config) *JobRunner {
	return &JobRunner{
		db:        db,
		outbox:    outbox,
		publisher: publisher,
		config:    cfg,
	}
}

// Config exposes the configuration for the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Debug("Starting job", "job", jobName)
	jobFunc()
	logger.Debug("Job completed", "job", jobName)
}
