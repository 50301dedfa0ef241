package jobs

import (
	"hoteldesk-panel/internal/config"
	"hoteldesk-panel/internal/logger"
	"hoteldesk-panel/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *Services
	config   *config.Config
}

// Services holds the service dependencies needed by jobs. Panels is nil when
// the jobs run outside the API server.
type Services struct {
	Submissions service.SubmissionService
	Panels      *service.PanelManager
}

func NewJobRunner(services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		services: services,
		config:   cfg,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// HasPanels reports whether in-process panel sessions are available to sweep
func (jr *JobRunner) HasPanels() bool {
	return jr.services.Panels != nil
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	log := logger.WithJob(jobName)
	defer func() {
		if r := recover(); r != nil {
			log.Error("Job panicked", "panic", r)
		}
	}()

	log.Debug("Starting job")
	jobFunc()
	log.Debug("Job completed")
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.DeliverPendingSubmissions()
	if jr.HasPanels() {
		jr.SweepIdlePanels()
	}
}
