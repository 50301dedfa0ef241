package scheduler

import (
	"context"
	"testing"

	"hoteldesk-panel/internal/config"
	"hoteldesk-panel/internal/domain"
	"hoteldesk-panel/internal/jobs"
	"hoteldesk-panel/internal/service"

	"github.com/stretchr/testify/assert"
)

type emptyRefs struct{}

func (emptyRefs) Load(ctx context.Context) domain.ReferenceData {
	return domain.ReferenceData{}
}

func schedulerConfig(deliver, sweep string) *config.Config {
	return &config.Config{Scheduler: config.SchedulerConfig{
		DeliverSubmissions: deliver,
		SweepIdlePanels:    sweep,
	}}
}

func TestNewScheduler(t *testing.T) {
	panels := service.NewPanelManager(emptyRefs{}, service.PanelDeps{})
	defer panels.CloseAll()

	t.Run("Server registers both jobs", func(t *testing.T) {
		jr := jobs.NewJobRunner(&jobs.Services{Panels: panels}, schedulerConfig("0 */1 * * * *", "30 */5 * * * *"))
		s := NewScheduler(jr)
		assert.Len(t, s.cron.Entries(), 2)
		assert.True(t, s.IsRunning())
	})

	t.Run("Cronjob binary skips the sweep", func(t *testing.T) {
		jr := jobs.NewJobRunner(&jobs.Services{}, schedulerConfig("0 */1 * * * *", "30 */5 * * * *"))
		s := NewScheduler(jr)
		assert.Len(t, s.cron.Entries(), 1)
	})

	t.Run("Invalid spec is skipped", func(t *testing.T) {
		jr := jobs.NewJobRunner(&jobs.Services{Panels: panels}, schedulerConfig("every minute", "30 */5 * * * *"))
		s := NewScheduler(jr)
		assert.Len(t, s.cron.Entries(), 1)
	})

	t.Run("Start and stop", func(t *testing.T) {
		jr := jobs.NewJobRunner(&jobs.Services{}, schedulerConfig("0 0 0 1 1 *", ""))
		s := NewScheduler(jr)
		s.Start()
		s.Stop()
		assert.True(t, s.IsRunning())
	})
}
