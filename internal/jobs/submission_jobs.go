package jobs

import (
	"context"
	"time"

	"hoteldesk-panel/internal/logger"
)

// deliveryTimeout bounds one pass over the outbox
const deliveryTimeout = 2 * time.Minute

// DeliverPendingSubmissions retries queued bookings the backend has not accepted yet
func (jr *JobRunner) DeliverPendingSubmissions() {
	jr.runWithRecovery("DeliverPendingSubmissions", func() {
		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		defer cancel()

		delivered, failed, err := jr.services.Submissions.DeliverPending(ctx)
		if err != nil {
			logger.Error("Failed to deliver pending submissions", "error", err, "delivered", delivered, "failed", failed)
			return
		}
		if delivered > 0 || failed > 0 {
			logger.Info("Delivered pending submissions", "delivered", delivered, "failed", failed)
		}
	})
}

// SweepIdlePanels closes booking panels nobody touched within the idle TTL
func (jr *JobRunner) SweepIdlePanels() {
	jr.runWithRecovery("SweepIdlePanels", func() {
		if jr.services.Panels == nil {
			return
		}
		closed := jr.services.Panels.SweepIdle(jr.config.PanelIdleTTL())
		if closed > 0 {
			logger.Info("Closed idle booking panels", "count", closed, "open", jr.services.Panels.Count())
		}
	})
}
