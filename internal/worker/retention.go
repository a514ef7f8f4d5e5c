package worker

import (
	"context"
	"time"

	auditservice "github.com/guhospital/hms-api/internal/service/audit"
	"github.com/guhospital/hms-api/pkg/logger"
)

// RetentionWorker periodically deletes audit entries older than the
// configured retention window
type RetentionWorker struct {
	audit     *auditservice.Service
	retention time.Duration
	interval  time.Duration
	logger    *logger.Logger
}

func NewRetentionWorker(audit *auditservice.Service, retention, interval time.Duration, log *logger.Logger) *RetentionWorker {
	if retention <= 0 {
		retention = 90 * 24 * time.Hour
	}
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &RetentionWorker{
		audit:     audit,
		retention: retention,
		interval:  interval,
		logger:    log,
	}
}

func (w *RetentionWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("starting audit retention worker",
		"retention", w.retention.String(),
		"interval", w.interval.String())

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("shutting down audit retention worker")
			return
		case <-ticker.C:
			deleted, err := w.audit.Cleanup(ctx, w.retention)
			if err != nil {
				w.logger.Error(err, "audit cleanup failed")
				continue
			}
			if deleted > 0 {
				w.logger.Info("audit cleanup completed", "deleted", deleted)
			}
		}
	}
}
