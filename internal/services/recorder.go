package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/baharkarakas/bank-transactions/internal/events"
	"github.com/baharkarakas/bank-transactions/internal/metrics"
	"github.com/baharkarakas/bank-transactions/internal/models"
	repo "github.com/baharkarakas/bank-transactions/internal/repository"
	"github.com/baharkarakas/bank-transactions/internal/worker"
)

const sideEffectTimeout = 5 * time.Second

// Recorder writes audit entries and publishes events off the request path.
type Recorder struct {
	logs repo.AuditLogs
	pub  events.Publisher
	wp   *worker.Pool
	log  *slog.Logger
}

func NewRecorder(logs repo.AuditLogs, pub events.Publisher, wp *worker.Pool, log *slog.Logger) *Recorder {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Recorder{logs: logs, pub: pub, wp: wp, log: log}
}

// Record stores entry and, when evtType is set, publishes an event with
// the same details. Runs inline once the pool has been stopped.
func (r *Recorder) Record(ctx context.Context, entry models.AuditLog, evtType string) {
	if r == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	job := func() { r.record(ctx, entry, evtType) }
	if r.wp == nil || !r.wp.Submit(job) {
		job()
	}
}

func (r *Recorder) record(ctx context.Context, entry models.AuditLog, evtType string) {
	ctx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
	defer cancel()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := r.logs.Create(ctx, entry); err != nil {
		r.log.Error("audit log write failed", "entity", entry.EntityType, "id", entry.EntityID, "action", entry.Action, "err", err)
	}
	if evtType == "" {
		return
	}
	evt := events.Event{ID: entry.ID, Type: evtType, OccurredAt: entry.CreatedAt, Payload: entry.Details}
	if err := r.pub.Publish(ctx, evt); err != nil {
		metrics.EventsPublishFailed.Inc()
		r.log.Error("event publish failed", "type", evtType, "id", entry.EntityID, "err", err)
	}
}
