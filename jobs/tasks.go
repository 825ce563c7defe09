package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/bendahara-app/bendahara/internal/jobs"
	"github.com/bendahara-app/bendahara/internal/upstream"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeUploadLampiran uploads a generated invoice PDF to the
	// school backend as a student attachment.
	TaskTypeUploadLampiran = "tagihan:upload_lampiran"
	// TaskTypeArsipRingkasan logs the daily invoice archive summary.
	TaskTypeArsipRingkasan = "arsip:ringkasan"
)

// UploadLampiranPayload describes one invoice PDF upload. The PDF is
// carried in the payload: the invoice flow generates it in memory and
// never writes it to local disk.
type UploadLampiranPayload struct {
	NISN     string `json:"nisn"`
	FileName string `json:"file_name"`
	PDF      []byte `json:"pdf"`
}

// NewUploadLampiranTask constructs an Asynq task.
func NewUploadLampiranTask(payload UploadLampiranPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeUploadLampiran, data, asynq.MaxRetry(5)), nil
}

// NewUploadLampiranHandler returns the worker handler for upload tasks.
// The upload retries via asynq; the invoice itself was already issued,
// matching the original fire-and-forget coupling between the two.
func NewUploadLampiranHandler(client *upstream.Client, logger *slog.Logger) asynq.HandlerFunc {
	metrics := jobmetrics.NewMetrics(nil)
	return func(ctx context.Context, t *asynq.Task) error {
		tracker := metrics.Track(TaskTypeUploadLampiran)
		var payload UploadLampiranPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return tracker.End(asynq.SkipRetry)
		}
		if err := client.UploadLampiranTagihan(ctx, payload.NISN, payload.FileName, payload.PDF); err != nil {
			if logger != nil {
				logger.Warn("upload lampiran tagihan",
					slog.String("nisn", payload.NISN),
					slog.Any("error", err))
			}
			return tracker.End(err)
		}
		if logger != nil {
			logger.Info("lampiran tagihan terkirim",
				slog.String("nisn", payload.NISN),
				slog.String("file", payload.FileName))
		}
		return tracker.End(nil)
	}
}

// ArchiveSummarizer reports archived-invoice volume since a cutoff.
type ArchiveSummarizer interface {
	Summarize(ctx context.Context, since time.Time) (count int64, total int64, err error)
}

// NewArsipRingkasanTask constructs the nightly archive summary task.
func NewArsipRingkasanTask() *asynq.Task {
	return asynq.NewTask(TaskTypeArsipRingkasan, nil)
}

// NewArsipRingkasanHandler returns the worker handler that logs how many
// invoices the last 24 hours issued and for what combined amount.
func NewArsipRingkasanHandler(archive ArchiveSummarizer, logger *slog.Logger) asynq.HandlerFunc {
	metrics := jobmetrics.NewMetrics(nil)
	return func(ctx context.Context, t *asynq.Task) error {
		tracker := metrics.Track(TaskTypeArsipRingkasan)
		since := time.Now().Add(-24 * time.Hour)
		count, total, err := archive.Summarize(ctx, since)
		if err != nil {
			if logger != nil {
				logger.Warn("ringkasan arsip tagihan", slog.Any("error", err))
			}
			return tracker.End(err)
		}
		if logger != nil {
			logger.Info("ringkasan arsip tagihan",
				slog.Int64("jumlah_tagihan", count),
				slog.Int64("total_masuk", total))
		}
		return tracker.End(nil)
	}
}
