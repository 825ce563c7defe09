// Package invoice implements the buat-tagihan flow: load a student's
// billing snapshot from the upstream, accept entered amounts, derive
// remaining balances, render the invoice PDF and record what was
// issued.
package invoice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bendahara-app/bendahara/internal/billing"
	"github.com/bendahara-app/bendahara/internal/upstream"
	"github.com/bendahara-app/bendahara/jobs"
)

// UpstreamPort is the slice of the upstream client this flow needs.
type UpstreamPort interface {
	GetTagihan(ctx context.Context, nisn string) (*upstream.StudentBilling, error)
	CreateTagihan(ctx context.Context, input upstream.CreateTagihanInput) error
}

// UploadEnqueuer queues the generated PDF for background upload.
type UploadEnqueuer interface {
	EnqueueUploadLampiran(ctx context.Context, payload jobs.UploadLampiranPayload) error
}

// Service orchestrates the invoice flow.
type Service struct {
	upstream UpstreamPort
	archive  Archive
	renderer *PDFRenderer
	uploads  UploadEnqueuer
	logger   *slog.Logger
}

// NewService builds a Service instance. uploads may be nil when no
// worker is deployed; the invoice still issues, only the attachment
// upload is skipped.
func NewService(up UpstreamPort, archive Archive, renderer *PDFRenderer, uploads UploadEnqueuer, logger *slog.Logger) *Service {
	return &Service{upstream: up, archive: archive, renderer: renderer, uploads: uploads, logger: logger}
}

// Load fetches the billing snapshot for one student. Nothing is
// mutated on failure: the caller keeps whatever it was showing.
func (s *Service) Load(ctx context.Context, nisn string) (*billing.Snapshot, error) {
	result, err := s.upstream.GetTagihan(ctx, nisn)
	if err != nil {
		return nil, err
	}
	snapshot := billing.NewSnapshot()
	snapshot.Siswa = result.Siswa
	snapshot.Total = result.Total
	snapshot.Tunggakan = result.Tunggakan
	return snapshot, nil
}

// Issue creates the invoice: re-fetch totals, apply the entered
// amounts, render the PDF, register the invoice with the upstream,
// archive it and queue the attachment upload. PDF generation failures
// abort before anything is sent; upstream and archive failures are
// reported to the caller; a failed enqueue only logs, mirroring the
// original's fire-and-forget upload.
func (s *Service) Issue(ctx context.Context, input IssueInput) (*Issued, error) {
	if input.NISN == "" {
		return nil, errors.New("invoice: NISN kosong")
	}

	snapshot, err := s.Load(ctx, input.NISN)
	if err != nil {
		return nil, err
	}
	for c, v := range input.Masuk {
		snapshot.Masuk[c] = v
	}
	snapshot.Semester = input.Semester
	snapshot.Periode = input.Periode
	snapshot.TanggalTerbit = time.Now()
	snapshot.JatuhTempo = input.JatuhTempo
	snapshot.Catatan = input.Catatan

	pdf, err := s.renderer.Render(snapshot)
	if err != nil {
		return nil, err
	}
	fileName := fmt.Sprintf("tagihan_%s.pdf", snapshot.Siswa.Nama)

	jumlah := make(map[string]int64, len(input.Masuk))
	for _, c := range billing.AllCategories() {
		jumlah[string(c)] = snapshot.Masuk[c]
	}
	createInput := upstream.CreateTagihanInput{
		NISN:      input.NISN,
		Semester:  input.Semester,
		Periode:   input.Periode,
		Jumlah:    jumlah,
		Total:     snapshot.TotalMasuk(),
		Tunggakan: snapshot.Tunggakan,
		Catatan:   input.Catatan,
	}
	if !input.JatuhTempo.IsZero() {
		createInput.JatuhTempo = input.JatuhTempo.Format("2006-01-02")
	}
	if err := s.upstream.CreateTagihan(ctx, createInput); err != nil {
		return nil, err
	}

	record := Record{
		ID:         uuid.New(),
		NISN:       snapshot.Siswa.NISN,
		Nama:       snapshot.Siswa.Nama,
		Semester:   input.Semester,
		Periode:    input.Periode,
		Masuk:      snapshot.Masuk,
		TotalMasuk: snapshot.TotalMasuk(),
		Tunggakan:  snapshot.Tunggakan,
		PDFName:    fileName,
		CreatedAt:  time.Now(),
	}
	if err := s.archive.Insert(ctx, record); err != nil {
		return nil, err
	}

	if s.uploads != nil {
		payload := jobs.UploadLampiranPayload{NISN: record.NISN, FileName: fileName, PDF: pdf}
		if err := s.uploads.EnqueueUploadLampiran(ctx, payload); err != nil && s.logger != nil {
			s.logger.Warn("enqueue lampiran upload",
				slog.String("nisn", record.NISN),
				slog.Any("error", err))
		}
	}

	return &Issued{Record: record, PDF: pdf, FileName: fileName}, nil
}

// Recent lists the latest archived invoices.
func (s *Service) Recent(ctx context.Context, limit int) ([]Record, error) {
	return s.archive.ListRecent(ctx, limit)
}
