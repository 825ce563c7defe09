package invoice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bendahara-app/bendahara/internal/billing"
	"github.com/bendahara-app/bendahara/internal/upstream"
	"github.com/bendahara-app/bendahara/jobs"
)

type stubUpstream struct {
	billing   *upstream.StudentBilling
	loadErr   error
	createErr error
	created   []upstream.CreateTagihanInput
}

func (s *stubUpstream) GetTagihan(_ context.Context, nisn string) (*upstream.StudentBilling, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.billing, nil
}

func (s *stubUpstream) CreateTagihan(_ context.Context, input upstream.CreateTagihanInput) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, input)
	return nil
}

type memoryArchive struct {
	mu      sync.Mutex
	records []Record
}

func (a *memoryArchive) Insert(_ context.Context, record Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, record)
	return nil
}

func (a *memoryArchive) ListRecent(_ context.Context, limit int) ([]Record, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if limit > len(a.records) {
		limit = len(a.records)
	}
	out := make([]Record, limit)
	copy(out, a.records[len(a.records)-limit:])
	return out, nil
}

type stubEnqueuer struct {
	payloads []jobs.UploadLampiranPayload
	err      error
}

func (e *stubEnqueuer) EnqueueUploadLampiran(_ context.Context, payload jobs.UploadLampiranPayload) error {
	if e.err != nil {
		return e.err
	}
	e.payloads = append(e.payloads, payload)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleBilling() *upstream.StudentBilling {
	total := map[billing.Category]int64{
		billing.CategorySPP: billing.ParseRupiah("1.000.000"),
		billing.CategoryKBM: billing.ParseRupiah("500.000"),
	}
	for _, c := range billing.AllCategories() {
		if _, ok := total[c]; !ok {
			total[c] = 0
		}
	}
	return &upstream.StudentBilling{
		Siswa: billing.Siswa{
			NISN:    "1234567890",
			Nama:    "Siti Rahma",
			Jenjang: "SMA",
			Program: "Boarding",
		},
		Total:     total,
		Tunggakan: 250000,
	}
}

func newTestService(up *stubUpstream, archive *memoryArchive, uploads *stubEnqueuer) *Service {
	renderer := NewPDFRenderer(SchoolIdentity{Nama: "Sekolah Harapan", Alamat: "Jl. Merdeka 1", Kota: "Bandung"})
	return NewService(up, archive, renderer, uploads, discardLogger())
}

func TestLoadComputesSisaFromEnteredAmount(t *testing.T) {
	up := &stubUpstream{billing: sampleBilling()}
	svc := newTestService(up, &memoryArchive{}, &stubEnqueuer{})

	snapshot, err := svc.Load(context.Background(), "1234567890")
	require.NoError(t, err)

	snapshot.Masuk[billing.CategorySPP] = billing.ParseRupiah("400000")
	require.Equal(t, int64(600000), snapshot.Sisa(billing.CategorySPP))
	require.Equal(t, "Rp 600.000", billing.FormatRupiah(snapshot.Sisa(billing.CategorySPP)))
}

func TestLoadPropagatesUpstreamError(t *testing.T) {
	up := &stubUpstream{loadErr: errors.New("timeout")}
	svc := newTestService(up, &memoryArchive{}, &stubEnqueuer{})

	_, err := svc.Load(context.Background(), "1234567890")
	require.Error(t, err)
}

func TestIssueCreatesArchivesAndEnqueues(t *testing.T) {
	up := &stubUpstream{billing: sampleBilling()}
	archive := &memoryArchive{}
	uploads := &stubEnqueuer{}
	svc := newTestService(up, archive, uploads)

	issued, err := svc.Issue(context.Background(), IssueInput{
		NISN:     "1234567890",
		Semester: "Ganjil",
		Periode:  "Juli 2026",
		Masuk: map[billing.Category]int64{
			billing.CategorySPP: 400000,
			billing.CategoryKBM: 500000,
		},
	})
	require.NoError(t, err)
	require.Equal(t, "tagihan_Siti Rahma.pdf", issued.FileName)
	require.True(t, len(issued.PDF) > 0)
	require.Equal(t, []byte("%PDF"), issued.PDF[:4])

	require.Len(t, up.created, 1)
	require.Equal(t, int64(400000), up.created[0].Jumlah[string(billing.CategorySPP)])
	require.Equal(t, int64(900000), up.created[0].Total)
	require.Equal(t, int64(250000), up.created[0].Tunggakan)

	require.Len(t, archive.records, 1)
	require.Equal(t, "1234567890", archive.records[0].NISN)
	require.Equal(t, int64(900000), archive.records[0].TotalMasuk)

	require.Len(t, uploads.payloads, 1)
	require.Equal(t, "tagihan_Siti Rahma.pdf", uploads.payloads[0].FileName)
	require.Equal(t, issued.PDF, uploads.payloads[0].PDF)
}

func TestIssueStopsWhenUpstreamCreateFails(t *testing.T) {
	up := &stubUpstream{billing: sampleBilling(), createErr: errors.New("503")}
	archive := &memoryArchive{}
	uploads := &stubEnqueuer{}
	svc := newTestService(up, archive, uploads)

	_, err := svc.Issue(context.Background(), IssueInput{NISN: "1234567890", Masuk: map[billing.Category]int64{}})
	require.Error(t, err)
	require.Empty(t, archive.records)
	require.Empty(t, uploads.payloads)
}

func TestIssueSucceedsWhenEnqueueFails(t *testing.T) {
	up := &stubUpstream{billing: sampleBilling()}
	archive := &memoryArchive{}
	uploads := &stubEnqueuer{err: errors.New("redis down")}
	svc := newTestService(up, archive, uploads)

	issued, err := svc.Issue(context.Background(), IssueInput{NISN: "1234567890", Masuk: map[billing.Category]int64{}})
	require.NoError(t, err)
	require.NotNil(t, issued)
	require.Len(t, archive.records, 1)
}

func TestIssueRejectsEmptyNISN(t *testing.T) {
	svc := newTestService(&stubUpstream{billing: sampleBilling()}, &memoryArchive{}, &stubEnqueuer{})

	_, err := svc.Issue(context.Background(), IssueInput{})
	require.Error(t, err)
}
