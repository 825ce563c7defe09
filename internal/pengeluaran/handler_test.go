package pengeluaran

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bendahara-app/bendahara/internal/shared"
	"github.com/bendahara-app/bendahara/internal/upstream"
	"github.com/bendahara-app/bendahara/internal/view"
	_ "github.com/bendahara-app/bendahara/testing"
)

type stubUpstream struct {
	created   []upstream.CreatePengeluaranInput
	createErr error
}

func (s *stubUpstream) CreatePengeluaran(_ context.Context, input upstream.CreatePengeluaranInput) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, input)
	return nil
}

type memoryLedger struct {
	records   []Record
	insertErr error
}

func (m *memoryLedger) Insert(_ context.Context, record Record) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.records = append(m.records, record)
	return nil
}

func (m *memoryLedger) ListRecent(_ context.Context, limit int) ([]Record, error) {
	if limit > len(m.records) {
		limit = len(m.records)
	}
	out := make([]Record, limit)
	copy(out, m.records)
	return out, nil
}

func newPengeluaranHandler(t *testing.T, up *stubUpstream, ledger *memoryLedger) *Handler {
	t.Helper()
	templates, err := view.NewEngine()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	renderer := NewReceiptRenderer("SMA Harapan Bangsa")
	return NewHandler(logger, up, ledger, renderer, templates, shared.NewCSRFManager("csrfsecret"))
}

func multipartEntry(t *testing.T, fields map[string]string, withStruk bool) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, value := range fields {
		require.NoError(t, mw.WriteField(name, value))
	}
	if withStruk {
		part, err := mw.CreateFormFile("struk", "struk.jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte("jpeg-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestCreateRecordsLedgerEntry(t *testing.T) {
	up := &stubUpstream{}
	ledger := &memoryLedger{}
	handler := newPengeluaranHandler(t, up, ledger)

	body, contentType := multipartEntry(t, map[string]string{
		"deskripsi": "Beras 25kg",
		"kategori":  "Konsumsi",
		"satuan":    "15.000",
		"kuantitas": "12",
		"tanggal":   "2026-02-10",
	}, true)
	req := httptest.NewRequest(http.MethodPost, "/pengeluaran", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()
	handler.handleCreate(res, req)

	require.Equal(t, http.StatusSeeOther, res.Code)
	require.Len(t, up.created, 1)
	require.Equal(t, int64(180000), up.created[0].Total)
	require.Equal(t, "struk.jpg", up.created[0].StrukName)
	require.Len(t, ledger.records, 1)
	require.Equal(t, int64(15000), ledger.records[0].Satuan)
	require.Equal(t, 12, ledger.records[0].Kuantitas)
	require.Equal(t, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), ledger.records[0].Tanggal)
}

func TestCreateMissingStrukRejected(t *testing.T) {
	up := &stubUpstream{}
	handler := newPengeluaranHandler(t, up, &memoryLedger{})

	body, contentType := multipartEntry(t, map[string]string{
		"deskripsi": "Beras 25kg",
		"satuan":    "15.000",
		"kuantitas": "12",
	}, false)
	req := httptest.NewRequest(http.MethodPost, "/pengeluaran", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()
	handler.handleCreate(res, req)

	require.Equal(t, http.StatusBadRequest, res.Code)
	require.Empty(t, up.created)
	require.Contains(t, res.Body.String(), "Struk wajib diunggah")
}

func TestCreateSucceedsWhenLedgerInsertFails(t *testing.T) {
	up := &stubUpstream{}
	ledger := &memoryLedger{insertErr: errors.New("pg down")}
	handler := newPengeluaranHandler(t, up, ledger)

	body, contentType := multipartEntry(t, map[string]string{
		"deskripsi": "Spidol papan tulis",
		"satuan":    "8.000",
		"kuantitas": "5",
	}, true)
	req := httptest.NewRequest(http.MethodPost, "/pengeluaran", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()
	handler.handleCreate(res, req)

	require.Equal(t, http.StatusSeeOther, res.Code)
	require.Len(t, up.created, 1)
}

func TestShowFormListsRecentEntries(t *testing.T) {
	ledger := &memoryLedger{records: []Record{{
		Deskripsi: "Beras 25kg",
		Kategori:  "Konsumsi",
		Satuan:    15000,
		Kuantitas: 12,
		Total:     180000,
		Tanggal:   time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
	}}}
	handler := newPengeluaranHandler(t, &stubUpstream{}, ledger)

	req := httptest.NewRequest(http.MethodGet, "/pengeluaran", nil)
	res := httptest.NewRecorder()
	handler.showForm(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	require.Contains(t, body, "Beras 25kg")
	require.Contains(t, body, "Rp 180.000")
}

func TestReceiptDownload(t *testing.T) {
	handler := newPengeluaranHandler(t, &stubUpstream{}, &memoryLedger{})

	body, contentType := multipartEntry(t, map[string]string{
		"deskripsi": "Beras 25kg",
		"satuan":    "15.000",
		"kuantitas": "12",
		"tanggal":   "2026-02-10",
	}, false)
	req := httptest.NewRequest(http.MethodPost, "/pengeluaran/kwitansi", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()
	handler.handleReceipt(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, "application/pdf", res.Header().Get("Content-Type"))
	require.Contains(t, res.Header().Get("Content-Disposition"), "kwitansi_2026-02-10.pdf")
	require.True(t, bytes.HasPrefix(res.Body.Bytes(), []byte("%PDF")))
}
