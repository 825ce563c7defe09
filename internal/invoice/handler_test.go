package invoice

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bendahara-app/bendahara/internal/shared"
	"github.com/bendahara-app/bendahara/internal/view"
	_ "github.com/bendahara-app/bendahara/testing"
)

func newInvoiceHandler(t *testing.T, up *stubUpstream, archive *memoryArchive) *Handler {
	t.Helper()
	templates, err := view.NewEngine()
	require.NoError(t, err)
	svc := newTestService(up, archive, &stubEnqueuer{})
	return NewHandler(discardLogger(), svc, templates, shared.NewCSRFManager("csrfsecret"))
}

func TestShowFormRendersSnapshot(t *testing.T) {
	handler := newInvoiceHandler(t, &stubUpstream{billing: sampleBilling()}, &memoryArchive{})

	req := httptest.NewRequest(http.MethodGet, "/tagihan/buat?nisn=1234567890", nil)
	res := httptest.NewRecorder()
	handler.showForm(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	require.Contains(t, body, "Siti Rahma")
	require.Contains(t, body, "Rp 1.000.000")
}

func TestShowFormLoadFailureKeepsPriorState(t *testing.T) {
	handler := newInvoiceHandler(t, &stubUpstream{loadErr: errors.New("404")}, &memoryArchive{})

	req := httptest.NewRequest(http.MethodGet, "/tagihan/buat?nisn=0000", nil)
	res := httptest.NewRecorder()
	handler.showForm(res, req)

	body := res.Body.String()
	require.Contains(t, body, "Gagal mengambil data tagihan. Pastikan NISN valid.")
	require.NotContains(t, body, "Terbitkan")
}

func TestIssueReturnsPDFDownload(t *testing.T) {
	handler := newInvoiceHandler(t, &stubUpstream{billing: sampleBilling()}, &memoryArchive{})

	form := url.Values{}
	form.Set("nisn", "1234567890")
	form.Set("semester", "Ganjil")
	form.Set("periode", "Juli 2026")
	form.Set("masuk_spp", "400.000")

	req := httptest.NewRequest(http.MethodPost, "/tagihan/buat", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res := httptest.NewRecorder()
	handler.handleIssue(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, "application/pdf", res.Header().Get("Content-Type"))
	require.Contains(t, res.Header().Get("Content-Disposition"), "tagihan_Siti Rahma.pdf")
	require.Equal(t, "%PDF", res.Body.String()[:4])
}

func TestShowFormListsRecentInvoices(t *testing.T) {
	archive := &memoryArchive{records: []Record{{
		NISN:       "1234567890",
		Nama:       "Budi Santoso",
		Periode:    "Juli 2026",
		TotalMasuk: 900000,
		CreatedAt:  time.Date(2026, 7, 3, 9, 0, 0, 0, time.UTC),
	}}}
	handler := newInvoiceHandler(t, &stubUpstream{}, archive)

	req := httptest.NewRequest(http.MethodGet, "/tagihan/buat", nil)
	res := httptest.NewRecorder()
	handler.showForm(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	require.Contains(t, body, "Tagihan Terakhir")
	require.Contains(t, body, "Budi Santoso")
	require.Contains(t, body, "Rp 900.000")
}

func TestIssueMissingNISNRejected(t *testing.T) {
	handler := newInvoiceHandler(t, &stubUpstream{billing: sampleBilling()}, &memoryArchive{})

	req := httptest.NewRequest(http.MethodPost, "/tagihan/buat", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res := httptest.NewRecorder()
	handler.handleIssue(res, req)

	require.Equal(t, http.StatusBadRequest, res.Code)
}
