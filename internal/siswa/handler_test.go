package siswa

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/bendahara-app/bendahara/internal/billing"
	"github.com/bendahara-app/bendahara/internal/shared"
	"github.com/bendahara-app/bendahara/internal/view"
	_ "github.com/bendahara-app/bendahara/testing"
)

type stubSearch struct {
	results []billing.Siswa
	err     error
	query   string
}

func (s *stubSearch) SearchSiswa(_ context.Context, query string) ([]billing.Siswa, error) {
	s.query = query
	return s.results, s.err
}

func newSearchHandler(t *testing.T, up *stubSearch) (*Handler, *shared.SignalStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })
	signals := shared.NewSignalStore(redisClient)
	templates, err := view.NewEngine()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(logger, up, signals, templates, shared.NewCSRFManager("csrfsecret")), signals
}

func TestSearchRendersResults(t *testing.T) {
	up := &stubSearch{results: []billing.Siswa{
		{NISN: "1234567890", Nama: "Siti Rahma", Jenjang: "SMA", Program: "Boarding"},
	}}
	handler, _ := newSearchHandler(t, up)

	req := httptest.NewRequest(http.MethodGet, "/siswa/cari?query=siti", nil)
	res := httptest.NewRecorder()
	handler.handleSearch(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, "siti", up.query)
	require.Contains(t, res.Body.String(), "Siti Rahma")
	require.Contains(t, res.Body.String(), "/tagihan/buat?nisn=1234567890")
}

func TestSearchAppliesStoredJenjangPreference(t *testing.T) {
	up := &stubSearch{results: []billing.Siswa{
		{NISN: "1001", Nama: "Ahmad Fauzi", Jenjang: "SMP"},
		{NISN: "1002", Nama: "Siti Rahma", Jenjang: "SMA"},
	}}
	handler, signals := newSearchHandler(t, up)
	require.NoError(t, signals.SetPreference(context.Background(), "", jenjangPref, "SMA"))

	req := httptest.NewRequest(http.MethodGet, "/siswa/cari?query=a", nil)
	res := httptest.NewRecorder()
	handler.handleSearch(res, req)

	body := res.Body.String()
	require.Contains(t, body, "Siti Rahma")
	require.NotContains(t, body, "Ahmad Fauzi")
}

func TestSearchUpstreamErrorShowsBanner(t *testing.T) {
	handler, _ := newSearchHandler(t, &stubSearch{err: errors.New("503")})

	req := httptest.NewRequest(http.MethodGet, "/siswa/cari?query=siti", nil)
	res := httptest.NewRecorder()
	handler.handleSearch(res, req)

	require.Contains(t, res.Body.String(), shared.UserSafeMessage(shared.ErrUpstream))
}

func TestFilterJenjang(t *testing.T) {
	results := []billing.Siswa{
		{NISN: "1", Jenjang: "SD"},
		{NISN: "2", Jenjang: "SMA"},
		{NISN: "3", Jenjang: "SMA"},
	}
	filtered := filterJenjang(results, "SMA")
	require.Len(t, filtered, 2)
	require.Equal(t, "2", filtered[0].NISN)
	require.Equal(t, "3", filtered[1].NISN)
}
