package invoice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bendahara-app/bendahara/internal/billing"
)

func snapshotForPDF() *billing.Snapshot {
	s := billing.NewSnapshot()
	s.Siswa = billing.Siswa{NISN: "1234567890", Nama: "Siti Rahma", Jenjang: "SMA", Program: "Boarding"}
	s.Total[billing.CategorySPP] = 1000000
	s.Masuk[billing.CategorySPP] = 400000
	s.Tunggakan = 250000
	s.Semester = "Ganjil"
	s.Periode = "Juli 2026"
	s.TanggalTerbit = time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	s.Catatan = "Harap dibayar sebelum jatuh tempo"
	return s
}

func TestRenderProducesPDF(t *testing.T) {
	renderer := NewPDFRenderer(SchoolIdentity{Nama: "Sekolah Harapan", Alamat: "Jl. Merdeka 1", Kota: "Bandung"})

	pdf, err := renderer.Render(snapshotForPDF())
	require.NoError(t, err)
	require.True(t, len(pdf) > 0)
	require.Equal(t, []byte("%PDF"), pdf[:4])
}

func TestMasukRowsFormatsAmounts(t *testing.T) {
	rows := masukRows(snapshotForPDF(), billing.PokokCategories)

	var spp [2]string
	for _, row := range rows {
		if row[0] == billing.CategorySPP.Label() {
			spp = row
		}
	}
	require.Equal(t, "Rp 400.000", spp[1])
}

func TestSisaRowsFormatsRemainder(t *testing.T) {
	rows := sisaRows(snapshotForPDF())

	var spp [2]string
	for _, row := range rows {
		if row[0] == billing.CategorySPP.Label() {
			spp = row
		}
	}
	require.Equal(t, "Rp 600.000", spp[1])
}
