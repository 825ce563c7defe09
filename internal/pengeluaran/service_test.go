package pengeluaran

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEntryTotalMultipliesSatuanByKuantitas(t *testing.T) {
	e := Entry{Satuan: 15000, Kuantitas: 12}
	require.Equal(t, int64(180000), e.Total())
}

func TestEntryTotalZeroQuantity(t *testing.T) {
	e := Entry{Satuan: 15000}
	require.Equal(t, int64(0), e.Total())
}

func TestRenderReceiptProducesPDF(t *testing.T) {
	renderer := NewReceiptRenderer("Sekolah Harapan")

	pdf, err := renderer.Render(Entry{
		Deskripsi: "Konsumsi rapat wali murid",
		Kategori:  "Konsumsi",
		Satuan:    25000,
		Kuantitas: 40,
		Tanggal:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.True(t, len(pdf) > 0)
	require.Equal(t, []byte("%PDF"), pdf[:4])
}
