// Package pengeluaran handles expense entry: unit amount times
// quantity, a receipt image passed through to the upstream, and an
// optional styled receipt PDF.
package pengeluaran

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/bendahara-app/bendahara/internal/billing"
)

// Entry is one validated expense line.
type Entry struct {
	Deskripsi string
	Kategori  string
	Satuan    int64
	Kuantitas int
	Tanggal   time.Time
}

// Total is the line total, the one multiplication in the system.
func (e Entry) Total() int64 {
	return e.Satuan * int64(e.Kuantitas)
}

// ReceiptRenderer produces the styled receipt PDF for one expense.
type ReceiptRenderer struct {
	sekolah string
}

// NewReceiptRenderer constructs a ReceiptRenderer carrying the school
// name for the header.
func NewReceiptRenderer(sekolah string) *ReceiptRenderer {
	return &ReceiptRenderer{sekolah: sekolah}
}

// Render builds the receipt document.
func (r *ReceiptRenderer) Render(e Entry) ([]byte, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(12).
		WithTopMargin(15).
		WithRightMargin(12).
		Build()
	m := maroto.New(cfg)

	m.AddRows(
		row.New(10).Add(
			col.New(12).Add(text.New("KWITANSI PENGELUARAN", props.Text{
				Size:  14,
				Style: fontstyle.Bold,
				Align: align.Center,
			})),
		),
		row.New(6).Add(
			col.New(12).Add(text.New(r.sekolah, props.Text{Size: 10, Align: align.Center})),
		),
		row.New(8),
	)

	addLine := func(label, value string) {
		m.AddRows(row.New(7).Add(
			col.New(4).Add(text.New(label, props.Text{Size: 10, Style: fontstyle.Bold})),
			col.New(8).Add(text.New(value, props.Text{Size: 10})),
		))
	}
	addLine("Tanggal", e.Tanggal.Format("02 Jan 2006"))
	addLine("Deskripsi", e.Deskripsi)
	addLine("Kategori", e.Kategori)
	addLine("Harga Satuan", billing.FormatRupiah(e.Satuan))
	addLine("Kuantitas", fmt.Sprintf("%d", e.Kuantitas))
	addLine("Total", billing.FormatRupiah(e.Total()))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pengeluaran: generate kwitansi: %w", err)
	}
	return doc.GetBytes(), nil
}
