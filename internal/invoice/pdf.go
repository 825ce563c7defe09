package invoice

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/bendahara-app/bendahara/internal/billing"
)

// SchoolIdentity is the letterhead printed on every document.
type SchoolIdentity struct {
	Nama   string
	Alamat string
	Kota   string
}

// PDFRenderer turns a billing snapshot into the invoice document. It is
// purely presentational: every number it prints was computed before it
// runs, and the table order mirrors the on-screen form exactly.
type PDFRenderer struct {
	identity SchoolIdentity
}

// NewPDFRenderer constructs a renderer with the school letterhead.
func NewPDFRenderer(identity SchoolIdentity) *PDFRenderer {
	return &PDFRenderer{identity: identity}
}

// Render produces the invoice PDF for a snapshot. Generation failures
// are reported as explicit errors so callers can distinguish "document
// failed" from "upload failed".
func (r *PDFRenderer) Render(s *billing.Snapshot) ([]byte, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(12).
		WithTopMargin(15).
		WithRightMargin(12).
		Build()

	m := maroto.New(cfg)

	r.addHeader(m, s)
	r.addIdentitas(m, s)
	r.addTunggakan(m, s)
	addAmountTable(m, "Tagihan Pokok", masukRows(s, billing.PokokCategories))
	addAmountTable(m, "Tagihan Bulanan", masukRows(s, billing.BulananCategories))
	addAmountTable(m, "Sisa Tagihan", sisaRows(s))
	r.addCatatan(m, s)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("invoice: generate pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func (r *PDFRenderer) addHeader(m core.Maroto, s *billing.Snapshot) {
	m.AddRow(24,
		col.New(7).Add(
			text.New(r.identity.Nama, props.Text{Size: 14, Style: fontstyle.Bold}),
			text.New(r.identity.Alamat, props.Text{Size: 9, Top: 7}),
			text.New(r.identity.Kota, props.Text{Size: 9, Top: 11}),
		),
		col.New(5).Add(
			text.New("TAGIHAN", props.Text{Size: 18, Style: fontstyle.Bold, Align: align.Right}),
			text.New(fmt.Sprintf("Semester %s / %s", s.Semester, s.Periode), props.Text{Size: 9, Top: 9, Align: align.Right}),
		),
	)
	m.AddRow(4, line.NewCol(12))
}

func (r *PDFRenderer) addIdentitas(m core.Maroto, s *billing.Snapshot) {
	rows := [][2]string{
		{"NISN", s.Siswa.NISN},
		{"Nama", s.Siswa.Nama},
		{"Jenjang", s.Siswa.Jenjang},
		{"Program", s.Siswa.Program},
	}
	for _, row := range rows {
		m.AddRow(6,
			col.New(3).Add(text.New(row[0], props.Text{Size: 9, Style: fontstyle.Bold})),
			col.New(9).Add(text.New(": "+row[1], props.Text{Size: 9})),
		)
	}
	if !s.TanggalTerbit.IsZero() {
		m.AddRow(6,
			col.New(3).Add(text.New("Tanggal", props.Text{Size: 9, Style: fontstyle.Bold})),
			col.New(9).Add(text.New(": "+s.TanggalTerbit.Format("02 Jan 2006"), props.Text{Size: 9})),
		)
	}
	if !s.JatuhTempo.IsZero() {
		m.AddRow(6,
			col.New(3).Add(text.New("Jatuh Tempo", props.Text{Size: 9, Style: fontstyle.Bold})),
			col.New(9).Add(text.New(": "+s.JatuhTempo.Format("02 Jan 2006"), props.Text{Size: 9})),
		)
	}
	m.AddRow(4, line.NewCol(12))
}

func (r *PDFRenderer) addTunggakan(m core.Maroto, s *billing.Snapshot) {
	m.AddRow(8,
		col.New(8).Add(text.New("Tunggakan Tahun Sebelumnya", props.Text{Size: 10, Style: fontstyle.Bold})),
		col.New(4).Add(text.New(billing.FormatRupiah(s.Tunggakan), props.Text{Size: 10, Align: align.Right})),
	)
	m.AddRow(3, line.NewCol(12))
}

func (r *PDFRenderer) addCatatan(m core.Maroto, s *billing.Snapshot) {
	if s.Catatan == "" {
		return
	}
	m.AddRow(6,
		col.New(12).Add(text.New("Catatan", props.Text{Size: 10, Style: fontstyle.Bold})),
	)
	m.AddRow(10,
		col.New(12).Add(text.New(s.Catatan, props.Text{Size: 9})),
	)
}

// addAmountTable renders one two-column section: category label and
// formatted amount, one row per category in the fixed order.
func addAmountTable(m core.Maroto, title string, rows [][2]string) {
	m.AddRow(8,
		col.New(12).Add(text.New(title, props.Text{Size: 10, Style: fontstyle.Bold})),
	)
	for _, row := range rows {
		m.AddRow(6,
			col.New(8).Add(text.New(row[0], props.Text{Size: 9})),
			col.New(4).Add(text.New(row[1], props.Text{Size: 9, Align: align.Right})),
		)
	}
	m.AddRow(3, line.NewCol(12))
}

// masukRows builds the formatted entered-amount rows for a category
// group, in group order.
func masukRows(s *billing.Snapshot, cats []billing.Category) [][2]string {
	rows := make([][2]string, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, [2]string{c.Label(), billing.FormatRupiah(s.Masuk[c])})
	}
	return rows
}

// sisaRows builds the formatted remaining-balance rows over all eight
// categories. Negative balances print with their sign; the renderer
// does not second-guess the calculator.
func sisaRows(s *billing.Snapshot) [][2]string {
	cats := billing.AllCategories()
	rows := make([][2]string, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, [2]string{c.Label(), billing.FormatRupiah(s.Sisa(c))})
	}
	return rows
}
