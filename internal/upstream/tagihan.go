package upstream

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bendahara-app/bendahara/internal/billing"
)

// tagihanRecord mirrors the upstream response for GET tagihan/{nisn}.
// Every amount arrives as a thousands-separated string.
type tagihanRecord struct {
	NISN    string `json:"nisn"`
	Nama    string `json:"nama"`
	Jenjang string `json:"jenjang"`
	Program string `json:"program"`

	TagihanKBM          string `json:"tagihan_uang_kbm"`
	TagihanSPP          string `json:"tagihan_uang_spp"`
	TagihanPemeliharaan string `json:"tagihan_uang_pemeliharaan"`
	TagihanSumbangan    string `json:"tagihan_uang_sumbangan"`
	TagihanKonsumsi     string `json:"tagihan_uang_konsumsi"`
	TagihanBoarding     string `json:"tagihan_uang_boarding"`
	TagihanEkstra       string `json:"tagihan_uang_ekstra"`
	TagihanUangBelanja  string `json:"tagihan_uang_belanja"`

	Tunggakan string `json:"tunggakan"`
}

// StudentBilling is the normalized result of a tagihan lookup.
type StudentBilling struct {
	Siswa     billing.Siswa
	Total     map[billing.Category]int64
	Tunggakan int64
}

// GetTagihan fetches the current billing totals for one student. Amounts
// are parsed with the strip-periods rule; unparseable fields become zero.
func (c *Client) GetTagihan(ctx context.Context, nisn string) (*StudentBilling, error) {
	if nisn == "" {
		return nil, fmt.Errorf("upstream: tagihan: NISN kosong")
	}

	var raw json.RawMessage
	if err := c.getJSON(ctx, "tagihan/"+nisn, nil, &raw); err != nil {
		return nil, err
	}
	var record tagihanRecord
	if err := unwrapStatus(raw, &record); err != nil {
		return nil, fmt.Errorf("upstream: tagihan %s: %w", nisn, err)
	}

	result := &StudentBilling{
		Siswa: billing.Siswa{
			NISN:    record.NISN,
			Nama:    record.Nama,
			Jenjang: record.Jenjang,
			Program: record.Program,
		},
		Total: map[billing.Category]int64{
			billing.CategoryKBM:          billing.ParseRupiah(record.TagihanKBM),
			billing.CategorySPP:          billing.ParseRupiah(record.TagihanSPP),
			billing.CategoryPemeliharaan: billing.ParseRupiah(record.TagihanPemeliharaan),
			billing.CategorySumbangan:    billing.ParseRupiah(record.TagihanSumbangan),
			billing.CategoryKonsumsi:     billing.ParseRupiah(record.TagihanKonsumsi),
			billing.CategoryBoarding:     billing.ParseRupiah(record.TagihanBoarding),
			billing.CategoryEkstra:       billing.ParseRupiah(record.TagihanEkstra),
			billing.CategoryUangBelanja:  billing.ParseRupiah(record.TagihanUangBelanja),
		},
		Tunggakan: billing.ParseRupiah(record.Tunggakan),
	}
	if result.Siswa.NISN == "" {
		result.Siswa.NISN = nisn
	}
	return result, nil
}

// CreateTagihanInput is the payload for POST tagihan/create. The record
// of which NISN was invoiced for how much is all the upstream keeps; the
// derived remaining balances are display-only and never sent.
type CreateTagihanInput struct {
	NISN       string           `json:"nisn"`
	Semester   string           `json:"semester"`
	Periode    string           `json:"periode"`
	Jumlah     map[string]int64 `json:"jumlah"`
	Total      int64            `json:"total"`
	Tunggakan  int64            `json:"tunggakan"`
	JatuhTempo string           `json:"jatuh_tempo"`
	Catatan    string           `json:"catatan"`
}

// CreateTagihan records an issued invoice with the upstream.
func (c *Client) CreateTagihan(ctx context.Context, input CreateTagihanInput) error {
	return c.postJSON(ctx, "tagihan/create", input, nil)
}

// UploadLampiranTagihan attaches a generated invoice PDF to a student
// record on the upstream.
func (c *Client) UploadLampiranTagihan(ctx context.Context, nisn, fileName string, pdf []byte) error {
	fields := map[string]string{"nisn": nisn}
	return c.postMultipart(ctx, "tagihan/lampiran", fields, "file", fileName, pdf, nil)
}
