package upstream

import (
	"context"
	"strconv"
)

// CreatePengeluaranInput carries one expense entry plus its receipt
// file. Satuan and Jumlah are whole Rupiah; Total is the already
// computed satuan times quantity.
type CreatePengeluaranInput struct {
	Deskripsi string
	Kategori  string
	Satuan    int64
	Kuantitas int
	Total     int64
	Tanggal   string
	StrukName string
	Struk     []byte
}

// CreatePengeluaran posts an expense entry with its receipt attachment
// as multipart form data.
func (c *Client) CreatePengeluaran(ctx context.Context, input CreatePengeluaranInput) error {
	fields := map[string]string{
		"deskripsi": input.Deskripsi,
		"kategori":  input.Kategori,
		"satuan":    strconv.FormatInt(input.Satuan, 10),
		"kuantitas": strconv.Itoa(input.Kuantitas),
		"total":     strconv.FormatInt(input.Total, 10),
		"tanggal":   input.Tanggal,
	}
	return c.postMultipart(ctx, "monitoring-pengeluaran/create", fields, "struk", input.StrukName, input.Struk, nil)
}

// UploadKontrak posts a signed extracurricular contract PDF for a
// student.
func (c *Client) UploadKontrak(ctx context.Context, nisn, fileName string, pdf []byte) error {
	fields := map[string]string{"nisn": nisn}
	return c.postMultipart(ctx, "kontrak", fields, "file", fileName, pdf, nil)
}
