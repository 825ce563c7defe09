package upstream

import "context"

// CreateTunggakanInput is the payload for POST tunggakan/create. The
// carry-forward is one free-form amount, not split into categories.
type CreateTunggakanInput struct {
	NISN        string `json:"nisn"`
	TahunAjaran string `json:"tahun_ajaran"`
	Jumlah      int64  `json:"jumlah"`
	Keterangan  string `json:"keterangan"`
}

// CreateTunggakan records a prior-year arrears entry with the upstream.
func (c *Client) CreateTunggakan(ctx context.Context, input CreateTunggakanInput) error {
	return c.postJSON(ctx, "tunggakan/create", input, nil)
}
