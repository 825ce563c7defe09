package upstream

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/bendahara-app/bendahara/internal/billing"
)

// SearchSiswa looks up students by free-text query via GET cari-siswa.
// The endpoint returns a bare array, no envelope.
func (c *Client) SearchSiswa(ctx context.Context, query string) ([]billing.Siswa, error) {
	q := url.Values{}
	q.Set("query", query)

	var raw json.RawMessage
	if err := c.getJSON(ctx, "cari-siswa", q, &raw); err != nil {
		return nil, err
	}

	var records []struct {
		NISN    string `json:"nisn"`
		Nama    string `json:"nama"`
		Jenjang string `json:"jenjang"`
		Program string `json:"program"`
	}
	if err := unwrapStatus(raw, &records); err != nil {
		return nil, err
	}

	siswa := make([]billing.Siswa, 0, len(records))
	for _, r := range records {
		siswa = append(siswa, billing.Siswa{
			NISN:    r.NISN,
			Nama:    r.Nama,
			Jenjang: r.Jenjang,
			Program: r.Program,
		})
	}
	return siswa, nil
}
