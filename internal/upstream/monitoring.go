package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/bendahara-app/bendahara/internal/billing"
)

// MonitoringEntry is one row of a monitoring listing, already normalized
// from the upstream's string-formatted amounts.
type MonitoringEntry struct {
	NISN    string
	Nama    string
	Jenjang string
	Program string
	Jumlah  int64
	Status  string
}

type monitoringRecord struct {
	NISN    string `json:"nisn"`
	Nama    string `json:"nama"`
	Jenjang string `json:"jenjang"`
	Program string `json:"program"`
	Jumlah  string `json:"jumlah"`
	Status  string `json:"status"`
}

// FetchMonitoring retrieves a complete Laravel-paginated listing from
// the given monitoring path. Page 1 is requested first to learn
// last_page, then the remaining pages are fetched concurrently and the
// results merged in page order. Exactly last_page requests are issued.
func (c *Client) FetchMonitoring(ctx context.Context, path string, query url.Values) ([]MonitoringEntry, error) {
	first, err := c.fetchMonitoringPage(ctx, path, query, 1)
	if err != nil {
		return nil, err
	}

	entries := decodeMonitoringPage(first)
	if first.Data.LastPage <= 1 {
		return entries, nil
	}

	type pageResult struct {
		page    int
		entries []MonitoringEntry
	}

	g, gctx := errgroup.WithContext(ctx)
	results := make(chan pageResult, first.Data.LastPage-1)
	for page := 2; page <= first.Data.LastPage; page++ {
		g.Go(func() error {
			p, err := c.fetchMonitoringPage(gctx, path, query, page)
			if err != nil {
				return err
			}
			results <- pageResult{page: page, entries: decodeMonitoringPage(p)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(results)

	rest := make([]pageResult, 0, first.Data.LastPage-1)
	for r := range results {
		rest = append(rest, r)
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].page < rest[j].page })
	for _, r := range rest {
		entries = append(entries, r.entries...)
	}
	return entries, nil
}

func (c *Client) fetchMonitoringPage(ctx context.Context, path string, query url.Values, page int) (*laravelPage, error) {
	q := url.Values{}
	for key, values := range query {
		q[key] = values
	}
	q.Set("page", fmt.Sprintf("%d", page))

	var result laravelPage
	if err := c.getJSON(ctx, path, q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func decodeMonitoringPage(page *laravelPage) []MonitoringEntry {
	entries := make([]MonitoringEntry, 0, len(page.Data.Data))
	for _, raw := range page.Data.Data {
		var record monitoringRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			continue
		}
		entries = append(entries, MonitoringEntry{
			NISN:    record.NISN,
			Nama:    record.Nama,
			Jenjang: record.Jenjang,
			Program: record.Program,
			Jumlah:  billing.ParseRupiah(record.Jumlah),
			Status:  record.Status,
		})
	}
	return entries
}
